/*
NAME
  superframe.go

DESCRIPTION
  superframe.go splits a VP9 access unit into its constituent frames
  using the superframe index, VP9 Bitstream & Decoding Process
  Specification Annex B. A superframe bundles a hidden alt-ref frame
  with the frame that is actually shown; bitscope needs each one's own
  uncompressed header to classify it.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vp9 implements the VP9 CodecSyntaxParser, per spec §6.
package vp9

// SubFrame is one frame within a VP9 access unit.
type SubFrame struct {
	Offset uint64
	Data   []byte
}

// SplitSuperframe splits data into its constituent frames. A unit with
// no superframe index is returned as a single frame.
func SplitSuperframe(data []byte) []SubFrame {
	if len(data) < 2 {
		return []SubFrame{{Data: data}}
	}

	marker := data[len(data)-1]
	if marker&0xe0 != 0xc0 {
		return []SubFrame{{Data: data}}
	}

	framesInSuperframe := int(marker&0x7) + 1
	bytesPerFramesize := int((marker>>3)&0x3) + 1
	indexSize := 2 + framesInSuperframe*bytesPerFramesize
	if indexSize > len(data) {
		return []SubFrame{{Data: data}}
	}
	indexStart := len(data) - indexSize
	if data[indexStart] != marker {
		// Leading marker byte mismatch: not actually a superframe index.
		return []SubFrame{{Data: data}}
	}

	frames := make([]SubFrame, 0, framesInSuperframe)
	pos := uint64(0)
	idxPos := indexStart + 1
	for i := 0; i < framesInSuperframe; i++ {
		size := uint64(0)
		for b := 0; b < bytesPerFramesize; b++ {
			size |= uint64(data[idxPos]) << uint(b*8)
			idxPos++
		}
		if pos+size > uint64(indexStart) {
			// Malformed index: recover by returning what's parsed so far.
			break
		}
		frames = append(frames, SubFrame{Offset: pos, Data: data[pos : pos+size]})
		pos += size
	}
	if len(frames) == 0 {
		return []SubFrame{{Data: data}}
	}
	return frames
}
