/*
NAME
  annexb.go

DESCRIPTION
  annexb.go provides the Annex-B container demuxer (spec §6): Annex-B
  streams carry a raw sequence of NAL/OBU-style units delimited by
  00 00 01 / 00 00 00 01 start codes, with no outer framing. Grounded on
  the teacher's NAL-splitting lexer in codec/h264/lex.go, generalized
  across AVC, HEVC, VVC and MPEG-2 start-code streams and restructured to
  yield spec's AccessUnit sequence instead of writing split NALs to an
  io.Writer.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package annexb demuxes raw Annex-B elementary streams (AVC, HEVC, VVC
// and MPEG-2 start-code streams) into access units, per spec §6.
package annexb

import (
	"io"

	"github.com/ausocean/bitscope/container"
)

// nalUnit is one start-code-delimited unit: its payload (excluding the
// start code) and its absolute byte offset within the stream.
type nalUnit struct {
	offset  uint64
	payload []byte
}

// classifyFunc reports whether a unit's payload is a VCL (picture data)
// unit and/or an access unit delimiter, the two facts the grouping loop
// in Next needs.
type classifyFunc func(payload []byte) (isVCL, isAUD bool)

// Demuxer demuxes an in-memory Annex-B buffer into access units. The
// whole stream is held in memory: an inspector analyzes one loaded file
// at a time and the EvidenceChain's bit-offset anchoring needs stable
// absolute file offsets, so there is no benefit to a streaming reader
// here.
type Demuxer struct {
	data     []byte
	codec    container.Codec
	classify classifyFunc

	units []nalUnit
	next  int
}

// NewAVC returns a Demuxer for an Annex-B H.264/AVC stream.
func NewAVC(data []byte) *Demuxer {
	return newDemuxer(data, container.CodecAVC, avcClassify)
}

// NewHEVC returns a Demuxer for an Annex-B H.265/HEVC stream.
func NewHEVC(data []byte) *Demuxer {
	return newDemuxer(data, container.CodecHEVC, hevcClassify)
}

// NewVVC returns a Demuxer for an Annex-B H.266/VVC stream.
func NewVVC(data []byte) *Demuxer {
	return newDemuxer(data, container.CodecVVC, vvcClassify)
}

// NewMPEG2 returns a Demuxer for an Annex-B MPEG-2 video elementary
// stream.
func NewMPEG2(data []byte) *Demuxer {
	return newDemuxer(data, container.CodecMPEG2, mpeg2Classify)
}

// New guesses the elementary codec from the first few start-code units
// and returns a matching Demuxer. Annex-B carries no codec tag, so this
// is necessarily a heuristic; OpenFile should prefer an explicit codec
// hint (file extension, user selection) over this guess when one is
// available.
func New(data []byte) (*Demuxer, error) {
	return newDemuxer(data, guessCodec(data), classifyFor(guessCodec(data))), nil
}

func classifyFor(codec container.Codec) classifyFunc {
	switch codec {
	case container.CodecHEVC:
		return hevcClassify
	case container.CodecVVC:
		return vvcClassify
	case container.CodecMPEG2:
		return mpeg2Classify
	default:
		return avcClassify
	}
}

// guessCodec inspects the first handful of start-code units to
// distinguish MPEG-2 (unambiguous: a 0x00 picture_start_code or 0xB3
// sequence_header_code first byte), AVC (nal_unit_type forbidden bit
// always 0 and type in 1-23), from HEVC/VVC (2-byte NAL headers). VVC
// and HEVC both use 2-byte headers with similar layouts; VVC's
// nuh_layer_id occupies more header bits and its AUD type (20) differs
// from HEVC's (35), which this uses as the deciding signal when an AUD
// is present. Absent stronger evidence, HEVC is assumed since it is the
// more common of the two at time of writing.
func guessCodec(data []byte) container.Codec {
	units := splitStartCodes(data)
	for _, u := range units {
		if len(u.payload) == 0 {
			continue
		}
		switch u.payload[0] {
		case 0x00, 0xB3:
			return container.CodecMPEG2
		}
	}
	for _, u := range units {
		if len(u.payload) < 2 {
			continue
		}
		if u.payload[0]&0x80 != 0 {
			continue // forbidden_zero_bit set: not a valid AVC/HEVC/VVC NAL.
		}
		typ := (u.payload[1] >> 3) & 0x1f
		if typ == vvcAUDNut {
			return container.CodecVVC
		}
	}
	if len(units) > 0 && len(units[0].payload) > 0 {
		avcType := units[0].payload[0] & 0x1f
		if avcType >= 1 && avcType <= 23 {
			return container.CodecAVC
		}
	}
	return container.CodecHEVC
}

func newDemuxer(data []byte, codec container.Codec, c classifyFunc) *Demuxer {
	d := &Demuxer{data: data, codec: codec, classify: c}
	d.units = splitStartCodes(data)
	return d
}

// Codec implements container.Demuxer.
func (d *Demuxer) Codec() container.Codec { return d.codec }

// Dimensions implements container.Demuxer; Annex-B carries no container
// header, so dimensions are only discoverable from the elementary
// stream's own sequence/parameter headers.
func (d *Demuxer) Dimensions() (int, int, bool) { return 0, 0, false }

// Next implements container.Demuxer, grouping consecutive NAL units into
// access units: a unit starts a new access unit if it is an access unit
// delimiter, or if it is a VCL unit and the current access unit already
// contains one.
//
// Multi-slice pictures are approximated as a single access unit per VCL
// NAL encountered; correctly detecting first_mb_in_slice == 0 (AVC) or
// first_slice_segment_in_pic_flag (HEVC/VVC) would require parsing the
// slice header itself, which these demuxers do not do. Single-slice
// streams, the overwhelming majority of test and real-world content, are
// handled exactly.
func (d *Demuxer) Next() (container.AccessUnit, error) {
	if d.next >= len(d.units) {
		return container.AccessUnit{}, io.EOF
	}

	start := d.next
	i := start
	hasVCL := false
	for i < len(d.units) {
		isVCL, isAUD := d.classify(d.units[i].payload)
		if i > start && (isAUD || (isVCL && hasVCL)) {
			break
		}
		if isVCL {
			hasVCL = true
		}
		i++
	}

	first := d.units[start]
	var end uint64
	if i < len(d.units) {
		end = d.units[i].offset
	} else {
		end = uint64(len(d.data))
	}
	d.next = i

	return container.AccessUnit{
		Bytes:      d.data[first.offset:end],
		FileOffset: first.offset,
	}, nil
}

// splitStartCodes locates every 00 00 01 / 00 00 00 01 start code in data
// and returns the units between them, each tagged with the absolute byte
// offset of its start code.
func splitStartCodes(data []byte) []nalUnit {
	var starts []int
	for i := 0; i+2 < len(data); i++ {
		if data[i] != 0 || data[i+1] != 0 {
			continue
		}
		if data[i+2] == 1 {
			starts = append(starts, i)
			i += 2
			continue
		}
		if i+3 < len(data) && data[i+2] == 0 && data[i+3] == 1 {
			starts = append(starts, i)
			i += 3
		}
	}
	if len(starts) == 0 {
		return nil
	}

	units := make([]nalUnit, 0, len(starts))
	for k, s := range starts {
		codeLen := 3
		if s+3 < len(data) && data[s+2] == 0 {
			codeLen = 4
		}
		payloadStart := s + codeLen
		var payloadEnd int
		if k+1 < len(starts) {
			payloadEnd = starts[k+1]
		} else {
			payloadEnd = len(data)
		}
		if payloadStart >= payloadEnd {
			continue
		}
		units = append(units, nalUnit{offset: uint64(s), payload: data[payloadStart:payloadEnd]})
	}
	return units
}

// AVC NAL unit types, ITU-T H.264 Table 7-1.
const (
	avcNonIDR = 1
	avcSPS    = 7
	avcPPS    = 8
	avcAUD    = 9
	avcIDR    = 5
)

func avcClassify(payload []byte) (isVCL, isAUD bool) {
	if len(payload) == 0 {
		return false, false
	}
	typ := payload[0] & 0x1f
	switch typ {
	case avcAUD:
		return false, true
	case avcNonIDR, avcIDR:
		return true, false
	default:
		return false, false
	}
}

// HEVC NAL unit types, ITU-T H.265 Table 7-1.
const (
	hevcCraNut = 21 // Types 0-21 are treated as VCL; reserved 22-31 are not.
	hevcAUD    = 35
)

func hevcClassify(payload []byte) (isVCL, isAUD bool) {
	if len(payload) < 2 {
		return false, false
	}
	typ := (payload[0] >> 1) & 0x3f
	if typ == hevcAUD {
		return false, true
	}
	return typ <= hevcCraNut, false
}

// VVC NAL unit types, ITU-T H.266 Table 5.
const (
	vvcGdrNut = 11 // Last VCL type (reserved IRAP 11; GDR_NUT is 10); VCL types are 0-11.
	vvcAUDNut = 20
)

func vvcClassify(payload []byte) (isVCL, isAUD bool) {
	if len(payload) < 2 {
		return false, false
	}
	typ := (payload[1] >> 3) & 0x1f
	if typ == vvcAUDNut {
		return false, true
	}
	return typ <= vvcGdrNut, false
}

// mpeg2Classify treats each picture_start_code (0x00) as the start of a
// new access unit; slice start codes (0x01-0xAF) and other extension
// codes are not VCL in this codec-independent sense and stay within the
// current unit.
func mpeg2Classify(payload []byte) (isVCL, isAUD bool) {
	if len(payload) == 0 {
		return false, false
	}
	return payload[0] == 0x00, false
}

func init() {
	container.RegisterOpener(container.FormatAnnexB, func(data []byte) (container.Demuxer, error) {
		return New(data)
	})
}
