/*
NAME
  mkv.go

DESCRIPTION
  mkv.go demuxes a Matroska/WebM file's first video track into access
  units, per spec §6: it locates Segment -> Tracks for the video
  TrackEntry's CodecID and pixel dimensions, then walks Segment ->
  Cluster -> SimpleBlock/BlockGroup for that track's frames and
  timecodes.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mkv

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/bitscope/container"
)

// EBML/Matroska element IDs relevant to video track and cluster parsing.
const (
	idSegment     uint32 = 0x18538067
	idTracks      uint32 = 0x1654AE6B
	idTrackEntry  uint32 = 0xAE
	idTrackNumber uint32 = 0xD7
	idTrackType   uint32 = 0x83
	idCodecID     uint32 = 0x86
	idVideo       uint32 = 0xE0
	idPixelWidth  uint32 = 0xB0
	idPixelHeight uint32 = 0xBA
	idCluster     uint32 = 0x1F43B675
	idTimecode    uint32 = 0xE7
	idSimpleBlock uint32 = 0xA3
	idBlockGroup  uint32 = 0xA0
	idBlock       uint32 = 0xA1
)

const trackTypeVideo = 1

// ErrNoVideoTrack is returned by New when no TrackEntry has TrackType ==
// video.
var ErrNoVideoTrack = errors.New("mkv: no video track found")

type frame struct {
	offset  int
	payload []byte
	pts     int64
}

// Demuxer demuxes an in-memory Matroska/WebM buffer's first video track
// into access units.
type Demuxer struct {
	data    []byte
	codec   container.Codec
	width   int
	height  int
	frames  []frame
	next    int
}

// New parses data's EBML element tree and returns a Demuxer for its
// first video track.
func New(data []byte) (*Demuxer, error) {
	top, _ := parseElements(data)
	segment, ok := find(top, idSegment)
	if !ok {
		return nil, errors.New("mkv: no Segment element")
	}
	children, _ := parseElements(data[segment.start:segment.end])
	offsetElements(children, segment.start)

	tracksEl, ok := find(children, idTracks)
	if !ok {
		return nil, errors.New("mkv: no Tracks element")
	}
	trackEntries, _ := parseElements(data[tracksEl.start:tracksEl.end])
	offsetElements(trackEntries, tracksEl.start)

	var trackNumber uint64
	var codec container.Codec
	var width, height int
	found := false
	for _, te := range findAll(trackEntries, idTrackEntry) {
		fields, _ := parseElements(data[te.start:te.end])
		offsetElements(fields, te.start)

		tt, ok := find(fields, idTrackType)
		if !ok || !isVideoTrackType(data, tt) {
			continue
		}
		cid, ok := find(fields, idCodecID)
		if !ok {
			continue
		}
		codec = codecIDToCodec(string(data[cid.start:cid.end]))
		if codec == container.CodecUnknown {
			continue
		}
		if tn, ok := find(fields, idTrackNumber); ok {
			trackNumber = beUint(data[tn.start:tn.end])
		}
		if v, ok := find(fields, idVideo); ok {
			vf, _ := parseElements(data[v.start:v.end])
			offsetElements(vf, v.start)
			if pw, ok := find(vf, idPixelWidth); ok {
				width = int(beUint(data[pw.start:pw.end]))
			}
			if ph, ok := find(vf, idPixelHeight); ok {
				height = int(beUint(data[ph.start:ph.end]))
			}
		}
		found = true
		break
	}
	if !found {
		return nil, ErrNoVideoTrack
	}

	var frames []frame
	for _, cl := range findAll(children, idCluster) {
		clFields, _ := parseElements(data[cl.start:cl.end])
		offsetElements(clFields, cl.start)

		var clusterTC int64
		if tc, ok := find(clFields, idTimecode); ok {
			clusterTC = int64(beUint(data[tc.start:tc.end]))
		}

		for _, sb := range findAll(clFields, idSimpleBlock) {
			if f, ok := parseBlock(data, sb, trackNumber, clusterTC); ok {
				frames = append(frames, f)
			}
		}
		for _, bg := range findAll(clFields, idBlockGroup) {
			bgFields, _ := parseElements(data[bg.start:bg.end])
			offsetElements(bgFields, bg.start)
			if blk, ok := find(bgFields, idBlock); ok {
				if f, ok := parseBlock(data, blk, trackNumber, clusterTC); ok {
					frames = append(frames, f)
				}
			}
		}
	}

	return &Demuxer{data: data, codec: codec, width: width, height: height, frames: frames}, nil
}

func offsetElements(elems []element, delta int) {
	for i := range elems {
		elems[i].start += delta
		elems[i].end += delta
	}
}

func isVideoTrackType(data []byte, e element) bool {
	return beUint(data[e.start:e.end]) == trackTypeVideo
}

func beUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func codecIDToCodec(id string) container.Codec {
	switch id {
	case "V_MPEG4/ISO/AVC":
		return container.CodecAVC
	case "V_MPEGH/ISO/HEVC":
		return container.CodecHEVC
	case "V_MPEGI/ISO/VVC":
		return container.CodecVVC
	case "V_AV1":
		return container.CodecAV1
	case "V_VP9":
		return container.CodecVP9
	case "V_MPEG2":
		return container.CodecMPEG2
	default:
		return container.CodecUnknown
	}
}

// parseBlock decodes a (Simple)Block element and reports whether it
// belongs to wantTrack. Lacing is not supported: a laced block's payload
// is returned whole, which callers should treat as a single diagnostic-
// worthy access unit rather than a decode error.
func parseBlock(data []byte, e element, wantTrack uint64, clusterTC int64) (frame, bool) {
	pos := e.start
	trackNum, n, err := readVint(data, pos, false)
	if err != nil || trackNum != wantTrack {
		return frame{}, false
	}
	pos += n
	if pos+3 > e.end {
		return frame{}, false
	}
	tcOffset := int16(uint16(data[pos])<<8 | uint16(data[pos+1]))
	pos += 3 // 2-byte relative timecode + 1-byte flags.

	return frame{
		offset:  pos,
		payload: data[pos:e.end],
		pts:     clusterTC + int64(tcOffset),
	}, true
}

// Codec implements container.Demuxer.
func (d *Demuxer) Codec() container.Codec { return d.codec }

// Dimensions implements container.Demuxer.
func (d *Demuxer) Dimensions() (int, int, bool) {
	return d.width, d.height, d.width > 0 && d.height > 0
}

// Next implements container.Demuxer.
func (d *Demuxer) Next() (container.AccessUnit, error) {
	if d.next >= len(d.frames) {
		return container.AccessUnit{}, io.EOF
	}
	f := d.frames[d.next]
	d.next++
	return container.AccessUnit{
		Bytes:      f.payload,
		FileOffset: uint64(f.offset),
		PTS:        f.pts,
		HasPTS:     true,
	}, nil
}

func init() {
	container.RegisterOpener(container.FormatMKV, func(data []byte) (container.Demuxer, error) {
		return New(data)
	})
}
