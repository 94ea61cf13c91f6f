/*
NAME
  ivf.go

DESCRIPTION
  ivf.go provides the IVF container demuxer (spec §6): a 32-byte file
  header naming a codec four-cc and coded dimensions, followed by frames
  each prefixed with a little-endian u32 size and u64 timestamp.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ivf demuxes the IVF container format into access units, per
// spec §6.
package ivf

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/bitscope/container"
)

const headerSize = 32

// Header is the 32-byte IVF file header.
type Header struct {
	FourCC        [4]byte
	Width, Height uint16
	TimebaseNum   uint32
	TimebaseDen   uint32
	FrameCount    uint32
}

// ErrBadMagic is returned by New when data does not begin with "DKIF".
var ErrBadMagic = errors.New("ivf: missing DKIF magic")

// ErrTruncatedHeader is returned by New when data is shorter than the
// fixed 32-byte header.
var ErrTruncatedHeader = errors.New("ivf: truncated header")

// Demuxer demuxes an in-memory IVF buffer into access units.
type Demuxer struct {
	data   []byte
	header Header
	codec  container.Codec
	pos    int
}

// New parses the IVF header from data and returns a ready Demuxer.
func New(data []byte) (*Demuxer, error) {
	if len(data) < headerSize {
		return nil, ErrTruncatedHeader
	}
	if string(data[0:4]) != "DKIF" {
		return nil, ErrBadMagic
	}

	var h Header
	copy(h.FourCC[:], data[8:12])
	h.Width = binary.LittleEndian.Uint16(data[12:14])
	h.Height = binary.LittleEndian.Uint16(data[14:16])
	h.TimebaseNum = binary.LittleEndian.Uint32(data[16:20])
	h.TimebaseDen = binary.LittleEndian.Uint32(data[20:24])
	h.FrameCount = binary.LittleEndian.Uint32(data[24:28])

	return &Demuxer{
		data:   data,
		header: h,
		codec:  fourCCToCodec(h.FourCC),
		pos:    headerSize,
	}, nil
}

func fourCCToCodec(fourCC [4]byte) container.Codec {
	switch string(fourCC[:]) {
	case "AV01":
		return container.CodecAV1
	case "VP90":
		return container.CodecVP9
	case "H264", "AVC1":
		return container.CodecAVC
	case "HEVC", "H265":
		return container.CodecHEVC
	case "VVC1", "H266":
		return container.CodecVVC
	default:
		return container.CodecUnknown
	}
}

// Codec implements container.Demuxer.
func (d *Demuxer) Codec() container.Codec { return d.codec }

// Dimensions implements container.Demuxer.
func (d *Demuxer) Dimensions() (int, int, bool) {
	return int(d.header.Width), int(d.header.Height), true
}

// Header returns the parsed IVF file header.
func (d *Demuxer) Header() Header { return d.header }

// frameHeaderSize is the per-frame size+timestamp prefix: u32 size, u64
// timestamp.
const frameHeaderSize = 12

// Next implements container.Demuxer. A frame whose declared size runs
// past the end of the buffer is treated as a non-fatal truncated trailer:
// the available bytes are returned and the following call yields io.EOF.
func (d *Demuxer) Next() (container.AccessUnit, error) {
	if d.pos >= len(d.data) {
		return container.AccessUnit{}, io.EOF
	}
	if d.pos+frameHeaderSize > len(d.data) {
		d.pos = len(d.data)
		return container.AccessUnit{}, io.EOF
	}

	frameOffset := uint64(d.pos)
	size := binary.LittleEndian.Uint32(d.data[d.pos : d.pos+4])
	ts := binary.LittleEndian.Uint64(d.data[d.pos+4 : d.pos+12])
	payloadStart := d.pos + frameHeaderSize

	payloadEnd := payloadStart + int(size)
	if payloadEnd > len(d.data) {
		payloadEnd = len(d.data)
	}

	d.pos = payloadEnd
	return container.AccessUnit{
		Bytes:      d.data[payloadStart:payloadEnd],
		FileOffset: frameOffset,
		PTS:        int64(ts),
		HasPTS:     true,
	}, nil
}

func init() {
	container.RegisterOpener(container.FormatIVF, func(data []byte) (container.Demuxer, error) {
		return New(data)
	})
}
