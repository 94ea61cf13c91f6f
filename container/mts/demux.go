/*
NAME
  demux.go

DESCRIPTION
  demux.go adds read-side demuxing to this package's existing MPEG-TS
  packet utilities: it walks a buffered MPEG-TS clip's video elementary
  PID, reassembles its PES packets, and yields them as access units. This
  is the bonus fifth container format (beyond IVF/MP4/MKV/Annex-B): the
  rest of this package (FindPSI, Streams, Payload, PID, extractPTS, ...)
  is the teacher's own encode-side MPEG-TS toolkit, reused here unchanged
  for the read side it was never exercised on.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/bitscope/container"
)

// MPEG-TS stream_type values (ISO/IEC 13818-1 Table 2-34) for the
// elementary stream codecs spec §6 supports.
const (
	streamTypeMPEG2Video = 0x02
	streamTypeAVC        = 0x1B
	streamTypeHEVC       = 0x24
)

func codecForStreamType(t uint8) container.Codec {
	switch t {
	case streamTypeMPEG2Video:
		return container.CodecMPEG2
	case streamTypeAVC:
		return container.CodecAVC
	case streamTypeHEVC:
		return container.CodecHEVC
	default:
		return container.CodecUnknown
	}
}

type pesUnit struct {
	offset uint64
	data   []byte
}

// Demuxer demuxes one recognised video elementary stream of an in-memory
// MPEG-TS buffer into access units. When the PMT lists several supported
// video streams, which one is chosen is not defined.
type Demuxer struct {
	data  []byte
	codec container.Codec
	units []container.AccessUnit
	next  int
}

// ErrNoVideoStream is returned by New when the program's PMT lists no
// elementary stream of a supported video stream_type.
var ErrNoVideoStream = errors.New("mts: no supported video elementary stream")

// New locates the program's video elementary PID via the existing
// FindPSI/Streams helpers, reassembles its PES packets, and returns a
// ready Demuxer.
func New(data []byte) (*Demuxer, error) {
	patIdx, streamMap, _, err := FindPSI(data)
	if err != nil {
		return nil, errors.Wrap(err, "mts: finding PAT/PMT")
	}
	_ = patIdx

	var pid uint16
	var codec container.Codec
	found := false
	for p, t := range streamMap {
		c := codecForStreamType(t)
		if c == container.CodecUnknown {
			continue
		}
		pid, codec, found = p, c, true
		break
	}
	if !found {
		return nil, ErrNoVideoStream
	}

	pesUnits, err := reassemblePES(data, pid)
	if err != nil {
		return nil, err
	}

	units := make([]container.AccessUnit, 0, len(pesUnits))
	for _, u := range pesUnits {
		es, pts, hasPTS, dts, hasDTS, ok := parsePESPacket(u.data)
		if !ok {
			continue
		}
		units = append(units, container.AccessUnit{
			Bytes:      es,
			FileOffset: u.offset,
			PTS:        pts,
			HasPTS:     hasPTS,
			DTS:        dts,
			HasDTS:     hasDTS,
		})
	}

	return &Demuxer{data: data, codec: codec, units: units}, nil
}

// reassemblePES walks data as a sequence of 188-byte TS packets, collecting
// every packet belonging to pid and splitting the result into individual
// PES packets at each payload_unit_start_indicator.
func reassemblePES(data []byte, pid uint16) ([]pesUnit, error) {
	var units []pesUnit
	var cur []byte
	var curOffset uint64
	started := false

	for i := 0; i+PacketSize <= len(data); i += PacketSize {
		pkt := data[i : i+PacketSize]
		if pkt[0] != 0x47 {
			continue
		}
		p, err := PID(pkt)
		if err != nil || p != pid {
			continue
		}
		payload, err := Payload(pkt)
		if err != nil {
			continue
		}
		pusi := pkt[1]&0x40 != 0

		if pusi {
			if started {
				units = append(units, pesUnit{offset: curOffset, data: cur})
			}
			cur = append([]byte(nil), payload...)
			curOffset = uint64(i)
			started = true
			continue
		}
		if started {
			cur = append(cur, payload...)
		}
	}
	if started {
		units = append(units, pesUnit{offset: curOffset, data: cur})
	}
	return units, nil
}

// parsePESPacket splits a reassembled PES packet into its elementary
// stream payload and optional PTS/DTS, per ISO/IEC 13818-1 section 2.4.3.6.
func parsePESPacket(pes []byte) (es []byte, pts int64, hasPTS bool, dts int64, hasDTS bool, ok bool) {
	const fixedHeaderLen = 9
	if len(pes) < fixedHeaderLen {
		return nil, 0, false, 0, false, false
	}
	if pes[0] != 0x00 || pes[1] != 0x00 || pes[2] != 0x01 {
		return nil, 0, false, 0, false, false
	}

	flags2 := pes[7]
	headerDataLen := int(pes[8])
	esStart := fixedHeaderLen + headerDataLen
	if esStart > len(pes) {
		return nil, 0, false, 0, false, false
	}

	ptsDtsFlags := (flags2 >> 6) & 0x3
	optional := pes[fixedHeaderLen:]
	if ptsDtsFlags&0x2 != 0 && len(optional) >= 5 {
		pts = extractPTS(optional[0:5])
		hasPTS = true
	}
	if ptsDtsFlags == 0x3 && len(optional) >= 10 {
		dts = extractPTS(optional[5:10])
		hasDTS = true
	}

	return pes[esStart:], pts, hasPTS, dts, hasDTS, true
}

// Codec implements container.Demuxer.
func (d *Demuxer) Codec() container.Codec { return d.codec }

// Dimensions implements container.Demuxer; MPEG-TS carries no container-
// level dimensions, only what the elementary stream's own headers state.
func (d *Demuxer) Dimensions() (int, int, bool) { return 0, 0, false }

// Next implements container.Demuxer.
func (d *Demuxer) Next() (container.AccessUnit, error) {
	if d.next >= len(d.units) {
		return container.AccessUnit{}, io.EOF
	}
	u := d.units[d.next]
	d.next++
	return u, nil
}

func init() {
	container.RegisterOpener(container.FormatMPEGTS, func(data []byte) (container.Demuxer, error) {
		return New(data)
	})
}
