/*
NAME
  pps.go

DESCRIPTION
  pps.go parses an H.264/AVC picture parameter set RBSP, per ITU-T H.264
  section 7.3.2.2. Grounded on codec/h264/h264dec/pps.go, trimmed to the
  fields the slice header parser needs to cross-reference (entropy coding
  mode, number of slice groups) and ported onto bitio.Reader.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avc

import (
	"bytes"

	"github.com/ausocean/bitscope/bitio"
)

// PPS is the subset of picture parameter set fields bitscope consumes.
type PPS struct {
	ID                     int
	SPSID                  int
	EntropyCodingModeFlag  bool
	NumSliceGroupsMinus1   uint64
	RedundantPicCntPresent bool
}

// ParsePPS parses a de-emulated PPS RBSP.
func ParsePPS(rbsp []byte) (*PPS, error) {
	br := bitio.NewReader(bytes.NewReader(rbsp), 0)
	p := &PPS{}

	id, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	p.ID = int(id)
	spsID, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	p.SPSID = int(spsID)

	p.EntropyCodingModeFlag, err = br.ReadBit()
	if err != nil {
		return nil, err
	}
	if _, err := br.ReadBit(); err != nil { // bottom_field_pic_order_in_frame_present_flag.
		return nil, err
	}
	p.NumSliceGroupsMinus1, err = br.ReadUE()
	if err != nil {
		return nil, err
	}
	// Slice group mapping, reference list sizing, and remaining PPS
	// fields are not needed by the unit tree or overlay layers; parsing
	// stops here since NAL boundaries come from start codes / length
	// prefixes, not from exact bit consumption.
	return p, nil
}
