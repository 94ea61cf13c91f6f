/*
NAME
  picture.go

DESCRIPTION
  picture.go parses an MPEG-2 picture_header(), ISO/IEC 13818-2 section
  6.2.3, for temporal_reference and picture_coding_type.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2

import (
	"bytes"

	"github.com/ausocean/bitscope/bitio"
)

// Picture coding types, ISO/IEC 13818-2 Table 6-12.
const (
	PictureI = 1
	PictureP = 2
	PictureB = 3
	PictureD = 4
)

// PictureHeader is the subset of picture_header() fields bitscope
// consumes.
type PictureHeader struct {
	TemporalReference uint64
	CodingType        int
}

// ParsePictureHeader parses a picture_header() payload (the bytes after
// the 00 00 01 00 start code).
func ParsePictureHeader(payload []byte) (*PictureHeader, error) {
	br := bitio.NewReader(bytes.NewReader(payload), 0)
	ref, err := br.ReadBits(10)
	if err != nil {
		return nil, err
	}
	codingType, err := br.ReadBits(3)
	if err != nil {
		return nil, err
	}
	// vbv_delay and the forward/backward motion vector fields that follow
	// are not needed to classify the picture, so parsing stops here.
	return &PictureHeader{TemporalReference: ref, CodingType: int(codingType)}, nil
}

func codingTypeName(t int) string {
	switch t {
	case PictureI:
		return "I"
	case PictureP:
		return "P"
	case PictureB:
		return "B"
	case PictureD:
		return "D"
	default:
		return "RESERVED"
	}
}
