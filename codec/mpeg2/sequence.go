/*
NAME
  sequence.go

DESCRIPTION
  sequence.go parses an MPEG-2 sequence_header(), ISO/IEC 13818-2
  section 6.2.2.1, for frame dimensions.

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

// SequenceHeader is the subset of sequence_header() fields bitscope
// consumes.
type SequenceHeader struct {
	Width, Height int
}

// ParseSequenceHeader parses a sequence_header() payload (the bytes
// after the 00 00 01 B3 start code).
func ParseSequenceHeader(payload []byte) (*SequenceHeader, error) {
	br := bitio.NewReader(bytes.NewReader(payload), 0)
	width, err := br.ReadBits(12)
	if err != nil {
		return nil, err
	}
	height, err := br.ReadBits(12)
	if err != nil {
		return nil, err
	}
	return &SequenceHeader{Width: int(width), Height: int(height)}, nil
}
