/*
NAME
  framehdr.go

DESCRIPTION
  framehdr.go reads just enough of an AV1 uncompressed_header() (spec
  section 5.9.2) to recover show_existing_frame and frame_type: the two
  leading fields needed to classify a frame without parsing the full
  header (which branches heavily on state carried across OBU_FRAME_HEADER
  and OBU_FRAME boundaries that bitscope does not track). This mirrors
  codec/hevc's choice to derive frame type from NAL/OBU-level signalling
  rather than the complete syntax.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package av1

import (
	"bytes"

	"github.com/ausocean/bitscope/bitio"
)

// AV1 frame types, spec section 6.8.2.
const (
	FrameKey = iota
	FrameInter
	FrameIntraOnly
	FrameSwitch
)

// FrameHeaderLead is the leading state of uncompressed_header().
type FrameHeaderLead struct {
	ShowExistingFrame bool
	FrameToShowMapIdx int
	FrameType         int
}

// ParseFrameHeaderLead reads show_existing_frame and, if the frame is
// not simply redisplaying a reference, frame_type.
func ParseFrameHeaderLead(payload []byte, reducedStillPictureHdr bool) (*FrameHeaderLead, error) {
	if reducedStillPictureHdr {
		return &FrameHeaderLead{FrameType: FrameKey}, nil
	}

	br := bitio.NewReader(bytes.NewReader(payload), 0)
	show, err := br.ReadBit()
	if err != nil {
		return nil, err
	}
	if show {
		idx, err := br.ReadBits(3)
		if err != nil {
			return nil, err
		}
		return &FrameHeaderLead{ShowExistingFrame: true, FrameToShowMapIdx: int(idx)}, nil
	}

	ft, err := br.ReadBits(2)
	if err != nil {
		return nil, err
	}
	return &FrameHeaderLead{FrameType: int(ft)}, nil
}
