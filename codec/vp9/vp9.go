/*
NAME
  vp9.go

DESCRIPTION
  vp9.go implements codec.SyntaxParser for VP9 (spec §6): each access
  unit is a superframe, split into its constituent frames via the
  superframe index (Annex B), with a child unit.Node per frame. The
  sub-frames up to and including the first shown one (show_frame=1)
  decide the access unit's frame type. Each access unit is one entry on
  the display axis, so a hidden alt-ref frame inside a superframe gets
  no display entry of its own; show_frame is not stored on the child
  nodes, and an access unit holding only hidden frames still counts as
  a displayed frame.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vp9

import (
	"github.com/ausocean/bitscope/codec"
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/unit"
)

// Parser is the vp9.SyntaxParser.
type Parser struct {
	width, height int
	haveDim       bool
}

func newParser() codec.SyntaxParser { return &Parser{} }

func init() {
	codec.Register(container.CodecVP9, newParser)
}

// Codec implements codec.SyntaxParser.
func (p *Parser) Codec() container.Codec { return container.CodecVP9 }

// SeenDimensions implements codec.SyntaxParser.
func (p *Parser) SeenDimensions() (int, int, bool) { return p.width, p.height, p.haveDim }

// ParseAccessUnit implements codec.SyntaxParser.
func (p *Parser) ParseAccessUnit(au container.AccessUnit, frameIndex uint32) (codec.ParsedUnit, error) {
	subFrames := SplitSuperframe(au.Bytes)

	accessUnit := &unit.Node{
		UnitType:      "ACCESS_UNIT",
		FileOffset:    au.FileOffset,
		Size:          uint64(len(au.Bytes)),
		HasFrameIndex: true,
		FrameIndex:    frameIndex,
		HasPTS:        au.HasPTS,
		PTS:           au.PTS,
		HasDTS:        au.HasDTS,
		DTS:           au.DTS,
	}

	var quirks frame.Quirks
	frameType := unit.FrameTypeUnknown
	isKey := false
	shownSeen := false

	for _, sf := range subFrames {
		child := &unit.Node{
			UnitType:   "VP9_FRAME",
			FileOffset: au.FileOffset + sf.Offset,
			Size:       uint64(len(sf.Data)),
		}

		hdr, err := ParseHeader(sf.Data)
		if err != nil {
			accessUnit.AddChild(child)
			continue
		}

		if hdr.ShowExistingFrame {
			child.Display = "SHOW_EXISTING_FRAME"
			if !shownSeen {
				quirks.IsVirtual = true
				quirks.RefSlot = uint32(hdr.FrameToShowMapIdx)
				quirks.HasRefSlot = true
				frameType = unit.FrameTypeInter
				shownSeen = true
			}
			accessUnit.AddChild(child)
			continue
		}

		if hdr.HasDimensions {
			p.width, p.height, p.haveDim = hdr.Width, hdr.Height, true
		}
		if hdr.FrameType == FrameKey {
			child.Display = "KEY_FRAME"
		} else {
			child.Display = "INTER_FRAME"
		}

		// A superframe's hidden alt-ref is typically the first frame with
		// show_frame=0; the actually-displayed frame (usually last, always
		// the one with show_frame=1) determines the access unit's type.
		if hdr.ShowFrame || !shownSeen {
			if hdr.FrameType == FrameKey {
				frameType = unit.FrameTypeKey
				isKey = true
			} else if frameType != unit.FrameTypeKey {
				frameType = unit.FrameTypeInter
			}
		}
		if hdr.ShowFrame {
			shownSeen = true
		}
		accessUnit.AddChild(child)
	}

	if frameType == unit.FrameTypeUnknown {
		frameType = unit.FrameTypeInter
	}
	accessUnit.HasFrameType = true
	accessUnit.FrameType = frameType

	return codec.ParsedUnit{
		Node:    accessUnit,
		Meta:    frame.Metadata{PTS: au.PTS, HasPTS: au.HasPTS, DTS: au.DTS, HasDTS: au.HasDTS},
		Quirks:  quirks,
		KeyUnit: isKey,
	}, nil
}
