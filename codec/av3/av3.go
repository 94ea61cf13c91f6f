/*
NAME
  av3.go

DESCRIPTION
  av3.go implements codec.SyntaxParser for AV3, per spec §6: "Same OBU
  structure as AV1 with additional types... treat unknown OBU types as
  padding; never fail the stream." AV3 reuses codec/av1's OBU splitter
  and sequence/frame header syntax verbatim (both are leading-zero-count
  Exp-Golomb/OBU-framed bitstreams with the fields this package reads in
  the same bit positions), adding only the lenient unknown-type handling
  the spec calls for.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package av3 implements the AV3 CodecSyntaxParser, per spec §6.
package av3

import (
	"github.com/ausocean/bitscope/codec"
	"github.com/ausocean/bitscope/codec/av1"
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/unit"
)

// AV3-specific OBU types layered on top of AV1's base set; unrecognized
// types (including these, if a future profile renumbers them) are never
// treated as fatal, per spec §6.
const (
	obuMetadataAV3 = 16
)

// Parser is the av3.SyntaxParser.
type Parser struct {
	width, height int
	haveDim       bool
	seq           *av1.SequenceHeader
	refType       [8]unit.FrameType
}

func newParser() codec.SyntaxParser { return &Parser{} }

func init() {
	codec.Register(container.CodecAV3, newParser)
}

// Codec implements codec.SyntaxParser.
func (p *Parser) Codec() container.Codec { return container.CodecAV3 }

// SeenDimensions implements codec.SyntaxParser.
func (p *Parser) SeenDimensions() (int, int, bool) { return p.width, p.height, p.haveDim }

// ParseAccessUnit implements codec.SyntaxParser.
func (p *Parser) ParseAccessUnit(au container.AccessUnit, frameIndex uint32) (codec.ParsedUnit, error) {
	obus, splitErr := av1.SplitOBUs(au.Bytes)
	// A truncated trailing OBU is padding in AV3's tolerant framing, not a
	// fatal stream error; keep whatever units were recovered.
	_ = splitErr

	frameNode := &unit.Node{
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

	for _, o := range obus {
		child := &unit.Node{
			UnitType:   av3OBUTypeName(o.Type),
			FileOffset: au.FileOffset + o.Offset,
			Size:       uint64(o.HeaderLen + len(o.Payload)),
		}

		switch {
		case o.Type == 1: // OBU_SEQUENCE_HEADER.
			if seq, err := av1.ParseSequenceHeader(o.Payload); err == nil {
				p.seq = seq
				p.width, p.height, p.haveDim = seq.MaxFrameWidth, seq.MaxFrameHeight, true
				child.Display = "SEQUENCE_HEADER"
			}
		case o.Type == 3 || o.Type == 6 || o.Type == 7: // OBU_FRAME_HEADER, OBU_FRAME, OBU_REDUNDANT_FRAME_HEADER.
			reduced := p.seq != nil && p.seq.ReducedStillPictureHdr
			lead, err := av1.ParseFrameHeaderLead(o.Payload, reduced)
			if err == nil && frameType == unit.FrameTypeUnknown {
				if lead.ShowExistingFrame {
					quirks.IsVirtual = true
					quirks.RefSlot = uint32(lead.FrameToShowMapIdx)
					quirks.HasRefSlot = true
					frameType = p.refType[lead.FrameToShowMapIdx&7]
					if frameType == unit.FrameTypeUnknown {
						frameType = unit.FrameTypeKey
					}
				} else {
					frameType = av1FrameTypeToUnit(lead.FrameType)
					for i := range p.refType {
						p.refType[i] = frameType
					}
					isKey = lead.FrameType == av1.FrameKey
				}
			}
		}
		frameNode.AddChild(child)
	}

	if frameType == unit.FrameTypeUnknown {
		frameType = unit.FrameTypeInter
	}
	frameNode.HasFrameType = true
	frameNode.FrameType = frameType

	return codec.ParsedUnit{
		Node:    frameNode,
		Meta:    frame.Metadata{PTS: au.PTS, HasPTS: au.HasPTS, DTS: au.DTS, HasDTS: au.HasDTS},
		Quirks:  quirks,
		KeyUnit: isKey,
	}, nil
}

func av1FrameTypeToUnit(t int) unit.FrameType {
	switch t {
	case av1.FrameKey, av1.FrameIntraOnly:
		return unit.FrameTypeKey
	case av1.FrameSwitch:
		return unit.FrameTypeSwitch
	default:
		return unit.FrameTypeInter
	}
}

func av3OBUTypeName(t uint8) string {
	switch t {
	case 1:
		return "OBU_SEQUENCE_HEADER"
	case 2:
		return "OBU_TEMPORAL_DELIMITER"
	case 3:
		return "OBU_FRAME_HEADER"
	case 4:
		return "OBU_TILE_GROUP"
	case 5:
		return "OBU_METADATA"
	case 6:
		return "OBU_FRAME"
	case 7:
		return "OBU_REDUNDANT_FRAME_HEADER"
	case obuMetadataAV3:
		return "OBU_METADATA_EXT"
	case 15:
		return "OBU_PADDING"
	default:
		return "OBU_RESERVED"
	}
}
