/*
NAME
  av1.go

DESCRIPTION
  av1.go implements codec.SyntaxParser for AV1 (spec §6), splitting each
  access unit into OBUs, tracking the active sequence header, and
  classifying frames by their uncompressed_header() lead bits, including
  show_existing_frame virtual frames (frame.Quirks.IsVirtual).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package av1 implements the AV1 CodecSyntaxParser, per spec §6.
package av1

import (
	"github.com/ausocean/bitscope/codec"
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/unit"
)

// Parser is the av1.SyntaxParser.
type Parser struct {
	width, height int
	haveDim       bool
	seq           *SequenceHeader
	refType       [8]unit.FrameType // RefFrameType[i] tracking for show_existing_frame.
}

func newParser() codec.SyntaxParser { return &Parser{} }

func init() {
	codec.Register(container.CodecAV1, newParser)
}

// Codec implements codec.SyntaxParser.
func (p *Parser) Codec() container.Codec { return container.CodecAV1 }

// SeenDimensions implements codec.SyntaxParser.
func (p *Parser) SeenDimensions() (int, int, bool) { return p.width, p.height, p.haveDim }

// ParseAccessUnit implements codec.SyntaxParser.
func (p *Parser) ParseAccessUnit(au container.AccessUnit, frameIndex uint32) (codec.ParsedUnit, error) {
	obus, err := SplitOBUs(au.Bytes)
	if err != nil && len(obus) == 0 {
		return codec.ParsedUnit{}, err
	}

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
			UnitType:   obuTypeName(o.Type),
			FileOffset: au.FileOffset + o.Offset,
			Size:       uint64(o.HeaderLen + len(o.Payload)),
		}

		switch o.Type {
		case obuSequenceHeader:
			if seq, err := ParseSequenceHeader(o.Payload); err == nil {
				p.seq = seq
				p.width, p.height, p.haveDim = seq.MaxFrameWidth, seq.MaxFrameHeight, true
				child.Display = "SEQUENCE_HEADER"
			}
		case obuFrameHeader, obuFrame, obuRedundantFrameHdr:
			reduced := p.seq != nil && p.seq.ReducedStillPictureHdr
			lead, err := ParseFrameHeaderLead(o.Payload, reduced)
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
					isKey = lead.FrameType == FrameKey
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
	case FrameKey:
		return unit.FrameTypeKey
	case FrameIntraOnly:
		return unit.FrameTypeKey
	case FrameSwitch:
		return unit.FrameTypeSwitch
	default:
		return unit.FrameTypeInter
	}
}

func obuTypeName(t uint8) string {
	switch t {
	case obuSequenceHeader:
		return "OBU_SEQUENCE_HEADER"
	case obuTemporalDelimiter:
		return "OBU_TEMPORAL_DELIMITER"
	case obuFrameHeader:
		return "OBU_FRAME_HEADER"
	case obuTileGroup:
		return "OBU_TILE_GROUP"
	case obuMetadata:
		return "OBU_METADATA"
	case obuFrame:
		return "OBU_FRAME"
	case obuRedundantFrameHdr:
		return "OBU_REDUNDANT_FRAME_HEADER"
	case obuPadding:
		return "OBU_PADDING"
	default:
		return "OBU_RESERVED"
	}
}
