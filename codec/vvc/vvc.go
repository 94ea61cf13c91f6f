/*
NAME
  vvc.go

DESCRIPTION
  vvc.go implements codec.SyntaxParser for H.266/VVC (spec §6), mirroring
  codec/hevc/hevc.go's structure: frame type is derived directly from
  nal_unit_type (IDR/CRA/GDR types 7-10 are key pictures here; the
  reserved IRAP type 11 is treated as inter, per ITU-T H.266 Table 5
  numbering), avoiding a full picture header parse.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vvc implements the H.266/VVC CodecSyntaxParser, per spec §6.
package vvc

import (
	"github.com/ausocean/bitscope/codec"
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/unit"
)

// NAL unit types, ITU-T H.266 Table 5.
const (
	typeIDRWRADL = 7
	typeIDRNLP   = 8
	typeCRA      = 9
	typeGDR      = 10
	typeVCLMax   = 11
	typeOPI      = 12
	typeVPS      = 14
	typeSPS      = 15
	typePPS      = 16
	typeAUD      = 20
)

func isIRAP(t byte) bool { return t == typeIDRWRADL || t == typeIDRNLP || t == typeCRA }
func isVCL(t byte) bool  { return t <= typeVCLMax }

// Parser is the vvc.SyntaxParser.
type Parser struct {
	width, height int
	haveDim       bool
}

func newParser() codec.SyntaxParser { return &Parser{} }

func init() {
	codec.Register(container.CodecVVC, newParser)
}

// Codec implements codec.SyntaxParser.
func (p *Parser) Codec() container.Codec { return container.CodecVVC }

// SeenDimensions implements codec.SyntaxParser.
func (p *Parser) SeenDimensions() (int, int, bool) { return p.width, p.height, p.haveDim }

// ParseAccessUnit implements codec.SyntaxParser.
func (p *Parser) ParseAccessUnit(au container.AccessUnit, frameIndex uint32) (codec.ParsedUnit, error) {
	nals := codec.SplitNALUnits(au.Bytes)

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

	frameType := unit.FrameTypeUnknown
	isKey := false

	for _, n := range nals {
		if len(n.Payload) < 2 {
			continue
		}
		nalType := (n.Payload[1] >> 3) & 0x1f

		child := &unit.Node{
			UnitType:   nalUnitTypeName(nalType),
			FileOffset: au.FileOffset + n.Offset,
			Size:       uint64(len(n.Payload)),
		}

		switch {
		case nalType == typeSPS:
			rbsp := deEmulate(n.Payload[2:])
			if sps, err := ParseSPS(rbsp); err == nil {
				p.width, p.height, p.haveDim = sps.Width, sps.Height, true
				child.Display = "SPS"
			}
		case isVCL(nalType):
			if frameType == unit.FrameTypeUnknown {
				if isIRAP(nalType) || nalType == typeGDR {
					frameType = unit.FrameTypeKey
				} else {
					frameType = unit.FrameTypeInter
				}
			}
			isKey = isKey || isIRAP(nalType)
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
		KeyUnit: isKey,
	}, nil
}

func nalUnitTypeName(t byte) string {
	switch {
	case isIRAP(t):
		return "NAL_IRAP_SLICE"
	case t == typeGDR:
		return "NAL_GDR_SLICE"
	case isVCL(t):
		return "NAL_SLICE"
	case t == typeOPI:
		return "NAL_OPI"
	case t == typeVPS:
		return "NAL_VPS"
	case t == typeSPS:
		return "NAL_SPS"
	case t == typePPS:
		return "NAL_PPS"
	case t == typeAUD:
		return "NAL_AUD"
	default:
		return "NAL_UNKNOWN"
	}
}

// deEmulate strips emulation_prevention_three_byte occurrences, identical
// to AVC/HEVC (ITU-T H.266 section 7.3.1.2).
func deEmulate(data []byte) []byte {
	out := make([]byte, 0, len(data))
	zeros := 0
	for _, b := range data {
		if zeros >= 2 && b == 0x03 {
			zeros = 0
			continue
		}
		out = append(out, b)
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}
