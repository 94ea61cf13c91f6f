/*
NAME
  hevc.go

DESCRIPTION
  hevc.go implements codec.SyntaxParser for H.265/HEVC (spec §6): each
  access unit is split into NAL units, classified by the 2-byte HEVC NAL
  header's nal_unit_type, and SPS units folded into the running
  dimensions. Frame type is derived directly from nal_unit_type (IRAP
  types 16-23 are always key pictures in HEVC), unlike AVC where it
  requires parsing the slice header's slice_type.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package hevc implements the H.265/HEVC CodecSyntaxParser, per spec §6.
package hevc

import (
	"github.com/ausocean/bitscope/codec"
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/unit"
)

// NAL unit types, ITU-T H.265 Table 7-1.
const (
	typeBLAWLP   = 16
	typeCRANUT   = 21
	typeRSVIRAP  = 23
	typeVPS      = 32
	typeSPS      = 33
	typePPS      = 34
	typeAUD      = 35
	typePrefixSEI = 39
	typeSuffixSEI = 40
)

func isIRAP(t byte) bool { return t >= typeBLAWLP && t <= typeRSVIRAP }
func isVCL(t byte) bool  { return t <= 31 }

// Parser is the hevc.SyntaxParser.
type Parser struct {
	width, height int
	haveDim       bool
}

func newParser() codec.SyntaxParser { return &Parser{} }

func init() {
	codec.Register(container.CodecHEVC, newParser)
}

// Codec implements codec.SyntaxParser.
func (p *Parser) Codec() container.Codec { return container.CodecHEVC }

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
		nalType := (n.Payload[0] >> 1) & 0x3f

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
				if isIRAP(nalType) {
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
	case isVCL(t):
		return "NAL_SLICE"
	case t == typeVPS:
		return "NAL_VPS"
	case t == typeSPS:
		return "NAL_SPS"
	case t == typePPS:
		return "NAL_PPS"
	case t == typeAUD:
		return "NAL_AUD"
	case t == typePrefixSEI || t == typeSuffixSEI:
		return "NAL_SEI"
	default:
		return "NAL_UNKNOWN"
	}
}

// deEmulate strips emulation_prevention_three_byte occurrences (00 00 03
// -> 00 00), identical in HEVC to AVC (ITU-T H.265 section 7.3.1.1).
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
