/*
NAME
  avc.go

DESCRIPTION
  avc.go implements codec.SyntaxParser for H.264/AVC (spec §6): each
  access unit is split into NAL units (codec.SplitNALUnits), each NAL
  de-emulated and classified by nal_unit_type, and SPS/PPS/slice units
  folded into a per-access-unit unit.Node tree. Grounded on
  codec/h264/h264dec/nalunit.go's NAL header layout and emulation
  prevention handling.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package avc implements the H.264/AVC CodecSyntaxParser, per spec §6.
package avc

import (
	"github.com/ausocean/bitscope/codec"
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/unit"
)

// NAL unit types, ITU-T H.264 Table 7-1.
const (
	typeNonIDR  = 1
	typeIDR     = 5
	typeSEI     = 6
	typeSPS     = 7
	typePPS     = 8
	typeAUD     = 9
	typeSPSExt  = 13
	typePrefix  = 14
)

// Parser is the avc.SyntaxParser. It accumulates parameter sets across
// access units, since a slice header's frame_num width and reference
// behaviour can depend on a SPS/PPS seen in an earlier access unit.
type Parser struct {
	spsByID map[int]*SPS
	ppsByID map[int]*PPS
	width   int
	height  int
	haveDim bool
}

func newParser() codec.SyntaxParser {
	return &Parser{spsByID: map[int]*SPS{}, ppsByID: map[int]*PPS{}}
}

func init() {
	codec.Register(container.CodecAVC, newParser)
}

// Codec implements codec.SyntaxParser.
func (p *Parser) Codec() container.Codec { return container.CodecAVC }

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
		if len(n.Payload) == 0 {
			continue
		}
		nalType := n.Payload[0] & 0x1f
		rbsp := deEmulate(n.Payload[1:])

		child := &unit.Node{
			UnitType:   nalUnitTypeName(nalType),
			FileOffset: au.FileOffset + n.Offset,
			Size:       uint64(len(n.Payload)),
		}

		switch nalType {
		case typeSPS:
			if sps, err := ParseSPS(rbsp); err == nil {
				p.spsByID[sps.ID] = sps
				p.width, p.height, p.haveDim = sps.Width, sps.Height, true
				child.Display = "SPS"
			}
		case typePPS:
			if pps, err := ParsePPS(rbsp); err == nil {
				p.ppsByID[pps.ID] = pps
				child.Display = "PPS"
			}
		case typeIDR, typeNonIDR:
			if sh, err := ParseSliceHeader(rbsp, p.spsByID); err == nil {
				ft := sh.Type.FrameType()
				if nalType == typeIDR {
					ft = unit.FrameTypeKey
				}
				if frameType == unit.FrameTypeUnknown {
					frameType = ft
				}
				isKey = isKey || nalType == typeIDR
				child.Display = sh.Type.String() + " slice"
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
		KeyUnit: isKey,
	}, nil
}

func nalUnitTypeName(t byte) string {
	switch t {
	case typeNonIDR:
		return "NAL_SLICE"
	case typeIDR:
		return "NAL_IDR_SLICE"
	case typeSEI:
		return "NAL_SEI"
	case typeSPS:
		return "NAL_SPS"
	case typePPS:
		return "NAL_PPS"
	case typeAUD:
		return "NAL_AUD"
	case typeSPSExt:
		return "NAL_SPS_EXT"
	case typePrefix:
		return "NAL_PREFIX"
	default:
		return "NAL_UNKNOWN"
	}
}

// String implements fmt.Stringer for SliceType, used for display labels.
func (t SliceType) String() string {
	switch t {
	case SliceP:
		return "P"
	case SliceB:
		return "B"
	case SliceI:
		return "I"
	case SliceSP:
		return "SP"
	case SliceSI:
		return "SI"
	default:
		return "?"
	}
}

// deEmulate strips emulation_prevention_three_byte occurrences (00 00 03
// -> 00 00) from a NAL payload, per ITU-T H.264 section 7.3.1.
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
