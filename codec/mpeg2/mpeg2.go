/*
NAME
  mpeg2.go

DESCRIPTION
  mpeg2.go implements codec.SyntaxParser for MPEG-2 Video (spec §6): an
  access unit is scanned for start codes, classifying sequence/GOP/
  picture/slice/extension units and parsing sequence_header() and
  picture_header() for dimensions and picture_coding_type. A group
  start code only increments the parser's internal GOP counter; the GOP
  header's time_code is not read, and no timecode is derived or reset.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2

import (
	"github.com/ausocean/bitscope/codec"
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/unit"
)

// Parser is the mpeg2.SyntaxParser.
type Parser struct {
	width, height int
	haveDim       bool
	groupCount    uint64
}

func newParser() codec.SyntaxParser { return &Parser{} }

func init() {
	codec.Register(container.CodecMPEG2, newParser)
}

// Codec implements codec.SyntaxParser.
func (p *Parser) Codec() container.Codec { return container.CodecMPEG2 }

// SeenDimensions implements codec.SyntaxParser.
func (p *Parser) SeenDimensions() (int, int, bool) { return p.width, p.height, p.haveDim }

// ParseAccessUnit implements codec.SyntaxParser.
func (p *Parser) ParseAccessUnit(au container.AccessUnit, frameIndex uint32) (codec.ParsedUnit, error) {
	units := Split(au.Bytes)

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

	frameType := unit.FrameTypeUnknown
	isKey := false

	for _, su := range units {
		child := &unit.Node{
			UnitType:   startCodeName(su.Code),
			FileOffset: au.FileOffset + su.Offset,
			Size:       uint64(4 + len(su.Payload)),
		}

		switch {
		case su.Code == codeSequenceHeader:
			if sh, err := ParseSequenceHeader(su.Payload); err == nil {
				p.width, p.height, p.haveDim = sh.Width, sh.Height, true
				child.Display = "SEQUENCE_HEADER"
			}
		case su.Code == codeGroupStart:
			p.groupCount++
			child.Display = "GOP"
		case su.Code == codePictureStart:
			if ph, err := ParsePictureHeader(su.Payload); err == nil {
				child.Display = "PICTURE_" + codingTypeName(ph.CodingType)
				if frameType == unit.FrameTypeUnknown {
					switch ph.CodingType {
					case PictureI:
						frameType = unit.FrameTypeKey
						isKey = true
					case PictureB:
						frameType = unit.FrameTypeBidir
					default:
						frameType = unit.FrameTypeInter
					}
				}
			}
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
		KeyUnit: isKey,
	}, nil
}

func startCodeName(code byte) string {
	switch {
	case code == codePictureStart:
		return "PICTURE_START"
	case code >= sliceStartMin && code <= sliceStartMax:
		return "SLICE"
	case code == codeUserData:
		return "USER_DATA"
	case code == codeSequenceHeader:
		return "SEQUENCE_HEADER"
	case code == codeSequenceError:
		return "SEQUENCE_ERROR"
	case code == codeExtensionStart:
		return "EXTENSION"
	case code == codeSequenceEnd:
		return "SEQUENCE_END"
	case code == codeGroupStart:
		return "GROUP_START"
	default:
		return "RESERVED"
	}
}
