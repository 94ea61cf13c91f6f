/*
NAME
  codec.go

DESCRIPTION
  codec.go provides the common SyntaxParser contract every per-codec
  package (avc, hevc, vvc, av1, av3, vp9, mpeg2) implements, per spec §3
  ("CodecSyntaxParser") and §6. Core's OpenFile command selects a
  SyntaxParser by container.Codec and folds each demuxed access unit
  through it to grow the UnitModel.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codec declares the SyntaxParser contract shared by every
// per-codec bitstream parser in bitscope.
package codec

import (
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/unit"
)

// ParsedUnit is one access unit's parse result: its syntax tree (an
// ACCESS_UNIT node with codec-specific NAL/OBU children), the frame's display-axis
// metadata, and its codec-specific quirks.
type ParsedUnit struct {
	Node    *unit.Node
	Meta    frame.Metadata
	Quirks  frame.Quirks
	KeyUnit bool // True if this access unit starts a new GOP (IDR/keyframe).
}

// SyntaxParser incrementally parses a stream of access units of a single
// codec into unit.Node trees. A new SyntaxParser is constructed per
// OpenFile call; it is not safe for concurrent use.
type SyntaxParser interface {
	// Codec reports the codec this parser handles.
	Codec() container.Codec

	// ParseAccessUnit parses one access unit, already assigned
	// frameIndex in decode order, into a ParsedUnit. Dimensions seen in
	// sequence/parameter headers are reported via SeenDimensions.
	ParseAccessUnit(au container.AccessUnit, frameIndex uint32) (ParsedUnit, error)

	// SeenDimensions reports the coded width/height parsed so far, if
	// any sequence header has been seen yet.
	SeenDimensions() (width, height int, ok bool)
}

// New returns the SyntaxParser for codec, or nil if none is registered.
func New(c container.Codec) SyntaxParser {
	f, ok := registry[c]
	if !ok {
		return nil
	}
	return f()
}

var registry = map[container.Codec]func() SyntaxParser{}

// Register associates a codec with a SyntaxParser constructor. Concrete
// codec packages call this from an init function, mirroring the
// container package's RegisterOpener plugin pattern and avoiding an
// import cycle between codec and its subpackages.
func Register(c container.Codec, newParser func() SyntaxParser) {
	registry[c] = newParser
}
