/*
NAME
  unit.go

DESCRIPTION
  unit.go provides the canonical tree of syntax units and frames that
  every container/codec pair produces, per spec §3 ("Unit key", "UnitNode",
  "UnitModel").

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package unit provides the canonical UnitNode tree and UnitModel that
// every CodecSyntaxParser populates and every downstream layer (overlay
// extraction, evidence chain, selection) navigates.
package unit

import (
	"fmt"

	"github.com/ausocean/bitscope/bitrange"
)

// StreamID identifies one of the (at most two, for A/B compare) open
// streams a Core instance is holding.
type StreamID uint32

// Key uniquely identifies a syntax unit within a stream, per spec §3.
type Key struct {
	Stream     StreamID
	TypeName   string // e.g. "SEQUENCE_HEADER", "FRAME", "NAL_SPS".
	FileOffset uint64
	Size       uint64
}

// String renders the key for logging and diagnostics.
func (k Key) String() string {
	return fmt.Sprintf("stream=%d type=%s off=%d size=%d", k.Stream, k.TypeName, k.FileOffset, k.Size)
}

// FrameType is a codec-independent classification of a frame's coding
// type, used for overlay scaffolding and display.
type FrameType uint8

const (
	FrameTypeUnknown FrameType = iota
	FrameTypeKey               // IDR/BLA/I, AV1 KEY_FRAME.
	FrameTypeInter             // P frames and ordinary inter frames.
	FrameTypeBidir             // B frames.
	FrameTypeSwitch            // AV1 SWITCH_FRAME, VP9-style switch.
)

// String implements fmt.Stringer.
func (t FrameType) String() string {
	switch t {
	case FrameTypeKey:
		return "Key"
	case FrameTypeInter:
		return "Inter"
	case FrameTypeBidir:
		return "Bidir"
	case FrameTypeSwitch:
		return "Switch"
	default:
		return "Unknown"
	}
}

// Node is one node of the canonical unit tree. Children are ordered,
// contiguous and disjoint within the parent's [FileOffset, FileOffset+Size)
// range; FrameIndex is set only on nodes corresponding to a whole frame.
type Node struct {
	UnitType   string
	FileOffset uint64
	Size       uint64
	Display    string

	HasFrameIndex bool
	FrameIndex    uint32

	HasFrameType bool
	FrameType    FrameType

	HasPTS bool
	PTS    int64

	HasDTS bool
	DTS    int64

	Children []*Node

	// EvidenceID is the ID of this node's entry in the syntax layer of the
	// EvidenceChain, set once the chain has indexed it. Empty until then.
	EvidenceID string
}

// BitRange returns the node's location expressed as a bit range.
func (n *Node) BitRange() bitrange.BitRange {
	return bitrange.New(n.FileOffset*8, n.Size*8)
}

// Key returns the unit key identifying n within stream.
func (n *Node) Key(stream StreamID) Key {
	return Key{Stream: stream, TypeName: n.UnitType, FileOffset: n.FileOffset, Size: n.Size}
}

// AddChild appends child to n's children. It does not validate containment;
// callers (codec parsers) are expected to emit contiguous, disjoint
// children per spec §3's UnitNode invariants, and Model.Validate checks
// this after a full parse.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// Walk calls fn for n and every descendant, depth-first, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Model is the root of a parsed stream: the ordered list of top-level
// units plus summary counts, per spec §3. It is constructed once per
// OpenFile and immutable thereafter.
type Model struct {
	Stream     StreamID
	Roots      []*Node
	UnitCount  int
	FrameCount int
}

// Walk calls fn for every node in the model, depth-first, pre-order,
// top-level nodes in order.
func (m *Model) Walk(fn func(*Node)) {
	for _, r := range m.Roots {
		r.Walk(fn)
	}
}

// FrameNodes returns every node with a FrameIndex set, ordered by
// FrameIndex (decode order), per spec §3's invariant that frame indices
// are 0..N-1 in decode order across the whole stream.
func (m *Model) FrameNodes() []*Node {
	byIndex := make([]*Node, m.FrameCount)
	m.Walk(func(n *Node) {
		if n.HasFrameIndex && int(n.FrameIndex) < len(byIndex) {
			byIndex[n.FrameIndex] = n
		}
	})
	return byIndex
}

// Validate checks the structural invariants spec §3 and §8 require:
// children in order, non-overlapping and ending within their parent's
// range (gaps between siblings are not checked), and frame indices
// forming exactly the set {0..N-1}.
func (m *Model) Validate() error {
	seen := make(map[uint32]bool)
	var walkErr error
	var check func(n *Node)
	check = func(n *Node) {
		if walkErr != nil {
			return
		}
		var cursor uint64
		first := true
		for _, c := range n.Children {
			if !first && c.FileOffset < cursor {
				walkErr = fmt.Errorf("unit %s: child %s overlaps/precedes previous sibling", n.UnitType, c.UnitType)
				return
			}
			if c.FileOffset+c.Size > n.FileOffset+n.Size && n.Size != 0 {
				walkErr = fmt.Errorf("unit %s: child %s exceeds parent range", n.UnitType, c.UnitType)
				return
			}
			cursor = c.FileOffset + c.Size
			first = false
		}
		if n.HasFrameIndex {
			if seen[n.FrameIndex] {
				walkErr = fmt.Errorf("duplicate frame index %d", n.FrameIndex)
				return
			}
			seen[n.FrameIndex] = true
		}
		for _, c := range n.Children {
			check(c)
		}
	}
	for _, r := range m.Roots {
		check(r)
		if walkErr != nil {
			return walkErr
		}
	}
	for i := 0; i < m.FrameCount; i++ {
		if !seen[uint32(i)] {
			return fmt.Errorf("frame index %d missing from unit tree", i)
		}
	}
	return nil
}
