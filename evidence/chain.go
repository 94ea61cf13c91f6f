/*
NAME
  chain.go

DESCRIPTION
  chain.go provides the EvidenceChain: four linked, indexed tables
  (bit-offset, syntax, decode, viz) forming a bidirectional index across
  the bit-offset/syntax/decode/visualization layers, per spec §3 and
  §4.7. Adapted in shape from original_source's evidence.rs, restructured
  for sub-linear lookups on the two tables spec §4.7 requires to be
  sorted by start_bit.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package evidence provides the EvidenceChain, the bidirectional index
// across the bit-offset, syntax, decode and visualization layers
// described in spec §4.7.
package evidence

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/ausocean/bitscope/bitrange"
)

// ID identifies one entry in any of the four tables. IDs are unique
// within their own table but not necessarily across tables.
type ID uint64

// BitOffsetEntry is stage 01: the foundation layer linking a bit range to
// a provenance tag.
type BitOffsetEntry struct {
	ID         ID
	Range      bitrange.BitRange
	Provenance string
	SyntaxLink ID
	HasSyntax  bool
}

// SyntaxEntry is stage 02: semantic structure (unit/OBU/NAL kind) atop
// the bit-offset layer, with parent/child links forming the unit tree.
type SyntaxEntry struct {
	ID           ID
	NodeType     string
	Label        string
	Range        bitrange.BitRange
	BitOffsetID  ID
	Parent       ID
	HasParent    bool
	Children     []ID
	DecodeLink   ID
	HasDecode    bool
}

// DecodeEntry is stage 03: a decoded artifact (YUV frame, reference
// frame, MV field, ...) linked back to the syntax node it came from.
type DecodeEntry struct {
	ID         ID
	Artifact   string
	FrameIndex uint32
	HasFrame   bool
	SyntaxLink ID
	VizLink    ID
	HasViz     bool
}

// VizEntry is stage 04: a visualization artifact (grid cell, overlay
// element) linked back to the decode entry it was derived from.
type VizEntry struct {
	ID         ID
	Kind       string
	DecodeLink ID
}

// Chain is the EvidenceChain: four tables plus the ID sequence used to
// mint new entries. It is not safe for concurrent use; Core serializes
// access to it behind its single reader/writer lock (spec §5).
type Chain struct {
	nextID ID

	bitOffset []BitOffsetEntry // Sorted by Range.StartBit.
	syntax    []SyntaxEntry    // Sorted by Range.StartBit.
	decode    []DecodeEntry
	viz       []VizEntry
}

// New returns an empty Chain.
func New() *Chain { return &Chain{} }

func (c *Chain) allocID() ID {
	c.nextID++
	return c.nextID
}

// AddBitOffset inserts a new bit-offset entry, keeping the table sorted
// by start bit, and returns its ID.
func (c *Chain) AddBitOffset(r bitrange.BitRange, provenance string) ID {
	id := c.allocID()
	e := BitOffsetEntry{ID: id, Range: r, Provenance: provenance}
	i := sort.Search(len(c.bitOffset), func(i int) bool { return c.bitOffset[i].Range.StartBit >= r.StartBit })
	c.bitOffset = append(c.bitOffset, BitOffsetEntry{})
	copy(c.bitOffset[i+1:], c.bitOffset[i:])
	c.bitOffset[i] = e
	return id
}

// AddSyntax inserts a new syntax entry linked to a bit-offset entry and
// optionally to a parent syntax entry, keeping the table sorted by start
// bit, and returns its ID.
func (c *Chain) AddSyntax(nodeType, label string, r bitrange.BitRange, bitOffsetID ID, parent ID, hasParent bool) ID {
	id := c.allocID()
	e := SyntaxEntry{ID: id, NodeType: nodeType, Label: label, Range: r, BitOffsetID: bitOffsetID, Parent: parent, HasParent: hasParent}
	i := sort.Search(len(c.syntax), func(i int) bool { return c.syntax[i].Range.StartBit >= r.StartBit })
	c.syntax = append(c.syntax, SyntaxEntry{})
	copy(c.syntax[i+1:], c.syntax[i:])
	c.syntax[i] = e

	if idx, ok := c.bitOffsetIndexByID(bitOffsetID); ok {
		c.bitOffset[idx].SyntaxLink = id
		c.bitOffset[idx].HasSyntax = true
	}
	if hasParent {
		if pidx, ok := c.syntaxIndexByID(parent); ok {
			c.syntax[pidx].Children = append(c.syntax[pidx].Children, id)
		}
	}
	return id
}

// AddDecode inserts a new decode entry linked to a syntax entry and
// returns its ID.
func (c *Chain) AddDecode(artifact string, syntaxID ID) ID {
	id := c.allocID()
	c.decode = append(c.decode, DecodeEntry{ID: id, Artifact: artifact, SyntaxLink: syntaxID})
	if idx, ok := c.syntaxIndexByID(syntaxID); ok {
		c.syntax[idx].DecodeLink = id
		c.syntax[idx].HasDecode = true
	}
	return id
}

// SetFrameIndex records the frame index an already-inserted decode entry
// corresponds to.
func (c *Chain) SetFrameIndex(decodeID ID, frameIndex uint32) {
	if idx, ok := c.decodeIndexByID(decodeID); ok {
		c.decode[idx].FrameIndex = frameIndex
		c.decode[idx].HasFrame = true
	}
}

// AddViz inserts a new visualization entry linked to a decode entry and
// returns its ID.
func (c *Chain) AddViz(kind string, decodeID ID) ID {
	id := c.allocID()
	c.viz = append(c.viz, VizEntry{ID: id, Kind: kind, DecodeLink: decodeID})
	if idx, ok := c.decodeIndexByID(decodeID); ok {
		c.decode[idx].VizLink = id
		c.decode[idx].HasViz = true
	}
	return id
}

// Errors returned by the lookup methods below when a link fails to
// resolve; per spec §4.7's invariants this should never happen on a
// well-formed chain, so callers typically treat these as internal bugs.
var (
	ErrNotFound    = errors.New("evidence: entry not found")
	ErrLinkMissing = errors.New("evidence: expected link missing")
)

func (c *Chain) bitOffsetIndexByID(id ID) (int, bool) {
	for i := range c.bitOffset {
		if c.bitOffset[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (c *Chain) syntaxIndexByID(id ID) (int, bool) {
	for i := range c.syntax {
		if c.syntax[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (c *Chain) decodeIndexByID(id ID) (int, bool) {
	for i := range c.decode {
		if c.decode[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (c *Chain) vizIndexByID(id ID) (int, bool) {
	for i := range c.viz {
		if c.viz[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// BitOffsetByBit finds the tightest (smallest) bit-offset entry
// containing bit, using binary search on the sorted table as spec §4.7
// requires ("smallest containing node by binary search on sorted bit
// ranges").
func (c *Chain) BitOffsetByBit(bit uint64) (BitOffsetEntry, bool) {
	// All entries with StartBit <= bit are candidates; binary search for
	// the first entry whose StartBit exceeds bit, then scan backward
	// through overlapping candidates for the tightest containing range.
	i := sort.Search(len(c.bitOffset), func(i int) bool { return c.bitOffset[i].Range.StartBit > bit })
	var best BitOffsetEntry
	found := false
	for j := i - 1; j >= 0; j-- {
		e := c.bitOffset[j]
		if !e.Range.Contains(bit) {
			// Ranges are sorted by start bit but may vary in length; a
			// non-containing predecessor doesn't prove nothing further
			// back can contain bit, so keep scanning a bounded window.
			if j < i-64 {
				break
			}
			continue
		}
		if !found || e.Range.SizeBits() < best.Range.SizeBits() {
			best, found = e, true
		}
	}
	return best, found
}

// SyntaxByBit finds the tightest syntax entry containing bit, the same
// search strategy as BitOffsetByBit applied to the syntax table.
func (c *Chain) SyntaxByBit(bit uint64) (SyntaxEntry, bool) {
	i := sort.Search(len(c.syntax), func(i int) bool { return c.syntax[i].Range.StartBit > bit })
	var best SyntaxEntry
	found := false
	for j := i - 1; j >= 0; j-- {
		e := c.syntax[j]
		if !e.Range.Contains(bit) {
			if j < i-64 {
				break
			}
			continue
		}
		if !found || e.Range.SizeBits() < best.Range.SizeBits() {
			best, found = e, true
		}
	}
	return best, found
}

// SyntaxByID looks up a syntax entry by ID.
func (c *Chain) SyntaxByID(id ID) (SyntaxEntry, bool) {
	if i, ok := c.syntaxIndexByID(id); ok {
		return c.syntax[i], true
	}
	return SyntaxEntry{}, false
}

// DecodeBySyntax returns every decode entry linked to syntaxID (spec
// §4.7 "syntax_id → decode (linear scan of decode table filtered on
// syntax_link; table typically small)").
func (c *Chain) DecodeBySyntax(syntaxID ID) []DecodeEntry {
	var out []DecodeEntry
	for _, e := range c.decode {
		if e.SyntaxLink == syntaxID {
			out = append(out, e)
		}
	}
	return out
}

// VizByDecode returns every viz entry linked to decodeID.
func (c *Chain) VizByDecode(decodeID ID) []VizEntry {
	var out []VizEntry
	for _, e := range c.viz {
		if e.DecodeLink == decodeID {
			out = append(out, e)
		}
	}
	return out
}

// VizToBitRange composes the backward chain viz → decode → syntax →
// bit-offset and returns the originating bit range, per spec §4.7 and
// §8's round-trip property.
func (c *Chain) VizToBitRange(vizID ID) (bitrange.BitRange, error) {
	vi, ok := c.vizIndexByID(vizID)
	if !ok {
		return bitrange.BitRange{}, errors.Wrapf(ErrNotFound, "viz id %d", vizID)
	}
	v := c.viz[vi]

	di, ok := c.decodeIndexByID(v.DecodeLink)
	if !ok {
		return bitrange.BitRange{}, errors.Wrapf(ErrLinkMissing, "viz %d -> decode %d", vizID, v.DecodeLink)
	}
	d := c.decode[di]

	si, ok := c.syntaxIndexByID(d.SyntaxLink)
	if !ok {
		return bitrange.BitRange{}, errors.Wrapf(ErrLinkMissing, "decode %d -> syntax %d", d.ID, d.SyntaxLink)
	}
	s := c.syntax[si]

	bi, ok := c.bitOffsetIndexByID(s.BitOffsetID)
	if !ok {
		return bitrange.BitRange{}, errors.Wrapf(ErrLinkMissing, "syntax %d -> bit-offset %d", s.ID, s.BitOffsetID)
	}
	return c.bitOffset[bi].Range, nil
}

// Clear empties all four tables atomically (from the caller's
// perspective — Chain is single-threaded, guarded by Core's per-stream
// lock), per spec §4.7's "deleting a file clears all four tables
// atomically".
func (c *Chain) Clear() {
	c.bitOffset = nil
	c.syntax = nil
	c.decode = nil
	c.viz = nil
	c.nextID = 0
}

// Counts returns the size of each table, useful for diagnostics and
// tests.
func (c *Chain) Counts() (bitOffset, syntax, decode, viz int) {
	return len(c.bitOffset), len(c.syntax), len(c.decode), len(c.viz)
}
