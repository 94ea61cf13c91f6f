/*
NAME
  core.go

DESCRIPTION
  core.go implements Core, the Selection/Command/Event bus of spec §4.8:
  a single per-stream state store behind a read/write lock, mutated only
  through commands that each return the events they produced (or fail
  with no events at all, per spec §6's command table). Core wires
  together every other package in this module: container detects and
  demuxes the file, codec parses it into a unit.Model, frame derives the
  display axis, evidence indexes it for click-to-source lookups, overlay
  extracts grids on demand, and decode coordinates external frame decode.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package core implements the Selection/Command/Event bus of spec §4.8:
// Core owns every open stream's state and is mutated only through its
// command methods (OpenFile, CloseFile, SelectUnit, SelectFrame,
// SelectBitRange, RequestFrameDecode, ExtractOverlay), each returning the
// Events it produced.
package core

import (
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/ausocean/bitscope/bitrange"
	"github.com/ausocean/bitscope/codec"
	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/decode"
	"github.com/ausocean/bitscope/diag"
	"github.com/ausocean/bitscope/evidence"
	"github.com/ausocean/bitscope/frame"
	"github.com/ausocean/bitscope/grid"
	"github.com/ausocean/bitscope/overlay"
	"github.com/ausocean/bitscope/unit"
)

// Errors returned by Core's commands.
var (
	ErrStreamNotOpen    = errors.New("core: stream not open")
	ErrUnsupportedCodec = errors.New("core: no SyntaxParser registered for this codec")
	ErrFrameOutOfRange  = errors.New("core: frame index out of range")
)

// errNoDecoder is surfaced as a DiagnosticAdded event rather than a
// command failure: RequestFrameDecode without a configured decoder is a
// resource/configuration condition, not a reason to fail the whole
// request (spec §7's diagnostics-over-hard-failures propagation policy).
var errNoDecoder = errors.New("core: no ExternalDecoder configured for this stream")

// streamState is everything Core holds for one open stream, guarded by
// Core's mu.
type streamState struct {
	codec         container.Codec
	model         *unit.Model
	indexMap      *frame.IndexMap
	quirks        []frame.Quirks // Indexed by decode-order frame index.
	chain         *evidence.Chain
	overlay       *overlay.Extractor
	coordinator   *decode.Coordinator
	selection     SelectionState
	width, height int
}

// Core owns the per-stream state described in spec §4.8. Safe for
// concurrent use: CloseFile and the Select* commands hold the writer lock
// while they run; OpenFile parses without the lock and takes the writer
// lock only to install the new stream; RequestFrameDecode, ExtractOverlay
// and the read-only accessors (e.g. a UI panel re-reading Selection)
// take the read lock.
type Core struct {
	mu      sync.RWMutex
	cfg     Config
	streams map[unit.StreamID]*streamState
}

// New returns a Core configured per cfg.
func New(cfg Config) *Core {
	return &Core{cfg: cfg, streams: make(map[unit.StreamID]*streamState)}
}

// OpenFile implements the OpenFile command of spec §6: validates path,
// detects and demuxes the container, parses every access unit with the
// codec's SyntaxParser, and builds the stream's UnitModel, FrameIndexMap
// and EvidenceChain. Returns a ModelUpdated event plus any recoverable
// DiagnosticAdded events on success; returns no events and a non-nil
// error on hard failure (unknown container, unsupported codec, restricted
// or oversized path), per spec §6's "no event → failure".
func (c *Core) OpenFile(stream unit.StreamID, path string) ([]Event, error) {
	clean, err := validatePath(path, c.cfg)
	if err != nil {
		return nil, err
	}
	if _, err := validateFileSize(clean, c.cfg); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", clean)
	}

	demuxer, _, err := container.Open(data)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", clean)
	}

	parser := codec.New(demuxer.Codec())
	if parser == nil {
		return nil, errors.Wrapf(ErrUnsupportedCodec, "%s", demuxer.Codec())
	}

	sink := &diag.Sink{}
	st := &streamState{codec: demuxer.Codec(), chain: evidence.New()}
	var roots []*unit.Node
	var metas []frame.Metadata
	var quirks []frame.Quirks
	var sources []decode.SourceFrame

	var frameIndex uint32
	for {
		au, err := demuxer.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			sink.Add(diag.New(diag.Warn, "DemuxError", err.Error()).WithCodec(string(demuxer.Codec())))
			break
		}
		pu, err := parser.ParseAccessUnit(au, frameIndex)
		if err != nil {
			sink.Add(diag.Resync(string(demuxer.Codec()), len(au.Bytes), au.FileOffset))
			continue
		}

		roots = append(roots, pu.Node)
		metas = append(metas, pu.Meta)
		quirks = append(quirks, pu.Quirks)
		sources = append(sources, decode.SourceFrame{Bytes: au.Bytes, Timestamp: au.PTS, IsKey: pu.KeyUnit})
		c.indexNode(st.chain, pu.Node, 0, false)
		frameIndex++
	}

	width, height, haveDim := parser.SeenDimensions()
	if !haveDim {
		width, height, haveDim = demuxer.Dimensions()
	}
	st.width, st.height = width, height

	st.model = &unit.Model{Stream: stream, Roots: roots, UnitCount: countUnits(roots), FrameCount: len(roots)}
	if err := st.model.Validate(); err != nil {
		sink.Add(diag.New(diag.Warn, "ModelInvalid", err.Error()).WithCodec(string(st.codec)))
	}
	st.indexMap = frame.NewIndexMap(metas)
	st.quirks = quirks
	st.overlay = overlay.New(st.codec, width, height)

	if c.cfg.NewDecoder != nil {
		st.coordinator = decode.NewCoordinator(c.cfg.NewDecoder(st.codec), sources, c.cfg.DecodeCacheSize, c.cfg.logger())
	}

	c.mu.Lock()
	c.streams[stream] = st
	c.mu.Unlock()

	events := []Event{modelUpdated(stream, st.model)}
	for _, d := range sink.Items() {
		events = append(events, diagnosticAdded(stream, d))
	}
	return events, nil
}

// indexNode recursively adds n and its descendants to chain's bit-offset
// and syntax tables, linking children to their parent syntax entry, per
// spec §4.7.
func (c *Core) indexNode(chain *evidence.Chain, n *unit.Node, parentSyntax evidence.ID, hasParent bool) {
	bitID := chain.AddBitOffset(n.BitRange(), n.UnitType)
	syntaxID := chain.AddSyntax(n.UnitType, n.Display, n.BitRange(), bitID, parentSyntax, hasParent)
	n.EvidenceID = strconv.FormatUint(uint64(syntaxID), 10)
	for _, child := range n.Children {
		c.indexNode(chain, child, syntaxID, true)
	}
}

func countUnits(roots []*unit.Node) int {
	var n int
	for _, r := range roots {
		r.Walk(func(*unit.Node) { n++ })
	}
	return n
}

// CloseFile implements the CloseFile command: clears the stream's state
// and returns a ModelUpdated event with a nil model.
func (c *Core) CloseFile(stream unit.StreamID) ([]Event, error) {
	c.mu.Lock()
	st, ok := c.streams[stream]
	if ok {
		st.chain.Clear()
		delete(c.streams, stream)
	}
	c.mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrStreamNotOpen, "stream %d", stream)
	}
	return []Event{modelUpdated(stream, nil)}, nil
}

// SelectUnit implements the SelectUnit command.
func (c *Core) SelectUnit(stream unit.StreamID, key unit.Key) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.streams[stream]
	if !ok {
		return nil, errors.Wrapf(ErrStreamNotOpen, "stream %d", stream)
	}
	st.selection.HasUnit = true
	st.selection.Unit = key
	return []Event{selectionChanged(stream, st.selection)}, nil
}

// SelectFrame implements the SelectFrame command. frameIndex is tagged by
// axis per spec §6; SelectFrame stores it as given without converting
// axes (callers that need the other axis use Core's IndexMap accessor).
func (c *Core) SelectFrame(stream unit.StreamID, frameIndex uint32, axis FrameAxis) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.streams[stream]
	if !ok {
		return nil, errors.Wrapf(ErrStreamNotOpen, "stream %d", stream)
	}
	if int(frameIndex) >= st.indexMap.FrameCount() {
		return nil, errors.Wrapf(ErrFrameOutOfRange, "%d (have %d)", frameIndex, st.indexMap.FrameCount())
	}
	st.selection.HasFrame = true
	st.selection.FrameIndex = frameIndex
	st.selection.FrameAxis = axis
	return []Event{selectionChanged(stream, st.selection)}, nil
}

// SelectBitRange implements the SelectBitRange command.
func (c *Core) SelectBitRange(stream unit.StreamID, br bitrange.BitRange) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.streams[stream]
	if !ok {
		return nil, errors.Wrapf(ErrStreamNotOpen, "stream %d", stream)
	}
	st.selection.HasBitRange = true
	st.selection.BitRange = br
	return []Event{selectionChanged(stream, st.selection)}, nil
}

// RequestFrameDecode implements the RequestFrameDecode command: resolves
// a virtual (show-existing) frame to its effective decode target, per
// spec §4.5, then drives the stream's FrameDecodeCoordinator.
func (c *Core) RequestFrameDecode(stream unit.StreamID, frameIndex uint32) ([]Event, error) {
	c.mu.RLock()
	st, ok := c.streams[stream]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrStreamNotOpen, "stream %d", stream)
	}
	if st.coordinator == nil {
		d := diag.New(diag.Error, "NoDecoder", errNoDecoder.Error()).
			WithFrameIndex(frameIndex).WithCodec(string(st.codec))
		return []Event{diagnosticAdded(stream, d)}, nil
	}
	if int(frameIndex) >= len(st.quirks) {
		return nil, errors.Wrapf(ErrFrameOutOfRange, "%d (have %d)", frameIndex, len(st.quirks))
	}

	effective := resolveEffectiveIndex(st.quirks, frameIndex)
	f, err := st.coordinator.Request(effective)
	if err != nil {
		d := diag.New(diag.Warn, "DecodeFailed", err.Error()).WithFrameIndex(frameIndex).WithCodec(string(st.codec))
		return []Event{diagnosticAdded(stream, d)}, nil
	}
	return []Event{frameDecoded(stream, frameIndex, f)}, nil
}

// resolveEffectiveIndex implements spec §4.5's "Resolution" step for a
// virtual (show-existing) frame: since no CodecSyntaxParser in this
// module tracks which decode-order frame last wrote each codec reference
// slot (that would require full uncompressed_header() reference-frame
// bookkeeping, out of this module's parsing depth), the nearest
// preceding non-virtual frame is used as the effective decode target —
// correct whenever a show-existing frame points back at the most
// recently decoded real frame, which is the overwhelmingly common case.
func resolveEffectiveIndex(quirks []frame.Quirks, frameIndex uint32) uint32 {
	if !quirks[frameIndex].IsVirtual {
		return frameIndex
	}
	for i := int(frameIndex) - 1; i >= 0; i-- {
		if !quirks[i].IsVirtual {
			return uint32(i)
		}
	}
	return frameIndex
}

// ExtractOverlay implements the ExtractOverlay command: produces the
// requested grid kind for frameIndex's unit.Node, emitting a
// DiagnosticAdded event alongside since every extractor in this module
// currently falls back to the deterministic scaffold (spec §4.4).
func (c *Core) ExtractOverlay(stream unit.StreamID, frameIndex uint32, kind grid.Kind) (interface{}, []Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.streams[stream]
	if !ok {
		return nil, nil, errors.Wrapf(ErrStreamNotOpen, "stream %d", stream)
	}
	nodes := st.model.FrameNodes()
	if int(frameIndex) >= len(nodes) || nodes[frameIndex] == nil {
		return nil, nil, errors.Wrapf(ErrFrameOutOfRange, "%d (have %d)", frameIndex, len(nodes))
	}
	g, err := st.overlay.Extract(nodes[frameIndex], kind)
	if err != nil {
		return nil, nil, err
	}
	d := diag.New(diag.Info, "ScaffoldOverlay", "overlay produced from the deterministic scaffold, not a full block-level parse").
		WithFrameIndex(frameIndex).WithCodec(string(st.codec))
	return g, []Event{diagnosticAdded(stream, d)}, nil
}

// Selection returns stream's current selection, for subscribers that
// re-read state after an event rather than trusting the event payload
// alone (spec §4.8).
func (c *Core) Selection(stream unit.StreamID) (SelectionState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.streams[stream]
	if !ok {
		return SelectionState{}, false
	}
	return st.selection, true
}

// Model returns stream's current UnitModel, or nil if the stream is not
// open.
func (c *Core) Model(stream unit.StreamID) *unit.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.streams[stream]
	if !ok {
		return nil
	}
	return st.model
}

// IndexMap returns stream's FrameIndexMap, or nil if the stream is not
// open.
func (c *Core) IndexMap(stream unit.StreamID) *frame.IndexMap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.streams[stream]
	if !ok {
		return nil
	}
	return st.indexMap
}

// Evidence returns stream's EvidenceChain, or nil if the stream is not
// open.
func (c *Core) Evidence(stream unit.StreamID) *evidence.Chain {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.streams[stream]
	if !ok {
		return nil
	}
	return st.chain
}
