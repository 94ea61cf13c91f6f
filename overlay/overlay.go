/*
NAME
  overlay.go

DESCRIPTION
  overlay.go implements the OverlayExtractor contract (spec §4.4): given
  a parsed unit.Node and its coded dimensions, produce the five grid
  kinds from package grid. Every codec here falls back to the
  deterministic scaffold spec §4.4 prescribes ("one block per CTU/SB, its
  mode determined from the slice type... its QP from the base QP"),
  since none of the codec parsers in this module do full block-level
  (mode/MV/partition/QP) parsing — grounded directly on grid.go's own
  NewUniform* and NewIntraMVGrid scaffold constructors, which were written
  for exactly this fallback.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package overlay implements the OverlayExtractor contract of spec §4.4:
// QPGrid, MVGrid, PartitionGrid, PredictionGrid and TransformGrid,
// derived from a parsed frame's unit.Node and coded dimensions.
package overlay

import (
	"github.com/pkg/errors"

	"github.com/ausocean/bitscope/container"
	"github.com/ausocean/bitscope/grid"
	"github.com/ausocean/bitscope/unit"
)

// ErrUnsupported is returned by Extract for a grid kind it does not
// recognise (spec's OverlayError::Unsupported). Every codec here supports
// all five recognised kinds.
var ErrUnsupported = errors.New("overlay: unsupported grid for codec")

// nominalBaseQP is the scaffold QP used when no block-level QP is
// available, picked to sit mid-range for typical 8-bit content.
const nominalBaseQP = 28

// mvCellSize is the fixed 16x16 visualization cell size for MVGrid, per
// spec §4.4, independent of the codec's native coding block size.
const mvCellSize = 16

// ctuSize returns the partitioning unit size used for the scaffold's
// one-block-per-CTU/SB/macroblock fallback, per codec.
func ctuSize(codec container.Codec) int {
	switch codec {
	case container.CodecAV1, container.CodecAV3, container.CodecVP9:
		return 64
	case container.CodecHEVC, container.CodecVVC:
		return 64
	case container.CodecAVC, container.CodecMPEG2:
		return 16
	default:
		return 16
	}
}

// Extractor produces overlay grids for one codec's frames, falling back
// to the deterministic scaffold described in spec §4.4.
type Extractor struct {
	Codec         container.Codec
	Width, Height int
}

// New returns an Extractor for codec at the given coded dimensions.
func New(codec container.Codec, width, height int) *Extractor {
	return &Extractor{Codec: codec, Width: width, Height: height}
}

// gridDims returns the grid sample counts for a cellSize x cellSize grid
// covering Width x Height, rounding up so trailing partial cells are
// covered (their samples repeat the base value, per spec §4.4).
func (e *Extractor) gridDims(cellSize int) (w, h int) {
	if cellSize <= 0 {
		cellSize = 1
	}
	w = (e.Width + cellSize - 1) / cellSize
	h = (e.Height + cellSize - 1) / cellSize
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return w, h
}

// ExtractQP produces the scaffold QPGrid for n: a uniform grid at base
// QP, since no codec here parses block-level QP deltas.
func (e *Extractor) ExtractQP(n *unit.Node) *grid.QPGrid {
	unitSize := ctuSize(e.Codec)
	gw, gh := e.gridDims(unitSize)
	return grid.NewUniformQPGrid(gw, gh, unitSize, unitSize, nominalBaseQP)
}

// ExtractMV produces the scaffold MVGrid for n: Intra/MISSING for key
// frames, and a best-effort Inter/ZeroMV grid otherwise (no access unit
// here carries parsed per-block motion vectors, so every inter cell is
// attributed a zero MV rather than MISSING, distinguishing "known to be
// inter-predicted with unknown MV" from "intra").
func (e *Extractor) ExtractMV(n *unit.Node) *grid.MVGrid {
	gw, gh := e.gridDims(mvCellSize)
	if !n.HasFrameType || n.FrameType == unit.FrameTypeKey {
		return grid.NewIntraMVGrid(gw, gh, mvCellSize, mvCellSize)
	}
	g := grid.NewIntraMVGrid(gw, gh, mvCellSize, mvCellSize)
	for i := range g.Modes {
		g.Modes[i] = grid.BlockInter
		g.L0[i] = grid.ZeroMV
	}
	return g
}

// ExtractPartition produces the scaffold PartitionGrid for n: one leaf
// block per CTU/SB/macroblock, undivided.
func (e *Extractor) ExtractPartition(n *unit.Node) *grid.PartitionGrid {
	unitSize := ctuSize(e.Codec)
	return grid.NewUniformPartitionGrid(e.Width, e.Height, unitSize)
}

// ExtractPrediction produces a PredictionGrid scaffold: every cell's mode
// inferred from the frame's overall coding type (no per-block mode
// parsing is available), marked HasMode so callers can distinguish this
// from "mode truly unknown".
func (e *Extractor) ExtractPrediction(n *unit.Node) *grid.PredictionGrid {
	unitSize := ctuSize(e.Codec)
	gw, gh := e.gridDims(unitSize)
	count := gw * gh
	modes := make([]grid.PredictionMode, count)
	has := make([]bool, count)
	mode := grid.PredModeInterSingle
	if !n.HasFrameType || n.FrameType == unit.FrameTypeKey {
		mode = grid.PredModeIntraDC
	}
	for i := range modes {
		modes[i] = mode
		has[i] = true
	}
	return &grid.PredictionGrid{GridW: gw, GridH: gh, BlockW: unitSize, BlockH: unitSize, Modes: modes, HasMode: has}
}

// ExtractTransform produces a TransformGrid scaffold: every cell sized at
// the codec's CTU/SB/macroblock granularity, since no codec here parses
// the transform-tree split.
func (e *Extractor) ExtractTransform(n *unit.Node) *grid.TransformGrid {
	unitSize := ctuSize(e.Codec)
	gw, gh := e.gridDims(unitSize)
	count := gw * gh
	sizes := make([]grid.TransformSize, count)
	has := make([]bool, count)
	size := sizeForUnit(unitSize)
	for i := range sizes {
		sizes[i] = size
		has[i] = true
	}
	return &grid.TransformGrid{GridW: gw, GridH: gh, BlockW: unitSize, BlockH: unitSize, Sizes: sizes, HasSize: has}
}

func sizeForUnit(unitSize int) grid.TransformSize {
	switch {
	case unitSize >= 64:
		return grid.Transform64x64
	case unitSize >= 32:
		return grid.Transform32x32
	case unitSize >= 16:
		return grid.Transform16x16
	default:
		return grid.Transform8x8
	}
}

// Extract produces the grid of the requested kind for n.
func (e *Extractor) Extract(n *unit.Node, kind grid.Kind) (interface{}, error) {
	switch kind {
	case grid.KindQP:
		return e.ExtractQP(n), nil
	case grid.KindMV:
		return e.ExtractMV(n), nil
	case grid.KindPartition:
		return e.ExtractPartition(n), nil
	case grid.KindPrediction:
		return e.ExtractPrediction(n), nil
	case grid.KindTransform:
		return e.ExtractTransform(n), nil
	default:
		return nil, errors.Wrapf(ErrUnsupported, "kind %d", kind)
	}
}
