/*
NAME
  grid.go

DESCRIPTION
  grid.go provides the codec-independent overlay grids (QPGrid, MVGrid,
  PartitionGrid, PredictionGrid, TransformGrid) described in spec §3.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package grid provides the codec-independent overlay grids produced by
// the OverlayExtractor layer (spec §4.4): QPGrid, MVGrid, PartitionGrid,
// PredictionGrid and TransformGrid.
package grid

// BlockMode classifies a cell's coding mode for the MVGrid.
type BlockMode uint8

const (
	BlockIntra BlockMode = iota
	BlockInter
	BlockSkip
)

// MotionVector is a quarter-pel motion vector. ZeroMV and the MISSING
// sentinel (HasMV == false) are defined per spec §3.
type MotionVector struct {
	X, Y  int32 // Quarter-pel units.
	HasMV bool
}

// ZeroMV is the MV sentinel for a zero motion vector, distinct from
// MISSING (a MotionVector with HasMV == false).
var ZeroMV = MotionVector{HasMV: true}

// QPGrid covers the entire coded picture with grid_w x grid_h samples of
// signed QP, per spec §3 and §4.4 ("QPGrid covers the entire coded
// picture; padding cells repeat the base QP").
type QPGrid struct {
	GridW, GridH     int
	BlockW, BlockH   int
	BaseQP           int32
	MinQP, MaxQP     int32
	Samples          []int32 // Row-major, length GridW*GridH.
}

// At returns the QP sample at (col, row), or false if out of bounds.
func (g *QPGrid) At(col, row int) (int32, bool) {
	if col < 0 || row < 0 || col >= g.GridW || row >= g.GridH {
		return 0, false
	}
	return g.Samples[row*g.GridW+col], true
}

// NewUniformQPGrid builds a QPGrid where every cell equals base, the
// deterministic scaffold spec §4.4 requires when full block-level QP
// parsing is unavailable.
func NewUniformQPGrid(gridW, gridH, blockW, blockH int, base int32) *QPGrid {
	samples := make([]int32, gridW*gridH)
	for i := range samples {
		samples[i] = base
	}
	return &QPGrid{
		GridW: gridW, GridH: gridH,
		BlockW: blockW, BlockH: blockH,
		BaseQP: base, MinQP: base, MaxQP: base,
		Samples: samples,
	}
}

// MVGrid has QPGrid's grid layout but is built on fixed 16x16
// visualization cells (spec §4.4) rather than the codec's block size, and
// carries two motion-vector lists plus a per-cell BlockMode.
type MVGrid struct {
	GridW, GridH   int
	BlockW, BlockH int
	L0, L1         []MotionVector // Row-major, length GridW*GridH.
	Modes          []BlockMode
}

// NewIntraMVGrid builds an MVGrid where every cell is Intra with MISSING
// motion vectors in both lists, the scaffold for key frames.
func NewIntraMVGrid(gridW, gridH, blockW, blockH int) *MVGrid {
	n := gridW * gridH
	l0 := make([]MotionVector, n)
	l1 := make([]MotionVector, n)
	modes := make([]BlockMode, n)
	for i := 0; i < n; i++ {
		modes[i] = BlockIntra
		// l0[i], l1[i] default to the zero value, HasMV == false == MISSING.
	}
	return &MVGrid{GridW: gridW, GridH: gridH, BlockW: blockW, BlockH: blockH, L0: l0, L1: l1, Modes: modes}
}

// PartitionType is a codec-independent partition-tree split, per spec §3.
type PartitionType uint8

const (
	PartitionNone PartitionType = iota
	PartitionSplit
	PartitionHorz
	PartitionVert
	PartitionTernaryHorz
	PartitionTernaryVert
	PartitionAsymmetricHorz
	PartitionAsymmetricVert
)

// PartitionBlock is one leaf block of a partition tree, per spec §3.
type PartitionBlock struct {
	X, Y, W, H int
	Type       PartitionType
	Depth      int
}

// PartitionGrid is the list of leaf blocks covering a coded_w x coded_h
// picture, in raster order within each superblock/CTU (spec §4.4).
type PartitionGrid struct {
	CodedW, CodedH int
	Blocks         []PartitionBlock
}

// NewUniformPartitionGrid builds a one-block-per-SB/CTU scaffold, the
// fallback spec §4.4 mandates when full partition parsing is out of
// scope for a codec.
func NewUniformPartitionGrid(codedW, codedH, unit int) *PartitionGrid {
	pg := &PartitionGrid{CodedW: codedW, CodedH: codedH}
	for y := 0; y < codedH; y += unit {
		h := unit
		if y+h > codedH {
			h = codedH - y
		}
		for x := 0; x < codedW; x += unit {
			w := unit
			if x+w > codedW {
				w = codedW - x
			}
			pg.Blocks = append(pg.Blocks, PartitionBlock{X: x, Y: y, W: w, H: h, Type: PartitionNone, Depth: 0})
		}
	}
	return pg
}

// PredictionMode is a codec-independent per-cell prediction mode.
type PredictionMode uint8

const (
	PredModeUnknown PredictionMode = iota
	PredModeIntraDC
	PredModeIntraDirectional
	PredModeInterSingle
	PredModeInterCompound
	PredModeSkip
)

// PredictionGrid holds an optional prediction mode per cell, sharing
// QPGrid's geometry.
type PredictionGrid struct {
	GridW, GridH   int
	BlockW, BlockH int
	Modes          []PredictionMode
	HasMode        []bool
}

// TransformSize is a codec-independent per-cell transform size.
type TransformSize uint8

const (
	TransformUnknown TransformSize = iota
	Transform4x4
	Transform8x8
	Transform16x16
	Transform32x32
	Transform64x64
)

// TransformGrid holds an optional transform size per cell, sharing
// QPGrid's geometry.
type TransformGrid struct {
	GridW, GridH   int
	BlockW, BlockH int
	Sizes          []TransformSize
	HasSize        []bool
}

// Kind enumerates the five grid kinds the ExtractOverlay command can
// request (spec §6).
type Kind uint8

const (
	KindQP Kind = iota
	KindMV
	KindPartition
	KindPrediction
	KindTransform
)
