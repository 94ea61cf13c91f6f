/*
NAME
  selection.go

DESCRIPTION
  selection.go defines SelectionState, the per-stream selection Core
  mutates only through commands, per spec §4.8.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import (
	"github.com/ausocean/bitscope/bitrange"
	"github.com/ausocean/bitscope/unit"
)

// FrameAxis distinguishes whether a SelectFrame command's frame index is
// expressed on the display axis or the decode axis, per spec §6's
// "SelectFrame" command row ("frame_index (display or decode — tagged)").
type FrameAxis uint8

const (
	AxisDisplay FrameAxis = iota
	AxisDecode
)

// SelectionState is the one piece of mutable per-stream state spec §4.8
// names explicitly: the selected unit, frame, and bit range. All three
// are independently optional.
type SelectionState struct {
	HasUnit bool
	Unit    unit.Key

	HasFrame   bool
	FrameIndex uint32
	FrameAxis  FrameAxis

	HasBitRange bool
	BitRange    bitrange.BitRange
}
