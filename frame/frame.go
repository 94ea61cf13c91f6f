/*
NAME
  frame.go

DESCRIPTION
  frame.go provides FrameMetadata, the codec-independent Quirks structure,
  and PtsQuality scoring, per spec §3 and §4.3.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame provides the frame-identity and display/decode axis
// described in spec §4.3: it maps decode-order frames to display order,
// scores PTS quality, and records codec-specific quirks such as AV1/AV3
// show-existing frames.
package frame

// Metadata is one frame's PTS/DTS in the container's timebase. HasPTS
// and HasDTS report whether each value is present; Go does not have a
// built-in Option type so these flags play that role, matching the zero-value-friendly
// convention used across bitscope (see diag.Diagnostic).
type Metadata struct {
	PTS    int64
	HasPTS bool
	DTS    int64
	HasDTS bool
}

// FieldParity classifies interlaced field pictures (MPEG-2, interlaced
// HEVC).
type FieldParity uint8

const (
	FieldParityNone FieldParity = iota // Progressive frame picture.
	FieldParityTop
	FieldParityBottom
)

// Quirks captures the codec-specific peculiarities FrameIdentity attaches
// to each frame, per spec §4.3.
type Quirks struct {
	// IsVirtual is true for AV1/AV3 show-existing frames: the frame
	// carries no coded bytes of its own and references an earlier slot.
	IsVirtual     bool
	RefSlot       uint32 // Valid only when IsVirtual.
	HasRefSlot    bool

	FilmGrain bool

	HasTileCount bool
	TileCount    uint32

	FieldParity    FieldParity
	HasFieldParity bool
}

// NeedsSpecialHandling reports whether this frame's quirks require the
// overlay/decode layers to do anything beyond the default path.
func (q Quirks) NeedsSpecialHandling() bool {
	return q.IsVirtual || q.FilmGrain || (q.HasTileCount && q.TileCount >= 2)
}

// PtsQuality classifies the trustworthiness of a stream's timestamps, per
// spec §4.3 and §8.
type PtsQuality uint8

const (
	PtsOk PtsQuality = iota
	PtsWarn
	PtsBad
)

// String implements fmt.Stringer.
func (q PtsQuality) String() string {
	switch q {
	case PtsOk:
		return "Ok"
	case PtsWarn:
		return "Warn"
	case PtsBad:
		return "Bad"
	default:
		return "Unknown"
	}
}
