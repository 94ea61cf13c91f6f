/*
NAME
  identity.go

DESCRIPTION
  identity.go computes the FrameIndexMap (display order, PTS quality,
  reordering flag) from a decode-order sequence of FrameMetadata, per
  spec §4.3.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import "sort"

// IndexMap is the derived mapping between decode order and display order
// for a stream, per spec §3's "FrameIndexMap".
type IndexMap struct {
	meta []Metadata

	// decodeToDisplay[i] gives the display position of decode-order frame i.
	decodeToDisplay []int

	// displayToDecode[i] gives the decode-order index of display position i;
	// the inverse permutation of decodeToDisplay.
	displayToDecode []int

	PtsQuality    PtsQuality
	HasReordering bool
}

// NewIndexMap builds an IndexMap from meta, the frame metadata in decode
// order.
func NewIndexMap(meta []Metadata) *IndexMap {
	n := len(meta)
	m := &IndexMap{meta: append([]Metadata(nil), meta...)}
	if n == 0 {
		m.decodeToDisplay = []int{}
		m.displayToDecode = []int{}
		m.PtsQuality = PtsOk
		return m
	}

	// Stable sort by PTS; frames with no PTS sort to the end, preserving
	// their decode order among themselves (spec §4.3 "Display order").
	display := make([]int, n)
	for i := range display {
		display[i] = i
	}
	sort.SliceStable(display, func(a, b int) bool {
		ia, ib := display[a], display[b]
		ma, mb := meta[ia], meta[ib]
		if !ma.HasPTS && !mb.HasPTS {
			return false
		}
		if !ma.HasPTS {
			return false
		}
		if !mb.HasPTS {
			return true
		}
		return ma.PTS < mb.PTS
	})

	m.displayToDecode = display
	m.decodeToDisplay = make([]int, n)
	for displayIdx, decodeIdx := range display {
		m.decodeToDisplay[decodeIdx] = displayIdx
	}

	m.HasReordering = isReordered(display)
	m.PtsQuality = scorePtsQuality(meta)
	return m
}

// isReordered reports whether perm is not the identity permutation.
func isReordered(perm []int) bool {
	for i, v := range perm {
		if i != v {
			return true
		}
	}
	return false
}

// FrameCount returns the number of frames in the map.
func (m *IndexMap) FrameCount() int { return len(m.meta) }

// DisplayToDecode returns the decode-order index for a display-order
// index, or (-1, false) if out of bounds.
func (m *IndexMap) DisplayToDecode(displayIdx int) (int, bool) {
	if displayIdx < 0 || displayIdx >= len(m.displayToDecode) {
		return -1, false
	}
	return m.displayToDecode[displayIdx], true
}

// DecodeToDisplay returns the display-order index for a decode-order
// index, or (-1, false) if out of bounds.
func (m *IndexMap) DecodeToDisplay(decodeIdx int) (int, bool) {
	if decodeIdx < 0 || decodeIdx >= len(m.decodeToDisplay) {
		return -1, false
	}
	return m.decodeToDisplay[decodeIdx], true
}

// PTS returns the PTS of the frame at decode-order index i.
func (m *IndexMap) PTS(decodeIdx int) (int64, bool) {
	if decodeIdx < 0 || decodeIdx >= len(m.meta) {
		return 0, false
	}
	mt := m.meta[decodeIdx]
	return mt.PTS, mt.HasPTS
}

// DTS returns the DTS of the frame at decode-order index i.
func (m *IndexMap) DTS(decodeIdx int) (int64, bool) {
	if decodeIdx < 0 || decodeIdx >= len(m.meta) {
		return 0, false
	}
	mt := m.meta[decodeIdx]
	return mt.DTS, mt.HasDTS
}

// scorePtsQuality implements spec §4.3 / §8's PTS-quality scoring:
// Ok if every frame has a distinct PTS; Bad if half or more are missing,
// or any duplicate exists; Warn otherwise (some missing, or present but
// jittery by more than one estimated frame duration).
func scorePtsQuality(meta []Metadata) PtsQuality {
	n := len(meta)
	if n == 0 {
		return PtsOk
	}

	missing := 0
	seen := make(map[int64]int, n)
	var present []int64 // PTS values in decode order, for jitter check.
	for _, mt := range meta {
		if !mt.HasPTS {
			missing++
			continue
		}
		seen[mt.PTS]++
		present = append(present, mt.PTS)
	}

	duplicate := false
	for _, count := range seen {
		if count > 1 {
			duplicate = true
			break
		}
	}

	if missing*2 >= n || duplicate {
		return PtsBad
	}
	if missing == 0 && !duplicate {
		if !jittery(present) {
			return PtsOk
		}
		return PtsWarn
	}
	return PtsWarn
}

// jittery reports whether a decode-order sequence of present PTS values
// is non-monotone by more than one estimated frame duration. The
// estimated frame duration is the median of consecutive positive deltas;
// a backward step larger than that median indicates jitter rather than
// ordinary B-frame reordering (which only ever steps by a fraction of the
// duration before returning to trend).
func jittery(pts []int64) bool {
	if len(pts) < 3 {
		return false
	}
	deltas := make([]int64, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		d := pts[i] - pts[i-1]
		if d > 0 {
			deltas = append(deltas, d)
		}
	}
	if len(deltas) == 0 {
		return true // Every step is non-positive: badly out of order.
	}
	dur := median(deltas)
	if dur <= 0 {
		return false
	}
	for i := 1; i < len(pts); i++ {
		d := pts[i] - pts[i-1]
		if d < 0 && -d > dur {
			return true
		}
	}
	return false
}

func median(v []int64) int64 {
	s := append([]int64(nil), v...)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s[len(s)/2]
}
