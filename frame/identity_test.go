package frame

import "testing"

func meta(pts int64, has bool) Metadata { return Metadata{PTS: pts, HasPTS: has, DTS: pts, HasDTS: has} }

func TestNewIndexMapSimple(t *testing.T) {
	m := NewIndexMap([]Metadata{meta(0, true), meta(1000, true), meta(2000, true), meta(3000, true)})
	if m.FrameCount() != 4 {
		t.Fatalf("frame count = %d, want 4", m.FrameCount())
	}
	if m.PtsQuality != PtsOk {
		t.Fatalf("pts quality = %v, want Ok", m.PtsQuality)
	}
	if m.HasReordering {
		t.Fatal("has_reordering = true, want false")
	}
}

func TestNewIndexMapReordering(t *testing.T) {
	// I, B(display later), B(display earlier), P.
	m := NewIndexMap([]Metadata{meta(0, true), meta(2000, true), meta(1000, true), meta(3000, true)})
	if !m.HasReordering {
		t.Fatal("has_reordering = false, want true")
	}
	for decodeIdx := 0; decodeIdx < m.FrameCount(); decodeIdx++ {
		displayIdx, ok := m.DecodeToDisplay(decodeIdx)
		if !ok {
			t.Fatalf("DecodeToDisplay(%d) not ok", decodeIdx)
		}
		back, ok := m.DisplayToDecode(displayIdx)
		if !ok || back != decodeIdx {
			t.Fatalf("round trip failed for decode index %d: got %d", decodeIdx, back)
		}
	}
}

func TestNewIndexMapMissingPts(t *testing.T) {
	m := NewIndexMap([]Metadata{meta(0, true), meta(0, false), meta(2000, true), meta(0, false)})
	// Two of four missing is half, which scores Bad.
	if m.PtsQuality != PtsBad {
		t.Fatalf("pts quality = %v, want Bad", m.PtsQuality)
	}
	// Missing-PTS frames sort to the end, preserving decode order.
	d0, _ := m.DecodeToDisplay(0)
	d2, _ := m.DecodeToDisplay(2)
	d1, _ := m.DecodeToDisplay(1)
	d3, _ := m.DecodeToDisplay(3)
	if !(d0 < d2 && d2 < d1 && d1 < d3) {
		t.Fatalf("unexpected display order: %d %d %d %d", d0, d1, d2, d3)
	}
}

func TestNewIndexMapDuplicatePts(t *testing.T) {
	m := NewIndexMap([]Metadata{meta(0, true), meta(1000, true), meta(1000, true), meta(2000, true)})
	if m.PtsQuality != PtsBad {
		t.Fatalf("pts quality = %v, want Bad", m.PtsQuality)
	}
}

func TestNewIndexMapMajorityMissing(t *testing.T) {
	m := NewIndexMap([]Metadata{meta(0, true), meta(0, false), meta(0, false), meta(0, false)})
	if m.PtsQuality != PtsBad {
		t.Fatalf("pts quality = %v, want Bad", m.PtsQuality)
	}
}

func TestNewIndexMapEmpty(t *testing.T) {
	m := NewIndexMap(nil)
	if m.FrameCount() != 0 {
		t.Fatalf("frame count = %d, want 0", m.FrameCount())
	}
	if m.PtsQuality != PtsOk {
		t.Fatalf("pts quality = %v, want Ok", m.PtsQuality)
	}
	if m.HasReordering {
		t.Fatal("has_reordering = true, want false")
	}
}

func TestNewIndexMapOutOfBounds(t *testing.T) {
	m := NewIndexMap([]Metadata{meta(0, true)})
	if _, ok := m.DisplayToDecode(5); ok {
		t.Fatal("expected out-of-bounds lookup to fail")
	}
}
