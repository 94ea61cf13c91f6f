package evidence

import (
	"testing"

	"github.com/ausocean/bitscope/bitrange"
)

func TestChainRoundTrip(t *testing.T) {
	c := New()

	r := bitrange.New(128, 64)
	boID := c.AddBitOffset(r, "OBU_FRAME_HEADER")
	synID := c.AddSyntax("FRAME_HEADER", "frame_header", r, boID, 0, false)
	decID := c.AddDecode("yuv_frame", synID)
	c.SetFrameIndex(decID, 2)
	vizID := c.AddViz("qp_grid_cell", decID)

	got, err := c.VizToBitRange(vizID)
	if err != nil {
		t.Fatalf("VizToBitRange: %v", err)
	}
	if got != r {
		t.Fatalf("VizToBitRange = %+v, want %+v", got, r)
	}

	se, ok := c.SyntaxByID(synID)
	if !ok || se.NodeType != "FRAME_HEADER" {
		t.Fatalf("SyntaxByID = %+v, %v", se, ok)
	}

	decs := c.DecodeBySyntax(synID)
	if len(decs) != 1 || decs[0].ID != decID {
		t.Fatalf("DecodeBySyntax = %+v", decs)
	}

	vizs := c.VizByDecode(decID)
	if len(vizs) != 1 || vizs[0].ID != vizID {
		t.Fatalf("VizByDecode = %+v", vizs)
	}
}

func TestChainByBitTightestContainment(t *testing.T) {
	c := New()
	outer := bitrange.New(0, 800)
	inner := bitrange.New(100, 64)
	c.AddBitOffset(outer, "OBU")
	c.AddBitOffset(inner, "FRAME_HEADER")

	e, ok := c.BitOffsetByBit(110)
	if !ok {
		t.Fatal("expected containment")
	}
	if e.Provenance != "FRAME_HEADER" {
		t.Fatalf("BitOffsetByBit picked %q, want tightest range FRAME_HEADER", e.Provenance)
	}
}

func TestChainClear(t *testing.T) {
	c := New()
	r := bitrange.New(0, 8)
	c.AddBitOffset(r, "x")
	bo, syn, dec, viz := c.Counts()
	if bo != 1 || syn != 0 || dec != 0 || viz != 0 {
		t.Fatalf("unexpected counts before clear: %d %d %d %d", bo, syn, dec, viz)
	}
	c.Clear()
	bo, syn, dec, viz = c.Counts()
	if bo != 0 || syn != 0 || dec != 0 || viz != 0 {
		t.Fatalf("expected all-zero counts after clear, got %d %d %d %d", bo, syn, dec, viz)
	}
}

func TestChainDanglingLinkErrors(t *testing.T) {
	c := New()
	if _, err := c.VizToBitRange(999); err == nil {
		t.Fatal("expected error for unknown viz id")
	}
}
