package color

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWindowStatisticsBasic(t *testing.T) {
	x := []byte{1, 2, 3, 4, 5}
	y := []byte{5, 4, 3, 2, 1}
	s, err := WindowStatistics(x, y, 0, 5, StrategyScalar)
	if err != nil {
		t.Fatalf("WindowStatistics: %v", err)
	}
	if s.SumX != 15 || s.SumY != 15 {
		t.Fatalf("SumX=%d SumY=%d, want 15,15", s.SumX, s.SumY)
	}
	if s.SumXX != 1+4+9+16+25 {
		t.Fatalf("SumXX=%d, want %d", s.SumXX, 1+4+9+16+25)
	}
	if s.SumXY != 5+8+9+8+5 {
		t.Fatalf("SumXY=%d, want %d", s.SumXY, 5+8+9+8+5)
	}
	if s.Count != 5 {
		t.Fatalf("Count=%d, want 5", s.Count)
	}
}

func TestWindowStatisticsIdenticalBuffersZeroVariance(t *testing.T) {
	x := []byte{10, 10, 10, 10}
	s, err := WindowStatistics(x, x, 0, 4, StrategyAVX2)
	if err != nil {
		t.Fatalf("WindowStatistics: %v", err)
	}
	if s.VarX() != 0 || s.VarY() != 0 {
		t.Fatalf("VarX=%f VarY=%f, want 0,0", s.VarX(), s.VarY())
	}
	if s.Covar() != 0 {
		t.Fatalf("Covar=%f, want 0", s.Covar())
	}
	if s.MeanX() != 10 {
		t.Fatalf("MeanX=%f, want 10", s.MeanX())
	}
}

func TestWindowStatisticsOutOfBounds(t *testing.T) {
	x := []byte{1, 2, 3}
	y := []byte{1, 2, 3}
	if _, err := WindowStatistics(x, y, 1, 4, StrategyScalar); err == nil {
		t.Fatal("expected an out-of-bounds error")
	}
	if _, err := WindowStatistics(x, y, -1, 2, StrategyScalar); err == nil {
		t.Fatal("expected an out-of-bounds error")
	}
}

func TestWindowStatisticsBlockTailAcrossStrategies(t *testing.T) {
	x := make([]byte, 13)
	y := make([]byte, 13)
	for i := range x {
		x[i] = byte(i)
		y[i] = byte(13 - i)
	}
	var want WindowStats
	for _, strat := range []Strategy{StrategyScalar, StrategySSE2, StrategyNEON, StrategyAVX, StrategyAVX2} {
		got, err := WindowStatistics(x, y, 0, len(x), strat)
		if err != nil {
			t.Fatalf("strategy %v: %v", strat, err)
		}
		if strat == StrategyScalar {
			want = got
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("strategy %v (-want +got):\n%s", strat, diff)
		}
	}
}
