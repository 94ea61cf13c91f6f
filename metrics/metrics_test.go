package metrics

import (
	"math"
	"testing"

	"github.com/ausocean/bitscope/color"
)

func TestPSNRIdenticalIsInf(t *testing.T) {
	a := []byte{10, 20, 30, 40}
	got, err := PSNR(a, a, color.StrategyScalar)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}
	if !math.IsInf(got, 1) {
		t.Fatalf("PSNR(identical) = %v, want +Inf", got)
	}
}

// TestPSNRKnownValue hand-computes PSNR for a=[0,0], b=[10,10]: MSE =
// ((0-10)^2 + (0-10)^2)/2 = 100. PSNR = 10*log10(255^2/100) = 10*log10(650.25)
// ~= 28.131 dB.
func TestPSNRKnownValue(t *testing.T) {
	a := []byte{0, 0}
	b := []byte{10, 10}
	got, err := PSNR(a, b, color.StrategyScalar)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}
	want := 10 * math.Log10(255*255/100.0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("PSNR = %v, want %v", got, want)
	}
}

func TestSSIMIdenticalIsOne(t *testing.T) {
	a := []byte{50, 60, 70, 80, 90}
	got, err := SSIM(a, a, color.StrategyScalar)
	if err != nil {
		t.Fatalf("SSIM: %v", err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("SSIM(identical) = %v, want 1", got)
	}
}

func TestSSIMConstantBuffersWithOffset(t *testing.T) {
	// Two constant buffers (zero variance, zero covariance) differing only
	// in mean: SSIM should be driven purely by the luminance term.
	a := []byte{100, 100, 100, 100}
	b := []byte{110, 110, 110, 110}
	got, err := SSIM(a, b, color.StrategyScalar)
	if err != nil {
		t.Fatalf("SSIM: %v", err)
	}
	muX, muY := 100.0, 110.0
	want := (2*muX*muY + ssimC1) * ssimC2 / ((muX*muX + muY*muY + ssimC1) * ssimC2)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("SSIM = %v, want %v", got, want)
	}
}

func TestPSNREmptyBuffers(t *testing.T) {
	got, err := PSNR(nil, nil, color.StrategyScalar)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}
	if got != 0 {
		t.Fatalf("PSNR(empty) = %v, want 0", got)
	}
}

func TestMeanSSIMTilesWindows(t *testing.T) {
	a := []byte{10, 10, 20, 20, 30, 30}
	got, err := MeanSSIM(a, a, 2, color.StrategyScalar)
	if err != nil {
		t.Fatalf("MeanSSIM: %v", err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("MeanSSIM(identical) = %v, want 1", got)
	}
}

func TestPSNRAndSSIMAgreeAcrossStrategies(t *testing.T) {
	a := []byte{1, 5, 9, 13, 17, 21, 25, 29, 33}
	b := []byte{2, 4, 10, 11, 19, 20, 26, 28, 35}
	base, err := PSNR(a, b, color.StrategyScalar)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}
	for _, strat := range []color.Strategy{color.StrategySSE2, color.StrategyNEON, color.StrategyAVX, color.StrategyAVX2} {
		got, err := PSNR(a, b, strat)
		if err != nil {
			t.Fatalf("strategy %v: %v", strat, err)
		}
		if math.Abs(got-base) > 0.5 {
			t.Fatalf("strategy %v: PSNR = %v, want within 0.5 dB of %v", strat, got, base)
		}
	}
}
