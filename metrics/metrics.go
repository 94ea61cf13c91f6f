/*
NAME
  metrics.go

DESCRIPTION
  metrics.go implements PSNR and SSIM atop color.WindowStatistics, per
  spec §2's QualityMetrics kernel line ("PSNR and SSIM built atop the
  SIMD window-statistics primitive"). This package stays deliberately
  thin: the window-statistics kernel itself — the SIMD-dispatched,
  performance-sensitive part — lives in package color; everything here
  is the constant-time arithmetic spec.md names the kernel's contract
  (the quality-metrics suite beyond that contract, e.g. batch reports
  or metric selection UI, is out of scope per spec.md §1).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package metrics implements the PSNR and SSIM quality metrics on top of
// package color's window-statistics kernel.
package metrics

import (
	"math"

	"github.com/ausocean/bitscope/color"
)

// maxSample is the peak sample value for 8-bit grayscale planes, used in
// the PSNR formula's MAX_I term.
const maxSample = 255

// ssimC1, ssimC2 are the standard SSIM stabilization constants for 8-bit
// samples, with K1=0.01, K2=0.03 and dynamic range L=255:
// C1 = (K1*L)^2, C2 = (K2*L)^2.
const (
	ssimC1 = 6.5025  // (0.01 * 255)^2
	ssimC2 = 58.5225 // (0.03 * 255)^2
)

// PSNR computes the peak signal-to-noise ratio in dB between two
// equal-length grayscale buffers. Returns +Inf if the buffers are
// identical (MSE of zero).
func PSNR(a, b []byte, strategy color.Strategy) (float64, error) {
	s, err := color.WindowStatistics(a, b, 0, len(a), strategy)
	if err != nil {
		return 0, err
	}
	if s.Count == 0 {
		return 0, nil
	}
	mse := sumSquaredDiff(s) / float64(s.Count)
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(float64(maxSample*maxSample)/mse), nil
}

// sumSquaredDiff recovers sum((x-y)^2) from the cross statistics:
// sum((x-y)^2) = SumXX - 2*SumXY + SumYY.
func sumSquaredDiff(s color.WindowStats) float64 {
	return float64(s.SumXX) - 2*float64(s.SumXY) + float64(s.SumYY)
}

// SSIM computes the structural similarity index between two equal-length
// grayscale buffers, treated as a single window (callers tile the image
// into windows themselves and average, per the standard windowed-SSIM
// procedure; this function computes one window's index).
func SSIM(a, b []byte, strategy color.Strategy) (float64, error) {
	s, err := color.WindowStatistics(a, b, 0, len(a), strategy)
	if err != nil {
		return 0, err
	}
	if s.Count == 0 {
		return 0, nil
	}
	muX, muY := s.MeanX(), s.MeanY()
	varX, varY := s.VarX(), s.VarY()
	covXY := s.Covar()

	num := (2*muX*muY + ssimC1) * (2*covXY + ssimC2)
	den := (muX*muX + muY*muY + ssimC1) * (varX + varY + ssimC2)
	if den == 0 {
		return 1, nil
	}
	return num / den, nil
}

// MeanSSIM tiles a and b into non-overlapping windows of windowSize
// samples (the final partial window, if any, is included as-is) and
// returns the mean per-window SSIM, the common way the windowed SSIM
// procedure reports a single-number quality score for a whole frame.
func MeanSSIM(a, b []byte, windowSize int, strategy color.Strategy) (float64, error) {
	if windowSize <= 0 {
		windowSize = len(a)
	}
	if len(a) == 0 {
		return 1, nil
	}
	var sum float64
	var n int
	for start := 0; start < len(a); start += windowSize {
		end := start + windowSize
		if end > len(a) {
			end = len(a)
		}
		v, err := SSIM(a[start:end], b[start:end], strategy)
		if err != nil {
			return 0, err
		}
		sum += v
		n++
	}
	return sum / float64(n), nil
}
