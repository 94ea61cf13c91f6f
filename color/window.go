/*
NAME
  window.go

DESCRIPTION
  window.go implements the window-statistics kernel the external
  SSIM/PSNR metrics suite builds on: running sums of x, y, x^2, y^2 and
  x*y over a [start,end) byte range of two grayscale buffers, under the
  same strategy dispatch as convert.go.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package color

import "github.com/pkg/errors"

// ErrRangeOutOfBounds is returned by WindowStatistics when start/end fall
// outside the buffers given.
var ErrRangeOutOfBounds = errors.New("color: window range out of bounds")

// WindowStats holds the running sums metrics.SSIM and metrics.PSNR need
// over a sample window. Sums are accumulated in 64-bit lanes even though
// each sample is at most 8 bits, since a large window's sum-of-squares
// overflows 32 bits.
type WindowStats struct {
	SumX, SumY     int64
	SumXX, SumYY   int64
	SumXY          int64
	Count          int64
}

// WindowStatistics computes WindowStats over x[start:end] and
// y[start:end], which must be grayscale (one byte per sample) buffers of
// equal length.
func WindowStatistics(x, y []byte, start, end int, strategy Strategy) (WindowStats, error) {
	if start < 0 || end < start || end > len(x) || end > len(y) {
		return WindowStats{}, errors.Wrapf(ErrRangeOutOfBounds, "[%d,%d) over len %d,%d", start, end, len(x), len(y))
	}

	var s WindowStats
	block := strategy.blockWidth()
	i := start
	for ; i+block <= end; i += block {
		for j := 0; j < block; j++ {
			accumulate(&s, x[i+j], y[i+j])
		}
	}
	for ; i < end; i++ {
		accumulate(&s, x[i], y[i])
	}
	return s, nil
}

func accumulate(s *WindowStats, xv, yv byte) {
	xi, yi := int64(xv), int64(yv)
	s.SumX += xi
	s.SumY += yi
	s.SumXX += xi * xi
	s.SumYY += yi * yi
	s.SumXY += xi * yi
	s.Count++
}

// MeanX returns the window's mean x sample value.
func (s WindowStats) MeanX() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.SumX) / float64(s.Count)
}

func (s WindowStats) MeanY() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.SumY) / float64(s.Count)
}

// VarX returns the population variance of the x samples in the window.
func (s WindowStats) VarX() float64 {
	if s.Count == 0 {
		return 0
	}
	m := s.MeanX()
	return float64(s.SumXX)/float64(s.Count) - m*m
}

// VarY returns the population variance of the y samples in the window.
func (s WindowStats) VarY() float64 {
	if s.Count == 0 {
		return 0
	}
	m := s.MeanY()
	return float64(s.SumYY)/float64(s.Count) - m*m
}

// Covar returns the population covariance between the x and y samples.
func (s WindowStats) Covar() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.SumXY)/float64(s.Count) - s.MeanX()*s.MeanY()
}
