/*
NAME
  convert.go

DESCRIPTION
  convert.go implements the BT.601 fixed-point YUV->RGB conversion of
  spec §4.6: subsampling-aware plane walking, 8/10/12-bit sample
  normalization, and the exact fixed-point coefficients the spec
  specifies (`(Y*128 + 181*V') >> 7` and friends).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package color

import "github.com/pkg/errors"

// Subsampling identifies a chroma subsampling scheme.
type Subsampling uint8

const (
	Subsampling420 Subsampling = iota
	Subsampling422
	Subsampling444
)

// chromaOffset is YUV_CHROMA_OFFSET from spec §4.6.
const chromaOffset = 128

// Errors returned by Convert, per spec §4.6.
var (
	ErrUnsupportedBitDepth  = errors.New("color: unsupported bit depth")
	ErrPlaneSizeMismatch    = errors.New("color: plane size mismatch")
	ErrDimensionTooLarge    = errors.New("color: dimension too large")
)

// maxDimension bounds width/height for spec §4.6's DimensionTooLarge
// error. At this bound the plane-size products (up to width*height*3)
// fit a 64-bit int but not a 32-bit one.
const maxDimension = 1 << 16

// Converter converts planar YUV to interleaved RGB using the strategy
// chosen at construction.
type Converter struct {
	strategy Strategy
}

// New returns a Converter using the fastest strategy detectStrategy
// finds on this machine.
func New() *Converter { return &Converter{strategy: detectStrategy()} }

// Strategy reports the strategy this Converter dispatches to.
func (c *Converter) Strategy() Strategy { return c.strategy }

// Convert converts planar Y/U/V samples (each a contiguous byte buffer;
// 10/12-bit samples are little-endian 16-bit pairs) to interleaved RGB
// triplets in out, per spec §4.6. out must be at least width*height*3
// bytes.
func (c *Converter) Convert(y, u, v []byte, width, height int, out []byte, bitDepth int, sub Subsampling) error {
	if bitDepth != 8 && bitDepth != 10 && bitDepth != 12 {
		return errors.Wrapf(ErrUnsupportedBitDepth, "%d", bitDepth)
	}
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return errors.Wrapf(ErrDimensionTooLarge, "%dx%d", width, height)
	}

	bytesPerSample := 1
	if bitDepth > 8 {
		bytesPerSample = 2
	}
	chromaW, chromaH := chromaDims(width, height, sub)

	ySize := width * height * bytesPerSample
	cSize := chromaW * chromaH * bytesPerSample
	if len(y) < ySize {
		return errors.Wrapf(ErrPlaneSizeMismatch, "y: expected %d, actual %d", ySize, len(y))
	}
	if len(u) < cSize {
		return errors.Wrapf(ErrPlaneSizeMismatch, "u: expected %d, actual %d", cSize, len(u))
	}
	if len(v) < cSize {
		return errors.Wrapf(ErrPlaneSizeMismatch, "v: expected %d, actual %d", cSize, len(v))
	}
	if len(out) < width*height*3 {
		return errors.Wrapf(ErrPlaneSizeMismatch, "out: expected %d, actual %d", width*height*3, len(out))
	}

	shift := uint(bitDepth - 8)
	block := c.strategy.blockWidth()

	for row := 0; row < height; row++ {
		col := 0
		for ; col+block <= width; col += block {
			for i := 0; i < block; i++ {
				convertPixel(y, u, v, out, width, chromaW, bytesPerSample, shift, sub, row, col+i)
			}
		}
		for ; col < width; col++ {
			convertPixel(y, u, v, out, width, chromaW, bytesPerSample, shift, sub, row, col)
		}
	}
	return nil
}

// chromaDims returns the chroma plane dimensions for sub.
func chromaDims(width, height int, sub Subsampling) (w, h int) {
	switch sub {
	case Subsampling420:
		return (width + 1) / 2, (height + 1) / 2
	case Subsampling422:
		return (width + 1) / 2, height
	default: // Subsampling444.
		return width, height
	}
}

// readSample reads one sample at (row, col) from plane, which has
// stride*height*bytesPerSample bytes, normalizing 10/12-bit samples down
// to 8-bit range via the right shift spec §4.6 specifies.
func readSample(plane []byte, stride, row, col, bytesPerSample int, shift uint) int32 {
	idx := (row*stride + col) * bytesPerSample
	if bytesPerSample == 1 {
		return int32(plane[idx])
	}
	v := uint16(plane[idx]) | uint16(plane[idx+1])<<8
	return int32(v >> shift)
}

// convertPixel computes one output RGB triplet.
func convertPixel(y, u, v, out []byte, width, chromaW, bytesPerSample int, shift uint, sub Subsampling, row, col int) {
	yv := readSample(y, width, row, col, bytesPerSample, shift)

	chromaRow, chromaCol := row, col
	switch sub {
	case Subsampling420:
		chromaRow, chromaCol = row/2, col/2
	case Subsampling422:
		chromaCol = col / 2
	}
	uv := readSample(u, chromaW, chromaRow, chromaCol, bytesPerSample, shift) - chromaOffset
	vv := readSample(v, chromaW, chromaRow, chromaCol, bytesPerSample, shift) - chromaOffset

	r := clamp8((yv*128 + 181*vv) >> 7)
	g := clamp8((yv*128 - 44*uv - 91*vv) >> 7)
	b := clamp8((yv*128 + 227*uv) >> 7)

	outIdx := (row*width + col) * 3
	out[outIdx] = r
	out[outIdx+1] = g
	out[outIdx+2] = b
}

func clamp8(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
