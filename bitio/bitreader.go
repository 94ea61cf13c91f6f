/*
NAME
  bitreader.go

DESCRIPTION
  bitreader.go provides a bit reader over an io.Reader that tracks the
  absolute bit position consumed so far, so that callers can stamp every
  parsed syntax element with a BitRange anchored to the file's global bit
  offset.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitio provides a bit-level reader shared by every codec syntax
// parser in bitscope. It is adapted from the bit reader in
// codec/h264/h264dec/bits, extended to track an absolute bit position so
// parsers can anchor BitRanges to a file-global offset rather than an
// access-unit-local one.
package bitio

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// ErrReservedValue is a sentinel for a reserved bitstream value. Reader
// never returns it, and no codec parser in this module returns it either.
var ErrReservedValue = errors.New("reserved value")

type bytePeeker interface {
	io.ByteReader
	Peek(int) ([]byte, error)
}

// Reader is a bit reader that reads from an io.Reader and keeps track of
// the absolute bit offset, relative to base, of the next bit to be read.
type Reader struct {
	r    bytePeeker
	n    uint64
	bits int // Number of valid buffered bits in n.
	base uint64 // Absolute bit offset of the start of the stream fed to r.
	pos  uint64 // Absolute bit offset of the next unread bit.
}

// NewReader returns a new Reader that reads from r. base is the absolute
// bit offset, within the source file, of the first bit r will yield; it
// lets a parser anchor the access unit's local bit positions to the
// file's global offset.
func NewReader(r io.Reader, base uint64) *Reader {
	byter, ok := r.(bytePeeker)
	if !ok {
		byter = bufio.NewReader(r)
	}
	return &Reader{r: byter, base: base, pos: base}
}

// Pos returns the absolute bit offset of the next bit to be read.
func (br *Reader) Pos() uint64 { return br.pos }

// BytePos returns the absolute byte offset containing the next bit.
func (br *Reader) BytePos() uint64 { return br.pos / 8 }

// ByteAligned reports whether the next bit starts a new byte.
func (br *Reader) ByteAligned() bool { return br.pos%8 == 0 }

// ReadBits reads n bits (0 <= n <= 57) and returns them in the
// least-significant part of the result.
func (br *Reader) ReadBits(n int) (uint64, error) {
	for n > br.bits {
		b, err := br.r.ReadByte()
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		if err != nil {
			return 0, err
		}
		br.n <<= 8
		br.n |= uint64(b)
		br.bits += 8
	}
	r := (br.n >> uint(br.bits-n)) & ((1 << uint(n)) - 1)
	br.bits -= n
	br.pos += uint64(n)
	return r, nil
}

// ReadBit reads a single bit as a bool.
func (br *Reader) ReadBit() (bool, error) {
	v, err := br.ReadBits(1)
	return v == 1, err
}

// ReadFlag is an alias of ReadBit matching the spec-section naming codec
// parsers use for one-bit flag fields.
func (br *Reader) ReadFlag() (bool, error) { return br.ReadBit() }

// PeekBits returns the next n bits without advancing the reader.
func (br *Reader) PeekBits(n int) (uint64, error) {
	need := (n - br.bits + 7) / 8
	if need < 0 {
		need = 0
	}
	byt, err := br.r.Peek(need)
	if err != nil {
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	n2 := br.n
	bits := br.bits
	for i := 0; bits < n; i++ {
		n2 <<= 8
		n2 |= uint64(byt[i])
		bits += 8
	}
	return (n2 >> uint(bits-n)) & ((1 << uint(n)) - 1), nil
}

// SkipBits advances the reader by n bits without returning them.
func (br *Reader) SkipBits(n int) error {
	for n > 32 {
		if _, err := br.ReadBits(32); err != nil {
			return err
		}
		n -= 32
	}
	_, err := br.ReadBits(n)
	return err
}

// ByteAlign advances the reader to the next byte boundary, discarding any
// partial byte.
func (br *Reader) ByteAlign() error {
	if br.ByteAligned() {
		return nil
	}
	return br.SkipBits(8 - int(br.pos%8))
}

// ReadUE reads an Exp-Golomb coded unsigned integer (ue(v)), as used by
// AVC/HEVC/VVC NAL unit syntax.
func (br *Reader) ReadUE() (uint64, error) {
	leadingZeros := 0
	for {
		b, err := br.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b != 0 {
			break
		}
		leadingZeros++
		if leadingZeros > 32 {
			return 0, errors.New("ue(v): runaway leading zero count")
		}
	}
	if leadingZeros == 0 {
		return 0, nil
	}
	rest, err := br.ReadBits(leadingZeros)
	if err != nil {
		return 0, err
	}
	return (1<<uint(leadingZeros) - 1) + rest, nil
}

// ReadSE reads an Exp-Golomb coded signed integer (se(v)).
func (br *Reader) ReadSE() (int64, error) {
	ue, err := br.ReadUE()
	if err != nil {
		return 0, err
	}
	if ue%2 == 0 {
		return -int64(ue / 2), nil
	}
	return int64(ue+1) / 2, nil
}

// ReadLEB128 reads a little-endian base-128 value as used by AV1/AV3 OBU
// headers for obu_size. It returns the decoded value and the number of
// bytes consumed, and requires the reader to be byte aligned.
func (br *Reader) ReadLEB128() (value uint64, n int, err error) {
	if !br.ByteAligned() {
		return 0, 0, errors.New("leb128: reader not byte aligned")
	}
	for i := 0; i < 8; i++ {
		b, err := br.ReadBits(8)
		if err != nil {
			return 0, 0, err
		}
		value |= (b & 0x7f) << uint(i*7)
		n++
		if b&0x80 == 0 {
			return value, n, nil
		}
	}
	return 0, 0, errors.New("leb128: value too large")
}
