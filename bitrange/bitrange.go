/*
NAME
  bitrange.go

DESCRIPTION
  bitrange.go provides the half-open bit range used throughout bitscope to
  locate a syntax element or unit within the source byte stream.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitrange provides BitRange, the half-open [start_bit, end_bit)
// range anchoring a syntax element or unit to the source byte stream.
package bitrange

// BitRange is a half-open range [StartBit, EndBit) of absolute bit
// positions in the source byte stream.
type BitRange struct {
	StartBit uint64
	EndBit   uint64
}

// New returns a BitRange covering n bits starting at start.
func New(start, n uint64) BitRange {
	return BitRange{StartBit: start, EndBit: start + n}
}

// ByteOffset returns the byte offset containing StartBit.
func (r BitRange) ByteOffset() uint64 { return r.StartBit / 8 }

// SizeBits returns the number of bits covered by the range.
func (r BitRange) SizeBits() uint64 {
	if r.EndBit <= r.StartBit {
		return 0
	}
	return r.EndBit - r.StartBit
}

// SizeBytes returns the ceiling of SizeBits/8.
func (r BitRange) SizeBytes() uint64 {
	return (r.SizeBits() + 7) / 8
}

// Contains reports whether bit lies within the half-open range.
func (r BitRange) Contains(bit uint64) bool {
	return bit >= r.StartBit && bit < r.EndBit
}

// Overlaps reports whether r and other share any bit.
func (r BitRange) Overlaps(other BitRange) bool {
	return !(r.EndBit <= other.StartBit || other.EndBit <= r.StartBit)
}

// Empty reports whether the range covers zero bits.
func (r BitRange) Empty() bool { return r.EndBit <= r.StartBit }
