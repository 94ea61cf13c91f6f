/*
NAME
  ebml.go

DESCRIPTION
  ebml.go provides a minimal EBML (Extensible Binary Meta Language)
  reader: variable-length integer decoding and a flat element walker,
  enough to locate Matroska/WebM's Segment/Tracks/Cluster elements for
  spec §6's MKV container support. Grounded in shape on box.go's
  length-prefixed tree walk in this same container package family,
  adapted from byte-length-prefixed boxes to EBML's variable-length
  vint framing.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mkv

import (
	"github.com/pkg/errors"
)

// ErrTruncatedElement is returned when an EBML element ID, size, or
// payload extends past the end of the buffer.
var ErrTruncatedElement = errors.New("mkv: truncated EBML element")

// element is one parsed EBML element: its raw ID (including the length
// marker bits, the conventional EBML ID representation), and the byte
// range of its payload within the source buffer.
type element struct {
	id    uint32
	start int
	end   int
}

// readVint decodes an EBML variable-length integer at data[pos:],
// returning its value with the length-marker bit stripped and the number
// of bytes consumed. keepMarker controls whether the marker bit is kept
// in the returned value, which callers set for element IDs (where the
// marker is part of the canonical ID) and clear for size fields.
func readVint(data []byte, pos int, keepMarker bool) (value uint64, length int, err error) {
	if pos >= len(data) {
		return 0, 0, ErrTruncatedElement
	}
	first := data[pos]
	length = leadingZeroBits(first) + 1
	if length > 8 || pos+length > len(data) {
		return 0, 0, ErrTruncatedElement
	}

	var masked byte
	if keepMarker {
		masked = first
	} else {
		masked = first &^ (0x80 >> uint(length-1))
	}
	value = uint64(masked)
	for i := 1; i < length; i++ {
		value = value<<8 | uint64(data[pos+i])
	}
	return value, length, nil
}

// leadingZeroBits returns the number of leading zero bits in b (0-7),
// which determines an EBML vint's total length.
func leadingZeroBits(b byte) int {
	n := 0
	for mask := byte(0x80); mask != 0; mask >>= 1 {
		if b&mask != 0 {
			break
		}
		n++
	}
	return n
}

// parseElements walks data[0:len(data)] as a flat sequence of sibling
// EBML elements.
func parseElements(data []byte) ([]element, error) {
	var elems []element
	pos := 0
	for pos < len(data) {
		id, idLen, err := readVint(data, pos, true)
		if err != nil {
			return elems, err
		}
		size, sizeLen, err := readVint(data, pos+idLen, false)
		if err != nil {
			return elems, err
		}
		start := pos + idLen + sizeLen
		end := start + int(size)
		if end > len(data) {
			return elems, ErrTruncatedElement
		}
		elems = append(elems, element{id: uint32(id), start: start, end: end})
		pos = end
	}
	return elems, nil
}

// find returns the first element of elems with the given ID.
func find(elems []element, id uint32) (element, bool) {
	for _, e := range elems {
		if e.id == id {
			return e, true
		}
	}
	return element{}, false
}

// findAll returns every element of elems with the given ID.
func findAll(elems []element, id uint32) []element {
	var out []element
	for _, e := range elems {
		if e.id == id {
			out = append(out, e)
		}
	}
	return out
}
