/*
NAME
  box.go

DESCRIPTION
  box.go provides a minimal ISO base media file format (MP4) box reader:
  enough of the box tree (moov/trak/mdia/minf/stbl and its sample tables)
  to locate one video track's samples, codec, and timestamps, per spec
  §6. Grounded in shape on the teacher's bitio.Reader-style sequential
  parsing idiom used throughout codec/h264/h264dec, adapted here to walk
  a length-prefixed box tree instead of a bitstream.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mp4

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// box is one parsed ISO-BMFF box: its four-character type, the offset
// and length of its payload (excluding the 8- or 16-byte box header) in
// the source buffer, and, for container boxes, its children.
type box struct {
	typ      string
	start    int // Payload start offset in the source buffer.
	end      int // Payload end offset (exclusive).
	children []box
}

// containerBoxTypes lists the box types this reader descends into
// looking for children; everything else is treated as a leaf whose
// payload is parsed by its own dedicated function.
var containerBoxTypes = map[string]bool{
	"moov": true, "trak": true, "mdia": true, "minf": true,
	"stbl": true, "edts": true, "mvex": true, "udta": true,
	"dinf": true,
}

// ErrTruncatedBox is returned when a box header or its declared size
// extends past the end of the buffer.
var ErrTruncatedBox = errors.New("mp4: truncated box")

// parseBoxes walks data[0:len(data)] as a flat sequence of sibling boxes.
func parseBoxes(data []byte) ([]box, error) {
	var boxes []box
	off := 0
	for off < len(data) {
		b, next, err := parseOneBox(data, off)
		if err != nil {
			return boxes, err
		}
		boxes = append(boxes, b)
		off = next
	}
	return boxes, nil
}

func parseOneBox(data []byte, off int) (box, int, error) {
	if off+8 > len(data) {
		return box{}, 0, ErrTruncatedBox
	}
	size := uint64(binary.BigEndian.Uint32(data[off : off+4]))
	typ := string(data[off+4 : off+8])
	headerLen := 8
	if size == 1 {
		if off+16 > len(data) {
			return box{}, 0, ErrTruncatedBox
		}
		size = binary.BigEndian.Uint64(data[off+8 : off+16])
		headerLen = 16
	} else if size == 0 {
		size = uint64(len(data) - off)
	}
	end := off + int(size)
	if end > len(data) || end < off+headerLen {
		return box{}, 0, ErrTruncatedBox
	}

	b := box{typ: typ, start: off + headerLen, end: end}
	if containerBoxTypes[typ] {
		children, err := parseBoxes(data[b.start:b.end])
		if err != nil {
			return box{}, 0, errors.Wrapf(err, "box %q", typ)
		}
		for i := range children {
			children[i].start += b.start
			children[i].end += b.start
			offsetChildren(children[i].children, b.start)
		}
		b.children = children
	}
	return b, end, nil
}

func offsetChildren(children []box, delta int) {
	for i := range children {
		children[i].start += delta
		children[i].end += delta
		offsetChildren(children[i].children, delta)
	}
}

// find returns the first direct child of boxes with the given type.
func find(boxes []box, typ string) (box, bool) {
	for _, b := range boxes {
		if b.typ == typ {
			return b, true
		}
	}
	return box{}, false
}

// findAll returns every direct child of boxes with the given type.
func findAll(boxes []box, typ string) []box {
	var out []box
	for _, b := range boxes {
		if b.typ == typ {
			out = append(out, b)
		}
	}
	return out
}

// findPath descends through nested container boxes by type name, e.g.
// findPath(root, "moov", "trak").
func findPath(boxes []box, path ...string) (box, bool) {
	cur := boxes
	var b box
	for i, typ := range path {
		next, ok := find(cur, typ)
		if !ok {
			return box{}, false
		}
		b = next
		if i < len(path)-1 {
			cur = b.children
		}
	}
	return b, true
}
