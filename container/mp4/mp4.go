/*
NAME
  mp4.go

DESCRIPTION
  mp4.go demuxes the first video track out of an MP4/ISO-BMFF file into
  access units, per spec §6: it walks moov/trak/mdia/minf/stbl to recover
  the sample table (stsd codec fourcc, stsz sizes, stsc+stco/co64 chunk
  offsets, stts decode deltas, optional ctts composition offsets) and
  replays it as a sequence of (offset, size, pts, dts) access units.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mp4 demuxes an ISO base media file format (MP4) container's
// video track into access units, per spec §6.
package mp4

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/bitscope/container"
)

// ErrNoVideoTrack is returned by New when no trak box carries a
// recognised video sample entry.
var ErrNoVideoTrack = errors.New("mp4: no video track found")

type sample struct {
	offset uint64
	size   uint32
	dts    int64
	pts    int64
}

// Demuxer demuxes the first video track of an in-memory MP4 buffer into
// access units.
type Demuxer struct {
	data    []byte
	codec   container.Codec
	width   int
	height  int
	samples []sample
	next    int
}

// New parses data's box tree and returns a Demuxer for its first video
// track.
func New(data []byte) (*Demuxer, error) {
	top, err := parseBoxes(data)
	if err != nil {
		return nil, err
	}
	moov, ok := find(top, "moov")
	if !ok {
		return nil, errors.New("mp4: no moov box")
	}

	for _, trak := range findAll(moov.children, "trak") {
		d, ok := parseVideoTrack(data, trak)
		if ok {
			return d, nil
		}
	}
	return nil, ErrNoVideoTrack
}

func parseVideoTrack(data []byte, trak box) (*Demuxer, bool) {
	stbl, ok := findPath(trak.children, "mdia", "minf", "stbl")
	if !ok {
		return nil, false
	}
	stsd, ok := find(stbl.children, "stsd")
	if !ok {
		return nil, false
	}
	codec, width, height, ok := parseStsd(data, stsd)
	if !ok {
		return nil, false
	}

	sizes := parseStsz(data, stbl)
	offsets := parseChunkOffsets(data, stbl)
	samplesPerChunk := parseStsc(data, stbl, len(sizes))
	deltas := parseStts(data, stbl, len(sizes))
	ctts := parseCtts(data, stbl, len(sizes))

	samples := make([]sample, len(sizes))
	var dts int64
	for i, size := range sizes {
		delta := int64(1)
		if i < len(deltas) {
			delta = deltas[i]
		}
		samples[i] = sample{size: size, dts: dts, pts: dts + ctts[i]}
		dts += delta
	}
	recomputeSampleOffsets(samples, sizes, offsets, samplesPerChunk)

	return &Demuxer{data: data, codec: codec, width: width, height: height, samples: samples}, true
}

// recomputeSampleOffsets assigns each sample its correct absolute file
// offset: the chunk's base offset plus the running sum of preceding
// sample sizes within that chunk.
func recomputeSampleOffsets(samples []sample, sizes []uint32, chunkOffsets []uint64, samplesPerChunk []int) {
	i := 0
	for chunkIdx := 0; chunkIdx < len(chunkOffsets) && i < len(samples); chunkIdx++ {
		base := chunkOffsets[chunkIdx]
		n := len(samples) - i
		if chunkIdx < len(samplesPerChunk) && samplesPerChunk[chunkIdx] > 0 {
			n = samplesPerChunk[chunkIdx]
		}
		running := base
		for k := 0; k < n && i < len(samples); k++ {
			samples[i].offset = running
			running += uint64(samples[i].size)
			i++
		}
	}
}

// parseStsd reads the first sample entry of an stsd box, returning its
// codec and, for video sample entries, coded width/height.
func parseStsd(data []byte, stsd box) (codec container.Codec, width, height int, ok bool) {
	p := stsd.start + 4 // version/flags
	if p+4 > stsd.end {
		return "", 0, 0, false
	}
	// entry_count at p; first sample entry follows immediately.
	entryStart := p + 4
	if entryStart+8 > stsd.end {
		return "", 0, 0, false
	}
	size := int(binary.BigEndian.Uint32(data[entryStart : entryStart+4]))
	fourCC := string(data[entryStart+4 : entryStart+8])
	entryEnd := entryStart + size
	if entryEnd > stsd.end {
		entryEnd = stsd.end
	}

	codec = sampleEntryCodec(fourCC)
	if codec == container.CodecUnknown {
		return "", 0, 0, false
	}

	// Video sample entry fixed fields: 6 reserved, 2 data_reference_index,
	// 2+2 pre_defined/reserved, 12 pre_defined, 2 width, 2 height, ...
	fixed := entryStart + 8
	widthOff := fixed + 6 + 2 + 2 + 2 + 12
	if widthOff+4 <= entryEnd {
		width = int(binary.BigEndian.Uint16(data[widthOff : widthOff+2]))
		height = int(binary.BigEndian.Uint16(data[widthOff+2 : widthOff+4]))
	}
	return codec, width, height, true
}

func sampleEntryCodec(fourCC string) container.Codec {
	switch fourCC {
	case "av01":
		return container.CodecAV1
	case "vp09", "vp9 ":
		return container.CodecVP9
	case "avc1", "avc3":
		return container.CodecAVC
	case "hev1", "hvc1":
		return container.CodecHEVC
	case "vvc1", "vvi1":
		return container.CodecVVC
	default:
		return container.CodecUnknown
	}
}

// parseStsz returns the per-sample size list from an stsz box.
func parseStsz(data []byte, stbl box) []uint32 {
	stsz, ok := find(stbl.children, "stsz")
	if !ok {
		return nil
	}
	p := stsz.start + 4
	if p+8 > stsz.end {
		return nil
	}
	sampleSize := binary.BigEndian.Uint32(data[p : p+4])
	count := binary.BigEndian.Uint32(data[p+4 : p+8])
	p += 8
	sizes := make([]uint32, count)
	if sampleSize != 0 {
		for i := range sizes {
			sizes[i] = sampleSize
		}
		return sizes
	}
	for i := uint32(0); i < count && p+4 <= stsz.end; i++ {
		sizes[i] = binary.BigEndian.Uint32(data[p : p+4])
		p += 4
	}
	return sizes
}

// parseChunkOffsets returns chunk base offsets from an stco or co64 box.
func parseChunkOffsets(data []byte, stbl box) []uint64 {
	if b, ok := find(stbl.children, "co64"); ok {
		p := b.start + 4
		if p+4 > b.end {
			return nil
		}
		count := binary.BigEndian.Uint32(data[p : p+4])
		p += 4
		out := make([]uint64, 0, count)
		for i := uint32(0); i < count && p+8 <= b.end; i++ {
			out = append(out, binary.BigEndian.Uint64(data[p:p+8]))
			p += 8
		}
		return out
	}
	b, ok := find(stbl.children, "stco")
	if !ok {
		return nil
	}
	p := b.start + 4
	if p+4 > b.end {
		return nil
	}
	count := binary.BigEndian.Uint32(data[p : p+4])
	p += 4
	out := make([]uint64, 0, count)
	for i := uint32(0); i < count && p+4 <= b.end; i++ {
		out = append(out, uint64(binary.BigEndian.Uint32(data[p:p+4])))
		p += 4
	}
	return out
}

// parseStsc returns, per chunk, how many samples it holds. nSamples
// bounds the expansion for the final run (whose count is implicit).
func parseStsc(data []byte, stbl box, nSamples int) []int {
	b, ok := find(stbl.children, "stsc")
	if !ok {
		return []int{nSamples}
	}
	p := b.start + 4
	if p+4 > b.end {
		return []int{nSamples}
	}
	count := binary.BigEndian.Uint32(data[p : p+4])
	p += 4
	type entry struct{ firstChunk, perChunk uint32 }
	entries := make([]entry, 0, count)
	for i := uint32(0); i < count && p+12 <= b.end; i++ {
		fc := binary.BigEndian.Uint32(data[p : p+4])
		spc := binary.BigEndian.Uint32(data[p+4 : p+8])
		entries = append(entries, entry{fc, spc})
		p += 12
	}
	if len(entries) == 0 {
		return []int{nSamples}
	}

	var out []int
	remaining := nSamples
	for i, e := range entries {
		var chunkCount uint32 = 1
		if i+1 < len(entries) {
			chunkCount = entries[i+1].firstChunk - e.firstChunk
		} else if e.perChunk > 0 {
			chunkCount = uint32((remaining + int(e.perChunk) - 1) / int(e.perChunk))
		}
		for c := uint32(0); c < chunkCount && remaining > 0; c++ {
			n := int(e.perChunk)
			if n > remaining {
				n = remaining
			}
			out = append(out, n)
			remaining -= n
		}
	}
	for remaining > 0 {
		out = append(out, 1)
		remaining--
	}
	return out
}

// parseStts expands an stts box into a per-sample decode delta list of
// length nSamples.
func parseStts(data []byte, stbl box, nSamples int) []int64 {
	b, ok := find(stbl.children, "stts")
	if !ok {
		return nil
	}
	p := b.start + 4
	if p+4 > b.end {
		return nil
	}
	count := binary.BigEndian.Uint32(data[p : p+4])
	p += 4
	out := make([]int64, 0, nSamples)
	for i := uint32(0); i < count && p+8 <= b.end; i++ {
		n := binary.BigEndian.Uint32(data[p : p+4])
		delta := binary.BigEndian.Uint32(data[p+4 : p+8])
		for k := uint32(0); k < n; k++ {
			out = append(out, int64(delta))
		}
		p += 8
	}
	return out
}

// parseCtts expands a ctts box into a per-sample composition offset list
// (pts - dts), defaulting to all zero if absent.
func parseCtts(data []byte, stbl box, nSamples int) []int64 {
	out := make([]int64, nSamples)
	b, ok := find(stbl.children, "ctts")
	if !ok {
		return out
	}
	p := b.start + 4
	if p+4 > b.end {
		return out
	}
	count := binary.BigEndian.Uint32(data[p : p+4])
	p += 4
	idx := 0
	for i := uint32(0); i < count && p+8 <= b.end && idx < nSamples; i++ {
		n := binary.BigEndian.Uint32(data[p : p+4])
		offset := int32(binary.BigEndian.Uint32(data[p+4 : p+8]))
		for k := uint32(0); k < n && idx < nSamples; k++ {
			out[idx] = int64(offset)
			idx++
		}
		p += 8
	}
	return out
}

// Codec implements container.Demuxer.
func (d *Demuxer) Codec() container.Codec { return d.codec }

// Dimensions implements container.Demuxer.
func (d *Demuxer) Dimensions() (int, int, bool) {
	return d.width, d.height, d.width > 0 && d.height > 0
}

// Next implements container.Demuxer.
func (d *Demuxer) Next() (container.AccessUnit, error) {
	if d.next >= len(d.samples) {
		return container.AccessUnit{}, io.EOF
	}
	s := d.samples[d.next]
	d.next++

	start := int(s.offset)
	end := start + int(s.size)
	if start > len(d.data) {
		start = len(d.data)
	}
	if end > len(d.data) {
		end = len(d.data)
	}
	return container.AccessUnit{
		Bytes:      d.data[start:end],
		FileOffset: s.offset,
		PTS:        s.pts,
		HasPTS:     true,
		DTS:        s.dts,
		HasDTS:     true,
	}, nil
}

func init() {
	container.RegisterOpener(container.FormatMP4, func(data []byte) (container.Demuxer, error) {
		return New(data)
	})
}
