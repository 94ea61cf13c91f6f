/*
NAME
  container.go

DESCRIPTION
  container.go provides the ContainerDemux contract (spec §4.1): format
  detection from a file prefix and the common AccessUnit/Demuxer shape
  every concrete container (IVF, MP4, MKV, Annex-B, and the bonus
  MPEG-TS wrapper) implements.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package container provides the ContainerDemux contract and format
// detection described in spec §4.1: each supported wrapper (IVF, MP4,
// MKV, Annex-B, and the bonus MPEG-TS wrapper described in SPEC_FULL.md)
// yields an ordered, lazy, non-restartable sequence of access units.
package container

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Codec names the elementary stream codec carried by a container, as
// determined from its codec tag/brand/CodecID.
type Codec string

const (
	CodecAV1    Codec = "av1"
	CodecAV3    Codec = "av3"
	CodecAVC    Codec = "avc"
	CodecHEVC   Codec = "hevc"
	CodecVVC    Codec = "vvc"
	CodecVP9    Codec = "vp9"
	CodecMPEG2  Codec = "mpeg2"
	CodecUnknown Codec = ""
)

// AccessUnit is one compressed access unit yielded by a Demuxer: raw
// bytes (borrowed from the demuxer's internal buffer where possible), the
// byte offset within the source file, and optional timestamps in the
// container's timebase.
type AccessUnit struct {
	Bytes      []byte
	FileOffset uint64

	PTS    int64
	HasPTS bool
	DTS    int64
	HasDTS bool
}

// Demuxer yields the ordered, lazy, finite, non-restartable sequence of
// access units a container produces, per spec's "Open question" design
// note on streaming iteration.
type Demuxer interface {
	// Codec returns the elementary stream codec this demuxer determined
	// from the container's codec tag.
	Codec() Codec

	// Next returns the next access unit, or io.EOF when the stream is
	// exhausted. A truncated trailing access unit is non-fatal: Next
	// returns what could be parsed and a nil error, with the truncation
	// reported by the caller via a diagnostic.
	Next() (AccessUnit, error)

	// Dimensions returns the coded dimensions if known from the
	// container header (IVF), or (0, 0, false) if the dimensions are
	// only discoverable from the elementary stream itself.
	Dimensions() (width, height int, ok bool)
}

// Format identifies a detected container format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatIVF
	FormatMKV
	FormatMP4
	FormatMPEGTS
	FormatAnnexB
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatIVF:
		return "IVF"
	case FormatMKV:
		return "Matroska"
	case FormatMP4:
		return "MP4"
	case FormatMPEGTS:
		return "MPEG-TS"
	case FormatAnnexB:
		return "AnnexB"
	default:
		return "Unknown"
	}
}

// ErrTooShort is returned by Detect when prefix does not contain enough
// bytes to make a determination, per spec §4.1 "TooShort".
var ErrTooShort = errors.New("container: prefix too short to detect format")

const minDetectLen = 12

// Detect classifies a container from a small prefix of the file,
// following the priority order in spec §4.1:
//  1. "DKIF" -> IVF
//  2. EBML header bytes -> Matroska/WebM
//  3. bytes 4..8 == "ftyp" -> MP4
//  4. MPEG-TS sync byte pattern (0x47 every 188 bytes)
//  5. otherwise assume Annex-B.
func Detect(prefix []byte) (Format, error) {
	if len(prefix) < minDetectLen {
		return FormatUnknown, ErrTooShort
	}
	switch {
	case bytes.HasPrefix(prefix, []byte("DKIF")):
		return FormatIVF, nil
	case bytes.HasPrefix(prefix, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return FormatMKV, nil
	case len(prefix) >= 8 && bytes.Equal(prefix[4:8], []byte("ftyp")):
		return FormatMP4, nil
	case looksLikeMPEGTS(prefix):
		return FormatMPEGTS, nil
	default:
		return FormatAnnexB, nil
	}
}

// looksLikeMPEGTS reports whether prefix contains the 0x47 sync byte at
// successive 188-byte boundaries, the signature of an MPEG-TS stream.
func looksLikeMPEGTS(prefix []byte) bool {
	const packetSize = 188
	if len(prefix) < packetSize+1 {
		return false
	}
	if prefix[0] != 0x47 {
		return false
	}
	n := len(prefix) / packetSize
	if n > 3 {
		n = 3
	}
	for i := 0; i < n; i++ {
		if prefix[i*packetSize] != 0x47 {
			return false
		}
	}
	return true
}

// ReadAll drains d, collecting every access unit. Intended for small
// files and tests; Core itself should prefer streaming consumption since
// a Demuxer is explicitly non-restartable.
func ReadAll(d Demuxer) ([]AccessUnit, error) {
	var out []AccessUnit
	for {
		au, err := d.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, au)
	}
}
