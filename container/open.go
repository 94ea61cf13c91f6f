/*
NAME
  open.go

DESCRIPTION
  open.go ties format detection to the five concrete demuxers behind a
  single entry point, the shape Core's OpenFile command needs.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package container

import "github.com/pkg/errors"

// Opener constructs a Demuxer from a fully-buffered file. Each concrete
// container package (ivf, mp4, mkv, annexb, mts) registers its
// constructor here via RegisterOpener in an init function, avoiding an
// import cycle between container and its subpackages.
type Opener func(data []byte) (Demuxer, error)

var openers = map[Format]Opener{}

// RegisterOpener associates a Format with the constructor that builds a
// Demuxer for it. Concrete container packages call this from init.
func RegisterOpener(f Format, open Opener) {
	openers[f] = open
}

// ErrUnregisteredFormat is returned by Open when no opener has been
// registered for the detected format, which only happens if the
// concrete container package was not imported.
var ErrUnregisteredFormat = errors.New("container: no opener registered for detected format")

// Open detects data's container format and constructs the matching
// Demuxer. Raw Annex-B start-code streams carry no codec tag of their
// own, so for them the codec is annexb.New's heuristic guess; a caller
// that already knows the elementary codec can use annexb's per-codec
// constructors directly.
func Open(data []byte) (Demuxer, Format, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, FormatUnknown, err
	}
	open, ok := openers[format]
	if !ok {
		return nil, format, errors.Wrapf(ErrUnregisteredFormat, "format %s", format)
	}
	d, err := open(data)
	return d, format, err
}
