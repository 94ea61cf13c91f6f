/*
NAME
  decoder.go

DESCRIPTION
  decoder.go defines the ExternalDecoder contract FrameDecodeCoordinator
  drives, per spec §4.5: a narrow send_data/get_frame interface with
  EAGAIN semantics on underflow. The concrete decoder lives outside this
  module (spec §1's "external codec decoder" collaborator); bitscope only
  ever talks to it through this interface.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package decode implements the FrameDecodeCoordinator described in spec
// §4.5: it routes decode requests to an external ExternalDecoder, caches
// decoded frames in a bounded LRU keyed by effective decode index, and
// deduplicates concurrent requests for the same frame.
package decode

import "github.com/pkg/errors"

// ErrAgain is returned by ExternalDecoder.GetFrame when the decoder needs
// more input before it can yield a frame (underflow), per spec §4.5. The
// coordinator treats this as "send more data", not as a failure.
var ErrAgain = errors.New("decode: decoder needs more data")

// DecodedFrame is one decoded picture: planar YUV plus an optional RGB
// plane (HasRGB/RGB). Nothing in this package renders or fills the RGB
// plane; the cache stores frames exactly as the decoder returned them.
type DecodedFrame struct {
	FrameIndex    uint32
	Width, Height int
	BitDepth      int

	Y, U, V []byte

	HasRGB bool
	RGB    []byte
}

// ExternalDecoder is the narrow interface bitscope drives the external
// codec decoder through, per spec §4.5.
type ExternalDecoder interface {
	// SendData feeds one access unit's compressed bytes at the given
	// presentation timestamp.
	SendData(data []byte, timestamp int64) error

	// GetFrame retrieves the next decoded frame in decode order, or
	// ErrAgain if the decoder has not accumulated enough input yet.
	GetFrame() (DecodedFrame, error)
}
