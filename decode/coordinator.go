/*
NAME
  coordinator.go

DESCRIPTION
  coordinator.go implements the FrameDecodeCoordinator of spec §4.5: a
  bounded LRU cache keyed by effective decode index, single-flight
  deduplication of concurrent requests for the same frame (installing a
  pending marker before releasing the mutex, per spec §5), and
  sequential-dependency re-decode from the most recent keyframe on every
  cache miss.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decode

import (
	"sync"

	"github.com/pkg/errors"
)

// Errors returned by Request, per spec §4.5.
var (
	ErrNotReady             = errors.New("decode: frame not ready")
	ErrReferenceUnavailable = errors.New("decode: reference frame unavailable")
	ErrInvalidFrame         = errors.New("decode: invalid frame index")
)

// SourceFrame is one access unit Coordinator can feed to the external
// decoder: its compressed bytes, presentation timestamp, and whether it
// starts a new GOP (a keyframe the coordinator can re-decode from).
type SourceFrame struct {
	Bytes     []byte
	Timestamp int64
	IsKey     bool
}

// Logger is the subset of the ambient logging contract Coordinator uses.
type Logger interface {
	Log(level int8, message string, params ...interface{})
}

// pending tracks an in-flight decode so concurrent callers for the same
// effective index share one decode (spec §4.5's single-flight
// requirement).
type pending struct {
	done  chan struct{}
	frame DecodedFrame
	err   error
}

// Coordinator is the FrameDecodeCoordinator. Safe for concurrent use: the
// mutex guards the cache and in-flight map; the decoder itself is driven
// with the mutex released (spec §5).
type Coordinator struct {
	mu      sync.Mutex
	cache   *lruCache
	inflight map[uint32]*pending

	decoder ExternalDecoder
	source  []SourceFrame
	logger  Logger
}

// NewCoordinator returns a Coordinator driving decoder over source (the
// stream's access units in decode order, effective index == slice
// index), with a cache holding at most cacheSize entries (rounded to a
// power of two; <=0 uses the default of 16).
func NewCoordinator(decoder ExternalDecoder, source []SourceFrame, cacheSize int, logger Logger) *Coordinator {
	return &Coordinator{
		cache:    newLRUCache(cacheSize),
		inflight: make(map[uint32]*pending),
		decoder:  decoder,
		source:   source,
		logger:   logger,
	}
}

// Request resolves effectiveIndex (the decode-order index the caller has
// already resolved a virtual frame to, per spec §4.5 "Resolution") to a
// DecodedFrame, consulting the cache,
// deduplicating concurrent requests, and falling back to a
// keyframe-anchored re-decode on a miss.
func (c *Coordinator) Request(effectiveIndex uint32) (DecodedFrame, error) {
	if int(effectiveIndex) >= len(c.source) {
		return DecodedFrame{}, errors.Wrapf(ErrInvalidFrame, "index %d (have %d frames)", effectiveIndex, len(c.source))
	}

	c.mu.Lock()
	if f, ok := c.cache.get(effectiveIndex); ok {
		c.mu.Unlock()
		return f, nil
	}
	if p, ok := c.inflight[effectiveIndex]; ok {
		c.mu.Unlock()
		<-p.done
		return p.frame, p.err
	}
	p := &pending{done: make(chan struct{})}
	c.inflight[effectiveIndex] = p
	c.mu.Unlock()

	frame, err := c.decodeFromKeyframe(effectiveIndex)

	c.mu.Lock()
	if err == nil {
		c.cache.put(effectiveIndex, frame)
	}
	delete(c.inflight, effectiveIndex)
	c.mu.Unlock()

	p.frame, p.err = frame, err
	close(p.done)
	return frame, err
}

// decodeFromKeyframe implements spec §4.5's sequential-dependency
// fallback: walk back to the most recent keyframe at or before target,
// feed the decoder forward from there, discard every decoded frame
// except target, and return it.
func (c *Coordinator) decodeFromKeyframe(target uint32) (DecodedFrame, error) {
	// Walk back to the most recent keyframe at or before target; if none
	// is marked (e.g. a trimmed stream with no keyframe at all), fall
	// back to decoding from the stream start.
	start := int(target)
	for start > 0 && !c.source[start].IsKey {
		start--
	}

	var last DecodedFrame
	var found bool
	for i := start; i <= int(target); i++ {
		sf := c.source[i]
		if err := c.decoder.SendData(sf.Bytes, sf.Timestamp); err != nil {
			return DecodedFrame{}, errors.Wrapf(err, "send_data at index %d", i)
		}
		for {
			f, err := c.decoder.GetFrame()
			if err == ErrAgain {
				break
			}
			if err != nil {
				return DecodedFrame{}, errors.Wrapf(err, "get_frame at index %d", i)
			}
			// Every decoded frame up to target is discarded except the
			// last one retained below (spec §4.5 "discards intermediate
			// decoded frames it does not need"); only the final result
			// from the target's own SendData call is cached by Request.
			f.FrameIndex = uint32(i)
			last, found = f, true
		}
	}
	if !found || last.FrameIndex != target {
		return DecodedFrame{}, errors.Wrapf(ErrReferenceUnavailable, "could not reach frame %d from keyframe %d", target, start)
	}
	return last, nil
}

// CacheLen reports the number of frames currently cached, for tests and
// diagnostics.
func (c *Coordinator) CacheLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.len()
}
