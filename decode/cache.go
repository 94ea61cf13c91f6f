/*
NAME
  cache.go

DESCRIPTION
  cache.go implements the bounded least-recently-used cache
  FrameDecodeCoordinator keeps over effective decode indices, per spec
  §4.5: "a bounded map from effective decode index to DecodedFrame with
  at-most-K entries... Eviction: least-recently-used". No container
  example in the retrieval pack ships an LRU of its own, so this is built
  directly on container/list, the standard doubly-linked-list idiom Go
  code reaches for when implementing an LRU by hand.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decode

import "container/list"

// defaultCacheSize is K's default, per spec §4.5.
const defaultCacheSize = 16

// lruCache is a fixed-capacity, least-recently-used cache keyed by
// effective decode index. Not safe for concurrent use; Coordinator
// guards it with its own mutex.
type lruCache struct {
	capacity int
	ll       *list.List
	items    map[uint32]*list.Element
}

type lruEntry struct {
	key   uint32
	frame DecodedFrame
}

// newLRUCache returns an lruCache holding at most capacity entries.
// capacity is rounded up to the next power of two, per spec §4.5's "K a
// configurable power of two (default 16)"; a non-positive capacity
// yields the default.
func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		capacity = defaultCacheSize
	}
	capacity = nextPowerOfTwo(capacity)
	return &lruCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[uint32]*list.Element, capacity),
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// get returns the cached frame for key, if present, promoting it to
// most-recently-used.
func (c *lruCache) get(key uint32) (DecodedFrame, bool) {
	e, ok := c.items[key]
	if !ok {
		return DecodedFrame{}, false
	}
	c.ll.MoveToFront(e)
	return e.Value.(*lruEntry).frame, true
}

// put inserts or updates the cached frame for key, evicting the
// least-recently-used entry if the cache is at capacity.
func (c *lruCache) put(key uint32, frame DecodedFrame) {
	if e, ok := c.items[key]; ok {
		e.Value.(*lruEntry).frame = frame
		c.ll.MoveToFront(e)
		return
	}
	e := c.ll.PushFront(&lruEntry{key: key, frame: frame})
	c.items[key] = e
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}

// len returns the number of entries currently cached.
func (c *lruCache) len() int { return c.ll.Len() }
