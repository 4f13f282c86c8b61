package lrucache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/0xShamil/lru-cache/log"
)

// sampleInterval is the read-count modulus gating how often a read
// repositions an entry in the access queue.
const sampleInterval = 5

// Cache is a non-blocking key/value cache bounded by entry count and age.
// All methods are safe for unbounded concurrent use.
//
// The key table is the source of truth for existence and current value; the
// access queue is the source of truth for eviction order and may lag behind
// recency. The capacity bound is eventually consistent: bursty concurrent
// inserts may transiently overshoot it by a small margin.
type Cache[K comparable, V any] struct {
	table      *xsync.MapOf[K, *Entry[K, V]]
	queue      Deque[K, V]
	maxEntries int
	maxAge     time.Duration // 0 means entries never expire
	fifoMode   bool
	clock      Clock
	log        log.Logger
}

// Put stores value under key. An existing entry keeps its identity and
// expiration; only its value is overwritten, last writer wins. Inserting a
// previously absent key may evict the least recently bumped entry when the
// cache is over capacity.
func (c *Cache[K, V]) Put(key K, value V) {
	if e, ok := c.table.Load(key); ok {
		e.setValue(value)
		return
	}
	var expiresAt time.Time
	if c.maxAge > 0 {
		expiresAt = c.clock.Now().Add(c.maxAge)
	}
	e := newEntry(key, value, expiresAt)
	if prev, loaded := c.table.LoadOrStore(key, e); loaded {
		// Lost the insert race; one entry survives, last value written wins.
		e = prev
		e.setValue(value)
	}
	c.bumpAccess(e)
	if c.table.Size() > c.maxEntries {
		// Single-shot opportunistic eviction, not a loop.
		if oldest, ok := c.queue.Poll(); ok && oldest != e {
			c.log.Debugf("evict %v", oldest.Key())
			c.Remove(oldest.Key())
		}
	}
}

// Get returns the value stored under key. An expired entry is removed on
// access and reported as absent; there is no background sweep.
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	e, found := c.table.Load(key)
	if !found {
		return value, false
	}
	if e.expired(c.clock.Now()) {
		c.log.Debugf("entry %v expired", key)
		c.Remove(key)
		return value, false
	}
	if !c.fifoMode && e.hit()%sampleInterval == 0 {
		c.bumpAccess(e)
	}
	return e.Value(), true
}

// Remove deletes key and returns the removed value, if any.
func (c *Cache[K, V]) Remove(key K) (value V, ok bool) {
	e, found := c.table.LoadAndDelete(key)
	if !found {
		return value, false
	}
	if tok := e.clearToken(); tok != nil {
		c.queue.Remove(tok)
	}
	return e.Value(), true
}

// Clear drops all entries. Table and queue are cleared as independent steps;
// an access racing Clear either loses its claim or lands a node the queue
// clear discards.
func (c *Cache[K, V]) Clear() {
	c.table.Clear()
	c.queue.Clear()
}

// Len returns the current entry count. Under concurrent writes the value is
// a snapshot and may transiently exceed the configured maximum.
func (c *Cache[K, V]) Len() int {
	return c.table.Size()
}

// bumpAccess moves e to the tail of the access queue. At most one goroutine
// repositions an entry at a time; losers of the claim race simply skip, the
// winner's fresher bump supersedes theirs.
func (c *Cache[K, V]) bumpAccess(e *Entry[K, V]) {
	prev, ok := e.claimToken()
	if !ok {
		// Another goroutine is already repositioning this entry.
		return
	}
	if prev != nil {
		c.queue.Remove(prev)
	}
	tok, ok := c.queue.Append(e)
	if !ok {
		// Queue could not take the node. Leave the entry untracked for
		// eviction; it stays retrievable by key and a later access re-bumps.
		tok = nil
	}
	if !e.setToken(tok) && tok != nil {
		// The entry was removed or cleared between append and publish.
		// Reclaim the fresh node so no unowned node leaks in the queue.
		c.queue.Remove(tok)
	}
}
