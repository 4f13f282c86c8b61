package lrucache

import (
	"fmt"
	"sync/atomic"
	"time"
)

// tokenCell boxes a queue token so the three access token states fit in one
// atomic pointer: nil cell (no queue node), the claimed sentinel cell (a
// reposition is in flight), or a cell holding a live token.
type tokenCell struct {
	tok Token
}

// claimed is the sentinel installed while one goroutine repositions an entry.
// Compared by address, never dereferenced for a token.
var claimed = new(tokenCell)

// Entry is a cache record: an immutable key, a mutable value, a fixed
// expiration instant, a hit counter, and the access token locating the
// entry's node in the access queue.
//
// Invariant: at most one live queue node exists per entry at any quiescent
// instant. The claim protocol (claimToken/setToken/clearToken) makes
// repositioning effectively single-writer per entry.
type Entry[K comparable, V any] struct {
	key       K
	expiresAt time.Time // zero means never
	value     atomic.Pointer[V]
	hits      atomic.Int32
	token     atomic.Pointer[tokenCell]
}

func newEntry[K comparable, V any](key K, value V, expiresAt time.Time) *Entry[K, V] {
	e := &Entry[K, V]{
		key:       key,
		expiresAt: expiresAt,
	}
	e.value.Store(&value)
	e.hits.Store(1)
	return e
}

// Key returns the entry key.
func (e *Entry[K, V]) Key() K { return e.key }

// Value returns the current value. Last writer wins under concurrent Put.
func (e *Entry[K, V]) Value() V { return *e.value.Load() }

func (e *Entry[K, V]) setValue(value V) { e.value.Store(&value) }

// ExpiresAt returns the fixed expiration instant, or the zero time if the
// entry never expires. Expiry is time since write, never recomputed.
func (e *Entry[K, V]) ExpiresAt() time.Time { return e.expiresAt }

func (e *Entry[K, V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// hit increments the hit counter and returns the new count. Overflow wraps;
// the count is only ever used modulo the sampling interval.
func (e *Entry[K, V]) hit() int {
	return int(e.hits.Add(1))
}

// claimToken swaps the access token for the claimed sentinel and returns the
// previous token (nil if the entry had no queue node). ok is false if the
// token was already claimed: another goroutine is repositioning this entry
// and the caller must skip.
func (e *Entry[K, V]) claimToken() (prev Token, ok bool) {
	for {
		cur := e.token.Load()
		if cur == claimed {
			return nil, false
		}
		if e.token.CompareAndSwap(cur, claimed) {
			if cur == nil {
				return nil, true
			}
			return cur.tok, true
		}
	}
}

// setToken publishes tok in place of the claimed sentinel. Only the goroutine
// that won the claim may call it. Returns false if the sentinel is gone,
// which happens only when clearToken raced in between; the caller must then
// remove the node tok refers to itself.
func (e *Entry[K, V]) setToken(tok Token) bool {
	var cell *tokenCell
	if tok != nil {
		cell = &tokenCell{tok: tok}
	}
	return e.token.CompareAndSwap(claimed, cell)
}

// clearToken empties the access token and returns the previous token, or nil
// if there was none or a reposition is in flight. In the in-flight case the
// claiming goroutine observes its setToken fail and cleans up its own node.
func (e *Entry[K, V]) clearToken() Token {
	old := e.token.Swap(nil)
	if old == nil || old == claimed {
		return nil
	}
	return old.tok
}

func (e *Entry[K, V]) GoString() string {
	return fmt.Sprintf("{key:%v, value:%v, expiresAt:%v, hits:%v}",
		e.key, e.Value(), e.expiresAt, e.hits.Load())
}

var _ fmt.GoStringer = (*Entry[string, int])(nil)
