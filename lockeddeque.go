package lrucache

import (
	"sync"

	"github.com/0xShamil/lru-cache/internal/tag"
)

// Invariants for lockedDeque methods:
// * deque owns nodes between fakeHead and fakeTail.
// * {fakeHead, all owned nodes, fakeTail} are correct doubly linked list.
// * all nodes owned by deque have field node.owner equal to &deque.
// * detached nodes have nil owner, so a stale token is a no-op in Remove.
type lockedDeque[K comparable, V any] struct {
	mu sync.Mutex

	// Fake nodes. Real nodes are between them.
	// nil <- fakeHead <-> node_0 <-> ... <-> node_(n-1) <-> fakeTail -> nil
	// Such structure prevent nil checks in code.

	// fakeHead is bottom of deque. fakeHead.next is the oldest bumped entry.
	fakeHead *lockedNode[K, V]

	// fakeTail is top of deque. All new nodes added before fakeTail.
	fakeTail *lockedNode[K, V]

	len int
}

type lockedNode[K comparable, V any] struct {
	entry *Entry[K, V]
	owner *lockedDeque[K, V]
	prev  *lockedNode[K, V]
	next  *lockedNode[K, V]
}

// NewLockedDeque returns a coarse-locked access queue. Simpler than the
// default lock-free one and useful as a reference implementation; it
// preserves the same idempotent-removal contract.
func NewLockedDeque[K comparable, V any]() Deque[K, V] {
	d := &lockedDeque[K, V]{}
	d.fakeHead, d.fakeTail = &lockedNode[K, V]{}, &lockedNode[K, V]{}
	link(d.fakeHead, d.fakeTail)
	return d
}

func link[K comparable, V any](a, b *lockedNode[K, V]) { a.next, b.prev = b, a }

func (d *lockedDeque[K, V]) Append(e *Entry[K, V]) (Token, bool) {
	n := &lockedNode[K, V]{entry: e, owner: d}
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.checkInvariants()
	link(d.fakeTail.prev, n)
	link(n, d.fakeTail)
	d.len++
	return n, true
}

func (d *lockedDeque[K, V]) Poll() (*Entry[K, V], bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.checkInvariants()
	n := d.fakeHead.next
	if n == d.fakeTail {
		return nil, false
	}
	d.detach(n)
	return n.entry, true
}

func (d *lockedDeque[K, V]) Remove(tok Token) {
	n, ok := tok.(*lockedNode[K, V])
	if !ok || n == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.checkInvariants()
	if n.owner == d {
		d.detach(n)
	}
}

func (d *lockedDeque[K, V]) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.checkInvariants()
	for n := d.fakeHead.next; n != d.fakeTail; {
		next := n.next
		n.owner = nil
		if tag.Debug {
			n.prev = nil
			n.next = nil
		}
		n = next
	}
	link(d.fakeHead, d.fakeTail)
	d.len = 0
}

// detach requires d.mu held and n owned by d.
func (d *lockedDeque[K, V]) detach(n *lockedNode[K, V]) {
	link(n.prev, n.next)
	n.owner = nil
	d.len--
	if tag.Debug {
		n.prev = nil
		n.next = nil
	}
}
