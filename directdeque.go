package lrucache

import "sync/atomic"

// directDeque is the default lock-free access queue: a concurrent
// doubly-linked list with logical deletion. A node is removed by swinging
// its item pointer to nil with a CAS; exactly one remover can win, which
// makes Remove idempotent and concurrent removal of the same token safe.
// Dead nodes are spliced out lazily by best-effort CAS on the next chain.
//
// Invariants:
//   - anchor is a permanent front node; anchor.item and anchor.prev stay nil.
//   - next pointers, followed from anchor, reach every live node in insertion
//     order. A next pointer is only ever CASed forward past nodes that were
//     already dead, so live nodes cannot be skipped.
//   - prev pointers are hints: possibly stale, always pointing at strictly
//     earlier nodes, repaired during unlinking.
//   - tail is a hint to a node from which the last node is reachable via
//     next pointers.
//
// Nodes are never reused; reclamation is left to the garbage collector, so
// a stale token can never alias a new node.
type directDeque[K comparable, V any] struct {
	anchor *directNode[K, V]
	tail   atomic.Pointer[directNode[K, V]]
}

type directNode[K comparable, V any] struct {
	prev atomic.Pointer[directNode[K, V]]
	next atomic.Pointer[directNode[K, V]]
	item atomic.Pointer[Entry[K, V]]
}

// NewDirectDeque returns the built-in lock-free access queue.
func NewDirectDeque[K comparable, V any]() Deque[K, V] {
	d := &directDeque[K, V]{anchor: &directNode[K, V]{}}
	d.tail.Store(d.anchor)
	return d
}

func (d *directDeque[K, V]) Append(e *Entry[K, V]) (Token, bool) {
	n := &directNode[K, V]{}
	n.item.Store(e)
	for {
		t := d.tail.Load()
		p := t
		for {
			q := p.next.Load()
			if q == nil {
				break
			}
			p = q
		}
		n.prev.Store(p)
		if p.next.CompareAndSwap(nil, n) {
			if p != t {
				d.tail.CompareAndSwap(t, n)
			}
			return n, true
		}
	}
}

func (d *directDeque[K, V]) Poll() (*Entry[K, V], bool) {
	for p := d.anchor.next.Load(); p != nil; p = p.next.Load() {
		if e := p.item.Load(); e != nil {
			if p.item.CompareAndSwap(e, nil) {
				d.unlink(p)
				return e, true
			}
		}
	}
	return nil, false
}

func (d *directDeque[K, V]) Remove(tok Token) {
	n, ok := tok.(*directNode[K, V])
	if !ok || n == nil {
		return
	}
	if e := n.item.Load(); e != nil && n.item.CompareAndSwap(e, nil) {
		d.unlink(n)
	}
}

func (d *directDeque[K, V]) Clear() {
	for {
		if _, ok := d.Poll(); !ok {
			return
		}
	}
}

// unlink splices dead nodes around x out of the next chain. x must already
// be logically deleted. Best-effort: a failed splice leaves x tombstoned but
// linked, to be skipped and collected by a later unlink or poll.
func (d *directDeque[K, V]) unlink(x *directNode[K, V]) {
	pred := x.prev.Load()
	for pred.item.Load() == nil && pred != d.anchor {
		q := pred.prev.Load()
		if q == nil {
			break
		}
		pred = q
	}
	d.skipDeadSuccessors(pred)

	succ := x.next.Load()
	for succ != nil && succ.item.Load() == nil {
		succ = succ.next.Load()
	}
	if succ != nil {
		d.skipDeadPredecessors(succ)
	}
}

// skipDeadSuccessors advances x.next past a run of dead nodes to the next
// live node, or to the last node when the run reaches the tail end. Retries
// while x itself stays live (or is the anchor); once x is dead its own
// remover takes over the splicing.
func (d *directDeque[K, V]) skipDeadSuccessors(x *directNode[K, V]) {
	for {
		next := x.next.Load()
		if next == nil {
			return
		}
		p := next
		for p.item.Load() == nil {
			q := p.next.Load()
			if q == nil {
				break
			}
			p = q
		}
		if p == next || x.next.CompareAndSwap(next, p) {
			return
		}
		if x != d.anchor && x.item.Load() == nil {
			return
		}
	}
}

// skipDeadPredecessors repairs the x.prev hint to the closest live
// predecessor, or to the anchor when none remains.
func (d *directDeque[K, V]) skipDeadPredecessors(x *directNode[K, V]) {
	for {
		prev := x.prev.Load()
		p := prev
		for p.item.Load() == nil && p != d.anchor {
			q := p.prev.Load()
			if q == nil {
				break
			}
			p = q
		}
		if p == prev || x.prev.CompareAndSwap(prev, p) {
			return
		}
		if x.item.Load() == nil {
			return
		}
	}
}
