package lrucache

// Token is an opaque handle for an entry's node in the access queue,
// returned by Append. A token is single-use for removal: after Remove wins
// or the node is polled from the head, further removals with it are no-ops.
type Token any

// Deque is the access-order queue contract. The cache appends an entry's
// node at the tail on every sampled access, so the head holds the least
// recently bumped entry.
//
// Implementations must be safe under unbounded concurrent callers without
// blocking, including concurrent Remove of the same token: only one call may
// win removal, but none may corrupt the structure. Remove is idempotent and
// must tolerate tokens whose node was already polled or cleared. The deque
// never inspects keys or values; it only links nodes.
type Deque[K comparable, V any] interface {
	// Append inserts e at the tail and returns a token identifying the new
	// node. ok is false if the node could not be inserted; the entry is then
	// left untracked for eviction until a later access re-bumps it.
	Append(e *Entry[K, V]) (tok Token, ok bool)
	// Poll removes and returns the head entry, or ok false if the deque has
	// no live entries.
	Poll() (e *Entry[K, V], ok bool)
	// Remove unlinks the node tok refers to, if it is still linked.
	Remove(tok Token)
	// Clear discards all nodes and invalidates all outstanding tokens.
	Clear()
}
