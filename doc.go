// Package lrucache provides a non-blocking, size and age bounded key/value
// cache for high concurrency read/write workloads.
//
// To reduce contention, access order updates execute in a sampling fashion
// (entry hits modulo 5). Eviction follows an LRU approach: when the cache is
// out of capacity, the oldest sampled entry is removed first. Eviction order
// is an approximation of true LRU, not exact: unsampled reads do not move an
// entry, and under concurrent writes the access queue is only eventually
// consistent with recency.
//
// The cache can also be configured to run in FIFO mode, where reads never
// reposition entries and order is determined by insertion alone.
//
// There is no global lock. The key table is a concurrent map with atomic
// insert-if-absent, and the access queue is lock-free. The only per-entry
// serialization is a claim token restricting repositioning of one entry to a
// single winner at a time.
package lrucache
