// Package lru implements the fixed-capacity cache spec.md §4.6 requires
// in front of each of the three on-disk structures. It wraps
// hashicorp/golang-lru/v2 (the generic, non-thread-safe variant) rather
// than a hand-rolled list+map: the pack already reaches for this
// library to front block storage with an LRU byte cache (see
// blockio/shared/lru_cache.go in the grafana/blockpack dependency tree),
// and spec.md §4.6/§5 ask for exactly the semantics it already provides
// — tryGet/insert with recency updated on both, no resize, and no
// internal locking required since a reader owns its caches exclusively.
package lru

import (
	lruv2 "github.com/hashicorp/golang-lru/v2/simplelru"
)

// Cache is a fixed-capacity LRU map holding values by value (spec.md
// §4.6: "Entries are held by value"). Capacity is fixed at construction.
type Cache[K comparable, V any] struct {
	inner *lruv2.LRU[K, V]
}

// New builds a cache with the given fixed capacity. capacity must be
// at least 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	inner, err := lruv2.NewLRU[K, V](capacity, nil)
	if err != nil {
		// Only reachable with a non-positive capacity, which is a
		// construction-time contract violation (spec.md §7 category 4).
		// CHGraphReader replaces a non-positive configured capacity with
		// its default before calling New, so it never reaches here.
		panic("lru: invalid capacity: " + err.Error())
	}
	return &Cache[K, V]{inner: inner}
}

// TryGet implements spec.md §4.6's tryGet(key). A hit updates recency.
func (c *Cache[K, V]) TryGet(key K) (V, bool) {
	return c.inner.Get(key)
}

// Insert implements spec.md §4.6's insert(key, value), evicting the
// least-recently-used entry when at capacity. Recency is updated.
func (c *Cache[K, V]) Insert(key K, value V) {
	c.inner.Add(key, value)
}

// Len reports the number of entries currently cached.
func (c *Cache[K, V]) Len() int { return c.inner.Len() }
