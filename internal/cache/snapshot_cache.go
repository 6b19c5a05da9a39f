// Package cache provides a small TTL cache used to memoize aggregated
// task snapshots per user. Writes to the underlying tasks invalidate
// the owner's entry, so staleness is bounded to the configured TTL or
// the next write, whichever comes first.
package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

// SnapshotCache is a goroutine-safe map-backed cache with a fixed TTL
// per entry. Cleanup is lazy: expired entries are dropped on read or
// overwrite.
type SnapshotCache[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]entry[V]
}

// New constructs a cache whose entries live for ttl. A ttl <= 0 means
// entries never expire on their own and only Invalidate removes them.
func New[K comparable, V any](ttl time.Duration) *SnapshotCache[K, V] {
	return &SnapshotCache[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
	}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// Get returns the cached value and whether it was present and fresh.
func (c *SnapshotCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// Set stores a snapshot, replacing any previous one for the key.
func (c *SnapshotCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if c.ttl > 0 {
		exp = now().Add(c.ttl)
	}
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

// Invalidate drops a key's snapshot, if any.
func (c *SnapshotCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all entries.
func (c *SnapshotCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}

// Len counts non-expired entries.
func (c *SnapshotCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, e := range c.items {
		if e.expiresAt.IsZero() || now().Before(e.expiresAt) {
			count++
		}
	}
	return count
}
