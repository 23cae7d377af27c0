// Package cache provides a bounded in-memory TTL cache keyed by string.
// It backs the behavior-profile store and per-user recommendation sets.
// Cache misses always degrade to "recompute", never to a hard failure.
package cache

import (
	"context"
	"sync"
	"time"
)

// Default cache configuration constants.
const (
	defaultTTL     = 6 * time.Hour
	defaultMaxSize = 10_000
)

// Option applies a configuration option to the Cache.
type Option[V any] func(*Cache[V])

// WithTTL sets the entry time-to-live.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(c *Cache[V]) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxSize bounds the number of live entries. When full, the entry
// closest to expiry is evicted to make room.
func WithMaxSize[V any](size int) Option[V] {
	return func(c *Cache[V]) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		if now != nil {
			c.now = now
		}
	}
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a mutex-guarded TTL map. Readers and writers on a given key
// are serialized; expired entries are dropped lazily on access.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// New creates a Cache with configuration options.
func New[V any](opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     defaultTTL,
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's configured TTL.
func (c *Cache[V]) Set(ctx context.Context, key string, value V) {
	c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache[V]) SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictSoonest()
	}
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Invalidate force-removes key, e.g. on an explicit preference update.
func (c *Cache[V]) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of live (possibly expired, not yet reaped) entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictSoonest removes the entry closest to expiry. Must be called with
// c.mu held for writing.
func (c *Cache[V]) evictSoonest() {
	var victim string
	var soonest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.expiresAt.Before(soonest) {
			victim = k
			soonest = e.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.entries, victim)
	}
}
