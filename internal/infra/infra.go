// Package infra provides shared infrastructure components used by the API:
// response caching and per-client rate limiting.
package infra

import (
	"sync"
	"time"
)

// --- Simple in-memory cache ---

// CacheEntry holds a cached value with expiration.
type CacheEntry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache is a simple thread-safe in-memory cache with TTL.
// A zero TTL disables caching: Set is a no-op and Get always misses.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry[V]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a new cache with the given default TTL.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]CacheEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Enabled reports whether the cache stores anything.
func (c *Cache[V]) Enabled() bool { return c.ttl > 0 }

// Get retrieves a value from the cache. Returns the zero value, false if not
// found or expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.ExpiresAt) {
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// Set stores a value in the cache with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = CacheEntry[V]{
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not yet
// cleaned up.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries. Can be called periodically.
func (c *Cache[V]) Cleanup() {
	c.mu.Lock()
	now := c.now()
	for k, v := range c.entries {
		if now.After(v.ExpiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
