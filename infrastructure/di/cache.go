package di

import (
	"context"
	"sync"
	"time"
)

// sweepEvery bounds how often expired entries are evicted. Facet-count
// entries expire within a second, so the map never grows past the number of
// active cases between sweeps.
const sweepEvery = time.Minute

// InMemoryCache backs the query-bus caching middleware. Expired entries are
// evicted lazily on read and swept in bulk during writes; there is no
// background goroutine to leak.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	sweepAt time.Time
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// NewInMemoryCache creates an empty cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]cacheEntry),
		sweepAt: time.Now().Add(sweepEvery),
	}
}

// Get returns the cached value for key if it has not expired.
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key for ttl seconds.
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, ttl int) error {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if now.After(c.sweepAt) {
		for k, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.sweepAt = now.Add(sweepEvery)
	}

	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: now.Add(time.Duration(ttl) * time.Second),
	}
	return nil
}

// Delete removes key from the cache.
func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Clear drops every entry.
func (c *InMemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	return nil
}
