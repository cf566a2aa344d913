// Package cache holds downloaded resource bodies so that long-lived hosts
// bootstrapping many tool instances do not refetch the same plugin code.
package cache

import (
	"sync"
	"time"
)

// entry wraps a cached body with expiry and insertion order tracking.
type entry struct {
	body      []byte
	expiry    time.Time
	insertIdx int64
}

// ResourceCache caches resource bodies keyed by their resolved URL.
// Thread-safe with sync.RWMutex.
type ResourceCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// New creates a new ResourceCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *ResourceCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &ResourceCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns a cached body if found and not expired.
func (c *ResourceCache) Get(url string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.items[url]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiry) {
		c.mu.Lock()
		if e2, ok2 := c.items[url]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, url)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.body, true
}

// Set stores a body in the cache. Evicts the oldest entry if at capacity.
func (c *ResourceCache) Set(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		body:      body,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[url]; exists {
		c.items[url] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[url] = e
}

// Len returns the number of stored entries, expired ones included.
func (c *ResourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Purge removes every entry.
func (c *ResourceCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *ResourceCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
