package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache with per-entry TTL and a capacity
// bound. Values round-trip through JSON so callers see the same semantics
// as the redis implementation.
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string]memoryItem
	maxItems   int
	defaultTTL time.Duration
}

type memoryItem struct {
	data       []byte
	expiration time.Time
}

// NewMemoryCache creates an in-memory cache holding at most maxItems
// entries. A zero ttl on Set falls back to defaultTTL.
func NewMemoryCache(maxItems int, defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		items:      make(map[string]memoryItem),
		maxItems:   maxItems,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value, unmarshaling it into value.
func (c *MemoryCache) Get(_ context.Context, key string, value any) error {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiration) {
		return ErrNotFound
	}
	return json.Unmarshal(item.data, value)
}

// Set stores a value under key with the given ttl.
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxItems > 0 && len(c.items) >= c.maxItems {
		c.evictExpiredOrOldest()
	}
	c.items[key] = memoryItem{data: data, expiration: time.Now().Add(ttl)}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Exists reports whether key holds an unexpired entry.
func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	return ok && time.Now().Before(item.expiration), nil
}

// Flush discards all entries.
func (c *MemoryCache) Flush(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]memoryItem)
	return nil
}

// Close releases the cache.
func (c *MemoryCache) Close() error {
	return c.Flush(context.Background())
}

// evictExpiredOrOldest drops expired entries first, then the entry closest
// to expiry. Caller holds the write lock.
func (c *MemoryCache) evictExpiredOrOldest() {
	now := time.Now()
	oldestKey := ""
	var oldestExpiry time.Time
	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
			continue
		}
		if oldestKey == "" || item.expiration.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = item.expiration
		}
	}
	if len(c.items) >= c.maxItems && oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
