package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache used by tests and as a fallback when no
// Redis server is configured. Expired entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is swapped out in tests to control expiry
	now func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)

// GetJSON implements Cache.GetJSON
func (c *MemoryCache) GetJSON(_ context.Context, key string, target any) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return ErrCacheMiss
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return ErrCacheMiss
	}

	return json.Unmarshal(entry.data, target)
}

// SetJSON implements Cache.SetJSON
func (c *MemoryCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		data:      data,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// SetClock overrides the cache's time source. Tests use it to force expiry
// without sleeping.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}
