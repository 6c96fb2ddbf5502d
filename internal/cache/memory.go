package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process cache used for a single matching run. Match
// history is never persisted across runs, so this is the only Cache
// implementation.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache with explicit TTL and cleanup settings.
func NewMemory(defaultTTL time.Duration, cleanupInterval time.Duration) *Memory {
	return &Memory{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// NewRun creates the cache for one matching run. Entries live for the
// lifetime of the run: no TTL expiry and no background janitor, since the
// whole cache is dropped with the run.
func NewRun() *Memory {
	return &Memory{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a cached extraction result.
func (c *Memory) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores an extraction result. A non-positive ttl falls back to the
// cache's default lifetime.
func (c *Memory) Set(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a single entry.
func (c *Memory) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear drops every entry, typically at the end of a run.
func (c *Memory) Clear() error {
	c.cache.Flush()
	return nil
}
