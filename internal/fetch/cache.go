// cache.go provides the shared resource-key cache. Concurrent consumers
// of the same key share one entry and one upstream request, so two page
// renders needing the same post issue a single fetch.
package fetch

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultEntryTTL is how long a cached resource stays fresh.
const DefaultEntryTTL = 30 * time.Second

// Cache is a TTL'd in-memory map keyed by resource key, with singleflight
// collapsing of concurrent fetches for the same key.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	group   singleflight.Group
}

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// NewCache creates a cache with the given freshness TTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultEntryTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// GetOrFetch returns the cached value for key, fetching it with fn on
// miss or staleness. Concurrent calls for one key run fn exactly once.
// Errors are not cached; a stale value is left in place for the next
// attempt.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Since(entry.storedAt) < c.ttl {
		return entry.value, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: another flight may have refreshed the entry while
		// this call waited on the group.
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && time.Since(entry.storedAt) < c.ttl {
			return entry.value, nil
		}

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{value: v, storedAt: time.Now()}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		// Serve the stale value when one exists (never cleared on error).
		if ok {
			return entry.value, err
		}
		return nil, err
	}
	return value, nil
}

// Invalidate removes a single key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix removes every key beginning with prefix. Used after a
// mutation that affects a family of keys (e.g. all comment pages of one
// post).
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
