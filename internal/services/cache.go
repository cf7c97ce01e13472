// internal/services/cache.go
package services

import (
	"sync"
	"time"
)

// summaryCache is a small TTL cache for read-model results. Dashboards
// and forecast derivations tolerate a brief staleness window, so a
// plain mutex-guarded map is enough.
type summaryCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]cacheEntry
}

type cacheEntry struct {
	value      interface{}
	expiration time.Time
}

func newSummaryCache(ttl time.Duration) *summaryCache {
	return &summaryCache{
		ttl:  ttl,
		data: make(map[string]cacheEntry),
	}
}

func (c *summaryCache) get(key string) (interface{}, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiration) {
		return nil, false
	}
	return entry.value, true
}

func (c *summaryCache) set(key string, value interface{}) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = cacheEntry{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}
