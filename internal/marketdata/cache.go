package marketdata

import (
	"sync"
	"time"

	"github.com/aristath/stock-advisor/internal/domain"
)

// cacheEntry holds one fetched triple plus its insertion time.
type cacheEntry struct {
	bars       []domain.Bar
	snapshot   domain.Snapshot
	resolved   string
	insertedAt time.Time
}

// Cache is an in-memory store of fetched market data keyed by
// (symbol, lookback period). It tolerates concurrent lookups and concurrent
// insertions; on a key collision the last writer wins, which is acceptable
// because fetched data for the same key is expected to be equivalent.
//
// With ttl == 0 entries are never evicted within a process run. With a
// positive ttl, expired entries are removed by Sweep (driven by the
// scheduler) and ignored by Get.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache. ttl == 0 disables eviction.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(symbol, period string) string {
	return symbol + "|" + period
}

// Get returns the cached triple for (symbol, period), if present and fresh.
func (c *Cache) Get(symbol, period string) ([]domain.Bar, domain.Snapshot, string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(symbol, period)]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.Snapshot{}, "", false
	}
	if c.ttl > 0 && c.now().Sub(entry.insertedAt) > c.ttl {
		return nil, domain.Snapshot{}, "", false
	}
	return entry.bars, entry.snapshot, entry.resolved, true
}

// Put stores a fetched triple under (symbol, period).
func (c *Cache) Put(symbol, period string, bars []domain.Bar, snapshot domain.Snapshot, resolved string) {
	c.mu.Lock()
	c.entries[cacheKey(symbol, period)] = cacheEntry{
		bars:       bars,
		snapshot:   snapshot,
		resolved:   resolved,
		insertedAt: c.now(),
	}
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep removes expired entries and returns how many were evicted.
// A no-op when eviction is disabled.
func (c *Cache) Sweep() int {
	if c.ttl == 0 {
		return 0
	}

	cutoff := c.now().Add(-c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, entry := range c.entries {
		if entry.insertedAt.Before(cutoff) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
