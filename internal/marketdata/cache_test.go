package marketdata

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/stock-advisor/internal/domain"
)

func TestCacheGetPut(t *testing.T) {
	cache := NewCache(0)

	_, _, _, ok := cache.Get("ASML", "5y")
	assert.False(t, ok)

	bars := []domain.Bar{{Close: 100}}
	snapshot := domain.NewSnapshot("ASML")
	cache.Put("ASML", "5y", bars, snapshot, "ASML.AS")

	gotBars, gotSnapshot, resolved, ok := cache.Get("ASML", "5y")
	assert.True(t, ok)
	assert.Equal(t, bars, gotBars)
	assert.Equal(t, snapshot, gotSnapshot)
	assert.Equal(t, "ASML.AS", resolved)

	// Distinct period is a distinct key
	_, _, _, ok = cache.Get("ASML", "1y")
	assert.False(t, ok)
}

func TestCacheNeverEvictsWithoutTTL(t *testing.T) {
	cache := NewCache(0)
	cache.Put("ASML", "5y", nil, domain.NewSnapshot("ASML"), "ASML")

	assert.Equal(t, 0, cache.Sweep())
	assert.Equal(t, 1, cache.Len())
}

func TestCacheTTL(t *testing.T) {
	cache := NewCache(time.Minute)

	now := time.Now()
	cache.now = func() time.Time { return now }
	cache.Put("ASML", "5y", nil, domain.NewSnapshot("ASML"), "ASML")

	_, _, _, ok := cache.Get("ASML", "5y")
	assert.True(t, ok)

	// Advance past the TTL: entry is stale for Get and removed by Sweep
	cache.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, _, _, ok = cache.Get("ASML", "5y")
	assert.False(t, ok)

	assert.Equal(t, 1, cache.Sweep())
	assert.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cache.Put("ASML", "5y", nil, domain.NewSnapshot("ASML"), "ASML")
		}()
		go func() {
			defer wg.Done()
			cache.Get("ASML", "5y")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.Len())
}
