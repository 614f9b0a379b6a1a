package cache

import (
	"fmt"
	"time"

	"agent-backtest-lab/internal/domain"
)

// MarketDataCache memoizes historical price-window lookups keyed by
// (ticker, start, end). Historical bars are immutable, so entries never
// go stale within their lifetime.
type MarketDataCache interface {
	Get(ticker string, start, end time.Time) ([]domain.Bar, bool)
	Put(ticker string, start, end time.Time, bars []domain.Bar)

	// HitRate returns hits / (hits + misses), 0 when no lookups occurred.
	HitRate() float64
}

// PriceWindowKey builds the canonical cache key for a price window.
func PriceWindowKey(ticker string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s", ticker,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// MemoryPriceCache is the in-process MarketDataCache used for a single
// run. Requires no locking in the sequential design.
type MemoryPriceCache struct {
	entries map[string][]domain.Bar
	hits    int
	misses  int
}

// NewMemoryPriceCache creates an empty in-memory price cache.
func NewMemoryPriceCache() *MemoryPriceCache {
	return &MemoryPriceCache{entries: make(map[string][]domain.Bar)}
}

// Get returns the cached window, counting a hit or a miss.
func (c *MemoryPriceCache) Get(ticker string, start, end time.Time) ([]domain.Bar, bool) {
	bars, ok := c.entries[PriceWindowKey(ticker, start, end)]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return bars, ok
}

// Put stores a window.
func (c *MemoryPriceCache) Put(ticker string, start, end time.Time, bars []domain.Bar) {
	c.entries[PriceWindowKey(ticker, start, end)] = bars
}

// HitRate returns hits / (hits + misses), 0 when no lookups occurred.
func (c *MemoryPriceCache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

var _ MarketDataCache = (*MemoryPriceCache)(nil)
