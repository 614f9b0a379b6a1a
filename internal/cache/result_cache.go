// Package cache provides the per-run memoization layers of the backtest
// engine: strategy decisions keyed by (date, due analysts) and raw
// historical price windows keyed by (ticker, start, end).
package cache

import (
	"sort"
	"strings"
	"time"

	"agent-backtest-lab/internal/domain"
)

// ResultCache memoizes strategy decisions for one backtest run. It is
// process-local and requires no locking in the sequential loop.
type ResultCache struct {
	entries map[string]*domain.Decision
	lastKey string
	hits    int
	misses  int
}

// NewResultCache creates an empty result cache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]*domain.Decision)}
}

// Key builds the cache key from the date and the due analyst set. Two
// days requiring the same subset on different dates do not collide, and
// {technical, sentiment} is distinguishable from {technical} alone.
// Analysts are expected pre-sorted; Key sorts defensively otherwise.
func Key(date time.Time, analysts []string) string {
	if !sort.StringsAreSorted(analysts) {
		analysts = append([]string(nil), analysts...)
		sort.Strings(analysts)
	}
	return date.Format("2006-01-02") + "|" + strings.Join(analysts, ",")
}

// Get returns the cached decision for key, counting a hit or a miss.
func (c *ResultCache) Get(key string) (*domain.Decision, bool) {
	d, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return d, ok
}

// Put stores a decision and remembers it as the most recent entry.
func (c *ResultCache) Put(key string, d *domain.Decision) {
	c.entries[key] = d
	c.lastKey = key
}

// Last returns the most recently cached decision, re-tagged as a
// cache-sourced decision. Used when no analyst is due for a day: the
// prior decision is replayed verbatim.
func (c *ResultCache) Last() (*domain.Decision, bool) {
	d, ok := c.entries[c.lastKey]
	if !ok {
		return nil, false
	}
	replay := *d
	replay.ExecutionMode = domain.ModeCached
	return &replay, true
}

// HitRate returns hits / (hits + misses), 0 when no lookups occurred.
func (c *ResultCache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// Stats returns the monotone hit/miss counters.
func (c *ResultCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
