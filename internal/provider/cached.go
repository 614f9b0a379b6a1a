package provider

import (
	"context"
	"time"

	"agent-backtest-lab/internal/cache"
	"agent-backtest-lab/internal/domain"
)

// Cached wraps a provider with a MarketDataCache so redundant window
// fetches within (or, with a shared cache, across) runs hit memory
// instead of the source.
type Cached struct {
	source PriceHistoryProvider
	cache  cache.MarketDataCache
}

// NewCached wraps source with the given cache.
func NewCached(source PriceHistoryProvider, c cache.MarketDataCache) *Cached {
	return &Cached{source: source, cache: c}
}

// Bars serves from cache when possible. Only successful non-empty
// fetches are cached, so transient source failures stay retryable.
func (p *Cached) Bars(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	if bars, ok := p.cache.Get(ticker, start, end); ok {
		return bars, nil
	}

	bars, err := p.source.Bars(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) > 0 {
		p.cache.Put(ticker, start, end, bars)
	}
	return bars, nil
}

var _ PriceHistoryProvider = (*Cached)(nil)
