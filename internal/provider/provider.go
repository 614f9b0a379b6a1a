// Package provider defines the price-history collaborator boundary and
// its concrete implementations: deterministic stub, storage-backed,
// cache-wrapped, Alpaca market data, and a fallback chain over multiple
// sources.
package provider

import (
	"context"
	"errors"
	"time"

	"agent-backtest-lab/internal/domain"
)

// Provider errors.
var (
	// ErrNoData is returned when a source yields no bars for the window.
	// The engine tolerates this by holding the prior value forward.
	ErrNoData = errors.New("no price data for window")
)

// PriceHistoryProvider returns the ordered daily bars for a ticker in
// [start, end]. Implementations may return an empty slice on failure;
// callers must tolerate empty results.
type PriceHistoryProvider interface {
	Bars(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error)
}
