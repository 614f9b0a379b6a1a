package provider

import (
	"context"
	"time"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// Store serves price history from a BarStore, for runs against
// previously ingested data.
type Store struct {
	bars storage.BarStore
}

// NewStore creates a storage-backed provider.
func NewStore(bars storage.BarStore) *Store {
	return &Store{bars: bars}
}

// Bars reads the window from storage.
func (p *Store) Bars(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	return p.bars.GetByDateRange(ctx, ticker, start, end)
}

var _ PriceHistoryProvider = (*Store)(nil)
