package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu   sync.RWMutex
	data map[string]domain.Bar // keyed by (ticker, date)
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{
		data: make(map[string]domain.Bar),
	}
}

// barKey generates a unique key for a daily bar.
func barKey(ticker string, bar domain.Bar) string {
	return fmt.Sprintf("%s|%s", ticker, bar.Date.Format("2006-01-02"))
}

// InsertBulk adds multiple bars. Later writes for the same (ticker, date)
// replace earlier ones, mirroring the backing table's collapse semantics.
func (s *BarStore) InsertBulk(_ context.Context, ticker string, bars []domain.Bar) error {
	if ticker == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range bars {
		s.data[barKey(ticker, b)] = b
	}
	return nil
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive), ordered by date ASC.
func (s *BarStore) GetByDateRange(_ context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := ticker + "|"
	var result []domain.Bar
	for key, b := range s.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		result = append(result, b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

var _ storage.BarStore = (*BarStore)(nil)
