package memory

import (
	"context"
	"sync"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// RunTradeStore is an in-memory implementation of storage.RunTradeStore.
type RunTradeStore struct {
	mu   sync.RWMutex
	data map[string][]domain.Trade // keyed by run_id, insertion order preserved
}

// NewRunTradeStore creates a new in-memory trade store.
func NewRunTradeStore() *RunTradeStore {
	return &RunTradeStore{
		data: make(map[string][]domain.Trade),
	}
}

// InsertBulk adds a run's trade log atomically. Fails entire batch on any duplicate.
func (s *RunTradeStore) InsertBulk(_ context.Context, runID string, trades []domain.Trade) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[runID]; exists {
		return storage.ErrDuplicateKey
	}

	batch := make([]domain.Trade, len(trades))
	copy(batch, trades)
	s.data[runID] = batch
	return nil
}

// GetByRunID retrieves all trades for a run, ordered by (date, seq) ASC.
func (s *RunTradeStore) GetByRunID(_ context.Context, runID string) ([]domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trades, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := make([]domain.Trade, len(trades))
	copy(result, trades)
	return result, nil
}

var _ storage.RunTradeStore = (*RunTradeStore)(nil)
