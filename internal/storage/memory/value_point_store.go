package memory

import (
	"context"
	"sync"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// ValuePointStore is an in-memory implementation of storage.ValuePointStore.
type ValuePointStore struct {
	mu   sync.RWMutex
	data map[string][]domain.ValuePoint // keyed by run_id, date order preserved
}

// NewValuePointStore creates a new in-memory value point store.
func NewValuePointStore() *ValuePointStore {
	return &ValuePointStore{
		data: make(map[string][]domain.ValuePoint),
	}
}

// InsertBulk adds a run's daily value trajectory.
func (s *ValuePointStore) InsertBulk(_ context.Context, runID string, points []domain.ValuePoint) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[runID]; exists {
		return storage.ErrDuplicateKey
	}

	batch := make([]domain.ValuePoint, len(points))
	copy(batch, points)
	s.data[runID] = batch
	return nil
}

// GetByRunID retrieves all points for a run, ordered by date ASC.
func (s *ValuePointStore) GetByRunID(_ context.Context, runID string) ([]domain.ValuePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := make([]domain.ValuePoint, len(points))
	copy(result, points)
	return result, nil
}

var _ storage.ValuePointStore = (*ValuePointStore)(nil)
