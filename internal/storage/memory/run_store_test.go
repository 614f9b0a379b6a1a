package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

func sampleRun(runID, ticker string, createdAt time.Time) *domain.BacktestRun {
	return &domain.BacktestRun{
		RunID:          runID,
		Ticker:         ticker,
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC),
		InitialCapital: 100000,
		FinalValue:     104500,
		CreatedAt:      createdAt,
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := sampleRun("run-1", "AAPL", time.Now())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Ticker != "AAPL" {
		t.Errorf("Ticker mismatch: got %s, want AAPL", got.Ticker)
	}
	if got.FinalValue != 104500 {
		t.Errorf("FinalValue mismatch: got %f, want 104500", got.FinalValue)
	}
}

func TestRunStore_DuplicateKey(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := sampleRun("run-1", "AAPL", time.Now())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunStore_NotFound(t *testing.T) {
	store := NewRunStore()

	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_GetByTickerOrdersByCreatedAt(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	runs := []*domain.BacktestRun{
		sampleRun("run-3", "AAPL", base.Add(2*time.Hour)),
		sampleRun("run-1", "AAPL", base),
		sampleRun("run-2", "MSFT", base.Add(time.Hour)),
	}
	for _, r := range runs {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByTicker(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(got))
	}
	if got[0].RunID != "run-1" || got[1].RunID != "run-3" {
		t.Errorf("Expected created_at order [run-1 run-3], got [%s %s]", got[0].RunID, got[1].RunID)
	}
}

func TestRunStore_CopySemantics(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := sampleRun("run-1", "AAPL", time.Now())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the inserted struct must not affect the stored copy.
	r.FinalValue = 0

	got, err := store.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FinalValue != 104500 {
		t.Errorf("Stored run mutated externally: FinalValue = %f", got.FinalValue)
	}
}
