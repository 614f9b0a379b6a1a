package storage

import (
	"context"
	"time"

	"agent-backtest-lab/internal/domain"
)

// RunStore provides access to backtest_runs storage.
type RunStore interface {
	// Insert adds a new run summary. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.BacktestRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.BacktestRun, error)

	// GetByTicker retrieves all runs for a ticker, ordered by created_at ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.BacktestRun, error)

	// GetAll retrieves all runs, ordered by created_at ASC.
	GetAll(ctx context.Context) ([]*domain.BacktestRun, error)
}

// RunTradeStore provides access to run_trades storage.
type RunTradeStore interface {
	// InsertBulk adds a run's trade log atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, runID string, trades []domain.Trade) error

	// GetByRunID retrieves all trades for a run, ordered by (date, seq) ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.Trade, error)
}

// BarStore provides access to daily_bars storage.
type BarStore interface {
	// InsertBulk adds multiple bars. Duplicate (ticker, date) rows are not deduplicated here;
	// the backing table is expected to collapse them.
	InsertBulk(ctx context.Context, ticker string, bars []domain.Bar) error

	// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive), ordered by date ASC.
	GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error)
}

// ValuePointStore provides access to run_value_points storage.
type ValuePointStore interface {
	// InsertBulk adds a run's daily value trajectory.
	InsertBulk(ctx context.Context, runID string, points []domain.ValuePoint) error

	// GetByRunID retrieves all points for a run, ordered by date ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.ValuePoint, error)
}
