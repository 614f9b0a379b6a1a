package postgres

import (
	"context"
	"fmt"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// RunTradeStore implements storage.RunTradeStore using PostgreSQL.
type RunTradeStore struct {
	pool *Pool
}

// NewRunTradeStore creates a new RunTradeStore.
func NewRunTradeStore(pool *Pool) *RunTradeStore {
	return &RunTradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunTradeStore = (*RunTradeStore)(nil)

// InsertBulk adds a run's trade log atomically. Fails entire batch on any duplicate.
func (s *RunTradeStore) InsertBulk(ctx context.Context, runID string, trades []domain.Trade) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO run_trades (
			run_id, seq, trade_date, action,
			requested_quantity, executed_quantity, execution_price, commission, slippage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for i, t := range trades {
		_, err := tx.Exec(ctx, query,
			runID, i, t.Date, string(t.Action),
			t.RequestedQuantity, t.ExecutedQuantity, t.ExecutionPrice, t.Commission, t.Slippage,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert run trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all trades for a run, ordered by (date, seq) ASC.
func (s *RunTradeStore) GetByRunID(ctx context.Context, runID string) ([]domain.Trade, error) {
	query := `
		SELECT trade_date, action,
			requested_quantity, executed_quantity, execution_price, commission, slippage
		FROM run_trades
		WHERE run_id = $1
		ORDER BY trade_date ASC, seq ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get run trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var action string

		err := rows.Scan(
			&t.Date, &action,
			&t.RequestedQuantity, &t.ExecutedQuantity, &t.ExecutionPrice, &t.Commission, &t.Slippage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run trade row: %w", err)
		}

		t.Action = domain.Action(action)
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run trade rows: %w", err)
	}

	if trades == nil {
		return nil, storage.ErrNotFound
	}
	return trades, nil
}
