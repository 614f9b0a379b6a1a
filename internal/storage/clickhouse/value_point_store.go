package clickhouse

import (
	"context"
	"fmt"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// ValuePointStore implements storage.ValuePointStore using ClickHouse.
type ValuePointStore struct {
	conn *Conn
}

// NewValuePointStore creates a new ValuePointStore.
func NewValuePointStore(conn *Conn) *ValuePointStore {
	return &ValuePointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ValuePointStore = (*ValuePointStore)(nil)

// InsertBulk adds a run's daily value trajectory.
func (s *ValuePointStore) InsertBulk(ctx context.Context, runID string, points []domain.ValuePoint) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO run_value_points (
			run_id, date, portfolio_value, daily_return
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(runID, p.Date, p.PortfolioValue, p.DailyReturn); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all points for a run, ordered by date ASC.
func (s *ValuePointStore) GetByRunID(ctx context.Context, runID string) ([]domain.ValuePoint, error) {
	query := `
		SELECT date, portfolio_value, daily_return
		FROM run_value_points
		WHERE run_id = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query value points: %w", err)
	}
	defer rows.Close()

	var points []domain.ValuePoint
	for rows.Next() {
		var p domain.ValuePoint
		if err := rows.Scan(&p.Date, &p.PortfolioValue, &p.DailyReturn); err != nil {
			return nil, fmt.Errorf("scan value point row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate value point rows: %w", err)
	}

	return points, nil
}
