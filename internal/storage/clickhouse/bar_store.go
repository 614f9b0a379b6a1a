package clickhouse

import (
	"context"
	"fmt"
	"time"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// BarStore implements storage.BarStore using ClickHouse. The backing
// table is a ReplacingMergeTree keyed by (ticker, date), so repeated
// inserts of the same bar collapse on merge.
type BarStore struct {
	conn *Conn
}

// NewBarStore creates a new BarStore.
func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// InsertBulk adds multiple bars.
func (s *BarStore) InsertBulk(ctx context.Context, ticker string, bars []domain.Bar) error {
	if ticker == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_bars (
			ticker, date, open, high, low, close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			ticker, b.Date, b.Open, b.High, b.Low, b.Close, uint64(b.Volume),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByDateRange retrieves bars for a ticker within [start, end] (inclusive), ordered by date ASC.
func (s *BarStore) GetByDateRange(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	query := `
		SELECT date, open, high, low, close, volume
		FROM daily_bars FINAL
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("query bars by date range: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// scanBars scans multiple rows.
func scanBars(rows chRows) ([]domain.Bar, error) {
	var bars []domain.Bar

	for rows.Next() {
		var b domain.Bar
		var volume uint64

		err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &volume)
		if err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}

		b.Volume = int64(volume)
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}

	return bars, nil
}
