package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `
	run_id, ticker, start_date, end_date,
	initial_capital, commission_rate, slippage_rate, benchmark, strategy_name,
	final_value,
	total_return, annualized_return, annualized_volatility, sharpe_ratio, max_drawdown,
	win_rate, profit_factor, average_trade_return, total_trades,
	value_at_risk_95, expected_shortfall, beta, alpha, tracking_error, information_ratio,
	trading_days, missing_data_days, full_invocations, simplified_calls,
	cached_decisions, degraded_holds, cache_hit_rate,
	created_at`

// Insert adds a new run summary. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.BacktestRun) error {
	query := `
		INSERT INTO backtest_runs (` + runColumns + `) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10,
			$11, $12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25,
			$26, $27, $28, $29,
			$30, $31, $32,
			$33
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.Ticker, r.StartDate, r.EndDate,
		r.InitialCapital, r.CommissionRate, r.SlippageRate, string(r.Benchmark), r.StrategyName,
		r.FinalValue,
		r.Performance.TotalReturn, r.Performance.AnnualizedReturn, r.Performance.AnnualizedVolatility,
		r.Performance.SharpeRatio, r.Performance.MaxDrawdown,
		r.Performance.WinRate, r.Performance.ProfitFactor, r.Performance.AverageTradeReturn, r.Performance.TotalTrades,
		r.Risk.ValueAtRisk95, r.Risk.ExpectedShortfall, r.Risk.Beta, r.Risk.Alpha,
		r.Risk.TrackingError, r.Risk.InformationRatio,
		r.TradingDays, r.MissingDataDays, r.FullInvocations, r.SimplifiedCalls,
		r.CachedDecisions, r.DegradedHolds, r.CacheHitRate,
		r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert backtest run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.BacktestRun, error) {
	query := `SELECT ` + runColumns + ` FROM backtest_runs WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get backtest run by id: %w", err)
	}
	return r, nil
}

// GetByTicker retrieves all runs for a ticker, ordered by created_at ASC.
func (s *RunStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.BacktestRun, error) {
	query := `SELECT ` + runColumns + ` FROM backtest_runs WHERE ticker = $1 ORDER BY created_at ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get backtest runs by ticker: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetAll retrieves all runs, ordered by created_at ASC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.BacktestRun, error) {
	query := `SELECT ` + runColumns + ` FROM backtest_runs ORDER BY created_at ASC, run_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all backtest runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// scanRun scans a single row into a BacktestRun.
func scanRun(row pgx.Row) (*domain.BacktestRun, error) {
	var r domain.BacktestRun
	var benchmark string

	err := row.Scan(
		&r.RunID, &r.Ticker, &r.StartDate, &r.EndDate,
		&r.InitialCapital, &r.CommissionRate, &r.SlippageRate, &benchmark, &r.StrategyName,
		&r.FinalValue,
		&r.Performance.TotalReturn, &r.Performance.AnnualizedReturn, &r.Performance.AnnualizedVolatility,
		&r.Performance.SharpeRatio, &r.Performance.MaxDrawdown,
		&r.Performance.WinRate, &r.Performance.ProfitFactor, &r.Performance.AverageTradeReturn, &r.Performance.TotalTrades,
		&r.Risk.ValueAtRisk95, &r.Risk.ExpectedShortfall, &r.Risk.Beta, &r.Risk.Alpha,
		&r.Risk.TrackingError, &r.Risk.InformationRatio,
		&r.TradingDays, &r.MissingDataDays, &r.FullInvocations, &r.SimplifiedCalls,
		&r.CachedDecisions, &r.DegradedHolds, &r.CacheHitRate,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Benchmark = domain.BenchmarkVariant(benchmark)
	return &r, nil
}

// scanRuns scans multiple rows into a slice of BacktestRun.
func scanRuns(rows pgx.Rows) ([]*domain.BacktestRun, error) {
	var runs []*domain.BacktestRun

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backtest run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest run rows: %w", err)
	}

	return runs, nil
}
