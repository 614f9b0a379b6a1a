package reporting

import (
	"context"
	"errors"
	"time"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
)

// Generator produces reports from stored run data.
type Generator struct {
	runStore   storage.RunStore
	tradeStore storage.RunTradeStore
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(runStore storage.RunStore, tradeStore storage.RunTradeStore) *Generator {
	return &Generator{
		runStore:   runStore,
		tradeStore: tradeStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete report for a stored run. A run with no
// trade log still reports; the trade table is simply empty.
func (g *Generator) Generate(ctx context.Context, runID string) (*Report, error) {
	run, err := g.runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	trades, err := g.tradeStore.GetByRunID(ctx, runID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	return g.build(run, trades), nil
}

// FromRun builds a report directly from an in-memory run result,
// bypassing storage. Used by the CLI right after a run completes.
func FromRun(run *domain.BacktestRun, trades []domain.Trade) *Report {
	g := &Generator{now: func() time.Time { return time.Now().UTC() }}
	return g.build(run, trades)
}

func (g *Generator) build(run *domain.BacktestRun, trades []domain.Trade) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		RunID:       run.RunID,
		Config: ConfigSection{
			Ticker:         run.Ticker,
			StartDate:      run.StartDate,
			EndDate:        run.EndDate,
			InitialCapital: run.InitialCapital,
			CommissionRate: run.CommissionRate,
			SlippageRate:   run.SlippageRate,
			StrategyName:   run.StrategyName,
			Benchmark:      string(run.Benchmark),
		},
		Outcome: OutcomeSection{
			FinalValue:  run.FinalValue,
			TotalReturn: run.Performance.TotalReturn,
			TradingDays: run.TradingDays,
		},
		Performance: []MetricRow{
			{Name: "Total Return", Value: run.Performance.TotalReturn},
			{Name: "Annualized Return", Value: run.Performance.AnnualizedReturn},
			{Name: "Annualized Volatility", Value: run.Performance.AnnualizedVolatility},
			{Name: "Sharpe Ratio", Value: run.Performance.SharpeRatio},
			{Name: "Max Drawdown", Value: run.Performance.MaxDrawdown},
			{Name: "Win Rate", Value: run.Performance.WinRate},
			{Name: "Profit Factor", Value: run.Performance.ProfitFactor},
			{Name: "Average Trade Return", Value: run.Performance.AverageTradeReturn},
		},
		Risk: []MetricRow{
			{Name: "VaR (95%)", Value: run.Risk.ValueAtRisk95},
			{Name: "Expected Shortfall", Value: run.Risk.ExpectedShortfall},
			{Name: "Beta", Value: run.Risk.Beta},
			{Name: "Alpha", Value: run.Risk.Alpha},
			{Name: "Tracking Error", Value: run.Risk.TrackingError},
			{Name: "Information Ratio", Value: run.Risk.InformationRatio},
		},
		Benchmark: BenchmarkSection{
			Variant:          string(run.Benchmark),
			Beta:             run.Risk.Beta,
			Alpha:            run.Risk.Alpha,
			TrackingError:    run.Risk.TrackingError,
			InformationRatio: run.Risk.InformationRatio,
		},
		Execution: ExecutionSection{
			TradingDays:     run.TradingDays,
			MissingDataDays: run.MissingDataDays,
			FullInvocations: run.FullInvocations,
			SimplifiedCalls: run.SimplifiedCalls,
			CachedDecisions: run.CachedDecisions,
			DegradedHolds:   run.DegradedHolds,
			CacheHitRate:    run.CacheHitRate,
		},
	}

	for _, t := range trades {
		r.Trades = append(r.Trades, TradeRow{
			Date:              t.Date,
			Action:            string(t.Action),
			RequestedQuantity: t.RequestedQuantity,
			ExecutedQuantity:  t.ExecutedQuantity,
			ExecutionPrice:    t.ExecutionPrice,
			Commission:        t.Commission,
			Slippage:          t.Slippage,
		})
	}

	return r
}
