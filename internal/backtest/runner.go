// Package backtest drives the day-by-day simulation loop: market data,
// scheduling, decisions, execution, and bookkeeping for one run.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/benchmark"
	"agent-backtest-lab/internal/cache"
	"agent-backtest-lab/internal/decision"
	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/execution"
	"agent-backtest-lab/internal/metrics"
	"agent-backtest-lab/internal/observability"
	"agent-backtest-lab/internal/provider"
	"agent-backtest-lab/internal/schedule"
	"agent-backtest-lab/internal/strategy"
)

// Result is the complete outcome of one run: the persisted summary plus
// the full series it was computed from.
type Result struct {
	Run              *domain.BacktestRun
	Values           []domain.ValuePoint
	Returns          []float64
	BenchmarkReturns []float64
	Trades           []domain.Trade
}

// Runner owns one backtest run. It is single-use: construct, Run once,
// read the result.
type Runner struct {
	cfg      domain.BacktestConfig
	strategy string
	provider provider.PriceHistoryProvider
	sched    *schedule.Scheduler
	results  *cache.ResultCache
	engine   *decision.Engine
	exec     *execution.Executor
	bench    *benchmark.Calculator
	obs      *observability.Metrics
	log      zerolog.Logger
}

// NewRunner validates the configuration and wires the run's components.
func NewRunner(cfg domain.BacktestConfig, strat strategy.Strategy, p provider.PriceHistoryProvider, log zerolog.Logger) (*Runner, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sched, err := schedule.NewScheduler(cfg.AnalystFrequencies)
	if err != nil {
		return nil, err
	}

	bench, err := benchmark.NewCalculator(cfg.Benchmark, p, log)
	if err != nil {
		return nil, err
	}

	results := cache.NewResultCache()
	return &Runner{
		cfg:      cfg,
		strategy: strat.Name(),
		provider: p,
		sched:    sched,
		results:  results,
		engine:   decision.NewEngine(strat, results, cfg.StrategyTimeout, log),
		exec:     execution.NewExecutor(cfg.CommissionRate, cfg.SlippageRate),
		bench:    bench,
		obs:      observability.DefaultMetrics,
		log:      log,
	}, nil
}

// Run simulates every trading day in [StartDate, EndDate]. Cancellation
// is honored at day boundaries; a cancelled run returns the context
// error and no result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	portfolio := &domain.Portfolio{Cash: r.cfg.InitialCapital}

	var (
		values  []domain.ValuePoint
		returns []float64

		lastPrice float64
		prevValue = r.cfg.InitialCapital

		tradingDays, missingDays int
		modeCounts               = map[domain.ExecutionMode]int{}
	)

	for date := r.cfg.StartDate; !date.After(r.cfg.EndDate); date = date.AddDate(0, 0, 1) {
		if !isTradingDay(date) {
			continue
		}
		if err := ctx.Err(); err != nil {
			r.obs.RunsTotal.WithLabelValues("cancelled").Inc()
			return nil, fmt.Errorf("run cancelled on %s: %w", date.Format("2006-01-02"), err)
		}
		tradingDays++
		r.obs.DaysSimulated.Inc()

		lookbackStart := date.AddDate(0, 0, -r.cfg.LookbackDays)
		bars, err := r.provider.Bars(ctx, r.cfg.Ticker, lookbackStart, date)
		price := domain.LastClose(bars)

		if err != nil || price <= 0 {
			// Missing market data: the day still produces a value point,
			// carried forward with a zero return.
			if err != nil {
				r.log.Warn().Err(err).
					Str("ticker", r.cfg.Ticker).
					Time("date", date).
					Msg("market data unavailable, carrying value forward")
			}
			missingDays++
			values = append(values, domain.ValuePoint{Date: date, PortfolioValue: prevValue, DailyReturn: 0})
			returns = append(returns, 0)
			continue
		}

		r.sched.UpdateMarketState(price, lastPrice)
		lastPrice = price

		d := r.engine.Decide(ctx, &decision.Input{
			Ticker:        r.cfg.Ticker,
			Date:          date,
			LookbackStart: lookbackStart,
			DueAnalysts:   r.sched.DueAnalysts(date),
			Portfolio:     *portfolio,
			History:       bars,
		})
		modeCounts[d.ExecutionMode]++
		observability.RecordDecision(string(d.ExecutionMode))

		executed := r.exec.Execute(d.Action, d.Quantity, price, date, portfolio)
		if executed > 0 {
			observability.RecordTrade(string(d.Action))
		}

		value := portfolio.TotalValue(price)
		dailyReturn := 0.0
		if len(values) > 0 && prevValue > 0 {
			dailyReturn = value/prevValue - 1
		}
		values = append(values, domain.ValuePoint{Date: date, PortfolioValue: value, DailyReturn: dailyReturn})
		returns = append(returns, dailyReturn)
		prevValue = value
	}

	benchReturns := r.bench.DailyReturns(ctx, r.cfg.Ticker, r.cfg.StartDate, r.cfg.EndDate, len(returns))
	trades := r.exec.Trades()

	perf := metrics.ComputePerformance(values, returns, trades, r.cfg.InitialCapital)
	risk := metrics.ComputeRisk(returns, benchReturns)

	run := &domain.BacktestRun{
		RunID:          uuid.NewString(),
		Ticker:         r.cfg.Ticker,
		StartDate:      r.cfg.StartDate,
		EndDate:        r.cfg.EndDate,
		InitialCapital: r.cfg.InitialCapital,
		CommissionRate: r.cfg.CommissionRate,
		SlippageRate:   r.cfg.SlippageRate,
		Benchmark:      r.cfg.Benchmark,
		StrategyName:   r.strategy,

		FinalValue:  prevValue,
		Performance: *perf,
		Risk:        *risk,

		TradingDays:     tradingDays,
		MissingDataDays: missingDays,
		FullInvocations: modeCounts[domain.ModeFull],
		SimplifiedCalls: modeCounts[domain.ModeSimplified],
		CachedDecisions: modeCounts[domain.ModeCached],
		DegradedHolds:   modeCounts[domain.ModeDegraded],
		CacheHitRate:    r.results.HitRate(),

		CreatedAt: time.Now().UTC(),
	}

	r.obs.RunsTotal.WithLabelValues("completed").Inc()
	r.obs.RunDuration.Observe(time.Since(started).Seconds())
	r.log.Info().
		Str("run_id", run.RunID).
		Str("ticker", run.Ticker).
		Int("trading_days", tradingDays).
		Int("trades", len(trades)).
		Float64("final_value", run.FinalValue).
		Dur("elapsed", time.Since(started)).
		Msg("backtest run complete")

	return &Result{
		Run:              run,
		Values:           values,
		Returns:          returns,
		BenchmarkReturns: benchReturns,
		Trades:           trades,
	}, nil
}

// isTradingDay treats Monday through Friday as trading days. Exchange
// holidays surface as missing-data days instead.
func isTradingDay(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
