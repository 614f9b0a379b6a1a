package domain

import "time"

// BacktestRun is the persisted summary of one completed run: the
// configuration it was produced from plus the final metrics. The trade
// log and value trajectory are stored separately, keyed by RunID.
type BacktestRun struct {
	RunID          string
	Ticker         string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
	CommissionRate float64
	SlippageRate   float64
	Benchmark      BenchmarkVariant
	StrategyName   string

	FinalValue  float64
	Performance PerformanceMetrics
	Risk        RiskMetrics

	// Execution statistics accumulated over the run.
	TradingDays      int
	MissingDataDays  int
	FullInvocations  int
	SimplifiedCalls  int
	CachedDecisions  int
	DegradedHolds    int
	CacheHitRate     float64

	CreatedAt time.Time
}
