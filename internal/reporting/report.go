// Package reporting turns a completed run into human-readable Markdown
// and machine-readable CSV artifacts.
package reporting

import "time"

// Report is the renderable summary of one backtest run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string

	// Run configuration echo
	Config ConfigSection

	// Final outcome
	Outcome OutcomeSection

	// Performance and risk tables
	Performance []MetricRow
	Risk        []MetricRow

	// Benchmark comparison
	Benchmark BenchmarkSection

	// Execution statistics
	Execution ExecutionSection

	// Trade log (chronological)
	Trades []TradeRow
}

// ConfigSection echoes the parameters the run was produced from.
type ConfigSection struct {
	Ticker         string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
	CommissionRate float64
	SlippageRate   float64
	StrategyName   string
	Benchmark      string
}

// OutcomeSection is the headline result.
type OutcomeSection struct {
	FinalValue  float64
	TotalReturn float64
	TradingDays int
}

// MetricRow is one labeled metric value.
type MetricRow struct {
	Name  string
	Value float64
}

// BenchmarkSection compares the run to its benchmark variant.
type BenchmarkSection struct {
	Variant          string
	Beta             float64
	Alpha            float64
	TrackingError    float64
	InformationRatio float64
}

// ExecutionSection summarizes how decisions were produced.
type ExecutionSection struct {
	TradingDays     int
	MissingDataDays int
	FullInvocations int
	SimplifiedCalls int
	CachedDecisions int
	DegradedHolds   int
	CacheHitRate    float64
}

// TradeRow is one executed trade in the log.
type TradeRow struct {
	Date              time.Time
	Action            string
	RequestedQuantity int
	ExecutedQuantity  int
	ExecutionPrice    float64
	Commission        float64
	Slippage          float64
}
