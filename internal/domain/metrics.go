package domain

// PerformanceMetrics are computed once at the end of a run from the full
// value/return/trade history. Pure value record, recomputable
// idempotently from the same inputs.
type PerformanceMetrics struct {
	TotalReturn          float64
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	SharpeRatio          float64
	MaxDrawdown          float64
	WinRate              float64
	ProfitFactor         float64
	AverageTradeReturn   float64
	TotalTrades          int
}

// RiskMetrics are computed from the daily return series and, when
// available, a matched-length benchmark series.
type RiskMetrics struct {
	// ValueAtRisk95 is the 5th percentile of the daily return distribution.
	ValueAtRisk95 float64
	// ExpectedShortfall is the mean of returns at or below the VaR threshold.
	ExpectedShortfall float64
	Beta              float64
	Alpha             float64
	TrackingError     float64
	InformationRatio  float64
}
