package domain

// FrequencyPolicy controls how often an analyst component is recomputed.
type FrequencyPolicy string

// Frequency policy constants.
const (
	// FrequencyDaily recomputes every trading day.
	FrequencyDaily FrequencyPolicy = "daily"
	// FrequencyWeekly recomputes on the first day of the business week.
	FrequencyWeekly FrequencyPolicy = "weekly"
	// FrequencyMonthly recomputes on the first calendar day of the month.
	FrequencyMonthly FrequencyPolicy = "monthly"
	// FrequencyConditional recomputes on volatility spikes, large price
	// moves, or a periodic safety-net trigger.
	FrequencyConditional FrequencyPolicy = "conditional"
)

// Valid reports whether p is a known frequency policy.
func (p FrequencyPolicy) Valid() bool {
	switch p {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyConditional:
		return true
	default:
		return false
	}
}

// Analyst component names known to the engine.
const (
	AnalystMarketData          = "market_data"
	AnalystTechnical           = "technical"
	AnalystFundamentals        = "fundamentals"
	AnalystSentiment           = "sentiment"
	AnalystValuation           = "valuation"
	AnalystMacro               = "macro"
	AnalystPortfolioManagement = "portfolio_management"
)
