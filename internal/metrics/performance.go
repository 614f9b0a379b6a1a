package metrics

import (
	"math"

	"agent-backtest-lab/internal/domain"
)

// ComputePerformance derives performance statistics from the full run
// history. values and returns are the per-day series accumulated by the
// orchestrator; trades is the executor's append-only log.
func ComputePerformance(values []domain.ValuePoint, returns []float64, trades []domain.Trade, initialCapital float64) *domain.PerformanceMetrics {
	m := &domain.PerformanceMetrics{TotalTrades: len(trades)}

	if len(values) > 0 && initialCapital > 0 {
		final := values[len(values)-1].PortfolioValue
		m.TotalReturn = final/initialCapital - 1
	}

	if len(returns) >= 2 {
		m.AnnualizedReturn = annualize(m.TotalReturn, len(returns))
		m.AnnualizedVolatility = stddev(returns) * math.Sqrt(tradingDaysPerYear)
		if m.AnnualizedVolatility > 0 {
			m.SharpeRatio = (m.AnnualizedReturn - riskFreeRate) / m.AnnualizedVolatility
		}
	}

	m.MaxDrawdown = maxDrawdown(values)
	m.WinRate, m.ProfitFactor, m.AverageTradeReturn = tradeStatistics(trades)

	return m
}

// annualize compounds a total return over the 252-trading-day
// convention.
func annualize(totalReturn float64, days int) float64 {
	if days <= 0 || totalReturn <= -1 {
		return 0
	}
	return math.Pow(1+totalReturn, tradingDaysPerYear/float64(days)) - 1
}

// maxDrawdown is the minimum of value/rollingMax(value) - 1, a
// non-positive number.
func maxDrawdown(values []domain.ValuePoint) float64 {
	if len(values) < 2 {
		return 0
	}

	peak := values[0].PortfolioValue
	worst := 0.0
	for _, v := range values {
		if v.PortfolioValue > peak {
			peak = v.PortfolioValue
		}
		if peak > 0 {
			dd := v.PortfolioValue/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// tradeStatistics computes win rate, profit factor, and average trade
// return from per-trade realized P&L. Buys are negative cash flows and
// sells positive, both net of commission.
func tradeStatistics(trades []domain.Trade) (winRate, profitFactor, avgReturn float64) {
	if len(trades) == 0 {
		return 0, 0, 0
	}

	wins := 0
	profits, losses := 0.0, 0.0
	total := 0.0
	for i := range trades {
		pnl := trades[i].CashFlow()
		total += pnl
		if pnl > 0 {
			wins++
			profits += pnl
		} else {
			losses += -pnl
		}
	}

	winRate = float64(wins) / float64(len(trades))
	avgReturn = total / float64(len(trades))

	switch {
	case losses > 0:
		profitFactor = profits / losses
	case profits > 0:
		profitFactor = math.Inf(1)
	default:
		profitFactor = 0
	}
	return winRate, profitFactor, avgReturn
}
