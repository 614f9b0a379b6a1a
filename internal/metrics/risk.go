package metrics

import (
	"math"

	"agent-backtest-lab/internal/domain"
)

// ComputeRisk derives risk statistics from the daily return series and
// an optional matched-length benchmark series. Every metric degrades to
// its zero value when fewer than 2 usable observations exist or when
// the series lengths mismatch.
func ComputeRisk(returns, benchmark []float64) *domain.RiskMetrics {
	m := &domain.RiskMetrics{}
	if len(returns) < 2 {
		return m
	}

	m.ValueAtRisk95 = percentile(returns, 0.05)
	m.ExpectedShortfall = expectedShortfall(returns, m.ValueAtRisk95)

	if len(benchmark) != len(returns) {
		return m
	}

	benchVar := variance(benchmark)
	if benchVar > varianceGuard {
		m.Beta = covariance(returns, benchmark) / benchVar

		annualPortfolio := annualize(compound(returns), len(returns))
		annualBench := annualize(compound(benchmark), len(benchmark))
		m.Alpha = annualPortfolio - (riskFreeRate + m.Beta*(annualBench-riskFreeRate))
	}

	excess := diff(returns, benchmark)
	m.TrackingError = stddev(excess) * math.Sqrt(tradingDaysPerYear)
	if m.TrackingError > varianceGuard {
		m.InformationRatio = mean(excess) * tradingDaysPerYear / m.TrackingError
	}

	return m
}

// expectedShortfall is the mean of returns at or below the VaR
// threshold.
func expectedShortfall(returns []float64, threshold float64) float64 {
	sum, n := 0.0, 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// compound chains daily returns into a total return.
func compound(returns []float64) float64 {
	total := 1.0
	for _, r := range returns {
		total *= 1 + r
	}
	return total - 1
}
