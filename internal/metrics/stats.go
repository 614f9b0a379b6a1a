// Package metrics computes performance and risk statistics from a
// completed run's value, return, and trade history. All calculators are
// pure: the same inputs always yield identical metrics, and fewer than
// two usable data points degrade to zero/default values instead of
// raising.
package metrics

import (
	"math"
	"sort"
)

// Annualization conventions.
const (
	tradingDaysPerYear = 252
	riskFreeRate       = 0.03
)

// varianceGuard is the threshold below which benchmark variance is
// treated as zero to avoid division instability.
const varianceGuard = 1e-8

// mean is the arithmetic mean, 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation, 0 below 2 samples.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// variance is the population variance, 0 below 2 samples.
func variance(values []float64) float64 {
	s := stddev(values)
	return s * s
}

// covariance is the population covariance of two equal-length series.
func covariance(a, b []float64) float64 {
	n := len(a)
	if n < 2 || n != len(b) {
		return 0
	}
	ma, mb := mean(a), mean(b)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += (a[i] - ma) * (b[i] - mb)
	}
	return sum / float64(n)
}

// percentile returns the p-quantile (0..1) of values using
// nearest-rank on a sorted copy.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// diff returns a - b element-wise for equal-length series.
func diff(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
