package metrics

import (
	"math"
	"testing"
)

func TestComputeRisk_InsufficientData(t *testing.T) {
	for _, returns := range [][]float64{nil, {}, {0.01}} {
		m := ComputeRisk(returns, nil)
		if *m != (*ComputeRisk(nil, nil)) {
			t.Errorf("returns=%v: expected zero-value metrics, got %+v", returns, m)
		}
		if m.ValueAtRisk95 != 0 || m.Beta != 0 || m.TrackingError != 0 {
			t.Errorf("returns=%v: expected zeros, got %+v", returns, m)
		}
	}
}

func TestComputeRisk_ValueAtRiskNearestRank(t *testing.T) {
	// 20 observations: the 5% nearest-rank index is 1, so VaR is the
	// second-worst return.
	returns := make([]float64, 20)
	for i := range returns {
		returns[i] = float64(i-10) / 100 // -0.10 .. 0.09
	}

	m := ComputeRisk(returns, nil)
	if math.Abs(m.ValueAtRisk95-(-0.09)) > 1e-9 {
		t.Errorf("VaR95 = %f, want -0.09", m.ValueAtRisk95)
	}
	// ES averages the returns at or below VaR: -0.10 and -0.09.
	if math.Abs(m.ExpectedShortfall-(-0.095)) > 1e-9 {
		t.Errorf("ES = %f, want -0.095", m.ExpectedShortfall)
	}
}

func TestComputeRisk_BenchmarkLengthMismatch(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, 0.01}
	benchmark := []float64{0.01, -0.02}

	m := ComputeRisk(returns, benchmark)
	if m.ValueAtRisk95 == 0 {
		t.Error("VaR should still be computed on a length mismatch")
	}
	if m.Beta != 0 || m.Alpha != 0 || m.TrackingError != 0 || m.InformationRatio != 0 {
		t.Errorf("relative metrics should be zero on length mismatch, got %+v", m)
	}
}

func TestComputeRisk_BetaOfIdenticalSeries(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, -0.01, 0.02}

	m := ComputeRisk(returns, returns)
	if math.Abs(m.Beta-1) > 1e-9 {
		t.Errorf("beta = %f, want 1 against itself", m.Beta)
	}
	if m.TrackingError != 0 {
		t.Errorf("tracking error = %f, want 0 against itself", m.TrackingError)
	}
	if m.InformationRatio != 0 {
		t.Errorf("information ratio = %f, want 0 when tracking error is 0", m.InformationRatio)
	}
	if math.Abs(m.Alpha) > 1e-9 {
		t.Errorf("alpha = %f, want 0 against itself", m.Alpha)
	}
}

func TestComputeRisk_FlatBenchmarkSkipsBeta(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, -0.01}
	benchmark := []float64{0.005, 0.005, 0.005, 0.005}

	m := ComputeRisk(returns, benchmark)
	if m.Beta != 0 || m.Alpha != 0 {
		t.Errorf("beta/alpha should be 0 against a zero-variance benchmark, got %+v", m)
	}
	if m.TrackingError == 0 {
		t.Error("tracking error should still be computed")
	}
}

func TestComputeRisk_Idempotent(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, -0.01, 0.015}
	benchmark := []float64{0.008, -0.015, 0.02, -0.005, 0.01}

	first := ComputeRisk(returns, benchmark)
	second := ComputeRisk(returns, benchmark)
	if *first != *second {
		t.Errorf("metrics not idempotent:\n%+v\n%+v", first, second)
	}
}
