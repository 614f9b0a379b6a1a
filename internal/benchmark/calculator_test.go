package benchmark

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/domain"
)

var (
	benchStart = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	benchEnd   = time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
)

// seriesProvider serves fixed close series per ticker.
type seriesProvider struct {
	closes map[string][]float64
}

func (p *seriesProvider) Bars(_ context.Context, ticker string, start, _ time.Time) ([]domain.Bar, error) {
	closes, ok := p.closes[ticker]
	if !ok {
		return nil, errors.New("ticker not available")
	}
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{Date: start.AddDate(0, 0, i), Close: c, Volume: 1000}
	}
	return bars, nil
}

func newCalc(t *testing.T, variant domain.BenchmarkVariant, p *seriesProvider) *Calculator {
	t.Helper()
	c, err := NewCalculator(variant, p, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	return c
}

func TestNewCalculator_UnknownVariant(t *testing.T) {
	_, err := NewCalculator("hodl", &seriesProvider{}, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestBuyAndHold_FlatThenUpSeries(t *testing.T) {
	p := &seriesProvider{closes: map[string][]float64{
		"AAPL": {100, 100, 100, 105, 110},
	}}
	c := newCalc(t, domain.BenchmarkBuyAndHold, p)

	got := c.DailyReturns(context.Background(), "AAPL", benchStart, benchEnd, 5)

	want := []float64{0, 0, 0, 0.05, 110.0/105.0 - 1}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("returns[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestDailyReturns_FetchFailureYieldsZeroSeries(t *testing.T) {
	p := &seriesProvider{closes: map[string][]float64{}}
	c := newCalc(t, domain.BenchmarkBuyAndHold, p)

	got := c.DailyReturns(context.Background(), "AAPL", benchStart, benchEnd, 7)
	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	for i, r := range got {
		if r != 0 {
			t.Errorf("returns[%d] = %f, want 0", i, r)
		}
	}
}

func TestDailyReturns_LengthNormalization(t *testing.T) {
	p := &seriesProvider{closes: map[string][]float64{
		"AAPL": {100, 101, 102, 103, 104, 105, 106, 107},
	}}
	c := newCalc(t, domain.BenchmarkBuyAndHold, p)

	if got := c.DailyReturns(context.Background(), "AAPL", benchStart, benchEnd, 5); len(got) != 5 {
		t.Errorf("truncation: len = %d, want 5", len(got))
	}
	padded := c.DailyReturns(context.Background(), "AAPL", benchStart, benchEnd, 12)
	if len(padded) != 12 {
		t.Fatalf("padding: len = %d, want 12", len(padded))
	}
	for _, r := range padded[8:] {
		if r != 0 {
			t.Errorf("padded tail should be zero, got %f", r)
		}
	}
}

func TestMarketIndex_UsesReferenceTicker(t *testing.T) {
	p := &seriesProvider{closes: map[string][]float64{
		"SPY":  {200, 202, 204},
		"AAPL": {100, 90, 80},
	}}
	c := newCalc(t, domain.BenchmarkMarketIndex, p)

	got := c.DailyReturns(context.Background(), "AAPL", benchStart, benchEnd, 3)
	if math.Abs(got[1]-0.01) > 1e-9 {
		t.Errorf("returns[1] = %f, want 0.01 (SPY, not AAPL)", got[1])
	}
}

func TestEqualWeightBasket_SkipsUnavailableSeries(t *testing.T) {
	// Only the target and SPY resolve; QQQ and IWM are unavailable.
	p := &seriesProvider{closes: map[string][]float64{
		"AAPL": {100, 102},
		"SPY":  {200, 202},
	}}
	c := newCalc(t, domain.BenchmarkEqualWeightBasket, p)

	got := c.DailyReturns(context.Background(), "AAPL", benchStart, benchEnd, 2)
	want := (0.02 + 0.01) / 2
	if math.Abs(got[1]-want) > 1e-9 {
		t.Errorf("returns[1] = %f, want %f", got[1], want)
	}
}

func TestMomentum_LongOnlyAfterPositiveSignal(t *testing.T) {
	// 30 rising closes: momentum turns positive once 20 days of history
	// exist, so later returns equal the daily change.
	closes := make([]float64, 30)
	price := 100.0
	for i := range closes {
		closes[i] = price
		price *= 1.01
	}
	p := &seriesProvider{closes: map[string][]float64{"AAPL": closes}}
	c := newCalc(t, domain.BenchmarkMomentum, p)

	got := c.DailyReturns(context.Background(), "AAPL", benchStart, benchEnd, 30)

	for i := 0; i <= momentumWindow; i++ {
		if got[i] != 0 {
			t.Errorf("returns[%d] = %f, want 0 before signal history", i, got[i])
		}
	}
	for i := momentumWindow + 1; i < 30; i++ {
		if math.Abs(got[i]-0.01) > 1e-9 {
			t.Errorf("returns[%d] = %f, want 0.01", i, got[i])
		}
	}
}

func TestMeanReversion_ContrarianAfterSpike(t *testing.T) {
	// Gently oscillating history, then a sharp spike: z > 1 as of the
	// spike day, so the next day's position is short.
	closes := make([]float64, 23)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 99
		} else {
			closes[i] = 101
		}
	}
	closes[21] = 120 // spike
	closes[22] = 110 // partial revert

	p := &seriesProvider{closes: map[string][]float64{"AAPL": closes}}
	c := newCalc(t, domain.BenchmarkMeanReversion, p)

	got := c.DailyReturns(context.Background(), "AAPL", benchStart, benchEnd, 23)

	change := 110.0/120.0 - 1
	if math.Abs(got[22]-(-change)) > 1e-9 {
		t.Errorf("returns[22] = %f, want %f (short the spike)", got[22], -change)
	}
}
