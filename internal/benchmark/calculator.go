// Package benchmark produces the parallel daily-return series the run's
// performance is compared against. Benchmarks are independent of the
// engine's trading decisions and degrade to a zero-return series rather
// than fail the run.
package benchmark

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/provider"
)

// Defaults for index-based variants.
var (
	DefaultIndexTicker = "SPY"
	DefaultBasket      = []string{"SPY", "QQQ", "IWM"}
)

// Signal windows for the self-trading variants.
const (
	momentumWindow   = 20
	zScoreWindow     = 20
	zScoreEntryLevel = 1.0
)

// Calculator computes one benchmark variant's return series.
type Calculator struct {
	variant     domain.BenchmarkVariant
	provider    provider.PriceHistoryProvider
	indexTicker string
	basket      []string
	log         zerolog.Logger
}

// NewCalculator creates a calculator for the given variant. Unknown
// variants are rejected at construction time.
func NewCalculator(variant domain.BenchmarkVariant, p provider.PriceHistoryProvider, log zerolog.Logger) (*Calculator, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("unknown benchmark variant %q", variant)
	}
	return &Calculator{
		variant:     variant,
		provider:    p,
		indexTicker: DefaultIndexTicker,
		basket:      DefaultBasket,
		log:         log,
	}, nil
}

// DailyReturns computes the benchmark series for the backtest window.
// The result always has exactly days entries: fetch failures produce an
// all-zero series and length mismatches are truncated or zero-padded.
func (c *Calculator) DailyReturns(ctx context.Context, ticker string, start, end time.Time, days int) []float64 {
	if days <= 0 {
		return nil
	}

	var series []float64
	switch c.variant {
	case domain.BenchmarkBuyAndHold:
		series = c.tickerReturns(ctx, ticker, start, end)
	case domain.BenchmarkMarketIndex:
		series = c.tickerReturns(ctx, c.indexTicker, start, end)
	case domain.BenchmarkEqualWeightBasket:
		series = c.basketReturns(ctx, ticker, start, end)
	case domain.BenchmarkMomentum:
		series = c.momentumReturns(ctx, ticker, start, end)
	case domain.BenchmarkMeanReversion:
		series = c.meanReversionReturns(ctx, ticker, start, end)
	}

	return normalizeLength(series, days)
}

// tickerReturns is the daily percentage change of one ticker's closes;
// the first day reads 0.
func (c *Calculator) tickerReturns(ctx context.Context, ticker string, start, end time.Time) []float64 {
	closes := c.fetchCloses(ctx, ticker, start, end)
	return dailyChanges(closes)
}

// basketReturns averages daily returns across the target ticker plus
// the reference basket, skipping unavailable series.
func (c *Calculator) basketReturns(ctx context.Context, ticker string, start, end time.Time) []float64 {
	members := append([]string{ticker}, c.basket...)

	var series [][]float64
	maxLen := 0
	for _, member := range members {
		closes := c.fetchCloses(ctx, member, start, end)
		if len(closes) == 0 {
			continue
		}
		r := dailyChanges(closes)
		series = append(series, r)
		if len(r) > maxLen {
			maxLen = len(r)
		}
	}
	if len(series) == 0 {
		return nil
	}

	avg := make([]float64, maxLen)
	for i := range avg {
		sum, n := 0.0, 0
		for _, r := range series {
			if i < len(r) {
				sum += r[i]
				n++
			}
		}
		avg[i] = sum / float64(n)
	}
	return avg
}

// momentumReturns is long only while the trailing 20-day momentum,
// measured as of the prior day, is positive.
func (c *Calculator) momentumReturns(ctx context.Context, ticker string, start, end time.Time) []float64 {
	closes := c.fetchCloses(ctx, ticker, start, end)
	changes := dailyChanges(closes)

	out := make([]float64, len(changes))
	for i := momentumWindow + 1; i < len(closes); i++ {
		momentum := closes[i-1]/closes[i-1-momentumWindow] - 1
		if momentum > 0 {
			out[i] = changes[i]
		}
	}
	return out
}

// meanReversionReturns takes a contrarian position when the prior day's
// close sits more than one standard deviation from its 20-day mean.
func (c *Calculator) meanReversionReturns(ctx context.Context, ticker string, start, end time.Time) []float64 {
	closes := c.fetchCloses(ctx, ticker, start, end)
	changes := dailyChanges(closes)

	out := make([]float64, len(changes))
	for i := zScoreWindow + 1; i < len(closes); i++ {
		window := closes[i-1-zScoreWindow : i-1]
		mean, std := meanStd(window)
		if std == 0 {
			continue
		}
		z := (closes[i-1] - mean) / std
		switch {
		case z > zScoreEntryLevel:
			out[i] = -changes[i]
		case z < -zScoreEntryLevel:
			out[i] = changes[i]
		}
	}
	return out
}

// fetchCloses returns the close series, or nil on any failure.
func (c *Calculator) fetchCloses(ctx context.Context, ticker string, start, end time.Time) []float64 {
	bars, err := c.provider.Bars(ctx, ticker, start, end)
	if err != nil {
		c.log.Warn().Err(err).
			Str("ticker", ticker).
			Str("variant", string(c.variant)).
			Msg("benchmark data fetch failed, degrading to zero series")
		return nil
	}
	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		closes = append(closes, b.Close)
	}
	return closes
}

// dailyChanges converts closes into fractional day-over-day changes,
// with the first entry 0.
func dailyChanges(closes []float64) []float64 {
	if len(closes) == 0 {
		return nil
	}
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			out[i] = closes[i]/closes[i-1] - 1
		}
	}
	return out
}

// normalizeLength forces series to exactly days entries, truncating the
// tail or zero-padding as needed.
func normalizeLength(series []float64, days int) []float64 {
	if len(series) == days {
		return series
	}
	out := make([]float64, days)
	copy(out, series)
	return out
}

func meanStd(values []float64) (float64, float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / n)
}
