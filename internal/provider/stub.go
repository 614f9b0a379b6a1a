package provider

import (
	"context"
	"math"
	"time"

	"agent-backtest-lab/internal/domain"
)

// Stub generates a deterministic synthetic daily series per ticker:
// a slow drift plus a sine swing, weekdays only. The same (ticker,
// window) always produces the same bars, which keeps offline runs and
// tests reproducible.
type Stub struct {
	// BasePrice anchors the series; defaults to 100.
	BasePrice float64
}

// NewStub creates a stub provider.
func NewStub() *Stub {
	return &Stub{BasePrice: 100}
}

// Bars synthesizes weekday bars for [start, end].
func (s *Stub) Bars(_ context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	base := s.BasePrice
	if base <= 0 {
		base = 100
	}
	// Per-ticker offset so different tickers do not move in lockstep.
	seed := float64(hashTicker(ticker) % 97)

	var bars []domain.Bar
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		t := float64(day.Unix() / 86400)
		price := base + seed + 0.02*t/365 + 5*math.Sin((t+seed)/9)
		bars = append(bars, domain.Bar{
			Date:   day,
			Open:   price * 0.998,
			High:   price * 1.01,
			Low:    price * 0.99,
			Close:  price,
			Volume: 1_000_000 + int64(500_000*math.Abs(math.Sin(t+seed))),
		})
	}
	return bars, nil
}

func hashTicker(ticker string) uint32 {
	// FNV-1a.
	h := uint32(2166136261)
	for i := 0; i < len(ticker); i++ {
		h ^= uint32(ticker[i])
		h *= 16777619
	}
	return h
}

var _ PriceHistoryProvider = (*Stub)(nil)
