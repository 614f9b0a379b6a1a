package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agent-backtest-lab/internal/domain"
)

// PriceFetcher supplies the price history a local strategy consults.
// Narrower than the provider interface so strategies stay decoupled from
// the data layer.
type PriceFetcher func(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error)

// SMACross is a self-contained moving-average crossover strategy. It
// buys when the short SMA is above the long SMA and sells otherwise,
// emitting the same decision-bearing JSON an external strategy would.
// Useful as the offline default and as a realistic full-mode strategy in
// tests.
type SMACross struct {
	fetch       PriceFetcher
	shortPeriod int
	longPeriod  int
	quantity    int
}

// NewSMACross creates an SMACross with the given periods. quantity is
// the order size attached to buy/sell decisions.
func NewSMACross(fetch PriceFetcher, short, long, quantity int) *SMACross {
	return &SMACross{
		fetch:       fetch,
		shortPeriod: short,
		longPeriod:  long,
		quantity:    quantity,
	}
}

// Name returns the strategy identifier including parameters.
func (s *SMACross) Name() string {
	return fmt.Sprintf("sma-cross-%d-%d", s.shortPeriod, s.longPeriod)
}

// Run fetches the request window and emits a JSON decision.
func (s *SMACross) Run(ctx context.Context, req *Request) (string, error) {
	bars, err := s.fetch(ctx, req.Ticker, req.StartDate, req.EndDate)
	if err != nil {
		return "", fmt.Errorf("fetch %s bars: %w", req.Ticker, err)
	}
	if len(bars) < s.longPeriod {
		return s.encode(domain.ActionHold, 0, "neutral"), nil
	}

	short := sma(bars, s.shortPeriod)
	long := sma(bars, s.longPeriod)

	switch {
	case short > long:
		qty := s.quantity
		if req.Portfolio.Position > 0 {
			// Already long: hold rather than pyramid.
			return s.encode(domain.ActionHold, 0, "bullish"), nil
		}
		return s.encode(domain.ActionBuy, qty, "bullish"), nil
	case short < long && req.Portfolio.Position > 0:
		qty := req.Portfolio.Position
		if qty > s.quantity {
			qty = s.quantity
		}
		return s.encode(domain.ActionSell, qty, "bearish"), nil
	default:
		return s.encode(domain.ActionHold, 0, "neutral"), nil
	}
}

func (s *SMACross) encode(action domain.Action, quantity int, signal string) string {
	out := map[string]any{
		"action":   action,
		"quantity": quantity,
		"agent_signals": []map[string]any{
			{"agent": "technical", "signal": signal, "confidence": 0.6},
		},
	}
	data, _ := json.Marshal(out)
	return string(data)
}

// sma averages the closes of the trailing n bars.
func sma(bars []domain.Bar, n int) float64 {
	sum := 0.0
	for _, b := range bars[len(bars)-n:] {
		sum += b.Close
	}
	return sum / float64(n)
}

var _ Strategy = (*SMACross)(nil)
