package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"agent-backtest-lab/internal/domain"
)

// Source is one named entry in a fallback chain, guarded by a circuit
// breaker and a token-bucket rate limit.
type Source struct {
	name     string
	provider PriceHistoryProvider
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
}

// NewSource wraps a provider for use in a Fallback chain. rps <= 0
// disables rate limiting for the source.
func NewSource(name string, p PriceHistoryProvider, rps float64, burst int) *Source {
	settings := gobreaker.Settings{Name: name}
	settings.Interval = 60 * time.Second
	settings.Timeout = 60 * time.Second
	settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}

	var limiter *rate.Limiter
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return &Source{
		name:     name,
		provider: p,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		limiter:  limiter,
	}
}

// Fallback tries each source in order until one yields data. A source
// whose breaker is open is skipped immediately; all sources failing is
// reported as an error the engine degrades on, not a run abort.
type Fallback struct {
	sources []*Source
	log     zerolog.Logger
}

// NewFallback creates a fallback chain over the given sources.
func NewFallback(log zerolog.Logger, sources ...*Source) *Fallback {
	return &Fallback{sources: sources, log: log}
}

// Bars queries the chain in order and returns the first non-empty
// result.
func (f *Fallback) Bars(ctx context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	var lastErr error

	for _, src := range f.sources {
		if src.limiter != nil {
			if err := src.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		result, err := src.breaker.Execute(func() (interface{}, error) {
			bars, err := src.provider.Bars(ctx, ticker, start, end)
			if err != nil {
				return nil, err
			}
			if len(bars) == 0 {
				return nil, ErrNoData
			}
			return bars, nil
		})
		if err != nil {
			lastErr = err
			f.log.Warn().Err(err).
				Str("source", src.name).
				Str("ticker", ticker).
				Msg("price source failed, trying next")
			continue
		}

		return result.([]domain.Bar), nil
	}

	if lastErr == nil {
		lastErr = ErrNoData
	}
	return nil, fmt.Errorf("all price sources failed for %s: %w", ticker, lastErr)
}

var _ PriceHistoryProvider = (*Fallback)(nil)
