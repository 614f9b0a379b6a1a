// Package decision turns the day's due analyst set into a canonical
// decision record, memoizing results and degrading safely when the
// opaque strategy fails.
package decision

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/cache"
	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/strategy"
)

// simplifiedThreshold is the largest due-analyst set handled by the
// local simplified procedure; larger sets invoke the full strategy.
const simplifiedThreshold = 3

// Input is everything the engine consults for one simulated day.
type Input struct {
	Ticker        string
	Date          time.Time
	LookbackStart time.Time

	// DueAnalysts is the sorted set of analysts due on Date.
	DueAnalysts []string

	// Portfolio is a read-only snapshot of the ledger.
	Portfolio domain.Portfolio

	// History holds the lookback price window up to and including Date,
	// oldest first. The simplified procedure reads only this.
	History []domain.Bar
}

// Engine produces canonical decisions. A run never aborts because one
// day's invocation failed: every failure path resolves to a hold.
type Engine struct {
	strategy strategy.Strategy
	cache    *cache.ResultCache
	timeout  time.Duration
	log      zerolog.Logger
}

// NewEngine creates a decision engine around the opaque strategy.
func NewEngine(strat strategy.Strategy, rc *cache.ResultCache, timeout time.Duration, log zerolog.Logger) *Engine {
	if timeout <= 0 {
		timeout = domain.DefaultStrategyTimeout
	}
	return &Engine{
		strategy: strat,
		cache:    rc,
		timeout:  timeout,
		log:      log,
	}
}

// Decide resolves the day's decision. With no analyst due the prior
// cached decision is replayed; on a cache miss the simplified procedure
// or the full strategy runs and the result is memoized.
func (e *Engine) Decide(ctx context.Context, in *Input) *domain.Decision {
	if len(in.DueAnalysts) == 0 {
		if last, ok := e.cache.Last(); ok {
			return last
		}
		return domain.Hold(domain.ModeCached)
	}

	key := cache.Key(in.Date, in.DueAnalysts)
	if d, ok := e.cache.Get(key); ok {
		return d
	}

	var d *domain.Decision
	if len(in.DueAnalysts) <= simplifiedThreshold {
		d = simplifiedDecision(in.DueAnalysts, in.History, in.Portfolio)
	} else {
		full, err := e.invokeFull(ctx, in)
		if err != nil {
			e.log.Warn().Err(err).
				Str("ticker", in.Ticker).
				Time("date", in.Date).
				Msg("strategy invocation failed, holding")
			full = domain.Hold(domain.ModeDegraded)
		}
		d = full
	}

	e.cache.Put(key, d)
	return d
}

// invokeFull runs the opaque strategy under the enforced timeout, with
// one retry on transient failure. Parse failures are not retried.
func (e *Engine) invokeFull(ctx context.Context, in *Input) (*domain.Decision, error) {
	req := &strategy.Request{
		Ticker:           in.Ticker,
		StartDate:        in.LookbackStart,
		EndDate:          in.Date,
		Portfolio:        in.Portfolio,
		SelectedAnalysts: in.DueAnalysts,
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		runCtx, cancel := context.WithTimeout(ctx, e.timeout)
		out, err := e.strategy.Run(runCtx, req)
		cancel()

		if err != nil {
			lastErr = err
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				// Timed out or the run itself is being cancelled:
				// abort rather than retry.
				break
			}
			continue
		}

		return parseDecision(out)
	}
	return nil, lastErr
}
