// Package strategy defines the opaque strategy boundary of the backtest
// engine. A Strategy is any decision producer (LLM-backed, rule-based,
// or a test double); the engine only sees its decision-bearing text.
package strategy

import (
	"context"
	"time"

	"agent-backtest-lab/internal/domain"
)

// Request carries everything a strategy may consult for one invocation.
type Request struct {
	Ticker    string
	StartDate time.Time
	EndDate   time.Time

	// Portfolio is a snapshot; strategies must not mutate engine state.
	Portfolio domain.Portfolio

	// SelectedAnalysts is the sorted set of analysts due on the
	// simulated day.
	SelectedAnalysts []string
}

// Strategy produces a decision-bearing text for one simulated day. The
// output is expected to contain at minimum an action and a quantity,
// optionally an agent_signals list; malformed output is treated as a
// parse failure by the decision engine.
type Strategy interface {
	// Run may block for network or heavyweight computation; the engine
	// wraps it in an enforced timeout.
	Run(ctx context.Context, req *Request) (string, error)

	// Name returns the strategy identifier.
	Name() string
}
