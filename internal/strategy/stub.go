package strategy

import (
	"context"
	"time"
)

// Stub is a scripted strategy for tests and offline runs. It returns a
// fixed output (or error) and counts invocations.
type Stub struct {
	Output string
	Err    error
	// Delay simulates a slow invocation; the stub aborts early when the
	// context expires first.
	Delay time.Duration

	calls int
}

// Run returns the scripted output after the optional delay.
func (s *Stub) Run(ctx context.Context, _ *Request) (string, error) {
	s.calls++

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Output, nil
}

// Name returns the stub identifier.
func (s *Stub) Name() string { return "stub" }

// Calls returns how many times Run was invoked.
func (s *Stub) Calls() int { return s.calls }

var _ Strategy = (*Stub)(nil)
