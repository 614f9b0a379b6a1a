// Package schedule decides, per simulated day, which analyst components
// are due for recomputation under their configured frequency policies.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"agent-backtest-lab/internal/domain"
)

// Conditional trigger thresholds.
const (
	volatilitySpikeLag   = 15
	volatilitySpikeRatio = 1.5
	priceMoveWindow      = 3
	priceMoveThreshold   = 0.05
	monthStartGraceDays  = 3
)

// Scheduler evaluates frequency policies against the simulated calendar
// and the rolling market state.
type Scheduler struct {
	policies map[string]domain.FrequencyPolicy
	state    *MarketState
}

// NewScheduler creates a scheduler for the given analyst policies.
// Unknown policy values are rejected.
func NewScheduler(policies map[string]domain.FrequencyPolicy) (*Scheduler, error) {
	for name, policy := range policies {
		if !policy.Valid() {
			return nil, fmt.Errorf("%w: analyst %q has policy %q",
				domain.ErrInvalidFrequency, name, policy)
		}
	}

	copied := make(map[string]domain.FrequencyPolicy, len(policies))
	for name, policy := range policies {
		copied[name] = policy
	}

	return &Scheduler{
		policies: copied,
		state:    NewMarketState(),
	}, nil
}

// UpdateMarketState feeds the day's price change into the rolling windows
// backing the conditional policy.
func (s *Scheduler) UpdateMarketState(currentPrice, previousPrice float64) {
	s.state.Update(currentPrice, previousPrice)
}

// IsDue reports whether the named analyst must be recomputed on date.
// Analysts without a configured policy default to daily.
func (s *Scheduler) IsDue(analyst string, date time.Time) bool {
	policy, ok := s.policies[analyst]
	if !ok {
		policy = domain.FrequencyDaily
	}

	switch policy {
	case domain.FrequencyDaily:
		return true
	case domain.FrequencyWeekly:
		return date.Weekday() == time.Monday
	case domain.FrequencyMonthly:
		return date.Day() == 1
	case domain.FrequencyConditional:
		return s.conditionalDue(date)
	default:
		return true
	}
}

// DueAnalysts returns the sorted set of analysts due on date.
func (s *Scheduler) DueAnalysts(date time.Time) []string {
	var due []string
	for name := range s.policies {
		if s.IsDue(name, date) {
			due = append(due, name)
		}
	}
	sort.Strings(due)
	return due
}

// conditionalDue triggers on a volatility spike, a large cumulative price
// move, or the periodic safety net (week start / first days of month).
func (s *Scheduler) conditionalDue(date time.Time) bool {
	if s.state.VolatilitySpike(volatilitySpikeLag, volatilitySpikeRatio) {
		return true
	}
	sum := s.state.RecentChangeSum(priceMoveWindow)
	if sum > priceMoveThreshold || sum < -priceMoveThreshold {
		return true
	}
	return date.Weekday() == time.Monday || date.Day() <= monthStartGraceDays
}
