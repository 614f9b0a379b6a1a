package schedule

import "math"

// Rolling window capacities.
const (
	priceChangeCapacity = 5
	volatilityCapacity  = 20
)

// MarketState is a bounded rolling history of recent fractional price
// changes and realized short-window volatility. It is mutated once per
// simulated day by the backtest loop and read-only to the scheduler.
type MarketState struct {
	priceChanges *window
	volatility   *window
}

// NewMarketState creates an empty market state.
func NewMarketState() *MarketState {
	return &MarketState{
		priceChanges: newWindow(priceChangeCapacity),
		volatility:   newWindow(volatilityCapacity),
	}
}

// Update appends the fractional price change for the day. Once the price
// change window is full, the standard deviation of its contents is
// appended to the volatility window.
func (s *MarketState) Update(currentPrice, previousPrice float64) {
	if previousPrice == 0 {
		return
	}
	s.priceChanges.Append(currentPrice/previousPrice - 1)

	if s.priceChanges.Len() >= priceChangeCapacity {
		s.volatility.Append(stddev(s.priceChanges.Values()))
	}
}

// RecentChangeSum returns the sum of the last n recorded price changes.
func (s *MarketState) RecentChangeSum(n int) float64 {
	sum := 0.0
	for i := s.priceChanges.Len() - 1; i >= 0 && n > 0; i, n = i-1, n-1 {
		sum += s.priceChanges.At(i)
	}
	return sum
}

// VolatilitySpike reports whether the newest volatility sample exceeds
// ratio times the sample lag observations earlier.
func (s *MarketState) VolatilitySpike(lag int, ratio float64) bool {
	n := s.volatility.Len()
	if n < lag {
		return false
	}
	return s.volatility.At(n-1) > ratio*s.volatility.At(n-lag)
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}
