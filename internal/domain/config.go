package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Configuration errors. Fatal at construction, never silently corrected.
var (
	ErrInvalidFrequency   = errors.New("invalid frequency policy")
	ErrInvalidDateRange   = errors.New("invalid date range: start must be before end")
	ErrNonPositiveCapital = errors.New("initial capital must be positive")
	ErrMalformedTicker    = errors.New("malformed ticker")
	ErrNegativeRate       = errors.New("commission and slippage rates must be non-negative")
)

// BenchmarkVariant selects the reference strategy the run is compared to.
type BenchmarkVariant string

// Benchmark variant constants.
const (
	BenchmarkBuyAndHold        BenchmarkVariant = "buy_and_hold"
	BenchmarkMarketIndex       BenchmarkVariant = "market_index"
	BenchmarkEqualWeightBasket BenchmarkVariant = "equal_weight_basket"
	BenchmarkMomentum          BenchmarkVariant = "momentum"
	BenchmarkMeanReversion     BenchmarkVariant = "mean_reversion"
)

// Valid reports whether v is a known benchmark variant.
func (v BenchmarkVariant) Valid() bool {
	switch v {
	case BenchmarkBuyAndHold, BenchmarkMarketIndex, BenchmarkEqualWeightBasket,
		BenchmarkMomentum, BenchmarkMeanReversion:
		return true
	default:
		return false
	}
}

// BacktestConfig holds all parameters for one backtest run.
type BacktestConfig struct {
	Ticker         string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
	CommissionRate float64
	SlippageRate   float64

	// AnalystFrequencies maps every analyst component name referenced by
	// the strategy to exactly one frequency policy.
	AnalystFrequencies map[string]FrequencyPolicy

	Benchmark BenchmarkVariant

	// LookbackDays is the price-history window handed to the decision
	// engine each simulated day.
	LookbackDays int

	// StrategyTimeout bounds one full-mode strategy invocation.
	StrategyTimeout time.Duration
}

// Defaults used when optional config fields are zero.
const (
	DefaultLookbackDays    = 90
	DefaultStrategyTimeout = 60 * time.Second
)

// Validate checks the configuration. All violations are configuration
// errors per the engine's error taxonomy.
func (c *BacktestConfig) Validate() error {
	if err := validateTicker(c.Ticker); err != nil {
		return err
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() || !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvalidDateRange,
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("%w: got %f", ErrNonPositiveCapital, c.InitialCapital)
	}
	if c.CommissionRate < 0 || c.SlippageRate < 0 {
		return ErrNegativeRate
	}
	for name, policy := range c.AnalystFrequencies {
		if !policy.Valid() {
			return fmt.Errorf("%w: analyst %q has policy %q", ErrInvalidFrequency, name, policy)
		}
	}
	if c.Benchmark != "" && !c.Benchmark.Valid() {
		return fmt.Errorf("unknown benchmark variant %q", c.Benchmark)
	}
	return nil
}

// ApplyDefaults fills optional fields with their defaults.
func (c *BacktestConfig) ApplyDefaults() {
	if c.LookbackDays <= 0 {
		c.LookbackDays = DefaultLookbackDays
	}
	if c.StrategyTimeout <= 0 {
		c.StrategyTimeout = DefaultStrategyTimeout
	}
	if c.Benchmark == "" {
		c.Benchmark = BenchmarkBuyAndHold
	}
}

// validateTicker accepts 1-10 character upper-case symbols with optional
// dots or dashes (class shares, e.g. BRK.B).
func validateTicker(ticker string) error {
	if ticker == "" || len(ticker) > 10 {
		return fmt.Errorf("%w: %q", ErrMalformedTicker, ticker)
	}
	for _, r := range ticker {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) && !strings.ContainsRune(".-", r) {
			return fmt.Errorf("%w: %q", ErrMalformedTicker, ticker)
		}
	}
	return nil
}
