package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/provider"
	"agent-backtest-lab/internal/strategy"
)

func testConfig() domain.BacktestConfig {
	return domain.BacktestConfig{
		Ticker:         "AAPL",
		StartDate:      time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),  // Monday
		EndDate:        time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC), // Friday
		InitialCapital: 100000,
		CommissionRate: 0.001,
		SlippageRate:   0.001,
		AnalystFrequencies: map[string]domain.FrequencyPolicy{
			domain.AnalystTechnical: domain.FrequencyDaily,
			domain.AnalystSentiment: domain.FrequencyDaily,
			domain.AnalystValuation: domain.FrequencyDaily,
		},
		Benchmark: domain.BenchmarkBuyAndHold,
	}
}

// tradingDaysBetween counts weekdays in [start, end].
func tradingDaysBetween(start, end time.Time) int {
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

func TestRunner_ProducesPointPerTradingDay(t *testing.T) {
	cfg := testConfig()
	r, err := NewRunner(cfg, &strategy.Stub{Output: `{"action":"hold","quantity":0}`}, provider.NewStub(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := tradingDaysBetween(cfg.StartDate, cfg.EndDate)
	if len(res.Values) != want {
		t.Errorf("value points = %d, want %d", len(res.Values), want)
	}
	if len(res.Returns) != want {
		t.Errorf("returns = %d, want %d", len(res.Returns), want)
	}
	if len(res.BenchmarkReturns) != want {
		t.Errorf("benchmark returns = %d, want %d", len(res.BenchmarkReturns), want)
	}
	if res.Run.TradingDays != want {
		t.Errorf("trading days = %d, want %d", res.Run.TradingDays, want)
	}
	if res.Run.RunID == "" {
		t.Error("run id not assigned")
	}

	for i, v := range res.Values {
		if wd := v.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("values[%d] falls on a weekend: %v", i, v.Date)
		}
	}
}

func TestRunner_FailingStrategyStillCompletes(t *testing.T) {
	// Every full-mode invocation fails. The run must still produce a
	// complete value series, with degraded days holding.
	cfg := testConfig()
	cfg.AnalystFrequencies = map[string]domain.FrequencyPolicy{
		domain.AnalystTechnical:    domain.FrequencyDaily,
		domain.AnalystSentiment:    domain.FrequencyDaily,
		domain.AnalystValuation:    domain.FrequencyDaily,
		domain.AnalystFundamentals: domain.FrequencyDaily,
		domain.AnalystMacro:        domain.FrequencyDaily,
	}

	r, err := NewRunner(cfg, &strategy.Stub{Err: errors.New("model unavailable")}, provider.NewStub(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := tradingDaysBetween(cfg.StartDate, cfg.EndDate)
	if len(res.Values) != want {
		t.Errorf("value points = %d, want %d", len(res.Values), want)
	}
	if res.Run.DegradedHolds == 0 {
		t.Error("expected degraded holds with an always-failing strategy")
	}
	if len(res.Trades) != 0 {
		t.Errorf("expected no trades, got %d", len(res.Trades))
	}
	if res.Run.FinalValue != cfg.InitialCapital {
		t.Errorf("final value = %f, want untouched capital %f", res.Run.FinalValue, cfg.InitialCapital)
	}
}

func TestRunner_SimplifiedModeTrades(t *testing.T) {
	// Three or fewer due analysts route through the local procedure,
	// which never touches the strategy.
	stub := &strategy.Stub{Err: errors.New("must not be called")}

	r, err := NewRunner(testConfig(), stub, provider.NewStub(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if stub.Calls() != 0 {
		t.Errorf("strategy invoked %d times, want 0 with a small analyst set", stub.Calls())
	}
	if res.Run.SimplifiedCalls == 0 {
		t.Error("expected simplified-mode decisions")
	}
	if res.Run.FullInvocations != 0 {
		t.Errorf("full invocations = %d, want 0", res.Run.FullInvocations)
	}
}

func TestRunner_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(testConfig(), &strategy.Stub{Output: `{"action":"hold","quantity":0}`}, provider.NewStub(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	_, err = r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewRunner_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.InitialCapital = -5

	_, err := NewRunner(cfg, &strategy.Stub{}, provider.NewStub(), zerolog.Nop())
	if !errors.Is(err, domain.ErrNonPositiveCapital) {
		t.Errorf("expected ErrNonPositiveCapital, got %v", err)
	}
}

func TestRunner_MonthlyAnalystReducesWork(t *testing.T) {
	// A lone monthly analyst is due only on the 1st; every other day
	// replays the cached decision.
	cfg := testConfig()
	cfg.StartDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) // Friday the 1st
	cfg.EndDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	cfg.AnalystFrequencies = map[string]domain.FrequencyPolicy{
		domain.AnalystValuation: domain.FrequencyMonthly,
	}

	r, err := NewRunner(cfg, &strategy.Stub{Output: `{"action":"hold","quantity":0}`}, provider.NewStub(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Run.SimplifiedCalls != 1 {
		t.Errorf("simplified calls = %d, want 1 (the 1st only)", res.Run.SimplifiedCalls)
	}
	if res.Run.CachedDecisions != res.Run.TradingDays-1 {
		t.Errorf("cached decisions = %d, want %d", res.Run.CachedDecisions, res.Run.TradingDays-1)
	}
}
