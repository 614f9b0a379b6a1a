package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"agent-backtest-lab/internal/domain"
	"agent-backtest-lab/internal/storage"
	"agent-backtest-lab/internal/storage/memory"
)

var reportClock = func() time.Time {
	return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
}

func storedRun(t *testing.T, runStore storage.RunStore, tradeStore storage.RunTradeStore) *domain.BacktestRun {
	t.Helper()
	ctx := context.Background()

	run := &domain.BacktestRun{
		RunID:          "run-rep-1",
		Ticker:         "AAPL",
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC),
		InitialCapital: 100000,
		CommissionRate: 0.001,
		SlippageRate:   0.001,
		Benchmark:      domain.BenchmarkMarketIndex,
		StrategyName:   "sma-cross",
		FinalValue:     104500,
		Performance: domain.PerformanceMetrics{
			TotalReturn: 0.045,
			SharpeRatio: 1.1,
			TotalTrades: 2,
		},
		Risk: domain.RiskMetrics{
			ValueAtRisk95: -0.02,
			Beta:          0.9,
		},
		TradingDays:     63,
		SimplifiedCalls: 50,
		CreatedAt:       reportClock(),
	}
	if err := runStore.Insert(ctx, run); err != nil {
		t.Fatalf("Insert run: %v", err)
	}

	trades := []domain.Trade{
		{Date: run.StartDate, Action: domain.ActionBuy, RequestedQuantity: 100, ExecutedQuantity: 100, ExecutionPrice: 100.1, Commission: 10.01},
		{Date: run.EndDate, Action: domain.ActionSell, RequestedQuantity: 100, ExecutedQuantity: 100, ExecutionPrice: 104.9, Commission: 10.49},
	}
	if err := tradeStore.InsertBulk(ctx, run.RunID, trades); err != nil {
		t.Fatalf("Insert trades: %v", err)
	}
	return run
}

func TestGenerator_Generate(t *testing.T) {
	runStore := memory.NewRunStore()
	tradeStore := memory.NewRunTradeStore()
	run := storedRun(t, runStore, tradeStore)

	g := NewGenerator(runStore, tradeStore).WithClock(reportClock)

	report, err := g.Generate(context.Background(), run.RunID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.RunID != run.RunID {
		t.Errorf("run id = %s, want %s", report.RunID, run.RunID)
	}
	if !report.GeneratedAt.Equal(reportClock()) {
		t.Errorf("generated at = %v, want injected clock", report.GeneratedAt)
	}
	if report.Config.Ticker != "AAPL" || report.Config.Benchmark != "market_index" {
		t.Errorf("config section wrong: %+v", report.Config)
	}
	if len(report.Trades) != 2 {
		t.Fatalf("trade rows = %d, want 2", len(report.Trades))
	}
	if report.Trades[0].Action != "buy" || report.Trades[1].Action != "sell" {
		t.Errorf("trade order wrong: %+v", report.Trades)
	}
}

func TestGenerator_MissingRun(t *testing.T) {
	g := NewGenerator(memory.NewRunStore(), memory.NewRunTradeStore())

	_, err := g.Generate(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerator_RunWithoutTrades(t *testing.T) {
	runStore := memory.NewRunStore()
	tradeStore := memory.NewRunTradeStore()

	run := &domain.BacktestRun{RunID: "run-no-trades", Ticker: "MSFT", CreatedAt: reportClock()}
	if err := runStore.Insert(context.Background(), run); err != nil {
		t.Fatalf("Insert run: %v", err)
	}

	g := NewGenerator(runStore, tradeStore)
	report, err := g.Generate(context.Background(), "run-no-trades")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(report.Trades) != 0 {
		t.Errorf("expected empty trade table, got %d rows", len(report.Trades))
	}

	md := RenderMarkdown(report)
	if !strings.Contains(md, "No trades executed.") {
		t.Error("markdown should note the empty trade log")
	}
}

func TestRenderMarkdown_Sections(t *testing.T) {
	runStore := memory.NewRunStore()
	tradeStore := memory.NewRunTradeStore()
	run := storedRun(t, runStore, tradeStore)

	g := NewGenerator(runStore, tradeStore).WithClock(reportClock)
	report, err := g.Generate(context.Background(), run.RunID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	md := RenderMarkdown(report)
	for _, section := range []string{
		"# Backtest Report",
		"## Configuration",
		"## Outcome",
		"## Performance",
		"## Risk",
		"## Benchmark Comparison",
		"## Execution",
		"## Trades",
		"| AAPL |",
	} {
		if !strings.Contains(md, section) {
			t.Errorf("markdown missing %q", section)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	rows := []TradeRow{
		{Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), Action: "buy", RequestedQuantity: 100, ExecutedQuantity: 100, ExecutionPrice: 100.1, Commission: 10.01, Slippage: 0.1},
	}

	csv := RenderCSV(rows)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "date,action,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-03-12,buy,100,100,") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}
