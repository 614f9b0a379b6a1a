package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Backtest Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))

	// Configuration
	sb.WriteString("## Configuration\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Ticker | %s |\n", r.Config.Ticker))
	sb.WriteString(fmt.Sprintf("| Period | %s to %s |\n",
		r.Config.StartDate.Format("2006-01-02"), r.Config.EndDate.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("| Initial Capital | %.2f |\n", r.Config.InitialCapital))
	sb.WriteString(fmt.Sprintf("| Commission Rate | %.4f |\n", r.Config.CommissionRate))
	sb.WriteString(fmt.Sprintf("| Slippage Rate | %.4f |\n", r.Config.SlippageRate))
	sb.WriteString(fmt.Sprintf("| Strategy | %s |\n", r.Config.StrategyName))
	sb.WriteString(fmt.Sprintf("| Benchmark | %s |\n", r.Config.Benchmark))
	sb.WriteString("\n")

	// Outcome
	sb.WriteString("## Outcome\n\n")
	sb.WriteString(fmt.Sprintf("Final value **%.2f** over %d trading days (total return %.4f).\n\n",
		r.Outcome.FinalValue, r.Outcome.TradingDays, r.Outcome.TotalReturn))

	// Performance
	sb.WriteString("## Performance\n\n")
	writeMetricTable(&sb, r.Performance)

	// Risk
	sb.WriteString("## Risk\n\n")
	writeMetricTable(&sb, r.Risk)

	// Benchmark comparison
	sb.WriteString("## Benchmark Comparison\n\n")
	sb.WriteString(fmt.Sprintf("Variant: %s\n\n", r.Benchmark.Variant))
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Beta | %.4f |\n", r.Benchmark.Beta))
	sb.WriteString(fmt.Sprintf("| Alpha | %.4f |\n", r.Benchmark.Alpha))
	sb.WriteString(fmt.Sprintf("| Tracking Error | %.4f |\n", r.Benchmark.TrackingError))
	sb.WriteString(fmt.Sprintf("| Information Ratio | %.4f |\n", r.Benchmark.InformationRatio))
	sb.WriteString("\n")

	// Execution statistics
	sb.WriteString("## Execution\n\n")
	sb.WriteString("| Statistic | Count |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Trading Days | %d |\n", r.Execution.TradingDays))
	sb.WriteString(fmt.Sprintf("| Missing Data Days | %d |\n", r.Execution.MissingDataDays))
	sb.WriteString(fmt.Sprintf("| Full Invocations | %d |\n", r.Execution.FullInvocations))
	sb.WriteString(fmt.Sprintf("| Simplified Decisions | %d |\n", r.Execution.SimplifiedCalls))
	sb.WriteString(fmt.Sprintf("| Cached Decisions | %d |\n", r.Execution.CachedDecisions))
	sb.WriteString(fmt.Sprintf("| Degraded Holds | %d |\n", r.Execution.DegradedHolds))
	sb.WriteString(fmt.Sprintf("| Cache Hit Rate | %.4f |\n", r.Execution.CacheHitRate))
	sb.WriteString("\n")

	// Trade log
	sb.WriteString("## Trades\n\n")
	if len(r.Trades) > 0 {
		sb.WriteString("| Date | Action | Requested | Executed | Price | Commission | Slippage |\n")
		sb.WriteString("|------|--------|-----------|----------|-------|------------|----------|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %.4f | %.4f | %.4f |\n",
				t.Date.Format("2006-01-02"), t.Action,
				t.RequestedQuantity, t.ExecutedQuantity,
				t.ExecutionPrice, t.Commission, t.Slippage))
		}
	} else {
		sb.WriteString("No trades executed.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func writeMetricTable(sb *strings.Builder, rows []MetricRow) {
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", row.Name, row.Value))
	}
	sb.WriteString("\n")
}
