// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Run metrics
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	DaysSimulated prometheus.Counter

	// Decision metrics
	DecisionsTotal      *prometheus.CounterVec
	StrategyInvocations *prometheus.CounterVec
	StrategyFailures    *prometheus.CounterVec
	StrategyLatency     prometheus.Histogram

	// Cache metrics
	ResultCacheLookups *prometheus.CounterVec
	PriceCacheLookups  *prometheus.CounterVec

	// Provider metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec

	// Execution metrics
	TradesExecuted *prometheus.CounterVec
	OrdersClamped  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "backtest_lab"
	}

	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "runs_total",
			Help:      "Total number of backtest runs by outcome",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of one backtest run",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		DaysSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "runner",
			Name:      "days_simulated_total",
			Help:      "Total number of trading days simulated",
		}),

		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "decisions_total",
			Help:      "Total decisions produced by execution mode",
		}, []string{"mode"}),
		StrategyInvocations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "strategy_invocations_total",
			Help:      "Total full-mode strategy invocations by outcome",
		}, []string{"status"}),
		StrategyFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "strategy_failures_total",
			Help:      "Total strategy failures by reason",
		}, []string{"reason"}),
		StrategyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "strategy_latency_seconds",
			Help:      "Latency of one full-mode strategy invocation",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),

		ResultCacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "result_lookups_total",
			Help:      "Decision result cache lookups by outcome",
		}, []string{"outcome"}),
		PriceCacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "price_lookups_total",
			Help:      "Price window cache lookups by outcome",
		}, []string{"outcome"}),

		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Price history provider requests by source and outcome",
		}, []string{"source", "status"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_latency_seconds",
			Help:      "Latency of provider requests by source",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"source"}),

		TradesExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "trades_total",
			Help:      "Total executed trades by action",
		}, []string{"action"}),
		OrdersClamped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "orders_clamped_total",
			Help:      "Total orders reduced below their requested quantity",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_duration_seconds",
			Help:      "Database query duration by database and operation",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_errors_total",
			Help:      "Database query errors by database and operation",
		}, []string{"database", "operation"}),
	}
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordDecision increments the decision counter for an execution mode.
func RecordDecision(mode string) {
	DefaultMetrics.DecisionsTotal.WithLabelValues(mode).Inc()
}

// RecordStrategyInvocation records one full-mode invocation outcome.
func RecordStrategyInvocation(status string, seconds float64) {
	DefaultMetrics.StrategyInvocations.WithLabelValues(status).Inc()
	DefaultMetrics.StrategyLatency.Observe(seconds)
}

// RecordStrategyFailure records a strategy failure by reason.
func RecordStrategyFailure(reason string) {
	DefaultMetrics.StrategyFailures.WithLabelValues(reason).Inc()
}

// RecordTrade increments the executed trade counter.
func RecordTrade(action string) {
	DefaultMetrics.TradesExecuted.WithLabelValues(action).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
