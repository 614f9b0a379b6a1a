package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/backtest"
	"agent-backtest-lab/internal/cache"
	"agent-backtest-lab/internal/config"
	"agent-backtest-lab/internal/observability"
	"agent-backtest-lab/internal/provider"
	"agent-backtest-lab/internal/reporting"
	"agent-backtest-lab/internal/storage"
	chstore "agent-backtest-lab/internal/storage/clickhouse"
	"agent-backtest-lab/internal/storage/migrations"
	pgstore "agent-backtest-lab/internal/storage/postgres"
	"agent-backtest-lab/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage and the synthetic data provider")
	persist := flag.Bool("persist", false, "Persist the run summary, trades, and value trajectory")
	markdownOut := flag.String("markdown", "", "Write a Markdown report to this path")
	csvOut := flag.String("csv", "", "Write the trade log CSV to this path")
	flag.Parse()

	log := newLogger("backtest")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
	}
	applyLogLevel(cfg.Logging.Level)

	runCfg, err := cfg.BacktestConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backtest configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, log)
	}

	// Price data: live sources behind a cache, or fully synthetic.
	priceProvider := buildProvider(ctx, cfg, *useMemory, log)

	// The opaque strategy reads prices through the same cached provider.
	strat := strategy.NewSMACross(priceProvider.Bars, 5, 20, 100)

	runner, err := backtest.NewRunner(runCfg, strat, priceProvider, log)
	if err != nil {
		log.Fatal().Err(err).Msg("construct runner")
	}

	res, err := runner.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("backtest failed")
	}

	if *persist && !*useMemory {
		persistResult(ctx, cfg, res, log)
	}

	report := reporting.FromRun(res.Run, res.Trades)

	if *markdownOut != "" {
		if err := os.WriteFile(*markdownOut, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			log.Fatal().Err(err).Msg("write markdown report")
		}
		log.Info().Str("path", *markdownOut).Msg("markdown report written")
	}
	if *csvOut != "" {
		if err := os.WriteFile(*csvOut, []byte(reporting.RenderCSV(report.Trades)), 0o644); err != nil {
			log.Fatal().Err(err).Msg("write csv trade log")
		}
		log.Info().Str("path", *csvOut).Msg("csv trade log written")
	}

	printSummary(res)
}

// buildProvider wires the provider chain: Alpaca (when credentials are
// configured) in front of the deterministic synthetic source, behind a
// Redis or in-process cache.
func buildProvider(ctx context.Context, cfg *config.Config, useMemory bool, log zerolog.Logger) provider.PriceHistoryProvider {
	if useMemory {
		return provider.NewCached(provider.NewStub(), cache.NewMemoryPriceCache())
	}

	var sources []*provider.Source
	if cfg.Alpaca.APIKey != "" {
		alpaca := provider.NewAlpaca(provider.AlpacaOptions{
			APIKey:    cfg.Alpaca.APIKey,
			APISecret: cfg.Alpaca.APISecret,
			BaseURL:   cfg.Alpaca.BaseURL,
		})
		sources = append(sources, provider.NewSource("alpaca", alpaca, 3, 5))
	}
	sources = append(sources, provider.NewSource("synthetic", provider.NewStub(), 0, 0))

	var priceCache cache.MarketDataCache = cache.NewMemoryPriceCache()
	if cfg.Redis.Addr != "" {
		ttl, err := cfg.RedisTTL()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis ttl")
		}
		rc, err := cache.NewRedisPriceCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      ttl,
			Logger:   log,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-process price cache")
		} else {
			priceCache = rc
		}
	}

	return provider.NewCached(provider.NewFallback(log, sources...), priceCache)
}

// persistResult stores the run summary and trade log in PostgreSQL and
// the value trajectory in ClickHouse. Either database may be disabled by
// leaving its DSN empty.
func persistResult(ctx context.Context, cfg *config.Config, res *backtest.Result, log zerolog.Logger) {
	if cfg.Storage.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to postgres")
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("apply postgres migrations")
		}

		var runStore storage.RunStore = pgstore.NewRunStore(pool)
		var tradeStore storage.RunTradeStore = pgstore.NewRunTradeStore(pool)

		if err := runStore.Insert(ctx, res.Run); err != nil {
			log.Fatal().Err(err).Msg("persist run summary")
		}
		if err := tradeStore.InsertBulk(ctx, res.Run.RunID, res.Trades); err != nil {
			log.Fatal().Err(err).Msg("persist trade log")
		}
		log.Info().Str("run_id", res.Run.RunID).Msg("run persisted to postgres")
	}

	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to clickhouse")
		}
		defer conn.Close()

		vpStore := chstore.NewValuePointStore(conn)
		if err := vpStore.InsertBulk(ctx, res.Run.RunID, res.Values); err != nil {
			log.Fatal().Err(err).Msg("persist value trajectory")
		}
		log.Info().Str("run_id", res.Run.RunID).Msg("value trajectory persisted to clickhouse")
	}
}

func serveMetrics(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics endpoint stopped")
	}
}

func printSummary(res *backtest.Result) {
	run := res.Run
	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Run ID:             %s\n", run.RunID)
	fmt.Printf("Ticker:             %s\n", run.Ticker)
	fmt.Printf("Period:             %s to %s\n",
		run.StartDate.Format("2006-01-02"), run.EndDate.Format("2006-01-02"))
	fmt.Printf("Final Value:        %.2f\n", run.FinalValue)
	fmt.Printf("Total Return:       %.2f%%\n", run.Performance.TotalReturn*100)
	fmt.Printf("Annualized Return:  %.2f%%\n", run.Performance.AnnualizedReturn*100)
	fmt.Printf("Sharpe Ratio:       %.4f\n", run.Performance.SharpeRatio)
	fmt.Printf("Max Drawdown:       %.2f%%\n", run.Performance.MaxDrawdown*100)
	fmt.Printf("VaR (95%%):          %.4f\n", run.Risk.ValueAtRisk95)
	fmt.Println()
	fmt.Printf("Trading Days:       %d (%d missing data)\n", run.TradingDays, run.MissingDataDays)
	fmt.Printf("Trades:             %d\n", len(res.Trades))
	fmt.Printf("Decisions:          %d full, %d simplified, %d cached, %d degraded\n",
		run.FullInvocations, run.SimplifiedCalls, run.CachedDecisions, run.DegradedHolds)
	fmt.Printf("Cache Hit Rate:     %.2f%%\n", run.CacheHitRate*100)
}

func newLogger(component string) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", component).Logger()
}

func applyLogLevel(level string) {
	if level == "" {
		return
	}
	if parsed, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(parsed)
	}
}
