// Command fetch downloads daily bars for a set of tickers and stores
// them in ClickHouse so later runs can read market data locally.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/config"
	"agent-backtest-lab/internal/provider"
	chstore "agent-backtest-lab/internal/storage/clickhouse"
	"agent-backtest-lab/internal/storage/migrations"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	tickers := flag.String("tickers", "", "Comma-separated tickers to fetch (required)")
	startStr := flag.String("start", "", "Start date, 2006-01-02 (required)")
	endStr := flag.String("end", "", "End date, 2006-01-02 (required)")
	useStub := flag.Bool("use-stub", false, "Fetch from the synthetic provider instead of Alpaca")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "fetch").Logger()

	if *tickers == "" || *startStr == "" || *endStr == "" {
		log.Fatal().Msg("--tickers, --start, and --end are required")
	}

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatal().Err(err).Msg("parse --start")
	}
	end, err := time.Parse("2006-01-02", *endStr)
	if err != nil {
		log.Fatal().Err(err).Msg("parse --end")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
	}
	if cfg.Storage.ClickhouseDSN == "" {
		log.Fatal().Msg("storage.clickhouse_dsn is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var source provider.PriceHistoryProvider
	if *useStub {
		source = provider.NewStub()
	} else {
		if cfg.Alpaca.APIKey == "" {
			log.Fatal().Msg("alpaca credentials required without --use-stub")
		}
		source = provider.NewAlpaca(provider.AlpacaOptions{
			APIKey:    cfg.Alpaca.APIKey,
			APISecret: cfg.Alpaca.APISecret,
			BaseURL:   cfg.Alpaca.BaseURL,
		})
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to clickhouse")
	}
	defer conn.Close()

	store := chstore.NewBarStore(conn)

	for _, ticker := range strings.Split(*tickers, ",") {
		ticker = strings.TrimSpace(strings.ToUpper(ticker))
		if ticker == "" {
			continue
		}

		bars, err := source.Bars(ctx, ticker, start, end)
		if err != nil {
			log.Error().Err(err).Str("ticker", ticker).Msg("fetch failed, skipping")
			continue
		}
		if err := store.InsertBulk(ctx, ticker, bars); err != nil {
			log.Fatal().Err(err).Str("ticker", ticker).Msg("store bars")
		}
		log.Info().Str("ticker", ticker).Int("bars", len(bars)).Msg("stored")
	}
}
