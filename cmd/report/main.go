// Command report renders a stored backtest run as Markdown or CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"agent-backtest-lab/internal/config"
	"agent-backtest-lab/internal/reporting"
	pgstore "agent-backtest-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	runID := flag.String("run-id", "", "Run ID to report on (required)")
	format := flag.String("format", "markdown", "Output format: markdown or csv")
	output := flag.String("output", "", "Output path (stdout when empty)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("component", "report").Logger()

	if *runID == "" {
		log.Fatal().Msg("--run-id is required")
	}
	if *format != "markdown" && *format != "csv" {
		log.Fatal().Str("format", *format).Msg("format must be markdown or csv")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
	}
	if cfg.Storage.PostgresDSN == "" {
		log.Fatal().Msg("storage.postgres_dsn is required")
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()

	generator := reporting.NewGenerator(pgstore.NewRunStore(pool), pgstore.NewRunTradeStore(pool))

	report, err := generator.Generate(ctx, *runID)
	if err != nil {
		log.Fatal().Err(err).Str("run_id", *runID).Msg("generate report")
	}

	var rendered string
	switch *format {
	case "markdown":
		rendered = reporting.RenderMarkdown(report)
	case "csv":
		rendered = reporting.RenderCSV(report.Trades)
	}

	if *output == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *output).Msg("write output")
	}
	log.Info().Str("path", *output).Msg("report written")
}
