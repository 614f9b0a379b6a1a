// Package config loads the application's YAML configuration and applies
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"agent-backtest-lab/internal/domain"
)

// Config is the top-level configuration for the backtest lab.
type Config struct {
	Backtest BacktestSection   `yaml:"backtest"`
	Analysts map[string]string `yaml:"analysts"`
	Storage  Storage           `yaml:"storage"`
	Redis    Redis             `yaml:"redis"`
	Alpaca   Alpaca            `yaml:"alpaca"`
	Logging  Logging           `yaml:"logging"`
	Metrics  MetricsSection    `yaml:"metrics"`
}

// BacktestSection holds the run parameters.
type BacktestSection struct {
	Ticker          string  `yaml:"ticker"`
	StartDate       string  `yaml:"start_date"` // 2006-01-02
	EndDate         string  `yaml:"end_date"`
	InitialCapital  float64 `yaml:"initial_capital"`
	CommissionRate  float64 `yaml:"commission_rate"`
	SlippageRate    float64 `yaml:"slippage_rate"`
	LookbackDays    int     `yaml:"lookback_days"`
	StrategyTimeout string  `yaml:"strategy_timeout"` // Go duration, e.g. 60s
	Benchmark       string  `yaml:"benchmark"`
}

// Storage holds database connection strings.
type Storage struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Redis configures the shared price window cache. Empty Addr disables it.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"` // Go duration, e.g. 24h
}

// Alpaca holds credentials for the Alpaca market data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsSection configures the Prometheus endpoint. Empty Addr disables it.
type MetricsSection struct {
	Addr string `yaml:"addr"`
}

// Load reads the YAML configuration file at the given path, parses it,
// and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and
// overrides the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars (canonical names used by the SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

// BacktestConfig converts the YAML section into the domain config,
// parsing dates and the timeout. Validation is the domain's job.
func (c *Config) BacktestConfig() (domain.BacktestConfig, error) {
	var out domain.BacktestConfig

	start, err := time.Parse("2006-01-02", c.Backtest.StartDate)
	if err != nil {
		return out, fmt.Errorf("parse start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Backtest.EndDate)
	if err != nil {
		return out, fmt.Errorf("parse end_date: %w", err)
	}

	var timeout time.Duration
	if c.Backtest.StrategyTimeout != "" {
		timeout, err = time.ParseDuration(c.Backtest.StrategyTimeout)
		if err != nil {
			return out, fmt.Errorf("parse strategy_timeout: %w", err)
		}
	}

	frequencies := make(map[string]domain.FrequencyPolicy, len(c.Analysts))
	for name, policy := range c.Analysts {
		frequencies[name] = domain.FrequencyPolicy(policy)
	}

	out = domain.BacktestConfig{
		Ticker:             c.Backtest.Ticker,
		StartDate:          start,
		EndDate:            end,
		InitialCapital:     c.Backtest.InitialCapital,
		CommissionRate:     c.Backtest.CommissionRate,
		SlippageRate:       c.Backtest.SlippageRate,
		AnalystFrequencies: frequencies,
		Benchmark:          domain.BenchmarkVariant(c.Backtest.Benchmark),
		LookbackDays:       c.Backtest.LookbackDays,
		StrategyTimeout:    timeout,
	}
	return out, nil
}

// RedisTTL parses the configured cache TTL, zero when unset.
func (c *Config) RedisTTL() (time.Duration, error) {
	if c.Redis.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Redis.TTL)
}
