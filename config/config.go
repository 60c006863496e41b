package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/logging"
	"gopkg.in/yaml.v3"
)

// Config is the complete tradejournal configuration
type Config struct {
	Journal   JournalConfig         `json:"journal" yaml:"journal"`
	Analytics AnalyticsConfig       `json:"analytics" yaml:"analytics"`
	Filters   *analytics.FilterSpec `json:"filters,omitempty" yaml:"filters,omitempty"`
	Log       logging.Config        `json:"log" yaml:"log"`
}

// JournalConfig says where trades live
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// AnalyticsConfig tunes the analytics engine
type AnalyticsConfig struct {
	RollingWindow  int      `json:"rolling_window" yaml:"rolling_window"`
	InitialBalance float64  `json:"initial_balance" yaml:"initial_balance"`
	MonteCarloRuns int      `json:"monte_carlo_runs" yaml:"monte_carlo_runs"`
	RuinThresholdR *float64 `json:"ruin_threshold_r,omitempty" yaml:"ruin_threshold_r,omitempty"`
	Seed           *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Workers        int      `json:"workers" yaml:"workers"`
	OvertradingGap string   `json:"overtrading_gap,omitempty" yaml:"overtrading_gap,omitempty"` // e.g. "30m"
}

// ParseGap converts the overtrading gap string to a time.Duration
func (a AnalyticsConfig) ParseGap() (time.Duration, error) {
	if a.OvertradingGap == "" {
		return 0, nil
	}
	return time.ParseDuration(a.OvertradingGap)
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths and JSON
// otherwise
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	case "csv":
		if c.Journal.TradesFile == "" {
			return fmt.Errorf("journal.trades_file required for CSV type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}

	a := c.Analytics
	if a.InitialBalance < 0 {
		return fmt.Errorf("analytics.initial_balance must not be negative")
	}
	if a.MonteCarloRuns < 0 {
		return fmt.Errorf("analytics.monte_carlo_runs must not be negative")
	}
	if a.Workers < 0 {
		return fmt.Errorf("analytics.workers must not be negative")
	}
	if a.RuinThresholdR != nil && *a.RuinThresholdR >= 0 {
		return fmt.Errorf("analytics.ruin_threshold_r must be negative")
	}
	gap, err := a.ParseGap()
	if err != nil {
		return fmt.Errorf("analytics.overtrading_gap: %w", err)
	}
	if gap < 0 {
		return fmt.Errorf("analytics.overtrading_gap must not be negative")
	}

	if f := c.Filters; f != nil {
		if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
			return fmt.Errorf("filters.to is before filters.from")
		}
		switch f.Outcome {
		case analytics.OutcomeAny, analytics.OutcomeWin, analytics.OutcomeLoss, analytics.OutcomeBreakeven:
		default:
			return fmt.Errorf("filters.outcome must be win, loss or breakeven, got %q", f.Outcome)
		}
	}
	return nil
}

// AnalyticsOptions turns the configuration into engine options. A configured
// seed yields a deterministic Monte Carlo source.
func (c *Config) AnalyticsOptions() (analytics.Options, error) {
	gap, err := c.Analytics.ParseGap()
	if err != nil {
		return analytics.Options{}, fmt.Errorf("analytics.overtrading_gap: %w", err)
	}

	opts := analytics.Options{
		Filters:        c.Filters,
		RollingWindow:  c.Analytics.RollingWindow,
		InitialBalance: c.Analytics.InitialBalance,
		MonteCarloRuns: c.Analytics.MonteCarloRuns,
		RuinThresholdR: c.Analytics.RuinThresholdR,
		Workers:        c.Analytics.Workers,
		OvertradingGap: gap,
	}
	if c.Analytics.Seed != nil {
		opts.Rand = rand.New(rand.NewSource(*c.Analytics.Seed))
	}
	return opts, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	ruin := analytics.DefaultRuinThresholdR
	return &Config{
		Journal: JournalConfig{
			Type:       "sqlite",
			DBPath:     "./tradejournal.db",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
		Analytics: AnalyticsConfig{
			RollingWindow:  analytics.DefaultRollingWindow,
			InitialBalance: analytics.DefaultInitialBalance,
			MonteCarloRuns: analytics.DefaultMonteCarloRuns,
			RuinThresholdR: &ruin,
			Workers:        4,
			OvertradingGap: analytics.DefaultOvertradingGap.String(),
		},
		Log: logging.Default(),
	}
}
