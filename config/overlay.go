package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TJ_JOURNAL_DB_PATH.
const EnvPrefix = "TJ"

// NewViper returns a viper instance that reads TJ_* environment variables
// using the dotted config keys (journal.db_path -> TJ_JOURNAL_DB_PATH).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		// Bound keys also show up in AllKeys.
		_ = v.BindEnv(k)
	}
	return v
}

var keys = []string{
	"journal.type",
	"journal.db_path",
	"journal.trades_file",
	"journal.equity_file",
	"analytics.rolling_window",
	"analytics.initial_balance",
	"analytics.monte_carlo_runs",
	"analytics.ruin_threshold_r",
	"analytics.seed",
	"analytics.workers",
	"analytics.overtrading_gap",
	"log.level",
	"log.file",
}

// Overlay copies every key set in v (environment or bound flag) over cfg and
// revalidates.
func Overlay(cfg *Config, v *viper.Viper) error {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	str("journal.type", &cfg.Journal.Type)
	str("journal.db_path", &cfg.Journal.DBPath)
	str("journal.trades_file", &cfg.Journal.TradesFile)
	str("journal.equity_file", &cfg.Journal.EquityFile)

	num("analytics.rolling_window", &cfg.Analytics.RollingWindow)
	num("analytics.monte_carlo_runs", &cfg.Analytics.MonteCarloRuns)
	num("analytics.workers", &cfg.Analytics.Workers)
	str("analytics.overtrading_gap", &cfg.Analytics.OvertradingGap)
	if v.IsSet("analytics.initial_balance") {
		cfg.Analytics.InitialBalance = v.GetFloat64("analytics.initial_balance")
	}
	if v.IsSet("analytics.ruin_threshold_r") {
		r := v.GetFloat64("analytics.ruin_threshold_r")
		cfg.Analytics.RuinThresholdR = &r
	}
	if v.IsSet("analytics.seed") {
		s := v.GetInt64("analytics.seed")
		cfg.Analytics.Seed = &s
	}

	str("log.level", &cfg.Log.Level)
	str("log.file", &cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config after overrides: %w", err)
	}
	return nil
}
