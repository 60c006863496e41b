package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, analytics.DefaultRollingWindow, cfg.Analytics.RollingWindow)
	assert.Equal(t, -20.0, *cfg.Analytics.RuinThresholdR)
	assert.Equal(t, "30m0s", cfg.Analytics.OvertradingGap)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown journal type",
			mutate:  func(c *Config) { c.Journal.Type = "postgres" },
			wantErr: true,
			errMsg:  "journal.type must be 'csv' or 'sqlite'",
		},
		{
			name:    "sqlite without db",
			mutate:  func(c *Config) { c.Journal.DBPath = "" },
			wantErr: true,
			errMsg:  "journal.db_path required",
		},
		{
			name:    "csv without trades file",
			mutate:  func(c *Config) { c.Journal.Type, c.Journal.TradesFile = "csv", "" },
			wantErr: true,
			errMsg:  "journal.trades_file required",
		},
		{
			name:    "negative runs",
			mutate:  func(c *Config) { c.Analytics.MonteCarloRuns = -1 },
			wantErr: true,
			errMsg:  "analytics.monte_carlo_runs",
		},
		{
			name: "positive ruin threshold",
			mutate: func(c *Config) {
				r := 5.0
				c.Analytics.RuinThresholdR = &r
			},
			wantErr: true,
			errMsg:  "analytics.ruin_threshold_r must be negative",
		},
		{
			name:    "bad gap",
			mutate:  func(c *Config) { c.Analytics.OvertradingGap = "soon" },
			wantErr: true,
			errMsg:  "analytics.overtrading_gap",
		},
		{
			name: "inverted date filter",
			mutate: func(c *Config) {
				now := time.Now()
				c.Filters = &analytics.FilterSpec{From: now, To: now.Add(-time.Hour)}
			},
			wantErr: true,
			errMsg:  "filters.to is before filters.from",
		},
		{
			name:    "unknown outcome",
			mutate:  func(c *Config) { c.Filters = &analytics.FilterSpec{Outcome: "draw"} },
			wantErr: true,
			errMsg:  "filters.outcome",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			seed := int64(42)
			cfg.Analytics.Seed = &seed
			cfg.Filters = &analytics.FilterSpec{
				Setups:  []string{"breakout"},
				R:       analytics.Between(-1, 3),
				Outcome: analytics.OutcomeWin,
			}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Journal, loaded.Journal)
			assert.Equal(t, cfg.Analytics, loaded.Analytics)
			assert.Equal(t, cfg.Filters.Setups, loaded.Filters.Setups)
			assert.Equal(t, *cfg.Filters.R.Max, *loaded.Filters.R.Max)
			assert.Equal(t, analytics.OutcomeWin, loaded.Filters.Outcome)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analytics:\n  rolling_window: 5\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analytics.RollingWindow)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, analytics.DefaultMonteCarloRuns, cfg.Analytics.MonteCarloRuns)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestParseGap(t *testing.T) {
	tests := []struct {
		gap      string
		expected string
		wantErr  bool
	}{
		{"1h", "1h0m0s", false},
		{"30m", "30m0s", false},
		{"", "0s", false},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.gap, func(t *testing.T) {
			d, err := AnalyticsConfig{OvertradingGap: tt.gap}.ParseGap()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}

func TestAnalyticsOptions(t *testing.T) {
	cfg := Default()
	seed := int64(7)
	cfg.Analytics.Seed = &seed
	cfg.Analytics.OvertradingGap = "45m"

	opts, err := cfg.AnalyticsOptions()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, opts.OvertradingGap)
	assert.Equal(t, -20.0, *opts.RuinThresholdR)
	require.NotNil(t, opts.Rand)

	again, err := cfg.AnalyticsOptions()
	require.NoError(t, err)
	assert.Equal(t, opts.Rand.Int63(), again.Rand.Int63())
}

func TestOverlayEnv(t *testing.T) {
	t.Setenv("TJ_JOURNAL_DB_PATH", "/tmp/other.db")
	t.Setenv("TJ_ANALYTICS_MONTE_CARLO_RUNS", "250")
	t.Setenv("TJ_ANALYTICS_SEED", "99")
	t.Setenv("TJ_LOG_LEVEL", "debug")

	cfg := Default()
	require.NoError(t, Overlay(cfg, NewViper()))
	assert.Equal(t, "/tmp/other.db", cfg.Journal.DBPath)
	assert.Equal(t, 250, cfg.Analytics.MonteCarloRuns)
	assert.Equal(t, int64(99), *cfg.Analytics.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, analytics.DefaultRollingWindow, cfg.Analytics.RollingWindow)
}

func TestOverlayFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("runs", 0, "")
	fs.String("journal-type", "", "")
	require.NoError(t, fs.Parse([]string{"--runs", "10"}))

	v := NewViper()
	require.NoError(t, v.BindPFlag("analytics.monte_carlo_runs", fs.Lookup("runs")))
	require.NoError(t, v.BindPFlag("journal.type", fs.Lookup("journal-type")))

	cfg := Default()
	require.NoError(t, Overlay(cfg, v))
	assert.Equal(t, 10, cfg.Analytics.MonteCarloRuns)
	assert.Equal(t, "sqlite", cfg.Journal.Type, "unchanged flags do not override")
}

func TestOverlayRevalidates(t *testing.T) {
	t.Setenv("TJ_JOURNAL_TYPE", "mongo")
	err := Overlay(Default(), NewViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal.type")
}
