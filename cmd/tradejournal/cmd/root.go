package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds what every command needs once flags are parsed. The logger
// travels in the command context.
type App struct {
	Config *config.Config

	cfgFile string
	envFile string
}

// flagKeys maps command flags onto config keys for the viper overlay.
var flagKeys = map[string]string{
	"db":        "journal.db_path",
	"log-level": "log.level",
	"log-file":  "log.file",
	"window":    "analytics.rolling_window",
	"balance":   "analytics.initial_balance",
	"runs":      "analytics.monte_carlo_runs",
	"ruin":      "analytics.ruin_threshold_r",
	"seed":      "analytics.seed",
	"workers":   "analytics.workers",
	"gap":       "analytics.overtrading_gap",
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "tradejournal",
		Short: "Trade journal analytics and risk simulation",
		Long: `tradejournal turns a journal of closed trades into performance, behavioral
and risk analytics.

It provides tools for:
  - Importing trades from CSV into a SQLite journal
  - R-multiple statistics, drawdowns and rolling metrics
  - Emotion, setup, session and checklist breakdowns
  - Behavioral warnings and a discipline score
  - Monte Carlo risk-of-ruin simulation

Configuration comes from --config (YAML or JSON), then TJ_* environment
variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&app.cfgFile, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVar(&app.envFile, "env-file", ".env", "dotenv file with TJ_* overrides")
	pf.StringP("db", "d", "", "path to SQLite journal DB")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also log to this file, rotated")

	rootCmd.AddCommand(
		newImportCmd(app),
		newAnalyzeCmd(app),
		newMonteCarloCmd(app),
		newJournalCmd(app),
		newConfigCmd(app),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *App) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg := config.Default()
	if a.cfgFile != "" {
		loaded, err := config.LoadFromFile(a.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	v := config.NewViper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
	if err := config.Overlay(cfg, v); err != nil {
		return err
	}

	a.Config = cfg
	logger := logging.NewLogger(cfg.Log)
	cmd.SetContext(logging.WithContext(cmd.Context(), logger))
	logger.Debug().
		Str("command", cmd.Name()).
		Str("journal", cfg.Journal.Type).
		Msg("configuration loaded")
	return nil
}
