package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logging"
	"github.com/rustyeddy/tradejournal/report"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		src       sourceOpts
		format    string
		equityOut string
		orgOut    string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the analytics engine over the journal",
		Long: `Compute performance, behavioral and risk analytics for the journal.

Examples:
  tradejournal analyze
  tradejournal analyze --csv trades.csv --format json
  tradejournal analyze --setup breakout --from 2024-01-01 --format org
  tradejournal analyze --equity-out equity.csv --runs 5000 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.FromContext(ctx)

			trades, source, err := src.load(ctx, app)
			if err != nil {
				return err
			}

			opts, err := app.Config.AnalyticsOptions()
			if err != nil {
				return err
			}
			spec, err := src.spec(cmd, app.Config.Filters)
			if err != nil {
				return err
			}
			opts.Filters = analytics.ResolvePercentiles(trades, spec)
			opts.Logger = &log

			res := analytics.Run(trades, opts)
			log.Info().
				Str("source", source).
				Int("trades", res.Summary.Trades).
				Float64("discipline", res.Discipline.Score).
				Msg("analysis complete")

			run := report.NewRun(source, res)

			if equityOut != "" {
				if err := writeEquity(equityOut, res.EquityCurve); err != nil {
					return err
				}
			}
			if orgOut != "" {
				run.OrgPath = orgOut
				if err := report.SaveOrg(run); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return report.WriteJSON(out, run)
			case "org":
				return report.WriteOrg(out, run)
			default:
				report.PrintSummary(out, run)
				return nil
			}
		},
	}

	src.addFlags(cmd)
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "text", "output format: text, json or org")
	f.StringVar(&equityOut, "equity-out", "", "write the equity curve to this CSV")
	f.StringVar(&orgOut, "org-out", "", "also save the Org report to this file")
	f.Int("window", 0, "rolling window size in trades")
	f.Float64("balance", 0, "starting balance for the equity curve")
	f.Int("runs", 0, "Monte Carlo runs")
	f.Float64("ruin", 0, "risk-of-ruin threshold in R (negative)")
	f.Int64("seed", 0, "Monte Carlo seed for reproducible output")
	f.Int("workers", 0, "Monte Carlo worker goroutines")
	f.String("gap", "", "overtrading gap after two losses, e.g. 30m")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		switch format {
		case "text", "json", "org":
			return nil
		}
		return fmt.Errorf("--format must be text, json or org")
	}
	return cmd
}

func writeEquity(path string, curve []analytics.EquityPoint) error {
	j, err := journal.NewCSV("", path)
	if err != nil {
		return err
	}
	for _, p := range curve {
		if err := j.RecordEquity(p); err != nil {
			_ = j.Close()
			return err
		}
	}
	return j.Close()
}
