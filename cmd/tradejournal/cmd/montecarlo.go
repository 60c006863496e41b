package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/logging"
	"github.com/spf13/cobra"
)

func newMonteCarloCmd(app *App) *cobra.Command {
	var (
		src    sourceOpts
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "montecarlo",
		Aliases: []string{"mc"},
		Short:   "Estimate drawdown spread and risk of ruin by reshuffling trades",
		Long: `Reorder the realized R-multiples many times and report the spread of
drawdowns and the share of paths that end at or below the ruin threshold.

Examples:
  tradejournal montecarlo --runs 10000 --ruin -10
  tradejournal montecarlo --csv trades.csv --seed 42 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, source, err := src.load(cmd.Context(), app)
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

			var rs []float64
			for _, t := range analytics.SortTrades(analytics.ApplyFilters(trades, analytics.ResolvePercentiles(trades, spec))) {
				if r, ok := analytics.OutcomeR(t); ok {
					rs = append(rs, r)
				}
			}

			cfg := analytics.SimulationConfig{
				Runs:           opts.MonteCarloRuns,
				RuinThresholdR: analytics.DefaultRuinThresholdR,
				Rand:           opts.Rand,
				Workers:        opts.Workers,
			}
			if opts.RuinThresholdR != nil {
				cfg.RuinThresholdR = *opts.RuinThresholdR
			}

			s := analytics.Simulate(rs, cfg)
			logger := logging.FromContext(cmd.Context())
			logger.Debug().Str("source", source).Int("r_values", len(rs)).Msg("monte carlo input")

			out := cmd.OutOrStdout()
			if s == nil {
				if asJSON {
					fmt.Fprintln(out, "null")
					return nil
				}
				fmt.Fprintln(out, "No trades with an R-multiple; nothing to simulate.")
				return nil
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			last := s.ConfidenceBand[len(s.ConfidenceBand)-1]
			fmt.Fprintf(out, "Source:        %s\n", source)
			fmt.Fprintf(out, "Trades:        %d\n", s.Trades)
			fmt.Fprintf(out, "Runs:          %d\n", s.Runs)
			fmt.Fprintf(out, "Terminal R:    %+.2fR\n", s.MeanTerminalR)
			fmt.Fprintf(out, "Worst DD:      %.2fR\n", s.WorstDrawdownR)
			fmt.Fprintf(out, "Mean DD:       %.2fR\n", s.MeanDrawdownR)
			fmt.Fprintf(out, "Final band:    %+.2fR .. %+.2fR\n", last.Lower, last.Upper)
			fmt.Fprintf(out, "Risk of Ruin:  %.2f%% (at %.0fR)\n", s.RiskOfRuin*100, s.RuinThresholdR)
			return nil
		},
	}

	src.addFlags(cmd)
	f := cmd.Flags()
	f.BoolVar(&asJSON, "json", false, "print the summary as JSON")
	f.Int("runs", 0, "number of reshuffled paths")
	f.Float64("ruin", 0, "ruin threshold in R (negative)")
	f.Int64("seed", 0, "seed for reproducible output")
	f.Int("workers", 0, "worker goroutines")
	return cmd
}
