package report

import (
	"fmt"
	"io"
	"time"
)

const (
	rule      = "=================================================="
	thinRule  = "--------------------------------------------------"
	maxGroups = 10
)

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, thinRule)
}

// PrintSummary writes a plain text report of r.
func PrintSummary(w io.Writer, r Run) {
	res := r.Result

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, " Trade Journal Analytics")
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "Source:        %s\n", r.Source)

	if res == nil {
		fmt.Fprintln(w)
		return
	}

	s := res.Summary
	section(w, "Performance")
	fmt.Fprintf(w, "Trades:        %d (%d with R)\n", s.Trades, s.RTrades)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate)
	fmt.Fprintf(w, "Total R:       %s\n", optR(s.TotalR))
	fmt.Fprintf(w, "Expectancy:    %s\n", optR(s.Expectancy))
	fmt.Fprintf(w, "Profit Factor: %s\n", optFactor(s.ProfitFactor))
	fmt.Fprintf(w, "Net P/L:       %.2f\n", s.TotalPnL)
	fmt.Fprintf(w, "> +2R:         %.2f%%\n", s.PctAbove2R)
	fmt.Fprintf(w, "<= -1R:        %.2f%%\n", s.PctAtOrBelowMinus1R)
	if n := len(res.EquityCurve); n > 0 {
		fmt.Fprintf(w, "End Balance:   %.2f\n", res.EquityCurve[n-1].Balance)
	}

	dd := res.Drawdown
	section(w, "Drawdown")
	fmt.Fprintf(w, "Max:           %.2fR\n", dd.MaxDrawdownR)
	fmt.Fprintf(w, "Average:       %.2fR\n", dd.AverageDrawdownR)
	fmt.Fprintf(w, "Current:       %.2fR\n", dd.CurrentDrawdownR)
	fmt.Fprintf(w, "Episodes:      %d\n", dd.Episodes)
	fmt.Fprintf(w, "Underwater:    %.2f%% of trades\n", dd.FrequencyPct)
	fmt.Fprintf(w, "Longest:       %d trades\n", dd.LongestDurationTrades)
	fmt.Fprintf(w, "Recovery:      %s trades\n", optNum(dd.AverageRecoveryTrades, "%.1f"))

	if mc := res.MonteCarlo; mc != nil {
		section(w, "Monte Carlo")
		fmt.Fprintf(w, "Runs:          %d\n", mc.Runs)
		fmt.Fprintf(w, "Worst DD:      %.2fR\n", mc.WorstDrawdownR)
		fmt.Fprintf(w, "Mean DD:       %.2fR\n", mc.MeanDrawdownR)
		fmt.Fprintf(w, "Risk of Ruin:  %.2f%% (at %.0fR)\n", mc.RiskOfRuin*100, mc.RuinThresholdR)
	}

	d := res.Discipline
	section(w, "Discipline")
	fmt.Fprintf(w, "Score:         %.1f / 100\n", d.Score)
	fmt.Fprintf(w, "Risk:          %.1f\n", d.Components.RiskConsistency)
	fmt.Fprintf(w, "Checklist:     %.1f\n", d.Components.Adherence)
	fmt.Fprintf(w, "Emotional:     %.1f\n", d.Components.EmotionalStability)
	if d.Components.OvertradingPenalty > 0 {
		fmt.Fprintf(w, "Overtrading:   -%.0f\n", d.Components.OvertradingPenalty)
	}

	if len(res.Setups) > 0 {
		section(w, "Setups")
		for i, st := range res.Setups {
			if i == maxGroups {
				break
			}
			fmt.Fprintf(w, "%-14s %3d trades  %6.2f%%  %9s  (%s)\n",
				st.Key, st.Trades, st.WinRate, optR(st.Expectancy), st.Reliability)
		}
	}

	if len(res.Emotions) > 0 {
		section(w, "Emotions")
		for i, e := range res.Emotions {
			if i == maxGroups {
				break
			}
			fmt.Fprintf(w, "%-14s %3d trades  %6.2f%%  %9s\n", e.Key, e.Trades, e.WinRate, optR(e.Expectancy))
		}
	}

	if len(res.Warnings) > 0 {
		section(w, "Warnings")
		for _, msg := range res.Warnings {
			fmt.Fprintf(w, "- %s\n", msg)
		}
	}

	if len(res.Insights) > 0 {
		section(w, "Insights")
		for _, msg := range res.Insights {
			fmt.Fprintf(w, "- %s\n", msg)
		}
	}

	if r.OrgPath != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Org Report:    %s\n", r.OrgPath)
	}

	fmt.Fprintln(w)
}
