package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

// sourceOpts selects the trades a command works on.
type sourceOpts struct {
	csvPath string

	from, to     string
	setups       []string
	emotions     []string
	sessions     []string
	symbols      []string
	outcome      string
	minChecklist float64
	rPctMin      float64
	rPctMax      float64
}

func (o *sourceOpts) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.csvPath, "csv", "", "read trades from this CSV instead of the journal")
	f.StringVar(&o.from, "from", "", "only trades on or after this date (YYYY-MM-DD)")
	f.StringVar(&o.to, "to", "", "only trades on or before this date (YYYY-MM-DD)")
	f.StringSliceVar(&o.setups, "setup", nil, "only these setups")
	f.StringSliceVar(&o.emotions, "emotion", nil, "only trades tagged with any of these emotions")
	f.StringSliceVar(&o.sessions, "session", nil, "only these sessions (Asia, London, NewYork, Other)")
	f.StringSliceVar(&o.symbols, "symbol", nil, "only these symbols")
	f.StringVar(&o.outcome, "outcome", "", "only win, loss or breakeven trades")
	f.Float64Var(&o.minChecklist, "min-checklist", 0, "minimum checklist completion percent")
	f.Float64Var(&o.rPctMin, "r-pct-min", 0, "drop trades below this R percentile (0-100)")
	f.Float64Var(&o.rPctMax, "r-pct-max", 100, "drop trades above this R percentile (0-100)")
}

// load reads trades from the CSV flag, a CSV journal, or the SQLite journal.
// It returns the trades and a label for the source.
func (o *sourceOpts) load(ctx context.Context, app *App) ([]analytics.Trade, string, error) {
	path := o.csvPath
	if path == "" && app.Config.Journal.Type == "csv" {
		path = app.Config.Journal.TradesFile
	}
	if path != "" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open trades csv: %w", err)
		}
		defer fh.Close()
		trades, err := journal.ReadTradesCSV(fh)
		if err != nil {
			return nil, "", err
		}
		return trades, path, nil
	}

	db := app.Config.Journal.DBPath
	j, err := journal.NewSQLite(db)
	if err != nil {
		return nil, "", fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	trades, err := j.ListTrades(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("query trades: %w", err)
	}
	return trades, db, nil
}

// spec layers the filter flags over the configured filters.
func (o *sourceOpts) spec(cmd *cobra.Command, base *analytics.FilterSpec) (*analytics.FilterSpec, error) {
	out := analytics.FilterSpec{}
	if base != nil {
		out = *base
	}
	f := cmd.Flags()

	if o.from != "" {
		t, err := time.ParseInLocation("2006-01-02", o.from, time.Local)
		if err != nil {
			return nil, fmt.Errorf("--from: %w", err)
		}
		out.From = t
	}
	if o.to != "" {
		t, err := time.ParseInLocation("2006-01-02", o.to, time.Local)
		if err != nil {
			return nil, fmt.Errorf("--to: %w", err)
		}
		// Inclusive of the whole day.
		out.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	if len(o.setups) > 0 {
		out.Setups = o.setups
	}
	if len(o.emotions) > 0 {
		out.Emotions = o.emotions
	}
	if len(o.sessions) > 0 {
		out.Sessions = nil
		for _, s := range o.sessions {
			out.Sessions = append(out.Sessions, analytics.ParseSession(s))
		}
	}
	if len(o.symbols) > 0 {
		out.Symbols = o.symbols
	}
	if f.Changed("outcome") {
		oc := analytics.OutcomeClass(strings.ToLower(o.outcome))
		switch oc {
		case analytics.OutcomeWin, analytics.OutcomeLoss, analytics.OutcomeBreakeven:
		default:
			return nil, fmt.Errorf("--outcome must be win, loss or breakeven")
		}
		out.Outcome = oc
	}
	if f.Changed("min-checklist") {
		out.Checklist = &analytics.Range{Min: analytics.Float(o.minChecklist)}
	}
	if f.Changed("r-pct-min") || f.Changed("r-pct-max") {
		out.RPercentile = analytics.Between(o.rPctMin, o.rPctMax)
	}
	return &out, nil
}
