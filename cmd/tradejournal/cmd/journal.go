package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

func newJournalCmd(app *App) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Query trade journal data",
		Long: `Query and display trade journal records from the SQLite database.

Subcommands:
  trade  - Get details of a specific trade by ID
  today  - List trades closed today
  day    - List trades closed on a specific day

Examples:
  tradejournal journal trade <trade-id>
  tradejournal journal today
  tradejournal journal day 2024-01-15`,
	}

	open := func() (*journal.SQLite, error) {
		j, err := journal.NewSQLite(app.Config.Journal.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	listDay := func(cmd *cobra.Command, day string) error {
		j, err := open()
		if err != nil {
			return err
		}
		defer j.Close()

		start, end, err := dayBounds(time.Local, day)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}

		recs, err := j.ListTradesClosedBetween(cmd.Context(), start, end)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
		return nil
	}

	journalCmd.AddCommand(
		&cobra.Command{
			Use:   "trade <trade-id>",
			Short: "Get details of a specific trade",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				j, err := open()
				if err != nil {
					return err
				}
				defer j.Close()

				rec, err := j.GetTrade(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("get trade: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
				return nil
			},
		},
		&cobra.Command{
			Use:   "today",
			Short: "List trades closed today",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listDay(cmd, time.Now().In(time.Local).Format("2006-01-02"))
			},
		},
		&cobra.Command{
			Use:   "day <YYYY-MM-DD>",
			Short: "List trades closed on a specific day",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return listDay(cmd, args[0])
			},
		},
	)
	return journalCmd
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
