package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logging"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <trades.csv>",
		Short: "Import trades from a CSV file into the SQLite journal",
		Long: `Read a header-led CSV of closed trades and store them in the journal.

Columns are matched by name (id, symbol, entry_time, exit_time, pnl,
risk_amount, r_multiple, emotions, setup, session, checklist_percent, ...).
Rows without an id get one. Re-importing a file replaces the same ids.

Example:
  tradejournal import trades.csv --db journal.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer fh.Close()

			trades, err := journal.ReadTradesCSV(fh)
			if err != nil {
				return err
			}

			db := app.Config.Journal.DBPath
			j, err := journal.NewSQLite(db)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			if err := j.RecordTrades(cmd.Context(), trades); err != nil {
				return err
			}

			logger := logging.FromContext(cmd.Context())
			logger.Info().Str("file", args[0]).Str("db", db).Int("trades", len(trades)).Msg("import complete")
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades into %s\n", len(trades), db)
			return nil
		},
	}
}
