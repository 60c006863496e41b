package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  `Display the current version of the tradejournal CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tradejournal version %s\n", version)
			fmt.Fprintln(out, "Trade journal analytics and risk simulation")
			fmt.Fprintln(out, "https://github.com/rustyeddy/tradejournal")
		},
	}
}
