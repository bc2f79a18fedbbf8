package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipit-cli/shipit/internal/history"
	"github.com/shipit-cli/shipit/internal/ui"
)

var (
	historyPlain bool
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the deployment log",
	Long: `Browse past deployments: target, environment, pipeline, status,
and duration. Interactive on a terminal; --plain prints one line per
record.

Examples:
  shipit history
  shipit history --plain -l 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := history.NewLog().Tail(historyLimit)
		if err != nil {
			return err
		}

		if historyPlain || !ui.IsInteractive() {
			if len(records) == 0 {
				fmt.Println("No deployments recorded yet.")
				return nil
			}
			for _, rec := range records {
				fmt.Println(history.FormatRecord(rec))
			}
			return nil
		}
		return history.Browse(records)
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyPlain, "plain", false, "plain listing instead of the interactive browser")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 50, "number of records to show")
	rootCmd.AddCommand(historyCmd)
}
