// Package cli wires the cobra command tree: the deploy verb (the root
// command itself), plus context, items, history, version, and
// completion subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shipit-cli/shipit/internal/errors"
)

// Deploy flags.
var (
	deployDryRun bool
	deployEdit   bool
	deployRoot   bool
)

var rootCmd = &cobra.Command{
	Use:   "shipit [org:]target[:pipeline][:{items}] <env>",
	Short: "Declarative deployment pipelines",
	Long: `shipit resolves a compact address against a target's configuration
file, computes which files and steps apply, and runs the pipeline
against the environment's host.

Addresses:
  site prod                    deploy target site to prod, default pipeline
  site:full prod               run the full pipeline
  site:{a,b} prod              deploy only items a and b (one-shot)
  site:{!drafts} prod          deploy everything except drafts
  site:{@pages} prod           deploy the members of group pages
  acme:site:full prod          explicit org

Examples:
  shipit site prod
  shipit site:full staging --dry-run
  shipit blog:~posts prod`,
	Args:          cobra.RangeArgs(0, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if len(args) < 2 {
			return errors.New(errors.ErrAddress,
				"Missing environment",
				"Usage: shipit [org:]target[:pipeline][:{items}] <env>")
		}
		return deployCommand(args[0], args[1], deployOptions{
			DryRun: deployDryRun,
			Edit:   deployEdit,
			Root:   deployRoot,
		})
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&deployDryRun, "dry-run", "n", false, "print commands without running anything")
	rootCmd.Flags().BoolVar(&deployEdit, "edit", false, "edit the item selection before running (one-shot)")
	rootCmd.Flags().BoolVar(&deployRoot, "root", false, "run remote commands as the login user, not the work user")
}

// Execute runs the CLI and exits the process with the mapped exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(errors.ExitCode(err))
	}
}
