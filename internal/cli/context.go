package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/session"
	"github.com/shipit-cli/shipit/internal/util"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show the persisted session context",
	Long: `Show the org, target, pipeline, environment, and item selection
carried between invocations.

Examples:
  shipit context
  shipit context set env staging
  shipit context clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := session.NewStore().Load()
		if err != nil {
			return err
		}
		fmt.Printf("org:      %s\n", orDash(ctx.Org))
		fmt.Printf("target:   %s\n", orDash(ctx.Target))
		fmt.Printf("pipeline: %s\n", orDash(ctx.Pipeline))
		fmt.Printf("env:      %s\n", orDash(ctx.Env))
		suffix := ""
		if ctx.Modified {
			suffix = " (narrowed)"
		}
		fmt.Printf("items:    %s%s\n", util.JoinOrNone(ctx.Items), suffix)
		return nil
	},
}

var contextSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one context field (org, target, pipeline, env)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		return session.NewStore().Update(func(ctx *session.Context) error {
			switch key {
			case "org":
				ctx.Org = value
			case "target":
				ctx.Target = value
			case "pipeline":
				ctx.Pipeline = value
			case "env":
				ctx.Env = value
			default:
				return errors.New(errors.ErrConfig,
					"Unknown context key: "+key,
					"Valid keys: org, target, pipeline, env")
			}
			return nil
		})
	},
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the session context",
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.NewStore().Update(func(ctx *session.Context) error {
			*ctx = session.Context{}
			return nil
		})
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
	rootCmd.AddCommand(contextCmd)
}
