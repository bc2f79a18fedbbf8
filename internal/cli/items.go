package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipit-cli/shipit/internal/config"
	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/org"
	"github.com/shipit-cli/shipit/internal/session"
	"github.com/shipit-cli/shipit/internal/util"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Show or change the persistent item selection",
	Long: `Show or change which of the current target's named files the next
deploys cover. Address-level {items} syntax narrows a single run;
these commands persist until reset.

Examples:
  shipit items
  shipit items only index,posts
  shipit items drop drafts
  shipit items glob 'api-*'
  shipit items edit
  shipit items reset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := session.NewStore().Load()
		if err != nil {
			return err
		}
		if len(ctx.Items) == 0 {
			fmt.Println("(no items; deploy a target or run 'shipit items reset')")
			return nil
		}
		for _, item := range ctx.Items {
			fmt.Println(item)
		}
		return nil
	},
}

var itemsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the full item set of the current target",
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateItems(func(ctx *session.Context, tables *config.Tables) error {
			session.Reset(ctx, tables)
			return nil
		})
	},
}

var itemsOnlyCmd = &cobra.Command{
	Use:   "only <a,b,...>",
	Short: "Keep only the named items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := splitNames(args[0])
		return updateItems(func(ctx *session.Context, tables *config.Tables) error {
			return session.IncludeOnly(ctx, names)
		})
	},
}

var itemsDropCmd = &cobra.Command{
	Use:   "drop <a,b,...>",
	Short: "Remove the named items from the selection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := splitNames(args[0])
		return updateItems(func(ctx *session.Context, tables *config.Tables) error {
			return session.Exclude(ctx, names)
		})
	},
}

var itemsGlobCmd = &cobra.Command{
	Use:   "glob <pattern>",
	Short: "Keep only items matching a glob pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := args[0]
		return updateItems(func(ctx *session.Context, tables *config.Tables) error {
			return session.FilterGlob(ctx, pattern)
		})
	},
}

var itemsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the item selection as text",
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateItems(func(ctx *session.Context, tables *config.Tables) error {
			if len(ctx.Items) == 0 {
				session.Reset(ctx, tables)
			}
			return session.InteractiveEdit(ctx)
		})
	},
}

// updateItems loads the current target's tables and runs fn against
// the persisted context under the context lock.
func updateItems(fn func(*session.Context, *config.Tables) error) error {
	reg, err := org.Load()
	if err != nil {
		return err
	}

	return session.NewStore().Update(func(ctx *session.Context) error {
		if ctx.Target == "" {
			return errors.New(errors.ErrTarget,
				"No current target in the session context",
				"Deploy something first, or run 'shipit context set target <name>'.")
		}
		orgName := reg.Resolve(ctx.Org)
		path, err := reg.TargetPath(orgName, ctx.Target)
		if err != nil {
			return err
		}
		tables, err := config.Load(path)
		if err != nil {
			return err
		}
		if len(ctx.Items) == 0 {
			session.Reset(ctx, tables)
		}
		return fn(ctx, tables)
	})
}

func splitNames(arg string) []string {
	parts := strings.Split(arg, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			names = append(names, p)
		}
	}
	return util.Dedupe(names)
}

func init() {
	itemsCmd.AddCommand(itemsResetCmd)
	itemsCmd.AddCommand(itemsOnlyCmd)
	itemsCmd.AddCommand(itemsDropCmd)
	itemsCmd.AddCommand(itemsGlobCmd)
	itemsCmd.AddCommand(itemsEditCmd)
	rootCmd.AddCommand(itemsCmd)
}
