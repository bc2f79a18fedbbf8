package cli

import (
	"time"

	"github.com/shipit-cli/shipit/internal/address"
	"github.com/shipit-cli/shipit/internal/config"
	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/fileset"
	"github.com/shipit-cli/shipit/internal/history"
	"github.com/shipit-cli/shipit/internal/org"
	"github.com/shipit-cli/shipit/internal/pipeline"
	"github.com/shipit-cli/shipit/internal/session"
	"github.com/shipit-cli/shipit/internal/transport"
)

type deployOptions struct {
	DryRun bool
	Edit   bool
	Root   bool
}

// deployCommand is the main workflow: parse the address, load the
// target's tables, resolve the effective item set, and run the
// pipeline. Dry-run walks the same path but prints commands, prompts
// nothing, and persists nothing.
func deployCommand(addrArg, envName string, opts deployOptions) error {
	addr, err := address.Parse(addrArg)
	if err != nil {
		return err
	}

	reg, err := org.Load()
	if err != nil {
		return err
	}
	orgName := reg.Resolve(addr.Org)

	path, err := reg.TargetPath(orgName, addr.Target)
	if err != nil {
		return err
	}
	tables, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(tables); err != nil {
		return err
	}

	pipelineName := addr.Pipeline
	if pipelineName == "" {
		pipelineName = config.DefaultPipeline
	}
	if _, ok := tables.Pipeline(pipelineName); !ok {
		return errors.New(errors.ErrPipeline,
			"No pipeline named \""+pipelineName+"\" in target \""+addr.Target+"\"",
			"Check the [pipeline] and [alias] sections of the target config.")
	}
	if _, err := tables.Env(envName); err != nil {
		return err
	}

	store := session.NewStore()
	ctx, err := store.Load()
	if err != nil {
		return err
	}

	items, override, err := effectiveItems(ctx, addr, orgName, tables, opts.Edit)
	if err != nil {
		return err
	}

	var runner transport.Runner
	if opts.DryRun {
		runner = transport.NewDryRun()
	} else {
		sshRunner := transport.NewSSH(10 * time.Second)
		defer sshRunner.Close()
		runner = &transport.Dispatch{
			Locals:  transport.NewLocal(),
			Remotes: sshRunner,
		}
	}

	exec := &pipeline.Executor{
		Tables:  tables,
		Runner:  runner,
		Creds:   reg.Creds(orgName, envName),
		History: history.NewLog(),
		DryRun:  opts.DryRun,
		Root:    opts.Root,
	}
	runErr := exec.Run(pipelineName, envName, items, override)

	// The session context tracks the last deploy regardless of step
	// outcome; dry-run leaves it untouched.
	if !opts.DryRun {
		saveErr := store.Update(func(c *session.Context) error {
			targetChanged := c.Org != orgName || c.Target != addr.Target
			c.Org = orgName
			c.Target = addr.Target
			c.Pipeline = pipelineName
			c.Env = envName
			if targetChanged {
				session.Reset(c, tables)
			}
			return nil
		})
		if saveErr != nil && runErr == nil {
			runErr = saveErr
		}
	}

	return runErr
}

// effectiveItems computes the item set for this run and whether it is
// a narrowed override. The session's persisted subset applies when it
// belongs to the same org and target; address selections and --edit
// are one-shot on top of it.
func effectiveItems(ctx *session.Context, addr *address.Address, orgName string, tables *config.Tables, edit bool) ([]string, bool, error) {
	base := tables.Items()
	override := false
	if ctx.Org == orgName && ctx.Target == addr.Target && ctx.Modified && len(ctx.Items) > 0 {
		base = ctx.Items
		override = true
	}

	var err error
	switch addr.Items.Kind {
	case address.SelectNone:
		// Keep the session selection as-is.
	case address.SelectInclude:
		base, err = session.OneShot(base, addr.Items.Names, nil)
		override = true
	case address.SelectExclude:
		base, err = session.OneShot(base, nil, addr.Items.Names)
		override = true
	case address.SelectGroup:
		var members []string
		members, err = fileset.Members(addr.Items.Group, tables)
		if err == nil {
			base, err = session.OneShot(base, members, nil)
		}
		override = true
	}
	if err != nil {
		return nil, false, err
	}

	if edit {
		scratch := &session.Context{Items: base}
		if err := session.InteractiveEdit(scratch); err != nil {
			return nil, false, err
		}
		base = scratch.Items
		override = true
	}

	return base, override, nil
}
