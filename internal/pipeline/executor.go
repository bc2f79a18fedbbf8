package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shipit-cli/shipit/internal/config"
	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/fileset"
	"github.com/shipit-cli/shipit/internal/history"
	"github.com/shipit-cli/shipit/internal/logger"
	"github.com/shipit-cli/shipit/internal/org"
	"github.com/shipit-cli/shipit/internal/transport"
	"github.com/shipit-cli/shipit/internal/ui"
	"github.com/shipit-cli/shipit/internal/util"
)

// Confirmer gates execution on environments with confirm = true.
// Swapped for a canned answer in tests.
type Confirmer func(title string) bool

// Executor walks a pipeline's steps sequentially. The first failing
// step aborts the rest; dry-run prints commands and touches nothing.
type Executor struct {
	Tables  *config.Tables
	Runner  transport.Runner
	Creds   org.Creds
	History *history.Log
	Log     logger.Logger
	Out     io.Writer
	Errs    io.Writer
	Confirm Confirmer

	// DryRun prints every command without running anything: no prompt,
	// no history record, no side effects.
	DryRun bool

	// Root forces remote and post commands to run as the login user
	// instead of the environment's work user.
	Root bool

	preRan   bool
	indexRan bool
}

// Run executes the named pipeline against env. items is the effective
// item set; override marks it as a narrowed subset rather than "all".
func (e *Executor) Run(pipelineName, envName string, items []string, override bool) error {
	e.fillDefaults()

	// Resolve the alias here so history records the real pipeline name.
	if real, ok := e.Tables.Aliases[pipelineName]; ok {
		pipelineName = real
	}
	tokens, ok := e.Tables.Pipelines[pipelineName]
	if !ok {
		return errors.New(errors.ErrPipeline,
			fmt.Sprintf("No pipeline named %q in target %q", pipelineName, e.Tables.Target.Name),
			"Check the [pipeline] and [alias] sections of the target config.")
	}
	confirm, err := e.Tables.ConfirmRequired(envName)
	if err != nil {
		return err
	}

	filesOverride := ""
	if override {
		patterns, err := e.itemPatterns(items)
		if err != nil {
			return err
		}
		filesOverride = strings.Join(patterns, " ")
	}

	if confirm && !e.DryRun {
		title := fmt.Sprintf("Deploy %s to %s?", e.Tables.Target.Name, envName)
		if !e.Confirm(title) {
			fmt.Fprintln(e.Out, ui.StyleMuted.Render("Aborted."))
			return nil
		}
	}

	start := time.Now()
	err = e.runSteps(ParseSteps(tokens), pipelineName, envName, filesOverride, items, override)

	if !e.DryRun && e.History != nil {
		status := history.StatusOK
		if err != nil {
			status = history.StatusFailed
		}
		rec := history.Record{
			Time:     time.Now(),
			Target:   e.Tables.Target.Name,
			Env:      envName,
			Pipeline: pipelineName,
			Action:   "deploy",
			Status:   status,
			Duration: time.Since(start),
		}
		if logErr := e.History.Append(rec); logErr != nil {
			e.Log.Warn("couldn't append history record: %v", logErr)
		}
	}

	return err
}

func (e *Executor) fillDefaults() {
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Errs == nil {
		e.Errs = os.Stderr
	}
	if e.Log == nil {
		e.Log = logger.NewEnvLogger("[pipeline]")
	}
	if e.Confirm == nil {
		e.Confirm = ui.Confirm
	}
}

func (e *Executor) runSteps(steps []Step, pipelineName, envName, filesOverride string, items []string, override bool) error {
	for _, step := range steps {
		var err error
		switch step.Kind {
		case StepBuild:
			err = e.runBuildStep(step, envName, filesOverride, items, override)
		case StepPush:
			err = e.runPush(pipelineName, envName, filesOverride, items, override)
		case StepRemote:
			err = e.runHostCommand(transport.KindRemote, step.Name, e.Tables.Remote, envName, filesOverride)
		case StepPost:
			err = e.runHostCommand(transport.KindPost, step.Name, e.Tables.Post, envName, filesOverride)
		case StepUnknown:
			e.Log.Info("[unknown] skipping step token %q", step.Token)
			fmt.Fprintf(e.Out, "%s [unknown] %s\n", ui.SymbolSkipped, step.Token)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// runBuildStep handles the item-override special case: with an active
// override, build:all expands to one build per selected item (plus the
// index build when defined), never a literal all build. build:index is
// never run twice.
func (e *Executor) runBuildStep(step Step, envName, filesOverride string, items []string, override bool) error {
	if override && step.Name == "all" {
		for _, item := range items {
			if err := e.runBuild(item, envName, filesOverride); err != nil {
				return err
			}
		}
		if _, ok := e.Tables.Build["index"]; ok {
			return e.runBuild("index", envName, filesOverride)
		}
		return nil
	}
	return e.runBuild(step.Name, envName, filesOverride)
}

func (e *Executor) runBuild(name, envName, filesOverride string) error {
	if name == "index" {
		if e.indexRan {
			return nil
		}
		e.indexRan = true
	}

	cmdTpl, ok := e.Tables.Build[name]
	if !ok {
		// Item builds are optional: an item without a build rule ships
		// as-is.
		e.Log.Warn("no build rule named %q, skipping", name)
		return nil
	}

	if err := e.runPre(envName, filesOverride); err != nil {
		return err
	}

	shell, err := e.Tables.Expand(cmdTpl, envName, filesOverride)
	if err != nil {
		return err
	}
	return e.execute(transport.Command{
		Kind:  transport.KindBuild,
		Shell: shell,
		Dir:   e.Tables.Target.Source,
	}, "build:"+name)
}

// runPre runs the shared pre build hook at most once per pipeline run,
// lazily, the first time any build step executes.
func (e *Executor) runPre(envName, filesOverride string) error {
	if e.preRan || e.Tables.BuildPre == "" {
		return nil
	}
	e.preRan = true

	shell, err := e.Tables.Expand(e.Tables.BuildPre, envName, filesOverride)
	if err != nil {
		return err
	}
	return e.execute(transport.Command{
		Kind:  transport.KindBuild,
		Shell: shell,
		Dir:   e.Tables.Target.Source,
	}, "build:pre")
}

// runPush emits one rsync invocation covering the effective pattern
// set: the override items' patterns when a selection is active, else
// the pipeline's own file-set, else the all file-set.
func (e *Executor) runPush(pipelineName, envName, filesOverride string, items []string, override bool) error {
	var patterns []string
	var err error
	if override {
		patterns, err = e.itemPatterns(items)
	} else {
		patterns, err = e.pushPatterns(pipelineName)
	}
	if err != nil {
		return err
	}

	ep, err := e.endpoint(envName)
	if err != nil {
		return err
	}
	cwd, err := e.Tables.Expand(e.Tables.Target.Cwd, envName, filesOverride)
	if err != nil {
		return err
	}

	args := []string{"rsync", "-az"}
	if e.Tables.Push.Delete {
		args = append(args, "--delete")
	}
	for _, pat := range e.Tables.Push.Exclude {
		args = append(args, "--exclude="+util.ShellQuote(pat))
	}
	args = append(args, e.Tables.Push.Flags...)
	args = append(args, patterns...)
	args = append(args, fmt.Sprintf("%s@%s:%s", ep.User, ep.Host, cwd))

	return e.execute(transport.Command{
		Kind:  transport.KindPush,
		Shell: strings.Join(args, " "),
		Dir:   e.Tables.Target.Source,
	}, "push")
}

// pushPatterns resolves the un-overridden pattern set for a push step.
func (e *Executor) pushPatterns(pipelineName string) ([]string, error) {
	if _, ok := e.Tables.Files[pipelineName]; ok {
		return fileset.Resolve(pipelineName, e.Tables)
	}
	if _, ok := e.Tables.Files["all"]; ok {
		return fileset.Resolve("all", e.Tables)
	}
	return nil, errors.New(errors.ErrConfig,
		"No file-set to push: neither a pipeline-named set nor an all set exists",
		"Define [files] all or a file-set named after the pipeline.")
}

// itemPatterns expands each selected item to its patterns, in order.
func (e *Executor) itemPatterns(items []string) ([]string, error) {
	var patterns []string
	for _, item := range items {
		pats, err := fileset.Resolve(item, e.Tables)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pats...)
	}
	return patterns, nil
}

// runHostCommand executes a named [remote] or [post] command on the
// environment host. Names suffixed _root, or a run with the root flag,
// stay as the login user; everything else drops to the work user.
func (e *Executor) runHostCommand(kind transport.Kind, name string, table map[string]string, envName, filesOverride string) error {
	cmdTpl, ok := table[name]
	if !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("No [%s] command named %q in target %q", kind, name, e.Tables.Target.Name),
			fmt.Sprintf("Check the [%s] section of the target config.", kind))
	}

	shell, err := e.Tables.Expand(cmdTpl, envName, filesOverride)
	if err != nil {
		return err
	}
	cwd, err := e.Tables.Expand(e.Tables.Target.Cwd, envName, filesOverride)
	if err != nil {
		return err
	}
	if cwd != "" {
		shell = fmt.Sprintf("cd %s && %s", util.ShellQuotePreserveTilde(cwd), shell)
	}

	ep, err := e.endpoint(envName)
	if err != nil {
		return err
	}

	runAs := e.workUser(envName)
	if e.Root || strings.HasSuffix(name, "_root") {
		runAs = ""
	}

	label := fmt.Sprintf("%s:%s", kind, name)
	return e.execute(transport.Command{
		Kind:  kind,
		Shell: shell,
		Host:  ep.Host,
		User:  ep.User,
		RunAs: runAs,
	}, label)
}

// endpoint resolves the environment's connection target, applying org
// registry overrides on top of the env profile.
func (e *Executor) endpoint(envName string) (org.Endpoint, error) {
	vars, err := e.Tables.Vars(envName, "")
	if err != nil {
		return org.Endpoint{}, err
	}

	connection := vars["ssh"]
	if e.Creds.Host != "" {
		connection = e.Creds.Host
	}
	if connection == "" {
		return org.Endpoint{}, errors.New(errors.ErrEnv,
			fmt.Sprintf("Environment %q has no ssh connection string", envName),
			"Set ssh in the [env."+envName+"] section, or an org override.")
	}

	ep := org.ResolveEndpoint(connection)
	if e.Creds.User != "" {
		ep.User = e.Creds.User
	}
	if ep.User == "" {
		ep.User = vars["user"]
	}
	return ep, nil
}

// workUser picks the user remote commands drop to: the org override
// first, then the environment's work_user key.
func (e *Executor) workUser(envName string) string {
	if e.Creds.WorkUser != "" {
		return e.Creds.WorkUser
	}
	vars, err := e.Tables.Vars(envName, "")
	if err != nil {
		return ""
	}
	return vars["work_user"]
}

// execute hands one command to the transport and renders the outcome.
// A non-zero exit aborts the pipeline via a STEP error carrying the
// exit code.
func (e *Executor) execute(cmd transport.Command, label string) error {
	fmt.Fprintf(e.Out, "%s %s\n", ui.StyleStep.Render(label), ui.StyleMuted.Render(cmd.Shell))

	start := time.Now()
	code, err := e.Runner.Run(cmd, e.Out, e.Errs)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(e.Out, "%s %s\n", ui.StyleError.Render(ui.SymbolFail), label)
		return err
	}
	if code != 0 {
		fmt.Fprintf(e.Out, "%s %s (exit %d, %s)\n",
			ui.StyleError.Render(ui.SymbolFail), label, code, elapsed.Round(time.Millisecond))
		return errors.WrapWithCode(errors.NewExitError(code), errors.ErrStep,
			fmt.Sprintf("Step %s failed with exit code %d", label, code),
			"The remaining pipeline steps were not run.")
	}

	fmt.Fprintf(e.Out, "%s %s (%s)\n",
		ui.StyleSuccess.Render(ui.SymbolSuccess), label, elapsed.Round(time.Millisecond))
	return nil
}
