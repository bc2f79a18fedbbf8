package transport

import (
	"fmt"
	"io"
)

// DryRunner prints what would run instead of running it. Always exits
// zero so a dry-run walks the whole pipeline.
type DryRunner struct{}

// NewDryRun creates a dry-run runner.
func NewDryRun() *DryRunner {
	return &DryRunner{}
}

func (r *DryRunner) Run(cmd Command, stdout, stderr io.Writer) (int, error) {
	where := "local"
	if !cmd.Local() {
		where = cmd.User + "@" + cmd.Host
		if cmd.RunAs != "" && cmd.RunAs != cmd.User {
			where += " (as " + cmd.RunAs + ")"
		}
	}
	fmt.Fprintf(stdout, "[dry-run] %-6s %s: %s\n", cmd.Kind, where, cmd.Shell)
	return 0, nil
}
