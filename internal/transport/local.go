package transport

import (
	"io"
	"os"
	"os/exec"

	"github.com/shipit-cli/shipit/internal/errors"
)

// LocalRunner runs commands through the local shell. Build steps and
// the rsync push invocation go through here.
type LocalRunner struct{}

// NewLocal creates a local shell runner.
func NewLocal() *LocalRunner {
	return &LocalRunner{}
}

// Run executes cmd.Shell via $SHELL -c, streaming output to the
// provided writers. Returns the exit code; -1 with an error when the
// command could not be started at all.
func (r *LocalRunner) Run(cmd Command, stdout, stderr io.Writer) (int, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	command := exec.Command(shell, "-c", cmd.Shell)
	if cmd.Dir != "" {
		command.Dir = cmd.Dir
	}
	command.Stdout = stdout
	command.Stderr = stderr

	runErr := command.Run()
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run the command locally",
			"Make sure the command exists and is executable.")
	}

	return 0, nil
}
