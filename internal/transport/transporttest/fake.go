// Package transporttest provides a fake Runner for exercising the
// pipeline executor without shelling out.
package transporttest

import (
	"io"

	"github.com/shipit-cli/shipit/internal/transport"
)

// Fake records every command it is handed and returns scripted exit
// codes. The zero value runs everything successfully.
type Fake struct {
	// Commands holds every command run, in order.
	Commands []transport.Command

	// ExitCodes maps a shell string to the exit code to return.
	// Unlisted commands exit zero.
	ExitCodes map[string]int

	// Err, when set, is returned for every run.
	Err error
}

// NewFake creates an empty fake runner.
func NewFake() *Fake {
	return &Fake{ExitCodes: make(map[string]int)}
}

func (f *Fake) Run(cmd transport.Command, stdout, stderr io.Writer) (int, error) {
	f.Commands = append(f.Commands, cmd)
	if f.Err != nil {
		return -1, f.Err
	}
	if code, ok := f.ExitCodes[cmd.Shell]; ok {
		return code, nil
	}
	return 0, nil
}

// Shells returns the shell strings of all recorded commands, in order.
func (f *Fake) Shells() []string {
	out := make([]string, len(f.Commands))
	for i, cmd := range f.Commands {
		out[i] = cmd.Shell
	}
	return out
}
