// Package transport executes the fully-substituted command strings the
// pipeline engine emits. The engine never shells out itself: it hands a
// Command to a Runner and looks only at the exit code.
package transport

import "io"

// Kind says which pipeline step produced a command.
type Kind int

const (
	KindBuild Kind = iota
	KindPush
	KindRemote
	KindPost
)

func (k Kind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindPush:
		return "push"
	case KindRemote:
		return "remote"
	case KindPost:
		return "post"
	}
	return "unknown"
}

// Command is one fully-substituted invocation. Host empty means the
// command runs locally (builds, the rsync push); otherwise it runs on
// the remote host. RunAs, when set, names the work user the remote
// command must drop to before executing.
type Command struct {
	Kind  Kind
	Shell string
	Dir   string
	Host  string
	User  string
	RunAs string
}

// Local reports whether the command executes on this machine.
func (c Command) Local() bool {
	return c.Host == ""
}

// Runner executes commands. Implementations return the exit code and an
// error only when the command could not be run at all; a non-zero exit
// is not an error at this layer.
type Runner interface {
	Run(cmd Command, stdout, stderr io.Writer) (int, error)
}

// Dispatch routes local commands to Locals and remote commands to
// Remotes. This is the Runner the CLI wires for real deployments.
type Dispatch struct {
	Locals  Runner
	Remotes Runner
}

func (d *Dispatch) Run(cmd Command, stdout, stderr io.Writer) (int, error) {
	if cmd.Local() {
		return d.Locals.Run(cmd, stdout, stderr)
	}
	return d.Remotes.Run(cmd, stdout, stderr)
}
