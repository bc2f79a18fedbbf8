// Package pipeline interprets a target's pipelines: ordered step lists
// dispatched to build, push, remote, and post handling.
package pipeline

import "strings"

// StepKind tags what a pipeline step does.
type StepKind int

const (
	// StepBuild runs a named build rule locally.
	StepBuild StepKind = iota
	// StepPush transfers the effective file patterns to the remote host.
	StepPush
	// StepRemote runs a named [remote] command on the environment host.
	StepRemote
	// StepPost runs a named [post] command on the environment host.
	StepPost
	// StepUnknown is any token the engine doesn't recognize. Logged and
	// skipped, so old files with retired step names keep working.
	StepUnknown
)

// Step is one parsed pipeline step. Tokens are parsed once at load
// time; execution never re-parses strings.
type Step struct {
	Kind  StepKind
	Name  string
	Token string
}

// ParseSteps turns raw step tokens into typed steps.
func ParseSteps(tokens []string) []Step {
	steps := make([]Step, 0, len(tokens))
	for _, token := range tokens {
		steps = append(steps, parseStep(token))
	}
	return steps
}

func parseStep(token string) Step {
	switch {
	case token == "push":
		return Step{Kind: StepPush, Token: token}
	case strings.HasPrefix(token, "build:"):
		return Step{Kind: StepBuild, Name: token[len("build:"):], Token: token}
	case strings.HasPrefix(token, "remote:"):
		return Step{Kind: StepRemote, Name: token[len("remote:"):], Token: token}
	case strings.HasPrefix(token, "post:"):
		return Step{Kind: StepPost, Name: token[len("post:"):], Token: token}
	default:
		return Step{Kind: StepUnknown, Token: token}
	}
}
