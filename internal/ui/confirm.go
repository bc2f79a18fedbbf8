package ui

import (
	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question before a gated deployment proceeds.
// The answer defaults to no: an aborted or empty prompt never deploys.
// Non-interactive sessions (piped stdin) answer no without prompting.
func Confirm(title string) bool {
	if !IsInteractive() {
		return false
	}

	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false
	}
	return confirmed
}
