// Package util provides common utility functions used across the codebase.
package util

import (
	"os"
	"path/filepath"
)

// HomeDir returns the shipit state directory. SHIPIT_HOME overrides the
// default of ~/.config/shipit, which keeps tests and odd setups away
// from the real home directory.
func HomeDir() string {
	if dir := os.Getenv("SHIPIT_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Last resort: relative state dir in the working directory.
		return ".shipit"
	}
	return filepath.Join(home, ".config", "shipit")
}

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Local paths only; remote paths keep ~ for the remote shell.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
