package config

import (
	"fmt"

	"github.com/shipit-cli/shipit/internal/errors"
)

// Validate checks the loaded tables for structural problems that would
// otherwise surface mid-pipeline: dangling or cyclic inheritance, aliases
// pointing at nothing, and group includes naming unknown file-sets.
func Validate(t *Tables) error {
	if err := validateInheritance(t); err != nil {
		return err
	}

	for alias, target := range t.Aliases {
		if _, ok := t.Pipelines[target]; !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Alias %q points at unknown pipeline %q", alias, target),
				"Check the [alias] and [pipeline] sections.")
		}
	}

	for name, fs := range t.Files {
		for _, inc := range fs.Include {
			if _, ok := t.Files[inc]; !ok {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Group %q includes unknown file-set %q", name, inc),
					"Every include entry must name a key under [files].")
			}
		}
	}

	return nil
}

// validateInheritance rejects dangling inherit references and any cycle
// in the inherit graph. Resolution only ever looks one level up, but a
// cycle still means someone's config is wrong, so it is an error rather
// than undefined behavior.
func validateInheritance(t *Tables) error {
	for name, env := range t.Envs {
		if env.Inherit == "" {
			continue
		}
		if _, ok := t.Envs[env.Inherit]; !ok {
			return errors.New(errors.ErrEnv,
				fmt.Sprintf("Environment %q inherits from unknown environment %q", name, env.Inherit),
				"Check the inherit key against the [env.<name>] sections.")
		}

		// Follow the inherit chain from this node; revisiting any node
		// means a cycle.
		seen := map[string]bool{name: true}
		cur := env.Inherit
		for cur != "" {
			if seen[cur] {
				return errors.New(errors.ErrEnv,
					fmt.Sprintf("Environment inheritance cycle involving %q", cur),
					"Remove one of the inherit keys to break the cycle.")
			}
			seen[cur] = true
			next, ok := t.Envs[cur]
			if !ok {
				break
			}
			cur = next.Inherit
		}
	}
	return nil
}
