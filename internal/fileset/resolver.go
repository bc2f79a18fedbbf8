// Package fileset expands named file-sets into flat pattern lists.
//
// A file-set is either a literal glob/path pattern or a group holding an
// include list of other file-set names. Groups expand transitively in
// list order; duplicates are kept. Include cycles are rejected.
package fileset

import (
	"fmt"
	"strings"

	"github.com/shipit-cli/shipit/internal/config"
	"github.com/shipit-cli/shipit/internal/errors"
)

// Resolve expands name into its ordered list of patterns.
func Resolve(name string, tables *config.Tables) ([]string, error) {
	return resolve(name, tables, nil)
}

func resolve(name string, tables *config.Tables, path []string) ([]string, error) {
	for _, p := range path {
		if p == name {
			cycle := strings.Join(append(path, name), " -> ")
			return nil, errors.New(errors.ErrConfig,
				"File-set include cycle: "+cycle,
				"Remove one of the include entries to break the cycle.")
		}
	}

	fs, ok := tables.Files[name]
	if !ok {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No file-set named %q in target %q", name, tables.Target.Name),
			"Check the [files] sections of the target config.")
	}

	if !fs.IsGroup() {
		return []string{fs.Pattern}, nil
	}

	path = append(path, name)
	var patterns []string
	for _, inc := range fs.Include {
		sub, err := resolve(inc, tables, path)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, sub...)
	}
	return patterns, nil
}

// Members flattens a group to the leaf (non-group) file-set names it
// reaches, in include order. Used for {@group} address expansion, where
// the selection operates on item names rather than patterns.
func Members(name string, tables *config.Tables) ([]string, error) {
	return members(name, tables, nil)
}

func members(name string, tables *config.Tables, path []string) ([]string, error) {
	for _, p := range path {
		if p == name {
			cycle := strings.Join(append(path, name), " -> ")
			return nil, errors.New(errors.ErrConfig,
				"File-set include cycle: "+cycle,
				"Remove one of the include entries to break the cycle.")
		}
	}

	fs, ok := tables.Files[name]
	if !ok {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No file-set named %q in target %q", name, tables.Target.Name),
			"Check the [files] sections of the target config.")
	}

	if !fs.IsGroup() {
		return []string{name}, nil
	}

	path = append(path, name)
	var names []string
	for _, inc := range fs.Include {
		sub, err := members(inc, tables, path)
		if err != nil {
			return nil, err
		}
		names = append(names, sub...)
	}
	return names, nil
}
