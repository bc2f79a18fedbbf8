package session

import (
	"path"

	"github.com/shipit-cli/shipit/internal/config"
	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/util"
)

// Reset restores the full item list: every direct [files] key of the
// target, in file order. Groups are derived sets and never items.
func Reset(ctx *Context, tables *config.Tables) {
	ctx.Items = tables.Items()
	ctx.Modified = false
}

// Exclude removes names from the current items and marks the selection
// modified. An empty result is an error and leaves the context untouched.
func Exclude(ctx *Context, names []string) error {
	kept := make([]string, 0, len(ctx.Items))
	for _, item := range ctx.Items {
		if !util.Contains(names, item) {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return emptySelection()
	}
	ctx.Items = kept
	ctx.Modified = true
	return nil
}

// IncludeOnly narrows the current items to those in names, preserving
// the original order. An empty result is an error and leaves the
// context untouched.
func IncludeOnly(ctx *Context, names []string) error {
	kept := make([]string, 0, len(names))
	for _, item := range ctx.Items {
		if util.Contains(names, item) {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return emptySelection()
	}
	ctx.Items = kept
	ctx.Modified = true
	return nil
}

// FilterGlob keeps only items matching the glob pattern.
func FilterGlob(ctx *Context, pattern string) error {
	kept := make([]string, 0, len(ctx.Items))
	for _, item := range ctx.Items {
		ok, err := path.Match(pattern, item)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrSelect,
				"Bad glob pattern: "+pattern,
				"Patterns use shell glob syntax, e.g. api-* or *.html.")
		}
		if ok {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return emptySelection()
	}
	ctx.Items = kept
	ctx.Modified = true
	return nil
}

// OneShot applies include/exclude logic to a copy of items without
// touching the session. Ad-hoc {items} address syntax goes through here
// so single-invocation narrowing never corrupts the saved context.
// When both sets are supplied include-only wins; exclude applies only
// when no include set is present.
func OneShot(items, include, exclude []string) ([]string, error) {
	if len(include) > 0 {
		kept := make([]string, 0, len(include))
		for _, item := range items {
			if util.Contains(include, item) {
				kept = append(kept, item)
			}
		}
		if len(kept) == 0 {
			return nil, emptySelection()
		}
		return kept, nil
	}

	if len(exclude) > 0 {
		kept := make([]string, 0, len(items))
		for _, item := range items {
			if !util.Contains(exclude, item) {
				kept = append(kept, item)
			}
		}
		if len(kept) == 0 {
			return nil, emptySelection()
		}
		return kept, nil
	}

	out := make([]string, len(items))
	copy(out, items)
	return out, nil
}

func emptySelection() error {
	return errors.New(errors.ErrSelect,
		"Item selection is empty",
		"Run 'shipit items reset' to restore the full set.")
}
