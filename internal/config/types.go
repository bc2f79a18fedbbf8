package config

// Target identifies a deployable unit: its name, the local source
// directory the files ship from, and the remote working directory
// template commands run in.
type Target struct {
	Name   string
	Source string
	Cwd    string
}

// Env is one environment profile from an [env.<name>] section.
// Fields not set on an environment fall back to the environment named
// by Inherit, one level deep.
type Env struct {
	SSH    string
	User   string
	Domain string
	// Confirm is nil when the key is absent, so an unset value can fall
	// back to the inherited parent like the other fields.
	Confirm *bool
	Inherit string

	// Extra holds custom keys (work_user, deploy-specific paths, ...).
	// They are exposed to templates under their own names.
	Extra map[string]string
}

// FileSet is one entry of the [files] tables: either a literal pattern
// (direct key) or a group composed from other file-set names.
type FileSet struct {
	Pattern string
	Include []string
}

// IsGroup reports whether the entry is a group definition.
func (fs FileSet) IsGroup() bool {
	return len(fs.Include) > 0
}

// Push holds the [push] transfer settings.
type Push struct {
	// Flags are extra rsync flags.
	Flags []string

	// Exclude patterns never transferred (rsync syntax).
	Exclude []string

	// Delete removes remote files missing locally.
	Delete bool
}

// Tables is the fully parsed contents of one target configuration file.
// A fresh value is produced on every Load; nothing is shared between loads.
type Tables struct {
	Target    Target
	Envs      map[string]*Env
	Files     map[string]FileSet
	FileOrder []string // direct (non-group) [files] keys, in file order
	BuildPre  string
	Build     map[string]string
	Push      Push
	Pipelines map[string][]string
	Aliases   map[string]string
	Remote    map[string]string
	Post      map[string]string

	// Other keeps sections this tool doesn't know about. Unknown section
	// names are data, not errors.
	Other map[string]map[string]string
}

// newTables returns an empty, fully initialized table set.
func newTables() *Tables {
	return &Tables{
		Envs:      make(map[string]*Env),
		Files:     make(map[string]FileSet),
		Build:     make(map[string]string),
		Pipelines: make(map[string][]string),
		Aliases:   make(map[string]string),
		Remote:    make(map[string]string),
		Post:      make(map[string]string),
		Other:     make(map[string]map[string]string),
	}
}

// Pipeline returns the step tokens for name, resolving aliases first.
// The bool reports whether the pipeline exists.
func (t *Tables) Pipeline(name string) ([]string, bool) {
	if real, ok := t.Aliases[name]; ok {
		name = real
	}
	steps, ok := t.Pipelines[name]
	return steps, ok
}

// Items returns the direct (non-group) [files] keys in file order.
// These are the named files a user selects between; groups are derived
// and never appear in the item list.
func (t *Tables) Items() []string {
	items := make([]string, 0, len(t.FileOrder))
	for _, name := range t.FileOrder {
		if fs, ok := t.Files[name]; ok && !fs.IsGroup() {
			items = append(items, name)
		}
	}
	return items
}
