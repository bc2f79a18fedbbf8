// Package session owns the persisted run context: the active org,
// target, pipeline, environment, and item selection that carry between
// CLI invocations. Every read-modify-write of the context file happens
// under a lock so concurrent invocations serialize instead of racing.
package session

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/logger"
	"github.com/shipit-cli/shipit/internal/util"
)

var log = logger.NewEnvLogger("[session]")

// contextFileName is the context file inside the shipit home directory.
const contextFileName = "context.yaml"

// Context is the session state shared between invocations.
// Modified distinguishes a user-narrowed item subset from "all items":
// a false flag means Items mirrors the target's full named file list.
type Context struct {
	Org      string   `yaml:"org,omitempty"`
	Target   string   `yaml:"target,omitempty"`
	Pipeline string   `yaml:"pipeline,omitempty"`
	Env      string   `yaml:"env,omitempty"`
	Items    []string `yaml:"items,omitempty"`
	Modified bool     `yaml:"modified,omitempty"`
}

// Store loads and saves the context file. All mutation goes through
// Update, which holds the file lock for the whole read-modify-write.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the shipit home directory.
func NewStore() *Store {
	return &Store{dir: util.HomeDir()}
}

// NewStoreAt creates a store rooted at dir. Used by tests.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the context file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, contextFileName)
}

// Load reads the persisted context. A missing file yields an empty
// context, not an error: first run is not a failure.
func (s *Store) Load() (*Context, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &Context{}, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot read session context",
			"Check permissions on "+s.Path())
	}

	var ctx Context
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		log.Warn("context file is corrupt, starting fresh: %v", err)
		return &Context{}, nil
	}
	return &ctx, nil
}

// Save writes the context atomically (write to temp, rename over).
func (s *Store) Save(ctx *Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create shipit home directory",
			"Check permissions on "+s.dir)
	}

	data, err := yaml.Marshal(ctx)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot serialize session context", "")
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write session context",
			"Check permissions on "+s.dir)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot replace session context file",
			"Check permissions on "+s.dir)
	}
	return nil
}

// Update runs fn against the current context under the file lock and
// persists the result. If fn returns an error nothing is saved.
func (s *Store) Update(fn func(*Context) error) error {
	lock, err := Acquire(s.dir)
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return err
	}
	return s.Save(ctx)
}
