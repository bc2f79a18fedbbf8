// Package org resolves org-level settings: where an org's target files
// live, and per-environment credential overrides (host, auth user, work
// user). The registry lives in $SHIPIT_HOME/config.yaml.
package org

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/shipit-cli/shipit/internal/errors"
	"github.com/shipit-cli/shipit/internal/util"
)

// RegistryFileName is the org registry file inside the shipit home dir.
const RegistryFileName = "config.yaml"

// Creds are the per-environment overrides an org supplies on top of the
// target's own [env.<name>] profile.
type Creds struct {
	Host     string `yaml:"host" mapstructure:"host"`
	User     string `yaml:"user" mapstructure:"user"`
	WorkUser string `yaml:"work_user" mapstructure:"work_user"`
}

// Org holds one org's settings.
type Org struct {
	// TargetsDir is where the org's target config files live.
	// Defaults to <home>/targets/<org>.
	TargetsDir string `yaml:"targets_dir" mapstructure:"targets_dir"`

	// Envs maps environment names to credential overrides.
	Envs map[string]Creds `yaml:"envs" mapstructure:"envs"`
}

// Registry is the parsed org registry.
type Registry struct {
	DefaultOrg string         `yaml:"default_org" mapstructure:"default_org"`
	Orgs       map[string]Org `yaml:"orgs" mapstructure:"orgs"`

	home string
}

// Load reads the registry from the shipit home directory. A missing
// registry file yields an empty registry: single-org setups work with
// no registry at all.
func Load() (*Registry, error) {
	return LoadFrom(util.HomeDir())
}

// LoadFrom reads the registry rooted at home. Used by tests.
func LoadFrom(home string) (*Registry, error) {
	reg := &Registry{Orgs: make(map[string]Org), home: home}

	path := filepath.Join(home, RegistryFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return reg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read org registry",
			"Check the YAML syntax in "+path)
	}
	if err := v.Unmarshal(reg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid org registry format",
			"Check the structure of "+path)
	}
	reg.home = home
	return reg, nil
}

// Resolve picks the effective org name: the address override if given,
// else the registry default, else "default".
func (r *Registry) Resolve(override string) string {
	if override != "" {
		return override
	}
	if r.DefaultOrg != "" {
		return r.DefaultOrg
	}
	return "default"
}

// TargetPath locates the configuration file for a target under an org.
// The file must exist; an unknown target is a hard error before any
// step runs.
func (r *Registry) TargetPath(orgName, target string) (string, error) {
	dir := r.targetsDir(orgName)
	path := filepath.Join(dir, target+".toml")
	if _, err := os.Stat(path); err != nil {
		return "", errors.New(errors.ErrTarget,
			fmt.Sprintf("Unknown target %q in org %q", target, orgName),
			"Expected a config file at "+path)
	}
	return path, nil
}

// Creds returns the org's overrides for an environment. Zero value when
// the org or environment has none.
func (r *Registry) Creds(orgName, env string) Creds {
	o, ok := r.Orgs[orgName]
	if !ok {
		return Creds{}
	}
	return o.Envs[env]
}

func (r *Registry) targetsDir(orgName string) string {
	if o, ok := r.Orgs[orgName]; ok && o.TargetsDir != "" {
		return util.ExpandTilde(o.TargetsDir)
	}
	return filepath.Join(r.home, "targets", orgName)
}
