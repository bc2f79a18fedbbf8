package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expandTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := Parse(sampleConfig)
	require.NoError(t, err)
	return tables
}

func TestVarsOwnEnv(t *testing.T) {
	tables := expandTables(t)

	vars, err := tables.Vars("prod", "")
	require.NoError(t, err)

	assert.Equal(t, "site", vars["name"])
	assert.Equal(t, "prod", vars["env"])
	assert.Equal(t, "deploy@web1", vars["ssh"])
	assert.Equal(t, "example.com", vars["domain"])
	assert.Equal(t, "www", vars["work_user"])
}

func TestVarsInheritance(t *testing.T) {
	tables := expandTables(t)

	vars, err := tables.Vars("dev", "")
	require.NoError(t, err)

	// Own values win, missing ones come from the parent.
	assert.Equal(t, "dev.example.com", vars["domain"])
	assert.Equal(t, "deploy@web1", vars["ssh"])
	assert.Equal(t, "www", vars["work_user"])
	assert.Equal(t, "dev", vars["env"])
}

func TestVarsInheritanceDeterministic(t *testing.T) {
	tables := expandTables(t)

	first, err := tables.Vars("dev", "")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := tables.Vars("dev", "")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestVarsFilesOverride(t *testing.T) {
	tables := expandTables(t)

	vars, err := tables.Vars("prod", "posts/*.html assets/**")
	require.NoError(t, err)
	assert.Equal(t, "posts/*.html assets/**", vars["files"])
}

func TestVarsUnknownEnv(t *testing.T) {
	tables := expandTables(t)

	_, err := tables.Vars("staging", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging")
}

func TestVarsTimestamp(t *testing.T) {
	tables := expandTables(t)

	orig := timeNow
	timeNow = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	}
	defer func() { timeNow = orig }()

	vars, err := tables.Vars("prod", "")
	require.NoError(t, err)
	assert.Equal(t, "20240315-103045", vars["timestamp"])
}

func TestConfirmRequired(t *testing.T) {
	tables, err := Parse(`
[env.prod]
confirm = "true"

[env.dev]
inherit = "prod"

[env.sandbox]
inherit = "prod"
confirm = "false"

[env.open]
ssh = "u@h"
`)
	require.NoError(t, err)

	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"own value", "prod", true},
		{"inherited from parent", "dev", true},
		{"child overrides parent", "sandbox", false},
		{"unset with no parent", "open", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tables.ConfirmRequired(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = tables.ConfirmRequired("ghost")
	require.Error(t, err)
}

func TestSubstitute(t *testing.T) {
	vars := map[string]string{
		"name":   "site",
		"domain": "example.com",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single", "deploy {{name}}", "deploy site"},
		{"repeated", "{{name}}-{{name}}", "site-site"},
		{"mixed", "https://{{domain}}/{{name}}", "https://example.com/site"},
		{"unknown is empty", "pre{{missing}}post", "prepost"},
		{"no tokens", "plain text", "plain text"},
		{"malformed stays", "{{unclosed", "{{unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substitute(tt.in, vars))
		})
	}
}

func TestExpand(t *testing.T) {
	tables := expandTables(t)

	got, err := tables.Expand("cd {{cwd}} && bin/migrate {{env}}", "prod", "")
	require.NoError(t, err)
	assert.Equal(t, "cd /var/www/site && bin/migrate prod", got)
}
