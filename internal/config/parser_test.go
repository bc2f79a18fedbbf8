package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
# example target
[target]
name = "site"
source = "~/projects/site"
cwd = "/var/www/{{name}}"

[env.prod]
ssh = "deploy@web1"
domain = "example.com"
confirm = "true"
work_user = "www"

[env.dev]
inherit = "prod"
domain = "dev.example.com"

[files]
index = "index.html"
posts = "posts/*.html"
assets = "assets/**"

[files.pages]
include = ["index", "posts"]

[build]
pre = "npm install"
index = "make index"
all = "make all"

[build.posts]
command = """
make posts
make feed
"""

[push]
flags = ["-v"]
exclude = ["*.tmp", ".git"]
delete = "true"

[pipeline]
default = ["build:all", "push"]
full = ["build:all", "push", "remote:migrate", "post:purge"]

[alias]
d = "default"

[remote]
migrate = "bin/migrate {{env}}"
restart_root = "systemctl restart {{name}}"

[post]
purge = "curl -s https://{{domain}}/purge"
`

func TestParseSections(t *testing.T) {
	tables, err := Parse(sampleConfig)
	require.NoError(t, err)

	assert.Equal(t, "site", tables.Target.Name)
	assert.Equal(t, "~/projects/site", tables.Target.Source)
	assert.Equal(t, "/var/www/{{name}}", tables.Target.Cwd)

	prod := tables.Envs["prod"]
	require.NotNil(t, prod)
	assert.Equal(t, "deploy@web1", prod.SSH)
	assert.Equal(t, "example.com", prod.Domain)
	require.NotNil(t, prod.Confirm)
	assert.True(t, *prod.Confirm)
	assert.Equal(t, "www", prod.Extra["work_user"])

	dev := tables.Envs["dev"]
	require.NotNil(t, dev)
	assert.Equal(t, "prod", dev.Inherit)
	assert.Empty(t, dev.SSH)
	assert.Nil(t, dev.Confirm)

	assert.Equal(t, FileSet{Pattern: "posts/*.html"}, tables.Files["posts"])
	assert.Equal(t, []string{"index", "posts"}, tables.Files["pages"].Include)

	assert.Equal(t, "npm install", tables.BuildPre)
	assert.Equal(t, "make all", tables.Build["all"])
	assert.Equal(t, "make posts\nmake feed", tables.Build["posts"])

	assert.Equal(t, []string{"-v"}, tables.Push.Flags)
	assert.Equal(t, []string{"*.tmp", ".git"}, tables.Push.Exclude)
	assert.True(t, tables.Push.Delete)

	assert.Equal(t, []string{"build:all", "push"}, tables.Pipelines["default"])
	assert.Equal(t, "default", tables.Aliases["d"])
	assert.Equal(t, "bin/migrate {{env}}", tables.Remote["migrate"])
	assert.Equal(t, "curl -s https://{{domain}}/purge", tables.Post["purge"])
}

func TestParseItemOrder(t *testing.T) {
	tables, err := Parse(sampleConfig)
	require.NoError(t, err)

	// Direct [files] keys in file order; groups are not items.
	assert.Equal(t, []string{"index", "posts", "assets"}, tables.Items())
}

func TestParseAliasResolution(t *testing.T) {
	tables, err := Parse(sampleConfig)
	require.NoError(t, err)

	steps, ok := tables.Pipeline("d")
	require.True(t, ok)
	assert.Equal(t, []string{"build:all", "push"}, steps)

	_, ok = tables.Pipeline("nope")
	assert.False(t, ok)
}

func TestParseIdempotentLoad(t *testing.T) {
	first, err := Parse(sampleConfig)
	require.NoError(t, err)
	second, err := Parse(sampleConfig)
	require.NoError(t, err)

	// Nothing from the first load leaks into the second.
	assert.Equal(t, first, second)
}

func TestParseQuoting(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "escaped quote",
			text: "[remote]\ncheck = \"echo \\\"ok\\\"\"",
			want: `echo "ok"`,
		},
		{
			name: "escaped backslash",
			text: "[remote]\ncheck = \"a\\\\b\"",
			want: `a\b`,
		},
		{
			name: "single line triple quote",
			text: "[remote]\ncheck = \"\"\"echo hi\"\"\"",
			want: "echo hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tables.Remote["check"])
		})
	}
}

func TestParseLeniency(t *testing.T) {
	text := `
[target]
name = "site"
this line is not an assignment
= "no key"

[not:a:header
stray = "value"

[custom.section]
answer = "42"
`
	tables, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "site", tables.Target.Name)
	// Unknown section names are data, not errors.
	assert.Equal(t, "42", tables.Other["custom.section"]["answer"])
}

func TestParseSpaceJoinedPipeline(t *testing.T) {
	tables, err := Parse("[pipeline]\nlegacy = \"build:all push\"")
	require.NoError(t, err)
	assert.Equal(t, []string{"build:all", "push"}, tables.Pipelines["legacy"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	tables, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site", tables.Target.Name)
}
