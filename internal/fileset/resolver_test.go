package fileset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipit-cli/shipit/internal/config"
)

func tablesFrom(t *testing.T, text string) *config.Tables {
	t.Helper()
	tables, err := config.Parse(text)
	require.NoError(t, err)
	return tables
}

const groupConfig = `
[files]
index = "index.html"
posts = "posts/*.html"
feed = "feed.xml"

[files.content]
include = ["index", "posts"]

[files.everything]
include = ["content", "feed", "posts"]
`

func TestResolveLiteral(t *testing.T) {
	tables := tablesFrom(t, groupConfig)

	patterns, err := Resolve("posts", tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts/*.html"}, patterns)
}

func TestResolveGroupOrder(t *testing.T) {
	tables := tablesFrom(t, groupConfig)

	patterns, err := Resolve("content", tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html", "posts/*.html"}, patterns)
}

func TestResolveNestedKeepsDuplicates(t *testing.T) {
	tables := tablesFrom(t, groupConfig)

	patterns, err := Resolve("everything", tables)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"index.html", "posts/*.html", "feed.xml", "posts/*.html"},
		patterns)
}

func TestResolveUnknown(t *testing.T) {
	tables := tablesFrom(t, groupConfig)

	_, err := Resolve("ghost", tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestResolveCycle(t *testing.T) {
	tables := tablesFrom(t, `
[files.a]
include = ["b"]

[files.b]
include = ["a"]
`)

	_, err := Resolve("a", tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestMembers(t *testing.T) {
	tables := tablesFrom(t, groupConfig)

	names, err := Members("everything", tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"index", "posts", "feed", "posts"}, names)
}

func TestMembersLeaf(t *testing.T) {
	tables := tablesFrom(t, groupConfig)

	names, err := Members("feed", tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"feed"}, names)
}
