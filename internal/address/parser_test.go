package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Address
	}{
		{
			name: "target only",
			in:   "site",
			want: Address{Target: "site"},
		},
		{
			name: "target and pipeline",
			in:   "site:full",
			want: Address{Target: "site", Pipeline: "full"},
		},
		{
			name: "org target pipeline",
			in:   "acme:site:full",
			want: Address{Org: "acme", Target: "site", Pipeline: "full"},
		},
		{
			name: "include items",
			in:   "site:{index,posts}",
			want: Address{
				Target: "site",
				Items:  Selection{Kind: SelectInclude, Names: []string{"index", "posts"}},
			},
		},
		{
			name: "exclude items",
			in:   "site:{!assets,media}",
			want: Address{
				Target: "site",
				Items:  Selection{Kind: SelectExclude, Names: []string{"assets", "media"}},
			},
		},
		{
			name: "group token",
			in:   "site:full:{@content}",
			want: Address{
				Target:   "site",
				Pipeline: "full",
				Items:    Selection{Kind: SelectGroup, Group: "content"},
			},
		},
		{
			name: "tilde shorthand",
			in:   "site:~index",
			want: Address{
				Target: "site",
				Items:  Selection{Kind: SelectInclude, Names: []string{"index"}},
			},
		},
		{
			name: "full form",
			in:   "acme:site:full:{index}",
			want: Address{
				Org:      "acme",
				Target:   "site",
				Pipeline: "full",
				Items:    Selection{Kind: SelectInclude, Names: []string{"index"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"empty", "", "Empty address"},
		{"blank", "   ", "Empty address"},
		{"mixed markers", "proj:{a,!b}", "mixes include and exclude"},
		{"empty braces", "site:{}", "Empty item selection"},
		{"empty name", "site:{a,,b}", "Empty item name"},
		{"bare tilde", "site:~", "needs a name"},
		{"unterminated", "site:{a,b", "Unterminated"},
		{"group with comma", "site:{@a,b}", "exactly one group name"},
		{"group mixed with names", "site:{a,@g}", "cannot be mixed"},
		{"too many segments", "a:b:c:d", "Too many segments"},
		{"empty segment", "site::prod", "empty segment"},
		{"trailing colon", "site:", "empty segment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
