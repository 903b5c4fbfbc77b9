package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/eblint/pkg/lint/rules"
)

func TestD001_DependencyFormat(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "well formed",
			src:  `dependencies = [("zlib", "1.2.11")]`,
		},
		{
			name: "bad version",
			src:  `dependencies = [("zlib", "1.2.x")]`,
			want: []string{"Incorrectly formatted package name/version: '1.2.x'"},
		},
		{
			name: "bad name",
			src:  `dependencies = [("zlib-ng", "2.0")]`,
			want: []string{"Incorrectly formatted package name/version: 'zlib-ng'"},
		},
		{
			name: "both bad",
			src:  `builddependencies = [("a b", "v1")]`,
			want: []string{
				"Incorrectly formatted package name/version: 'a b'",
				"Incorrectly formatted package name/version: 'v1'",
			},
		},
		{
			name: "version must fully match",
			src:  `dependencies = [("zlib", "1.2.11-rc1")]`,
			want: []string{"Incorrectly formatted package name/version: '1.2.11-rc1'"},
		},
		{
			name: "unicode word characters",
			src:  `dependencies = [("Søren_2", "1")]`,
		},
		{
			name: "unicode decimal digits in version",
			src:  `dependencies = [("zlib", "١.٢")]`,
		},
		{
			name: "non-decimal numerals in version",
			src:  `dependencies = [("zlib", "Ⅻ")]`,
			want: []string{"Incorrectly formatted package name/version: 'Ⅻ'"},
		},
		{
			name: "empty name matches",
			src:  `dependencies = [("", "1.0")]`,
		},
		{
			name: "numeric literals use source text",
			src:  `dependencies = [("zlib", 1.2), ("bzip2", 1.0e3)]`,
			want: []string{"Incorrectly formatted package name/version: '1.0e3'"},
		},
		{
			name: "extra tuple elements are not checked",
			src:  `dependencies = [("Python", "3.9.5", "-bare", SYSTEM)]`,
		},
		{
			name: "version alias resolved",
			src:  "v = \"1.2.11\"\ndependencies = [(\"zlib\", v)]",
		},
		{
			name: "bad version alias",
			src:  "v = \"1.2.x\"\ndependencies = [(\"zlib\", v)]",
			want: []string{"Incorrectly formatted package name/version: '1.2.x'"},
		},
		{
			name: "list alias resolved",
			src:  "local_deps = [(\"zlib\", \"1.x\")]\ndependencies = local_deps",
			want: []string{"Incorrectly formatted package name/version: '1.x'"},
		},
		{
			name: "last writer wins",
			src:  "v = \"bad\"\nv = \"1.0\"\ndependencies = [(\"zlib\", v)]",
		},
		{
			name: "augmented assignment checked",
			src:  "dependencies = []\ndependencies += [(\"zlib\", \"x\")]",
			want: []string{"Incorrectly formatted package name/version: 'x'"},
		},
		{
			name: "tuple of tuples",
			src:  `dependencies = (("zlib", "1.2.11"), ("bzip2", "1.0.8"))`,
		},
		{
			name: "empty list",
			src:  `dependencies = []`,
		},
		{
			name: "other fields ignored",
			src:  `osdependencies = [("openssl-devel", "any")]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := rules.NewDependencyFormatChecker("D001", rules.DefaultDependencyKeywords)
			require.NoError(t, c.Visit(parse(t, tt.src+"\n")))
			assert.Equal(t, tt.want, messages(c))
		})
	}
}

func TestD001_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		msg     string
	}{
		{
			name:    "unassigned alias",
			src:     `dependencies = [("zlib", v)]`,
			wantErr: rules.ErrUnresolvedName,
			msg:     "v at 1:25",
		},
		{
			name:    "unassigned list alias",
			src:     `dependencies = local_deps`,
			wantErr: rules.ErrUnresolvedName,
		},
		{
			name:    "alias assigned later",
			src:     "dependencies = [(\"zlib\", v)]\nv = \"1.0\"",
			wantErr: rules.ErrUnresolvedName,
		},
		{
			name:    "alias of alias",
			src:     "a = \"1.0\"\nb = a\ndependencies = [(\"zlib\", b)]",
			wantErr: rules.ErrUnresolvedName,
			msg:     "refers to alias a",
		},
		{
			name:    "not a list",
			src:     `dependencies = "zlib"`,
			wantErr: rules.ErrMalformedDependency,
		},
		{
			name:    "entry not a tuple",
			src:     `dependencies = ["zlib"]`,
			wantErr: rules.ErrMalformedDependency,
		},
		{
			name:    "entry too short",
			src:     `dependencies = [("zlib",)]`,
			wantErr: rules.ErrMalformedDependency,
		},
		{
			name:    "computed element",
			src:     `dependencies = [("zlib", "1." + "2")]`,
			wantErr: rules.ErrMalformedDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := rules.NewDependencyFormatChecker("D001", rules.DefaultDependencyKeywords)
			err := c.Visit(parse(t, tt.src+"\n"))
			require.ErrorIs(t, err, tt.wantErr)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestD001_ViolationOnElement(t *testing.T) {
	f := parse(t, "v = \"bad\"\ndependencies = [(\"zlib\", v)]\n")
	c := rules.NewDependencyFormatChecker("D001", rules.DefaultDependencyKeywords)
	require.NoError(t, c.Visit(f))

	violations := c.Violations()
	require.Len(t, violations, 1)
	ref, ok := violations[0].Node.(*syntax.Ident)
	require.True(t, ok, "attached to the reference, not the aliased literal")
	assert.Equal(t, "v", ref.Name)
}

func TestD001_StoredNamesResetPerVisit(t *testing.T) {
	c := rules.NewDependencyFormatChecker("D001", rules.DefaultDependencyKeywords)
	require.NoError(t, c.Visit(parse(t, "v = \"1.0\"\n")))

	err := c.Visit(parse(t, "dependencies = [(\"zlib\", v)]\n"))
	require.ErrorIs(t, err, rules.ErrUnresolvedName)
}

func TestD001_CustomKeywords(t *testing.T) {
	c := rules.NewDependencyFormatChecker("D001", []string{"osdependencies"})
	require.NoError(t, c.Visit(parse(t, "osdependencies = [(\"openssl-devel\", \"1\")]\ndependencies = [(\"x\", \"bad\")]\n")))
	assert.Equal(t, []string{"Incorrectly formatted package name/version: 'openssl-devel'"}, messages(c))
}
