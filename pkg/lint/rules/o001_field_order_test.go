package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/eblint/pkg/lint/rules"
)

func TestO001_FieldOrder(t *testing.T) {
	fields := []string{"a", "b", "c"}

	tests := []struct {
		name   string
		src    string
		strict bool
		want   []string
	}{
		{
			name: "in order",
			src:  "a = 1\nb = 1\nc = 1\n",
		},
		{
			name: "unordered field ignored",
			src:  "a = 1\nx = 1\nb = 1\nc = 1\n",
		},
		{
			name: "swapped",
			src:  "b = 1\na = 1\n",
			want: []string{"'b' defined before 'a'"},
		},
		{
			name: "culprit skips unordered fields",
			src:  "c = 1\nx = 1\ny = 1\na = 1\n",
			want: []string{"'c' defined before 'a'"},
		},
		{
			name: "comparison continues from latest index",
			src:  "c = 1\na = 1\nb = 1\n",
			want: []string{"'c' defined before 'a'"},
		},
		{
			name: "every regression is reported",
			src:  "c = 1\nb = 1\na = 1\n",
			want: []string{"'c' defined before 'b'", "'b' defined before 'a'"},
		},
		{
			name: "duplicate is not a regression",
			src:  "a = 1\na = 2\nb = 1\n",
		},
		{
			name: "reads are ignored",
			src:  "b = 1\nx = a\n",
		},
		{
			name: "tuple targets in source order",
			src:  "b, a = 1, 2\n",
			want: []string{"'b' defined before 'a'"},
		},
		{
			name:   "strict unordered before known",
			src:    "x = 1\na = 1\nb = 1\nc = 1\n",
			strict: true,
			want:   []string{"'x' defined before 'a'"},
		},
		{
			name:   "strict unordered after known",
			src:    "a = 1\nb = 1\nc = 1\nx = 1\ny = 1\n",
			strict: true,
		},
		{
			name:   "strict culprit is the preceding target",
			src:    "a = 1\nx = 1\nb = 1\n",
			strict: true,
			want:   []string{"'x' defined before 'b'"},
		},
		{
			name:   "strict swapped",
			src:    "b = 1\na = 1\n",
			strict: true,
			want:   []string{"'b' defined before 'a'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := rules.NewFieldOrderChecker("O001", fields, tt.strict)
			require.NoError(t, c.Visit(parse(t, tt.src)))
			assert.Equal(t, tt.want, messages(c))
		})
	}
}

func TestO001_ViolationOnTarget(t *testing.T) {
	f := parse(t, "b = 1\na = 1\n")
	c := rules.NewFieldOrderChecker("O001", []string{"a", "b"}, false)
	require.NoError(t, c.Visit(f))

	violations := c.Violations()
	require.Len(t, violations, 1)
	target := f.Stmts[1].(*syntax.AssignStmt).LHS
	assert.Same(t, target, violations[0].Node)
}

func TestO001_StateResetPerVisit(t *testing.T) {
	c := rules.NewFieldOrderChecker("O001", []string{"a", "b"}, false)

	require.NoError(t, c.Visit(parse(t, "b = 1\n")))
	assert.Equal(t, []string{"b"}, c.SeenFields())

	// "a" in a new file must not be compared against "b" from the last one.
	require.NoError(t, c.Visit(parse(t, "a = 1\n")))
	assert.Empty(t, c.Violations())
	assert.Equal(t, []string{"a"}, c.SeenFields())
}

func TestO001_DefaultOrder(t *testing.T) {
	src := `name = 'zlib'
version = '1.2.11'
homepage = 'https://www.zlib.net/'
description = 'zlib'
toolchain = SYSTEM
local_helper = 1
dependencies = []
builddependencies = []
moduleclass = 'lib'
`
	c := rules.NewFieldOrderChecker("O001", rules.DefaultFieldOrder, false)
	require.NoError(t, c.Visit(parse(t, src)))
	assert.Equal(t, []string{"'dependencies' defined before 'builddependencies'"}, messages(c))
}
