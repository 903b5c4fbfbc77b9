package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/eblint/pkg/lint/rules"
)

func TestM001_MandatoryFields(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		fields []string
		want   []string
	}{
		{
			name:   "all present",
			src:    "name = 'zlib'\nversion = '1.2.11'\n",
			fields: []string{"name", "version"},
		},
		{
			name:   "order does not matter",
			src:    "version = '1.2.11'\nname = 'zlib'\n",
			fields: []string{"name", "version"},
		},
		{
			name:   "one missing",
			src:    "name = 'zlib'\n",
			fields: []string{"name", "version"},
			want:   []string{"Missing mandatory field 'version'"},
		},
		{
			name:   "all missing",
			src:    "other = 1\n",
			fields: []string{"name", "version", "homepage"},
			want: []string{
				"Missing mandatory field 'name'",
				"Missing mandatory field 'version'",
				"Missing mandatory field 'homepage'",
			},
		},
		{
			name:   "duplicate mandatory names collapse",
			src:    "other = 1\n",
			fields: []string{"name", "name"},
			want:   []string{"Missing mandatory field 'name'"},
		},
		{
			name:   "read is not an assignment",
			src:    "x = name\n",
			fields: []string{"name"},
			want:   []string{"Missing mandatory field 'name'"},
		},
		{
			name:   "tuple unpacking binds",
			src:    "name, version = 'zlib', '1.2.11'\n",
			fields: []string{"name", "version"},
		},
		{
			name:   "augmented assignment binds",
			src:    "name += 'zlib'\n",
			fields: []string{"name"},
		},
		{
			name:   "index target does not bind",
			src:    "name = {}\nversion['x'] = 1\n",
			fields: []string{"name", "version"},
			want:   []string{"Missing mandatory field 'version'"},
		},
		{
			name:   "loop variable binds",
			src:    "for version in []:\n    pass\nname = 1\n",
			fields: []string{"name", "version"},
		},
		{
			name:   "no mandatory fields",
			src:    "",
			fields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, tt.src)
			c := rules.NewMandatoryFieldChecker("M001", tt.fields)
			require.NoError(t, c.Visit(f))
			assert.Equal(t, tt.want, messages(c))
			for _, v := range c.Violations() {
				assert.Same(t, f, v.Node, "attached to the file")
			}
		})
	}
}

func TestM001_ClearAndRerun(t *testing.T) {
	f := parse(t, "name = 'zlib'\n")
	c := rules.NewMandatoryFieldChecker("M001", rules.DefaultMandatoryFields)

	require.NoError(t, c.Visit(f))
	first := c.Violations()
	require.Len(t, first, 4)

	require.NoError(t, c.Visit(f))
	assert.Equal(t, first, c.Violations(), "a second visit collapses into the same set")

	c.ClearViolations()
	assert.Empty(t, c.Violations())
	require.NoError(t, c.Visit(f))
	assert.Equal(t, first, c.Violations())
}
