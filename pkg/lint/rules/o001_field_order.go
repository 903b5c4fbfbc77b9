package rules

import (
	"math"
	"slices"

	"go.starlark.net/syntax"

	"github.com/leapstack-labs/eblint/pkg/lint"
	"github.com/leapstack-labs/eblint/pkg/lint/internal/ast"
)

func init() {
	lint.Register(FieldOrder)
	lint.Register(StrictHeaderOrder)
}

// DefaultFieldOrder is the canonical order of common easyconfig fields.
var DefaultFieldOrder = []string{
	"easyblock",
	"name",
	"version",
	"versionsuffix",
	"homepage",
	"description",
	"toolchain",
	"toolchainopts",
	"source_urls",
	"sources",
	"patches",
	"checksums",
	"builddependencies",
	"dependencies",
	"configopts",
	"buildopts",
	"installopts",
	"sanity_check_paths",
	"sanity_check_commands",
	"modextrapaths",
	"modextravars",
	"moduleclass",
}

// DefaultHeaderOrder is the block of fields that opens every easyconfig.
var DefaultHeaderOrder = []string{
	"easyblock",
	"name",
	"version",
	"versionsuffix",
	"homepage",
	"description",
	"toolchain",
}

// FieldOrder checks the relative order of known fields.
var FieldOrder = lint.RuleDef{
	ID:          "O001",
	Name:        "ordering.canonical",
	Group:       "ordering",
	Description: "Known fields appear in the canonical order.",
	Severity:    lint.SeverityWarning,
	ConfigKeys:  []string{"fields", "strict"},
	Enabled:     true,
	Rationale:   "A fixed field order makes easyconfigs easy to scan and diff against each other. Fields outside the list may appear anywhere.",
	BadExample: `version = '1.2.11'
name = 'zlib'`,
	GoodExample: `name = 'zlib'
version = '1.2.11'`,
	Fix: "Move the field after the one named in the message.",
	New: func(opts map[string]any) (lint.Checker, error) {
		o := orderOptions{Fields: DefaultFieldOrder}
		if err := lint.DecodeOptions(opts, &o); err != nil {
			return nil, err
		}
		return NewFieldOrderChecker("O001", o.Fields, o.Strict), nil
	},
}

// StrictHeaderOrder requires the header fields to come first, in order,
// before any other assignment.
var StrictHeaderOrder = lint.RuleDef{
	ID:          "O002",
	Name:        "ordering.strict_header",
	Group:       "ordering",
	Description: "Header fields come first and in order, before any other assignment.",
	Severity:    lint.SeverityWarning,
	ConfigKeys:  []string{"fields", "strict"},
	Rationale:   "Local helper variables placed above the header hide the identity of the package.",
	BadExample: `local_pyver = '3.9.5'
name = 'mypkg'`,
	GoodExample: `name = 'mypkg'
local_pyver = '3.9.5'`,
	Fix: "Move the assignment below the header fields.",
	New: func(opts map[string]any) (lint.Checker, error) {
		o := orderOptions{Fields: DefaultHeaderOrder, Strict: true}
		if err := lint.DecodeOptions(opts, &o); err != nil {
			return nil, err
		}
		return NewFieldOrderChecker("O002", o.Fields, o.Strict), nil
	},
}

type orderOptions struct {
	Fields []string `mapstructure:"fields"`
	Strict bool     `mapstructure:"strict"`
}

// unorderedIndex sorts after every prescribed field.
const unorderedIndex = math.MaxInt

// FieldOrderChecker reports assignments that break the prescribed order.
//
// In non-strict mode only prescribed fields take part and others may be
// interleaved freely. In strict mode every assignment takes part, with
// unknown names sorting after all prescribed fields, so an unknown name
// ahead of a prescribed one is a violation.
type FieldOrderChecker struct {
	lint.BaseChecker
	index  map[string]int
	strict bool

	seenFields  []string
	seenIndices []int
}

// NewFieldOrderChecker creates a checker for the given field order.
// When a name is listed twice its first position counts.
func NewFieldOrderChecker(issueCode string, fields []string, strict bool) *FieldOrderChecker {
	index := make(map[string]int, len(fields))
	for i, name := range fields {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return &FieldOrderChecker{
		BaseChecker: lint.NewBaseChecker(issueCode),
		index:       index,
		strict:      strict,
	}
}

// Strict reports whether the checker runs in strict mode.
func (c *FieldOrderChecker) Strict() bool {
	return c.strict
}

// Visit walks the assignment targets of f in source order.
func (c *FieldOrderChecker) Visit(f *syntax.File) error {
	c.seenFields = c.seenFields[:0]
	c.seenIndices = append(c.seenIndices[:0], -1)
	return ast.Walk(f, c)
}

// VisitAssign descends into every assignment.
func (c *FieldOrderChecker) VisitAssign(*syntax.AssignStmt) (bool, error) {
	return true, nil
}

// VisitIdent ignores reads.
func (c *FieldOrderChecker) VisitIdent(*syntax.Ident) error {
	return nil
}

// VisitTarget compares the target against the latest recorded index.
func (c *FieldOrderChecker) VisitTarget(id *syntax.Ident) error {
	idx, known := c.index[id.Name]
	if !known {
		if !c.strict {
			return nil
		}
		idx = unorderedIndex
	}

	if idx < c.seenIndices[len(c.seenIndices)-1] {
		// Only participating names are recorded, so the previous entry is
		// the culprit in both modes.
		c.Reportf(id, "'%s' defined before '%s'", c.seenFields[len(c.seenFields)-1], id.Name)
	}

	c.seenIndices = append(c.seenIndices, idx)
	c.seenFields = append(c.seenFields, id.Name)
	return nil
}

// SeenFields returns the participating names of the last visit in order.
func (c *FieldOrderChecker) SeenFields() []string {
	return slices.Clone(c.seenFields)
}
