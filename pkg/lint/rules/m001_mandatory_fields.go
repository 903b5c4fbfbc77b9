package rules

import (
	"slices"

	"go.starlark.net/syntax"

	"github.com/leapstack-labs/eblint/pkg/lint"
	"github.com/leapstack-labs/eblint/pkg/lint/internal/ast"
)

func init() {
	lint.Register(MandatoryFields)
}

// DefaultMandatoryFields are the fields every easyconfig must assign.
var DefaultMandatoryFields = []string{"name", "version", "homepage", "description", "toolchain"}

// MandatoryFields reports mandatory fields that are never assigned.
var MandatoryFields = lint.RuleDef{
	ID:          "M001",
	Name:        "fields.mandatory",
	Group:       "fields",
	Description: "Mandatory easyconfig fields must be assigned.",
	Severity:    lint.SeverityError,
	ConfigKeys:  []string{"fields"},
	Enabled:     true,
	Rationale:   "EasyBuild refuses to process an easyconfig without a name, version, homepage, description and toolchain.",
	BadExample: `name = 'zlib'
version = '1.2.11'`,
	GoodExample: `name = 'zlib'
version = '1.2.11'
homepage = 'https://www.zlib.net/'
description = "zlib compression library"
toolchain = SYSTEM`,
	Fix: "Add the missing field assignment.",
	New: func(opts map[string]any) (lint.Checker, error) {
		o := mandatoryOptions{Fields: DefaultMandatoryFields}
		if err := lint.DecodeOptions(opts, &o); err != nil {
			return nil, err
		}
		return NewMandatoryFieldChecker("M001", o.Fields), nil
	},
}

type mandatoryOptions struct {
	Fields []string `mapstructure:"fields"`
}

// MandatoryFieldChecker reports each mandatory field that is never the
// target of an assignment. Violations are attached to the file.
type MandatoryFieldChecker struct {
	lint.BaseChecker
	fields []string
}

// NewMandatoryFieldChecker creates a checker for the given field names.
// Duplicate names are harmless.
func NewMandatoryFieldChecker(issueCode string, fields []string) *MandatoryFieldChecker {
	return &MandatoryFieldChecker{
		BaseChecker: lint.NewBaseChecker(issueCode),
		fields:      slices.Clone(fields),
	}
}

// Visit records every assignment target, then reports the mandatory fields
// that were never seen.
func (c *MandatoryFieldChecker) Visit(f *syntax.File) error {
	v := &targetRecorder{}
	if err := ast.Walk(f, v); err != nil {
		return err
	}
	for _, name := range c.fields {
		if !slices.Contains(v.seen, name) {
			c.Reportf(f, "Missing mandatory field '%s'", name)
		}
	}
	return nil
}

type targetRecorder struct {
	ast.BaseVisitor
	seen []string
}

func (r *targetRecorder) VisitTarget(id *syntax.Ident) error {
	r.seen = append(r.seen, id.Name)
	return nil
}
