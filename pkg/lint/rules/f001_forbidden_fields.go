package rules

import (
	"slices"

	"go.starlark.net/syntax"

	"github.com/leapstack-labs/eblint/pkg/lint"
	"github.com/leapstack-labs/eblint/pkg/lint/internal/ast"
)

func init() {
	lint.Register(ForbiddenFields)
}

// ForbiddenFields reports uses of fields that must not appear in easyconfigs.
// The default list is empty; configure it with the fields option.
var ForbiddenFields = lint.RuleDef{
	ID:          "F001",
	Name:        "fields.forbidden",
	Group:       "fields",
	Description: "Configured forbidden fields are not used.",
	Severity:    lint.SeverityError,
	ConfigKeys:  []string{"fields"},
	Enabled:     true,
	Rationale:   "Sites retire fields (for example osdependencies) and want every remaining use flagged.",
	BadExample:  `osdependencies = ['openssl-devel']`,
	GoodExample: `dependencies = [('OpenSSL', '1.1')]`,
	Fix:         "Remove the field or replace it with its successor.",
	New: func(opts map[string]any) (lint.Checker, error) {
		var o forbiddenOptions
		if err := lint.DecodeOptions(opts, &o); err != nil {
			return nil, err
		}
		return NewForbiddenFieldChecker("F001", o.Fields), nil
	},
}

type forbiddenOptions struct {
	Fields []string `mapstructure:"fields"`
}

// ForbiddenFieldChecker reports every occurrence of a forbidden name, whether
// it is assigned or read.
type ForbiddenFieldChecker struct {
	lint.BaseChecker
	ast.BaseVisitor
	fields []string
}

// NewForbiddenFieldChecker creates a checker for the given names.
func NewForbiddenFieldChecker(issueCode string, fields []string) *ForbiddenFieldChecker {
	return &ForbiddenFieldChecker{
		BaseChecker: lint.NewBaseChecker(issueCode),
		fields:      slices.Clone(fields),
	}
}

// Visit walks every identifier in f.
func (c *ForbiddenFieldChecker) Visit(f *syntax.File) error {
	if len(c.fields) == 0 {
		return nil
	}
	return ast.Walk(f, c)
}

// VisitIdent reports forbidden names.
func (c *ForbiddenFieldChecker) VisitIdent(id *syntax.Ident) error {
	if slices.Contains(c.fields, id.Name) {
		c.Reportf(id, "%s should not be defined in EB config file", id.Name)
	}
	return nil
}
