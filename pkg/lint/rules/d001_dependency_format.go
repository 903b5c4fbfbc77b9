package rules

import (
	"fmt"
	"regexp"
	"slices"

	"go.starlark.net/syntax"

	"github.com/leapstack-labs/eblint/pkg/lint"
	"github.com/leapstack-labs/eblint/pkg/lint/internal/ast"
)

func init() {
	lint.Register(DependencyFormat)
}

// DefaultDependencyKeywords are the fields holding dependency lists.
var DefaultDependencyKeywords = []string{"dependencies", "builddependencies"}

var (
	packageNamePattern = regexp.MustCompile(`^[\p{L}\p{N}_]*$`)
	versionPattern     = regexp.MustCompile(`^\p{Nd}+(\.\p{Nd}+)*$`)
)

// DependencyFormat checks package names and versions in dependency lists.
var DependencyFormat = lint.RuleDef{
	ID:          "D001",
	Name:        "dependencies.format",
	Group:       "dependencies",
	Description: "Dependency tuples carry a plain package name and a dotted numeric version.",
	Severity:    lint.SeverityError,
	ConfigKeys:  []string{"keywords"},
	Enabled:     true,
	Rationale:   "EasyBuild resolves dependencies by name and version; a malformed entry fails late, at build time.",
	BadExample:  `dependencies = [('zlib', '1.2.x')]`,
	GoodExample: `dependencies = [('zlib', '1.2.11')]`,
	Fix:         "Use the package name and its numeric version. Put suffixes in the third tuple element.",
	New: func(opts map[string]any) (lint.Checker, error) {
		o := dependencyOptions{Keywords: DefaultDependencyKeywords}
		if err := lint.DecodeOptions(opts, &o); err != nil {
			return nil, err
		}
		return NewDependencyFormatChecker("D001", o.Keywords), nil
	},
}

type dependencyOptions struct {
	Keywords []string `mapstructure:"keywords"`
}

// DependencyFormatChecker validates the first two elements of every tuple
// assigned to a dependency keyword. Names and tuple elements may be aliases
// of earlier plain assignments; aliases resolve one level only.
type DependencyFormatChecker struct {
	lint.BaseChecker
	keywords []string

	storedNames map[string]syntax.Expr
}

// NewDependencyFormatChecker creates a checker for the given keywords.
func NewDependencyFormatChecker(issueCode string, keywords []string) *DependencyFormatChecker {
	return &DependencyFormatChecker{
		BaseChecker: lint.NewBaseChecker(issueCode),
		keywords:    slices.Clone(keywords),
	}
}

// Visit walks the assignments of f in source order. It fails with
// ErrUnresolvedName or ErrMalformedDependency when a dependency list cannot
// be interpreted.
func (c *DependencyFormatChecker) Visit(f *syntax.File) error {
	c.storedNames = make(map[string]syntax.Expr)
	return ast.Walk(f, c)
}

// VisitAssign checks dependency assignments and stores the others.
func (c *DependencyFormatChecker) VisitAssign(stmt *syntax.AssignStmt) (bool, error) {
	id, ok := ast.Unparen(stmt.LHS).(*syntax.Ident)
	if !ok {
		return true, nil
	}

	if slices.Contains(c.keywords, id.Name) {
		return false, c.checkDependencies(stmt.RHS)
	}

	if stmt.Op == syntax.EQ {
		c.storedNames[id.Name] = stmt.RHS
	}
	return true, nil
}

// VisitTarget is a no-op.
func (c *DependencyFormatChecker) VisitTarget(*syntax.Ident) error { return nil }

// VisitIdent is a no-op.
func (c *DependencyFormatChecker) VisitIdent(*syntax.Ident) error { return nil }

func (c *DependencyFormatChecker) checkDependencies(rhs syntax.Expr) error {
	value, err := c.resolve(rhs)
	if err != nil {
		return err
	}

	var entries []syntax.Expr
	switch v := value.(type) {
	case *syntax.ListExpr:
		entries = v.List
	case *syntax.TupleExpr:
		entries = v.List
	default:
		return malformed(rhs, "expected a list of tuples")
	}

	for _, entry := range entries {
		elems, ok := tupleElements(entry)
		if !ok || len(elems) < 2 {
			return malformed(entry, "expected a tuple of at least (name, version)")
		}
		if err := c.checkElement(elems[0], packageNamePattern); err != nil {
			return err
		}
		if err := c.checkElement(elems[1], versionPattern); err != nil {
			return err
		}
	}
	return nil
}

// checkElement reports elem when its resolved value does not fully match
// pattern. The violation is attached to elem itself, literal or reference.
func (c *DependencyFormatChecker) checkElement(elem syntax.Expr, pattern *regexp.Regexp) error {
	value, err := c.resolve(elem)
	if err != nil {
		return err
	}
	lit, ok := value.(*syntax.Literal)
	if !ok {
		return malformed(elem, "expected a literal or a name bound to a literal")
	}
	text := literalText(lit)
	if !pattern.MatchString(text) {
		c.Reportf(elem, "Incorrectly formatted package name/version: '%s'", text)
	}
	return nil
}

// resolve unwraps parentheses and follows a single alias.
func (c *DependencyFormatChecker) resolve(expr syntax.Expr) (syntax.Expr, error) {
	expr = ast.Unparen(expr)
	id, ok := expr.(*syntax.Ident)
	if !ok {
		return expr, nil
	}
	stored, ok := c.storedNames[id.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s at %s", ErrUnresolvedName, id.Name, positionString(id))
	}
	stored = ast.Unparen(stored)
	if alias, ok := stored.(*syntax.Ident); ok {
		return nil, fmt.Errorf("%w: %s refers to alias %s at %s", ErrUnresolvedName, id.Name, alias.Name, positionString(id))
	}
	return stored, nil
}

func tupleElements(expr syntax.Expr) ([]syntax.Expr, bool) {
	switch t := ast.Unparen(expr).(type) {
	case *syntax.TupleExpr:
		return t.List, true
	case *syntax.ListExpr:
		return t.List, true
	}
	return nil, false
}

// literalText returns the value of a string literal, or the source text of
// a numeric one.
func literalText(lit *syntax.Literal) string {
	if s, ok := lit.Value.(string); ok {
		return s
	}
	return lit.Raw
}

func malformed(node syntax.Node, msg string) error {
	return fmt.Errorf("%w: %s at %s", ErrMalformedDependency, msg, positionString(node))
}

func positionString(node syntax.Node) string {
	pos, _ := lint.PositionOf(node)
	return pos.String()
}
