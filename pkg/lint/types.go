package lint

import (
	"errors"
	"fmt"

	"go.starlark.net/syntax"
)

// ErrViolations is returned by callers that want to signal that linting
// completed and found violations. It is not a failure of the linter.
var ErrViolations = errors.New("lint violations found")

// Position is a location in an easyconfig file. Line is 1-based and Column is
// 0-based, following the Python col_offset convention easyconfig tooling uses.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position refers to a location in the file.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String returns "line:column", or "1:0" for the start of the file when the
// position is unknown.
func (p Position) String() string {
	if !p.IsValid() {
		return "1:0"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// PositionOf returns the position of node. The root *syntax.File and nil
// carry no position. Column counts runes; a Linter built WithSource reports
// byte columns instead.
func PositionOf(node syntax.Node) (Position, bool) {
	if node == nil {
		return Position{}, false
	}
	if _, ok := node.(*syntax.File); ok {
		return Position{}, false
	}
	start, _ := node.Span()
	if !start.IsValid() || start.Line <= 0 {
		return Position{}, false
	}
	col := int(start.Col) - 1
	if col < 0 {
		col = 0
	}
	return Position{Line: int(start.Line), Column: col}, true
}

// Diagnostic is a reportable lint finding produced from a Violation.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	Pos      Position // zero when the violation is attached to the whole file

	// Remediation metadata
	DocumentationURL string
}

// CheckerError attributes a failed checker run to its issue code.
type CheckerError struct {
	IssueCode string
	Err       error
}

func (e *CheckerError) Error() string {
	return fmt.Sprintf("checker %s failed: %v", e.IssueCode, e.Err)
}

func (e *CheckerError) Unwrap() error {
	return e.Err
}
