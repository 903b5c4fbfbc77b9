package lint

import (
	"fmt"

	"go.starlark.net/syntax"
)

// Checker is a stateful rule that walks a parsed easyconfig once per Visit
// and accumulates violations.
//
// Visit never clears previous violations: visiting twice without calling
// ClearViolations accumulates both runs (duplicates collapse). A checker that
// cannot interpret the shape of the file returns an error; violations are
// never errors.
type Checker interface {
	// IssueCode returns the stable identifier of the rule, e.g. "M001".
	IssueCode() string

	// Visit traverses f once, recording violations.
	Visit(f *syntax.File) error

	// Violations returns the accumulated violations in discovery order.
	Violations() []Violation

	// ClearViolations discards all accumulated violations.
	ClearViolations()
}

// BaseChecker implements the bookkeeping half of Checker. Concrete checkers
// embed it and provide Visit.
type BaseChecker struct {
	issueCode  string
	violations ViolationSet
}

// NewBaseChecker returns a BaseChecker reporting under issueCode.
func NewBaseChecker(issueCode string) BaseChecker {
	return BaseChecker{issueCode: issueCode}
}

// IssueCode returns the rule identifier.
func (c *BaseChecker) IssueCode() string {
	return c.issueCode
}

// Violations returns the accumulated violations in discovery order.
func (c *BaseChecker) Violations() []Violation {
	return c.violations.All()
}

// ClearViolations discards all accumulated violations.
func (c *BaseChecker) ClearViolations() {
	c.violations.Clear()
}

// Report records a violation attached to node.
func (c *BaseChecker) Report(node syntax.Node, message string) {
	c.violations.Add(Violation{Node: node, Message: message})
}

// Reportf records a violation with a formatted message.
func (c *BaseChecker) Reportf(node syntax.Node, format string, args ...any) {
	c.Report(node, fmt.Sprintf(format, args...))
}
