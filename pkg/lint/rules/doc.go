// Package rules provides the easyconfig checkers.
//
// Rules are grouped by concern:
//   - fields: which fields must or must not be assigned (M001, F001)
//   - ordering: the relative order of assignments (O001, O002)
//   - dependencies: the shape of dependency tuples (D001)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/eblint/pkg/lint/rules"
//
// Checkers can also be constructed directly:
//
//	c := rules.NewFieldOrderChecker("O001", rules.DefaultFieldOrder, false)
package rules

import "errors"

// Sentinel errors returned (wrapped, with position) by checkers that meet a
// file shape they cannot interpret.
var (
	// ErrUnresolvedName is returned when a dependency value references a name
	// that was never assigned, or that is itself an alias.
	ErrUnresolvedName = errors.New("unresolved name")

	// ErrMalformedDependency is returned when a dependency list is not a list
	// of tuples of literals and names.
	ErrMalformedDependency = errors.New("malformed dependency specification")
)
