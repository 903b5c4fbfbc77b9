package lint

import (
	"go.starlark.net/syntax"
)

// Violation pairs the node that broke a rule with a human-readable message.
// Two violations are equal when they reference the same node (by identity)
// and carry the same message. Node is nil or the root *syntax.File for
// violations that concern the file as a whole.
type Violation struct {
	Node    syntax.Node
	Message string
}

// ViolationSet is an insertion-ordered set of violations. Adding a violation
// equal to one already present is a no-op. The zero value is ready to use.
type ViolationSet struct {
	index map[Violation]struct{}
	items []Violation
}

// Add inserts v and reports whether it was not already present.
func (s *ViolationSet) Add(v Violation) bool {
	if s.index == nil {
		s.index = make(map[Violation]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v is in the set.
func (s *ViolationSet) Contains(v Violation) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of distinct violations.
func (s *ViolationSet) Len() int {
	return len(s.items)
}

// All returns the violations in the order they were first added.
func (s *ViolationSet) All() []Violation {
	out := make([]Violation, len(s.items))
	copy(out, s.items)
	return out
}

// Clear empties the set.
func (s *ViolationSet) Clear() {
	s.index = nil
	s.items = nil
}
