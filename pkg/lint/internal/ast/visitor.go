// Package ast provides syntax tree traversal utilities for lint checkers.
package ast

import (
	"go.starlark.net/syntax"
)

// Visitor receives typed callbacks while Walk traverses a syntax tree.
// Embed BaseVisitor to inherit the default behavior for handlers a checker
// does not care about.
type Visitor interface {
	// VisitAssign is called before the target and value of an assignment
	// are walked. Returning false skips both.
	VisitAssign(stmt *syntax.AssignStmt) (descend bool, err error)

	// VisitTarget is called for every identifier in a binding position:
	// assignment targets (including tuple/list unpacking and augmented
	// assignment) and loop variables.
	VisitTarget(id *syntax.Ident) error

	// VisitIdent is called for every identifier, binding or not.
	// For binding identifiers it runs after VisitTarget.
	VisitIdent(id *syntax.Ident) error
}

// BaseVisitor descends into every node and ignores every identifier.
type BaseVisitor struct{}

// VisitAssign descends into the assignment.
func (BaseVisitor) VisitAssign(*syntax.AssignStmt) (bool, error) { return true, nil }

// VisitTarget does nothing.
func (BaseVisitor) VisitTarget(*syntax.Ident) error { return nil }

// VisitIdent does nothing.
func (BaseVisitor) VisitIdent(*syntax.Ident) error { return nil }

// Walk traverses the tree rooted at node depth-first, in source order,
// calling v's handlers. Node kinds without a handler are descended into.
// The first error returned by a handler stops the traversal.
func Walk(node syntax.Node, v Visitor) error {
	if node == nil {
		return nil
	}
	w := walker{v: v}
	return w.walk(node)
}

type walker struct {
	v Visitor
}

func (w walker) walk(node syntax.Node) error {
	switch n := node.(type) {
	case *syntax.File:
		if n == nil {
			return nil
		}
		return w.walkStmts(n.Stmts)

	// Statements

	case *syntax.AssignStmt:
		if n == nil {
			return nil
		}
		descend, err := w.v.VisitAssign(n)
		if err != nil || !descend {
			return err
		}
		if err := w.walkTarget(n.LHS); err != nil {
			return err
		}
		return w.walkExpr(n.RHS)

	case *syntax.ExprStmt:
		if n == nil {
			return nil
		}
		return w.walkExpr(n.X)

	case *syntax.IfStmt:
		if n == nil {
			return nil
		}
		if err := w.walkExpr(n.Cond); err != nil {
			return err
		}
		if err := w.walkStmts(n.True); err != nil {
			return err
		}
		return w.walkStmts(n.False)

	case *syntax.ForStmt:
		if n == nil {
			return nil
		}
		if err := w.walkTarget(n.Vars); err != nil {
			return err
		}
		if err := w.walkExpr(n.X); err != nil {
			return err
		}
		return w.walkStmts(n.Body)

	case *syntax.WhileStmt:
		if n == nil {
			return nil
		}
		if err := w.walkExpr(n.Cond); err != nil {
			return err
		}
		return w.walkStmts(n.Body)

	case *syntax.DefStmt:
		if n == nil {
			return nil
		}
		if err := w.walkParams(n.Params); err != nil {
			return err
		}
		return w.walkStmts(n.Body)

	case *syntax.ReturnStmt:
		if n == nil {
			return nil
		}
		return w.walkExpr(n.Result)

	case *syntax.BranchStmt, *syntax.LoadStmt:
		// Leaf statements

	// Expressions

	case *syntax.Ident:
		if n == nil {
			return nil
		}
		return w.v.VisitIdent(n)

	case *syntax.Literal:
		// Leaf node

	case *syntax.ParenExpr:
		if n == nil {
			return nil
		}
		return w.walkExpr(n.X)

	case *syntax.TupleExpr:
		if n == nil {
			return nil
		}
		return w.walkExprs(n.List)

	case *syntax.ListExpr:
		if n == nil {
			return nil
		}
		return w.walkExprs(n.List)

	case *syntax.DictExpr:
		if n == nil {
			return nil
		}
		return w.walkExprs(n.List)

	case *syntax.DictEntry:
		if n == nil {
			return nil
		}
		if err := w.walkExpr(n.Key); err != nil {
			return err
		}
		return w.walkExpr(n.Value)

	case *syntax.BinaryExpr:
		if n == nil {
			return nil
		}
		if err := w.walkExpr(n.X); err != nil {
			return err
		}
		return w.walkExpr(n.Y)

	case *syntax.UnaryExpr:
		if n == nil {
			return nil
		}
		return w.walkExpr(n.X)

	case *syntax.CondExpr:
		if n == nil {
			return nil
		}
		if err := w.walkExpr(n.True); err != nil {
			return err
		}
		if err := w.walkExpr(n.Cond); err != nil {
			return err
		}
		return w.walkExpr(n.False)

	case *syntax.CallExpr:
		if n == nil {
			return nil
		}
		if err := w.walkExpr(n.Fn); err != nil {
			return err
		}
		for _, arg := range n.Args {
			// Keyword names in f(k=v) are not references.
			if kw, ok := arg.(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
				if _, isName := kw.X.(*syntax.Ident); isName {
					if err := w.walkExpr(kw.Y); err != nil {
						return err
					}
					continue
				}
			}
			if err := w.walkExpr(arg); err != nil {
				return err
			}
		}

	case *syntax.DotExpr:
		if n == nil {
			return nil
		}
		// The attribute name is not a reference.
		return w.walkExpr(n.X)

	case *syntax.IndexExpr:
		if n == nil {
			return nil
		}
		if err := w.walkExpr(n.X); err != nil {
			return err
		}
		return w.walkExpr(n.Y)

	case *syntax.SliceExpr:
		if n == nil {
			return nil
		}
		for _, e := range []syntax.Expr{n.X, n.Lo, n.Hi, n.Step} {
			if err := w.walkExpr(e); err != nil {
				return err
			}
		}

	case *syntax.LambdaExpr:
		if n == nil {
			return nil
		}
		if err := w.walkParams(n.Params); err != nil {
			return err
		}
		return w.walkExpr(n.Body)

	case *syntax.Comprehension:
		if n == nil {
			return nil
		}
		if err := w.walkExpr(n.Body); err != nil {
			return err
		}
		for _, clause := range n.Clauses {
			switch c := clause.(type) {
			case *syntax.ForClause:
				if err := w.walkTarget(c.Vars); err != nil {
					return err
				}
				if err := w.walkExpr(c.X); err != nil {
					return err
				}
			case *syntax.IfClause:
				if err := w.walkExpr(c.Cond); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// walkTarget walks an expression in binding position. Identifiers reached
// through tuples, lists and parentheses are bindings; anything else (x[i],
// x.attr) is walked as an ordinary read.
func (w walker) walkTarget(expr syntax.Expr) error {
	switch t := expr.(type) {
	case nil:
		return nil
	case *syntax.Ident:
		if err := w.v.VisitTarget(t); err != nil {
			return err
		}
		return w.v.VisitIdent(t)
	case *syntax.ParenExpr:
		return w.walkTarget(t.X)
	case *syntax.TupleExpr:
		for _, elem := range t.List {
			if err := w.walkTarget(elem); err != nil {
				return err
			}
		}
		return nil
	case *syntax.ListExpr:
		for _, elem := range t.List {
			if err := w.walkTarget(elem); err != nil {
				return err
			}
		}
		return nil
	case *syntax.UnaryExpr:
		if t.Op == syntax.STAR {
			return w.walkTarget(t.X)
		}
	}
	return w.walkExpr(expr)
}

// walkParams walks parameter default values only; parameter names are
// neither assignment targets nor references.
func (w walker) walkParams(params []syntax.Expr) error {
	for _, param := range params {
		if def, ok := param.(*syntax.BinaryExpr); ok && def.Op == syntax.EQ {
			if err := w.walkExpr(def.Y); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w walker) walkStmts(stmts []syntax.Stmt) error {
	for _, stmt := range stmts {
		if err := w.walk(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (w walker) walkExprs(exprs []syntax.Expr) error {
	for _, expr := range exprs {
		if err := w.walkExpr(expr); err != nil {
			return err
		}
	}
	return nil
}

func (w walker) walkExpr(expr syntax.Expr) error {
	if expr == nil {
		return nil
	}
	return w.walk(expr)
}

// CollectTargets returns every identifier in binding position, in source order.
func CollectTargets(node syntax.Node) []*syntax.Ident {
	c := &targetCollector{}
	_ = Walk(node, c)
	return c.targets
}

type targetCollector struct {
	BaseVisitor
	targets []*syntax.Ident
}

func (c *targetCollector) VisitTarget(id *syntax.Ident) error {
	c.targets = append(c.targets, id)
	return nil
}

// Unparen strips any enclosing parentheses from expr.
func Unparen(expr syntax.Expr) syntax.Expr {
	for {
		p, ok := expr.(*syntax.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}
