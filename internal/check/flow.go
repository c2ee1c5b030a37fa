package check

import (
	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/registry"
)

// Control-flow analysis for the two path invariants: every
// non-void function body returns on every path, and every comprehension
// body (except each's statement form) yields on every path. The analysis
// is purely syntactic and deliberately conservative: it accepts a trailing
// return/yield, a conditional whose arms all terminate (with an else, or
// exhaustively covering an enum), and a diverging call such as panic.

func (c *Checker) blockAlwaysReturns(b *ast.Block) bool {
	return c.blockTerminates(b, true)
}

func (c *Checker) blockAlwaysYields(b *ast.Block) bool {
	return c.blockTerminates(b, false)
}

func (c *Checker) blockTerminates(b *ast.Block, viaReturn bool) bool {
	for _, s := range b.Stmts {
		if c.stmtTerminates(s, viaReturn) {
			return true
		}
	}
	return false
}

func (c *Checker) stmtTerminates(s ast.Stmt, viaReturn bool) bool {
	switch stmt := s.(type) {
	case *ast.ReturnStmt:
		return viaReturn
	case *ast.YieldStmt:
		return !viaReturn
	case *ast.ExprStmt:
		if cond, ok := stmt.X.(*ast.CondExpr); ok {
			return c.condTerminates(cond, viaReturn)
		}
		return c.exprDiverges(stmt.X)
	}
	return false
}

// condTerminates reports whether every arm of cond terminates. A missing
// else is only acceptable when the guards exhaustively cover an enum.
func (c *Checker) condTerminates(cond *ast.CondExpr, viaReturn bool) bool {
	for _, br := range cond.Branches {
		if !c.blockTerminates(br.Body, viaReturn) {
			return false
		}
	}
	if cond.Else != nil {
		return c.blockTerminates(cond.Else, viaReturn)
	}
	enumName, covered, ok := c.condEnumCoverage(cond)
	if !ok {
		return false
	}
	for _, v := range c.info.Enums[enumName].Variants {
		if !covered[v] {
			return false
		}
	}
	return true
}

// blockDiverges reports whether a block unconditionally panics, so the
// conditional-branch unification can exclude it.
func (c *Checker) blockDiverges(b *ast.Block) bool {
	for _, s := range b.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok && c.exprDiverges(es.X) {
			return true
		}
	}
	return false
}

// exprDiverges reports whether x is a call to a registry entry tagged as
// diverging (panic, todo, process_exit).
func (c *Checker) exprDiverges(x ast.Expr) bool {
	call, ok := x.(*ast.CallExpr)
	if !ok {
		return false
	}
	id, ok := call.Callee.(*ast.Ident)
	if !ok {
		return false
	}
	entry, ok := registry.Lookup(id.Name)
	return ok && entry.Tag == registry.TagDiverging
}
