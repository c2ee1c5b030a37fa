package check

import (
	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/types"
)

func (c *Checker) checkStmt(s ast.Stmt, sc *Scope) {
	switch stmt := s.(type) {
	case *ast.ConstDecl:
		c.checkConstDecl(stmt, sc)
	case *ast.ExprStmt:
		c.checkExprStmt(stmt, sc)
	case *ast.ReturnStmt:
		c.checkReturnStmt(stmt, sc)
	case *ast.YieldStmt:
		c.checkYieldStmt(stmt, sc)
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.errorf(diag.CodeFlowBreakOutsideLoop, stmt.Span(), "`break` outside a loop")
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.errorf(diag.CodeFlowBreakOutsideLoop, stmt.Span(), "`continue` outside a loop")
		}
	case *ast.ForStmt:
		c.checkForStmt(stmt, sc)
	case *ast.WhileStmt:
		c.checkWhileStmt(stmt, sc)
	case *ast.LoopStmt:
		c.checkLoopStmt(stmt, sc)
	case *ast.ParallelStmt:
		c.checkParallelStmt(stmt, sc)
	case *ast.SpawnStmt:
		body := NewScope(sc)
		for _, inner := range stmt.Body.Stmts {
			c.checkStmt(inner, body)
		}
	}
}

// checkConstDecl enforces the binding rules: the declared
// type must unify with the initializer, a void expression cannot be bound
// at all, and a result-typed initializer needs either a result-typed
// declaration or a discharge. Shadowing a prior binding is permitted.
func (c *Checker) checkConstDecl(decl *ast.ConstDecl, sc *Scope) {
	declared := c.resolveType(decl.Type)
	actual := c.checkExpr(decl.Init, sc, declared)

	switch {
	case isInvalid(actual) || isInvalid(declared):
		// already diagnosed
	case types.Equal(actual, types.TVoid):
		c.amend(c.errorf(diag.CodeTypeVoidBinding, decl.Init.Span(),
			"cannot bind a void expression to `%s` declared as `%s`", decl.Name, declared).
			WithHelp("void-returning calls must stand alone as statements"))
	case isResult(actual) && !isResult(declared):
		c.amend(c.errorf(diag.CodeTypeUnhandledResult, decl.Init.Span(),
			"binding `%s` is declared `%s` but its initializer is fallible (`%s`)", decl.Name, declared, actual).
			WithHelp("discharge the result with safe(..), danger(..), or expect(..), or declare the binding `" + declared.String() + "!e`"))
	case !assignable(declared, actual):
		c.errorf(diag.CodeTypeMismatch, decl.Init.Span(),
			"`%s` is declared `%s` but its initializer has type `%s`", decl.Name, declared, actual)
	}

	sc.Insert(&Symbol{Name: decl.Name, Type: declared, DefSpan: decl.Span()})
}

func (c *Checker) checkExprStmt(stmt *ast.ExprStmt, sc *Scope) {
	if cond, ok := stmt.X.(*ast.CondExpr); ok {
		c.checkCond(cond, sc, false)
		c.info.Types[cond] = types.TVoid
		return
	}
	t := c.checkExpr(stmt.X, sc, nil)
	if isResult(t) {
		c.amend(c.errorf(diag.CodeTypeUnhandledResult, stmt.X.Span(),
			"fallible value of type `%s` is implicitly discarded", t).
			WithHelp("discharge it with safe(..), danger(..), or expect(..)"))
	}
}

func (c *Checker) checkReturnStmt(stmt *ast.ReturnStmt, sc *Scope) {
	if c.compr != nil {
		c.amend(c.errorf(diag.CodeTypeReturnYieldMix, stmt.Span(),
			"`r` is not allowed inside a comprehension body").
			WithHelp("use `y` to produce this iteration's value"))
		return
	}

	want := types.Type(types.TVoid)
	if c.fn != nil {
		want = c.fn.ret
	}

	if stmt.Value == nil {
		if !types.Equal(want, types.TVoid) && !isInvalid(want) {
			c.errorf(diag.CodeTypeMismatch, stmt.Span(),
				"bare `r` in a function returning `%s`", want)
		}
		return
	}

	actual := c.checkExpr(stmt.Value, sc, want)
	if isInvalid(actual) || isInvalid(want) {
		return
	}
	if isResult(want) && !isResult(actual) {
		c.amend(c.errorf(diag.CodeTypeMismatch, stmt.Value.Span(),
			"function returns `%s` but this expression has type `%s`", want, actual).
			WithHelp("wrap the value with ok(..) or err(..)"))
		return
	}
	if !assignable(want, actual) {
		d := c.errorf(diag.CodeTypeMismatch, stmt.Value.Span(),
			"return value has type `%s` but the function returns `%s`", actual, want)
		if c.fn != nil {
			d = d.WithSecondarySpan(c.fn.retSpan, "return type declared here")
		}
		c.amend(d)
	}
}

func (c *Checker) checkYieldStmt(stmt *ast.YieldStmt, sc *Scope) {
	if c.compr == nil {
		c.amend(c.errorf(diag.CodeFlowYieldOutsideCompr, stmt.Span(),
			"`y` outside a comprehension body").
			WithHelp("use `r` to return from a function"))
		return
	}
	if stmt.Value == nil {
		if c.compr.yieldWant != nil {
			c.errorf(diag.CodeTypeMismatch, stmt.Span(),
				"`%s` expects its body to yield `%s`, not nothing", c.compr.kind, c.compr.yieldWant)
		}
		return
	}
	actual := c.checkExpr(stmt.Value, sc, c.compr.yieldWant)
	if c.compr.yieldWant == nil {
		if c.compr.kind != ast.ComprMap {
			// each: yielded value is discarded, void included.
			return
		}
		// Context-free map: the first yield fixes the element type.
		if c.compr.got == nil {
			c.compr.got = actual
			return
		}
		if !isInvalid(actual) && !isInvalid(c.compr.got) && !types.Equal(c.compr.got, actual) {
			c.errorf(diag.CodeTypeMismatch, stmt.Value.Span(),
				"`map` body yields `%s` here but `%s` earlier", actual, c.compr.got)
		}
		return
	}
	if !assignable(c.compr.yieldWant, actual) {
		c.errorf(diag.CodeTypeMismatch, stmt.Value.Span(),
			"`%s` body must yield `%s`, got `%s`", c.compr.kind, c.compr.yieldWant, actual)
	}
}

func (c *Checker) checkForStmt(stmt *ast.ForStmt, sc *Scope) {
	src := c.checkExpr(stmt.Source, sc, nil)
	elemType := invalid
	if arr, ok := src.(*types.Array); ok {
		elemType = arr.Elem
	} else if !isInvalid(src) {
		c.errorf(diag.CodeTypeMismatch, stmt.Source.Span(),
			"`for` iterates an array, got `%s`", src)
	}

	body := NewScope(sc)
	body.Insert(&Symbol{Name: stmt.Elem, Type: elemType, DefSpan: stmt.Span()})
	c.loopDepth++
	for _, inner := range stmt.Body.Stmts {
		c.checkStmt(inner, body)
	}
	c.loopDepth--
}

func (c *Checker) checkWhileStmt(stmt *ast.WhileStmt, sc *Scope) {
	guard := c.checkExpr(stmt.Guard, sc, types.TBool)
	if !isInvalid(guard) && !types.Equal(guard, types.TBool) {
		c.errorf(diag.CodeTypeMismatch, stmt.Guard.Span(),
			"`while` guard must be `Bool`, got `%s`", guard)
	}
	if stmt.Init != nil {
		c.checkExpr(stmt.Init, sc, nil)
	}
	if stmt.Max != nil {
		limit := c.checkExpr(stmt.Max, sc, types.TInt)
		if !isInvalid(limit) && !types.Equal(limit, types.TInt) {
			c.errorf(diag.CodeTypeMismatch, stmt.Max.Span(),
				"`max` iteration bound must be `Int`, got `%s`", limit)
		}
	}

	body := NewScope(sc)
	c.loopDepth++
	for _, inner := range stmt.Body.Stmts {
		c.checkStmt(inner, body)
	}
	c.loopDepth--
}

func (c *Checker) checkLoopStmt(stmt *ast.LoopStmt, sc *Scope) {
	body := NewScope(sc)
	if stmt.Index != "" {
		body.Insert(&Symbol{Name: stmt.Index, Type: types.TInt, DefSpan: stmt.Span()})
	}
	c.loopDepth++
	for _, inner := range stmt.Body.Stmts {
		c.checkStmt(inner, body)
	}
	c.loopDepth--
}

// checkParallelStmt checks each statement of a parallel block in its own
// child scope, so concurrent statements cannot observe each other's
// bindings, then hoists every binding they declared into the enclosing
// scope — those bindings are visible after the join.
func (c *Checker) checkParallelStmt(stmt *ast.ParallelStmt, sc *Scope) {
	var hoisted []*Symbol
	for _, inner := range stmt.Stmts {
		task := NewScope(sc)
		c.checkStmt(inner, task)
		for _, sym := range task.Symbols {
			hoisted = append(hoisted, sym)
		}
	}
	for _, sym := range hoisted {
		sc.Insert(sym)
	}
}

func isResult(t types.Type) bool {
	_, ok := t.(*types.Result)
	return ok
}
