package transpile

import (
	"strings"

	"github.com/nail-lang/nailc/internal/ast"
)

func (t *Transpiler) emitStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.ConstDecl:
		// Bindings are immutable and shadowing re-declarations lower to
		// fresh `let`s; Rust's own shadowing carries the semantics.
		t.linef("let %s: %s = %s;", stmt.Name, t.rustTypeExpr(stmt.Type), t.expr(stmt.Init))
	case *ast.ExprStmt:
		t.emitExprStmt(stmt)
	case *ast.ReturnStmt:
		if stmt.Value == nil {
			t.line("return;")
		} else {
			t.linef("return %s;", t.expr(stmt.Value))
		}
	case *ast.YieldStmt:
		t.emitYield(stmt)
	case *ast.BreakStmt:
		t.line("break;")
	case *ast.ContinueStmt:
		t.line("continue;")
	case *ast.ForStmt:
		t.emitForStmt(stmt)
	case *ast.WhileStmt:
		t.emitWhileStmt(stmt)
	case *ast.LoopStmt:
		t.emitLoopStmt(stmt)
	case *ast.ParallelStmt:
		t.emitParallelStmt(stmt)
	case *ast.SpawnStmt:
		t.emitSpawnStmt(stmt)
	}
}

func (t *Transpiler) emitExprStmt(stmt *ast.ExprStmt) {
	switch x := stmt.X.(type) {
	case *ast.CondExpr:
		t.emitCondStmt(x)
	case *ast.Comprehension:
		if x.Kind == ast.ComprEach {
			t.emitEachLoop(x)
			return
		}
		t.linef("%s;", t.expr(stmt.X))
	default:
		t.linef("%s;", t.expr(stmt.X))
	}
}

// emitCondStmt lowers a statement-position conditional to an if / else if
// / else chain in branch order. `r` inside a
// branch is a real return from the enclosing function here.
func (t *Transpiler) emitCondStmt(cond *ast.CondExpr) {
	for i, br := range cond.Branches {
		kw := "if"
		if i > 0 {
			kw = "} else if"
		}
		t.linef("%s %s {", kw, t.expr(br.Guard))
		t.indent++
		for _, s := range br.Body.Stmts {
			t.emitStmt(s)
		}
		t.indent--
	}
	if cond.Else != nil {
		t.line("} else {")
		t.indent++
		for _, s := range cond.Else.Stmts {
			t.emitStmt(s)
		}
		t.indent--
	}
	t.line("}")
}

func (t *Transpiler) emitForStmt(stmt *ast.ForStmt) {
	t.linef("for %s in (%s).into_iter() {", stmt.Elem, t.expr(stmt.Source))
	t.indent++
	for _, s := range stmt.Body.Stmts {
		t.emitStmt(s)
	}
	t.indent--
	t.line("}")
}

// emitWhileStmt lowers `while guard max N` to a bounded loop that panics
// when the bound is exhausted. The counter lives
// in its own block so adjacent while loops cannot collide.
func (t *Transpiler) emitWhileStmt(stmt *ast.WhileStmt) {
	t.line("{")
	t.indent++
	if stmt.Init != nil {
		t.linef("let _ = %s;", t.expr(stmt.Init))
	}
	t.line("let mut __iterations: i64 = 0;")
	t.linef("while %s {", t.expr(stmt.Guard))
	t.indent++
	if stmt.Max != nil {
		t.linef("if __iterations >= (%s) {", t.expr(stmt.Max))
		t.line("    panic!(\"while loop exceeded its max iteration bound\");")
		t.line("}")
	}
	t.line("__iterations += 1;")
	for _, s := range stmt.Body.Stmts {
		t.emitStmt(s)
	}
	t.indent--
	t.line("}")
	t.indent--
	t.line("}")
}

// emitLoopStmt lowers `loop [name]`. The optional index increments before
// the body runs, so `continue` cannot skip it.
func (t *Transpiler) emitLoopStmt(stmt *ast.LoopStmt) {
	if stmt.Index == "" {
		t.line("loop {")
		t.indent++
		for _, s := range stmt.Body.Stmts {
			t.emitStmt(s)
		}
		t.indent--
		t.line("}")
		return
	}
	t.line("{")
	t.indent++
	t.line("let mut __loop_index: i64 = -1;")
	t.line("loop {")
	t.indent++
	t.line("__loop_index += 1;")
	t.linef("let %s: i64 = __loop_index;", stmt.Index)
	for _, s := range stmt.Body.Stmts {
		t.emitStmt(s)
	}
	t.indent--
	t.line("}")
	t.indent--
	t.line("}")
}

// emitParallelStmt lowers a parallel block to a structured tokio::join!:
// every statement becomes one async arm, the join completes only when all
// arms have, and arms that were const declarations destructure into
// bindings visible after the block.
func (t *Transpiler) emitParallelStmt(stmt *ast.ParallelStmt) {
	patterns := make([]string, len(stmt.Stmts))
	for i, s := range stmt.Stmts {
		if decl, ok := s.(*ast.ConstDecl); ok {
			patterns[i] = decl.Name
		} else {
			patterns[i] = "_"
		}
	}

	t.linef("let (%s,) = tokio::join!(", strings.Join(patterns, ", "))
	t.indent++
	for _, s := range stmt.Stmts {
		if decl, ok := s.(*ast.ConstDecl); ok {
			t.linef("async { %s },", t.expr(decl.Init))
			continue
		}
		t.line("async {")
		t.indent++
		t.emitStmt(s)
		t.indent--
		t.line("},")
	}
	t.indent--
	t.line(");")
}

// emitSpawnStmt lowers a spawn block to a detached task: no join handle
// is kept and errors inside it are not propagated.
func (t *Transpiler) emitSpawnStmt(stmt *ast.SpawnStmt) {
	t.line("tokio::spawn(async move {")
	t.indent++
	for _, s := range stmt.Body.Stmts {
		t.emitStmt(s)
	}
	t.indent--
	t.line("});")
}
