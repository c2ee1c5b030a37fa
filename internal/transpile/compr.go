package transpile

import (
	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/types"
)

// Comprehension lowering: each
// of the seven kinds becomes an explicit iteration over the source with a
// kind-specific accumulator, and the body's yield statements feed that
// accumulator (see emitYield). The whole construct is a Rust block
// expression producing the accumulated value.

func (t *Transpiler) emitComprehension(x *ast.Comprehension) {
	t.line("{")
	t.indent++

	sink := ""
	switch x.Kind {
	case ast.ComprMap, ast.ComprFilter:
		sink = "__out"
		t.line("let mut __out = Vec::new();")
	case ast.ComprReduce:
		sink = x.Acc
		t.linef("let mut %s = %s;", x.Acc, t.expr(x.Seed))
	case ast.ComprFind:
		sink = "__found"
		t.line("let mut __found = None;")
	case ast.ComprAll:
		sink = "__all"
		t.line("let mut __all = true;")
	case ast.ComprAny:
		sink = "__any"
		t.line("let mut __any = false;")
	}

	t.emitComprLoop(x, sink)

	switch x.Kind {
	case ast.ComprMap, ast.ComprFilter:
		t.line("__out")
	case ast.ComprReduce:
		t.line(x.Acc)
	case ast.ComprFind:
		t.line("match __found { Some(__v) => Ok(__v), None => Err(NailError::new(\"not found\")) }")
	case ast.ComprAll:
		t.line("__all")
	case ast.ComprAny:
		t.line("__any")
	}

	t.indent--
	t.line("}")
}

// emitEachLoop lowers a statement-position `each` directly to a for loop,
// with no accumulator or surrounding block.
func (t *Transpiler) emitEachLoop(x *ast.Comprehension) {
	t.emitComprLoop(x, "")
}

func (t *Transpiler) emitComprLoop(x *ast.Comprehension, sink string) {
	_, overMap := t.info.Types[x.Source].(*types.HashMap)
	switch {
	case overMap:
		// Hashmap iteration binds the value, with the key as the index.
		key := x.Index
		if key == "" {
			key = "_"
		}
		t.linef("for (%s, %s) in (%s).into_iter() {", key, x.Elem, t.expr(x.Source))
	case x.Index != "":
		t.linef("for (__i, %s) in (%s).into_iter().enumerate() {", x.Elem, t.expr(x.Source))
	default:
		t.linef("for %s in (%s).into_iter() {", x.Elem, t.expr(x.Source))
	}
	t.indent++
	if !overMap && x.Index != "" {
		t.linef("let %s: i64 = __i as i64;", x.Index)
	}

	t.comprs = append(t.comprs, comprFrame{kind: x.Kind, elemName: x.Elem, sink: sink})
	for _, s := range x.Body.Stmts {
		t.emitStmt(s)
	}
	t.comprs = t.comprs[:len(t.comprs)-1]

	t.indent--
	t.line("}")
}

// emitYield lowers `y expr;` according to the enclosing comprehension's
// kind: map appends the value, filter/find test it, reduce
// replaces the accumulator, all/any short-circuit, each discards it.
func (t *Transpiler) emitYield(stmt *ast.YieldStmt) {
	if len(t.comprs) == 0 {
		return // checker rejects yields outside comprehensions
	}
	frame := t.comprs[len(t.comprs)-1]

	switch frame.kind {
	case ast.ComprMap:
		t.linef("%s.push(%s);", frame.sink, t.expr(stmt.Value))
	case ast.ComprFilter:
		t.linef("if %s { %s.push(%s.clone()); }", t.expr(stmt.Value), frame.sink, frame.elemName)
	case ast.ComprReduce:
		t.linef("%s = %s;", frame.sink, t.expr(stmt.Value))
	case ast.ComprEach:
		if stmt.Value != nil {
			t.linef("let _ = %s;", t.expr(stmt.Value))
		}
	case ast.ComprFind:
		t.linef("if %s { %s = Some(%s.clone()); break; }", t.expr(stmt.Value), frame.sink, frame.elemName)
	case ast.ComprAll:
		t.linef("if !(%s) { %s = false; break; }", t.expr(stmt.Value), frame.sink)
	case ast.ComprAny:
		t.linef("if %s { %s = true; break; }", t.expr(stmt.Value), frame.sink)
	}
}
