package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/registry"
	"github.com/nail-lang/nailc/internal/types"
)

// expr renders an expression as Rust source. Identifier references to
// non-Copy values are cloned, which is how Nail's owned-value semantics
// survive Rust's move rules: every use of a binding gets its own value.
func (t *Transpiler) expr(x ast.Expr) string {
	switch v := x.(type) {
	case *ast.IntLit:
		return strconv.FormatInt(v.Value, 10)
	case *ast.FloatLit:
		return rustFloatLit(v.Value)
	case *ast.StringLit:
		return rustStringLit(v.Value) + ".to_string()"
	case *ast.BoolLit:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.ArrayLit:
		elems := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = t.expr(e)
		}
		return "vec![" + strings.Join(elems, ", ") + "]"
	case *ast.Ident:
		if copyable(t.info.Types[v]) {
			return v.Name
		}
		return v.Name + ".clone()"
	case *ast.FieldAccess:
		out := t.exprNoClone(v.Receiver) + "." + v.Field
		if !copyable(t.info.Types[v]) {
			out += ".clone()"
		}
		return out
	case *ast.IndexAccess:
		return t.indexAccess(v)
	case *ast.UnaryExpr:
		return string(v.Op) + "(" + t.expr(v.Operand) + ")"
	case *ast.BinaryExpr:
		return t.binary(v)
	case *ast.CallExpr:
		return t.call(v, v.Args)
	case *ast.PipeExpr:
		// x |> f(a, b) emits as f(a, b, x).
		args := make([]ast.Expr, 0, len(v.Call.Args)+1)
		args = append(args, v.Call.Args...)
		args = append(args, v.Left)
		return t.call(v.Call, args)
	case *ast.StructLit:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = f.Name + ": " + t.expr(f.Value)
		}
		return v.Name + " { " + strings.Join(fields, ", ") + " }"
	case *ast.EnumVariantExpr:
		return v.Enum + "::" + v.Variant
	case *ast.CondExpr:
		return t.condExpr(v)
	case *ast.Comprehension:
		return t.captureInline(func() { t.emitComprehension(v) })
	}
	return "()"
}

// exprNoClone is expr without the trailing clone on a bare identifier,
// for receiver positions where only a field or element is taken.
func (t *Transpiler) exprNoClone(x ast.Expr) string {
	if id, ok := x.(*ast.Ident); ok {
		return id.Name
	}
	return t.expr(x)
}

func (t *Transpiler) indexAccess(v *ast.IndexAccess) string {
	if _, isMap := t.info.Types[v.Receiver].(*types.HashMap); isMap {
		// Key access is fallible, like hashmap_get.
		return fmt.Sprintf("%s.get(&%s).map(|__v| __v.clone()).ok_or_else(|| NailError::new(\"key not found\"))",
			t.exprNoClone(v.Receiver), t.expr(v.Index))
	}
	out := fmt.Sprintf("%s[(%s) as usize]", t.exprNoClone(v.Receiver), t.expr(v.Index))
	if !copyable(t.info.Types[v]) {
		out += ".clone()"
	}
	return out
}

func (t *Transpiler) binary(v *ast.BinaryExpr) string {
	if v.Op == ast.OpAdd && types.Equal(t.info.Types[v.Left], types.TStr) {
		return fmt.Sprintf("format!(\"{}{}\", %s, %s)", t.exprNoClone(v.Left), t.exprNoClone(v.Right))
	}
	return fmt.Sprintf("(%s %s %s)", t.expr(v.Left), v.Op, t.expr(v.Right))
}

// condExpr renders an expression-position conditional: each branch block
// produces its trailing `r` value as the Rust block's tail expression.
func (t *Transpiler) condExpr(cond *ast.CondExpr) string {
	var sb strings.Builder
	for i, br := range cond.Branches {
		if i > 0 {
			sb.WriteString(" else ")
		}
		sb.WriteString("if " + t.expr(br.Guard) + " " + t.branchValueBlock(br.Body))
	}
	if cond.Else != nil {
		sb.WriteString(" else " + t.branchValueBlock(cond.Else))
	}
	return sb.String()
}

func (t *Transpiler) branchValueBlock(b *ast.Block) string {
	n := len(b.Stmts)
	if n > 0 {
		if ret, ok := b.Stmts[n-1].(*ast.ReturnStmt); ok && ret.Value != nil {
			prefix := t.captureInline(func() {
				for _, s := range b.Stmts[:n-1] {
					t.emitStmt(s)
				}
			})
			val := t.expr(ret.Value)
			if prefix == "" {
				return "{ " + val + " }"
			}
			return "{ " + prefix + " " + val + " }"
		}
	}
	// Diverging branch (ends in panic/todo); no tail value needed.
	inner := t.captureInline(func() {
		for _, s := range b.Stmts {
			t.emitStmt(s)
		}
	})
	return "{ " + inner + " }"
}

// captureInline runs an emission callback against a scratch buffer and
// collapses the result to one line, for block constructs appearing in
// expression position.
func (t *Transpiler) captureInline(f func()) string {
	saved, savedIndent := t.buf, t.indent
	t.buf, t.indent = strings.Builder{}, 0
	f()
	out := t.buf.String()
	t.buf, t.indent = saved, savedIndent
	return strings.Join(strings.Fields(out), " ")
}

// ---- calls ----

func (t *Transpiler) call(call *ast.CallExpr, args []ast.Expr) string {
	callee, ok := call.Callee.(*ast.Ident)
	if !ok {
		return "()"
	}

	// A resolved use means the checker bound this callee to a
	// user-declared function; everything else is a registry call.
	if _, isUser := t.info.Uses[callee]; isUser {
		return callee.Name + "(" + t.argList(args) + ").await"
	}

	entry, ok := registry.Lookup(callee.Name)
	if !ok {
		return callee.Name + "(" + t.argList(args) + ").await"
	}

	switch entry.Tag {
	case registry.TagVariadicPrint:
		return t.printCall(entry, args)
	case registry.TagErrorConstructor:
		if entry.Name == "err" {
			return "Err(NailError::new(" + t.expr(args[0]) + "))"
		}
		return "Ok(" + t.expr(args[0]) + ")"
	case registry.TagErrorDischarger:
		return t.dischargeCall(entry, args)
	}

	// The registry's abstract CALL(module, function, args) template
	// instantiates as a flat runtime call; collapsed aliases (the
	// string_from_array family) share one target function name.
	return entry.Call.Function + "(" + t.argList(args) + ").await"
}

func (t *Transpiler) argList(args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = t.expr(a)
	}
	return strings.Join(parts, ", ")
}

// printCall is the one name-keyed special case the registry permits
// : the print family is variadic over any type, so it
// lowers to a format macro with one placeholder per argument. Scalars
// use Display; collections and structs use Debug.
func (t *Transpiler) printCall(entry registry.Entry, args []ast.Expr) string {
	macro := "println!"
	verb := "{:?}"
	switch entry.Name {
	case "eprintln":
		macro = "eprintln!"
	case "print_no_newline":
		macro = "print!"
	case "print_debug":
		verb = "{:#?}"
	case "print_clear_screen":
		return "print!(\"\\x1B[2J\\x1B[1;1H\")"
	}

	verbs := make([]string, len(args))
	parts := make([]string, 0, len(args)+1)
	for i, a := range args {
		v := verb
		if entry.Name != "print_debug" && displayable(t.info.Types[a]) {
			v = "{}"
		}
		verbs[i] = v
		parts = append(parts, t.exprNoClone(a))
	}
	format := rustStringLit(strings.Join(verbs, " "))
	if len(parts) == 0 {
		return macro + "(" + format + ")"
	}
	return macro + "(" + format + ", " + strings.Join(parts, ", ") + ")"
}

func displayable(ty types.Type) bool {
	p, ok := ty.(*types.Primitive)
	return ok && p.Kind != types.Void
}

func (t *Transpiler) dischargeCall(entry registry.Entry, args []ast.Expr) string {
	switch entry.Name {
	case "danger":
		return "(" + t.expr(args[0]) + ").unwrap()"
	case "expect":
		return "(" + t.expr(args[0]) + ").expect(\"value was expected to be present\")"
	case "safe":
		handler := t.exprNoClone(args[1])
		return fmt.Sprintf("match %s { Ok(__v) => __v, Err(__e) => %s(__e).await }",
			t.expr(args[0]), handler)
	}
	return "()"
}
