// Package transpile emits a Nail program as self-contained async Rust
// plus a Cargo dependency manifest. It walks the annotated
// AST in source order as a pretty-printer: no optimization passes, no
// reordering beyond hoisting item declarations out of fn main.
//
// Per-function knowledge comes from the stdlib registry's call templates;
// the only name-keyed behavior here is the variadic print family, which
// the registry tags explicitly.
package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/check"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/registry"
	"github.com/nail-lang/nailc/internal/types"
)

// Output is the transpiler's result: one Rust source text and the
// dependency manifest its stdlib usage requires.
type Output struct {
	Source   string
	Manifest Manifest
}

// comprFrame tracks the innermost comprehension being lowered, so yield
// statements know which accumulator or output vector to feed.
type comprFrame struct {
	kind     ast.ComprehensionKind
	elemName string
	sink     string // output vector, accumulator, or flag variable
}

// Transpiler holds the emission state for one program.
type Transpiler struct {
	buf    strings.Builder
	indent int
	info   *check.Info
	comprs []comprFrame

	serdeDerive bool
}

// Transpile lowers the annotated AST to Rust and builds the manifest. The
// diagnostic list is part of the stage contract; the transpiler itself
// only fails on inputs the checker should have rejected, so it is empty
// for any input that checked cleanly.
func Transpile(file *ast.File, info *check.Info) (*Output, []diag.Diagnostic) {
	t := &Transpiler{info: info, serdeDerive: usesJSON(info)}
	t.emitPrelude()

	// Items (structs, enums, functions) become Rust items; top-level
	// statements run in order inside #[tokio::main] async fn main.
	var mainStmts []ast.Stmt
	for _, d := range file.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			t.emitStructDecl(decl)
		case *ast.EnumDecl:
			t.emitEnumDecl(decl)
		case *ast.FuncDecl:
			t.emitFuncDecl(decl)
		case *ast.ConstDecl:
			mainStmts = append(mainStmts, decl)
		default:
			if tl, ok := d.(interface{ AsStmt() ast.Stmt }); ok {
				mainStmts = append(mainStmts, tl.AsStmt())
			}
		}
	}

	t.line("#[tokio::main]")
	t.line("async fn main() {")
	t.indent++
	for _, s := range mainStmts {
		t.emitStmt(s)
	}
	t.indent--
	t.line("}")

	return &Output{Source: t.buf.String(), Manifest: BuildManifest(info.UsedStdlib)}, nil
}

// usesJSON reports whether the program touches the json stdlib functions,
// in which case every emitted struct and enum derives the serde traits so
// their values can flow through json_parse/json_stringify.
func usesJSON(info *check.Info) bool {
	for _, e := range info.UsedStdlib {
		for _, lib := range e.RequiredLibraries {
			if lib == registry.LibSerde {
				return true
			}
		}
	}
	return false
}

func (t *Transpiler) line(s string) {
	for i := 0; i < t.indent; i++ {
		t.buf.WriteString("    ")
	}
	t.buf.WriteString(s)
	t.buf.WriteByte('\n')
}

func (t *Transpiler) linef(format string, args ...any) {
	t.line(fmt.Sprintf(format, args...))
}

func (t *Transpiler) blank() { t.buf.WriteByte('\n') }

// emitPrelude writes the fixed program header: the tokio import and the
// NailError type every fallible function returns.
func (t *Transpiler) emitPrelude() {
	t.line("use tokio;")
	t.blank()
	t.line("#[derive(Debug, Clone)]")
	t.line("pub struct NailError(pub String);")
	t.blank()
	t.line("impl NailError {")
	t.line("    pub fn new(msg: impl Into<String>) -> Self {")
	t.line("        NailError(msg.into())")
	t.line("    }")
	t.line("}")
	t.blank()
	t.line("impl std::fmt::Display for NailError {")
	t.line("    fn fmt(&self, f: &mut std::fmt::Formatter<'_>) -> std::fmt::Result {")
	t.line("        write!(f, \"{}\", self.0)")
	t.line("    }")
	t.line("}")
	t.blank()
}

func (t *Transpiler) deriveLine(copyable bool) string {
	derives := []string{"Debug", "Clone"}
	if copyable {
		derives = append(derives, "Copy", "PartialEq", "Eq")
	}
	if t.serdeDerive {
		derives = append(derives, "serde::Serialize", "serde::Deserialize")
	}
	return "#[derive(" + strings.Join(derives, ", ") + ")]"
}

func (t *Transpiler) emitStructDecl(decl *ast.StructDecl) {
	t.line(t.deriveLine(false))
	t.linef("pub struct %s {", decl.Name)
	t.indent++
	for _, f := range decl.Fields {
		t.linef("pub %s: %s,", f.Name, t.rustTypeExpr(f.Type))
	}
	t.indent--
	t.line("}")
	t.blank()
}

func (t *Transpiler) emitEnumDecl(decl *ast.EnumDecl) {
	t.line(t.deriveLine(true))
	t.linef("pub enum %s {", decl.Name)
	t.indent++
	for _, v := range decl.Variants {
		t.linef("%s,", v)
	}
	t.indent--
	t.line("}")
	t.blank()
}

func (t *Transpiler) emitFuncDecl(decl *ast.FuncDecl) {
	var params []string
	for _, p := range decl.Params {
		params = append(params, p.Name+": "+t.rustTypeExpr(p.Type))
	}
	ret := t.rustTypeExpr(decl.ReturnType)
	if ret == "()" {
		t.linef("async fn %s(%s) {", decl.Name, strings.Join(params, ", "))
	} else {
		t.linef("async fn %s(%s) -> %s {", decl.Name, strings.Join(params, ", "), ret)
	}
	t.indent++
	for _, s := range decl.Body.Stmts {
		t.emitStmt(s)
	}
	t.indent--
	t.line("}")
	t.blank()
}

// rustTypeExpr maps a source type annotation to its Rust spelling. The
// mapping is purely syntactic; the checker has already validated it.
func (t *Transpiler) rustTypeExpr(te ast.TypeExpr) string {
	switch ty := te.(type) {
	case *ast.PrimitiveType:
		switch ty.Name {
		case "i":
			return "i64"
		case "f":
			return "f64"
		case "s":
			return "String"
		case "b":
			return "bool"
		case "e":
			return "NailError"
		}
		return "()"
	case *ast.ArrayType:
		return "Vec<" + t.rustTypeExpr(ty.Elem) + ">"
	case *ast.HashMapType:
		return "dashmap::DashMap<" + t.rustTypeExpr(ty.Key) + ", " + t.rustTypeExpr(ty.Value) + ">"
	case *ast.NamedType:
		return ty.Name
	case *ast.ResultType:
		return "Result<" + t.rustTypeExpr(ty.Inner) + ", NailError>"
	}
	return "()"
}

// copyable reports whether a value of ty is Copy in the emitted Rust, so
// identifier references know whether to clone.
func copyable(ty types.Type) bool {
	switch v := ty.(type) {
	case *types.Primitive:
		return v.Kind != types.Str
	case *types.Enum:
		return true
	default:
		return false
	}
}

func rustStringLit(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func rustFloatLit(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
