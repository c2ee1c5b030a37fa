// Package check is Nail's semantic analysis stage: scoped
// name resolution, type inference, exhaustiveness checking on enum-based
// conditionals, result-type discipline, and return/yield control-flow
// validation. It runs in two passes — top-level signatures first, bodies
// second — and accumulates diagnostics instead of stopping at the first.
package check

import (
	"fmt"

	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/registry"
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/types"
)

// Info is the checker's output: the annotation side of the annotated AST.
// Every expression node appears in Types; every resolved identifier
// reference appears in Uses; every stdlib entry a call resolved against
// appears in UsedStdlib for the transpiler's manifest step.
type Info struct {
	Types      map[ast.Expr]types.Type
	Uses       map[*ast.Ident]*Symbol
	UsedStdlib map[string]registry.Entry
	Global     *Scope
	Structs    map[string]*types.Struct
	Enums      map[string]*types.Enum
}

// invalid is the type recorded for expressions whose real type could not
// be determined because of an earlier error. It unifies with nothing and
// suppresses cascading diagnostics at its use sites.
var invalid types.Type = &types.Primitive{Kind: "<invalid>"}

func isInvalid(t types.Type) bool { return t == invalid }

// fnContext tracks the function body being checked; nil means a top-level
// statement, which behaves like the body of an implicit void main.
type fnContext struct {
	name    string
	ret     types.Type
	retSpan span.Span
}

// comprContext tracks the innermost comprehension body being checked, so
// yield statements can be typed and return statements rejected. For a map
// with no contextual element type, yieldWant is nil and got records the
// type of the first yield, which subsequent yields must match.
type comprContext struct {
	kind      ast.ComprehensionKind
	yieldWant types.Type // nil for `each` and context-free `map`
	got       types.Type
}

// Checker holds the mutable state of one checking run.
type Checker struct {
	info  *Info
	diags []diag.Diagnostic

	fn        *fnContext
	compr     *comprContext
	loopDepth int
}

// New creates a checker with an empty global scope.
func New() *Checker {
	return &Checker{
		info: &Info{
			Types:      make(map[ast.Expr]types.Type),
			Uses:       make(map[*ast.Ident]*Symbol),
			UsedStdlib: make(map[string]registry.Entry),
			Global:     NewScope(nil),
			Structs:    make(map[string]*types.Struct),
			Enums:      make(map[string]*types.Enum),
		},
	}
}

// Check validates file and returns the annotation tables plus any
// diagnostics. A non-empty diagnostic list means the Info tables are
// partial and must not be handed to the transpiler.
func Check(file *ast.File) (*Info, []diag.Diagnostic) {
	c := New()
	c.collectDecls(file)
	c.checkBodies(file)
	return c.info, c.diags
}

func (c *Checker) errorf(code diag.Code, sp span.Span, format string, args ...any) diag.Diagnostic {
	d := diag.New(diag.StageChecker, code, fmt.Sprintf(format, args...), sp)
	c.diags = append(c.diags, d)
	return d
}

// amend replaces the most recently recorded diagnostic, letting a check
// site attach secondary spans or help to the diagnostic errorf created.
func (c *Checker) amend(d diag.Diagnostic) {
	if len(c.diags) > 0 {
		c.diags[len(c.diags)-1] = d
	}
}

// ---- pass 1: top-level signatures ----

// collectDecls registers every struct, enum, and function before any body
// is looked at, so declarations may reference one another regardless of
// order: mutual recursion goes through the global symbol table, not
// graph cycles.
func (c *Checker) collectDecls(file *ast.File) {
	// Names first, so field and signature resolution can see every type.
	for _, d := range file.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			if c.declareDuplicate(decl.Name, decl.Span()) {
				continue
			}
			c.info.Structs[decl.Name] = &types.Struct{Name: decl.Name}
		case *ast.EnumDecl:
			if c.declareDuplicate(decl.Name, decl.Span()) {
				continue
			}
			c.info.Enums[decl.Name] = &types.Enum{Name: decl.Name, Variants: decl.Variants}
		}
	}

	for _, d := range file.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			st, ok := c.info.Structs[decl.Name]
			if !ok {
				continue // duplicate reported above
			}
			for _, f := range decl.Fields {
				ft := c.resolveType(f.Type)
				if !isInvalid(ft) && !types.IsConcrete(ft) {
					c.errorf(diag.CodeTypeNotConcrete, f.Span(),
						"struct field `%s` has non-concrete type `%s`", f.Name, ft)
				}
				st.Fields = append(st.Fields, types.Field{Name: f.Name, Type: ft})
			}
		case *ast.FuncDecl:
			if c.declareDuplicate(decl.Name, decl.Span()) {
				continue
			}
			sig := &types.Function{Return: c.resolveType(decl.ReturnType)}
			for _, p := range decl.Params {
				sig.Params = append(sig.Params, c.resolveType(p.Type))
			}
			c.info.Global.Insert(&Symbol{Name: decl.Name, Type: sig, DefSpan: decl.Span()})
		}
	}
}

// declareDuplicate reports whether name is already taken at the top level
// and records the name error if so. Top-level functions, structs, and
// enums share one namespace; bindings do not (they shadow).
func (c *Checker) declareDuplicate(name string, sp span.Span) bool {
	_, isStruct := c.info.Structs[name]
	_, isEnum := c.info.Enums[name]
	if isStruct || isEnum || c.info.Global.LookupLocal(name) != nil {
		c.errorf(diag.CodeNameDuplicate, sp, "`%s` is declared more than once", name)
		return true
	}
	return false
}

// resolveType turns a parsed type expression into a types.Type, reporting
// references to undeclared struct/enum names.
func (c *Checker) resolveType(te ast.TypeExpr) types.Type {
	if te == nil {
		return invalid
	}
	switch t := te.(type) {
	case *ast.PrimitiveType:
		switch t.Name {
		case "i":
			return types.TInt
		case "f":
			return types.TFloat
		case "s":
			return types.TStr
		case "b":
			return types.TBool
		case "v":
			return types.TVoid
		case "e":
			return types.TErr
		}
		return invalid
	case *ast.ArrayType:
		elem := c.resolveType(t.Elem)
		if !isInvalid(elem) && !types.IsConcrete(elem) {
			c.errorf(diag.CodeTypeNotConcrete, t.Span(),
				"array element type `%s` is not concrete", elem)
			return invalid
		}
		return &types.Array{Elem: elem}
	case *ast.HashMapType:
		key := c.resolveType(t.Key)
		val := c.resolveType(t.Value)
		if !isInvalid(key) && !types.IsConcrete(key) {
			c.errorf(diag.CodeTypeNotConcrete, t.Key.Span(),
				"hashmap key type `%s` is not concrete", key)
		}
		if !isInvalid(val) && !types.IsConcrete(val) {
			c.errorf(diag.CodeTypeNotConcrete, t.Value.Span(),
				"hashmap value type `%s` is not concrete", val)
		}
		return &types.HashMap{Key: key, Value: val}
	case *ast.NamedType:
		if st, ok := c.info.Structs[t.Name]; ok {
			return st
		}
		if en, ok := c.info.Enums[t.Name]; ok {
			return en
		}
		c.errorf(diag.CodeNameUndeclaredType, t.Span(), "type `%s` is not declared", t.Name)
		return invalid
	case *ast.ResultType:
		return &types.Result{Inner: c.resolveType(t.Inner)}
	}
	return invalid
}

// ---- pass 2: bodies ----

// checkBodies walks function bodies and top-level statements in source
// order, each top-level declaration checked independently so errors in one
// do not hide errors in the next.
func (c *Checker) checkBodies(file *ast.File) {
	for _, d := range file.Decls {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			c.checkFunc(decl)
		case *ast.ConstDecl:
			c.checkConstDecl(decl, c.info.Global)
		default:
			if tl, ok := d.(interface{ AsStmt() ast.Stmt }); ok {
				c.checkStmt(tl.AsStmt(), c.info.Global)
			}
		}
	}
}

func (c *Checker) checkFunc(decl *ast.FuncDecl) {
	sym := c.info.Global.LookupLocal(decl.Name)
	if sym == nil {
		return // duplicate; signature discarded in pass 1
	}
	sig := sym.Type.(*types.Function)

	sc := NewScope(c.info.Global)
	for i, p := range decl.Params {
		sc.Insert(&Symbol{Name: p.Name, Type: sig.Params[i], DefSpan: p.Span()})
	}

	prev := c.fn
	c.fn = &fnContext{name: decl.Name, ret: sig.Return, retSpan: decl.ReturnType.Span()}
	defer func() { c.fn = prev }()

	for _, s := range decl.Body.Stmts {
		c.checkStmt(s, sc)
	}

	if !types.Equal(sig.Return, types.TVoid) && !isInvalid(sig.Return) &&
		!c.blockAlwaysReturns(decl.Body) {
		c.amend(c.errorf(diag.CodeFlowMissingReturn, decl.Body.Span(),
			"function `%s` does not return on every control-flow path", decl.Name).
			WithSecondarySpan(decl.ReturnType.Span(), "return type declared here"))
	}
}

// assignable reports whether a value of type actual can initialize a
// binding (or satisfy a parameter) declared as want. Equality is
// structural; a result with an unknown inner type (from a bare err call)
// unifies with any result.
func assignable(want, actual types.Type) bool {
	if want == nil || actual == nil || isInvalid(want) || isInvalid(actual) {
		return true // earlier diagnostic already covers this
	}
	return types.Equal(want, actual)
}
