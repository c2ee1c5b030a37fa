package check

import (
	"strings"

	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/registry"
	"github.com/nail-lang/nailc/internal/types"
)

// checkExpr infers the type of x, records it in the annotation table, and
// returns it. want is the contextual type at the use site (the declared
// type of a binding, a parameter type, a function's return type) and may
// be nil; it only influences constructs that cannot be typed bottom-up,
// such as `err(..)`, empty array literals, and `hashmap_new()`.
func (c *Checker) checkExpr(x ast.Expr, sc *Scope, want types.Type) types.Type {
	t := c.exprType(x, sc, want)
	if t == nil {
		t = invalid
	}
	c.info.Types[x] = t
	return t
}

func (c *Checker) exprType(x ast.Expr, sc *Scope, want types.Type) types.Type {
	switch expr := x.(type) {
	case *ast.IntLit:
		return types.TInt
	case *ast.FloatLit:
		return types.TFloat
	case *ast.StringLit:
		return types.TStr
	case *ast.BoolLit:
		return types.TBool
	case *ast.ArrayLit:
		return c.checkArrayLit(expr, sc, want)
	case *ast.Ident:
		sym := sc.Lookup(expr.Name)
		if sym == nil {
			c.errorf(diag.CodeNameUndeclaredIdent, expr.Span(),
				"`%s` is not declared in this scope", expr.Name)
			return invalid
		}
		c.info.Uses[expr] = sym
		return sym.Type
	case *ast.FieldAccess:
		return c.checkFieldAccess(expr, sc)
	case *ast.IndexAccess:
		return c.checkIndexAccess(expr, sc)
	case *ast.UnaryExpr:
		return c.checkUnary(expr, sc)
	case *ast.BinaryExpr:
		return c.checkBinary(expr, sc)
	case *ast.CallExpr:
		return c.checkCall(expr, expr.Args, sc, want)
	case *ast.PipeExpr:
		// x |> f(a, b) is typed as f(a, b, x).
		args := make([]ast.Expr, 0, len(expr.Call.Args)+1)
		args = append(args, expr.Call.Args...)
		args = append(args, expr.Left)
		t := c.checkCall(expr.Call, args, sc, want)
		c.info.Types[expr.Call] = t
		return t
	case *ast.StructLit:
		return c.checkStructLit(expr, sc)
	case *ast.EnumVariantExpr:
		en, ok := c.info.Enums[expr.Enum]
		if !ok {
			c.errorf(diag.CodeNameUndeclaredType, expr.Span(), "`%s` is not a declared enum", expr.Enum)
			return invalid
		}
		for _, v := range en.Variants {
			if v == expr.Variant {
				return en
			}
		}
		c.errorf(diag.CodeTypeMismatch, expr.Span(),
			"enum `%s` has no variant `%s`", expr.Enum, expr.Variant)
		return en
	case *ast.CondExpr:
		return c.checkCond(expr, sc, true)
	case *ast.Comprehension:
		return c.checkComprehension(expr, sc, want)
	}
	return invalid
}

func (c *Checker) checkArrayLit(lit *ast.ArrayLit, sc *Scope, want types.Type) types.Type {
	var elemWant types.Type
	if arr, ok := want.(*types.Array); ok {
		elemWant = arr.Elem
	}
	if len(lit.Elems) == 0 {
		if elemWant != nil {
			return &types.Array{Elem: elemWant}
		}
		c.errorf(diag.CodeTypeMismatch, lit.Span(),
			"cannot infer the element type of an empty array literal")
		return invalid
	}
	first := c.checkExpr(lit.Elems[0], sc, elemWant)
	for _, e := range lit.Elems[1:] {
		t := c.checkExpr(e, sc, first)
		if !isInvalid(first) && !isInvalid(t) && !types.Equal(first, t) {
			c.amend(c.errorf(diag.CodeTypeMismatch, e.Span(),
				"array element has type `%s` but the array holds `%s`", t, first).
				WithSecondarySpan(lit.Elems[0].Span(), "element type fixed here"))
		}
	}
	if isInvalid(first) {
		return invalid
	}
	return &types.Array{Elem: first}
}

func (c *Checker) checkFieldAccess(fa *ast.FieldAccess, sc *Scope) types.Type {
	recv := c.checkExpr(fa.Receiver, sc, nil)
	if isInvalid(recv) {
		return invalid
	}
	st, ok := recv.(*types.Struct)
	if !ok {
		c.errorf(diag.CodeTypeMismatch, fa.Span(),
			"field access requires a struct receiver, got `%s`", recv)
		return invalid
	}
	for _, f := range st.Fields {
		if f.Name == fa.Field {
			return f.Type
		}
	}
	c.errorf(diag.CodeTypeMismatch, fa.Span(),
		"struct `%s` has no field `%s`", st.Name, fa.Field)
	return invalid
}

func (c *Checker) checkIndexAccess(ia *ast.IndexAccess, sc *Scope) types.Type {
	recv := c.checkExpr(ia.Receiver, sc, nil)
	switch r := recv.(type) {
	case *types.Array:
		idx := c.checkExpr(ia.Index, sc, types.TInt)
		if !isInvalid(idx) && !types.Equal(idx, types.TInt) {
			c.errorf(diag.CodeTypeMismatch, ia.Index.Span(),
				"array index must be `Int`, got `%s`", idx)
		}
		return r.Elem
	case *types.HashMap:
		idx := c.checkExpr(ia.Index, sc, r.Key)
		if !isInvalid(idx) && !types.Equal(idx, r.Key) {
			c.errorf(diag.CodeTypeMismatch, ia.Index.Span(),
				"hashmap key must be `%s`, got `%s`", r.Key, idx)
		}
		// Lookup may miss, so key access is fallible like hashmap_get.
		return &types.Result{Inner: r.Value}
	}
	if !isInvalid(recv) {
		c.errorf(diag.CodeTypeMismatch, ia.Span(),
			"only arrays and hashmaps can be indexed, got `%s`", recv)
	}
	return invalid
}

func (c *Checker) checkUnary(u *ast.UnaryExpr, sc *Scope) types.Type {
	t := c.checkExpr(u.Operand, sc, nil)
	if isInvalid(t) {
		return invalid
	}
	switch u.Op {
	case ast.OpNeg:
		if types.Equal(t, types.TInt) || types.Equal(t, types.TFloat) {
			return t
		}
		c.errorf(diag.CodeTypeMismatch, u.Span(), "cannot negate `%s`", t)
	case ast.OpNot:
		if types.Equal(t, types.TBool) {
			return t
		}
		c.errorf(diag.CodeTypeMismatch, u.Span(), "`!` requires `Bool`, got `%s`", t)
	}
	return invalid
}

func (c *Checker) checkBinary(b *ast.BinaryExpr, sc *Scope) types.Type {
	left := c.checkExpr(b.Left, sc, nil)
	right := c.checkExpr(b.Right, sc, left)
	if isInvalid(left) || isInvalid(right) {
		return invalid
	}

	switch b.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		// `+` doubles as string concatenation; the other arithmetic
		// operators are numeric only.
		if b.Op == ast.OpAdd && types.Equal(left, types.TStr) && types.Equal(right, types.TStr) {
			return types.TStr
		}
		if types.Equal(left, right) &&
			(types.Equal(left, types.TInt) || types.Equal(left, types.TFloat)) {
			return left
		}
		c.errorf(diag.CodeTypeMismatch, b.Span(),
			"operator `%s` requires two Ints or two Floats, got `%s` and `%s`", b.Op, left, right)
		return invalid
	case ast.OpEq, ast.OpNotEq, ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		if !types.Equal(left, right) {
			c.errorf(diag.CodeTypeMismatch, b.Span(),
				"cannot compare `%s` with `%s`", left, right)
			return invalid
		}
		return types.TBool
	case ast.OpAnd, ast.OpOr:
		if !types.Equal(left, types.TBool) || !types.Equal(right, types.TBool) {
			c.errorf(diag.CodeTypeMismatch, b.Span(),
				"operator `%s` requires `Bool` operands, got `%s` and `%s`", b.Op, left, right)
			return invalid
		}
		return types.TBool
	}
	return invalid
}

func (c *Checker) checkStructLit(lit *ast.StructLit, sc *Scope) types.Type {
	st, ok := c.info.Structs[lit.Name]
	if !ok {
		c.errorf(diag.CodeNameUndeclaredType, lit.Span(), "`%s` is not a declared struct", lit.Name)
		for _, f := range lit.Fields {
			c.checkExpr(f.Value, sc, nil)
		}
		return invalid
	}

	seen := make(map[string]bool)
	for _, f := range lit.Fields {
		var declared types.Type
		found := false
		for _, df := range st.Fields {
			if df.Name == f.Name {
				declared, found = df.Type, true
				break
			}
		}
		if !found {
			c.errorf(diag.CodeTypeFieldMismatch, f.Span(),
				"struct `%s` has no field `%s`", st.Name, f.Name)
			c.checkExpr(f.Value, sc, nil)
			continue
		}
		if seen[f.Name] {
			c.errorf(diag.CodeTypeFieldMismatch, f.Span(),
				"field `%s` is initialized more than once", f.Name)
		}
		seen[f.Name] = true
		got := c.checkExpr(f.Value, sc, declared)
		if !isInvalid(got) && !assignable(declared, got) {
			c.errorf(diag.CodeTypeFieldMismatch, f.Value.Span(),
				"field `%s` has type `%s`, got `%s`", f.Name, declared, got)
		}
	}
	for _, df := range st.Fields {
		if !seen[df.Name] {
			c.errorf(diag.CodeTypeFieldMismatch, lit.Span(),
				"struct literal is missing field `%s`", df.Name)
		}
	}
	return st
}

// ---- calls ----

// checkCall types a call expression against either a user-declared
// function or a stdlib registry entry. args is passed separately so pipe
// expressions can thread their left operand as the final argument without
// mutating the AST.
func (c *Checker) checkCall(call *ast.CallExpr, args []ast.Expr, sc *Scope, want types.Type) types.Type {
	callee, ok := call.Callee.(*ast.Ident)
	if !ok {
		c.errorf(diag.CodeTypeMismatch, call.Callee.Span(), "only named functions can be called")
		return invalid
	}

	if sym := sc.Lookup(callee.Name); sym != nil {
		sig, ok := sym.Type.(*types.Function)
		if !ok {
			c.errorf(diag.CodeTypeMismatch, callee.Span(), "`%s` is not a function", callee.Name)
			return invalid
		}
		c.info.Uses[callee] = sym
		c.info.Types[callee] = sig
		return c.checkUserCall(call, sig, args, sc)
	}

	if entry, ok := registry.Lookup(callee.Name); ok {
		return c.checkStdlibCall(call, entry, args, sc, want)
	}

	c.errorf(diag.CodeRegistryUnknownCall, callee.Span(),
		"`%s` is neither a declared function nor a stdlib function", callee.Name)
	for _, a := range args {
		c.checkExpr(a, sc, nil)
	}
	return invalid
}

func (c *Checker) checkUserCall(call *ast.CallExpr, sig *types.Function, args []ast.Expr, sc *Scope) types.Type {
	if len(args) != len(sig.Params) {
		c.errorf(diag.CodeTypeWrongArity, call.Span(),
			"call takes %d argument(s), got %d", len(sig.Params), len(args))
		for _, a := range args {
			c.checkExpr(a, sc, nil)
		}
		return sig.Return
	}
	for i, a := range args {
		at := c.checkExpr(a, sc, sig.Params[i])
		c.checkArgAgainst(a, sig.Params[i], at)
	}
	return sig.Return
}

// checkArgAgainst reports a mismatch between an argument's inferred type
// and its parameter, distinguishing the unhandled-result case so the
// diagnostic can point at the missing discharge.
func (c *Checker) checkArgAgainst(arg ast.Expr, param, at types.Type) {
	if isInvalid(at) || isInvalid(param) {
		return
	}
	if isResult(at) && !isResult(param) {
		c.amend(c.errorf(diag.CodeTypeUnhandledResult, arg.Span(),
			"fallible value of type `%s` passed where `%s` is expected", at, param).
			WithHelp("discharge it with safe(..), danger(..), or expect(..)"))
		return
	}
	if !assignable(param, at) {
		c.errorf(diag.CodeTypeMismatch, arg.Span(),
			"argument has type `%s`, expected `%s`", at, param)
	}
}

func (c *Checker) checkStdlibCall(call *ast.CallExpr, entry registry.Entry, args []ast.Expr, sc *Scope, want types.Type) types.Type {
	c.info.UsedStdlib[entry.Name] = entry

	switch entry.Tag {
	case registry.TagVariadicPrint:
		// The one name-keyed special case the registry design permits:
		// print accepts any number of arguments of any non-void,
		// non-result type and formats them uniformly.
		for _, a := range args {
			at := c.checkExpr(a, sc, nil)
			if isResult(at) {
				c.amend(c.errorf(diag.CodeTypeUnhandledResult, a.Span(),
					"fallible value of type `%s` cannot be printed without a discharge", at).
					WithHelp("discharge it with safe(..), danger(..), or expect(..)"))
			} else if types.Equal(at, types.TVoid) {
				c.errorf(diag.CodeTypeMismatch, a.Span(), "cannot print a void expression")
			}
		}
		return entry.Return
	case registry.TagErrorConstructor:
		return c.checkErrorConstructor(call, entry, args, sc, want)
	case registry.TagErrorDischarger:
		return c.checkDischarge(call, entry, args, sc)
	}

	if len(args) != len(entry.Params) {
		c.errorf(diag.CodeTypeWrongArity, call.Span(),
			"`%s` takes %d argument(s), got %d", entry.Name, len(entry.Params), len(args))
		for _, a := range args {
			c.checkExpr(a, sc, nil)
		}
		return subst(entry.Return, nil)
	}

	// bind accumulates which concrete alternative each any-of placeholder
	// resolved to at this call site. Registry entries share one *AnyOf
	// value between parameters and return type, so pointer identity is
	// the binding key. The contextual type seeds the binding for entries
	// like hashmap_new whose arguments alone cannot fix it.
	bind := make(map[*types.AnyOf]types.Type)
	if want != nil && !isInvalid(want) {
		matchType(entry.Return, want, bind)
	}
	for i, a := range args {
		param := entry.Params[i]
		at := c.checkExpr(a, sc, subst(param, bind))
		if isInvalid(at) {
			continue
		}
		if isResult(at) && !isResult(param) {
			c.amend(c.errorf(diag.CodeTypeUnhandledResult, a.Span(),
				"fallible value of type `%s` passed where `%s` is expected", at, param).
				WithHelp("discharge it with safe(..), danger(..), or expect(..)"))
			continue
		}
		if !matchType(param, at, bind) {
			c.errorf(diag.CodeTypeMismatch, a.Span(),
				"argument %d of `%s` has type `%s`, expected `%s`", i+1, entry.Name, at, param)
			continue
		}
		if ao, ok := param.(*types.AnyOf); ok {
			if call.AnyOfChoice == nil {
				call.AnyOfChoice = make(map[int]string)
			}
			call.AnyOfChoice[i] = bind[ao].String()
		}
	}
	return subst(entry.Return, bind)
}

func (c *Checker) checkErrorConstructor(call *ast.CallExpr, entry registry.Entry, args []ast.Expr, sc *Scope, want types.Type) types.Type {
	if len(args) != 1 {
		c.errorf(diag.CodeTypeWrongArity, call.Span(), "`%s` takes 1 argument, got %d", entry.Name, len(args))
		return &types.Result{}
	}
	var innerWant types.Type
	if r, ok := want.(*types.Result); ok {
		innerWant = r.Inner
	}

	if entry.Name == "err" {
		at := c.checkExpr(args[0], sc, types.TStr)
		if !isInvalid(at) && !types.Equal(at, types.TStr) {
			c.errorf(diag.CodeTypeMismatch, args[0].Span(),
				"`err` takes a `String` message, got `%s`", at)
		}
		// The success type comes from context; nil means "any result".
		return &types.Result{Inner: innerWant}
	}

	at := c.checkExpr(args[0], sc, innerWant)
	if isResult(at) {
		c.errorf(diag.CodeTypeMismatch, args[0].Span(), "cannot wrap an already-fallible value with `ok`")
		return at
	}
	if innerWant != nil && !isInvalid(at) && !assignable(innerWant, at) {
		c.errorf(diag.CodeTypeMismatch, args[0].Span(),
			"`ok` value has type `%s`, expected `%s`", at, innerWant)
	}
	return &types.Result{Inner: at}
}

// checkDischarge types safe/danger/expect. The handler-takes-Error rule
// comes from the registry entry's own signature (its second parameter is a
// function type whose parameter list is the authority), not from a
// hard-coded constant here.
func (c *Checker) checkDischarge(call *ast.CallExpr, entry registry.Entry, args []ast.Expr, sc *Scope) types.Type {
	if len(args) != len(entry.Params) {
		c.errorf(diag.CodeTypeWrongArity, call.Span(),
			"`%s` takes %d argument(s), got %d", entry.Name, len(entry.Params), len(args))
		for _, a := range args {
			c.checkExpr(a, sc, nil)
		}
		return invalid
	}

	at := c.checkExpr(args[0], sc, nil)
	res, ok := at.(*types.Result)
	if !ok {
		if !isInvalid(at) {
			c.errorf(diag.CodeTypeMismatch, args[0].Span(),
				"`%s` expects a fallible expression, got `%s`", entry.Name, at)
		}
		return invalid
	}
	inner := res.Inner
	if inner == nil {
		inner = invalid
	}

	if len(entry.Params) == 2 {
		required := entry.Params[1].(*types.Function)
		ht := c.checkExpr(args[1], sc, nil)
		handler, isFn := ht.(*types.Function)
		switch {
		case isInvalid(ht):
		case !isFn:
			c.errorf(diag.CodeTypeBadHandlerParam, args[1].Span(),
				"`%s` handler must be a function, got `%s`", entry.Name, ht)
		case len(handler.Params) != 1 || !types.Equal(handler.Params[0], required.Params[0]):
			c.amend(c.errorf(diag.CodeTypeBadHandlerParam, args[1].Span(),
				"`%s` handler must take a single `%s` parameter", entry.Name, required.Params[0]).
				WithHelp("declare the handler as `f name(err_val:e):" + typeMarker(inner) + "`"))
		case !isInvalid(inner) && !assignable(inner, handler.Return):
			c.errorf(diag.CodeTypeBadHandlerParam, args[1].Span(),
				"`%s` handler returns `%s` but the fallible expression carries `%s`",
				entry.Name, handler.Return, inner)
		}
	}
	return inner
}

// ---- conditionals ----

// checkCond validates a conditional in either position. In expression
// position every branch must end with a `r <value>` whose types unify
// across branches (diverging branches excluded); in statement position the
// branch blocks are ordinary blocks. Exhaustiveness of enum-equality
// conditionals is enforced in both positions.
func (c *Checker) checkCond(cond *ast.CondExpr, sc *Scope, exprPos bool) types.Type {
	for _, br := range cond.Branches {
		gt := c.checkExpr(br.Guard, sc, types.TBool)
		if !isInvalid(gt) && !types.Equal(gt, types.TBool) {
			c.errorf(diag.CodeTypeMismatch, br.Guard.Span(),
				"conditional guard must be `Bool`, got `%s`", gt)
		}
	}

	c.checkCondExhaustive(cond)

	if !exprPos {
		for _, br := range cond.Branches {
			c.checkBranchBlock(br.Body, sc)
		}
		if cond.Else != nil {
			c.checkBranchBlock(cond.Else, sc)
		}
		return types.TVoid
	}

	var unified types.Type
	var unifiedSpan = cond.Span()
	consider := func(b *ast.Block) {
		t := c.checkValueBlock(b, sc)
		if t == nil || isInvalid(t) {
			return // diverging branch, or already diagnosed
		}
		if unified == nil {
			unified, unifiedSpan = t, b.Span()
			return
		}
		if !types.Equal(unified, t) {
			c.amend(c.errorf(diag.CodeTypeMismatch, b.Span(),
				"conditional branches disagree: this branch produces `%s`, an earlier one `%s`", t, unified).
				WithSecondarySpan(unifiedSpan, "earlier branch here"))
		}
	}
	for _, br := range cond.Branches {
		consider(br.Body)
	}
	if cond.Else != nil {
		consider(cond.Else)
	}
	if unified == nil {
		return invalid
	}
	if types.Equal(unified, types.TVoid) {
		c.errorf(diag.CodeTypeMismatch, cond.Span(),
			"a conditional in expression position must produce a non-void value")
		return invalid
	}
	return unified
}

func (c *Checker) checkBranchBlock(b *ast.Block, sc *Scope) {
	inner := NewScope(sc)
	for _, s := range b.Stmts {
		c.checkStmt(s, inner)
	}
}

// checkValueBlock checks a branch block used in expression position: its
// trailing `r <value>` carries the branch value rather than returning from
// the enclosing function. It returns nil for diverging branches so the
// caller can exclude them from unification.
func (c *Checker) checkValueBlock(b *ast.Block, sc *Scope) types.Type {
	inner := NewScope(sc)
	if c.blockDiverges(b) {
		for _, s := range b.Stmts {
			c.checkStmt(s, inner)
		}
		return nil
	}

	n := len(b.Stmts)
	if n == 0 {
		c.errorf(diag.CodeFlowMissingReturn, b.Span(),
			"a conditional branch in expression position must end with `r <value>`")
		return invalid
	}
	for _, s := range b.Stmts[:n-1] {
		c.checkStmt(s, inner)
	}
	ret, ok := b.Stmts[n-1].(*ast.ReturnStmt)
	if !ok || ret.Value == nil {
		c.errorf(diag.CodeFlowMissingReturn, b.Stmts[n-1].Span(),
			"a conditional branch in expression position must end with `r <value>`")
		return invalid
	}
	return c.checkExpr(ret.Value, inner, nil)
}

// checkCondExhaustive verifies that a conditional without an else whose
// guards are all equality tests of one binding against variants of one
// enum covers every variant.
func (c *Checker) checkCondExhaustive(cond *ast.CondExpr) {
	if cond.Else != nil {
		return
	}
	enumName, covered, ok := c.condEnumCoverage(cond)
	if !ok {
		return
	}
	en := c.info.Enums[enumName]
	var missing []string
	for _, v := range en.Variants {
		if !covered[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) == 0 {
		return
	}
	c.amend(c.errorf(diag.CodeTypeNonExhaustive, cond.Span(),
		"conditional over enum `%s` does not cover variant(s) %s and has no `else` branch",
		enumName, "`"+strings.Join(missing, "`, `")+"`").
		WithHelp("add branches for the missing variants or an `else` branch"))
}

// condEnumCoverage reports whether every guard of cond has the shape
// `name == Enum::Variant` against one shared binding and enum, and if so
// which variants the guards cover.
func (c *Checker) condEnumCoverage(cond *ast.CondExpr) (string, map[string]bool, bool) {
	if len(cond.Branches) == 0 {
		return "", nil, false
	}
	covered := make(map[string]bool)
	subject, enumName := "", ""
	for _, br := range cond.Branches {
		bin, ok := br.Guard.(*ast.BinaryExpr)
		if !ok || bin.Op != ast.OpEq {
			return "", nil, false
		}
		id, variant, ok := eqEnumOperands(bin)
		if !ok {
			return "", nil, false
		}
		if subject == "" {
			subject, enumName = id.Name, variant.Enum
			if _, declared := c.info.Enums[enumName]; !declared {
				return "", nil, false
			}
		} else if id.Name != subject || variant.Enum != enumName {
			return "", nil, false
		}
		covered[variant.Variant] = true
	}
	return enumName, covered, true
}

func eqEnumOperands(bin *ast.BinaryExpr) (*ast.Ident, *ast.EnumVariantExpr, bool) {
	if id, ok := bin.Left.(*ast.Ident); ok {
		if ev, ok := bin.Right.(*ast.EnumVariantExpr); ok {
			return id, ev, true
		}
	}
	if id, ok := bin.Right.(*ast.Ident); ok {
		if ev, ok := bin.Left.(*ast.EnumVariantExpr); ok {
			return id, ev, true
		}
	}
	return nil, nil, false
}

// ---- comprehensions ----

// checkComprehension types one of the seven collection comprehensions
// . The body is checked in a new
// scope holding the element binding (and index/accumulator bindings when
// present) with a comprehension context so `y` statements resolve and `r`
// statements are rejected.
func (c *Checker) checkComprehension(compr *ast.Comprehension, sc *Scope, want types.Type) types.Type {
	src := c.checkExpr(compr.Source, sc, nil)

	elemType, indexType := invalid, types.Type(types.TInt)
	switch s := src.(type) {
	case *types.Array:
		elemType = s.Elem
	case *types.HashMap:
		// Hashmap iteration binds the value, with the key as the index.
		elemType, indexType = s.Value, s.Key
	default:
		if !isInvalid(src) {
			c.errorf(diag.CodeTypeMismatch, compr.Source.Span(),
				"`%s` iterates an array or hashmap, got `%s`", compr.Kind, src)
		}
	}

	var seedType types.Type
	if compr.Kind == ast.ComprReduce {
		if compr.Seed != nil {
			seedType = c.checkExpr(compr.Seed, sc, nil)
		} else {
			seedType = invalid // parser already reported the missing `from`
		}
	}

	body := NewScope(sc)
	if compr.Acc != "" {
		body.Insert(&Symbol{Name: compr.Acc, Type: seedType, DefSpan: compr.Span()})
	}
	body.Insert(&Symbol{Name: compr.Elem, Type: elemType, DefSpan: compr.Span()})
	if compr.Index != "" {
		body.Insert(&Symbol{Name: compr.Index, Type: indexType, DefSpan: compr.Span()})
	}

	ctx := &comprContext{kind: compr.Kind}
	switch compr.Kind {
	case ast.ComprFilter, ast.ComprFind, ast.ComprAll, ast.ComprAny:
		ctx.yieldWant = types.TBool
	case ast.ComprReduce:
		ctx.yieldWant = seedType
	case ast.ComprMap:
		if arr, ok := want.(*types.Array); ok {
			ctx.yieldWant = arr.Elem
		}
	}

	prevCompr, prevLoop := c.compr, c.loopDepth
	c.compr, c.loopDepth = ctx, 0
	for _, s := range compr.Body.Stmts {
		c.checkStmt(s, body)
	}
	mapYield := ctx.yieldWant
	if mapYield == nil {
		mapYield = ctx.got
	}
	c.compr, c.loopDepth = prevCompr, prevLoop

	if compr.Kind != ast.ComprEach && !c.blockAlwaysYields(compr.Body) {
		c.errorf(diag.CodeFlowMissingYield, compr.Body.Span(),
			"`%s` body must yield a value on every control-flow path", compr.Kind)
	}

	switch compr.Kind {
	case ast.ComprMap:
		if mapYield == nil || isInvalid(mapYield) {
			return invalid
		}
		return &types.Array{Elem: mapYield}
	case ast.ComprFilter:
		if isInvalid(elemType) {
			return invalid
		}
		return &types.Array{Elem: elemType}
	case ast.ComprReduce:
		return seedType
	case ast.ComprEach:
		return types.TVoid
	case ast.ComprFind:
		if isInvalid(elemType) {
			return invalid
		}
		return &types.Result{Inner: elemType}
	case ast.ComprAll, ast.ComprAny:
		return types.TBool
	}
	return invalid
}

// ---- any-of resolution ----

// matchType unifies a registry parameter type with an argument type,
// binding any-of placeholders by pointer identity as it goes.
func matchType(param, arg types.Type, bind map[*types.AnyOf]types.Type) bool {
	if arg == nil || isInvalid(arg) {
		return true
	}
	switch p := param.(type) {
	case *types.AnyOf:
		if bound, ok := bind[p]; ok {
			return types.Equal(bound, arg)
		}
		if alt, ok := types.AnyOfMatch(p, arg); ok {
			bind[p] = alt
			return true
		}
		// Nested matches (e.g. an array argument against an any-of listing
		// array alternatives) bind through the alternative's structure.
		for _, alt := range p.Alternatives {
			trial := make(map[*types.AnyOf]types.Type, len(bind))
			for k, v := range bind {
				trial[k] = v
			}
			if matchType(alt, arg, trial) {
				for k, v := range trial {
					bind[k] = v
				}
				bind[p] = arg
				return true
			}
		}
		return false
	case *types.Array:
		a, ok := arg.(*types.Array)
		return ok && matchType(p.Elem, a.Elem, bind)
	case *types.HashMap:
		a, ok := arg.(*types.HashMap)
		return ok && matchType(p.Key, a.Key, bind) && matchType(p.Value, a.Value, bind)
	case *types.Result:
		a, ok := arg.(*types.Result)
		if !ok {
			return false
		}
		if p.Inner == nil || a.Inner == nil {
			return true
		}
		return matchType(p.Inner, a.Inner, bind)
	default:
		return types.Equal(param, arg)
	}
}

// subst replaces bound any-of placeholders in a registry type with their
// concrete choice. An unbound placeholder falls back to its first
// alternative so the result is deterministic.
func subst(t types.Type, bind map[*types.AnyOf]types.Type) types.Type {
	switch v := t.(type) {
	case *types.AnyOf:
		if bind != nil {
			if bound, ok := bind[v]; ok {
				return bound
			}
		}
		return v.Alternatives[0]
	case *types.Array:
		return &types.Array{Elem: subst(v.Elem, bind)}
	case *types.HashMap:
		return &types.HashMap{Key: subst(v.Key, bind), Value: subst(v.Value, bind)}
	case *types.Result:
		if v.Inner == nil {
			return v
		}
		return &types.Result{Inner: subst(v.Inner, bind)}
	default:
		return t
	}
}

// typeMarker renders a type the way it is written in source, for help
// text. Falls back to the display form for composite types.
func typeMarker(t types.Type) string {
	switch {
	case types.Equal(t, types.TInt):
		return "i"
	case types.Equal(t, types.TFloat):
		return "f"
	case types.Equal(t, types.TStr):
		return "s"
	case types.Equal(t, types.TBool):
		return "b"
	default:
		return t.String()
	}
}
