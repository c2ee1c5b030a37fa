// Package ast defines Nail's abstract syntax tree: a closed sum of node
// kinds rather than an open class hierarchy, so that the checker and
// transpiler's switches over node kind are exhaustive and reviewable.
package ast

import "github.com/nail-lang/nailc/internal/span"

// Node is any AST node with an associated source span.
type Node interface {
	Span() span.Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr is a type annotation as written in source.
type TypeExpr interface {
	Node
	typeNode()
}

type base struct {
	Sp span.Span
}

// Span returns the node's source span.
func (b base) Span() span.Span { return b.Sp }

// File is a parsed compilation unit: an ordered list of top-level
// declarations and statements.
type File struct {
	base
	Decls []Decl
}

// ---- Type expressions ----

// PrimitiveType names one of the primitive type markers (i, f, s, b, v, e).
type PrimitiveType struct {
	base
	Name string // "i", "f", "s", "b", "v", "e"
}

func (*PrimitiveType) typeNode() {}

// ArrayType is `a:T`.
type ArrayType struct {
	base
	Elem TypeExpr
}

func (*ArrayType) typeNode() {}

// HashMapType is `h:K:V`.
type HashMapType struct {
	base
	Key   TypeExpr
	Value TypeExpr
}

func (*HashMapType) typeNode() {}

// NamedType references a declared struct or enum by name.
type NamedType struct {
	base
	Name string
}

func (*NamedType) typeNode() {}

// ResultType is `T!e`.
type ResultType struct {
	base
	Inner TypeExpr
}

func (*ResultType) typeNode() {}

// ---- Declarations ----

// Param is a single function parameter `name:type`.
type Param struct {
	base
	Name string
	Type TypeExpr
}

// FuncDecl is `f name(params):return_type { body }`.
type FuncDecl struct {
	base
	Name       string
	Params     []*Param
	ReturnType TypeExpr
	Body       *Block
}

func (*FuncDecl) declNode() {}

// StructField is one `name : type` entry in a struct declaration.
type StructField struct {
	base
	Name string
	Type TypeExpr
}

// StructDecl is `struct Name { field : type, ... }`.
type StructDecl struct {
	base
	Name   string
	Fields []*StructField
}

func (*StructDecl) declNode() {}

// EnumDecl is `enum Name { Variant, ... }`.
type EnumDecl struct {
	base
	Name     string
	Variants []string
}

func (*EnumDecl) declNode() {}

// ConstDecl is `name:type = expr;`. It is valid both at the top level and
// as a statement inside a block, so it implements both Decl and Stmt.
type ConstDecl struct {
	base
	Name string
	Type TypeExpr
	Init Expr
}

func (*ConstDecl) declNode() {}
func (*ConstDecl) stmtNode() {}

// TopLevelStmt lets a statement occupy a Decl slot in File.Decls. declNode
// is unexported, so only a type defined in this package can implement Decl;
// the checker and transpiler unwrap it via AsStmt to reuse the same
// statement logic they apply inside function bodies.
type TopLevelStmt struct {
	base
	Stmt Stmt
}

// NewTopLevelStmt wraps a statement so it satisfies Decl.
func NewTopLevelStmt(sp span.Span, stmt Stmt) *TopLevelStmt {
	return &TopLevelStmt{base: base{Sp: sp}, Stmt: stmt}
}

func (*TopLevelStmt) declNode()      {}
func (t *TopLevelStmt) AsStmt() Stmt { return t.Stmt }

// ---- Statements ----

// ExprStmt wraps an expression used as a statement, terminated by `;`.
type ExprStmt struct {
	base
	X Expr
}

func (*ExprStmt) stmtNode() {}

// ReturnStmt is `r expr;` (or bare `r;` for a void function).
type ReturnStmt struct {
	base
	Value Expr // nil for void return
}

func (*ReturnStmt) stmtNode() {}

// YieldStmt is `y expr;`, legal only inside a comprehension body.
type YieldStmt struct {
	base
	Value Expr // nil for `each`'s statement form
}

func (*YieldStmt) stmtNode() {}

// BreakStmt is `break;`.
type BreakStmt struct{ base }

func (*BreakStmt) stmtNode() {}

// ContinueStmt is `continue;`.
type ContinueStmt struct{ base }

func (*ContinueStmt) stmtNode() {}

// ForStmt is `for name in expr { body }`.
type ForStmt struct {
	base
	Elem   string
	Source Expr
	Body   *Block
}

func (*ForStmt) stmtNode() {}

// WhileStmt is `while guard [from init] max limit { body }`.
type WhileStmt struct {
	base
	Guard Expr
	Init  Expr // optional
	Max   Expr // mandatory
	Body  *Block
}

func (*WhileStmt) stmtNode() {}

// LoopStmt is `loop [name] { body }`.
type LoopStmt struct {
	base
	Index string // "" if absent
	Body  *Block
}

func (*LoopStmt) stmtNode() {}

// ParallelStmt is `parallel { stmt; stmt; ... }`.
type ParallelStmt struct {
	base
	Stmts []Stmt
}

func (*ParallelStmt) stmtNode() {}

// SpawnStmt is `spawn { body }`.
type SpawnStmt struct {
	base
	Body *Block
}

func (*SpawnStmt) stmtNode() {}

// ---- Expressions ----

// Block is a brace-delimited statement sequence. A block used in
// expression position (conditional/comprehension branches) ends with a
// ReturnStmt or YieldStmt on every control-flow path; the checker verifies
// this rather than the parser.
type Block struct {
	base
	Stmts []Stmt
}

func (*Block) exprNode() {}

// IntLit, FloatLit, StringLit, BoolLit are literal expressions.
type IntLit struct {
	base
	Value int64
}

func (*IntLit) exprNode() {}

// FloatLit is a floating point literal.
type FloatLit struct {
	base
	Value float64
}

func (*FloatLit) exprNode() {}

// StringLit is a backtick-delimited string literal with escapes resolved.
type StringLit struct {
	base
	Value string
}

func (*StringLit) exprNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	base
	Value bool
}

func (*BoolLit) exprNode() {}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	base
	Elems []Expr
}

func (*ArrayLit) exprNode() {}

// Ident is an identifier reference.
type Ident struct {
	base
	Name string
}

func (*Ident) exprNode() {}

// FieldAccess is `receiver.field`.
type FieldAccess struct {
	base
	Receiver Expr
	Field    string
}

func (*FieldAccess) exprNode() {}

// IndexAccess is `receiver[index]`.
type IndexAccess struct {
	base
	Receiver Expr
	Index    Expr
}

func (*IndexAccess) exprNode() {}

// BinaryOp names a binary operator.
type BinaryOp string

const (
	OpAdd   BinaryOp = "+"
	OpSub   BinaryOp = "-"
	OpMul   BinaryOp = "*"
	OpDiv   BinaryOp = "/"
	OpMod   BinaryOp = "%"
	OpEq    BinaryOp = "=="
	OpNotEq BinaryOp = "!="
	OpLt    BinaryOp = "<"
	OpLtEq  BinaryOp = "<="
	OpGt    BinaryOp = ">"
	OpGtEq  BinaryOp = ">="
	OpAnd   BinaryOp = "&&"
	OpOr    BinaryOp = "||"
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	base
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryOp names a unary operator.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	base
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// CallExpr is `callee(args...)`. AnyOfChoice is filled in by the checker
// when an argument position resolves against a registry entry's any-of
// parameter, recording which concrete alternative the call site chose.
type CallExpr struct {
	base
	Callee      Expr
	Args        []Expr
	AnyOfChoice map[int]string
}

func (*CallExpr) exprNode() {}

// StructFieldInit is one `name: expr` entry of a struct literal.
type StructFieldInit struct {
	base
	Name  string
	Value Expr
}

// StructLit is `Name { field: expr, ... }`.
type StructLit struct {
	base
	Name   string
	Fields []*StructFieldInit
}

func (*StructLit) exprNode() {}

// EnumVariantExpr is `Name::Variant`.
type EnumVariantExpr struct {
	base
	Enum    string
	Variant string
}

func (*EnumVariantExpr) exprNode() {}

// PipeExpr is `left |> call`. The checker and transpiler treat it as if
// Call had been written with Left appended as its final argument.
type PipeExpr struct {
	base
	Left Expr
	Call *CallExpr
}

func (*PipeExpr) exprNode() {}

// CondBranch is one `guard => block` arm of a conditional expression.
type CondBranch struct {
	Guard Expr
	Body  *Block
}

// CondExpr is `if { guard => block, ..., else => block }`.
type CondExpr struct {
	base
	Branches []CondBranch
	Else     *Block // nil if no else arm
}

func (*CondExpr) exprNode() {}

// ComprehensionKind identifies which of the seven named comprehensions a
// Comprehension node represents.
type ComprehensionKind string

const (
	ComprMap    ComprehensionKind = "map"
	ComprFilter ComprehensionKind = "filter"
	ComprReduce ComprehensionKind = "reduce"
	ComprEach   ComprehensionKind = "each"
	ComprFind   ComprehensionKind = "find"
	ComprAll    ComprehensionKind = "all"
	ComprAny    ComprehensionKind = "any"
)

// Comprehension is one of the seven keyword-introduced collection
// operations; these are dedicated AST node kinds rather than sugar over a
// function call because their body uses `yield`, not a function literal.
//
// For `reduce acc elem [idx] in src from seed { ... }`, Acc names the
// accumulator binding; it is "" for the other six kinds.
type Comprehension struct {
	base
	Kind   ComprehensionKind
	Acc    string // reduce only
	Elem   string
	Index  string // "" if absent
	Source Expr
	Seed   Expr // non-nil only for ComprReduce
	Body   *Block
}

func (*Comprehension) exprNode() {}
