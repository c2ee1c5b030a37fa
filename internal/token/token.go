// Package token defines Nail's closed set of lexical token kinds and the
// Token value the lexer produces for each one.
package token

import "github.com/nail-lang/nailc/internal/span"

// Kind is a closed enumeration of token kinds, partitioned
// into keywords, type markers, literals, identifiers, punctuation,
// operators, and sentinels.
type Kind string

const (
	// Sentinels
	EOF     Kind = "EOF"
	ILLEGAL Kind = "ILLEGAL"

	// Identifiers
	IdentSnake  Kind = "IDENT_SNAKE"  // lowercase-led: bindings, functions, fields
	IdentPascal Kind = "IDENT_PASCAL" // uppercase-led: struct/enum names, variants

	// Literals
	IntLit    Kind = "INT_LITERAL"
	FloatLit  Kind = "FLOAT_LITERAL"
	StringLit Kind = "STRING_LITERAL"
	BoolLit   Kind = "BOOL_LITERAL"

	// Type markers
	TypeInt    Kind = "i"
	TypeFloat  Kind = "f"
	TypeString Kind = "s"
	TypeBool   Kind = "b"
	TypeVoid   Kind = "v"
	TypeArray  Kind = "a"
	TypeHash   Kind = "h"
	TypeError  Kind = "e"

	// Keywords
	KwF        Kind = "KW_F" // function declaration
	KwIf       Kind = "KW_IF"
	KwElse     Kind = "KW_ELSE"
	KwStruct   Kind = "KW_STRUCT"
	KwEnum     Kind = "KW_ENUM"
	KwR        Kind = "KW_R" // return
	KwY        Kind = "KW_Y" // yield
	KwMap      Kind = "KW_MAP"
	KwFilter   Kind = "KW_FILTER"
	KwReduce   Kind = "KW_REDUCE"
	KwEach     Kind = "KW_EACH"
	KwFind     Kind = "KW_FIND"
	KwAll      Kind = "KW_ALL"
	KwAny      Kind = "KW_ANY"
	KwIn       Kind = "KW_IN"
	KwFrom     Kind = "KW_FROM"
	KwFor      Kind = "KW_FOR"
	KwWhile    Kind = "KW_WHILE"
	KwLoop     Kind = "KW_LOOP"
	KwMax      Kind = "KW_MAX"
	KwParallel Kind = "KW_PARALLEL"
	KwSpawn    Kind = "KW_SPAWN"
	KwBreak    Kind = "KW_BREAK"
	KwContinue Kind = "KW_CONTINUE"
	KwTrue     Kind = "KW_TRUE"
	KwFalse    Kind = "KW_FALSE"

	// Punctuation
	Colon        Kind = "COLON"
	Semicolon    Kind = "SEMICOLON"
	Comma        Kind = "COMMA"
	Assign       Kind = "ASSIGN"
	FatArrow     Kind = "FAT_ARROW"
	LBrace       Kind = "LBRACE"
	RBrace       Kind = "RBRACE"
	LParen       Kind = "LPAREN"
	RParen       Kind = "RPAREN"
	LBracket     Kind = "LBRACKET"
	RBracket     Kind = "RBRACKET"
	Lt           Kind = "LT"
	Gt           Kind = "GT"
	Pipe         Kind = "PIPE" // |
	Bang         Kind = "BANG" // !
	Dot          Kind = "DOT"  // . (field access)
	DoubleColon  Kind = "DOUBLE_COLON"
	PipeOperator Kind = "PIPE_OPERATOR" // |>

	// Operators
	Plus    Kind = "PLUS"
	Minus   Kind = "MINUS"
	Star    Kind = "STAR"
	Slash   Kind = "SLASH"
	Percent Kind = "PERCENT"
	EqEq    Kind = "EQ_EQ"
	NotEq   Kind = "NOT_EQ"
	LtEq    Kind = "LT_EQ"
	GtEq    Kind = "GT_EQ"
	AndAnd  Kind = "AND_AND"
	OrOr    Kind = "OR_OR"
)

// Keywords maps reserved words to their keyword kind. Words not present are
// ordinary identifiers (subject to case validation by the lexer).
var Keywords = map[string]Kind{
	"f":        KwF,
	"if":       KwIf,
	"else":     KwElse,
	"struct":   KwStruct,
	"enum":     KwEnum,
	"r":        KwR,
	"y":        KwY,
	"map":      KwMap,
	"filter":   KwFilter,
	"reduce":   KwReduce,
	"each":     KwEach,
	"find":     KwFind,
	"all":      KwAll,
	"any":      KwAny,
	"in":       KwIn,
	"from":     KwFrom,
	"for":      KwFor,
	"while":    KwWhile,
	"loop":     KwLoop,
	"max":      KwMax,
	"parallel": KwParallel,
	"spawn":    KwSpawn,
	"break":    KwBreak,
	"continue": KwContinue,
	"true":     KwTrue,
	"false":    KwFalse,
}

// TypeMarkers maps the single-letter type-marker keywords to their kind.
// These are the only single-letter identifiers the lexer accepts. The lexer
// consults Keywords first, so `f` always lexes as KwF; the parser accepts
// KwF as the float marker in type position.
var TypeMarkers = map[string]Kind{
	"i": TypeInt,
	"f": TypeFloat,
	"s": TypeString,
	"b": TypeBool,
	"v": TypeVoid,
	"a": TypeArray,
	"h": TypeHash,
	"e": TypeError,
}

// Token is a single lexical token: a kind, its literal text, and its span.
type Token struct {
	Kind Kind
	Text string // exact source text (decoded for strings)
	Raw  string // exact source bytes, undecoded
	Span span.Span
}

// IsComprehensionKeyword reports whether k introduces one of the seven
// collection comprehensions.
func IsComprehensionKeyword(k Kind) bool {
	switch k {
	case KwMap, KwFilter, KwReduce, KwEach, KwFind, KwAll, KwAny:
		return true
	}
	return false
}
