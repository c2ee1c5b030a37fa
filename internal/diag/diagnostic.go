// Package diag carries compiler diagnostics between pipeline stages and
// renders them in a Rust-style format: file path, line:column, a source
// snippet with a caret underline, and the message.
//
// Diagnostics are collected, never thrown: each stage returns its output
// alongside a []Diagnostic, and the driver only renders them once a stage's
// list is non-empty, short-circuiting the stages after it.
package diag

import "github.com/nail-lang/nailc/internal/span"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer      Stage = "lexer"
	StageParser     Stage = "parser"
	StageChecker    Stage = "checker"
	StageTranspiler Stage = "transpiler"
)

// Severity captures how impactful the diagnostic is. The compiler emits no
// warnings by design; the constant exists for completeness and for tools
// built on top of the registry.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a stable identifier for a diagnostic kind, grouped by the
// compiler's error taxonomy.
type Code string

const (
	// Lex errors
	CodeLexIllegalChar      Code = "LEX_ILLEGAL_CHAR"
	CodeLexMalformedLiteral Code = "LEX_MALFORMED_LITERAL"
	CodeLexUnterminatedStr  Code = "LEX_UNTERMINATED_STRING"
	CodeLexBadIdent         Code = "LEX_BAD_IDENTIFIER"
	CodeLexIncludeCycle     Code = "LEX_INCLUDE_CYCLE"
	CodeLexIncludeEscape    Code = "LEX_INCLUDE_ESCAPES_ROOT"
	CodeLexIncludeMissing   Code = "LEX_INCLUDE_MISSING"
	CodeLexIncludeNotString Code = "LEX_INCLUDE_TARGET_NOT_STRING"

	// Parse errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseMissingPunct    Code = "PARSE_MISSING_PUNCTUATOR"
	CodeParseMalformedDecl   Code = "PARSE_MALFORMED_DECLARATION"
	CodeParsePipeNonCall     Code = "PARSE_PIPE_INTO_NON_CALL"

	// Name errors
	CodeNameUndeclaredIdent Code = "NAME_UNDECLARED_IDENTIFIER"
	CodeNameUndeclaredType  Code = "NAME_UNDECLARED_TYPE"
	CodeNameDuplicate       Code = "NAME_DUPLICATE_DECLARATION"

	// Type errors
	CodeTypeMismatch        Code = "TYPE_MISMATCH"
	CodeTypeWrongArity      Code = "TYPE_WRONG_ARITY"
	CodeTypeNotConcrete     Code = "TYPE_NOT_CONCRETE"
	CodeTypeVoidBinding     Code = "TYPE_VOID_BINDING"
	CodeTypeUnhandledResult Code = "TYPE_UNHANDLED_RESULT"
	CodeTypeReturnYieldMix  Code = "TYPE_RETURN_YIELD_MIX"
	CodeTypeNonExhaustive   Code = "TYPE_NON_EXHAUSTIVE_CONDITIONAL"
	CodeTypeBadHandlerParam Code = "TYPE_BAD_ERROR_HANDLER_PARAM"
	CodeTypeFieldMismatch   Code = "TYPE_STRUCT_FIELD_MISMATCH"

	// Control-flow errors
	CodeFlowMissingReturn     Code = "FLOW_MISSING_RETURN"
	CodeFlowMissingYield      Code = "FLOW_MISSING_YIELD"
	CodeFlowBreakOutsideLoop  Code = "FLOW_BREAK_OUTSIDE_LOOP"
	CodeFlowYieldOutsideCompr Code = "FLOW_YIELD_OUTSIDE_COMPREHENSION"

	// Registry errors
	CodeRegistryUnknownCall Code = "REGISTRY_UNKNOWN_CALL"
)

// LabeledSpan is a span with an optional label and primary/secondary style,
// used to annotate more than one location in a single diagnostic.
type LabeledSpan struct {
	Span  span.Span
	Label string
	Style string // "primary" or "secondary"
}

// Diagnostic is a single compiler diagnostic surfaced to the end user.
type Diagnostic struct {
	Stage        Stage
	Severity     Severity
	Code         Code
	Message      string
	Span         span.Span // primary span
	LabeledSpans []LabeledSpan
	Notes        []string
	Help         string
}

// New builds an error-severity diagnostic anchored on a primary span.
func New(stage Stage, code Code, message string, primary span.Span) Diagnostic {
	return Diagnostic{
		Stage:        stage,
		Severity:     SeverityError,
		Code:         code,
		Message:      message,
		Span:         primary,
		LabeledSpans: []LabeledSpan{{Span: primary, Style: "primary"}},
	}
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(sp span.Span, label, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{Span: sp, Label: label, Style: style})
	return d
}

// WithSecondarySpan adds a secondary labeled span, used for "also see here"
// context such as the enclosing function's declared return type.
func (d Diagnostic) WithSecondarySpan(sp span.Span, label string) Diagnostic {
	return d.WithLabeledSpan(sp, label, "secondary")
}

// WithNote appends a note line, rendered after the snippet.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp sets the diagnostic's remediation hint.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
