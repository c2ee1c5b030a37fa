package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/span"
)

func TestBuilderMethods(t *testing.T) {
	sp := span.Span{File: 0, StartByte: 2, EndByte: 6, StartLine: 1, StartCol: 3}
	d := diag.New(diag.StageLexer, diag.CodeLexUnterminatedStr, "unterminated string literal", sp).
		WithNote("strings are delimited by backticks").
		WithHelp("add a closing backtick")

	require.Equal(t, diag.StageLexer, d.Stage)
	require.Equal(t, diag.CodeLexUnterminatedStr, d.Code)
	require.Equal(t, diag.SeverityError, d.Severity)
	require.Equal(t, sp, d.Span)
	require.Equal(t, []string{"strings are delimited by backticks"}, d.Notes)
	require.Equal(t, "add a closing backtick", d.Help)
	require.Len(t, d.LabeledSpans, 1)
	require.Equal(t, "primary", d.LabeledSpans[0].Style)
}

func TestFormatterRendersCaretUnderline(t *testing.T) {
	files := span.NewFileTable()
	id := files.Add("main.nail", "x:i = 1;\n")

	sp := span.Span{File: id, StartByte: 0, EndByte: 1, StartLine: 1, StartCol: 1}
	d := diag.New(diag.StageLexer, diag.CodeLexBadIdent, "identifier `x` is too short", sp).
		WithHelp("use a descriptive name of at least two characters")

	var buf bytes.Buffer
	diag.NewFormatter(files, &buf).Format(d)

	out := buf.String()
	require.Contains(t, out, "error[LEX_BAD_IDENTIFIER]: identifier `x` is too short")
	require.Contains(t, out, "main.nail")
	require.Contains(t, out, "^")
	require.Contains(t, out, "help: use a descriptive name of at least two characters")
}

func TestFormatterRendersSecondarySpans(t *testing.T) {
	files := span.NewFileTable()
	id := files.Add("main.nail", "f add(a:i, b:i):i { r a + b; }\n")

	primary := span.Span{File: id, StartByte: 2, EndByte: 5, StartLine: 1, StartCol: 3}
	secondary := span.Span{File: id, StartByte: 16, EndByte: 17, StartLine: 1, StartCol: 17}
	d := diag.New(diag.StageChecker, diag.CodeTypeMismatch, "parameter count mismatch", primary).
		WithSecondarySpan(secondary, "declared here")

	var buf bytes.Buffer
	diag.NewFormatter(files, &buf).Format(d)

	out := buf.String()
	require.Contains(t, out, "~")
	require.Contains(t, out, "declared here")
}
