package lexer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nail-lang/nailc/internal/lexer"
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/token"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexArithmeticAndPrint(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.nail", "result:i = 2 + 3 * 4; print(result);")

	files := span.NewFileTable()
	toks, diags := lexer.New(files, dir).LexFile(path)
	require.Empty(t, diags)
	require.Equal(t, []token.Kind{
		token.IdentSnake, token.Colon, token.TypeInt, token.Assign,
		token.IntLit, token.Plus, token.IntLit, token.Star, token.IntLit, token.Semicolon,
		token.IdentSnake, token.LParen, token.IdentSnake, token.RParen, token.Semicolon,
		token.EOF,
	}, kinds(toks))
}

func TestLexStringEscapes(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.nail", "msg:s = `a\\nb\\`c`;")

	files := span.NewFileTable()
	toks, diags := lexer.New(files, dir).LexFile(path)
	require.Empty(t, diags)
	require.Equal(t, token.StringLit, toks[4].Kind)
	require.Equal(t, "a\nb`c", toks[4].Text)
}

func TestSingleLetterIdentifierRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.nail", "x:i = 1;")

	files := span.NewFileTable()
	_, diags := lexer.New(files, dir).LexFile(path)
	require.Len(t, diags, 1)
	require.Equal(t, "LEX_BAD_IDENTIFIER", string(diags[0].Code))
}

func TestTypeMarkerSingleLetterAllowed(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.nail", "count:i = 1;")

	files := span.NewFileTable()
	_, diags := lexer.New(files, dir).LexFile(path)
	require.Empty(t, diags)
}

func TestIncludeSplicesTokens(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "helper.nail", "helper_value:i = 7;")
	path := writeTemp(t, dir, "main.nail", "insert(`helper.nail`)\nprint(helper_value);")

	files := span.NewFileTable()
	toks, diags := lexer.New(files, dir).LexFile(path)
	require.Empty(t, diags)
	require.Equal(t, []token.Kind{
		token.IdentSnake, token.Colon, token.TypeInt, token.Assign, token.IntLit, token.Semicolon,
		token.IdentSnake, token.LParen, token.IdentSnake, token.RParen, token.Semicolon,
		token.EOF,
	}, kinds(toks))
	require.Equal(t, "helper.nail", files.Path(toks[0].Span.File))
}

func TestIncludeCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "a.nail", "insert(`b.nail`)\n")
	writeTemp(t, dir, "b.nail", "insert(`a.nail`)\n")
	path := filepath.Join(dir, "a.nail")

	files := span.NewFileTable()
	_, diags := lexer.New(files, dir).LexFile(path)
	require.NotEmpty(t, diags)
	require.Equal(t, "LEX_INCLUDE_CYCLE", string(diags[0].Code))
}

func TestIncludeEscapingRootRejected(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	writeTemp(t, outside, "secret.nail", "x:i = 1;")
	path := writeTemp(t, dir, "main.nail", "insert(`"+filepath.Join(outside, "secret.nail")+"`)\n")

	files := span.NewFileTable()
	_, diags := lexer.New(files, dir).LexFile(path)
	require.NotEmpty(t, diags)
	require.Equal(t, "LEX_INCLUDE_ESCAPES_ROOT", string(diags[0].Code))
}

func TestLineCommentsDiscarded(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.nail", "first_val:i = 1; // trailing comment\nsecond_val:i = 2;")

	files := span.NewFileTable()
	toks, diags := lexer.New(files, dir).LexFile(path)
	require.Empty(t, diags)
	require.Equal(t, []token.Kind{
		token.IdentSnake, token.Colon, token.TypeInt, token.Assign, token.IntLit, token.Semicolon,
		token.IdentSnake, token.Colon, token.TypeInt, token.Assign, token.IntLit, token.Semicolon,
		token.EOF,
	}, kinds(toks))
}

func TestPipeAndDoubleColonOperators(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.nail", "nums |> array_len(); Light::Red;")

	files := span.NewFileTable()
	toks, diags := lexer.New(files, dir).LexFile(path)
	require.Empty(t, diags)
	require.Contains(t, kinds(toks), token.PipeOperator)
	require.Contains(t, kinds(toks), token.DoubleColon)
}
