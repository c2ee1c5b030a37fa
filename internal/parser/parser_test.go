package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/parser"
	"github.com/nail-lang/nailc/internal/token"
)

// tokensFor is a tiny hand-rolled lexer stand-in so parser tests don't need
// to depend on internal/lexer: it pairs parallel kind and text lists into a
// token stream with zero spans, terminated by EOF.
func tokensFor(t *testing.T, kinds []token.Kind, texts []string) []token.Token {
	t.Helper()
	require.Equal(t, len(kinds), len(texts))
	toks := make([]token.Token, 0, len(kinds)+1)
	for i := range kinds {
		toks = append(toks, token.Token{Kind: kinds[i], Text: texts[i], Raw: texts[i]})
	}
	toks = append(toks, token.Token{Kind: token.EOF})
	return toks
}

func TestParseConstDeclAndArithmetic(t *testing.T) {
	toks := tokensFor(t,
		[]token.Kind{token.IdentSnake, token.Colon, token.TypeInt, token.Assign, token.IntLit, token.Plus, token.IntLit, token.Star, token.IntLit, token.Semicolon},
		[]string{"result", ":", "i", "=", "2", "+", "3", "*", "4", ";"})

	file, diags := parser.ParseFile(toks)
	require.Empty(t, diags)
	require.Len(t, file.Decls, 1)

	decl, ok := file.Decls[0].(*ast.ConstDecl)
	require.True(t, ok)
	require.Equal(t, "result", decl.Name)

	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)

	rhs, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpMul, rhs.Op)
}

func TestParseFunctionWithResultReturn(t *testing.T) {
	toks := tokensFor(t,
		[]token.Kind{
			token.KwF, token.IdentSnake, token.LParen, token.IdentSnake, token.Colon, token.TypeInt, token.Comma,
			token.IdentSnake, token.Colon, token.TypeInt, token.RParen, token.Colon, token.TypeInt, token.Bang, token.TypeError,
			token.LBrace, token.KwR, token.IdentSnake, token.Semicolon, token.RBrace,
		},
		[]string{
			"f", "divide", "(", "a", ":", "i", ",",
			"b", ":", "i", ")", ":", "i", "!", "e",
			"{", "r", "a", ";", "}",
		})

	file, diags := parser.ParseFile(toks)
	require.Empty(t, diags)
	require.Len(t, file.Decls, 1)

	fn, ok := file.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "divide", fn.Name)
	require.Len(t, fn.Params, 2)

	_, isResult := fn.ReturnType.(*ast.ResultType)
	require.True(t, isResult)
}

func TestParsePipeIntoCall(t *testing.T) {
	toks := tokensFor(t,
		[]token.Kind{token.IdentSnake, token.PipeOperator, token.IdentSnake, token.LParen, token.RParen, token.Semicolon},
		[]string{"nums", "|>", "array_len", "(", ")", ";"})

	file, diags := parser.ParseFile(toks)
	require.Empty(t, diags)

	top, ok := file.Decls[0].(interface{ AsStmt() ast.Stmt })
	require.True(t, ok)
	exprStmt, ok := top.AsStmt().(*ast.ExprStmt)
	require.True(t, ok)

	pipe, ok := exprStmt.X.(*ast.PipeExpr)
	require.True(t, ok)
	require.Equal(t, "array_len", pipe.Call.Callee.(*ast.Ident).Name)
}

func TestParsePipeIntoNonCallErrors(t *testing.T) {
	toks := tokensFor(t,
		[]token.Kind{token.IdentSnake, token.PipeOperator, token.IdentSnake, token.Semicolon},
		[]string{"nums", "|>", "other", ";"})

	_, diags := parser.ParseFile(toks)
	require.NotEmpty(t, diags)
	require.Equal(t, "PARSE_PIPE_INTO_NON_CALL", string(diags[0].Code))
}

func TestParseMapComprehension(t *testing.T) {
	toks := tokensFor(t,
		[]token.Kind{
			token.IdentSnake, token.Colon, token.TypeArray, token.Colon, token.TypeInt, token.Assign,
			token.KwMap, token.IdentSnake, token.KwIn, token.IdentSnake,
			token.LBrace, token.KwY, token.IdentSnake, token.Star, token.IntLit, token.Semicolon, token.RBrace,
			token.Semicolon,
		},
		[]string{
			"doubled", ":", "a", ":", "i", "=",
			"map", "n", "in", "nums",
			"{", "y", "n", "*", "2", ";", "}",
			";",
		})

	file, diags := parser.ParseFile(toks)
	require.Empty(t, diags)
	decl := file.Decls[0].(*ast.ConstDecl)
	compr, ok := decl.Init.(*ast.Comprehension)
	require.True(t, ok)
	require.Equal(t, ast.ComprMap, compr.Kind)
	require.Equal(t, "n", compr.Elem)
}

func TestParseNonExhaustiveConditionalStillParses(t *testing.T) {
	toks := tokensFor(t,
		[]token.Kind{
			token.KwIf, token.LBrace,
			token.IdentSnake, token.EqEq, token.IdentPascal, token.DoubleColon, token.IdentPascal, token.FatArrow,
			token.LBrace, token.RBrace, token.Comma,
			token.IdentSnake, token.EqEq, token.IdentPascal, token.DoubleColon, token.IdentPascal, token.FatArrow,
			token.LBrace, token.RBrace,
			token.RBrace, token.Semicolon,
		},
		[]string{
			"if", "{",
			"x", "==", "Light", "::", "Red", "=>",
			"{", "}", ",",
			"x", "==", "Light", "::", "Yellow", "=>",
			"{", "}",
			"}", ";",
		})

	file, diags := parser.ParseFile(toks)
	require.Empty(t, diags)
	top := file.Decls[0].(interface{ AsStmt() ast.Stmt })
	exprStmt := top.AsStmt().(*ast.ExprStmt)
	cond, ok := exprStmt.X.(*ast.CondExpr)
	require.True(t, ok)
	require.Len(t, cond.Branches, 2)
	require.Nil(t, cond.Else)
}
