package parser

import (
	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/token"
)

// parseBlock parses a brace-delimited statement sequence, used for
// function bodies, conditional/comprehension branch bodies, and loop
// bodies.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur().Span
	p.expect(token.LBrace, "`{`")

	block := &ast.Block{}
	for !p.check(token.RBrace) && !p.atEnd() {
		before := p.pos
		s := p.parseStmt()
		if s != nil {
			block.Stmts = append(block.Stmts, s)
		}
		if p.pos == before {
			p.synchronize()
		}
	}
	p.expect(token.RBrace, "`}`")
	block.Sp = span.Join(start, p.prevSpan())
	return block
}

// parseStmt parses one statement inside a block. On a malformed statement
// it records a diagnostic; when the statement consumed no tokens, the
// enclosing block synchronizes to the next `;` or its closing `}`.
func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.KwR:
		return p.parseReturnStmt()
	case token.KwY:
		return p.parseYieldStmt()
	case token.KwBreak:
		sp := p.advance().Span
		p.expect(token.Semicolon, "`;`")
		stmt := &ast.BreakStmt{}
		stmt.Sp = span.Join(sp, p.prevSpan())
		return stmt
	case token.KwContinue:
		sp := p.advance().Span
		p.expect(token.Semicolon, "`;`")
		stmt := &ast.ContinueStmt{}
		stmt.Sp = span.Join(sp, p.prevSpan())
		return stmt
	case token.KwFor:
		return p.parseForStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwLoop:
		return p.parseLoopStmt()
	case token.KwParallel:
		return p.parseParallelStmt()
	case token.KwSpawn:
		return p.parseSpawnStmt()
	case token.IdentSnake:
		if p.peek().Kind == token.Colon {
			return p.parseConstDecl()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur().Span
	x := p.parseExpr()
	// A statement conditional ends at its closing `}`; a `;` after it is optional.
	if _, isCond := x.(*ast.CondExpr); !isCond || p.check(token.Semicolon) {
		p.expect(token.Semicolon, "`;`")
	}
	stmt := &ast.ExprStmt{X: x}
	stmt.Sp = span.Join(start, p.prevSpan())
	return stmt
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.advance().Span // 'r'
	stmt := &ast.ReturnStmt{}
	if !p.check(token.Semicolon) {
		stmt.Value = p.parseExpr()
	}
	p.expect(token.Semicolon, "`;`")
	stmt.Sp = span.Join(start, p.prevSpan())
	return stmt
}

func (p *Parser) parseYieldStmt() ast.Stmt {
	start := p.advance().Span // 'y'
	stmt := &ast.YieldStmt{}
	if !p.check(token.Semicolon) {
		stmt.Value = p.parseExpr()
	}
	p.expect(token.Semicolon, "`;`")
	stmt.Sp = span.Join(start, p.prevSpan())
	return stmt
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.advance().Span // 'for'
	elem := p.expectSnakeName("loop variable")
	p.expect(token.KwIn, "`in`")
	source := p.parseExpr()
	body := p.parseBlock()
	stmt := &ast.ForStmt{Elem: elem, Source: source, Body: body}
	stmt.Sp = span.Join(start, p.prevSpan())
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.advance().Span // 'while'
	stmt := &ast.WhileStmt{Guard: p.parseExpr()}
	if p.check(token.KwFrom) {
		p.advance()
		stmt.Init = p.parseExpr()
	}
	if p.check(token.KwMax) {
		p.advance()
		stmt.Max = p.parseExpr()
	} else {
		p.errorf(diag.CodeParseMalformedDecl, p.cur().Span, "`while` requires a `max` clause bounding its iteration count")
	}
	stmt.Body = p.parseBlock()
	stmt.Sp = span.Join(start, p.prevSpan())
	return stmt
}

func (p *Parser) parseLoopStmt() ast.Stmt {
	start := p.advance().Span // 'loop'
	stmt := &ast.LoopStmt{}
	if p.check(token.IdentSnake) {
		stmt.Index = p.advance().Text
	}
	stmt.Body = p.parseBlock()
	stmt.Sp = span.Join(start, p.prevSpan())
	return stmt
}

func (p *Parser) parseParallelStmt() ast.Stmt {
	start := p.advance().Span // 'parallel'
	p.expect(token.LBrace, "`{`")
	stmt := &ast.ParallelStmt{}
	for !p.check(token.RBrace) && !p.atEnd() {
		before := p.pos
		s := p.parseStmt()
		if s != nil {
			stmt.Stmts = append(stmt.Stmts, s)
		}
		if p.pos == before {
			p.synchronize()
		}
	}
	p.expect(token.RBrace, "`}`")
	stmt.Sp = span.Join(start, p.prevSpan())
	return stmt
}

func (p *Parser) parseSpawnStmt() ast.Stmt {
	start := p.advance().Span // 'spawn'
	body := p.parseBlock()
	stmt := &ast.SpawnStmt{Body: body}
	stmt.Sp = span.Join(start, p.prevSpan())
	return stmt
}
