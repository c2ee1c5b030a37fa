package parser

import (
	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/token"
)

// parseTopLevel dispatches one top-level item: a struct/enum/function
// declaration, a const declaration, or a statement.
func (p *Parser) parseTopLevel() ast.Decl {
	switch {
	case p.check(token.KwStruct):
		return p.parseStructDecl()
	case p.check(token.KwEnum):
		return p.parseEnumDecl()
	case p.check(token.KwF):
		return p.parseFuncDecl()
	case p.check(token.IdentSnake) && p.peek().Kind == token.Colon:
		return p.parseConstDecl()
	default:
		return p.parseStmtTopLevel()
	}
}

func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.advance().Span // 'struct'
	name := p.expectPascalName("struct name")
	p.expect(token.LBrace, "`{`")

	decl := &ast.StructDecl{Name: name}
	for !p.check(token.RBrace) && !p.atEnd() {
		fieldStart := p.cur().Span
		fname := p.expectSnakeName("field name")
		p.expect(token.Colon, "`:`")
		ftype := p.parseType()
		field := &ast.StructField{Name: fname, Type: ftype}
		field.Sp = span.Join(fieldStart, p.prevSpan())
		decl.Fields = append(decl.Fields, field)
		if p.check(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBrace, "`}`")
	decl.Sp = span.Join(start, p.prevSpan())
	return decl
}

func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	start := p.advance().Span // 'enum'
	name := p.expectPascalName("enum name")
	p.expect(token.LBrace, "`{`")

	decl := &ast.EnumDecl{Name: name}
	for !p.check(token.RBrace) && !p.atEnd() {
		decl.Variants = append(decl.Variants, p.expectPascalName("enum variant"))
		if p.check(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBrace, "`}`")
	decl.Sp = span.Join(start, p.prevSpan())
	return decl
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.advance().Span // 'f'
	name := p.expectSnakeName("function name")
	p.expect(token.LParen, "`(`")

	decl := &ast.FuncDecl{Name: name}
	for !p.check(token.RParen) && !p.atEnd() {
		pstart := p.cur().Span
		pname := p.expectSnakeName("parameter name")
		p.expect(token.Colon, "`:`")
		ptype := p.parseType()
		param := &ast.Param{Name: pname, Type: ptype}
		param.Sp = span.Join(pstart, p.prevSpan())
		decl.Params = append(decl.Params, param)
		if p.check(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RParen, "`)`")
	p.expect(token.Colon, "`:` before return type")
	decl.ReturnType = p.parseType()
	decl.Body = p.parseBlock()
	decl.Sp = span.Join(start, p.prevSpan())
	return decl
}

func (p *Parser) parseConstDecl() *ast.ConstDecl {
	start := p.cur().Span
	name := p.expectSnakeName("binding name")
	p.expect(token.Colon, "`:`")
	ty := p.parseType()
	p.expect(token.Assign, "`=`")
	init := p.parseExpr()
	p.expect(token.Semicolon, "`;`")
	decl := &ast.ConstDecl{Name: name, Type: ty, Init: init}
	decl.Sp = span.Join(start, p.prevSpan())
	return decl
}

// parseStmtTopLevel parses a statement appearing at the top level — a
// bare expression, a loop, a parallel or spawn block. Statement nodes
// implement ast.Stmt only, so the result is wrapped with
// ast.NewTopLevelStmt, an adapter that additionally satisfies ast.Decl so
// it can sit in ast.File.Decls.
func (p *Parser) parseStmtTopLevel() ast.Decl {
	start := p.cur().Span
	if p.atEnd() {
		return nil
	}
	s := p.parseStmt()
	if s == nil {
		return nil
	}
	return ast.NewTopLevelStmt(span.Join(start, p.prevSpan()), s)
}

func (p *Parser) expectSnakeName(what string) string {
	if p.check(token.IdentSnake) {
		return p.advance().Text
	}
	p.errorf(diag.CodeParseMalformedDecl, p.cur().Span, "expected a snake_case %s, found `%s`", what, p.cur().Text)
	return "_error"
}

func (p *Parser) expectPascalName(what string) string {
	if p.check(token.IdentPascal) {
		return p.advance().Text
	}
	p.errorf(diag.CodeParseMalformedDecl, p.cur().Span, "expected a PascalCase %s, found `%s`", what, p.cur().Text)
	return "Error"
}
