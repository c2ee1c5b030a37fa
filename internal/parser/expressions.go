package parser

import (
	"strconv"

	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/token"
)

// parseExpr is the expression entry point: logical-or, the loosest-binding
// level of the precedence ladder.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(token.OrOr) {
		p.advance()
		right := p.parseAnd()
		left = binExpr(ast.OpOr, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(token.AndAnd) {
		p.advance()
		right := p.parseEquality()
		left = binExpr(ast.OpAnd, left, right)
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.check(token.EqEq) || p.check(token.NotEq) {
		op := ast.OpEq
		if p.cur().Kind == token.NotEq {
			op = ast.OpNotEq
		}
		p.advance()
		right := p.parseRelational()
		left = binExpr(op, left, right)
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case token.Lt:
			op = ast.OpLt
		case token.LtEq:
			op = ast.OpLtEq
		case token.Gt:
			op = ast.OpGt
		case token.GtEq:
			op = ast.OpGtEq
		default:
			return left
		}
		p.advance()
		right := p.parseAdditive()
		left = binExpr(op, left, right)
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.check(token.Plus) || p.check(token.Minus) {
		op := ast.OpAdd
		if p.cur().Kind == token.Minus {
			op = ast.OpSub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = binExpr(op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case token.Star:
			op = ast.OpMul
		case token.Slash:
			op = ast.OpDiv
		case token.Percent:
			op = ast.OpMod
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		left = binExpr(op, left, right)
	}
}

// parseUnary handles numeric negation and logical not, which bind looser
// than pipe but tighter than multiplicative.
func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.Minus) || p.check(token.Bang) {
		start := p.cur().Span
		op := ast.OpNeg
		if p.cur().Kind == token.Bang {
			op = ast.OpNot
		}
		p.advance()
		operand := p.parseUnary()
		u := &ast.UnaryExpr{Op: op, Operand: operand}
		u.Sp = span.Join(start, operand.Span())
		return u
	}
	return p.parsePipe()
}

// parsePipe handles `|>`, which threads its left operand as the final
// argument of a call on its right.
func (p *Parser) parsePipe() ast.Expr {
	left := p.parsePostfix()
	for p.check(token.PipeOperator) {
		p.advance()
		rhs := p.parsePostfix()
		call, ok := rhs.(*ast.CallExpr)
		if !ok {
			p.errorf(diag.CodeParsePipeNonCall, rhs.Span(), "pipe target must be a call expression")
			continue
		}
		pe := &ast.PipeExpr{Left: left, Call: call}
		pe.Sp = span.Join(left.Span(), call.Span())
		left = pe
	}
	return left
}

// parsePostfix handles call, index, and field access, all of which bind
// tighter than pipe.
func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LParen:
			x = p.parseCallArgs(x)
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			end, _ := p.expect(token.RBracket, "`]`")
			ia := &ast.IndexAccess{Receiver: x, Index: idx}
			ia.Sp = span.Join(x.Span(), pickSpan(end.Span, idx.Span()))
			x = ia
		case token.Dot:
			p.advance()
			field := p.expectSnakeName("field name")
			fa := &ast.FieldAccess{Receiver: x, Field: field}
			fa.Sp = span.Join(x.Span(), p.prevSpan())
			x = fa
		default:
			return x
		}
	}
}

func (p *Parser) parseCallArgs(callee ast.Expr) ast.Expr {
	p.advance() // '('
	call := &ast.CallExpr{Callee: callee}
	for !p.check(token.RParen) && !p.atEnd() {
		call.Args = append(call.Args, p.parseExpr())
		if p.check(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RParen, "`)`")
	call.Sp = span.Join(callee.Span(), p.prevSpan())
	return call
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur().Span
	switch p.cur().Kind {
	case token.IntLit:
		tok := p.advance()
		v, _ := strconv.ParseInt(tok.Text, 10, 64)
		lit := &ast.IntLit{Value: v}
		lit.Sp = tok.Span
		return lit
	case token.FloatLit:
		tok := p.advance()
		v, _ := strconv.ParseFloat(tok.Text, 64)
		lit := &ast.FloatLit{Value: v}
		lit.Sp = tok.Span
		return lit
	case token.StringLit:
		tok := p.advance()
		lit := &ast.StringLit{Value: tok.Text}
		lit.Sp = tok.Span
		return lit
	case token.KwTrue, token.KwFalse:
		tok := p.advance()
		lit := &ast.BoolLit{Value: tok.Kind == token.KwTrue}
		lit.Sp = tok.Span
		return lit
	case token.LBracket:
		return p.parseArrayLit()
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, "`)`")
		return inner
	case token.IdentSnake:
		tok := p.advance()
		id := &ast.Ident{Name: tok.Text}
		id.Sp = tok.Span
		return id
	case token.IdentPascal:
		return p.parsePascalPrimary()
	case token.KwIf:
		return p.parseCondExpr()
	default:
		if token.IsComprehensionKeyword(p.cur().Kind) {
			return p.parseComprehension()
		}
	}

	p.errorf(diag.CodeParseUnexpectedToken, p.cur().Span, "unexpected token `%s` in expression position", p.cur().Text)
	p.advance()
	zero := &ast.IntLit{Value: 0}
	zero.Sp = start
	return zero
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.advance().Span // '['
	lit := &ast.ArrayLit{}
	for !p.check(token.RBracket) && !p.atEnd() {
		lit.Elems = append(lit.Elems, p.parseExpr())
		if p.check(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBracket, "`]`")
	lit.Sp = span.Join(start, p.prevSpan())
	return lit
}

// parsePascalPrimary disambiguates `Name { ... }` struct literals from
// `Name::Variant` enum variant references.
func (p *Parser) parsePascalPrimary() ast.Expr {
	start := p.cur().Span
	name := p.advance().Text

	if p.check(token.DoubleColon) {
		p.advance()
		variant := p.expectPascalName("enum variant")
		ev := &ast.EnumVariantExpr{Enum: name, Variant: variant}
		ev.Sp = span.Join(start, p.prevSpan())
		return ev
	}
	if p.check(token.LBrace) {
		return p.parseStructLitBody(name, start)
	}

	p.errorf(diag.CodeParseUnexpectedToken, start,
		"`%s` must be followed by `{` for a struct literal or `::` for an enum variant", name)
	id := &ast.Ident{Name: name}
	id.Sp = start
	return id
}

func (p *Parser) parseStructLitBody(name string, start span.Span) ast.Expr {
	p.advance() // '{'
	lit := &ast.StructLit{Name: name}
	for !p.check(token.RBrace) && !p.atEnd() {
		fstart := p.cur().Span
		fname := p.expectSnakeName("struct field name")
		p.expect(token.Colon, "`:`")
		val := p.parseExpr()
		fi := &ast.StructFieldInit{Name: fname, Value: val}
		fi.Sp = span.Join(fstart, p.prevSpan())
		lit.Fields = append(lit.Fields, fi)
		if p.check(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBrace, "`}`")
	lit.Sp = span.Join(start, p.prevSpan())
	return lit
}

// parseCondExpr parses `if { guard => block, ..., else => block }`.
func (p *Parser) parseCondExpr() ast.Expr {
	start := p.advance().Span // 'if'
	p.expect(token.LBrace, "`{`")

	cond := &ast.CondExpr{}
	for !p.check(token.RBrace) && !p.atEnd() {
		if p.check(token.KwElse) {
			p.advance()
			p.expect(token.FatArrow, "`=>`")
			cond.Else = p.parseBlock()
		} else {
			guard := p.parseExpr()
			p.expect(token.FatArrow, "`=>`")
			body := p.parseBlock()
			cond.Branches = append(cond.Branches, ast.CondBranch{Guard: guard, Body: body})
		}
		if p.check(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBrace, "`}`")
	cond.Sp = span.Join(start, p.prevSpan())
	return cond
}

var comprehensionKinds = map[token.Kind]ast.ComprehensionKind{
	token.KwMap:    ast.ComprMap,
	token.KwFilter: ast.ComprFilter,
	token.KwReduce: ast.ComprReduce,
	token.KwEach:   ast.ComprEach,
	token.KwFind:   ast.ComprFind,
	token.KwAll:    ast.ComprAll,
	token.KwAny:    ast.ComprAny,
}

// parseComprehension parses one of the seven named collection
// comprehensions sharing the syntax
// `KIND element-ident [index-ident] in source-expr [from seed-expr] { body }`
// . reduce alone takes an extra
// leading accumulator name: `reduce acc elem [idx] in src from seed`.
func (p *Parser) parseComprehension() ast.Expr {
	start := p.cur().Span
	kind := comprehensionKinds[p.cur().Kind]
	p.advance()

	acc := ""
	if kind == ast.ComprReduce {
		acc = p.expectSnakeName("reduce accumulator name")
	}
	elem := p.expectSnakeName("comprehension element name")
	index := ""
	if p.check(token.IdentSnake) {
		index = p.advance().Text
	}
	p.expect(token.KwIn, "`in`")
	source := p.parseExpr()

	var seed ast.Expr
	if p.check(token.KwFrom) {
		p.advance()
		seed = p.parseExpr()
	} else if kind == ast.ComprReduce {
		p.errorf(diag.CodeParseMalformedDecl, p.cur().Span, "`reduce` requires a `from` seed expression")
	}

	body := p.parseBlock()
	compr := &ast.Comprehension{Kind: kind, Acc: acc, Elem: elem, Index: index, Source: source, Seed: seed, Body: body}
	compr.Sp = span.Join(start, p.prevSpan())
	return compr
}

func binExpr(op ast.BinaryOp, left, right ast.Expr) ast.Expr {
	b := &ast.BinaryExpr{Op: op, Left: left, Right: right}
	b.Sp = span.Join(left.Span(), right.Span())
	return b
}

func pickSpan(a, b span.Span) span.Span {
	if a.Zero() {
		return b
	}
	return a
}
