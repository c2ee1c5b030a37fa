// Package parser turns a Nail token stream into an AST by recursive
// descent with Pratt-style precedence for binary operators.
// Like the lexer, a Parser recovers locally from a bad construct and keeps
// going, so a single input can surface more than one diagnostic.
package parser

import (
	"fmt"

	"github.com/nail-lang/nailc/internal/ast"
	"github.com/nail-lang/nailc/internal/diag"
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/token"
)

// Parser holds the token stream and lookahead window. pos is moved only by
// advance, so the rest of the parser can treat cur/peek as a stable
// two-token lookahead.
type Parser struct {
	toks []token.Token
	pos  int

	diags []diag.Diagnostic
}

// New creates a parser over an already-lexed token stream. toks must end
// in a token.EOF, as produced by lexer.Lexer.LexFile.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// ParseFile parses a full compilation unit: an ordered list of top-level
// declarations and statements.
func ParseFile(toks []token.Token) (*ast.File, []diag.Diagnostic) {
	p := New(toks)
	f := &ast.File{}
	startSpan := p.cur().Span
	for !p.atEnd() {
		before := p.pos
		d := p.parseTopLevel()
		if d != nil {
			f.Decls = append(f.Decls, d)
		}
		if p.pos == before {
			// Safety valve: parseTopLevel must always make progress.
			p.advance()
		}
	}
	if len(f.Decls) > 0 {
		f.Sp = span.Join(startSpan, f.Decls[len(f.Decls)-1].Span())
	}
	return f, p.diags
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos+1]
}

func (p *Parser) atEnd() bool { return p.cur().Kind == token.EOF }

// advance returns the current token and moves the lookahead window forward
// by one, stopping at EOF.
func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 || t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

// expect consumes the current token if it matches k; otherwise it records
// a missing-punctuator diagnostic and leaves the cursor in place so the
// caller's own recovery can decide what to do next.
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.errorf(diag.CodeParseMissingPunct, p.cur().Span,
		"expected %s, found `%s`", what, p.cur().Text)
	return token.Token{}, false
}

func (p *Parser) errorf(code diag.Code, sp span.Span, format string, args ...any) {
	p.diags = append(p.diags, diag.New(diag.StageParser, code, fmt.Sprintf(format, args...), sp))
}

// synchronize implements the parser's error recovery: skip tokens
// up to the next statement terminator or a closing brace at the enclosing
// depth, then resume.
func (p *Parser) synchronize() {
	depth := 0
	for !p.atEnd() {
		switch p.cur().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// ---- type expressions ----

func (p *Parser) parseType() ast.TypeExpr {
	start := p.cur().Span
	var base ast.TypeExpr

	switch p.cur().Kind {
	case token.TypeInt:
		p.advance()
		base = &ast.PrimitiveType{Name: "i"}
	case token.TypeFloat, token.KwF:
		// `f` lexes as the function keyword; in type position it is the
		// float marker.
		p.advance()
		base = &ast.PrimitiveType{Name: "f"}
	case token.TypeString:
		p.advance()
		base = &ast.PrimitiveType{Name: "s"}
	case token.TypeBool:
		p.advance()
		base = &ast.PrimitiveType{Name: "b"}
	case token.TypeVoid:
		p.advance()
		base = &ast.PrimitiveType{Name: "v"}
	case token.TypeError:
		p.advance()
		base = &ast.PrimitiveType{Name: "e"}
	case token.TypeArray:
		p.advance()
		p.expect(token.Colon, "`:` after array type marker `a`")
		elem := p.parseType()
		base = &ast.ArrayType{Elem: elem}
	case token.TypeHash:
		p.advance()
		p.expect(token.Colon, "`:` after hashmap type marker `h`")
		key := p.parseType()
		p.expect(token.Colon, "`:` separating hashmap key and value types")
		val := p.parseType()
		base = &ast.HashMapType{Key: key, Value: val}
	case token.IdentPascal:
		name := p.cur().Text
		p.advance()
		base = &ast.NamedType{Name: name}
	default:
		p.errorf(diag.CodeParseUnexpectedToken, p.cur().Span, "expected a type, found `%s`", p.cur().Text)
		base = &ast.PrimitiveType{Name: "v"}
	}
	setSpan(base, span.Join(start, p.prevSpan()))

	if p.check(token.Bang) {
		p.advance()
		if p.check(token.TypeError) {
			p.advance()
		} else {
			p.errorf(diag.CodeParseMissingPunct, p.cur().Span, "expected `e` after `!` in a result type")
		}
		rt := &ast.ResultType{Inner: base}
		setSpan(rt, span.Join(start, p.prevSpan()))
		return rt
	}
	return base
}

func (p *Parser) prevSpan() span.Span {
	if p.pos == 0 {
		return p.cur().Span
	}
	return p.toks[p.pos-1].Span
}

// setSpan assigns sp to n's embedded base span field via the small set of
// node kinds the parser constructs directly. Each AST struct embeds `base`
// as its first field, so this can be done uniformly with a type switch
// instead of exposing a setter method on every node.
func setSpan(n ast.Node, sp span.Span) {
	switch v := n.(type) {
	case *ast.PrimitiveType:
		v.Sp = sp
	case *ast.ArrayType:
		v.Sp = sp
	case *ast.HashMapType:
		v.Sp = sp
	case *ast.NamedType:
		v.Sp = sp
	case *ast.ResultType:
		v.Sp = sp
	}
}
