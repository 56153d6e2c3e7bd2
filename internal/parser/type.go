package parser

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
)

// primitiveNames is the 14 built-in scalar type spellings (spec.md
// §3.2); anything else in primary type position is a PathTypeAst,
// including "string" (a singleton library type, not a Primitive).
var primitiveNames = map[string]bool{
	"void": true, "bool": true, "wchar": true, "char": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true,
}

// parseType enters the type grammar at its loosest level: a `|`
// separated union, with a trailing `?` binding tighter than union but
// looser than everything else (spec.md §4.2 type-position tie-break:
// `|` always yields UnionTypeAst, never bitwise-or).
func (p *Parser) parseType() ast.TypeAst {
	return p.parseUnionType()
}

func (p *Parser) parseUnionType() ast.TypeAst {
	start := p.cur()
	first := p.parsePostfixType()
	if p.cur().Kind != token.PIPE {
		return first
	}
	members := []ast.TypeAst{first}
	for p.cur().Kind == token.PIPE {
		p.advance()
		members = append(members, p.parsePostfixType())
	}
	return ast.NewUnionTypeAst(p.spanFrom(start.Span.Begin), members)
}

// parsePostfixType handles the trailing `?` optional-type marker.
func (p *Parser) parsePostfixType() ast.TypeAst {
	start := p.cur()
	t := p.parsePrimaryType()
	for p.cur().Kind == token.QUESTION {
		p.advance()
		t = ast.NewOptionalTypeAst(p.spanFrom(start.Span.Begin), t)
	}
	return t
}

func (p *Parser) parsePrimaryType() ast.TypeAst {
	start := p.cur()
	switch p.cur().Kind {
	case token.CARET:
		p.advance()
		isConst := false
		if p.cur().Kind == token.CONST {
			p.advance()
			isConst = true
		}
		pointee := p.parsePostfixType()
		return ast.NewPointerTypeAst(p.spanFrom(start.Span.Begin), pointee, isConst)
	case token.AMP:
		p.advance()
		isConst := false
		if p.cur().Kind == token.CONST {
			p.advance()
			isConst = true
		}
		referent := p.parsePostfixType()
		return ast.NewReferenceTypeAst(p.spanFrom(start.Span.Begin), referent, isConst)
	case token.LBRACKET:
		p.advance()
		elem := p.parseType()
		var length ast.Expr
		if p.cur().Kind == token.SEMI {
			p.advance()
			length = p.parseExpr()
		}
		p.expect(token.RBRACKET)
		return ast.NewArrayTypeAst(p.spanFrom(start.Span.Begin), elem, length)
	case token.LPAREN:
		return p.parseTupleOrFuncType()
	case token.THISTYPE:
		p.advance()
		return ast.NewThisTypeAst(p.spanFrom(start.Span.Begin))
	case token.IDENT:
		if primitiveNames[p.cur().Literal] {
			name := p.advance().Literal
			return ast.NewPrimitiveTypeAst(p.spanFrom(start.Span.Begin), name)
		}
		return p.parsePathTypeAst()
	default:
		p.errorf(diagnostics.PAR001, p.cur().Span, "expected type, got %s %q", p.cur().Kind, p.cur().Literal)
		panic(parseException{msg: "expected type"})
	}
}

// parseTupleOrFuncType disambiguates `(T, U)` from `(T, U) -> R` by
// parsing the parenthesized type list first, then checking for a
// trailing `->`.
func (p *Parser) parseTupleOrFuncType() ast.TypeAst {
	start := p.expect(token.LPAREN)
	var elems []ast.TypeAst
	for p.cur().Kind != token.RPAREN {
		elems = append(elems, p.parseType())
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	if p.cur().Kind == token.ARROW {
		p.advance()
		ret := p.parseType()
		return ast.NewFuncTypeAst(p.spanFrom(start.Span.Begin), elems, ret)
	}
	return ast.NewTupleTypeAst(p.spanFrom(start.Span.Begin), elems)
}

// parsePathTypeAst parses a dotted nominal type name with optional
// generic arguments: `a.b.Name[T, U]`.
func (p *Parser) parsePathTypeAst() *ast.PathTypeAst {
	start := p.cur()
	var elements []string
	for {
		elements = append(elements, p.expect(token.IDENT).Literal)
		if p.cur().Kind == token.DOT {
			p.advance()
			continue
		}
		break
	}
	var args []ast.TypeAst
	if p.cur().Kind == token.LBRACKET {
		p.advance()
		for p.cur().Kind != token.RBRACKET {
			args = append(args, p.parseType())
			if p.cur().Kind == token.COMMA {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBRACKET)
	}
	return ast.NewPathTypeAst(p.spanFrom(start.Span.Begin), elements, args)
}
