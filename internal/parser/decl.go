package parser

import (
	"strings"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
)

func (p *Parser) parseDottedPath() string {
	var sb strings.Builder
	sb.WriteString(p.expect(token.IDENT).Literal)
	for p.cur().Kind == token.DOT {
		p.advance()
		sb.WriteByte('.')
		sb.WriteString(p.expect(token.IDENT).Literal)
	}
	return sb.String()
}

func (p *Parser) parseModuleDecl() *ast.ModuleDecl {
	start := p.expect(token.MODULE)
	path := p.parseDottedPath()
	p.consumeOptSemi()
	return ast.NewModuleDecl(p.spanFrom(start.Span.Begin), path)
}

// parseImportDecl covers both `import path [as alias]` and the
// plugin/selective-symbol forms `import plugin "./p.so" as name` and
// `import { a, b } from path` (spec.md §4.2 "notable productions",
// §4.10 plugin import). "plugin"/"from" are not reserved words in
// token.Kind, so they are recognized contextually by spelling.
func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.expect(token.IMPORT)
	plugin := p.expectContextual("plugin")

	var symbols []string
	if p.cur().Kind == token.LBRACE {
		p.advance()
		for p.cur().Kind != token.RBRACE {
			symbols = append(symbols, p.expect(token.IDENT).Literal)
			if p.cur().Kind == token.COMMA {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBRACE)
		p.expectContextual("from")
	}

	var path string
	if p.cur().Kind == token.STRING {
		path = p.advance().Literal
	} else {
		path = p.parseDottedPath()
	}

	alias := ""
	if p.cur().Kind == token.AS {
		p.advance()
		alias = p.expect(token.IDENT).Literal
	}
	p.consumeOptSemi()

	imp := ast.NewImportDecl(p.spanFrom(start.Span.Begin), path, alias)
	imp.Symbols = symbols
	imp.Plugin = plugin
	return imp
}

func (p *Parser) parseAttrs() []*ast.Attr {
	var attrs []*ast.Attr
	for p.cur().Kind == token.AT {
		start := p.advance()
		name := p.expect(token.IDENT).Literal
		var args []ast.Expr
		if p.cur().Kind == token.LPAREN {
			p.advance()
			args = p.parseExprList(token.RPAREN)
			p.expect(token.RPAREN)
		}
		attrs = append(attrs, ast.NewAttr(p.spanFrom(start.Span.Begin), name, args))
	}
	return attrs
}

func (p *Parser) parseModifiers() ast.Flags {
	var fl ast.Flags
	for {
		switch p.cur().Kind {
		case token.PUB:
			fl.Set(ast.Public)
			p.advance()
		case token.EXTERN:
			fl.Set(ast.Extern)
			p.advance()
		case token.STATIC:
			fl.Set(ast.Static)
			p.advance()
		default:
			return fl
		}
	}
}

// parseTopDecl dispatches one top-level construct. A HashIf/HashFor at
// top level is itself a Decl (spec.md §4.5 comptime forms implement
// declNode so they can splice declarations, not just statements).
func (p *Parser) parseTopDecl() ast.Decl {
	attrs := p.parseAttrs()
	switch p.cur().Kind {
	case token.HASH_IF:
		return withAttrs(p.parseHashIfStmt(), attrs)
	case token.HASH_FOR:
		return withAttrs(p.parseHashForStmt(), attrs)
	case token.HASH_CONST:
		return withAttrs(p.parseHashConstStmt(), attrs)
	case token.MACRO:
		return withAttrs(p.parseMacroDecl(), attrs)
	case token.EXCEPTION:
		return withAttrs(p.parseExceptionDecl(), attrs)
	case token.TEST:
		return withAttrs(p.parseTestDecl(), attrs)
	case token.TYPE:
		return withAttrs(p.parseTypeAliasDecl(), attrs)
	case token.STRUCT:
		return withAttrs(p.parseStructDecl(), attrs)
	case token.CLASS:
		return withAttrs(p.parseClassDecl(), attrs)
	case token.ENUM:
		return withAttrs(p.parseEnumDecl(), attrs)
	case token.TRAIT:
		return withAttrs(p.parseTraitDecl(false), attrs)
	case token.INTERFACE:
		return withAttrs(p.parseTraitDecl(true), attrs)
	}

	mods := p.parseModifiers()
	switch p.cur().Kind {
	case token.FUNC:
		fn := p.parseFuncDecl()
		addFlags(fn, mods)
		return withAttrs(fn, attrs)
	case token.VAR, token.CONST:
		d := p.parseVarDecl()
		addFlags(d, mods)
		return withAttrs(d, attrs)
	default:
		p.errorf(diagnostics.PAR001, p.cur().Span, "expected a declaration, got %s %q", p.cur().Kind, p.cur().Literal)
		panic(parseException{msg: "expected declaration"})
	}
}

func (p *Parser) parseOptGenerics() []*ast.GenericParam {
	if p.cur().Kind != token.LBRACKET {
		return nil
	}
	p.advance()
	var out []*ast.GenericParam
	for p.cur().Kind != token.RBRACKET {
		start := p.cur()
		name := p.expect(token.IDENT).Literal
		var constraint ast.TypeAst
		if p.cur().Kind == token.COLON {
			p.advance()
			constraint = p.parseType()
		}
		out = append(out, ast.NewGenericParam(p.spanFrom(start.Span.Begin), name, constraint))
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return out
}

func (p *Parser) parseParams() []*ast.Param {
	p.expect(token.LPAREN)
	var out []*ast.Param
	for p.cur().Kind != token.RPAREN {
		attrs := p.parseAttrs()
		start := p.cur()
		variadic := false
		if p.cur().Kind == token.ELLIPSIS {
			variadic = true
			p.advance()
		}
		name := p.expect(token.IDENT).Literal
		var typ ast.TypeAst
		if p.cur().Kind == token.COLON {
			p.advance()
			typ = p.parseType()
		}
		param := ast.NewParam(p.spanFrom(start.Span.Begin), name, typ)
		param.Attrs = attrs
		if variadic {
			param.Flags.Set(ast.Variadic)
		}
		if p.cur().Kind == token.ASSIGN {
			p.advance()
			param.Default = p.parseExpr()
		}
		out = append(out, param)
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return out
}

// parseFuncDecl parses `func name[generics](params) -> ret { body }`,
// its `=> expr` short form, and the bodiless forward/extern form
// (spec.md §4.2 "funcDecl grammar").
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.expect(token.FUNC)
	name := p.expect(token.IDENT).Literal
	fn := ast.NewFuncDecl(p.cur().Span, name)
	fn.Generics = p.parseOptGenerics()
	fn.Params = p.parseParams()
	if p.cur().Kind == token.ARROW {
		p.advance()
		fn.ReturnType = p.parseType()
	}
	switch p.cur().Kind {
	case token.FARROW:
		p.advance()
		e := p.parseExpr()
		p.consumeOptSemi()
		fn.Body = ast.NewBlock(e.Base().Span, []ast.Stmt{ast.NewReturnStmt(e.Base().Span, e)})
	case token.LBRACE:
		fn.Body = p.parseBlock()
	default:
		p.consumeOptSemi()
		fn.Flags.Set(ast.ForwardDecl)
	}
	fn.Span = p.spanFrom(start.Span.Begin)
	return fn
}

func (p *Parser) parseMembers() []ast.Decl {
	p.expect(token.LBRACE)
	var out []ast.Decl
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		attrs := p.parseAttrs()
		mods := p.parseModifiers()
		var d ast.Decl
		if p.cur().Kind == token.FUNC {
			d = p.parseFuncDecl()
		} else {
			d = p.parseFieldDecl()
		}
		addFlags(d, mods)
		d = withAttrs(d, attrs)
		out = append(out, d)
	}
	p.expect(token.RBRACE)
	return out
}

func (p *Parser) parseFieldDecl() *ast.Field {
	start := p.cur()
	name := p.expect(token.IDENT).Literal
	p.expect(token.COLON)
	typ := p.parseType()
	f := ast.NewField(p.spanFrom(start.Span.Begin), name, typ)
	if p.cur().Kind == token.ASSIGN {
		p.advance()
		f.Default = p.parseExpr()
	}
	p.consumeOptSemi()
	f.Span = p.spanFrom(start.Span.Begin)
	return f
}

func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.expect(token.STRUCT)
	name := p.expect(token.IDENT).Literal
	s := ast.NewStructDecl(p.cur().Span, name)
	s.Generics = p.parseOptGenerics()
	s.Members = p.parseMembers()
	s.Span = p.spanFrom(start.Span.Begin)
	return s
}

// parseClassDecl parses `class Name[G] : Base, Iface, ... { members }`
// (spec.md §3.2, §4.7 "Inheritance & vtables"); the first type after
// `:` is the superclass, subsequent ones are interfaces.
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	start := p.expect(token.CLASS)
	name := p.expect(token.IDENT).Literal
	c := ast.NewClassDecl(p.cur().Span, name)
	c.Generics = p.parseOptGenerics()
	if p.cur().Kind == token.COLON {
		p.advance()
		c.Base = p.parseType()
		for p.cur().Kind == token.COMMA {
			p.advance()
			c.Interfaces = append(c.Interfaces, p.parseType())
		}
	}
	c.Members = p.parseMembers()
	c.Span = p.spanFrom(start.Span.Begin)
	return c
}

func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	start := p.expect(token.ENUM)
	name := p.expect(token.IDENT).Literal
	e := ast.NewEnumDecl(p.cur().Span, name)
	if p.cur().Kind == token.COLON {
		p.advance()
		e.Base = p.parseType()
	}
	p.expect(token.LBRACE)
	for p.cur().Kind != token.RBRACE {
		ostart := p.cur()
		oname := p.expect(token.IDENT).Literal
		var val ast.Expr
		if p.cur().Kind == token.ASSIGN {
			p.advance()
			val = p.parseExpr()
		}
		e.Options = append(e.Options, ast.NewEnumOption(p.spanFrom(ostart.Span.Begin), oname, val))
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	e.Span = p.spanFrom(start.Span.Begin)
	return e
}

// parseTraitDecl backs both `trait` and `interface`, which share one
// AST shape (ast.TraitDecl); only method signatures are allowed, with
// an optional default body for a trait (not an interface).
func (p *Parser) parseTraitDecl(isInterface bool) *ast.TraitDecl {
	kw := token.TRAIT
	if isInterface {
		kw = token.INTERFACE
	}
	start := p.expect(kw)
	name := p.expect(token.IDENT).Literal
	t := ast.NewTraitDecl(p.cur().Span, name, isInterface)
	t.Name = name
	t.Generics = p.parseOptGenerics()
	p.expect(token.LBRACE)
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		attrs := p.parseAttrs()
		fn := p.parseFuncDecl()
		fn.Attrs = attrs
		t.Methods = append(t.Methods, fn)
	}
	p.expect(token.RBRACE)
	t.Span = p.spanFrom(start.Span.Begin)
	return t
}

func (p *Parser) parseTypeAliasDecl() *ast.TypeAliasDecl {
	start := p.expect(token.TYPE)
	name := p.expect(token.IDENT).Literal
	generics := p.parseOptGenerics()
	p.expect(token.ASSIGN)
	target := p.parseType()
	p.consumeOptSemi()
	d := ast.NewTypeAliasDecl(p.spanFrom(start.Span.Begin), name, target)
	d.Generics = generics
	return d
}

func (p *Parser) parseMacroDecl() *ast.MacroDecl {
	start := p.expect(token.MACRO)
	name := p.expect(token.IDENT).Literal
	p.expect(token.NOT)
	m := ast.NewMacroDecl(p.cur().Span, name)
	m.Params = p.parseParams()
	m.Body = p.parseBlock()
	m.Span = p.spanFrom(start.Span.Begin)
	return m
}

func (p *Parser) parseExceptionDecl() *ast.ExceptionDecl {
	start := p.expect(token.EXCEPTION)
	name := p.expect(token.IDENT).Literal
	e := ast.NewExceptionDecl(p.cur().Span, name)
	e.Params = p.parseParams()
	e.What = p.parseBlock()
	e.Span = p.spanFrom(start.Span.Begin)
	return e
}

func (p *Parser) parseTestDecl() *ast.TestDecl {
	start := p.expect(token.TEST)
	name := p.expect(token.STRING).Literal
	body := p.parseBlock()
	return ast.NewTestDecl(p.spanFrom(start.Span.Begin), name, body)
}

// parseVarDecl parses `var a[, b...]: T = init` or `const a = init`.
// A single name with no subsequent comma yields a VarDecl directly; a
// comma-separated name list yields a MultiVarDecl, which the shaker
// later destructures against a tuple-valued Init (spec.md §4.6.1).
func (p *Parser) parseVarDecl() ast.Decl {
	start := p.cur()
	isConst := p.cur().Kind == token.CONST
	p.advance()
	names := []string{p.expect(token.IDENT).Literal}
	for p.cur().Kind == token.COMMA {
		p.advance()
		names = append(names, p.expect(token.IDENT).Literal)
	}
	var typ ast.TypeAst
	if len(names) == 1 && p.cur().Kind == token.COLON {
		p.advance()
		typ = p.parseType()
	}
	var init ast.Expr
	if p.cur().Kind == token.ASSIGN {
		p.advance()
		init = p.parseExpr()
	}
	p.consumeOptSemi()
	span := p.spanFrom(start.Span.Begin)
	if len(names) == 1 {
		d := ast.NewVarDecl(span, names[0], typ, init)
		if isConst {
			d.Flags.Set(ast.Const)
		}
		return d
	}
	return ast.NewMultiVarDecl(span, names, init)
}
