// Package parser implements the Cxy recursive-descent/Pratt parser
// described in spec.md §4.2: a single-threaded scanner over a 4-token
// lookahead window, producing the internal/ast tree directly with no
// intermediate CST. Errors are reported through a structured
// recoverable/abort pair modeled on Go panic/recover rather than the
// source's try/catch primitive: a parseException unwinds to the
// nearest top-level declaration or statement boundary and triggers
// synchronize(); a parseAbort unwinds all the way to Parse() and ends
// the compilation unit (spec.md §4.2 "Failure semantics").
package parser

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/lexer"
	"github.com/dccarter/cxy/internal/token"
)

const lookahead = 4

// parseException is a recoverable parse error: the caller that catches
// it must call synchronize (or synchronizeStmt) before resuming.
type parseException struct{ msg string }

// parseAbort is unrecoverable: the whole compilation unit stops.
type parseAbort struct{ msg string }

// Parser turns a token stream into a *ast.File. It never mutates
// tokens already returned, and it never silently skips a construct: a
// malformed production always emits a diagnostic before recovery.
type Parser struct {
	lex  *lexer.Lexer
	log  *diagnostics.Log
	file string

	buf     [lookahead]token.Token
	pos     int // count of tokens shifted out of the window so far
	lastEnd token.Position

	noStructLiteral int // >0 while parsing an if/while/for/match condition

	// interpFence freezes window refills once an LSTR (backtick string
	// open) has been fetched, or once the `}` closing an active
	// interpolation segment has been fetched: the lexer's
	// ReadStringPart/CloseInterpExpr protocol (spec.md §4.1) must drive
	// the rest of that literal itself, so the ordinary eager 4-token
	// prefetch must not race ahead and tokenize raw string text as
	// code. Cleared by parseStringInterp as it resumes real parsing.
	interpFence bool

	// braceDepth/interpStops track nested `{`/`}` while fetching tokens
	// for an interpolation's `${...}` expression (which may itself
	// contain blocks or struct literals with their own braces): a
	// fetched RBRACE only closes the interpolation, and triggers
	// interpFence, when braceDepth has unwound back to the depth
	// recorded when that interpolation's expression parse began.
	braceDepth  int
	interpStops []int
}

// New creates a Parser reading from lex, reporting through log, and
// attributing diagnostics to file.
func New(lex *lexer.Lexer, log *diagnostics.Log, file string) *Parser {
	p := &Parser{lex: lex, log: log, file: file}
	for i := 0; i < lookahead; i++ {
		p.buf[i] = p.fill()
	}
	return p
}

func (p *Parser) cur() token.Token       { return p.buf[0] }
func (p *Parser) peek(n int) token.Token { return p.buf[n] }

// fill fetches the next real token, unless interpFence is up, in which
// case it returns a harmless placeholder without touching the lexer.
//
// While len(interpStops) > 0 (an interpolation's `${...}` expression is
// being parsed), fill also tracks brace depth so that a `{`/`}` pair
// belonging to that expression itself (a block, a struct literal) does
// not get mistaken for the `}` that closes the interpolation: only the
// RBRACE that unwinds braceDepth back to the recorded start trips the
// fence, and it is still returned normally this one time so it lands
// in the window for parseStringInterp to consume.
func (p *Parser) fill() token.Token {
	if p.interpFence {
		return token.Token{Kind: token.EOF}
	}
	t := p.lex.NextToken()
	switch t.Kind {
	case token.LSTR:
		p.interpFence = true
	case token.LBRACE:
		if len(p.interpStops) > 0 {
			p.braceDepth++
		}
	case token.RBRACE:
		if len(p.interpStops) > 0 {
			if p.braceDepth == p.interpStops[len(p.interpStops)-1] {
				p.interpFence = true
			} else {
				p.braceDepth--
			}
		}
	}
	return t
}

func (p *Parser) advance() token.Token {
	t := p.buf[0]
	p.lastEnd = t.Span.End
	copy(p.buf[:lookahead-1], p.buf[1:])
	p.buf[lookahead-1] = p.fill()
	p.pos++
	return t
}

// spanFrom closes a span from begin to the end of the most recently
// consumed token. Every parse* helper that builds a node calls this
// only after consuming the node's last token.
func (p *Parser) spanFrom(begin token.Position) token.Span {
	return token.Span{Begin: begin, End: p.lastEnd}
}

func (p *Parser) errorf(code string, span token.Span, format string, args ...any) {
	p.log.Error(diagnostics.PhaseParser, code, &span, format, args...)
}

// expect consumes the current token if it has kind k, reporting
// PAR001 and raising a recoverable parseException otherwise.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur().Kind != k {
		p.errorf(diagnostics.PAR001, p.cur().Span, "expected %s, got %s %q", k, p.cur().Kind, p.cur().Literal)
		panic(parseException{msg: "expected " + k.String()})
	}
	return p.advance()
}

// expectContextual consumes an IDENT token whose literal equals word,
// used for the non-reserved "from"/"plugin" contextual keywords that
// token.Kind has no dedicated Kind for.
func (p *Parser) expectContextual(word string) bool {
	if p.cur().Kind == token.IDENT && p.cur().Literal == word {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consumeOptSemi() {
	if p.cur().Kind == token.SEMI {
		p.advance()
	}
}

// abort reports an unrecoverable condition (PAB###) and unwinds to Parse.
func (p *Parser) abort(code string, span token.Span, format string, args ...any) {
	p.errorf(code, span, format, args...)
	panic(parseAbort{msg: format})
}

// Parse consumes the whole token stream and returns the resulting
// File. Recoverable errors are logged and synchronized past; only a
// parseAbort stops the file short of EOF.
func (p *Parser) Parse() *ast.File {
	start := p.cur()
	f := ast.NewFile(token.Span{}, p.file)

	defer func() {
		if r := recover(); r != nil {
			if ab, ok := r.(parseAbort); ok {
				p.errorf(diagnostics.PAB002, p.cur().Span, "parser aborted: %s", ab.msg)
				return
			}
			panic(r)
		}
	}()

	if p.cur().Kind == token.MODULE {
		f.Module = p.parseModuleDecl()
	}
	for p.cur().Kind == token.IMPORT {
		f.Imports = append(f.Imports, p.parseImportDeclRecover()...)
	}
	for p.cur().Kind != token.EOF {
		if d := p.parseTopDeclRecover(); d != nil {
			f.Decls = append(f.Decls, d)
		}
	}
	f.Span = token.Span{Begin: start.Span.Begin, End: p.cur().Span.Begin}
	return f
}

func (p *Parser) parseImportDeclRecover() (out []*ast.ImportDecl) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseException); ok {
				p.synchronize()
				return
			}
			panic(r)
		}
	}()
	return []*ast.ImportDecl{p.parseImportDecl()}
}

func (p *Parser) parseTopDeclRecover() (d ast.Decl) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseException); ok {
				p.synchronize()
				d = nil
				return
			}
			panic(r)
		}
	}()
	return p.parseTopDecl()
}

// synchronize skips tokens until one that can legally start a new
// top-level declaration, so a single malformed construct does not
// poison the rest of the file (spec.md §4.2, using token.DeclStart).
func (p *Parser) synchronize() {
	for p.cur().Kind != token.EOF {
		if token.DeclStart[p.cur().Kind] {
			return
		}
		if p.cur().Kind == token.SEMI {
			p.advance()
			return
		}
		p.advance()
	}
}

// synchronizeStmt is synchronize's statement-level counterpart, used
// inside a block so one bad statement does not poison the rest of the
// enclosing function body.
func (p *Parser) synchronizeStmt() {
	for p.cur().Kind != token.EOF && p.cur().Kind != token.RBRACE {
		if token.DeclStart[p.cur().Kind] {
			return
		}
		if p.cur().Kind == token.SEMI {
			p.advance()
			return
		}
		p.advance()
	}
}

func addFlags(n ast.Node, fl ast.Flags) {
	n.Base().Flags = n.Base().Flags.Union(fl)
}

func withAttrs(d ast.Decl, attrs []*ast.Attr) ast.Decl {
	if len(attrs) > 0 {
		d.Base().Attrs = attrs
	}
	return d
}
