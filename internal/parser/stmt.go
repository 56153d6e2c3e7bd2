package parser

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
)

func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		if s := p.parseStmtRecover(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBRACE)
	return ast.NewBlock(p.spanFrom(start.Span.Begin), stmts)
}

func (p *Parser) parseStmtRecover() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseException); ok {
				p.synchronizeStmt()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.parseStmt()
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR, token.CONST:
		d := p.parseVarDecl()
		return ast.NewVarDeclStmt(d.Base().Span, d)
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.MATCH:
		return p.parseMatchStmt()
	case token.BREAK:
		t := p.advance()
		p.consumeOptSemi()
		return ast.NewBreakStmt(t.Span)
	case token.CONTINUE:
		t := p.advance()
		p.consumeOptSemi()
		return ast.NewContinueStmt(t.Span)
	case token.RETURN:
		return p.parseReturnStmt()
	case token.DEFER:
		return p.parseDeferStmt()
	case token.HASH_IF:
		return p.parseHashIfStmt()
	case token.HASH_FOR:
		return p.parseHashForStmt()
	case token.HASH_WHILE:
		return p.parseHashWhileStmt()
	case token.HASH_CONST:
		return p.parseHashConstStmt()
	case token.ASYNC:
		return p.parseAsyncStmt()
	default:
		start := p.cur()
		e := p.parseExpr()
		p.consumeOptSemi()
		return ast.NewExprStmt(p.spanFrom(start.Span.Begin), e)
	}
}

// parseAsyncStmt rewrites `async stmtBody` into a call to the
// `__async!` macro wrapping the body, expanded later by the shaker
// (spec.md §4.2 "async statement").
func (p *Parser) parseAsyncStmt() ast.Stmt {
	start := p.expect(token.ASYNC)
	body := p.parseBlock()
	call := ast.NewMacroCallExpr(p.spanFrom(start.Span.Begin), "__async",
		[]ast.Expr{ast.NewClosureExpr(body.Span, nil, body)})
	return ast.NewExprStmt(call.Span, call)
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.expect(token.IF)
	p.expect(token.LPAREN)
	p.noStructLiteral++
	cond := p.parseExpr()
	p.noStructLiteral--
	p.expect(token.RPAREN)
	then := p.parseBlock()
	var els ast.Node
	if p.cur().Kind == token.ELSE {
		p.advance()
		if p.cur().Kind == token.IF {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlock()
		}
	}
	return ast.NewIfStmt(p.spanFrom(start.Span.Begin), cond, then, els)
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	p.noStructLiteral++
	cond := p.parseExpr()
	p.noStructLiteral--
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return ast.NewWhileStmt(p.spanFrom(start.Span.Begin), cond, body)
}

// parseForStmt parses `for (const x : range) body`; the `:` here
// separates the loop variable from the range expression, it is not a
// type annotation (spec.md §4.2 grammar, ast.ForStmt.String()).
func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.expect(token.FOR)
	p.expect(token.LPAREN)
	cstart := p.expect(token.CONST)
	vname := p.expect(token.IDENT).Literal
	vdecl := ast.NewVarDecl(p.spanFrom(cstart.Span.Begin), vname, nil, nil)
	vdecl.Flags.Set(ast.Const)
	p.expect(token.COLON)
	p.noStructLiteral++
	rng := p.parseExpr()
	p.noStructLiteral--
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return ast.NewForStmt(p.spanFrom(start.Span.Begin), vdecl, rng, body)
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.expect(token.RETURN)
	var val ast.Expr
	if p.cur().Kind != token.SEMI && p.cur().Kind != token.RBRACE {
		val = p.parseExpr()
	}
	p.consumeOptSemi()
	return ast.NewReturnStmt(p.spanFrom(start.Span.Begin), val)
}

func (p *Parser) parseDeferStmt() *ast.DeferStmt {
	start := p.expect(token.DEFER)
	val := p.parseExpr()
	p.consumeOptSemi()
	return ast.NewDeferStmt(p.spanFrom(start.Span.Begin), val)
}

func (p *Parser) parseMatchStmt() *ast.MatchStmt {
	start := p.expect(token.MATCH)
	p.expect(token.LPAREN)
	p.noStructLiteral++
	scrutinee := p.parseExpr()
	p.noStructLiteral--
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	var cases []*ast.MatchCase
	for p.cur().Kind == token.CASE {
		cstart := p.advance()
		pat := p.parsePattern()
		var guard ast.Expr
		if p.cur().Kind == token.IF {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(token.FARROW)
		var body *ast.Block
		if p.cur().Kind == token.LBRACE {
			body = p.parseBlock()
		} else {
			e := p.parseExpr()
			p.consumeOptSemi()
			body = ast.NewBlock(e.Base().Span, []ast.Stmt{ast.NewExprStmt(e.Base().Span, e)})
		}
		mc := ast.NewMatchCase(p.spanFrom(cstart.Span.Begin), pat, body)
		mc.Guard = guard
		cases = append(cases, mc)
	}
	if len(cases) == 0 {
		p.errorf(diagnostics.PAR010, p.cur().Span, "match block has no cases")
	}
	p.expect(token.RBRACE)
	return ast.NewMatchStmt(p.spanFrom(start.Span.Begin), scrutinee, cases)
}

func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur()
	switch p.cur().Kind {
	case token.IDENT:
		if p.cur().Literal == "_" {
			p.advance()
			return ast.NewWildcardPattern(p.spanFrom(start.Span.Begin))
		}
		name := p.advance().Literal
		if p.cur().Kind == token.COLON {
			p.advance()
			typ := p.parseType()
			return ast.NewTypePattern(p.spanFrom(start.Span.Begin), name, typ)
		}
		return ast.NewBindPattern(p.spanFrom(start.Span.Begin), name)
	case token.LPAREN:
		p.advance()
		var elems []ast.Pattern
		for p.cur().Kind != token.RPAREN {
			elems = append(elems, p.parsePattern())
			if p.cur().Kind == token.COMMA {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RPAREN)
		return ast.NewTuplePattern(p.spanFrom(start.Span.Begin), elems)
	default:
		e := p.parseUnary()
		return ast.NewLiteralPattern(p.spanFrom(start.Span.Begin), e)
	}
}

func (p *Parser) parseHashIfStmt() *ast.HashIf {
	start := p.expect(token.HASH_IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBlock()
	var els ast.Node
	if p.cur().Kind == token.HASH_ELSE {
		p.advance()
		if p.cur().Kind == token.HASH_IF {
			els = p.parseHashIfStmt()
		} else {
			els = p.parseBlock()
		}
	}
	return ast.NewHashIf(p.spanFrom(start.Span.Begin), cond, then, els)
}

func (p *Parser) parseHashForStmt() *ast.HashFor {
	start := p.expect(token.HASH_FOR)
	p.expect(token.LPAREN)
	p.expect(token.CONST)
	v := p.expect(token.IDENT).Literal
	p.expect(token.COLON)
	rng := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return ast.NewHashFor(p.spanFrom(start.Span.Begin), v, rng, body)
}

func (p *Parser) parseHashWhileStmt() *ast.HashWhile {
	start := p.expect(token.HASH_WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return ast.NewHashWhile(p.spanFrom(start.Span.Begin), cond, body)
}

func (p *Parser) parseHashConstStmt() *ast.HashConst {
	start := p.expect(token.HASH_CONST)
	name := p.expect(token.IDENT).Literal
	p.expect(token.ASSIGN)
	init := p.parseExpr()
	p.consumeOptSemi()
	return ast.NewHashConst(p.spanFrom(start.Span.Begin), name, init)
}
