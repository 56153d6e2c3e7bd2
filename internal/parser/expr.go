package parser

import (
	"unicode/utf8"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
)

// parseExpr enters the precedence ladder at its loosest level
// (assignment), per spec.md §4.2: `postfix . ?. [] ( ) as !:` binds
// tightest, then unary, multiplicative, additive, shift, range,
// comparison, equality, bitwise, logical, catch, assignment
// (right-associative), ternary loosest of all. Ternary is resolved as
// binding tighter than assignment (spec.md's own prose: "assignment
// binds looser than ternary") even though the ladder list's ordering
// reads the other way; see DESIGN.md for this Open-Question call.
func (p *Parser) parseExpr() ast.Expr { return p.parseAssignment() }

func (p *Parser) parseAssignment() ast.Expr {
	start := p.cur()
	left := p.parseTernary()
	if p.cur().Kind.IsAssignOp() {
		op := p.advance().Kind
		right := p.parseAssignment() // right-associative
		return ast.NewBinaryExpr(p.spanFrom(start.Span.Begin), op, left, right)
	}
	return left
}

func (p *Parser) parseTernary() ast.Expr {
	start := p.cur()
	cond := p.parseCatch()
	if p.cur().Kind == token.QUESTION {
		p.advance()
		then := p.parseAssignment()
		p.expect(token.COLON)
		els := p.parseTernary() // right-associative
		return ast.NewTernaryExpr(p.spanFrom(start.Span.Begin), cond, then, els)
	}
	return cond
}

// parseCatch handles `lhs catch { block }`, which the ladder places
// between logical operators and ternary/assignment.
func (p *Parser) parseCatch() ast.Expr {
	start := p.cur()
	left := p.parseBinary(1)
	for p.cur().Kind == token.CATCH {
		p.advance()
		block := p.parseBlock()
		left = ast.NewCatchExpr(p.spanFrom(start.Span.Begin), left, block)
	}
	return left
}

// parseBinary climbs token.Kind.Precedence(), left-associatively,
// special-casing `is` (type test, builds IsExpr with a type operand)
// and `..` (range, builds RangeExpr) since neither produces an
// ordinary BinaryExpr.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	start := p.cur()
	left := p.parseUnary()
	for {
		k := p.cur().Kind
		prec := k.Precedence()
		if prec == 0 || prec < minPrec {
			return left
		}
		if k == token.IS {
			p.advance()
			typ := p.parseType()
			left = ast.NewIsExpr(p.spanFrom(start.Span.Begin), left, typ)
			continue
		}
		if k == token.RANGE {
			p.advance()
			right := p.parseBinary(prec + 1)
			left = ast.NewRangeExpr(p.spanFrom(start.Span.Begin), left, right)
			continue
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		left = ast.NewBinaryExpr(p.spanFrom(start.Span.Begin), k, left, right)
	}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur()
	switch p.cur().Kind {
	case token.MINUS, token.PLUS, token.STAR, token.NOT, token.TILDE, token.AMP, token.AMP_AMP, token.ELLIPSIS:
		op := p.advance().Kind
		operand := p.parseUnary()
		return ast.NewUnaryExpr(p.spanFrom(start.Span.Begin), op, operand)
	case token.AWAIT:
		p.advance()
		return ast.NewAwaitExpr(p.spanFrom(start.Span.Begin), p.parseUnary())
	case token.DELETE:
		p.advance()
		return ast.NewDeleteExpr(p.spanFrom(start.Span.Begin), p.parseUnary())
	default:
		return p.parsePostfix()
	}
}

// parsePostfix implements `. ?. [] ( ) as`; a bare name immediately
// followed by `!(` is a MacroCallExpr (spec.md §4.5), everything else
// chains onto the growing expression left-associatively. The `!:`
// postfix form is not parsed.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur()
	e := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.DOT:
			p.advance()
			name := p.expect(token.IDENT).Literal
			e = ast.NewFieldExpr(p.spanFrom(start.Span.Begin), e, name, false)
		case token.QUESTION_DOT:
			p.advance()
			name := p.expect(token.IDENT).Literal
			e = ast.NewFieldExpr(p.spanFrom(start.Span.Begin), e, name, true)
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			e = ast.NewIndexExpr(p.spanFrom(start.Span.Begin), e, idx)
		case token.LPAREN:
			p.advance()
			args := p.parseExprList(token.RPAREN)
			p.expect(token.RPAREN)
			e = ast.NewCallExpr(p.spanFrom(start.Span.Begin), e, args)
		case token.AS:
			p.advance()
			t := p.parseType()
			e = ast.NewCastExpr(p.spanFrom(start.Span.Begin), e, t)
		case token.NOT:
			ident, ok := e.(*ast.Identifier)
			if !ok || p.peek(1).Kind != token.LPAREN {
				return e
			}
			p.advance() // consume '!'
			p.advance() // consume '('
			args := p.parseExprList(token.RPAREN)
			p.expect(token.RPAREN)
			e = ast.NewMacroCallExpr(p.spanFrom(start.Span.Begin), ident.Name, args)
		default:
			return e
		}
	}
}

func (p *Parser) parseExprList(stop token.Kind) []ast.Expr {
	var out []ast.Expr
	for p.cur().Kind != stop && p.cur().Kind != token.EOF {
		out = append(out, p.parseExpr())
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	return out
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur()
	switch p.cur().Kind {
	case token.INT:
		t := p.advance()
		text, suffix := splitNumSuffix(t.Literal)
		return ast.NewIntLiteral(t.Span, text, suffix)
	case token.FLOAT:
		t := p.advance()
		text, suffix := splitNumSuffix(t.Literal)
		return ast.NewFloatLiteral(t.Span, text, suffix)
	case token.STRING:
		t := p.advance()
		return ast.NewStringLiteral(t.Span, t.Literal)
	case token.CHAR:
		t := p.advance()
		return ast.NewCharLiteral(t.Span, decodeCharLiteral(t.Literal))
	case token.TRUE:
		t := p.advance()
		return ast.NewBoolLiteral(t.Span, true)
	case token.FALSE:
		t := p.advance()
		return ast.NewBoolLiteral(t.Span, false)
	case token.NULL:
		t := p.advance()
		return ast.NewNullLiteral(t.Span)
	case token.LSTR:
		return p.parseStringInterp()
	case token.THIS:
		t := p.advance()
		return ast.NewThisExpr(t.Span)
	case token.SUPER:
		t := p.advance()
		return ast.NewSuperExpr(t.Span)
	case token.THISTYPE:
		t := p.advance()
		return ast.NewThisTypeExpr(t.Span)
	case token.NEW:
		p.advance()
		target := p.parseType()
		p.expect(token.LPAREN)
		args := p.parseExprList(token.RPAREN)
		p.expect(token.RPAREN)
		return ast.NewNewExpr(p.spanFrom(start.Span.Begin), target, args)
	case token.LAUNCH:
		p.advance()
		bodySpan := p.cur().Span
		e := p.parseExpr()
		span := p.spanFrom(start.Span.Begin)
		// Wrap E in a zero-param closure at parse time, not shake time,
		// so the binder's ordinary closure-capture analysis (CaptureNames)
		// runs over it like any other closure (spec.md §4.2 "launch E").
		block := ast.NewBlock(bodySpan, []ast.Stmt{ast.NewExprStmt(bodySpan, e)})
		closure := ast.NewClosureExpr(span, nil, block)
		return ast.NewLaunchExpr(span, closure)
	case token.RAISE:
		p.advance()
		return ast.NewRaiseExpr(p.spanFrom(start.Span.Begin), p.parseExpr())
	case token.ASM:
		return p.parseAsmExpr()
	case token.LPAREN:
		return p.parseParenOrClosureOrTuple()
	case token.ASYNC:
		return p.parseClosure(true)
	case token.IDENT:
		return p.parsePathOrIdentOrStruct()
	default:
		p.errorf(diagnostics.PAR001, p.cur().Span, "unexpected token %s %q in expression", p.cur().Kind, p.cur().Literal)
		panic(parseException{msg: "unexpected token in expression"})
	}
}

// parsePathOrIdentOrStruct resolves spec.md §4.2's tie-break: a bare
// name immediately followed by `{` in a struct-literal-allowed context
// (noStructLiteral == 0) yields a StructExpr; otherwise it is an
// ordinary Identifier/Path, built so the binder's resolvePath (which
// only looks up the first element) still finds the right symbol.
// Multi-segment dotted paths are not extended with a trailing struct
// literal; only a single bare name is (spec.md gives no worked example
// of `a.b.Name{...}`, and this keeps the lookahead within the window).
func (p *Parser) parsePathOrIdentOrStruct() ast.Expr {
	start := p.cur()
	if p.noStructLiteral == 0 && p.peek(1).Kind == token.LBRACE {
		name := p.advance().Literal
		target := ast.NewPathTypeAst(p.spanFrom(start.Span.Begin), []string{name}, nil)
		return p.parseStructExprTail(start, target)
	}
	return p.parsePathExpr()
}

func (p *Parser) parseStructExprTail(start token.Token, target ast.TypeAst) *ast.StructExpr {
	p.expect(token.LBRACE)
	var fields []*ast.StructFieldInit
	for p.cur().Kind != token.RBRACE && p.cur().Kind != token.EOF {
		fstart := p.cur()
		fname := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		val := p.parseExpr()
		fields = append(fields, ast.NewStructFieldInit(p.spanFrom(fstart.Span.Begin), fname, val))
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return ast.NewStructExpr(p.spanFrom(start.Span.Begin), target, fields)
}

// parsePathExpr parses a dotted `a.b.c` chain, where each segment may
// carry `[args]` (spec.md's Path/PathElem). A single unadorned segment
// collapses to a plain Identifier, matching the binder's distinct
// resolveIdentifier/resolvePath cases.
func (p *Parser) parsePathExpr() ast.Expr {
	start := p.cur()
	var elems []*ast.PathElem
	for {
		estart := p.cur()
		name := p.expect(token.IDENT).Literal
		pe := ast.NewPathElem(p.spanFrom(estart.Span.Begin), name)
		if p.cur().Kind == token.LBRACKET {
			p.advance()
			pe.Args = p.parseExprList(token.RBRACKET)
			p.expect(token.RBRACKET)
			pe.Span = p.spanFrom(estart.Span.Begin)
		}
		elems = append(elems, pe)
		if p.cur().Kind == token.DOT {
			p.advance()
			continue
		}
		break
	}
	if len(elems) == 1 && len(elems[0].Args) == 0 {
		return ast.NewIdentifier(elems[0].Span, elems[0].Name)
	}
	return ast.NewPath(p.spanFrom(start.Span.Begin), elems)
}

// parseParenOrClosureOrTuple disambiguates `(params) => body` from a
// parenthesized/tuple expression using the lookahead heuristics spec.md
// §4.2 names explicitly: an attribute, a name followed by `:`, or an
// empty `()` (which can only start a zero-arg closure).
func (p *Parser) parseParenOrClosureOrTuple() ast.Expr {
	if p.looksLikeClosureParams() {
		return p.parseClosure(false)
	}
	start := p.expect(token.LPAREN)
	first := p.parseExpr()
	if p.cur().Kind == token.COMMA {
		elems := []ast.Expr{first}
		for p.cur().Kind == token.COMMA {
			p.advance()
			elems = append(elems, p.parseExpr())
		}
		p.expect(token.RPAREN)
		return ast.NewTupleExpr(p.spanFrom(start.Span.Begin), elems)
	}
	p.expect(token.RPAREN)
	return first
}

func (p *Parser) looksLikeClosureParams() bool {
	switch p.peek(1).Kind {
	case token.RPAREN, token.AT, token.ELLIPSIS:
		return true
	}
	return p.peek(1).Kind == token.IDENT && p.peek(2).Kind == token.COLON
}

func (p *Parser) parseClosure(isAsync bool) *ast.ClosureExpr {
	start := p.cur()
	if isAsync {
		p.expect(token.ASYNC)
	}
	params := p.parseParams()
	var ret ast.TypeAst
	if p.cur().Kind == token.COLON {
		p.advance()
		ret = p.parseType()
	}
	p.expect(token.FARROW)
	var body *ast.Block
	if p.cur().Kind == token.LBRACE {
		body = p.parseBlock()
	} else {
		e := p.parseAssignment()
		body = ast.NewBlock(e.Base().Span, []ast.Stmt{ast.NewReturnStmt(e.Base().Span, e)})
	}
	c := ast.NewClosureExpr(p.spanFrom(start.Span.Begin), params, body)
	c.ReturnType = ret
	c.IsAsync = isAsync
	return c
}

// parseAsmExpr parses `asm("template" : outputs : inputs : clobbers : flags)`,
// each of the four colon-delimited sections optional.
func (p *Parser) parseAsmExpr() *ast.AsmExpr {
	start := p.expect(token.ASM)
	p.expect(token.LPAREN)
	template := p.expect(token.STRING).Literal
	a := ast.NewAsmExpr(p.spanFrom(start.Span.Begin), template)
	sections := make([][]string, 4) // outputs, inputs, clobbers, flags
	for idx := 0; p.cur().Kind == token.COLON && idx < len(sections); idx++ {
		p.advance()
		for p.cur().Kind == token.STRING || p.cur().Kind == token.IDENT {
			sections[idx] = append(sections[idx], p.advance().Literal)
			if p.cur().Kind == token.COMMA {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN)
	a.Outputs, a.Inputs, a.Clobbers, a.AsmFlags = sections[0], sections[1], sections[2], sections[3]
	a.Span = p.spanFrom(start.Span.Begin)
	return a
}

// parseStringInterp drives the lexer's raw ReadStringPart/
// CloseInterpExpr protocol directly (spec.md §4.1), bypassing the
// ordinary 4-token prefetch window while inside the backtick literal:
// p.interpFence freezes window refills (see fill()) from the moment an
// LSTR is fetched until the matching RSTR is consumed here, so the
// eager lookahead never tokenizes raw string text as code.
//
// A `${...}` segment's expression is parsed with the window live (so it
// gets full Pratt lookahead, including expressions with their own
// blocks or struct literals), but fill() tracks brace depth via
// interpStops so only the `}` that actually closes the interpolation
// re-trips the fence — an inner block's `}` does not.
func (p *Parser) parseStringInterp() *ast.StringInterpExpr {
	start := p.advance() // LSTR
	var parts []string
	var exprs []ast.Expr
	for {
		part, boundary := p.lex.ReadStringPart()
		parts = append(parts, part.Literal)
		if boundary.Kind == token.RSTR {
			break
		}
		p.interpStops = append(p.interpStops, p.braceDepth)
		p.primeWindow() // real tokens resume for the `${...}` expression
		exprs = append(exprs, p.parseExpr())
		p.interpStops = p.interpStops[:len(p.interpStops)-1]
		p.advance() // consumes the closing '}'; fill() already fenced past it
	}
	p.interpFence = false
	p.primeWindow()
	return ast.NewStringInterpExpr(p.spanFrom(start.Span.Begin), parts, exprs)
}

// primeWindow discards the (frozen, placeholder-filled) window and
// refetches it from the lexer's current real position.
func (p *Parser) primeWindow() {
	p.interpFence = false
	for i := 0; i < lookahead; i++ {
		p.buf[i] = p.fill()
	}
}

func splitNumSuffix(lit string) (text, suffix string) {
	for i, r := range lit {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return lit[:i], lit[i:]
		}
	}
	return lit, ""
}

func decodeCharLiteral(lit string) rune {
	if len(lit) == 0 {
		return 0
	}
	if lit[0] == '\\' && len(lit) > 1 {
		switch lit[1] {
		case 'n':
			return '\n'
		case 't':
			return '\t'
		case 'r':
			return '\r'
		case '0':
			return 0
		case '\\':
			return '\\'
		case '\'':
			return '\''
		default:
			r, _ := utf8.DecodeRuneInString(lit[1:])
			return r
		}
	}
	r, _ := utf8.DecodeRuneInString(lit)
	return r
}
