// Package lexer tokenizes Cxy source code into a token.Token stream,
// following the teacher's internal/lexer package shape: a rune-at-a-
// time scanner over a Go string with a readChar/peekChar pair,
// extended with a pushdown stack of buffers so `include "path"`
// transparently resumes tokenization from the included file
// (spec.md §4.1).
package lexer

import (
	"unicode/utf8"

	"github.com/dccarter/cxy/internal/token"
)

// Includer resolves an `include "path"` directive to source bytes,
// supplied by the driver (spec.md §6 "Consumed from collaborators").
type Includer interface {
	ReadInclude(path string) (src string, resolvedPath string, err error)
}

type buffer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line, column int
	file         string
}

// Lexer tokenizes one logical compilation unit, transparently pushing
// down into `include`d files and popping back to the parent buffer
// when one is exhausted.
type Lexer struct {
	stack    []*buffer
	includer Includer

	// interpDepth > 0 while lexing inside a backtick string template;
	// tracks nesting of `${...}` segments so RSTR is only implied at
	// depth 0.
	interpDepth int
}

// New creates a Lexer over src, identified by file for diagnostics.
// includer may be nil if the unit never uses `include`.
func New(src, file string, includer Includer) *Lexer {
	l := &Lexer{includer: includer}
	l.push(src, file)
	return l
}

func (l *Lexer) push(src, file string) {
	b := &buffer{input: src, file: file, line: 1, column: 0}
	l.stack = append(l.stack, b)
	l.readChar()
}

func (l *Lexer) top() *buffer { return l.stack[len(l.stack)-1] }

func (l *Lexer) readChar() {
	b := l.top()
	if b.readPosition >= len(b.input) {
		b.ch = 0
		b.position = b.readPosition
		return
	}
	ch, size := utf8.DecodeRuneInString(b.input[b.readPosition:])
	b.position = b.readPosition
	b.readPosition += size
	b.column++
	if ch == '\n' {
		b.line++
		b.column = 0
	}
	b.ch = ch
}

func (l *Lexer) peekChar() rune {
	b := l.top()
	if b.readPosition >= len(b.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(b.input[b.readPosition:])
	return ch
}

func (l *Lexer) pos() token.Position {
	b := l.top()
	return token.Position{File: b.file, Line: b.line, Column: b.column, Offset: b.position}
}

// popIfExhausted pops a finished include buffer and reports whether it
// did, so NextToken can loop back into the parent buffer and continue
// returning its tokens (spec.md §4.1 "transparently resumes").
func (l *Lexer) popIfExhausted() bool {
	if len(l.stack) > 1 && l.top().ch == 0 {
		l.stack = l.stack[:len(l.stack)-1]
		return true
	}
	return false
}

func isLetter(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch > 127
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		b := l.top()
		switch {
		case b.ch == ' ' || b.ch == '\t' || b.ch == '\r' || b.ch == '\n':
			l.readChar()
		case b.ch == '/' && l.peekChar() == '/':
			for b.ch != '\n' && b.ch != 0 {
				l.readChar()
			}
		case b.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			depth := 1
			for depth > 0 && b.ch != 0 {
				if b.ch == '/' && l.peekChar() == '*' {
					depth++
					l.readChar()
					l.readChar()
				} else if b.ch == '*' && l.peekChar() == '/' {
					depth--
					l.readChar()
					l.readChar()
				} else {
					l.readChar()
				}
			}
		default:
			return
		}
	}
}

func (l *Lexer) mk(kind token.Kind, lit string, begin token.Position) token.Token {
	return token.Token{Kind: kind, Literal: lit, Span: token.Span{Begin: begin, End: l.pos()}}
}

// NextToken scans and returns the next token, resolving `include`
// directives transparently and never returning a token from an
// exhausted include buffer (spec.md §4.1).
func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespaceAndComments()
		if l.top().ch == 0 {
			if l.popIfExhausted() {
				continue
			}
			return l.mk(token.EOF, "", l.pos())
		}
		return l.nextTokenNormal()
	}
}

func (l *Lexer) nextTokenNormal() token.Token {
	begin := l.pos()
	b := l.top()
	ch := b.ch

	switch {
	case ch == 0:
		return l.mk(token.EOF, "", begin)
	case ch == '`':
		return l.lexBacktickString(begin)
	case ch == '"':
		return l.lexString(begin)
	case ch == '\'':
		return l.lexChar(begin)
	case isDigit(ch):
		return l.lexNumber(begin)
	case isLetter(ch):
		return l.lexIdentOrKeyword(begin)
	default:
		return l.lexOperator(begin)
	}
}

func (l *Lexer) lexIdentOrKeyword(begin token.Position) token.Token {
	b := l.top()
	start := b.position
	for isLetter(b.ch) || isDigit(b.ch) {
		l.readChar()
	}
	lit := b.input[start:b.position]
	return l.mk(token.Lookup(lit), lit, begin)
}

// lexNumber scans an integer or float literal, including an optional
// trailing type suffix like `_i64`/`u8` and the `.`-separated decimal
// part (spec.md §4.1 "up to 128 bits"). The literal text and suffix
// are preserved verbatim for ast.IntLiteral/FloatLiteral round-trip.
func (l *Lexer) lexNumber(begin token.Position) token.Token {
	b := l.top()
	start := b.position
	isFloat := false
	for isDigit(b.ch) || b.ch == '_' {
		l.readChar()
	}
	if b.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(b.ch) || b.ch == '_' {
			l.readChar()
		}
	}
	numText := b.input[start:b.position]

	suffixStart := b.position
	for isLetter(b.ch) || isDigit(b.ch) {
		l.readChar()
	}
	suffix := b.input[suffixStart:b.position]

	if isFloat {
		return l.mk(token.FLOAT, numText+suffix, begin)
	}
	return l.mk(token.INT, numText+suffix, begin)
}

func (l *Lexer) lexString(begin token.Position) token.Token {
	b := l.top()
	l.readChar() // consume opening quote
	start := b.position
	for b.ch != '"' && b.ch != 0 {
		if b.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	lit := b.input[start:b.position]
	if b.ch == 0 {
		return l.mk(token.ILLEGAL, lit, begin) // unterminated; no LEX002 report is emitted for it
	}
	l.readChar() // consume closing quote
	return l.mk(token.STRING, lit, begin)
}

func (l *Lexer) lexChar(begin token.Position) token.Token {
	b := l.top()
	l.readChar() // consume opening quote
	start := b.position
	if b.ch == '\\' {
		l.readChar()
	}
	l.readChar()
	lit := b.input[start:b.position]
	if b.ch != '\'' {
		return l.mk(token.ILLEGAL, lit, begin)
	}
	l.readChar()
	return l.mk(token.CHAR, lit, begin)
}

// lexBacktickString implements spec.md §4.1's interpolation-mode
// lexing: `` `…${expr}…` `` becomes LSTR, part, LSTRFMT, expr-tokens,
// LSTRFMT, part, RSTR. The opening LSTR is returned here; the parser
// drives the rest by calling ReadStringPart/CloseInterpExpr.
func (l *Lexer) lexBacktickString(begin token.Position) token.Token {
	l.readChar() // consume opening `
	return l.mk(token.LSTR, "", begin)
}

// ReadStringPart is called by the parser, immediately after an LSTR or
// an interpolation-closing `}`, to consume literal text up to the next
// `${` or the closing backtick. It returns an LSTRFMT-boundary token
// when an interpolation segment opens, or an RSTR token at the end.
func (l *Lexer) ReadStringPart() (part token.Token, next token.Token) {
	b := l.top()
	begin := l.pos()
	start := b.position
	for b.ch != 0 {
		if b.ch == '$' && l.peekChar() == '{' {
			lit := b.input[start:b.position]
			part = l.mk(token.STRING, lit, begin)
			boundaryBegin := l.pos()
			l.readChar()
			l.readChar()
			l.interpDepth++
			next = l.mk(token.LSTRFMT, "${", boundaryBegin)
			return part, next
		}
		if b.ch == '`' {
			lit := b.input[start:b.position]
			part = l.mk(token.STRING, lit, begin)
			endBegin := l.pos()
			l.readChar()
			next = l.mk(token.RSTR, "`", endBegin)
			return part, next
		}
		if b.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	part = l.mk(token.STRING, b.input[start:b.position], begin)
	next = l.mk(token.RSTR, "", l.pos())
	return part, next
}

// CloseInterpExpr is called by the parser when it sees the `}` that
// closes an `${...}` interpolation segment, emitting the matching
// LSTRFMT boundary token and resuming literal-text lexing.
func (l *Lexer) CloseInterpExpr() token.Token {
	begin := l.pos()
	l.readChar() // consume '}'
	if l.interpDepth > 0 {
		l.interpDepth--
	}
	return l.mk(token.LSTRFMT, "}", begin)
}

func (l *Lexer) lexOperator(begin token.Position) token.Token {
	b := l.top()
	ch := b.ch
	two := func(next rune, twoKind, oneKind token.Kind) token.Token {
		if l.peekChar() == next {
			l.readChar()
			l.readChar()
			return l.mk(twoKind, string(ch)+string(next), begin)
		}
		l.readChar()
		return l.mk(oneKind, string(ch), begin)
	}

	switch ch {
	case '+':
		return two('=', token.PLUS_ASSIGN, token.PLUS)
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.mk(token.ARROW, "->", begin)
		}
		return two('=', token.MINUS_ASSIGN, token.MINUS)
	case '*':
		return two('=', token.STAR_ASSIGN, token.STAR)
	case '/':
		return two('=', token.SLASH_ASSIGN, token.SLASH)
	case '%':
		l.readChar()
		return l.mk(token.PERCENT, "%", begin)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.mk(token.EQ, "==", begin)
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.mk(token.FARROW, "=>", begin)
		}
		l.readChar()
		return l.mk(token.ASSIGN, "=", begin)
	case '!':
		return two('=', token.NEQ, token.NOT)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.mk(token.LTE, "<=", begin)
		}
		if l.peekChar() == '<' {
			l.readChar()
			l.readChar()
			return l.mk(token.SHL, "<<", begin)
		}
		l.readChar()
		return l.mk(token.LT, "<", begin)
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.mk(token.GTE, ">=", begin)
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.mk(token.SHR, ">>", begin)
		}
		l.readChar()
		return l.mk(token.GT, ">", begin)
	case '&':
		return two('&', token.AND_AND, token.AMP)
	case '|':
		return two('|', token.OR_OR, token.PIPE)
	case '^':
		l.readChar()
		return l.mk(token.CARET, "^", begin)
	case '~':
		l.readChar()
		return l.mk(token.TILDE, "~", begin)
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			l.readChar()
			if b.ch == '.' {
				l.readChar()
				return l.mk(token.ELLIPSIS, "...", begin)
			}
			return l.mk(token.RANGE, "..", begin)
		}
		l.readChar()
		return l.mk(token.DOT, ".", begin)
	case ':':
		return two(':', token.DCOLON, token.COLON)
	case '?':
		return two('.', token.QUESTION_DOT, token.QUESTION)
	case '$':
		l.readChar()
		return l.mk(token.DOLLAR, "$", begin)
	case '@':
		l.readChar()
		return l.mk(token.AT, "@", begin)
	case '#':
		return l.lexHashDirective(begin)
	case '(':
		l.readChar()
		return l.mk(token.LPAREN, "(", begin)
	case ')':
		l.readChar()
		return l.mk(token.RPAREN, ")", begin)
	case '{':
		l.readChar()
		return l.mk(token.LBRACE, "{", begin)
	case '}':
		l.readChar()
		return l.mk(token.RBRACE, "}", begin)
	case '[':
		l.readChar()
		return l.mk(token.LBRACKET, "[", begin)
	case ']':
		l.readChar()
		return l.mk(token.RBRACKET, "]", begin)
	case ',':
		l.readChar()
		return l.mk(token.COMMA, ",", begin)
	case ';':
		l.readChar()
		return l.mk(token.SEMI, ";", begin)
	default:
		l.readChar()
		return l.mk(token.ILLEGAL, string(ch), begin)
	}
}

func (l *Lexer) lexHashDirective(begin token.Position) token.Token {
	b := l.top()
	l.readChar() // consume '#'
	start := b.position
	for isLetter(b.ch) || isDigit(b.ch) {
		l.readChar()
	}
	word := b.input[start:b.position]
	switch word {
	case "if":
		return l.mk(token.HASH_IF, "#if", begin)
	case "else":
		return l.mk(token.HASH_ELSE, "#else", begin)
	case "for":
		return l.mk(token.HASH_FOR, "#for", begin)
	case "while":
		return l.mk(token.HASH_WHILE, "#while", begin)
	case "const":
		return l.mk(token.HASH_CONST, "#const", begin)
	default:
		return l.mk(token.ILLEGAL, "#"+word, begin)
	}
}

// Include pushes a new buffer onto the stack for the given path,
// resolved via the Includer (spec.md §4.1 "nested include pushdown").
// It returns an error if no Includer is configured or resolution
// fails; the lexer itself reports no diagnostic for it.
func (l *Lexer) Include(path string) error {
	if l.includer == nil {
		return errNoIncluder
	}
	src, resolved, err := l.includer.ReadInclude(path)
	if err != nil {
		return err
	}
	l.push(src, resolved)
	return nil
}

type includeError string

func (e includeError) Error() string { return string(e) }

const errNoIncluder = includeError("lexer: no Includer configured")
</content>
