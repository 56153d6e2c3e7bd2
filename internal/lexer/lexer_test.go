package lexer

import (
	"testing"

	"github.com/dccarter/cxy/internal/token"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexIdentAndKeywords(t *testing.T) {
	l := New("func x pub var", "t.cxy", nil)
	toks := []token.Token{l.NextToken(), l.NextToken(), l.NextToken(), l.NextToken(), l.NextToken()}
	require.Equal(t, []token.Kind{token.FUNC, token.IDENT, token.PUB, token.VAR, token.EOF}, kinds(toks))
}

func TestLexOperators(t *testing.T) {
	l := New("+= -> => == != <= >= && || .. ... :: ?.", "t.cxy", nil)
	var got []token.Kind
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.Kind)
	}
	require.Equal(t, []token.Kind{
		token.PLUS_ASSIGN, token.ARROW, token.FARROW, token.EQ, token.NEQ,
		token.LTE, token.GTE, token.AND_AND, token.OR_OR, token.RANGE, token.ELLIPSIS,
		token.DCOLON, token.QUESTION_DOT,
	}, got)
}

func TestLexNumberSuffix(t *testing.T) {
	l := New("123_i64 3.14_f32 0xFF", "t.cxy", nil)
	tok := l.NextToken()
	require.Equal(t, token.INT, tok.Kind)
	require.Equal(t, "123_i64", tok.Literal)

	tok = l.NextToken()
	require.Equal(t, token.FLOAT, tok.Kind)
	require.Equal(t, "3.14_f32", tok.Literal)
}

func TestLexStringWithEscapes(t *testing.T) {
	l := New(`"hello\nworld"`, "t.cxy", nil)
	tok := l.NextToken()
	require.Equal(t, token.STRING, tok.Kind)
	require.Equal(t, `hello\nworld`, tok.Literal)
}

func TestLexUnterminatedStringIsIllegal(t *testing.T) {
	l := New(`"unterminated`, "t.cxy", nil)
	tok := l.NextToken()
	require.Equal(t, token.ILLEGAL, tok.Kind)
}

func TestLexLineAndBlockComments(t *testing.T) {
	l := New("var /* skip me */ x = 1 // trailing", "t.cxy", nil)
	var got []token.Kind
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.Kind)
	}
	require.Equal(t, []token.Kind{token.VAR, token.IDENT, token.ASSIGN, token.INT}, got)
}

func TestLexHashDirectives(t *testing.T) {
	l := New("#if #else #for #while #const", "t.cxy", nil)
	var got []token.Kind
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.Kind)
	}
	require.Equal(t, []token.Kind{
		token.HASH_IF, token.HASH_ELSE, token.HASH_FOR, token.HASH_WHILE, token.HASH_CONST,
	}, got)
}

func TestLexBacktickInterpolation(t *testing.T) {
	l := New("`hello ${name}!`", "t.cxy", nil)

	open := l.NextToken()
	require.Equal(t, token.LSTR, open.Kind)

	part, boundary := l.ReadStringPart()
	require.Equal(t, token.STRING, part.Kind)
	require.Equal(t, "hello ", part.Literal)
	require.Equal(t, token.LSTRFMT, boundary.Kind)

	ident := l.NextToken()
	require.Equal(t, token.IDENT, ident.Kind)
	require.Equal(t, "name", ident.Literal)

	closeTok := l.CloseInterpExpr()
	require.Equal(t, token.LSTRFMT, closeTok.Kind)

	part2, end := l.ReadStringPart()
	require.Equal(t, "!", part2.Literal)
	require.Equal(t, token.RSTR, end.Kind)
}

type fakeIncluder struct {
	files map[string]string
}

func (f fakeIncluder) ReadInclude(path string) (string, string, error) {
	src, ok := f.files[path]
	if !ok {
		return "", "", errNoIncluder
	}
	return src, path, nil
}

func TestLexIncludeResumesParentBuffer(t *testing.T) {
	inc := fakeIncluder{files: map[string]string{
		"prelude.cxy": "var y = 2",
	}}
	l := New("var x = 1", "main.cxy", inc)

	first := l.NextToken()
	require.Equal(t, token.VAR, first.Kind)

	require.NoError(t, l.Include("prelude.cxy"))

	var got []token.Kind
	got = append(got, first.Kind)
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.Kind)
	}
	// Tokens from the included file are returned first, then the
	// remainder of main.cxy's buffer, per the pushdown-stack model.
	require.Equal(t, []token.Kind{
		token.VAR, token.VAR, token.IDENT, token.ASSIGN, token.INT,
		token.IDENT, token.ASSIGN, token.INT,
	}, got)
}

func TestLexerSpanTracksLineColumn(t *testing.T) {
	l := New("var\nx", "t.cxy", nil)
	first := l.NextToken()
	require.Equal(t, 1, first.Span.Begin.Line)

	second := l.NextToken()
	require.Equal(t, 2, second.Span.Begin.Line)
}
</content>
