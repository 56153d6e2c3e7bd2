// Package token defines the lexical token kinds of the Cxy language.
package token

import "fmt"

// Kind identifies the category of a lexical token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	COMMENT

	// Literals
	IDENT
	INT
	FLOAT
	STRING
	CHAR

	// String interpolation pseudo-tokens, see lexer.go.
	LSTR    // opening `
	LSTRFMT // ${ boundary inside an interpolated string
	RSTR    // closing `

	// Keywords
	FUNC
	STRUCT
	CLASS
	ENUM
	TRAIT
	INTERFACE
	VAR
	CONST
	TYPE
	PUB
	EXTERN
	STATIC
	NATIVE
	IF
	ELSE
	FOR
	WHILE
	MATCH
	CASE
	BREAK
	CONTINUE
	RETURN
	DEFER
	THIS
	SUPER
	THISTYPE
	NEW
	DELETE
	ASYNC
	AWAIT
	LAUNCH
	RAISE
	CATCH
	EXCEPTION
	TEST
	MACRO
	IMPORT
	MODULE
	AS
	IS
	IN
	NULL
	TRUE
	FALSE
	ASM

	// Preprocessor / comptime
	HASH_IF
	HASH_ELSE
	HASH_FOR
	HASH_WHILE
	HASH_CONST
	AT // @attribute prefix

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	EQ
	NEQ
	LT
	LTE
	GT
	GTE
	AND_AND
	OR_OR
	NOT
	TILDE
	AMP
	AMP_AMP
	CARET
	PIPE
	SHL
	SHR
	RANGE // ..
	ARROW // ->
	FARROW
	QUESTION
	QUESTION_DOT
	DOLLAR
	ELLIPSIS
	COLON
	DCOLON // path separator ::

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	SEMI
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", CHAR: "CHAR",
	LSTR: "LSTR", LSTRFMT: "LSTRFMT", RSTR: "RSTR",

	FUNC: "func", STRUCT: "struct", CLASS: "class", ENUM: "enum",
	TRAIT: "trait", INTERFACE: "interface", VAR: "var", CONST: "const",
	TYPE: "type", PUB: "pub", EXTERN: "extern", STATIC: "static",
	NATIVE: "native", IF: "if", ELSE: "else", FOR: "for", WHILE: "while",
	MATCH: "match", CASE: "case", BREAK: "break", CONTINUE: "continue",
	RETURN: "return", DEFER: "defer", THIS: "this", SUPER: "super",
	THISTYPE: "This", NEW: "new", DELETE: "delete", ASYNC: "async",
	AWAIT: "await", LAUNCH: "launch", RAISE: "raise", CATCH: "catch",
	EXCEPTION: "exception", TEST: "test", MACRO: "macro", IMPORT: "import",
	MODULE: "module", AS: "as", IS: "is", IN: "in", NULL: "null",
	TRUE: "true", FALSE: "false", ASM: "asm",

	HASH_IF: "#if", HASH_ELSE: "#else", HASH_FOR: "#for", HASH_WHILE: "#while",
	HASH_CONST: "#const", AT: "@",

	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">",
	GTE: ">=", AND_AND: "&&", OR_OR: "||", NOT: "!", TILDE: "~", AMP: "&",
	AMP_AMP: "&&", CARET: "^", PIPE: "|", SHL: "<<", SHR: ">>", RANGE: "..",
	ARROW: "->", FARROW: "=>", QUESTION: "?", QUESTION_DOT: "?.", DOLLAR: "$",
	ELLIPSIS: "...", COLON: ":", DCOLON: "::",

	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[",
	RBRACKET: "]", COMMA: ",", DOT: ".", SEMI: ";",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps a lexed identifier spelling to its keyword Kind.
var keywords = map[string]Kind{
	"func": FUNC, "struct": STRUCT, "class": CLASS, "enum": ENUM,
	"trait": TRAIT, "interface": INTERFACE, "var": VAR, "const": CONST,
	"type": TYPE, "pub": PUB, "extern": EXTERN, "static": STATIC,
	"native": NATIVE, "if": IF, "else": ELSE, "for": FOR, "while": WHILE,
	"match": MATCH, "case": CASE, "break": BREAK, "continue": CONTINUE,
	"return": RETURN, "defer": DEFER, "this": THIS, "super": SUPER,
	"This": THISTYPE, "new": NEW, "delete": DELETE, "async": ASYNC,
	"await": AWAIT, "launch": LAUNCH, "raise": RAISE, "catch": CATCH,
	"exception": EXCEPTION, "test": TEST, "macro": MACRO, "import": IMPORT,
	"module": MODULE, "as": AS, "is": IS, "in": IN, "null": NULL,
	"true": TRUE, "false": FALSE, "asm": ASM,
}

// Lookup resolves an identifier spelling to a keyword Kind, or IDENT.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Position is a single point in a source file.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open [Begin, End) source range, carried on every token
// and every AST node (spec.md §3.1).
type Span struct {
	Begin Position
	End   Position
}

// Token is a single lexical token.
type Token struct {
	Kind    Kind
	Literal string
	Span    Span
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %s}", t.Kind, t.Literal, t.Span.Begin)
}

// precedence implements the ladder from spec.md §4.2, highest-binding
// first mapped to the largest integer.
var precedence = map[Kind]int{
	OR_OR:    1,
	AND_AND:  2,
	PIPE:     3,
	CARET:    3,
	AMP:      3,
	EQ:       4,
	NEQ:      4,
	IS:       4,
	LT:       5,
	LTE:      5,
	GT:       5,
	GTE:      5,
	RANGE:    6,
	SHL:      7,
	SHR:      7,
	PLUS:     8,
	MINUS:    8,
	STAR:     9,
	SLASH:    9,
	PERCENT:  9,
	CATCH_PR: 10,
}

// CATCH_PR is a synthetic key used only inside the precedence table;
// CATCH itself has no entry, so Precedence(CATCH) is 0 and the parser
// handles `catch` in its own rung (parseCatch), between the binary
// operators and ternary.
const CATCH_PR Kind = -1000

// Precedence returns the binding power of a binary operator token, or
// 0 if the token does not start a binary expression.
func (k Kind) Precedence() int {
	if p, ok := precedence[k]; ok {
		return p
	}
	return 0
}

// IsAssignOp reports whether k is one of the `=`, `+=`, ... family.
func (k Kind) IsAssignOp() bool {
	switch k {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN:
		return true
	}
	return false
}

// DeclStart is the set of tokens the parser synchronizes to after a
// recoverable parse error (spec.md §4.2).
var DeclStart = map[Kind]bool{
	FUNC: true, STRUCT: true, CLASS: true, ENUM: true, TRAIT: true,
	INTERFACE: true, VAR: true, CONST: true, TYPE: true, PUB: true,
	AT: true, HASH_IF: true, MACRO: true, EXCEPTION: true, IMPORT: true,
}
</content>
