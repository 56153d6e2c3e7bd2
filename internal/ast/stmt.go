package ast

import (
	"fmt"
	"strings"

	"github.com/dccarter/cxy/internal/token"
)

// Block is a braced statement sequence. DeferredExprs accumulates
// `defer` expressions registered against this block's scope (spec.md
// §4.6.2, §4.11); the shaker fills it, and no pass materializes the
// expressions at the block's exit points.
type Block struct {
	BaseNode
	Stmts         []Stmt
	DeferredExprs []Expr
}

func NewBlock(span token.Span, stmts []Stmt) *Block {
	return &Block{BaseNode: newBase(TagBlock, span), Stmts: stmts}
}
func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
func (b *Block) exprNode() {} // a Block may be used as an expression (last-stmt value)
func (b *Block) stmtNode() {}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	BaseNode
	X Expr
}

func NewExprStmt(span token.Span, x Expr) *ExprStmt {
	return &ExprStmt{BaseNode: newBase(TagExprStmt, span), X: x}
}
func (e *ExprStmt) String() string { return e.X.String() }
func (e *ExprStmt) stmtNode()      {}

// VarDeclStmt adapts a VarDecl/MultiVarDecl for use as a Stmt; kept
// distinct from VarDecl itself because top-level VarDecls are Decls
// but function-body VarDecls are Stmts that also declare into scope.
type VarDeclStmt struct {
	BaseNode
	Decl Decl // *VarDecl or *MultiVarDecl
}

func NewVarDeclStmt(span token.Span, decl Decl) *VarDeclStmt {
	return &VarDeclStmt{BaseNode: newBase(TagVarDeclStmt, span), Decl: decl}
}
func (v *VarDeclStmt) String() string { return v.Decl.String() }
func (v *VarDeclStmt) stmtNode()      {}

// IfStmt. Cond may itself be a VarDeclStmt-hoisted temp reference after
// the shaker's "If/While with var-declaration condition" pass
// (spec.md §4.6.5).
type IfStmt struct {
	BaseNode
	Cond       Expr
	Then       *Block
	Else       Node // *Block or *IfStmt, nil if absent
}

func NewIfStmt(span token.Span, cond Expr, then *Block, els Node) *IfStmt {
	return &IfStmt{BaseNode: newBase(TagIfStmt, span), Cond: cond, Then: then, Else: els}
}
func (i *IfStmt) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond.String(), i.Then.String())
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}
func (i *IfStmt) stmtNode() {}
func (i *IfStmt) exprNode() {}

type WhileStmt struct {
	BaseNode
	Cond Expr
	Body *Block
}

func NewWhileStmt(span token.Span, cond Expr, body *Block) *WhileStmt {
	return &WhileStmt{BaseNode: newBase(TagWhileStmt, span), Cond: cond, Body: body}
}
func (w *WhileStmt) String() string { return fmt.Sprintf("while (%s) %s", w.Cond.String(), w.Body.String()) }
func (w *WhileStmt) stmtNode()      {}

// ForStmt is `for (const x : range) body`; the shaker ensures Body is
// always a Block (spec.md §4.6.4).
type ForStmt struct {
	BaseNode
	Var   *VarDecl
	Range Expr
	Body  *Block
}

func NewForStmt(span token.Span, v *VarDecl, rng Expr, body *Block) *ForStmt {
	return &ForStmt{BaseNode: newBase(TagForStmt, span), Var: v, Range: rng, Body: body}
}
func (f *ForStmt) String() string {
	return fmt.Sprintf("for (%s : %s) %s", f.Var.String(), f.Range.String(), f.Body.String())
}
func (f *ForStmt) stmtNode() {}

type BreakStmt struct{ BaseNode }

func NewBreakStmt(span token.Span) *BreakStmt {
	return &BreakStmt{BaseNode: newBase(TagBreakStmt, span)}
}
func (b *BreakStmt) String() string { return "break" }
func (b *BreakStmt) stmtNode()      {}

type ContinueStmt struct{ BaseNode }

func NewContinueStmt(span token.Span) *ContinueStmt {
	return &ContinueStmt{BaseNode: newBase(TagContinueStmt, span)}
}
func (c *ContinueStmt) String() string { return "continue" }
func (c *ContinueStmt) stmtNode()      {}

type ReturnStmt struct {
	BaseNode
	Value Expr // nil for a bare `return`
}

func NewReturnStmt(span token.Span, value Expr) *ReturnStmt {
	return &ReturnStmt{BaseNode: newBase(TagReturnStmt, span), Value: value}
}
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}
func (r *ReturnStmt) stmtNode() {}

// DeferStmt does not survive the shaker: shakeBlock moves its value
// onto the owning Block's DeferredExprs and drops the statement.
type DeferStmt struct {
	BaseNode
	Value Expr
}

func NewDeferStmt(span token.Span, value Expr) *DeferStmt {
	return &DeferStmt{BaseNode: newBase(TagDeferStmt, span), Value: value}
}
func (d *DeferStmt) String() string { return "defer " + d.Value.String() }
func (d *DeferStmt) stmtNode()      {}

// MatchCase is one `case pattern => body` arm.
type MatchCase struct {
	BaseNode
	Pattern Pattern
	Guard   Expr // optional `if` guard
	Body    *Block
}

func NewMatchCase(span token.Span, pat Pattern, body *Block) *MatchCase {
	return &MatchCase{BaseNode: newBase(TagMatchCase, span), Pattern: pat, Body: body}
}
func (m *MatchCase) String() string { return fmt.Sprintf("case %s => %s", m.Pattern.String(), m.Body.String()) }

// MatchStmt is a match expression/statement over a scrutinee, hoisted
// into a temp l-value by the shaker (spec.md §4.6.11). An empty Cases
// list is a parser error, PAR010 (spec.md §8 boundary behaviors).
type MatchStmt struct {
	BaseNode
	Scrutinee Expr
	Cases     []*MatchCase
}

func NewMatchStmt(span token.Span, scrutinee Expr, cases []*MatchCase) *MatchStmt {
	return &MatchStmt{BaseNode: newBase(TagMatchStmt, span), Scrutinee: scrutinee, Cases: cases}
}
func (m *MatchStmt) String() string {
	parts := make([]string, len(m.Cases))
	for i, c := range m.Cases {
		parts[i] = c.String()
	}
	return fmt.Sprintf("match (%s) { %s }", m.Scrutinee.String(), strings.Join(parts, " "))
}
func (m *MatchStmt) stmtNode() {}
func (m *MatchStmt) exprNode() {}

// Pattern is implemented by match-arm patterns (spec.md's pattern
// grammar is not spelled out in full; the common shapes below mirror
// the teacher's pattern node family).
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern matches anything (`_`).
type WildcardPattern struct{ BaseNode }

func NewWildcardPattern(span token.Span) *WildcardPattern {
	return &WildcardPattern{BaseNode: newBase(TagWildcardPattern, span)}
}
func (w *WildcardPattern) String() string { return "_" }
func (w *WildcardPattern) patternNode()   {}

// BindPattern binds the scrutinee (or a sub-part) to a name.
type BindPattern struct {
	BaseNode
	Name string
}

func NewBindPattern(span token.Span, name string) *BindPattern {
	return &BindPattern{BaseNode: newBase(TagBindPattern, span), Name: name}
}
func (b *BindPattern) String() string { return b.Name }
func (b *BindPattern) patternNode()   {}

// TypePattern matches a union member by type name, e.g.
// `case e: NotFound => ...` over a result-type union (spec.md §3.2
// Union / §4.7 "Exceptions and results").
type TypePattern struct {
	BaseNode
	Bind string
	Type TypeAst
}

func NewTypePattern(span token.Span, bind string, typ TypeAst) *TypePattern {
	return &TypePattern{BaseNode: newBase(TagTypePattern, span), Bind: bind, Type: typ}
}
func (t *TypePattern) String() string { return t.Bind + ": " + t.Type.String() }
func (t *TypePattern) patternNode()   {}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	BaseNode
	Value Expr
}

func NewLiteralPattern(span token.Span, value Expr) *LiteralPattern {
	return &LiteralPattern{BaseNode: newBase(TagLiteralPattern, span), Value: value}
}
func (l *LiteralPattern) String() string { return l.Value.String() }
func (l *LiteralPattern) patternNode()   {}

// TuplePattern destructures a tuple scrutinee.
type TuplePattern struct {
	BaseNode
	Elements []Pattern
}

func NewTuplePattern(span token.Span, elems []Pattern) *TuplePattern {
	return &TuplePattern{BaseNode: newBase(TagTuplePattern, span), Elements: elems}
}
func (t *TuplePattern) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TuplePattern) patternNode() {}
</content>
