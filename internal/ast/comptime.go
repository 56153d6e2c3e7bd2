package ast

import (
	"fmt"

	"github.com/dccarter/cxy/internal/token"
)

// HashIf is `#if (cond) { A } else { B }` (spec.md §4.5). The node
// carries the Comptime flag; internal/comptime replaces it in-place
// with the selected branch, splicing statements into the surrounding
// list; a HashIf that selects no branch, or whose condition does not
// fold, becomes a Noop (TagNoop).
type HashIf struct {
	BaseNode
	Cond Expr
	Then *Block
	Else Node // *Block, *HashIf (else-if chain), or nil
}

func NewHashIf(span token.Span, cond Expr, then *Block, els Node) *HashIf {
	b := newBase(TagHashIf, span)
	b.Flags.Set(Comptime)
	return &HashIf{BaseNode: b, Cond: cond, Then: then, Else: els}
}
func (h *HashIf) String() string { return fmt.Sprintf("#if (%s) %s", h.Cond.String(), h.Then.String()) }
func (h *HashIf) stmtNode()      {}
func (h *HashIf) declNode()      {}

// HashFor is `#for (const x : range) { ... }`, unrolled N times by
// internal/comptime (spec.md §4.5).
type HashFor struct {
	BaseNode
	Var   string
	Range Expr
	Body  *Block
}

func NewHashFor(span token.Span, v string, rng Expr, body *Block) *HashFor {
	b := newBase(TagHashFor, span)
	b.Flags.Set(Comptime)
	return &HashFor{BaseNode: b, Var: v, Range: rng, Body: body}
}
func (h *HashFor) String() string {
	return fmt.Sprintf("#for (const %s : %s) %s", h.Var, h.Range.String(), h.Body.String())
}
func (h *HashFor) stmtNode() {}
func (h *HashFor) declNode() {}

// HashWhile is `#while (cond) { ... }`.
type HashWhile struct {
	BaseNode
	Cond Expr
	Body *Block
}

func NewHashWhile(span token.Span, cond Expr, body *Block) *HashWhile {
	b := newBase(TagHashWhile, span)
	b.Flags.Set(Comptime)
	return &HashWhile{BaseNode: b, Cond: cond, Body: body}
}
func (h *HashWhile) String() string { return fmt.Sprintf("#while (%s) %s", h.Cond.String(), h.Body.String()) }
func (h *HashWhile) stmtNode()      {}

// HashConst is `#const name = expr`, a compile-time binding.
type HashConst struct {
	BaseNode
	Name string
	Init Expr
}

func NewHashConst(span token.Span, name string, init Expr) *HashConst {
	b := newBase(TagHashConst, span)
	b.Flags.Set(Comptime)
	return &HashConst{BaseNode: b, Name: name, Init: init}
}
func (h *HashConst) String() string { return fmt.Sprintf("#const %s = %s", h.Name, h.Init.String()) }
func (h *HashConst) stmtNode()      {}
func (h *HashConst) declNode()      {}

// Noop is the placeholder left behind when a Comptime-flagged node is
// folded away by internal/comptime.
type Noop struct{ BaseNode }

func NewNoop(span token.Span) *Noop {
	return &Noop{BaseNode: newBase(TagNoop, span)}
}
func (n *Noop) String() string { return "/*noop*/" }
func (n *Noop) stmtNode()      {}
func (n *Noop) exprNode()      {}
func (n *Noop) declNode()      {}

// ErrorNode marks a subtree whose type became Error; parents that
// reference it also become Error, suppressing cascades (spec.md §4.7
// "Failure semantics").
type ErrorNode struct{ BaseNode }

func NewErrorNode(span token.Span) *ErrorNode {
	return &ErrorNode{BaseNode: newBase(TagError, span)}
}
func (e *ErrorNode) String() string { return "<error>" }
func (e *ErrorNode) exprNode()      {}
func (e *ErrorNode) stmtNode()      {}
func (e *ErrorNode) declNode()      {}
func (e *ErrorNode) typeAstNode()   {}
</content>
