package ast

import (
	"fmt"
	"strings"

	"github.com/dccarter/cxy/internal/token"
)

// PrimitiveTypeAst names one of the 14 built-in scalar types
// (spec.md §3.2).
type PrimitiveTypeAst struct {
	BaseNode
	Name string
}

func NewPrimitiveTypeAst(span token.Span, name string) *PrimitiveTypeAst {
	b := newBase(TagPrimitiveTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &PrimitiveTypeAst{BaseNode: b, Name: name}
}
func (p *PrimitiveTypeAst) String() string { return p.Name }
func (p *PrimitiveTypeAst) typeAstNode()   {}

// PathTypeAst names a nominal type by dotted path, optionally with
// generic arguments: `a.b.Name[T, U]`.
type PathTypeAst struct {
	BaseNode
	Elements []string
	Args     []TypeAst
}

func NewPathTypeAst(span token.Span, elements []string, args []TypeAst) *PathTypeAst {
	b := newBase(TagPathTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &PathTypeAst{BaseNode: b, Elements: elements, Args: args}
}
func (p *PathTypeAst) String() string {
	s := strings.Join(p.Elements, ".")
	if len(p.Args) > 0 {
		parts := make([]string, len(p.Args))
		for i, a := range p.Args {
			parts[i] = a.String()
		}
		s += "[" + strings.Join(parts, ", ") + "]"
	}
	return s
}
func (p *PathTypeAst) typeAstNode() {}

// PointerTypeAst is `^T` (optionally `^const T`).
type PointerTypeAst struct {
	BaseNode
	Pointee TypeAst
	IsConst bool
}

func NewPointerTypeAst(span token.Span, pointee TypeAst, isConst bool) *PointerTypeAst {
	b := newBase(TagPointerTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &PointerTypeAst{BaseNode: b, Pointee: pointee, IsConst: isConst}
}
func (p *PointerTypeAst) String() string {
	if p.IsConst {
		return "^const " + p.Pointee.String()
	}
	return "^" + p.Pointee.String()
}
func (p *PointerTypeAst) typeAstNode() {}

// ReferenceTypeAst is `&T`.
type ReferenceTypeAst struct {
	BaseNode
	Referent TypeAst
	IsConst  bool
}

func NewReferenceTypeAst(span token.Span, referent TypeAst, isConst bool) *ReferenceTypeAst {
	b := newBase(TagReferenceTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &ReferenceTypeAst{BaseNode: b, Referent: referent, IsConst: isConst}
}
func (r *ReferenceTypeAst) String() string { return "&" + r.Referent.String() }
func (r *ReferenceTypeAst) typeAstNode()   {}

// ArrayTypeAst is `[T; N]`. A nil Len is shaker-normalized to a
// SliceTypeAst per spec.md §4.6.12 (`[T]` → `Slice[T]`).
type ArrayTypeAst struct {
	BaseNode
	Element TypeAst
	Len     Expr
}

func NewArrayTypeAst(span token.Span, elem TypeAst, length Expr) *ArrayTypeAst {
	b := newBase(TagArrayTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &ArrayTypeAst{BaseNode: b, Element: elem, Len: length}
}
func (a *ArrayTypeAst) String() string {
	if a.Len != nil {
		return fmt.Sprintf("[%s; %s]", a.Element.String(), a.Len.String())
	}
	return "[" + a.Element.String() + "]"
}
func (a *ArrayTypeAst) typeAstNode() {}

// SliceTypeAst is the shaker-normal form of an unsized array type.
type SliceTypeAst struct {
	BaseNode
	Element TypeAst
}

func NewSliceTypeAst(span token.Span, elem TypeAst) *SliceTypeAst {
	b := newBase(TagSliceTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &SliceTypeAst{BaseNode: b, Element: elem}
}
func (s *SliceTypeAst) String() string { return "Slice[" + s.Element.String() + "]" }
func (s *SliceTypeAst) typeAstNode()   {}

// TupleTypeAst is `(T, U, V)`.
type TupleTypeAst struct {
	BaseNode
	Elements []TypeAst
}

func NewTupleTypeAst(span token.Span, elems []TypeAst) *TupleTypeAst {
	b := newBase(TagTupleTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &TupleTypeAst{BaseNode: b, Elements: elems}
}
func (t *TupleTypeAst) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TupleTypeAst) typeAstNode() {}

// UnionTypeAst is `A | B | C` in type position (spec.md's parser
// tie-break: `|` in a type position always yields this node, never a
// bitwise-or expression).
type UnionTypeAst struct {
	BaseNode
	Members []TypeAst
}

func NewUnionTypeAst(span token.Span, members []TypeAst) *UnionTypeAst {
	b := newBase(TagUnionTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &UnionTypeAst{BaseNode: b, Members: members}
}
func (u *UnionTypeAst) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (u *UnionTypeAst) typeAstNode() {}

// ResultTypeAst is `T | Exception` sugar recognized specially by the
// checker to mark a function a "result type" producer (spec.md §4.7).
type ResultTypeAst struct {
	BaseNode
	Success TypeAst
	Errors  []TypeAst
}

func NewResultTypeAst(span token.Span, success TypeAst, errs []TypeAst) *ResultTypeAst {
	b := newBase(TagResultTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &ResultTypeAst{BaseNode: b, Success: success, Errors: errs}
}
func (r *ResultTypeAst) String() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.String()
	}
	return r.Success.String() + " | " + strings.Join(parts, " | ")
}
func (r *ResultTypeAst) typeAstNode() {}

// OptionalTypeAst is `T?`.
type OptionalTypeAst struct {
	BaseNode
	Target TypeAst
}

func NewOptionalTypeAst(span token.Span, target TypeAst) *OptionalTypeAst {
	b := newBase(TagOptionalTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &OptionalTypeAst{BaseNode: b, Target: target}
}
func (o *OptionalTypeAst) String() string { return o.Target.String() + "?" }
func (o *OptionalTypeAst) typeAstNode()   {}

// FuncTypeAst is `(T, U) -> R`, the type of a closure/function value.
type FuncTypeAst struct {
	BaseNode
	Params   []TypeAst
	Return   TypeAst
	Variadic bool
}

func NewFuncTypeAst(span token.Span, params []TypeAst, ret TypeAst) *FuncTypeAst {
	b := newBase(TagFuncTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &FuncTypeAst{BaseNode: b, Params: params, Return: ret}
}
func (f *FuncTypeAst) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Return.String()
}
func (f *FuncTypeAst) typeAstNode() {}

// ThisTypeAst is the `This` self-referential placeholder in type
// position (spec.md §3.2 "This-type").
type ThisTypeAst struct {
	BaseNode
}

func NewThisTypeAst(span token.Span) *ThisTypeAst {
	b := newBase(TagThisTypeAst, span)
	b.Flags.Set(IsTypeAst)
	return &ThisTypeAst{BaseNode: b}
}
func (t *ThisTypeAst) String() string { return "This" }
func (t *ThisTypeAst) typeAstNode()   {}
</content>
