package ast

import (
	"fmt"
	"strings"

	"github.com/dccarter/cxy/internal/token"
)

// GenericParam is one `T` in a `func f[T, U: Trait](...)` parameter
// list (spec.md §3.2 Generic type).
type GenericParam struct {
	BaseNode
	Name       string
	Constraint TypeAst // optional trait/interface bound
}

func NewGenericParam(span token.Span, name string, constraint TypeAst) *GenericParam {
	return &GenericParam{BaseNode: newBase(TagGenericParam, span), Name: name, Constraint: constraint}
}
func (g *GenericParam) String() string {
	if g.Constraint != nil {
		return g.Name + ": " + g.Constraint.String()
	}
	return g.Name
}
func (g *GenericParam) declNode() {}

// Param is one function parameter. Variadic (`...x: T`) and defaulted
// (`x: T = expr`) parameters are both representable; the shaker
// rewrites a Variadic-flagged param into a generic `_Variadic` template
// parameter (spec.md §4.6.7).
type Param struct {
	BaseNode
	Name       string
	TypeExpr   TypeAst
	Default    Expr
	InferIndex int // set by the shaker for a variadic's fixed argument position, -1 if unset
}

func NewParam(span token.Span, name string, typ TypeAst) *Param {
	return &Param{BaseNode: newBase(TagParam, span), Name: name, TypeExpr: typ, InferIndex: -1}
}
func (p *Param) String() string {
	s := p.Name
	if p.Flags.Has(Variadic) {
		s = "..." + s
	}
	if p.TypeExpr != nil {
		s += ": " + p.TypeExpr.String()
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}
func (p *Param) declNode() {}

// FuncDecl is a function/method declaration. Body is nil for a
// forward/extern declaration (ForwardDecl flag set). The `=> expr`
// short form is parsed straight into Body as a single-statement Block
// that returns expr.
type FuncDecl struct {
	BaseNode
	Name       string
	Generics   []*GenericParam
	Params     []*Param
	ReturnType TypeAst
	Body       *Block
	Receiver   TypeAst // non-nil for a method/trait-default implementation
	Mangled    string  // no pass fills it; stays empty
}

func NewFuncDecl(span token.Span, name string) *FuncDecl {
	return &FuncDecl{BaseNode: newBase(TagFuncDecl, span), Name: name}
}
func (f *FuncDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	ret := ""
	if f.ReturnType != nil {
		ret = " -> " + f.ReturnType.String()
	}
	return fmt.Sprintf("func %s(%s)%s", f.Name, strings.Join(params, ", "), ret)
}
func (f *FuncDecl) declNode() {}

// IsVariadic reports whether the last parameter is flagged Variadic.
func (f *FuncDecl) IsVariadic() bool {
	if len(f.Params) == 0 {
		return false
	}
	return f.Params[len(f.Params)-1].Flags.Has(Variadic)
}

// RequiredParamCount is the count of leading parameters without a
// Default expression, used by the checker's arity matching.
func (f *FuncDecl) RequiredParamCount() int {
	n := 0
	for _, p := range f.Params {
		if p.Default != nil {
			break
		}
		n++
	}
	return n
}

// VarDecl is a single `var name: T = init` or `const name = init`
// binding. MultiVarDecl wraps several VarDecls produced by
// `var a, b = expr` before the shaker desugars it (spec.md §4.6.1).
type VarDecl struct {
	BaseNode
	Name     string
	TypeExpr TypeAst
	Init     Expr
}

func NewVarDecl(span token.Span, name string, typ TypeAst, init Expr) *VarDecl {
	return &VarDecl{BaseNode: newBase(TagVarDecl, span), Name: name, TypeExpr: typ, Init: init}
}
func (v *VarDecl) String() string {
	kw := "var"
	if v.Flags.Has(Const) {
		kw = "const"
	}
	s := fmt.Sprintf("%s %s", kw, v.Name)
	if v.TypeExpr != nil {
		s += ": " + v.TypeExpr.String()
	}
	if v.Init != nil {
		s += " = " + v.Init.String()
	}
	return s
}
func (v *VarDecl) declNode() {}
func (v *VarDecl) stmtNode() {}

// MultiVarDecl is the pre-shake form of `var a, b = expr`.
type MultiVarDecl struct {
	BaseNode
	Names []string
	Init  Expr
}

func NewMultiVarDecl(span token.Span, names []string, init Expr) *MultiVarDecl {
	return &MultiVarDecl{BaseNode: newBase(TagMultiVarDecl, span), Names: names, Init: init}
}
func (m *MultiVarDecl) String() string {
	return fmt.Sprintf("var %s = %s", strings.Join(m.Names, ", "), m.Init.String())
}
func (m *MultiVarDecl) declNode() {}
func (m *MultiVarDecl) stmtNode() {}

// Field is a struct/class member-variable declaration.
type Field struct {
	BaseNode
	Name     string
	TypeExpr TypeAst
	Default  Expr
}

func NewField(span token.Span, name string, typ TypeAst) *Field {
	return &Field{BaseNode: newBase(TagField, span), Name: name, TypeExpr: typ}
}
func (f *Field) String() string {
	s := f.Name + ": " + f.TypeExpr.String()
	if f.Default != nil {
		s += " = " + f.Default.String()
	}
	return s
}
func (f *Field) declNode() {}

// StructDecl declares a value aggregate. Members hold Fields and
// FuncDecls (methods) in source order; the checker builds the sorted
// member table described in spec.md §4.3.
type StructDecl struct {
	BaseNode
	Name     string
	Generics []*GenericParam
	Members  []Decl
}

func NewStructDecl(span token.Span, name string) *StructDecl {
	return &StructDecl{BaseNode: newBase(TagStructDecl, span), Name: name}
}
func (s *StructDecl) String() string { return "struct " + s.Name }
func (s *StructDecl) declNode()      {}

// ClassDecl declares a reference aggregate with single inheritance and
// multiple interface conformance (spec.md §3.2, §4.7 "Inheritance &
// vtables").
type ClassDecl struct {
	BaseNode
	Name       string
	Generics   []*GenericParam
	Base       TypeAst   // optional superclass
	Interfaces []TypeAst // trait/interface list
	Members    []Decl
}

func NewClassDecl(span token.Span, name string) *ClassDecl {
	return &ClassDecl{BaseNode: newBase(TagClassDecl, span), Name: name}
}
func (c *ClassDecl) String() string {
	s := "class " + c.Name
	if c.Base != nil {
		s += " : " + c.Base.String()
	}
	return s
}
func (c *ClassDecl) declNode() {}

// EnumOption is one `Name` or `Name = value` member of an EnumDecl.
type EnumOption struct {
	BaseNode
	Name  string
	Value Expr // optional explicit value
}

func NewEnumOption(span token.Span, name string, value Expr) *EnumOption {
	return &EnumOption{BaseNode: newBase(TagEnumOption, span), Name: name, Value: value}
}
func (e *EnumOption) String() string {
	if e.Value != nil {
		return fmt.Sprintf("%s = %s", e.Name, e.Value.String())
	}
	return e.Name
}
func (e *EnumOption) declNode() {}

// EnumDecl declares a named integer enumeration.
type EnumDecl struct {
	BaseNode
	Name    string
	Base    TypeAst // underlying integer type, defaults to i32
	Options []*EnumOption
}

func NewEnumDecl(span token.Span, name string) *EnumDecl {
	return &EnumDecl{BaseNode: newBase(TagEnumDecl, span), Name: name}
}
func (e *EnumDecl) String() string { return "enum " + e.Name }
func (e *EnumDecl) declNode()      {}

// TraitDecl/InterfaceDecl declare a conformance contract: a set of
// method signatures, some with default bodies. Cxy treats `trait` and
// `interface` as the same AST shape (interfaces additionally forbid
// default bodies) so one struct backs both tags.
type TraitDecl struct {
	BaseNode
	Name     string
	Generics []*GenericParam
	Methods  []*FuncDecl
}

func NewTraitDecl(span token.Span, name string, isInterface bool) *TraitDecl {
	tag := TagTraitDecl
	if isInterface {
		tag = TagInterfaceDecl
	}
	return &TraitDecl{BaseNode: newBase(tag, span), Name: name}
}
func (t *TraitDecl) String() string {
	kw := "trait"
	if t.Tag == TagInterfaceDecl {
		kw = "interface"
	}
	return kw + " " + t.Name
}
func (t *TraitDecl) declNode() {}

// TypeAliasDecl declares `type Name = T` or `type Name[G] = T`.
type TypeAliasDecl struct {
	BaseNode
	Name     string
	Generics []*GenericParam
	Target   TypeAst
}

func NewTypeAliasDecl(span token.Span, name string, target TypeAst) *TypeAliasDecl {
	return &TypeAliasDecl{BaseNode: newBase(TagTypeAliasDecl, span), Name: name, Target: target}
}
func (t *TypeAliasDecl) String() string { return "type " + t.Name + " = " + t.Target.String() }
func (t *TypeAliasDecl) declNode()      {}

// MacroDecl declares a comptime macro invoked as `name!(args)`
// (spec.md §4.5 "Macro expansion").
type MacroDecl struct {
	BaseNode
	Name   string
	Params []*Param
	Body   *Block
}

func NewMacroDecl(span token.Span, name string) *MacroDecl {
	return &MacroDecl{BaseNode: newBase(TagMacroDecl, span), Name: name}
}
func (m *MacroDecl) String() string { return "macro " + m.Name + "!" }
func (m *MacroDecl) declNode()      {}

// ExceptionDecl is shaker-sugar: `exception Name(a: T) { body }`
// desugars to a ClassDecl extending Exception (spec.md §4.6.8).
type ExceptionDecl struct {
	BaseNode
	Name   string
	Params []*Param
	What   *Block // body of the synthesized func what() -> string
}

func NewExceptionDecl(span token.Span, name string) *ExceptionDecl {
	return &ExceptionDecl{BaseNode: newBase(TagExceptionDecl, span), Name: name}
}
func (e *ExceptionDecl) String() string { return "exception " + e.Name }
func (e *ExceptionDecl) declNode()      {}

// TestDecl is shaker-sugar: `test "name" { body }` desugars to a
// generated func returning `Void|Exception` (spec.md §4.6.9).
type TestDecl struct {
	BaseNode
	Name string
	Body *Block
}

func NewTestDecl(span token.Span, name string, body *Block) *TestDecl {
	return &TestDecl{BaseNode: newBase(TagTestDecl, span), Name: name, Body: body}
}
func (t *TestDecl) String() string { return fmt.Sprintf("test %q", t.Name) }
func (t *TestDecl) declNode()      {}
</content>
