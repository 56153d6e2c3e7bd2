package ast

import (
	"fmt"
	"strings"

	"github.com/dccarter/cxy/internal/token"
)

// Identifier is a bare name reference; the binder fills BaseNode.Resolved.
type Identifier struct {
	BaseNode
	Name string
}

func NewIdentifier(span token.Span, name string) *Identifier {
	return &Identifier{BaseNode: newBase(TagIdentifier, span), Name: name}
}
func (i *Identifier) String() string { return i.Name }
func (i *Identifier) exprNode()      {}

// PathElem is one `name` or `name[args]` segment of a Path.
type PathElem struct {
	BaseNode
	Name string
	Args []Expr // integer/type arguments in `[ ... ]`
}

func NewPathElem(span token.Span, name string) *PathElem {
	return &PathElem{BaseNode: newBase(TagPathElem, span), Name: name}
}
func (p *PathElem) String() string {
	if len(p.Args) == 0 {
		return p.Name
	}
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", p.Name, strings.Join(parts, ", "))
}
func (p *PathElem) exprNode() {}

// Path is a dotted chain `a.b.c`; spec.md §4.2 "Notable productions".
type Path struct {
	BaseNode
	Elements []*PathElem
}

func NewPath(span token.Span, elems []*PathElem) *Path {
	return &Path{BaseNode: newBase(TagPath, span), Elements: elems}
}
func (p *Path) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return strings.Join(parts, ".")
}
func (p *Path) exprNode() {}

// IntLiteral carries up to 128 bits plus an optional type suffix
// (`123_i64`); spec.md §4.1 and §8 round-trip laws.
type IntLiteral struct {
	BaseNode
	Text   string // raw digits as lexed
	Suffix string // e.g. "i64", "" if untyped
}

func NewIntLiteral(span token.Span, text, suffix string) *IntLiteral {
	return &IntLiteral{BaseNode: newBase(TagIntLiteral, span), Text: text, Suffix: suffix}
}
func (n *IntLiteral) String() string { return n.Text + n.Suffix }
func (n *IntLiteral) exprNode()      {}

type FloatLiteral struct {
	BaseNode
	Text   string
	Suffix string
}

func NewFloatLiteral(span token.Span, text, suffix string) *FloatLiteral {
	return &FloatLiteral{BaseNode: newBase(TagFloatLiteral, span), Text: text, Suffix: suffix}
}
func (n *FloatLiteral) String() string { return n.Text + n.Suffix }
func (n *FloatLiteral) exprNode()      {}

// StringLiteral preserves raw bytes; escape processing is deferred to
// the checker/evaluator per spec.md §4.1.
type StringLiteral struct {
	BaseNode
	Raw string
}

func NewStringLiteral(span token.Span, raw string) *StringLiteral {
	return &StringLiteral{BaseNode: newBase(TagStringLiteral, span), Raw: raw}
}
func (n *StringLiteral) String() string { return fmt.Sprintf("%q", n.Raw) }
func (n *StringLiteral) exprNode()      {}

type CharLiteral struct {
	BaseNode
	Value rune
}

func NewCharLiteral(span token.Span, value rune) *CharLiteral {
	return &CharLiteral{BaseNode: newBase(TagCharLiteral, span), Value: value}
}
func (n *CharLiteral) String() string { return fmt.Sprintf("'%c'", n.Value) }
func (n *CharLiteral) exprNode()      {}

type BoolLiteral struct {
	BaseNode
	Value bool
}

func NewBoolLiteral(span token.Span, v bool) *BoolLiteral {
	return &BoolLiteral{BaseNode: newBase(TagBoolLiteral, span), Value: v}
}
func (n *BoolLiteral) String() string { return fmt.Sprintf("%t", n.Value) }
func (n *BoolLiteral) exprNode()      {}

type NullLiteral struct{ BaseNode }

func NewNullLiteral(span token.Span) *NullLiteral {
	return &NullLiteral{BaseNode: newBase(TagNullLiteral, span)}
}
func (n *NullLiteral) String() string { return "null" }
func (n *NullLiteral) exprNode()      {}

// StringInterpExpr is the pre-shake ``` `A${x}B${y}` ``` form; the
// shaker lowers it to a String-builder chain (spec.md §4.6.3).
type StringInterpExpr struct {
	BaseNode
	Parts []string // literal segments, len == len(Exprs)+1
	Exprs []Expr
}

func NewStringInterpExpr(span token.Span, parts []string, exprs []Expr) *StringInterpExpr {
	return &StringInterpExpr{BaseNode: newBase(TagStringInterpExpr, span), Parts: parts, Exprs: exprs}
}
func (s *StringInterpExpr) String() string {
	var sb strings.Builder
	sb.WriteByte('`')
	for i, p := range s.Parts {
		sb.WriteString(p)
		if i < len(s.Exprs) {
			sb.WriteString("${" + s.Exprs[i].String() + "}")
		}
	}
	sb.WriteByte('`')
	return sb.String()
}
func (s *StringInterpExpr) exprNode() {}

type TupleExpr struct {
	BaseNode
	Elements []Expr
}

func NewTupleExpr(span token.Span, elems []Expr) *TupleExpr {
	return &TupleExpr{BaseNode: newBase(TagTupleExpr, span), Elements: elems}
}
func (t *TupleExpr) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TupleExpr) exprNode() {}

type ArrayExpr struct {
	BaseNode
	Elements []Expr
}

func NewArrayExpr(span token.Span, elems []Expr) *ArrayExpr {
	return &ArrayExpr{BaseNode: newBase(TagArrayExpr, span), Elements: elems}
}
func (a *ArrayExpr) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *ArrayExpr) exprNode() {}

// StructFieldInit is one `name: value` in a StructExpr literal.
type StructFieldInit struct {
	BaseNode
	Name  string
	Value Expr
}

func NewStructFieldInit(span token.Span, name string, value Expr) *StructFieldInit {
	return &StructFieldInit{BaseNode: newBase(TagStructFieldInit, span), Name: name, Value: value}
}
func (s *StructFieldInit) String() string { return s.Name + ": " + s.Value.String() }
func (s *StructFieldInit) exprNode()      {}

// StructExpr is `Path{ field: val, ... }`; in a condition context the
// parser instead yields a plain Path (spec.md §4.2 tie-break).
type StructExpr struct {
	BaseNode
	Target TypeAst
	Fields []*StructFieldInit
}

func NewStructExpr(span token.Span, target TypeAst, fields []*StructFieldInit) *StructExpr {
	return &StructExpr{BaseNode: newBase(TagStructExpr, span), Target: target, Fields: fields}
}
func (s *StructExpr) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return s.Target.String() + "{" + strings.Join(parts, ", ") + "}"
}
func (s *StructExpr) exprNode() {}

// BinaryExpr covers arithmetic/comparison/logical/bitwise/shift and
// assignment operators; range, `is` and catch have their own nodes
// (RangeExpr, IsExpr, CatchExpr).
// Non-primitive operands are rewritten by the checker into a call to
// the operand's `op_*` overload method (spec.md §4.7).
type BinaryExpr struct {
	BaseNode
	Op          token.Kind
	Left, Right Expr
}

func NewBinaryExpr(span token.Span, op token.Kind, l, r Expr) *BinaryExpr {
	return &BinaryExpr{BaseNode: newBase(TagBinaryExpr, span), Op: op, Left: l, Right: r}
}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op.String(), b.Right.String())
}
func (b *BinaryExpr) exprNode() {}

// UnaryExpr covers the `- + * ! ~ & && ...` prefix operators (spec.md
// §4.2 precedence ladder "unary" row). `await` and `delete` have their
// own nodes (AwaitExpr, DeleteExpr) and `ptrof` is not parsed. The
// parser never sets IsPostfix.
type UnaryExpr struct {
	BaseNode
	Op        token.Kind
	Operand   Expr
	IsPostfix bool
}

func NewUnaryExpr(span token.Span, op token.Kind, operand Expr) *UnaryExpr {
	return &UnaryExpr{BaseNode: newBase(TagUnaryExpr, span), Op: op, Operand: operand}
}
func (u *UnaryExpr) String() string {
	if u.IsPostfix {
		return u.Operand.String() + u.Op.String()
	}
	return u.Op.String() + u.Operand.String()
}
func (u *UnaryExpr) exprNode() {}

type CallExpr struct {
	BaseNode
	Callee Expr
	Args   []Expr
}

func NewCallExpr(span token.Span, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{BaseNode: newBase(TagCallExpr, span), Callee: callee, Args: args}
}
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee.String(), strings.Join(parts, ", "))
}
func (c *CallExpr) exprNode() {}

// IndexExpr is `target[index]`; overloaded non-primitive targets
// rewrite to `op_idx`/`op_idx_assign` (spec.md §4.7).
type IndexExpr struct {
	BaseNode
	Target Expr
	Index  Expr
}

func NewIndexExpr(span token.Span, target, index Expr) *IndexExpr {
	return &IndexExpr{BaseNode: newBase(TagIndexExpr, span), Target: target, Index: index}
}
func (i *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", i.Target.String(), i.Index.String()) }
func (i *IndexExpr) exprNode()      {}

// FieldExpr is `target.name` or `target?.name` member access.
type FieldExpr struct {
	BaseNode
	Target   Expr
	Name     string
	Optional bool // `?.`
}

func NewFieldExpr(span token.Span, target Expr, name string, optional bool) *FieldExpr {
	return &FieldExpr{BaseNode: newBase(TagFieldExpr, span), Target: target, Name: name, Optional: optional}
}
func (f *FieldExpr) String() string {
	op := "."
	if f.Optional {
		op = "?."
	}
	return f.Target.String() + op + f.Name
}
func (f *FieldExpr) exprNode() {}

// CastExpr is `e as T`.
type CastExpr struct {
	BaseNode
	Operand Expr
	Target  TypeAst
}

func NewCastExpr(span token.Span, operand Expr, target TypeAst) *CastExpr {
	return &CastExpr{BaseNode: newBase(TagCastExpr, span), Operand: operand, Target: target}
}
func (c *CastExpr) String() string { return c.Operand.String() + " as " + c.Target.String() }
func (c *CastExpr) exprNode()      {}

// IsExpr is `e is T`.
type IsExpr struct {
	BaseNode
	Operand Expr
	Target  TypeAst
}

func NewIsExpr(span token.Span, operand Expr, target TypeAst) *IsExpr {
	return &IsExpr{BaseNode: newBase(TagIsExpr, span), Operand: operand, Target: target}
}
func (i *IsExpr) String() string { return i.Operand.String() + " is " + i.Target.String() }
func (i *IsExpr) exprNode()      {}

// TernaryExpr is `cond ? then : else`, right-associative per spec.md §4.2.
type TernaryExpr struct {
	BaseNode
	Cond, Then, Else Expr
}

func NewTernaryExpr(span token.Span, cond, then, els Expr) *TernaryExpr {
	return &TernaryExpr{BaseNode: newBase(TagTernaryExpr, span), Cond: cond, Then: then, Else: els}
}
func (t *TernaryExpr) String() string {
	return fmt.Sprintf("%s ? %s : %s", t.Cond.String(), t.Then.String(), t.Else.String())
}
func (t *TernaryExpr) exprNode() {}

// ClosureExpr is `async? (params) : ret? => body`; the shaker replaces
// it with a struct declaration plus a struct expression (spec.md
// §4.6.6). CaptureNames is filled by the binder.
type ClosureExpr struct {
	BaseNode
	Params       []*Param
	ReturnType   TypeAst
	Body         *Block
	IsAsync      bool
	CaptureNames []string
}

func NewClosureExpr(span token.Span, params []*Param, body *Block) *ClosureExpr {
	return &ClosureExpr{BaseNode: newBase(TagClosureExpr, span), Params: params, Body: body}
}
func (c *ClosureExpr) String() string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		parts[i] = p.String()
	}
	prefix := ""
	if c.IsAsync {
		prefix = "async "
	}
	return fmt.Sprintf("%s(%s) => %s", prefix, strings.Join(parts, ", "), c.Body.String())
}
func (c *ClosureExpr) exprNode() {}

// RangeExpr is `lo..hi`.
type RangeExpr struct {
	BaseNode
	Lo, Hi Expr
}

func NewRangeExpr(span token.Span, lo, hi Expr) *RangeExpr {
	return &RangeExpr{BaseNode: newBase(TagRangeExpr, span), Lo: lo, Hi: hi}
}
func (r *RangeExpr) String() string { return r.Lo.String() + ".." + r.Hi.String() }
func (r *RangeExpr) exprNode()      {}

// NewExpr is `new T(args)`; the checker expands it to an allocation
// plus an `op_init` call (spec.md §4.7 "Built-in operator expansion").
type NewExpr struct {
	BaseNode
	Target TypeAst
	Args   []Expr
}

func NewNewExpr(span token.Span, target TypeAst, args []Expr) *NewExpr {
	return &NewExpr{BaseNode: newBase(TagNewExpr, span), Target: target, Args: args}
}
func (n *NewExpr) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("new %s(%s)", n.Target.String(), strings.Join(parts, ", "))
}
func (n *NewExpr) exprNode() {}

// DeleteExpr is `delete e`.
type DeleteExpr struct {
	BaseNode
	Operand Expr
}

func NewDeleteExpr(span token.Span, operand Expr) *DeleteExpr {
	return &DeleteExpr{BaseNode: newBase(TagDeleteExpr, span), Operand: operand}
}
func (d *DeleteExpr) String() string { return "delete " + d.Operand.String() }
func (d *DeleteExpr) exprNode()      {}

type AwaitExpr struct {
	BaseNode
	Operand Expr
}

func NewAwaitExpr(span token.Span, operand Expr) *AwaitExpr {
	return &AwaitExpr{BaseNode: newBase(TagAwaitExpr, span), Operand: operand}
}
func (a *AwaitExpr) String() string { return "await " + a.Operand.String() }
func (a *AwaitExpr) exprNode()      {}

// LaunchExpr is `launch E` (spec.md §4.2). The parser wraps E in a
// zero-param ClosureExpr so Body is always a *ClosureExpr and gets
// ordinary closure-capture analysis from the binder; the shaker lowers
// the whole expression to a `__thread_launch(closure)` call, which
// internal/check types through its `func(auto) -> auto` builtin entry.
type LaunchExpr struct {
	BaseNode
	Body Expr
}

func NewLaunchExpr(span token.Span, body Expr) *LaunchExpr {
	return &LaunchExpr{BaseNode: newBase(TagLaunchExpr, span), Body: body}
}
func (l *LaunchExpr) String() string { return "launch " + l.Body.String() }
func (l *LaunchExpr) exprNode()      {}

// RaiseExpr is `raise e`, desugared by the shaker to a return of
// `e as Exception` (spec.md §4.6.10).
type RaiseExpr struct {
	BaseNode
	Value Expr
}

func NewRaiseExpr(span token.Span, value Expr) *RaiseExpr {
	return &RaiseExpr{BaseNode: newBase(TagRaiseExpr, span), Value: value}
}
func (r *RaiseExpr) String() string { return "raise " + r.Value.String() }
func (r *RaiseExpr) exprNode()      {}

// CatchExpr is `lhs catch { rhs }` (spec.md's "Catch operator").
type CatchExpr struct {
	BaseNode
	Left  Expr
	Block *Block
}

func NewCatchExpr(span token.Span, left Expr, block *Block) *CatchExpr {
	return &CatchExpr{BaseNode: newBase(TagCatchExpr, span), Left: left, Block: block}
}
func (c *CatchExpr) String() string { return c.Left.String() + " catch " + c.Block.String() }
func (c *CatchExpr) exprNode()      {}

type ThisExpr struct{ BaseNode }

func NewThisExpr(span token.Span) *ThisExpr {
	return &ThisExpr{BaseNode: newBase(TagThisExpr, span)}
}
func (t *ThisExpr) String() string { return "this" }
func (t *ThisExpr) exprNode()      {}

// SuperExpr is `super` (spec.md §4.4 step 3). Depth counts classes up
// the inheritance chain; the constructor sets it to 1 (the immediate
// superclass) and no pass changes it.
type SuperExpr struct {
	BaseNode
	Depth int
}

func NewSuperExpr(span token.Span) *SuperExpr {
	return &SuperExpr{BaseNode: newBase(TagSuperExpr, span), Depth: 1}
}
func (s *SuperExpr) String() string { return "super" }
func (s *SuperExpr) exprNode()      {}

type ThisTypeExpr struct{ BaseNode }

func NewThisTypeExpr(span token.Span) *ThisTypeExpr {
	return &ThisTypeExpr{BaseNode: newBase(TagThisTypeExpr, span)}
}
func (t *ThisTypeExpr) String() string { return "This" }
func (t *ThisTypeExpr) exprNode()      {}

// SubstituteExpr is `#{expr}`, a comptime substitution site (spec.md
// §4.2 "Compile-time forms").
type SubstituteExpr struct {
	BaseNode
	Inner Expr
}

func NewSubstituteExpr(span token.Span, inner Expr) *SubstituteExpr {
	return &SubstituteExpr{BaseNode: newBase(TagSubstituteExpr, span), Inner: inner}
}
func (s *SubstituteExpr) String() string { return "#{" + s.Inner.String() + "}" }
func (s *SubstituteExpr) exprNode()      {}

// AsmExpr is `asm("template" : outputs : inputs : clobbers : flags)`.
type AsmExpr struct {
	BaseNode
	Template        string
	Outputs, Inputs []string
	Clobbers        []string
	AsmFlags        []string
}

func NewAsmExpr(span token.Span, template string) *AsmExpr {
	return &AsmExpr{BaseNode: newBase(TagAsmExpr, span), Template: template}
}
func (a *AsmExpr) String() string { return fmt.Sprintf("asm(%q)", a.Template) }
func (a *AsmExpr) exprNode()      {}

// MacroCallExpr is `name!(args)` (spec.md §4.5 "Macro expansion").
type MacroCallExpr struct {
	BaseNode
	Name string
	Args []Expr
}

func NewMacroCallExpr(span token.Span, name string, args []Expr) *MacroCallExpr {
	return &MacroCallExpr{BaseNode: newBase(TagMacroCallExpr, span), Name: name, Args: args}
}
func (m *MacroCallExpr) String() string {
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s!(%s)", m.Name, strings.Join(parts, ", "))
}
func (m *MacroCallExpr) exprNode() {}
</content>
