// Package types implements the Cxy type table: a hash-consed store of
// types keyed by their String() form (spec.md §3.2). Structural kinds
// built from the same shape share one *Type; named kinds (struct,
// class, interface, enum, exception, alias, wrapped, opaque) are keyed
// by name alone, so two of them with one name share one *Type whatever
// their members. Construction is always mediated by a *Table, never a
// bare struct literal.
package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind distinguishes the variants of the Cxy type table.
type Kind int

const (
	KPrimitive Kind = iota
	KString
	KPointer
	KReference
	KArray
	KTuple
	KUnion
	KFunc
	KStruct
	KClass
	KInterface
	KEnum
	KGeneric
	KApplied
	KAlias
	KOpaque
	KWrapped
	KInfo
	KThis
	KLiteral
	KException
	KResult
	KAuto
	KError
	KModule
)

// Primitive enumerates the fourteen built-in scalar kinds named in
// spec.md §3.2.
type Primitive int

const (
	PVoid Primitive = iota
	PBool
	PChar
	PI8
	PI16
	PI32
	PI64
	PU8
	PU16
	PU32
	PU64
	PF32
	PF64
	PCString
)

var primitiveNames = map[Primitive]string{
	PVoid: "void", PBool: "bool", PChar: "char",
	PI8: "i8", PI16: "i16", PI32: "i32", PI64: "i64",
	PU8: "u8", PU16: "u16", PU32: "u32", PU64: "u64",
	PF32: "f32", PF64: "f64", PCString: "cstr",
}

func (p Primitive) String() string { return primitiveNames[p] }

// Field is a named, ordered member of a struct/class/interface type.
type Field struct {
	Name    string
	Type    *Type
	Index   int
	Public  bool
	Default bool // has a default initializer
}

// Member is any entry of a struct/class/interface member table,
// sorted by Name (spec.md §3.2 "a sorted member table"). Members do
// not enter the hash-cons key of a named aggregate, which is its name.
type Member struct {
	Name   string
	Type   *Type
	Method bool
	Public bool
	Virtual bool
}

// GenericParam names one parameter of a KGeneric type, paired with
// its constraint (a trait/interface type, or nil for unconstrained).
type GenericParam struct {
	Name       string
	Constraint *Type
}

// Type is a single hash-consed entry in the type table. Only Table
// methods construct these; the Kind field selects which of the
// payload fields below is meaningful.
type Type struct {
	Kind Kind
	key  string // canonical structural key, computed once at creation

	// KPrimitive
	Primitive Primitive

	// KPointer, KReference, KArray (KArray always carries Len >= 0;
	// the shaker normalizes a dimensionless `[T]` to a SliceTypeAst,
	// which the checker resolves to a KArray with Len 0), KOpaque,
	// KWrapped
	Elem *Type
	Len  int

	// KTuple, KUnion, KApplied (Args), KFunc (Params)
	Elems []*Type

	// KFunc
	Params   []*Type
	Return   *Type
	Variadic bool

	// KStruct, KClass, KInterface
	Name      string
	Members   []Member
	Base      *Type   // KClass: superclass, or nil
	Ifaces    []*Type // KClass: implemented interfaces
	Abstract  bool

	// KEnum
	Options []EnumOption

	// KGeneric
	GenericParams []GenericParam
	Body          *Type // the generic's unapplied body shape

	// KApplied
	Generic *Type // the KGeneric this instantiates
	Args    []*Type

	// KAlias, KWrapped, KOpaque — Name + Elem/Target carries the
	// aliased/underlying type
	Target *Type

	// KThis — resolves relative to an enclosing class/struct, filled
	// in by the checker from the class it is checking.
	Enclosing *Type

	// KLiteral — a single-value type used for comptime constant folding
	LiteralKind Primitive
	LiteralText string

	// KException — fields like a class, plus an ExceptionTag tying it
	// to the raise/catch machinery (spec.md §4.6/§4.8).
	ExceptionTag string

	// KResult — T-or-exception-union, as lowered by the shaker's
	// exception desugaring.
	Ok  *Type
	Err *Type

	// KModule — a namespace of exported declarations; Members holds
	// exported symbol name -> type.
	Path string
}

// EnumOption is one `case` of an enum type, with an optional payload
// type for tagged-union-style enums.
type EnumOption struct {
	Name    string
	Value   int64
	Payload *Type
}

func (t *Type) String() string {
	switch t.Kind {
	case KPrimitive:
		return t.Primitive.String()
	case KString:
		return "string"
	case KPointer:
		return "*" + t.Elem.String()
	case KReference:
		return "&" + t.Elem.String()
	case KArray:
		return fmt.Sprintf("[%s;%d]", t.Elem.String(), t.Len)
	case KTuple:
		return "(" + joinTypes(t.Elems) + ")"
	case KUnion:
		return strings.Join(typeStrings(t.Elems), " | ")
	case KFunc:
		return fmt.Sprintf("func(%s) -> %s", joinTypes(t.Params), t.Return.String())
	case KStruct, KClass, KInterface, KEnum, KException:
		return t.Name
	case KGeneric:
		return t.Name + "<" + joinGenericParams(t.GenericParams) + ">"
	case KApplied:
		return t.Generic.Name + "<" + joinTypes(t.Args) + ">"
	case KAlias, KWrapped, KOpaque:
		return t.Name
	case KInfo:
		return "typeinfo<" + t.Elem.String() + ">"
	case KThis:
		return "This"
	case KLiteral:
		return t.LiteralText
	case KResult:
		return t.Ok.String() + "!" + t.Err.String()
	case KAuto:
		return "auto"
	case KError:
		return "<error-type>"
	case KModule:
		return "module:" + t.Path
	default:
		return "<unknown-type>"
	}
}

func joinTypes(ts []*Type) string { return strings.Join(typeStrings(ts), ", ") }

func typeStrings(ts []*Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

func joinGenericParams(ps []GenericParam) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return strings.Join(out, ", ")
}

// Table is the hash-consing store: identical structural shapes
// always resolve to the same *Type pointer, so type equality anywhere
// in the compiler is a single pointer comparison (spec.md §3.2).
type Table struct {
	mu    sync.Mutex
	cache map[string]*Type

	primitives map[Primitive]*Type
	stringType *Type
	autoType   *Type
	errorType  *Type
}

// NewTable creates an empty Table and pre-interns the primitive
// scalar types and the string/auto/error sentinels.
func NewTable() *Table {
	tb := &Table{cache: make(map[string]*Type)}
	tb.primitives = make(map[Primitive]*Type)
	for p := PVoid; p <= PCString; p++ {
		tb.primitives[p] = tb.intern(&Type{Kind: KPrimitive, Primitive: p})
	}
	tb.stringType = tb.intern(&Type{Kind: KString})
	tb.autoType = tb.intern(&Type{Kind: KAuto})
	tb.errorType = tb.intern(&Type{Kind: KError})
	return tb
}

// intern assigns t's canonical key and returns the pre-existing Type
// with that key if one is already cached, otherwise caches and
// returns t. Callers must set every field relevant to String() before
// calling intern, since the key is derived from String().
func (tb *Table) intern(t *Type) *Type {
	t.key = t.Kind.keyPrefix() + ":" + t.String()
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if existing, ok := tb.cache[t.key]; ok {
		return existing
	}
	tb.cache[t.key] = t
	return t
}

func (k Kind) keyPrefix() string { return fmt.Sprintf("%d", int(k)) }

func (tb *Table) Primitive(p Primitive) *Type { return tb.primitives[p] }
func (tb *Table) StringType() *Type           { return tb.stringType }
func (tb *Table) AutoType() *Type             { return tb.autoType }
func (tb *Table) ErrorType() *Type            { return tb.errorType }

func (tb *Table) Pointer(elem *Type) *Type {
	return tb.intern(&Type{Kind: KPointer, Elem: elem})
}

func (tb *Table) Reference(elem *Type) *Type {
	return tb.intern(&Type{Kind: KReference, Elem: elem})
}

func (tb *Table) Array(elem *Type, length int) *Type {
	return tb.intern(&Type{Kind: KArray, Elem: elem, Len: length})
}

func (tb *Table) Tuple(elems ...*Type) *Type {
	return tb.intern(&Type{Kind: KTuple, Elems: elems})
}

// Union interns a union type with its members sorted by String() so
// `i32 | string` and `string | i32` hash-cons identically
// (spec.md §3.2 "canonical ordering for unordered constructs").
func (tb *Table) Union(members ...*Type) *Type {
	sorted := append([]*Type(nil), members...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	return tb.intern(&Type{Kind: KUnion, Elems: sorted})
}

func (tb *Table) Func(params []*Type, ret *Type, variadic bool) *Type {
	return tb.intern(&Type{Kind: KFunc, Params: params, Return: ret, Variadic: variadic})
}

// Struct interns a struct type. Members is sorted by Name (spec.md
// §3.2 "a sorted member table") before interning.
func (tb *Table) Struct(name string, members []Member) *Type {
	sorted := sortedMembers(members)
	return tb.intern(&Type{Kind: KStruct, Name: name, Members: sorted})
}

func (tb *Table) Class(name string, members []Member, base *Type, ifaces []*Type, abstract bool) *Type {
	sorted := sortedMembers(members)
	return tb.intern(&Type{Kind: KClass, Name: name, Members: sorted, Base: base, Ifaces: ifaces, Abstract: abstract})
}

func (tb *Table) Interface(name string, members []Member) *Type {
	sorted := sortedMembers(members)
	return tb.intern(&Type{Kind: KInterface, Name: name, Members: sorted})
}

func sortedMembers(members []Member) []Member {
	out := append([]Member(nil), members...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (tb *Table) Enum(name string, options []EnumOption) *Type {
	return tb.intern(&Type{Kind: KEnum, Name: name, Options: options})
}

func (tb *Table) Generic(name string, params []GenericParam, body *Type) *Type {
	return tb.intern(&Type{Kind: KGeneric, Name: name, GenericParams: params, Body: body})
}

func (tb *Table) Alias(name string, target *Type) *Type {
	return tb.intern(&Type{Kind: KAlias, Name: name, Target: target})
}

func (tb *Table) Opaque(name string, elem *Type) *Type {
	return tb.intern(&Type{Kind: KOpaque, Name: name, Elem: elem})
}

func (tb *Table) Wrapped(name string, elem *Type) *Type {
	return tb.intern(&Type{Kind: KWrapped, Name: name, Elem: elem})
}

func (tb *Table) Info(elem *Type) *Type {
	return tb.intern(&Type{Kind: KInfo, Elem: elem})
}

func (tb *Table) This(enclosing *Type) *Type {
	return tb.intern(&Type{Kind: KThis, Enclosing: enclosing})
}

func (tb *Table) Literal(kind Primitive, text string) *Type {
	return tb.intern(&Type{Kind: KLiteral, LiteralKind: kind, LiteralText: text})
}

func (tb *Table) Exception(name string, members []Member, tag string) *Type {
	sorted := sortedMembers(members)
	return tb.intern(&Type{Kind: KException, Name: name, Members: sorted, ExceptionTag: tag})
}

func (tb *Table) Result(ok, err *Type) *Type {
	return tb.intern(&Type{Kind: KResult, Ok: ok, Err: err})
}

func (tb *Table) Module(path string, members []Member) *Type {
	sorted := sortedMembers(members)
	return tb.intern(&Type{Kind: KModule, Path: path, Members: sorted})
}

// Len returns the number of distinct interned types, for tests and
// diagnostics.
func (tb *Table) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.cache)
}
</content>
