// Package comptime implements the tree-rewriting compile-time
// evaluator of spec.md §4.5: folding of `#if`/`#for`/`#while`/`#const`,
// type-introspection builtins (`T.members`, `T.isInteger`, ...), and
// macro expansion. Tuple/member `xform` transforms are not implemented.
package comptime

import (
	"fmt"
	"strings"

	"github.com/dccarter/cxy/internal/types"
)

// Value is a folded compile-time result, mirroring the shape of a
// small tree-walking interpreter's value representation: one
// interface, one concrete struct per kind, Kind()/String() for
// diagnostics and re-embedding back into the AST as a literal.
type Value interface {
	Kind() string
	String() string
}

type IntValue struct{ V int64 }

func (IntValue) Kind() string      { return "int" }
func (v IntValue) String() string  { return fmt.Sprintf("%d", v.V) }

type FloatValue struct{ V float64 }

func (FloatValue) Kind() string     { return "float" }
func (v FloatValue) String() string { return fmt.Sprintf("%g", v.V) }

type BoolValue struct{ V bool }

func (BoolValue) Kind() string { return "bool" }
func (v BoolValue) String() string {
	if v.V {
		return "true"
	}
	return "false"
}

type StringValue struct{ V string }

func (StringValue) Kind() string     { return "string" }
func (v StringValue) String() string { return v.V }

// TypeValue wraps a hash-consed *types.Type so introspection builtins
// (`T.members`, `T.isInteger`, ...) can dispatch on it.
type TypeValue struct{ T *types.Type }

func (TypeValue) Kind() string     { return "type" }
func (v TypeValue) String() string { return v.T.String() }

// ListValue backs multi-valued introspection results (`T.members`,
// `T.params`, `T.attributes`).
type ListValue struct{ Elements []Value }

func (ListValue) Kind() string { return "list" }
func (v ListValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// VoidValue is the result of a `#const`/`#for` body with no yield.
type VoidValue struct{}

func (VoidValue) Kind() string   { return "void" }
func (VoidValue) String() string { return "()" }

// ErrorValue marks a non-foldable expression, an uninstrospectable
// type, or an arity mismatch (spec.md §4.5 "Failure"): the enclosing
// comptime construct is replaced by an ast.Noop (an unknown macro call
// by an ast.ErrorNode) and propagation stops.
type ErrorValue struct{ Message string }

func (ErrorValue) Kind() string     { return "error" }
func (v ErrorValue) String() string { return "<error: " + v.Message + ">" }

func truthy(v Value) (bool, bool) {
	b, ok := v.(BoolValue)
	return b.V, ok
}
</content>
