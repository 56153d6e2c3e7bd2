package check

import (
	"strconv"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/types"
)

// primitiveByName maps a primitive type-annotation spelling to its
// types.Primitive. Its keys are parser/type.go's primitiveNames table
// (which gates what the parser accepts as a PrimitiveTypeAst) plus
// "cstr", which that table lacks, so a `cstr` annotation reaches the
// checker as a PathTypeAst rather than through this map.
// "wchar" has no dedicated Primitive of its own (spec.md's fourteen
// scalars, §3.2); it widens to char, the closest built-in.
var primitiveByName = map[string]types.Primitive{
	"void": types.PVoid, "bool": types.PBool, "char": types.PChar, "wchar": types.PChar,
	"i8": types.PI8, "i16": types.PI16, "i32": types.PI32, "i64": types.PI64,
	"u8": types.PU8, "u16": types.PU16, "u32": types.PU32, "u64": types.PU64,
	"f32": types.PF32, "f64": types.PF64, "cstr": types.PCString,
}

// ResolveType converts t into a hash-consed *types.Type. genericParams
// supplies the name -> placeholder binding for the generic parameters
// of the declaration currently being resolved (nil outside one), so a
// bare reference to one of them resolves to its KGeneric placeholder
// instead of an undefined-type error.
func (c *Checker) ResolveType(t ast.TypeAst, genericParams map[string]*types.Type) *types.Type {
	if t == nil {
		return c.table.Primitive(types.PVoid)
	}
	switch n := t.(type) {
	case *ast.PrimitiveTypeAst:
		if p, ok := primitiveByName[n.Name]; ok {
			return c.table.Primitive(p)
		}
		c.errorf(n.Span, diagnostics.TYP001, "unknown primitive type %q", n.Name)
		return c.table.ErrorType()
	case *ast.PathTypeAst:
		return c.resolvePathType(n, genericParams)
	case *ast.PointerTypeAst:
		return c.table.Pointer(c.ResolveType(n.Pointee, genericParams))
	case *ast.ReferenceTypeAst:
		return c.table.Reference(c.ResolveType(n.Referent, genericParams))
	case *ast.ArrayTypeAst:
		length := 0
		if n.Len != nil {
			length = c.constIntValue(n.Len)
		}
		return c.table.Array(c.ResolveType(n.Element, genericParams), length)
	case *ast.SliceTypeAst:
		// shaker/types.go normalizes a dimensionless `[T]` to this node
		// (spec.md §4.6.12); without a resolvable stdlib Slice[T]
		// generic in scope, a 0-length array is the closest shape that
		// still carries the element type through (Open Question,
		// DESIGN.md).
		return c.table.Array(c.ResolveType(n.Element, genericParams), 0)
	case *ast.TupleTypeAst:
		elems := make([]*types.Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = c.ResolveType(e, genericParams)
		}
		return c.table.Tuple(elems...)
	case *ast.UnionTypeAst:
		members := make([]*types.Type, len(n.Members))
		for i, m := range n.Members {
			members[i] = c.ResolveType(m, genericParams)
		}
		return c.table.Union(members...)
	case *ast.ResultTypeAst:
		ok := c.ResolveType(n.Success, genericParams)
		errs := make([]*types.Type, len(n.Errors))
		for i, e := range n.Errors {
			errs[i] = c.ResolveType(e, genericParams)
		}
		var errType *types.Type
		switch len(errs) {
		case 0:
			errType = c.named["Exception"]
		case 1:
			errType = errs[0]
		default:
			errType = c.table.Union(errs...)
		}
		return c.table.Result(ok, errType)
	case *ast.OptionalTypeAst:
		return c.table.Union(c.ResolveType(n.Target, genericParams), c.table.Primitive(types.PVoid))
	case *ast.FuncTypeAst:
		params := make([]*types.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = c.ResolveType(p, genericParams)
		}
		return c.table.Func(params, c.ResolveType(n.Return, genericParams), n.Variadic)
	case *ast.ThisTypeAst:
		return c.table.This(c.enclosingClass)
	default:
		c.errorf(t.Base().Span, diagnostics.TYP001, "unsupported type form %T", t)
		return c.table.ErrorType()
	}
}

// resolvePathType resolves a possibly-generic nominal type reference.
// Cross-module dotted paths (`pkg.Name`) resolve by their final
// segment only: the binder declares an entire imported module's
// exports into the importing file's flat scope (DeclareImported), so
// there is no separate per-module namespace for the checker to thread
// through a multi-segment path.
func (c *Checker) resolvePathType(n *ast.PathTypeAst, genericParams map[string]*types.Type) *types.Type {
	if len(n.Elements) == 0 {
		return c.table.ErrorType()
	}
	name := n.Elements[len(n.Elements)-1]
	if genericParams != nil {
		if gp, ok := genericParams[name]; ok {
			return gp
		}
	}
	base, ok := c.named[name]
	if !ok {
		c.errorf(n.Span, diagnostics.TYP006, "undefined type %q", name)
		return c.table.ErrorType()
	}
	if len(n.Args) == 0 {
		return base
	}
	if base.Kind != types.KGeneric {
		c.errorf(n.Span, diagnostics.TYP001, "%q is not a generic type", name)
		return base
	}
	args := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.ResolveType(a, genericParams)
	}
	if len(args) != len(base.GenericParams) {
		c.errorf(n.Span, diagnostics.GEN001,
			"%q expects %d type argument(s), got %d", name, len(base.GenericParams), len(args))
		return c.table.ErrorType()
	}
	return c.table.Apply(base, args)
}

// constIntValue evaluates an array-length expression. Only an integer
// literal is accepted: internal/comptime does not fold arithmetic
// subexpressions into literals in place, so any other expression at
// this position is reported as an error.
func (c *Checker) constIntValue(e ast.Expr) int {
	lit, ok := e.(*ast.IntLiteral)
	if !ok {
		c.errorf(e.Base().Span, diagnostics.TYP001, "array length must be a constant integer")
		return 0
	}
	n, err := strconv.ParseInt(lit.Text, 0, 64)
	if err != nil {
		c.errorf(e.Base().Span, diagnostics.TYP001, "invalid array length %q", lit.Text)
		return 0
	}
	return int(n)
}

// genericParamPlaceholder builds an uninterned KGeneric reference type
// standing in for one of a declaration's own type parameters while its
// body is resolved; types.Table.Apply's substituteType keys these by
// Name alone (internal/types/applied.go), so this need not be hash-
// consed the way a real structural type would be.
func genericParamPlaceholder(name string) *types.Type {
	return &types.Type{Kind: types.KGeneric, Name: name}
}
