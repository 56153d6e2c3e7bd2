package shaker

import "github.com/dccarter/cxy/internal/ast"

// shakeType is spec.md §4.6.12: `[T]` (an ArrayTypeAst with no
// length) normalizes to `Slice[T]`. Recurses through every TypeAst
// container so a dimensionless array nested inside a pointer, tuple,
// union, etc. is caught too.
func shakeType(t ast.TypeAst) ast.TypeAst {
	switch n := t.(type) {
	case nil:
		return nil
	case *ast.ArrayTypeAst:
		elem := shakeType(n.Element)
		if n.Len == nil {
			return ast.NewSliceTypeAst(n.Span, elem)
		}
		n.Element = elem
		return n
	case *ast.SliceTypeAst:
		n.Element = shakeType(n.Element)
		return n
	case *ast.PointerTypeAst:
		n.Pointee = shakeType(n.Pointee)
		return n
	case *ast.ReferenceTypeAst:
		n.Referent = shakeType(n.Referent)
		return n
	case *ast.TupleTypeAst:
		for i := range n.Elements {
			n.Elements[i] = shakeType(n.Elements[i])
		}
		return n
	case *ast.UnionTypeAst:
		for i := range n.Members {
			n.Members[i] = shakeType(n.Members[i])
		}
		return n
	case *ast.ResultTypeAst:
		n.Success = shakeType(n.Success)
		for i := range n.Errors {
			n.Errors[i] = shakeType(n.Errors[i])
		}
		return n
	case *ast.OptionalTypeAst:
		n.Target = shakeType(n.Target)
		return n
	case *ast.FuncTypeAst:
		for i := range n.Params {
			n.Params[i] = shakeType(n.Params[i])
		}
		n.Return = shakeType(n.Return)
		return n
	case *ast.PathTypeAst:
		for i := range n.Args {
			n.Args[i] = shakeType(n.Args[i])
		}
		return n
	default:
		return t
	}
}
