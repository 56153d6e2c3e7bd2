package check

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
	"github.com/dccarter/cxy/internal/types"
)

// opMethods maps a BinaryExpr operator to the `op_*` overload method a
// non-primitive operand is expected to define (spec.md §4.7 "Built-in
// operator expansion"). Operators with no entry (assignment, logical
// &&/||) are never rewritten: assignment targets a field/index
// directly and logical operators only ever apply to bool.
var opMethods = map[token.Kind]string{
	token.PLUS: "op_add", token.MINUS: "op_sub", token.STAR: "op_mul",
	token.SLASH: "op_div", token.PERCENT: "op_mod",
	token.EQ: "op_eq", token.NEQ: "op_eq",
	token.LT: "op_cmp", token.LTE: "op_cmp", token.GT: "op_cmp", token.GTE: "op_cmp",
	token.AMP: "op_and", token.PIPE: "op_or", token.CARET: "op_xor",
	token.SHL: "op_shl", token.SHR: "op_shr",
}

var assignOps = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true,
	token.STAR_ASSIGN: true, token.SLASH_ASSIGN: true,
}

// inferExpr computes e's type, reporting diagnostics for anything
// incompatible along the way, and stashes the result on e itself so a
// later reference to the same node can read it back without
// re-inferring.
func (c *Checker) inferExpr(e ast.Expr) *types.Type {
	if e == nil {
		return c.table.Primitive(types.PVoid)
	}
	switch n := e.(type) {
	case *ast.IntLiteral:
		if p, ok := primitiveByName[n.Suffix]; ok {
			return setType(n, c.table.Primitive(p))
		}
		return setType(n, c.table.Primitive(types.PI32))
	case *ast.FloatLiteral:
		if n.Suffix == "f32" {
			return setType(n, c.table.Primitive(types.PF32))
		}
		return setType(n, c.table.Primitive(types.PF64))
	case *ast.StringLiteral:
		return setType(n, c.table.StringType())
	case *ast.CharLiteral:
		return setType(n, c.table.Primitive(types.PChar))
	case *ast.BoolLiteral:
		return setType(n, c.table.Primitive(types.PBool))
	case *ast.NullLiteral:
		return setType(n, c.table.Primitive(types.PVoid))
	case *ast.Identifier:
		return setType(n, c.inferResolved(n.Base(), n.Name))
	case *ast.Path:
		return setType(n, c.inferPath(n))
	case *ast.TupleExpr:
		elems := make([]*types.Type, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = c.inferExpr(el)
		}
		return setType(n, c.table.Tuple(elems...))
	case *ast.ArrayExpr:
		var elem *types.Type
		for _, el := range n.Elements {
			t := c.inferExpr(el)
			if elem == nil {
				elem = t
			} else if !types.Assignable(t, elem) && !types.Assignable(elem, t) {
				c.errorf(el.Base().Span, diagnostics.TYP001, "array element type %s incompatible with %s", t, elem)
			}
		}
		if elem == nil {
			elem = c.table.AutoType()
		}
		return setType(n, c.table.Array(elem, len(n.Elements)))
	case *ast.StructExpr:
		return setType(n, c.inferStructExpr(n))
	case *ast.BinaryExpr:
		return setType(n, c.inferBinary(n))
	case *ast.UnaryExpr:
		return setType(n, c.inferExpr(n.Operand))
	case *ast.CallExpr:
		return setType(n, c.inferCall(n))
	case *ast.IndexExpr:
		return setType(n, c.inferIndex(n))
	case *ast.FieldExpr:
		return setType(n, c.inferField(n))
	case *ast.CastExpr:
		c.inferExpr(n.Operand)
		return setType(n, c.ResolveType(n.Target, nil))
	case *ast.IsExpr:
		c.inferExpr(n.Operand)
		c.ResolveType(n.Target, nil)
		return setType(n, c.table.Primitive(types.PBool))
	case *ast.TernaryExpr:
		c.inferExpr(n.Cond)
		thenT := c.inferExpr(n.Then)
		elseT := c.inferExpr(n.Else)
		if types.Assignable(elseT, thenT) {
			return setType(n, thenT)
		}
		if types.Assignable(thenT, elseT) {
			return setType(n, elseT)
		}
		return setType(n, c.table.Union(thenT, elseT))
	case *ast.RangeExpr:
		lo := c.inferExpr(n.Lo)
		c.inferExpr(n.Hi)
		return setType(n, lo)
	case *ast.NewExpr:
		for _, a := range n.Args {
			c.inferExpr(a)
		}
		return setType(n, c.ResolveType(n.Target, nil))
	case *ast.DeleteExpr:
		c.inferExpr(n.Operand)
		return setType(n, c.table.Primitive(types.PVoid))
	case *ast.AwaitExpr:
		opT := c.inferExpr(n.Operand)
		if opT.Kind != types.KInfo {
			c.errorf(n.Span, diagnostics.TYP001, "await operand must be an async result, got %s", opT)
			return setType(n, c.table.ErrorType())
		}
		return setType(n, opT.Elem)
	case *ast.CatchExpr:
		return setType(n, c.inferCatch(n))
	case *ast.ThisExpr:
		if c.enclosingClass == nil {
			c.errorf(n.Span, diagnostics.TYP001, "this used outside a method")
			return setType(n, c.table.ErrorType())
		}
		return setType(n, c.enclosingClass)
	case *ast.SuperExpr:
		if c.enclosingClass == nil || c.enclosingClass.Base == nil {
			c.errorf(n.Span, diagnostics.TYP001, "super used outside an inheriting method")
			return setType(n, c.table.ErrorType())
		}
		return setType(n, c.enclosingClass.Base)
	case *ast.ThisTypeExpr:
		return setType(n, c.table.Info(c.table.This(c.enclosingClass)))
	case *ast.SubstituteExpr:
		// Comptime substitution sites are folded away before the
		// checker runs (internal/comptime); recursing defensively
		// covers the case where a foldable expression was left intact.
		return setType(n, c.inferExpr(n.Inner))
	case *ast.AsmExpr:
		return setType(n, c.table.Primitive(types.PVoid))
	default:
		c.errorf(e.Base().Span, diagnostics.INT001, "unexpected expression form %T reached the checker", e)
		return setType(e, c.table.ErrorType())
	}
}

// inferResolved types a bare identifier by reading back whatever type
// the declaration it resolves to was already given (fillDecl for
// top-level/member declarations, checkStmt for locals — both run
// before any reference to the name can be type-checked, since
// CheckFile's three passes are strictly ordered).
func (c *Checker) inferResolved(base *ast.BaseNode, name string) *types.Type {
	if base.Resolved != nil {
		if t := typeOf(base.Resolved); t != nil {
			return t
		}
	}
	if t, ok := c.named[name]; ok {
		return t
	}
	c.errorf(base.Span, diagnostics.NAM001, "undefined symbol %q", name)
	return c.table.ErrorType()
}

// inferPath types a dotted reference. The binder resolves a whole
// Path to one declaration when it can (an imported symbol, a local),
// in which case it is typed exactly like an Identifier; the one
// structural case the binder does not resolve is `EnumName.Option`,
// which the checker recognizes itself by walking named enum types.
func (c *Checker) inferPath(p *ast.Path) *types.Type {
	if p.Base().Resolved != nil {
		if t := typeOf(p.Base().Resolved); t != nil {
			return t
		}
	}
	if len(p.Elements) == 2 {
		if enumT, ok := c.named[p.Elements[0].Name]; ok && enumT.Kind == types.KEnum {
			opt := p.Elements[1].Name
			for _, o := range enumT.Options {
				if o.Name == opt {
					return enumT
				}
			}
			c.errorf(p.Span, diagnostics.TYP006, "enum %s has no option %q", enumT.Name, opt)
			return c.table.ErrorType()
		}
	}
	c.errorf(p.Span, diagnostics.NAM001, "undefined symbol %q", p.String())
	return c.table.ErrorType()
}

func (c *Checker) inferStructExpr(s *ast.StructExpr) *types.Type {
	target := c.ResolveType(s.Target, nil)
	body := shellBody(target)
	for _, fi := range s.Fields {
		valT := c.inferExpr(fi.Value)
		member := findMember(body, fi.Name)
		if member == nil {
			c.errorf(fi.Span, diagnostics.TYP006, "%s has no field %q", target, fi.Name)
			continue
		}
		if !types.Assignable(valT, member.Type) {
			c.errorf(fi.Span, diagnostics.TYP001, "field %q expects %s, got %s", fi.Name, member.Type, valT)
		}
	}
	return target
}

// inferBinary types operators over primitives directly, and rewrites
// anything else into a call to the operand's `op_*` overload method,
// exactly as spec.md §4.7 describes (the shaker leaves BinaryExpr
// intact across non-primitive operands; this is where the expansion
// actually happens, since it depends on the operand's resolved type).
func (c *Checker) inferBinary(b *ast.BinaryExpr) *types.Type {
	lt := c.inferExpr(b.Left)
	rt := c.inferExpr(b.Right)

	if assignOps[b.Op] {
		if !types.Assignable(rt, lt) {
			c.errorf(b.Span, diagnostics.TYP001, "cannot assign %s to %s", rt, lt)
		}
		return lt
	}
	switch b.Op {
	case token.AND_AND, token.OR_OR:
		return c.table.Primitive(types.PBool)
	case token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE:
		if lt.Kind == types.KPrimitive && rt.Kind == types.KPrimitive {
			return c.table.Primitive(types.PBool)
		}
		if lt.Kind == types.KString && rt.Kind == types.KString {
			return c.table.Primitive(types.PBool)
		}
	}
	if lt.Kind == types.KPrimitive && rt.Kind == types.KPrimitive {
		if types.CanPromote(rt, lt) {
			return lt
		}
		if types.CanPromote(lt, rt) {
			return rt
		}
		c.errorf(b.Span, diagnostics.TYP001, "incompatible operand types %s and %s", lt, rt)
		return lt
	}
	name, ok := opMethods[b.Op]
	if !ok {
		c.errorf(b.Span, diagnostics.TYP001, "operator %s is not defined over %s", b.Op, lt)
		return c.table.ErrorType()
	}
	member := findMember(lt, name)
	if member == nil {
		c.errorf(b.Span, diagnostics.TYP006, "%s does not implement %s", lt, name)
		return c.table.ErrorType()
	}
	if len(member.Type.Params) != 1 || !types.Assignable(rt, member.Type.Params[0]) {
		c.errorf(b.Span, diagnostics.TYP002, "%s.%s expects an argument assignable from %s", lt, name, rt)
	}
	switch b.Op {
	case token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE:
		return c.table.Primitive(types.PBool)
	}
	return member.Type.Return
}

// inferCall resolves Callee to a function type and checks arguments
// against it, picking the best-matching overload when Callee names a
// function with siblings (overloadsOf).
func (c *Checker) inferCall(call *ast.CallExpr) *types.Type {
	argTypes := make([]*types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = c.inferExpr(a)
	}

	if id, ok := call.Callee.(*ast.Identifier); ok {
		if fn, ok := id.Base().Resolved.(*ast.FuncDecl); ok {
			overloads := c.overloadsOf(fn)
			if len(overloads) > 1 {
				best := c.resolveOverload(call.Span, overloads, argTypes)
				if best != nil {
					setType(id, typeOf(best))
					return typeOf(best).Return
				}
				return c.table.ErrorType()
			}
		}
	}

	calleeT := c.inferExpr(call.Callee)
	if calleeT.Kind != types.KFunc {
		c.errorf(call.Span, diagnostics.TYP001, "%s is not callable", calleeT)
		return c.table.ErrorType()
	}
	c.checkArgs(call.Span, calleeT, argTypes)
	return calleeT.Return
}

// resolveOverload picks the single candidate whose parameters accept
// argTypes, reporting TYP003/TYP004 when no candidate or more than one
// candidate matches (spec.md §4.7 "Overload resolution").
func (c *Checker) resolveOverload(span token.Span, candidates []*ast.FuncDecl, argTypes []*types.Type) *ast.FuncDecl {
	var matches []*ast.FuncDecl
	for _, cand := range candidates {
		ft := typeOf(cand)
		if ft == nil {
			ft = c.buildFuncSignature(cand, nil)
		}
		if argsMatch(ft, argTypes) {
			matches = append(matches, cand)
		}
	}
	switch len(matches) {
	case 0:
		c.errorf(span, diagnostics.TYP003, "no overload of %q accepts the given arguments", candidates[0].Name)
		return nil
	case 1:
		return matches[0]
	default:
		c.errorf(span, diagnostics.TYP004, "call to %q is ambiguous among %d overloads", candidates[0].Name, len(matches))
		return matches[0]
	}
}

func argsMatch(ft *types.Type, argTypes []*types.Type) bool {
	if ft.Variadic {
		if len(argTypes) < len(ft.Params)-1 {
			return false
		}
	} else if len(argTypes) != len(ft.Params) {
		return false
	}
	for i, p := range ft.Params {
		if i >= len(argTypes) {
			break
		}
		if !types.Assignable(argTypes[i], p) {
			return false
		}
	}
	return true
}

func (c *Checker) checkArgs(span token.Span, ft *types.Type, argTypes []*types.Type) {
	if !ft.Variadic && len(argTypes) != len(ft.Params) {
		c.errorf(span, diagnostics.TYP002, "expected %d argument(s), got %d", len(ft.Params), len(argTypes))
		return
	}
	for i, p := range ft.Params {
		if i >= len(argTypes) {
			return
		}
		if !types.Assignable(argTypes[i], p) {
			c.errorf(span, diagnostics.TYP001, "argument %d: cannot pass %s as %s", i+1, argTypes[i], p)
		}
	}
}

func (c *Checker) inferIndex(idx *ast.IndexExpr) *types.Type {
	t := c.inferExpr(idx.Target)
	it := c.inferExpr(idx.Index)
	if t.Kind == types.KArray {
		return t.Elem
	}
	if t.Kind == types.KPointer {
		return t.Elem
	}
	member := findMember(t, "op_idx")
	if member != nil {
		if len(member.Type.Params) == 1 && types.Assignable(it, member.Type.Params[0]) {
			return member.Type.Return
		}
	}
	c.errorf(idx.Span, diagnostics.TYP006, "%s is not indexable", t)
	return c.table.ErrorType()
}

func (c *Checker) inferField(f *ast.FieldExpr) *types.Type {
	t := c.inferExpr(f.Target)
	member := findMember(t, f.Name)
	if member == nil {
		c.errorf(f.Span, diagnostics.TYP006, "%s has no member %q", t, f.Name)
		return c.table.ErrorType()
	}
	if f.Optional {
		return c.table.Union(member.Type, c.table.Primitive(types.PVoid))
	}
	return member.Type
}

// inferCatch is spec.md's catch operator: Left must be a Result, and
// Block's final (yielding) statement must produce a value assignable
// to Left's success type; the shaker already rejected any Block whose
// final statement isn't a yielding ExprStmt (shaker/expressions.go
// shakeCatch), so only the value's type needs checking here.
func (c *Checker) inferCatch(ce *ast.CatchExpr) *types.Type {
	lt := c.inferExpr(ce.Left)
	blockT := c.checkBlock(ce.Block)
	if lt.Kind != types.KResult {
		c.errorf(ce.Span, diagnostics.TYP001, "catch requires a result-typed expression, got %s", lt)
		return c.table.ErrorType()
	}
	if !types.Assignable(blockT, lt.Ok) {
		c.errorf(ce.Span, diagnostics.TYP001, "catch block yields %s, expected %s", blockT, lt.Ok)
	}
	return lt.Ok
}

// findMember looks up name on t's member table, walking a class's
// superclass chain (spec.md §4.4 "member resolution order").
func findMember(t *types.Type, name string) *types.Member {
	if t == nil {
		return nil
	}
	for i := range t.Members {
		if t.Members[i].Name == name {
			return &t.Members[i]
		}
	}
	if t.Kind == types.KClass && t.Base != nil {
		return findMember(t.Base, name)
	}
	return nil
}
