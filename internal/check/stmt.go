package check

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/types"
)

// checkBlock checks every statement of b in order and returns the
// type b yields as an expression: the last statement's value if it is
// an ExprStmt (Block.exprNode's doc comment — "a Block may be used as
// an expression (last-stmt value)"), otherwise void.
func (c *Checker) checkBlock(b *ast.Block) *types.Type {
	if b == nil {
		return c.table.Primitive(types.PVoid)
	}
	result := c.table.Primitive(types.PVoid)
	for i, s := range b.Stmts {
		if i == len(b.Stmts)-1 {
			if es, ok := s.(*ast.ExprStmt); ok {
				result = c.inferExpr(es.X)
				continue
			}
		}
		c.checkStmt(s)
	}
	for _, d := range b.DeferredExprs {
		c.inferExpr(d)
	}
	return result
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		c.inferExpr(n.X)
	case *ast.VarDeclStmt:
		c.checkLocalDecl(n.Decl)
	case *ast.IfStmt:
		c.inferExpr(n.Cond)
		c.checkBlock(n.Then)
		switch e := n.Else.(type) {
		case *ast.Block:
			c.checkBlock(e)
		case *ast.IfStmt:
			c.checkStmt(e)
		}
	case *ast.WhileStmt:
		c.inferExpr(n.Cond)
		c.checkBlock(n.Body)
	case *ast.ForStmt:
		c.checkForStmt(n)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// no type to check
	case *ast.ReturnStmt:
		c.checkReturn(n)
	case *ast.DeferStmt:
		// The shaker moves defers onto Block.DeferredExprs, so this
		// case only sees an unshaken tree; the value is validated as
		// an ordinary (typically call) expression.
		c.inferExpr(n.Value)
	case *ast.MatchStmt:
		c.checkMatch(n)
	case *ast.Block:
		c.checkBlock(n)
	default:
		c.errorf(s.Base().Span, diagnostics.INT001, "unexpected statement form %T reached the checker", s)
	}
}

// checkLocalDecl types a function-local `var`/`const` binding: from
// its declared type if given, else inferred from its initializer.
// MultiVarDecl is pre-shake sugar (spec.md §4.6.1) that should never
// reach the checker; handling it defensively costs little.
func (c *Checker) checkLocalDecl(d ast.Decl) {
	switch v := d.(type) {
	case *ast.VarDecl:
		var declared *types.Type
		if v.TypeExpr != nil {
			declared = c.ResolveType(v.TypeExpr, nil)
		}
		var initT *types.Type
		if v.Init != nil {
			initT = c.inferExpr(v.Init)
		}
		switch {
		case declared != nil && initT != nil:
			if !types.Assignable(initT, declared) {
				c.errorf(v.Span, diagnostics.TYP001, "cannot initialize %s with %s", declared, initT)
			}
			setType(v, declared)
		case declared != nil:
			setType(v, declared)
		case initT != nil:
			setType(v, initT)
		default:
			setType(v, c.table.AutoType())
		}
	case *ast.MultiVarDecl:
		if v.Init != nil {
			c.inferExpr(v.Init)
		}
	}
}

func (c *Checker) checkForStmt(f *ast.ForStmt) {
	rangeT := c.inferExpr(f.Range)
	var elem *types.Type
	switch rangeT.Kind {
	case types.KArray:
		elem = rangeT.Elem
	default:
		elem = rangeT
	}
	if f.Var.TypeExpr != nil {
		declared := c.ResolveType(f.Var.TypeExpr, nil)
		if !types.Assignable(elem, declared) {
			c.errorf(f.Var.Span, diagnostics.TYP001, "loop variable %s: cannot bind %s", declared, elem)
		}
		setType(f.Var, declared)
	} else {
		setType(f.Var, elem)
	}
	c.checkBlock(f.Body)
}

// checkReturn verifies the returned value (if any) is assignable to
// the enclosing function's declared return type; a bare `return` is
// only valid when that type is void.
func (c *Checker) checkReturn(r *ast.ReturnStmt) {
	var retT *types.Type
	if r.Value != nil {
		retT = c.inferExpr(r.Value)
	} else {
		retT = c.table.Primitive(types.PVoid)
	}
	if c.enclosingFunc == nil {
		return
	}
	want := typeOf(c.enclosingFunc)
	if want == nil || want.Kind != types.KFunc {
		return
	}
	if !types.Assignable(retT, want.Return) {
		c.errorf(r.Span, diagnostics.TYP001, "return type %s does not match %s", retT, want.Return)
	}
}

// checkMatch types the scrutinee once, then checks each case against
// it: a TypePattern narrows a result/union scrutinee to one member and
// binds it, a BindPattern binds the whole scrutinee value, a
// LiteralPattern must match the scrutinee's own type, and a
// TuplePattern recurses structurally (spec.md's pattern grammar).
func (c *Checker) checkMatch(m *ast.MatchStmt) {
	scrutT := c.inferExpr(m.Scrutinee)
	for _, mc := range m.Cases {
		c.checkPattern(mc.Pattern, scrutT)
		if mc.Guard != nil {
			c.inferExpr(mc.Guard)
		}
		c.checkBlock(mc.Body)
	}
}

func (c *Checker) checkPattern(p ast.Pattern, scrutT *types.Type) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		// matches anything, binds nothing
	case *ast.BindPattern:
		setType(pat, scrutT)
	case *ast.TypePattern:
		t := c.ResolveType(pat.Type, nil)
		if scrutT.Kind == types.KUnion || scrutT.Kind == types.KResult {
			// narrowing to a named union/result member is always legal
		} else if !types.Assignable(t, scrutT) && !types.Assignable(scrutT, t) {
			c.errorf(pat.Span, diagnostics.TYP001, "case type %s cannot match scrutinee type %s", t, scrutT)
		}
		setType(pat, t)
	case *ast.LiteralPattern:
		litT := c.inferExpr(pat.Value)
		if !types.Assignable(litT, scrutT) && !types.Assignable(scrutT, litT) {
			c.errorf(pat.Span, diagnostics.TYP001, "case literal type %s cannot match scrutinee type %s", litT, scrutT)
		}
	case *ast.TuplePattern:
		if scrutT.Kind != types.KTuple || len(scrutT.Elems) != len(pat.Elements) {
			c.errorf(pat.Span, diagnostics.TYP001, "tuple pattern arity does not match scrutinee type %s", scrutT)
			return
		}
		for i, sub := range pat.Elements {
			c.checkPattern(sub, scrutT.Elems[i])
		}
	}
}

// checkDeclBody is CheckFile's third pass: every shell is filled in
// and every signature built by now (fillDecl), so bodies can resolve
// any forward reference within the file.
func (c *Checker) checkDeclBody(d ast.Decl) {
	switch n := d.(type) {
	case *ast.FuncDecl:
		c.checkFuncBody(n)
	case *ast.StructDecl:
		prevClass := c.enclosingClass
		c.enclosingClass = shellBody(c.named[n.Name])
		c.checkMemberBodies(n.Members)
		c.enclosingClass = prevClass
	case *ast.ClassDecl:
		prevClass := c.enclosingClass
		c.enclosingClass = shellBody(c.named[n.Name])
		c.checkMemberBodies(n.Members)
		c.enclosingClass = prevClass
	case *ast.TraitDecl:
		prevClass := c.enclosingClass
		c.enclosingClass = shellBody(c.named[n.Name])
		for _, m := range n.Methods {
			c.checkFuncBody(m)
		}
		c.enclosingClass = prevClass
	case *ast.VarDecl:
		if n.Init != nil {
			initT := c.inferExpr(n.Init)
			want := typeOf(n)
			if want != nil && want.Kind != types.KAuto && !types.Assignable(initT, want) {
				c.errorf(n.Span, diagnostics.TYP001, "cannot initialize %s with %s", want, initT)
			} else if want == nil || want.Kind == types.KAuto {
				setType(n, initT)
			}
		}
	}
}

func (c *Checker) checkMemberBodies(members []ast.Decl) {
	for _, d := range members {
		switch m := d.(type) {
		case *ast.FuncDecl:
			c.checkFuncBody(m)
		case *ast.Field:
			if m.Default != nil {
				defT := c.inferExpr(m.Default)
				ft := typeOf(m)
				if ft != nil && !types.Assignable(defT, ft) {
					c.errorf(m.Span, diagnostics.TYP001, "field %q default: cannot assign %s to %s", m.Name, defT, ft)
				}
			}
		case *ast.VarDecl:
			if m.Init != nil {
				c.inferExpr(m.Init)
			}
		}
	}
}

func (c *Checker) checkFuncBody(fn *ast.FuncDecl) {
	if fn.Body == nil {
		return // extern/forward declaration (ast.ForwardDecl)
	}
	prevFunc := c.enclosingFunc
	c.enclosingFunc = fn
	c.checkBlock(fn.Body)
	c.enclosingFunc = prevFunc
}
