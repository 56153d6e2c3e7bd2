package ast

// IsLValue reports whether an expression can appear on the left of an
// assignment or be hoisted as a match scrutinee temp (spec.md §4.6.11).
func IsLValue(e Expr) bool {
	switch e.(type) {
	case *Identifier, *FieldExpr, *IndexExpr, *ThisExpr, *UnaryExpr:
		return true
	default:
		return false
	}
}

// FindEnclosingFunc walks ParentScope links to the nearest *FuncDecl,
// used by the binder to resolve `return`/`defer` back-references
// (spec.md §4.4 step 4).
func FindEnclosingFunc(n Node) *FuncDecl {
	for cur := n; cur != nil; cur = cur.Base().ParentScope {
		if fn, ok := cur.(*FuncDecl); ok {
			return fn
		}
	}
	return nil
}

// FindEnclosingLoop walks ParentScope links to the nearest loop
// (*ForStmt or *WhileStmt), used to resolve `break`/`continue`.
func FindEnclosingLoop(n Node) Node {
	for cur := n; cur != nil; cur = cur.Base().ParentScope {
		switch cur.(type) {
		case *ForStmt, *WhileStmt:
			return cur
		case *FuncDecl, *ClosureExpr:
			return nil // loops do not cross function boundaries
		}
	}
	return nil
}

// FindEnclosingClass walks ParentScope links to the nearest
// *ClassDecl or *StructDecl, used to resolve `this`/`super`/`This`
// (spec.md §4.4 step 3).
func FindEnclosingClass(n Node) Node {
	for cur := n; cur != nil; cur = cur.Base().ParentScope {
		switch cur.(type) {
		case *ClassDecl, *StructDecl:
			return cur
		}
	}
	return nil
}

// FindEnclosingClosure walks ParentScope links to the nearest
// *ClosureExpr, used by the binder's capture analysis (spec.md §4.4
// step 5) to stop at the first closure boundary crossed by a
// reference.
func FindEnclosingClosure(n Node) *ClosureExpr {
	for cur := n; cur != nil; cur = cur.Base().ParentScope {
		if c, ok := cur.(*ClosureExpr); ok {
			return c
		}
		if _, ok := cur.(*FuncDecl); ok {
			return nil
		}
	}
	return nil
}

// IsTopLevel reports whether a node's ParentScope chain reaches a
// *File directly, i.e. it is a module top-level declaration.
func IsTopLevel(n Node) bool {
	p := n.Base().ParentScope
	if p == nil {
		return true
	}
	_, ok := p.(*File)
	return ok
}

// Visitor is called once per node during Walk; returning false skips
// the node's children.
type Visitor func(Node) bool

// Walk performs a depth-first traversal over a Block's direct
// statement/expression tree. Full generic traversal over every node
// kind is implemented where each pass needs it (binder, shaker,
// comptime) because the shape of "children" differs per pass (some
// passes only care about Expr children, others about Decl children);
// this helper covers the common statement-level case.
func Walk(n Node, visit Visitor) {
	if n == nil || !visit(n) {
		return
	}
	switch t := n.(type) {
	case *Block:
		for _, s := range t.Stmts {
			Walk(s, visit)
		}
	case *IfStmt:
		Walk(t.Cond, visit)
		Walk(t.Then, visit)
		if t.Else != nil {
			Walk(t.Else, visit)
		}
	case *WhileStmt:
		Walk(t.Cond, visit)
		Walk(t.Body, visit)
	case *ForStmt:
		Walk(t.Range, visit)
		Walk(t.Body, visit)
	case *ExprStmt:
		Walk(t.X, visit)
	case *ReturnStmt:
		if t.Value != nil {
			Walk(t.Value, visit)
		}
	case *MatchStmt:
		Walk(t.Scrutinee, visit)
		for _, c := range t.Cases {
			Walk(c.Body, visit)
		}
	}
}
</content>
