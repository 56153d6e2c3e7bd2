package binder

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
)

// Binder walks a bound File, declaring every name into a Scope chain
// and resolving every reference back to its declaration
// (spec.md §4.4). One Binder serves one compilation; module-level
// imports are declared by the driver before Bind runs.
type Binder struct {
	log     *diagnostics.Log
	root    *Scope
	curFile *ast.File

	// inComptime/inTest are the context flags of spec.md §4.4's access
	// rules for comptime-only and test-only symbols (NAM004/NAM005).
	// inTest is set while a `test` block is bound; inComptime is never
	// set, and no symbol is ever marked comptimeOnly or testOnly, so
	// neither diagnostic is emitted.
	inComptime bool
	inTest     bool
}

// New creates a Binder with a fresh root scope.
func New(log *diagnostics.Log) *Binder {
	return &Binder{log: log, root: NewRootScope()}
}

// RootScope exposes the file-level scope so the driver can pre-seed it
// with imported symbols before BindFile runs.
func (b *Binder) RootScope() *Scope { return b.root }

// DeclareImported seeds scope with another module's exported
// declarations, using the same decl-kind-to-symbolKind mapping
// declareTopLevel uses for a file's own top-level decls (spec.md §4.8:
// "module-level imports are declared by the driver before Bind runs").
// Declared symbols are also marked ast.Imported so later passes (and
// diagnostics) can tell an imported name from a locally declared one.
func (b *Binder) DeclareImported(scope *Scope, exports map[string]ast.Decl) {
	for name, d := range exports {
		d.Base().Flags.Set(ast.Imported)
		switch d.(type) {
		case *ast.FuncDecl, *ast.MacroDecl:
			scope.Declare(name, symFunc, d)
		case *ast.VarDecl:
			scope.Declare(name, symVar, d)
		default:
			scope.Declare(name, symType, d)
		}
	}
}

// BindFile declares every top-level declaration in f into the root
// scope, then resolves every reference inside each declaration's body.
func (b *Binder) BindFile(f *ast.File) {
	b.curFile = f
	for _, decl := range f.Decls {
		decl.Base().ParentScope = f
		b.declareTopLevel(b.root, decl)
	}
	for _, decl := range f.Decls {
		b.resolveDecl(b.root, decl)
	}
}

// parentNode returns the AST node a freshly pushed child scope should
// record as its ParentScope: the node owning scope, or the file at the
// root scope (scope.node is nil there).
func (b *Binder) parentNode(scope *Scope) ast.Node {
	if scope.node != nil {
		return scope.node
	}
	return b.curFile
}

// pushScope creates a child scope for node, wiring node's ParentScope
// back to the enclosing scope's own node so ast.FindEnclosing* can walk
// outward from node after the binder has moved past it.
func (b *Binder) pushScope(scope *Scope, node ast.Node) *Scope {
	node.Base().ParentScope = b.parentNode(scope)
	return scope.Push(node)
}

func (b *Binder) pushFuncScope(scope *Scope, node ast.Node) *Scope {
	node.Base().ParentScope = b.parentNode(scope)
	return scope.PushFunc(node)
}

func (b *Binder) pushClosureScope(scope *Scope, node ast.Node) *Scope {
	node.Base().ParentScope = b.parentNode(scope)
	return scope.PushClosure(node)
}

func (b *Binder) declareTopLevel(scope *Scope, decl ast.Decl) {
	decl.Base().Flags.Set(ast.TopLevelDecl)
	switch d := decl.(type) {
	case *ast.FuncDecl:
		scope.Declare(d.Name, symFunc, d)
	case *ast.VarDecl:
		scope.Declare(d.Name, symVar, d)
	case *ast.StructDecl:
		scope.Declare(d.Name, symType, d)
	case *ast.ClassDecl:
		scope.Declare(d.Name, symType, d)
	case *ast.EnumDecl:
		scope.Declare(d.Name, symType, d)
	case *ast.TraitDecl:
		scope.Declare(d.Name, symType, d)
	case *ast.TypeAliasDecl:
		scope.Declare(d.Name, symType, d)
	case *ast.MacroDecl:
		scope.Declare(d.Name, symFunc, d)
	case *ast.ExceptionDecl:
		scope.Declare(d.Name, symType, d)
	case *ast.TestDecl:
		// Test blocks do not introduce a callable name into normal
		// scope; the shaker gives the generated func a synthetic name
		// (spec.md §4.6.9).
	}
}

func (b *Binder) resolveDecl(scope *Scope, decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		b.resolveFunc(scope, d)
	case *ast.VarDecl:
		if d.Init != nil {
			b.resolveExpr(scope, d.Init)
		}
	case *ast.StructDecl:
		b.resolveMembers(scope, d, d.Members)
	case *ast.ClassDecl:
		b.resolveMembers(scope, d, d.Members)
	case *ast.TraitDecl:
		inner := b.pushScope(scope, d)
		for _, m := range d.Methods {
			b.resolveFunc(inner, m)
		}
	case *ast.ExceptionDecl:
		if d.What != nil {
			fnScope := b.pushFuncScope(scope, d)
			b.resolveBlock(fnScope, d.What)
		}
	case *ast.TestDecl:
		prevTest := b.inTest
		b.inTest = true
		fnScope := b.pushFuncScope(scope, d)
		b.resolveBlock(fnScope, d.Body)
		b.inTest = prevTest
	}
}

func (b *Binder) resolveMembers(scope *Scope, owner ast.Node, members []ast.Decl) {
	inner := b.pushScope(scope, owner)
	for _, m := range members {
		if f, ok := m.(*ast.Field); ok {
			f.Base().ParentScope = owner
			inner.Declare(f.Name, symVar, f)
		}
	}
	for _, m := range members {
		switch md := m.(type) {
		case *ast.FuncDecl:
			inner.Declare(md.Name, symFunc, md)
		}
	}
	for _, m := range members {
		switch md := m.(type) {
		case *ast.FuncDecl:
			b.resolveFunc(inner, md)
		case *ast.Field:
			if md.Default != nil {
				b.resolveExpr(inner, md.Default)
			}
		}
	}
}

func (b *Binder) resolveFunc(scope *Scope, fn *ast.FuncDecl) {
	fnScope := b.pushFuncScope(scope, fn)
	for _, g := range fn.Generics {
		fnScope.Declare(g.Name, symGenericParam, g)
	}
	for _, p := range fn.Params {
		fnScope.Declare(p.Name, symVar, p)
		if p.Default != nil {
			b.resolveExpr(fnScope, p.Default)
		}
	}
	if fn.Receiver != nil {
		fnScope.Declare("this", symVar, fn)
	}
	if fn.Body != nil {
		b.resolveBlock(fnScope, fn.Body)
	}
}

func (b *Binder) resolveBlock(scope *Scope, block *ast.Block) {
	inner := b.pushScope(scope, block)
	for _, stmt := range block.Stmts {
		b.resolveStmt(inner, stmt)
	}
	for _, expr := range block.DeferredExprs {
		b.resolveExpr(inner, expr)
	}
}

func (b *Binder) resolveStmt(scope *Scope, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		b.resolveExpr(scope, s.X)
	case *ast.VarDeclStmt:
		b.resolveVarDeclStmt(scope, s)
	case *ast.IfStmt:
		b.resolveExpr(scope, s.Cond)
		b.resolveBlock(scope, s.Then)
		switch e := s.Else.(type) {
		case *ast.Block:
			b.resolveBlock(scope, e)
		case *ast.IfStmt:
			b.resolveStmt(scope, e)
		}
	case *ast.WhileStmt:
		b.resolveExpr(scope, s.Cond)
		b.resolveBlock(scope, s.Body)
	case *ast.ForStmt:
		b.resolveExpr(scope, s.Range)
		loopScope := b.pushScope(scope, s)
		loopScope.Declare(s.Var.Name, symVar, s.Var)
		b.resolveBlock(loopScope, s.Body)
	case *ast.BreakStmt:
		b.resolveLoopExit(scope, s.Base())
	case *ast.ContinueStmt:
		b.resolveLoopExit(scope, s.Base())
	case *ast.ReturnStmt:
		if s.Value != nil {
			b.resolveExpr(scope, s.Value)
		}
		b.resolveReturnLikeTarget(scope, s.Base())
	case *ast.DeferStmt:
		b.resolveExpr(scope, s.Value)
		b.resolveReturnLikeTarget(scope, s.Base())
	case *ast.MatchStmt:
		b.resolveExpr(scope, s.Scrutinee)
		for _, c := range s.Cases {
			caseScope := b.pushScope(scope, c)
			b.declarePattern(caseScope, c.Pattern)
			if c.Guard != nil {
				b.resolveExpr(caseScope, c.Guard)
			}
			b.resolveBlock(caseScope, c.Body)
		}
	}
}

// resolveReturnLikeTarget resolves return/defer to the nearest closure
// body if one encloses it, else the nearest function, matching the
// shaker's later closure-to-struct lowering where a closure's `return`
// exits its own synthesized call method, not the outer function.
func (b *Binder) resolveReturnLikeTarget(scope *Scope, base *ast.BaseNode) {
	if c := ast.FindEnclosingClosure(scope.node); c != nil {
		base.Resolved = c
		return
	}
	if fn := ast.FindEnclosingFunc(scope.node); fn != nil {
		base.Resolved = fn
	}
}

func (b *Binder) resolveLoopExit(scope *Scope, base *ast.BaseNode) {
	if loop := ast.FindEnclosingLoop(scope.node); loop != nil {
		base.Resolved = loop
	}
}

func (b *Binder) resolveVarDeclStmt(scope *Scope, s *ast.VarDeclStmt) {
	switch d := s.Decl.(type) {
	case *ast.VarDecl:
		if d.Init != nil {
			b.resolveExpr(scope, d.Init)
		}
		scope.Declare(d.Name, symVar, d)
	case *ast.MultiVarDecl:
		b.resolveExpr(scope, d.Init)
		for _, name := range d.Names {
			scope.Declare(name, symVar, d)
		}
	}
}

func (b *Binder) declarePattern(scope *Scope, p ast.Pattern) {
	switch pat := p.(type) {
	case *ast.BindPattern:
		scope.Declare(pat.Name, symVar, pat)
	case *ast.TypePattern:
		if pat.Bind != "" {
			scope.Declare(pat.Bind, symVar, pat)
		}
	case *ast.TuplePattern:
		for _, elem := range pat.Elements {
			b.declarePattern(scope, elem)
		}
	}
}

func (b *Binder) resolveExpr(scope *Scope, expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Identifier:
		b.resolveIdentifier(scope, e)
	case *ast.Path:
		b.resolvePath(scope, e)
	case *ast.StringInterpExpr:
		for _, sub := range e.Exprs {
			b.resolveExpr(scope, sub)
		}
	case *ast.TupleExpr:
		for _, el := range e.Elements {
			b.resolveExpr(scope, el)
		}
	case *ast.ArrayExpr:
		for _, el := range e.Elements {
			b.resolveExpr(scope, el)
		}
	case *ast.StructExpr:
		for _, f := range e.Fields {
			b.resolveExpr(scope, f.Value)
		}
	case *ast.BinaryExpr:
		b.resolveExpr(scope, e.Left)
		b.resolveExpr(scope, e.Right)
	case *ast.UnaryExpr:
		b.resolveExpr(scope, e.Operand)
	case *ast.CallExpr:
		b.resolveExpr(scope, e.Callee)
		for _, a := range e.Args {
			b.resolveExpr(scope, a)
		}
	case *ast.IndexExpr:
		b.resolveExpr(scope, e.Target)
		b.resolveExpr(scope, e.Index)
	case *ast.FieldExpr:
		b.resolveExpr(scope, e.Target)
	case *ast.CastExpr:
		b.resolveExpr(scope, e.Operand)
	case *ast.IsExpr:
		b.resolveExpr(scope, e.Operand)
	case *ast.TernaryExpr:
		b.resolveExpr(scope, e.Cond)
		b.resolveExpr(scope, e.Then)
		b.resolveExpr(scope, e.Else)
	case *ast.ClosureExpr:
		b.resolveClosure(scope, e)
	case *ast.RangeExpr:
		b.resolveExpr(scope, e.Lo)
		b.resolveExpr(scope, e.Hi)
	case *ast.NewExpr:
		for _, a := range e.Args {
			b.resolveExpr(scope, a)
		}
	case *ast.DeleteExpr:
		b.resolveExpr(scope, e.Operand)
	case *ast.AwaitExpr:
		b.resolveExpr(scope, e.Operand)
	case *ast.LaunchExpr:
		b.resolveExpr(scope, e.Body)
	case *ast.RaiseExpr:
		b.resolveExpr(scope, e.Value)
	case *ast.CatchExpr:
		b.resolveExpr(scope, e.Left)
		b.resolveBlock(scope, e.Block)
	case *ast.ThisExpr:
		b.resolveThis(scope, e)
	case *ast.SuperExpr:
		b.resolveSuper(scope, e)
	case *ast.SubstituteExpr:
		b.resolveExpr(scope, e.Inner)
	case *ast.MacroCallExpr:
		for _, a := range e.Args {
			b.resolveExpr(scope, a)
		}
	case *ast.Block:
		b.resolveBlock(scope, e)
	case *ast.IfStmt:
		b.resolveExpr(scope, e.Cond)
		b.resolveBlock(scope, e.Then)
	case *ast.MatchStmt:
		b.resolveStmt(scope, e)
	}
}

func (b *Binder) resolveIdentifier(scope *Scope, id *ast.Identifier) {
	sym, foundScope := scope.Lookup(id.Name)
	if sym == nil {
		b.log.Error(diagnostics.PhaseBinder, diagnostics.NAM001, &id.Span,
			"undefined symbol %q", id.Name)
		return
	}
	b.checkAccessRules(id.Base(), sym)
	id.Base().Resolved = sym.decl
	b.recordCaptureIfNeeded(scope, foundScope, id.Name)
}

func (b *Binder) resolvePath(scope *Scope, p *ast.Path) {
	if len(p.Elements) == 0 {
		return
	}
	head := p.Elements[0]
	sym, foundScope := scope.Lookup(head.Name)
	if sym == nil {
		b.log.Error(diagnostics.PhaseBinder, diagnostics.NAM001, &head.Span,
			"undefined symbol %q", head.Name)
		return
	}
	b.checkAccessRules(p.Base(), sym)
	p.Base().Resolved = sym.decl
	b.recordCaptureIfNeeded(scope, foundScope, head.Name)
	for _, elem := range head.Args {
		b.resolveExpr(scope, elem)
	}
	for _, elem := range p.Elements[1:] {
		for _, arg := range elem.Args {
			b.resolveExpr(scope, arg)
		}
	}
}

// checkAccessRules enforces spec.md §4.4's comptime/test-context
// symbol access rule: a comptime-only or test-only symbol cannot be
// read from ordinary runtime code.
func (b *Binder) checkAccessRules(base *ast.BaseNode, sym *symbol) {
	if sym.comptimeOnly && !b.inComptime {
		b.log.Error(diagnostics.PhaseBinder, diagnostics.NAM004, &base.Span,
			"comptime symbol %q read outside a comptime context", sym.name)
	}
	if sym.testOnly && !b.inTest {
		b.log.Error(diagnostics.PhaseBinder, diagnostics.NAM005, &base.Span,
			"test-context symbol %q read outside a test function", sym.name)
	}
}

// resolveThis resolves `this` to the nearest enclosing method's
// receiver; NAM003-class misuse (no enclosing method) is reported once
// the checker sees a nil Resolved on a ThisExpr.
func (b *Binder) resolveThis(scope *Scope, e *ast.ThisExpr) {
	if fn := ast.FindEnclosingFunc(scope.node); fn != nil {
		e.Base().Resolved = fn
	}
}

// resolveSuper records the *enclosing class* as Resolved (spec.md §4.4
// step 3), or reports NAM003 outside a class. It does not compute
// Depth: SuperExpr.Depth keeps its constructor value of 1 ("immediate
// superclass"), and the checker types `super` as that class's
// immediate base.
func (b *Binder) resolveSuper(scope *Scope, e *ast.SuperExpr) {
	if class := ast.FindEnclosingClass(scope.node); class != nil {
		e.Base().Resolved = class
		return
	}
	b.log.Error(diagnostics.PhaseBinder, diagnostics.NAM003, &e.Span,
		"super used outside a class method")
}

func (b *Binder) resolveClosure(scope *Scope, c *ast.ClosureExpr) {
	closureScope := b.pushClosureScope(scope, c)
	for _, p := range c.Params {
		closureScope.Declare(p.Name, symVar, p)
		if p.Default != nil {
			b.resolveExpr(scope, p.Default)
		}
	}
	b.resolveBlock(closureScope, c.Body)
	c.CaptureNames = dedupe(c.CaptureNames)
}

// recordCaptureIfNeeded appends name to the nearest enclosing
// ClosureExpr's CaptureNames if the resolved symbol lives in a scope
// outside that closure's own body (spec.md §4.4 step 5, "closure
// capture analysis with synthetic field allocation").
func (b *Binder) recordCaptureIfNeeded(refScope, declScope *Scope, name string) {
	closure := enclosingClosureScope(refScope)
	if closure == nil {
		return
	}
	if scopeContains(closure, declScope) {
		return // declared inside the closure itself; not a capture
	}
	ce, ok := closure.node.(*ast.ClosureExpr)
	if !ok {
		return
	}
	ce.CaptureNames = append(ce.CaptureNames, name)
}

// enclosingClosureScope returns the nearest ancestor scope marking a
// closure boundary, stopping at the first enclosing FuncDecl boundary
// (a closure never captures past the function it's nested directly
// in without going through its own parent closure first).
func enclosingClosureScope(s *Scope) *Scope {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.isClosure {
			return sc
		}
		if sc.isFunc {
			return nil
		}
	}
	return nil
}

// scopeContains reports whether target is inner (or equal to) outer.
func scopeContains(outer, target *Scope) bool {
	for sc := target; sc != nil; sc = sc.parent {
		if sc == outer {
			return true
		}
	}
	return false
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
</content>
