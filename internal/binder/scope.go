// Package binder resolves every name reference in a Cxy AST to its
// declaration, builds the overload-chain for each function name, and
// performs closure-capture analysis, following spec.md §4.4.
package binder

import "github.com/dccarter/cxy/internal/ast"

// symbolKind distinguishes what a Scope entry names, so the binder
// can enforce comptime/test-context access rules without a second
// table.
type symbolKind int

const (
	symVar symbolKind = iota
	symFunc
	symType
	symGenericParam
)

// symbol is one name binding recorded in a Scope.
type symbol struct {
	name    string
	kind    symbolKind
	decl    ast.Node
	// overloads accumulates every ast.FuncDecl sharing this name in
	// this scope, forming the overload chain spec.md §4.4/§4.7
	// resolves against (distinct function arities/parameter types
	// sharing one surface name).
	overloads []*ast.FuncDecl

	comptimeOnly bool // read by the NAM004 check; nothing sets it
	testOnly     bool // read by the NAM005 check; nothing sets it
}

// Scope is one lexical block's symbol table, chained to its parent so
// lookup walks outward to the enclosing function, then module, then
// import scope (spec.md §4.4).
type Scope struct {
	parent   *Scope
	symbols  map[string]*symbol
	isFunc   bool // function-body scope: closure capture stops walking past this
	isClosure bool
	node     ast.Node // the Block/FuncDecl/ClosureExpr this scope belongs to
}

// NewRootScope creates the top-level scope for a file, holding its
// imports and top-level declarations.
func NewRootScope() *Scope {
	return &Scope{symbols: make(map[string]*symbol)}
}

// Push creates a child scope nested inside s.
func (s *Scope) Push(node ast.Node) *Scope {
	return &Scope{parent: s, symbols: make(map[string]*symbol), node: node}
}

// PushFunc creates a child scope marking a function-body boundary,
// which closure-capture walks (FindEnclosingClosure's binder-side
// counterpart) must not cross.
func (s *Scope) PushFunc(node ast.Node) *Scope {
	sc := s.Push(node)
	sc.isFunc = true
	return sc
}

// PushClosure creates a child scope marking a closure-body boundary.
func (s *Scope) PushClosure(node ast.Node) *Scope {
	sc := s.Push(node)
	sc.isClosure = true
	return sc
}

// Declare binds name to decl in s. For symFunc, repeated declarations
// accumulate into one overload chain instead of shadowing
// (spec.md §4.4 "overload-chain construction"); every other kind
// replaces an existing binding of the same name in the same scope, and
// no diagnostic (NAM006 included) is reported for that.
func (s *Scope) Declare(name string, kind symbolKind, decl ast.Node) *symbol {
	if existing, ok := s.symbols[name]; ok && kind == symFunc && existing.kind == symFunc {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			existing.overloads = append(existing.overloads, fd)
		}
		return existing
	}
	sym := &symbol{name: name, kind: kind, decl: decl}
	if kind == symFunc {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			sym.overloads = []*ast.FuncDecl{fd}
		}
	}
	s.symbols[name] = sym
	return sym
}

// Lookup finds name in s or any ancestor scope, returning the scope it
// was found in alongside the symbol (the scope is needed by closure
// capture to tell whether the binding lives outside the nearest
// enclosing closure).
func (s *Scope) Lookup(name string) (*symbol, *Scope) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, sc
		}
	}
	return nil, nil
}

// EnclosingFunc returns the nearest ancestor scope marking a function
// or closure-body boundary, or nil at the root.
func (s *Scope) EnclosingFunc() *Scope {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.isFunc || sc.isClosure {
			return sc
		}
	}
	return nil
}
</content>
