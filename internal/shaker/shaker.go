// Package shaker implements the AST-lowering pass of spec.md §4.6: it
// runs after binding and before type-checking, desugaring surface
// syntax (multi-var declarations, string interpolation, closures,
// exceptions, tests, variadics, raise, match, catch) into the smaller
// grammar the checker understands. Every transform rewrites the tree
// in place or splices replacement nodes into the surrounding
// statement/declaration list, mirroring internal/comptime's
// fold-and-splice shape.
package shaker

import (
	"fmt"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
)

// Shaker holds the counters needed to mint fresh, collision-free names
// for hoisted temporaries, closure structs, and test functions.
type Shaker struct {
	log *diagnostics.Log

	tempN    int
	closureN int
	testN    int

	// generated collects top-level declarations synthesized while
	// walking into nested function bodies (closure structs and their
	// forward trampolines): these always belong at file scope, however
	// deeply the closure that produced them is nested.
	generated []ast.Decl

	// testCases names every testN() function the TestDecl transform
	// produced, for the module-level allTestCases array (spec.md
	// §4.6.9).
	testCases []string
}

// New creates a Shaker.
func New(log *diagnostics.Log) *Shaker {
	return &Shaker{log: log}
}

// TestCases returns the generated test function names gathered during
// the most recent ShakeFile call.
func (s *Shaker) TestCases() []string { return s.testCases }

func (s *Shaker) freshTemp() string {
	s.tempN++
	return fmt.Sprintf("_t%d", s.tempN)
}

// ShakeFile rewrites every declaration in f in place, then appends any
// synthesized top-level declarations (closure structs/trampolines) to
// f.Decls.
func (s *Shaker) ShakeFile(f *ast.File) {
	out := make([]ast.Decl, 0, len(f.Decls))
	for _, d := range f.Decls {
		out = append(out, s.shakeDecl(d)...)
	}
	out = append(out, s.generated...)
	s.generated = nil
	f.Decls = out
}

func (s *Shaker) shakeDecl(d ast.Decl) []ast.Decl {
	switch t := d.(type) {
	case *ast.FuncDecl:
		s.shakeFunc(t)
		return []ast.Decl{t}
	case *ast.VarDecl:
		if t.Init != nil {
			t.Init = s.shakeExpr(t.Init)
		}
		t.TypeExpr = shakeType(t.TypeExpr)
		return []ast.Decl{t}
	case *ast.StructDecl:
		s.shakeMembers(t.Members)
		return []ast.Decl{t}
	case *ast.ClassDecl:
		t.Base = shakeType(t.Base)
		for i, iface := range t.Interfaces {
			t.Interfaces[i] = shakeType(iface)
		}
		s.shakeMembers(t.Members)
		return []ast.Decl{t}
	case *ast.TraitDecl:
		for _, m := range t.Methods {
			s.shakeFunc(m)
		}
		return []ast.Decl{t}
	case *ast.EnumDecl:
		t.Base = shakeType(t.Base)
		return []ast.Decl{t}
	case *ast.TypeAliasDecl:
		t.Target = shakeType(t.Target)
		return []ast.Decl{t}
	case *ast.ExceptionDecl:
		return []ast.Decl{s.shakeException(t)}
	case *ast.TestDecl:
		return []ast.Decl{s.shakeTest(t)}
	case *ast.MacroDecl:
		return []ast.Decl{t}
	default:
		return []ast.Decl{d}
	}
}

func (s *Shaker) shakeMembers(members []ast.Decl) {
	for _, m := range members {
		switch t := m.(type) {
		case *ast.FuncDecl:
			s.shakeFunc(t)
		case *ast.Field:
			t.TypeExpr = shakeType(t.TypeExpr)
			if t.Default != nil {
				t.Default = s.shakeExpr(t.Default)
			}
		}
	}
}

// shakeFunc applies transform #7 (variadic → generic parameter) and
// then shakes the body, if any.
func (s *Shaker) shakeFunc(f *ast.FuncDecl) {
	f.ReturnType = shakeType(f.ReturnType)
	for _, p := range f.Params {
		p.TypeExpr = shakeType(p.TypeExpr)
		if p.Default != nil {
			p.Default = s.shakeExpr(p.Default)
		}
	}
	s.shakeVariadicParam(f)
	if f.Body != nil {
		s.shakeBlock(f.Body)
	}
}

// shakeVariadicParam is spec.md §4.6.7: a trailing `...x: T` parameter
// becomes a generic `_Variadic : T` parameter on the enclosing
// declaration, with InferIndex recording x's original fixed position
// so the checker's generic-instantiation pass can still pull an
// explicit type argument from the right slot.
func (s *Shaker) shakeVariadicParam(f *ast.FuncDecl) {
	if !f.IsVariadic() {
		return
	}
	last := f.Params[len(f.Params)-1]
	last.InferIndex = len(f.Params) - 1
	f.Generics = append(f.Generics, ast.NewGenericParam(last.Span, "_Variadic", last.TypeExpr))
}
