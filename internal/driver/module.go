// Package driver implements the Cxy module cache and compilation
// pipeline of spec.md §4.8: preprocessor → lexer → parser → binder →
// comptime → shaker → checker per compiled file, with recursive module loading,
// cycle handling, and native build bookkeeping collected from
// `@cBuild`/`@cDefine`/`@cInclude`/`@cSources` for the backend.
//
// Grounded on the teacher's internal/module package (loader.go's
// cache+cycle-detection+dependency loading, resolver.go's search-path
// and stdlib resolution), generalized from AILANG's eager whole-module
// parse into Cxy's per-file compile-state cache keyed by absolute path
// rather than by declared module name.
package driver

import (
	"fmt"

	"github.com/dccarter/cxy/internal/ast"
)

// State is a module's compile-state, per spec.md §4.8's cache value
// `{ compile-state (NotStarted|InProgress|Done|Failed), exported-type,
// ast-root }`.
type State int

const (
	NotStarted State = iota
	InProgress
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case InProgress:
		return "InProgress"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Module is one compiled unit in the driver's cache: the absolute
// source path is its key, and its exports are computed from the
// top-level declarations marked `pub` (ast.Public) once parsing and
// binding have run far enough to know their names.
type Module struct {
	Path    string // absolute source file path, the cache key
	State   State
	File    *ast.File
	Exports map[string]ast.Decl

	// Dependencies are the import paths this module's File.Imports
	// named, in source order, as written in source (for display).
	Dependencies []string

	// ResolvedDeps are the same imports resolved to absolute paths,
	// matching the driver's cache keys, for TopologicalSort/
	// GetDependencyGraph.
	ResolvedDeps []string
}

// exportNames returns the declared name(s) a top-level Decl introduces,
// for the module's export table. A MultiVarDecl introduces several.
func exportNames(d ast.Decl) []string {
	switch t := d.(type) {
	case *ast.FuncDecl:
		return []string{t.Name}
	case *ast.VarDecl:
		return []string{t.Name}
	case *ast.MultiVarDecl:
		return append([]string(nil), t.Names...)
	case *ast.StructDecl:
		return []string{t.Name}
	case *ast.ClassDecl:
		return []string{t.Name}
	case *ast.EnumDecl:
		return []string{t.Name}
	case *ast.TraitDecl:
		return []string{t.Name}
	case *ast.TypeAliasDecl:
		return []string{t.Name}
	case *ast.MacroDecl:
		return []string{t.Name}
	case *ast.ExceptionDecl:
		return []string{t.Name}
	default:
		return nil
	}
}

// collectExports builds the export table from f's public top-level
// declarations (spec.md §4.8's "exported-type" half of the cache
// value). Test declarations are never exported: they only run in
// test-context (spec.md §4.2, ast.TestContext).
func collectExports(f *ast.File) map[string]ast.Decl {
	exports := make(map[string]ast.Decl)
	for _, d := range f.Decls {
		if !d.Base().Flags.Has(ast.Public) {
			continue
		}
		for _, name := range exportNames(d) {
			exports[name] = d
		}
	}
	return exports
}

func importPaths(f *ast.File) []string {
	paths := make([]string, 0, len(f.Imports))
	for _, imp := range f.Imports {
		if imp.Plugin {
			continue // plugin imports load a shared object, not a Cxy module
		}
		paths = append(paths, imp.Path)
	}
	return paths
}

// String renders a one-line summary, used by DumpModules.
func (m *Module) String() string {
	return fmt.Sprintf("%s [%s] exports=%d deps=%v", m.Path, m.State, len(m.Exports), m.Dependencies)
}
