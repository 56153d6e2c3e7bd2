// Package check implements the Cxy type checker (spec.md §4.7): it
// resolves every TypeAst the parser produced into a hash-consed
// *types.Type, builds a signature for every function/method, and walks
// each function body verifying assignability, overload resolution, and
// the result/catch rules the shaker's lowering already assumed were
// true. It runs after internal/shaker, as the last pass of the
// pipeline, following the teacher's own placement of its HM
// inference pass directly after desugaring.
package check

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/comptime"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
	"github.com/dccarter/cxy/internal/types"
)

// Checker holds the state shared across every file of one compilation:
// the type table (interning is global, spec.md §3.2) and the name
// registry type declarations are resolved against. A single Checker is
// meant to be reused across a driver's whole module graph, in
// dependency order, so a type declared in one module is already in
// `named` by the time an importing module's CheckFile runs.
type Checker struct {
	log   *diagnostics.Log
	table *types.Table

	// named maps a declared type name to its *types.Type. Populated in
	// two passes per file (declareShell, then fillDecl) so mutual
	// recursion between struct/class/interface declarations resolves
	// regardless of source order, and seeded at construction with the
	// handful of nominal types spec.md assumes exist without a visible
	// declaration (string, auto, Exception).
	named map[string]*types.Type

	// evaluator, if set, is told about each finished type declaration
	// so #type introspection macros folded by internal/comptime can
	// resolve it (comptime.Evaluator.RegisterType's own doc comment:
	// "The type checker calls this as it finishes each type
	// declaration").
	evaluator *comptime.Evaluator

	// enclosingFunc/enclosingClass track the innermost function and
	// class a body is being checked under, for return-type and
	// this/super typing.
	enclosingFunc  *ast.FuncDecl
	enclosingClass *types.Type
}

// New creates a Checker over table, pre-registering spec.md's built-in
// nominal types.
func New(log *diagnostics.Log, table *types.Table) *Checker {
	c := &Checker{
		log:   log,
		table: table,
		named: make(map[string]*types.Type),
	}
	c.seedBuiltins()
	return c
}

// SetEvaluator wires ev so finished type declarations are visible to
// comptime introspection; optional, nil-safe if never called.
func (c *Checker) SetEvaluator(ev *comptime.Evaluator) { c.evaluator = ev }

// Table exposes the shared type table, for callers (tests, the driver)
// that need to build a type outside the normal TypeAst-resolution path.
func (c *Checker) Table() *types.Table { return c.table }

// seedBuiltins registers the nominal types spec.md's surface syntax
// assumes without a corresponding declaration: `string`/`auto` are
// named directly in type-annotation position (parser/type.go excludes
// them from primitiveNames on purpose), every `exception` declaration's
// shaker-generated ClassDecl extends `Exception` (spec.md §4.6.8), and
// `launch`/async-statement lower (shaker/expressions.go shakeLaunch,
// shakeMacroCall) to calls against two runtime entry points that never
// appear as a source-level FuncDecl, so the checker has to know their
// shape by convention instead of by declaration.
func (c *Checker) seedBuiltins() {
	c.named["string"] = c.table.StringType()
	c.named["auto"] = c.table.AutoType()
	c.named["Exception"] = c.table.Exception("Exception", []types.Member{
		{Name: "what", Type: c.table.Func(nil, c.table.StringType(), false), Method: true, Public: true},
	}, "Exception")

	// Neither runtime entry point's result type can be known without
	// per-call generic inference over the wrapped closure's own return
	// type (Open Question, DESIGN.md); `auto` at least lets an
	// assignment or further expression involving the call through
	// rather than hard-erroring on every `launch`/async statement.
	runtimeCall := c.table.Func([]*types.Type{c.table.AutoType()}, c.table.AutoType(), false)
	c.named["__thread_launch"] = runtimeCall
	c.named["__async_spawn"] = runtimeCall
}

func (c *Checker) registerNamed(name string, t *types.Type) {
	c.named[name] = t
	if c.evaluator != nil {
		c.evaluator.RegisterType(name, t)
	}
}

func (c *Checker) errorf(span token.Span, code string, format string, args ...any) {
	c.log.Error(diagnostics.PhaseCheck, code, &span, format, args...)
}

// setType stashes t on n's BaseNode.Type, typed `any` to avoid the
// ast<->types import cycle (ast/ast.go's BaseNode.Type doc comment).
func setType(n ast.Node, t *types.Type) *types.Type {
	n.Base().Type = t
	return t
}

// typeOf reads back a *types.Type previously stored by setType, or nil
// if n has not been checked yet.
func typeOf(n ast.Node) *types.Type {
	if n == nil {
		return nil
	}
	t, _ := n.Base().Type.(*types.Type)
	return t
}

// CheckFile type-checks every top-level declaration in f in three
// passes (spec.md §4.7 "forward visibility between mutually recursive
// declarations"): declareShell creates an empty named *types.Type for
// every struct/class/interface so a sibling processed later in the same
// pass (or a field/parameter type earlier in source order) can already
// reference it; fillDecl then fills in members; checkDeclBody finally
// checks bodies.
func (c *Checker) CheckFile(f *ast.File) {
	for _, d := range f.Decls {
		c.declareShell(d)
	}
	for _, d := range f.Decls {
		c.fillDecl(d)
	}
	for _, d := range f.Decls {
		c.checkDeclBody(d)
	}
}
