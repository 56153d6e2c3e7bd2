package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dccarter/cxy/internal/arena"
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/binder"
	"github.com/dccarter/cxy/internal/check"
	"github.com/dccarter/cxy/internal/comptime"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/lexer"
	"github.com/dccarter/cxy/internal/parser"
	"github.com/dccarter/cxy/internal/preprocess"
	"github.com/dccarter/cxy/internal/shaker"
	"github.com/dccarter/cxy/internal/types"
)

// Driver owns the module cache and runs the per-file compile pipeline
// (spec.md §4.8): preprocess → lex → parse → bind(imports then file)
// → comptime fold → shake → type check, recursing into each import
// before binding the importing file so every imported name has a
// resolvable export table by the time it's needed.
type Driver struct {
	Log *diagnostics.Log
	cfg *Config

	arena *arena.Arena
	table *types.Table

	// chk is shared across every file compiled in this run: a type
	// declared in one module must stay visible by name to every module
	// that imports it, and types.Table's hash-consing is itself only
	// global if one Checker's `named` registry backs the whole run.
	chk *check.Checker

	mu    sync.Mutex
	cache map[string]*Module // absolute path -> record
	stack []string           // ancestor chain, for cycle detection

	macros map[string]*ast.MacroDecl

	// csyms accumulates @define/@cDefine/@cInclude/@cSources across
	// every file compiled in this run, since the preprocessor's table
	// is explicitly shared across the whole compilation unit rather
	// than reset per file (spec.md §4.9).
	csyms *preprocess.Symbols

	// CLibs/CSrcPaths collect `@cBuild(":clib"|":src", "…")` attribute
	// arguments from every compiled declaration, for the backend link
	// step (spec.md §4.8 "native sources and link libraries").
	CLibs     []string
	CSrcPaths []string

	plugins *PluginRegistry
}

// New creates a Driver bound to cfg, reporting through log.
func New(cfg *Config, log *diagnostics.Log) *Driver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	syms := preprocess.NewSymbols()
	for name, val := range cfg.Defines {
		syms.Define(name, val)
	}
	a := arena.New()
	tbl := types.NewTable()
	plugins := NewPluginRegistry()
	plugins.bind(a, tbl)
	return &Driver{
		Log:     log,
		cfg:     cfg,
		arena:   a,
		table:   tbl,
		chk:     check.New(log, tbl),
		cache:   make(map[string]*Module),
		macros:  make(map[string]*ast.MacroDecl),
		csyms:   syms,
		plugins: plugins,
	}
}

// Plugins exposes the driver's plugin registry so `import plugin`
// declarations can be serviced at parse/bind time (spec.md §4.10).
func (d *Driver) Plugins() *PluginRegistry { return d.plugins }

// Table returns the shared type table every compiled file's checker
// pass resolves against.
func (d *Driver) Table() *types.Table { return d.table }

// Checker returns the shared checker instance, for callers (tests,
// plugin wiring) that need to resolve a type outside the normal
// per-file compile pipeline.
func (d *Driver) Checker() *check.Checker { return d.chk }

// CompileFile is the top-level entry point: it compiles path and,
// transitively, every module it imports, returning the completed
// record for path itself.
func (d *Driver) CompileFile(path string) (*Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}
	return d.compile(abs)
}

// compile runs the pipeline for abs, or returns the cached/in-progress
// record if abs has already been entered. A module still InProgress on
// re-entry is returned as-is (its exports filled in so far) rather than
// erroring, so mutual import recursion between two modules resolves
// structurally; see DESIGN.md for why the driver does not attempt to
// distinguish a "true" unresolvable cycle from benign recursion here —
// that distinction is left to the binder/checker once both sides have
// at least their declaration *shapes* visible.
func (d *Driver) compile(abs string) (*Module, error) {
	d.mu.Lock()
	if rec, ok := d.cache[abs]; ok {
		d.mu.Unlock()
		return rec, nil
	}
	rec := &Module{Path: abs, State: InProgress}
	d.cache[abs] = rec
	d.stack = append(d.stack, abs)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.stack = d.stack[:len(d.stack)-1]
		d.mu.Unlock()
	}()

	if err := d.compileInto(rec); err != nil {
		rec.State = Failed
		return rec, err
	}
	rec.State = Done
	return rec, nil
}

// compileInto runs preprocess/lex/parse/bind/comptime/shake over the
// file at rec.Path, loading every import along the way.
func (d *Driver) compileInto(rec *Module) error {
	raw, err := os.ReadFile(rec.Path)
	if err != nil {
		d.Log.Error(diagnostics.PhaseDriver, diagnostics.MOD001, nil,
			"cannot read module %q: %v", rec.Path, err)
		return err
	}

	expander := preprocess.NewExpander(d.csyms, d.Log)
	src := expander.Expand(string(raw), rec.Path)

	lex := lexer.New(src, rec.Path, d)
	p := parser.New(lex, d.Log, rec.Path)
	f := p.Parse()
	rec.File = f
	rec.Dependencies = importPaths(f)

	b := binder.New(d.Log)
	for _, imp := range f.Imports {
		if imp.Plugin {
			if err := d.plugins.Load(imp.Path, imp.Alias); err != nil {
				d.Log.Error(diagnostics.PhasePlugin, diagnostics.PLG001, &imp.Span,
					"failed to load plugin %q: %v", imp.Path, err)
			}
			continue
		}
		depPath, err := d.resolveImport(imp.Path, rec.Path)
		if err != nil {
			d.Log.Error(diagnostics.PhaseDriver, diagnostics.MOD001, &imp.Span,
				"module not found: %s", imp.Path)
			continue
		}
		rec.ResolvedDeps = append(rec.ResolvedDeps, depPath)
		depRec, err := d.compile(depPath)
		if err != nil {
			continue
		}
		exports := depRec.Exports
		if len(imp.Symbols) > 0 {
			exports = selectSymbols(depRec.Exports, imp.Symbols)
		}
		b.DeclareImported(b.RootScope(), exports)
	}

	for _, decl := range f.Decls {
		if md, ok := decl.(*ast.MacroDecl); ok {
			d.macros[md.Name] = md
		}
	}

	b.BindFile(f)
	rec.Exports = collectExports(f)

	ev := comptime.New(d.Log, d.table, d.macros)
	foldFileBodies(ev, f)

	sh := shaker.New(d.Log)
	sh.ShakeFile(f)

	d.chk.SetEvaluator(ev)
	d.chk.CheckFile(f)

	d.collectNativeBuild(f)

	return nil
}

// foldFileBodies drives comptime.FoldBlock over every function/macro
// body in f, recursing into struct/class/trait members for methods
// (comptime only exposes a per-block entry point; spec.md §4.5).
func foldFileBodies(ev *comptime.Evaluator, f *ast.File) {
	for _, d := range f.Decls {
		foldDeclBodies(ev, d)
	}
}

func foldDeclBodies(ev *comptime.Evaluator, d ast.Decl) {
	switch t := d.(type) {
	case *ast.FuncDecl:
		ev.FoldBlock(t.Body)
	case *ast.MacroDecl:
		ev.FoldBlock(t.Body)
	case *ast.ExceptionDecl:
		ev.FoldBlock(t.What)
	case *ast.StructDecl:
		for _, m := range t.Members {
			foldDeclBodies(ev, m)
		}
	case *ast.ClassDecl:
		for _, m := range t.Members {
			foldDeclBodies(ev, m)
		}
	case *ast.TraitDecl:
		for _, m := range t.Methods {
			ev.FoldBlock(m.Body)
		}
	}
}

// selectSymbols narrows exports down to the selective `import { a, b }
// from path` list.
func selectSymbols(exports map[string]ast.Decl, symbols []string) map[string]ast.Decl {
	out := make(map[string]ast.Decl, len(symbols))
	for _, name := range symbols {
		if d, ok := exports[name]; ok {
			out[name] = d
		}
	}
	return out
}

// resolveImport turns an import path into an absolute file path,
// searching (in order) relative imports against the importing file's
// directory, the stdlib path, and the configured search paths —
// following the teacher's loader.resolvePath, renamed from `.ail` to
// `.cxy` and from AILANG_PATH/AILANG_STDLIB to CXY_PATH/CXY_STDLIB
// (applied in Config, not here).
func (d *Driver) resolveImport(importPath, fromFile string) (string, error) {
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		dir := filepath.Dir(fromFile)
		path := withExt(filepath.Join(dir, importPath))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
		return "", fmt.Errorf("module not found: %s", path)
	}

	if strings.HasPrefix(importPath, "std/") {
		path := withExt(filepath.Join(d.cfg.StdlibPath, strings.TrimPrefix(importPath, "std/")))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
		return "", fmt.Errorf("stdlib module not found: %s", importPath)
	}

	root := filepath.Dir(fromFile)
	for _, searchPath := range d.cfg.expandSearchPaths(root) {
		path := withExt(filepath.Join(searchPath, importPath))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
	}

	return "", fmt.Errorf("module not found in search paths: %s", importPath)
}

func withExt(path string) string {
	if strings.HasSuffix(path, ".cxy") {
		return path
	}
	return path + ".cxy"
}

// ReadInclude implements lexer.Includer, per spec.md §4.1's "nested
// include pushdown": a relative `include "path"` is tried as given
// first, then joined to each configured search path in order. Glob
// patterns in SearchPaths are not expanded here and the stdlib path is
// not searched.
func (d *Driver) ReadInclude(path string) (string, string, error) {
	resolved := path
	if !filepath.IsAbs(resolved) {
		if _, err := os.Stat(resolved); err != nil {
			for _, searchPath := range d.cfg.SearchPaths {
				candidate := filepath.Join(searchPath, path)
				if _, err := os.Stat(candidate); err == nil {
					resolved = candidate
					break
				}
			}
		}
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return "", "", err
	}
	abs, _ := filepath.Abs(resolved)
	return string(raw), abs, nil
}

// collectNativeBuild scans f's top-level declaration attributes for
// `@cBuild(":src"|":clib", "path")`, appending each path to the
// driver's CSrcPaths/CLibs for the backend's link step (spec.md §4.8).
func (d *Driver) collectNativeBuild(f *ast.File) {
	for _, decl := range f.Decls {
		for _, attr := range decl.Base().Attrs {
			if attr.Name != "cBuild" || len(attr.Args) != 2 {
				continue
			}
			kind, ok1 := attr.Args[0].(*ast.StringLiteral)
			path, ok2 := attr.Args[1].(*ast.StringLiteral)
			if !ok1 || !ok2 {
				continue
			}
			switch kind.Raw {
			case ":src":
				d.CSrcPaths = append(d.CSrcPaths, path.Raw)
			case ":clib":
				d.CLibs = append(d.CLibs, path.Raw)
			}
		}
	}
}

// GetDependencyGraph returns every compiled module's dependencies,
// resolved to absolute paths so the result is keyed and valued
// consistently for TopologicalSort.
func (d *Driver) GetDependencyGraph() map[string][]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	graph := make(map[string][]string, len(d.cache))
	for path, rec := range d.cache {
		graph[path] = rec.ResolvedDeps
	}
	return graph
}

// Modules returns every cached module record, for CLI dumps and tests.
func (d *Driver) Modules() map[string]*Module {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]*Module, len(d.cache))
	for k, v := range d.cache {
		out[k] = v
	}
	return out
}

// TopologicalSort orders every compiled module so each appears after
// all of its dependencies (build order), via Kahn's algorithm over the
// resolved dependency graph — ported from the teacher's
// loader.TopologicalSort, operating on absolute paths instead of
// declared module names.
func (d *Driver) TopologicalSort() ([]string, error) {
	graph := d.GetDependencyGraph()

	// remaining[path] counts path's not-yet-emitted dependencies;
	// dependents[dep] lists modules that depend on dep, so emitting dep
	// can decrement each of their remaining counts.
	remaining := make(map[string]int, len(graph))
	dependents := make(map[string][]string, len(graph))
	for path, deps := range graph {
		n := 0
		for _, dep := range deps {
			if _, ok := graph[dep]; ok {
				n++
				dependents[dep] = append(dependents[dep], path)
			}
		}
		remaining[path] = n
	}

	var queue []string
	for path, n := range remaining {
		if n == 0 {
			queue = append(queue, path)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		sort.Strings(queue)
		next := queue[0]
		queue = queue[1:]
		order = append(order, next)

		for _, dependent := range dependents[next] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(graph) {
		return nil, fmt.Errorf("import cycle detected among %d unresolved modules", len(graph)-len(order))
	}
	return order, nil
}

// DumpModules writes a one-line summary of every cached module to w,
// for CLI diagnostics (`cxy modules` or similar).
func (d *Driver) DumpModules(w io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	paths := make([]string, 0, len(d.cache))
	for path := range d.cache {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintln(w, d.cache[path].String())
	}
}
