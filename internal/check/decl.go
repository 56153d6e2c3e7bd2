package check

import (
	"sort"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/types"
)

// declareShell registers an empty, name-only *types.Type for every
// declaration that can be referenced by name before its body is fully
// resolved (spec.md §4.7 "forward visibility between mutually
// recursive declarations"). types.Table's named-aggregate kinds key
// their hash-cons entry on Name alone (types.Type.String()), so the
// *types.Type returned here is the same pointer fillDecl later mutates
// in place — no second Table call is needed or correct.
func (c *Checker) declareShell(d ast.Decl) {
	switch n := d.(type) {
	case *ast.StructDecl:
		c.registerNamed(n.Name, c.aggregateShell(n.Name, n.Generics, types.KStruct))
	case *ast.ClassDecl:
		c.registerNamed(n.Name, c.aggregateShell(n.Name, n.Generics, types.KClass))
	case *ast.TraitDecl:
		c.registerNamed(n.Name, c.aggregateShell(n.Name, n.Generics, types.KInterface))
	case *ast.EnumDecl:
		c.registerNamed(n.Name, c.table.Enum(n.Name, nil))
	case *ast.TypeAliasDecl:
		c.registerNamed(n.Name, c.aggregateShell(n.Name, n.Generics, types.KAlias))
	}
}

// aggregateShell builds the empty interned body for kind, wrapping it
// in a KGeneric placeholder when the declaration carries type
// parameters so resolvePathType's Apply path has a generic to
// instantiate.
func (c *Checker) aggregateShell(name string, generics []*ast.GenericParam, kind types.Kind) *types.Type {
	var body *types.Type
	switch kind {
	case types.KStruct:
		body = c.table.Struct(name, nil)
	case types.KClass:
		body = c.table.Class(name, nil, nil, nil, false)
	case types.KInterface:
		body = c.table.Interface(name, nil)
	case types.KAlias:
		body = c.table.Alias(name, nil)
	}
	if len(generics) == 0 {
		return body
	}
	placeholders := c.genericParamPlaceholders(generics)
	return c.table.Generic(name, c.typeGenericParams(generics, placeholders), body)
}

// shellBody unwraps a possibly-generic shell to the underlying
// aggregate *types.Type whose Members/Base/Ifaces/Target fields
// fillDecl mutates.
func shellBody(t *types.Type) *types.Type {
	if t.Kind == types.KGeneric {
		return t.Body
	}
	return t
}

func (c *Checker) genericParamPlaceholders(gs []*ast.GenericParam) map[string]*types.Type {
	if len(gs) == 0 {
		return nil
	}
	m := make(map[string]*types.Type, len(gs))
	for _, g := range gs {
		m[g.Name] = genericParamPlaceholder(g.Name)
	}
	return m
}

func (c *Checker) typeGenericParams(gs []*ast.GenericParam, placeholders map[string]*types.Type) []types.GenericParam {
	out := make([]types.GenericParam, len(gs))
	for i, g := range gs {
		var constraint *types.Type
		if g.Constraint != nil {
			constraint = c.ResolveType(g.Constraint, placeholders)
		}
		out[i] = types.GenericParam{Name: g.Name, Constraint: constraint}
	}
	return out
}

// fillDecl populates the shell declareShell created (or, for
// declarations with no forward-visibility need, builds the type
// outright) and checks non-body-level subexpressions (field
// defaults' declared types, enum option values).
func (c *Checker) fillDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.StructDecl:
		placeholders := c.genericParamPlaceholders(n.Generics)
		body := shellBody(c.named[n.Name])
		body.Members = sortMembers(c.buildMembers(n.Members, placeholders))
		c.registerNamed(n.Name, c.named[n.Name])
	case *ast.ClassDecl:
		placeholders := c.genericParamPlaceholders(n.Generics)
		body := shellBody(c.named[n.Name])
		if n.Base != nil {
			body.Base = c.ResolveType(n.Base, placeholders)
		}
		body.Ifaces = make([]*types.Type, len(n.Interfaces))
		for i, ifc := range n.Interfaces {
			body.Ifaces[i] = c.ResolveType(ifc, placeholders)
		}
		body.Abstract = n.Flags.Has(ast.Abstract)
		body.Members = sortMembers(c.buildMembers(n.Members, placeholders))
		c.registerNamed(n.Name, c.named[n.Name])
	case *ast.TraitDecl:
		placeholders := c.genericParamPlaceholders(n.Generics)
		body := shellBody(c.named[n.Name])
		members := make([]types.Member, len(n.Methods))
		for i, m := range n.Methods {
			members[i] = c.funcMember(m, placeholders)
		}
		body.Members = sortMembers(members)
		c.registerNamed(n.Name, c.named[n.Name])
	case *ast.EnumDecl:
		shell := c.named[n.Name]
		opts := make([]types.EnumOption, len(n.Options))
		next := int64(0)
		for i, o := range n.Options {
			val := next
			if o.Value != nil {
				val = int64(c.constIntValue(o.Value))
			}
			opts[i] = types.EnumOption{Name: o.Name, Value: val}
			next = val + 1
		}
		shell.Options = opts
		c.registerNamed(n.Name, shell)
	case *ast.TypeAliasDecl:
		placeholders := c.genericParamPlaceholders(n.Generics)
		body := shellBody(c.named[n.Name])
		body.Target = c.ResolveType(n.Target, placeholders)
		c.registerNamed(n.Name, c.named[n.Name])
	case *ast.FuncDecl:
		c.buildFuncSignature(n, nil)
	case *ast.VarDecl:
		if n.TypeExpr != nil {
			setType(n, c.ResolveType(n.TypeExpr, nil))
		}
	case *ast.MacroDecl:
		// Macro bodies are fully consumed at call sites by
		// internal/comptime before the checker ever runs; the
		// declaration itself has nothing left to type.
	}
}

// buildMembers types every Field/method/static-var of an aggregate's
// member list. Field order in the source is preserved by the AST
// member list itself; the returned slice is sorted separately for the type table's hash-cons
// key (spec.md §3.2).
func (c *Checker) buildMembers(decls []ast.Decl, placeholders map[string]*types.Type) []types.Member {
	var out []types.Member
	for _, d := range decls {
		switch m := d.(type) {
		case *ast.Field:
			ft := c.ResolveType(m.TypeExpr, placeholders)
			setType(m, ft)
			out = append(out, types.Member{Name: m.Name, Type: ft, Public: m.Flags.Has(ast.Public)})
		case *ast.FuncDecl:
			out = append(out, c.funcMember(m, placeholders))
		case *ast.VarDecl:
			var ft *types.Type
			if m.TypeExpr != nil {
				ft = c.ResolveType(m.TypeExpr, placeholders)
			} else {
				ft = c.table.AutoType()
			}
			setType(m, ft)
			out = append(out, types.Member{Name: m.Name, Type: ft, Public: m.Flags.Has(ast.Public)})
		}
	}
	return out
}

// funcMember builds fn's func-type signature and wraps it as a member
// entry, used for both concrete methods and trait method signatures.
func (c *Checker) funcMember(fn *ast.FuncDecl, placeholders map[string]*types.Type) types.Member {
	ft := c.buildFuncSignature(fn, placeholders)
	return types.Member{
		Name:    fn.Name,
		Type:    ft,
		Method:  true,
		Public:  fn.Flags.Has(ast.Public),
		Virtual: fn.Flags.Has(ast.Virtual),
	}
}

// buildFuncSignature resolves fn's parameter and return types,
// stashes the resulting func type on fn itself (so a later call site
// can read it back via typeOf without re-resolving), and returns it.
func (c *Checker) buildFuncSignature(fn *ast.FuncDecl, placeholders map[string]*types.Type) *types.Type {
	if placeholders == nil {
		placeholders = c.genericParamPlaceholders(fn.Generics)
	}
	params := make([]*types.Type, len(fn.Params))
	for i, p := range fn.Params {
		pt := c.ResolveType(p.TypeExpr, placeholders)
		setType(p, pt)
		params[i] = pt
	}
	ret := c.ResolveType(fn.ReturnType, placeholders)
	ft := c.table.Func(params, ret, fn.IsVariadic())
	setType(fn, ft)
	return ft
}

// overloadsOf collects every sibling FuncDecl sharing fn's name in
// fn's declaring container. internal/binder's Scope/symbol tree does
// not survive past bind time (ephemeral, unexported, and its `decl`
// field only ever points at the first-declared overload anyway), but
// the binder does leave fn.Base().ParentScope pointing at exactly the
// right container — the *ast.File for a free function, or the owning
// *ast.StructDecl/*ast.ClassDecl/*ast.TraitDecl for a method — so the
// checker rebuilds the overload view itself by rescanning it.
func (c *Checker) overloadsOf(fn *ast.FuncDecl) []*ast.FuncDecl {
	switch p := fn.Base().ParentScope.(type) {
	case *ast.File:
		return funcDeclsNamed(p.Decls, fn.Name)
	case *ast.StructDecl:
		return funcDeclsNamed(p.Members, fn.Name)
	case *ast.ClassDecl:
		return funcDeclsNamed(p.Members, fn.Name)
	case *ast.TraitDecl:
		var out []*ast.FuncDecl
		for _, m := range p.Methods {
			if m.Name == fn.Name {
				out = append(out, m)
			}
		}
		return out
	default:
		return []*ast.FuncDecl{fn}
	}
}

func funcDeclsNamed(decls []ast.Decl, name string) []*ast.FuncDecl {
	var out []*ast.FuncDecl
	for _, d := range decls {
		if f, ok := d.(*ast.FuncDecl); ok && f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

func sortMembers(members []types.Member) []types.Member {
	out := append([]types.Member(nil), members...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
