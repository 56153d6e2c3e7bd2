package comptime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
	"github.com/dccarter/cxy/internal/types"
)

// maxUnroll bounds #for/#while iteration so a non-terminating fold
// cannot hang the compiler; spec.md §4.5 leaves the exact bound
// unspecified (Open Question), so a generous but finite cap is used.
const maxUnroll = 4096

// Evaluator folds #if/#for/#while/#const, type introspection, and
// macro expansion over an already-parsed AST (spec.md §4.5). It is a
// tree-rewriting pass, not a runtime interpreter: EvalExpr only ever
// produces Values for literal-foldable expressions and type queries,
// never general side effects.
type Evaluator struct {
	log    *diagnostics.Log
	table  *types.Table
	env    *Env
	macros map[string]*ast.MacroDecl

	// named holds the type checker's name -> resolved-type bindings
	// (struct/class/enum/alias declarations) as they are checked, so a
	// `Type::member` introspection path can resolve Type before its
	// declaration's own body has finished checking.
	named map[string]*types.Type

	// guard prevents infinite recursion through generic instantiation
	// that re-enters the evaluator on the same key (spec.md §4.5
	// "reentrancy guard").
	guard map[string]bool
}

// New creates an Evaluator over the given type table. macros maps
// macro name to its declaration, gathered by the binder/driver before
// comptime folding runs.
func New(log *diagnostics.Log, table *types.Table, macros map[string]*ast.MacroDecl) *Evaluator {
	return &Evaluator{
		log:    log,
		table:  table,
		env:    NewEnv(),
		macros: macros,
		named:  make(map[string]*types.Type),
		guard:  make(map[string]bool),
	}
}

// RegisterType records name as resolving to t, so that later
// `name.member`/`name::member` introspection expressions can find it.
// The type checker calls this as it finishes each type declaration.
func (e *Evaluator) RegisterType(name string, t *types.Type) {
	e.named[name] = t
}

// Enter registers a generic-instantiation key for the duration of fn,
// reporting CTM004 and refusing to re-enter if key is already active.
func (e *Evaluator) Enter(key string, span *token.Span, fn func()) {
	if e.guard[key] {
		e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM004, span,
			"comptime recursion guard tripped instantiating %q", key)
		return
	}
	e.guard[key] = true
	defer delete(e.guard, key)
	fn()
}

// FoldBlock rewrites b's statement list in place, splicing the result
// of every #if/#for/#while/#const fold into the surrounding list and
// recursing into every nested block.
func (e *Evaluator) FoldBlock(b *ast.Block) {
	if b == nil {
		return
	}
	out := make([]ast.Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		out = append(out, e.foldStmt(s)...)
	}
	b.Stmts = out
}

func (e *Evaluator) foldStmt(s ast.Stmt) []ast.Stmt {
	switch t := s.(type) {
	case *ast.HashIf:
		return e.foldHashIf(t)
	case *ast.HashFor:
		return e.foldHashFor(t)
	case *ast.HashWhile:
		return e.foldHashWhile(t)
	case *ast.HashConst:
		v := e.EvalExpr(t.Init)
		if _, isErr := v.(ErrorValue); isErr {
			e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM001, spanOf(t.Init),
				"#const %s initializer is not foldable", t.Name)
			return []ast.Stmt{ast.NewNoop(t.Span)}
		}
		e.env.Set(t.Name, v)
		return []ast.Stmt{ast.NewNoop(t.Span)}

	case *ast.IfStmt:
		e.foldExprField(&t.Cond)
		e.FoldBlock(t.Then)
		if blk, ok := t.Else.(*ast.Block); ok {
			e.FoldBlock(blk)
		} else if nested, ok := t.Else.(*ast.IfStmt); ok {
			e.foldStmt(nested)
		}
		return []ast.Stmt{t}
	case *ast.WhileStmt:
		e.foldExprField(&t.Cond)
		e.FoldBlock(t.Body)
		return []ast.Stmt{t}
	case *ast.ForStmt:
		e.foldExprField(&t.Range)
		e.FoldBlock(t.Body)
		return []ast.Stmt{t}
	case *ast.MatchStmt:
		e.foldExprField(&t.Scrutinee)
		for _, c := range t.Cases {
			if c.Guard != nil {
				e.foldExprField(&c.Guard)
			}
			e.FoldBlock(c.Body)
		}
		return []ast.Stmt{t}
	case *ast.ExprStmt:
		e.foldExprField(&t.X)
		return []ast.Stmt{t}
	case *ast.ReturnStmt:
		if t.Value != nil {
			e.foldExprField(&t.Value)
		}
		return []ast.Stmt{t}
	case *ast.DeferStmt:
		e.foldExprField(&t.Value)
		return []ast.Stmt{t}
	case *ast.VarDeclStmt:
		if vd, ok := t.Decl.(*ast.VarDecl); ok && vd.Init != nil {
			e.foldExprField(&vd.Init)
		}
		return []ast.Stmt{t}
	default:
		return []ast.Stmt{s}
	}
}

func (e *Evaluator) foldHashIf(h *ast.HashIf) []ast.Stmt {
	v := e.EvalExpr(h.Cond)
	cond, ok := truthy(v)
	if !ok {
		e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM001, spanOf(h.Cond),
			"#if condition is not a foldable boolean expression")
		return []ast.Stmt{ast.NewNoop(h.Span)}
	}
	if cond {
		e.FoldBlock(h.Then)
		return h.Then.Stmts
	}
	switch els := h.Else.(type) {
	case nil:
		return []ast.Stmt{ast.NewNoop(h.Span)}
	case *ast.Block:
		e.FoldBlock(els)
		return els.Stmts
	case *ast.HashIf:
		return e.foldHashIf(els)
	default:
		return []ast.Stmt{ast.NewNoop(h.Span)}
	}
}

func (e *Evaluator) foldHashFor(h *ast.HashFor) []ast.Stmt {
	items, ok := e.rangeItems(h.Range)
	if !ok {
		e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM001, spanOf(h.Range),
			"#for range is not foldable to a literal range or member list")
		return []ast.Stmt{ast.NewNoop(h.Span)}
	}
	if len(items) > maxUnroll {
		e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM003, spanOf(h.Range),
			"#for unroll count %d exceeds the compiler limit", len(items))
		return []ast.Stmt{ast.NewNoop(h.Span)}
	}
	var out []ast.Stmt
	outer := e.env
	for _, item := range items {
		e.env = outer.Child()
		e.env.Set(h.Var, item)
		body := cloneBlock(h.Body)
		substituteIdent(body, h.Var, valueToExpr(h.Span, item))
		e.FoldBlock(body)
		out = append(out, body.Stmts...)
	}
	e.env = outer
	return out
}

func (e *Evaluator) foldHashWhile(h *ast.HashWhile) []ast.Stmt {
	var out []ast.Stmt
	for i := 0; i < maxUnroll; i++ {
		v := e.EvalExpr(h.Cond)
		cond, ok := truthy(v)
		if !ok {
			e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM001, spanOf(h.Cond),
				"#while condition is not a foldable boolean expression")
			return []ast.Stmt{ast.NewNoop(h.Span)}
		}
		if !cond {
			return out
		}
		body := cloneBlock(h.Body)
		e.FoldBlock(body)
		out = append(out, body.Stmts...)
	}
	e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM003, spanOf(h.Cond),
		"#while did not terminate within %d iterations", maxUnroll)
	return out
}

// rangeItems resolves a #for range clause to a concrete item list: a
// literal integer RangeExpr unrolls to one IntValue per step, anything
// else is evaluated once and, if it is a ListValue (e.g. `T.members`),
// unrolled over its elements.
func (e *Evaluator) rangeItems(rng ast.Expr) ([]Value, bool) {
	if r, ok := rng.(*ast.RangeExpr); ok {
		lo := e.EvalExpr(r.Lo)
		hi := e.EvalExpr(r.Hi)
		loI, ok1 := lo.(IntValue)
		hiI, ok2 := hi.(IntValue)
		if !ok1 || !ok2 {
			return nil, false
		}
		n := hiI.V - loI.V
		if n < 0 {
			n = 0
		}
		items := make([]Value, 0, n)
		for i := loI.V; i < hiI.V; i++ {
			items = append(items, IntValue{V: i})
		}
		return items, true
	}
	v := e.EvalExpr(rng)
	if lst, ok := v.(ListValue); ok {
		return lst.Elements, true
	}
	return nil, false
}

// foldExprField replaces *pp with its folded form when foldable,
// leaving it unchanged (just recursing into children) otherwise.
func (e *Evaluator) foldExprField(pp *ast.Expr) {
	if pp == nil || *pp == nil {
		return
	}
	*pp = e.foldExpr(*pp)
}

// foldExpr recurses into expr's subexpressions and, for macro calls,
// performs expansion. It deliberately does NOT fold every arithmetic
// subexpression into a literal in place; constant folding for the
// type checker's benefit happens through EvalExpr where a comptime
// position (condition, range, #const initializer) requires a Value.
func (e *Evaluator) foldExpr(expr ast.Expr) ast.Expr {
	switch t := expr.(type) {
	case *ast.MacroCallExpr:
		if isReservedMacroName(t.Name) {
			// `__async` and friends are synthesized by the parser for
			// the shaker to lower (spec.md §4.2); they are never
			// user-declared macros, so expandMacro must not see them.
			for i := range t.Args {
				e.foldExprField(&t.Args[i])
			}
			return t
		}
		expanded := e.expandMacro(t)
		if expanded == nil {
			return ast.NewErrorNode(t.Span)
		}
		return e.foldExpr(expanded)
	case *ast.BinaryExpr:
		e.foldExprField(&t.Left)
		e.foldExprField(&t.Right)
		return t
	case *ast.UnaryExpr:
		e.foldExprField(&t.Operand)
		return t
	case *ast.CallExpr:
		e.foldExprField(&t.Callee)
		for i := range t.Args {
			e.foldExprField(&t.Args[i])
		}
		return t
	case *ast.IndexExpr:
		e.foldExprField(&t.Target)
		e.foldExprField(&t.Index)
		return t
	case *ast.FieldExpr:
		e.foldExprField(&t.Target)
		return t
	case *ast.CastExpr:
		e.foldExprField(&t.Operand)
		return t
	case *ast.TernaryExpr:
		e.foldExprField(&t.Cond)
		e.foldExprField(&t.Then)
		e.foldExprField(&t.Else)
		return t
	case *ast.TupleExpr:
		for i := range t.Elements {
			e.foldExprField(&t.Elements[i])
		}
		return t
	case *ast.ArrayExpr:
		for i := range t.Elements {
			e.foldExprField(&t.Elements[i])
		}
		return t
	case *ast.RangeExpr:
		e.foldExprField(&t.Lo)
		e.foldExprField(&t.Hi)
		return t
	case *ast.ClosureExpr:
		e.FoldBlock(t.Body)
		return t
	default:
		return expr
	}
}

// isReservedMacroName reports whether name belongs to the shaker, not
// a user-declared macro: the parser emits `__async!(...)` for the
// `async` statement (spec.md §4.2), and any other `__`-prefixed macro
// call is reserved the same way.
func isReservedMacroName(name string) bool {
	return strings.HasPrefix(name, "__")
}

// expandMacro substitutes call-site argument expressions for a
// macro's declared parameters into a fresh copy of its body, returning
// the last expression statement's expression as the call's result
// (spec.md §4.5 "Macro expansion"). A variadic trailing parameter
// (`...name`) binds the remaining call-site arguments as a TupleExpr.
func (e *Evaluator) expandMacro(call *ast.MacroCallExpr) ast.Expr {
	decl, ok := e.macros[call.Name]
	if !ok {
		e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM003, spanOf(call),
			"unknown macro %q", call.Name)
		return nil
	}

	key := "macro:" + call.Name
	var result ast.Expr
	e.Enter(key, spanOf(call), func() {
		required := decl.Params
		variadic := false
		if n := len(required); n > 0 && required[n-1].Flags.Has(ast.Variadic) {
			variadic = true
			required = required[:n-1]
		}
		if len(call.Args) < len(required) || (!variadic && len(call.Args) != len(decl.Params)) {
			e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM003, spanOf(call),
				"macro %q called with %d arguments, expected %d", call.Name, len(call.Args), len(decl.Params))
			return
		}

		body := cloneBlock(decl.Body)
		for i, p := range required {
			substituteIdent(body, p.Name, call.Args[i])
		}
		if variadic {
			rest := append([]ast.Expr(nil), call.Args[len(required):]...)
			substituteIdent(body, decl.Params[len(decl.Params)-1].Name, ast.NewTupleExpr(call.Span, rest))
		}

		result = lastExprOf(body)
	})
	if result == nil {
		return ast.NewNoop(call.Span)
	}
	return result
}

// lastExprOf returns the expression of body's final ExprStmt, the
// macro body's yielded value, or a Noop if the body has no trailing
// expression statement.
func lastExprOf(body *ast.Block) ast.Expr {
	if len(body.Stmts) == 0 {
		return ast.NewNoop(body.Span)
	}
	if es, ok := body.Stmts[len(body.Stmts)-1].(*ast.ExprStmt); ok {
		return es.X
	}
	return ast.NewNoop(body.Span)
}

// EvalExpr folds a literal-foldable expression to a Value. It returns
// ErrorValue for anything not foldable: a non-constant operand, an
// unsupported operator, or an unresolved identifier.
func (e *Evaluator) EvalExpr(expr ast.Expr) Value {
	switch t := expr.(type) {
	case *ast.IntLiteral:
		n, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			return ErrorValue{Message: "malformed integer literal " + t.Text}
		}
		return IntValue{V: n}
	case *ast.FloatLiteral:
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return ErrorValue{Message: "malformed float literal " + t.Text}
		}
		return FloatValue{V: f}
	case *ast.BoolLiteral:
		return BoolValue{V: t.Value}
	case *ast.StringLiteral:
		return StringValue{V: t.Raw}
	case *ast.Identifier:
		if v, ok := e.env.Get(t.Name); ok {
			return v
		}
		return ErrorValue{Message: "unbound comptime identifier " + t.Name}
	case *ast.UnaryExpr:
		return e.evalUnary(t)
	case *ast.BinaryExpr:
		return e.evalBinary(t)
	case *ast.TernaryExpr:
		c := e.EvalExpr(t.Cond)
		cb, ok := truthy(c)
		if !ok {
			return ErrorValue{Message: "ternary condition is not foldable"}
		}
		if cb {
			return e.EvalExpr(t.Then)
		}
		return e.EvalExpr(t.Else)
	case *ast.FieldExpr:
		return e.evalFieldIntrospect(t)
	case *ast.Path:
		return e.evalPathIntrospect(t)
	case *ast.MacroCallExpr:
		expanded := e.expandMacro(t)
		if expanded == nil {
			return ErrorValue{Message: "macro " + t.Name + " did not expand"}
		}
		return e.EvalExpr(expanded)
	default:
		return ErrorValue{Message: "expression is not foldable at compile time"}
	}
}

func (e *Evaluator) evalUnary(u *ast.UnaryExpr) Value {
	v := e.EvalExpr(u.Operand)
	switch u.Op {
	case token.MINUS:
		switch n := v.(type) {
		case IntValue:
			return IntValue{V: -n.V}
		case FloatValue:
			return FloatValue{V: -n.V}
		}
	case token.NOT:
		if b, ok := v.(BoolValue); ok {
			return BoolValue{V: !b.V}
		}
	case token.TILDE:
		if n, ok := v.(IntValue); ok {
			return IntValue{V: ^n.V}
		}
	}
	return ErrorValue{Message: "unary operator not foldable on " + v.Kind()}
}

func (e *Evaluator) evalBinary(b *ast.BinaryExpr) Value {
	l := e.EvalExpr(b.Left)
	r := e.EvalExpr(b.Right)
	li, lIsInt := l.(IntValue)
	ri, rIsInt := r.(IntValue)
	if lIsInt && rIsInt {
		switch b.Op {
		case token.PLUS:
			return IntValue{V: li.V + ri.V}
		case token.MINUS:
			return IntValue{V: li.V - ri.V}
		case token.STAR:
			return IntValue{V: li.V * ri.V}
		case token.SLASH:
			if ri.V == 0 {
				return ErrorValue{Message: "division by zero"}
			}
			return IntValue{V: li.V / ri.V}
		case token.PERCENT:
			if ri.V == 0 {
				return ErrorValue{Message: "division by zero"}
			}
			return IntValue{V: li.V % ri.V}
		case token.AMP:
			return IntValue{V: li.V & ri.V}
		case token.PIPE:
			return IntValue{V: li.V | ri.V}
		case token.CARET:
			return IntValue{V: li.V ^ ri.V}
		case token.SHL:
			return IntValue{V: li.V << uint(ri.V)}
		case token.SHR:
			return IntValue{V: li.V >> uint(ri.V)}
		case token.EQ:
			return BoolValue{V: li.V == ri.V}
		case token.NEQ:
			return BoolValue{V: li.V != ri.V}
		case token.LT:
			return BoolValue{V: li.V < ri.V}
		case token.LTE:
			return BoolValue{V: li.V <= ri.V}
		case token.GT:
			return BoolValue{V: li.V > ri.V}
		case token.GTE:
			return BoolValue{V: li.V >= ri.V}
		}
	}
	lb, lIsBool := l.(BoolValue)
	rb, rIsBool := r.(BoolValue)
	if lIsBool && rIsBool {
		switch b.Op {
		case token.AND_AND:
			return BoolValue{V: lb.V && rb.V}
		case token.OR_OR:
			return BoolValue{V: lb.V || rb.V}
		case token.EQ:
			return BoolValue{V: lb.V == rb.V}
		case token.NEQ:
			return BoolValue{V: lb.V != rb.V}
		}
	}
	ls, lIsStr := l.(StringValue)
	rs, rIsStr := r.(StringValue)
	if lIsStr && rIsStr {
		switch b.Op {
		case token.PLUS:
			return StringValue{V: ls.V + rs.V}
		case token.EQ:
			return BoolValue{V: ls.V == rs.V}
		case token.NEQ:
			return BoolValue{V: ls.V != rs.V}
		}
	}
	return ErrorValue{Message: fmt.Sprintf("operator %s not foldable on %s and %s", b.Op, l.Kind(), r.Kind())}
}

// evalFieldIntrospect handles `expr.member` where expr folds to a
// TypeValue or names a registered type, e.g. `T.isInteger`.
func (e *Evaluator) evalFieldIntrospect(f *ast.FieldExpr) Value {
	t, ok := e.resolveTypeOperand(f.Target)
	if !ok {
		return ErrorValue{Message: "member access target is not a type"}
	}
	return e.introspectReport(t, f.Name, f)
}

// evalPathIntrospect handles a two-element Path `Type::member` form.
func (e *Evaluator) evalPathIntrospect(p *ast.Path) Value {
	if len(p.Elements) != 2 {
		return ErrorValue{Message: "path is not a type introspection reference"}
	}
	t, ok := e.named[p.Elements[0].Name]
	if !ok {
		return ErrorValue{Message: "unknown type " + p.Elements[0].Name}
	}
	return e.introspectReport(t, p.Elements[1].Name, p)
}

// resolveTypeOperand evaluates target to a TypeValue, either by
// folding it directly (`T.Tinfo.member`) or by treating a bare
// identifier as a registered type name (`T.member`).
func (e *Evaluator) resolveTypeOperand(target ast.Expr) (*types.Type, bool) {
	if id, ok := target.(*ast.Identifier); ok {
		if t, ok := e.named[id.Name]; ok {
			return t, true
		}
	}
	v := e.EvalExpr(target)
	tv, ok := v.(TypeValue)
	if !ok {
		return nil, false
	}
	return tv.T, true
}

func (e *Evaluator) introspectReport(t *types.Type, member string, n ast.Node) Value {
	result := Introspect(t, member)
	if _, isErr := result.(ErrorValue); isErr {
		e.log.Error(diagnostics.PhaseComptime, diagnostics.CTM002, spanOf(n),
			"type %s does not support introspection member %q", t.String(), member)
	}
	return result
}

func spanOf(n ast.Node) *token.Span {
	s := n.Base().Span
	return &s
}
