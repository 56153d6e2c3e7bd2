package shaker

import (
	"strconv"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
)

// shakeBlock rewrites b.Stmts in place, splicing in any temporaries a
// transform needs hoisted into the enclosing block (multi-var
// declarations, hoisted if/while conditions, hoisted match
// scrutinees) and moving defer statements onto b.DeferredExprs
// (spec.md §4.6.2). No later pass materializes them at the block's
// exits.
func (s *Shaker) shakeBlock(b *ast.Block) {
	if b == nil {
		return
	}
	out := make([]ast.Stmt, 0, len(b.Stmts))
	for _, stmt := range b.Stmts {
		out = append(out, s.shakeStmt(b, stmt)...)
	}
	b.Stmts = out
}

func (s *Shaker) shakeStmt(owner *ast.Block, stmt ast.Stmt) []ast.Stmt {
	switch t := stmt.(type) {
	case *ast.VarDeclStmt:
		return s.shakeVarDeclStmt(t)
	case *ast.DeferStmt:
		owner.DeferredExprs = append(owner.DeferredExprs, s.shakeExpr(t.Value))
		return nil
	case *ast.ExprStmt:
		if raise, ok := t.X.(*ast.RaiseExpr); ok {
			return []ast.Stmt{s.shakeRaise(raise)}
		}
		t.X = s.shakeExpr(t.X)
		return []ast.Stmt{t}
	case *ast.ReturnStmt:
		if t.Value != nil {
			t.Value = s.shakeExpr(t.Value)
		}
		return []ast.Stmt{t}
	case *ast.IfStmt:
		return s.shakeIf(t)
	case *ast.WhileStmt:
		return s.shakeWhile(t)
	case *ast.ForStmt:
		t.Range = s.shakeExpr(t.Range)
		s.shakeBlock(t.Body) // Body is always a *ast.Block already (spec.md §4.6.4)
		return []ast.Stmt{t}
	case *ast.MatchStmt:
		return s.shakeMatch(t)
	case *ast.BreakStmt, *ast.ContinueStmt:
		return []ast.Stmt{t}
	default:
		return []ast.Stmt{t}
	}
}

// shakeVarDeclStmt is spec.md §4.6.1. `var a, b = (x, y)` (a literal
// tuple initializer) expands directly to individual declarations; any
// other initializer is hoisted into one temp and the names read its
// tuple elements by index. `_` names are dropped.
func (s *Shaker) shakeVarDeclStmt(vd *ast.VarDeclStmt) []ast.Stmt {
	multi, ok := vd.Decl.(*ast.MultiVarDecl)
	if !ok {
		if single, ok := vd.Decl.(*ast.VarDecl); ok {
			single.TypeExpr = shakeType(single.TypeExpr)
			if single.Init != nil {
				single.Init = s.shakeExpr(single.Init)
			}
		}
		return []ast.Stmt{vd}
	}

	init := s.shakeExpr(multi.Init)
	if tup, ok := init.(*ast.TupleExpr); ok {
		if len(tup.Elements) != len(multi.Names) {
			s.log.Error(diagnostics.PhaseShaker, diagnostics.SHK001, spanOf(multi),
				"multi-variable declaration names %d variables but the initializer has %d elements",
				len(multi.Names), len(tup.Elements))
		}
		var out []ast.Stmt
		for i, name := range multi.Names {
			if name == "_" || i >= len(tup.Elements) {
				continue
			}
			out = append(out, ast.NewVarDeclStmt(multi.Span, ast.NewVarDecl(multi.Span, name, nil, tup.Elements[i])))
		}
		return out
	}

	tempName := s.freshTemp()
	out := []ast.Stmt{
		ast.NewVarDeclStmt(multi.Span, ast.NewVarDecl(multi.Span, tempName, nil, init)),
	}
	for i, name := range multi.Names {
		if name == "_" {
			continue
		}
		idx := ast.NewFieldExpr(multi.Span, ast.NewIdentifier(multi.Span, tempName), indexFieldName(i), false)
		out = append(out, ast.NewVarDeclStmt(multi.Span, ast.NewVarDecl(multi.Span, name, nil, idx)))
	}
	return out
}

// indexFieldName is the tuple-member-access field name the checker
// resolves against a tuple's positional members (e.g. a 2-tuple's
// `.0`/`.1` fields).
func indexFieldName(i int) string {
	return strconv.Itoa(i)
}

// shakeIf is spec.md §4.6.5: a condition that is not already a bare
// identifier is hoisted into a temp declared immediately before the
// `if`, and Cond becomes a reference to that temp.
func (s *Shaker) shakeIf(ifs *ast.IfStmt) []ast.Stmt {
	var hoisted []ast.Stmt
	ifs.Cond, hoisted = s.hoistCond(ifs.Cond)
	s.shakeBlock(ifs.Then)
	switch e := ifs.Else.(type) {
	case *ast.Block:
		s.shakeBlock(e)
	case *ast.IfStmt:
		nested := s.shakeIf(e)
		if len(nested) == 1 {
			ifs.Else = nested[0]
		} else {
			ifs.Else = ast.NewBlock(e.Span, nested)
		}
	}
	return append(hoisted, ifs)
}

func (s *Shaker) shakeWhile(w *ast.WhileStmt) []ast.Stmt {
	var hoisted []ast.Stmt
	w.Cond, hoisted = s.hoistCond(w.Cond)
	s.shakeBlock(w.Body)
	return append(hoisted, w)
}

// hoistCond implements the condition-hoisting half of spec.md §4.6.5,
// shared by if/while: a bare identifier needs no temp.
func (s *Shaker) hoistCond(cond ast.Expr) (ast.Expr, []ast.Stmt) {
	cond = s.shakeExpr(cond)
	if _, ok := cond.(*ast.Identifier); ok {
		return cond, nil
	}
	name := s.freshTemp()
	decl := ast.NewVarDeclStmt(spanOfExpr(cond), ast.NewVarDecl(spanOfExpr(cond), name, nil, cond))
	return ast.NewIdentifier(spanOfExpr(cond), name), []ast.Stmt{decl}
}

// shakeMatch is spec.md §4.6.11: the scrutinee is hoisted into a temp
// so it is always an l-value, however complex the original expression.
func (s *Shaker) shakeMatch(m *ast.MatchStmt) []ast.Stmt {
	scrutinee := s.shakeExpr(m.Scrutinee)
	var hoisted []ast.Stmt
	if _, ok := scrutinee.(*ast.Identifier); !ok {
		name := s.freshTemp()
		hoisted = append(hoisted, ast.NewVarDeclStmt(m.Span, ast.NewVarDecl(m.Span, name, nil, scrutinee)))
		scrutinee = ast.NewIdentifier(m.Span, name)
	}
	m.Scrutinee = scrutinee
	for _, c := range m.Cases {
		if c.Guard != nil {
			c.Guard = s.shakeExpr(c.Guard)
		}
		s.shakeBlock(c.Body)
	}
	return append(hoisted, m)
}

// shakeRaise is spec.md §4.6.10: `raise e;` becomes `return e as
// Exception;`. No source-location tracing is attached to the return,
// here or in any later pass.
func (s *Shaker) shakeRaise(r *ast.RaiseExpr) ast.Stmt {
	value := s.shakeExpr(r.Value)
	cast := ast.NewCastExpr(r.Span, value, ast.NewPathTypeAst(r.Span, []string{"Exception"}, nil))
	return ast.NewReturnStmt(r.Span, cast)
}
