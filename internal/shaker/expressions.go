package shaker

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
)

// shakeExpr recurses into expr's subexpressions, lowering string
// interpolation (#3), closures (#6), launch/async (#14), and
// validating the catch operator (#13) along the way.
func (s *Shaker) shakeExpr(expr ast.Expr) ast.Expr {
	switch t := expr.(type) {
	case nil:
		return nil
	case *ast.StringInterpExpr:
		return s.shakeStringInterp(t)
	case *ast.ClosureExpr:
		return s.shakeClosure(t)
	case *ast.CatchExpr:
		return s.shakeCatch(t)
	case *ast.BinaryExpr:
		t.Left = s.shakeExpr(t.Left)
		t.Right = s.shakeExpr(t.Right)
		return t
	case *ast.UnaryExpr:
		t.Operand = s.shakeExpr(t.Operand)
		return t
	case *ast.CallExpr:
		t.Callee = s.shakeExpr(t.Callee)
		for i := range t.Args {
			t.Args[i] = s.shakeExpr(t.Args[i])
		}
		return t
	case *ast.IndexExpr:
		t.Target = s.shakeExpr(t.Target)
		t.Index = s.shakeExpr(t.Index)
		return t
	case *ast.FieldExpr:
		t.Target = s.shakeExpr(t.Target)
		return t
	case *ast.CastExpr:
		t.Operand = s.shakeExpr(t.Operand)
		t.Target = shakeType(t.Target)
		return t
	case *ast.IsExpr:
		t.Operand = s.shakeExpr(t.Operand)
		t.Target = shakeType(t.Target)
		return t
	case *ast.TernaryExpr:
		t.Cond = s.shakeExpr(t.Cond)
		t.Then = s.shakeExpr(t.Then)
		t.Else = s.shakeExpr(t.Else)
		return t
	case *ast.TupleExpr:
		for i := range t.Elements {
			t.Elements[i] = s.shakeExpr(t.Elements[i])
		}
		return t
	case *ast.ArrayExpr:
		for i := range t.Elements {
			t.Elements[i] = s.shakeExpr(t.Elements[i])
		}
		return t
	case *ast.StructExpr:
		t.Target = shakeType(t.Target)
		for _, fi := range t.Fields {
			fi.Value = s.shakeExpr(fi.Value)
		}
		return t
	case *ast.RangeExpr:
		t.Lo = s.shakeExpr(t.Lo)
		t.Hi = s.shakeExpr(t.Hi)
		return t
	case *ast.NewExpr:
		t.Target = shakeType(t.Target)
		for i := range t.Args {
			t.Args[i] = s.shakeExpr(t.Args[i])
		}
		return t
	case *ast.DeleteExpr:
		t.Operand = s.shakeExpr(t.Operand)
		return t
	case *ast.AwaitExpr:
		t.Operand = s.shakeExpr(t.Operand)
		return t
	case *ast.LaunchExpr:
		return s.shakeLaunch(t)
	case *ast.RaiseExpr:
		t.Value = s.shakeExpr(t.Value)
		return t
	case *ast.MacroCallExpr:
		return s.shakeMacroCall(t)
	default:
		return expr
	}
}

// shakeStringInterp is spec.md §4.6.3. The spec phrases the lowering
// as a temp declaration followed by a `<<` statement per part/value,
// then "reads the result path"; a left-associative `<<` chain rooted
// at a fresh `String()` is the same computation expressed as a single
// expression, which keeps the rewrite local to the expression position
// it was found in rather than requiring every caller of shakeExpr to
// also accept spliced statements.
func (s *Shaker) shakeStringInterp(si *ast.StringInterpExpr) ast.Expr {
	var acc ast.Expr = ast.NewCallExpr(si.Span, ast.NewIdentifier(si.Span, "String"), nil)
	for i, part := range si.Parts {
		if part != "" {
			acc = ast.NewBinaryExpr(si.Span, token.SHL, acc, ast.NewStringLiteral(si.Span, part))
		}
		if i < len(si.Exprs) {
			acc = ast.NewBinaryExpr(si.Span, token.SHL, acc, s.shakeExpr(si.Exprs[i]))
		}
	}
	return acc
}

// shakeCatch is spec.md §4.6.13: the catch block must yield a value
// (end in an expression statement) compatible with the left operand's
// success type; the checker verifies the type, the shaker verifies the
// shape.
func (s *Shaker) shakeCatch(c *ast.CatchExpr) ast.Expr {
	c.Left = s.shakeExpr(c.Left)
	s.shakeBlock(c.Block)
	if len(c.Block.Stmts) == 0 {
		s.log.Error(diagnostics.PhaseShaker, diagnostics.SHK002, spanOf(c),
			"catch block must yield a value")
		return c
	}
	if _, ok := c.Block.Stmts[len(c.Block.Stmts)-1].(*ast.ExprStmt); !ok {
		s.log.Error(diagnostics.PhaseShaker, diagnostics.SHK002, spanOf(c),
			"catch block's final statement must be a yielding expression")
	}
	return c
}

// shakeLaunch is spec.md §4.2: `launch E` rewrites to a call to
// `__thread_launch(closure_with_body(E))`. The parser already wrapped E
// in a zero-param closure so its captures were analyzed at bind time;
// shaking that closure here gives the same generated-struct lowering
// an ordinary closure expression gets.
func (s *Shaker) shakeLaunch(l *ast.LaunchExpr) ast.Expr {
	closure, ok := l.Body.(*ast.ClosureExpr)
	if !ok {
		s.log.Error(diagnostics.PhaseShaker, diagnostics.SHK003, spanOf(l),
			"malformed launch expression")
		return l
	}
	body := s.shakeClosure(closure)
	return ast.NewCallExpr(l.Span, ast.NewIdentifier(l.Span, "__thread_launch"), []ast.Expr{body})
}

// shakeMacroCall lowers the parser's reserved `__async!(closure)` call
// (spec.md §4.2 "async statement") into a call to the `__async_spawn`
// runtime entry point; every other macro call has already been
// expanded by internal/comptime before the shaker runs, so it is only
// ever recursed into, never reinterpreted here.
func (s *Shaker) shakeMacroCall(m *ast.MacroCallExpr) ast.Expr {
	if m.Name == "__async" {
		closure, ok := m.Args[0].(*ast.ClosureExpr)
		if !ok {
			s.log.Error(diagnostics.PhaseShaker, diagnostics.SHK003, spanOf(m),
				"malformed async statement")
			return m
		}
		body := s.shakeClosure(closure)
		return ast.NewCallExpr(m.Span, ast.NewIdentifier(m.Span, "__async_spawn"), []ast.Expr{body})
	}
	for i := range m.Args {
		m.Args[i] = s.shakeExpr(m.Args[i])
	}
	return m
}
