package shaker

import (
	"fmt"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/token"
)

// autoType is the placeholder type annotation for a capture field whose
// concrete type the checker fills in from the captured variable's type
// (spec.md's Auto type variant, glossary).
func autoType(span token.Span) ast.TypeAst {
	return ast.NewPathTypeAst(span, []string{"auto"}, nil)
}

func voidPtrType(span token.Span) ast.TypeAst {
	return ast.NewPointerTypeAst(span, ast.NewPrimitiveTypeAst(span, "void"), false)
}

// shakeClosure is spec.md §4.6.6: a closure expression becomes a
// struct carrying its captures, an `op_call` method holding the
// original body, a forward trampoline so the closure can be invoked
// through a uniform `(^void, params...) -> R` function pointer, and a
// struct-literal construction at the original use site. The generated
// struct and trampoline always belong at file scope, so they are
// appended to s.generated rather than returned here.
func (s *Shaker) shakeClosure(c *ast.ClosureExpr) ast.Expr {
	s.closureN++
	name := fmt.Sprintf("CXY__closure%d", s.closureN)
	span := c.Span

	fields := make([]ast.Decl, 0, len(c.CaptureNames))
	for _, capture := range c.CaptureNames {
		fields = append(fields, ast.NewField(span, capture, autoType(span)))
	}

	for _, p := range c.Params {
		p.TypeExpr = shakeType(p.TypeExpr)
		if p.Default != nil {
			p.Default = s.shakeExpr(p.Default)
		}
	}
	retType := shakeType(c.ReturnType)
	s.shakeBlock(c.Body)
	rewriteBlockCaptures(c.Body, c.CaptureNames)

	opCall := ast.NewFuncDecl(span, "op_call")
	opCall.Receiver = ast.NewPathTypeAst(span, []string{name}, nil)
	opCall.Params = c.Params
	opCall.ReturnType = retType
	opCall.Body = c.Body

	structDecl := ast.NewStructDecl(span, name)
	structDecl.Members = append(fields, opCall)
	s.generated = append(s.generated, structDecl)

	s.generated = append(s.generated, s.closureTrampoline(name, span, c.Params, retType))

	fieldInits := make([]*ast.StructFieldInit, 0, len(c.CaptureNames))
	for _, capture := range c.CaptureNames {
		fieldInits = append(fieldInits, ast.NewStructFieldInit(span, capture, ast.NewIdentifier(span, capture)))
	}
	return ast.NewStructExpr(span, ast.NewPathTypeAst(span, []string{name}, nil), fieldInits)
}

// closureTrampoline builds the `(^void, params...) -> R` function that
// casts its opaque self pointer back to ^<name> and forwards to
// op_call, so a closure value can be passed anywhere a plain function
// pointer is expected.
func (s *Shaker) closureTrampoline(name string, span token.Span, params []*ast.Param, ret ast.TypeAst) *ast.FuncDecl {
	fwd := ast.NewFuncDecl(span, name+"_forward")
	selfParam := ast.NewParam(span, "self", voidPtrType(span))
	fwdParams := make([]*ast.Param, 0, len(params)+1)
	fwdParams = append(fwdParams, selfParam)
	callArgs := make([]ast.Expr, 0, len(params))
	for _, p := range params {
		fwdParams = append(fwdParams, ast.NewParam(span, p.Name, p.TypeExpr))
		callArgs = append(callArgs, ast.NewIdentifier(span, p.Name))
	}
	fwd.Params = fwdParams
	fwd.ReturnType = ret

	castSelf := ast.NewCastExpr(span, ast.NewIdentifier(span, "self"),
		ast.NewPointerTypeAst(span, ast.NewPathTypeAst(span, []string{name}, nil), false))
	call := ast.NewCallExpr(span, ast.NewFieldExpr(span, castSelf, "op_call", false), callArgs)
	fwd.Body = ast.NewBlock(span, []ast.Stmt{ast.NewReturnStmt(span, call)})
	return fwd
}

// rewriteBlockCaptures replaces bare identifier references to a
// captured name with `this.name` throughout body, now that the
// closure body lives inside op_call.
func rewriteBlockCaptures(b *ast.Block, captures []string) {
	if b == nil || len(captures) == 0 {
		return
	}
	set := make(map[string]bool, len(captures))
	for _, c := range captures {
		set[c] = true
	}
	for _, stmt := range b.Stmts {
		rewriteStmtCaptures(stmt, set)
	}
	for i, e := range b.DeferredExprs {
		b.DeferredExprs[i] = rewriteExprCaptures(e, set)
	}
}

func rewriteStmtCaptures(stmt ast.Stmt, set map[string]bool) {
	switch t := stmt.(type) {
	case *ast.ExprStmt:
		t.X = rewriteExprCaptures(t.X, set)
	case *ast.ReturnStmt:
		if t.Value != nil {
			t.Value = rewriteExprCaptures(t.Value, set)
		}
	case *ast.VarDeclStmt:
		if vd, ok := t.Decl.(*ast.VarDecl); ok && vd.Init != nil {
			vd.Init = rewriteExprCaptures(vd.Init, set)
		}
	case *ast.IfStmt:
		t.Cond = rewriteExprCaptures(t.Cond, set)
		rewriteBlockCaptures(t.Then, keys(set))
		switch e := t.Else.(type) {
		case *ast.Block:
			rewriteBlockCaptures(e, keys(set))
		case *ast.IfStmt:
			rewriteStmtCaptures(e, set)
		}
	case *ast.WhileStmt:
		t.Cond = rewriteExprCaptures(t.Cond, set)
		rewriteBlockCaptures(t.Body, keys(set))
	case *ast.ForStmt:
		t.Range = rewriteExprCaptures(t.Range, set)
		rewriteBlockCaptures(t.Body, keys(set))
	case *ast.MatchStmt:
		t.Scrutinee = rewriteExprCaptures(t.Scrutinee, set)
		for _, c := range t.Cases {
			rewriteBlockCaptures(c.Body, keys(set))
		}
	}
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func rewriteExprCaptures(expr ast.Expr, set map[string]bool) ast.Expr {
	switch t := expr.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		if set[t.Name] {
			return ast.NewFieldExpr(t.Span, ast.NewThisExpr(t.Span), t.Name, false)
		}
		return t
	case *ast.BinaryExpr:
		t.Left = rewriteExprCaptures(t.Left, set)
		t.Right = rewriteExprCaptures(t.Right, set)
		return t
	case *ast.UnaryExpr:
		t.Operand = rewriteExprCaptures(t.Operand, set)
		return t
	case *ast.CallExpr:
		t.Callee = rewriteExprCaptures(t.Callee, set)
		for i := range t.Args {
			t.Args[i] = rewriteExprCaptures(t.Args[i], set)
		}
		return t
	case *ast.IndexExpr:
		t.Target = rewriteExprCaptures(t.Target, set)
		t.Index = rewriteExprCaptures(t.Index, set)
		return t
	case *ast.FieldExpr:
		t.Target = rewriteExprCaptures(t.Target, set)
		return t
	case *ast.CastExpr:
		t.Operand = rewriteExprCaptures(t.Operand, set)
		return t
	case *ast.IsExpr:
		t.Operand = rewriteExprCaptures(t.Operand, set)
		return t
	case *ast.TernaryExpr:
		t.Cond = rewriteExprCaptures(t.Cond, set)
		t.Then = rewriteExprCaptures(t.Then, set)
		t.Else = rewriteExprCaptures(t.Else, set)
		return t
	case *ast.TupleExpr:
		for i := range t.Elements {
			t.Elements[i] = rewriteExprCaptures(t.Elements[i], set)
		}
		return t
	case *ast.ArrayExpr:
		for i := range t.Elements {
			t.Elements[i] = rewriteExprCaptures(t.Elements[i], set)
		}
		return t
	case *ast.StructExpr:
		for _, fi := range t.Fields {
			fi.Value = rewriteExprCaptures(fi.Value, set)
		}
		return t
	case *ast.RangeExpr:
		t.Lo = rewriteExprCaptures(t.Lo, set)
		t.Hi = rewriteExprCaptures(t.Hi, set)
		return t
	default:
		return expr
	}
}
