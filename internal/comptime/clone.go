package comptime

import (
	"strconv"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/token"
)

// cloneBlock deep-copies a block so that each #for/#while unroll and
// each macro expansion gets its own independent statement tree: the
// same source body is folded and substituted once per iteration/call,
// so sharing nodes across iterations would let one iteration's fold
// clobber another's.
func cloneBlock(b *ast.Block) *ast.Block {
	if b == nil {
		return nil
	}
	stmts := make([]ast.Stmt, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = cloneStmt(s)
	}
	return ast.NewBlock(b.Span, stmts)
}

func cloneStmt(s ast.Stmt) ast.Stmt {
	switch t := s.(type) {
	case *ast.ExprStmt:
		return ast.NewExprStmt(t.Span, cloneExpr(t.X))
	case *ast.ReturnStmt:
		var v ast.Expr
		if t.Value != nil {
			v = cloneExpr(t.Value)
		}
		return ast.NewReturnStmt(t.Span, v)
	case *ast.DeferStmt:
		return ast.NewDeferStmt(t.Span, cloneExpr(t.Value))
	case *ast.BreakStmt:
		return ast.NewBreakStmt(t.Span)
	case *ast.ContinueStmt:
		return ast.NewContinueStmt(t.Span)
	case *ast.VarDeclStmt:
		if vd, ok := t.Decl.(*ast.VarDecl); ok {
			var init ast.Expr
			if vd.Init != nil {
				init = cloneExpr(vd.Init)
			}
			return ast.NewVarDeclStmt(t.Span, ast.NewVarDecl(vd.Span, vd.Name, vd.TypeExpr, init))
		}
		return t
	case *ast.IfStmt:
		var els ast.Node
		switch e := t.Else.(type) {
		case *ast.Block:
			els = cloneBlock(e)
		case *ast.IfStmt:
			els = cloneStmt(e)
		}
		return ast.NewIfStmt(t.Span, cloneExpr(t.Cond), cloneBlock(t.Then), els)
	case *ast.WhileStmt:
		return ast.NewWhileStmt(t.Span, cloneExpr(t.Cond), cloneBlock(t.Body))
	case *ast.ForStmt:
		var v *ast.VarDecl
		if t.Var != nil {
			v = ast.NewVarDecl(t.Var.Span, t.Var.Name, t.Var.TypeExpr, nil)
		}
		return ast.NewForStmt(t.Span, v, cloneExpr(t.Range), cloneBlock(t.Body))
	case *ast.MatchStmt:
		cases := make([]*ast.MatchCase, len(t.Cases))
		for i, c := range t.Cases {
			mc := ast.NewMatchCase(c.Span, c.Pattern, cloneBlock(c.Body))
			if c.Guard != nil {
				mc.Guard = cloneExpr(c.Guard)
			}
			cases[i] = mc
		}
		return ast.NewMatchStmt(t.Span, cloneExpr(t.Scrutinee), cases)
	default:
		return s
	}
}

func cloneExpr(e ast.Expr) ast.Expr {
	switch t := e.(type) {
	case nil:
		return nil
	case *ast.Identifier:
		return ast.NewIdentifier(t.Span, t.Name)
	case *ast.IntLiteral:
		return ast.NewIntLiteral(t.Span, t.Text, t.Suffix)
	case *ast.FloatLiteral:
		return ast.NewFloatLiteral(t.Span, t.Text, t.Suffix)
	case *ast.StringLiteral:
		return ast.NewStringLiteral(t.Span, t.Raw)
	case *ast.CharLiteral:
		return ast.NewCharLiteral(t.Span, t.Value)
	case *ast.BoolLiteral:
		return ast.NewBoolLiteral(t.Span, t.Value)
	case *ast.NullLiteral:
		return ast.NewNullLiteral(t.Span)
	case *ast.ThisExpr:
		return ast.NewThisExpr(t.Span)
	case *ast.SuperExpr:
		return ast.NewSuperExpr(t.Span)
	case *ast.BinaryExpr:
		return ast.NewBinaryExpr(t.Span, t.Op, cloneExpr(t.Left), cloneExpr(t.Right))
	case *ast.UnaryExpr:
		return ast.NewUnaryExpr(t.Span, t.Op, cloneExpr(t.Operand))
	case *ast.CallExpr:
		args := make([]ast.Expr, len(t.Args))
		for i, a := range t.Args {
			args[i] = cloneExpr(a)
		}
		return ast.NewCallExpr(t.Span, cloneExpr(t.Callee), args)
	case *ast.IndexExpr:
		return ast.NewIndexExpr(t.Span, cloneExpr(t.Target), cloneExpr(t.Index))
	case *ast.FieldExpr:
		return ast.NewFieldExpr(t.Span, cloneExpr(t.Target), t.Name, t.Optional)
	case *ast.CastExpr:
		return ast.NewCastExpr(t.Span, cloneExpr(t.Operand), t.Target)
	case *ast.IsExpr:
		return ast.NewIsExpr(t.Span, cloneExpr(t.Operand), t.Target)
	case *ast.TernaryExpr:
		return ast.NewTernaryExpr(t.Span, cloneExpr(t.Cond), cloneExpr(t.Then), cloneExpr(t.Else))
	case *ast.TupleExpr:
		elems := make([]ast.Expr, len(t.Elements))
		for i, el := range t.Elements {
			elems[i] = cloneExpr(el)
		}
		return ast.NewTupleExpr(t.Span, elems)
	case *ast.ArrayExpr:
		elems := make([]ast.Expr, len(t.Elements))
		for i, el := range t.Elements {
			elems[i] = cloneExpr(el)
		}
		return ast.NewArrayExpr(t.Span, elems)
	case *ast.RangeExpr:
		return ast.NewRangeExpr(t.Span, cloneExpr(t.Lo), cloneExpr(t.Hi))
	case *ast.MacroCallExpr:
		args := make([]ast.Expr, len(t.Args))
		for i, a := range t.Args {
			args[i] = cloneExpr(a)
		}
		return ast.NewMacroCallExpr(t.Span, t.Name, args)
	case *ast.ClosureExpr:
		return ast.NewClosureExpr(t.Span, t.Params, cloneBlock(t.Body))
	default:
		return e
	}
}

// substituteIdent rewrites every occurrence of an Identifier named
// name inside body, in place, to a clone of replacement. Used both for
// macro-parameter substitution and for binding a #for loop variable
// into each unrolled iteration's body.
func substituteIdent(body *ast.Block, name string, replacement ast.Expr) {
	for _, s := range body.Stmts {
		substStmt(s, name, replacement)
	}
}

func substStmt(s ast.Stmt, name string, repl ast.Expr) {
	switch t := s.(type) {
	case *ast.ExprStmt:
		t.X = substExpr(t.X, name, repl)
	case *ast.ReturnStmt:
		if t.Value != nil {
			t.Value = substExpr(t.Value, name, repl)
		}
	case *ast.DeferStmt:
		t.Value = substExpr(t.Value, name, repl)
	case *ast.VarDeclStmt:
		if vd, ok := t.Decl.(*ast.VarDecl); ok && vd.Init != nil {
			vd.Init = substExpr(vd.Init, name, repl)
		}
	case *ast.IfStmt:
		t.Cond = substExpr(t.Cond, name, repl)
		substituteIdent(t.Then, name, repl)
		switch e := t.Else.(type) {
		case *ast.Block:
			substituteIdent(e, name, repl)
		case *ast.IfStmt:
			substStmt(e, name, repl)
		}
	case *ast.WhileStmt:
		t.Cond = substExpr(t.Cond, name, repl)
		substituteIdent(t.Body, name, repl)
	case *ast.ForStmt:
		t.Range = substExpr(t.Range, name, repl)
		substituteIdent(t.Body, name, repl)
	case *ast.MatchStmt:
		t.Scrutinee = substExpr(t.Scrutinee, name, repl)
		for _, c := range t.Cases {
			if c.Guard != nil {
				c.Guard = substExpr(c.Guard, name, repl)
			}
			substituteIdent(c.Body, name, repl)
		}
	}
}

func substExpr(e ast.Expr, name string, repl ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	if id, ok := e.(*ast.Identifier); ok && id.Name == name {
		return cloneExpr(repl)
	}
	switch t := e.(type) {
	case *ast.BinaryExpr:
		t.Left = substExpr(t.Left, name, repl)
		t.Right = substExpr(t.Right, name, repl)
	case *ast.UnaryExpr:
		t.Operand = substExpr(t.Operand, name, repl)
	case *ast.CallExpr:
		t.Callee = substExpr(t.Callee, name, repl)
		for i := range t.Args {
			t.Args[i] = substExpr(t.Args[i], name, repl)
		}
	case *ast.IndexExpr:
		t.Target = substExpr(t.Target, name, repl)
		t.Index = substExpr(t.Index, name, repl)
	case *ast.FieldExpr:
		t.Target = substExpr(t.Target, name, repl)
	case *ast.CastExpr:
		t.Operand = substExpr(t.Operand, name, repl)
	case *ast.IsExpr:
		t.Operand = substExpr(t.Operand, name, repl)
	case *ast.TernaryExpr:
		t.Cond = substExpr(t.Cond, name, repl)
		t.Then = substExpr(t.Then, name, repl)
		t.Else = substExpr(t.Else, name, repl)
	case *ast.TupleExpr:
		for i := range t.Elements {
			t.Elements[i] = substExpr(t.Elements[i], name, repl)
		}
	case *ast.ArrayExpr:
		for i := range t.Elements {
			t.Elements[i] = substExpr(t.Elements[i], name, repl)
		}
	case *ast.RangeExpr:
		t.Lo = substExpr(t.Lo, name, repl)
		t.Hi = substExpr(t.Hi, name, repl)
	case *ast.MacroCallExpr:
		for i := range t.Args {
			t.Args[i] = substExpr(t.Args[i], name, repl)
		}
	case *ast.ClosureExpr:
		substituteIdent(t.Body, name, repl)
	}
	return e
}

// valueToExpr re-embeds a folded Value as a literal AST node so the
// rest of the pipeline (type checker, shaker) sees an ordinary
// constant rather than a comptime construct.
func valueToExpr(span token.Span, v Value) ast.Expr {
	switch val := v.(type) {
	case IntValue:
		return ast.NewIntLiteral(span, strconv.FormatInt(val.V, 10), "")
	case FloatValue:
		return ast.NewFloatLiteral(span, strconv.FormatFloat(val.V, 'g', -1, 64), "")
	case BoolValue:
		return ast.NewBoolLiteral(span, val.V)
	case StringValue:
		return ast.NewStringLiteral(span, val.V)
	default:
		return ast.NewNoop(span)
	}
}
