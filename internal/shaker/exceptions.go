package shaker

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/token"
)

// shakeException is spec.md §4.6.8: `exception Name(a: T) { body }`
// desugars to a class extending Exception with an init that stores the
// constructor arguments and a what() method returning body's value.
func (s *Shaker) shakeException(e *ast.ExceptionDecl) *ast.ClassDecl {
	span := e.Span

	fields := make([]ast.Decl, 0, len(e.Params)+2)
	initStmts := make([]ast.Stmt, 0, len(e.Params)+1)
	initStmts = append(initStmts, ast.NewExprStmt(span,
		ast.NewCallExpr(span, ast.NewSuperExpr(span), []ast.Expr{ast.NewStringLiteral(span, e.Name)})))

	for _, p := range e.Params {
		p.TypeExpr = shakeType(p.TypeExpr)
		fields = append(fields, ast.NewField(span, p.Name, p.TypeExpr))
		assign := ast.NewBinaryExpr(span, token.ASSIGN,
			ast.NewFieldExpr(span, ast.NewThisExpr(span), p.Name, false),
			ast.NewIdentifier(span, p.Name))
		initStmts = append(initStmts, ast.NewExprStmt(span, assign))
	}

	init := ast.NewFuncDecl(span, "init")
	init.Receiver = ast.NewPathTypeAst(span, []string{e.Name}, nil)
	init.Params = e.Params
	init.Body = ast.NewBlock(span, initStmts)
	fields = append(fields, init)

	what := ast.NewFuncDecl(span, "what")
	what.Receiver = ast.NewPathTypeAst(span, []string{e.Name}, nil)
	what.ReturnType = ast.NewPathTypeAst(span, []string{"string"}, nil)
	what.Body = e.What
	s.shakeBlock(what.Body)
	fields = append(fields, what)

	cls := ast.NewClassDecl(span, e.Name)
	cls.Base = ast.NewPathTypeAst(span, []string{"Exception"}, nil)
	cls.Members = fields
	return cls
}
