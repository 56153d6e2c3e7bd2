package shaker

import (
	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/token"
)

func spanOf(n ast.Node) *token.Span {
	sp := n.Base().Span
	return &sp
}

func spanOfExpr(e ast.Expr) token.Span {
	return e.Base().Span
}
