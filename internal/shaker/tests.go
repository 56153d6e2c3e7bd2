package shaker

import (
	"fmt"

	"github.com/dccarter/cxy/internal/ast"
)

// shakeTest is spec.md §4.6.9: `test "name" { body }` becomes a
// generated no-argument function returning `Void|Exception`; its name
// is recorded so the driver can emit the module's allTestCases array.
func (s *Shaker) shakeTest(t *ast.TestDecl) *ast.FuncDecl {
	s.testN++
	name := fmt.Sprintf("CXY__test%d", s.testN)
	s.testCases = append(s.testCases, name)

	fn := ast.NewFuncDecl(t.Span, name)
	fn.ReturnType = ast.NewResultTypeAst(t.Span,
		ast.NewPrimitiveTypeAst(t.Span, "void"),
		[]ast.TypeAst{ast.NewPathTypeAst(t.Span, []string{"Exception"}, nil)})
	fn.Body = t.Body
	s.shakeBlock(fn.Body)
	return fn
}
