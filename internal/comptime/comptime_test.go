package comptime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
	"github.com/dccarter/cxy/internal/types"
)

func span() token.Span {
	pos := token.Position{File: "t.cxy", Line: 1, Column: 1}
	return token.Span{Begin: pos, End: pos}
}

func newEval() (*Evaluator, *diagnostics.Log) {
	log := diagnostics.NewLog(0, nil)
	tbl := types.NewTable()
	return New(log, tbl, map[string]*ast.MacroDecl{}), log
}

func TestHashIfTrueBranchSplicesIntoSurroundingStmts(t *testing.T) {
	e, log := newEval()

	call := ast.NewExprStmt(span(), ast.NewIntLiteral(span(), "1", ""))
	hi := ast.NewHashIf(span(), ast.NewBoolLiteral(span(), true),
		ast.NewBlock(span(), []ast.Stmt{call}), nil)

	b := ast.NewBlock(span(), []ast.Stmt{hi})
	e.FoldBlock(b)

	require.Equal(t, 0, log.ErrorCount())
	require.Len(t, b.Stmts, 1)
	require.Same(t, call, b.Stmts[0])
}

func TestHashIfFalseBranchTakesElse(t *testing.T) {
	e, log := newEval()

	thenStmt := ast.NewExprStmt(span(), ast.NewIntLiteral(span(), "1", ""))
	elseStmt := ast.NewExprStmt(span(), ast.NewIntLiteral(span(), "2", ""))
	hi := ast.NewHashIf(span(), ast.NewBoolLiteral(span(), false),
		ast.NewBlock(span(), []ast.Stmt{thenStmt}),
		ast.NewBlock(span(), []ast.Stmt{elseStmt}))

	b := ast.NewBlock(span(), []ast.Stmt{hi})
	e.FoldBlock(b)

	require.Equal(t, 0, log.ErrorCount())
	require.Len(t, b.Stmts, 1)
	require.Same(t, elseStmt, b.Stmts[0])
}

func TestHashIfNonFoldableConditionReportsCTM001(t *testing.T) {
	e, log := newEval()

	hi := ast.NewHashIf(span(), ast.NewIdentifier(span(), "undefined"),
		ast.NewBlock(span(), nil), nil)
	b := ast.NewBlock(span(), []ast.Stmt{hi})
	e.FoldBlock(b)

	require.Equal(t, 1, log.ErrorCount())
	require.Equal(t, diagnostics.CTM001, log.Reports()[0].Code)
}

func TestHashForUnrollsOverLiteralRange(t *testing.T) {
	e, log := newEval()

	use := ast.NewExprStmt(span(), ast.NewIdentifier(span(), "i"))
	hf := ast.NewHashFor(span(), "i",
		ast.NewRangeExpr(span(), ast.NewIntLiteral(span(), "0", ""), ast.NewIntLiteral(span(), "3", "")),
		ast.NewBlock(span(), []ast.Stmt{use}))

	b := ast.NewBlock(span(), []ast.Stmt{hf})
	e.FoldBlock(b)

	require.Equal(t, 0, log.ErrorCount())
	require.Len(t, b.Stmts, 3)
	for i, s := range b.Stmts {
		lit, ok := s.(*ast.ExprStmt).X.(*ast.IntLiteral)
		require.True(t, ok)
		require.Equal(t, []string{"0", "1", "2"}[i], lit.Text)
	}
}

func TestHashConstBindsNameForLaterFolding(t *testing.T) {
	e, log := newEval()

	c := ast.NewHashConst(span(), "N", ast.NewIntLiteral(span(), "7", ""))
	hi := ast.NewHashIf(span(),
		ast.NewBinaryExpr(span(), token.EQ, ast.NewIdentifier(span(), "N"), ast.NewIntLiteral(span(), "7", "")),
		ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), ast.NewIntLiteral(span(), "1", ""))}), nil)

	b := ast.NewBlock(span(), []ast.Stmt{c, hi})
	e.FoldBlock(b)

	require.Equal(t, 0, log.ErrorCount())
	require.Len(t, b.Stmts, 2)
	_, isNoop := b.Stmts[0].(*ast.Noop)
	require.True(t, isNoop)
}

func TestEvalExprFoldsArithmetic(t *testing.T) {
	e, _ := newEval()

	expr := ast.NewBinaryExpr(span(), token.PLUS,
		ast.NewIntLiteral(span(), "2", ""), ast.NewIntLiteral(span(), "3", ""))
	v := e.EvalExpr(expr)

	iv, ok := v.(IntValue)
	require.True(t, ok)
	require.EqualValues(t, 5, iv.V)
}

func TestIntrospectIsIntegerOnPrimitive(t *testing.T) {
	tbl := types.NewTable()
	i32 := tbl.Primitive(types.PI32)

	v := Introspect(i32, "isInteger")
	bv, ok := v.(BoolValue)
	require.True(t, ok)
	require.True(t, bv.V)
}

func TestIntrospectUnknownMemberIsError(t *testing.T) {
	tbl := types.NewTable()
	i32 := tbl.Primitive(types.PI32)

	v := Introspect(i32, "notAMember")
	_, isErr := v.(ErrorValue)
	require.True(t, isErr)
}

func TestMacroExpansionSubstitutesParameter(t *testing.T) {
	log := diagnostics.NewLog(0, nil)
	tbl := types.NewTable()

	param := ast.NewParam(span(), "x", nil)
	doubleBody := ast.NewBlock(span(), []ast.Stmt{
		ast.NewExprStmt(span(), ast.NewBinaryExpr(span(), token.STAR,
			ast.NewIdentifier(span(), "x"), ast.NewIntLiteral(span(), "2", ""))),
	})
	decl := ast.NewMacroDecl(span(), "double")
	decl.Params = []*ast.Param{param}
	decl.Body = doubleBody

	e := New(log, tbl, map[string]*ast.MacroDecl{"double": decl})

	call := ast.NewMacroCallExpr(span(), "double", []ast.Expr{ast.NewIntLiteral(span(), "21", "")})
	v := e.EvalExpr(call)

	require.Equal(t, 0, log.ErrorCount())
	iv, ok := v.(IntValue)
	require.True(t, ok)
	require.EqualValues(t, 42, iv.V)
}

func TestMacroArityMismatchReportsCTM003(t *testing.T) {
	log := diagnostics.NewLog(0, nil)
	tbl := types.NewTable()

	param := ast.NewParam(span(), "x", nil)
	decl := ast.NewMacroDecl(span(), "identity")
	decl.Params = []*ast.Param{param}
	decl.Body = ast.NewBlock(span(), []ast.Stmt{
		ast.NewExprStmt(span(), ast.NewIdentifier(span(), "x")),
	})

	e := New(log, tbl, map[string]*ast.MacroDecl{"identity": decl})

	call := ast.NewMacroCallExpr(span(), "identity", nil)
	e.EvalExpr(call)

	require.Equal(t, 1, log.ErrorCount())
	require.Equal(t, diagnostics.CTM003, log.Reports()[0].Code)
}

func TestReentrancyGuardTripsCTM004(t *testing.T) {
	log := diagnostics.NewLog(0, nil)
	tbl := types.NewTable()
	e := New(log, tbl, map[string]*ast.MacroDecl{})

	sp := span()
	e.Enter("gen:Foo<i32>", &sp, func() {
		e.Enter("gen:Foo<i32>", &sp, func() {
			t.Fatal("inner Enter must not run its callback")
		})
	})

	require.Equal(t, 1, log.ErrorCount())
	require.Equal(t, diagnostics.CTM004, log.Reports()[0].Code)
}
