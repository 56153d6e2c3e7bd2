package shaker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/token"
)

func span() token.Span {
	pos := token.Position{File: "t.cxy", Line: 1, Column: 1}
	return token.Span{Begin: pos, End: pos}
}

func newShaker() (*Shaker, *diagnostics.Log) {
	log := diagnostics.NewLog(0, nil)
	return New(log), log
}

func TestMultiVarDeclWithTupleLiteralSplitsDirectly(t *testing.T) {
	s, log := newShaker()

	init := ast.NewTupleExpr(span(), []ast.Expr{
		ast.NewIntLiteral(span(), "1", ""),
		ast.NewIntLiteral(span(), "2", ""),
	})
	vd := ast.NewVarDeclStmt(span(), ast.NewMultiVarDecl(span(), []string{"a", "b"}, init))

	b := ast.NewBlock(span(), []ast.Stmt{vd})
	s.shakeBlock(b)

	require.Equal(t, 0, log.ErrorCount())
	require.Len(t, b.Stmts, 2)
	first := b.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.Equal(t, "a", first.Name)
	second := b.Stmts[1].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.Equal(t, "b", second.Name)
}

func TestMultiVarDeclArityMismatchReportsSHK001(t *testing.T) {
	s, log := newShaker()

	init := ast.NewTupleExpr(span(), []ast.Expr{ast.NewIntLiteral(span(), "1", "")})
	vd := ast.NewVarDeclStmt(span(), ast.NewMultiVarDecl(span(), []string{"a", "b"}, init))

	b := ast.NewBlock(span(), []ast.Stmt{vd})
	s.shakeBlock(b)

	require.Equal(t, 1, log.ErrorCount())
	require.Equal(t, diagnostics.SHK001, log.Reports()[0].Code)
}

func TestMultiVarDeclWithCallHoistsTemp(t *testing.T) {
	s, _ := newShaker()

	call := ast.NewCallExpr(span(), ast.NewIdentifier(span(), "pair"), nil)
	vd := ast.NewVarDeclStmt(span(), ast.NewMultiVarDecl(span(), []string{"a", "b"}, call))

	b := ast.NewBlock(span(), []ast.Stmt{vd})
	s.shakeBlock(b)

	require.Len(t, b.Stmts, 3)
	temp := b.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.Equal(t, "_t1", temp.Name)
	aDecl := b.Stmts[1].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	aInit := aDecl.Init.(*ast.FieldExpr)
	require.Equal(t, "_t1", aInit.Target.(*ast.Identifier).Name)
	require.Equal(t, "0", aInit.Name)
}

func TestIfConditionHoistedWhenNotBareIdentifier(t *testing.T) {
	s, _ := newShaker()

	cond := ast.NewBinaryExpr(span(), token.GT, ast.NewIdentifier(span(), "x"), ast.NewIntLiteral(span(), "0", ""))
	ifs := ast.NewIfStmt(span(), cond, ast.NewBlock(span(), nil), nil)

	b := ast.NewBlock(span(), []ast.Stmt{ifs})
	s.shakeBlock(b)

	require.Len(t, b.Stmts, 2)
	temp := b.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.Equal(t, "_t1", temp.Name)
	require.Same(t, cond, temp.Init)
	shaken := b.Stmts[1].(*ast.IfStmt)
	require.Equal(t, "_t1", shaken.Cond.(*ast.Identifier).Name)
}

func TestIfConditionBareIdentifierNotHoisted(t *testing.T) {
	s, _ := newShaker()

	cond := ast.NewIdentifier(span(), "ok")
	ifs := ast.NewIfStmt(span(), cond, ast.NewBlock(span(), nil), nil)

	b := ast.NewBlock(span(), []ast.Stmt{ifs})
	s.shakeBlock(b)

	require.Len(t, b.Stmts, 1)
	require.Same(t, ifs, b.Stmts[0])
}

func TestMatchScrutineeHoisted(t *testing.T) {
	s, _ := newShaker()

	scrutinee := ast.NewCallExpr(span(), ast.NewIdentifier(span(), "classify"), nil)
	m := ast.NewMatchStmt(span(), scrutinee, nil)

	b := ast.NewBlock(span(), []ast.Stmt{m})
	s.shakeBlock(b)

	require.Len(t, b.Stmts, 2)
	temp := b.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.Same(t, scrutinee, temp.Init)
	shaken := b.Stmts[1].(*ast.MatchStmt)
	require.Equal(t, temp.Name, shaken.Scrutinee.(*ast.Identifier).Name)
}

func TestRaiseLoweredToReturnCast(t *testing.T) {
	s, _ := newShaker()

	value := ast.NewIdentifier(span(), "err")
	stmt := ast.NewExprStmt(span(), ast.NewRaiseExpr(span(), value))

	b := ast.NewBlock(span(), []ast.Stmt{stmt})
	s.shakeBlock(b)

	require.Len(t, b.Stmts, 1)
	ret := b.Stmts[0].(*ast.ReturnStmt)
	cast := ret.Value.(*ast.CastExpr)
	require.Same(t, value, cast.Operand)
	path := cast.Target.(*ast.PathTypeAst)
	require.Equal(t, []string{"Exception"}, path.Elements)
}

func TestDeferMovesExpressionOntoDeferredExprs(t *testing.T) {
	s, _ := newShaker()

	value := ast.NewCallExpr(span(), ast.NewIdentifier(span(), "close"), nil)
	stmt := ast.NewDeferStmt(span(), value)

	b := ast.NewBlock(span(), []ast.Stmt{stmt})
	s.shakeBlock(b)

	require.Len(t, b.Stmts, 0)
	require.Len(t, b.DeferredExprs, 1)
	require.Same(t, value, b.DeferredExprs[0])
}

func TestVariadicParamBecomesGenericWithInferIndex(t *testing.T) {
	s, _ := newShaker()

	fixed := ast.NewParam(span(), "a", ast.NewPrimitiveTypeAst(span(), "i32"))
	variadic := ast.NewParam(span(), "rest", ast.NewPrimitiveTypeAst(span(), "i32"))
	variadic.Flags.Set(ast.Variadic)

	f := ast.NewFuncDecl(span(), "sum")
	f.Params = []*ast.Param{fixed, variadic}

	s.shakeFunc(f)

	require.Len(t, f.Generics, 1)
	require.Equal(t, "_Variadic", f.Generics[0].Name)
	require.Equal(t, 1, variadic.InferIndex)
}

func TestDimensionlessArrayNormalizesToSlice(t *testing.T) {
	elem := ast.NewPrimitiveTypeAst(span(), "i32")
	arr := ast.NewArrayTypeAst(span(), elem, nil)

	got := shakeType(arr)

	slice, ok := got.(*ast.SliceTypeAst)
	require.True(t, ok)
	require.Same(t, elem, slice.Element)
}

func TestSizedArrayIsUnchanged(t *testing.T) {
	elem := ast.NewPrimitiveTypeAst(span(), "i32")
	length := ast.NewIntLiteral(span(), "4", "")
	arr := ast.NewArrayTypeAst(span(), elem, length)

	got := shakeType(arr)

	require.Same(t, arr, got)
	require.Same(t, length, arr.Len)
}

func TestStringInterpLowersToShlChain(t *testing.T) {
	s, _ := newShaker()

	x := ast.NewIdentifier(span(), "x")
	si := ast.NewStringInterpExpr(span(), []string{"A", "B"}, []ast.Expr{x})

	got := s.shakeExpr(si)

	outer := got.(*ast.BinaryExpr)
	require.Equal(t, token.SHL, outer.Op)
	require.Equal(t, "B", outer.Right.(*ast.StringLiteral).Raw)
	middle := outer.Left.(*ast.BinaryExpr)
	require.Same(t, x, middle.Right)
	inner := middle.Left.(*ast.BinaryExpr)
	require.Equal(t, "A", inner.Right.(*ast.StringLiteral).Raw)
	call := inner.Left.(*ast.CallExpr)
	require.Equal(t, "String", call.Callee.(*ast.Identifier).Name)
}

func TestCatchBlockMustYieldReportsSHK002(t *testing.T) {
	s, log := newShaker()

	left := ast.NewIdentifier(span(), "risky")
	block := ast.NewBlock(span(), nil)
	c := ast.NewCatchExpr(span(), left, block)

	s.shakeExpr(c)

	require.Equal(t, 1, log.ErrorCount())
	require.Equal(t, diagnostics.SHK002, log.Reports()[0].Code)
}

func TestCatchBlockYieldingExpressionIsAccepted(t *testing.T) {
	s, log := newShaker()

	left := ast.NewIdentifier(span(), "risky")
	yield := ast.NewExprStmt(span(), ast.NewIntLiteral(span(), "0", ""))
	block := ast.NewBlock(span(), []ast.Stmt{yield})
	c := ast.NewCatchExpr(span(), left, block)

	s.shakeExpr(c)

	require.Equal(t, 0, log.ErrorCount())
}

func TestExceptionDesugarsToClassExtendingException(t *testing.T) {
	s, _ := newShaker()

	param := ast.NewParam(span(), "code", ast.NewPrimitiveTypeAst(span(), "i32"))
	what := ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), ast.NewStringLiteral(span(), "boom"))})
	e := ast.NewExceptionDecl(span(), "BoomError")
	e.Params = []*ast.Param{param}
	e.What = what

	cls := s.shakeException(e)

	require.Equal(t, "BoomError", cls.Name)
	base := cls.Base.(*ast.PathTypeAst)
	require.Equal(t, []string{"Exception"}, base.Elements)
	require.Len(t, cls.Members, 3)
	field := cls.Members[0].(*ast.Field)
	require.Equal(t, "code", field.Name)
	init := cls.Members[1].(*ast.FuncDecl)
	require.Equal(t, "init", init.Name)
	whatFn := cls.Members[2].(*ast.FuncDecl)
	require.Equal(t, "what", whatFn.Name)
}

func TestDeclGeneratesResultReturningFunctionAndRecordsName(t *testing.T) {
	s, _ := newShaker()

	body := ast.NewBlock(span(), nil)
	td := ast.NewTestDecl(span(), "adds up", body)

	fn := s.shakeTest(td)

	require.Equal(t, "CXY__test1", fn.Name)
	require.Equal(t, []string{"CXY__test1"}, s.TestCases())
	result := fn.ReturnType.(*ast.ResultTypeAst)
	require.Equal(t, "void", result.Success.(*ast.PrimitiveTypeAst).Name)
	require.Len(t, result.Errors, 1)
}

func TestClosureLowersToStructAndTrampoline(t *testing.T) {
	s, _ := newShaker()

	param := ast.NewParam(span(), "y", ast.NewPrimitiveTypeAst(span(), "i32"))
	body := ast.NewBlock(span(), []ast.Stmt{
		ast.NewExprStmt(span(), ast.NewBinaryExpr(span(), token.PLUS,
			ast.NewIdentifier(span(), "x"), ast.NewIdentifier(span(), "y"))),
	})
	cl := ast.NewClosureExpr(span(), []*ast.Param{param}, body)
	cl.CaptureNames = []string{"x"}

	f := ast.NewFuncDecl(span(), "makeAdder")
	f.Body = ast.NewBlock(span(), []ast.Stmt{
		ast.NewVarDeclStmt(span(), ast.NewVarDecl(span(), "adder", nil, cl)),
	})

	file := ast.NewFile(span(), "t.cxy")
	file.Decls = []ast.Decl{f}
	s.ShakeFile(file)

	require.Len(t, file.Decls, 3)
	structDecl, ok := file.Decls[1].(*ast.StructDecl)
	require.True(t, ok)
	require.Equal(t, "CXY__closure1", structDecl.Name)
	require.Len(t, structDecl.Members, 2)
	captureField := structDecl.Members[0].(*ast.Field)
	require.Equal(t, "x", captureField.Name)
	opCall := structDecl.Members[1].(*ast.FuncDecl)
	require.Equal(t, "op_call", opCall.Name)

	trampoline, ok := file.Decls[2].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "CXY__closure1_forward", trampoline.Name)
	require.Equal(t, "self", trampoline.Params[0].Name)

	varDecl := f.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	structExpr, ok := varDecl.Init.(*ast.StructExpr)
	require.True(t, ok)
	require.Len(t, structExpr.Fields, 1)
	require.Equal(t, "x", structExpr.Fields[0].Name)
}
