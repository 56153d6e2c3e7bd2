package binder

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

func newFile(decls ...ast.Decl) *ast.File {
	f := ast.NewFile(span(), "t.cxy")
	f.Decls = decls
	return f
}

func TestResolvesIdentifierToTopLevelVar(t *testing.T) {
	x := ast.NewVarDecl(span(), "x", nil, ast.NewIntLiteral(span(), "1", ""))
	use := ast.NewIdentifier(span(), "x")
	fn := ast.NewFuncDecl(span(), "main")
	fn.Body = ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), use)})

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(x, fn))

	require.Equal(t, 0, log.ErrorCount())
	require.Same(t, x, use.Resolved)
}

func TestUndefinedIdentifierReportsNAM001(t *testing.T) {
	use := ast.NewIdentifier(span(), "nope")
	fn := ast.NewFuncDecl(span(), "main")
	fn.Body = ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), use)})

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(fn))

	require.Equal(t, 1, log.ErrorCount())
	require.Equal(t, diagnostics.NAM001, log.Reports()[0].Code)
}

func TestFuncOverloadsAccumulateInOneChain(t *testing.T) {
	f1 := ast.NewFuncDecl(span(), "f")
	f1.Params = []*ast.Param{ast.NewParam(span(), "a", ast.NewPrimitiveTypeAst(span(), "i32"))}
	f2 := ast.NewFuncDecl(span(), "f")
	f2.Params = []*ast.Param{ast.NewParam(span(), "a", ast.NewPrimitiveTypeAst(span(), "f64"))}

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(f1, f2))

	sym, _ := b.RootScope().Lookup("f")
	require.NotNil(t, sym)
	require.Len(t, sym.overloads, 2)
}

func TestReturnResolvesToEnclosingFunc(t *testing.T) {
	ret := ast.NewReturnStmt(span(), nil)
	fn := ast.NewFuncDecl(span(), "main")
	fn.Body = ast.NewBlock(span(), []ast.Stmt{ret})

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(fn))

	require.Same(t, fn, ret.Resolved)
}

func TestBreakResolvesToEnclosingForLoop(t *testing.T) {
	brk := ast.NewBreakStmt(span())
	loopVar := ast.NewVarDecl(span(), "i", nil, nil)
	forStmt := ast.NewForStmt(span(), loopVar, ast.NewRangeExpr(span(),
		ast.NewIntLiteral(span(), "0", ""), ast.NewIntLiteral(span(), "10", "")),
		ast.NewBlock(span(), []ast.Stmt{brk}))
	fn := ast.NewFuncDecl(span(), "main")
	fn.Body = ast.NewBlock(span(), []ast.Stmt{forStmt})

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(fn))

	require.Same(t, forStmt, brk.Resolved)
}

func TestClosureCapturesOuterLocal(t *testing.T) {
	captured := ast.NewIdentifier(span(), "total")
	closure := ast.NewClosureExpr(span(), nil,
		ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), captured)}))

	total := ast.NewVarDecl(span(), "total", nil, ast.NewIntLiteral(span(), "0", ""))
	totalStmt := ast.NewVarDeclStmt(span(), total)
	useClosure := ast.NewExprStmt(span(), closure)

	fn := ast.NewFuncDecl(span(), "main")
	fn.Body = ast.NewBlock(span(), []ast.Stmt{totalStmt, useClosure})

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(fn))

	require.Equal(t, 0, log.ErrorCount())
	require.Contains(t, closure.CaptureNames, "total")
}

func TestClosureLocalIsNotACapture(t *testing.T) {
	param := ast.NewParam(span(), "n", ast.NewPrimitiveTypeAst(span(), "i32"))
	use := ast.NewIdentifier(span(), "n")
	closure := ast.NewClosureExpr(span(), []*ast.Param{param},
		ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), use)}))

	fn := ast.NewFuncDecl(span(), "main")
	fn.Body = ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), closure)})

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(fn))

	require.Equal(t, 0, log.ErrorCount())
	require.NotContains(t, closure.CaptureNames, "n")
}

func TestSuperOutsideClassReportsNAM003(t *testing.T) {
	sup := ast.NewSuperExpr(span())
	fn := ast.NewFuncDecl(span(), "main")
	fn.Body = ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), sup)})

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(fn))

	require.Equal(t, 1, log.ErrorCount())
	require.Equal(t, diagnostics.NAM003, log.Reports()[0].Code)
}

func TestThisResolvesInsideMethod(t *testing.T) {
	thisExpr := ast.NewThisExpr(span())
	method := ast.NewFuncDecl(span(), "area")
	method.Receiver = ast.NewPrimitiveTypeAst(span(), "Shape")
	method.Body = ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), thisExpr)})

	class := ast.NewClassDecl(span(), "Shape")
	class.Members = []ast.Decl{method}

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(class))

	require.Equal(t, 0, log.ErrorCount())
	require.Same(t, method, thisExpr.Resolved)
}

func TestClassFieldResolvesInMethodBody(t *testing.T) {
	field := ast.NewField(span(), "radius", ast.NewPrimitiveTypeAst(span(), "f64"))
	method := ast.NewFuncDecl(span(), "area")
	method.Receiver = ast.NewPrimitiveTypeAst(span(), "Circle")
	use := ast.NewIdentifier(span(), "radius")
	method.Body = ast.NewBlock(span(), []ast.Stmt{ast.NewExprStmt(span(), use)})

	class := ast.NewClassDecl(span(), "Circle")
	class.Members = []ast.Decl{field, method}

	log := diagnostics.NewLog(0, nil)
	b := New(log)
	b.BindFile(newFile(class))

	require.Equal(t, 0, log.ErrorCount())
	require.Same(t, field, use.Resolved)
}
</content>
