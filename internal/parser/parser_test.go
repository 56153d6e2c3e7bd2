package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dccarter/cxy/internal/ast"
	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/dccarter/cxy/internal/lexer"
	"github.com/dccarter/cxy/internal/token"
)

func parse(t *testing.T, src string) (*ast.File, *diagnostics.Log) {
	t.Helper()
	log := diagnostics.NewLog(0, nil)
	l := lexer.New(src, "t.cxy", nil)
	p := New(l, log, "t.cxy")
	return p.Parse(), log
}

func TestParseSimpleFuncDecl(t *testing.T) {
	f, log := parse(t, `func add(a: i32, b: i32) -> i32 { return a + b; }`)
	require.Equal(t, 0, log.ErrorCount())
	require.Len(t, f.Decls, 1)
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestParseFuncShortBody(t *testing.T) {
	f, log := parse(t, `func greet() -> string => "hi";`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	require.IsType(t, &ast.StringLiteral{}, ret.Value)
}

func TestParseModuleAndImports(t *testing.T) {
	f, log := parse(t, `module app.main
import std.io
import { a, b } from std.collections
import plugin "./p.so" as mypg
`)
	require.Equal(t, 0, log.ErrorCount())
	require.Equal(t, "app.main", f.Module.Path)
	require.Len(t, f.Imports, 3)
	require.Equal(t, []string{"a", "b"}, f.Imports[1].Symbols)
	require.True(t, f.Imports[2].Plugin)
	require.Equal(t, "mypg", f.Imports[2].Alias)
}

func TestParseStructAndClassDecl(t *testing.T) {
	f, log := parse(t, `
struct Point { x: i32; y: i32 = 0; }
class Circle : Shape, Drawable {
	func area() -> f64 => 0.0;
}
`)
	require.Equal(t, 0, log.ErrorCount())
	require.Len(t, f.Decls, 2)

	s := f.Decls[0].(*ast.StructDecl)
	require.Len(t, s.Members, 2)
	field := s.Members[1].(*ast.Field)
	require.NotNil(t, field.Default)

	c := f.Decls[1].(*ast.ClassDecl)
	require.NotNil(t, c.Base)
	require.Len(t, c.Interfaces, 1)
	require.Len(t, c.Members, 1)
}

func TestParseEnumDecl(t *testing.T) {
	f, log := parse(t, `enum Color { Red, Green, Blue = 10 }`)
	require.Equal(t, 0, log.ErrorCount())
	e := f.Decls[0].(*ast.EnumDecl)
	require.Len(t, e.Options, 3)
	require.NotNil(t, e.Options[2].Value)
}

func TestParseTraitAndInterface(t *testing.T) {
	f, log := parse(t, `
trait Greeter { func hello() -> string; }
interface Shape { func area() -> f64; }
`)
	require.Equal(t, 0, log.ErrorCount())
	tr := f.Decls[0].(*ast.TraitDecl)
	require.Equal(t, "Greeter", tr.Name)
	require.Len(t, tr.Methods, 1)
	iface := f.Decls[1].(*ast.TraitDecl)
	require.Equal(t, "Shape", iface.Name)
}

func TestParseExceptionAndTest(t *testing.T) {
	f, log := parse(t, "exception NotFound(k: string) { return `key ${k}` }\n"+
		`test "it works" { var x = 1; }`)
	require.Equal(t, 0, log.ErrorCount())
	require.Len(t, f.Decls, 2)
	exc := f.Decls[0].(*ast.ExceptionDecl)
	require.Equal(t, "NotFound", exc.Name)
	td := f.Decls[1].(*ast.TestDecl)
	require.Equal(t, "it works", td.Name)
}

func TestParseIfWhileForMatch(t *testing.T) {
	f, log := parse(t, `
func main() {
	if (x) { y(); } else if (z) { w(); } else { v(); }
	while (cond) { step(); }
	for (const i : 0..10) { use(i); }
	match (v) {
		case 1 => a();
		case n: i32 if n > 0 => b();
		case _ => c();
	}
}
`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 4)

	ifs := fn.Body.Stmts[0].(*ast.IfStmt)
	require.NotNil(t, ifs.Else)

	fr := fn.Body.Stmts[2].(*ast.ForStmt)
	rng, ok := fr.Range.(*ast.RangeExpr)
	require.True(t, ok)
	require.NotNil(t, rng.Lo)

	ms := fn.Body.Stmts[3].(*ast.MatchStmt)
	require.Len(t, ms.Cases, 3)
	require.NotNil(t, ms.Cases[1].Guard)
}

func TestParseBinaryPrecedence(t *testing.T) {
	f, log := parse(t, `func main() { var r = 1 + 2 * 3; }`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	decl := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	bin := decl.Init.(*ast.BinaryExpr)
	require.Equal(t, token.PLUS, bin.Op)
	rhs := bin.Right.(*ast.BinaryExpr)
	require.Equal(t, token.STAR, rhs.Op)
}

func TestParseTernaryThenBranchHoldsAssignment(t *testing.T) {
	f, log := parse(t, `func main() { var r = a ? b = 1 : c; }`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	decl := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	tern := decl.Init.(*ast.TernaryExpr)
	require.IsType(t, &ast.BinaryExpr{}, tern.Then)
}

func TestParseIsAndRangeAreNotOrdinaryBinary(t *testing.T) {
	f, log := parse(t, `func main() { var a = x is i32; var b = 0..5; }`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	d1 := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.IsType(t, &ast.IsExpr{}, d1.Init)
	d2 := fn.Body.Stmts[1].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.IsType(t, &ast.RangeExpr{}, d2.Init)
}

func TestParseStructLiteralTieBreak(t *testing.T) {
	f, log := parse(t, `func main() { var p = Point{x: 1, y: 2}; }`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	d := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	se, ok := d.Init.(*ast.StructExpr)
	require.True(t, ok)
	require.Len(t, se.Fields, 2)
}

// TestStructLiteralSuppressedInConditionContext drives the noStructLiteral
// tie-break directly: the same leading tokens ("Point" immediately
// followed by "{") parse as a StructExpr normally, but as a bare
// Identifier once a condition context is active, per spec.md §4.2.
func TestStructLiteralSuppressedInConditionContext(t *testing.T) {
	log := diagnostics.NewLog(0, nil)
	p := New(lexer.New(`Point{x: 1}`, "t.cxy", nil), log, "t.cxy")
	e := p.parseExpr()
	require.Equal(t, 0, log.ErrorCount())
	require.IsType(t, &ast.StructExpr{}, e)

	log2 := diagnostics.NewLog(0, nil)
	p2 := New(lexer.New(`Point`, "t.cxy", nil), log2, "t.cxy")
	p2.noStructLiteral++
	e2 := p2.parseExpr()
	require.Equal(t, 0, log2.ErrorCount())
	require.IsType(t, &ast.Identifier{}, e2)
}

func TestParseClosureVsTuple(t *testing.T) {
	f, log := parse(t, `
func main() {
	var c = (x: i32) => x + 1;
	var empty = () => 0;
	var tup = (1, 2, 3);
	var grouped = (1 + 2);
}
`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)

	c := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.IsType(t, &ast.ClosureExpr{}, c.Init)

	empty := fn.Body.Stmts[1].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	closure := empty.Init.(*ast.ClosureExpr)
	require.Len(t, closure.Params, 0)

	tup := fn.Body.Stmts[2].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	tupleExpr := tup.Init.(*ast.TupleExpr)
	require.Len(t, tupleExpr.Elements, 3)

	grouped := fn.Body.Stmts[3].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.IsType(t, &ast.BinaryExpr{}, grouped.Init)
}

func TestParseStringInterpolation(t *testing.T) {
	f, log := parse(t, "func main() { var s = `hi ${name} bye ${1 + 2}!`; }")
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	d := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	si, ok := d.Init.(*ast.StringInterpExpr)
	require.True(t, ok)
	require.Len(t, si.Parts, 3)
	require.Len(t, si.Exprs, 2)
	require.IsType(t, &ast.Identifier{}, si.Exprs[0])
	require.IsType(t, &ast.BinaryExpr{}, si.Exprs[1])
}

func TestParseStringInterpolationThenMoreCode(t *testing.T) {
	// Regression guard for the interpFence window-freeze: normal
	// tokens after the closing backtick must lex correctly.
	f, log := parse(t, "func main() { var s = `hi ${name}`; var n = 1 + 2; }")
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 2)
	d2 := fn.Body.Stmts[1].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.IsType(t, &ast.BinaryExpr{}, d2.Init)
}

func TestParseStringInterpolationWithBracesInExpr(t *testing.T) {
	// Regression guard: an interpolated expression containing its own
	// braces (a struct literal here) must not trip the interpolation's
	// closing-brace fence early.
	f, log := parse(t, "func main() { var s = `p is ${Point{x: 1, y: 2}} now`; var n = 1; }")
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 2)
	d := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	si, ok := d.Init.(*ast.StringInterpExpr)
	require.True(t, ok)
	require.Len(t, si.Exprs, 1)
	require.IsType(t, &ast.StructExpr{}, si.Exprs[0])
	d2 := fn.Body.Stmts[1].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.IsType(t, &ast.IntLiteral{}, d2.Init)
}

func TestParseNewDeleteAwaitLaunchRaise(t *testing.T) {
	f, log := parse(t, `
func main() {
	var p = new Point(1, 2);
	delete p;
	await f();
	launch g();
	raise NotFound("x");
}
`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Stmts, 5)

	d := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.IsType(t, &ast.NewExpr{}, d.Init)

	del := fn.Body.Stmts[1].(*ast.ExprStmt)
	require.IsType(t, &ast.DeleteExpr{}, del.X)

	aw := fn.Body.Stmts[2].(*ast.ExprStmt)
	require.IsType(t, &ast.AwaitExpr{}, aw.X)

	lnch := fn.Body.Stmts[3].(*ast.ExprStmt)
	require.IsType(t, &ast.LaunchExpr{}, lnch.X)

	rs := fn.Body.Stmts[4].(*ast.ExprStmt)
	require.IsType(t, &ast.RaiseExpr{}, rs.X)
}

func TestParseCatchExpr(t *testing.T) {
	f, log := parse(t, `func main() { var r = div(1, 0) catch { yield -1; }; }`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	d := fn.Body.Stmts[0].(*ast.VarDeclStmt).Decl.(*ast.VarDecl)
	require.IsType(t, &ast.CatchExpr{}, d.Init)
}

func TestParseMacroCallExpr(t *testing.T) {
	f, log := parse(t, `func main() { assert!(x == 1); }`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	es := fn.Body.Stmts[0].(*ast.ExprStmt)
	mc, ok := es.X.(*ast.MacroCallExpr)
	require.True(t, ok)
	require.Equal(t, "assert", mc.Name)
}

func TestParseAsmExpr(t *testing.T) {
	f, log := parse(t, `func main() { asm("nop" : : : "memory"); }`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	es := fn.Body.Stmts[0].(*ast.ExprStmt)
	a, ok := es.X.(*ast.AsmExpr)
	require.True(t, ok)
	require.Equal(t, "nop", a.Template)
	require.Equal(t, []string{"memory"}, a.Clobbers)
}

func TestParseTypesPointerReferenceArrayUnion(t *testing.T) {
	f, log := parse(t, `
func f(a: ^i32, b: ^const i32, c: &string, d: [i32; 4], e: [i32], u: i32 | string) -> (i32) -> bool {
	return null;
}
`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Params, 6)

	ptr := fn.Params[0].TypeExpr.(*ast.PointerTypeAst)
	require.False(t, ptr.IsConst)

	cptr := fn.Params[1].TypeExpr.(*ast.PointerTypeAst)
	require.True(t, cptr.IsConst)

	ref := fn.Params[2].TypeExpr.(*ast.ReferenceTypeAst)
	require.NotNil(t, ref.Referent)

	arr := fn.Params[3].TypeExpr.(*ast.ArrayTypeAst)
	require.NotNil(t, arr.Len)

	slice := fn.Params[4].TypeExpr.(*ast.ArrayTypeAst)
	require.Nil(t, slice.Len)

	union := fn.Params[5].TypeExpr.(*ast.UnionTypeAst)
	require.Len(t, union.Members, 2)

	ret := fn.ReturnType.(*ast.FuncTypeAst)
	require.Len(t, ret.Params, 1)
}

func TestParseGenericFuncAndPathTypeArgs(t *testing.T) {
	f, log := parse(t, `func map[T, U](xs: List[T], f: (T) -> U) -> List[U] { return xs; }`)
	require.Equal(t, 0, log.ErrorCount())
	fn := f.Decls[0].(*ast.FuncDecl)
	require.Len(t, fn.Generics, 2)
	xsType := fn.Params[0].TypeExpr.(*ast.PathTypeAst)
	require.Equal(t, []string{"List"}, xsType.Elements)
	require.Len(t, xsType.Args, 1)
}

func TestParseRecoversFromBadTopLevelDecl(t *testing.T) {
	f, log := parse(t, `
&&& garbage tokens ;
func ok() -> i32 => 1;
`)
	require.Greater(t, log.ErrorCount(), 0)
	require.Len(t, f.Decls, 1)
	require.Equal(t, "ok", f.Decls[0].(*ast.FuncDecl).Name)
}

func TestParseMatchRequiresAtLeastOneCase(t *testing.T) {
	_, log := parse(t, `func main() { match (x) {} }`)
	require.Equal(t, 1, log.ErrorCount())
	require.Equal(t, diagnostics.PAR010, log.Reports()[0].Code)
}
