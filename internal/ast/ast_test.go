package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dccarter/cxy/internal/token"
)

func span() token.Span {
	pos := token.Position{File: "t.cxy", Line: 1, Column: 1}
	return token.Span{Begin: pos, End: pos}
}

func TestFlagsSetHasClear(t *testing.T) {
	f := NewFlags()
	require.False(t, f.Has(Public))
	f.Set(Public)
	require.True(t, f.Has(Public))
	f.Clear(Public)
	require.False(t, f.Has(Public))
}

func TestFuncDeclArity(t *testing.T) {
	fn := NewFuncDecl(span(), "f")
	fn.Params = []*Param{
		NewParam(span(), "a", NewPrimitiveTypeAst(span(), "i32")),
		NewParam(span(), "b", NewPrimitiveTypeAst(span(), "i32")),
	}
	fn.Params[1].Default = NewIntLiteral(span(), "0", "")
	require.Equal(t, 1, fn.RequiredParamCount())
	require.False(t, fn.IsVariadic())

	fn.Params[1].Flags.Set(Variadic)
	require.True(t, fn.IsVariadic())
}

func TestBaseNodeSpanOrdering(t *testing.T) {
	n := NewIdentifier(span(), "x")
	require.LessOrEqual(t, n.Base().Span.Begin.Offset, n.Base().Span.End.Offset)
}

func TestPrintDeterministic(t *testing.T) {
	id := NewIdentifier(span(), "x")
	a := Print(id)
	b := Print(id)
	require.Equal(t, a, b)
	require.Contains(t, a, "Identifier")
}
</content>
