package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashConsingIdenticalShapes(t *testing.T) {
	tb := NewTable()
	a := tb.Pointer(tb.Primitive(PI32))
	b := tb.Pointer(tb.Primitive(PI32))
	require.Same(t, a, b)
}

func TestUnionCanonicalOrderingHashConses(t *testing.T) {
	tb := NewTable()
	a := tb.Union(tb.Primitive(PI32), tb.StringType())
	b := tb.Union(tb.StringType(), tb.Primitive(PI32))
	require.Same(t, a, b)
}

func TestStructMemberOrderHashConses(t *testing.T) {
	tb := NewTable()
	a := tb.Struct("Point", []Member{
		{Name: "x", Type: tb.Primitive(PI32)},
		{Name: "y", Type: tb.Primitive(PI32)},
	})
	b := tb.Struct("Point", []Member{
		{Name: "y", Type: tb.Primitive(PI32)},
		{Name: "x", Type: tb.Primitive(PI32)},
	})
	require.Same(t, a, b)
}

func TestApplyMemoizesInstantiation(t *testing.T) {
	tb := NewTable()
	param := GenericParam{Name: "T"}
	generic := tb.Generic("Box", []GenericParam{param}, tb.Struct("Box", []Member{
		{Name: "value", Type: &Type{Kind: KGeneric, Name: "T"}},
	}))

	a := tb.Apply(generic, []*Type{tb.Primitive(PI32)})
	b := tb.Apply(generic, []*Type{tb.Primitive(PI32)})
	require.Same(t, a, b)

	c := tb.Apply(generic, []*Type{tb.StringType()})
	require.NotSame(t, a, c)
}

func TestCanPromoteWidensSameSignedness(t *testing.T) {
	tb := NewTable()
	require.True(t, CanPromote(tb.Primitive(PI32), tb.Primitive(PI64)))
	require.False(t, CanPromote(tb.Primitive(PI64), tb.Primitive(PI32)))
	require.False(t, CanPromote(tb.Primitive(PI32), tb.Primitive(PU32)))
	require.True(t, CanPromote(tb.Primitive(PI32), tb.Primitive(PF64)))
}

func TestAssignableUnionMembership(t *testing.T) {
	tb := NewTable()
	u := tb.Union(tb.Primitive(PI32), tb.StringType())
	require.True(t, Assignable(tb.Primitive(PI32), u))
	require.True(t, Assignable(tb.StringType(), u))
	require.False(t, Assignable(tb.Primitive(PBool), u))
}

func TestAssignableSubclass(t *testing.T) {
	tb := NewTable()
	base := tb.Class("Animal", nil, nil, nil, false)
	derived := tb.Class("Dog", nil, base, nil, false)
	require.True(t, Assignable(derived, base))
	require.False(t, Assignable(base, derived))
}
</content>
