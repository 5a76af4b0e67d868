package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsConstLiteral(t *testing.T) {
	t.Parallel()

	v, ok := AsConstLiteral(&FullConst{Literal: 7})
	require.True(t, ok)
	require.Equal(t, uint64(7), v)

	_, ok = AsConstLiteral(&FullPrimitive{Primitive: PrimitiveU8})
	require.False(t, ok)
}

func TestAsStructFieldsUnwrapsTypedef(t *testing.T) {
	t.Parallel()

	inner := &FullStruct{Fields: FullFields{Named: []FullNamedField{{Name: "amount", Type: &FullPrimitive{Primitive: PrimitiveU64}}}}}
	wrapped := &FullTypedef{Name: "Escrow", Content: inner}

	fields, ok := AsStructFields(wrapped)
	require.True(t, ok)
	require.True(t, fields.IsNamed())
	require.Equal(t, "amount", fields.Named[0].Name)

	_, ok = AsStructFields(&FullPrimitive{Primitive: PrimitiveU8})
	require.False(t, ok)
}

func TestFullFieldsPredicates(t *testing.T) {
	t.Parallel()

	require.True(t, FullFields{}.IsNone())
	require.True(t, FullFields{Named: []FullNamedField{{Name: "a"}}}.IsNamed())
	require.True(t, FullFields{Unnamed: []TypeFull{&FullPrimitive{Primitive: PrimitiveU8}}}.IsUnnamed())
}
