package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyLayoutReprCInsertsFieldPadding(t *testing.T) {
	t.Parallel()

	content := &FullStruct{Fields: FullFields{Named: []FullNamedField{
		{Name: "flag", Type: &FullPrimitive{Primitive: PrimitiveU8}},
		{Name: "amount", Type: &FullPrimitive{Primitive: PrimitiveU64}},
	}}}
	laidOut, err := ApplyLayout(content, ReprC, DefaultLayoutOptions(), NewBreadcrumbs())
	require.NoError(t, err)
	s, ok := laidOut.(*FullStruct)
	require.True(t, ok)
	padded, ok := s.Fields.Named[1].Type.(*FullPadded)
	require.True(t, ok, "second field should gain leading padding to align it to its own width")
	require.Equal(t, uint64(7), padded.Before)

	data, err := Serialize(laidOut, map[string]any{"flag": float64(1), "amount": float64(2)}, true, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}, data)

	size, decoded, err := Deserialize(laidOut, data, 0, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, len(data), size)
	out, ok := decoded.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "2", out["amount"].(interface{ String() string }).String())
}

func TestApplyLayoutReprRustRefusesAmbiguousStruct(t *testing.T) {
	t.Parallel()

	content := &FullStruct{Fields: FullFields{Named: []FullNamedField{
		{Name: "a", Type: &FullPrimitive{Primitive: PrimitiveU8}},
		{Name: "b", Type: &FullPrimitive{Primitive: PrimitiveU8}},
		{Name: "c", Type: &FullPrimitive{Primitive: PrimitiveU8}},
	}}}
	_, err := ApplyLayout(content, ReprRust, DefaultLayoutOptions(), NewBreadcrumbs())
	require.Error(t, err)

	_, err = ApplyLayout(content, ReprRust, LayoutOptions{AllowRustRepr: true}, NewBreadcrumbs())
	require.NoError(t, err)
}

func TestApplyLayoutReprRustAllowsTwoFieldStructWithoutPrefix(t *testing.T) {
	t.Parallel()

	content := &FullStruct{Fields: FullFields{Named: []FullNamedField{
		{Name: "a", Type: &FullPrimitive{Primitive: PrimitiveU8}},
		{Name: "b", Type: &FullPrimitive{Primitive: PrimitiveU32}},
	}}}
	_, err := ApplyLayout(content, ReprRust, DefaultLayoutOptions(), NewBreadcrumbs())
	require.NoError(t, err)
}

func TestPaddingNeeded(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, paddingNeeded(8, 1))
	require.Equal(t, 0, paddingNeeded(8, 4))
	require.Equal(t, 2, paddingNeeded(6, 4))
}
