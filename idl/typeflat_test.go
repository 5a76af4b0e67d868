package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTypeFlatPrimitive(t *testing.T) {
	t.Parallel()

	flat, err := ParseTypeFlat("u64", NewBreadcrumbs())
	require.NoError(t, err)
	prim, ok := flat.(*FlatPrimitive)
	require.True(t, ok)
	require.Equal(t, PrimitiveU64, prim.Primitive)
}

func TestParseTypeFlatVecShorthand(t *testing.T) {
	t.Parallel()

	flat, err := ParseTypeFlat([]any{"u8"}, NewBreadcrumbs())
	require.NoError(t, err)
	vec, ok := flat.(*FlatVec)
	require.True(t, ok)
	require.Equal(t, PrefixU32, vec.Prefix)
}

func TestParseTypeFlatArrayWithLength(t *testing.T) {
	t.Parallel()

	flat, err := ParseTypeFlat([]any{"u8", float64(32)}, NewBreadcrumbs())
	require.NoError(t, err)
	arr, ok := flat.(*FlatArray)
	require.True(t, ok)
	lenConst, ok := arr.Length.(*FlatConst)
	require.True(t, ok)
	require.Equal(t, uint64(32), lenConst.Literal)
}

func TestParseTypeFlatOptionAndOption32(t *testing.T) {
	t.Parallel()

	opt, err := ParseTypeFlat(map[string]any{"option": "u32"}, NewBreadcrumbs())
	require.NoError(t, err)
	o, ok := opt.(*FlatOption)
	require.True(t, ok)
	require.Equal(t, 1, o.PrefixBytes)

	opt32, err := ParseTypeFlat(map[string]any{"option32": "u32"}, NewBreadcrumbs())
	require.NoError(t, err)
	o32, ok := opt32.(*FlatOption)
	require.True(t, ok)
	require.Equal(t, 4, o32.PrefixBytes)
}

func TestParseTypeFlatDefinedWithGenerics(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"defined": map[string]any{
			"name":     "Wrapper",
			"generics": []any{"u64"},
		},
	}
	flat, err := ParseTypeFlat(raw, NewBreadcrumbs())
	require.NoError(t, err)
	def, ok := flat.(*FlatDefined)
	require.True(t, ok)
	require.Equal(t, "Wrapper", def.Name)
	require.Len(t, def.Generics, 1)
}

func TestParseTypeFlatStructFieldsNamedVsUnnamed(t *testing.T) {
	t.Parallel()

	named, err := ParseTypeFlat(map[string]any{
		"fields": []any{map[string]any{"name": "amount", "type": "u64"}},
	}, NewBreadcrumbs())
	require.NoError(t, err)
	s, ok := named.(*FlatStruct)
	require.True(t, ok)
	require.True(t, s.Fields.IsNamed())

	unnamed, err := ParseTypeFlat(map[string]any{
		"fields": []any{"u64", "u32"},
	}, NewBreadcrumbs())
	require.NoError(t, err)
	us, ok := unnamed.(*FlatStruct)
	require.True(t, ok)
	require.True(t, us.Fields.IsUnnamed())
	require.Len(t, us.Fields.Unnamed, 2)
}

func TestParseTypeFlatEnumVariants(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"variants": []any{
			"Created",
			map[string]any{"name": "Closed", "code": float64(5)},
		},
	}
	flat, err := ParseTypeFlat(raw, NewBreadcrumbs())
	require.NoError(t, err)
	enum, ok := flat.(*FlatEnum)
	require.True(t, ok)
	require.Len(t, enum.Variants, 2)
	require.Nil(t, enum.Variants[0].Code)
	require.NotNil(t, enum.Variants[1].Code)
	require.Equal(t, 5, *enum.Variants[1].Code)
}

func TestParseTypeFlatUnknownObjectErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseTypeFlat(map[string]any{"nonsense": true}, NewBreadcrumbs())
	require.Error(t, err)
}
