package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHydratePrimitiveAndOption(t *testing.T) {
	t.Parallel()

	full, err := Hydrate(&FlatOption{PrefixBytes: 1, Content: &FlatPrimitive{Primitive: PrimitiveU32}}, TypedefRegistry{}, GenericsBySymbol{}, DefaultLayoutOptions(), NewBreadcrumbs())
	require.NoError(t, err)
	opt, ok := full.(*FullOption)
	require.True(t, ok)
	require.Equal(t, 1, opt.PrefixBytes)
}

func TestHydrateArrayRequiresConstLength(t *testing.T) {
	t.Parallel()

	flat := &FlatArray{Items: &FlatPrimitive{Primitive: PrimitiveU8}, Length: &FlatConst{Literal: 4}}
	full, err := Hydrate(flat, TypedefRegistry{}, GenericsBySymbol{}, DefaultLayoutOptions(), NewBreadcrumbs())
	require.NoError(t, err)
	arr, ok := full.(*FullArray)
	require.True(t, ok)
	require.Equal(t, uint64(4), arr.Length)
}

func TestHydrateDefinedResolvesTypedefAndGenerics(t *testing.T) {
	t.Parallel()

	registry := TypedefRegistry{
		"Wrapper": {
			Name:     "Wrapper",
			Generics: []string{"T"},
			Body: &FlatStruct{Fields: FlatFields{Named: []FlatNamedField{
				{Name: "value", Type: &FlatGeneric{Symbol: "T"}},
			}}},
		},
	}
	flat := &FlatDefined{Name: "Wrapper", Generics: []TypeFlat{&FlatPrimitive{Primitive: PrimitiveU64}}}
	full, err := Hydrate(flat, registry, GenericsBySymbol{}, DefaultLayoutOptions(), NewBreadcrumbs())
	require.NoError(t, err)
	td, ok := full.(*FullTypedef)
	require.True(t, ok)
	fields, ok := AsStructFields(td)
	require.True(t, ok)
	require.Equal(t, "value", fields.Named[0].Name)
	prim, ok := fields.Named[0].Type.(*FullPrimitive)
	require.True(t, ok)
	require.Equal(t, PrimitiveU64, prim.Primitive)
}

func TestHydrateUnresolvedDefinedErrors(t *testing.T) {
	t.Parallel()

	_, err := Hydrate(&FlatDefined{Name: "Missing"}, TypedefRegistry{}, GenericsBySymbol{}, DefaultLayoutOptions(), NewBreadcrumbs())
	require.Error(t, err)
}

func TestHydrateEnumAssignsSequentialCodes(t *testing.T) {
	t.Parallel()

	five := 5
	flat := &FlatEnum{Variants: []FlatEnumVariant{
		{Name: "A"},
		{Name: "B", Code: &five},
		{Name: "C"},
	}}
	full, err := Hydrate(flat, TypedefRegistry{}, GenericsBySymbol{}, DefaultLayoutOptions(), NewBreadcrumbs())
	require.NoError(t, err)
	enum, ok := full.(*FullEnum)
	require.True(t, ok)
	require.Equal(t, 0, enum.Variants[0].Code)
	require.Equal(t, 5, enum.Variants[1].Code)
	require.Equal(t, 1, enum.Variants[2].Code)
}
