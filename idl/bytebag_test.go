package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadValueAsBytesIntArray(t *testing.T) {
	t.Parallel()

	b, err := readValueAsBytes([]any{float64(1), float64(2), float64(255)}, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 255}, b)
}

func TestReadValueAsBytesIntArrayOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := readValueAsBytes([]any{float64(256)}, NewBreadcrumbs())
	require.Error(t, err)
}

func TestReadValueAsBytesByteBagDialects(t *testing.T) {
	t.Parallel()

	hex, err := readValueAsBytes(map[string]any{"base16": "0102"}, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, hex)

	b64, err := readValueAsBytes(map[string]any{"base64": "AQI="}, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, b64)

	utf8, err := readValueAsBytes(map[string]any{"utf8": "hi"}, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), utf8)
}

func TestReadValueAsBytesInvalidShape(t *testing.T) {
	t.Parallel()

	_, err := readValueAsBytes("not-an-array-or-object", NewBreadcrumbs())
	require.Error(t, err)
}
