package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSnake(t *testing.T) {
	t.Parallel()

	require.Equal(t, "my_account", normalizeSnake("MyAccount"))
	require.Equal(t, "my_account", normalizeSnake("my-account"))
	require.Equal(t, "already_snake", normalizeSnake("already_snake"))
}

func TestNormalizePascal(t *testing.T) {
	t.Parallel()

	require.Equal(t, "MyAccount", normalizePascal("my_account"))
	require.Equal(t, "MyAccount", normalizePascal("my-account"))
	require.Equal(t, "Escrow", normalizePascal("Escrow"))
}

func TestNamesEqual(t *testing.T) {
	t.Parallel()

	require.True(t, namesEqual("MyArg", "my_arg"))
	require.True(t, namesEqual("my-arg", "My_Arg"))
	require.False(t, namesEqual("my_arg", "other_arg"))
}
