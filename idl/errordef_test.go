package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorDef(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"code": float64(6000), "msg": "insufficient funds"}
	errDef, err := ParseErrorDef("InsufficientFunds", raw, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, uint32(6000), errDef.Code)
	require.Equal(t, "insufficient funds", errDef.Msg)
}

func TestParseErrorDefMissingCode(t *testing.T) {
	t.Parallel()

	_, err := ParseErrorDef("Bad", map[string]any{}, NewBreadcrumbs())
	require.Error(t, err)
}
