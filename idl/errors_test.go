package idl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewErrCarriesBreadcrumbs(t *testing.T) {
	t.Parallel()

	b := NewBreadcrumbs().WithIdl("accounts").WithVal("amount")
	err := newErr(KindParseError, "bad value", b)
	require.Equal(t, KindParseError, err.Kind)
	require.Contains(t, err.Error(), "idl.accounts")
	require.Contains(t, err.Error(), "val.amount")
}

func TestWrapErrUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := wrapErr(KindWrapped, cause, NewBreadcrumbs())
	require.Same(t, cause, errors.Unwrap(err))
}
