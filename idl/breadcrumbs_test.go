package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBreadcrumbsImmutableBranching(t *testing.T) {
	t.Parallel()

	root := NewBreadcrumbs().WithIdl("accounts").WithIdl("Escrow")
	child1 := root.WithIdl("fields").WithIdl("amount")
	child2 := root.WithIdl("fields").WithIdl("owner")

	require.Equal(t, "idl.accounts.Escrow.fields.amount", child1.Idl())
	require.Equal(t, "idl.accounts.Escrow.fields.owner", child2.Idl())
	require.Equal(t, "idl.accounts.Escrow", root.Idl(), "branching must not mutate the parent")
}

func TestBreadcrumbsValPath(t *testing.T) {
	t.Parallel()

	b := NewBreadcrumbs().WithVal("amount")
	require.Equal(t, "val.amount", b.Val())
	require.Equal(t, "idl", b.Idl())
}
