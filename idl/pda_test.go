package idl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolverLiteralAndPdaAccounts(t *testing.T) {
	t.Parallel()

	programID, err := ParsePubkey(testSystemProgramAddress)
	require.NoError(t, err)
	authority, err := ParsePubkey(testSystemProgramAddress)
	require.NoError(t, err)

	instruction := &Instruction{
		Name: "InitializeEscrow",
		Accounts: []InstructionAccount{
			{Name: "authority", Address: &authority},
			{
				Name: "escrow",
				Pda: &Pda{
					Seeds: []SeedBlob{
						&SeedConst{Bytes: []byte("escrow")},
						&SeedAccount{Path: []string{"authority"}},
					},
				},
			},
		},
	}
	program := &Program{Metadata: Metadata{Address: &programID}}
	resolver := &Resolver{Program: program, Options: DefaultResolveOptions()}

	resolved, err := resolver.Resolve(context.Background(), instruction, nil, nil)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	require.Equal(t, authority, resolved["authority"])
	require.NotEqual(t, Pubkey{}, resolved["escrow"])
}

func TestResolverUnresolvableAccount(t *testing.T) {
	t.Parallel()

	instruction := &Instruction{
		Name: "Close",
		Accounts: []InstructionAccount{
			{Name: "mystery"},
		},
	}
	resolver := &Resolver{Program: &Program{}, Options: DefaultResolveOptions()}

	_, err := resolver.Resolve(context.Background(), instruction, nil, nil)
	require.Error(t, err)
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	require.Equal(t, KindPdaUnresolvable, engineErr.Kind)
}

func TestResolverUsesKnownAddresses(t *testing.T) {
	t.Parallel()

	knownAddr, err := ParsePubkey(testSystemProgramAddress)
	require.NoError(t, err)
	instruction := &Instruction{
		Name: "Noop",
		Accounts: []InstructionAccount{
			{Name: "system"},
		},
	}
	resolver := &Resolver{Program: &Program{}, Options: DefaultResolveOptions()}

	resolved, err := resolver.Resolve(context.Background(), instruction, nil, map[string]Pubkey{"system": knownAddr})
	require.NoError(t, err)
	require.Equal(t, knownAddr, resolved["system"])
}
