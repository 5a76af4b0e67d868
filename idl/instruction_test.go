package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInstructionAccountsAndArgs(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"accounts": []any{
			map[string]any{"name": "authority", "signer": true, "writable": false},
			map[string]any{
				"name": "escrow",
				"pda": map[string]any{
					"seeds": []any{
						map[string]any{"kind": "const", "value": []any{float64(101), float64(115), float64(99)}},
						map[string]any{"kind": "account", "path": "authority"},
					},
				},
			},
		},
		"args": []any{
			map[string]any{"name": "amount", "type": "u64"},
		},
	}
	in, err := ParseInstruction("InitializeEscrow", raw, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, InstructionDiscriminator("InitializeEscrow"), in.Discriminator)
	require.Len(t, in.Accounts, 2)
	require.True(t, in.Accounts[0].Signer)
	require.NotNil(t, in.Accounts[1].Pda)
	require.Len(t, in.Accounts[1].Pda.Seeds, 2)

	_, ok := in.Accounts[1].Pda.Seeds[0].(*SeedConst)
	require.True(t, ok)
	seedAccount, ok := in.Accounts[1].Pda.Seeds[1].(*SeedAccount)
	require.True(t, ok)
	require.Equal(t, []string{"authority"}, seedAccount.Path)
}

func TestParseInstructionShorthandSeedDialect(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"accounts": []any{
			map[string]any{
				"name": "escrow",
				"pda": map[string]any{
					"seeds": []any{
						map[string]any{"arg": "owner.key"},
					},
				},
			},
		},
		"args": []any{},
	}
	in, err := ParseInstruction("Close", raw, NewBreadcrumbs())
	require.NoError(t, err)
	seedArg, ok := in.Accounts[0].Pda.Seeds[0].(*SeedArg)
	require.True(t, ok)
	require.Equal(t, []string{"owner", "key"}, seedArg.Path)
}

func TestInstructionHydrateEncodeDecode(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"args": []any{
			map[string]any{"name": "amount", "type": "u64"},
		},
	}
	in, err := ParseInstruction("Deposit", raw, NewBreadcrumbs())
	require.NoError(t, err)
	require.NoError(t, in.Hydrate(TypedefRegistry{}, DefaultLayoutOptions(), NewBreadcrumbs()))

	encoded, err := in.Encode(map[string]any{"amount": float64(7)}, NewBreadcrumbs())
	require.NoError(t, err)

	decoded, err := in.Decode(encoded, NewBreadcrumbs())
	require.NoError(t, err)
	require.NotNil(t, decoded)
}
