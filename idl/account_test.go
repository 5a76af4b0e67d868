package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAccountDefaultDiscriminator(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"fields": []any{
			map[string]any{"name": "amount", "type": "u64"},
		},
	}
	acc, err := ParseAccount("Escrow", raw, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, AccountDiscriminator("Escrow"), acc.Discriminator)
	require.Len(t, acc.Blobs, 1)
	require.Equal(t, 0, acc.Blobs[0].Offset)
	require.Equal(t, acc.Discriminator, acc.Blobs[0].Bytes)
}

func TestParseAccountExplicitBlobsAndSpace(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"space": float64(128),
		"blobs": []any{
			map[string]any{"offset": float64(8), "bytes": map[string]any{"base64": "AQID"}},
		},
		"fields": []any{
			map[string]any{"name": "owner", "type": "pubkey"},
		},
	}
	acc, err := ParseAccount("Vault", raw, NewBreadcrumbs())
	require.NoError(t, err)
	require.NotNil(t, acc.Space)
	require.Equal(t, uint64(128), *acc.Space)
	require.Len(t, acc.Blobs, 2)
	require.Equal(t, 8, acc.Blobs[1].Offset)
	require.Equal(t, []byte{1, 2, 3}, acc.Blobs[1].Bytes)
}

func TestAccountHydrateEncodeDecode(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"fields": []any{
			map[string]any{"name": "amount", "type": "u64"},
		},
	}
	acc, err := ParseAccount("Escrow", raw, NewBreadcrumbs())
	require.NoError(t, err)
	require.NoError(t, acc.Hydrate(TypedefRegistry{}, DefaultLayoutOptions(), NewBreadcrumbs()))

	encoded, err := acc.Encode(map[string]any{"amount": float64(42)}, NewBreadcrumbs())
	require.NoError(t, err)
	require.True(t, len(encoded) > 8)

	decoded, err := acc.Decode(encoded, NewBreadcrumbs())
	require.NoError(t, err)
	require.NotNil(t, decoded)

	_, err = acc.Decode(append([]byte{0, 0, 0, 0, 0, 0, 0, 0}, encoded[8:]...), NewBreadcrumbs())
	require.Error(t, err)
}

func TestParseDiscriminatorExplicitArray(t *testing.T) {
	t.Parallel()

	obj := map[string]any{
		"discriminator": []any{float64(1), float64(2), float64(3), float64(4), float64(5), float64(6), float64(7), float64(8)},
	}
	disc, err := parseDiscriminator(obj, "account:Unused", NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, disc)
}
