package idl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventParseHydrateEncodeDecode(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"fields": []any{
			map[string]any{"name": "amount", "type": "u64"},
		},
	}
	ev, err := ParseEvent("Deposited", raw, NewBreadcrumbs())
	require.NoError(t, err)
	require.Equal(t, EventDiscriminator("Deposited"), ev.Discriminator)

	require.NoError(t, ev.Hydrate(TypedefRegistry{}, DefaultLayoutOptions(), NewBreadcrumbs()))

	encoded, err := ev.Encode(map[string]any{"amount": float64(5)}, NewBreadcrumbs())
	require.NoError(t, err)

	decoded, err := ev.Decode(encoded, NewBreadcrumbs())
	require.NoError(t, err)
	require.NotNil(t, decoded)

	_, err = ev.Decode([]byte{1, 2, 3}, NewBreadcrumbs())
	require.Error(t, err)
}
