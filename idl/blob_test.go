package idl

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildProgramBlob(t *testing.T, jsonDoc string) []byte {
	t.Helper()

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write([]byte(jsonDoc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	out := make([]byte, 0, blobHeaderSize+compressed.Len())
	out = append(out, blobDiscriminator...)
	out = append(out, make([]byte, 32)...)
	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(compressed.Len()))
	out = append(out, lengthBuf...)
	out = append(out, compressed.Bytes()...)
	return out
}

func TestParseProgramAccountBlob(t *testing.T) {
	t.Parallel()

	doc := `{"accounts":{"Escrow":{"fields":[{"name":"amount","type":"u64"}]}}}`
	blob := buildProgramBlob(t, doc)

	program, err := ParseProgramAccountBlob(blob)
	require.NoError(t, err)
	require.Contains(t, program.Accounts, "Escrow")
	require.NotNil(t, program.Metadata.Authority)
}

func TestParseProgramAccountBlobWrongDiscriminator(t *testing.T) {
	t.Parallel()

	blob := buildProgramBlob(t, `{}`)
	blob[0] = 0x00
	_, err := ParseProgramAccountBlob(blob)
	require.Error(t, err)
}

func TestParseProgramAccountBlobShort(t *testing.T) {
	t.Parallel()

	_, err := ParseProgramAccountBlob([]byte{1, 2, 3})
	require.Error(t, err)
}
