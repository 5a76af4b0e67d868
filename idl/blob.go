package idl

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/json"
	"io"
)

// blobDiscriminator is the fixed 8-byte magic prefixing an on-chain IDL
// account (spec.md §4.8, §6): discriminator || authority(32) || length(u32
// LE) || zlib-deflated UTF-8 JSON.
var blobDiscriminator = []byte{0x18, 0x46, 0x62, 0xBF, 0x3A, 0x90, 0x7B, 0x9E}

const blobHeaderSize = 8 + 32 + 4

// ParseProgramAccountBlob decodes the raw bytes of an on-chain IDL account
// into a Program, using compress/zlib for the inflate step (no suitable
// third-party zlib binding appears among the pack's dependencies, and the
// format is a direct zlib stream, so the standard library is the natural
// fit here).
func ParseProgramAccountBlob(data []byte) (*Program, error) {
	b := NewBreadcrumbs()
	if len(data) < blobHeaderSize {
		return nil, newErr(KindShortRead, "idl account blob shorter than its header", b)
	}
	if !bytes.HasPrefix(data, blobDiscriminator) {
		return nil, newErr(KindDiscriminatorMismatch, "idl account blob has an unexpected discriminator", b.WithVal("discriminator"))
	}

	var authority Pubkey
	copy(authority[:], data[8:40])

	length := binary.LittleEndian.Uint32(data[40:44])
	end := blobHeaderSize + int(length)
	if end > len(data) {
		return nil, newErr(KindShortRead, "idl account blob shorter than its declared content length", b.WithVal("content"))
	}

	raw, err := inflateZlib(data[blobHeaderSize:end], b.WithVal("content"))
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, wrapErr(KindWrapped, err, b.WithVal("content"))
	}

	program, err := ParseProgram(value)
	if err != nil {
		return nil, err
	}
	program.Metadata.Authority = &authority
	return program, nil
}

func inflateZlib(content []byte, b Breadcrumbs) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, wrapErr(KindInflate, err, b)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, wrapErr(KindInflate, err, b)
	}
	return out, nil
}
