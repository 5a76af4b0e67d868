package idl

import (
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
)

// readValueAsBytes implements the JSON "byte-bag" input shapes spec.md
// §4.5 allows for a Vec<u8>/bytes field: a plain array of integers, or an
// object with exactly one of base16/base58/base64/utf8/zeroes.
func readValueAsBytes(value any, b Breadcrumbs) ([]byte, error) {
	switch v := value.(type) {
	case []any:
		out := make([]byte, 0, len(v))
		for i, item := range v {
			itemB := b.WithVal(strconv.Itoa(i))
			n, err := numberToBigInt(item, itemB)
			if err != nil {
				return nil, err
			}
			if !n.IsUint64() || n.Uint64() > 0xff {
				return nil, newErr(KindRangeError, "byte value out of range", itemB)
			}
			out = append(out, byte(n.Uint64()))
		}
		return out, nil
	case map[string]any:
		return readByteBagObject(v, b)
	default:
		return nil, newErr(KindParseError, "could not read bytes, expected an array or object", b.WithVal("bytes"))
	}
}

func readByteBagObject(obj map[string]any, b Breadcrumbs) ([]byte, error) {
	if s, ok := objString(obj, "base16"); ok {
		return decodeHex(s, b)
	}
	if s, ok := objString(obj, "hex"); ok {
		return decodeHex(s, b)
	}
	if s, ok := objString(obj, "base58"); ok {
		out, err := base58.Decode(strings.TrimSpace(s))
		if err != nil {
			return nil, wrapErr(KindWrapped, err, b.WithVal("base58"))
		}
		return out, nil
	}
	if s, ok := objString(obj, "base64"); ok {
		out, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, wrapErr(KindWrapped, err, b.WithVal("base64"))
		}
		return out, nil
	}
	if s, ok := objString(obj, "utf8"); ok {
		return []byte(s), nil
	}
	if raw, ok := obj["zeroes"]; ok {
		n, err := numberToBigInt(raw, b.WithVal("zeroes"))
		if err != nil {
			return nil, err
		}
		return make([]byte, n.Uint64()), nil
	}
	return nil, newErr(KindParseError, "byte-bag object must have one of base16/base58/base64/utf8/zeroes", b.WithVal("bytes"))
}

func decodeHex(s string, b Breadcrumbs) ([]byte, error) {
	cleaned := make([]byte, 0, len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') {
			cleaned = append(cleaned, byte(r))
		}
	}
	out, err := hex.DecodeString(string(cleaned))
	if err != nil {
		return nil, wrapErr(KindWrapped, err, b.WithVal("base16"))
	}
	return out, nil
}
