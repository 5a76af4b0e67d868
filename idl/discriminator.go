package idl

import (
	"crypto/sha256"
	"encoding/base64"
	"unicode"
)

// snakeCase converts a PascalCase/camelCase identifier to snake_case by
// inserting an underscore before every interior uppercase rune, then
// lowercasing the whole string. Ported from the teacher's
// accountDiscriminator helper in idlgen/idlgen.go, which performed the
// same conversion inline before hashing.
func snakeCase(name string) string {
	var out []rune
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			out = append(out, '_')
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}

// hashDiscriminator is the first 8 bytes of sha256(preimage).
func hashDiscriminator(preimage string) []byte {
	h := sha256.Sum256([]byte(preimage))
	out := make([]byte, 8)
	copy(out, h[:8])
	return out
}

// AccountDiscriminator is the default 8-byte account discriminator, the
// first 8 bytes of sha256("account:"+Name). Unlike instructions, the name
// is hashed verbatim (spec.md §6, §9 Discriminator
// determinism).
func AccountDiscriminator(name string) []byte {
	return hashDiscriminator("account:" + name)
}

// InstructionDiscriminator is the default 8-byte instruction discriminator,
// the first 8 bytes of sha256("global:"+snake_case(Name)).
func InstructionDiscriminator(name string) []byte {
	return hashDiscriminator("global:" + snakeCase(name))
}

// EventDiscriminator is the default 8-byte event discriminator, the first
// 8 bytes of sha256("event:"+Name).
func EventDiscriminator(name string) []byte {
	return hashDiscriminator("event:" + name)
}

// decodeDiscriminatorString decodes the legacy base64-string discriminator
// shape preserved as supplemented feature 5.
func decodeDiscriminatorString(s string, b Breadcrumbs) ([]byte, error) {
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, wrapErr(KindWrapped, err, b)
	}
	return out, nil
}
