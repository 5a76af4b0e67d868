package idl

import "strconv"

// Blob pairs an on-chain byte offset with an expected constant value.
// Account.Blobs always includes the discriminator at offset 0; additional
// entries constrain further constant regions (spec.md §3, §4.6).
type Blob struct {
	Offset int
	Bytes  []byte
}

// Account is a parsed account schema entry (spec.md §3, §4.6). ContentFlat
// is the field list as parsed; ContentFull is filled in once the caller
// hydrates it against a typedef registry (Program.HydrateAll does this for
// every account of a parsed program; ParseProgram does not call it).
type Account struct {
	Name          string
	Docs          []string
	Space         *uint64
	Blobs         []Blob
	Discriminator []byte
	ContentFlat   TypeFlat
	ContentFull   TypeFull
}

// ParseAccount reads `{ discriminator?, space?, blobs?, docs?, fields... }`
// per spec.md §4.6 and supplemented feature 1: the account body may be an
// inline struct (the common "fields" shorthand seen throughout the pack's
// fixtures) or a typedef-style `defined`/`type` reference, both handled
// transparently by ParseTypeFlat.
func ParseAccount(name string, value any, b Breadcrumbs) (*Account, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newErr(KindParseError, "account must be a JSON object", b.WithIdl(name))
	}
	b = b.WithIdl(name)

	acc := &Account{Name: name, Docs: objDocs(obj)}

	disc, err := parseDiscriminator(obj, "account:"+name, b)
	if err != nil {
		return nil, err
	}
	acc.Discriminator = disc
	acc.Blobs = append(acc.Blobs, Blob{Offset: 0, Bytes: disc})

	if rawBlobs, ok := objArray(obj, "blobs"); ok {
		for i, rb := range rawBlobs {
			blobB := b.WithIdl("blobs").WithIdl(strconv.Itoa(i))
			blobObj, ok := rb.(map[string]any)
			if !ok {
				return nil, newErr(KindParseError, "blob must be a JSON object", blobB)
			}
			offset := intFromAny(blobObj["offset"])
			bytesVal, err := readValueAsBytes(blobObj["bytes"], blobB)
			if err != nil {
				return nil, err
			}
			acc.Blobs = append(acc.Blobs, Blob{Offset: offset, Bytes: bytesVal})
		}
	}

	if rawSpace, ok := obj["space"]; ok {
		spaceFlat, err := ParseTypeFlat(rawSpace, b.WithIdl("space"))
		if err != nil {
			return nil, err
		}
		if c, ok := spaceFlat.(*FlatConst); ok {
			lit := c.Literal
			acc.Space = &lit
		}
	}

	body, err := ParseTypeFlat(value, b)
	if err != nil {
		return nil, err
	}
	acc.ContentFlat = body
	return acc, nil
}

// Hydrate fills in ContentFull against the given typedef registry.
func (a *Account) Hydrate(registry TypedefRegistry, opts LayoutOptions, b Breadcrumbs) error {
	full, err := Hydrate(a.ContentFlat, registry, GenericsBySymbol{}, opts, b.WithIdl(a.Name))
	if err != nil {
		return err
	}
	a.ContentFull = full
	return nil
}

// Decode asserts the discriminator and deserializes the remainder of data
// as the account's content (spec.md §4.6).
func (a *Account) Decode(data []byte, b Breadcrumbs) (any, error) {
	if len(data) < len(a.Discriminator) {
		return nil, newErr(KindShortRead, "account data shorter than discriminator", b)
	}
	for i, want := range a.Discriminator {
		if data[i] != want {
			return nil, newErrf(KindDiscriminatorMismatch, b, "account %s: discriminator mismatch", a.Name)
		}
	}
	_, value, err := Deserialize(a.ContentFull, data, len(a.Discriminator), b.WithIdl(a.Name))
	return value, err
}

// Encode emits discriminator || serialize(value, deserializable=true)
// (spec.md §4.6).
func (a *Account) Encode(value any, b Breadcrumbs) ([]byte, error) {
	out := append([]byte{}, a.Discriminator...)
	body, err := Serialize(a.ContentFull, value, true, b.WithIdl(a.Name))
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}

// parseDiscriminator honors the default hash convention and the two
// legacy explicit shapes preserved as supplemented feature 5: an integer
// array, or a base64-encoded string.
func parseDiscriminator(obj map[string]any, defaultPreimage string, b Breadcrumbs) ([]byte, error) {
	raw, ok := obj["discriminator"]
	if !ok {
		h := hashDiscriminator(defaultPreimage)
		return h, nil
	}
	discB := b.WithIdl("discriminator")
	switch v := raw.(type) {
	case []any:
		out := make([]byte, 0, len(v))
		for _, item := range v {
			n := intFromAny(item)
			if n < 0 || n > 0xff {
				return nil, newErr(KindRangeError, "discriminator byte out of range", discB)
			}
			out = append(out, byte(n))
		}
		return out, nil
	case string:
		return decodeDiscriminatorString(v, discB)
	default:
		return nil, newErr(KindParseError, "discriminator must be an array or a base64 string", discB)
	}
}
