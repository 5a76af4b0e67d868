package idl

// Primitive identifies one of the fixed-width scalar kinds the wire format
// knows how to encode. These never recurse.
type Primitive int

const (
	PrimitiveU8 Primitive = iota
	PrimitiveU16
	PrimitiveU32
	PrimitiveU64
	PrimitiveU128
	PrimitiveI8
	PrimitiveI16
	PrimitiveI32
	PrimitiveI64
	PrimitiveI128
	PrimitiveF32
	PrimitiveF64
	PrimitiveBool
	PrimitiveString
	PrimitivePubkey
)

var primitiveNames = map[string]Primitive{
	"u8":        PrimitiveU8,
	"u16":       PrimitiveU16,
	"u32":       PrimitiveU32,
	"u64":       PrimitiveU64,
	"u128":      PrimitiveU128,
	"i8":        PrimitiveI8,
	"i16":       PrimitiveI16,
	"i32":       PrimitiveI32,
	"i64":       PrimitiveI64,
	"i128":      PrimitiveI128,
	"f32":       PrimitiveF32,
	"f64":       PrimitiveF64,
	"bool":      PrimitiveBool,
	"string":    PrimitiveString,
	"pubkey":    PrimitivePubkey,
	"publicKey": PrimitivePubkey,
}

// ParsePrimitive recognizes the keyword spellings listed in spec.md §4.1
// rule 11, including the pubkey/publicKey alias. It returns ok=false for
// any string that isn't a primitive keyword (the caller then treats it as
// a Defined reference).
func ParsePrimitive(s string) (Primitive, bool) {
	p, ok := primitiveNames[s]
	return p, ok
}

// String renders the canonical spelling. Per spec.md §9's Open Question
// decision, the canonical pubkey spelling is always "pubkey", never
// "publicKey".
func (p Primitive) String() string {
	switch p {
	case PrimitiveU8:
		return "u8"
	case PrimitiveU16:
		return "u16"
	case PrimitiveU32:
		return "u32"
	case PrimitiveU64:
		return "u64"
	case PrimitiveU128:
		return "u128"
	case PrimitiveI8:
		return "i8"
	case PrimitiveI16:
		return "i16"
	case PrimitiveI32:
		return "i32"
	case PrimitiveI64:
		return "i64"
	case PrimitiveI128:
		return "i128"
	case PrimitiveF32:
		return "f32"
	case PrimitiveF64:
		return "f64"
	case PrimitiveBool:
		return "bool"
	case PrimitiveString:
		return "string"
	case PrimitivePubkey:
		return "pubkey"
	default:
		return "unknown"
	}
}

// FixedSize returns the encoded size in bytes for every primitive except
// String, which is length-prefixed and thus has no fixed size.
func (p Primitive) FixedSize() (size int, fixed bool) {
	switch p {
	case PrimitiveU8, PrimitiveI8, PrimitiveBool:
		return 1, true
	case PrimitiveU16, PrimitiveI16:
		return 2, true
	case PrimitiveU32, PrimitiveI32, PrimitiveF32:
		return 4, true
	case PrimitiveU64, PrimitiveI64, PrimitiveF64:
		return 8, true
	case PrimitiveU128, PrimitiveI128:
		return 16, true
	case PrimitivePubkey:
		return 32, true
	default:
		return 0, false
	}
}

// Alignment returns the bytemuck (C/Rust memory layout) alignment of a
// primitive: equal to its size for every numeric/bool primitive, but 1 for
// Pubkey since it is represented as a plain 32-byte array with no natural
// alignment larger than a byte.
func (p Primitive) Alignment() (align int, ok bool) {
	switch p {
	case PrimitivePubkey:
		return 1, true
	default:
		return p.FixedSize()
	}
}

// PrefixWidth is the byte width of a length/discriminant prefix for Vec,
// String and Option nodes (spec.md §3).
type PrefixWidth int

const (
	PrefixU8 PrefixWidth = 1 << iota
	PrefixU16
	PrefixU32
	PrefixU64
)

// Bytes returns the number of bytes the prefix occupies on the wire.
func (w PrefixWidth) Bytes() int {
	switch w {
	case PrefixU8:
		return 1
	case PrefixU16:
		return 2
	case PrefixU32:
		return 4
	case PrefixU64:
		return 8
	default:
		return 4
	}
}

// PrefixWidthFromSize picks the narrowest prefix width that can hold size
// bytes, used by the layout engine when it widens an Option's discriminant
// to match its content's alignment (spec.md §4.4).
func PrefixWidthFromSize(size int) (PrefixWidth, error) {
	switch {
	case size <= 1:
		return PrefixU8, nil
	case size <= 2:
		return PrefixU16, nil
	case size <= 4:
		return PrefixU32, nil
	case size <= 8:
		return PrefixU64, nil
	default:
		return 0, newErr(KindLayoutError, "no prefix width fits alignment", NewBreadcrumbs())
	}
}
