package idl

// TypeFull is the hydrated counterpart of TypeFlat (spec.md §3): every
// Defined has been replaced by a Typedef wrapper around a concrete body,
// every Generic has been substituted, and — for bytemuck typedefs — Padded
// nodes have been inserted where the layout engine requires them.
type TypeFull interface {
	isTypeFull()
	Describe() string
}

// FullTypedef is a transparent wrapper recording which named typedef (and
// representation) produced this subtree, so codec/layout errors can name
// it, and so the codec can delegate straight through to Content.
type FullTypedef struct {
	Name    string
	Repr    Repr
	Content TypeFull
}

type FullOption struct {
	PrefixBytes int
	Content     TypeFull
}

type FullVec struct {
	Prefix PrefixWidth
	Items  TypeFull
}

type FullArray struct {
	Items  TypeFull
	Length uint64
}

type FullStringType struct {
	Prefix PrefixWidth
}

type FullFields struct {
	Named   []FullNamedField
	Unnamed []TypeFull
}

type FullNamedField struct {
	Name string
	Docs []string
	Type TypeFull
}

func (f FullFields) IsNamed() bool   { return len(f.Named) > 0 }
func (f FullFields) IsUnnamed() bool { return len(f.Unnamed) > 0 }
func (f FullFields) IsNone() bool    { return len(f.Named) == 0 && len(f.Unnamed) == 0 }

type FullStruct struct {
	Fields FullFields
}

type FullEnumVariant struct {
	Name   string
	Code   int
	Docs   []string
	Fields FullFields
}

type FullEnum struct {
	Prefix   PrefixWidth
	Variants []FullEnumVariant
}

// FullPadded is the layout engine's output wrapper (spec.md §4.4): on
// write it emits Before zero bytes, serializes Content, zero-pads to
// MinSize, then emits After zero bytes; on read it advances by
// Before + max(content_size, MinSize) + After.
type FullPadded struct {
	Before  uint64
	MinSize uint64
	After   uint64
	Content TypeFull
}

// FullConst only appears transiently during hydration (as the resolved
// value of an Array length or a const generic argument); it is never a
// legal node to serialize directly.
type FullConst struct {
	Literal uint64
}

type FullPrimitive struct {
	Primitive Primitive
}

func (*FullTypedef) isTypeFull()    {}
func (*FullOption) isTypeFull()     {}
func (*FullVec) isTypeFull()        {}
func (*FullArray) isTypeFull()      {}
func (*FullStringType) isTypeFull() {}
func (*FullStruct) isTypeFull()     {}
func (*FullEnum) isTypeFull()       {}
func (*FullPadded) isTypeFull()     {}
func (*FullConst) isTypeFull()      {}
func (*FullPrimitive) isTypeFull()  {}

func (t *FullTypedef) Describe() string    { return t.Name }
func (o *FullOption) Describe() string     { return "Option<" + o.Content.Describe() + ">" }
func (v *FullVec) Describe() string        { return "Vec<" + v.Items.Describe() + ">" }
func (a *FullArray) Describe() string      { return "Array<" + a.Items.Describe() + ">" }
func (s *FullStringType) Describe() string { return "string" }
func (s *FullStruct) Describe() string     { return "Struct()" }
func (e *FullEnum) Describe() string       { return "Enum()" }
func (p *FullPadded) Describe() string     { return "Padded<" + p.Content.Describe() + ">" }
func (c *FullConst) Describe() string      { return "const" }
func (p *FullPrimitive) Describe() string  { return p.Primitive.String() }

// AsConstLiteral reports whether t reduces to a const literal (used by
// the hydrator to resolve an Array's length, spec.md §4.3).
func AsConstLiteral(t TypeFull) (uint64, bool) {
	c, ok := t.(*FullConst)
	if !ok {
		return 0, false
	}
	return c.Literal, true
}

// AsStructFields unwraps Typedef wrappers and returns the underlying
// field list if t is (or wraps) a Struct — used by the PDA path walker
// (spec.md §4.7) which needs to step through named struct fields without
// caring whether the field's declared type was a bare struct or a
// typedef reference to one.
func AsStructFields(t TypeFull) (FullFields, bool) {
	for {
		switch v := t.(type) {
		case *FullTypedef:
			t = v.Content
		case *FullStruct:
			return v.Fields, true
		default:
			return FullFields{}, false
		}
	}
}
