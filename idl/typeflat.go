package idl

import (
	"encoding/json"
	"strconv"
)

// TypeFlat is the recursive, unresolved type tree produced by the parser
// (spec.md §3). Every concrete node type below implements it; the
// interface itself carries no behavior beyond a marker method, matching
// the "recursive positions use owning single-child handles" guidance in
// spec.md §9 (here, ordinary pointers to the concrete node types).
type TypeFlat interface {
	isTypeFlat()
	// Describe renders a short human-readable summary, used in error
	// messages and tests.
	Describe() string
}

// FlatDefined is an unresolved reference to a typedef by name, optionally
// parameterized by generics (types or const literals).
type FlatDefined struct {
	Name     string
	Generics []TypeFlat
}

// FlatGeneric is a type-parameter placeholder, valid only inside a
// typedef body.
type FlatGeneric struct {
	Symbol string
}

// FlatOption is a discriminant+payload wrapper. PrefixBytes is 1 for
// `option` and 4 for `option32`.
type FlatOption struct {
	PrefixBytes int
	Content     TypeFlat
}

// FlatVec is a length-prefixed homogeneous sequence.
type FlatVec struct {
	Prefix PrefixWidth
	Items  TypeFlat
}

// FlatArray is a fixed-length homogeneous sequence; Length must itself
// reduce to a const literal once hydrated.
type FlatArray struct {
	Items  TypeFlat
	Length TypeFlat
}

// FlatStringType is a length-prefixed UTF-8 string.
type FlatStringType struct {
	Prefix PrefixWidth
}

// FlatFields is the shared field-list shape for structs and enum variant
// payloads: named, tuple-like unnamed, or empty.
type FlatFields struct {
	Named   []FlatNamedField
	Unnamed []TypeFlat
}

// FlatNamedField is one field of a Named FlatFields.
type FlatNamedField struct {
	Name string
	Docs []string
	Type TypeFlat
}

func (f FlatFields) IsNamed() bool   { return len(f.Named) > 0 }
func (f FlatFields) IsUnnamed() bool { return len(f.Unnamed) > 0 }
func (f FlatFields) IsNone() bool    { return len(f.Named) == 0 && len(f.Unnamed) == 0 }

// FlatStruct wraps a field list.
type FlatStruct struct {
	Fields FlatFields
}

// FlatEnumVariant is one tagged-union case. Code is nil when the JSON
// didn't specify one explicitly; the hydrator assigns the next unused
// sequential integer in that case (spec.md §4.3).
type FlatEnumVariant struct {
	Name   string
	Code   *int
	Docs   []string
	Fields FlatFields
}

// FlatEnum is a tagged union.
type FlatEnum struct {
	Prefix   PrefixWidth
	Variants []FlatEnumVariant
}

// FlatPadded is a layout wrapper. The JSON parser never produces this
// directly (spec.md §4.1 has no rule that emits it) — it exists so a
// typedef body can, in principle, be hand-authored with explicit padding,
// and so the flat/full variant sets stay in the 1:1 correspondence
// spec.md §3 describes.
type FlatPadded struct {
	Before  uint64
	MinSize uint64
	After   uint64
	Content TypeFlat
}

// FlatConst is a resolved-at-parse-time literal, valid only as an array
// length or a generic const argument.
type FlatConst struct {
	Literal uint64
}

// FlatPrimitive wraps a Primitive leaf.
type FlatPrimitive struct {
	Primitive Primitive
}

func (*FlatDefined) isTypeFlat()    {}
func (*FlatGeneric) isTypeFlat()    {}
func (*FlatOption) isTypeFlat()     {}
func (*FlatVec) isTypeFlat()        {}
func (*FlatArray) isTypeFlat()      {}
func (*FlatStringType) isTypeFlat() {}
func (*FlatStruct) isTypeFlat()     {}
func (*FlatEnum) isTypeFlat()       {}
func (*FlatPadded) isTypeFlat()     {}
func (*FlatConst) isTypeFlat()      {}
func (*FlatPrimitive) isTypeFlat()  {}

func (d *FlatDefined) Describe() string    { return d.Name }
func (g *FlatGeneric) Describe() string    { return "<" + g.Symbol + ">" }
func (o *FlatOption) Describe() string     { return "Option<" + o.Content.Describe() + ">" }
func (v *FlatVec) Describe() string        { return "Vec<" + v.Items.Describe() + ">" }
func (a *FlatArray) Describe() string      { return "Array<" + a.Items.Describe() + ">" }
func (s *FlatStringType) Describe() string { return "string" }
func (s *FlatStruct) Describe() string     { return "Struct()" }
func (e *FlatEnum) Describe() string       { return "Enum()" }
func (p *FlatPadded) Describe() string     { return "Padded<" + p.Content.Describe() + ">" }
func (c *FlatConst) Describe() string      { return strconv.FormatUint(c.Literal, 10) }
func (p *FlatPrimitive) Describe() string  { return p.Primitive.String() }

// ParseTypeFlat maps an arbitrary JSON value to a TypeFlat, tolerating the
// several historical dialects of the schema (spec.md §4.1). The dispatch
// is a precedence-ordered table of probes: "does this key exist in the
// object?", first match wins — directly mirroring
// toolbox_idl_type_flat_parse.rs's try_parse_object.
func ParseTypeFlat(value any, b Breadcrumbs) (TypeFlat, error) {
	switch v := value.(type) {
	case map[string]any:
		return parseTypeFlatObject(v, b)
	case []any:
		return parseTypeFlatArray(v, b)
	case string:
		return parseTypeFlatString(v, b)
	case json.Number:
		return parseTypeFlatNumber(v, b)
	case float64:
		return &FlatConst{Literal: uint64(v)}, nil
	default:
		return nil, newErr(KindParseError, "expected type object, array, string or number", b.WithIdl("def"))
	}
}

func parseTypeFlatObject(obj map[string]any, b Breadcrumbs) (TypeFlat, error) {
	// Rule 1: an explicit "type" key means the object also carries
	// name/docs handled by the parent; recurse on the type value itself.
	if t, ok := obj["type"]; ok {
		return ParseTypeFlat(t, b)
	}
	if def, ok := obj["defined"]; ok {
		return parseTypeFlatDefined(def, b)
	}
	if opt, ok := obj["option"]; ok {
		content, err := ParseTypeFlat(opt, b.WithIdl("option"))
		if err != nil {
			return nil, err
		}
		return &FlatOption{PrefixBytes: 1, Content: content}, nil
	}
	if opt32, ok := obj["option32"]; ok {
		content, err := ParseTypeFlat(opt32, b.WithIdl("option32"))
		if err != nil {
			return nil, err
		}
		return &FlatOption{PrefixBytes: 4, Content: content}, nil
	}
	if vec, ok := obj["vec"]; ok {
		content, err := ParseTypeFlat(vec, b.WithIdl("vec"))
		if err != nil {
			return nil, err
		}
		return &FlatVec{Prefix: PrefixU32, Items: content}, nil
	}
	if arr, ok := objArray(obj, "array"); ok {
		return parseTypeFlatArray(arr, b)
	}
	if fields, ok := objArray(obj, "fields"); ok {
		f, err := parseFlatFields(fields, b)
		if err != nil {
			return nil, err
		}
		return &FlatStruct{Fields: f}, nil
	}
	if variants, ok := objArray(obj, "variants"); ok {
		return parseFlatEnumVariants(variants, b)
	}
	if sym, ok := objString(obj, "generic"); ok {
		return &FlatGeneric{Symbol: sym}, nil
	}
	if lit, ok := objString(obj, "value"); ok {
		n, err := literalToUint(lit, b)
		if err != nil {
			return nil, err
		}
		return &FlatConst{Literal: n}, nil
	}
	return nil, newErr(KindParseError, "missing type object key: defined/option/option32/fields/variants/array/vec/generic/value", b.WithIdl("def(object)"))
}

func parseTypeFlatArray(arr []any, b Breadcrumbs) (TypeFlat, error) {
	switch len(arr) {
	case 1:
		content, err := ParseTypeFlat(arr[0], b.WithIdl("vec"))
		if err != nil {
			return nil, err
		}
		return &FlatVec{Prefix: PrefixU32, Items: content}, nil
	case 2:
		items, err := ParseTypeFlat(arr[0], b.WithIdl("items"))
		if err != nil {
			return nil, err
		}
		length, err := ParseTypeFlat(arr[1], b.WithIdl("length"))
		if err != nil {
			return nil, err
		}
		return &FlatArray{Items: items, Length: length}, nil
	default:
		return nil, newErr(KindParseError, "array must be of either [type] or [type, length] format", b.WithIdl("def(array)"))
	}
}

func parseTypeFlatString(s string, b Breadcrumbs) (TypeFlat, error) {
	switch s {
	case "bytes":
		return &FlatVec{Prefix: PrefixU32, Items: &FlatPrimitive{Primitive: PrimitiveU8}}, nil
	case "string":
		return &FlatStringType{Prefix: PrefixU32}, nil
	}
	if p, ok := ParsePrimitive(s); ok {
		return &FlatPrimitive{Primitive: p}, nil
	}
	return &FlatDefined{Name: s, Generics: nil}, nil
}

func parseTypeFlatNumber(n json.Number, b Breadcrumbs) (TypeFlat, error) {
	v, err := n.Int64()
	if err != nil {
		return nil, wrapErr(KindRangeError, err, b)
	}
	if v < 0 {
		return nil, newErr(KindRangeError, "const literal cannot be negative", b)
	}
	return &FlatConst{Literal: uint64(v)}, nil
}

func literalToUint(s string, b Breadcrumbs) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, wrapErr(KindRangeError, err, b)
	}
	return n, nil
}

func parseTypeFlatDefined(defined any, b Breadcrumbs) (TypeFlat, error) {
	name, genericsRaw, err := definedNameAndGenerics(defined, b)
	if err != nil {
		return nil, err
	}
	generics := make([]TypeFlat, 0, len(genericsRaw))
	for i, g := range genericsRaw {
		gb := b.WithIdl("generics[" + strconv.Itoa(i) + "]")
		parsed, err := parseDefinedGeneric(g, gb)
		if err != nil {
			return nil, err
		}
		generics = append(generics, parsed)
	}
	return &FlatDefined{Name: name, Generics: generics}, nil
}

// parseDefinedGeneric accepts a raw type, or the wrapped
// {"kind":"type","type":...} / {"kind":"const","value":"123"} shapes from
// spec.md §4.1 rule 2.
func parseDefinedGeneric(g any, b Breadcrumbs) (TypeFlat, error) {
	if obj, ok := g.(map[string]any); ok {
		if kind, ok := objString(obj, "kind"); ok {
			switch kind {
			case "type":
				if t, ok := obj["type"]; ok {
					return ParseTypeFlat(t, b)
				}
				return nil, newErr(KindParseError, "generic kind=type missing type key", b)
			case "const":
				if v, ok := objString(obj, "value"); ok {
					n, err := literalToUint(v, b)
					if err != nil {
						return nil, err
					}
					return &FlatConst{Literal: n}, nil
				}
				return nil, newErr(KindParseError, "generic kind=const missing value key", b)
			}
		}
	}
	return ParseTypeFlat(g, b)
}

func definedNameAndGenerics(defined any, b Breadcrumbs) (string, []any, error) {
	switch v := defined.(type) {
	case string:
		return v, nil, nil
	case map[string]any:
		name, ok := objString(v, "name")
		if !ok {
			return "", nil, newErr(KindParseError, "defined object missing name", b.WithIdl("defined"))
		}
		generics, _ := objArray(v, "generics")
		return name, generics, nil
	default:
		return "", nil, newErr(KindParseError, "expected defined string or object", b.WithIdl("defined"))
	}
}

func parseFlatFields(fields []any, b Breadcrumbs) (FlatFields, error) {
	if len(fields) == 0 {
		return FlatFields{}, nil
	}
	named := false
	type entry struct {
		name string
		typ  TypeFlat
	}
	entries := make([]entry, 0, len(fields))
	for i, raw := range fields {
		fb := b.WithIdl("fields[" + strconv.Itoa(i) + "]")
		fieldObj, isObj := raw.(map[string]any)
		var name string
		var hasName bool
		if isObj {
			name, hasName = objString(fieldObj, "name")
		}
		if hasName {
			named = true
		}
		key := name
		if !hasName {
			key = strconv.Itoa(i)
		}
		fb = b.WithIdl(key)
		var typeValue any = raw
		if isObj {
			if t, ok := fieldObj["type"]; ok {
				typeValue = t
			}
		}
		t, err := ParseTypeFlat(typeValue, fb)
		if err != nil {
			return FlatFields{}, err
		}
		entries = append(entries, entry{name: key, typ: t})
	}
	if !named {
		unnamed := make([]TypeFlat, 0, len(entries))
		for _, e := range entries {
			unnamed = append(unnamed, e.typ)
		}
		return FlatFields{Unnamed: unnamed}, nil
	}
	namedFields := make([]FlatNamedField, 0, len(entries))
	for i, e := range entries {
		var docs []string
		if fieldObj, ok := fields[i].(map[string]any); ok {
			docs = objDocs(fieldObj)
		}
		namedFields = append(namedFields, FlatNamedField{Name: e.name, Type: e.typ, Docs: docs})
	}
	return FlatFields{Named: namedFields}, nil
}

func parseFlatEnumVariants(variants []any, b Breadcrumbs) (TypeFlat, error) {
	out := make([]FlatEnumVariant, 0, len(variants))
	for i, raw := range variants {
		vb := b.WithIdl("variants[" + strconv.Itoa(i) + "]")
		var name string
		var code *int
		var docs []string
		var fields FlatFields
		switch v := raw.(type) {
		case string:
			name = v
		case map[string]any:
			n, ok := objString(v, "name")
			if !ok {
				return nil, newErr(KindParseError, "enum variant object missing name", vb)
			}
			name = n
			if c, ok := v["code"]; ok {
				ci := intFromAny(c)
				code = &ci
			}
			docs = objDocs(v)
			if rawFields, ok := objArray(v, "fields"); ok {
				f, err := parseFlatFields(rawFields, b.WithIdl(name))
				if err != nil {
					return nil, err
				}
				fields = f
			}
		default:
			return nil, newErr(KindParseError, "enum variant must be a string or object", vb)
		}
		out = append(out, FlatEnumVariant{Name: name, Code: code, Docs: docs, Fields: fields})
	}
	return &FlatEnum{Prefix: PrefixU8, Variants: out}, nil
}

// --- small JSON-shape helpers shared by the flat parser ---

func objArray(obj map[string]any, key string) ([]any, bool) {
	v, ok := obj[key]
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

func objString(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func objDocs(obj map[string]any) []string {
	raw, ok := obj["docs"]
	if !ok {
		return nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intFromAny(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case int:
		return n
	default:
		return 0
	}
}
