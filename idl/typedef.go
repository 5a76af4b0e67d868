package idl

// Serialization selects the wire discipline a typedef's values are
// encoded with (spec.md §3).
type Serialization int

const (
	SerializationBorsh Serialization = iota
	SerializationBytemuck
)

// Repr selects the memory layout discipline for a bytemuck typedef
// (spec.md §3/§4.4). ReprNone means "not significant" (only matters for
// bytemuck serialization).
type Repr int

const (
	ReprNone Repr = iota
	ReprRust
	ReprC
)

// Typedef is a named, possibly generic, user-declared type (spec.md §3).
type Typedef struct {
	Name          string
	Docs          []string
	Serialization Serialization
	Repr          Repr
	Generics      []string
	Body          TypeFlat
}

// TypedefRegistry maps a typedef name to its definition. It is built once
// by the program root parser and is immutable afterward (spec.md §3
// Lifecycles); it is safe to share across concurrent readers.
type TypedefRegistry map[string]*Typedef

// ParseTypedef reads `{ name, docs?, serialization?, repr?, generics?,
// type | fields | variants }` per spec.md §4.2.
func ParseTypedef(name string, value any, b Breadcrumbs) (*Typedef, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newErr(KindParseError, "typedef must be a JSON object", b.WithIdl(name))
	}
	b = b.WithIdl(name)

	td := &Typedef{Name: name, Docs: objDocs(obj)}

	td.Serialization = SerializationBorsh
	if s, ok := objString(obj, "serialization"); ok && s == "bytemuck" {
		td.Serialization = SerializationBytemuck
	}

	td.Repr = ReprNone
	if reprVal, ok := obj["repr"]; ok {
		r, err := parseRepr(reprVal, b)
		if err != nil {
			return nil, err
		}
		td.Repr = r
	}

	if generics, ok := objArray(obj, "generics"); ok {
		for _, g := range generics {
			td.Generics = append(td.Generics, genericSymbolName(g))
		}
	}

	// The typedef body may be nested under "type" (the common dialect) or
	// be the typedef object itself carrying "fields"/"variants" directly
	// (an older dialect), both handled transparently by ParseTypeFlat's
	// own "type" key probe and its fields/variants probes.
	bodySource := value
	if t, ok := obj["type"]; ok {
		bodySource = t
	}
	body, err := ParseTypeFlat(bodySource, b)
	if err != nil {
		return nil, err
	}
	td.Body = body
	return td, nil
}

func parseRepr(v any, b Breadcrumbs) (Repr, error) {
	switch r := v.(type) {
	case string:
		switch r {
		case "rust":
			return ReprRust, nil
		case "c":
			return ReprC, nil
		default:
			return ReprNone, newErr(KindParseError, "unknown repr: "+r, b.WithIdl("repr"))
		}
	case map[string]any:
		// Some dialects nest as {"kind": "c"} or {"kind": "rust", "packed": true}.
		if kind, ok := objString(r, "kind"); ok {
			return parseRepr(kind, b)
		}
		return ReprNone, newErr(KindParseError, "repr object missing kind", b.WithIdl("repr"))
	default:
		return ReprNone, newErr(KindParseError, "repr must be a string or object", b.WithIdl("repr"))
	}
}

// genericSymbolName accepts either a bare string generic name or a
// {"name": "..."} wrapper.
func genericSymbolName(v any) string {
	switch g := v.(type) {
	case string:
		return g
	case map[string]any:
		if n, ok := objString(g, "name"); ok {
			return n
		}
	}
	return ""
}
