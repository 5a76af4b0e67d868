package idl

// Event is a parsed event schema entry (spec.md §3, §4.6).
type Event struct {
	Name          string
	Docs          []string
	Discriminator []byte
	ContentFlat   TypeFlat
	ContentFull   TypeFull
}

// ParseEvent reads `{ discriminator?, docs?, fields... }` per spec.md
// §4.6, mirroring ParseAccount's body-shape tolerance.
func ParseEvent(name string, value any, b Breadcrumbs) (*Event, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newErr(KindParseError, "event must be a JSON object", b.WithIdl(name))
	}
	b = b.WithIdl(name)

	ev := &Event{Name: name, Docs: objDocs(obj)}

	disc, err := parseDiscriminator(obj, "event:"+name, b)
	if err != nil {
		return nil, err
	}
	ev.Discriminator = disc

	body, err := ParseTypeFlat(value, b)
	if err != nil {
		return nil, err
	}
	ev.ContentFlat = body
	return ev, nil
}

// Hydrate fills in ContentFull against the given typedef registry.
func (e *Event) Hydrate(registry TypedefRegistry, opts LayoutOptions, b Breadcrumbs) error {
	full, err := Hydrate(e.ContentFlat, registry, GenericsBySymbol{}, opts, b.WithIdl(e.Name))
	if err != nil {
		return err
	}
	e.ContentFull = full
	return nil
}

// Encode emits discriminator || serialize(value, deserializable=true).
func (e *Event) Encode(value any, b Breadcrumbs) ([]byte, error) {
	out := append([]byte{}, e.Discriminator...)
	body, err := Serialize(e.ContentFull, value, true, b.WithIdl(e.Name))
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}

// Decode asserts the discriminator and deserializes the remainder.
func (e *Event) Decode(data []byte, b Breadcrumbs) (any, error) {
	if len(data) < len(e.Discriminator) {
		return nil, newErr(KindShortRead, "event data shorter than discriminator", b)
	}
	for i, want := range e.Discriminator {
		if data[i] != want {
			return nil, newErrf(KindDiscriminatorMismatch, b, "event %s: discriminator mismatch", e.Name)
		}
	}
	_, value, err := Deserialize(e.ContentFull, data, len(e.Discriminator), b.WithIdl(e.Name))
	return value, err
}
