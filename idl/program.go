package idl

// Metadata carries the program-level descriptive fields spec.md §4.8
// allows at the IDL root or nested under a "metadata" object, with the
// nested form overriding the root-level one field-by-field.
type Metadata struct {
	Address     *Pubkey
	Authority   *Pubkey
	Name        string
	Description string
	Docs        []string
	Version     string
	Spec        string
}

// Program is the parsed, top-level IDL document (spec.md §3, §4.8).
type Program struct {
	Metadata     Metadata
	Typedefs     TypedefRegistry
	Accounts     map[string]*Account
	Instructions map[string]*Instruction
	Events       map[string]*Event
	Errors       map[string]*ErrorDef
}

// ParseProgram reads a root JSON document whose collections may each be a
// JSON object keyed by name or an array of `{name, ...}` objects
// (spec.md §4.8).
func ParseProgram(value any) (*Program, error) {
	b := NewBreadcrumbs()
	root, ok := value.(map[string]any)
	if !ok {
		return nil, newErr(KindParseError, "program root must be a JSON object", b)
	}

	p := &Program{
		Typedefs:     TypedefRegistry{},
		Accounts:     map[string]*Account{},
		Instructions: map[string]*Instruction{},
		Events:       map[string]*Event{},
		Errors:       map[string]*ErrorDef{},
	}
	p.Metadata = parseMetadata(root)

	typedefs, err := collectionEntries(root, []string{"types", "typedefs"}, normalizePascal)
	if err != nil {
		return nil, err
	}
	for _, e := range typedefs {
		td, err := ParseTypedef(e.name, e.value, b.WithIdl("types"))
		if err != nil {
			return nil, err
		}
		p.Typedefs[e.name] = td
	}

	accounts, err := collectionEntries(root, []string{"accounts"}, normalizePascal)
	if err != nil {
		return nil, err
	}
	for _, e := range accounts {
		acc, err := ParseAccount(e.name, e.value, b.WithIdl("accounts"))
		if err != nil {
			return nil, err
		}
		p.Accounts[e.name] = acc
	}

	instructions, err := collectionEntries(root, []string{"instructions"}, normalizeSnake)
	if err != nil {
		return nil, err
	}
	for _, e := range instructions {
		in, err := ParseInstruction(e.name, e.value, b.WithIdl("instructions"))
		if err != nil {
			return nil, err
		}
		p.Instructions[e.name] = in
	}

	events, err := collectionEntries(root, []string{"events"}, normalizePascal)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		ev, err := ParseEvent(e.name, e.value, b.WithIdl("events"))
		if err != nil {
			return nil, err
		}
		p.Events[e.name] = ev
	}

	errs, err := collectionEntries(root, []string{"errors"}, normalizeSnake)
	if err != nil {
		return nil, err
	}
	for _, e := range errs {
		errDef, err := ParseErrorDef(e.name, e.value, b.WithIdl("errors"))
		if err != nil {
			return nil, err
		}
		p.Errors[e.name] = errDef
	}

	return p, nil
}

// HydrateAll resolves every account/instruction/event content type against
// the program's own typedef registry, under the given layout options.
func (p *Program) HydrateAll(opts LayoutOptions) error {
	b := NewBreadcrumbs()
	for _, acc := range p.Accounts {
		if err := acc.Hydrate(p.Typedefs, opts, b.WithIdl("accounts")); err != nil {
			return err
		}
	}
	for _, in := range p.Instructions {
		if err := in.Hydrate(p.Typedefs, opts, b.WithIdl("instructions")); err != nil {
			return err
		}
	}
	for _, ev := range p.Events {
		if err := ev.Hydrate(p.Typedefs, opts, b.WithIdl("events")); err != nil {
			return err
		}
	}
	return nil
}

// FindAccount, FindInstruction, FindEvent, FindTypedef and FindError are
// supplemented feature 4's name-tolerant lookups: exact match first, then
// a normalized (snake_case-folded) match.
func (p *Program) FindAccount(name string) (*Account, bool) {
	if acc, ok := p.Accounts[name]; ok {
		return acc, true
	}
	for k, acc := range p.Accounts {
		if namesEqual(k, name) {
			return acc, true
		}
	}
	return nil, false
}

func (p *Program) FindInstruction(name string) (*Instruction, bool) {
	if in, ok := p.Instructions[name]; ok {
		return in, true
	}
	for k, in := range p.Instructions {
		if namesEqual(k, name) {
			return in, true
		}
	}
	return nil, false
}

func (p *Program) FindEvent(name string) (*Event, bool) {
	if ev, ok := p.Events[name]; ok {
		return ev, true
	}
	for k, ev := range p.Events {
		if namesEqual(k, name) {
			return ev, true
		}
	}
	return nil, false
}

func (p *Program) FindTypedef(name string) (*Typedef, bool) {
	if td, ok := p.Typedefs[name]; ok {
		return td, true
	}
	for k, td := range p.Typedefs {
		if namesEqual(k, name) {
			return td, true
		}
	}
	return nil, false
}

func (p *Program) FindError(name string) (*ErrorDef, bool) {
	if e, ok := p.Errors[name]; ok {
		return e, true
	}
	for k, e := range p.Errors {
		if namesEqual(k, name) {
			return e, true
		}
	}
	return nil, false
}

type collectionEntry struct {
	name  string
	value any
}

// collectionEntries implements spec.md §4.8's "object keyed by name, or
// array of named entries" rule, trying each candidate root key (to
// tolerate the "types" vs "typedefs" dialect split) and normalizing
// array-form names with caseFn.
func collectionEntries(root map[string]any, keys []string, caseFn func(string) string) ([]collectionEntry, error) {
	for _, key := range keys {
		raw, ok := root[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case map[string]any:
			out := make([]collectionEntry, 0, len(v))
			for name, item := range v {
				out = append(out, collectionEntry{name: name, value: item})
			}
			return out, nil
		case []any:
			out := make([]collectionEntry, 0, len(v))
			for _, item := range v {
				name, ok := collectionItemName(item)
				if !ok {
					return nil, newErr(KindParseError, "array entry missing a name", NewBreadcrumbs().WithIdl(key))
				}
				out = append(out, collectionEntry{name: caseFn(name), value: item})
			}
			return out, nil
		}
	}
	return nil, nil
}

func collectionItemName(item any) (string, bool) {
	switch v := item.(type) {
	case string:
		return v, true
	case map[string]any:
		return objString(v, "name")
	default:
		return "", false
	}
}

// parseMetadata reads the metadata fields directly at the document root,
// then overlays any nested "metadata" object on top, field by field.
func parseMetadata(root map[string]any) Metadata {
	m := Metadata{}
	applyMetadataFields(&m, root)
	if nested, ok := root["metadata"].(map[string]any); ok {
		applyMetadataFields(&m, nested)
	}
	return m
}

func applyMetadataFields(m *Metadata, obj map[string]any) {
	if addr, ok := objString(obj, "address"); ok {
		if pk, err := ParsePubkey(addr); err == nil {
			m.Address = &pk
		}
	}
	if name, ok := objString(obj, "name"); ok {
		m.Name = name
	}
	if desc, ok := objString(obj, "description"); ok {
		m.Description = desc
	}
	if docs := objDocs(obj); docs != nil {
		m.Docs = docs
	}
	if version, ok := objString(obj, "version"); ok {
		m.Version = version
	}
	if spec, ok := objString(obj, "spec"); ok {
		m.Spec = spec
	}
}
