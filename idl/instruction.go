package idl

import (
	"strconv"
	"strings"
)

// SeedBlob is a PDA seed recipe component (spec.md §3 names this variant
// "Blob"; renamed here to avoid colliding with Account's constant-region
// Blob, a distinct concept that happens to share the name in spec.md).
type SeedBlob interface {
	isSeedBlob()
}

// SeedConst is a literal byte sequence seed.
type SeedConst struct {
	Bytes []byte
}

// SeedArg walks a dot-separated path through the instruction's own args.
type SeedArg struct {
	Path []string
}

// SeedAccount walks a dot-separated path whose first segment names an
// instruction account; further segments walk that account's state.
type SeedAccount struct {
	Path []string
}

func (*SeedConst) isSeedBlob()   {}
func (*SeedArg) isSeedBlob()     {}
func (*SeedAccount) isSeedBlob() {}

// Pda is an instruction account's seed recipe (spec.md §3).
type Pda struct {
	Seeds   []SeedBlob
	Program SeedBlob
}

// InstructionAccount describes one entry of an instruction's accounts list
// (spec.md §3).
type InstructionAccount struct {
	Name     string
	Docs     []string
	Writable bool
	Signer   bool
	Optional bool
	Address  *Pubkey
	Pda      *Pda
}

// Instruction is a parsed instruction schema entry (spec.md §3, §4.6).
type Instruction struct {
	Name          string
	Docs          []string
	Discriminator []byte
	Accounts      []InstructionAccount
	ArgsFlat      FlatFields
	ArgsFull      FullFields
	argsTypeFlat  TypeFlat
	argsTypeFull  TypeFull
}

// ParseInstruction reads `{ discriminator?, accounts?, args?, docs? }` per
// spec.md §4.6. Args are parsed as Named struct fields regardless of
// dialect (an args array at the top level, or nested under "args").
func ParseInstruction(name string, value any, b Breadcrumbs) (*Instruction, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newErr(KindParseError, "instruction must be a JSON object", b.WithIdl(name))
	}
	b = b.WithIdl(name)

	in := &Instruction{Name: name, Docs: objDocs(obj)}

	disc, err := parseDiscriminator(obj, "global:"+snakeCase(name), b)
	if err != nil {
		return nil, err
	}
	in.Discriminator = disc

	if rawAccounts, ok := objArray(obj, "accounts"); ok {
		for i, ra := range rawAccounts {
			ia, err := parseInstructionAccount(ra, b.WithIdl("accounts").WithIdl(indexSegment(i)))
			if err != nil {
				return nil, err
			}
			in.Accounts = append(in.Accounts, ia)
		}
	}

	argsSource, ok := obj["args"]
	if !ok {
		argsSource = []any{}
	}
	argsArr, ok := argsSource.([]any)
	if !ok {
		return nil, newErr(KindParseError, "args must be an array of fields", b.WithIdl("args"))
	}
	argsFlat, err := parseFlatFields(argsArr, b.WithIdl("args"))
	if err != nil {
		return nil, err
	}
	in.ArgsFlat = argsFlat
	in.argsTypeFlat = &FlatStruct{Fields: argsFlat}
	return in, nil
}

// Hydrate fills in ArgsFull against the given typedef registry.
func (in *Instruction) Hydrate(registry TypedefRegistry, opts LayoutOptions, b Breadcrumbs) error {
	full, err := Hydrate(in.argsTypeFlat, registry, GenericsBySymbol{}, opts, b.WithIdl(in.Name).WithIdl("args"))
	if err != nil {
		return err
	}
	in.argsTypeFull = full
	fields, _ := AsStructFields(full)
	in.ArgsFull = fields
	return nil
}

// Encode emits discriminator || serialize(argsJSON, deserializable=true)
// (spec.md §4.6).
func (in *Instruction) Encode(argsJSON any, b Breadcrumbs) ([]byte, error) {
	out := append([]byte{}, in.Discriminator...)
	body, err := Serialize(in.argsTypeFull, argsJSON, true, b.WithIdl(in.Name))
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}

// Decode asserts the discriminator and deserializes the remainder as args.
func (in *Instruction) Decode(data []byte, b Breadcrumbs) (any, error) {
	if len(data) < len(in.Discriminator) {
		return nil, newErr(KindShortRead, "instruction data shorter than discriminator", b)
	}
	for i, want := range in.Discriminator {
		if data[i] != want {
			return nil, newErrf(KindDiscriminatorMismatch, b, "instruction %s: discriminator mismatch", in.Name)
		}
	}
	_, value, err := Deserialize(in.argsTypeFull, data, len(in.Discriminator), b.WithIdl(in.Name))
	return value, err
}

func parseInstructionAccount(value any, b Breadcrumbs) (InstructionAccount, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return InstructionAccount{}, newErr(KindParseError, "instruction account must be a JSON object", b)
	}
	name, _ := objString(obj, "name")
	ia := InstructionAccount{
		Name:     name,
		Docs:     objDocs(obj),
		Writable: objBool(obj, "writable") || objBool(obj, "isMut") || objBool(obj, "is_mut"),
		Signer:   objBool(obj, "signer") || objBool(obj, "isSigner") || objBool(obj, "is_signer"),
		Optional: objBool(obj, "optional") || objBool(obj, "isOptional"),
	}
	if addr, ok := objString(obj, "address"); ok {
		pk, err := ParsePubkey(addr)
		if err != nil {
			return InstructionAccount{}, wrapErr(KindInvalidPubkey, err, b.WithIdl("address"))
		}
		ia.Address = &pk
	}
	if rawPda, ok := obj["pda"]; ok {
		pda, err := parsePda(rawPda, b.WithIdl("pda"))
		if err != nil {
			return InstructionAccount{}, err
		}
		ia.Pda = pda
	}
	return ia, nil
}

func parsePda(value any, b Breadcrumbs) (*Pda, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newErr(KindParseError, "pda must be a JSON object", b)
	}
	pda := &Pda{}
	seedsArr, ok := objArray(obj, "seeds")
	if !ok {
		return nil, newErr(KindParseError, "pda missing seeds array", b.WithIdl("seeds"))
	}
	for i, s := range seedsArr {
		blob, err := parseSeedBlob(s, b.WithIdl("seeds").WithIdl(indexSegment(i)))
		if err != nil {
			return nil, err
		}
		pda.Seeds = append(pda.Seeds, blob)
	}
	if rawProgram, ok := obj["program"]; ok {
		program, err := parseSeedBlob(rawProgram, b.WithIdl("program"))
		if err != nil {
			return nil, err
		}
		pda.Program = program
	}
	return pda, nil
}

// parseSeedBlob reads one seed entry: `{kind:"const", value:[...]}` /
// `{kind:"arg", path:[...]}` / `{kind:"account", path:[...]}`, tolerating
// the shorter dialect `{const:[...]}`/`{arg:"a.b"}`/`{account:"a.b"}` the
// pack fixtures also use.
func parseSeedBlob(value any, b Breadcrumbs) (SeedBlob, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newErr(KindParseError, "seed must be a JSON object", b)
	}
	if kind, ok := objString(obj, "kind"); ok {
		switch kind {
		case "const":
			bytesVal, err := readValueAsBytes(obj["value"], b.WithIdl("value"))
			if err != nil {
				return nil, err
			}
			return &SeedConst{Bytes: bytesVal}, nil
		case "arg":
			return &SeedArg{Path: seedPath(obj["path"])}, nil
		case "account":
			return &SeedAccount{Path: seedPath(obj["path"])}, nil
		default:
			return nil, newErr(KindParseError, "unknown seed kind: "+kind, b.WithIdl("kind"))
		}
	}
	if rawConst, ok := obj["const"]; ok {
		bytesVal, err := readValueAsBytes(rawConst, b.WithIdl("const"))
		if err != nil {
			return nil, err
		}
		return &SeedConst{Bytes: bytesVal}, nil
	}
	if rawArg, ok := obj["arg"]; ok {
		return &SeedArg{Path: seedPath(rawArg)}, nil
	}
	if rawAccount, ok := obj["account"]; ok {
		return &SeedAccount{Path: seedPath(rawAccount)}, nil
	}
	return nil, newErr(KindParseError, "seed must have one of kind/const/arg/account", b)
}

func seedPath(v any) []string {
	switch p := v.(type) {
	case string:
		return splitPath(p)
	case []any:
		out := make([]string, 0, len(p))
		for _, seg := range p {
			if s, ok := seg.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func objBool(obj map[string]any, key string) bool {
	v, ok := obj[key].(bool)
	return ok && v
}

func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func splitPath(p string) []string {
	return strings.Split(p, ".")
}
