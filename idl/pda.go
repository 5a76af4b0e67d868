package idl

import (
	"context"

	"github.com/sirupsen/logrus"
)

// AccountFetcher retrieves the raw account data at address, for accounts
// whose state a PDA seed path needs to walk (spec.md §4.7).
type AccountFetcher func(ctx context.Context, address Pubkey) ([]byte, error)

// Resolver derives instruction account addresses by fixed-point iteration:
// literal addresses and PDA seeds are resolved in passes, since a seed may
// itself reference another account's resolved address (spec.md §4.7).
type Resolver struct {
	Program *Program
	Fetch   AccountFetcher
	Options ResolveOptions
	Log     *logrus.Entry
}

// accountState caches one already-fetched-and-decoded account, keyed by
// instruction account name, so a multi-segment SeedAccount path only
// fetches and decodes each referenced account once per Resolve call.
type accountState struct {
	account *Account
	value   any
}

// Resolve fills in every instruction account address it can, seeding the
// pass with the addresses already known (explicit caller overrides), and
// returns the full resolved set. It errors KindPdaUnresolvable only when a
// pass makes no further progress, or the iteration cap is reached, while
// instruction accounts remain unresolved.
func (r *Resolver) Resolve(ctx context.Context, instruction *Instruction, argsJSON any, known map[string]Pubkey) (map[string]Pubkey, error) {
	b := NewBreadcrumbs().WithIdl(instruction.Name)

	resolved := make(map[string]Pubkey, len(instruction.Accounts))
	for name, addr := range known {
		resolved[name] = addr
	}
	states := make(map[string]*accountState)

	maxIterations := r.Options.MaxIterations
	if maxIterations <= 0 {
		maxIterations = len(instruction.Accounts)
	}
	if maxIterations == 0 {
		maxIterations = 1
	}

	var lastErr error
	for iter := 0; iter < maxIterations; iter++ {
		madeProgress := false
		lastErr = nil
		for _, ia := range instruction.Accounts {
			if _, ok := resolved[ia.Name]; ok {
				continue
			}
			addr, err := r.resolveAccount(ctx, instruction, argsJSON, ia, resolved, states, b)
			if err != nil {
				lastErr = err
				if r.Log != nil {
					r.Log.WithField("account", ia.Name).Debugf("pda: not yet resolvable: %v", err)
				}
				continue
			}
			resolved[ia.Name] = addr
			madeProgress = true
			if r.Log != nil {
				r.Log.WithField("account", ia.Name).Debug("pda: resolved")
			}
		}
		remaining := 0
		for _, ia := range instruction.Accounts {
			if _, ok := resolved[ia.Name]; !ok {
				remaining++
			}
		}
		if remaining == 0 {
			return resolved, nil
		}
		if !madeProgress {
			break
		}
	}

	var missing []string
	for _, ia := range instruction.Accounts {
		if _, ok := resolved[ia.Name]; !ok {
			missing = append(missing, ia.Name)
		}
	}
	if len(missing) > 0 {
		if r.Log != nil {
			r.Log.WithField("missing", missing).Warn("pda: exited with unresolved accounts")
		}
		if lastErr != nil {
			return resolved, wrapErr(KindPdaUnresolvable, lastErr, b)
		}
		return resolved, newErrf(KindPdaUnresolvable, b, "could not resolve account(s): %v", missing)
	}
	return resolved, nil
}

func (r *Resolver) resolveAccount(
	ctx context.Context,
	instruction *Instruction,
	argsJSON any,
	ia InstructionAccount,
	resolved map[string]Pubkey,
	states map[string]*accountState,
	b Breadcrumbs,
) (Pubkey, error) {
	accB := b.WithIdl("accounts").WithIdl(ia.Name)
	if ia.Address != nil {
		return *ia.Address, nil
	}
	if ia.Pda != nil {
		return r.resolvePda(ctx, instruction, argsJSON, ia.Pda, resolved, states, accB)
	}
	return Pubkey{}, newErrf(KindPdaUnresolvable, accB, "account %q has neither a literal address nor pda seeds", ia.Name)
}

func (r *Resolver) resolvePda(
	ctx context.Context,
	instruction *Instruction,
	argsJSON any,
	pda *Pda,
	resolved map[string]Pubkey,
	states map[string]*accountState,
	b Breadcrumbs,
) (Pubkey, error) {
	seeds := make([][]byte, 0, len(pda.Seeds))
	for i, seed := range pda.Seeds {
		raw, err := r.evaluateSeed(ctx, instruction, argsJSON, seed, resolved, states, b.WithIdl("seeds").WithIdl(indexSegment(i)))
		if err != nil {
			return Pubkey{}, err
		}
		seeds = append(seeds, raw)
	}

	programID, err := r.resolveProgramID(ctx, instruction, argsJSON, pda.Program, resolved, states, b)
	if err != nil {
		return Pubkey{}, err
	}

	addr, _, err := FindProgramAddress(seeds, programID)
	if err != nil {
		return Pubkey{}, wrapErr(KindInvalidPubkey, err, b)
	}
	return addr, nil
}

func (r *Resolver) resolveProgramID(
	ctx context.Context,
	instruction *Instruction,
	argsJSON any,
	program SeedBlob,
	resolved map[string]Pubkey,
	states map[string]*accountState,
	b Breadcrumbs,
) (Pubkey, error) {
	if program == nil {
		if r.Program != nil && r.Program.Metadata.Address != nil {
			return *r.Program.Metadata.Address, nil
		}
		return Pubkey{}, newErr(KindPdaUnresolvable, "no pda.program override and program has no known address", b)
	}
	raw, err := r.evaluateSeed(ctx, instruction, argsJSON, program, resolved, states, b.WithIdl("program"))
	if err != nil {
		return Pubkey{}, err
	}
	var pk Pubkey
	copy(pk[:], raw)
	return pk, nil
}

// evaluateSeed turns one seed recipe entry into the raw bytes contributed
// to the PDA derivation (spec.md §4.7): a Const is used verbatim, an Arg
// walks the instruction's own args, and an Account walks either a resolved
// address directly (single segment) or that account's fetched state
// (further segments), serialized without length prefixes (enum tags and
// option flags are still written).
func (r *Resolver) evaluateSeed(
	ctx context.Context,
	instruction *Instruction,
	argsJSON any,
	seed SeedBlob,
	resolved map[string]Pubkey,
	states map[string]*accountState,
	b Breadcrumbs,
) ([]byte, error) {
	switch s := seed.(type) {
	case *SeedConst:
		return s.Bytes, nil
	case *SeedArg:
		t, value, err := walkNamedPath(instruction.argsTypeFull, argsJSON, s.Path, b.WithIdl("arg"))
		if err != nil {
			return nil, err
		}
		return Serialize(t, value, false, b.WithIdl("arg"))
	case *SeedAccount:
		return r.evaluateAccountSeed(ctx, s.Path, resolved, states, b.WithIdl("account"))
	default:
		return nil, newErr(KindParseError, "unknown seed blob kind", b)
	}
}

func (r *Resolver) evaluateAccountSeed(
	ctx context.Context,
	path []string,
	resolved map[string]Pubkey,
	states map[string]*accountState,
	b Breadcrumbs,
) ([]byte, error) {
	if len(path) == 0 {
		return nil, newErr(KindInvalidPath, "account seed path is empty", b)
	}
	head := path[0]
	addr, ok := resolved[head]
	if !ok {
		return nil, newErrf(KindPdaUnresolvable, b, "referenced account %q is not yet resolved", head)
	}
	if len(path) == 1 {
		return addr[:], nil
	}

	state, err := r.loadAccountState(ctx, head, addr, states, b)
	if err != nil {
		return nil, err
	}
	t, value, err := walkNamedPath(state.account.ContentFull, state.value, path[1:], b)
	if err != nil {
		return nil, err
	}
	return Serialize(t, value, false, b)
}

func (r *Resolver) loadAccountState(
	ctx context.Context,
	accountName string,
	addr Pubkey,
	states map[string]*accountState,
	b Breadcrumbs,
) (*accountState, error) {
	if st, ok := states[accountName]; ok {
		return st, nil
	}
	if r.Fetch == nil || r.Program == nil {
		return nil, newErrf(KindPdaUnresolvable, b, "account %q state is needed but no fetcher/program is configured", accountName)
	}

	var def *Account
	for name, acc := range r.Program.Accounts {
		if namesEqual(name, accountName) {
			def = acc
			break
		}
	}
	if def == nil {
		return nil, newErrf(KindPdaUnresolvable, b, "no account definition matches %q", accountName)
	}

	data, err := r.Fetch(ctx, addr)
	if err != nil {
		return nil, wrapErr(KindWrapped, err, b)
	}
	value, err := def.Decode(data, b)
	if err != nil {
		return nil, err
	}
	st := &accountState{account: def, value: value}
	states[accountName] = st
	return st, nil
}

// walkNamedPath steps a dot-path through a Named-struct TypeFull/value
// pair, comparing each segment snake-case-insensitively (spec.md §4.7).
func walkNamedPath(t TypeFull, value any, path []string, b Breadcrumbs) (TypeFull, any, error) {
	cur := t
	curVal := value
	for _, seg := range path {
		fields, ok := AsStructFields(cur)
		if !ok || !fields.IsNamed() {
			return nil, nil, newErrf(KindInvalidPath, b, "path segment %q: not a named struct", seg)
		}
		obj, ok := curVal.(map[string]any)
		if !ok {
			return nil, nil, newErrf(KindInvalidPath, b, "path segment %q: value is not an object", seg)
		}
		found := false
		for _, f := range fields.Named {
			if namesEqual(f.Name, seg) {
				cur = f.Type
				curVal = obj[f.Name]
				found = true
				break
			}
		}
		if !found {
			return nil, nil, newErrf(KindInvalidPath, b, "field %q not found", seg)
		}
	}
	return cur, curVal, nil
}
