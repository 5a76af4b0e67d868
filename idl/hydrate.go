package idl

import "strconv"

// GenericsBySymbol is the immutable symbol→full-type environment carried
// during hydration (spec.md §9). It is not inherited across typedef
// boundaries: Hydrate builds a fresh map every time it descends into a
// Defined reference, scoped to that typedef's own generic parameters.
type GenericsBySymbol map[string]TypeFull

// Hydrate substitutes generics, resolves named references, and — for
// bytemuck typedefs — applies the layout engine, turning a TypeFlat into
// a TypeFull (spec.md §4.3). generics is the active symbol environment;
// pass an empty map at the top-level call.
func Hydrate(flat TypeFlat, registry TypedefRegistry, generics GenericsBySymbol, opts LayoutOptions, b Breadcrumbs) (TypeFull, error) {
	switch f := flat.(type) {
	case *FlatDefined:
		return hydrateDefined(f, registry, generics, opts, b)
	case *FlatGeneric:
		full, ok := generics[f.Symbol]
		if !ok {
			return nil, newErrf(KindUnresolvedReference, b, "generic symbol %q not in scope", f.Symbol)
		}
		return full, nil
	case *FlatConst:
		return &FullConst{Literal: f.Literal}, nil
	case *FlatPrimitive:
		return &FullPrimitive{Primitive: f.Primitive}, nil
	case *FlatOption:
		content, err := Hydrate(f.Content, registry, generics, opts, b.WithIdl("option"))
		if err != nil {
			return nil, err
		}
		return &FullOption{PrefixBytes: f.PrefixBytes, Content: content}, nil
	case *FlatVec:
		items, err := Hydrate(f.Items, registry, generics, opts, b.WithIdl("vec"))
		if err != nil {
			return nil, err
		}
		return &FullVec{Prefix: f.Prefix, Items: items}, nil
	case *FlatStringType:
		return &FullStringType{Prefix: f.Prefix}, nil
	case *FlatArray:
		items, err := Hydrate(f.Items, registry, generics, opts, b.WithIdl("items"))
		if err != nil {
			return nil, err
		}
		lengthFull, err := Hydrate(f.Length, registry, generics, opts, b.WithIdl("length"))
		if err != nil {
			return nil, err
		}
		length, ok := AsConstLiteral(lengthFull)
		if !ok {
			return nil, newErr(KindParseError, "array length did not reduce to a const literal", b.WithIdl("length"))
		}
		return &FullArray{Items: items, Length: length}, nil
	case *FlatStruct:
		fields, err := hydrateFields(f.Fields, registry, generics, opts, b)
		if err != nil {
			return nil, err
		}
		return &FullStruct{Fields: fields}, nil
	case *FlatEnum:
		return hydrateEnum(f, registry, generics, opts, b)
	case *FlatPadded:
		content, err := Hydrate(f.Content, registry, generics, opts, b.WithIdl("padded"))
		if err != nil {
			return nil, err
		}
		return &FullPadded{Before: f.Before, MinSize: f.MinSize, After: f.After, Content: content}, nil
	default:
		return nil, newErr(KindParseError, "unknown flat type node", b)
	}
}

func hydrateDefined(f *FlatDefined, registry TypedefRegistry, generics GenericsBySymbol, opts LayoutOptions, b Breadcrumbs) (TypeFull, error) {
	genericsFull := make([]TypeFull, 0, len(f.Generics))
	for _, g := range f.Generics {
		full, err := Hydrate(g, registry, generics, opts, b.WithIdl("generics"))
		if err != nil {
			return nil, err
		}
		genericsFull = append(genericsFull, full)
	}
	typedef, ok := registry[f.Name]
	if !ok {
		return nil, newErrf(KindUnresolvedReference, b, "typedef %q not found", f.Name)
	}
	if len(genericsFull) != len(typedef.Generics) {
		return nil, newErrf(KindGenericsArityMismatch, b,
			"typedef %q expects %d generic argument(s), got %d", f.Name, len(typedef.Generics), len(genericsFull))
	}
	childGenerics := make(GenericsBySymbol, len(typedef.Generics))
	for i, symbol := range typedef.Generics {
		childGenerics[symbol] = genericsFull[i]
	}
	content, err := Hydrate(typedef.Body, registry, childGenerics, opts, b.WithIdl(f.Name))
	if err != nil {
		return nil, err
	}
	if typedef.Serialization == SerializationBytemuck {
		laidOut, err := ApplyLayout(content, typedef.Repr, opts, b.WithIdl(f.Name))
		if err != nil {
			return nil, err
		}
		content = laidOut
	}
	return &FullTypedef{Name: f.Name, Repr: typedef.Repr, Content: content}, nil
}

func hydrateFields(f FlatFields, registry TypedefRegistry, generics GenericsBySymbol, opts LayoutOptions, b Breadcrumbs) (FullFields, error) {
	if f.IsNamed() {
		out := make([]FullNamedField, 0, len(f.Named))
		for _, field := range f.Named {
			full, err := Hydrate(field.Type, registry, generics, opts, b.WithIdl(field.Name))
			if err != nil {
				return FullFields{}, err
			}
			out = append(out, FullNamedField{Name: field.Name, Docs: field.Docs, Type: full})
		}
		return FullFields{Named: out}, nil
	}
	if f.IsUnnamed() {
		out := make([]TypeFull, 0, len(f.Unnamed))
		for i, field := range f.Unnamed {
			full, err := Hydrate(field, registry, generics, opts, b.WithIdl(strconv.Itoa(i)))
			if err != nil {
				return FullFields{}, err
			}
			out = append(out, full)
		}
		return FullFields{Unnamed: out}, nil
	}
	return FullFields{}, nil
}

// hydrateEnum assigns variant codes per spec.md §4.3: an explicit Code is
// used as-is; otherwise the next unused sequential integer starting at 0,
// skipping values already claimed by explicit codes elsewhere in the enum.
func hydrateEnum(f *FlatEnum, registry TypedefRegistry, generics GenericsBySymbol, opts LayoutOptions, b Breadcrumbs) (TypeFull, error) {
	claimed := make(map[int]bool)
	for _, v := range f.Variants {
		if v.Code != nil {
			claimed[*v.Code] = true
		}
	}
	next := 0
	nextFree := func() int {
		for claimed[next] {
			next++
		}
		claimed[next] = true
		return next
	}
	out := make([]FullEnumVariant, 0, len(f.Variants))
	for _, v := range f.Variants {
		fields, err := hydrateFields(v.Fields, registry, generics, opts, b.WithIdl(v.Name))
		if err != nil {
			return nil, err
		}
		code := 0
		if v.Code != nil {
			code = *v.Code
		} else {
			code = nextFree()
		}
		out = append(out, FullEnumVariant{Name: v.Name, Code: code, Docs: v.Docs, Fields: fields})
	}
	return &FullEnum{Prefix: f.Prefix, Variants: out}, nil
}
