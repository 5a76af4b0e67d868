package idl

import "strconv"

// layoutInfo is the (alignment, size, rewritten-node) triple every layout
// step produces, mirroring the Rust bytemuck_repr_c/bytemuck_repr_rust
// return shape: the rewritten node has Padded wrappers inserted wherever
// this discipline requires padding that the bare node wouldn't imply.
type layoutInfo struct {
	alignment int
	size      int
	node      TypeFull
}

// ApplyLayout rewrites content according to repr, inserting the Padded
// nodes a bytemuck (#[repr(C)] / native Rust) struct layout requires
// (spec.md §4.4). It is called once per bytemuck typedef, right after its
// body is hydrated.
func ApplyLayout(content TypeFull, repr Repr, opts LayoutOptions, b Breadcrumbs) (TypeFull, error) {
	var info layoutInfo
	var err error
	switch repr {
	case ReprC:
		info, err = layoutReprC(content, b)
	case ReprRust, ReprNone:
		info, err = layoutReprRust(content, opts, b)
	default:
		return nil, newErr(KindLayoutError, "unknown repr", b)
	}
	if err != nil {
		return nil, err
	}
	return info.node, nil
}

// layoutReprC implements the C ABI: each field is padded so it starts on a
// multiple of its own alignment, the struct's alignment is the max of its
// fields' alignments, and the struct is end-padded to a multiple of that
// alignment. Grounded on toolbox_idl_type_full_bytemuck_repr_c.rs.
func layoutReprC(t TypeFull, b Breadcrumbs) (layoutInfo, error) {
	switch v := t.(type) {
	case *FullTypedef:
		inner, err := layoutReprC(v.Content, b.WithIdl(v.Name))
		if err != nil {
			return layoutInfo{}, err
		}
		return inner, nil
	case *FullOption:
		return layoutReprCOption(v, b)
	case *FullVec:
		return layoutInfo{}, newErr(KindLayoutError, "Vec is not supported under repr(C)", b)
	case *FullArray:
		return layoutReprCArray(v, b)
	case *FullStruct:
		fields, alignment, size, err := layoutReprCFields(v.Fields, b)
		if err != nil {
			return layoutInfo{}, err
		}
		return layoutInfo{alignment: alignment, size: size, node: &FullStruct{Fields: fields}}, nil
	case *FullEnum:
		return layoutReprCEnum(v, b)
	case *FullPadded:
		return layoutInfo{}, newErr(KindLayoutError, "Padded is not a legal input to the layout engine", b)
	case *FullConst:
		return layoutInfo{}, newErr(KindLayoutError, "Const is not supported under repr(C)", b)
	case *FullPrimitive:
		align, ok := v.Primitive.Alignment()
		if !ok {
			return layoutInfo{}, newErr(KindLayoutError, "primitive has no fixed layout", b)
		}
		size, _ := v.Primitive.FixedSize()
		return layoutInfo{alignment: align, size: size, node: v}, nil
	default:
		return layoutInfo{}, newErr(KindLayoutError, "unsupported node under repr(C)", b)
	}
}

func layoutReprCOption(v *FullOption, b Breadcrumbs) (layoutInfo, error) {
	content, err := layoutReprC(v.Content, b.WithIdl("option"))
	if err != nil {
		return layoutInfo{}, err
	}
	alignment := maxInt(v.PrefixBytes, content.alignment)
	size := alignment + content.size
	prefix, err := PrefixWidthFromSize(alignment)
	if err != nil {
		return layoutInfo{}, err
	}
	node := &FullPadded{
		MinSize: uint64(size),
		Content: &FullOption{PrefixBytes: prefix.Bytes(), Content: content.node},
	}
	return layoutInfo{alignment: alignment, size: size, node: node}, nil
}

func layoutReprCArray(v *FullArray, b Breadcrumbs) (layoutInfo, error) {
	items, err := layoutReprC(v.Items, b.WithIdl("items"))
	if err != nil {
		return layoutInfo{}, err
	}
	return layoutInfo{
		alignment: items.alignment,
		size:      items.size * int(v.Length),
		node:      &FullArray{Items: items.node, Length: v.Length},
	}, nil
}

func layoutReprCFields(f FullFields, b Breadcrumbs) (FullFields, int, int, error) {
	if f.IsNamed() {
		entries := make([]fieldEntry, 0, len(f.Named))
		for _, field := range f.Named {
			info, err := layoutReprC(field.Type, b.WithIdl(field.Name))
			if err != nil {
				return FullFields{}, 0, 0, err
			}
			entries = append(entries, fieldEntry{name: field.Name, docs: field.Docs, info: info})
		}
		alignment, size, padded := padFieldEntries(0, 0, entries)
		named := make([]FullNamedField, 0, len(padded))
		for _, e := range padded {
			named = append(named, FullNamedField{Name: e.name, Docs: e.docs, Type: e.info.node})
		}
		return FullFields{Named: named}, alignment, size, nil
	}
	if f.IsUnnamed() {
		entries := make([]fieldEntry, 0, len(f.Unnamed))
		for i, field := range f.Unnamed {
			info, err := layoutReprC(field, b.WithIdl(strconv.Itoa(i)))
			if err != nil {
				return FullFields{}, 0, 0, err
			}
			entries = append(entries, fieldEntry{info: info})
		}
		alignment, size, padded := padFieldEntries(0, 0, entries)
		unnamed := make([]TypeFull, 0, len(padded))
		for _, e := range padded {
			unnamed = append(unnamed, e.info.node)
		}
		return FullFields{Unnamed: unnamed}, alignment, size, nil
	}
	return FullFields{}, 1, 0, nil
}

func layoutReprCEnum(v *FullEnum, b Breadcrumbs) (layoutInfo, error) {
	alignment := maxInt(4, v.Prefix.Bytes())
	size := 0
	variants := make([]FullEnumVariant, 0, len(v.Variants))
	for _, variant := range v.Variants {
		fields, fieldsAlign, fieldsSize, err := layoutReprCFields(variant.Fields, b.WithIdl(variant.Name))
		if err != nil {
			return layoutInfo{}, err
		}
		alignment = maxInt(alignment, fieldsAlign)
		size = maxInt(size, fieldsSize)
		variants = append(variants, FullEnumVariant{Name: variant.Name, Code: variant.Code, Docs: variant.Docs, Fields: fields})
	}
	size += alignment
	prefix, err := PrefixWidthFromSize(alignment)
	if err != nil {
		return layoutInfo{}, err
	}
	node := &FullPadded{
		MinSize: uint64(size),
		Content: &FullEnum{Prefix: prefix, Variants: variants},
	}
	return layoutInfo{alignment: alignment, size: size, node: node}, nil
}

// layoutReprRust implements native (no explicit repr) Rust struct layout,
// which the compiler is free to reorder: we refuse to lay out anything
// ambiguous enough that a real compiler's choice would matter, exactly as
// toolbox_idl_type_full_bytemuck_rust.rs does, rather than silently
// guessing an ordering that might not match the on-chain binary.
func layoutReprRust(t TypeFull, opts LayoutOptions, b Breadcrumbs) (layoutInfo, error) {
	switch v := t.(type) {
	case *FullTypedef:
		return layoutReprRust(v.Content, opts, b.WithIdl(v.Name))
	case *FullOption:
		content, err := layoutReprRust(v.Content, opts, b.WithIdl("option"))
		if err != nil {
			return layoutInfo{}, err
		}
		alignment := maxInt(v.PrefixBytes, content.alignment)
		size := alignment + content.size
		prefix, err := PrefixWidthFromSize(alignment)
		if err != nil {
			return layoutInfo{}, err
		}
		node := &FullPadded{
			MinSize: uint64(size),
			Content: &FullOption{PrefixBytes: prefix.Bytes(), Content: content.node},
		}
		return layoutInfo{alignment: alignment, size: size, node: node}, nil
	case *FullVec:
		return layoutInfo{}, newErr(KindLayoutError, "Vec is not supported under native Rust layout", b)
	case *FullArray:
		items, err := layoutReprRust(v.Items, opts, b.WithIdl("items"))
		if err != nil {
			return layoutInfo{}, err
		}
		return layoutInfo{
			alignment: items.alignment,
			size:      items.size * int(v.Length),
			node:      &FullArray{Items: items.node, Length: v.Length},
		}, nil
	case *FullStringType:
		return layoutInfo{}, newErr(KindLayoutError, "string is not supported under native Rust layout", b)
	case *FullStruct:
		fields, alignment, size, err := layoutRustFields(v.Fields, 0, opts, b)
		if err != nil {
			return layoutInfo{}, err
		}
		return layoutInfo{alignment: alignment, size: size, node: &FullStruct{Fields: fields}}, nil
	case *FullEnum:
		return layoutRustEnum(v, opts, b)
	case *FullPadded:
		return layoutInfo{}, newErr(KindLayoutError, "Padded is not a legal input to the layout engine", b)
	case *FullConst:
		return layoutInfo{}, newErr(KindLayoutError, "Const is not supported under native Rust layout", b)
	case *FullPrimitive:
		align, ok := v.Primitive.Alignment()
		if !ok {
			return layoutInfo{}, newErr(KindLayoutError, "primitive has no fixed layout", b)
		}
		size, _ := v.Primitive.FixedSize()
		return layoutInfo{alignment: align, size: size, node: v}, nil
	default:
		return layoutInfo{}, newErr(KindLayoutError, "unsupported node under native Rust layout", b)
	}
}

func layoutRustEnum(v *FullEnum, opts LayoutOptions, b Breadcrumbs) (layoutInfo, error) {
	prefixSize := v.Prefix.Bytes()
	alignment := prefixSize
	size := prefixSize
	variants := make([]FullEnumVariant, 0, len(v.Variants))
	for _, variant := range v.Variants {
		fields, fieldsAlign, fieldsSize, err := layoutRustFields(variant.Fields, prefixSize, opts, b.WithIdl(variant.Name))
		if err != nil {
			return layoutInfo{}, err
		}
		alignment = maxInt(alignment, fieldsAlign)
		size = maxInt(size, fieldsSize)
		variants = append(variants, FullEnumVariant{Name: variant.Name, Code: variant.Code, Docs: variant.Docs, Fields: fields})
	}
	size += paddingNeeded(size, alignment)
	node := &FullPadded{
		MinSize: uint64(size),
		Content: &FullEnum{Prefix: v.Prefix, Variants: variants},
	}
	return layoutInfo{alignment: alignment, size: size, node: node}, nil
}

// layoutRustFields refuses to guess a field order the compiler controls:
// it only accepts structs/tuples plain enough (at most one field with a
// prefix, at most two with none) that any ordering gives the same layout.
func layoutRustFields(f FullFields, prefixSize int, opts LayoutOptions, b Breadcrumbs) (FullFields, int, int, error) {
	if f.IsNamed() {
		entries := make([]fieldEntry, 0, len(f.Named))
		for _, field := range f.Named {
			info, err := layoutReprRust(field.Type, opts, b.WithIdl(field.Name))
			if err != nil {
				return FullFields{}, 0, 0, err
			}
			entries = append(entries, fieldEntry{name: field.Name, docs: field.Docs, info: info})
		}
		if err := verifyUnambiguousOrdering(prefixSize, len(entries), opts, b); err != nil {
			return FullFields{}, 0, 0, err
		}
		alignment, size, padded := padFieldEntries(prefixSize, prefixSize, entries)
		named := make([]FullNamedField, 0, len(padded))
		for _, e := range padded {
			named = append(named, FullNamedField{Name: e.name, Docs: e.docs, Type: e.info.node})
		}
		return FullFields{Named: named}, alignment, size, nil
	}
	if f.IsUnnamed() {
		entries := make([]fieldEntry, 0, len(f.Unnamed))
		for i, field := range f.Unnamed {
			info, err := layoutReprRust(field, opts, b.WithIdl(strconv.Itoa(i)))
			if err != nil {
				return FullFields{}, 0, 0, err
			}
			entries = append(entries, fieldEntry{info: info})
		}
		if err := verifyUnambiguousOrdering(prefixSize, len(entries), opts, b); err != nil {
			return FullFields{}, 0, 0, err
		}
		alignment, size, padded := padFieldEntries(prefixSize, prefixSize, entries)
		unnamed := make([]TypeFull, 0, len(padded))
		for _, e := range padded {
			unnamed = append(unnamed, e.info.node)
		}
		return FullFields{Unnamed: unnamed}, alignment, size, nil
	}
	return FullFields{}, 1, 0, nil
}

func verifyUnambiguousOrdering(prefixSize, fieldCount int, opts LayoutOptions, b Breadcrumbs) error {
	if opts.AllowRustRepr {
		return nil
	}
	if prefixSize == 0 && fieldCount <= 2 {
		return nil
	}
	if fieldCount <= 1 {
		return nil
	}
	return newErr(KindLayoutError,
		"struct/enum/tuple field ordering is compiler-dependent under native Rust layout; use repr(c) instead", b)
}

type fieldEntry struct {
	name string
	docs []string
	info layoutInfo
}

// padFieldEntries lays fields out in declaration order, inserting a Padded
// wrapper before any field that isn't already aligned, and reports the
// struct's own alignment/size (end-padded to a multiple of alignment).
// start is the running offset fields begin at (nonzero inside a
// discriminated enum variant, past the tag); alignment starts at
// baseAlignment (at least the tag's own alignment).
func padFieldEntries(start, baseAlignment int, entries []fieldEntry) (alignment, size int, out []fieldEntry) {
	alignment = maxInt(baseAlignment, 1)
	offset := start
	out = make([]fieldEntry, 0, len(entries))
	for _, e := range entries {
		alignment = maxInt(alignment, e.info.alignment)
		before := paddingNeeded(offset, e.info.alignment)
		node := e.info.node
		if before > 0 {
			node = &FullPadded{Before: uint64(before), Content: node}
		}
		offset += before + e.info.size
		out = append(out, fieldEntry{name: e.name, docs: e.docs, info: layoutInfo{alignment: e.info.alignment, size: e.info.size, node: node}})
	}
	after := paddingNeeded(offset, alignment)
	if after > 0 && len(out) > 0 {
		last := out[len(out)-1]
		last.info.node = &FullPadded{After: uint64(after), Content: last.info.node}
		out[len(out)-1] = last
	}
	size = offset + after
	return alignment, size, out
}

func paddingNeeded(offset, alignment int) int {
	if alignment <= 1 {
		return 0
	}
	remainder := offset % alignment
	if remainder == 0 {
		return 0
	}
	return alignment - remainder
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
