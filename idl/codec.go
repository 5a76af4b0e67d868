package idl

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
)

// Serialize encodes value (a decoded JSON tree: map[string]any, []any,
// string, json.Number, bool, or nil) into Borsh-style wire bytes for t
// (spec.md §4.5). deserializable controls whether the outermost
// variable-length items (Vec/String) get their length prefix written —
// callers writing a decodable blob (account/instruction data) pass true;
// the PDA seed evaluator passes false since seeds are raw, fixed-width-
// in-context bytes with no length to recover on read.
func Serialize(t TypeFull, value any, deserializable bool, b Breadcrumbs) ([]byte, error) {
	buf := make([]byte, 0, 64)
	out, err := serializeInto(t, value, buf, deserializable, b)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func serializeInto(t TypeFull, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	switch v := t.(type) {
	case *FullTypedef:
		return serializeInto(v.Content, value, data, deserializable, b.WithIdl(v.Name))
	case *FullOption:
		return serializeOption(v, value, data, deserializable, b.WithIdl("option"))
	case *FullVec:
		return serializeVec(v, value, data, deserializable, b.WithIdl("vec"))
	case *FullArray:
		return serializeArray(v, value, data, deserializable, b.WithIdl("array"))
	case *FullStringType:
		return serializeString(v, value, data, deserializable, b)
	case *FullStruct:
		return serializeFields(v.Fields, value, data, deserializable, b.WithIdl("struct"))
	case *FullEnum:
		return serializeEnum(v, value, data, deserializable, b.WithIdl("enum"))
	case *FullPadded:
		return serializePadded(v, value, data, deserializable, b.WithIdl("padded"))
	case *FullConst:
		return nil, newErrf(KindParseError, b, "can't serialize a const literal directly: %d", v.Literal)
	case *FullPrimitive:
		return serializePrimitive(v.Primitive, value, data, deserializable, b)
	default:
		return nil, newErr(KindParseError, "unsupported node in serialize", b)
	}
}

func serializeOption(v *FullOption, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	if value == nil {
		for i := 0; i < v.PrefixBytes; i++ {
			data = append(data, 0)
		}
		return data, nil
	}
	data = append(data, 1)
	for i := 1; i < v.PrefixBytes; i++ {
		data = append(data, 0)
	}
	return serializeInto(v.Content, value, data, deserializable, b)
}

func serializeVec(v *FullVec, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	if prim, ok := v.Items.(*FullPrimitive); ok && prim.Primitive == PrimitiveU8 {
		bytes, err := readValueAsBytes(value, b)
		if err != nil {
			return nil, err
		}
		if deserializable {
			data = appendPrefix(data, v.Prefix, uint64(len(bytes)))
		}
		return append(data, bytes...), nil
	}
	values, ok := value.([]any)
	if !ok {
		return nil, newErr(KindParseError, "expected an array", b.WithVal("vec"))
	}
	if deserializable {
		data = appendPrefix(data, v.Prefix, uint64(len(values)))
	}
	for i, item := range values {
		var err error
		data, err = serializeInto(v.Items, item, data, deserializable, b.WithVal(strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func serializeArray(v *FullArray, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	values, ok := value.([]any)
	if !ok {
		return nil, newErr(KindParseError, "expected an array", b.WithVal("array"))
	}
	if uint64(len(values)) != v.Length {
		return nil, newErrf(KindParseError, b,
			"value array is not the correct size: expected %d items, found %d items", v.Length, len(values))
	}
	for i, item := range values {
		var err error
		data, err = serializeInto(v.Items, item, data, deserializable, b.WithVal(strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func serializeString(v *FullStringType, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, newErr(KindParseError, "expected a string", b.WithVal("string"))
	}
	if deserializable {
		data = appendPrefix(data, v.Prefix, uint64(len(s)))
	}
	return append(data, s...), nil
}

func serializeFields(f FullFields, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	if f.IsNone() {
		return data, nil
	}
	if f.IsNamed() {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, newErr(KindParseError, "expected an object", b.WithVal("struct"))
		}
		for _, field := range f.Named {
			fv, ok := obj[field.Name]
			if !ok {
				return nil, newErrf(KindParseError, b.WithVal("struct"), "missing field %q", field.Name)
			}
			var err error
			data, err = serializeInto(field.Type, fv, data, deserializable, b.WithVal(field.Name))
			if err != nil {
				return nil, err
			}
		}
		return data, nil
	}
	values, ok := value.([]any)
	if !ok {
		return nil, newErr(KindParseError, "expected an array", b.WithVal("struct"))
	}
	if len(values) != len(f.Unnamed) {
		return nil, newErr(KindParseError, "wrong number of unnamed fields", b.WithVal("struct"))
	}
	for i, item := range f.Unnamed {
		var err error
		data, err = serializeInto(item, values[i], data, deserializable, b.WithVal(strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// serializeEnum accepts the three JSON shapes spec.md §4.5 allows: a bare
// string for a zero-field variant, {"Name": fieldsValue}, or
// ["Name", fieldsValue].
func serializeEnum(v *FullEnum, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	name, fieldsValue, err := enumShapeToNameAndFields(value, b)
	if err != nil {
		return nil, err
	}
	for _, variant := range v.Variants {
		if variant.Name != name {
			continue
		}
		data = appendPrefix(data, v.Prefix, uint64(variant.Code))
		return serializeFields(variant.Fields, fieldsValue, data, deserializable, b.WithVal(name))
	}
	return nil, newErrf(KindUnknownEnumVariant, b.WithVal(name), "no enum variant named %q", name)
}

func enumShapeToNameAndFields(value any, b Breadcrumbs) (string, any, error) {
	if s, ok := value.(string); ok {
		return s, nil, nil
	}
	if obj, ok := value.(map[string]any); ok {
		if len(obj) == 1 {
			for name, fields := range obj {
				return name, fields, nil
			}
		}
		return "", nil, newErr(KindParseError, "enum object must have exactly one key", b.WithVal("enum"))
	}
	if arr, ok := value.([]any); ok {
		if len(arr) != 2 {
			return "", nil, newErr(KindParseError, "expected an array of 2 items [name, fields]", b.WithVal("enum"))
		}
		name, ok := arr[0].(string)
		if !ok {
			return "", nil, newErr(KindParseError, "enum name must be a string", b.WithVal("enum"))
		}
		return name, arr[1], nil
	}
	return "", nil, newErr(KindParseError, "expected a string, object or 2-item array", b.WithVal("enum"))
}

func serializePadded(v *FullPadded, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	for i := uint64(0); i < v.Before; i++ {
		data = append(data, 0)
	}
	start := len(data)
	var err error
	data, err = serializeInto(v.Content, value, data, deserializable, b)
	if err != nil {
		return nil, err
	}
	for uint64(len(data)-start) < v.MinSize {
		data = append(data, 0)
	}
	for i := uint64(0); i < v.After; i++ {
		data = append(data, 0)
	}
	return data, nil
}

func serializePrimitive(p Primitive, value any, data []byte, deserializable bool, b Breadcrumbs) ([]byte, error) {
	bv := b
	switch p {
	case PrimitiveBool:
		bl, ok := value.(bool)
		if !ok {
			return nil, newErr(KindParseError, "expected a boolean", bv)
		}
		if bl {
			return append(data, 1), nil
		}
		return append(data, 0), nil
	case PrimitiveString:
		s, ok := value.(string)
		if !ok {
			return nil, newErr(KindParseError, "expected a string", bv)
		}
		if deserializable {
			data = appendPrefix(data, PrefixU32, uint64(len(s)))
		}
		return append(data, s...), nil
	case PrimitivePubkey:
		s, ok := value.(string)
		if !ok {
			return nil, newErr(KindParseError, "expected a base58 pubkey string", bv)
		}
		pk, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return nil, wrapErr(KindInvalidPubkey, err, bv)
		}
		return append(data, pk[:]...), nil
	case PrimitiveF32:
		f, err := numberToFloat(value, bv)
		if err != nil {
			return nil, err
		}
		return appendFloat32(data, float32(f)), nil
	case PrimitiveF64:
		f, err := numberToFloat(value, bv)
		if err != nil {
			return nil, err
		}
		return appendFloat64(data, f), nil
	default:
		size, _ := p.FixedSize()
		signed := primitiveIsSigned(p)
		n, err := numberToBigInt(value, bv)
		if err != nil {
			return nil, err
		}
		return appendIntLE(data, n, size, signed, bv)
	}
}

func primitiveIsSigned(p Primitive) bool {
	switch p {
	case PrimitiveI8, PrimitiveI16, PrimitiveI32, PrimitiveI64, PrimitiveI128:
		return true
	default:
		return false
	}
}

func appendPrefix(data []byte, width PrefixWidth, n uint64) []byte {
	bytes := width.Bytes()
	for i := 0; i < bytes; i++ {
		data = append(data, byte(n>>(8*uint(i))))
	}
	return data
}

func appendFloat32(data []byte, f float32) []byte {
	bits := math.Float32bits(f)
	for i := 0; i < 4; i++ {
		data = append(data, byte(bits>>(8*uint(i))))
	}
	return data
}

func appendFloat64(data []byte, f float64) []byte {
	bits := math.Float64bits(f)
	for i := 0; i < 8; i++ {
		data = append(data, byte(bits>>(8*uint(i))))
	}
	return data
}

// appendIntLE range-checks n against size/signed and writes it as size
// little-endian bytes, using two's complement for negative values.
func appendIntLE(data []byte, n *big.Int, size int, signed bool, b Breadcrumbs) ([]byte, error) {
	bitSize := size * 8
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bitSize))
	unsigned := new(big.Int).Set(n)
	if n.Sign() < 0 {
		if !signed {
			return nil, newErr(KindRangeError, "value out of range: negative value for unsigned type", b)
		}
		unsigned.Add(n, limit)
	}
	if unsigned.Sign() < 0 || unsigned.Cmp(limit) >= 0 {
		return nil, newErr(KindRangeError, "value out of range for declared width", b)
	}
	bytes := unsigned.Bytes() // big-endian, no leading zeros
	out := make([]byte, size)
	for i, bt := range bytes {
		// bytes is big-endian; place from the end, little-endian target.
		out[len(bytes)-1-i] = bt
	}
	return append(data, out...), nil
}

func numberToBigInt(value any, b Breadcrumbs) (*big.Int, error) {
	switch v := value.(type) {
	case json.Number:
		n, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, newErrf(KindRangeError, b, "not an integer: %s", v.String())
		}
		return n, nil
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, newErrf(KindRangeError, b, "not an integer: %s", v)
		}
		return n, nil
	case float64:
		return big.NewInt(int64(v)), nil
	default:
		return nil, newErr(KindParseError, "expected an integer", b)
	}
}

func numberToFloat(value any, b Breadcrumbs) (float64, error) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, wrapErr(KindInvalidNumber, err, b)
		}
		return f, nil
	case float64:
		return v, nil
	default:
		return 0, newErr(KindParseError, "expected a floating point number", b)
	}
}

// Deserialize reads a value of type t out of data starting at offset,
// returning the number of bytes consumed and the decoded JSON-shaped
// value (spec.md §4.5). Integer results use json.Number so u64/u128
// magnitudes survive round-tripping through encoding/json without losing
// precision to a float64 conversion.
func Deserialize(t TypeFull, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	switch v := t.(type) {
	case *FullTypedef:
		return Deserialize(v.Content, data, offset, b.WithIdl(v.Name))
	case *FullOption:
		return deserializeOption(v, data, offset, b.WithIdl("option"))
	case *FullVec:
		return deserializeVec(v, data, offset, b.WithIdl("vec"))
	case *FullArray:
		return deserializeArray(v, data, offset, b.WithIdl("array"))
	case *FullStringType:
		return deserializeStringType(v, data, offset, b)
	case *FullStruct:
		return deserializeFields(v.Fields, data, offset, b.WithIdl("struct"))
	case *FullEnum:
		return deserializeEnum(v, data, offset, b.WithIdl("enum"))
	case *FullPadded:
		return deserializePadded(v, data, offset, b.WithIdl("padded"))
	case *FullConst:
		return 0, nil, newErrf(KindParseError, b, "can't deserialize a const literal directly: %d", v.Literal)
	case *FullPrimitive:
		return deserializePrimitive(v.Primitive, data, offset, b)
	default:
		return 0, nil, newErr(KindParseError, "unsupported node in deserialize", b)
	}
}

func sliceAt(data []byte, offset, length int, b Breadcrumbs) ([]byte, error) {
	end := offset + length
	if end < offset || end > len(data) {
		return nil, newErrf(KindShortRead, b, "need %d byte(s) at offset %d, have %d", length, offset, len(data))
	}
	return data[offset:end], nil
}

func readUintLE(data []byte, offset, size int, b Breadcrumbs) (uint64, error) {
	slice, err := sliceAt(data, offset, size, b)
	if err != nil {
		return 0, err
	}
	var n uint64
	for i := size - 1; i >= 0; i-- {
		n = (n << 8) | uint64(slice[i])
	}
	return n, nil
}

func deserializeOption(v *FullOption, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	flag, err := readUintLE(data, offset, 1, b.WithVal("flag"))
	if err != nil {
		return 0, nil, err
	}
	size := v.PrefixBytes
	if flag == 0 {
		return size, nil, nil
	}
	contentSize, value, err := Deserialize(v.Content, data, offset+size, b)
	if err != nil {
		return 0, nil, err
	}
	return size + contentSize, value, nil
}

func deserializeVec(v *FullVec, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	length, err := readUintLE(data, offset, v.Prefix.Bytes(), b.WithVal("length"))
	if err != nil {
		return 0, nil, err
	}
	size := v.Prefix.Bytes()
	if prim, ok := v.Items.(*FullPrimitive); ok && prim.Primitive == PrimitiveU8 {
		slice, err := sliceAt(data, offset+size, int(length), b)
		if err != nil {
			return 0, nil, err
		}
		out := make([]any, len(slice))
		for i, by := range slice {
			out[i] = jsonInt(int64(by))
		}
		return size + int(length), out, nil
	}
	items := make([]any, 0, length)
	for i := uint64(0); i < length; i++ {
		itemSize, item, err := Deserialize(v.Items, data, offset+size, b.WithVal(strconv.Itoa(int(i))))
		if err != nil {
			return 0, nil, err
		}
		size += itemSize
		items = append(items, item)
	}
	return size, items, nil
}

func deserializeArray(v *FullArray, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	size := 0
	items := make([]any, 0, v.Length)
	for i := uint64(0); i < v.Length; i++ {
		itemSize, item, err := Deserialize(v.Items, data, offset+size, b.WithVal(strconv.Itoa(int(i))))
		if err != nil {
			return 0, nil, err
		}
		size += itemSize
		items = append(items, item)
	}
	return size, items, nil
}

func deserializeStringType(v *FullStringType, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	length, err := readUintLE(data, offset, v.Prefix.Bytes(), b.WithVal("length"))
	if err != nil {
		return 0, nil, err
	}
	prefixSize := v.Prefix.Bytes()
	slice, err := sliceAt(data, offset+prefixSize, int(length), b)
	if err != nil {
		return 0, nil, err
	}
	if !utf8.Valid(slice) {
		return 0, nil, newErr(KindUtfError, "invalid utf8 string", b.WithVal("string"))
	}
	return prefixSize + int(length), string(slice), nil
}

func deserializeFields(f FullFields, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	if f.IsNone() {
		return 0, nil, nil
	}
	if f.IsNamed() {
		size := 0
		out := make(map[string]any, len(f.Named))
		for _, field := range f.Named {
			fieldSize, value, err := Deserialize(field.Type, data, offset+size, b.WithVal(field.Name))
			if err != nil {
				return 0, nil, err
			}
			size += fieldSize
			out[field.Name] = value
		}
		return size, out, nil
	}
	size := 0
	out := make([]any, 0, len(f.Unnamed))
	for i, field := range f.Unnamed {
		fieldSize, value, err := Deserialize(field, data, offset+size, b.WithVal(strconv.Itoa(i)))
		if err != nil {
			return 0, nil, err
		}
		size += fieldSize
		out = append(out, value)
	}
	return size, out, nil
}

func deserializeEnum(v *FullEnum, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	code, err := readUintLE(data, offset, v.Prefix.Bytes(), b.WithVal("enum"))
	if err != nil {
		return 0, nil, err
	}
	prefixSize := v.Prefix.Bytes()
	for _, variant := range v.Variants {
		if uint64(variant.Code) != code {
			continue
		}
		size, fields, err := deserializeFields(variant.Fields, data, offset+prefixSize, b.WithVal(variant.Name))
		if err != nil {
			return 0, nil, err
		}
		if fields == nil {
			return prefixSize + size, variant.Name, nil
		}
		return prefixSize + size, map[string]any{variant.Name: fields}, nil
	}
	return 0, nil, newErrf(KindDiscriminatorMismatch, b.WithIdl("variants"), "invalid enum code: %d", code)
}

func deserializePadded(v *FullPadded, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	contentSize, value, err := Deserialize(v.Content, data, offset+int(v.Before), b)
	if err != nil {
		return 0, nil, err
	}
	if int(v.MinSize) > contentSize {
		contentSize = int(v.MinSize)
	}
	return int(v.Before) + contentSize + int(v.After), value, nil
}

func deserializePrimitive(p Primitive, data []byte, offset int, b Breadcrumbs) (int, any, error) {
	bv := b
	switch p {
	case PrimitiveBool:
		n, err := readUintLE(data, offset, 1, bv)
		if err != nil {
			return 0, nil, err
		}
		return 1, n != 0, nil
	case PrimitiveString:
		length, err := readUintLE(data, offset, 4, bv)
		if err != nil {
			return 0, nil, err
		}
		slice, err := sliceAt(data, offset+4, int(length), bv)
		if err != nil {
			return 0, nil, err
		}
		if !utf8.Valid(slice) {
			return 0, nil, newErr(KindUtfError, "invalid utf8 string", bv)
		}
		return 4 + int(length), string(slice), nil
	case PrimitivePubkey:
		slice, err := sliceAt(data, offset, 32, bv)
		if err != nil {
			return 0, nil, err
		}
		var pk solana.PublicKey
		copy(pk[:], slice)
		return 32, pk.String(), nil
	case PrimitiveF32:
		bits, err := readUintLE(data, offset, 4, bv)
		if err != nil {
			return 0, nil, err
		}
		return 4, float64(math.Float32frombits(uint32(bits))), nil
	case PrimitiveF64:
		bits, err := readUintLE(data, offset, 8, bv)
		if err != nil {
			return 0, nil, err
		}
		return 8, math.Float64frombits(bits), nil
	default:
		size, _ := p.FixedSize()
		slice, err := sliceAt(data, offset, size, bv)
		if err != nil {
			return 0, nil, err
		}
		n := bytesToBigIntLE(slice, primitiveIsSigned(p))
		return size, jsonBigInt(n), nil
	}
}

func bytesToBigIntLE(slice []byte, signed bool) *big.Int {
	be := make([]byte, len(slice))
	for i, v := range slice {
		be[len(slice)-1-i] = v
	}
	n := new(big.Int).SetBytes(be)
	if signed && len(slice) > 0 && slice[len(slice)-1]&0x80 != 0 {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(len(slice)*8))
		n.Sub(n, limit)
	}
	return n
}

func jsonInt(n int64) json.Number {
	return json.Number(strconv.FormatInt(n, 10))
}

func jsonBigInt(n *big.Int) json.Number {
	return json.Number(n.String())
}
