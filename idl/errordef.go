package idl

// ErrorDef is a program error table entry (spec.md §3: `{ code, name, msg }`).
type ErrorDef struct {
	Name string
	Code uint32
	Msg  string
}

// ParseErrorDef reads `{ code, msg?, docs? }`. The name is the table key
// (or the array-form entry's "name", normalized by the caller per spec.md
// §4.8's snake-case array-name rule for errors).
func ParseErrorDef(name string, value any, b Breadcrumbs) (*ErrorDef, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, newErr(KindParseError, "error must be a JSON object", b.WithIdl(name))
	}
	b = b.WithIdl(name)

	code, ok := obj["code"]
	if !ok {
		return nil, newErr(KindParseError, "error missing code", b.WithIdl("code"))
	}
	msg, _ := objString(obj, "msg")
	return &ErrorDef{
		Name: name,
		Code: uint32(intFromAny(code)),
		Msg:  msg,
	}, nil
}
