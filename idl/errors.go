package idl

import "fmt"

// ErrorKind classifies the failure modes named in spec.md §7.
type ErrorKind string

const (
	KindParseError           ErrorKind = "ParseError"
	KindUnresolvedReference  ErrorKind = "UnresolvedReference"
	KindGenericsArityMismatch ErrorKind = "GenericsArityMismatch"
	KindLayoutError          ErrorKind = "LayoutError"
	KindRangeError           ErrorKind = "RangeError"
	KindUtfError             ErrorKind = "UtfError"
	KindShortRead            ErrorKind = "ShortRead"
	KindDiscriminatorMismatch ErrorKind = "DiscriminatorMismatch"
	KindUnknownEnumVariant   ErrorKind = "UnknownEnumVariant"
	KindPdaUnresolvable      ErrorKind = "PdaUnresolvable"
	KindInvalidPath          ErrorKind = "InvalidPath"
	// KindInvalidPubkey wraps a failure decoding or deriving a base58
	// public key (solana-go's PublicKeyFromBase58/FindProgramAddress).
	KindInvalidPubkey ErrorKind = "InvalidPubkey"
	// KindInvalidNumber wraps a failure converting a JSON number into the
	// Go numeric type a field's width requires.
	KindInvalidNumber ErrorKind = "InvalidNumber"
	// KindInflate wraps a failure decompressing an IDL account blob's
	// zlib-compressed content.
	KindInflate ErrorKind = "Inflate"
	// KindWrapped wraps any other collaborator-library failure (byte-bag
	// decoding, discriminator string decoding, JSON decoding, a caller's
	// AccountFetcher) that doesn't fit a more specific kind above.
	KindWrapped ErrorKind = "Wrapped"
)

// Error is the single error type every public engine entry point returns.
// It carries the breadcrumb trail required by spec.md §7/§9 so a caller
// can pinpoint both where in the schema and where in the data a failure
// occurred.
type Error struct {
	Kind        ErrorKind
	Msg         string
	IdlPath     string
	ValPath     string
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (at %s / %s): %v", e.Kind, e.Msg, e.IdlPath, e.ValPath, e.Cause)
	}
	return fmt.Sprintf("%s: %s (at %s / %s)", e.Kind, e.Msg, e.IdlPath, e.ValPath)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind ErrorKind, msg string, b Breadcrumbs) *Error {
	return &Error{Kind: kind, Msg: msg, IdlPath: b.Idl(), ValPath: b.Val()}
}

func newErrf(kind ErrorKind, b Breadcrumbs, format string, args ...any) *Error {
	return newErr(kind, fmt.Sprintf(format, args...), b)
}

func wrapErr(kind ErrorKind, cause error, b Breadcrumbs) *Error {
	return &Error{Kind: kind, Msg: cause.Error(), IdlPath: b.Idl(), ValPath: b.Val(), Cause: cause}
}
