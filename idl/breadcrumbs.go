package idl

import "strings"

// Breadcrumbs accumulates a (schema-path, data-path) pair by immutable
// append, per spec.md §9. Every With* call returns a new value; the
// receiver is never mutated, so a single Breadcrumbs can be branched into
// many children safely (e.g. once per struct field).
type Breadcrumbs struct {
	idlPath []string
	valPath []string
}

// WithIdl appends a segment to the schema-side path.
func (b Breadcrumbs) WithIdl(segment string) Breadcrumbs {
	return Breadcrumbs{
		idlPath: appendCopy(b.idlPath, segment),
		valPath: b.valPath,
	}
}

// WithVal appends a segment to the data-side path.
func (b Breadcrumbs) WithVal(segment string) Breadcrumbs {
	return Breadcrumbs{
		idlPath: b.idlPath,
		valPath: appendCopy(b.valPath, segment),
	}
}

func appendCopy(s []string, v string) []string {
	out := make([]string, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// Idl renders the schema-path so far, e.g. "idl.accounts.Escrow.fields.amount".
func (b Breadcrumbs) Idl() string {
	if len(b.idlPath) == 0 {
		return "idl"
	}
	return "idl." + strings.Join(b.idlPath, ".")
}

// Val renders the data-path so far, e.g. "val.amount".
func (b Breadcrumbs) Val() string {
	if len(b.valPath) == 0 {
		return "val"
	}
	return "val." + strings.Join(b.valPath, ".")
}

// AsIdl is a convenience for WithIdl(segment).Idl().
func (b Breadcrumbs) AsIdl(segment string) string {
	return b.WithIdl(segment).Idl()
}

// AsVal is a convenience for WithVal(segment).Val().
func (b Breadcrumbs) AsVal(segment string) string {
	return b.WithVal(segment).Val()
}

// NewBreadcrumbs starts an empty trail.
func NewBreadcrumbs() Breadcrumbs {
	return Breadcrumbs{}
}
