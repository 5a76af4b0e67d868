package idl

import (
	"strings"
	"unicode"
)

// normalizeSnake canonicalizes an identifier to snake_case: hyphens become
// underscores, a boundary between a lowercase/digit run and an uppercase
// run gets an underscore inserted, and the whole result is lowercased.
// Grounded on idl_convert_to_snake_case in the original source, which
// likewise only rewrites names that contain something other than
// lowercase ASCII/digits/underscore — already-snake names pass through
// unchanged.
func normalizeSnake(s string) string {
	for _, r := range s {
		if !(unicode.IsLower(r) || unicode.IsDigit(r) || r == '_') {
			var out []rune
			afterLowerOrDigit := false
			for _, c := range strings.ReplaceAll(s, "-", "_") {
				if unicode.IsUpper(c) && afterLowerOrDigit {
					out = append(out, '_')
				}
				afterLowerOrDigit = unicode.IsLower(c) || unicode.IsDigit(c)
				out = append(out, unicode.ToLower(c))
			}
			return string(out)
		}
	}
	return s
}

// normalizePascal canonicalizes an identifier to PascalCase, splitting on
// underscores/hyphens/spaces and upper-casing the first letter of each
// segment (the rest of each segment keeps its case). Used for the
// accounts/events/typedefs array-form name rule (spec.md §4.8).
func normalizePascal(s string) string {
	segments := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(segments) == 0 {
		return s
	}
	var b strings.Builder
	for _, seg := range segments {
		r := []rune(seg)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}

// namesEqual reports whether a and b refer to the same identifier once
// both are folded to snake_case and lowercased — the comparison rule
// spec.md §4.7 requires for PDA seed-path segments, and that supplemented
// feature 4 (toolbox_idl_lookup-style name resolution) reuses for
// account/instruction/typedef lookup by name.
func namesEqual(a, b string) bool {
	return strings.EqualFold(normalizeSnake(a), normalizeSnake(b))
}
