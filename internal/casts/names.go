package casts

import (
	"strings"

	"javelin/internal/types"
)

// castMethodName derives the rt.Primitives helper name for an explicit
// conversion: $castLongToInt, $castDoubleToFloat, ...
func castMethodName(from, to types.PrimKind) string {
	return "$cast" + properCase(from.SimpleName()) + "To" + properCase(to.SimpleName())
}

// properCase uppercases the first character and leaves the rest unchanged.
// Single-character names are fully uppercased.
func properCase(s string) string {
	if s == "" {
		return s
	}
	if len(s) == 1 {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
