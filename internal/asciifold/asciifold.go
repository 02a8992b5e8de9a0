// Package asciifold provides the case folding used for HTML and CSS
// keyword and name comparisons (tag names, attribute names,
// pseudo-classes, units, enumerated keyword values). It applies Unicode
// full case folding, so non-ASCII letters fold as well as ASCII ones.
// It centralizes the fold behind golang.org/x/text/cases rather than
// leaving bare strings.ToLower calls scattered across every package.
package asciifold

import (
	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Fold returns s under Unicode full case folding (cases.Fold) rather
// than byte-at-a-time ASCII-only lowering, so it can also change
// non-ASCII letters and the byte length of s.
func Fold(s string) string {
	return folder.String(s)
}

// Equal reports whether a and b are equal after Fold.
func Equal(a, b string) bool {
	return folder.String(a) == folder.String(b)
}
