package expr

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator backs the ordering sanity check in NextLexicographic; it is
// not used to decide equality of the planner's own comparisons (those
// stay byte-exact), only to confirm the synthesized upper bound
// actually sorts after the pattern's literal prefix under the default
// collation, the same ordering Postgres text indexes use.
var collator = collate.New(language.Und)

// LiteralPrefix extracts the literal portion of a LIKE pattern, i.e.
// everything before its first wildcard ('%' or '_'). A pattern with no
// wildcard at all is its own (full) prefix.
func LiteralPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, "%_"); i >= 0 {
		return pattern[:i]
	}
	return pattern
}

// IsPrefixPattern reports whether every wildcard in pattern appears
// after some literal prefix, i.e. the pattern is not itself all
// wildcards from position zero.
func IsPrefixPattern(pattern string) bool {
	return LiteralPrefix(pattern) != ""
}

// NextLexicographic returns the least string that sorts strictly after
// every string with prefix s, by incrementing s's final rune (or, when
// that rune is maximal or its increment does not collate after s,
// dropping it and retrying on the shorter prefix; ok is false once
// nothing is left, including for empty input). Used to derive the LIKE double-ended upper bound (spec
// §4.2): a column LIKE 'foo%' becomes 'foo' <= col < NextLexicographic("foo").
func NextLexicographic(s string) (string, bool) {
	for s != "" {
		r, size := utf8.DecodeLastRuneInString(s)
		if r == utf8.RuneError {
			return "", false
		}
		if r < utf8.MaxRune {
			head := s[:len(s)-size]
			candidate := head + string(r+1)
			if collator.CompareString(s, candidate) < 0 {
				return candidate, true
			}
		}
		s = s[:len(s)-size]
	}
	return "", false
}
