// Package norm produces the canonical comparison form of a word: lowercase,
// ligatures expanded, diacritics stripped. Every matching decision in the
// engine goes through this single entry point so that two spellings of the
// same word always collide on the same key.
package norm

import (
	"strings"

	unorm "golang.org/x/text/unicode/norm"
)

// Known ligatures are expanded before Unicode decomposition because NFD does
// not split them (they are distinct letters, not composed characters).
// Uppercase forms are already handled by the lowercase step.
var ligatures = strings.NewReplacer(
	"œ", "oe", // œ
	"æ", "ae", // æ
	"ß", "ss", // ß
	"ﬁ", "fi", // ﬁ
	"ﬂ", "fl", // ﬂ
)

// Word returns the canonical form of raw: lowercased, ligatures expanded,
// canonically decomposed (NFD) with combining diacritical marks removed.
// It is pure, locale-independent and idempotent.
func Word(raw string) string {
	s := strings.ToLower(raw)
	s = ligatures.Replace(s)
	s = unorm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x0300 && r <= 0x036f {
			continue // combining diacritical marks
		}
		b.WriteRune(r)
	}
	return b.String()
}
