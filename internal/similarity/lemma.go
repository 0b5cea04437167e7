package similarity

import (
	"strings"

	"github.com/kljensen/snowball/french"

	"github.com/lexiguess/lexiguess/internal/norm"
)

// LemmaCandidates returns heuristic root forms of word: the normalized input
// itself, rewrites of common French suffixes (plural, feminine, a few verb
// endings, diminutive) and the snowball French stem. The result is
// duplicate-free; callers treat it as a set.
func LemmaCandidates(word string) []string {
	w := norm.Word(word)

	candidates := []string{w}
	add := func(c string) {
		if c == "" {
			return
		}
		for _, seen := range candidates {
			if seen == c {
				return
			}
		}
		candidates = append(candidates, c)
	}

	// Plural to singular.
	switch {
	case strings.HasSuffix(w, "aux"):
		add(w[:len(w)-3] + "al") // animaux → animal
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		add(w[:len(w)-1]) // chats → chat
	case strings.HasSuffix(w, "x"):
		add(w[:len(w)-1]) // chevaux handled above; other -x just drop
	}

	// Feminine to masculine.
	if strings.HasSuffix(w, "ee") {
		add(w[:len(w)-2] + "e") // passee → passe
	} else if strings.HasSuffix(w, "e") && len(w) > 2 {
		add(w[:len(w)-1]) // grande → grand
	}

	// Conjugated forms to infinitive, rough heuristics.
	switch {
	case strings.HasSuffix(w, "aient"):
		add(w[:len(w)-5] + "er") // parlaient → parler
	case strings.HasSuffix(w, "ait"):
		add(w[:len(w)-3] + "er") // parlait → parler
	case strings.HasSuffix(w, "ent"):
		add(w[:len(w)-3] + "er") // parlent → parler
	case strings.HasSuffix(w, "ant"):
		add(w[:len(w)-3] + "er") // parlant → parler
	}

	// Diminutive.
	if strings.HasSuffix(w, "ette") {
		add(w[:len(w)-4])
	}

	if stem := french.Stem(w, false); stem != w {
		add(stem)
	}

	return candidates
}

// MorphologicalVariants reports whether two words share at least one lemma
// candidate, i.e. plausibly inflect the same root.
func MorphologicalVariants(a, b string) bool {
	lb := LemmaCandidates(b)
	for _, ca := range LemmaCandidates(a) {
		for _, cb := range lb {
			if ca == cb {
				return true
			}
		}
	}
	return false
}
