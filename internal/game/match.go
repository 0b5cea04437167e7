// Package game decides what a guess hits. Strategies run in a fixed priority
// order — exact bucket, shared lemma, fuzzy/semantic sweep — and the first
// success wins. The win check walks the title words with the same constants,
// so the two can never disagree on what counts as a match.
package game

import (
	"strings"
	"unicode/utf8"

	"github.com/lexiguess/lexiguess/internal/index"
	"github.com/lexiguess/lexiguess/internal/norm"
	"github.com/lexiguess/lexiguess/internal/similarity"
)

// Result is the outcome of one guess.
type Result struct {
	Found       bool             `json:"found"`
	Word        string           `json:"word"` // normalized guess
	Positions   []index.Position `json:"positions"`
	Occurrences int              `json:"occurrences"`
	Similarity  float64          `json:"similarity"`
}

func notFound(word string, best float64) Result {
	return Result{Word: word, Positions: []index.Position{}, Similarity: best}
}

func found(word string, positions []index.Position, confidence float64) Result {
	return Result{
		Found:       true,
		Word:        word,
		Positions:   positions,
		Occurrences: len(positions),
		Similarity:  confidence,
	}
}

// Match scores a raw guess against the day's index.
func Match(raw string, snap *index.Snapshot) Result {
	guess := norm.Word(strings.TrimSpace(raw))
	if guess == "" {
		return notFound("", 0)
	}

	// Exact: the normalized guess is an index key.
	if positions := snap.Lookup(guess); len(positions) > 0 {
		return found(guess, positions, similarity.ExactConfidence)
	}

	// Lemma: some root form of the guess is an index key.
	for _, candidate := range similarity.LemmaCandidates(guess) {
		if candidate == guess {
			continue
		}
		if positions := snap.Lookup(candidate); len(positions) > 0 {
			return found(guess, positions, similarity.MorphConfidence)
		}
	}

	// Fuzzy/semantic sweep over every index key, gated on length.
	guessLen := utf8.RuneCountInString(guess)
	if guessLen < similarity.MinFuzzyLength {
		return notFound(guess, 0)
	}

	best := 0.0
	bestKey := ""
	guessFirst, _ := utf8.DecodeRuneInString(guess)
	for _, key := range snap.Keys() {
		keyLen := utf8.RuneCountInString(key)
		if keyLen < similarity.MinFuzzyLength {
			continue
		}
		if gap := guessLen - keyLen; gap > similarity.MaxLengthGap || -gap > similarity.MaxLengthGap {
			continue
		}

		// Relation score: synonym table beats lemma overlap.
		if similarity.SemanticallySimilar(guess, key) {
			if similarity.SemanticConfidence > best {
				best = similarity.SemanticConfidence
				bestKey = key
			}
		} else if similarity.MorphologicalVariants(guess, key) {
			if similarity.MorphConfidence > best {
				best = similarity.MorphConfidence
				bestKey = key
			}
		}

		// Orthographic score, with a small bonus for a matching first
		// letter. Only a score at or above the reveal threshold may select
		// the bucket; below it the number is still reported as confidence.
		score := similarity.Combined(guess, key)
		if keyFirst, _ := utf8.DecodeRuneInString(key); keyFirst == guessFirst {
			score = min(score+similarity.FirstLetterBonus, 1.0)
		}
		if score > best {
			best = score
			if score >= similarity.RevealThreshold {
				bestKey = key
			}
		}
	}

	if bestKey != "" {
		return found(guess, snap.Lookup(bestKey), min(best, 1.0))
	}
	return notFound(guess, best)
}

// HasWon reports whether the accepted guesses cover every word of the
// article title. A guess covers a title word through exact equality, a
// shared lemma, semantic similarity, or — when both sides are long enough
// and close enough in length — a combined similarity at the reveal
// threshold. An empty title is never won.
func HasWon(accepted []string, snap *index.Snapshot) bool {
	if len(snap.TitleWords) == 0 {
		return false
	}

	guesses := make([]string, 0, len(accepted))
	for _, g := range accepted {
		if n := norm.Word(strings.TrimSpace(g)); n != "" {
			guesses = append(guesses, n)
		}
	}

	for _, titleWord := range snap.TitleWords {
		if !covered(titleWord, guesses) {
			return false
		}
	}
	return true
}

func covered(titleWord string, guesses []string) bool {
	titleLen := utf8.RuneCountInString(titleWord)
	for _, g := range guesses {
		if g == titleWord {
			return true
		}
		if similarity.MorphologicalVariants(g, titleWord) {
			return true
		}
		if similarity.SemanticallySimilar(g, titleWord) {
			return true
		}
		gLen := utf8.RuneCountInString(g)
		if gLen < similarity.MinFuzzyLength || titleLen < similarity.MinFuzzyLength {
			continue
		}
		if gap := gLen - titleLen; gap > similarity.MaxLengthGap || -gap > similarity.MaxLengthGap {
			continue
		}
		if similarity.Combined(g, titleWord) >= similarity.RevealThreshold {
			return true
		}
	}
	return false
}
