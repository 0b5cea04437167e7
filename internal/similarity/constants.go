package similarity

// Matching thresholds. The guess matcher and the win verifier both read these
// constants; they must never carry private copies, otherwise the two paths
// drift and a "won" game can disagree with the guesses that got there.
const (
	// MinFuzzyLength is the minimum normalized length for a word to take
	// part in fuzzy matching, on either side of the comparison.
	MinFuzzyLength = 4

	// MaxLengthGap is the maximum length difference between a guess and an
	// indexed word for the pair to be scored at all.
	MaxLengthGap = 3

	// RevealThreshold is the minimum combined orthographic score that lets a
	// fuzzy candidate actually reveal its occurrences.
	RevealThreshold = 0.8

	// MorphConfidence is the fixed confidence reported for matches reached
	// through a shared lemma rather than identical spelling.
	MorphConfidence = 0.9

	// SemanticConfidence is the score of a synonym-table hit.
	SemanticConfidence = 1.0

	// ExactConfidence is the score of an exact reverse-index hit.
	ExactConfidence = 1.0

	// FirstLetterBonus is added to the combined score when guess and
	// candidate start with the same letter, capped at 1.0.
	FirstLetterBonus = 0.05

	// DefaultNgramSize is the n-gram width used by the combined score.
	DefaultNgramSize = 2
)

// Combined-score weights. Damerau-Levenshtein handles typos and swapped
// letters, the weighted distance handles phonetic and fat-finger errors,
// n-grams handle partial overlap.
const (
	editWeight     = 0.40
	weightedWeight = 0.35
	ngramWeight    = 0.25
)

// Substitution costs for the weighted distance.
const (
	phoneticCost = 0.5
	keyboardCost = 0.7
	defaultCost  = 1.0
)
