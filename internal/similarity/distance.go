// Package similarity is the pure string-metric library behind guess matching:
// edit distances, n-gram overlap, a combined score, French lemma heuristics
// and a small synonym table. Everything operates on normalized words and
// returns plain values; no state, no I/O.
package similarity

import "strings"

// DamerauLevenshtein returns the minimum number of single-character inserts,
// deletes, substitutions and adjacent transpositions turning a into b. The
// table carries a sentinel border (row/column of maxdist) so the
// transposition lookup can never underflow.
func DamerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	maxdist := la + lb
	// h is indexed with a +1 offset: h[0][*] and h[*][0] are the sentinel.
	h := make([][]int, la+2)
	for i := range h {
		h[i] = make([]int, lb+2)
	}
	h[0][0] = maxdist
	for i := 0; i <= la; i++ {
		h[i+1][0] = maxdist
		h[i+1][1] = i
	}
	for j := 0; j <= lb; j++ {
		h[0][j+1] = maxdist
		h[1][j+1] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d := min(
				h[i][j+1]+1,    // deletion
				h[i+1][j]+1,    // insertion
				h[i][j]+cost,   // substitution
			)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d = min(d, h[i-1][j-1]+cost) // transposition
			}
			h[i+1][j+1] = d
		}
	}
	return h[la+1][lb+1]
}

// WeightedDistance is the same recurrence with graded substitution costs:
// 0.5 inside a phonetic group, 0.7 for keyboard neighbors, 1.0 otherwise.
// Insertions and deletions stay at 1.
func WeightedDistance(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return float64(lb)
	}
	if lb == 0 {
		return float64(la)
	}

	d := make([][]float64, la+1)
	for i := range d {
		d[i] = make([]float64, lb+1)
	}
	for i := 0; i <= la; i++ {
		d[i][0] = float64(i)
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = float64(j)
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				d[i][j] = d[i-1][j-1]
				continue
			}
			d[i][j] = min(
				d[i-1][j]+1, // deletion
				d[i][j-1]+1, // insertion
				d[i-1][j-1]+substitutionCost(ra[i-1], rb[j-1]),
			)
		}
	}
	return d[la][lb]
}

func substitutionCost(a, b rune) float64 {
	if ga, ok := phoneticGroupOf[a]; ok {
		if gb, ok := phoneticGroupOf[b]; ok && ga == gb {
			return phoneticCost
		}
	}
	if strings.ContainsRune(keyboardNeighbors[a], b) {
		return keyboardCost
	}
	return defaultCost
}

// Ngram returns the Jaccard similarity of the n-character substring sets of
// a and b, each padded with n-1 sentinel characters on both ends. The
// empty/empty pair is 1 by definition, one empty side is 0.
func Ngram(a, b string, n int) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	setA := ngramSet(a, n)
	setB := ngramSet(b, n)

	intersection := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func ngramSet(s string, n int) map[string]struct{} {
	pad := strings.Repeat("_", n-1)
	runes := []rune(pad + s + pad)
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

// Combined blends the three metrics into one [0,1] score: edit distance
// similarity at 0.40, weighted distance similarity at 0.35, bigram overlap
// at 0.25. Both strings empty scores 1.
func Combined(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1
	}

	editSim := 1 - float64(DamerauLevenshtein(a, b))/float64(maxLen)
	weightedSim := 1 - WeightedDistance(a, b)/float64(maxLen)
	ngramSim := Ngram(a, b, DefaultNgramSize)

	return editSim*editWeight + weightedSim*weightedWeight + ngramSim*ngramWeight
}
