package similarity

import "github.com/lexiguess/lexiguess/internal/norm"

// SemanticallySimilar reports whether two words are identical once
// normalized, or co-members of one of the synonym groups.
func SemanticallySimilar(a, b string) bool {
	na, nb := norm.Word(a), norm.Word(b)
	if na == nb {
		return true
	}
	for _, ga := range semanticGroupsOf[na] {
		for _, gb := range semanticGroupsOf[nb] {
			if ga == gb {
				return true
			}
		}
	}
	return false
}
