// internal/resolve/similarity.go
package resolve

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity scores how closely a candidate's text matches the search string,
// in [0,1]. The rules are ordered; the first one that applies wins:
//
//  1. exact match after normalization          -> 1.0
//  2. target contains search as a substring    -> 0.9
//  3. token overlap, weighted by 0.7
//  4. character-level edit distance, weighted by 0.6
//  5. the larger of 3 and 4
func Similarity(search, target string) float64 {
	search = normalize(search)
	target = normalize(target)

	if search == "" || target == "" {
		if search == target {
			return 1.0
		}
		return 0.0
	}
	if search == target {
		return 1.0
	}
	if strings.Contains(target, search) {
		return 0.9
	}

	tokenScore := tokenOverlap(search, target) * 0.7
	charScore := characterSimilarity(search, target) * 0.6
	if tokenScore > charScore {
		return tokenScore
	}
	return charScore
}

// PartialConfidence is the positional variant several strategies use for
// substring matches: an exact match outranks a prefix, a prefix outranks a
// suffix, a suffix outranks an interior hit. Anything else falls back to
// character-level similarity.
func PartialConfidence(search, target string) float64 {
	search = normalize(search)
	target = normalize(target)

	switch {
	case search == "" || target == "":
		if search == target {
			return 1.0
		}
		return 0.0
	case target == search:
		return 1.0
	case strings.HasPrefix(target, search):
		return 0.9
	case strings.HasSuffix(target, search):
		return 0.8
	case strings.Contains(target, search):
		return 0.7
	}
	return characterSimilarity(search, target)
}

// tokenOverlap returns the fraction of the search's whitespace-split tokens
// that occur as substrings of any target token.
func tokenOverlap(search, target string) float64 {
	searchTokens := strings.Fields(search)
	if len(searchTokens) == 0 {
		return 0.0
	}
	targetTokens := strings.Fields(target)

	matched := 0
	for _, st := range searchTokens {
		for _, tt := range targetTokens {
			if strings.Contains(tt, st) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(searchTokens))
}

// characterSimilarity maps edit distance into [0,1]:
// 1 - distance / max(len(a), len(b)).
func characterSimilarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(a, b))/float64(longest)
}

// editDistance is the classic insert/delete/substitute Levenshtein distance,
// O(n*m) via the library's iterative dynamic program. Callers bound the
// candidate set, not the string lengths.
func editDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}
