package search

import "strings"

// FuzzyScore implements the §4.5 fuzzy-mode similarity: n-gram coverage of
// needle against haystack using windows of length 3 and of length 2 (needle
// shorter than 7) or 5 (needle 7 or longer), scored by
//
//	100 · (Σ window matches · window length) / (Σ total windows · window length)
//
// grounded on original_source/src/common.c's fuzzy()/NGramMatch.
func FuzzyScore(haystack, needle string) float64 {
	n2 := 2
	if len(needle) >= 7 {
		n2 = 5
	}

	match1, total1 := ngramMatch(haystack, needle, 3)
	match2, total2 := ngramMatch(haystack, needle, n2)

	totalWeight := total1 + total2
	if totalWeight == 0 {
		return 0
	}
	return 100.0 * float64(match1+match2) / float64(totalWeight)
}

// ngramMatch slides a window of length n across needle, counting how many
// windows occur anywhere in haystack. Returns (matched-weight, total-
// weight), both already multiplied by n per the original's scoring.
func ngramMatch(haystack, needle string, n int) (matchWeight, totalWeight int) {
	if n <= 0 || n >= 8 {
		return 0, 0
	}
	if len(needle) < n {
		return 0, 0
	}

	windows := len(needle) - n + 1
	count := 0
	for i := 0; i < windows; i++ {
		gram := needle[i : i+n]
		totalWeight += n
		if strings.Contains(haystack, gram) {
			count++
		}
	}
	matchWeight = count * n
	return matchWeight, totalWeight
}
