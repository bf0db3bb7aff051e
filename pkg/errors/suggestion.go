package errors

import "fmt"

// SuggestKeyword returns a "Did you mean" hint when unknown is within
// maxDistance edits of one of the candidates, or "" otherwise.
func SuggestKeyword(unknown string, candidates []string, maxDistance int) string {
	best := ""
	bestDistance := maxDistance + 1

	for _, c := range candidates {
		if d := levenshteinDistance(unknown, c); d < bestDistance {
			bestDistance = d
			best = c
		}
	}

	if best == "" {
		return ""
	}
	return fmt.Sprintf("Did you mean '%s'?", best)
}

func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	r1, r2 := []rune(s1), []rune(s2)
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
