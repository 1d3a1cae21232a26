package errz

import (
	"sort"
	"strings"
)

// MaxSuggestions is the maximum number of names SuggestSimilar returns.
const MaxSuggestions = 3

// Suggestion is a candidate name and its edit distance from the target.
type Suggestion struct {
	Value    string
	Distance int
}

// SuggestSimilar returns the candidates closest to target, ignoring case.
// Short names tolerate fewer edits than long ones.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" {
		return nil
	}
	target = strings.ToLower(target)
	threshold := 3
	switch {
	case len(target) <= 3:
		threshold = 1
	case len(target) <= 5:
		threshold = 2
	}

	var suggestions []Suggestion
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if candidate == "" || lower == target {
			continue
		}
		if dist := editDistance(target, lower); dist <= threshold {
			suggestions = append(suggestions, Suggestion{Value: candidate, Distance: dist})
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Distance != suggestions[j].Distance {
			return suggestions[i].Distance < suggestions[j].Distance
		}
		return suggestions[i].Value < suggestions[j].Value
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// FormatSuggestions renders suggestions as a hint, or "" if there are none.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean " + quote(suggestions[0].Value) + "?"
	}
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = quote(s.Value)
	}
	return "did you mean one of " + strings.Join(names, ", ") + "?"
}

func quote(s string) string {
	return `"` + s + `"`
}

// editDistance is the Levenshtein distance between two ASCII strings,
// computed with two rows.
func editDistance(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}
