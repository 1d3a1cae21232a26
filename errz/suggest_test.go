package errz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"count", "count", 0},
		{"count", "cont", 1},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, editDistance(tt.a, tt.b), "%q/%q", tt.a, tt.b)
		require.Equal(t, tt.want, editDistance(tt.b, tt.a), "%q/%q", tt.b, tt.a)
	}
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"count", "counter", "total", "x", "Amount"}

	got := SuggestSimilar("cnt", candidates)
	require.Nil(t, got)

	got = SuggestSimilar("coutn", candidates)
	require.Equal(t, []Suggestion{{Value: "count", Distance: 2}}, got)

	// An exact match ignoring case is never suggested
	got = SuggestSimilar("amount", candidates)
	require.Equal(t, []Suggestion{{Value: "count", Distance: 2}}, got)

	got = SuggestSimilar("countr", candidates)
	require.Equal(t, []Suggestion{
		{Value: "count", Distance: 1},
		{Value: "counter", Distance: 1},
		{Value: "Amount", Distance: 3},
	}, got)

	require.Nil(t, SuggestSimilar("", candidates))
	require.Nil(t, SuggestSimilar("y", nil))
}

func TestSuggestSimilarLimit(t *testing.T) {
	got := SuggestSimilar("ab", []string{"aa", "ac", "ad", "ae", "bb"})
	require.Len(t, got, MaxSuggestions)
	require.Equal(t, "aa", got[0].Value)
}

func TestFormatSuggestions(t *testing.T) {
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, `did you mean "count"?`, FormatSuggestions([]Suggestion{{Value: "count"}}))
	require.Equal(t, `did you mean one of "a", "b"?`,
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}
