package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		maxTerms int
		want     []string
	}{
		{
			name:     "parking permit question",
			query:    "How much is a parking permit?",
			maxTerms: 6,
			want:     []string{"parking", "permit"},
		},
		{
			name:     "lowercases and dedups preserving first occurrence",
			query:    "Parking PARKING fees parking Fees",
			maxTerms: 6,
			want:     []string{"parking", "fees"},
		},
		{
			name:     "drops stopwords and short tokens",
			query:    "is it ok to go in?",
			maxTerms: 6,
			want:     nil,
		},
		{
			name:     "empty query",
			query:    "",
			maxTerms: 6,
			want:     nil,
		},
		{
			name:     "whitespace only",
			query:    "   \t\n  ",
			maxTerms: 6,
			want:     nil,
		},
		{
			name:     "punctuation splits tokens",
			query:    "tuition-fees: spring/fall 2024!",
			maxTerms: 6,
			want:     []string{"tuition", "fees", "spring", "fall", "2024"},
		},
		{
			name:     "truncates to max terms",
			query:    "alpha bravo charlie delta echo foxtrot golf hotel",
			maxTerms: 6,
			want:     []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"},
		},
		{
			name:     "non-positive max falls back to default",
			query:    "alpha bravo charlie delta echo foxtrot golf hotel",
			maxTerms: 0,
			want:     []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"},
		},
		{
			name:     "non-ascii runes act as separators",
			query:    "café tarifs campus",
			maxTerms: 6,
			want:     []string{"caf", "tarifs", "campus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.query, tt.maxTerms)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractKeywords_NeverExceedsMax(t *testing.T) {
	query := "registration enrollment tuition housing dining parking library athletics bookstore advising"
	for max := 1; max <= 8; max++ {
		got := ExtractKeywords(query, max)
		assert.LessOrEqual(t, len(got), max)
	}
}

func TestExtractKeywords_PairwiseDistinct(t *testing.T) {
	got := ExtractKeywords("permit permit parking permit parking fees fees", 6)
	seen := make(map[string]bool)
	for _, term := range got {
		assert.False(t, seen[term], "term %q returned twice", term)
		seen[term] = true
	}
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("much"))
	assert.False(t, IsStopword("parking"))
}
