package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/echomind/echomind_server/config"
)

func TestWordOverlap_IdenticalAfterNormalization(t *testing.T) {
	p := WordOverlapPolicy{Threshold: 0.8}

	score := p.Score("The weather is nice.", "the weather is nice")
	assert.Equal(t, 1.0, score)
	assert.True(t, p.Correct(score))
}

func TestWordOverlap_ThresholdBoundary(t *testing.T) {
	p := WordOverlapPolicy{Threshold: 0.8}

	// 5 个目标词命中 4 个，正好 0.8，含边界
	score := p.Score("one two three four five", "one two three four six")
	assert.InDelta(t, 0.8, score, 1e-9)
	assert.True(t, p.Correct(score))

	// 5 个命中 3 个，0.6，不通过
	score = p.Score("one two three four five", "one two three")
	assert.InDelta(t, 0.6, score, 1e-9)
	assert.False(t, p.Correct(score))
}

func TestWordOverlap_EmptyTarget(t *testing.T) {
	p := WordOverlapPolicy{Threshold: 0.8}
	assert.Equal(t, 0.0, p.Score("", "anything"))
	assert.Equal(t, 0.0, p.Score("...", "anything"))
}

func TestWordOverlap_PunctuationStripped(t *testing.T) {
	p := WordOverlapPolicy{Threshold: 0.8}
	score := p.Score("Hello, world!", "hello world")
	assert.Equal(t, 1.0, score)
}

func TestWordOverlap_OrderIndependent(t *testing.T) {
	p := WordOverlapPolicy{Threshold: 0.8}
	score := p.Score("quick brown fox", "fox brown quick")
	assert.Equal(t, 1.0, score)
}

func TestLevenshtein_Identity(t *testing.T) {
	p := LevenshteinPolicy{Threshold: 85}

	assert.Equal(t, 1.0, p.Similarity("perseverance", "perseverance"))
	assert.Equal(t, 1.0, p.Similarity("", ""))
}

func TestLevenshtein_Symmetry(t *testing.T) {
	p := LevenshteinPolicy{Threshold: 85}

	cases := [][2]string{
		{"perseverance", "persistence"},
		{"hello", "help"},
		{"a", "abc"},
		{"", "word"},
	}
	for _, c := range cases {
		assert.Equal(t, p.Similarity(c[0], c[1]), p.Similarity(c[1], c[0]),
			"similarity(%q, %q) should be symmetric", c[0], c[1])
	}
}

func TestLevenshtein_EmptyCases(t *testing.T) {
	p := LevenshteinPolicy{Threshold: 85}

	assert.Equal(t, 0.0, p.Similarity("", "word"))
	assert.Equal(t, 0.0, p.Similarity("word", ""))
}

func TestLevenshtein_CaseInsensitive(t *testing.T) {
	p := LevenshteinPolicy{Threshold: 85}
	assert.Equal(t, 100, p.Score("Hello", "hello"))
}

func TestLevenshtein_NeedsCorrection(t *testing.T) {
	p := LevenshteinPolicy{Threshold: 85}

	assert.True(t, p.NeedsCorrection(84))
	assert.False(t, p.NeedsCorrection(85))
	assert.False(t, p.NeedsCorrection(100))
}

func TestFeedbackFor_Brackets(t *testing.T) {
	levels := config.DefaultFeedback()

	assert.Contains(t, FeedbackFor(100, levels), "Perfect")
	assert.Contains(t, FeedbackFor(95, levels), "Perfect")
	assert.Contains(t, FeedbackFor(90, levels), "Great")
	assert.Contains(t, FeedbackFor(70, levels), "Good effort")
	assert.Contains(t, FeedbackFor(50, levels), "Keep practicing")
	assert.Contains(t, FeedbackFor(10, levels), "slowly")
}
