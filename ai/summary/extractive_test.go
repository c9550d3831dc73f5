package summary

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractiveSummarizer_FirstParagraph(t *testing.T) {
	s := NewExtractiveSummarizer()

	resp, err := s.Summarize(context.Background(), &Request{
		Content: "First paragraph here.\n\nSecond paragraph that should be dropped.",
		MaxLen:  200,
	})
	require.NoError(t, err)
	assert.Equal(t, "First paragraph here.", resp.Summary)
	assert.Equal(t, "extract_first_para", resp.Source)
}

func TestExtractiveSummarizer_FirstSentence(t *testing.T) {
	s := NewExtractiveSummarizer()

	longTail := strings.Repeat("word ", 30)
	resp, err := s.Summarize(context.Background(), &Request{
		Content: "A short opening sentence. " + longTail,
		MaxLen:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, "A short opening sentence.", resp.Summary)
	assert.Equal(t, "extract_first_sentence", resp.Source)
}

func TestExtractiveSummarizer_Truncate(t *testing.T) {
	s := NewExtractiveSummarizer()

	// One long sentence with no early break, forcing the word-safe floor.
	content := strings.TrimSpace(strings.Repeat("alpha ", 40))
	resp, err := s.Summarize(context.Background(), &Request{
		Content: content,
		MaxLen:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, "alpha alpha alpha alpha alpha", resp.Summary)
	assert.Equal(t, "extract_truncate", resp.Source)
}

func TestExtractiveSummarizer_EmptyContent(t *testing.T) {
	s := NewExtractiveSummarizer()

	resp, err := s.Summarize(context.Background(), &Request{Content: ""})
	require.NoError(t, err)
	assert.Empty(t, resp.Summary)
}

func TestExtractFirstSentence(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{"period", "One. Two.", "One."},
		{"question", "Really? Yes.", "Really?"},
		{"cjk full stop", "第一句。第二句。", "第一句。"},
		{"no terminator", "no punctuation at all", "no punctuation at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractFirstSentence(tt.line))
		})
	}
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "a b c", truncateWords("a b c d e", 3))
	assert.Equal(t, "a b", truncateWords("a b", 5))
	assert.Equal(t, "untouched", truncateWords("untouched", 0))
}
