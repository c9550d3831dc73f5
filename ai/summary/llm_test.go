package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefd/briefd/ai/llm"
)

type mockLLM struct {
	content      string
	err          error
	lastMessages []llm.Message
}

func (m *mockLLM) Chat(_ context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	m.lastMessages = messages
	if m.err != nil {
		return "", nil, m.err
	}
	return m.content, &llm.CallStats{TotalDurationMs: 5}, nil
}

func (m *mockLLM) Warmup(_ context.Context) {}

func TestLLMSummarizer_Success(t *testing.T) {
	mock := &mockLLM{content: `{"summary": "Short summary."}`}
	s := NewLLMSummarizer(mock)

	resp, err := s.Summarize(context.Background(), &Request{
		Content: "Long article text...",
		MaxLen:  200,
		MinLen:  30,
	})
	require.NoError(t, err)
	assert.Equal(t, "Short summary.", resp.Summary)
	assert.Equal(t, "llm", resp.Source)
}

// The configured bounds must be forwarded verbatim into the instruction.
func TestLLMSummarizer_ForwardsBounds(t *testing.T) {
	mock := &mockLLM{content: `{"summary": "ok"}`}
	s := NewLLMSummarizer(mock)

	_, err := s.Summarize(context.Background(), &Request{Content: "text", MaxLen: 120, MinLen: 40})
	require.NoError(t, err)

	require.Len(t, mock.lastMessages, 2)
	userPrompt := mock.lastMessages[1].Content
	assert.Contains(t, userPrompt, "40 to 120 words")
	assert.Contains(t, userPrompt, "text")
}

func TestLLMSummarizer_DefaultBounds(t *testing.T) {
	mock := &mockLLM{content: `{"summary": "ok"}`}
	s := NewLLMSummarizer(mock)

	_, err := s.Summarize(context.Background(), &Request{Content: "text"})
	require.NoError(t, err)
	assert.Contains(t, mock.lastMessages[1].Content, "30 to 200 words")
}

// Empty input is not rejected at this layer; it is passed through to the
// model like any other text.
func TestLLMSummarizer_EmptyContentPassesThrough(t *testing.T) {
	mock := &mockLLM{content: `{"summary": "Nothing of substance."}`}
	s := NewLLMSummarizer(mock)

	resp, err := s.Summarize(context.Background(), &Request{Content: ""})
	require.NoError(t, err)
	assert.Equal(t, "Nothing of substance.", resp.Summary)
	require.Len(t, mock.lastMessages, 2)
}

// A model failure propagates; there is no retry and no fallback content.
func TestLLMSummarizer_ErrorPropagates(t *testing.T) {
	mock := &mockLLM{err: errors.New("model unavailable")}
	s := NewLLMSummarizer(mock)

	resp, err := s.Summarize(context.Background(), &Request{Content: "text"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestParseSummary(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"plain json", `{"summary": "A summary."}`, "A summary."},
		{"fenced json", "```json\n{\"summary\": \"Fenced.\"}\n```", "Fenced."},
		{"bare fence", "```\n{\"summary\": \"Bare.\"}\n```", "Bare."},
		{"raw text fallback", "Just a raw sentence.", "Just a raw sentence."},
		{"whitespace", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSummary(tt.content))
		})
	}
}

func TestBoundsOrDefault_MinCappedToMax(t *testing.T) {
	maxLen, minLen := boundsOrDefault(&Request{MaxLen: 20, MinLen: 50})
	assert.Equal(t, 20, maxLen)
	assert.Equal(t, 20, minLen)
}
