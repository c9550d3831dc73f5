package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/briefd/briefd/ai/llm"
)

// llmSummarizer produces summaries through the LLM boundary. Model failures
// propagate to the caller unchanged; there is no retry and no silent
// degradation, so a failed call never results in a persisted exchange.
type llmSummarizer struct {
	llm llm.Service
}

// NewLLMSummarizer creates a summarizer backed by the given LLM service.
func NewLLMSummarizer(llmSvc llm.Service) Summarizer {
	return &llmSummarizer{llm: llmSvc}
}

func (s *llmSummarizer) Summarize(ctx context.Context, req *Request) (*Response, error) {
	maxLen, minLen := boundsOrDefault(req)

	userPrompt := fmt.Sprintf(`Summarize the following text in %d to %d words:

%s

Respond with JSON only: {"summary": "the summary"}`, minLen, maxLen, req.Content)

	messages := []llm.Message{
		llm.SystemPrompt(summarySystemPrompt),
		llm.UserMessage(userPrompt),
	}

	content, stats, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return nil, errors.Wrap(err, "summarization failed")
	}

	return &Response{
		Summary: parseSummary(content),
		Source:  "llm",
		Latency: time.Duration(stats.TotalDurationMs) * time.Millisecond,
	}, nil
}

func boundsOrDefault(req *Request) (maxLen, minLen int) {
	maxLen = req.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	minLen = req.MinLen
	if minLen <= 0 {
		minLen = 30
	}
	if minLen > maxLen {
		minLen = maxLen
	}
	return maxLen, minLen
}

func parseSummary(content string) string {
	// Strip markdown code block wrapper if present
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(content), &result); err == nil && result.Summary != "" {
		return strings.TrimSpace(result.Summary)
	}

	if idx := strings.Index(content, `"summary"`); idx >= 0 {
		start := strings.Index(content[idx:], ":") + idx + 1
		end := strings.Index(content[start:], "}")
		if end > 0 {
			return strings.Trim(content[start:start+end], `" `)
		}
	}

	return strings.TrimSpace(content)
}

const summarySystemPrompt = `You are a text summarization assistant. Given a source text, produce one condensed summary.

Rules:
1. Keep the summary within the requested word bounds
2. Preserve the core claims and key facts of the source
3. Write in the same language as the source
4. Do not add opinions or facts absent from the source
5. Do not prefix the output with "Summary:" or similar
6. Respond with JSON: {"summary": "the summary"}`
