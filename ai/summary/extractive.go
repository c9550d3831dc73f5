package summary

import (
	"context"
	"strings"
	"time"
)

// extractiveSummarizer is used when no LLM API key is configured. It extracts
// rather than generates: first paragraph, then first sentence, then a
// word-safe truncation as the floor.
type extractiveSummarizer struct{}

// NewExtractiveSummarizer creates a summarizer that needs no external model.
func NewExtractiveSummarizer() Summarizer {
	return &extractiveSummarizer{}
}

func (s *extractiveSummarizer) Summarize(_ context.Context, req *Request) (*Response, error) {
	maxLen, _ := boundsOrDefault(req)
	start := time.Now()

	// Level 1: first paragraph
	if firstPara := extractFirstParagraph(req.Content); firstPara != "" {
		if wordCount(firstPara) <= maxLen {
			return &Response{
				Summary: firstPara,
				Source:  "extract_first_para",
				Latency: time.Since(start),
			}, nil
		}

		// Level 2: first sentence
		if firstSentence := extractFirstSentence(firstPara); firstSentence != "" && wordCount(firstSentence) <= maxLen {
			return &Response{
				Summary: firstSentence,
				Source:  "extract_first_sentence",
				Latency: time.Since(start),
			}, nil
		}
	}

	// Level 3: word-safe truncation
	return &Response{
		Summary: truncateWords(req.Content, maxLen),
		Source:  "extract_truncate",
		Latency: time.Since(start),
	}, nil
}

// extractFirstParagraph returns the first non-blank line.
func extractFirstParagraph(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// extractFirstSentence returns the text up to and including the first
// sentence-ending punctuation mark.
func extractFirstSentence(line string) string {
	for i, r := range line {
		switch r {
		case '.', '!', '?', '。', '！', '？':
			return line[:i+len(string(r))]
		}
	}
	return line
}

// truncateWords keeps at most maxLen whitespace-separated words.
func truncateWords(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= maxLen {
		return strings.TrimSpace(s)
	}
	return strings.Join(words[:maxLen], " ")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
