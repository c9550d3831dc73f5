// Package summary provides the boundary to the text-summarization model.
// Implementations are stateless and safe for concurrent use; one instance is
// constructed at startup and shared by every request handler.
package summary

import (
	"context"
	"time"
)

// Summarizer condenses free text.
type Summarizer interface {
	// Summarize produces a summary of req.Content bounded by req.MaxLen and
	// req.MinLen. It blocks for the full duration of the model call. Any
	// failure is returned as-is; callers must not persist anything on error.
	Summarize(ctx context.Context, req *Request) (*Response, error)
}

// Request is a summarization request.
type Request struct {
	Content string
	MaxLen  int // upper bound in words, default 200
	MinLen  int // lower bound in words, default 30
}

// Response is a summarization result.
type Response struct {
	Summary string
	Source  string // "llm" | "extract_first_para" | "extract_first_sentence" | "extract_truncate"
	Latency time.Duration
}
