// Package tool defines the capability interfaces the agents call (goal
// decomposition, search, extraction, summarization), the ToolError used to
// report capability failures, and fallback chains that substitute a
// deterministic implementation whenever a live backend fails.
//
// Live backends live in the sub packages (decompose, search, extract,
// summarize); each of them also ships the deterministic mock used as the
// fallback.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/edumesh/core"
)

// Capability names used in logs, metrics and ToolErrors.
const (
	CapabilityDecompose = "decompose"
	CapabilitySearch    = "search"
	CapabilityExtract   = "extract"
	CapabilitySummarize = "summarize"
)

// Error codes attached to ToolErrors.
const (
	CodeUnavailable = "unavailable"  // transport failure or non 2xx status
	CodeBadResponse = "bad_response" // response could not be decoded
	CodeEmpty       = "empty"        // backend answered without usable data
	CodeInvalid     = "invalid"      // input rejected before the call
)

// Decomposer splits a free-text learning goal into ordered topics.
type Decomposer interface {
	Decompose(ctx context.Context, goal string) ([]core.Topic, error)
}

// SearchQuery describes a resource lookup for a single topic.
type SearchQuery struct {
	Topic      string
	Type       core.ContentType
	MaxResults int
}

// SearchResult is a candidate resource returned by a Searcher.
type SearchResult struct {
	Title string           `json:"title"`
	Link  string           `json:"link"`
	Date  string           `json:"date"`
	Type  core.ContentType `json:"type"`
}

// Searcher finds candidate resources. It may return fewer results than
// requested, including none.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) ([]SearchResult, error)
}

// Extractor pulls the readable text behind a link.
type Extractor interface {
	Extract(ctx context.Context, link string) (string, error)
}

// Summarizer condenses extracted text into a short abstract.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// DecomposerFunc adapts a function to the Decomposer interface.
type DecomposerFunc func(ctx context.Context, goal string) ([]core.Topic, error)

// Decompose implements Decomposer.
func (f DecomposerFunc) Decompose(ctx context.Context, goal string) ([]core.Topic, error) {
	return f(ctx, goal)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, q SearchQuery) ([]SearchResult, error)

// Search implements Searcher.
func (f SearcherFunc) Search(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	return f(ctx, q)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, link string) (string, error)

// Extract implements Extractor.
func (f ExtractorFunc) Extract(ctx context.Context, link string) (string, error) { return f(ctx, link) }

// SummarizerFunc adapts a function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, text string) (string, error)

// Summarize implements Summarizer.
func (f SummarizerFunc) Summarize(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// ToolError represents errors that occur during capability execution.
type ToolError struct {
	Tool    string `json:"tool"`            // Name of the backend that failed
	Message string `json:"message"`         // Error message
	Code    string `json:"code"`            // Error code for categorization
	Err     error  `json:"-"`               // Underlying cause, if any
	Details any    `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// WrapToolError creates a ToolError carrying err as its cause.
func WrapToolError(tool, code string, err error) *ToolError {
	return &ToolError{Tool: tool, Message: err.Error(), Code: code, Err: err}
}
