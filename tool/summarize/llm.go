package summarize

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/edumesh/internal/prompt"
	"github.com/hupe1980/edumesh/model"
	"github.com/hupe1980/edumesh/tool"
)

// maxSummaryTokens bounds the completion of a summary request.
const maxSummaryTokens = 256

// LLM summarizes with a chat model.
type LLM struct {
	model     model.Model
	sentences int
}

// NewLLM creates a summarizer asking m for at most sentences sentences.
func NewLLM(m model.Model, sentences int) *LLM {
	if sentences <= 0 {
		sentences = 2
	}
	return &LLM{model: m, sentences: sentences}
}

// Summarize implements tool.Summarizer.
func (s *LLM) Summarize(ctx context.Context, text string) (string, error) {
	name := "llm:" + s.model.Info().Name
	if utf8.RuneCountInString(text) < MinTextLength {
		return ShortTextSummary, nil
	}

	userPrompt, err := prompt.Render(prompt.Summarize, map[string]any{"text": text, "sentences": s.sentences})
	if err != nil {
		return "", tool.WrapToolError(name, tool.CodeInvalid, err)
	}
	req := model.NewUserRequest(prompt.WorkerSystem, userPrompt)
	req.MaxTokens = maxSummaryTokens
	out, _, err := model.GenerateText(ctx, s.model, req)
	if err != nil {
		return "", tool.WrapToolError(name, tool.CodeUnavailable, err)
	}
	return strings.TrimSpace(out), nil
}

var _ tool.Summarizer = (*LLM)(nil)
