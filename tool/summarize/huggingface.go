package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/edumesh/tool"
)

// HuggingFace defaults.
const (
	HuggingFaceBaseURL = "https://api-inference.huggingface.co/models/"
	HuggingFaceModel   = "facebook/bart-large-cnn"
)

// MinTextLength is the shortest input sent to a summarization backend.
const MinTextLength = 50

// ShortTextSummary is returned for inputs below MinTextLength.
const ShortTextSummary = "Content too short to summarize; using original text start."

// HuggingFaceOptions configure the Hugging Face summarizer.
type HuggingFaceOptions struct {
	BaseURL    string
	Model      string
	MaxLength  int
	MinLength  int
	HTTPClient *http.Client
}

// HuggingFace summarizes through the Hugging Face inference API.
type HuggingFace struct {
	apiKey string
	opts   HuggingFaceOptions
}

// NewHuggingFace creates a summarizer for the given token.
func NewHuggingFace(apiKey string, optFns ...func(o *HuggingFaceOptions)) *HuggingFace {
	opts := HuggingFaceOptions{
		BaseURL:   HuggingFaceBaseURL,
		Model:     HuggingFaceModel,
		MaxLength: 80,
		MinLength: 20,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HuggingFace{apiKey: apiKey, opts: opts}
}

// Summarize implements tool.Summarizer.
func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	const backend = "huggingface"
	if h.apiKey == "" {
		return "", tool.NewToolError(backend, "api key missing", tool.CodeInvalid)
	}
	if utf8.RuneCountInString(text) < MinTextLength {
		return ShortTextSummary, nil
	}

	payload, err := json.Marshal(map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"max_length": h.opts.MaxLength,
			"min_length": h.opts.MinLength,
		},
		"options": map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return "", tool.WrapToolError(backend, tool.CodeInvalid, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.opts.BaseURL+h.opts.Model, bytes.NewReader(payload))
	if err != nil {
		return "", tool.WrapToolError(backend, tool.CodeInvalid, err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.opts.HTTPClient.Do(req)
	if err != nil {
		return "", tool.WrapToolError(backend, tool.CodeUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", tool.WrapToolError(backend, tool.CodeUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", tool.NewToolError(backend, fmt.Sprintf("status %d: %s", resp.StatusCode, gjson.GetBytes(body, "error").String()), tool.CodeUnavailable)
	}
	if !gjson.ValidBytes(body) {
		return "", tool.NewToolError(backend, "invalid JSON response", tool.CodeBadResponse)
	}

	summary := strings.TrimSpace(gjson.GetBytes(body, "0.summary_text").String())
	if summary == "" {
		return "", tool.NewToolError(backend, "response carries no summary_text", tool.CodeEmpty)
	}
	return summary, nil
}

var _ tool.Summarizer = (*HuggingFace)(nil)
