package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Message roles understood by all providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversational turn.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request captures the normalized model input produced by capability tools.
type Request struct {
	Instructions string    `json:"instructions"` // System prompt
	Messages     []Message `json:"messages"`
	Stream       bool      `json:"stream,omitempty"`
	// MaxTokens overrides the adapter's completion budget when positive.
	MaxTokens int64 `json:"max_tokens,omitempty"`
	// JSONList asks for a reply that is a bare JSON array. Adapters steer
	// the model towards it as far as the provider allows; callers must still
	// validate the reply.
	JSONList bool `json:"json_list,omitempty"`
}

// NewUserRequest builds a single-turn request.
func NewUserRequest(instructions, prompt string) Request {
	return Request{Instructions: instructions, Messages: []Message{{Role: RoleUser, Text: prompt}}}
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a streaming model.
type Response struct {
	ID           string      `json:"id"`
	Partial      bool        `json:"partial"` // Indicates if this is a partial response
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// ErrEmptyResponse is returned by GenerateText when no final text was produced.
var ErrEmptyResponse = errors.New("model returned an empty response")

// GenerateText drives m to completion and returns the final text. Partial
// chunks are concatenated when no final chunk carries the full text.
func GenerateText(ctx context.Context, m Model, req Request) (string, *TokenUsage, error) {
	respCh, errCh := m.Generate(ctx, req)

	var (
		partial strings.Builder
		final   string
		usage   *TokenUsage
	)
	for resp := range respCh {
		if resp.Usage != nil {
			usage = resp.Usage
		}
		if resp.Partial {
			partial.WriteString(resp.Text)
			continue
		}
		final = resp.Text
	}
	if err := <-errCh; err != nil {
		return "", usage, err
	}
	if final == "" {
		final = partial.String()
	}
	if strings.TrimSpace(final) == "" {
		return "", usage, ErrEmptyResponse
	}
	return final, usage, nil
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	mu        sync.Mutex
	responses map[string]string
	err       error
	calls     []Request
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// SetError makes every subsequent Generate call fail with err.
func (m *MockModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the requests received so far.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Generate implements Model; emits optional streaming char chunks then final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.calls = append(m.calls, req)
	failure := m.err
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)
		if failure != nil {
			errCh <- failure
			return
		}
		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}
		inputText := req.Messages[len(req.Messages)-1].Text

		m.mu.Lock()
		full := m.responses[inputText]
		m.mu.Unlock()
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", inputText)
		}
		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
			}
			respCh <- Response{Partial: false, FinishReason: "stop"}
			return
		}
		respCh <- Response{Partial: false, Text: full, FinishReason: "stop"}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
