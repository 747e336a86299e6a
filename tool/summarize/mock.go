// Package summarize condenses extracted resource text into short abstracts,
// through the Hugging Face inference API, a chat model, or a deterministic
// mock.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/edumesh/tool"
)

// Mock builds a summary from the first characters of the text.
type Mock struct{}

// NewMock returns the mock summarizer.
func NewMock() Mock { return Mock{} }

// Summarize implements tool.Summarizer.
func (Mock) Summarize(_ context.Context, text string) (string, error) {
	return MockSummary(text), nil
}

// MockSummary returns the placeholder summary for text.
func MockSummary(text string) string {
	head := strings.ReplaceAll(firstRunes(text, 50), "\n", " ")
	return fmt.Sprintf("Mock summary: This resource discusses the key principles of %s... and is highly recommended.", head)
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

var _ tool.Summarizer = Mock{}
