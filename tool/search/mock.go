package search

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/hupe1980/edumesh/tool"
)

// Mock generates plausible placeholder resources on example.com. Results are
// a pure function of the query so runs are reproducible.
type Mock struct{}

// NewMock returns the mock searcher.
func NewMock() Mock { return Mock{} }

// Search implements tool.Searcher.
func (Mock) Search(_ context.Context, q tool.SearchQuery) ([]tool.SearchResult, error) {
	return MockResults(q), nil
}

// MockResults returns the deterministic placeholder results for q.
func MockResults(q tool.SearchQuery) []tool.SearchResult {
	n := maxResults(q)
	slug := strings.ToLower(strings.ReplaceAll(q.Topic, " ", "_"))
	out := make([]tool.SearchResult, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, tool.SearchResult{
			Title: fmt.Sprintf("The Ultimate Guide to %s Part %d", q.Topic, i),
			Link:  fmt.Sprintf("https://example.com/topic/%s_%d", slug, i),
			Date:  mockDate(q.Topic, i),
			Type:  q.Type,
		})
	}
	return out
}

// mockDate derives a date in 2022-2025 from the topic and index.
func mockDate(topic string, i int) string {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s#%d", topic, i)
	sum := h.Sum32()
	year := 2022 + sum%4
	month := 1 + (sum>>8)%9
	day := 10 + (sum>>16)%19
	return fmt.Sprintf("%d-%02d-%d", year, month, day)
}

var _ tool.Searcher = Mock{}
