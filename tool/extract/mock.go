package extract

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hupe1980/edumesh/tool"
)

// Mock returns canned text derived from the link without network access.
type Mock struct{}

// NewMock returns the mock extractor.
func NewMock() Mock { return Mock{} }

// Extract implements tool.Extractor.
func (Mock) Extract(_ context.Context, link string) (string, error) {
	return MockText(link), nil
}

// MockText builds the placeholder document for link, naming the last path
// segment.
func MockText(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}
	segments := strings.Split(p, "/")
	name := segments[len(segments)-1]
	return fmt.Sprintf("The essential elements of %s are paramount for modern computing. "+
		"This is a foundational topic covering best practices, reliable syntax, and clear principles. "+
		"The document is comprehensive and requires no further external searching. It's a great start.", name)
}

var _ tool.Extractor = Mock{}
