// Package search implements resource search backends: Google Custom Search,
// Brave, Serper and a deterministic mock used as the fallback.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/hupe1980/edumesh/tool"
)

// DefaultMaxResults is used when a query does not set MaxResults.
const DefaultMaxResults = 3

// Options shared by the HTTP backed searchers.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func newOptions(baseURL string, optFns []func(o *Options)) Options {
	opts := Options{BaseURL: baseURL, Timeout: 10 * time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return opts
}

// QueryText builds the free-text query sent to web search backends.
func QueryText(q tool.SearchQuery) string {
	return fmt.Sprintf("best free %s tutorial %s learning", q.Type, q.Topic)
}

func maxResults(q tool.SearchQuery) int {
	if q.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return q.MaxResults
}

// do executes req and returns the body of a 2xx response.
func do(client *http.Client, backend string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, tool.WrapToolError(backend, tool.CodeUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, tool.WrapToolError(backend, tool.CodeUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, tool.NewToolError(backend, fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(body), 200)), tool.CodeUnavailable)
	}
	return body, nil
}

func newRequest(ctx context.Context, backend, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, tool.WrapToolError(backend, tool.CodeInvalid, err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// NormalizeDate converts the many date spellings of search backends
// ("Mar 5, 2023", "2023-03-05T10:00:00Z", "2 days ago") into YYYY-MM-DD.
// Values that cannot be parsed become "N/A".
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "N/A"
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
