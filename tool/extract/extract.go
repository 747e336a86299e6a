// Package extract pulls the readable text behind a resource link. Pages are
// fetched over plain HTTP or through a headless Chrome (for script rendered
// pages) and cleaned with go-readability.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"

	"github.com/hupe1980/edumesh/tool"
)

// DefaultMaxChars caps the extracted text handed to summarizers.
const DefaultMaxChars = 8000

// MockDomain marks placeholder links produced by the mock searcher. They are
// never fetched.
const MockDomain = "example.com"

// Fetcher loads the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (string, error)
}

// Options configure the Readability extractor.
type Options struct {
	Fetcher  Fetcher
	MaxChars int
}

// Readability fetches a page and keeps its main article text.
type Readability struct {
	opts Options
}

// NewReadability creates an extractor. Without a Fetcher an HTTPFetcher is
// used.
func NewReadability(optFns ...func(o *Options)) *Readability {
	opts := Options{MaxChars: DefaultMaxChars}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewHTTPFetcher()
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	return &Readability{opts: opts}
}

// Extract implements tool.Extractor.
func (r *Readability) Extract(ctx context.Context, link string) (string, error) {
	const backend = "readability"
	link = strings.TrimSpace(link)
	if link == "" {
		return "", tool.NewToolError(backend, "empty link", tool.CodeInvalid)
	}
	if strings.Contains(link, MockDomain) {
		return MockText(link), nil
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", tool.WrapToolError(backend, tool.CodeInvalid, err)
	}

	html, err := r.opts.Fetcher.Fetch(ctx, pageURL.String())
	if err != nil {
		return "", tool.WrapToolError(backend, tool.CodeUnavailable, err)
	}

	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return "", tool.WrapToolError(backend, tool.CodeBadResponse, err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if text == "" {
		return "", tool.NewToolError(backend, "no readable text in "+link, tool.CodeEmpty)
	}
	return Truncate(text, r.opts.MaxChars), nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// HTTPFetcher loads pages with a plain GET.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher with a 15s timeout.
func NewHTTPFetcher(optFns ...func(f *HTTPFetcher)) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: "Mozilla/5.0 (compatible; edumesh/1.0)",
	}
	for _, fn := range optFns {
		fn(f)
	}
	return f
}

// WithHTTPClient replaces the client used by the fetcher.
func WithHTTPClient(c *http.Client) func(f *HTTPFetcher) {
	return func(f *HTTPFetcher) { f.client = c }
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: status %d", link, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

var (
	_ tool.Extractor = (*Readability)(nil)
	_ Fetcher        = (*HTTPFetcher)(nil)
)
