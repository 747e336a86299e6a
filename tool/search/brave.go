package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/edumesh/tool"
)

// BraveBaseURL is the Brave web search endpoint.
const BraveBaseURL = "https://api.search.brave.com/res/v1/web/search"

// Brave searches through the Brave Search API.
type Brave struct {
	apiKey string
	opts   Options
}

// NewBrave creates a Brave searcher.
func NewBrave(apiKey string, optFns ...func(o *Options)) *Brave {
	return &Brave{apiKey: apiKey, opts: newOptions(BraveBaseURL, optFns)}
}

// Search implements tool.Searcher.
func (b *Brave) Search(ctx context.Context, q tool.SearchQuery) ([]tool.SearchResult, error) {
	const backend = "brave"
	if b.apiKey == "" {
		return nil, tool.NewToolError(backend, "api key missing", tool.CodeInvalid)
	}

	n := maxResults(q)
	params := url.Values{}
	params.Set("q", QueryText(q))
	params.Set("count", strconv.Itoa(n))
	params.Set("safesearch", "moderate")

	req, err := newRequest(ctx, backend, http.MethodGet, b.opts.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Subscription-Token", b.apiKey)

	body, err := do(b.opts.HTTPClient, backend, req)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, tool.NewToolError(backend, "invalid JSON response", tool.CodeBadResponse)
	}

	var out []tool.SearchResult
	gjson.GetBytes(body, "web.results").ForEach(func(_, item gjson.Result) bool {
		link := item.Get("url").String()
		if link == "" {
			return true
		}
		out = append(out, tool.SearchResult{
			Title: item.Get("title").String(),
			Link:  link,
			Date:  NormalizeDate(item.Get("page_age").String()),
			Type:  q.Type,
		})
		return len(out) < n
	})
	return out, nil
}

var _ tool.Searcher = (*Brave)(nil)
