package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/tool"
)

// GoogleBaseURL is the Custom Search JSON API endpoint.
const GoogleBaseURL = "https://www.googleapis.com/customsearch/v1"

// Google searches through the Google Custom Search JSON API. Video queries
// are restricted to youtube.com with safe search enabled. The API exposes no
// publication date, so results carry "N/A".
type Google struct {
	apiKey, cx string
	opts       Options
}

// NewGoogle creates a Google searcher for the given key and engine id.
func NewGoogle(apiKey, cx string, optFns ...func(o *Options)) *Google {
	return &Google{apiKey: apiKey, cx: cx, opts: newOptions(GoogleBaseURL, optFns)}
}

// Search implements tool.Searcher.
func (g *Google) Search(ctx context.Context, q tool.SearchQuery) ([]tool.SearchResult, error) {
	const backend = "google"
	if g.apiKey == "" || g.cx == "" {
		return nil, tool.NewToolError(backend, "api key or cx id missing", tool.CodeInvalid)
	}

	n := maxResults(q)
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cx)
	params.Set("q", QueryText(q))
	params.Set("num", strconv.Itoa(n))
	if q.Type == core.ContentTypeVideo {
		params.Set("safe", "active")
		params.Set("siteSearch", "youtube.com")
		params.Set("siteSearchFilter", "i")
	}

	req, err := newRequest(ctx, backend, http.MethodGet, g.opts.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	body, err := do(g.opts.HTTPClient, backend, req)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, tool.NewToolError(backend, "invalid JSON response", tool.CodeBadResponse)
	}

	var out []tool.SearchResult
	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		link := strings.TrimSpace(item.Get("link").String())
		if link == "" {
			return true
		}
		out = append(out, tool.SearchResult{
			Title: item.Get("title").String(),
			Link:  link,
			Date:  "N/A",
			Type:  q.Type,
		})
		return len(out) < n
	})
	return out, nil
}

var _ tool.Searcher = (*Google)(nil)
