package search

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/tool"
)

// SerperBaseURL is the Serper (Google SERP) API root.
const SerperBaseURL = "https://google.serper.dev"

// Serper searches Google results through serper.dev. Video queries use the
// dedicated videos endpoint.
type Serper struct {
	apiKey string
	opts   Options
}

// NewSerper creates a Serper searcher.
func NewSerper(apiKey string, optFns ...func(o *Options)) *Serper {
	return &Serper{apiKey: apiKey, opts: newOptions(SerperBaseURL, optFns)}
}

// Search implements tool.Searcher.
func (s *Serper) Search(ctx context.Context, q tool.SearchQuery) ([]tool.SearchResult, error) {
	const backend = "serper"
	if s.apiKey == "" {
		return nil, tool.NewToolError(backend, "api key missing", tool.CodeInvalid)
	}

	n := maxResults(q)
	payload, err := json.Marshal(map[string]any{"q": QueryText(q), "num": n})
	if err != nil {
		return nil, tool.WrapToolError(backend, tool.CodeInvalid, err)
	}

	endpoint, resultsPath := s.opts.BaseURL+"/search", "organic"
	if q.Type == core.ContentTypeVideo {
		endpoint, resultsPath = s.opts.BaseURL+"/videos", "videos"
	}

	req, err := newRequest(ctx, backend, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	body, err := do(s.opts.HTTPClient, backend, req)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, tool.NewToolError(backend, "invalid JSON response", tool.CodeBadResponse)
	}

	var out []tool.SearchResult
	gjson.GetBytes(body, resultsPath).ForEach(func(_, item gjson.Result) bool {
		link := item.Get("link").String()
		if link == "" {
			return true
		}
		out = append(out, tool.SearchResult{
			Title: item.Get("title").String(),
			Link:  link,
			Date:  NormalizeDate(item.Get("date").String()),
			Type:  q.Type,
		})
		return len(out) < n
	})
	return out, nil
}

var _ tool.Searcher = (*Serper)(nil)
