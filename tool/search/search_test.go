package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/tool"
)

func TestMock_Deterministic(t *testing.T) {
	q := tool.SearchQuery{Topic: "Python Variables and Types", Type: core.ContentTypeVideo, MaxResults: 2}

	first, err := NewMock().Search(context.Background(), q)
	require.NoError(t, err)
	second, _ := NewMock().Search(context.Background(), q)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, "The Ultimate Guide to Python Variables and Types Part 0", first[0].Title)
	assert.Equal(t, "https://example.com/topic/python_variables_and_types_0", first[0].Link)
	assert.Equal(t, core.ContentTypeVideo, first[0].Type)
	assert.Regexp(t, `^202[2-5]-0[1-9]-(1\d|2[0-8])$`, first[0].Date)
}

func TestMock_DefaultMaxResults(t *testing.T) {
	res := MockResults(tool.SearchQuery{Topic: "x"})
	assert.Len(t, res, DefaultMaxResults)
}

func TestGoogle_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "k", q.Get("key"))
		assert.Equal(t, "cx", q.Get("cx"))
		assert.Equal(t, "best free Video tutorial Goroutines learning", q.Get("q"))
		assert.Equal(t, "1", q.Get("num"))
		assert.Equal(t, "youtube.com", q.Get("siteSearch"))
		assert.Equal(t, "i", q.Get("siteSearchFilter"))
		assert.Equal(t, "active", q.Get("safe"))
		_, _ = w.Write([]byte(`{"items":[{"title":"Goroutines explained","link":"https://youtube.com/watch?v=1"},{"title":"second","link":"https://youtube.com/watch?v=2"}]}`))
	}))
	defer srv.Close()

	g := NewGoogle("k", "cx", func(o *Options) { o.BaseURL = srv.URL })
	res, err := g.Search(context.Background(), tool.SearchQuery{Topic: "Goroutines", Type: core.ContentTypeVideo, MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, tool.SearchResult{Title: "Goroutines explained", Link: "https://youtube.com/watch?v=1", Date: "N/A", Type: core.ContentTypeVideo}, res[0])
}

func TestGoogle_ArticleHasNoSiteRestriction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("siteSearch"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	res, err := NewGoogle("k", "cx", func(o *Options) { o.BaseURL = srv.URL }).
		Search(context.Background(), tool.SearchQuery{Topic: "Loops", Type: core.ContentTypeArticle, MaxResults: 1})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestGoogle_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewGoogle("k", "cx", func(o *Options) { o.BaseURL = srv.URL }).
		Search(context.Background(), tool.SearchQuery{Topic: "Loops", MaxResults: 1})
	var te *tool.ToolError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, tool.CodeUnavailable, te.Code)

	_, err = NewGoogle("", "").Search(context.Background(), tool.SearchQuery{Topic: "Loops"})
	require.True(t, errors.As(err, &te))
	assert.Equal(t, tool.CodeInvalid, te.Code)
}

func TestGoogle_FallsBackToMockOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := tool.NewFallbackSearcher(NewGoogle("k", "cx", func(o *Options) { o.BaseURL = srv.URL }), NewMock())
	res, err := s.Search(context.Background(), tool.SearchQuery{Topic: "Loops", Type: core.ContentTypeQuiz, MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "https://example.com/topic/loops_0", res[0].Link)
}

func TestBrave_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"Channels","url":"https://go.dev/tour/concurrency/2","page_age":"2023-04-05T10:00:00"},
			{"title":"No date","url":"https://go.dev/doc"}
		]}}`))
	}))
	defer srv.Close()

	res, err := NewBrave("secret", func(o *Options) { o.BaseURL = srv.URL }).
		Search(context.Background(), tool.SearchQuery{Topic: "Channels", Type: core.ContentTypeArticle, MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "2023-04-05", res[0].Date)
	assert.Equal(t, "N/A", res[1].Date)
}

func TestSerper_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 1, body["num"])

		switch r.URL.Path {
		case "/videos":
			_, _ = w.Write([]byte(`{"videos":[{"title":"Select statement","link":"https://youtube.com/watch?v=3","date":"Mar 5, 2021"}]}`))
		default:
			_, _ = w.Write([]byte(`{"organic":[{"title":"Select","link":"https://go.dev/ref/spec#Select_statements"}]}`))
		}
	}))
	defer srv.Close()

	s := NewSerper("secret", func(o *Options) { o.BaseURL = srv.URL })

	res, err := s.Search(context.Background(), tool.SearchQuery{Topic: "Select", Type: core.ContentTypeVideo, MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "2021-03-05", res[0].Date)

	res, err = s.Search(context.Background(), tool.SearchQuery{Topic: "Select", Type: core.ContentTypeArticle, MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "N/A", res[0].Date)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-05-01", NormalizeDate("2024-05-01"))
	assert.Equal(t, "2021-03-05", NormalizeDate("Mar 5, 2021"))
	assert.Equal(t, "N/A", NormalizeDate(""))
	assert.Equal(t, "N/A", NormalizeDate("sometime"))
}
