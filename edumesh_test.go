package edumesh

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/tool"
	"github.com/hupe1980/edumesh/tool/summarize"
)

func TestEduMesh_OfflineDefaults(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	out, err := m.Submit(context.Background(), "I want to learn Python")
	require.NoError(t, err)
	require.False(t, out.Failed(), out.ErrorMessage())

	path, ok := out.LearningPath()
	require.True(t, ok)
	assert.Equal(t, "I want to learn Python", path.MainGoal)
	require.Len(t, path.ValidatedPath, 3)

	wantTypes := []core.ContentType{core.ContentTypeVideo, core.ContentTypeArticle, core.ContentTypeQuiz}
	wantScores := []float64{5.0, 5.0, 4.5}
	for i, r := range path.ValidatedPath {
		assert.True(t, strings.HasPrefix(r.Title, "The Ultimate Guide to "), r.Title)
		assert.True(t, strings.HasPrefix(r.Link, "https://example.com/topic/"), r.Link)
		assert.True(t, strings.HasPrefix(r.Summary, "Mock summary: "), r.Summary)
		assert.Equal(t, wantTypes[i], r.Type)
		require.NotNil(t, r.Score)
		assert.Equal(t, wantScores[i], *r.Score)
	}

	assert.Equal(t, 4, out.Steps)

	sess, err := m.Engine().GetSession(out.SessionID)
	require.NoError(t, err)
	goal, _ := sess.GetState(core.StateKeyGoal)
	skill, _ := sess.GetState(core.StateKeySkillLevel)
	assert.Equal(t, "I want to learn Python", goal)
	assert.Equal(t, "Beginner", skill)
}

func TestEduMesh_EmptyGoal(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	_, err = m.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, core.ErrEmptyGoal)
}

func TestEduMesh_FallbackHook(t *testing.T) {
	var (
		mu    sync.Mutex
		calls = map[string]int{}
	)

	failing := tool.SummarizerFunc(func(context.Context, string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	m, err := New(func(o *Options) {
		o.Summarizer = failing
		o.OnFallback = func(capability string, _ error) {
			mu.Lock()
			defer mu.Unlock()
			calls[capability]++
		}
	})
	require.NoError(t, err)

	out, err := m.Submit(context.Background(), "learn cloud")
	require.NoError(t, err)

	path, ok := out.LearningPath()
	require.True(t, ok)
	require.NotEmpty(t, path.ValidatedPath)
	for _, r := range path.ValidatedPath {
		assert.True(t, strings.HasPrefix(r.Summary, "Mock summary: "))
	}

	assert.Equal(t, 3, calls[tool.CapabilitySummarize])
	assert.Zero(t, calls[tool.CapabilitySearch])
}

func TestEduMesh_SearchFallbackOnEmpty(t *testing.T) {
	empty := tool.SearcherFunc(func(context.Context, tool.SearchQuery) ([]tool.SearchResult, error) {
		return nil, nil
	})

	withoutFallback, err := New(func(o *Options) { o.Searcher = empty })
	require.NoError(t, err)
	out, err := withoutFallback.Submit(context.Background(), "learn dsa")
	require.NoError(t, err)
	path, _ := out.LearningPath()
	assert.Empty(t, path.ValidatedPath)

	withFallback, err := New(func(o *Options) {
		o.Searcher = empty
		o.SearchFallbackOnEmpty = true
	})
	require.NoError(t, err)
	out, err = withFallback.Submit(context.Background(), "learn dsa")
	require.NoError(t, err)
	path, _ = out.LearningPath()
	assert.Len(t, path.ValidatedPath, 3)
}

func TestEduMesh_StrictPolicy(t *testing.T) {
	m, err := New(func(o *Options) {
		o.ScoringPolicy.PassThreshold = 4.8
		o.WorkerParallelism = 3
		o.Summarizer = summarize.NewMock()
	})
	require.NoError(t, err)

	out, err := m.Submit(context.Background(), "javascript")
	require.NoError(t, err)

	path, ok := out.LearningPath()
	require.True(t, ok)
	require.Len(t, path.ValidatedPath, 2)
	for _, r := range path.ValidatedPath {
		assert.NotEqual(t, core.ContentTypeQuiz, r.Type)
	}
}
