package decompose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/internal/prompt"
	"github.com/hupe1980/edumesh/model"
	"github.com/hupe1980/edumesh/tool"
)

func titles(topics []core.Topic) []string {
	out := make([]string, len(topics))
	for i, tp := range topics {
		out[i] = tp.Topic
	}
	return out
}

func TestHeuristic_KeywordTable(t *testing.T) {
	tests := []struct {
		goal  string
		first string
		types []core.ContentType
	}{
		{"I want to learn Python", "Python Variables and Types", []core.ContentType{core.ContentTypeVideo, core.ContentTypeArticle, core.ContentTypeQuiz}},
		{"Advanced JavaScript please", "JavaScript Design Patterns and Modules", []core.ContentType{core.ContentTypeArticle, core.ContentTypeVideo, core.ContentTypeQuiz}},
		{"javascript for beginners", "JavaScript Variables and Data Types", []core.ContentType{core.ContentTypeArticle, core.ContentTypeVideo, core.ContentTypeQuiz}},
		{"advanced algorithms", "Advanced Dynamic Programming", []core.ContentType{core.ContentTypeArticle, core.ContentTypeVideo, core.ContentTypeQuiz}},
		{"DSA basics", "Introduction to Arrays and Linked Lists", []core.ContentType{core.ContentTypeVideo, core.ContentTypeArticle, core.ContentTypeQuiz}},
		{"Data Structures", "Introduction to Arrays and Linked Lists", nil},
		{"cloud engineering", "Cloud Computing Fundamentals (IaaS, PaaS, SaaS)", []core.ContentType{core.ContentTypeVideo, core.ContentTypeArticle, core.ContentTypeQuiz}},
		{"knitting", "General Programming Principles", []core.ContentType{core.ContentTypeVideo, core.ContentTypeArticle, core.ContentTypeQuiz}},
	}
	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			topics, err := NewHeuristic().Decompose(context.Background(), tt.goal)
			require.NoError(t, err)
			require.Len(t, topics, 3)
			assert.Equal(t, tt.first, topics[0].Topic)
			if tt.types != nil {
				for i, ct := range tt.types {
					assert.Equal(t, ct, topics[i].Type)
				}
			}
		})
	}
}

func TestHeuristic_PythonWinsOverLaterKeywords(t *testing.T) {
	assert.Equal(t, "Python Variables and Types", Topics("python for the cloud")[0].Topic)
}

func TestParseTopics(t *testing.T) {
	reply := "Sure! Here you go:\n```json\n[{\"topic\": \"Goroutines\", \"type\": \"video\"}, {\"topic\": \"\"}, {\"topic\": \"Channels\"}, {\"topic\": \"Select\", \"type\": \"Quiz\"}]\n```"

	topics, err := ParseTopics(reply, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Goroutines", "Channels", "Select"}, titles(topics))
	assert.Equal(t, core.ContentTypeVideo, topics[0].Type)
	assert.Equal(t, core.ContentTypeArticle, topics[1].Type)

	topics, err = ParseTopics(reply, 2)
	require.NoError(t, err)
	assert.Len(t, topics, 2)

	_, err = ParseTopics("no json here", 5)
	assert.Error(t, err)
}

func decomposePrompt(t *testing.T, goal string) string {
	t.Helper()
	p, err := prompt.Render(prompt.Decompose, map[string]any{"goal": goal, "min": 3, "max": 5})
	require.NoError(t, err)
	return p
}

func TestLLM_Decompose(t *testing.T) {
	m := model.NewMockModel("mock-llm", "mock")
	m.AddResponse(decomposePrompt(t, "Learn Go"), `[{"topic":"Go Syntax","type":"Article"},{"topic":"Go Modules","type":"Video"},{"topic":"Go Testing","type":"Quiz"}]`)

	topics, err := NewLLM(m).Decompose(context.Background(), "Learn Go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Syntax", "Go Modules", "Go Testing"}, titles(topics))

	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, prompt.PlannerSystem, calls[0].Instructions)
	assert.True(t, calls[0].JSONList)
}

func TestLLM_DecomposeFailures(t *testing.T) {
	t.Run("model error", func(t *testing.T) {
		m := model.NewMockModel("mock-llm", "mock")
		m.SetError(errors.New("401"))
		_, err := NewLLM(m).Decompose(context.Background(), "Learn Go")
		var te *tool.ToolError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, tool.CodeUnavailable, te.Code)
	})

	t.Run("too few topics", func(t *testing.T) {
		m := model.NewMockModel("mock-llm", "mock")
		m.AddResponse(decomposePrompt(t, "Learn Go"), `[{"topic":"Only one","type":"Article"}]`)
		_, err := NewLLM(m).Decompose(context.Background(), "Learn Go")
		var te *tool.ToolError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, tool.CodeEmpty, te.Code)
	})

	t.Run("not json", func(t *testing.T) {
		m := model.NewMockModel("mock-llm", "mock")
		_, err := NewLLM(m).Decompose(context.Background(), "Learn Go")
		var te *tool.ToolError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, tool.CodeBadResponse, te.Code)
	})
}

func TestLLM_FallsBackToHeuristic(t *testing.T) {
	m := model.NewMockModel("mock-llm", "mock")
	m.SetError(errors.New("unavailable"))

	d := tool.NewFallbackDecomposer(NewLLM(m), NewHeuristic())
	topics, err := d.Decompose(context.Background(), "learn python")
	require.NoError(t, err)
	assert.Equal(t, titles(Topics("learn python")), titles(topics))
}
