package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/edumesh/model"
)

func newServer(t *testing.T, got *map[string]any, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		w.Header().Set("Content-Type", "application/json")
		reply := map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-3-5-sonnet-20241022",
			"content":     []any{map[string]any{"type": "text", "text": text}},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 7, "output_tokens": 4},
		}
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestModel_Generate(t *testing.T) {
	var got map[string]any
	srv := newServer(t, &got, "A short summary.")

	m := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.BaseURL = srv.URL + "/"
		o.MaxRetries = 0
	})

	req := model.NewUserRequest("summarize", "long text")
	req.MaxTokens = 200

	text, usage, err := model.GenerateText(context.Background(), m, req)
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", text)
	require.NotNil(t, usage)
	assert.Equal(t, 11, usage.TotalTokens)

	assert.NotNil(t, got["system"])
	assert.EqualValues(t, 200, got["max_tokens"])
	assert.Equal(t, "anthropic", m.Info().Provider)
}

func TestModel_GenerateJSONListPrefill(t *testing.T) {
	var got map[string]any
	srv := newServer(t, &got, `{"topic":"Channels","type":"Article"}]`)

	m := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.BaseURL = srv.URL + "/"
		o.MaxRetries = 0
	})

	req := model.NewUserRequest("", "decompose")
	req.JSONList = true

	text, _, err := model.GenerateText(context.Background(), m, req)
	require.NoError(t, err)
	assert.Equal(t, `[{"topic":"Channels","type":"Article"}]`, text)

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "assistant", msgs[1].(map[string]any)["role"])
	assert.EqualValues(t, 1024, got["max_tokens"])
}

func TestBuildMessages_UnknownRoleIsUser(t *testing.T) {
	msgs := buildMessages([]model.Message{{Role: "tool", Text: "x"}, {Role: model.RoleUser, Text: ""}})
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", string(msgs[0].Role))
}
