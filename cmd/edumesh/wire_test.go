package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/edumesh"
	"github.com/hupe1980/edumesh/config"
	"github.com/hupe1980/edumesh/logging"
	"github.com/hupe1980/edumesh/tool/decompose"
	"github.com/hupe1980/edumesh/tool/extract"
	"github.com/hupe1980/edumesh/tool/search"
	"github.com/hupe1980/edumesh/tool/summarize"
)

func TestNewSearcher(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SearchConfig
		want    any
		wantErr bool
	}{
		{name: "auto without keys", cfg: config.SearchConfig{Provider: config.ProviderAuto}, want: nil},
		{
			name: "auto prefers google",
			cfg: config.SearchConfig{
				Provider: config.ProviderAuto,
				Google:   config.GoogleConfig{APIKey: "k", CX: "cx"},
				Serper:   config.APIKeyConfig{APIKey: "s"},
			},
			want: &search.Google{},
		},
		{
			name: "auto google needs cx",
			cfg: config.SearchConfig{
				Provider: config.ProviderAuto,
				Google:   config.GoogleConfig{APIKey: "k"},
				Brave:    config.APIKeyConfig{APIKey: "b"},
			},
			want: &search.Brave{},
		},
		{name: "explicit serper", cfg: config.SearchConfig{Provider: config.ProviderSerper, Serper: config.APIKeyConfig{APIKey: "s"}}, want: &search.Serper{}},
		{name: "explicit brave without key", cfg: config.SearchConfig{Provider: config.ProviderBrave}, wantErr: true},
		{name: "mock", cfg: config.SearchConfig{Provider: config.ProviderMock, Google: config.GoogleConfig{APIKey: "k", CX: "cx"}}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newSearcher(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, s)
				return
			}
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestNewModel(t *testing.T) {
	m, err := newModel(config.LLMConfig{Provider: config.ProviderAuto})
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = newModel(config.LLMConfig{Provider: config.ProviderAuto, AnthropicAPIKey: "a"})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "anthropic", m.Info().Provider)

	m, err = newModel(config.LLMConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "o", Model: "gpt-4o"})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "gpt-4o", m.Info().Name)

	_, err = newModel(config.LLMConfig{Provider: config.ProviderOpenAI})
	assert.Error(t, err)

	m, err = newModel(config.LLMConfig{Provider: config.ProviderNone, OpenAIAPIKey: "o"})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestNewDecomposer(t *testing.T) {
	cfg := config.DecomposeConfig{Provider: config.ProviderAuto, MinTopics: 3, MaxTopics: 5}

	d, err := newDecomposer(cfg, nil, logging.NoOpLogger{})
	require.NoError(t, err)
	assert.Nil(t, d)

	m, err := newModel(config.LLMConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "o"})
	require.NoError(t, err)
	d, err = newDecomposer(cfg, m, logging.NoOpLogger{})
	require.NoError(t, err)
	assert.IsType(t, &decompose.LLM{}, d)

	cfg.Provider = config.ProviderHeuristic
	d, err = newDecomposer(cfg, m, logging.NoOpLogger{})
	require.NoError(t, err)
	assert.Nil(t, d)

	cfg.Provider = config.ProviderLLM
	_, err = newDecomposer(cfg, nil, logging.NoOpLogger{})
	assert.Error(t, err)
}

func TestNewSummarizer(t *testing.T) {
	s, err := newSummarizer(config.SummarizeConfig{Provider: config.ProviderAuto}, nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = newSummarizer(config.SummarizeConfig{
		Provider:    config.ProviderAuto,
		HuggingFace: config.HuggingFaceConfig{APIKey: "hf"},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &summarize.HuggingFace{}, s)

	_, err = newSummarizer(config.SummarizeConfig{Provider: config.ProviderLLM}, nil)
	assert.Error(t, err)
}

func TestNewExtractor(t *testing.T) {
	assert.Nil(t, newExtractor(config.ExtractConfig{Renderer: config.ProviderMock}))
	assert.IsType(t, &extract.Readability{}, newExtractor(config.ExtractConfig{Renderer: config.RendererHTTP, Timeout: time.Second}))
	assert.IsType(t, &extract.Readability{}, newExtractor(config.ExtractConfig{Renderer: config.RendererChromedp}))
}

func TestPrintJSON(t *testing.T) {
	mesh, err := edumesh.New()
	require.NoError(t, err)
	out, err := mesh.Submit(context.Background(), "learn python")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, out))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, out.SessionID, doc["session_id"])
	assert.EqualValues(t, 4, doc["steps"])

	result, ok := doc["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "learn python", result["main_goal"])
	assert.Len(t, result["validated_path"], 3)
}
