package main

import (
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/edumesh/config"
	"github.com/hupe1980/edumesh/logging"
	"github.com/hupe1980/edumesh/model"
	anthropicmodel "github.com/hupe1980/edumesh/model/anthropic"
	openaimodel "github.com/hupe1980/edumesh/model/openai"
	"github.com/hupe1980/edumesh/tool"
	"github.com/hupe1980/edumesh/tool/decompose"
	"github.com/hupe1980/edumesh/tool/extract"
	"github.com/hupe1980/edumesh/tool/search"
	"github.com/hupe1980/edumesh/tool/summarize"
)

// capabilities holds the primary backends selected by the configuration.
// A nil field means the offline implementation serves the capability.
type capabilities struct {
	Decomposer tool.Decomposer
	Searcher   tool.Searcher
	Extractor  tool.Extractor
	Summarizer tool.Summarizer
}

func newLogger(cfg config.LogConfig) (*logging.MeshLogger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewSlogLogger(level, cfg.Format, false), nil
}

// buildCapabilities creates the configured backends.
func buildCapabilities(cfg *config.Config, logger logging.Logger) (capabilities, error) {
	var caps capabilities

	m, err := newModel(cfg.LLM)
	if err != nil {
		return caps, err
	}

	if caps.Decomposer, err = newDecomposer(cfg.Decompose, m, logger); err != nil {
		return caps, err
	}
	if caps.Searcher, err = newSearcher(cfg.Search); err != nil {
		return caps, err
	}
	caps.Extractor = newExtractor(cfg.Extract)
	if caps.Summarizer, err = newSummarizer(cfg.Summarize, m); err != nil {
		return caps, err
	}
	return caps, nil
}

// newModel returns nil when no chat model is configured.
func newModel(cfg config.LLMConfig) (model.Model, error) {
	provider := cfg.Provider
	if provider == config.ProviderAuto {
		switch {
		case cfg.OpenAIAPIKey != "":
			provider = config.ProviderOpenAI
		case cfg.AnthropicAPIKey != "":
			provider = config.ProviderAnthropic
		default:
			provider = config.ProviderNone
		}
	}

	switch provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("llm provider openai: OPENAI_API_KEY not set")
		}
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.APIKey = cfg.OpenAIAPIKey
			o.BaseURL = cfg.BaseURL
			if cfg.Timeout > 0 {
				o.Timeout = cfg.Timeout
			}
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("llm provider anthropic: ANTHROPIC_API_KEY not set")
		}
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			o.BaseURL = cfg.BaseURL
			if cfg.Timeout > 0 {
				o.Timeout = cfg.Timeout
			}
			if cfg.Model != "" {
				o.Model = anthropic.Model(cfg.Model)
			}
		}), nil
	default:
		return nil, nil
	}
}

func newDecomposer(cfg config.DecomposeConfig, m model.Model, logger logging.Logger) (tool.Decomposer, error) {
	switch cfg.Provider {
	case config.ProviderHeuristic:
		return nil, nil
	case config.ProviderLLM:
		if m == nil {
			return nil, fmt.Errorf("decompose provider llm: no llm configured")
		}
	case config.ProviderAuto:
		if m == nil {
			return nil, nil
		}
	}
	return decompose.NewLLM(m, func(o *decompose.LLMOptions) {
		o.MinTopics = cfg.MinTopics
		o.MaxTopics = cfg.MaxTopics
		o.Logger = logging.Component(logger, "decompose")
	}), nil
}

func newSearcher(cfg config.SearchConfig) (tool.Searcher, error) {
	withTimeout := func(o *search.Options) { o.Timeout = cfg.Timeout }

	provider := cfg.Provider
	if provider == config.ProviderAuto {
		switch {
		case cfg.Google.APIKey != "" && cfg.Google.CX != "":
			provider = config.ProviderGoogle
		case cfg.Serper.APIKey != "":
			provider = config.ProviderSerper
		case cfg.Brave.APIKey != "":
			provider = config.ProviderBrave
		default:
			provider = config.ProviderMock
		}
	}

	switch provider {
	case config.ProviderGoogle:
		if cfg.Google.APIKey == "" || cfg.Google.CX == "" {
			return nil, fmt.Errorf("search provider google: GOOGLE_API_KEY and GOOGLE_CX_ID required")
		}
		return search.NewGoogle(cfg.Google.APIKey, cfg.Google.CX, withTimeout), nil
	case config.ProviderSerper:
		if cfg.Serper.APIKey == "" {
			return nil, fmt.Errorf("search provider serper: SERPER_API_KEY not set")
		}
		return search.NewSerper(cfg.Serper.APIKey, withTimeout), nil
	case config.ProviderBrave:
		if cfg.Brave.APIKey == "" {
			return nil, fmt.Errorf("search provider brave: BRAVE_API_KEY not set")
		}
		return search.NewBrave(cfg.Brave.APIKey, withTimeout), nil
	default:
		return nil, nil
	}
}

func newExtractor(cfg config.ExtractConfig) tool.Extractor {
	var fetcher extract.Fetcher
	switch cfg.Renderer {
	case config.ProviderMock:
		return nil
	case config.RendererChromedp:
		cf := extract.NewChromeFetcher()
		if cfg.Timeout > 0 {
			cf.Timeout = cfg.Timeout
		}
		fetcher = cf
	default:
		fetcher = extract.NewHTTPFetcher(extract.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return extract.NewReadability(func(o *extract.Options) {
		o.Fetcher = fetcher
		o.MaxChars = cfg.MaxChars
	})
}

func newSummarizer(cfg config.SummarizeConfig, m model.Model) (tool.Summarizer, error) {
	provider := cfg.Provider
	if provider == config.ProviderAuto {
		switch {
		case cfg.HuggingFace.APIKey != "":
			provider = config.ProviderHuggingFace
		case m != nil:
			provider = config.ProviderLLM
		default:
			provider = config.ProviderMock
		}
	}

	switch provider {
	case config.ProviderHuggingFace:
		if cfg.HuggingFace.APIKey == "" {
			return nil, fmt.Errorf("summarize provider huggingface: HUGGINGFACE_API_KEY not set")
		}
		return summarize.NewHuggingFace(cfg.HuggingFace.APIKey, func(o *summarize.HuggingFaceOptions) {
			if cfg.HuggingFace.Model != "" {
				o.Model = cfg.HuggingFace.Model
			}
		}), nil
	case config.ProviderLLM:
		if m == nil {
			return nil, fmt.Errorf("summarize provider llm: no llm configured")
		}
		return summarize.NewLLM(m, cfg.Sentences), nil
	default:
		return nil, nil
	}
}
