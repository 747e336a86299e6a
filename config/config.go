// Package config handles configuration loading for edumesh. It supports an
// optional YAML file, EDUMESH_ prefixed environment variables and the
// well-known credential variables of the external services.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hupe1980/edumesh/agent"
)

// Provider names.
const (
	ProviderAuto        = "auto"
	ProviderNone        = "none"
	ProviderMock        = "mock"
	ProviderHeuristic   = "heuristic"
	ProviderLLM         = "llm"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGoogle      = "google"
	ProviderBrave       = "brave"
	ProviderSerper      = "serper"
	ProviderHuggingFace = "huggingface"

	RendererHTTP     = "http"
	RendererChromedp = "chromedp"
)

// Config holds all configuration for edumesh.
type Config struct {
	Log       LogConfig           `mapstructure:"log" yaml:"log"`
	Engine    EngineConfig        `mapstructure:"engine" yaml:"engine"`
	Worker    WorkerConfig        `mapstructure:"worker" yaml:"worker"`
	Scoring   agent.ScoringPolicy `mapstructure:"scoring" yaml:"scoring"`
	LLM       LLMConfig           `mapstructure:"llm" yaml:"llm"`
	Decompose DecomposeConfig     `mapstructure:"decompose" yaml:"decompose"`
	Search    SearchConfig        `mapstructure:"search" yaml:"search"`
	Extract   ExtractConfig       `mapstructure:"extract" yaml:"extract"`
	Summarize SummarizeConfig     `mapstructure:"summarize" yaml:"summarize"`
	Metrics   MetricsConfig       `mapstructure:"metrics" yaml:"metrics"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-" yaml:"-"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // json, text
}

// EngineConfig holds routing loop settings.
type EngineConfig struct {
	MaxSteps         int    `mapstructure:"max_steps" yaml:"max_steps"`
	OrchestratorName string `mapstructure:"orchestrator_name" yaml:"orchestrator_name"`
}

// WorkerConfig holds Worker settings.
type WorkerConfig struct {
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
}

// LLMConfig selects the chat model used by the llm decompose and summarize
// providers.
type LLMConfig struct {
	Provider        string        `mapstructure:"provider" yaml:"provider"` // auto, none, openai, anthropic
	Model           string        `mapstructure:"model" yaml:"model"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// BaseURL targets an OpenAI compatible endpoint instead of api.openai.com.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DecomposeConfig selects the goal decomposer.
type DecomposeConfig struct {
	Provider  string `mapstructure:"provider" yaml:"provider"` // auto, heuristic, llm
	MinTopics int    `mapstructure:"min_topics" yaml:"min_topics"`
	MaxTopics int    `mapstructure:"max_topics" yaml:"max_topics"`
}

// SearchConfig selects the resource searcher.
type SearchConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"` // auto, google, brave, serper, mock
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// FallbackOnEmpty substitutes mock results when a live backend finds
	// nothing.
	FallbackOnEmpty bool         `mapstructure:"fallback_on_empty" yaml:"fallback_on_empty"`
	Google          GoogleConfig `mapstructure:"google" yaml:"google"`
	Brave           APIKeyConfig `mapstructure:"brave" yaml:"brave"`
	Serper          APIKeyConfig `mapstructure:"serper" yaml:"serper"`
}

// GoogleConfig holds Custom Search credentials.
type GoogleConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	CX     string `mapstructure:"cx" yaml:"cx"`
}

// APIKeyConfig holds a single API key.
type APIKeyConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// ExtractConfig selects how pages are fetched.
type ExtractConfig struct {
	Renderer string        `mapstructure:"renderer" yaml:"renderer"` // http, chromedp, mock
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxChars int           `mapstructure:"max_chars" yaml:"max_chars"`
}

// SummarizeConfig selects the summarizer.
type SummarizeConfig struct {
	Provider    string            `mapstructure:"provider" yaml:"provider"` // auto, huggingface, llm, mock
	Sentences   int               `mapstructure:"sentences" yaml:"sentences"`
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface" yaml:"huggingface"`
}

// HuggingFaceConfig holds inference API settings.
type HuggingFaceConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
}

// MetricsConfig holds metrics output settings.
type MetricsConfig struct {
	// Textfile receives the metrics after a run when set.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// envBindings maps config keys to the conventional variables of the
// external services. EDUMESH_ prefixed variables take precedence.
var envBindings = map[string]string{
	"search.google.api_key":         "GOOGLE_API_KEY",
	"search.google.cx":              "GOOGLE_CX_ID",
	"search.brave.api_key":          "BRAVE_API_KEY",
	"search.serper.api_key":         "SERPER_API_KEY",
	"summarize.huggingface.api_key": "HUGGINGFACE_API_KEY",
	"llm.openai_api_key":            "OPENAI_API_KEY",
	"llm.anthropic_api_key":         "ANTHROPIC_API_KEY",
}

// Load loads configuration from defaults, an optional YAML file and the
// environment.
// Precedence (highest to lowest):
// 1. EDUMESH_* environment variables (EDUMESH_SEARCH_PROVIDER, ...)
// 2. Service credential variables (GOOGLE_API_KEY, ...)
// 3. The config file: path when given, otherwise edumesh.yaml in the working
// directory or the user config directory
// 4. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("edumesh")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "edumesh"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("EDUMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		prefixed := "EDUMESH_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("engine.max_steps", 20)
	v.SetDefault("engine.orchestrator_name", "MainAgent")

	v.SetDefault("worker.parallelism", 1)

	policy := agent.DefaultScoringPolicy()
	v.SetDefault("scoring.base", policy.Base)
	v.SetDefault("scoring.relevance_phrase", policy.RelevancePhrase)
	v.SetDefault("scoring.relevance_penalty", policy.RelevancePenalty)
	v.SetDefault("scoring.recency_cutoff_year", policy.RecencyCutoffYear)
	v.SetDefault("scoring.recency_penalty", policy.RecencyPenalty)
	v.SetDefault("scoring.penalize_unparsable_date", policy.PenalizeUnparsableDate)
	v.SetDefault("scoring.type_penalties", map[string]float64{"Quiz": 0.5})
	v.SetDefault("scoring.floor", policy.Floor)
	v.SetDefault("scoring.pass_threshold", policy.PassThreshold)

	v.SetDefault("llm.provider", ProviderAuto)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("decompose.provider", ProviderAuto)
	v.SetDefault("decompose.min_topics", 3)
	v.SetDefault("decompose.max_topics", 5)

	v.SetDefault("search.provider", ProviderAuto)
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("search.fallback_on_empty", true)

	v.SetDefault("extract.renderer", RendererHTTP)
	v.SetDefault("extract.timeout", 15*time.Second)
	v.SetDefault("extract.max_chars", 8000)

	v.SetDefault("summarize.provider", ProviderAuto)
	v.SetDefault("summarize.sentences", 2)
	v.SetDefault("summarize.huggingface.model", "facebook/bart-large-cnn")

	v.SetDefault("metrics.textfile", "")
}

// Validate checks enum fields and numeric bounds.
func (c *Config) Validate() error {
	var errs []error
	check := func(field, value string, allowed ...string) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: invalid value %q (allowed: %s)", field, value, strings.Join(allowed, ", ")))
	}

	check("log.level", strings.ToLower(c.Log.Level), "debug", "info", "warn", "warning", "error")
	check("log.format", c.Log.Format, "json", "text")
	check("llm.provider", c.LLM.Provider, ProviderAuto, ProviderNone, ProviderOpenAI, ProviderAnthropic)
	check("decompose.provider", c.Decompose.Provider, ProviderAuto, ProviderHeuristic, ProviderLLM)
	check("search.provider", c.Search.Provider, ProviderAuto, ProviderGoogle, ProviderBrave, ProviderSerper, ProviderMock)
	check("extract.renderer", c.Extract.Renderer, RendererHTTP, RendererChromedp, ProviderMock)
	check("summarize.provider", c.Summarize.Provider, ProviderAuto, ProviderHuggingFace, ProviderLLM, ProviderMock)

	if c.Engine.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("engine.max_steps: must not be negative"))
	}
	if c.Worker.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("worker.parallelism: must be at least 1"))
	}
	if c.Decompose.MinTopics < 1 || c.Decompose.MaxTopics < c.Decompose.MinTopics {
		errs = append(errs, fmt.Errorf("decompose: need 1 <= min_topics <= max_topics"))
	}
	if c.Scoring.Floor > c.Scoring.Base {
		errs = append(errs, fmt.Errorf("scoring.floor: must not exceed scoring.base"))
	}

	return errors.Join(errs...)
}

// Masked returns a copy with every credential replaced by a mask, for
// printing.
func (c *Config) Masked() *Config {
	m := *c
	m.LLM.OpenAIAPIKey = mask(c.LLM.OpenAIAPIKey)
	m.LLM.AnthropicAPIKey = mask(c.LLM.AnthropicAPIKey)
	m.Search.Google.APIKey = mask(c.Search.Google.APIKey)
	m.Search.Brave.APIKey = mask(c.Search.Brave.APIKey)
	m.Search.Serper.APIKey = mask(c.Search.Serper.APIKey)
	m.Summarize.HuggingFace.APIKey = mask(c.Summarize.HuggingFace.APIKey)
	return &m
}

func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****"
	}
}
