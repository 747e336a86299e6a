package decompose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/internal/prompt"
	"github.com/hupe1980/edumesh/logging"
	"github.com/hupe1980/edumesh/model"
	"github.com/hupe1980/edumesh/tool"
)

// LLMOptions configure the LLM decomposer.
type LLMOptions struct {
	MinTopics int
	MaxTopics int
	Logger    logging.Logger
}

// LLM asks a model for a JSON list of topics. Replies that are not valid JSON
// or yield fewer than MinTopics usable topics are reported as ToolErrors so a
// fallback chain can substitute the heuristic.
type LLM struct {
	model model.Model
	opts  LLMOptions
}

// NewLLM creates an LLM decomposer backed by m.
func NewLLM(m model.Model, optFns ...func(o *LLMOptions)) *LLM {
	opts := LLMOptions{MinTopics: 3, MaxTopics: 5}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &LLM{model: m, opts: opts}
}

// Decompose implements tool.Decomposer.
func (d *LLM) Decompose(ctx context.Context, goal string) ([]core.Topic, error) {
	name := "llm:" + d.model.Info().Name
	if strings.TrimSpace(goal) == "" {
		return nil, tool.NewToolError(name, "empty goal", tool.CodeInvalid)
	}

	userPrompt, err := prompt.Render(prompt.Decompose, map[string]any{
		"goal": goal, "min": d.opts.MinTopics, "max": d.opts.MaxTopics,
	})
	if err != nil {
		return nil, tool.WrapToolError(name, tool.CodeInvalid, err)
	}

	start := time.Now()
	req := model.NewUserRequest(prompt.PlannerSystem, userPrompt)
	req.JSONList = true
	text, usage, err := model.GenerateText(ctx, d.model, req)
	tokens := 0
	if usage != nil {
		tokens = usage.TotalTokens
	}
	if ml, ok := d.opts.Logger.(*logging.MeshLogger); ok {
		ml.LogLLMCall(d.model.Info().Name, tokens, time.Since(start), err == nil, err)
	} else {
		d.opts.Logger.Debug("decomposition model call", "model", d.model.Info().Name, "tokens", tokens, "duration", time.Since(start), "success", err == nil)
	}
	if err != nil {
		return nil, tool.WrapToolError(name, tool.CodeUnavailable, err)
	}

	topics, err := ParseTopics(text, d.opts.MaxTopics)
	if err != nil {
		return nil, tool.WrapToolError(name, tool.CodeBadResponse, err)
	}
	if len(topics) < d.opts.MinTopics {
		return nil, tool.NewToolError(name, fmt.Sprintf("got %d topics, want at least %d", len(topics), d.opts.MinTopics), tool.CodeEmpty)
	}
	return topics, nil
}

// ParseTopics extracts topics from a model reply. It tolerates markdown code
// fences and leading prose by locating the first JSON array. Entries without
// a topic title are dropped; missing types default to Article. At most max
// topics are returned (max <= 0 means no limit).
func ParseTopics(text string, max int) ([]core.Topic, error) {
	raw := jsonArray(text)
	if raw == "" || !gjson.Valid(raw) {
		return nil, fmt.Errorf("reply does not contain a JSON list")
	}

	var topics []core.Topic
	gjson.Parse(raw).ForEach(func(_, item gjson.Result) bool {
		title := strings.TrimSpace(item.Get("topic").String())
		if title == "" {
			return true
		}
		ct := core.ParseContentType(item.Get("type").String())
		if ct == "" {
			ct = core.ContentTypeArticle
		}
		topics = append(topics, core.Topic{Topic: title, Type: ct})
		return max <= 0 || len(topics) < max
	})
	return topics, nil
}

func jsonArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

var _ tool.Decomposer = (*LLM)(nil)
