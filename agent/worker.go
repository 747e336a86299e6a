package agent

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/tool"
)

// WorkerUnexpectedContent is the error message for foreign payloads.
const WorkerUnexpectedContent = "Worker received unexpected message content."

// WorkerOptions configure the Worker.
type WorkerOptions struct {
	// Parallelism bounds how many topics are processed at once. Values below
	// 1 mean sequential processing.
	Parallelism int
	// ResultsPerTopic is the MaxResults of every search; only the first hit
	// is used.
	ResultsPerTopic int
}

// Worker runs search, extraction and summarization for every topic and
// forwards the found resources to the Evaluator under the incoming task id.
type Worker struct {
	BaseAgent
	searcher   tool.Searcher
	extractor  tool.Extractor
	summarizer tool.Summarizer
	opts       WorkerOptions
}

// NewWorker creates a Worker with the given capabilities. Wrap them in
// fallback chains so that they never fail.
func NewWorker(searcher tool.Searcher, extractor tool.Extractor, summarizer tool.Summarizer, optFns ...func(o *WorkerOptions)) *Worker {
	opts := WorkerOptions{Parallelism: 1, ResultsPerTopic: 1}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.ResultsPerTopic < 1 {
		opts.ResultsPerTopic = 1
	}
	w := &Worker{
		BaseAgent:  NewBaseAgent(core.WorkerName, "worker"),
		searcher:   searcher,
		extractor:  extractor,
		summarizer: summarizer,
		opts:       opts,
	}
	w.SetDescription("Finds, extracts and summarizes one free learning resource per topic.")
	return w
}

// Handle implements core.Agent.
func (w *Worker) Handle(rc *core.RunContext, env core.Envelope) (core.Envelope, error) {
	topics, ok := env.Content.(core.TopicList)
	if !ok {
		return w.reject(rc, env, WorkerUnexpectedContent)
	}

	rc.LogInfo("processing topics", "agent", w.Name(), "topics", len(topics.Topics), "parallelism", w.opts.Parallelism)

	resources, err := w.process(rc, topics.Topics)
	if err != nil {
		return core.Envelope{}, err
	}

	rc.LogInfo("topics processed", "agent", w.Name(), "resources", len(resources), "skipped", len(topics.Topics)-len(resources))
	return rc.Forward(w.Name(), core.EvaluatorName, core.NewResourceBatch(resources), env.TaskID)
}

// process fans out over topics and restores input order.
func (w *Worker) process(rc *core.RunContext, topics []core.Topic) ([]core.Resource, error) {
	slots := make([]*core.Resource, len(topics))

	g, ctx := errgroup.WithContext(rc.Context)
	g.SetLimit(w.opts.Parallelism)
	for i, topic := range topics {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if r, ok := w.processTopic(ctx, rc, topic); ok {
				slots[i] = &r
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := rc.Err(); err != nil {
		return nil, err
	}

	out := make([]core.Resource, 0, len(topics))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (w *Worker) processTopic(ctx context.Context, rc *core.RunContext, topic core.Topic) (core.Resource, bool) {
	start := time.Now()

	results, err := w.searcher.Search(ctx, tool.SearchQuery{Topic: topic.Topic, Type: topic.Type, MaxResults: w.opts.ResultsPerTopic})
	if err != nil {
		rc.LogWarn("search failed, skipping topic", "agent", w.Name(), "topic", topic.Topic, "error", err)
		return core.Resource{}, false
	}
	if len(results) == 0 {
		rc.LogWarn("no resource found, skipping topic", "agent", w.Name(), "topic", topic.Topic)
		return core.Resource{}, false
	}
	hit := results[0]

	text, err := w.extractor.Extract(ctx, hit.Link)
	if err != nil {
		rc.LogWarn("extraction failed, skipping topic", "agent", w.Name(), "topic", topic.Topic, "link", hit.Link, "error", err)
		return core.Resource{}, false
	}

	summary, err := w.summarizer.Summarize(ctx, text)
	if err != nil {
		rc.LogWarn("summarization failed, skipping topic", "agent", w.Name(), "topic", topic.Topic, "link", hit.Link, "error", err)
		return core.Resource{}, false
	}

	ct := hit.Type
	if ct == "" {
		ct = topic.Type
	}

	rc.LogDebug("topic processed", "agent", w.Name(), "topic", topic.Topic, "link", hit.Link, "duration", time.Since(start))
	return core.Resource{
		Topic:   topic.Topic,
		Title:   hit.Title,
		Link:    hit.Link,
		Date:    hit.Date,
		Type:    ct,
		Summary: summary,
	}, true
}

var _ core.Agent = (*Worker)(nil)
