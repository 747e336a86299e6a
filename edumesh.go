// Package edumesh provides a high-level façade over the routing engine and
// the three learning-path agents. Most applications interact with this
// package by:
//  1. Creating an EduMesh via New() (optionally overriding capabilities,
//     scoring policy, session store and logger)
//  2. Submitting goals with Submit and reading the learning path from the
//     returned outcome
//
// Every capability left unset runs on its deterministic offline
// implementation, so New() with no options works without network access.
// Configured capabilities are wrapped in fallback chains that substitute the
// offline implementation whenever the primary fails.
package edumesh

import (
	"context"

	"github.com/hupe1980/edumesh/agent"
	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/engine"
	"github.com/hupe1980/edumesh/logging"
	"github.com/hupe1980/edumesh/session"
	"github.com/hupe1980/edumesh/tool"
	"github.com/hupe1980/edumesh/tool/decompose"
	"github.com/hupe1980/edumesh/tool/extract"
	"github.com/hupe1980/edumesh/tool/search"
	"github.com/hupe1980/edumesh/tool/summarize"
)

// Options configures the EduMesh instance.
type Options struct {
	// Engine configuration (step bound, orchestrator name)
	EngineConfig engine.Config

	// Primary capabilities. Nil means the offline implementation is used
	// directly.
	Decomposer tool.Decomposer
	Searcher   tool.Searcher
	Extractor  tool.Extractor
	Summarizer tool.Summarizer

	// SearchFallbackOnEmpty substitutes mock results when the primary
	// searcher finds nothing.
	SearchFallbackOnEmpty bool

	// OnFallback is notified about every capability substitution.
	OnFallback tool.FallbackHook

	// WorkerParallelism bounds concurrent topic processing in the Worker.
	WorkerParallelism int

	// ScoringPolicy drives the Evaluator.
	ScoringPolicy agent.ScoringPolicy

	// SessionStore defaults to an in-memory implementation.
	SessionStore core.SessionStore

	// Callbacks receive routing lifecycle events.
	Callbacks *engine.CallbackManager

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// EduMesh is the high-level façade aggregating the engine and its agents.
type EduMesh struct {
	engine *engine.Engine
}

// New creates a new EduMesh with the Planner, Worker and Evaluator
// registered.
func New(optFns ...func(o *Options)) (*EduMesh, error) {
	opts := Options{
		EngineConfig:      engine.DefaultConfig,
		WorkerParallelism: 1,
		ScoringPolicy:     agent.DefaultScoringPolicy(),
		SessionStore:      session.NewInMemoryStore(),
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore()
	}

	withHook := func(o *tool.FallbackOptions) {
		o.Logger = opts.Logger
		o.OnFallback = opts.OnFallback
	}

	decomposer := tool.NewFallbackDecomposer(opts.Decomposer, decompose.NewHeuristic(), withHook)
	searcher := tool.NewFallbackSearcher(opts.Searcher, search.NewMock(), withHook, func(o *tool.FallbackOptions) {
		o.FallbackOnEmpty = opts.SearchFallbackOnEmpty
	})
	extractor := tool.NewFallbackExtractor(opts.Extractor, extract.NewMock(), withHook)
	summarizer := tool.NewFallbackSummarizer(opts.Summarizer, summarize.NewMock(), withHook)

	e := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.SessionStore = opts.SessionStore
		o.Callbacks = opts.Callbacks
		o.Logger = opts.Logger
	})

	if err := e.Register(
		agent.NewPlanner(decomposer),
		agent.NewWorker(searcher, extractor, summarizer, func(o *agent.WorkerOptions) {
			o.Parallelism = opts.WorkerParallelism
		}),
		agent.NewEvaluator(func(o *agent.EvaluatorOptions) {
			o.Policy = opts.ScoringPolicy
		}),
	); err != nil {
		return nil, err
	}

	return &EduMesh{engine: e}, nil
}

// Submit runs the full planning pipeline for goal.
func (m *EduMesh) Submit(ctx context.Context, goal string) (*engine.Outcome, error) {
	return m.engine.Submit(ctx, goal)
}

// Engine returns the underlying engine.
func (m *EduMesh) Engine() *engine.Engine {
	return m.engine
}
