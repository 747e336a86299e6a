package tool

import (
	"context"
	"strings"
	"time"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/logging"
)

// FallbackHook is notified whenever a fallback substitutes the primary
// backend. err is nil when the substitution was caused by an empty answer.
type FallbackHook func(capability string, err error)

// FallbackOptions configure a fallback chain.
type FallbackOptions struct {
	Logger     logging.Logger
	OnFallback FallbackHook
	// FallbackOnEmpty substitutes the fallback when the primary succeeds with
	// an empty answer. Searchers default to false (zero results is a valid
	// answer), all other capabilities always fall back on empty output.
	FallbackOnEmpty bool
}

func newFallbackOptions(capability string, onEmpty bool, optFns []func(o *FallbackOptions)) FallbackOptions {
	opts := FallbackOptions{FallbackOnEmpty: onEmpty}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.Component(opts.Logger, capability)
	return opts
}

// chain runs primary and substitutes fallback on error or when usable
// rejects the answer. It never returns an error: a failing fallback yields
// the zero value.
func chain[T any](
	ctx context.Context,
	capability string,
	opts FallbackOptions,
	primary func(context.Context) (T, error),
	fallback func(context.Context) (T, error),
	usable func(T) bool,
) T {
	if primary != nil {
		start := time.Now()
		out, err := primary(ctx)
		dur := time.Since(start)
		if ml, ok := opts.Logger.(*logging.MeshLogger); ok {
			ml.LogToolCall(capability, dur, err == nil, err)
		}
		switch {
		case err != nil:
			opts.Logger.Warn("capability failed, using fallback", "capability", capability, "duration", dur, "error", err)
			notify(opts, capability, err)
		case !usable(out):
			opts.Logger.Info("capability returned no usable data, using fallback", "capability", capability, "duration", dur)
			notify(opts, capability, nil)
		default:
			opts.Logger.Debug("capability completed", "capability", capability, "duration", dur)
			return out
		}
	}

	out, err := fallback(ctx)
	if err != nil {
		opts.Logger.Error("fallback failed", "capability", capability, "error", err)
		var zero T
		return zero
	}
	return out
}

func notify(opts FallbackOptions, capability string, err error) {
	if opts.OnFallback != nil {
		opts.OnFallback(capability, err)
	}
}

// FallbackDecomposer never fails: primary errors or empty topic lists are
// replaced by the fallback decomposition.
type FallbackDecomposer struct {
	primary, fallback Decomposer
	opts              FallbackOptions
}

// NewFallbackDecomposer wraps primary (may be nil) with fallback.
func NewFallbackDecomposer(primary, fallback Decomposer, optFns ...func(o *FallbackOptions)) *FallbackDecomposer {
	return &FallbackDecomposer{primary: primary, fallback: fallback, opts: newFallbackOptions(CapabilityDecompose, true, optFns)}
}

// Decompose implements Decomposer. The returned error is always nil.
func (d *FallbackDecomposer) Decompose(ctx context.Context, goal string) ([]core.Topic, error) {
	var primary func(context.Context) ([]core.Topic, error)
	if d.primary != nil {
		primary = func(ctx context.Context) ([]core.Topic, error) { return d.primary.Decompose(ctx, goal) }
	}
	return chain(ctx, CapabilityDecompose, d.opts, primary,
		func(ctx context.Context) ([]core.Topic, error) { return d.fallback.Decompose(ctx, goal) },
		func(t []core.Topic) bool { return !d.opts.FallbackOnEmpty || len(t) > 0 },
	), nil
}

// FallbackSearcher never fails: primary errors (and, if configured, empty
// results) are replaced by the fallback search.
type FallbackSearcher struct {
	primary, fallback Searcher
	opts              FallbackOptions
}

// NewFallbackSearcher wraps primary (may be nil) with fallback.
func NewFallbackSearcher(primary, fallback Searcher, optFns ...func(o *FallbackOptions)) *FallbackSearcher {
	return &FallbackSearcher{primary: primary, fallback: fallback, opts: newFallbackOptions(CapabilitySearch, false, optFns)}
}

// Search implements Searcher. The returned error is always nil.
func (s *FallbackSearcher) Search(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	var primary func(context.Context) ([]SearchResult, error)
	if s.primary != nil {
		primary = func(ctx context.Context) ([]SearchResult, error) { return s.primary.Search(ctx, q) }
	}
	return chain(ctx, CapabilitySearch, s.opts, primary,
		func(ctx context.Context) ([]SearchResult, error) { return s.fallback.Search(ctx, q) },
		func(r []SearchResult) bool { return !s.opts.FallbackOnEmpty || len(r) > 0 },
	), nil
}

// FallbackExtractor never fails: primary errors or blank text are replaced
// by the fallback extraction.
type FallbackExtractor struct {
	primary, fallback Extractor
	opts              FallbackOptions
}

// NewFallbackExtractor wraps primary (may be nil) with fallback.
func NewFallbackExtractor(primary, fallback Extractor, optFns ...func(o *FallbackOptions)) *FallbackExtractor {
	return &FallbackExtractor{primary: primary, fallback: fallback, opts: newFallbackOptions(CapabilityExtract, true, optFns)}
}

// Extract implements Extractor. The returned error is always nil.
func (e *FallbackExtractor) Extract(ctx context.Context, link string) (string, error) {
	var primary func(context.Context) (string, error)
	if e.primary != nil {
		primary = func(ctx context.Context) (string, error) { return e.primary.Extract(ctx, link) }
	}
	return chain(ctx, CapabilityExtract, e.opts, primary,
		func(ctx context.Context) (string, error) { return e.fallback.Extract(ctx, link) },
		nonBlank,
	), nil
}

// FallbackSummarizer never fails: primary errors or blank summaries are
// replaced by the fallback summary.
type FallbackSummarizer struct {
	primary, fallback Summarizer
	opts              FallbackOptions
}

// NewFallbackSummarizer wraps primary (may be nil) with fallback.
func NewFallbackSummarizer(primary, fallback Summarizer, optFns ...func(o *FallbackOptions)) *FallbackSummarizer {
	return &FallbackSummarizer{primary: primary, fallback: fallback, opts: newFallbackOptions(CapabilitySummarize, true, optFns)}
}

// Summarize implements Summarizer. The returned error is always nil.
func (s *FallbackSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	var primary func(context.Context) (string, error)
	if s.primary != nil {
		primary = func(ctx context.Context) (string, error) { return s.primary.Summarize(ctx, text) }
	}
	return chain(ctx, CapabilitySummarize, s.opts, primary,
		func(ctx context.Context) (string, error) { return s.fallback.Summarize(ctx, text) },
		nonBlank,
	), nil
}

func nonBlank(s string) bool { return strings.TrimSpace(s) != "" }

var (
	_ Decomposer = (*FallbackDecomposer)(nil)
	_ Searcher   = (*FallbackSearcher)(nil)
	_ Extractor  = (*FallbackExtractor)(nil)
	_ Summarizer = (*FallbackSummarizer)(nil)
)
