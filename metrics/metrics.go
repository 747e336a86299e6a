// Package metrics exposes Prometheus metrics for pipeline runs: dispatches per
// agent, run outcomes and durations, and capability fallbacks. A Collector
// hooks into the engine callbacks and the tool fallback chains.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/engine"
	"github.com/hupe1980/edumesh/tool"
)

const namespace = "edumesh"

// Run outcome label values.
const (
	OutcomeSuccess      = "success"
	OutcomeErrorPayload = "error_payload"
	OutcomeFailed       = "failed"
)

// Fallback reason label values.
const (
	ReasonError = "error"
	ReasonEmpty = "empty"
)

// Collector owns a private registry with the pipeline metrics.
type Collector struct {
	registry *prometheus.Registry

	dispatches       *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	fallbacks        *prometheus.CounterVec
}

// New creates a Collector and registers its metrics.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Envelopes dispatched to agents.",
		}, []string{"agent"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in agent handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"agent"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "End to end run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capability_fallbacks_total",
			Help:      "Capability calls answered by the fallback.",
		}, []string{"capability", "reason"}),
	}

	c.registry.MustRegister(c.dispatches, c.dispatchDuration, c.runs, c.runDuration, c.fallbacks)
	return c
}

// Registry returns the registry holding the pipeline metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Register attaches the collector to an engine callback manager.
func (c *Collector) Register(cm *engine.CallbackManager) {
	cm.RegisterCallback(
		engine.NewFunctionCallback(engine.CallbackAfterDispatch, c.afterDispatch),
		engine.NewFunctionCallback(engine.CallbackOnTerminal, c.onTerminal),
		engine.NewFunctionCallback(engine.CallbackOnError, c.onError),
	)
}

// FallbackHook returns a hook for tool.FallbackOptions.OnFallback.
func (c *Collector) FallbackHook() tool.FallbackHook {
	return func(capability string, err error) {
		reason := ReasonEmpty
		if err != nil {
			reason = ReasonError
		}
		c.fallbacks.WithLabelValues(capability, reason).Inc()
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteToTextfile writes the metrics to path for the node exporter textfile
// collector.
func (c *Collector) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func (c *Collector) afterDispatch(_ context.Context, cbCtx *engine.CallbackContext) error {
	c.dispatches.WithLabelValues(cbCtx.AgentName).Inc()
	c.dispatchDuration.WithLabelValues(cbCtx.AgentName).Observe(cbCtx.Duration.Seconds())
	return nil
}

func (c *Collector) onTerminal(_ context.Context, cbCtx *engine.CallbackContext) error {
	outcome := OutcomeSuccess
	if core.IsError(cbCtx.Reply.Content) {
		outcome = OutcomeErrorPayload
	}
	c.runs.WithLabelValues(outcome).Inc()
	c.runDuration.Observe(cbCtx.Duration.Seconds())
	return nil
}

func (c *Collector) onError(_ context.Context, cbCtx *engine.CallbackContext) error {
	c.runs.WithLabelValues(OutcomeFailed).Inc()
	c.runDuration.Observe(cbCtx.Duration.Seconds())
	return nil
}
