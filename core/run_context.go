package core

import (
	"context"
	"fmt"

	"github.com/hupe1980/edumesh/logging"
)

// RunContext carries execution state & helpers for one orchestration run.
// It is created by the engine per Submit call and handed to every agent
// invocation of that run. It aggregates:
//   - The ambient cancellation Context
//   - Identifiers (SessionID stable for the run, RunID for log correlation)
//   - The run-scoped Protocol used to stamp reply envelopes
//   - The SessionStore backing the session view
//   - A logger scoped to the run (every record carries both ids)
//
// Orchestrator names the terminal recipient; empty means OrchestratorName.
type RunContext struct {
	Context          context.Context
	SessionID, RunID string
	Orchestrator     string
	Protocol         *Protocol
	SessionStore     SessionStore

	*runLogger
}

// NewRunContext constructs a RunContext. A nil protocol is replaced by a
// fresh one; a nil logger by a NoOpLogger.
func NewRunContext(
	ctx context.Context,
	sessionID, runID string,
	protocol *Protocol,
	sessionStore SessionStore,
	logger logging.Logger,
) *RunContext {
	if protocol == nil {
		protocol = NewProtocol()
	}
	return &RunContext{
		Context:      ctx,
		SessionID:    sessionID,
		RunID:        runID,
		Protocol:     protocol,
		SessionStore: sessionStore,
		runLogger:    newRunLogger(logger, sessionID, runID),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// NewEnvelope stamps a new envelope for this run with a derived task id.
func (rc *RunContext) NewEnvelope(sender, recipient string, content Content) (Envelope, error) {
	return rc.Protocol.Create(sender, recipient, content, rc.SessionID, "")
}

// Forward stamps a new envelope for this run propagating taskID unchanged.
// An empty taskID falls back to a derived one.
func (rc *RunContext) Forward(sender, recipient string, content Content, taskID string) (Envelope, error) {
	return rc.Protocol.Create(sender, recipient, content, rc.SessionID, taskID)
}

// OrchestratorName returns the name terminal envelopes are addressed to.
func (rc *RunContext) OrchestratorName() string {
	if rc.Orchestrator == "" {
		return OrchestratorName
	}
	return rc.Orchestrator
}

// Terminal stamps an envelope addressed to the orchestrator, ending the run.
func (rc *RunContext) Terminal(sender string, content Content) (Envelope, error) {
	return rc.Protocol.Create(sender, rc.OrchestratorName(), content, rc.SessionID, "")
}

// GetState returns a value from the run's session record.
func (rc *RunContext) GetState(k string) (any, bool) {
	if rc.SessionStore == nil {
		return nil, false
	}
	sess, ok, err := rc.SessionStore.Get(rc.SessionID)
	if err != nil {
		rc.LogWarn("session lookup failed", "session_id", rc.SessionID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return sess.GetState(k)
}

// GetStringState returns the string stored under k or fallback when absent or
// not a string.
func (rc *RunContext) GetStringState(k, fallback string) string {
	v, ok := rc.GetState(k)
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

// ApplyStateDelta merges d into the run's session record.
func (rc *RunContext) ApplyStateDelta(d map[string]any) error {
	if rc.SessionStore == nil {
		return fmt.Errorf("session store not configured")
	}
	return rc.SessionStore.ApplyDelta(rc.SessionID, d)
}
