package testutil

import (
	"context"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/logging"
	"github.com/hupe1980/edumesh/session"
)

// SessionBuilder helps construct sessions and run contexts with fluent
// chaining for tests.
// Example:
//
//	rc := NewSessionBuilder("sess-1").State("goal", "learn go").RunContext(ctx)
type SessionBuilder struct {
	id     string
	state  map[string]any
	logger logging.Logger
}

// NewSessionBuilder creates a new builder for a session with the given id.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, state: map[string]any{}}
}

// State sets or overwrites a state key/value pair on the resulting session (chainable).
func (b *SessionBuilder) State(key string, val any) *SessionBuilder {
	b.state[key] = val
	return b
}

// Logger sets the logger of the resulting run context (chainable).
func (b *SessionBuilder) Logger(l logging.Logger) *SessionBuilder {
	b.logger = l
	return b
}

// Build returns a *core.Session with pre-populated state.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id)
	s.ApplyStateDelta(b.state)
	return s
}

// Store returns an in-memory store holding the session (when state was set).
func (b *SessionBuilder) Store() *session.InMemoryStore {
	store := session.NewInMemoryStore()
	if len(b.state) > 0 {
		_ = store.ApplyDelta(b.id, b.state)
	}
	return store
}

// RunContext returns a run context bound to the session backed by Store.
func (b *SessionBuilder) RunContext(ctx context.Context) *core.RunContext {
	return core.NewRunContext(ctx, b.id, "run-1", nil, b.Store(), b.logger)
}
