package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/logging"
	"github.com/hupe1980/edumesh/session"
)

// Config defines tuning parameters for the routing loop.
//
// Example:
//
//	cfg := Config{
//	    MaxSteps: 10,
//	    OrchestratorName: "Coordinator",
//	    EntryAgent: core.PlannerName,
//	}
type Config struct {
	// MaxSteps bounds the number of dispatches per run. A misbehaving agent
	// that keeps routing envelopes in a cycle fails the run with a
	// *core.RoutingLoopExceededError. Zero disables the bound.
	MaxSteps int

	// OrchestratorName is the name the engine is addressable under. An
	// envelope sent to it ends the run.
	OrchestratorName string

	// EntryAgent receives the goal submission.
	EntryAgent string
}

// DefaultConfig provides the default configuration values:
//   - MaxSteps: 20 (a successful run needs 4)
//   - OrchestratorName: "MainAgent"
//   - EntryAgent: "Planner"
var DefaultConfig = Config{
	MaxSteps:         20,
	OrchestratorName: core.OrchestratorName,
	EntryAgent:       core.PlannerName,
}

// Options configures an Engine instance using the functional options pattern.
//
// Example:
//
//	e := New(func(o *Options) {
//	    o.Config.MaxSteps = 10
//	    o.Logger = logger
//	})
type Options struct {
	// Config contains operational parameters for the routing loop.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// SessionStore holds per-session state written by the agents.
	// Defaults to an in-memory implementation if not provided.
	SessionStore core.SessionStore

	// Callbacks receive routing lifecycle events (metrics, auditing).
	Callbacks *CallbackManager

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger

	// Clock stamps envelope timestamps. Defaults to time.Now.
	Clock func() time.Time
}

// Engine is the orchestrator: it owns the agent registry and runs the routing
// loop that moves envelopes between agents until one is addressed back to the
// orchestrator itself.
//
// The engine never inspects payloads to decide routing; the recipient of
// each reply is the only routing input. It is a strict state machine:
//
//	MainAgent -> Planner -> Worker -> Evaluator -> Planner -> MainAgent
//
// emerges purely from the recipients the agents choose.
//
// Concurrency Model:
//   - Thread-safe agent registration and lookup via RWMutex
//   - Each Submit runs its own strictly sequential loop with a run-scoped
//     Protocol, so concurrent runs never share task id counters
type Engine struct {
	sessionStore core.SessionStore
	callbacks    *CallbackManager
	logger       logging.Logger
	clock        func() time.Time

	config Config

	// Agent registry - protected by mutex for thread-safe access
	agents map[string]core.Agent
	mu     sync.RWMutex
}

// New creates a new Engine instance with sensible defaults and optional configuration.
//
// Examples:
//
//	// Minimal setup with all defaults
//	e := New()
//
//	// Custom store and logger
//	e := New(func(o *Options) {
//	    o.SessionStore = myStore
//	    o.Logger = myLogger
//	})
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:       DefaultConfig,
		SessionStore: session.NewInMemoryStore(),
		Callbacks:    NewCallbackManager(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Config.OrchestratorName == "" {
		opts.Config.OrchestratorName = DefaultConfig.OrchestratorName
	}
	if opts.Config.EntryAgent == "" {
		opts.Config.EntryAgent = DefaultConfig.EntryAgent
	}
	if opts.Callbacks == nil {
		opts.Callbacks = NewCallbackManager()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Engine{
		sessionStore: opts.SessionStore,
		callbacks:    opts.Callbacks,
		logger:       opts.Logger,
		clock:        opts.Clock,
		config:       opts.Config,
		agents:       make(map[string]core.Agent),
	}
}

// Register adds agents to the registry under their names. An agent with
// the same name is replaced. Registering under the orchestrator name is an
// error since envelopes addressed to it are never dispatched.
func (e *Engine) Register(agents ...core.Agent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range agents {
		if a.Name() == e.config.OrchestratorName {
			return fmt.Errorf("agent name %q is reserved for the orchestrator", a.Name())
		}
		e.agents[a.Name()] = a
	}
	return nil
}

// GetAgent retrieves a registered agent by name.
func (e *Engine) GetAgent(name string) (core.Agent, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.agents[name]
	return a, ok
}

// Agents returns the sorted names of all registered agents.
func (e *Engine) Agents() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.agents))
	for name := range e.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Callbacks returns the callback manager for registration.
func (e *Engine) Callbacks() *CallbackManager { return e.callbacks }

// GetSession returns a copy of the state accumulated for sessionID.
func (e *Engine) GetSession(sessionID string) (*core.Session, error) {
	sess, ok, err := e.sessionStore.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return sess, nil
}

// Submit runs the pipeline for a free-text learning goal.
//
// A fresh session id is generated and the goal is sent to the entry agent.
// The routing loop then dispatches every reply to its recipient until an
// envelope addressed to the orchestrator arrives; its content becomes the
// Outcome payload.
//
// Protocol violations end the run with an error payload (Outcome.Failed).
// Go errors are reserved for configuration and runtime failures:
//   - core.ErrEmptyGoal for a blank goal
//   - *core.UnknownRecipientError when a reply names an unregistered agent
//   - *core.RoutingLoopExceededError when MaxSteps is exceeded
//   - *core.AgentError when a handler returns an error
//   - core.ErrSessionMismatch when a reply carries a foreign session id
//   - core.ErrInvalidEnvelope when a reply lacks a recipient or content
//   - the context error when ctx is cancelled between steps
func (e *Engine) Submit(ctx context.Context, goal string) (*Outcome, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, core.ErrEmptyGoal
	}

	sessionID, runID := core.NewID(), core.NewID()

	protocol := core.NewProtocol()
	if e.clock != nil {
		protocol = protocol.WithClock(e.clock)
	}

	rc := core.NewRunContext(ctx, sessionID, runID, protocol, e.sessionStore, logging.Component(e.logger, "engine"))
	rc.Orchestrator = e.config.OrchestratorName

	initial, err := rc.NewEnvelope(e.config.OrchestratorName, e.config.EntryAgent, core.GoalSubmission{UserInput: goal})
	if err != nil {
		return nil, err
	}

	rc.LogInfo("run started", "goal", goal)
	return e.route(rc, initial)
}

// route is the routing loop. It is strictly sequential: one envelope in
// flight, one agent invocation at a time.
func (e *Engine) route(rc *core.RunContext, initial core.Envelope) (*Outcome, error) {
	start := time.Now()
	limiter := core.NewStepLimiter(e.config.MaxSteps)
	orchestrator := e.config.OrchestratorName

	current := initial
	trace := []core.Envelope{initial}

	for !current.IsTerminal(orchestrator) {
		if err := rc.Err(); err != nil {
			return nil, e.fail(rc, current, start, err)
		}

		agent, ok := e.GetAgent(current.Recipient)
		if !ok {
			return nil, e.fail(rc, current, start, &core.UnknownRecipientError{Name: current.Recipient})
		}

		if err := limiter.Increment(); err != nil {
			return nil, e.fail(rc, current, start, err)
		}
		step := limiter.Count()

		cbCtx := &CallbackContext{RunContext: rc, Envelope: current, AgentName: agent.Name(), Step: step}
		if err := e.callbacks.ExecuteCallbacks(rc.Context, CallbackBeforeDispatch, cbCtx); err != nil {
			return nil, e.fail(rc, current, start, fmt.Errorf("before dispatch callback: %w", err))
		}

		e.logRoute(rc, step, current)

		t0 := time.Now()
		reply, err := agent.Handle(rc, current)
		if err != nil {
			return nil, e.fail(rc, current, start, &core.AgentError{Agent: agent.Name(), Err: err})
		}
		if err := e.validateReply(rc, agent.Name(), reply); err != nil {
			return nil, e.fail(rc, current, start, err)
		}

		cbCtx.Reply = reply
		cbCtx.Duration = time.Since(t0)
		if err := e.callbacks.ExecuteCallbacks(rc.Context, CallbackAfterDispatch, cbCtx); err != nil {
			return nil, e.fail(rc, current, start, fmt.Errorf("after dispatch callback: %w", err))
		}

		trace = append(trace, reply)
		current = reply
	}

	outcome := &Outcome{
		SessionID: rc.SessionID,
		RunID:     rc.RunID,
		Steps:     limiter.Count(),
		Payload:   current.Content,
		Trace:     trace,
		Duration:  time.Since(start),
	}

	cbCtx := &CallbackContext{
		RunContext: rc,
		Envelope:   current,
		Reply:      current,
		AgentName:  current.Sender,
		Step:       outcome.Steps,
		Duration:   outcome.Duration,
	}
	if err := e.callbacks.ExecuteCallbacks(rc.Context, CallbackOnTerminal, cbCtx); err != nil {
		return nil, e.fail(rc, current, start, fmt.Errorf("terminal callback: %w", err))
	}

	e.logRun(rc, outcome.Steps, outcome.Duration, !outcome.Failed(), nil)
	if outcome.Failed() {
		rc.LogWarn("run ended with error payload", "error", outcome.ErrorMessage())
	}
	return outcome, nil
}

func (e *Engine) validateReply(rc *core.RunContext, agent string, reply core.Envelope) error {
	switch {
	case reply.SessionID != rc.SessionID:
		return fmt.Errorf("%w: agent %s replied with %q, run is %q", core.ErrSessionMismatch, agent, reply.SessionID, rc.SessionID)
	case reply.Recipient == "":
		return fmt.Errorf("%w: agent %s replied without recipient", core.ErrInvalidEnvelope, agent)
	case reply.Content == nil:
		return fmt.Errorf("%w: agent %s replied without content", core.ErrInvalidEnvelope, agent)
	}
	return nil
}

// fail notifies OnError callbacks and returns err unchanged.
func (e *Engine) fail(rc *core.RunContext, last core.Envelope, start time.Time, err error) error {
	dur := time.Since(start)
	_ = e.callbacks.ExecuteCallbacks(context.WithoutCancel(rc.Context), CallbackOnError, &CallbackContext{
		RunContext: rc,
		Envelope:   last,
		AgentName:  last.Recipient,
		Duration:   dur,
		Err:        err,
	})

	var unknown *core.UnknownRecipientError
	if errors.As(err, &unknown) {
		rc.LogError("unknown recipient", "recipient", unknown.Name, "sender", last.Sender)
	}
	e.logRun(rc, 0, dur, false, err)
	return err
}

func (e *Engine) logRoute(rc *core.RunContext, step int, env core.Envelope) {
	if ml, ok := rc.Logger().(*logging.MeshLogger); ok {
		ml.LogRoute(step, env.Sender, env.Recipient, string(env.Kind()), env.TaskID)
		return
	}
	rc.LogDebug("routing envelope", "step", step, "from", env.Sender, "to", env.Recipient, "kind", string(env.Kind()), "task_id", env.TaskID)
}

func (e *Engine) logRun(rc *core.RunContext, steps int, dur time.Duration, success bool, err error) {
	if ml, ok := rc.Logger().(*logging.MeshLogger); ok {
		ml.LogRun(steps, dur, success, err)
		return
	}
	if err != nil {
		rc.LogError("run failed", "duration", dur, "error", err)
		return
	}
	rc.LogInfo("run completed", "steps", steps, "duration", dur, "success", success)
}
