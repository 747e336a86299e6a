package engine

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/edumesh/core"
	"github.com/hupe1980/edumesh/logging"
)

// CallbackType defines the specific lifecycle points where callbacks can be executed.
//
// Callbacks provide a flexible mechanism for hooking into the routing loop
// without modifying core logic. Each type represents a specific point in the
// lifecycle of a run where custom logic can be injected.
//
// Available callback types:
//   - BeforeDispatch/AfterDispatch: Around every agent invocation
//   - OnTerminal: When a run ends with a terminal envelope
//   - OnError: When a run fails with a Go error
//
// Callbacks are executed synchronously and can influence execution flow
// by returning errors that terminate the run.
type CallbackType string

const (
	// CallbackBeforeDispatch is triggered before an envelope is handed to its recipient.
	// Use for validation, auditing or instrumentation.
	CallbackBeforeDispatch CallbackType = "before_dispatch"

	// CallbackAfterDispatch is triggered after the recipient produced its reply.
	// Use for metrics collection or tracing.
	CallbackAfterDispatch CallbackType = "after_dispatch"

	// CallbackOnTerminal is triggered once the orchestrator receives the terminal envelope.
	CallbackOnTerminal CallbackType = "on_terminal"

	// CallbackOnError is triggered when a run fails.
	// Errors returned by OnError callbacks are ignored.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext provides context information for callback execution.
//
// The context is populated by the engine and passed to each callback. Fields
// that do not apply to a callback type are left zero.
type CallbackContext struct {
	// RunContext of the run, giving access to session and run ids.
	RunContext *core.RunContext

	// Envelope being dispatched (dispatch callbacks) or the last envelope
	// routed before a failure (OnError).
	Envelope core.Envelope

	// Reply produced by the recipient (AfterDispatch) or the terminal
	// envelope (OnTerminal).
	Reply core.Envelope

	// AgentName is the recipient handling Envelope.
	AgentName string

	// Step is the 1-based dispatch counter; for OnTerminal the total.
	Step int

	// Duration of the handler call (AfterDispatch) or of the whole run
	// (OnTerminal, OnError).
	Duration time.Duration

	// Err is the failure reported to OnError callbacks.
	Err error

	// CallbackType indicates which callback type triggered this execution.
	CallbackType CallbackType
}

// Callback defines the interface for routing lifecycle hooks.
//
// Implementations should be fast (callbacks run synchronously inside the
// routing loop) and must not mutate the envelopes they observe.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	// Returning an error will terminate the run.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	cb := NewFunctionCallback(
//	    CallbackBeforeDispatch,
//	    func(ctx context.Context, callbackCtx *CallbackContext) error {
//	        log.Printf("dispatching to %s", callbackCtx.AgentName)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager orchestrates callback execution throughout the run lifecycle.
//
// Callbacks are executed in registration order, and any callback returning
// an error will terminate execution and prevent subsequent callbacks from
// running. Registration and execution are safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates a new callback manager instance.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback to the manager for the specified type.
//
// Multiple callbacks can be registered for the same type and will be
// executed in registration order.
//
// Example:
//
//	manager := NewCallbackManager()
//	manager.RegisterCallback(loggingCallback)
//	manager.RegisterCallback(metricsCallback)
func (cm *CallbackManager) RegisterCallback(callbacks ...Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for _, callback := range callbacks {
		callbackType := callback.Type()
		cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
	}
}

// ExecuteCallbacks executes all registered callbacks for the specified type.
//
// Callbacks are executed sequentially in registration order. If any callback
// returns an error, execution stops immediately and the error is returned.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	cm.mu.RLock()
	callbacks := cm.callbacks[callbackType]
	cm.mu.RUnlock()

	callbackCtx.CallbackType = callbackType
	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}

// LoggingCallback writes every lifecycle event of its type to a logger.
//
// Example:
//
//	manager.RegisterCallback(
//	    NewLoggingCallback(CallbackAfterDispatch, logger),
//	    NewLoggingCallback(CallbackOnError, logger),
//	)
type LoggingCallback struct {
	callbackType CallbackType
	logger       logging.Logger
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger logging.Logger) *LoggingCallback {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the lifecycle event with context information.
func (c *LoggingCallback) Execute(_ context.Context, callbackCtx *CallbackContext) error {
	args := []any{
		"callback", string(c.callbackType),
		"agent", callbackCtx.AgentName,
		"step", callbackCtx.Step,
		"task_id", callbackCtx.Envelope.TaskID,
		"kind", string(callbackCtx.Envelope.Kind()),
	}
	if callbackCtx.RunContext != nil {
		args = append(args, "session_id", callbackCtx.RunContext.SessionID)
	}
	if callbackCtx.Duration > 0 {
		args = append(args, "duration", callbackCtx.Duration)
	}

	if callbackCtx.Err != nil {
		c.logger.Error("run failed", append(args, "error", callbackCtx.Err)...)
		return nil
	}
	c.logger.Info("routing event", args...)
	return nil
}
