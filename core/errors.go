package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEnvelope is returned by Protocol.Create for missing fields.
	ErrInvalidEnvelope = errors.New("invalid envelope")
	// ErrSessionMismatch signals a reply carrying a foreign session id.
	ErrSessionMismatch = errors.New("session id mismatch")
	// ErrEmptyGoal is returned when a blank goal is submitted.
	ErrEmptyGoal = errors.New("goal must not be empty")
)

// UnknownRecipientError is returned when an envelope names an agent that is not
// registered. It is a configuration error and is never retried.
type UnknownRecipientError struct {
	Name string
}

func (e *UnknownRecipientError) Error() string {
	return fmt.Sprintf("unknown agent recipient: %s", e.Name)
}

// RoutingLoopExceededError is returned when a run dispatches more envelopes than
// the configured maximum.
type RoutingLoopExceededError struct {
	Max int
}

func (e *RoutingLoopExceededError) Error() string {
	return fmt.Sprintf("routing loop exceeded max steps: %d", e.Max)
}

// AgentError wraps a Go error returned by an agent handler.
type AgentError struct {
	Agent string
	Err   error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s: %v", e.Agent, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }
