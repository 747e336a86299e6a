package engine

import (
	"time"

	"github.com/hupe1980/edumesh/core"
)

// Outcome is the result of a completed run.
type Outcome struct {
	SessionID string
	RunID     string
	// Steps counts agent dispatches.
	Steps int
	// Payload is the content of the terminal envelope: a core.LearningPath on
	// success or a core.ErrorPayload for protocol violations.
	Payload core.Content
	// Trace lists every envelope of the run in routing order, starting with
	// the goal submission and ending with the terminal envelope.
	Trace    []core.Envelope
	Duration time.Duration
}

// Failed reports whether the run ended with an error payload.
func (o *Outcome) Failed() bool { return core.IsError(o.Payload) }

// ErrorMessage returns the message of an error payload ("" on success).
func (o *Outcome) ErrorMessage() string {
	if p, ok := o.Payload.(core.ErrorPayload); ok {
		return p.Message
	}
	return ""
}

// LearningPath returns the successful payload.
func (o *Outcome) LearningPath() (core.LearningPath, bool) {
	p, ok := o.Payload.(core.LearningPath)
	return p, ok
}

// Map returns the terminal payload as a keyed mapping. A failed run carries
// the "error" key, a successful one "main_goal" and "validated_path".
func (o *Outcome) Map() map[string]any { return core.EncodeContent(o.Payload) }
