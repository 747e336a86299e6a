package core

import "time"

// Envelope is the unit of communication between the orchestrator and its
// agents. After creation it must be treated as immutable: every processing
// step yields a new envelope. It captures:
//   - Routing (Sender, Recipient)
//   - Correlation (SessionID for the whole run, TaskID per exchange)
//   - The payload (a Content variant)
//   - A UTC creation timestamp, informational only
//
// Envelopes are constructed through Protocol.Create (or RunContext helpers)
// which validate the fields and derive a TaskID when none is propagated.
type Envelope struct {
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	TaskID    string    `json:"task_id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Content   Content   `json:"-"`
}

// Kind returns the discriminator of the carried content ("" if none).
func (e Envelope) Kind() ContentKind {
	if e.Content == nil {
		return ""
	}
	return e.Content.Kind()
}

// IsTerminal reports whether the envelope is addressed to orchestrator.
func (e Envelope) IsTerminal(orchestrator string) bool { return e.Recipient == orchestrator }

// Payload returns the canonical keyed mapping of the carried content.
func (e Envelope) Payload() map[string]any { return EncodeContent(e.Content) }
