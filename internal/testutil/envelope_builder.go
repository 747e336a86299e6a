package testutil

import (
	"time"

	"github.com/hupe1980/edumesh/core"
)

// EnvelopeBuilder provides a fluent helper for constructing envelopes in
// tests without going through a Protocol.
// Example:
//
//	env := NewEnvelopeBuilder().From("Worker").To("Evaluator").Task("t-1").Content(batch).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type EnvelopeBuilder struct {
	sender, recipient string
	taskID, sessionID string
	ts                time.Time
	content           core.Content
}

// NewEnvelopeBuilder creates a builder for a MainAgent -> Planner envelope in
// session "sess-1".
func NewEnvelopeBuilder() *EnvelopeBuilder {
	return &EnvelopeBuilder{
		sender:    core.OrchestratorName,
		recipient: core.PlannerName,
		taskID:    "task-1",
		sessionID: "sess-1",
		ts:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// From sets the sender (chainable).
func (b *EnvelopeBuilder) From(s string) *EnvelopeBuilder { b.sender = s; return b }

// To sets the recipient (chainable).
func (b *EnvelopeBuilder) To(r string) *EnvelopeBuilder { b.recipient = r; return b }

// Task sets the task id (chainable).
func (b *EnvelopeBuilder) Task(id string) *EnvelopeBuilder { b.taskID = id; return b }

// Session sets the session id (chainable).
func (b *EnvelopeBuilder) Session(id string) *EnvelopeBuilder { b.sessionID = id; return b }

// Content sets the payload (chainable).
func (b *EnvelopeBuilder) Content(c core.Content) *EnvelopeBuilder { b.content = c; return b }

// Goal sets a GoalSubmission payload (chainable).
func (b *EnvelopeBuilder) Goal(goal string) *EnvelopeBuilder {
	b.content = core.GoalSubmission{UserInput: goal}
	return b
}

// Build returns the envelope.
func (b *EnvelopeBuilder) Build() core.Envelope {
	return core.Envelope{
		Sender:    b.sender,
		Recipient: b.recipient,
		TaskID:    b.taskID,
		SessionID: b.sessionID,
		Timestamp: b.ts,
		Content:   b.content,
	}
}

// ResourceBuilder constructs resources that pass the default scoring policy
// unless told otherwise.
type ResourceBuilder struct {
	r core.Resource
}

// NewResource starts a Video resource for topic titled "The Ultimate Guide to
// {topic}" dated 2024-05-01.
func NewResource(topic string) *ResourceBuilder {
	return &ResourceBuilder{r: core.Resource{
		Topic:   topic,
		Title:   "The Ultimate Guide to " + topic,
		Link:    "https://example.com/topic/" + topic,
		Date:    "2024-05-01",
		Type:    core.ContentTypeVideo,
		Summary: "summary of " + topic,
	}}
}

// Title sets the title (chainable).
func (b *ResourceBuilder) Title(t string) *ResourceBuilder { b.r.Title = t; return b }

// Date sets the date (chainable).
func (b *ResourceBuilder) Date(d string) *ResourceBuilder { b.r.Date = d; return b }

// Type sets the content type (chainable).
func (b *ResourceBuilder) Type(ct core.ContentType) *ResourceBuilder { b.r.Type = ct; return b }

// Link sets the link (chainable).
func (b *ResourceBuilder) Link(l string) *ResourceBuilder { b.r.Link = l; return b }

// Build returns the resource.
func (b *ResourceBuilder) Build() core.Resource { return b.r }
