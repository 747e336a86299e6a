package core

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Protocol stamps new envelopes for a single run. Task ids are derived from
// the sender, the recipient and a run-scoped monotonic counter, so two
// envelopes between the same pair never collide however fast they are created.
type Protocol struct {
	seq   atomic.Uint64
	clock func() time.Time
}

// NewProtocol returns a Protocol using the wall clock.
func NewProtocol() *Protocol {
	return &Protocol{clock: time.Now}
}

// WithClock replaces the timestamp source (tests).
func (p *Protocol) WithClock(clock func() time.Time) *Protocol {
	if clock != nil {
		p.clock = clock
	}
	return p
}

// NextTaskID derives a fresh task id for the sender -> recipient exchange.
func (p *Protocol) NextTaskID(sender, recipient string) string {
	return fmt.Sprintf("%s_%s_%d", sender, recipient, p.seq.Add(1))
}

// Create validates the inputs and returns a new Envelope. An empty taskID is
// replaced by NextTaskID; a non-empty one is propagated unchanged.
func (p *Protocol) Create(sender, recipient string, content Content, sessionID, taskID string) (Envelope, error) {
	switch {
	case strings.TrimSpace(sender) == "":
		return Envelope{}, fmt.Errorf("%w: sender is required", ErrInvalidEnvelope)
	case strings.TrimSpace(recipient) == "":
		return Envelope{}, fmt.Errorf("%w: recipient is required", ErrInvalidEnvelope)
	case strings.TrimSpace(sessionID) == "":
		return Envelope{}, fmt.Errorf("%w: session id is required", ErrInvalidEnvelope)
	case content == nil:
		return Envelope{}, fmt.Errorf("%w: content is required", ErrInvalidEnvelope)
	}

	if taskID == "" {
		taskID = p.NextTaskID(sender, recipient)
	}

	return Envelope{
		Sender:    sender,
		Recipient: recipient,
		TaskID:    taskID,
		SessionID: sessionID,
		Timestamp: p.now(),
		Content:   content,
	}, nil
}

func (p *Protocol) now() time.Time {
	if p.clock == nil {
		return time.Now().UTC()
	}
	return p.clock().UTC()
}
