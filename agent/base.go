package agent

import (
	"fmt"

	"github.com/hupe1980/edumesh/core"
)

// BaseAgent bundles identity helpers shared by the role agents. Embed it in
// concrete agent implementations and supply a Handle method to satisfy the
// core.Agent interface.
type BaseAgent struct {
	name        string // Routing name
	description string // Detailed description of agent's purpose
	kind        string // Implementation category used in logs
}

// NewBaseAgent constructs a BaseAgent with generated description (customizable via SetDescription).
func NewBaseAgent(name, kind string) BaseAgent {
	return BaseAgent{
		name:        name,
		kind:        kind,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the routing name of this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// Info returns the identifying details used in logs and traces.
func (b *BaseAgent) Info() core.AgentInfo { return core.AgentInfo{Name: b.name, Type: b.kind} }

// reject answers env with a terminal ErrorPayload.
func (b *BaseAgent) reject(rc *core.RunContext, env core.Envelope, message string) (core.Envelope, error) {
	rc.LogWarn("unexpected message content",
		"agent", b.name,
		"sender", env.Sender,
		"kind", string(env.Kind()),
		"task_id", env.TaskID,
	)
	return rc.Terminal(b.name, core.ErrorPayload{Message: message})
}
