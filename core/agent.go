package core

// Well-known agent names. The set is closed: every envelope's sender and
// recipient is drawn from it (the orchestrator name can be overridden on the
// engine, the default is OrchestratorName).
const (
	OrchestratorName = "MainAgent"
	PlannerName      = "Planner"
	WorkerName       = "Worker"
	EvaluatorName    = "Evaluator"
)

// Agent defines the contract every routable participant must implement.
//
// An agent is a pure function from an incoming envelope to an outgoing one.
// It may consult its own local state, the session view exposed by the
// RunContext and the capabilities it was constructed with. Routing is decided
// solely by the Recipient of the returned envelope.
//
// Implementations must:
//   - Never mutate the incoming envelope
//   - Build replies through the RunContext so session and task ids stay consistent
//   - Report protocol violations as an ErrorPayload reply, not as a Go error
//
// A non-nil error is reserved for conditions that make continuing impossible
// (context cancellation, a broken envelope constructor).
type Agent interface {
	Name() string
	Handle(rc *RunContext, env Envelope) (Envelope, error)
}

// AgentInfo carries identifying details about an agent used in logs & traces.
// Name is the external identifier; Type categorizes implementation (e.g. "planner", "worker").
type AgentInfo struct{ Name, Type string }
