// Package agent contains the role agents of the learning path pipeline:
//
//  1. Planner decomposes a goal into topics and assembles the final path
//  2. Worker finds, extracts and summarizes one resource per topic
//  3. Evaluator scores resources and drops those below the pass threshold
//
// Every agent is a function from an incoming envelope to a reply envelope. It
// consults only its own configuration, the session view of the RunContext and
// the capabilities it was constructed with. Routing is decided by the
// recipient of the reply; the engine never inspects payloads.
//
// Protocol violations (a payload the agent does not understand) are answered
// with a terminal ErrorPayload, never with a Go error.
package agent
