// Package core provides the foundational domain types and interfaces used by
// edumesh. It defines the abstractions the orchestrator and its agents share:
//
//   - Envelopes (immutable inter-agent messages) and the Protocol that stamps them
//   - Content (a closed set of payload variants exchanged between agents)
//   - Topics and Resources (the learning path building blocks)
//   - Agents (named envelope handlers) and the RunContext passed to them
//   - Session records and the pluggable SessionStore
//
// Implementation concerns (routing, concrete agents, capability backends) live
// in sibling packages. The types here are small on purpose so alternative
// agents and stores can be plugged in without touching the engine.
package core
