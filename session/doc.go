// Package session contains SessionStore implementations.
//
// The in-memory store is the only backend: session records live for the
// lifetime of the process and are keyed by the session id the engine
// generates per run.
package session
