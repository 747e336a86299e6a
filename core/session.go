package core

import (
	"maps"
	"sync"
	"time"
)

// Well-known session state keys.
const (
	StateKeyGoal       = "goal"
	StateKeySkillLevel = "skill_level"
)

// Session is the flat key/value record accumulated for one orchestration run.
// It is safe for concurrent access.
//
// Contract:
//   - State mutations update the Updated timestamp
//   - Values are merged shallowly, later keys overwrite earlier ones
//   - Clone performs a copy of the state map for safe divergence.
type Session struct {
	ID      string         `json:"id"`
	State   map[string]any `json:"state"`
	Created time.Time      `json:"created"`
	Updated time.Time      `json:"updated"`
	mu      sync.RWMutex
}

// NewSession creates a new, empty session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, State: map[string]any{}, Created: now, Updated: now}
}

// GetState returns the value and existence flag for a state key.
func (s *Session) GetState(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.State[key]
	return v, ok
}

// SetState sets a key/value pair in session state updating the Updated timestamp.
func (s *Session) SetState(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State[key] = value
	s.Updated = time.Now()
}

// ApplyStateDelta merges the provided key/value pairs into State.
func (s *Session) ApplyStateDelta(delta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.State, delta)
	s.Updated = time.Now()
}

// Clone returns a copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Session{ID: s.ID, State: maps.Clone(s.State), Created: s.Created, Updated: s.Updated}
}

// SessionStore keeps session records keyed by session id.
//
// Records are created on first write and never deleted during a run.
// Implementations must make ApplyDelta atomic per session id so concurrent
// runs cannot interleave partial updates.
type SessionStore interface {
	// Get returns a snapshot of the session. The boolean is false (and the
	// session nil) when nothing was written for sessionID yet.
	Get(sessionID string) (*Session, bool, error)
	// ApplyDelta merges delta into the session, creating it if needed.
	ApplyDelta(sessionID string, delta map[string]any) error
}
