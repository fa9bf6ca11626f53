// Package chat holds per-session conversation transcripts in memory.
package chat

import (
	"sync"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in a transcript. Immutable once appended.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTurn(role Role, text string) Turn {
	return Turn{Role: role, Text: text, CreatedAt: time.Now()}
}

// Session is one conversation's append-only transcript.
type Session struct {
	// gate serializes whole requests against this session so that a
	// read-reformulate-retrieve-synthesize-append sequence never
	// interleaves with another request for the same session id.
	gate sync.Mutex

	mu    sync.RWMutex
	turns []Turn
}

// Acquire blocks until no other request holds this session.
func (s *Session) Acquire() { s.gate.Lock() }

// Release lets the next request for this session proceed.
func (s *Session) Release() { s.gate.Unlock() }

// Turns returns a defensive copy of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Append adds turns to the end of the transcript, in argument order.
func (s *Session) Append(turns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Store maps opaque session ids to transcripts. Implementations must be
// safe for concurrent use across sessions.
type Store interface {
	// Get returns the session for id, creating an empty one on first use.
	// An existing session is never overwritten.
	Get(id string) *Session
	// Sessions returns a snapshot of every transcript, keyed by session id.
	Sessions() map[string][]Turn
	// Evict drops a session. No eviction policy is wired anywhere; the
	// method exists so one can be added without touching call sites.
	Evict(id string)
}

// MemoryStore keeps all sessions in process memory for the process
// lifetime. Growth is unbounded.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s = &Session{}
	m.sessions[id] = s
	return s
}

func (m *MemoryStore) Sessions() map[string][]Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]Turn, len(m.sessions))
	for id, s := range m.sessions {
		out[id] = s.Turns()
	}
	return out
}

func (m *MemoryStore) Evict(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
