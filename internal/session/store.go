package session

import (
	"sync"
	"time"
)

// DefaultMaxTurns bounds how many turns a session keeps.
const DefaultMaxTurns = 10

// TurnContext records what a financial turn was about.
type TurnContext struct {
	Symbols  []string
	DataType string
}

// Turn is one completed user/assistant exchange.
type Turn struct {
	User      string
	Assistant string
	Context   *TurnContext
	CreatedAt time.Time
}

// Store keeps conversation history per session id for the lifetime of the
// process. Sessions are created on first access and never removed. Store
// guards its map but does not serialise a read-then-append sequence for one
// session; callers that need that hold their own per-session lock.
type Store struct {
	maxTurns int

	mu       sync.RWMutex
	sessions map[string][]Turn
}

// NewStore returns an empty store keeping at most maxTurns per session.
// Non-positive values fall back to DefaultMaxTurns.
func NewStore(maxTurns int) *Store {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Store{
		maxTurns: maxTurns,
		sessions: make(map[string][]Turn),
	}
}

// MaxTurns returns the per-session bound.
func (s *Store) MaxTurns() int { return s.maxTurns }

// GetOrCreate returns a copy of the session's turns, registering the session
// if it does not exist yet.
func (s *Store) GetOrCreate(sessionID string) []Turn {
	s.mu.RLock()
	turns, ok := s.sessions[sessionID]
	if ok {
		out := cloneTurns(turns)
		s.mu.RUnlock()
		return out
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if turns, ok = s.sessions[sessionID]; ok {
		return cloneTurns(turns)
	}
	s.sessions[sessionID] = []Turn{}
	return []Turn{}
}

// Append adds a turn and evicts the oldest turns beyond MaxTurns.
func (s *Store) Append(sessionID string, turn Turn) {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	turn.Context = cloneContext(turn.Context)

	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.sessions[sessionID], turn)
	if over := len(turns) - s.maxTurns; over > 0 {
		trimmed := make([]Turn, s.maxTurns)
		copy(trimmed, turns[over:])
		turns = trimmed
	}
	s.sessions[sessionID] = turns
}

// ContextFor returns a copy of the last window turns, oldest first. It does
// not create the session.
func (s *Store) ContextFor(sessionID string, window int) []Turn {
	if window <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.sessions[sessionID]
	if len(turns) > window {
		turns = turns[len(turns)-window:]
	}
	return cloneTurns(turns)
}

// Len reports the number of turns stored for the session.
func (s *Store) Len(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[sessionID])
}

// Exists reports whether the session has been created.
func (s *Store) Exists(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok
}

// Sessions reports how many sessions are live.
func (s *Store) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func cloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		t.Context = cloneContext(t.Context)
		out[i] = t
	}
	return out
}

func cloneContext(c *TurnContext) *TurnContext {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Symbols = append([]string(nil), c.Symbols...)
	return &cp
}
