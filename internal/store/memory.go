// internal/store/memory.go
//
// In-memory implementation of the session Store interface. Ephemeral:
// state is lost on restart. The engine requires guesses against one
// session to be applied one at a time in submission order; WithLock is
// how callers get that per-id serialization, since game.Session itself
// is lock-free.

package store

import (
	"context"
	"sync"

	"github.com/quintle/server/internal/game"
)

// Store is the persistence capability for game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or game.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// WithLock runs fn with exclusive access to the session, then
	// persists whatever fn left behind. Concurrent calls for the same
	// id serialize; distinct ids proceed independently.
	WithLock(ctx context.Context, id string, fn func(*game.Session) error) error
}

// entry pairs a session with its per-id lock.
type entry struct {
	mu   sync.Mutex
	sess *game.Session
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex // guards sessions map
	sessions map[string]*entry
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[s.ID]; ok {
		e.sess = s
		return nil
	}
	m.sessions[s.ID] = &entry{sess: s}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e.sess, nil
	}
	return nil, game.ErrSessionNotFound
}

func (m *memory) WithLock(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return game.ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}
