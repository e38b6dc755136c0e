// internal/session/memory.go
//
// In-memory session store for solver runs served over HTTP.
//
// Characteristics:
//   - Stores *Session objects keyed by ID in a map.
//   - Map access is guarded by an RWMutex (concurrent reads, exclusive writes).
//   - Each Session serializes calls to its engine with its own mutex, since
//     the engine itself has no locking.
//   - The last-use time is atomic so Sweep never waits on a busy engine.
//   - State is lost when the process restarts.

package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

var ErrNotFound = errors.New("session: not found")

// Session owns one engine and the metadata of its run.
type Session struct {
	ID      string
	Owner   string // user ID or anonymous ID
	Dataset string
	RunID   int64 // history row, 0 when history is disabled
	Created time.Time

	// Last is the most recent suggestion handed out; only touch it inside Do.
	Last solver.Suggestion

	mu      sync.Mutex
	engine  *solver.Engine
	touched atomic.Int64 // unix nanos of the last Do; read without mu
}

// New wraps an engine in a session with a fresh random ID.
func New(e *solver.Engine, dataset, owner string) *Session {
	now := time.Now()
	s := &Session{
		ID:      randomID(),
		Owner:   owner,
		Dataset: dataset,
		Created: now,
		engine:  e,
	}
	s.touched.Store(now.UnixNano())
	return s
}

// Do runs fn with exclusive access to the engine.
func (s *Session) Do(fn func(e *solver.Engine) error) error {
	s.touched.Store(time.Now().UnixNano())
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

func (s *Session) lastUsed() time.Time {
	return time.Unix(0, s.touched.Load())
}

// Store defines the persistence interface for sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session; missing IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Sweep drops sessions idle since before cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.lastUsed().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
