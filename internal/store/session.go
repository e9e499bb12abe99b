package store

import (
	"context"
	"sync"
	"time"

	"github.com/TourHive/booking-flow-backend/types"
	"github.com/google/uuid"
)

// Session binds one booking flow together: the package identity, its field
// schema and the field store collecting the traveller's input. A session is
// created when the client opens the booking form and dropped on submit
// completion, explicit reset, or idle timeout.
type Session struct {
	ID     string
	ProdNo string
	PkgNo  string
	ItemNo string
	Schema *types.FieldSchema
	Fields FieldStore

	createdAt   time.Time
	mu          sync.Mutex
	lastTouched time.Time
}

// Touch marks the session as recently used, deferring the idle sweep.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastTouched = time.Now()
	s.mu.Unlock()
}

// IdleSince returns how long ago the session was last touched.
func (s *Session) IdleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastTouched)
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// SessionRegistry tracks live booking sessions in memory.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
}

// NewSessionRegistry creates a registry dropping sessions idle longer than
// idleTTL once Sweep runs.
func NewSessionRegistry(idleTTL time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
	}
}

// Create opens a new session for a package and returns it.
func (r *SessionRegistry) Create(prodNo, pkgNo, itemNo string, schema *types.FieldSchema) *Session {
	now := time.Now()
	session := &Session{
		ID:          uuid.New().String(),
		ProdNo:      prodNo,
		PkgNo:       pkgNo,
		ItemNo:      itemNo,
		Schema:      schema,
		Fields:      NewMemoryFieldStore(),
		createdAt:   now,
		lastTouched: now,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()
	return session
}

// Get returns the session with the given id, or false when it is unknown
// or already swept.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		session.Touch()
	}
	return session, ok
}

// Delete resets and drops a session. Returns false when the id is unknown.
func (r *SessionRegistry) Delete(id string) bool {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if ok {
		session.Fields.ResetAll()
	}
	return ok
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle longer than the registry TTL and returns how
// many were dropped.
func (r *SessionRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, session := range r.sessions {
		if session.IdleSince(now) > r.idleTTL {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (r *SessionRegistry) StartSweeper(ctx context.Context, interval time.Duration, onSweep func(dropped int)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dropped := r.Sweep(time.Now())
				if onSweep != nil && dropped > 0 {
					onSweep(dropped)
				}
			}
		}
	}()
}
