// Package memory provides an in-process session repository for tests and single-node runs
package memory

import (
	"context"
	"sync"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/outbound"
)

// SessionRepository keeps session records in a map. Records are cloned on the way
// in and out so callers never share state with the store.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.State
}

// NewSessionRepository creates an empty repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*session.State),
	}
}

var _ outbound.SessionRepository = (*SessionRepository)(nil)

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, state *session.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[state.ID] = state.Clone()
	return nil
}

// Load returns a copy of the stored session
func (r *SessionRepository) Load(ctx context.Context, id string) (*session.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.sessions[id]
	if !ok {
		return nil, outbound.ErrSessionNotFound
	}
	return st.Clone(), nil
}

// Save replaces an existing session
func (r *SessionRepository) Save(ctx context.Context, state *session.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[state.ID]; !ok {
		return outbound.ErrSessionNotFound
	}
	r.sessions[state.ID] = state.Clone()
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return outbound.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Count returns the number of stored sessions
func (r *SessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
