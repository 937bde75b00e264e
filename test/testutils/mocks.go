// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockGateway provides a mock implementation of outbound.Gateway
type MockGateway struct {
	mock.Mock
}

// Generate returns the stubbed response
func (m *MockGateway) Generate(ctx context.Context, prompt string, attachments ...outbound.Attachment) (string, error) {
	args := m.Called(ctx, prompt, attachments)
	return args.String(0), args.Error(1)
}

// Name returns the provider name
func (m *MockGateway) Name() string {
	return "mock"
}

// RespondWith stubs every Generate call with the same answer
func (m *MockGateway) RespondWith(text string) *mock.Call {
	return m.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(text, nil)
}

// FailWith stubs every Generate call with an error
func (m *MockGateway) FailWith(err error) *mock.Call {
	return m.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", err)
}

// MockSessionRepository provides a mock implementation of SessionRepository.
// Stubbed calls that succeed are also applied to an internal map so a later
// Load sees earlier saves.
type MockSessionRepository struct {
	mock.Mock
	sessions map[string]*session.State
	mu       sync.RWMutex
}

// NewMockSessionRepository creates a new mock session repository
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]*session.State),
	}
}

// Seed stores a state without going through the mock
func (m *MockSessionRepository) Seed(st *session.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[st.ID] = st.Clone()
}

// Stored returns the stored copy of a session
func (m *MockSessionRepository) Stored(id string) (*session.State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return st.Clone(), true
}

// Create creates a session
func (m *MockSessionRepository) Create(ctx context.Context, st *session.State) error {
	args := m.Called(ctx, st)
	if args.Error(0) == nil {
		m.Seed(st)
	}
	return args.Error(0)
}

// Load loads a session
func (m *MockSessionRepository) Load(ctx context.Context, id string) (*session.State, error) {
	args := m.Called(ctx, id)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if st, ok := m.Stored(id); ok {
		return st, nil
	}
	if st, ok := args.Get(0).(*session.State); ok && st != nil {
		return st.Clone(), nil
	}
	return nil, outbound.ErrSessionNotFound
}

// Save saves a session
func (m *MockSessionRepository) Save(ctx context.Context, st *session.State) error {
	args := m.Called(ctx, st)
	if args.Error(0) == nil {
		m.Seed(st)
	}
	return args.Error(0)
}

// Delete deletes a session. An unknown id reports ErrSessionNotFound.
func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	if err := args.Error(0); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return outbound.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// SetupStandardMockBehavior makes every call succeed against the internal map
func (m *MockSessionRepository) SetupStandardMockBehavior() {
	m.On("Create", mock.Anything, mock.AnythingOfType("*session.State")).Return(nil)
	m.On("Load", mock.Anything, mock.AnythingOfType("string")).Return((*session.State)(nil), nil)
	m.On("Save", mock.Anything, mock.AnythingOfType("*session.State")).Return(nil)
	m.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)
}

// MockCalendarExporter provides a mock implementation of CalendarExporter
type MockCalendarExporter struct {
	mock.Mock
}

// Export renders a plan
func (m *MockCalendarExporter) Export(plan nutrition.Plan, now time.Time) ([]byte, error) {
	args := m.Called(plan, now)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
