// Package coach provides the application layer for the session actions.
// Each action loads the session, mutates a copy and saves it only when every
// step (gateway call, parsing, domain rule) succeeded.
package coach

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/fitpantry/coach/internal/domain/nutrition"
	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/fitpantry/coach/internal/domain/training"
	"github.com/fitpantry/coach/internal/ports/inbound"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/fitpantry/coach/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Validator checks command structs and returns a VALIDATION_FAILED AppError
type Validator interface {
	Validate(s interface{}) error
}

// Metrics receives outcomes that are not domain events
type Metrics interface {
	ParseFailure(shape string)
	FatigueLocked()
}

type nopMetrics struct{}

func (nopMetrics) ParseFailure(string) {}
func (nopMetrics) FatigueLocked()      {}

// Option configures the Service
type Option func(*Service)

// WithMatcher swaps the ingredient matching strategy
func WithMatcher(m pantry.IngredientMatcher) Option {
	return func(s *Service) { s.matcher = m }
}

// WithMetrics installs a metrics recorder
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service implements the coach use cases
type Service struct {
	repo       outbound.SessionRepository
	gateway    outbound.Gateway
	calendar   outbound.CalendarExporter
	validator  Validator
	dispatcher shared.EventDispatcher
	matcher    pantry.IngredientMatcher
	metrics    Metrics
	now        func() time.Time
	locks      *keyedMutex
	logger     *zap.Logger
}

// NewService creates a new coach service
func NewService(
	repo outbound.SessionRepository,
	gateway outbound.Gateway,
	calendar outbound.CalendarExporter,
	validator Validator,
	dispatcher shared.EventDispatcher,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		repo:       repo,
		gateway:    gateway,
		calendar:   calendar,
		validator:  validator,
		dispatcher: dispatcher,
		matcher:    pantry.ContainmentMatcher{},
		metrics:    nopMetrics{},
		now:        time.Now,
		locks:      newKeyedMutex(),
		logger:     logger.Named("coach-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ inbound.CoachService = (*Service)(nil)

// StartSession creates a fresh session with defaults
func (s *Service) StartSession(ctx context.Context) (*inbound.SessionDTO, error) {
	st := session.NewState(uuid.NewString())
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, errors.NewStorageError("create session", err)
	}
	s.logger.Info("Session started", zap.String("session_id", st.ID))
	return s.toSessionDTO(st), nil
}

// GetSession returns the full session view
func (s *Service) GetSession(ctx context.Context, sessionID string) (*inbound.SessionDTO, error) {
	st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toSessionDTO(st), nil
}

// EndSession deletes the session record
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		if stderrors.Is(err, outbound.ErrSessionNotFound) {
			return errors.NewNotFoundError("session")
		}
		return errors.NewStorageError("delete session", err)
	}
	s.logger.Info("Session ended", zap.String("session_id", sessionID))
	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*session.State, error) {
	if sessionID == "" {
		return nil, errors.NewUnauthorizedError("")
	}
	st, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrSessionNotFound) {
			return nil, errors.NewNotFoundError("session")
		}
		return nil, errors.NewStorageError("load session", err)
	}
	st.EnsureDefaults()
	return st, nil
}

// mutate runs fn against a copy of the session and saves the copy only if fn succeeds.
func (s *Service) mutate(ctx context.Context, sessionID, action string, fn func(draft *session.State) error) (*session.State, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	current, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	draft := current.Clone()
	if err := fn(draft); err != nil {
		appErr := mapDomainError(err)
		s.logger.Warn("Action rejected",
			zap.String("session_id", sessionID),
			zap.String("action", action),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
		return nil, appErr
	}

	draft.Touch()
	events := draft.Events()
	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, errors.NewStorageError("save session", err)
	}

	for _, event := range events {
		if err := s.dispatcher.Dispatch(event); err != nil {
			s.logger.Error("Failed to dispatch event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}

	s.logger.Debug("Action applied",
		zap.String("session_id", sessionID),
		zap.String("action", action),
		zap.Int64("version", draft.Version),
	)
	return draft, nil
}

func (s *Service) validate(cmd interface{}) error {
	if s.validator == nil {
		return nil
	}
	return s.validator.Validate(cmd)
}

// canonicalDay maps accepted spellings ("lunes", "Miércoles") onto plan labels.
// Unknown input is returned unchanged so the lookup reports it.
func canonicalDay(day string) string {
	if label, ok := shared.CanonicalWeekday(day); ok {
		return label
	}
	return day
}

// generate calls the gateway and converts failures into GATEWAY_ERROR
func (s *Service) generate(ctx context.Context, action, prompt string, attachments ...outbound.Attachment) (string, error) {
	start := time.Now()
	text, err := s.gateway.Generate(ctx, prompt, attachments...)
	if err != nil {
		s.logger.Error("Gateway call failed",
			zap.String("action", action),
			zap.String("provider", s.gateway.Name()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", errors.NewGatewayError(action, err)
	}
	s.logger.Debug("Gateway call completed",
		zap.String("action", action),
		zap.String("provider", s.gateway.Name()),
		zap.Duration("duration", time.Since(start)),
		zap.Int("response_length", len(text)),
	)
	return text, nil
}

// parseFailed records and converts a parse failure
func (s *Service) parseFailed(shape, reason string) error {
	s.metrics.ParseFailure(shape)
	s.logger.Warn("Gateway response did not fit expected shape",
		zap.String("shape", shape),
		zap.String("reason", reason),
	)
	return errors.NewParseError(shape, reason)
}

func mapDomainError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, nutrition.ErrMealNotFound):
		return errors.NewNotFoundError("meal").WithCause(err)
	case stderrors.Is(err, training.ErrExerciseNotFound):
		return errors.NewNotFoundError("exercise").WithCause(err)
	case stderrors.Is(err, session.ErrItemNotFound):
		return errors.NewNotFoundError("inventory item").WithCause(err)
	case stderrors.Is(err, nutrition.ErrAlreadyCompleted):
		return errors.NewConflictError("meal already completed").WithCause(err)
	case stderrors.Is(err, session.ErrInvalidAmount),
		stderrors.Is(err, session.ErrInvalidMeasurement),
		stderrors.Is(err, session.ErrMalformedBackup),
		stderrors.Is(err, session.ErrUnsupportedFormat):
		return errors.NewValidationError(err.Error()).WithCause(err)
	default:
		return errors.Wrap(err, "action failed")
	}
}

// keyedMutex serializes actions per session
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock acquires the key and returns its release function
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
