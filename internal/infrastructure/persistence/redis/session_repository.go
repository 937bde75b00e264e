package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "fitpantry:session:"

// SessionRepository stores each session as a JSON document under its own key.
// Every write refreshes the TTL, so idle sessions expire on their own.
type SessionRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionRepository creates a Redis session repository. A zero ttl keeps keys forever.
func NewSessionRepository(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger.Named("redis-sessions"),
	}
}

var (
	_ outbound.SessionRepository = (*SessionRepository)(nil)
	_ outbound.Pinger            = (*SessionRepository)(nil)
)

// Ping checks the Redis connection
func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Create stores a new session; an existing key is left alone
func (r *SessionRepository) Create(ctx context.Context, st *session.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, sessionKey(st.ID), data, r.ttl).Result()
	if err != nil {
		r.logger.Error("Session create failed", zap.String("session_id", st.ID), zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s already exists", st.ID)
	}
	return nil
}

// Load reads and decodes a session
func (r *SessionRepository) Load(ctx context.Context, id string) (*session.State, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, outbound.ErrSessionNotFound
		}
		r.logger.Debug("Session get failed", zap.String("session_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	st.EnsureDefaults()
	return &st, nil
}

// Save overwrites an existing session and refreshes its TTL
func (r *SessionRepository) Save(ctx context.Context, st *session.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	ok, err := r.client.SetXX(ctx, sessionKey(st.ID), data, r.ttl).Result()
	if err != nil {
		r.logger.Error("Session save failed", zap.String("session_id", st.ID), zap.Error(err))
		return fmt.Errorf("failed to save session: %w", err)
	}
	if !ok {
		return outbound.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session key
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		r.logger.Error("Session delete failed", zap.String("session_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return outbound.ErrSessionNotFound
	}
	return nil
}
