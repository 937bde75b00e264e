package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fitpantry/coach/internal/domain/pantry"
	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type SessionRepositoryTestSuite struct {
	suite.Suite
	client *redis.Client
	repo   *SessionRepository
	ctx    context.Context
}

func (s *SessionRepositoryTestSuite) SetupSuite() {
	addr := os.Getenv("FITPANTRY_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	s.ctx = context.Background()
	s.client = redis.NewClient(&redis.Options{Addr: addr, DB: 1})
	if err := s.client.Ping(s.ctx).Err(); err != nil {
		s.T().Skipf("redis not available at %s: %v", addr, err)
	}
	s.repo = NewSessionRepository(s.client, time.Minute, zaptest.NewLogger(s.T()))
}

func (s *SessionRepositoryTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *SessionRepositoryTestSuite) TestLifecycle() {
	s.Run("CreateLoadSaveDelete_ShouldRoundTrip", func() {
		// Arrange
		st := session.NewState(uuid.NewString())

		// Act & Assert
		s.Require().NoError(s.repo.Create(s.ctx, st))
		s.Error(s.repo.Create(s.ctx, st))

		loaded, err := s.repo.Load(s.ctx, st.ID)
		s.Require().NoError(err)
		s.Equal(st.ID, loaded.ID)

		loaded.AddInventory(pantry.ChannelManual, []string{"avena"})
		s.Require().NoError(s.repo.Save(s.ctx, loaded))

		again, err := s.repo.Load(s.ctx, st.ID)
		s.Require().NoError(err)
		s.True(again.Inventory.Contains("avena"))

		ttl, err := s.client.TTL(s.ctx, sessionKey(st.ID)).Result()
		s.Require().NoError(err)
		s.Greater(ttl, time.Duration(0))

		s.Require().NoError(s.repo.Delete(s.ctx, st.ID))
		_, err = s.repo.Load(s.ctx, st.ID)
		s.ErrorIs(err, outbound.ErrSessionNotFound)
	})

	s.Run("SaveUnknown_ShouldReturnNotFound", func() {
		err := s.repo.Save(s.ctx, session.NewState(uuid.NewString()))
		s.ErrorIs(err, outbound.ErrSessionNotFound)
	})
}

func TestSessionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SessionRepositoryTestSuite))
}
