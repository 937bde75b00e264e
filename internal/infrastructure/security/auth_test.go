package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type TokenServiceTestSuite struct {
	suite.Suite
	service *TokenService
}

func (s *TokenServiceTestSuite) SetupTest() {
	s.service = NewTokenService("test-secret-key-for-testing-only-32-bytes", "fitpantry", time.Hour, zaptest.NewLogger(s.T()))
}

func (s *TokenServiceTestSuite) TestIssueAndVerify() {
	s.Run("IssuedToken_ShouldVerifyToSameSession", func() {
		// Arrange
		token, err := s.service.Issue("session-123")
		s.Require().NoError(err)

		// Act
		sessionID, err := s.service.Verify(token)

		// Assert
		s.Require().NoError(err)
		s.Equal("session-123", sessionID)
	})

	s.Run("WrongSecret_ShouldFail", func() {
		other := NewTokenService("another-secret-key-entirely-different", "fitpantry", time.Hour, zaptest.NewLogger(s.T()))
		token, err := other.Issue("session-123")
		s.Require().NoError(err)

		_, err = s.service.Verify(token)
		s.Error(err)
	})

	s.Run("ExpiredToken_ShouldFail", func() {
		token, err := s.service.Issue("session-123")
		s.Require().NoError(err)

		s.service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { s.service.now = time.Now }()

		_, err = s.service.Verify(token)
		s.Error(err)
	})

	s.Run("Garbage_ShouldFail", func() {
		_, err := s.service.Verify("not.a.token")
		s.Error(err)
	})
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
