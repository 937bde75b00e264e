package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fitpantry/coach/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type staticVerifier struct {
	sessionID string
	err       error
}

func (v staticVerifier) Verify(string) (string, error) {
	return v.sessionID, v.err
}

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := SessionIDFromContext(r.Context())
		_, _ = w.Write([]byte(id))
	})
}

func TestSessionAuth(t *testing.T) {
	t.Run("ValidBearer_ShouldExposeSessionID", func(t *testing.T) {
		h := SessionAuth(staticVerifier{sessionID: "abc"})(echoSession())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc", rec.Body.String())
	})

	t.Run("WrongScheme_ShouldReject", func(t *testing.T) {
		h := SessionAuth(staticVerifier{sessionID: "abc"})(echoSession())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	})

	t.Run("VerifierError_ShouldReject", func(t *testing.T) {
		h := SessionAuth(staticVerifier{err: errors.New("expired")})(echoSession())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("SeparateSessions_ShouldHaveSeparateBuckets", func(t *testing.T) {
		l := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 1, BurstSize: 1}, zaptest.NewLogger(t))

		assert.True(t, l.Allow("session:a"))
		assert.False(t, l.Allow("session:a"))
		assert.True(t, l.Allow("session:b"))
	})

	t.Run("Cleanup_ShouldEvictIdleBuckets", func(t *testing.T) {
		now := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
		l := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 60, BurstSize: 1, CleanupInterval: time.Minute}, zaptest.NewLogger(t))
		l.now = func() time.Time { return now }
		l.Allow("session:a")

		now = now.Add(2 * time.Minute)
		l.Allow("session:b")

		assert.Equal(t, 1, l.Cleanup())
		assert.True(t, l.Allow("session:a"))
	})

	t.Run("Middleware_ShouldKeyOnSession", func(t *testing.T) {
		l := NewRateLimiter(config.RateLimitConfig{RequestsPerMin: 1, BurstSize: 1}, zaptest.NewLogger(t))
		h := l.Middleware()(echoSession())

		send := func(id string) int {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithSessionID(req.Context(), id))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec.Code
		}

		require.Equal(t, http.StatusOK, send("a"))
		assert.Equal(t, http.StatusTooManyRequests, send("a"))
		assert.Equal(t, http.StatusOK, send("b"))
	})
}

type recordedRequest struct {
	route  string
	status int
}

type fakeHTTPMetrics struct {
	requests []recordedRequest
}

func (m *fakeHTTPMetrics) RecordHTTPRequest(_, route string, status int, _ time.Duration) {
	m.requests = append(m.requests, recordedRequest{route: route, status: status})
}

func TestMetrics(t *testing.T) {
	m := &fakeHTTPMetrics{}
	h := Metrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

	require.Len(t, m.requests, 1)
	assert.Equal(t, "/brew", m.requests[0].route)
	assert.Equal(t, http.StatusTeapot, m.requests[0].status)
}

func TestSecurity(t *testing.T) {
	rec := httptest.NewRecorder()
	Security()(echoSession()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestCompress(t *testing.T) {
	payload := strings.Repeat(`{"dish":"avena con fruta"}`, 200)
	handler := Compress(5)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))

	t.Run("AcceptsBrotli_ShouldPreferBrotli", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
		body, err := io.ReadAll(brotli.NewReader(rec.Body))
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
	})

	t.Run("NoAcceptEncoding_ShouldPassThrough", func(t *testing.T) {
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, payload, rec.Body.String())
	})
}
