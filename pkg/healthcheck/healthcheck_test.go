package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func staticChecker(status Status, message string) Checker {
	return CheckerFunc(func(ctx context.Context) Check {
		return Check{Status: status, Message: message, LastChecked: time.Now()}
	})
}

func TestHealthCheck_Check(t *testing.T) {
	t.Run("NoCheckers_ShouldBeHealthy", func(t *testing.T) {
		hc := New("coach", "1.0.0", zaptest.NewLogger(t))

		response := hc.Check(context.Background())

		assert.Equal(t, StatusHealthy, response.Status)
		assert.Equal(t, "coach", response.Service)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Empty(t, response.Checks)
	})

	t.Run("DegradedChecker_ShouldDegradeOverall", func(t *testing.T) {
		hc := New("coach", "1.0.0", zaptest.NewLogger(t))
		hc.Register("storage", staticChecker(StatusHealthy, ""))
		hc.Register("ai", staticChecker(StatusDegraded, "timeout"))

		response := hc.Check(context.Background())

		assert.Equal(t, StatusDegraded, response.Status)
		require.Len(t, response.Checks, 2)
		assert.Equal(t, "ai", response.Checks[0].Name)
		assert.Equal(t, "storage", response.Checks[1].Name)
	})

	t.Run("UnhealthyChecker_ShouldWinOverDegraded", func(t *testing.T) {
		hc := New("coach", "1.0.0", zaptest.NewLogger(t))
		hc.Register("ai", staticChecker(StatusDegraded, ""))
		hc.Register("storage", staticChecker(StatusUnhealthy, "closed"))

		response := hc.Check(context.Background())

		assert.Equal(t, StatusUnhealthy, response.Status)
	})

	t.Run("CachedReport_ShouldSkipProbes", func(t *testing.T) {
		hc := New("coach", "1.0.0", zaptest.NewLogger(t))
		var calls int32
		hc.Register("counter", CheckerFunc(func(ctx context.Context) Check {
			atomic.AddInt32(&calls, 1)
			return Check{Status: StatusHealthy}
		}))

		hc.Check(context.Background())
		hc.Check(context.Background())

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("ZeroTTL_ShouldProbeEveryTime", func(t *testing.T) {
		hc := New("coach", "1.0.0", zaptest.NewLogger(t))
		hc.SetCacheTTL(0)
		var calls int32
		hc.Register("counter", CheckerFunc(func(ctx context.Context) Check {
			atomic.AddInt32(&calls, 1)
			return Check{Status: StatusHealthy}
		}))

		hc.Check(context.Background())
		hc.Check(context.Background())

		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})
}

func TestPingChecker(t *testing.T) {
	t.Run("FailedPing_ShouldReportGivenStatus", func(t *testing.T) {
		checker := PingChecker(func(ctx context.Context) error { return errors.New("refused") }, StatusDegraded)

		check := checker.Check(context.Background())

		assert.Equal(t, StatusDegraded, check.Status)
		assert.Equal(t, "refused", check.Message)
	})

	t.Run("SuccessfulPing_ShouldBeHealthy", func(t *testing.T) {
		checker := PingChecker(func(ctx context.Context) error { return nil }, StatusUnhealthy)

		assert.Equal(t, StatusHealthy, checker.Check(context.Background()).Status)
	})
}

func TestHealthCheck_Handler(t *testing.T) {
	t.Run("Unhealthy_ShouldReturn503", func(t *testing.T) {
		hc := New("coach", "1.0.0", zaptest.NewLogger(t))
		hc.Register("storage", staticChecker(StatusUnhealthy, "down"))
		rec := httptest.NewRecorder()

		hc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body["status"])
		assert.Contains(t, body, "total_duration_ms")
	})

	t.Run("Degraded_ShouldReturn200", func(t *testing.T) {
		hc := New("coach", "1.0.0", zaptest.NewLogger(t))
		hc.Register("ai", staticChecker(StatusDegraded, ""))
		rec := httptest.NewRecorder()

		hc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	})
}
