package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCollector(t *testing.T) *MetricsCollector {
	reg := prometheus.NewRegistry()
	return NewMetricsCollector(reg, reg, zaptest.NewLogger(t))
}

func TestMetricsCollector_EventHandlers(t *testing.T) {
	m := newTestCollector(t)
	dispatcher := shared.NewInMemoryDispatcher()
	m.RegisterEventHandlers(dispatcher)

	require.NoError(t, dispatcher.Dispatch(session.InventoryUpdatedEvent{Channel: "receipt", Added: []string{"arroz", "leche"}}))
	require.NoError(t, dispatcher.Dispatch(session.SetRegisteredEvent{IsPR: true, CNS: 94}))
	require.NoError(t, dispatcher.Dispatch(session.SetRegisteredEvent{CNS: 91}))
	require.NoError(t, dispatcher.Dispatch(session.PlanGeneratedEvent{Days: 7}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.inventoryAddedTotal.WithLabelValues("receipt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.setsRegisteredTotal.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.setsRegisteredTotal.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generatedTotal.WithLabelValues("plan")))
}

func TestMetricsCollector_Recorders(t *testing.T) {
	m := newTestCollector(t)

	m.RecordGatewayCall("gemini", nil, 200*time.Millisecond)
	m.RecordGatewayCall("gemini", errors.New("quota"), time.Second)
	m.ParseFailure("plan")
	m.FatigueLocked()
	m.RecordHTTPRequest(http.MethodGet, "/api/v1/session", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequestsTotal.WithLabelValues("gemini", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gatewayRequestsTotal.WithLabelValues("gemini", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parseFailuresTotal.WithLabelValues("plan")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fatigueLockedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/session", "200")))
}

func TestMetricsCollector_Handler(t *testing.T) {
	m := newTestCollector(t)
	m.FatigueLocked()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fitpantry_fatigue_locked_total 1")
}
