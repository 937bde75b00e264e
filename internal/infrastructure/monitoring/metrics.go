// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fitpantry/coach/internal/domain/session"
	"github.com/fitpantry/coach/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "fitpantry"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	gatherer prometheus.Gatherer

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Gateway metrics
	gatewayRequestsTotal   *prometheus.CounterVec
	gatewayRequestDuration *prometheus.HistogramVec
	parseFailuresTotal     *prometheus.CounterVec

	// Domain metrics
	inventoryAddedTotal   *prometheus.CounterVec
	mealsCompletedTotal   prometheus.Counter
	setsRegisteredTotal   *prometheus.CounterVec
	trainingDaysTotal     prometheus.Counter
	fatigueLockedTotal    prometheus.Counter
	generatedTotal        *prometheus.CounterVec
	recoveryProtocolTotal prometheus.Counter
	backupsImportedTotal  prometheus.Counter
	cnsLevel              prometheus.Histogram
}

// NewMetricsCollector registers every metric on reg. Pass prometheus.DefaultRegisterer in production.
func NewMetricsCollector(reg prometheus.Registerer, gatherer prometheus.Gatherer, logger *zap.Logger) *MetricsCollector {
	factory := promauto.With(reg)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		gatherer: gatherer,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		gatewayRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total number of generative AI gateway calls",
			},
			[]string{"provider", "outcome"},
		),
		gatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Gateway call duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider"},
		),
		parseFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_failures_total",
				Help:      "Gateway answers that did not fit the expected shape",
			},
			[]string{"shape"},
		),

		inventoryAddedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inventory_items_added_total",
				Help:      "Pantry entries added per acquisition channel",
			},
			[]string{"channel"},
		),
		mealsCompletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meals_completed_total",
			Help:      "Meals marked as eaten",
		}),
		setsRegisteredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sets_registered_total",
				Help:      "Accepted training sets",
			},
			[]string{"pr"},
		),
		trainingDaysTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_days_completed_total",
			Help:      "Training days finished",
		}),
		fatigueLockedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fatigue_locked_total",
			Help:      "Sets refused because the CNS gauge was below the floor",
		}),
		generatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generated_total",
				Help:      "Plans and microcycles generated",
			},
			[]string{"kind"},
		),
		recoveryProtocolTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovery_protocol_total",
			Help:      "Recovery protocol activations",
		}),
		backupsImportedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_imported_total",
			Help:      "Backup documents imported",
		}),
		cnsLevel: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cns_level_after_set",
			Help:      "CNS gauge value after each accepted set",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}

// RecordHTTPRequest records one served request
func (m *MetricsCollector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordGatewayCall records one gateway call
func (m *MetricsCollector) RecordGatewayCall(provider string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.gatewayRequestsTotal.WithLabelValues(provider, outcome).Inc()
	m.gatewayRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// ParseFailure counts an answer that did not fit its shape
func (m *MetricsCollector) ParseFailure(shape string) {
	m.parseFailuresTotal.WithLabelValues(shape).Inc()
}

// FatigueLocked counts a refused set
func (m *MetricsCollector) FatigueLocked() {
	m.fatigueLockedTotal.Inc()
}

// Handler serves the metrics endpoint
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RegisterEventHandlers subscribes the collector to the domain events it counts
func (m *MetricsCollector) RegisterEventHandlers(dispatcher shared.EventDispatcher) {
	dispatcher.Register("inventory.updated", func(e shared.DomainEvent) error {
		ev, ok := e.(session.InventoryUpdatedEvent)
		if !ok {
			return nil
		}
		m.inventoryAddedTotal.WithLabelValues(ev.Channel).Add(float64(len(ev.Added)))
		return nil
	})
	dispatcher.Register("meal.completed", func(shared.DomainEvent) error {
		m.mealsCompletedTotal.Inc()
		return nil
	})
	dispatcher.Register("set.registered", func(e shared.DomainEvent) error {
		ev, ok := e.(session.SetRegisteredEvent)
		if !ok {
			return nil
		}
		m.setsRegisteredTotal.WithLabelValues(strconv.FormatBool(ev.IsPR)).Inc()
		m.cnsLevel.Observe(float64(ev.CNS))
		return nil
	})
	dispatcher.Register("training.day_completed", func(shared.DomainEvent) error {
		m.trainingDaysTotal.Inc()
		return nil
	})
	dispatcher.Register("plan.generated", func(shared.DomainEvent) error {
		m.generatedTotal.WithLabelValues("plan").Inc()
		return nil
	})
	dispatcher.Register("microcycle.generated", func(shared.DomainEvent) error {
		m.generatedTotal.WithLabelValues("microcycle").Inc()
		return nil
	})
	dispatcher.Register("recovery.protocol", func(shared.DomainEvent) error {
		m.recoveryProtocolTotal.Inc()
		return nil
	})
	dispatcher.Register("backup.imported", func(shared.DomainEvent) error {
		m.backupsImportedTotal.Inc()
		return nil
	})
}
