// Package metrics provides Prometheus metrics for ingestion and the HTTP API.
// A Manager is an aggregator.Observer, so ingestion reports straight into it.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pable/go-football-metrics/internal/model"
)

// Manager owns a private registry and the metrics registered on it. All
// methods are safe for concurrent use.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	eventsRecorded    *prometheus.CounterVec
	eventsDropped     *prometheus.CounterVec
	locationsRejected prometheus.Counter
	playersDiscovered prometheus.Counter
	ingestDuration    prometheus.Histogram
	playersFinalized  prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager with its own registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fbmetrics",
		subsystem:        "ingest",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_recorded_total",
		Help:      "Events applied to a player aggregate, by event type",
	}, []string{"type"})

	m.eventsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dropped_total",
		Help:      "Events excluded before aggregation, by reason",
	}, []string{"reason"})

	m.locationsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "locations_rejected_total",
		Help:      "Malformed event locations skipped for position averaging",
	})

	m.playersDiscovered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_discovered_total",
		Help:      "Distinct players seen during ingestion",
	})

	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_seconds",
		Help:      "Wall time of one ingestion pass",
		Buckets:   m.histogramBuckets,
	})

	m.playersFinalized = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_finalized",
		Help:      "Players in the last finalized table",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern and status code",
	}, []string{"route", "code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern",
		Buckets:   m.histogramBuckets,
	}, []string{"route"})
}

// EventRecorded implements aggregator.Observer.
func (m *Manager) EventRecorded(t model.EventType) {
	m.eventsRecorded.WithLabelValues(t.String()).Inc()
}

// EventDropped implements aggregator.Observer.
func (m *Manager) EventDropped(reason string) {
	m.eventsDropped.WithLabelValues(reason).Inc()
}

// LocationRejected implements aggregator.Observer.
func (m *Manager) LocationRejected() { m.locationsRejected.Inc() }

// PlayerDiscovered implements aggregator.Observer.
func (m *Manager) PlayerDiscovered() { m.playersDiscovered.Inc() }

// ObserveIngest records one ingestion pass and the size of its result.
func (m *Manager) ObserveIngest(d time.Duration, players int) {
	m.ingestDuration.Observe(d.Seconds())
	m.playersFinalized.Set(float64(players))
}

// ObserveHTTP records one served request.
func (m *Manager) ObserveHTTP(route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registry returns the registry the metrics live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteToTextfile writes the current metrics to path for the node_exporter
// textfile collector.
func (m *Manager) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
