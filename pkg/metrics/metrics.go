// Package metrics provides Prometheus metrics for the breakside tracker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the tracker service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer
	gatherer  prometheus.Gatherer

	// Core business metrics
	eventsAppended      *prometheus.CounterVec
	transitionsRejected *prometheus.CounterVec
	corrections         prometheus.Counter
	pointsClosed        prometheus.Counter
	homeScore           prometheus.Gauge
	awayScore           prometheus.Gauge
	pointElapsedSeconds prometheus.Gauge
	holdSeconds         prometheus.Histogram
	passDistanceMeters  prometheus.Histogram

	// Snapshot pipeline metrics
	snapshotsQueued    prometheus.Counter
	snapshotsDropped   prometheus.Counter
	snapshotsPublished *prometheus.CounterVec
	snapshotErrors     *prometheus.CounterVec
	queueSize          prometheus.Gauge
	queueUtilization   prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Live stream metrics
	wsClients prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithHistogramBuckets overrides the default histogram buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry points the manager at a custom registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		m.registry = r
		m.gatherer = r
	}
}

// Global metrics manager on a custom registry, to avoid the default Go
// collectors.
var (
	customRegistry = prometheus.NewRegistry()                          //nolint:gochecknoglobals
	globalManager  = NewManager(WithRegistry(customRegistry))          //nolint:gochecknoglobals
)

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "breakside",
		subsystem: "tracker",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := promauto.With(m.registry)
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}

	m.eventsAppended = factory.NewCounterVec(prometheus.CounterOpts(opts(
		"events_appended_total", "Events appended to the point log, by type.")), []string{"type"})
	m.transitionsRejected = factory.NewCounterVec(prometheus.CounterOpts(opts(
		"transitions_rejected_total", "Commands rejected by the possession machine, by command.")), []string{"command"})
	m.corrections = factory.NewCounter(prometheus.CounterOpts(opts(
		"corrections_total", "Player corrections applied to past events.")))
	m.pointsClosed = factory.NewCounter(prometheus.CounterOpts(opts(
		"points_closed_total", "Points archived into match history.")))
	m.homeScore = factory.NewGauge(prometheus.GaugeOpts(opts(
		"home_score", "Current home score.")))
	m.awayScore = factory.NewGauge(prometheus.GaugeOpts(opts(
		"away_score", "Current away score.")))
	m.pointElapsedSeconds = factory.NewGauge(prometheus.GaugeOpts(opts(
		"point_elapsed_seconds", "Elapsed time of the open point.")))
	m.holdSeconds = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "hold_seconds", Help: "Hold-time samples recorded per throw.",
		Buckets: []float64{0.5, 1, 2, 3, 5, 8, 10, 15, 20, 30},
	})
	m.passDistanceMeters = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "pass_distance_meters", Help: "Distance of completed passes in meters.",
		Buckets: []float64{2, 5, 10, 15, 20, 30, 40, 60, 80},
	})

	m.snapshotsQueued = factory.NewCounter(prometheus.CounterOpts(opts(
		"snapshots_queued_total", "Match snapshots enqueued for publication.")))
	m.snapshotsDropped = factory.NewCounter(prometheus.CounterOpts(opts(
		"snapshots_dropped_total", "Match snapshots dropped on queue backpressure.")))
	m.snapshotsPublished = factory.NewCounterVec(prometheus.CounterOpts(opts(
		"snapshots_published_total", "Match snapshots delivered, by sink.")), []string{"sink"})
	m.snapshotErrors = factory.NewCounterVec(prometheus.CounterOpts(opts(
		"snapshot_errors_total", "Snapshot delivery failures, by sink.")), []string{"sink"})
	m.queueSize = factory.NewGauge(prometheus.GaugeOpts(opts(
		"snapshot_queue_size", "Snapshots currently queued.")))
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts(opts(
		"snapshot_queue_utilization", "Snapshot queue fill ratio 0..1.")))

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts(opts(
		"http_requests_total", "HTTP requests, by endpoint, method and status.")), []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_ms", Help: "HTTP request duration in milliseconds.",
		Buckets: m.buckets,
	}, []string{"endpoint", "method", "status"})

	m.wsClients = factory.NewGauge(prometheus.GaugeOpts(opts(
		"live_clients", "Connected live-stream websocket clients.")))
}

// Handler serves the manager's registry over HTTP.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordEventAppended increments the appended events counter for a type.
func RecordEventAppended(eventType string) {
	globalManager.eventsAppended.WithLabelValues(eventType).Inc()
}

// RecordTransitionRejected increments the rejected transitions counter.
func RecordTransitionRejected(cmd string) {
	globalManager.transitionsRejected.WithLabelValues(cmd).Inc()
}

// RecordCorrection increments the event corrections counter.
func RecordCorrection() {
	globalManager.corrections.Inc()
}

// RecordPointClosed increments the points played counter.
func RecordPointClosed() {
	globalManager.pointsClosed.Inc()
}

// UpdateScore sets both score gauges.
func UpdateScore(home, away int) {
	globalManager.homeScore.Set(float64(home))
	globalManager.awayScore.Set(float64(away))
}

// UpdatePointElapsed sets the open-point elapsed time gauge.
func UpdatePointElapsed(seconds float64) {
	globalManager.pointElapsedSeconds.Set(seconds)
}

// RecordHoldSeconds records one disc hold duration.
func RecordHoldSeconds(seconds float64) {
	globalManager.holdSeconds.Observe(seconds)
}

// RecordPassDistance records one pass distance in meters.
func RecordPassDistance(meters float64) {
	globalManager.passDistanceMeters.Observe(meters)
}

// RecordSnapshotQueued increments the queued snapshots counter.
func RecordSnapshotQueued() {
	globalManager.snapshotsQueued.Inc()
}

// RecordSnapshotDropped increments the dropped snapshots counter.
func RecordSnapshotDropped() {
	globalManager.snapshotsDropped.Inc()
}

// RecordSnapshotPublished increments the published snapshots counter for a sink.
func RecordSnapshotPublished(sink string) {
	globalManager.snapshotsPublished.WithLabelValues(sink).Inc()
}

// RecordSnapshotError increments the snapshot delivery errors counter for a sink.
func RecordSnapshotError(sink string) {
	globalManager.snapshotErrors.WithLabelValues(sink).Inc()
}

// UpdateQueueSize records the queued snapshot count and fill ratio.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// LiveClientConnected increments the connected live clients gauge.
func LiveClientConnected() {
	globalManager.wsClients.Inc()
}

// LiveClientDisconnected decrements the connected live clients gauge.
func LiveClientDisconnected() {
	globalManager.wsClients.Dec()
}

// Handler serves the global registry over HTTP.
func Handler() http.Handler {
	return globalManager.Handler()
}
