// Package metrics holds the Prometheus collectors shared by the HTTP layer and the services.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 300}

// Metrics is safe to use through a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	mediaUploads    *prometheus.CounterVec
	uploadDuration  *prometheus.HistogramVec
	rateLimitHits   *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Collectors that are
// already registered are reused.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		mediaUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Per-file media ingestion outcomes",
		}, []string{"kind", "mode", "outcome"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portfolio",
			Subsystem: "media",
			Name:      "upload_duration_seconds",
			Help:      "Time spent sending one file to the media store",
			Buckets:   histogramBuckets,
		}, []string{"mode"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"route"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "contact",
			Name:      "notifications_total",
			Help:      "Contact notifications by channel and outcome",
		}, []string{"channel", "outcome"}),
	}

	m.requestTotal = register(reg, m.requestTotal)
	m.requestDuration = register(reg, m.requestDuration)
	m.mediaUploads = register(reg, m.mediaUploads)
	m.uploadDuration = register(reg, m.uploadDuration)
	m.rateLimitHits = register(reg, m.rateLimitHits)
	m.notifications = register(reg, m.notifications)
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestDuration.With(labels).Observe(duration.Seconds())
}

// RecordUpload counts one file outcome: "ok", "rejected" or "failed".
func (m *Metrics) RecordUpload(kind, mode, outcome string) {
	if m == nil {
		return
	}
	m.mediaUploads.WithLabelValues(kind, mode, outcome).Inc()
}

func (m *Metrics) ObserveUpload(mode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.uploadDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *Metrics) RecordRateLimitHit(route string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(route).Inc()
}

func (m *Metrics) RecordNotification(channel string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.notifications.WithLabelValues(channel, outcome).Inc()
}
