package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "helpdesk_gateway"

// Metrics holds the prometheus collectors used by the gateway.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	forwards        *prometheus.CounterVec
	uploadFailures  prometheus.Counter
	backendDuration *prometheus.HistogramVec
}

// NewMetrics registers collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status_code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_errors_total",
				Help:      "Requests that ended in an application error, by error code.",
			},
			[]string{"method", "path", "code"},
		),
		forwards: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forwards_total",
				Help:      "Ticket forward attempts by outcome.",
			},
			[]string{"outcome"},
		),
		uploadFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attachment_upload_failures_total",
				Help:      "Attachment uploads that failed and were skipped.",
			},
		),
		backendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Duration of HTTP calls to the ticketing backend.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"call"},
		),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordForward counts a finished forward by outcome label.
func (m *Metrics) RecordForward(outcome string) {
	if m == nil {
		return
	}
	m.forwards.WithLabelValues(outcome).Inc()
}

// RecordUploadFailure counts a skipped attachment.
func (m *Metrics) RecordUploadFailure() {
	if m == nil {
		return
	}
	m.uploadFailures.Inc()
}

// ObserveBackendCall records the latency of one backend call ("upload" or "create_request").
func (m *Metrics) ObserveBackendCall(call string, duration time.Duration) {
	if m == nil {
		return
	}
	m.backendDuration.WithLabelValues(call).Observe(duration.Seconds())
}

// ForwardCount exposes the forward counter for a given outcome label.
func (m *Metrics) ForwardCount(outcome string) prometheus.Counter {
	return m.forwards.WithLabelValues(outcome)
}

// UploadFailureCount exposes the upload failure counter.
func (m *Metrics) UploadFailureCount() prometheus.Counter {
	return m.uploadFailures
}
