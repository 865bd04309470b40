package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Submission metrics
	SubmissionsTotal      *prometheus.CounterVec
	SubmissionDuration    *prometheus.HistogramVec
	SubmissionsInProgress prometheus.Gauge
	ValidationFailures    *prometheus.CounterVec
	MalformedResponses    prometheus.Counter

	// External API metrics
	ExternalAPICalls    *prometheus.CounterVec
	ExternalAPIDuration *prometheus.HistogramVec
	ExternalAPIFailures *prometheus.CounterVec

	// Studio operations
	StudioOperations *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them on /metrics, or a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaign_submissions_total",
				Help: "Total number of campaign submissions by outcome",
			},
			[]string{"status"},
		),

		SubmissionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campaign_submission_duration_seconds",
				Help:    "Campaign submission duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"status"},
		),

		SubmissionsInProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "campaign_submissions_in_progress",
				Help: "Number of campaign submissions waiting on the generation service",
			},
		),

		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaign_validation_failures_total",
				Help: "Total number of submissions rejected before any network call",
			},
			[]string{"rule"},
		),

		MalformedResponses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "generation_malformed_responses_total",
				Help: "Total number of success responses whose body was not JSON",
			},
		),

		ExternalAPICalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_calls_total",
				Help: "Total number of external API calls",
			},
			[]string{"api", "status"},
		),

		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_api_duration_seconds",
				Help:    "External API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"api"},
		),

		ExternalAPIFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_failures_total",
				Help: "Total number of external API failures",
			},
			[]string{"api", "error_type"},
		),

		StudioOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_operations_total",
				Help: "Total number of studio operations (image encoding, plan downloads, exports)",
			},
			[]string{"operation"},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Submission outcome
func (m *Metrics) RecordSubmission(status string, duration time.Duration) {
	m.SubmissionsTotal.WithLabelValues(status).Inc()
	m.SubmissionDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *Metrics) RecordValidationFailure(rule string) {
	m.ValidationFailures.WithLabelValues(rule).Inc()
}

func (m *Metrics) RecordMalformedResponse() {
	m.MalformedResponses.Inc()
}

// External API call metrics
func (m *Metrics) RecordExternalAPICall(api, status string, duration time.Duration) {
	m.ExternalAPICalls.WithLabelValues(api, status).Inc()
	m.ExternalAPIDuration.WithLabelValues(api).Observe(duration.Seconds())
}

// External API failure metrics
func (m *Metrics) RecordExternalAPIFailure(api, errorType string) {
	m.ExternalAPIFailures.WithLabelValues(api, errorType).Inc()
}

func (m *Metrics) RecordOperation(operation string) {
	m.StudioOperations.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncSubmissionsInProgress() {
	m.SubmissionsInProgress.Inc()
}

func (m *Metrics) DecSubmissionsInProgress() {
	m.SubmissionsInProgress.Dec()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
