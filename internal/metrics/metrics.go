package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the voice query service
type Metrics struct {
	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Audio decoding metrics
	AudioDecodeFailures prometheus.Counter

	// Transcription metrics
	TranscriptionRequests prometheus.Counter
	TranscriptionFailures prometheus.Counter
	TranscriptionDuration prometheus.Histogram

	// Query generation metrics
	QueryRequests prometheus.Counter
	QueryFailures prometheus.Counter
	QueryDuration prometheus.Histogram

	// Transcript export metrics
	ExportsWritten *prometheus.CounterVec
}

// NewMetrics creates all metrics on the default registry
func NewMetrics() *Metrics {
	return NewMetricsFor(prometheus.DefaultRegisterer)
}

// NewMetricsFor creates all metrics on the given registry, which keeps
// repeated construction in tests from tripping duplicate registration
func NewMetricsFor(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP API metrics
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicequery_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voicequery_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		// Audio decoding metrics
		AudioDecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicequery_audio_decode_failures_total",
			Help: "Total number of audio uploads that could not be decoded",
		}),

		// Transcription metrics
		TranscriptionRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicequery_transcription_requests_total",
			Help: "Total number of transcription requests",
		}),
		TranscriptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicequery_transcription_failures_total",
			Help: "Total number of failed transcription requests",
		}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicequery_transcription_duration_seconds",
			Help:    "Duration of transcription requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),

		// Query generation metrics
		QueryRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicequery_query_requests_total",
			Help: "Total number of query generation requests",
		}),
		QueryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicequery_query_failures_total",
			Help: "Total number of failed query generation requests",
		}),
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicequery_query_generation_duration_seconds",
			Help:    "Duration of query generation requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),

		// Transcript export metrics
		ExportsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicequery_exports_written_total",
			Help: "Total number of transcript export files written",
		}, []string{"format"}),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordAudioDecodeFailure increments the decode failures counter
func (m *Metrics) RecordAudioDecodeFailure() {
	m.AudioDecodeFailures.Inc()
}

// RecordTranscriptionRequest increments the transcription requests counter
func (m *Metrics) RecordTranscriptionRequest() {
	m.TranscriptionRequests.Inc()
}

// RecordTranscriptionSuccess records a successful transcription
func (m *Metrics) RecordTranscriptionSuccess(durationSeconds float64) {
	m.TranscriptionDuration.Observe(durationSeconds)
}

// RecordTranscriptionFailure records a failed transcription
func (m *Metrics) RecordTranscriptionFailure(durationSeconds float64) {
	m.TranscriptionFailures.Inc()
	m.TranscriptionDuration.Observe(durationSeconds)
}

// RecordQueryRequest increments the query requests counter
func (m *Metrics) RecordQueryRequest() {
	m.QueryRequests.Inc()
}

// RecordQuerySuccess records a successful query generation
func (m *Metrics) RecordQuerySuccess(durationSeconds float64) {
	m.QueryDuration.Observe(durationSeconds)
}

// RecordQueryFailure records a failed query generation
func (m *Metrics) RecordQueryFailure(durationSeconds float64) {
	m.QueryFailures.Inc()
	m.QueryDuration.Observe(durationSeconds)
}

// RecordExport records a written transcript export file
func (m *Metrics) RecordExport(format string) {
	m.ExportsWritten.WithLabelValues(format).Inc()
}
