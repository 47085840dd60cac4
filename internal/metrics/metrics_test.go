package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTranscription(t *testing.T) {
	m := NewMetricsFor(prometheus.NewRegistry())

	m.RecordTranscriptionRequest()
	m.RecordTranscriptionRequest()
	m.RecordTranscriptionFailure(0.5)

	if got := testutil.ToFloat64(m.TranscriptionRequests); got != 2 {
		t.Errorf("Expected 2 transcription requests, got %f", got)
	}

	if got := testutil.ToFloat64(m.TranscriptionFailures); got != 1 {
		t.Errorf("Expected 1 transcription failure, got %f", got)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetricsFor(prometheus.NewRegistry())

	m.RecordHTTPRequest("POST", "/transcribe", "200", 0.1)
	m.RecordHTTPRequest("POST", "/transcribe", "200", 0.2)
	m.RecordHTTPRequest("POST", "/transcribe", "400", 0.1)

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/transcribe", "200")); got != 2 {
		t.Errorf("Expected 2 successful requests, got %f", got)
	}

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/transcribe", "400")); got != 1 {
		t.Errorf("Expected 1 rejected request, got %f", got)
	}
}

func TestRecordExport(t *testing.T) {
	m := NewMetricsFor(prometheus.NewRegistry())

	m.RecordExport("json")
	m.RecordExport("json")
	m.RecordExport("csv")

	if got := testutil.ToFloat64(m.ExportsWritten.WithLabelValues("json")); got != 2 {
		t.Errorf("Expected 2 json exports, got %f", got)
	}
}

func TestSeparateRegistries(t *testing.T) {
	first := NewMetricsFor(prometheus.NewRegistry())
	second := NewMetricsFor(prometheus.NewRegistry())

	first.RecordAudioDecodeFailure()

	if got := testutil.ToFloat64(second.AudioDecodeFailures); got != 0 {
		t.Errorf("Expected isolated registries, got %f", got)
	}
}
