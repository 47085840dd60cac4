package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/voicequery/voicequery/domain"
	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
	"github.com/voicequery/voicequery/internal/metrics"
)

type stubLoader struct {
	audio *entities.AudioData
	err   error
}

func (s *stubLoader) Load(ctx context.Context, data []byte, filename string) (*entities.AudioData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.audio, nil
}

type stubSpeech struct {
	transcript *entities.Transcript
	err        error
	calls      int
}

func (s *stubSpeech) Transcribe(ctx context.Context, audio *entities.AudioData, opts repositories.TranscriptionOptions) (*entities.Transcript, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.transcript, nil
}

func (s *stubSpeech) Model() string {
	return "stub"
}

type stubGenerator struct {
	query *entities.StructuredQuery
	err   error
	calls int
}

func (s *stubGenerator) GenerateQuery(ctx context.Context, transcription string, image *entities.ImageInput) (*entities.StructuredQuery, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.query, nil
}

type stubExporter struct {
	err        error
	calls      int
	lastFormat string
}

func (s *stubExporter) Export(format string, transcript *entities.Transcript, source string) (string, error) {
	s.calls++
	s.lastFormat = format
	if s.err != nil {
		return "", s.err
	}
	return "/tmp/exports/transcript.json", nil
}

func loudAudio() *entities.AudioData {
	samples := make([]int16, 16000)
	for i := range samples {
		samples[i] = 8000
	}
	return &entities.AudioData{Samples: samples, SampleRate: 16000, SourceFormat: "wav"}
}

func spanishTranscript() *entities.Transcript {
	return &entities.Transcript{Text: "quiero una camiseta azul barata", DetectedLanguage: "es", Duration: 1, Model: "base"}
}

func spanishQuery() *entities.StructuredQuery {
	return &entities.StructuredQuery{Items: []entities.ItemSpec{{"product_type": "camiseta", "color": "azul"}}}
}

func newTestPipeline(loader repositories.AudioLoader, stt repositories.SpeechToText, generator repositories.QueryGenerator, exporter repositories.TranscriptExporter, t *testing.T) (*PipelineService, *metrics.Metrics) {
	m := metrics.NewMetricsFor(prometheus.NewRegistry())
	return NewPipelineService(loader, stt, generator, exporter, "json", m, zaptest.NewLogger(t)), m
}

func TestTranscribe(t *testing.T) {
	loader := &stubLoader{audio: loudAudio()}
	speech := &stubSpeech{transcript: spanishTranscript()}
	exporter := &stubExporter{}

	pipeline, m := newTestPipeline(loader, speech, nil, exporter, t)

	transcript, err := pipeline.Transcribe(context.Background(), TranscribeRequest{Audio: []byte("riff"), Filename: "voice.wav", Language: "es"})
	if err != nil {
		t.Fatalf("Failed to transcribe: %v", err)
	}

	if transcript.Text != "quiero una camiseta azul barata" {
		t.Errorf("Expected transcription text, got %q", transcript.Text)
	}

	if exporter.calls != 1 {
		t.Errorf("Expected 1 export call, got %d", exporter.calls)
	}

	if exporter.lastFormat != "json" {
		t.Errorf("Expected json export format, got %q", exporter.lastFormat)
	}

	if got := testutil.ToFloat64(m.TranscriptionRequests); got != 1 {
		t.Errorf("Expected 1 transcription request recorded, got %f", got)
	}
}

func TestTranscribeExportFailureIsSwallowed(t *testing.T) {
	loader := &stubLoader{audio: loudAudio()}
	speech := &stubSpeech{transcript: spanishTranscript()}
	exporter := &stubExporter{err: fmt.Errorf("disk full")}

	pipeline, _ := newTestPipeline(loader, speech, nil, exporter, t)

	if _, err := pipeline.Transcribe(context.Background(), TranscribeRequest{Audio: []byte("riff"), Filename: "voice.wav"}); err != nil {
		t.Fatalf("Expected export failure to be swallowed, got %v", err)
	}

	if exporter.calls != 1 {
		t.Errorf("Expected 1 export attempt, got %d", exporter.calls)
	}
}

func TestTranscribeSkipsExportForEmptyTranscript(t *testing.T) {
	loader := &stubLoader{audio: loudAudio()}
	speech := &stubSpeech{transcript: &entities.Transcript{Text: "  "}}
	exporter := &stubExporter{}

	pipeline, _ := newTestPipeline(loader, speech, nil, exporter, t)

	if _, err := pipeline.Transcribe(context.Background(), TranscribeRequest{Audio: []byte("riff"), Filename: "voice.wav"}); err != nil {
		t.Fatalf("Failed to transcribe: %v", err)
	}

	if exporter.calls != 0 {
		t.Errorf("Expected no export for empty transcript, got %d calls", exporter.calls)
	}
}

func TestTranscribeDecodeFailure(t *testing.T) {
	loader := &stubLoader{err: fmt.Errorf("unsupported audio format: %w", domain.ErrAudioDecode)}
	speech := &stubSpeech{transcript: spanishTranscript()}

	pipeline, m := newTestPipeline(loader, speech, nil, nil, t)

	_, err := pipeline.Transcribe(context.Background(), TranscribeRequest{Audio: []byte("junk"), Filename: "notes.txt"})
	if !errors.Is(err, domain.ErrAudioDecode) {
		t.Fatalf("Expected ErrAudioDecode, got %v", err)
	}

	if speech.calls != 0 {
		t.Errorf("Expected transcription to be skipped after decode failure, got %d calls", speech.calls)
	}

	if got := testutil.ToFloat64(m.AudioDecodeFailures); got != 1 {
		t.Errorf("Expected 1 decode failure recorded, got %f", got)
	}
}

func TestGenerateQueryUnavailable(t *testing.T) {
	pipeline, _ := newTestPipeline(&stubLoader{audio: loudAudio()}, &stubSpeech{transcript: spanishTranscript()}, nil, nil, t)

	if pipeline.QueryGenerationAvailable() {
		t.Error("Expected query generation to be unavailable without a generator")
	}

	_, err := pipeline.GenerateQuery(context.Background(), "quiero una camiseta azul barata", nil)
	if !errors.Is(err, domain.ErrQueryUnavailable) {
		t.Errorf("Expected ErrQueryUnavailable, got %v", err)
	}
}

func TestProcess(t *testing.T) {
	loader := &stubLoader{audio: loudAudio()}
	speech := &stubSpeech{transcript: spanishTranscript()}
	generator := &stubGenerator{query: spanishQuery()}

	pipeline, _ := newTestPipeline(loader, speech, generator, nil, t)

	result, err := pipeline.Process(context.Background(), ProcessRequest{Audio: []byte("riff"), Filename: "voice.wav", Language: "es"})
	if err != nil {
		t.Fatalf("Failed to process: %v", err)
	}

	if result.Transcript == nil || result.Transcript.Text != "quiero una camiseta azul barata" {
		t.Error("Expected transcript in result")
	}

	if result.Query == nil || len(result.Query.Items) != 1 {
		t.Error("Expected query in result")
	}
}

func TestProcessPreservesTranscriptOnGenerationFailure(t *testing.T) {
	loader := &stubLoader{audio: loudAudio()}
	speech := &stubSpeech{transcript: spanishTranscript()}
	generator := &stubGenerator{err: fmt.Errorf("generation failed (status 500): %w", domain.ErrQueryGeneration)}

	pipeline, _ := newTestPipeline(loader, speech, generator, nil, t)

	result, err := pipeline.Process(context.Background(), ProcessRequest{Audio: []byte("riff"), Filename: "voice.wav"})
	if !errors.Is(err, domain.ErrQueryGeneration) {
		t.Fatalf("Expected ErrQueryGeneration, got %v", err)
	}

	if result == nil || result.Transcript == nil {
		t.Fatal("Expected partial result with transcript")
	}

	if result.Query != nil {
		t.Error("Expected nil query in partial result")
	}
}

func TestProcessAbortsBeforeGenerationOnTranscriptionFailure(t *testing.T) {
	loader := &stubLoader{audio: loudAudio()}
	speech := &stubSpeech{err: fmt.Errorf("inference failed: %w", domain.ErrTranscription)}
	generator := &stubGenerator{query: spanishQuery()}

	pipeline, _ := newTestPipeline(loader, speech, generator, nil, t)

	result, err := pipeline.Process(context.Background(), ProcessRequest{Audio: []byte("riff"), Filename: "voice.wav"})
	if !errors.Is(err, domain.ErrTranscription) {
		t.Fatalf("Expected ErrTranscription, got %v", err)
	}

	if result != nil {
		t.Error("Expected no result when transcription fails")
	}

	if generator.calls != 0 {
		t.Errorf("Expected generation to be skipped, got %d calls", generator.calls)
	}
}
