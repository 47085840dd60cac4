package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voicequery/voicequery/domain"
	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
	"github.com/voicequery/voicequery/internal/metrics"
)

// Normalized peak below which an upload is likely silence
const silencePeakThreshold = 0.01

// PipelineService orchestrates the voice query flow: decode uploaded
// audio, transcribe it, and turn the transcription into a structured
// shopping query
type PipelineService struct {
	loader       repositories.AudioLoader
	speechToText repositories.SpeechToText
	generator    repositories.QueryGenerator     // nil when no credential is configured
	exporter     repositories.TranscriptExporter // nil disables transcript export
	exportFormat string
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(
	loader repositories.AudioLoader,
	stt repositories.SpeechToText,
	generator repositories.QueryGenerator,
	exporter repositories.TranscriptExporter,
	exportFormat string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		loader:       loader,
		speechToText: stt,
		generator:    generator,
		exporter:     exporter,
		exportFormat: exportFormat,
		metrics:      m,
		logger:       logger,
	}
}

// TranscribeRequest carries one audio upload through transcription
type TranscribeRequest struct {
	Audio    []byte
	Filename string
	Language string
}

// ProcessRequest carries an audio upload through the full pipeline
type ProcessRequest struct {
	Audio    []byte
	Filename string
	Language string
	Image    *entities.ImageInput
}

// ProcessResult holds the outputs of the full pipeline. Query stays nil
// when generation failed after a successful transcription.
type ProcessResult struct {
	Transcript *entities.Transcript
	Query      *entities.StructuredQuery
}

// QueryGenerationAvailable reports whether a query generator was
// configured at startup
func (s *PipelineService) QueryGenerationAvailable() bool {
	return s.generator != nil
}

// Model reports the speech recognition model in use
func (s *PipelineService) Model() string {
	return s.speechToText.Model()
}

// Transcribe decodes an audio upload and converts it to text
func (s *PipelineService) Transcribe(ctx context.Context, req TranscribeRequest) (*entities.Transcript, error) {
	s.logger.Info("Processing audio upload",
		zap.String("filename", req.Filename),
		zap.Int("bytes", len(req.Audio)),
		zap.String("language", req.Language))

	// Step 1: Decode audio to PCM
	audioData, err := s.loader.Load(ctx, req.Audio, req.Filename)
	if err != nil {
		s.metrics.RecordAudioDecodeFailure()
		return nil, err
	}

	if audioData.Peak() < silencePeakThreshold {
		s.logger.Warn("Audio appears to be silent",
			zap.String("filename", req.Filename),
			zap.Float64("peak", audioData.Peak()))
	}

	// Step 2: Speech to text
	s.metrics.RecordTranscriptionRequest()
	start := time.Now()
	transcript, err := s.speechToText.Transcribe(ctx, audioData, repositories.TranscriptionOptions{
		Language: req.Language,
	})
	if err != nil {
		s.metrics.RecordTranscriptionFailure(time.Since(start).Seconds())
		return nil, err
	}
	s.metrics.RecordTranscriptionSuccess(time.Since(start).Seconds())

	if transcript.IsEmpty() {
		s.logger.Warn("Transcription returned no text", zap.String("filename", req.Filename))
	} else {
		s.logger.Info("Transcription completed", zap.String("text", transcript.Text))
	}

	// Step 3: Export the transcript, best effort
	s.exportTranscript(transcript, req.Filename)

	return transcript, nil
}

// GenerateQuery turns transcribed text into a structured shopping query
func (s *PipelineService) GenerateQuery(ctx context.Context, transcription string, image *entities.ImageInput) (*entities.StructuredQuery, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("query generation is not available, check API key configuration: %w", domain.ErrQueryUnavailable)
	}

	s.metrics.RecordQueryRequest()
	start := time.Now()
	query, err := s.generator.GenerateQuery(ctx, transcription, image)
	if err != nil {
		s.metrics.RecordQueryFailure(time.Since(start).Seconds())
		return nil, err
	}
	s.metrics.RecordQuerySuccess(time.Since(start).Seconds())

	s.logger.Info("Query generation completed", zap.Int("items", len(query.Items)))

	return query, nil
}

// Process chains transcription and query generation for one upload.
// When generation fails after a successful transcription, the partial
// result is returned alongside the error.
func (s *PipelineService) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	transcript, err := s.Transcribe(ctx, TranscribeRequest{
		Audio:    req.Audio,
		Filename: req.Filename,
		Language: req.Language,
	})
	if err != nil {
		return nil, err
	}

	query, err := s.GenerateQuery(ctx, transcript.Text, req.Image)
	if err != nil {
		return &ProcessResult{Transcript: transcript}, err
	}

	return &ProcessResult{Transcript: transcript, Query: query}, nil
}

// exportTranscript persists a transcript when an exporter is configured.
// Failures are logged, never surfaced to the request.
func (s *PipelineService) exportTranscript(transcript *entities.Transcript, source string) {
	if s.exporter == nil || transcript.IsEmpty() {
		return
	}

	path, err := s.exporter.Export(s.exportFormat, transcript, source)
	if err != nil {
		s.logger.Error("Failed to export transcript", zap.Error(err))
		return
	}

	s.metrics.RecordExport(s.exportFormat)
	s.logger.Info("Transcript exported", zap.String("path", path))
}
