package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
)

// MockSpeechToText is a placeholder implementation for speech recognition
type MockSpeechToText struct {
	logger *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

// Model reports the model name used for recognition
func (s *MockSpeechToText) Model() string {
	return "mock"
}

// Transcribe implements repositories.SpeechToText
func (s *MockSpeechToText) Transcribe(ctx context.Context, audioData *entities.AudioData, opts repositories.TranscriptionOptions) (*entities.Transcript, error) {
	duration := audioData.Duration()

	s.logger.Info("Processing speech-to-text",
		zap.Int("samples", len(audioData.Samples)),
		zap.Int("sampleRate", audioData.SampleRate),
		zap.Float64("duration", duration))

	// Mock transcription based on audio length
	var text string
	switch {
	case duration > 10:
		text = "I am looking for a red dress and matching shoes for a summer wedding."
	case duration > 5:
		text = "Quiero una camiseta azul barata."
	case duration > 1:
		text = "Show me blue shirts under thirty dollars."
	default:
		text = "Hello"
	}

	return &entities.Transcript{
		Text:             text,
		DetectedLanguage: opts.Language,
		Duration:         duration,
		Model:            s.Model(),
	}, nil
}
