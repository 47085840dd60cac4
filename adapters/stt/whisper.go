package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/voicequery/voicequery/adapters/audio"
	"github.com/voicequery/voicequery/domain"
	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
)

const (
	defaultServerURL = "http://localhost:8178/v1"
	defaultModel     = "base"

	// Filename reported to the server for in-memory uploads
	uploadFilename = "audio.wav"
)

// WhisperConfig holds configuration for the WhisperTranscriber adapter
// Optional fields with defaults:
// - ServerURL: Base URL of an OpenAI-compatible transcription server (default: "http://localhost:8178/v1")
// - APIKey: Bearer token sent to the server (default: none, local servers ignore it)
// - Model: Whisper model size to request (default: "base")
// - Temperature: Sampling temperature between 0 and 1 (default: 0, greedy decoding)
type WhisperConfig struct {
	ServerURL   string  // Optional: Base URL of the transcription server
	APIKey      string  // Optional: Bearer token sent to the server
	Model       string  // Optional: Whisper model size to request
	Temperature float32 // Optional: Sampling temperature between 0 and 1
}

// WhisperTranscriber implements SpeechToText against an OpenAI-compatible
// transcription endpoint such as a local Whisper server
type WhisperTranscriber struct {
	serverURL   string
	model       string
	temperature float32
	client      *openai.Client
	logger      *zap.Logger
}

// Ensure WhisperTranscriber implements the SpeechToText interface
var _ repositories.SpeechToText = (*WhisperTranscriber)(nil)

// ValidateWhisperConfig validates the WhisperConfig
func ValidateWhisperConfig(config WhisperConfig) error {
	if config.Model != "" && !IsValidModel(config.Model) {
		return fmt.Errorf("model %q not found, available models: %s", config.Model, strings.Join(AvailableModels(false), ", "))
	}

	if config.Temperature < 0 || config.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	return nil
}

// NewWhisperTranscriber creates a new Whisper transcription adapter
func NewWhisperTranscriber(config WhisperConfig, logger *zap.Logger) (*WhisperTranscriber, error) {
	if err := ValidateWhisperConfig(config); err != nil {
		return nil, err
	}

	serverURL := config.ServerURL
	if serverURL == "" {
		serverURL = defaultServerURL
		logger.Info("Using default transcription server URL", zap.String("serverURL", serverURL))
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default Whisper model", zap.String("model", model))
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = serverURL

	return &WhisperTranscriber{
		serverURL:   serverURL,
		model:       model,
		temperature: config.Temperature,
		client:      openai.NewClientWithConfig(clientConfig),
		logger:      logger,
	}, nil
}

// Model reports the model name used for recognition
func (w *WhisperTranscriber) Model() string {
	return w.model
}

// Transcribe converts decoded audio to text
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioData *entities.AudioData, opts repositories.TranscriptionOptions) (*entities.Transcript, error) {
	if err := audioData.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrTranscription)
	}

	language, known := NormalizeLanguageHint(opts.Language)
	if !known {
		w.logger.Warn("Ignoring unsupported language hint", zap.String("language", opts.Language))
	}

	wav, err := audio.EncodeWAV(audioData.Samples, audioData.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audio for upload: %v: %w", err, domain.ErrTranscription)
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = w.temperature
	}

	w.logger.Info("Transcribing audio",
		zap.String("model", w.model),
		zap.String("language", language),
		zap.Float64("duration", audioData.Duration()))

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       w.model,
		FilePath:    uploadFilename,
		Reader:      bytes.NewReader(wav),
		Prompt:      opts.Prompt,
		Language:    language,
		Temperature: temperature,
		Format:      openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("transcription failed (status %d): %s: %w", apiErr.HTTPStatusCode, apiErr.Message, domain.ErrTranscription)
		}
		return nil, fmt.Errorf("transcription request failed: %v: %w", err, domain.ErrTranscription)
	}

	detected := resp.Language
	if detected == "" {
		detected = language
	}

	duration := resp.Duration
	if duration == 0 {
		duration = audioData.Duration()
	}

	// An empty transcription is a valid result for silent audio
	return &entities.Transcript{
		Text:             strings.TrimSpace(resp.Text),
		DetectedLanguage: detected,
		Duration:         duration,
		Model:            w.model,
	}, nil
}
