package api

import "github.com/voicequery/voicequery/domain/entities"

// Service identity reported by the root and health endpoints.
const (
	ServiceName        = "voicequery API"
	ServiceVersion     = "1.0.0"
	ServiceDescription = "API for transcribing audio and generating structured queries"
)

// TranscriptionResponse represents the response payload for /transcribe
type TranscriptionResponse struct {
	Success       bool    `json:"success"`
	Transcription string  `json:"transcription"`
	Error         *string `json:"error"`
}

// QueryResponse represents the response payload for /generate-query
type QueryResponse struct {
	Success       bool                      `json:"success"`
	Query         *entities.StructuredQuery `json:"query"`
	Transcription *string                   `json:"transcription"`
	Error         *string                   `json:"error"`
}

// ProcessResponse represents the response payload for /process
type ProcessResponse struct {
	Success       bool                      `json:"success"`
	Transcription *string                   `json:"transcription"`
	Query         *entities.StructuredQuery `json:"query"`
	Error         *string                   `json:"error"`
}

// ErrorResponse represents a failed request. Query is always null;
// Transcription is set when audio was transcribed before the failure.
type ErrorResponse struct {
	Success       bool                      `json:"success"`
	Error         string                    `json:"error"`
	Transcription *string                   `json:"transcription"`
	Query         *entities.StructuredQuery `json:"query"`
}

// HealthResponse represents the response payload for /health
type HealthResponse struct {
	Status                   string  `json:"status"`
	Uptime                   float64 `json:"uptime"`
	WhisperModel             string  `json:"whisper_model"`
	QueryGenerationAvailable bool    `json:"query_generation_available"`
	Version                  string  `json:"version"`
}

// RootResponse represents the service information returned at /
type RootResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}
