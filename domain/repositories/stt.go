package repositories

import (
	"context"

	"github.com/voicequery/voicequery/domain/entities"
)

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// Transcribe converts decoded audio to text
	Transcribe(ctx context.Context, audio *entities.AudioData, opts TranscriptionOptions) (*entities.Transcript, error)
	// Model reports the model name used for recognition
	Model() string
}

// TranscriptionOptions carries per-request recognition settings
type TranscriptionOptions struct {
	Language    string  `json:"language"`
	Prompt      string  `json:"prompt"`
	Temperature float32 `json:"temperature"`
}
