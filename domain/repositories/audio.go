package repositories

import (
	"context"

	"github.com/voicequery/voicequery/domain/entities"
)

// AudioLoader decodes uploaded audio bytes into normalized PCM samples
type AudioLoader interface {
	// Load decodes audio from memory, resampling to the loader's target
	// rate when needed. The filename is only a format hint.
	Load(ctx context.Context, data []byte, filename string) (*entities.AudioData, error)
}
