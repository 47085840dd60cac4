package repositories

import (
	"context"

	"github.com/voicequery/voicequery/domain/entities"
)

// QueryGenerator abstracts any model provider that turns transcribed
// speech into a structured shopping query
type QueryGenerator interface {
	// GenerateQuery builds a structured query from the transcription,
	// optionally grounded on a reference image
	GenerateQuery(ctx context.Context, transcription string, image *entities.ImageInput) (*entities.StructuredQuery, error)
}
