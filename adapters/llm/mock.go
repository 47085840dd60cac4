package llm

import (
	"context"

	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
)

// MockQueryGenerator is a placeholder implementation for query generation
type MockQueryGenerator struct{}

// NewMockQueryGenerator creates a new mock query generator
func NewMockQueryGenerator() repositories.QueryGenerator {
	return &MockQueryGenerator{}
}

// GenerateQuery implements repositories.QueryGenerator
func (g *MockQueryGenerator) GenerateQuery(ctx context.Context, transcription string, image *entities.ImageInput) (*entities.StructuredQuery, error) {
	// Mock query echoing the transcription as a single item
	item := entities.ItemSpec{
		"product_type": "shirt",
		"color":        "blue",
		"description":  transcription,
		"price_range":  map[string]any{"min": 0.0, "max": 30.0},
	}

	return &entities.StructuredQuery{
		Items: []entities.ItemSpec{item},
	}, nil
}
