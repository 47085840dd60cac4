package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/voicequery/voicequery/domain"
	"github.com/voicequery/voicequery/domain/entities"
	"github.com/voicequery/voicequery/domain/repositories"
)

const (
	defaultModel           = "gemini-2.0-flash"
	defaultTemperature     = 0.2
	defaultTopP            = 0.95
	defaultTopK            = 40
	defaultMaxOutputTokens = 1024
)

// GeminiConfig holds configuration for the GeminiQueryGenerator adapter
// Required fields:
// - APIKey: Your Google AI API key
// Optional fields with defaults:
// - Model: The model to use (default: "gemini-2.0-flash")
// - Temperature: Sampling temperature between 0 and 1 (default: 0.2)
// - TopP: Nucleus sampling value between 0 and 1 (default: 0.95)
// - TopK: Top-k sampling value (default: 40)
// - MaxOutputTokens: Response token budget (default: 1024)
type GeminiConfig struct {
	APIKey          string  // Required: Your Google AI API key
	Model           string  // Optional: The model to use
	Temperature     float32 // Optional: Sampling temperature between 0 and 1
	TopP            float32 // Optional: Nucleus sampling value between 0 and 1
	TopK            float32 // Optional: Top-k sampling value
	MaxOutputTokens int     // Optional: Response token budget
}

// GeminiQueryGenerator implements the QueryGenerator interface using
// Google's Gemini API
type GeminiQueryGenerator struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	topP            float32
	topK            float32
	maxOutputTokens int
}

// Ensure GeminiQueryGenerator implements the QueryGenerator interface
var _ repositories.QueryGenerator = (*GeminiQueryGenerator)(nil)

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}

	// Validate temperature is in the valid range
	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	// Validate topP is in the valid range
	if config.TopP != 0 && (config.TopP < 0 || config.TopP > 1) {
		return fmt.Errorf("topP must be between 0 and 1, got %f", config.TopP)
	}

	// Validate topK is positive if specified
	if config.TopK < 0 {
		return fmt.Errorf("topK must be positive, got %f", config.TopK)
	}

	// Validate token budget is positive if specified
	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("maxOutputTokens must be positive, got %d", config.MaxOutputTokens)
	}

	return nil
}

// NewGeminiQueryGenerator creates a new Gemini query generation instance
func NewGeminiQueryGenerator(config GeminiConfig, logger *zap.Logger) (*GeminiQueryGenerator, error) {
	// Validate required configuration
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Apply defaults where needed
	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = float32(defaultTemperature)
		logger.Info("Using default temperature", zap.Float32("temperature", temperature))
	}

	topP := config.TopP
	if topP == 0 {
		topP = float32(defaultTopP)
		logger.Info("Using default topP", zap.Float32("topP", topP))
	}

	topK := config.TopK
	if topK == 0 {
		topK = float32(defaultTopK)
		logger.Info("Using default topK", zap.Float32("topK", topK))
	}

	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxOutputTokens
		logger.Info("Using default maxOutputTokens", zap.Int("maxOutputTokens", maxOutputTokens))
	}

	return &GeminiQueryGenerator{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     temperature,
		topP:            topP,
		topK:            topK,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

// GenerateQuery builds a structured shopping query from transcribed text
// and an optional reference image
func (g *GeminiQueryGenerator) GenerateQuery(ctx context.Context, transcription string, image *entities.ImageInput) (*entities.StructuredQuery, error) {
	prompt := BuildFashionPrompt(transcription)

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if image != nil {
		if err := image.Validate(); err != nil {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrQueryGeneration)
		}
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MIME()))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		TopP:             genai.Ptr(g.topP),
		TopK:             genai.Ptr(g.topK),
		MaxOutputTokens:  int32(g.maxOutputTokens),
		ResponseMIMEType: "application/json",
	}

	g.logger.Info("Generating structured query",
		zap.String("model", g.model),
		zap.Int("transcriptionLength", len(transcription)),
		zap.Bool("hasImage", image != nil))

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, classifyUpstreamError(err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated: %w", domain.ErrQueryGeneration)
	}

	// Extract text from the response
	var responseText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			responseText += part.Text
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("empty model response: %w", domain.ErrQueryGeneration)
	}

	g.logger.Debug("Raw generation response",
		zap.String("response", responseText[:min(200, len(responseText))]))

	query, err := ParseStructuredQuery(responseText)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Generated structured query", zap.Int("items", len(query.Items)))

	return query, nil
}

// classifyUpstreamError maps a Gemini API failure onto the error
// taxonomy. Credential rejections count as service unavailability,
// everything else is a generation failure.
func classifyUpstreamError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 401 || apiErr.Code == 403 {
			return fmt.Errorf("generation credential rejected (status %d): %w", apiErr.Code, domain.ErrQueryUnavailable)
		}
		return fmt.Errorf("generation failed (status %d): %s: %w", apiErr.Code, apiErr.Message, domain.ErrQueryGeneration)
	}
	return fmt.Errorf("generation request failed: %v: %w", err, domain.ErrQueryGeneration)
}
