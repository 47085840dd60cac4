package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voicequery/voicequery/domain"
	"github.com/voicequery/voicequery/domain/entities"
)

// StripCodeFences removes a markdown code fence wrapper from a model
// response, returning the inner text when a fence is present
func StripCodeFences(response string) string {
	if strings.Contains(response, "```json") {
		inner := strings.SplitN(response, "```json", 2)[1]
		return strings.TrimSpace(strings.SplitN(inner, "```", 2)[0])
	}

	if strings.Contains(response, "```") {
		parts := strings.SplitN(response, "```", 3)
		if len(parts) >= 2 {
			return strings.TrimSpace(parts[1])
		}
	}

	return strings.TrimSpace(response)
}

// ParseStructuredQuery parses a model response into a StructuredQuery,
// tolerating markdown fences around the JSON body
func ParseStructuredQuery(response string) (*entities.StructuredQuery, error) {
	cleaned := StripCodeFences(response)

	var query entities.StructuredQuery
	if err := json.Unmarshal([]byte(cleaned), &query); err != nil {
		// Keep the raw model response out of client-visible errors
		return nil, fmt.Errorf("could not parse model response as JSON: %w", domain.ErrQueryParse)
	}

	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrQueryParse)
	}

	return &query, nil
}
