package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/voicequery/voicequery/domain"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"plain json", `{"items": []}`, `{"items": []}`},
		{"json fence", "```json\n{\"items\": []}\n```", `{"items": []}`},
		{"generic fence", "```\n{\"items\": []}\n```", `{"items": []}`},
		{"fence with prose", "Here you go:\n```json\n{\"items\": []}\n```\nHope that helps!", `{"items": []}`},
		{"unclosed fence", "```json\n{\"items\": []}", `{"items": []}`},
		{"surrounding whitespace", "  {\"items\": []}\n", `{"items": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.response); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseStructuredQuery(t *testing.T) {
	response := "```json\n" + `{
		"items": [
			{"product_type": "camiseta", "color": "azul", "price_range": {"min": 0, "max": 20}},
			{"product_type": "pantalones", "color": "negro"}
		],
		"preferences": {"sort_by": "price_low_to_high"}
	}` + "\n```"

	query, err := ParseStructuredQuery(response)
	if err != nil {
		t.Fatalf("Failed to parse query: %v", err)
	}

	if len(query.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(query.Items))
	}

	first := query.Items[0]
	if first.StringValue("product_type") != "camiseta" {
		t.Errorf("Expected product_type camiseta, got %q", first.StringValue("product_type"))
	}

	if first.StringValue("color") != "azul" {
		t.Errorf("Expected color azul, got %q", first.StringValue("color"))
	}

	_, maxPrice, ok := first.PriceRange()
	if !ok {
		t.Fatal("Expected a price range on the first item")
	}
	if maxPrice > 30 {
		t.Errorf("Expected cheap price ceiling, got %f", maxPrice)
	}

	// Item order follows the model output
	if query.Items[1].StringValue("product_type") != "pantalones" {
		t.Errorf("Expected second item pantalones, got %q", query.Items[1].StringValue("product_type"))
	}

	// Unknown top-level fields survive parsing
	if _, ok := query.Extra["preferences"]; !ok {
		t.Error("Expected preferences field to be preserved")
	}
}

func TestParseStructuredQueryRoundTrip(t *testing.T) {
	response := `{"items": [{"description": "blue shirt", "max_price": 30}], "preferences": {"show_only_available": true}}`

	query, err := ParseStructuredQuery(response)
	if err != nil {
		t.Fatalf("Failed to parse query: %v", err)
	}

	serialized, err := json.Marshal(query)
	if err != nil {
		t.Fatalf("Failed to serialize query: %v", err)
	}

	reparsed, err := ParseStructuredQuery(string(serialized))
	if err != nil {
		t.Fatalf("Failed to reparse query: %v", err)
	}

	if len(reparsed.Items) != 1 {
		t.Fatalf("Expected 1 item after round trip, got %d", len(reparsed.Items))
	}

	if price, ok := reparsed.Items[0].Number("max_price"); !ok || price != 30 {
		t.Errorf("Expected max_price 30 after round trip, got %f (ok=%v)", price, ok)
	}

	if _, ok := reparsed.Extra["preferences"]; !ok {
		t.Error("Expected preferences field to survive round trip")
	}
}

func TestParseStructuredQueryInvalidJSON(t *testing.T) {
	raw := "I could not generate a query for that request."

	_, err := ParseStructuredQuery(raw)
	if !errors.Is(err, domain.ErrQueryParse) {
		t.Fatalf("Expected ErrQueryParse, got %v", err)
	}

	if strings.Contains(err.Error(), raw) {
		t.Error("Expected raw model response to be excluded from the error")
	}
}

func TestParseStructuredQueryRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"array at top level", `[{"product_type": "shirt"}]`},
		{"string at top level", `"just text"`},
		{"missing items", `{"query": "blue shirt"}`},
		{"items not an array", `{"items": "blue shirt"}`},
		{"items of non-objects", `{"items": [42]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStructuredQuery(tt.response)
			if !errors.Is(err, domain.ErrQueryParse) {
				t.Errorf("Expected ErrQueryParse, got %v", err)
			}
		})
	}
}

func TestParseStructuredQueryEmptyItems(t *testing.T) {
	query, err := ParseStructuredQuery(`{"items": []}`)
	if err != nil {
		t.Fatalf("Expected empty items to be valid, got %v", err)
	}

	if len(query.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(query.Items))
	}
}
