package entities

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ItemSpec is one requested product in a structured query. The attribute
// set is model-generated and open ended (product_type, color, description,
// price_range, max_price, ...), so it stays a loose mapping rather than a
// fixed record.
type ItemSpec map[string]any

// StringValue returns the named attribute when it is a string, or "".
func (i ItemSpec) StringValue(key string) string {
	if v, ok := i[key].(string); ok {
		return v
	}
	return ""
}

// Number returns the named attribute when it is numeric.
func (i ItemSpec) Number(key string) (float64, bool) {
	switch v := i[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// PriceRange returns the min and max of a price_range attribute when present.
func (i ItemSpec) PriceRange() (min, max float64, ok bool) {
	r, isMap := i["price_range"].(map[string]any)
	if !isMap {
		return 0, 0, false
	}
	min, hasMin := asNumber(r["min"])
	max, hasMax := asNumber(r["max"])
	return min, max, hasMin || hasMax
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// StructuredQuery is model-generated shopping intent. Items keeps the order
// the model produced it in; Extra preserves any other top-level fields the
// model chose to emit (for example "preferences"), so a query survives a
// serialize/parse round trip intact.
type StructuredQuery struct {
	Items []ItemSpec
	Extra map[string]any
}

// UnmarshalJSON requires a top-level JSON object and splits it into the
// items array and the remaining fields.
func (q *StructuredQuery) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("query must be a JSON object: %w", err)
	}

	q.Items = nil
	q.Extra = nil

	if itemsRaw, ok := raw["items"]; ok {
		if err := json.Unmarshal(itemsRaw, &q.Items); err != nil {
			return fmt.Errorf("items must be an array of objects: %w", err)
		}
		delete(raw, "items")
	}

	for key, value := range raw {
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if q.Extra == nil {
			q.Extra = make(map[string]any, len(raw))
		}
		q.Extra[key] = decoded
	}
	return nil
}

// MarshalJSON reassembles the top-level object. Items always serializes,
// as an empty array when nothing was requested.
func (q StructuredQuery) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(q.Extra)+1)
	for key, value := range q.Extra {
		out[key] = value
	}
	items := q.Items
	if items == nil {
		items = []ItemSpec{}
	}
	out["items"] = items
	return json.Marshal(out)
}

// Validate checks the shape contract for model output: the items array
// must have been present. Element types are already enforced during
// unmarshalling.
func (q *StructuredQuery) Validate() error {
	if q.Items == nil {
		return errors.New("query is missing an items array")
	}
	return nil
}
