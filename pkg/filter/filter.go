package filter

import (
	"fmt"
	"time"
)

// Filter is a single predicate instance created by clicking a visualization.
// Id keeps chip rendering stable in clients and never takes part in equality.
type Filter struct {
	Field string `json:"field" schema:"field"`
	Value string `json:"value" schema:"value"`
	Label string `json:"label,omitempty" schema:"label"`
	Id    string `json:"id,omitempty" schema:"-"`
}

// New normalizes the raw value, falls back to it for the chip label and stamps
// the insertion id.
func New(field string, value any, label string) Filter {
	normalized := Normalize(value)
	if label == "" {
		label = normalized
	}
	return Filter{
		Field: field,
		Value: normalized,
		Label: label,
		Id:    stampId(field, normalized),
	}
}

func stampId(field, value string) string {
	return fmt.Sprintf("%s_%s_%d", field, value, time.Now().UnixNano())
}

// Same reports (field, value) equality, the only equality that matters.
func (f Filter) Same(other Filter) bool {
	return f.Field == other.Field && f.Value == other.Value
}
