package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Wrapped carries a scalar together with extra descriptive data from upstream,
// e.g. a fiscal date with its display period. Only Value takes part in
// comparisons.
type Wrapped struct {
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// Normalize produces the canonical comparison string for a filter value.
// Upstream sources deliver the same dimension as a bare scalar, a wrapper
// object or a list, so every comparison goes through here first.
// Total and idempotent: any input yields a string, normalizing twice changes
// nothing.
func Normalize(input any) string {
	switch value := input.(type) {
	case nil:
		return ""
	case string:
		return value
	case Wrapped:
		return value.Value
	case *Wrapped:
		if value == nil {
			return ""
		}
		return value.Value
	case []string:
		return strings.Join(value, ", ")
	case []any:
		parts := make([]string, len(value))
		for i, v := range value {
			parts[i] = Normalize(v)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if inner, ok := value["value"]; ok {
			return Normalize(inner)
		}
		return fmt.Sprintf("%v", value)
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case uint:
		return strconv.FormatUint(uint64(value), 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", value)
	}
}
