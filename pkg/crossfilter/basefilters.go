package crossfilter

import (
	"net/url"
	"sort"
	"strings"

	"github.com/mcteamhub/teamhub/pkg/filter"
)

// BaseFilters projects the page's full filter object onto the fields not
// claimed by any active cross filter. Only this subset may reach a warehouse
// fetch key, which is what keeps a cross-filter toggle from re-querying the
// backend.
func BaseFilters(all map[string]any, active []filter.Filter) map[string]any {
	claimed := make(map[string]struct{}, len(active))
	for _, f := range active {
		claimed[f.Field] = struct{}{}
	}
	result := make(map[string]any, len(all))
	for key, value := range all {
		if _, ok := claimed[key]; !ok {
			result[key] = value
		}
	}
	return result
}

// CacheKey renders base filters deterministically, sorted by key with
// normalized values, so deep-equal inputs always produce the same key. Keys
// and values are escaped and list elements rendered individually, so distinct
// inputs never collide on one key.
func CacheKey(base map[string]any) string {
	keys := make([]string, 0, len(base))
	for key := range base {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(keyValue(base[key]))
	}
	return sb.String()
}

// keyValue escapes one base-filter value for the cache key. Lists keep their
// element boundaries, a scalar that happens to contain the separator escapes
// differently from a real list.
func keyValue(value any) string {
	switch typed := value.(type) {
	case []string:
		escaped := make([]string, len(typed))
		for i, v := range typed {
			escaped[i] = url.QueryEscape(v)
		}
		return strings.Join(escaped, ",")
	case []any:
		escaped := make([]string, len(typed))
		for i, v := range typed {
			escaped[i] = url.QueryEscape(filter.Normalize(v))
		}
		return strings.Join(escaped, ",")
	default:
		return url.QueryEscape(filter.Normalize(value))
	}
}

// Signature renders the active set as a memoization key for derived views:
// sorted (field, value) pairs, insertion order and ids ignored.
func Signature(active []filter.Filter) string {
	pairs := make([]string, len(active))
	for i, f := range active {
		pairs[i] = f.Field + ":" + f.Value
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}
