package crossfilter

import (
	"github.com/mcteamhub/teamhub/pkg/filter"
)

// Row is one record of a fetched dataset as decoded from the warehouse.
type Row = map[string]any

// groupValues collects the accepted values per field. Filters on the same
// field are alternatives, filters on different fields are conjunctive.
func groupValues(active []filter.Filter) map[string][]string {
	grouped := make(map[string][]string, len(active))
	for _, f := range active {
		grouped[f.Field] = append(grouped[f.Field], f.Value)
	}
	return grouped
}

func rowMatches(row Row, grouped map[string][]string) bool {
	for field, accepted := range grouped {
		value := filter.Normalize(row[field])
		found := false
		for _, want := range accepted {
			if value == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Refilter narrows an already fetched dataset against the active set without
// any network round trip. Same-field filters are OR'ed, cross-field AND'ed.
// Plain linear scan, datasets are thousands of rows at most.
func Refilter(rows []Row, active []filter.Filter) []Row {
	if len(active) == 0 {
		return rows
	}
	grouped := groupValues(active)
	result := make([]Row, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, grouped) {
			result = append(result, row)
		}
	}
	return result
}

// MatchRow reports whether one row satisfies the active set. Renderers use it
// to dim non-matching rows without dropping them from the display set.
func MatchRow(row Row, active []filter.Filter) bool {
	if len(active) == 0 {
		return true
	}
	return rowMatches(row, groupValues(active))
}

// MatchFlags evaluates MatchRow over a whole dataset, for adapters rendering
// everything with selected/dimmed styling instead of a narrowed view.
func MatchFlags(rows []Row, active []filter.Filter) []bool {
	grouped := groupValues(active)
	flags := make([]bool, len(rows))
	for i, row := range rows {
		flags[i] = len(active) == 0 || rowMatches(row, grouped)
	}
	return flags
}
