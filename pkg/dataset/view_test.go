package dataset

import (
	"context"
	"testing"

	"github.com/mcteamhub/teamhub/pkg/crossfilter"
	"github.com/mcteamhub/teamhub/pkg/filter"
)

type countingFetcher struct {
	calls int
	rows  []crossfilter.Row
}

func (f *countingFetcher) Fetch(ctx context.Context, base map[string]any) ([]crossfilter.Row, error) {
	f.calls++
	return f.rows, nil
}

func newTestView() (*View, *crossfilter.Store, *countingFetcher) {
	store := crossfilter.NewStore()
	fetcher := &countingFetcher{
		rows: []crossfilter.Row{
			{"pid": "1001", "team": "A"},
			{"pid": "1002", "team": "B"},
			{"pid": "1003", "team": "A"},
		},
	}
	view := NewView(store, fetcher, nil)
	view.SetPageFilters(map[string]any{"date": "2026-01"})
	return view, store, fetcher
}

func TestViewFetchesOnce(t *testing.T) {
	view, store, fetcher := newTestView()
	ctx := context.Background()

	rows, err := view.Rows(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected full dataset, got %d rows", len(rows))
	}

	// cross-filter toggles stay in process
	store.Add(filter.Filter{Field: "team", Value: "A"}, false, false)
	rows, err = view.Rows(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected 2 team A rows, got %d", len(rows))
	}

	store.Add(filter.Filter{Field: "team", Value: "B"}, true, false)
	if _, err = view.Rows(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	store.ClearAll()
	if _, err = view.Rows(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if fetcher.calls != 1 {
		t.Errorf("Expected a single fetch across toggles, got %d", fetcher.calls)
	}
}

func TestViewRefetchesOnPageFilterChange(t *testing.T) {
	view, _, fetcher := newTestView()
	ctx := context.Background()

	if _, err := view.Rows(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	view.SetPageFilters(map[string]any{"date": "2026-02"})
	if _, err := view.Rows(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("Expected a refetch after the base filters moved, got %d calls", fetcher.calls)
	}
}

func TestViewMemoizesDerivedRows(t *testing.T) {
	view, store, _ := newTestView()
	ctx := context.Background()

	store.Add(filter.Filter{Field: "team", Value: "A"}, false, false)
	first, err := view.Rows(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := view.Rows(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("Expected identical derived rows")
	}
	if len(second) > 0 && &first[0] != &second[0] {
		// same backing slice means the memo hit
		t.Errorf("Expected memoized slice on repeat call")
	}
}

func TestViewFlags(t *testing.T) {
	view, store, _ := newTestView()
	ctx := context.Background()

	store.Add(filter.Filter{Field: "team", Value: "A"}, false, false)
	rows, flags, err := view.RowsWithFlags(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected dim mode to keep all rows, got %d", len(rows))
	}
	matched := 0
	for _, flag := range flags {
		if flag {
			matched++
		}
	}
	if matched != 2 {
		t.Errorf("Expected 2 matching rows, got %d", matched)
	}
}
