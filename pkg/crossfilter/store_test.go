package crossfilter

import (
	"testing"

	"github.com/mcteamhub/teamhub/pkg/filter"
)

func TestAddReplacesByDefault(t *testing.T) {
	store := NewStore()
	store.Add(filter.Filter{Field: "team", Value: "A"}, false, false)
	store.Add(filter.Filter{Field: "product", Value: "X"}, false, false)

	active := store.Active()
	if len(active) != 1 {
		t.Fatalf("Expected single filter after default add, got %d", len(active))
	}
	if active[0].Field != "product" || active[0].Value != "X" {
		t.Errorf("Expected active to be replaced by product=X, got %v", active[0])
	}
}

func TestAddAppendToggles(t *testing.T) {
	store := NewStore()
	store.Add(filter.Filter{Field: "team", Value: "A"}, true, false)
	store.Add(filter.Filter{Field: "team", Value: "B"}, true, false)
	if len(store.Active()) != 2 {
		t.Fatalf("Expected two filters after append adds, got %d", len(store.Active()))
	}

	// same (field, value) again removes it
	store.Add(filter.Filter{Field: "team", Value: "A"}, true, false)
	active := store.Active()
	if len(active) != 1 {
		t.Fatalf("Expected toggle to remove the pair, got %d filters", len(active))
	}
	if active[0].Value != "B" {
		t.Errorf("Expected team=B to remain, got %v", active[0])
	}
}

func TestBatchStagesUntilFlush(t *testing.T) {
	store := NewStore()
	store.Add(filter.Filter{Field: "team", Value: "A"}, false, false)
	store.Add(filter.Filter{Field: "pid", Value: "1001"}, false, true)
	store.Add(filter.Filter{Field: "pid", Value: "1002"}, false, true)

	if len(store.Active()) != 1 {
		t.Fatalf("Expected batch adds to not touch active, got %d", len(store.Active()))
	}
	if len(store.Pending()) != 2 {
		t.Fatalf("Expected two staged filters, got %d", len(store.Pending()))
	}

	store.FlushPending()
	if len(store.Pending()) != 0 {
		t.Errorf("Expected pending to be empty after flush")
	}
	if len(store.Active()) != 3 {
		t.Errorf("Expected flush to merge all staged filters, got %d", len(store.Active()))
	}
}

func TestFlushSkipsDuplicates(t *testing.T) {
	store := NewStore()
	store.Add(filter.Filter{Field: "team", Value: "A"}, true, false)
	store.Add(filter.Filter{Field: "team", Value: "A"}, false, true)
	store.Add(filter.Filter{Field: "team", Value: "B"}, false, true)
	store.FlushPending()

	active := store.Active()
	if len(active) != 2 {
		t.Fatalf("Expected duplicate to be skipped on flush, got %d filters", len(active))
	}
}

func TestBatchToggleInPending(t *testing.T) {
	store := NewStore()
	store.Add(filter.Filter{Field: "pid", Value: "1001"}, false, true)
	store.Add(filter.Filter{Field: "pid", Value: "1001"}, false, true)
	if len(store.Pending()) != 0 {
		t.Errorf("Expected staged toggle to cancel out, got %d", len(store.Pending()))
	}
}

func TestRemoveClearsWholeField(t *testing.T) {
	store := NewStore()
	store.Add(filter.Filter{Field: "team", Value: "A"}, true, false)
	store.Add(filter.Filter{Field: "team", Value: "B"}, true, false)
	store.Add(filter.Filter{Field: "product", Value: "X"}, true, false)

	store.Remove("team")
	active := store.Active()
	if len(active) != 1 {
		t.Fatalf("Expected only product filter to remain, got %d", len(active))
	}
	if active[0].Field != "product" {
		t.Errorf("Expected product filter to survive, got %v", active[0])
	}
}

func TestClearAllLeavesPending(t *testing.T) {
	store := NewStore()
	store.Add(filter.Filter{Field: "team", Value: "A"}, false, false)
	store.Add(filter.Filter{Field: "pid", Value: "1001"}, false, true)

	store.ClearAll()
	if store.HasActiveFilters() {
		t.Errorf("Expected active to be empty after clear")
	}
	if len(store.Pending()) != 1 {
		t.Errorf("Expected pending to survive a clear")
	}
}

func TestFetchStrategyFlips(t *testing.T) {
	store := NewStore()
	if store.FetchStrategy() != ServerSide {
		t.Errorf("Expected server-side strategy with no filters")
	}
	store.Add(filter.Filter{Field: "team", Value: "A"}, false, false)
	if store.FetchStrategy() != ClientSide {
		t.Errorf("Expected client-side strategy with active filters")
	}
	store.ClearAll()
	if store.FetchStrategy() != ServerSide {
		t.Errorf("Expected strategy to flip back when active empties")
	}
}

func TestExportStripsIdsImportRestamps(t *testing.T) {
	store := NewStore()
	store.Add(filter.Filter{Field: "team", Value: "A"}, true, false)
	store.Add(filter.Filter{Field: "product", Value: "X"}, true, false)

	exported := store.Export()
	for _, f := range exported {
		if f.Id != "" {
			t.Errorf("Expected exported filter without id, got %q", f.Id)
		}
	}

	restored := NewStore()
	restored.Import(exported)
	active := restored.Active()
	if len(active) != 2 {
		t.Fatalf("Expected import to restore both filters, got %d", len(active))
	}
	for _, f := range active {
		if f.Id == "" {
			t.Errorf("Expected import to stamp fresh ids")
		}
	}
}

func TestSubscribersNotified(t *testing.T) {
	store := NewStore()
	calls := 0
	unsubscribe := store.Subscribe(func() { calls++ })

	store.Add(filter.Filter{Field: "team", Value: "A"}, false, false)
	store.Remove("team")
	store.ClearAll()
	store.FlushPending()
	if calls != 4 {
		t.Errorf("Expected 4 notifications, got %d", calls)
	}

	unsubscribe()
	store.ClearAll()
	if calls != 4 {
		t.Errorf("Expected no notification after unsubscribe, got %d", calls)
	}
}
