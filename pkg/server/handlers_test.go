package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mcteamhub/teamhub/pkg/crossfilter"
	"github.com/mcteamhub/teamhub/pkg/dataset"
	"github.com/mcteamhub/teamhub/pkg/filter"
	"github.com/mcteamhub/teamhub/pkg/presets"
)

type stubFetcher struct {
	calls int
	rows  []crossfilter.Row
}

func (f *stubFetcher) Fetch(ctx context.Context, base map[string]any) ([]crossfilter.Row, error) {
	f.calls++
	return f.rows, nil
}

func testWebServer(t *testing.T) (*WebServer, *http.ServeMux, *stubFetcher) {
	fetcher := &stubFetcher{
		rows: []crossfilter.Row{
			{"pid": "1001", "team": "A"},
			{"pid": "1002", "team": "B"},
		},
	}
	registry := NewRegistry(func(store *crossfilter.Store) *dataset.View {
		return dataset.NewView(store, fetcher, nil)
	}, 30*time.Minute)
	t.Cleanup(registry.Close)

	ws := &WebServer{
		Scopes:  registry,
		Presets: &presets.DiskPresetStorage{Path: t.TempDir() + "/presets.json"},
	}
	return ws, ws.CreateHandler(), fetcher
}

func doJson(t *testing.T, mux *http.ServeMux, method, target string, out any) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w
}

func TestAddFilterEndpoint(t *testing.T) {
	_, mux, _ := testWebServer(t)

	state := FilterState{}
	doJson(t, mux, "GET", "/api/filters/add?scope=perf&field=team&value=A", &state)
	if len(state.Active) != 1 || state.Active[0].Field != "team" {
		t.Fatalf("Expected one active filter, got %+v", state.Active)
	}
	if state.Strategy != crossfilter.ClientSide {
		t.Errorf("Expected client-side strategy, got %v", state.Strategy)
	}

	// second plain click replaces
	doJson(t, mux, "GET", "/api/filters/add?scope=perf&field=product&value=X", &state)
	if len(state.Active) != 1 || state.Active[0].Field != "product" {
		t.Errorf("Expected replace semantics, got %+v", state.Active)
	}

	// clear empties the set
	doJson(t, mux, "GET", "/api/filters/clear?scope=perf", &state)
	if len(state.Active) != 0 {
		t.Errorf("Expected empty active set, got %+v", state.Active)
	}
	if state.Strategy != crossfilter.ServerSide {
		t.Errorf("Expected server-side strategy after clear, got %v", state.Strategy)
	}
}

func TestAddFilterRequiresField(t *testing.T) {
	_, mux, _ := testWebServer(t)
	w := doJson(t, mux, "GET", "/api/filters/add?scope=perf", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing field, got %d", w.Code)
	}
}

func TestViewEndpointTogglesWithoutRefetch(t *testing.T) {
	_, mux, fetcher := testWebServer(t)

	view := ViewResponse{}
	doJson(t, mux, "GET", "/api/view?scope=perf&f=date:2026-01", &view)
	if len(view.Rows) != 2 {
		t.Fatalf("Expected full dataset, got %d rows", len(view.Rows))
	}

	doJson(t, mux, "GET", "/api/filters/add?scope=perf&field=team&value=A", nil)
	doJson(t, mux, "GET", "/api/view?scope=perf&f=date:2026-01", &view)
	if len(view.Rows) != 1 {
		t.Fatalf("Expected one team A row, got %d", len(view.Rows))
	}
	if view.Rows[0]["pid"] != "1001" {
		t.Errorf("Expected pid 1001, got %v", view.Rows[0]["pid"])
	}

	if fetcher.calls != 1 {
		t.Errorf("Expected cross-filter toggle to reuse the fetched dataset, got %d fetches", fetcher.calls)
	}
}

func TestViewEndpointDimMode(t *testing.T) {
	_, mux, _ := testWebServer(t)

	doJson(t, mux, "GET", "/api/filters/add?scope=perf&field=team&value=A", nil)
	view := ViewResponse{}
	doJson(t, mux, "GET", "/api/view?scope=perf&dim=true&f=date:2026-01", &view)
	if len(view.Rows) != 2 {
		t.Fatalf("Expected dim mode to keep all rows, got %d", len(view.Rows))
	}
	if len(view.Matches) != 2 || !view.Matches[0] || view.Matches[1] {
		t.Errorf("Expected match flags [true false], got %v", view.Matches)
	}
}

func TestPresetApplyEndpoint(t *testing.T) {
	ws, mux, _ := testWebServer(t)

	saved, err := ws.Presets.AddPreset(presets.Preset{
		Name: "Team A focus",
		Filters: []filter.Filter{
			{Field: "team", Value: "A", Label: "Team A"},
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	state := FilterState{}
	doJson(t, mux, "POST", "/api/apply-preset/"+saved.Id+"?scope=perf", &state)
	if len(state.Active) != 1 || state.Active[0].Value != "A" {
		t.Fatalf("Expected preset filters to be imported, got %+v", state.Active)
	}
	if state.Active[0].Id == "" {
		t.Errorf("Expected imported filters to get fresh ids")
	}

	w := doJson(t, mux, "POST", "/api/apply-preset/unknown?scope=perf", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown preset, got %d", w.Code)
	}
}

func TestScopeResetEndpoint(t *testing.T) {
	_, mux, _ := testWebServer(t)

	doJson(t, mux, "GET", "/api/filters/add?scope=perf&field=team&value=A", nil)
	w := doJson(t, mux, "DELETE", "/api/scope/perf", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}

	state := FilterState{}
	doJson(t, mux, "GET", "/api/filters?scope=perf", &state)
	if len(state.Active) != 0 {
		t.Errorf("Expected empty scope after reset, got %+v", state.Active)
	}
}
