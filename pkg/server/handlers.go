package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mcteamhub/teamhub/pkg/crossfilter"
	"github.com/mcteamhub/teamhub/pkg/filter"
	"github.com/mcteamhub/teamhub/pkg/presets"
)

var (
	filterChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamhub_filter_changes_total",
		Help: "The total number of cross-filter mutations",
	})
	viewsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamhub_views_total",
		Help: "The total number of derived views served",
	})
	presetApplies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamhub_preset_applies_total",
		Help: "The total number of saved views applied",
	})
)

// FilterState is the store snapshot clients render chips and affordances
// from.
type FilterState struct {
	Active   []filter.Filter           `json:"active"`
	Pending  []filter.Filter           `json:"pending"`
	Strategy crossfilter.FetchStrategy `json:"strategy"`
}

type ViewResponse struct {
	Rows      []crossfilter.Row         `json:"rows"`
	Matches   []bool                    `json:"matches,omitempty"`
	Active    []filter.Filter           `json:"active"`
	Strategy  crossfilter.FetchStrategy `json:"strategy"`
	TotalRows int                       `json:"total_rows"`
}

func stateOf(scope *Scope) FilterState {
	return FilterState{
		Active:   scope.Store.Active(),
		Pending:  scope.Store.Pending(),
		Strategy: scope.Store.FetchStrategy(),
	}
}

func (ws *WebServer) trackChange(sessionId int, scope *Scope, action string, f *filter.Filter) {
	filterChanges.Inc()
	if ws.Tracker != nil {
		ws.Tracker.TrackFilterChange(sessionId, scope.Id, action, f, len(scope.Store.Active()))
	}
}

func respondState(w http.ResponseWriter, enc *json.Encoder, scope *Scope) error {
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(stateOf(scope))
}

func (ws *WebServer) AddFilter(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	req := FilterRequest{}
	if err := GetFilterFromRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	if req.Field == "" {
		http.Error(w, "missing field", http.StatusBadRequest)
		return nil
	}

	scope := ws.Scopes.Get(req.Scope)
	f := filter.Filter{Field: req.Field, Value: req.Value, Label: req.Label}
	scope.Store.Add(f, req.Append, req.Batch)

	action := "add"
	if req.Batch {
		action = "stage"
	}
	ws.trackChange(sessionId, scope, action, &f)
	return respondState(w, enc, scope)
}

func (ws *WebServer) RemoveFilter(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	req := FilterRequest{}
	if err := GetFilterFromRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	scope := ws.Scopes.Get(req.Scope)
	scope.Store.Remove(req.Field)
	ws.trackChange(sessionId, scope, "remove", &filter.Filter{Field: req.Field})
	return respondState(w, enc, scope)
}

func (ws *WebServer) ClearFilters(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	req := FilterRequest{}
	if err := GetFilterFromRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	scope := ws.Scopes.Get(req.Scope)
	scope.Store.ClearAll()
	ws.trackChange(sessionId, scope, "clear", nil)
	return respondState(w, enc, scope)
}

func (ws *WebServer) FlushPending(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	req := FilterRequest{}
	if err := GetFilterFromRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	scope := ws.Scopes.Get(req.Scope)
	scope.Store.FlushPending()
	ws.trackChange(sessionId, scope, "flush", nil)
	return respondState(w, enc, scope)
}

func (ws *WebServer) GetFilters(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	req := FilterRequest{}
	if err := GetFilterFromRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	return respondState(w, enc, ws.Scopes.Get(req.Scope))
}

func (ws *WebServer) ExportFilters(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	scope := ws.Scopes.Get(r.URL.Query().Get("scope"))
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(scope.Store.Export())
}

func (ws *WebServer) ImportFilters(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	var filters []filter.Filter
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	scope := ws.Scopes.Get(r.URL.Query().Get("scope"))
	scope.Store.Import(filters)
	ws.trackChange(sessionId, scope, "import", nil)
	return respondState(w, enc, scope)
}

func (ws *WebServer) GetView(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	req := ViewRequest{}
	if err := GetViewQueryFromRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	scope := ws.Scopes.Get(req.Scope)
	scope.View.SetPageFilters(req.Filters)

	response := ViewResponse{
		Active:   scope.Store.Active(),
		Strategy: scope.Store.FetchStrategy(),
	}
	var err error
	if req.Dim {
		response.Rows, response.Matches, err = scope.View.RowsWithFlags(r.Context())
	} else {
		response.Rows, err = scope.View.Rows(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return err
	}
	response.TotalRows = len(response.Rows)

	viewsServed.Inc()
	w.Header().Set("Content-Type", "application/json")
	return enc.Encode(response)
}

func (ws *WebServer) ApplyPreset(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	preset, err := presets.Find(ws.Presets, r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil
	}

	scope := ws.Scopes.Get(r.URL.Query().Get("scope"))
	scope.Store.Import(preset.Filters)
	presetApplies.Inc()
	if ws.Tracker != nil {
		ws.Tracker.TrackPresetApplied(sessionId, scope.Id, preset.Id)
	}
	return respondState(w, enc, scope)
}

func (ws *WebServer) ResetScope(w http.ResponseWriter, r *http.Request, sessionId int, enc *json.Encoder) error {
	ws.Scopes.Reset(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
	return nil
}
