package server

import (
	"net/http"

	"github.com/mcteamhub/teamhub/pkg/common"
	"github.com/mcteamhub/teamhub/pkg/presets"
	"github.com/mcteamhub/teamhub/pkg/tracking"
)

type WebServer struct {
	Scopes  *Registry
	Presets presets.PresetStorage
	Tracker tracking.Tracking
}

func (ws *WebServer) CreateHandler() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/filters", common.JsonHandler(ws.Tracker, ws.GetFilters))
	mux.HandleFunc("/api/filters/add", common.JsonHandler(ws.Tracker, ws.AddFilter))
	mux.HandleFunc("/api/filters/remove", common.JsonHandler(ws.Tracker, ws.RemoveFilter))
	mux.HandleFunc("/api/filters/clear", common.JsonHandler(ws.Tracker, ws.ClearFilters))
	mux.HandleFunc("/api/filters/flush", common.JsonHandler(ws.Tracker, ws.FlushPending))
	mux.HandleFunc("GET /api/filters/export", common.JsonHandler(ws.Tracker, ws.ExportFilters))
	mux.HandleFunc("POST /api/filters/import", common.JsonHandler(ws.Tracker, ws.ImportFilters))
	mux.HandleFunc("/api/view", common.JsonHandler(ws.Tracker, ws.GetView))
	mux.HandleFunc("POST /api/apply-preset/{id}", common.JsonHandler(ws.Tracker, ws.ApplyPreset))
	mux.HandleFunc("DELETE /api/scope/{id}", common.JsonHandler(ws.Tracker, ws.ResetScope))

	return mux
}
