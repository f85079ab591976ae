package presets

import (
	"encoding/json"
	"net/http"
)

type PresetServer struct {
	Storage PresetStorage
	// OnChange runs after every successful mutation, wired to the preset
	// change topic when messaging is configured.
	OnChange func()
}

func NewPresetServer(storage PresetStorage) *PresetServer {
	return &PresetServer{
		Storage: storage,
	}
}

func (srv *PresetServer) changed() {
	if srv.OnChange != nil {
		srv.OnChange()
	}
}

func (srv *PresetServer) GetPresets(w http.ResponseWriter, req *http.Request) {
	all, err := srv.Storage.GetPresets()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error getting presets"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(all); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (srv *PresetServer) AddPreset(w http.ResponseWriter, req *http.Request) {
	preset := Preset{}
	err := json.NewDecoder(req.Body).Decode(&preset)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid preset"))
		return
	}
	saved, err := srv.Storage.AddPreset(preset)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error adding preset"))
		return
	}
	srv.changed()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

func (srv *PresetServer) RemovePreset(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid preset id"))
		return
	}
	if err := srv.Storage.RemovePreset(id); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error removing preset"))
		return
	}
	srv.changed()
}

func (srv *PresetServer) PresetHandler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", srv.GetPresets)
	mux.HandleFunc("POST /", srv.AddPreset)
	mux.HandleFunc("DELETE /{id}", srv.RemovePreset)

	return mux
}
