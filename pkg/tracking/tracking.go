package tracking

import (
	"net/http"

	"github.com/mcteamhub/teamhub/pkg/filter"
)

// Tracking publishes interaction events for the analytics pipeline. A nil
// tracker disables tracking everywhere it is consumed.
type Tracking interface {
	TrackSession(sessionId int, r *http.Request)
	TrackFilterChange(sessionId int, scope string, action string, f *filter.Filter, activeCount int)
	TrackPresetApplied(sessionId int, scope string, presetId string)
	Close() error
}

type BaseEvent struct {
	SessionId int    `json:"session_id"`
	Env       string `json:"env,omitempty"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

// FilterEvent records one store mutation: add, remove, clear, flush, import.
type FilterEvent struct {
	*BaseEvent
	Scope       string `json:"scope"`
	Action      string `json:"action"`
	Field       string `json:"field,omitempty"`
	Value       string `json:"value,omitempty"`
	ActiveCount int    `json:"active_count"`
}

type PresetEvent struct {
	*BaseEvent
	Scope    string `json:"scope"`
	PresetId string `json:"preset_id"`
}

const (
	eventSession      = 0
	eventFilterChange = 1
	eventPreset       = 2
)
