package messaging

// ChangeTopic names one exchange/queue pair, prefixed per environment.
type ChangeTopic = string

const (
	TopicTracking     ChangeTopic = "tracking"
	TopicPresetChange ChangeTopic = "preset_change"
)

// PresetChange is broadcast when a saved view is added or removed so other
// replicas drop their cached preset list.
type PresetChange struct {
	PresetId string `json:"preset_id,omitempty"`
	Action   string `json:"action"`
}
