package messaging

import "testing"

func TestTopicName(t *testing.T) {
	// publisher and listener must agree on the exchange name
	if name := topicName("prod", TopicPresetChange); name != "prod_preset_change" {
		t.Errorf("Unexpected topic name %q", name)
	}
	if name := topicName("global", TopicTracking); name != "global_tracking" {
		t.Errorf("Unexpected topic name %q", name)
	}
}
