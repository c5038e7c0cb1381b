package watch

import (
	"context"
	"testing"

	risktypes "floodalert/internal/modules/risk/types"
	"floodalert/internal/modules/watch/types"
)

type fakePublisher struct {
	topic    string
	payload  any
	retained bool
}

func (f *fakePublisher) PublishJSON(topic string, v any, retained bool) error {
	f.topic, f.payload, f.retained = topic, v, retained
	return nil
}

func (f *fakePublisher) TopicPrefix() string { return "floodalert" }

func TestMQTTNotifier(t *testing.T) {
	pub := &fakePublisher{}
	cur := risktypes.RiskAssessment{Status: risktypes.StatusRisk}

	MQTTNotifier(pub).NotifyChange(context.Background(), types.Change{Place: types.Place{ID: 7, Name: "Mumbai"}, Current: cur})

	if pub.topic != "floodalert/places/7/risk" || !pub.retained {
		t.Errorf("published %q retained=%v", pub.topic, pub.retained)
	}
	if got, ok := pub.payload.(risktypes.RiskAssessment); !ok || got.Status != risktypes.StatusRisk {
		t.Errorf("payload = %#v", pub.payload)
	}
}
