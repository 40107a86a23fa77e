package eventbus

import (
	"testing"
)

func TestPublishDrainOrder(t *testing.T) {
	b := New()
	defer b.Close()

	b.Publish(ButtonEvent())
	b.Publish(RemoteEvent("nec", 0xFF38C7))
	b.Publish(ActionEvent("demo", nil))

	var types []EventType
	b.Drain(func(ev Event) {
		types = append(types, ev.Type)
		if ev.ID == "" {
			t.Error("event published without id")
		}
	})

	want := []EventType{EventTypeButton, EventTypeRemote, EventTypeAction}
	if len(types) != len(want) {
		t.Fatalf("drained %d events, want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, types[i], want[i])
		}
	}
}

func TestPublishDropsWhenFull(t *testing.T) {
	b := NewWithSize(2)
	defer b.Close()

	for i := 0; i < 5; i++ {
		b.Publish(ButtonEvent())
	}

	if got := b.Pending(); got != 2 {
		t.Errorf("pending after overflow: got %d, want 2", got)
	}
}

func TestDrainEmptyReturnsImmediately(t *testing.T) {
	b := New()
	defer b.Close()

	called := false
	b.Drain(func(Event) { called = true })
	if called {
		t.Error("drain on empty bus invoked the handler")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New()
	b.Close()
	b.Close()
}

func TestRemoteEventPayload(t *testing.T) {
	ev := RemoteEvent("pulse_distance", 0x0200407F)

	if ev.Type != EventTypeRemote {
		t.Fatalf("type: got %s, want %s", ev.Type, EventTypeRemote)
	}
	if got := ev.Data["protocol"]; got != "pulse_distance" {
		t.Errorf("protocol: got %v, want pulse_distance", got)
	}
	if got := ev.Data["code"]; got != float64(0x0200407F) {
		t.Errorf("code: got %v, want %v", got, float64(0x0200407F))
	}
}
