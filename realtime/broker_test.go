package realtime

import (
	"encoding/json"
	"testing"
)

func TestBroadcastReachesSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	b.Broadcast(EventAnomaly, map[string]interface{}{"count": 3})

	select {
	case msg := <-ch:
		var decoded map[string]interface{}
		if err := json.Unmarshal(msg, &decoded); err != nil {
			t.Fatalf("broadcast message is not JSON: %v", err)
		}
		if decoded["event"] != EventAnomaly {
			t.Errorf("expected event %q, got %v", EventAnomaly, decoded["event"])
		}
	default:
		t.Fatal("expected a buffered message for the subscriber")
	}
}

func TestBroadcastSkipsSlowClients(t *testing.T) {
	b := NewBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	// Fill the client buffer; further broadcasts must not block
	for i := 0; i < 20; i++ {
		b.Broadcast(EventSummaryRefresh, map[string]interface{}{"i": i})
	}

	// Channel buffer is 16; the overflow was dropped, not queued
	if got := len(ch); got != 16 {
		t.Errorf("expected full buffer of 16, got %d", got)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	ch := b.subscribe()
	b.unsubscribe(ch)

	if _, open := <-ch; open {
		t.Error("expected channel closed after unsubscribe")
	}

	// Double unsubscribe must not panic
	b.unsubscribe(ch)
}
