package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"flytxt-analytics/database"
)

type recordBuffer struct {
	mu      sync.Mutex
	records []database.LogRecord
}

func (b *recordBuffer) InsertRecords(records []database.LogRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, records...)
	return nil
}

// feedServer upgrades connections and holds them open without sending
// anything, signalling each accepted connection on the channel.
func feedServer(t *testing.T, connected chan<- struct{}) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		select {
		case connected <- struct{}{}:
		default:
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestFeedClientStopsWhileBlockedReading(t *testing.T) {
	connected := make(chan struct{}, 1)
	srv := feedServer(t, connected)
	defer srv.Close()

	client := NewFeedClient("ws"+strings.TrimPrefix(srv.URL, "http"), &recordBuffer{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		client.Run(ctx)
		close(done)
	}()

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("feed client never connected")
	}

	// The client is now blocked in a read with nothing to receive;
	// cancellation alone must still bring Run down.
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("feed client did not stop after cancellation")
	}
}

func TestDecodeFeedEvent(t *testing.T) {
	data := []byte(`{"country":"gt","timestamp":"2024-01-02T14:05:00Z","file_id":"f1.csv","status":"SUCCESS","volume":12}`)

	rec, err := decodeFeedEvent(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Country != "GT" {
		t.Errorf("expected country normalized to GT, got %s", rec.Country)
	}
	if rec.Volume != 12 {
		t.Errorf("expected volume 12, got %d", rec.Volume)
	}
	if rec.Timestamp.Hour() != 14 {
		t.Errorf("unexpected timestamp %v", rec.Timestamp)
	}
}

func TestDecodeFeedEventDefaultsVolume(t *testing.T) {
	data := []byte(`{"country":"NI","timestamp":"2024-01-02T14:05:00Z","status":"SUCCESS"}`)

	rec, err := decodeFeedEvent(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Volume != 1 {
		t.Errorf("expected default volume 1, got %d", rec.Volume)
	}
}

func TestDecodeFeedEventRejectsBadEvents(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Not JSON", `running_trade|GT|12`},
		{"Unknown country", `{"country":"XX","timestamp":"2024-01-02T14:05:00Z","status":"SUCCESS"}`},
		{"Missing timestamp", `{"country":"GT","status":"SUCCESS"}`},
		{"Missing status", `{"country":"GT","timestamp":"2024-01-02T14:05:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeFeedEvent([]byte(tt.data))
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}
