package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"flytxt-analytics/database"
)

// RecordWriter persists live records as they arrive
type RecordWriter interface {
	InsertRecords(records []database.LogRecord) error
}

// feedEvent is one pipeline event on the wire
type feedEvent struct {
	Country   string `json:"country"`
	Timestamp string `json:"timestamp"`
	FileID    string `json:"file_id"`
	Status    string `json:"status"`
	Volume    int64  `json:"volume"`
	S3Size    int64  `json:"s3_size"`
	LocalSize int64  `json:"local_size"`
}

// FeedClient consumes the live pipeline event feed over WebSocket.
// Events are JSON objects, one per message, batched before insert.
type FeedClient struct {
	url    string
	writer RecordWriter
	conn   *websocket.Conn

	buffer    []database.LogRecord
	flushSize int
}

// NewFeedClient creates a feed client for the given WebSocket URL
func NewFeedClient(url string, writer RecordWriter) *FeedClient {
	return &FeedClient{
		url:       url,
		writer:    writer,
		flushSize: 100,
	}
}

// connect establishes the WebSocket connection
func (c *FeedClient) connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}
	c.conn = conn
	log.Printf("✅ Connected to pipeline feed at %s", c.url)
	return nil
}

// Run reads feed events until ctx is done, reconnecting with
// exponential backoff on connection errors.
func (c *FeedClient) Run(ctx context.Context) {
	reconnectDelay := 5 * time.Second
	maxReconnectDelay := 60 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.flush()
			c.Close()
			return
		default:
		}

		if c.conn == nil {
			if err := c.connect(); err != nil {
				log.Printf("⚠️  Feed connection failed: %v", err)
				log.Printf("🔄 Retrying in %v...", reconnectDelay)
				select {
				case <-ctx.Done():
					return
				case <-time.After(reconnectDelay):
				}
				reconnectDelay *= 2
				if reconnectDelay > maxReconnectDelay {
					reconnectDelay = maxReconnectDelay
				}
				continue
			}
			reconnectDelay = 5 * time.Second

			// ReadMessage blocks with no way to observe ctx; closing the
			// connection on cancellation is what unblocks it.
			conn := c.conn
			go func() {
				<-ctx.Done()
				conn.Close()
			}()
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				c.flush()
				return
			default:
			}
			log.Printf("⚠️  Feed read error: %v", err)
			c.conn.Close()
			c.conn = nil
			continue
		}

		rec, err := decodeFeedEvent(data)
		if err != nil {
			log.Printf("⚠️  Dropping bad feed event: %v", err)
			continue
		}

		c.buffer = append(c.buffer, rec)
		if len(c.buffer) >= c.flushSize {
			c.flush()
		}
	}
}

func (c *FeedClient) flush() {
	if len(c.buffer) == 0 {
		return
	}
	if err := c.writer.InsertRecords(c.buffer); err != nil {
		log.Printf("⚠️  Failed to insert %d feed records: %v", len(c.buffer), err)
	}
	c.buffer = c.buffer[:0]
}

// Close closes the WebSocket connection
func (c *FeedClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func decodeFeedEvent(data []byte) (database.LogRecord, error) {
	var rec database.LogRecord

	var evt feedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	country := strings.ToUpper(strings.TrimSpace(evt.Country))
	if !database.ValidCountry(country) {
		return rec, fmt.Errorf("%w: unknown country %q", ErrMalformedInput, evt.Country)
	}

	ts, err := parseTimestamp(evt.Timestamp)
	if err != nil {
		return rec, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	if evt.Status == "" {
		return rec, fmt.Errorf("%w: missing status", ErrMalformedInput)
	}

	volume := evt.Volume
	if volume <= 0 {
		volume = 1
	}

	rec = database.LogRecord{
		Country:   country,
		Timestamp: ts,
		FileID:    evt.FileID,
		Status:    evt.Status,
		Volume:    volume,
		S3Size:    evt.S3Size,
		LocalSize: evt.LocalSize,
	}
	return rec, nil
}
