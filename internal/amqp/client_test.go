package amqp

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection closed", errors.New("connection closed"), true},
		{"channel closed", errors.New("message channel closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestCloseCurrentIsIdempotent(t *testing.T) {
	// connect() closes the previous conn/channel pair before redialing;
	// on a fresh or already-closed client that must be a safe no-op.
	c := &Client{url: "amqp://localhost:5672/"}
	for i := 0; i < 2; i++ {
		if err := c.closeCurrent(); err != nil {
			t.Fatalf("closeCurrent #%d: %v", i+1, err)
		}
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.conn != nil || c.channel != nil {
		t.Fatal("conn and channel must be cleared after close")
	}
}

func TestLedgerEventMessageJSON(t *testing.T) {
	msg := NewLedgerEventMessage("tx-1", "user-1", ActionRecorded)
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := LedgerEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TransactionID != "tx-1" || got.UserID != "user-1" || got.Action != ActionRecorded {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := LedgerEventMessageFromJSON([]byte("{nope")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
