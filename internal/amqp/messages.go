package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionRecorded = "recorded"
	ActionDeleted  = "deleted"
)

// LedgerEventMessage announces a ledger mutation to downstream consumers.
// It carries only identifiers; the export worker fetches the full entry
// from storage.
type LedgerEventMessage struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(transactionID, userID, action string) *LedgerEventMessage {
	return &LedgerEventMessage{
		TransactionID: transactionID,
		UserID:        userID,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
