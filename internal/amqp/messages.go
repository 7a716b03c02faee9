package amqp

import (
	"encoding/json"
	"time"
)

const (
	TypeEntrySync = "entry_sync"
	TypeDayClear  = "day_clear"
)

// EntrySyncMessage asks the worker to export one entry. It carries only
// the ID; the worker fetches the full row from the database.
type EntrySyncMessage struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// DayClearMessage asks the worker to drop every exported row for a date.
type DayClearMessage struct {
	Type      string    `json:"type"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(id int64) *EntrySyncMessage {
	return &EntrySyncMessage{
		Type:      TypeEntrySync,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func NewDayClearMessage(date string) *DayClearMessage {
	return &DayClearMessage{
		Type:      TypeDayClear,
		Date:      date,
		Timestamp: time.Now(),
	}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *DayClearMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func DayClearMessageFromJSON(data []byte) (*DayClearMessage, error) {
	var msg DayClearMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// messageType peeks at the type discriminator without decoding the body.
func messageType(data []byte) string {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return ""
	}
	return header.Type
}
