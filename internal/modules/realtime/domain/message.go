package domain

import "time"

// Message is the envelope pushed to websocket clients.
type Message struct {
	Topic     string            `json:"topic"`
	Entity    string            `json:"entity"`
	Action    string            `json:"action"`
	Data      any               `json:"data,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewMessage stamps a message with the current UTC time.
func NewMessage(topic, entity, action string, data any) *Message {
	return &Message{
		Topic:     topic,
		Entity:    entity,
		Action:    action,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Target returns the metadata value for key, or "" when unset.
func (m *Message) Target(key string) string {
	if m == nil || m.Metadata == nil {
		return ""
	}
	return m.Metadata[key]
}
