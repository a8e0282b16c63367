// Package events contains the event contract definitions for WebSocket
// communication with dashboard clients.
package events

import "time"

// MessageType defines the type of WebSocket message.
type MessageType string

const (
	// MessageTypeDataUpdate tells clients the session's working data
	// changed (upload, filter change, or row edit) and views should be
	// re-fetched.
	MessageTypeDataUpdate MessageType = "data:update"

	// Connection messages.
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeError      MessageType = "error"
)

// Message is the envelope for every WebSocket message.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// DataUpdate is the payload of a data:update message.
type DataUpdate struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"` // upload|filters|edit|delete
}

// NewDataUpdate builds a data:update message for the given session.
func NewDataUpdate(sessionID, reason, traceID string) Message {
	return Message{
		Type:      MessageTypeDataUpdate,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Data:      DataUpdate{SessionID: sessionID, Reason: reason},
	}
}
