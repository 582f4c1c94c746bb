// Package protocol defines the WebSocket message types for remote input and
// telemetry.
// It is shared by the input relay, the dashboard and the feed/watch clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-sway/pkg/sway"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Input source → relay messages
	TypePointer MessageType = "pointer" // Pointer position
	TypeWindow  MessageType = "window"  // Window position
	TypeFlags   MessageType = "flags"   // Animator flags and state

	// Server → observer messages
	TypeTelemetry MessageType = "telemetry" // Controller snapshot
	TypeConfig    MessageType = "config"    // Active configuration
	TypeError     MessageType = "error"     // Rejected input

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, ErrMissingType
	}
	return &msg, nil
}

// =============================================================================
// Input Message Types
// =============================================================================

// PointerData is a pointer position in screen pixels
type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WindowData is the host window's screen position.
// Available false means the platform cannot report it.
type WindowData struct {
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Available bool `json:"available"`
}

// FlagsData updates animator parameters. Nil fields are left unchanged.
type FlagsData struct {
	Dragging *bool  `json:"dragging,omitempty"`
	Sitting  *bool  `json:"sitting,omitempty"`
	State    string `json:"state,omitempty"` // Current state name
	Layer    int    `json:"layer,omitempty"` // Layer for State
}

// =============================================================================
// Observer Message Types
// =============================================================================

// TelemetryData is one frame of controller state
type TelemetryData struct {
	Frame uint64        `json:"frame"`
	Move  string        `json:"move,omitempty"`
	Sway  sway.Snapshot `json:"sway"`
}

// ErrorData describes a rejected message
type ErrorData struct {
	Message string `json:"message"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
