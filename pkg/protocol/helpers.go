package protocol

import (
	"github.com/teslashibe/go-sway/pkg/sway"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewPointerMessage creates a pointer position message
func NewPointerMessage(x, y float64) (*Message, error) {
	return NewMessage(TypePointer, PointerData{X: x, Y: y})
}

// NewWindowMessage creates a window position message
func NewWindowMessage(x, y int, available bool) (*Message, error) {
	return NewMessage(TypeWindow, WindowData{X: x, Y: y, Available: available})
}

// NewFlagsMessage creates a flags message. Pass nil to leave a flag unchanged.
func NewFlagsMessage(dragging, sitting *bool, state string) (*Message, error) {
	return NewMessage(TypeFlags, FlagsData{
		Dragging: dragging,
		Sitting:  sitting,
		State:    state,
	})
}

// NewTelemetryMessage creates a telemetry message
func NewTelemetryMessage(frame uint64, move string, snap sway.Snapshot) (*Message, error) {
	return NewMessage(TypeTelemetry, TelemetryData{
		Frame: frame,
		Move:  move,
		Sway:  snap,
	})
}

// NewConfigMessage creates a configuration message
func NewConfigMessage(cfg sway.Config) (*Message, error) {
	return NewMessage(TypeConfig, cfg)
}

// NewErrorMessage creates an error message
func NewErrorMessage(text string) (*Message, error) {
	return NewMessage(TypeError, ErrorData{Message: text})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: 0, // Will be set by NewMessage
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// Bool returns a pointer to v, for FlagsData fields.
func Bool(v bool) *bool { return &v }

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetPointerData extracts pointer data from a message
func (m *Message) GetPointerData() (*PointerData, error) {
	var data PointerData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetWindowData extracts window data from a message
func (m *Message) GetWindowData() (*WindowData, error) {
	var data WindowData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetFlagsData extracts flags from a message
func (m *Message) GetFlagsData() (*FlagsData, error) {
	var data FlagsData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTelemetryData extracts telemetry from a message
func (m *Message) GetTelemetryData() (*TelemetryData, error) {
	var data TelemetryData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetConfig extracts a configuration from a message
func (m *Message) GetConfig() (*sway.Config, error) {
	var data sway.Config
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetErrorData extracts an error description from a message
func (m *Message) GetErrorData() (*ErrorData, error) {
	var data ErrorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
