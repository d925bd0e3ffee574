package spectate

import "encoding/json"

// Message is one frame sent to spectators.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types
const (
	TypeHello    = "hello"    // First frame after connecting
	TypeSnapshot = "snapshot" // flappy.Snapshot payload
	TypeEvent    = "event"    // EventPayload
)

// HelloPayload greets a new spectator.
type HelloPayload struct {
	ClientID string `json:"clientId"`
	Player   string `json:"player"`
}

// EventPayload carries one simulation event.
type EventPayload struct {
	Event string `json:"event"`
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}

// encode marshals a typed payload into a wire frame.
func encode(msgType string, payload any) ([]byte, error) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}
