package websocket

import (
	"encoding/json"
	"time"
)

// Control frames. Domain event types live in the service package.
const (
	EventPing = "ping"
	EventPong = "pong"
)

type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func NewEvent(eventType string, data interface{}) WSMessage {
	return WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// handleIncoming answers client frames. Only ping is understood; chat messages go through the REST API.
func handleIncoming(raw []byte) []byte {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}
	if msg.Type != EventPing {
		return nil
	}
	reply, err := json.Marshal(NewEvent(EventPong, nil))
	if err != nil {
		return nil
	}
	return reply
}
