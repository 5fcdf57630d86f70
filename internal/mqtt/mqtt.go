// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/habitat-control/internal/control"
)

// Topic is the MQTT topic for controller transition messages.
const Topic = "habitat/control/events"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "habitat/control/system"

// Publisher publishes controller messages to MQTT.
type Publisher interface {
	// Publish sends a controller message to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(msg control.Message) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a daemon lifecycle event (startup, shutdown,
// heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	InstanceID string // per-process id, stable for the daemon's lifetime
	Retained   bool   // whether the broker should retain the message
}

// Payload is the MQTT message payload for a controller message. Its
// controller block preserves the Message field set verbatim.
type Payload struct {
	Controller ControllerPayload `json:"controller"`
}

// ControllerPayload contains the transition details.
type ControllerPayload struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	ReadState string `json:"read_state,omitempty"`
}

// FormatPayload creates the JSON payload for a controller message.
func FormatPayload(msg control.Message) ([]byte, error) {
	payload := Payload{
		Controller: ControllerPayload{
			Name:      msg.Name,
			Content:   msg.Content,
			Timestamp: msg.Timestamp.UTC().Format(time.RFC3339),
			ReadState: msg.ReadState,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message payload for daemon lifecycle events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	Reason     string `json:"reason,omitempty"`
	InstanceID string `json:"instance_id,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			Event:      event.Event,
			Reason:     event.Reason,
			InstanceID: event.InstanceID,
		},
	}
	return json.Marshal(payload)
}
