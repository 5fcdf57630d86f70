package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/habitat-control/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     string           `json:"start_time"`
	Timestamp     string           `json:"timestamp"`
	InstanceID    string           `json:"instance_id"`
	MQTT          MQTTStatus       `json:"mqtt"`
	Controllers   []ControllerJSON `json:"controllers"`
	Recent        []MessageJSON    `json:"recent_messages"`
	MessageCount  int              `json:"message_count"`
	ErrorCount    int              `json:"error_count"`
	LastError     string           `json:"last_error,omitempty"`
	Config        ConfigJSON       `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ControllerJSON is the JSON representation of one controller's status.
type ControllerJSON struct {
	Name          string `json:"name"`
	LastContent   string `json:"last_content,omitempty"`
	LastReadState string `json:"last_read_state,omitempty"`
	LastFired     string `json:"last_fired,omitempty"`
	Messages      int    `json:"message_count"`
}

// MessageJSON is the JSON representation of one controller message.
type MessageJSON struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	ReadState string `json:"read_state,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Manifest    string `json:"manifest,omitempty"`
}

func formatJSON(snap status.Snapshot) []byte {
	sj := StatusJSON{
		Status: StatusInner{
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			InstanceID:    snap.InstanceID,
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			MessageCount:  snap.MessageCount,
			ErrorCount:    snap.ErrorCount,
			LastError:     snap.LastError,
			Config: ConfigJSON{
				PollMs:      snap.Config.PollMs,
				HeartbeatMs: snap.Config.HeartbeatMs,
				Broker:      snap.Config.Broker,
				HTTPAddr:    snap.Config.HTTPAddr,
				Manifest:    snap.Config.Manifest,
			},
		},
	}

	for _, cs := range snap.Controllers {
		cj := ControllerJSON{
			Name:          cs.Name,
			LastContent:   cs.LastContent,
			LastReadState: cs.LastReadState,
			Messages:      cs.Messages,
		}
		if !cs.LastFired.IsZero() {
			cj.LastFired = cs.LastFired.UTC().Format(time.RFC3339)
		}
		sj.Status.Controllers = append(sj.Status.Controllers, cj)
	}

	for _, m := range snap.Recent {
		sj.Status.Recent = append(sj.Status.Recent, MessageJSON{
			Name:      m.Name,
			Content:   m.Content,
			Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
			ReadState: m.ReadState,
		})
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
