// Package status provides a thread-safe status tracker for the
// habitat-control daemon. It is read by HTTP handlers while the control
// loop writes to it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/habitat-control/internal/control"
)

// RecentLimit is the number of recent messages retained for display.
const RecentLimit = 32

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Manifest    string
}

// ControllerStatus is the last observed activity of one controller.
type ControllerStatus struct {
	Name string

	// LastContent is the content of the most recent message ("" if the
	// controller has not fired yet).
	LastContent string

	// LastReadState is the sampled value of the most recent message.
	LastReadState string

	// LastFired is the timestamp of the most recent message.
	LastFired time.Time

	// Messages counts messages produced since startup.
	Messages int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type with copied slices — safe to use after the lock is
// released.
type Snapshot struct {
	Controllers   []ControllerStatus // insertion order of the group
	Recent        []control.Message  // newest last, capped at RecentLimit
	MessageCount  int
	ErrorCount    int
	LastError     string
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	InstanceID    string
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu    sync.RWMutex
	snap  Snapshot
	index map[string]int // controller name -> Controllers slice index
}

// NewTracker creates a Tracker pre-populated with one entry per
// controller name, in group insertion order.
func NewTracker(startTime time.Time, instanceID string, names []string, cfg Config) *Tracker {
	t := &Tracker{
		snap: Snapshot{
			StartTime:  startTime,
			InstanceID: instanceID,
			Config:     cfg,
		},
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		t.snap.Controllers = append(t.snap.Controllers, ControllerStatus{Name: name})
		t.index[name] = i
	}
	return t
}

// Record notes a message produced by a controller.
// Called from the control loop on every firing.
func (t *Tracker) Record(msg control.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snap.MessageCount++

	if i, ok := t.index[msg.Name]; ok {
		cs := &t.snap.Controllers[i]
		cs.LastContent = msg.Content
		cs.LastReadState = msg.ReadState
		cs.LastFired = msg.Timestamp
		cs.Messages++
	}

	t.snap.Recent = append(t.snap.Recent, msg)
	if len(t.snap.Recent) > RecentLimit {
		t.snap.Recent = t.snap.Recent[len(t.snap.Recent)-RecentLimit:]
	}
}

// RecordError notes a poll error.
func (t *Tracker) RecordError(err error) {
	t.mu.Lock()
	t.snap.ErrorCount++
	t.snap.LastError = err.Error()
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Controllers = append([]ControllerStatus(nil), t.snap.Controllers...)
	s.Recent = append([]control.Message(nil), t.snap.Recent...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
