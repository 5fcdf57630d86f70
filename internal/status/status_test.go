package status

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sweeney/habitat-control/internal/control"
)

func newTestTracker() *Tracker {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewTracker(start, "instance-1", []string{"heater", "grow-light"}, Config{
		PollMs:   1000,
		Broker:   "tcp://localhost:1883",
		HTTPAddr: ":8080",
	})
}

func TestNewTrackerPrepopulates(t *testing.T) {
	tr := newTestTracker()
	snap := tr.Snapshot()

	if len(snap.Controllers) != 2 {
		t.Fatalf("expected 2 controller entries, got %d", len(snap.Controllers))
	}
	if snap.Controllers[0].Name != "heater" || snap.Controllers[1].Name != "grow-light" {
		t.Errorf("controller order = %v", snap.Controllers)
	}
	if snap.InstanceID != "instance-1" {
		t.Errorf("instance id = %q", snap.InstanceID)
	}
	if snap.MessageCount != 0 {
		t.Errorf("message count = %d, want 0", snap.MessageCount)
	}
}

func TestRecordUpdatesController(t *testing.T) {
	tr := newTestTracker()
	at := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)

	tr.Record(control.Message{
		Name:      "heater",
		Content:   "Below Threshold",
		Timestamp: at,
		ReadState: "19.5",
	})

	snap := tr.Snapshot()
	cs := snap.Controllers[0]
	if cs.LastContent != "Below Threshold" || cs.LastReadState != "19.5" {
		t.Errorf("controller status = %+v", cs)
	}
	if !cs.LastFired.Equal(at) {
		t.Errorf("last fired = %v, want %v", cs.LastFired, at)
	}
	if cs.Messages != 1 {
		t.Errorf("controller message count = %d, want 1", cs.Messages)
	}
	if snap.MessageCount != 1 {
		t.Errorf("total message count = %d, want 1", snap.MessageCount)
	}
	if len(snap.Recent) != 1 {
		t.Errorf("recent messages = %d, want 1", len(snap.Recent))
	}

	// The other controller is untouched.
	if snap.Controllers[1].Messages != 0 {
		t.Errorf("grow-light message count = %d, want 0", snap.Controllers[1].Messages)
	}
}

func TestRecordUnknownControllerStillCounted(t *testing.T) {
	tr := newTestTracker()
	tr.Record(control.Message{Name: "stranger", Content: "Activated"})

	snap := tr.Snapshot()
	if snap.MessageCount != 1 {
		t.Errorf("total message count = %d, want 1", snap.MessageCount)
	}
	if len(snap.Recent) != 1 {
		t.Errorf("recent messages = %d, want 1", len(snap.Recent))
	}
}

func TestRecentCapped(t *testing.T) {
	tr := newTestTracker()
	for i := 0; i < RecentLimit+10; i++ {
		tr.Record(control.Message{Name: "heater", Content: fmt.Sprintf("msg-%d", i)})
	}

	snap := tr.Snapshot()
	if len(snap.Recent) != RecentLimit {
		t.Fatalf("recent messages = %d, want %d", len(snap.Recent), RecentLimit)
	}
	if snap.Recent[len(snap.Recent)-1].Content != fmt.Sprintf("msg-%d", RecentLimit+9) {
		t.Errorf("newest message = %q", snap.Recent[len(snap.Recent)-1].Content)
	}
	if snap.MessageCount != RecentLimit+10 {
		t.Errorf("total message count = %d, want %d", snap.MessageCount, RecentLimit+10)
	}
}

func TestRecordError(t *testing.T) {
	tr := newTestTracker()
	tr.RecordError(errors.New("sensor unplugged"))
	tr.RecordError(errors.New("sensor still unplugged"))

	snap := tr.Snapshot()
	if snap.ErrorCount != 2 {
		t.Errorf("error count = %d, want 2", snap.ErrorCount)
	}
	if snap.LastError != "sensor still unplugged" {
		t.Errorf("last error = %q", snap.LastError)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := newTestTracker()
	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTT connected")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTT disconnected")
	}
}

// Snapshot returns copies: mutating the returned slices must not affect
// the tracker.
func TestSnapshotIsCopy(t *testing.T) {
	tr := newTestTracker()
	tr.Record(control.Message{Name: "heater", Content: "Above Threshold"})

	snap := tr.Snapshot()
	snap.Controllers[0].LastContent = "mutated"
	snap.Recent[0].Content = "mutated"

	fresh := tr.Snapshot()
	if fresh.Controllers[0].LastContent != "Above Threshold" {
		t.Error("controller entry mutated through snapshot copy")
	}
	if fresh.Recent[0].Content != "Above Threshold" {
		t.Error("recent message mutated through snapshot copy")
	}
}

func TestSnapshotUptime(t *testing.T) {
	tr := newTestTracker()
	snap := tr.Snapshot()
	snap.Now = snap.StartTime.Add(90 * time.Second)
	if snap.Uptime() != 90*time.Second {
		t.Errorf("uptime = %v, want 90s", snap.Uptime())
	}
}
