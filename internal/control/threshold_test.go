package control

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/habitat-control/internal/device"
)

func TestThresholdNotStarted(t *testing.T) {
	c := NewThreshold(5.0, device.NewScriptedInput("0.0"), device.NewRecordingOutput(), time.Second)
	c.SetName("heater")

	if _, err := c.Poll(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
}

func TestThresholdNothingDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := device.NewRecordingOutput()
	c := NewThreshold(5.0, device.NewScriptedInput("0.0"), out, time.Second)
	c.Start(now)

	msg, err := c.Poll(now.Add(500 * time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != nil {
		t.Errorf("expected no message before the first read, got %+v", msg)
	}
	if _, ok := out.State(); ok {
		t.Error("output should still be unset")
	}
}

func TestThresholdPollSequence(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := device.NewScriptedInput("0.0", "10.0", "0.0")
	out := device.NewRecordingOutput()
	c := NewThreshold(5.0, in, out, time.Second)
	c.SetName("heater")
	c.Start(now)

	steps := []struct {
		at          time.Duration
		wantContent string
		wantOn      bool
		wantRead    string
	}{
		{time.Second, "Below Threshold", false, "0.0"},
		{2 * time.Second, "Above Threshold", true, "10.0"},
		{3 * time.Second, "Below Threshold", false, "0.0"},
	}

	for i, step := range steps {
		msg, err := c.Poll(now.Add(step.at))
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if msg == nil {
			t.Fatalf("step %d: expected a message", i)
		}
		if msg.Name != "heater" {
			t.Errorf("step %d: message name = %q, want heater", i, msg.Name)
		}
		if msg.Content != step.wantContent {
			t.Errorf("step %d: content = %q, want %q", i, msg.Content, step.wantContent)
		}
		if msg.ReadState != step.wantRead {
			t.Errorf("step %d: read state = %q, want %q", i, msg.ReadState, step.wantRead)
		}
		if !msg.Timestamp.Equal(now.Add(step.at)) {
			t.Errorf("step %d: timestamp = %v, want %v", i, msg.Timestamp, now.Add(step.at))
		}

		on, ok := out.State()
		if !ok || on != step.wantOn {
			t.Errorf("step %d: output = %v ok=%v, want %v true", i, on, ok, step.wantOn)
		}
	}
}

func TestThresholdInverted(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := device.NewScriptedInput("0.0", "10.0")
	out := device.NewRecordingOutput()
	c := NewThreshold(5.0, in, out, time.Second)
	c.SetInverted(true)
	c.Start(now)

	// Below threshold with inverted wiring activates the output.
	if _, err := c.Poll(now.Add(time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if on, ok := out.State(); !ok || !on {
		t.Errorf("inverted below threshold: output = %v ok=%v, want true true", on, ok)
	}

	// Above threshold deactivates.
	if _, err := c.Poll(now.Add(2 * time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if on, ok := out.State(); !ok || on {
		t.Errorf("inverted above threshold: output = %v ok=%v, want false true", on, ok)
	}
}

// A value exactly equal to the threshold classifies as below: only a
// strictly greater sample counts as above.
func TestThresholdEqualityIsBelow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	out := device.NewRecordingOutput()
	c := NewThreshold(5.0, device.NewScriptedInput("5.0"), out, time.Second)
	c.Start(now)

	msg, err := c.Poll(now.Add(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Content != "Below Threshold" {
		t.Errorf("content = %q, want Below Threshold", msg.Content)
	}
	if on, ok := out.State(); !ok || on {
		t.Errorf("output = %v ok=%v, want false true", on, ok)
	}

	// Inverted: the same equality activates.
	out = device.NewRecordingOutput()
	c = NewThreshold(5.0, device.NewScriptedInput("5.0"), out, time.Second)
	c.SetInverted(true)
	c.Start(now)

	if _, err := c.Poll(now.Add(time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if on, ok := out.State(); !ok || !on {
		t.Errorf("inverted output = %v ok=%v, want true true", on, ok)
	}
}

// Polling twice at the same instant fires the read once: the repeat
// poll produces no second message.
func TestThresholdIdempotentRepeatPoll(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := device.NewRecordingOutput()
	c := NewThreshold(5.0, device.NewScriptedInput("10.0"), out, time.Second)
	c.Start(now)

	at := now.Add(time.Second)
	msg, err := c.Poll(at)
	if err != nil || msg == nil {
		t.Fatalf("first poll: msg=%v err=%v", msg, err)
	}

	msg, err = c.Poll(at)
	if err != nil {
		t.Fatalf("repeat poll: unexpected error: %v", err)
	}
	if msg != nil {
		t.Errorf("repeat poll at the same instant produced a message: %+v", msg)
	}
	if len(out.Commands) != 1 {
		t.Errorf("output commanded %d times, want 1", len(out.Commands))
	}
}

func TestThresholdBadReadingRecovers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := device.NewScriptedInput("not-a-number", "10.0")
	out := device.NewRecordingOutput()
	c := NewThreshold(5.0, in, out, time.Second)
	c.SetName("heater")
	c.Start(now)

	_, err := c.Poll(now.Add(time.Second))
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ReadError, got %v", err)
	}
	if readErr.Controller != "heater" || readErr.Raw != "not-a-number" {
		t.Errorf("read error fields = %q %q", readErr.Controller, readErr.Raw)
	}
	if _, ok := out.State(); ok {
		t.Error("output should not be commanded on a bad reading")
	}

	// The next read was re-armed before sampling, so the controller
	// recovers on the following interval.
	msg, err := c.Poll(now.Add(2 * time.Second))
	if err != nil {
		t.Fatalf("recovery poll: unexpected error: %v", err)
	}
	if msg == nil || msg.Content != "Above Threshold" {
		t.Fatalf("recovery poll: got %+v", msg)
	}
}

func TestThresholdReadFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := device.NewScriptedInput("10.0")
	in.ReadError = errors.New("sensor unplugged")
	c := NewThreshold(5.0, in, device.NewRecordingOutput(), time.Second)
	c.Start(now)

	_, err := c.Poll(now.Add(time.Second))
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *ReadError, got %v", err)
	}
}

func TestThresholdSetThreshold(t *testing.T) {
	c := NewThreshold(5.0, device.NewScriptedInput("6.0"), device.NewRecordingOutput(), time.Second)
	if c.Threshold() != 5.0 {
		t.Errorf("threshold = %v, want 5.0", c.Threshold())
	}

	c.SetThreshold(10.0)
	if c.Threshold() != 10.0 {
		t.Errorf("threshold = %v, want 10.0", c.Threshold())
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.Start(now)
	msg, err := c.Poll(now.Add(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Content != "Below Threshold" {
		t.Errorf("6.0 against raised threshold: content = %q, want Below Threshold", msg.Content)
	}
}

func TestThresholdAnnotatesHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewThreshold(5.0, device.NewScriptedInput("7.5"), device.NewRecordingOutput(), time.Second)
	c.Start(now)

	if _, err := c.Poll(now.Add(time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hist := c.History()
	if len(hist) != 1 {
		t.Fatalf("expected 1 fired event, got %d", len(hist))
	}
	if hist[0].Value != "7.5" {
		t.Errorf("fired event value = %q, want 7.5", hist[0].Value)
	}
}
