package control

import (
	"fmt"
	"time"

	"github.com/sweeney/habitat-control/internal/device"
	"github.com/sweeney/habitat-control/internal/schedule"
)

// TimedOutput turns an output on at the same wall-clock time every day
// and off again after a fixed duration. It anchors to a UTC time of day
// rather than a rolling interval: grow lights, air pumps, feed motors.
//
// The scheduler alternates between a pending On and a pending Off event.
// The Off instant is derived from the calendar date the On fired plus
// the configured start time and duration, so a late On (the daemon was
// down at start time) still turns off at the intended wall-clock time.
type TimedOutput struct {
	name     string
	output   device.Output
	start    TimeOfDay
	duration time.Duration
	sched    *schedule.Scheduler
	started  bool
}

// NewTimedOutput wires a timed output controller. The first activation
// is not yet armed; call Start before polling.
func NewTimedOutput(output device.Output, start TimeOfDay, duration time.Duration) *TimedOutput {
	return &TimedOutput{
		output:   output,
		start:    start,
		duration: duration,
		sched:    schedule.New(),
	}
}

// Start arms the next activation: today's start time if now's time of
// day is still before it, otherwise tomorrow's.
func (c *TimedOutput) Start(now time.Time) {
	c.scheduleOn(now)
	c.started = true
}

// SetName sets the name reported in produced Messages.
func (c *TimedOutput) SetName(name string) {
	c.name = name
}

// Name returns the controller name.
func (c *TimedOutput) Name() string {
	return c.name
}

// History exposes the fired-event history for status reporting.
func (c *TimedOutput) History() []schedule.Event {
	return c.sched.History()
}

// Poll fires a due On or Off event, commands the output, and arms the
// opposite event.
func (c *TimedOutput) Poll(now time.Time) (*Message, error) {
	if !c.started {
		return nil, ErrNotStarted
	}

	ev, ok := c.sched.AttemptExecution(now)
	if !ok {
		return nil, nil
	}

	var content string
	switch ev.Action {
	case schedule.ActionOn:
		if err := c.output.Activate(); err != nil {
			return nil, fmt.Errorf("control: %s: command output: %w", c.name, err)
		}
		c.scheduleOff(now)
		content = "Activated"
	case schedule.ActionOff:
		if err := c.output.Deactivate(); err != nil {
			return nil, fmt.Errorf("control: %s: command output: %w", c.name, err)
		}
		c.scheduleOn(now)
		content = "Deactivated"
	default:
		return nil, &UnexpectedActionError{Controller: c.name, Action: ev.Action}
	}

	return &Message{
		Name:      c.name,
		Content:   content,
		Timestamp: now,
	}, nil
}

func (c *TimedOutput) scheduleOn(now time.Time) {
	next := c.start.On(now)
	if !now.UTC().Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	c.sched.ScheduleOn(next)
}

// scheduleOff arms the deactivation at the fire date's start time plus
// the duration, as elapsed time. A duration past midnight lands on the
// next calendar day rather than being truncated.
func (c *TimedOutput) scheduleOff(fired time.Time) {
	c.sched.ScheduleOff(c.start.On(fired).Add(c.duration))
}
