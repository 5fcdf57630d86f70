package control

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sweeney/habitat-control/internal/device"
	"github.com/sweeney/habitat-control/internal/schedule"
)

// Threshold activates a binary output when a periodically sampled value
// crosses a fixed threshold. "Above" means strictly greater than the
// threshold; a value equal to the threshold classifies as below. With
// inverted set, actuation flips: the output activates below the
// threshold instead, which is the usual wiring for a heater.
type Threshold struct {
	name      string
	threshold float64
	inverted  bool
	interval  time.Duration
	input     device.Input
	output    device.Output
	sched     *schedule.Scheduler
	started   bool
}

// NewThreshold wires a threshold controller. The first read is not yet
// armed; call Start before polling.
func NewThreshold(threshold float64, input device.Input, output device.Output, interval time.Duration) *Threshold {
	return &Threshold{
		threshold: threshold,
		interval:  interval,
		input:     input,
		output:    output,
		sched:     schedule.New(),
	}
}

// Start arms the first read at now + interval.
func (c *Threshold) Start(now time.Time) {
	c.sched.ScheduleRead(now.Add(c.interval))
	c.started = true
}

// SetInverted flips actuation: activate below the threshold, deactivate
// above it.
func (c *Threshold) SetInverted(inverted bool) {
	c.inverted = inverted
}

// SetName sets the name reported in produced Messages.
func (c *Threshold) SetName(name string) {
	c.name = name
}

// Name returns the controller name.
func (c *Threshold) Name() string {
	return c.name
}

// Threshold returns the configured threshold.
func (c *Threshold) Threshold() float64 {
	return c.threshold
}

// SetThreshold replaces the threshold. Takes effect on the next read.
func (c *Threshold) SetThreshold(threshold float64) {
	c.threshold = threshold
}

// History exposes the fired-event history for status reporting.
func (c *Threshold) History() []schedule.Event {
	return c.sched.History()
}

// Poll fires a due read: sample the input, classify against the
// threshold, and command the output. The next read is armed at
// now + interval before sampling, so a failing sensor does not stall
// the cycle.
func (c *Threshold) Poll(now time.Time) (*Message, error) {
	if !c.started {
		return nil, ErrNotStarted
	}

	ev, ok := c.sched.AttemptExecution(now)
	if !ok {
		return nil, nil
	}
	if ev.Action != schedule.ActionRead {
		return nil, &UnexpectedActionError{Controller: c.name, Action: ev.Action}
	}

	c.sched.ScheduleRead(now.Add(c.interval))

	raw, err := c.input.Read()
	if err != nil {
		return nil, &ReadError{Controller: c.name, Err: err}
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, &ReadError{Controller: c.name, Raw: raw, Err: err}
	}
	c.sched.AnnotateLastFired(raw)

	above := value > c.threshold

	// above XOR inverted selects activation.
	if above != c.inverted {
		err = c.output.Activate()
	} else {
		err = c.output.Deactivate()
	}
	if err != nil {
		return nil, fmt.Errorf("control: %s: command output: %w", c.name, err)
	}

	content := "Below Threshold"
	if above {
		content = "Above Threshold"
	}
	return &Message{
		Name:      c.name,
		Content:   content,
		Timestamp: now,
		ReadState: raw,
	}, nil
}
