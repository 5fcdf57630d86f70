package control

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sweeney/habitat-control/internal/device"
	"github.com/sweeney/habitat-control/internal/schedule"
)

// zone is the three-way classification of a sample against a threshold
// with a symmetric tolerance band.
type zone int

const (
	zoneBelow zone = iota
	zoneWithin
	zoneAbove
)

func (z zone) content() string {
	switch z {
	case zoneAbove:
		return "Above Threshold"
	case zoneBelow:
		return "Below Threshold"
	}
	return "Within Tolerance"
}

// BidirectionalThreshold holds a sampled value near a setpoint by
// driving two opposing outputs: the increase output pushes the value up,
// the decrease output pulls it down. Within the tolerance band both
// outputs are off.
//
// The zone is recomputed fresh on every read; the controller keeps no
// memory of the previous zone, so repeated polls in the same zone
// reissue the same commands. The device layer treats that as idempotent.
type BidirectionalThreshold struct {
	name      string
	threshold float64
	tolerance float64
	interval  time.Duration
	input     device.Input
	increase  device.Output
	decrease  device.Output
	sched     *schedule.Scheduler
	started   bool
}

// NewBidirectionalThreshold wires a bidirectional controller. The first
// read is not yet armed; call Start before polling.
func NewBidirectionalThreshold(threshold, tolerance float64, input device.Input, increase, decrease device.Output, interval time.Duration) *BidirectionalThreshold {
	return &BidirectionalThreshold{
		threshold: threshold,
		tolerance: tolerance,
		interval:  interval,
		input:     input,
		increase:  increase,
		decrease:  decrease,
		sched:     schedule.New(),
	}
}

// Start arms the first read at now + interval.
func (c *BidirectionalThreshold) Start(now time.Time) {
	c.sched.ScheduleRead(now.Add(c.interval))
	c.started = true
}

// SetName sets the name reported in produced Messages.
func (c *BidirectionalThreshold) SetName(name string) {
	c.name = name
}

// Name returns the controller name.
func (c *BidirectionalThreshold) Name() string {
	return c.name
}

// History exposes the fired-event history for status reporting.
func (c *BidirectionalThreshold) History() []schedule.Event {
	return c.sched.History()
}

// Poll fires a due read: sample the input, classify the value into a
// zone, and command both outputs accordingly. The next read is armed
// before sampling.
func (c *BidirectionalThreshold) Poll(now time.Time) (*Message, error) {
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

	z := c.classify(value)
	if err := c.command(z); err != nil {
		return nil, fmt.Errorf("control: %s: command outputs: %w", c.name, err)
	}

	return &Message{
		Name:      c.name,
		Content:   z.content(),
		Timestamp: now,
		ReadState: raw,
	}, nil
}

func (c *BidirectionalThreshold) classify(value float64) zone {
	switch {
	case value > c.threshold+c.tolerance:
		return zoneAbove
	case value < c.threshold-c.tolerance:
		return zoneBelow
	default:
		return zoneWithin
	}
}

func (c *BidirectionalThreshold) command(z zone) error {
	switch z {
	case zoneAbove:
		if err := c.decrease.Activate(); err != nil {
			return err
		}
		return c.increase.Deactivate()
	case zoneBelow:
		if err := c.increase.Activate(); err != nil {
			return err
		}
		return c.decrease.Deactivate()
	default:
		if err := c.increase.Deactivate(); err != nil {
			return err
		}
		return c.decrease.Deactivate()
	}
}
