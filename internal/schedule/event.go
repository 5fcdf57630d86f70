package schedule

import "time"

// Event is one scheduled Action bound to a timestamp. Events are created
// only by a Scheduler's Schedule calls and move from its pending list to
// its fired history exactly once, never back.
type Event struct {
	Action    Action
	Timestamp time.Time

	// Value holds the sampled input value for fired read events.
	// Empty for all other events.
	Value string
}

// Due reports whether the event should execute at t. The check is
// non-strict: an event with timestamp T is due for any t at or after T,
// so an infrequently polled controller still fires a late event at its
// first poll past the due time instead of skipping it.
func (e Event) Due(t time.Time) bool {
	return !e.Timestamp.After(t)
}
