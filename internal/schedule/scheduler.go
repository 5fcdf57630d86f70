package schedule

import "time"

// DefaultHistoryLimit is the number of fired events a Scheduler retains.
const DefaultHistoryLimit = 64

// Scheduler owns one controller's pending events and its fired history.
// Pending events are kept in insertion order. Not safe for concurrent
// use: all mutation happens inside a single synchronous poll call.
//
// The Scheduler never fails; "no due event" is a normal outcome.
type Scheduler struct {
	pending []Event
	fired   []Event
	limit   int
}

// New creates an empty Scheduler retaining DefaultHistoryLimit fired
// events.
func New() *Scheduler {
	return NewWithHistoryLimit(DefaultHistoryLimit)
}

// NewWithHistoryLimit creates an empty Scheduler retaining at most limit
// fired events. A limit <= 0 disables history retention entirely.
func NewWithHistoryLimit(limit int) *Scheduler {
	return &Scheduler{limit: limit}
}

// ScheduleOn appends a pending activation event at t. There is no
// deduplication and no check that t is in the future: scheduling the
// same action and time twice yields two independently fireable events.
func (s *Scheduler) ScheduleOn(t time.Time) {
	s.pending = append(s.pending, Event{Action: ActionOn, Timestamp: t})
}

// ScheduleOff appends a pending deactivation event at t.
func (s *Scheduler) ScheduleOff(t time.Time) {
	s.pending = append(s.pending, Event{Action: ActionOff, Timestamp: t})
}

// ScheduleRead appends a pending read event at t.
func (s *Scheduler) ScheduleRead(t time.Time) {
	s.pending = append(s.pending, Event{Action: ActionRead, Timestamp: t})
}

// HasPending reports whether any event is still waiting to fire.
func (s *Scheduler) HasPending() bool {
	return len(s.pending) > 0
}

// PendingCount returns the number of events waiting to fire.
func (s *Scheduler) PendingCount() int {
	return len(s.pending)
}

// FiredCount returns the number of fired events currently retained.
func (s *Scheduler) FiredCount() int {
	return len(s.fired)
}

// History returns a copy of the retained fired events, oldest first.
func (s *Scheduler) History() []Event {
	if len(s.fired) == 0 {
		return nil
	}
	out := make([]Event, len(s.fired))
	copy(out, s.fired)
	return out
}

// AttemptExecution fires at most one pending event: the due event with
// the earliest timestamp, ties broken by insertion order. The fired
// event is moved to the history and returned. The second return is
// false when no pending event is due at now.
func (s *Scheduler) AttemptExecution(now time.Time) (Event, bool) {
	best := -1
	for i, e := range s.pending {
		if !e.Due(now) {
			continue
		}
		if best == -1 || e.Timestamp.Before(s.pending[best].Timestamp) {
			best = i
		}
	}
	if best == -1 {
		return Event{}, false
	}

	ev := s.pending[best]
	s.pending = append(s.pending[:best], s.pending[best+1:]...)
	s.record(ev)
	return ev, true
}

// AnnotateLastFired stores a sampled value on the most recently fired
// event in the history. Called by controllers after a read event fires
// and the sample is in hand. No-op when retention is disabled.
func (s *Scheduler) AnnotateLastFired(value string) {
	if len(s.fired) == 0 {
		return
	}
	s.fired[len(s.fired)-1].Value = value
}

func (s *Scheduler) record(ev Event) {
	if s.limit <= 0 {
		return
	}
	s.fired = append(s.fired, ev)
	if len(s.fired) > s.limit {
		s.fired = s.fired[len(s.fired)-s.limit:]
	}
}
