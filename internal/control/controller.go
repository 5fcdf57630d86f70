// Package control contains the controller state machines that decide
// when to actuate binary outputs, and the group that polls them. Like
// the schedule package it performs no I/O of its own beyond the injected
// device capabilities; time is always supplied by the caller.
package control

import "time"

// Controller is a named state machine deciding output activation from
// sensor samples or wall-clock schedules.
//
// Poll evaluates whether a scheduled action is due at the given instant.
// If one fires, the controller executes it, re-arms its next event, and
// returns a Message describing the transition. A nil Message with a nil
// error means no event was due, which is the common case.
//
// Controllers are built in two phases: the constructor wires the
// devices, Start arms the first event. Poll on an unstarted controller
// returns ErrNotStarted.
type Controller interface {
	// SetName sets the name reported in produced Messages.
	SetName(name string)

	// Name returns the controller name ("" if never set).
	Name() string

	// Poll fires at most one due event.
	Poll(now time.Time) (*Message, error)
}
