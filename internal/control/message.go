package control

import "time"

// Message describes one state transition produced by a firing
// controller. It is an immutable value with no identity beyond its
// fields; downstream serializers must preserve the field set verbatim.
type Message struct {
	// Name is the name of the originating controller.
	Name string

	// Content is a human-readable description of the transition.
	Content string

	// Timestamp is the poll instant at which the transition fired.
	Timestamp time.Time

	// ReadState carries the sampled input value for read-driven
	// transitions. Empty when the transition involved no reading.
	ReadState string
}
