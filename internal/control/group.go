package control

import (
	"errors"
	"time"
)

// Group is an insertion-ordered collection of controllers polled as one.
// Once added, a controller is owned by the group and reached only
// through the Controller interface.
type Group struct {
	controllers []Controller
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Add appends a controller and returns the group for chaining.
func (g *Group) Add(c Controller) *Group {
	g.controllers = append(g.controllers, c)
	return g
}

// Len returns the number of controllers in the group.
func (g *Group) Len() int {
	return len(g.controllers)
}

// Names returns the controller names in insertion order.
func (g *Group) Names() []string {
	names := make([]string, len(g.controllers))
	for i, c := range g.controllers {
		names[i] = c.Name()
	}
	return names
}

// Poll polls every controller in insertion order and returns the
// produced messages preserving that order; controllers with no due
// event contribute nothing. A failing controller does not stop the rest
// of the group: its error is joined into the returned error alongside
// any others, and the collected messages are still returned.
func (g *Group) Poll(now time.Time) ([]Message, error) {
	var msgs []Message
	var errs []error

	for _, c := range g.controllers {
		msg, err := c.Poll(now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if msg != nil {
			msgs = append(msgs, *msg)
		}
	}

	return msgs, errors.Join(errs...)
}
