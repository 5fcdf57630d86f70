package control

import (
	"errors"
	"fmt"

	"github.com/sweeney/habitat-control/internal/schedule"
)

// ErrNotStarted is returned by Poll when a controller has been
// constructed but its first event has not been armed with Start.
var ErrNotStarted = errors.New("control: controller not started")

// ReadError reports a sensor sample that could not be obtained or
// parsed as a number. It is recoverable: the controller has already
// re-armed its next read before sampling, so a fixed sensor resumes on
// the following interval without halting the rest of the group.
type ReadError struct {
	Controller string
	Raw        string
	Err        error
}

func (e *ReadError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("control: %s: read failed: %v", e.Controller, e.Err)
	}
	return fmt.Sprintf("control: %s: bad sensor reading %q: %v", e.Controller, e.Raw, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// UnexpectedActionError reports an event action that the controller
// kind can never schedule for itself. It indicates a logic error.
type UnexpectedActionError struct {
	Controller string
	Action     schedule.Action
}

func (e *UnexpectedActionError) Error() string {
	return fmt.Sprintf("control: %s: unexpected action %s", e.Controller, e.Action)
}
