// Package schedule provides per-controller bookkeeping of pending and
// fired timestamped actions. This package has NO external dependencies
// (no devices, MQTT, OS, or time.Sleep). Time is always injectable via
// time.Time parameters.
package schedule

// Action is a schedulable intent for a controller.
type Action int

const (
	// ActionRead samples the controller's input device.
	ActionRead Action = iota

	// ActionOn activates the controller's output device.
	ActionOn

	// ActionOff deactivates the controller's output device.
	ActionOff
)

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionRead:
		return "READ"
	case ActionOn:
		return "ON"
	case ActionOff:
		return "OFF"
	}
	return "UNKNOWN"
}
