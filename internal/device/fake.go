package device

import "errors"

// ScriptedInput is a test double that returns scripted sensor values.
type ScriptedInput struct {
	// Samples contains scripted values to return.
	// Each call to Read() consumes the next sample.
	Samples []string

	// ReadError, if set, will be returned by Read()
	ReadError error

	// index tracks current position in Samples
	index int

	last string
	read bool
}

// NewScriptedInput creates a ScriptedInput with the given samples.
func NewScriptedInput(samples ...string) *ScriptedInput {
	return &ScriptedInput{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (i *ScriptedInput) Read() (string, error) {
	if i.ReadError != nil {
		return "", i.ReadError
	}

	if len(i.Samples) == 0 {
		return "", errors.New("no samples configured")
	}

	sample := i.Samples[i.index]
	if i.index < len(i.Samples)-1 {
		i.index++
	}

	i.last = sample
	i.read = true
	return sample, nil
}

// State returns the last value read.
func (i *ScriptedInput) State() (string, bool) {
	return i.last, i.read
}

// Reset resets the input to the beginning of its samples.
func (i *ScriptedInput) Reset() {
	i.index = 0
	i.last = ""
	i.read = false
}

// RecordingOutput is a test double that records every command.
type RecordingOutput struct {
	// Commands contains every commanded value in order.
	Commands []bool

	// CommandError, if set, will be returned by Activate and Deactivate.
	CommandError error

	on  bool
	set bool
}

// NewRecordingOutput creates an empty RecordingOutput.
func NewRecordingOutput() *RecordingOutput {
	return &RecordingOutput{}
}

// Activate records an on command.
func (o *RecordingOutput) Activate() error {
	return o.command(true)
}

// Deactivate records an off command.
func (o *RecordingOutput) Deactivate() error {
	return o.command(false)
}

// State returns the last commanded value.
func (o *RecordingOutput) State() (bool, bool) {
	return o.on, o.set
}

// Reset clears recorded commands and the cached state.
func (o *RecordingOutput) Reset() {
	o.Commands = nil
	o.on = false
	o.set = false
	o.CommandError = nil
}

func (o *RecordingOutput) command(on bool) error {
	if o.CommandError != nil {
		return o.CommandError
	}
	o.Commands = append(o.Commands, on)
	o.on = on
	o.set = true
	return nil
}
