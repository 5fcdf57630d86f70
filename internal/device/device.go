// Package device provides the input and output capabilities that
// controllers actuate, with hardware abstraction. The real
// implementations use the Linux GPIO character device or sysfs-style
// files. The fakes allow testing without hardware.
package device

// Input samples one sensor as a string and caches the last value read.
type Input interface {
	// Read samples the sensor. May block.
	Read() (string, error)

	// State returns the last value read.
	// ok is false before the first successful read.
	State() (string, bool)
}

// Output commands one binary device and remembers the last command.
type Output interface {
	Activate() error
	Deactivate() error

	// State returns the last commanded value.
	// ok is false until the output has been commanded at least once;
	// this "unset" state is distinct from both true and false.
	State() (bool, bool)
}

// FuncInput adapts a sampling function into an Input.
type FuncInput struct {
	fn   func() (string, error)
	last string
	read bool
}

// NewFuncInput creates an Input backed by fn.
func NewFuncInput(fn func() (string, error)) *FuncInput {
	return &FuncInput{fn: fn}
}

// Read calls the sampling function and caches the result.
func (i *FuncInput) Read() (string, error) {
	v, err := i.fn()
	if err != nil {
		return "", err
	}
	i.last = v
	i.read = true
	return v, nil
}

// State returns the last value read.
func (i *FuncInput) State() (string, bool) {
	return i.last, i.read
}

// FuncOutput adapts a command function into an Output.
type FuncOutput struct {
	fn  func(on bool) error
	on  bool
	set bool
}

// NewFuncOutput creates an Output backed by fn.
func NewFuncOutput(fn func(on bool) error) *FuncOutput {
	return &FuncOutput{fn: fn}
}

// NewNoopOutput creates an Output that discards commands. Useful for
// dry runs where only the emitted messages matter.
func NewNoopOutput() *FuncOutput {
	return NewFuncOutput(func(bool) error { return nil })
}

// Activate commands the device on.
func (o *FuncOutput) Activate() error {
	return o.command(true)
}

// Deactivate commands the device off.
func (o *FuncOutput) Deactivate() error {
	return o.command(false)
}

// State returns the last commanded value.
func (o *FuncOutput) State() (bool, bool) {
	return o.on, o.set
}

func (o *FuncOutput) command(on bool) error {
	if err := o.fn(on); err != nil {
		return err
	}
	o.on = on
	o.set = true
	return nil
}
