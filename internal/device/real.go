//go:build linux

package device

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOOutput drives one GPIO line via the Linux GPIO character device.
type GPIOOutput struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	on   bool
	set  bool
}

// NewGPIOOutput requests the given line (BCM numbering) as an output,
// initially low. With activeLow set, the kernel inverts the physical
// level, which matches relay boards that switch on a low signal.
func NewGPIOOutput(pin int, activeLow bool) (*GPIOOutput, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}

	line, err := chip.RequestLine(pin, opts...)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request output pin %d: %w", pin, err)
	}

	return &GPIOOutput{chip: chip, line: line}, nil
}

// Activate drives the line active.
func (o *GPIOOutput) Activate() error {
	return o.write(1, true)
}

// Deactivate drives the line inactive.
func (o *GPIOOutput) Deactivate() error {
	return o.write(0, false)
}

// State returns the last commanded value.
func (o *GPIOOutput) State() (bool, bool) {
	return o.on, o.set
}

func (o *GPIOOutput) write(value int, on bool) error {
	if err := o.line.SetValue(value); err != nil {
		return fmt.Errorf("set output pin: %w", err)
	}
	o.on = on
	o.set = true
	return nil
}

// Close releases GPIO resources.
// Reconfigures the pin to input with pull-down (matching Pi boot
// defaults) before closing, so external hardware sees a clean state
// across restarts.
func (o *GPIOOutput) Close() error {
	var errs []error

	if o.line != nil {
		if err := o.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure output pin: %w", err))
		}
		if err := o.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close output pin: %w", err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// GPIOInput reads one GPIO line as a digital sensor. Read returns "1"
// for an active line and "0" for an inactive one.
type GPIOInput struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	last string
	read bool
}

// NewGPIOInput requests the given line (BCM numbering) as an input with
// pull-down to match Pi boot defaults.
func NewGPIOInput(pin int) (*GPIOInput, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request input pin %d: %w", pin, err)
	}

	return &GPIOInput{chip: chip, line: line}, nil
}

// Read samples the line.
func (i *GPIOInput) Read() (string, error) {
	raw, err := i.line.Value()
	if err != nil {
		return "", fmt.Errorf("read input pin: %w", err)
	}

	v := "0"
	if raw != 0 {
		v = "1"
	}
	i.last = v
	i.read = true
	return v, nil
}

// State returns the last value read.
func (i *GPIOInput) State() (string, bool) {
	return i.last, i.read
}

// Close releases GPIO resources.
func (i *GPIOInput) Close() error {
	var errs []error

	if i.line != nil {
		if err := i.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close input pin: %w", err))
		}
	}
	if i.chip != nil {
		if err := i.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
