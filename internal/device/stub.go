//go:build !linux

package device

import "errors"

var errUnsupported = errors.New("device: gpio not supported on this platform (requires Linux)")

// GPIOOutput is not available on non-Linux platforms.
type GPIOOutput struct{}

// NewGPIOOutput returns an error on non-Linux platforms.
func NewGPIOOutput(pin int, activeLow bool) (*GPIOOutput, error) {
	return nil, errUnsupported
}

// Activate is not implemented on non-Linux platforms.
func (o *GPIOOutput) Activate() error { return errUnsupported }

// Deactivate is not implemented on non-Linux platforms.
func (o *GPIOOutput) Deactivate() error { return errUnsupported }

// State is not implemented on non-Linux platforms.
func (o *GPIOOutput) State() (bool, bool) { return false, false }

// Close is not implemented on non-Linux platforms.
func (o *GPIOOutput) Close() error { return nil }

// GPIOInput is not available on non-Linux platforms.
type GPIOInput struct{}

// NewGPIOInput returns an error on non-Linux platforms.
func NewGPIOInput(pin int) (*GPIOInput, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (i *GPIOInput) Read() (string, error) { return "", errUnsupported }

// State is not implemented on non-Linux platforms.
func (i *GPIOInput) State() (string, bool) { return "", false }

// Close is not implemented on non-Linux platforms.
func (i *GPIOInput) Close() error { return nil }
