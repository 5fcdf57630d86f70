package config

import (
	"fmt"
	"io"
	"time"

	"github.com/sweeney/habitat-control/internal/control"
	"github.com/sweeney/habitat-control/internal/device"
)

// Build constructs the controller group declared by the manifest and
// starts every controller at now. The returned closers own any hardware
// the build opened; the caller closes them on shutdown. On error every
// device opened so far is closed before returning.
func (c *Config) Build(now time.Time) (*control.Group, []io.Closer, error) {
	group := control.NewGroup()
	var closers []io.Closer

	closeAll := func() {
		for _, cl := range closers {
			cl.Close()
		}
	}

	for i := range c.Controllers {
		cc := &c.Controllers[i]
		ctrl, opened, err := cc.build(now)
		closers = append(closers, opened...)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("controller %q: %w", cc.Name, err)
		}
		ctrl.SetName(cc.Name)
		group.Add(ctrl)
	}
	return group, closers, nil
}

func (cc *ControllerConfig) build(now time.Time) (control.Controller, []io.Closer, error) {
	var closers []io.Closer

	switch cc.Type {
	case "threshold":
		in, cl, err := buildInput(cc.Input)
		closers = appendCloser(closers, cl)
		if err != nil {
			return nil, closers, fmt.Errorf("input: %w", err)
		}
		out, cl, err := buildOutput(cc.Output)
		closers = appendCloser(closers, cl)
		if err != nil {
			return nil, closers, fmt.Errorf("output: %w", err)
		}
		ctrl := control.NewThreshold(cc.Threshold, in, out, cc.Interval.Std())
		ctrl.SetInverted(cc.Inverted)
		ctrl.Start(now)
		return ctrl, closers, nil

	case "bidirectional":
		in, cl, err := buildInput(cc.Input)
		closers = appendCloser(closers, cl)
		if err != nil {
			return nil, closers, fmt.Errorf("input: %w", err)
		}
		inc, cl, err := buildOutput(cc.IncreaseOutput)
		closers = appendCloser(closers, cl)
		if err != nil {
			return nil, closers, fmt.Errorf("increase_output: %w", err)
		}
		dec, cl, err := buildOutput(cc.DecreaseOutput)
		closers = appendCloser(closers, cl)
		if err != nil {
			return nil, closers, fmt.Errorf("decrease_output: %w", err)
		}
		ctrl := control.NewBidirectionalThreshold(cc.Threshold, cc.Tolerance, in, inc, dec, cc.Interval.Std())
		ctrl.Start(now)
		return ctrl, closers, nil

	case "timed":
		start, err := parseStart(cc.Start)
		if err != nil {
			return nil, closers, err
		}
		out, cl, err := buildOutput(cc.Output)
		closers = appendCloser(closers, cl)
		if err != nil {
			return nil, closers, fmt.Errorf("output: %w", err)
		}
		ctrl := control.NewTimedOutput(out, start, cc.Duration.Std())
		ctrl.Start(now)
		return ctrl, closers, nil
	}

	// validate rejects anything else before Build runs.
	return nil, closers, fmt.Errorf("unknown type %q", cc.Type)
}

func parseStart(s string) (control.TimeOfDay, error) {
	tod, err := control.ParseTimeOfDay(s)
	if err != nil {
		return control.TimeOfDay{}, fmt.Errorf("start: %w", err)
	}
	return tod, nil
}

func buildInput(dc *DeviceConfig) (device.Input, io.Closer, error) {
	switch dc.Kind {
	case "gpio":
		in, err := device.NewGPIOInput(dc.Pin)
		if err != nil {
			return nil, nil, err
		}
		return in, in, nil
	case "file":
		return device.NewFileInput(dc.Path), nil, nil
	case "fixed":
		value := dc.Value
		return device.NewFuncInput(func() (string, error) {
			return value, nil
		}), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown input kind %q", dc.Kind)
}

func buildOutput(dc *DeviceConfig) (device.Output, io.Closer, error) {
	switch dc.Kind {
	case "gpio":
		out, err := device.NewGPIOOutput(dc.Pin, dc.ActiveLow)
		if err != nil {
			return nil, nil, err
		}
		return out, out, nil
	case "noop":
		return device.NewNoopOutput(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown output kind %q", dc.Kind)
}

func appendCloser(closers []io.Closer, cl io.Closer) []io.Closer {
	if cl != nil {
		return append(closers, cl)
	}
	return closers
}
