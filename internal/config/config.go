// Package config loads the YAML controller manifest and builds a
// started controller group from it. The manifest is the only place
// controllers are declared; the factory hands back a group whose first
// events are already armed, so "constructed but not scheduled" never
// escapes this package.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default daemon settings applied when the manifest omits them.
const (
	DefaultPoll      = time.Second
	DefaultHeartbeat = 15 * time.Minute
)

// Duration is a time.Duration that unmarshals from strings like "5m".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the daemon manifest.
type Config struct {
	// Poll is the control loop cadence.
	Poll Duration `yaml:"poll"`

	// Broker is the MQTT broker address, e.g. tcp://host:1883.
	Broker string `yaml:"broker"`

	// HTTP is the status server listen address ("" disables it).
	HTTP string `yaml:"http"`

	// Heartbeat is the lifecycle heartbeat interval (0 disables it).
	Heartbeat Duration `yaml:"heartbeat"`

	// Controllers declares the controller group, in poll order.
	Controllers []ControllerConfig `yaml:"controllers"`
}

// ControllerConfig declares one controller.
type ControllerConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // threshold | bidirectional | timed

	// threshold and bidirectional
	Threshold float64       `yaml:"threshold"`
	Interval  Duration      `yaml:"interval"`
	Input     *DeviceConfig `yaml:"input"`

	// threshold only
	Inverted bool          `yaml:"inverted"`
	Output   *DeviceConfig `yaml:"output"` // also used by timed

	// bidirectional only
	Tolerance      float64       `yaml:"tolerance"`
	IncreaseOutput *DeviceConfig `yaml:"increase_output"`
	DecreaseOutput *DeviceConfig `yaml:"decrease_output"`

	// timed only
	Start    string   `yaml:"start"` // "HH:MM:SS", UTC
	Duration Duration `yaml:"duration"`
}

// DeviceConfig declares one input or output backend.
type DeviceConfig struct {
	// Kind selects the backend: gpio | file | fixed (inputs),
	// gpio | noop (outputs).
	Kind string `yaml:"kind"`

	// Pin is the BCM line number for gpio devices.
	Pin int `yaml:"pin"`

	// ActiveLow inverts the physical level of a gpio output.
	ActiveLow bool `yaml:"active_low"`

	// Path is the file to read for file inputs.
	Path string `yaml:"path"`

	// Value is the constant returned by fixed inputs. Useful for dry
	// runs of a manifest without hardware.
	Value string `yaml:"value"`
}

// Load reads and validates a manifest.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if cfg.Poll == 0 {
		cfg.Poll = Duration(DefaultPoll)
	}
	if cfg.Heartbeat == 0 {
		cfg.Heartbeat = Duration(DefaultHeartbeat)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Poll.Std() <= 0 {
		return fmt.Errorf("poll must be positive, got %v", c.Poll.Std())
	}
	if len(c.Controllers) == 0 {
		return fmt.Errorf("manifest declares no controllers")
	}

	seen := make(map[string]bool, len(c.Controllers))
	for i := range c.Controllers {
		cc := &c.Controllers[i]
		if cc.Name == "" {
			return fmt.Errorf("controller %d: name is required", i)
		}
		if seen[cc.Name] {
			return fmt.Errorf("controller %q: duplicate name", cc.Name)
		}
		seen[cc.Name] = true

		if err := cc.validate(); err != nil {
			return fmt.Errorf("controller %q: %w", cc.Name, err)
		}
	}
	return nil
}

func (cc *ControllerConfig) validate() error {
	switch cc.Type {
	case "threshold":
		if cc.Interval.Std() <= 0 {
			return fmt.Errorf("interval must be positive")
		}
		if err := validateInput(cc.Input, "input"); err != nil {
			return err
		}
		return validateOutput(cc.Output, "output")

	case "bidirectional":
		if cc.Interval.Std() <= 0 {
			return fmt.Errorf("interval must be positive")
		}
		if cc.Tolerance < 0 {
			return fmt.Errorf("tolerance must not be negative")
		}
		if err := validateInput(cc.Input, "input"); err != nil {
			return err
		}
		if err := validateOutput(cc.IncreaseOutput, "increase_output"); err != nil {
			return err
		}
		return validateOutput(cc.DecreaseOutput, "decrease_output")

	case "timed":
		if _, err := parseStart(cc.Start); err != nil {
			return err
		}
		if cc.Duration.Std() <= 0 {
			return fmt.Errorf("duration must be positive")
		}
		return validateOutput(cc.Output, "output")

	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown type %q", cc.Type)
	}
}

func validateInput(dc *DeviceConfig, field string) error {
	if dc == nil {
		return fmt.Errorf("%s is required", field)
	}
	switch dc.Kind {
	case "gpio":
		if dc.Pin < 0 {
			return fmt.Errorf("%s: pin must not be negative", field)
		}
	case "file":
		if dc.Path == "" {
			return fmt.Errorf("%s: path is required for file inputs", field)
		}
	case "fixed":
		// any value, including ""
	default:
		return fmt.Errorf("%s: unknown input kind %q", field, dc.Kind)
	}
	return nil
}

func validateOutput(dc *DeviceConfig, field string) error {
	if dc == nil {
		return fmt.Errorf("%s is required", field)
	}
	switch dc.Kind {
	case "gpio":
		if dc.Pin < 0 {
			return fmt.Errorf("%s: pin must not be negative", field)
		}
	case "noop":
	default:
		return fmt.Errorf("%s: unknown output kind %q", field, dc.Kind)
	}
	return nil
}
