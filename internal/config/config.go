package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/SmoothServo/internal/logic/easing"
)

// MaxConfigFileBytes caps the size of a configuration file.
const MaxConfigFileBytes = 64 * 1024

// Servo defaults.
const (
	defaultFrequencyHz = 50
	defaultMinPulseUs  = 500
	defaultMaxPulseUs  = 2500
	defaultRange       = 180
)

// ServoConfig holds the configuration for a PWM servo.
type ServoConfig struct {
	PWMPin      int  `yaml:"pwm_pin"`      // BCM pin with hardware PWM. 0 = servo not present.
	EnablePin   int  `yaml:"enable_pin"`   // power switch (BCM). 0 = not used. Active HIGH.
	FrequencyHz int  `yaml:"frequency_hz"` // PWM frame rate
	MinPulseUs  int  `yaml:"min_pulse_us"` // pulse at position 0
	MaxPulseUs  int  `yaml:"max_pulse_us"` // pulse at position range
	Range       int  `yaml:"range"`        // position units between end stops (e.g. degrees)
	Home        *int `yaml:"home"`         // power-up position; default range/2
}

// Configured reports whether a servo is wired for this axis.
func (s ServoConfig) Configured() bool {
	return s.PWMPin > 0
}

// HomePosition returns the home position, defaulting to the middle of the range.
func (s ServoConfig) HomePosition() int {
	if s.Home == nil {
		return s.Range / 2
	}
	return *s.Home
}

// MotionConfig holds the defaults applied to every move.
type MotionConfig struct {
	Curve   easing.Kind `yaml:"curve"`    // default curve (linear when omitted)
	TimeMs  int         `yaml:"time_ms"`  // default move duration
	TickMs  int         `yaml:"tick_ms"`  // interval between position writes
	DwellMs int         `yaml:"dwell_ms"` // pause after each scripted move
	Repeat  int         `yaml:"repeat"`   // passes over the script
}

// MoveConfig is one scripted move. Curve and TimeMs fall back to MotionConfig.
type MoveConfig struct {
	Axis   string       `yaml:"axis"` // "pan" or "tilt"
	Target int          `yaml:"target"`
	Curve  *easing.Kind `yaml:"curve,omitempty"`
	TimeMs int          `yaml:"time_ms,omitempty"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	PanServo  ServoConfig    `yaml:"pan_servo"`
	TiltServo ServoConfig    `yaml:"tilt_servo"` // optional
	Motion    MotionConfig   `yaml:"motion"`
	Moves     []MoveConfig   `yaml:"moves,omitempty"`
	Defaults  DefaultsConfig `yaml:"defaults"`
}

// ValidateConfigPath checks that path names a .yaml file directly inside a
// "configs" directory and does not use parent-directory components.
func ValidateConfigPath(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if slices.Contains(strings.Split(filepath.ToSlash(path), "/"), "..") {
		return fmt.Errorf("config path %q must not contain '..'", path)
	}

	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	if err := ValidateConfigPath(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", MaxConfigFileBytes)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize fills defaults and validates the configuration.
func (c *Config) normalize() error {
	if !c.PanServo.Configured() {
		return fmt.Errorf("pan_servo.pwm_pin is required")
	}
	if err := normalizeServo("pan_servo", &c.PanServo); err != nil {
		return err
	}
	if c.TiltServo.Configured() {
		if err := normalizeServo("tilt_servo", &c.TiltServo); err != nil {
			return err
		}
	}

	if c.Motion.TimeMs <= 0 {
		c.Motion.TimeMs = 1000 // 1s move
	}
	if c.Motion.TickMs <= 0 {
		c.Motion.TickMs = 20 // one write per 50Hz PWM frame
	}
	if c.Motion.TickMs > c.Motion.TimeMs {
		return fmt.Errorf("motion.tick_ms (%d) must not exceed motion.time_ms (%d)", c.Motion.TickMs, c.Motion.TimeMs)
	}
	if c.Motion.DwellMs < 0 {
		return fmt.Errorf("motion.dwell_ms must be >= 0, got %d", c.Motion.DwellMs)
	}
	if c.Motion.Repeat <= 0 {
		c.Motion.Repeat = 1
	}

	for i := range c.Moves {
		m := &c.Moves[i]
		var servo ServoConfig
		switch m.Axis {
		case "pan":
			servo = c.PanServo
		case "tilt":
			if !c.TiltServo.Configured() {
				return fmt.Errorf("moves[%d]: tilt axis used but tilt_servo is not configured", i)
			}
			servo = c.TiltServo
		default:
			return fmt.Errorf("moves[%d]: axis must be pan or tilt, got %q", i, m.Axis)
		}
		if m.Target < 0 || m.Target > servo.Range {
			return fmt.Errorf("moves[%d]: target must be between 0 and %d, got %d", i, servo.Range, m.Target)
		}
		if m.Curve == nil {
			k := c.Motion.Curve
			m.Curve = &k
		}
		if m.TimeMs <= 0 {
			m.TimeMs = c.Motion.TimeMs
		}
	}

	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	return nil
}

func normalizeServo(name string, s *ServoConfig) error {
	if s.FrequencyHz <= 0 {
		s.FrequencyHz = defaultFrequencyHz
	}
	if s.MinPulseUs <= 0 {
		s.MinPulseUs = defaultMinPulseUs
	}
	if s.MaxPulseUs <= 0 {
		s.MaxPulseUs = defaultMaxPulseUs
	}
	if s.Range <= 0 {
		s.Range = defaultRange
	}
	if s.MinPulseUs >= s.MaxPulseUs {
		return fmt.Errorf("%s.min_pulse_us (%d) must be below max_pulse_us (%d)", name, s.MinPulseUs, s.MaxPulseUs)
	}
	if s.EnablePin < 0 {
		return fmt.Errorf("%s.enable_pin must be >= 0, got %d", name, s.EnablePin)
	}
	if home := s.HomePosition(); home < 0 || home > s.Range {
		return fmt.Errorf("%s.home must be between 0 and %d, got %d", name, s.Range, home)
	}
	return nil
}

// MoveDuration returns the default duration of a move.
func (c *Config) MoveDuration() time.Duration {
	return time.Duration(c.Motion.TimeMs) * time.Millisecond
}

// Tick returns the interval between two position writes.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Motion.TickMs) * time.Millisecond
}

// Dwell returns the pause after each scripted move.
func (c *Config) Dwell() time.Duration {
	return time.Duration(c.Motion.DwellMs) * time.Millisecond
}

// Duration returns the duration of a scripted move.
func (m MoveConfig) Duration() time.Duration {
	return time.Duration(m.TimeMs) * time.Millisecond
}

// Kind returns the curve of a scripted move (linear if unset).
func (m MoveConfig) Kind() easing.Kind {
	if m.Curve == nil {
		return easing.Linear
	}
	return *m.Curve
}
