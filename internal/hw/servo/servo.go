package servo

import (
	"fmt"

	"github.com/cjeanneret/SmoothServo/internal/debug"
	"github.com/cjeanneret/SmoothServo/internal/hw/gpio"
)

// pwmClockHz gives the PWM counter a 1µs resolution, so duty and cycle
// lengths are expressed directly in microseconds.
const pwmClockHz = 1_000_000

// Defaults for a typical hobby servo (SG90/MG996R class).
const (
	DefaultFrequencyHz = 50
	DefaultMinPulseUs  = 500
	DefaultMaxPulseUs  = 2500
	DefaultRange       = 180
)

// Config holds the hardware configuration for a PWM servo.
type Config struct {
	PWMPin      int // BCM pin with hardware PWM (12, 13, 18 or 19)
	EnablePin   int // optional power switch (BCM), active HIGH. 0 = not used.
	FrequencyHz int // PWM frame rate, usually 50 Hz
	MinPulseUs  int // pulse width at position 0
	MaxPulseUs  int // pulse width at position Range
	Range       int // number of position units between the two end stops (e.g. 180 for degrees)
	Home        int // position assumed at power-up
}

// Servo maps integer positions to PWM pulse widths.
// It remembers the last position written so moves can start from it.
type Servo struct {
	gpio     gpio.Driver
	cfg      Config
	cycle    uint32 // frame length in µs
	position int
}

// NewServo creates a servo on the configured PWM pin.
// Zero fields in cfg are replaced by the package defaults.
func NewServo(g gpio.Driver, cfg Config) (*Servo, error) {
	if cfg.FrequencyHz <= 0 {
		cfg.FrequencyHz = DefaultFrequencyHz
	}
	if cfg.MinPulseUs <= 0 {
		cfg.MinPulseUs = DefaultMinPulseUs
	}
	if cfg.MaxPulseUs <= 0 {
		cfg.MaxPulseUs = DefaultMaxPulseUs
	}
	if cfg.Range <= 0 {
		cfg.Range = DefaultRange
	}
	if cfg.MinPulseUs >= cfg.MaxPulseUs {
		return nil, fmt.Errorf("min pulse %dµs must be below max pulse %dµs", cfg.MinPulseUs, cfg.MaxPulseUs)
	}
	cycle := uint32(pwmClockHz / cfg.FrequencyHz)
	if uint32(cfg.MaxPulseUs) > cycle {
		return nil, fmt.Errorf("max pulse %dµs does not fit in a %dHz frame", cfg.MaxPulseUs, cfg.FrequencyHz)
	}

	if err := g.SetupPWM(cfg.PWMPin, pwmClockHz); err != nil {
		return nil, fmt.Errorf("setup pwm pin %d: %w", cfg.PWMPin, err)
	}

	// Power switch: enabled by default.
	if cfg.EnablePin > 0 {
		_ = g.SetupPin(cfg.EnablePin, gpio.Output)
		_ = g.WritePin(cfg.EnablePin, gpio.High)
	}

	return &Servo{
		gpio:     g,
		cfg:      cfg,
		cycle:    cycle,
		position: clamp(cfg.Home, 0, cfg.Range),
	}, nil
}

// Range returns the highest valid position.
func (s *Servo) Range() int {
	return s.cfg.Range
}

// Home returns the configured rest position.
func (s *Servo) Home() int {
	return clamp(s.cfg.Home, 0, s.cfg.Range)
}

// Position returns the last position written (or the home position before any write).
func (s *Servo) Position() int {
	return s.position
}

// PulseWidth returns the pulse width in µs for a position.
// Positions outside [0, Range] are clamped to the end stops.
func (s *Servo) PulseWidth(position int) int {
	position = clamp(position, 0, s.cfg.Range)
	span := s.cfg.MaxPulseUs - s.cfg.MinPulseUs
	return s.cfg.MinPulseUs + span*position/s.cfg.Range
}

// Write moves the servo to position. Overshooting curves (Back) may ask for
// positions past the end stops; those are clamped rather than rejected.
func (s *Servo) Write(position int) error {
	clamped := clamp(position, 0, s.cfg.Range)
	if clamped != position {
		debug.Trace("Servo pin %d: position %d clamped to %d", s.cfg.PWMPin, position, clamped)
	}
	pulse := s.PulseWidth(clamped)
	if err := s.gpio.WriteDuty(s.cfg.PWMPin, uint32(pulse), s.cycle); err != nil {
		return err
	}
	s.position = clamped
	return nil
}

// Enable powers the servo (EnablePin HIGH).
func (s *Servo) Enable() error {
	if s.cfg.EnablePin <= 0 {
		return nil
	}
	return s.gpio.WritePin(s.cfg.EnablePin, gpio.High)
}

// Disable cuts servo power (EnablePin LOW). The horn is free to move and
// Position may no longer match reality.
func (s *Servo) Disable() error {
	if s.cfg.EnablePin <= 0 {
		return nil
	}
	return s.gpio.WritePin(s.cfg.EnablePin, gpio.Low)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
