package motion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cjeanneret/SmoothServo/internal/debug"
	"github.com/cjeanneret/SmoothServo/internal/hw/servo"
	"github.com/cjeanneret/SmoothServo/internal/logic/easing"
)

// Axis names one of the controller's servos.
type Axis string

const (
	Pan  Axis = "pan"
	Tilt Axis = "tilt"
)

var (
	// ErrUnknownAxis is returned for an axis that has no servo attached.
	ErrUnknownAxis = errors.New("unknown axis")
	// ErrOutOfRange is returned for a target outside the servo's range.
	ErrOutOfRange = errors.New("target out of range")
)

// MoveParams describes one eased move.
type MoveParams struct {
	Curve    easing.Kind
	Target   int
	Duration time.Duration
	Tick     time.Duration // interval between two position writes
}

// Controller orchestrates eased pan/tilt movements via two servos.
// It's an intermediate layer between business logic (scripts, CLI)
// and low-level (PWM). The tilt servo is optional.
type Controller struct {
	pan     *servo.Servo
	tilt    *servo.Servo
	planner *Planner
}

func NewController(pan, tilt *servo.Servo, planner *Planner) *Controller {
	if planner == nil {
		planner = NewPlanner(0)
	}
	return &Controller{
		pan:     pan,
		tilt:    tilt,
		planner: planner,
	}
}

func (c *Controller) servo(axis Axis) (*servo.Servo, error) {
	var s *servo.Servo
	switch axis {
	case Pan:
		s = c.pan
	case Tilt:
		s = c.tilt
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAxis, axis)
	}
	return s, nil
}

// Position returns the last position written on axis.
func (c *Controller) Position(axis Axis) (int, error) {
	s, err := c.servo(axis)
	if err != nil {
		return 0, err
	}
	return s.Position(), nil
}

// Move eases axis from its current position to p.Target, writing one sample
// per tick. Easing curves only run upward from their start, so a downward move
// is planned in mirrored coordinates (Range - position) and mapped back.
func (c *Controller) Move(ctx context.Context, axis Axis, p MoveParams) error {
	s, err := c.servo(axis)
	if err != nil {
		return err
	}
	if p.Target < 0 || p.Target > s.Range() {
		return fmt.Errorf("%w: %s target %d not in [0, %d]", ErrOutOfRange, axis, p.Target, s.Range())
	}

	start := s.Position()
	if p.Target == start {
		debug.Verbose("Servo %s already at %d", axis, start)
		return nil
	}

	timeMs := int(p.Duration / time.Millisecond)
	tickMs := int(p.Tick / time.Millisecond)

	mirrored := p.Target < start
	value, from := p.Target, start
	if mirrored {
		value, from = s.Range()-p.Target, s.Range()-start
	}

	plan, err := c.planner.Plan(p.Curve, value, timeMs, from, tickMs)
	if err != nil {
		return fmt.Errorf("plan %s move: %w", axis, err)
	}

	debug.Move(string(axis), start, p.Target, p.Curve.String())

	var ticker *time.Ticker
	if p.Tick > 0 {
		ticker = time.NewTicker(p.Tick)
		defer ticker.Stop()
	}

	// Sample i is the position at progress (i+1)/steps, so it is written on
	// tick i+1 and the last sample lands at Duration.
	for i, v := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}

		if mirrored {
			v = s.Range() - v
		}
		if debug.IsEnabled(debug.LevelVerbose) {
			debug.Sample(string(axis), i, v)
		}
		if err := s.Write(v); err != nil {
			return fmt.Errorf("write %s position %d: %w", axis, v, err)
		}
	}

	debug.Live("Servo %s reached %d", axis, s.Position())
	return nil
}

func (c *Controller) MovePan(ctx context.Context, p MoveParams) error {
	return c.Move(ctx, Pan, p)
}

func (c *Controller) MoveTilt(ctx context.Context, p MoveParams) error {
	return c.Move(ctx, Tilt, p)
}

// MovePanTilt performs a combined movement (sequential for now).
func (c *Controller) MovePanTilt(ctx context.Context, pan, tilt MoveParams) error {
	if err := c.MovePan(ctx, pan); err != nil {
		return err
	}
	if err := c.MoveTilt(ctx, tilt); err != nil {
		return err
	}
	return nil
}

// Home writes the configured home position to every servo directly, without easing.
// The position of an unpowered servo is unknown, so there is nothing to ease from.
func (c *Controller) Home() error {
	for _, s := range []*servo.Servo{c.pan, c.tilt} {
		if s == nil {
			continue
		}
		if err := s.Write(s.Home()); err != nil {
			return err
		}
	}
	return nil
}

// EnableMotors powers every servo.
func (c *Controller) EnableMotors() error {
	for _, s := range []*servo.Servo{c.pan, c.tilt} {
		if s == nil {
			continue
		}
		if err := s.Enable(); err != nil {
			return err
		}
	}
	return nil
}

// DisableMotors cuts servo power. Servos lose holding torque.
func (c *Controller) DisableMotors() error {
	for _, s := range []*servo.Servo{c.pan, c.tilt} {
		if s == nil {
			continue
		}
		if err := s.Disable(); err != nil {
			return err
		}
	}
	return nil
}
