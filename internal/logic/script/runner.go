package script

import (
	"context"
	"fmt"
	"time"

	"github.com/cjeanneret/SmoothServo/internal/debug"
	"github.com/cjeanneret/SmoothServo/internal/logic/easing"
	"github.com/cjeanneret/SmoothServo/internal/logic/motion"
)

// Step is one eased move of a script.
type Step struct {
	Axis     motion.Axis
	Target   int
	Curve    easing.Kind
	Duration time.Duration
}

// Params defines how a script is played.
type Params struct {
	Steps  []Step
	Tick   time.Duration // interval between position writes
	Dwell  time.Duration // pause between steps, not after the final one
	Repeat int           // number of passes over Steps; values < 1 mean once
}

// Runner plays a list of moves on a motion controller.
type Runner struct {
	motion *motion.Controller
}

func NewRunner(m *motion.Controller) *Runner {
	return &Runner{motion: m}
}

// Run executes every step in order, Repeat times, honoring ctx between and during moves.
// Servos are powered for the whole run.
func (r *Runner) Run(ctx context.Context, p Params) error {
	repeat := max(p.Repeat, 1)

	if err := r.motion.EnableMotors(); err != nil {
		return fmt.Errorf("enable servos: %w", err)
	}

	for pass := 0; pass < repeat; pass++ {
		debug.Live("Script pass %d/%d (%d moves)", pass+1, repeat, len(p.Steps))

		for i, st := range p.Steps {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			debug.Step(i+1, fmt.Sprintf("%s -> %d (%s, %v)", st.Axis, st.Target, st.Curve, st.Duration))
			err := r.motion.Move(ctx, st.Axis, motion.MoveParams{
				Curve:    st.Curve,
				Target:   st.Target,
				Duration: st.Duration,
				Tick:     p.Tick,
			})
			if err != nil {
				debug.Error(err)
				return fmt.Errorf("step %d: %w", i+1, err)
			}

			last := pass == repeat-1 && i == len(p.Steps)-1
			if p.Dwell > 0 && !last {
				if err := sleep(ctx, p.Dwell); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
