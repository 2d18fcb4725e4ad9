package easing

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Profile summarizes the positions of one move, for comparing curves before
// putting them on hardware.
type Profile struct {
	Samples int     // number of positions written
	Min     int     // lowest position
	Max     int     // highest position
	Mean    float64 // mean position
	MaxJump int     // largest change between consecutive ticks, start included
	// Undershoot is how far the move dips below its start; Overshoot how far
	// it passes the target. Both are 0 for curves that stay in range.
	Undershoot int
	Overshoot  int
}

// Profile generates the sequence for tickMs and analyzes it.
func (c *Curve) Profile(tickMs int) Profile {
	return Analyze(c.params.StartValue, c.params.Value, c.Collect(tickMs))
}

// Analyze computes a Profile for samples of a move from start to target.
func Analyze(start, target int, samples []int) Profile {
	if len(samples) == 0 {
		return Profile{}
	}

	values := make([]float64, len(samples))
	jumps := make([]float64, len(samples))
	prev := float64(start)
	for i, s := range samples {
		values[i] = float64(s)
		jumps[i] = math.Abs(values[i] - prev)
		prev = values[i]
	}

	p := Profile{
		Samples: len(samples),
		Min:     int(floats.Min(values)),
		Max:     int(floats.Max(values)),
		Mean:    stat.Mean(values, nil),
		MaxJump: int(floats.Max(jumps)),
	}
	if p.Min < start {
		p.Undershoot = start - p.Min
	}
	if p.Max > target {
		p.Overshoot = p.Max - target
	}
	return p
}
