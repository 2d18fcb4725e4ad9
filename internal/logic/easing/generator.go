package easing

import (
	"fmt"
	"iter"
)

// Curve is an immutable generator for one easing curve and one parameter set.
// It is safe for concurrent use; every Generate call returns an independent Sequence.
type Curve struct {
	kind   Kind
	params Params
}

// New validates the parameters and returns a generator for kind.
func New(kind Kind, value, timeMs, startValue int) (*Curve, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCurve, int(kind))
	}
	p, err := NormalizeParams(value, timeMs, startValue)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return &Curve{kind: kind, params: p}, nil
}

// NewFromAny is New for loosely typed numeric inputs; see NormalizeAny.
func NewFromAny(kind Kind, value, timeMs, startValue interface{}) (*Curve, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCurve, int(kind))
	}
	p, err := NormalizeAny(value, timeMs, startValue)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return &Curve{kind: kind, params: p}, nil
}

// Kind returns the curve kind.
func (c *Curve) Kind() Kind { return c.kind }

// Params returns the normalized parameters.
func (c *Curve) Params() Params { return c.params }

// Steps returns the number of ticks of tickMs that fit in the move duration.
// Non-positive tick intervals yield 0.
func (c *Curve) Steps(tickMs int) int {
	if tickMs <= 0 {
		return 0
	}
	return c.params.TimeMs / tickMs
}

// Len returns the number of values a sequence for tickMs produces.
func (c *Curve) Len(tickMs int) int {
	return max(c.Steps(tickMs), 1)
}

// Generate returns a fresh single-pass sequence of positions sampled every tickMs.
func (c *Curve) Generate(tickMs int) *Sequence {
	return &Sequence{curve: c, steps: c.Steps(tickMs), i: 1}
}

// Values returns the positions sampled every tickMs as a range-over-func iterator.
// Each range over the result starts a new traversal.
func (c *Curve) Values(tickMs int) iter.Seq[int] {
	return func(yield func(int) bool) {
		seq := c.Generate(tickMs)
		for {
			v, ok := seq.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Collect materializes the sequence for tickMs.
func (c *Curve) Collect(tickMs int) []int {
	out := make([]int, 0, c.Len(tickMs))
	for v := range c.Values(tickMs) {
		out = append(out, v)
	}
	return out
}

// sample computes the interpolated position at index i of steps.
// The sum is truncated toward zero as a whole, start included. The explicit
// float64 conversions keep the product from being fused into the addition.
func (c *Curve) sample(i, steps int) int {
	start := float64(c.params.StartValue)
	span := float64(c.params.Value - c.params.StartValue)

	switch c.kind {
	case Linear:
		return int(start + float64(span/float64(steps)*float64(i)))
	case EaseInOutExpo:
		// Boundaries are emitted verbatim, unlike the other in-out curves.
		x := float64(i) / float64(steps)
		if x == 0 {
			return c.params.StartValue
		}
		if x == 1 {
			return c.params.Value
		}
		return int(start + float64(formulas[c.kind](x)*span))
	default:
		x := float64(i) / float64(steps)
		return int(start + float64(formulas[c.kind](x)*span))
	}
}

// Sequence is a pull-based cursor over the positions of one move.
// It yields steps-1 interpolated positions followed by the exact target value,
// and cannot be rewound.
type Sequence struct {
	curve *Curve
	steps int
	i     int
	done  bool
}

// Next returns the next position. ok is false once the target has been returned.
func (s *Sequence) Next() (value int, ok bool) {
	if s.done {
		return 0, false
	}
	if s.i < s.steps {
		v := s.curve.sample(s.i, s.steps)
		s.i++
		return v, true
	}
	s.done = true
	return s.curve.params.Value, true
}

// Len returns the total number of positions of the sequence.
func (s *Sequence) Len() int {
	return max(s.steps, 1)
}

// Index returns how many positions have been consumed.
func (s *Sequence) Index() int {
	if s.done {
		return s.Len()
	}
	return s.i - 1
}

// Done reports whether the target value has already been returned.
func (s *Sequence) Done() bool {
	return s.done
}
