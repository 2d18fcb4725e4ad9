package easing

import "math"

// Back curve constants, see https://easings.net/#easeInBack.
const (
	backC1 = 1.70158
	backC2 = backC1 * 1.525
	backC3 = backC1 + 1
)

// Func maps normalized progress x in [0,1] to eased progress.
// Most curves stay within [0,1]; the Back family overshoots on purpose.
type Func func(x float64) float64

// formulas is indexed by Kind. Linear is the identity here; the generator
// scales it directly instead. Products feeding an addition are wrapped in
// float64() so the compiler cannot fuse them into an FMA.
var formulas = [numKinds]Func{
	Linear: func(x float64) float64 { return x },

	EaseIn:    func(x float64) float64 { return 1 - math.Cos(x*math.Pi/2) },
	EaseOut:   func(x float64) float64 { return math.Sin((x * math.Pi) / 2) },
	EaseInOut: func(x float64) float64 { return -(math.Cos(math.Pi*x) - 1) / 2 },

	EaseInQuad: func(x float64) float64 { return x * x },
	EaseOutQuad: func(x float64) float64 {
		r := 1 - x
		return 1 - float64(r*r)
	},
	EaseInOutQuad: func(x float64) float64 {
		if x < 0.5 {
			return 2 * x * x
		}
		return 1 - math.Pow(float64(-2*x)+2, 2)/2
	},

	EaseInCubic:  func(x float64) float64 { return x * x * x },
	EaseOutCubic: func(x float64) float64 { return 1 - math.Pow(1-x, 3) },
	EaseInOutCubic: func(x float64) float64 {
		if x < 0.5 {
			return 4 * x * x * x
		}
		return 1 - math.Pow(float64(-2*x)+2, 3)/2
	},

	EaseInQuart:  func(x float64) float64 { return x * x * x * x },
	EaseOutQuart: func(x float64) float64 { return 1 - math.Pow(1-x, 4) },
	EaseInOutQuart: func(x float64) float64 {
		if x < 0.5 {
			return 8 * x * x * x * x
		}
		return 1 - math.Pow(float64(-2*x)+2, 4)/2
	},

	EaseInQuint:  func(x float64) float64 { return x * x * x * x * x },
	EaseOutQuint: func(x float64) float64 { return 1 - math.Pow(1-x, 5) },
	EaseInOutQuint: func(x float64) float64 {
		if x < 0.5 {
			return 16 * x * x * x * x * x
		}
		return 1 - math.Pow(float64(-2*x)+2, 5)/2
	},

	EaseInExpo: func(x float64) float64 {
		if x == 0 {
			return 0
		}
		return math.Pow(2, float64(10*x)-10)
	},
	EaseOutExpo: func(x float64) float64 {
		if x == 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*x)
	},
	EaseInOutExpo: func(x float64) float64 {
		switch {
		case x == 0:
			return 0
		case x == 1:
			return 1
		case x < 0.5:
			return math.Pow(2, float64(20*x)-10) / 2
		default:
			return (2 - math.Pow(2, float64(-20*x)+10)) / 2
		}
	},

	EaseInCirc:  func(x float64) float64 { return 1 - math.Sqrt(1-math.Pow(x, 2)) },
	EaseOutCirc: func(x float64) float64 { return math.Sqrt(1 - math.Pow(x-1, 2)) },
	EaseInOutCirc: func(x float64) float64 {
		if x < 0.5 {
			return (1 - math.Sqrt(1-math.Pow(2*x, 2))) / 2
		}
		return (math.Sqrt(1-math.Pow(float64(-2*x)+2, 2)) + 1) / 2
	},

	EaseInBack: func(x float64) float64 { return float64(backC3*x*x*x) - float64(backC1*x*x) },
	EaseOutBack: func(x float64) float64 {
		return 1 + float64(backC3*math.Pow(x-1, 3)) + float64(backC1*math.Pow(x-1, 2))
	},
	EaseInOutBack: func(x float64) float64 {
		if x < 0.5 {
			return (math.Pow(2*x, 2) * (float64((backC2+1)*2*x) - backC2)) / 2
		}
		return (float64(math.Pow(float64(2*x)-2, 2)*(float64((backC2+1)*(float64(x*2)-2))+backC2)) + 2) / 2
	},
}

// Func returns the easing function of k, or nil for an unknown kind.
func (k Kind) Func() Func {
	if !k.Valid() {
		return nil
	}
	return formulas[k]
}
