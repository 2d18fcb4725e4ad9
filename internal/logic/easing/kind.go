package easing

import (
	"fmt"
	"strings"
)

// Kind selects one of the named easing curves.
type Kind int

const (
	Linear Kind = iota
	EaseIn
	EaseOut
	EaseInOut
	EaseInQuad
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInQuart
	EaseOutQuart
	EaseInOutQuart
	EaseInQuint
	EaseOutQuint
	EaseInOutQuint
	EaseInExpo
	EaseOutExpo
	EaseInOutExpo
	EaseInCirc
	EaseOutCirc
	EaseInOutCirc
	EaseInBack
	EaseOutBack
	EaseInOutBack

	numKinds
)

// kindNames holds the canonical (config/CLI) name and the constructor-style
// alias of every curve, indexed by Kind.
var kindNames = [numKinds]struct {
	name  string
	alias string
}{
	Linear:         {"linear", "SmoothLinear"},
	EaseIn:         {"ease_in", "SmoothEaseIn"},
	EaseOut:        {"ease_out", "SmoothEaseOut"},
	EaseInOut:      {"ease_in_out", "SmoothEaseInOut"},
	EaseInQuad:     {"ease_in_quad", "SmoothEaseInQuad"},
	EaseOutQuad:    {"ease_out_quad", "SmoothEaseOutQuad"},
	EaseInOutQuad:  {"ease_in_out_quad", "SmoothEaseInOutQuad"},
	EaseInCubic:    {"ease_in_cubic", "SmoothEaseInCubic"},
	EaseOutCubic:   {"ease_out_cubic", "SmoothEaseOutCubic"},
	EaseInOutCubic: {"ease_in_out_cubic", "SmoothEaseInOutCubic"},
	EaseInQuart:    {"ease_in_quart", "SmoothEaseInQuart"},
	EaseOutQuart:   {"ease_out_quart", "SmoothEaseOutQuart"},
	EaseInOutQuart: {"ease_in_out_quart", "SmoothEaseInOutQuart"},
	EaseInQuint:    {"ease_in_quint", "SmoothEaseInQuint"},
	EaseOutQuint:   {"ease_out_quint", "SmoothEaseOutQuint"},
	EaseInOutQuint: {"ease_in_out_quint", "SmoothEaseInOutQuint"},
	EaseInExpo:     {"ease_in_expo", "SmoothEaseInExpo"},
	EaseOutExpo:    {"ease_out_expo", "SmoothEaseOutExpo"},
	EaseInOutExpo:  {"ease_in_out_expo", "SmoothEaseInOutExpo"},
	EaseInCirc:     {"ease_in_circ", "SmoothEaseInCirc"},
	EaseOutCirc:    {"ease_out_circ", "SmoothEaseOutCirc"},
	EaseInOutCirc:  {"ease_in_out_circ", "SmoothEaseInOutCirc"},
	EaseInBack:     {"ease_in_back", "SmoothEaseInBack"},
	EaseOutBack:    {"ease_out_back", "SmoothEaseOutBack"},
	EaseInOutBack:  {"ease_in_out_back", "SmoothEaseInOutBack"},
}

// Kinds returns every supported curve in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Linear; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k names a supported curve.
func (k Kind) Valid() bool {
	return k >= Linear && k < numKinds
}

// String returns the snake_case name used in config files and on the command line.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k].name
}

// Alias returns the constructor-style name of the curve (e.g. "SmoothEaseInQuad").
func (k Kind) Alias() string {
	if !k.Valid() {
		return ""
	}
	return kindNames[k].alias
}

// ParseKind resolves a curve name. Both the snake_case form ("ease_in_quad")
// and the constructor-style alias ("SmoothEaseInQuad") are accepted, case-insensitively.
func ParseKind(name string) (Kind, error) {
	n := strings.TrimSpace(name)
	for k := Linear; k < numKinds; k++ {
		if strings.EqualFold(n, kindNames[k].name) || strings.EqualFold(n, kindNames[k].alias) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCurve, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so a Kind can be decoded
// directly from YAML.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
