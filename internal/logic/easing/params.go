package easing

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

var (
	// ErrInvalidArgument is wrapped by every construction failure.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownCurve is returned for a Kind or curve name that does not exist.
	ErrUnknownCurve = errors.New("unknown curve")
)

// ArgumentError reports which constructor argument was rejected.
type ArgumentError struct {
	Field string // "value" or "time"
	Msg   string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// Params is the validated parameter set shared by every curve.
type Params struct {
	Value      int // end position, > 0
	TimeMs     int // total move duration, > 0
	StartValue int // start position, within [0, Value]
}

// NormalizeParams validates value and timeMs and clamps startValue.
// A start outside [0, value] is not an error; it is replaced by 0.
func NormalizeParams(value, timeMs, startValue int) (Params, error) {
	if value <= 0 {
		return Params{}, &ArgumentError{Field: "value", Msg: "value must be greater than 0"}
	}
	if timeMs <= 0 {
		return Params{}, &ArgumentError{Field: "time", Msg: "time must be greater than 0"}
	}
	if startValue < 0 || startValue > value {
		startValue = 0
	}
	return Params{Value: value, TimeMs: timeMs, StartValue: startValue}, nil
}

// NormalizeAny is NormalizeParams for loosely typed inputs (float64, int64,
// uint, numeric strings...). Values are truncated toward zero before validation.
func NormalizeAny(value, timeMs, startValue interface{}) (Params, error) {
	v, err := toInt("value", value)
	if err != nil {
		return Params{}, err
	}
	t, err := toInt("time", timeMs)
	if err != nil {
		return Params{}, err
	}
	s, err := toInt("start_value", startValue)
	if err != nil {
		return Params{}, err
	}
	return NormalizeParams(v, t, s)
}

func toInt(field string, v interface{}) (int, error) {
	if v == nil {
		return 0, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, &ArgumentError{Field: field, Msg: fmt.Sprintf("%s is not numeric: %v", field, err)}
	}
	return n, nil
}
