package geometry

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrShapeMismatch    = errors.New("shape mismatch")
)

// InvalidParameterError reports an input rejected before any numeric work starts.
type InvalidParameterError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Param, e.Value, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidParameter) succeed.
func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// ShapeMismatchError reports sequences that were expected to share a length.
type ShapeMismatchError struct {
	Op   string
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: length mismatch: want %d, got %d", e.Op, e.Want, e.Got)
}

// Unwrap lets errors.Is(err, ErrShapeMismatch) succeed.
func (e *ShapeMismatchError) Unwrap() error {
	return ErrShapeMismatch
}

// CheckLengths returns a ShapeMismatchError for the first slice whose
// length differs from want.
func CheckLengths(op string, want int, slices ...[]float64) error {
	for _, s := range slices {
		if len(s) != want {
			return &ShapeMismatchError{Op: op, Want: want, Got: len(s)}
		}
	}
	return nil
}

// RequirePositive rejects NaN, infinite, zero and negative values.
func RequirePositive(param string, v float64) error {
	if !isFinite(v) {
		return &InvalidParameterError{Param: param, Value: v, Reason: "must be finite"}
	}
	if v <= 0 {
		return &InvalidParameterError{Param: param, Value: v, Reason: "must be > 0"}
	}
	return nil
}

// RequireNonNegative rejects NaN, infinite and negative values.
func RequireNonNegative(param string, v float64) error {
	if !isFinite(v) {
		return &InvalidParameterError{Param: param, Value: v, Reason: "must be finite"}
	}
	if v < 0 {
		return &InvalidParameterError{Param: param, Value: v, Reason: "must be >= 0"}
	}
	return nil
}
