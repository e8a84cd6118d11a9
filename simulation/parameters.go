package simulation

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter is returned for parameters outside of the
	// physically meaningful range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNumerical is returned when the propagator can not be built.
	ErrNumerical = errors.New("numerical error")
)

// ParameterError describes a rejected parameter.
type ParameterError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidParameter).
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// NumericalError wraps the failure that prevented a run from
// completing. It matches both ErrNumerical and the underlying cause.
type NumericalError struct {
	Err error
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("%v: %v", ErrNumerical, e.Err)
}

// Unwrap returns the underlying cause.
func (e *NumericalError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrNumerical).
func (e *NumericalError) Is(target error) bool {
	return target == ErrNumerical
}

// Parameters stores physical and numerical parameters of a run.
type Parameters struct {
	// L is the well length.
	L float64 `json:"length"`
	// M is the number of spatial intervals.
	M int `json:"intervals"`
	// K is the number of time steps.
	K int `json:"steps"`
	// X0 is the initial position.
	X0 float64 `json:"x0"`
	// F is the field strength.
	F float64 `json:"force"`
	// Sigma is the initial packet width.
	Sigma float64 `json:"sigma"`
}

// positive checks that v is finite and greater than zero.
func positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ParameterError{name, v, "is not finite"}
	}
	if v <= 0 {
		return &ParameterError{name, v, "should be > 0"}
	}
	return nil
}

// Validate checks the parameters.
func (p Parameters) Validate() error {
	if err := positive("L", p.L); err != nil {
		return err
	}
	if p.M < 2 {
		return &ParameterError{"M", p.M, "should be >= 2"}
	}
	if p.K < 0 {
		return &ParameterError{"K", p.K, "should be >= 0"}
	}
	if err := positive("x0", p.X0); err != nil {
		return err
	}
	if err := positive("f", p.F); err != nil {
		return err
	}
	return positive("sigma", p.Sigma)
}

// FinalTime returns time to reach the origin, sqrt(x0/f).
func (p Parameters) FinalTime() float64 {
	return math.Sqrt(p.X0 / p.F)
}

// TimeStep returns the time step FinalTime/K.
func (p Parameters) TimeStep() float64 {
	return p.FinalTime() / float64(p.K)
}

// Key returns a canonical string identifying the parameters.
func (p Parameters) Key() string {
	return fmt.Sprintf("L=%v,M=%d,K=%d,x0=%v,f=%v,sigma=%v", p.L, p.M, p.K, p.X0, p.F, p.Sigma)
}

// ClassicalPosition returns x0 - f*t^2.
func ClassicalPosition(x0, f, t float64) float64 {
	// conversions forbid fused multiply-add
	return x0 - float64(f*float64(t*t))
}
