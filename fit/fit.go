// Package fit estimates a uniformly accelerated trajectory
// x(t) = x0 - f*t^2 from a time series using bounded L-BFGS-B.
package fit

import (
	"errors"
	"math"

	"github.com/gonum/floats"
	lbfgsb "github.com/idavydov/go-lbfgsb"
	"github.com/op/go-logging"
)

// log is a global logging variable.
var log = logging.MustGetLogger("fit")

// ErrTooFewPoints is returned when the series can not determine both
// parameters.
var ErrTooFewPoints = errors.New("fit: at least two distinct time points required")

// Result is a fitted trajectory.
type Result struct {
	// X0 is the fitted initial position.
	X0 float64 `json:"x0"`
	// F is the fitted pull (x0 - F*t^2), F>=0.
	F float64 `json:"force"`
	// RMS is the root mean square residual.
	RMS float64 `json:"rms"`
	// Iterations is the number of optimizer iterations.
	Iterations int `json:"iterations"`
}

// trajectory is the least squares objective.
type trajectory struct {
	t2 []float64
	y  []float64
	r  []float64
	g  []float64
	i  int
}

// residuals computes r_i = x0 - f*t_i^2 - y_i.
func (tr *trajectory) residuals(x []float64) []float64 {
	for i := range tr.r {
		tr.r[i] = x[0] - x[1]*tr.t2[i] - tr.y[i]
	}
	return tr.r
}

// EvaluateFunction returns mean squared residual.
func (tr *trajectory) EvaluateFunction(x []float64) float64 {
	r := tr.residuals(x)
	return floats.Dot(r, r) / float64(len(r))
}

// EvaluateGradient returns the analytical gradient.
func (tr *trajectory) EvaluateGradient(x []float64) []float64 {
	r := tr.residuals(x)
	n := float64(len(r))
	tr.g[0] = 2 * floats.Sum(r) / n
	tr.g[1] = -2 * floats.Dot(r, tr.t2) / n
	return tr.g
}

// Logger logs optimizer iterations.
func (tr *trajectory) Logger(info *lbfgsb.OptimizationIterationInformation) {
	tr.i = info.Iteration
	log.Debugf("iteration %d: x0=%v, f=%v, mse=%v", info.Iteration, info.X[0], info.X[1], info.F)
}

// Trajectory fits x0 - f*t^2 to positions.
func Trajectory(times, positions []float64) (*Result, error) {
	if len(times) != len(positions) {
		return nil, errors.New("fit: series length mismatch")
	}
	if len(times) < 2 || floats.Min(times) == floats.Max(times) {
		return nil, ErrTooFewPoints
	}
	tr := &trajectory{
		t2: make([]float64, len(times)),
		y:  positions,
		r:  make([]float64, len(times)),
		g:  make([]float64, 2),
	}
	for i, t := range times {
		tr.t2[i] = t * t
	}

	// start from the line through the first and the last points
	last := len(times) - 1
	start := []float64{positions[0], 0}
	if dt2 := tr.t2[last] - tr.t2[0]; dt2 > 0 {
		start[1] = math.Max(0, (positions[0]-positions[last])/dt2)
		start[0] = positions[0] + start[1]*tr.t2[0]
	}

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(5)
	opt.SetFTolerance(1e-12)
	opt.SetGTolerance(1e-10)
	opt.SetBounds([][2]float64{
		{math.Inf(-1), math.Inf(1)},
		{0, math.Inf(1)},
	})
	opt.SetLogger(tr.Logger)

	best, exitStatus := opt.Minimize(tr, start)
	log.Debugf("Exit status: %v", exitStatus)

	mse := tr.EvaluateFunction(best.X)
	return &Result{
		X0:         best.X[0],
		F:          best.X[1],
		RMS:        math.Sqrt(mse),
		Iterations: tr.i,
	}, nil
}
