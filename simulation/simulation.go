// Package simulation runs a Crank-Nicolson simulation of a wave packet
// in a uniform field inside an infinite well and records the quantum
// expectation position alongside the classical trajectory.
package simulation

import (
	"time"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/ehrenfest/grid"
	"bitbucket.org/Davydov/ehrenfest/propagator"
	"bitbucket.org/Davydov/ehrenfest/wave"
)

// log is a global logging variable.
var log = logging.MustGetLogger("simulation")

// Options modifies the run.
type Options struct {
	// Solver computes the propagator, propagator.Thomas by default.
	Solver propagator.Solver
	// RecordFinal also records the state after the last step.
	RecordFinal bool
	// NormDrift records the state norm at every recorded step.
	NormDrift bool
}

// Results stores the time series of a run.
type Results struct {
	Time      []float64 `json:"time_points"`
	Quantum   []float64 `json:"quantum_positions"`
	Classical []float64 `json:"classical_positions"`
	Norm      []float64 `json:"norms,omitempty"`
}

// newResults allocates results for n records.
func newResults(n int, norms bool) *Results {
	r := &Results{
		Time:      make([]float64, 0, n),
		Quantum:   make([]float64, 0, n),
		Classical: make([]float64, 0, n),
	}
	if norms {
		r.Norm = make([]float64, 0, n)
	}
	return r
}

// Len returns the number of recorded time points.
func (r *Results) Len() int {
	return len(r.Time)
}

// TimePoints returns a copy of the recorded times.
func (r *Results) TimePoints() []float64 {
	return append([]float64{}, r.Time...)
}

// QuantumPositions returns a copy of the expectation positions.
func (r *Results) QuantumPositions() []float64 {
	return append([]float64{}, r.Quantum...)
}

// ClassicalPositions returns a copy of the classical positions.
func (r *Results) ClassicalPositions() []float64 {
	return append([]float64{}, r.Classical...)
}

// Norms returns a copy of the recorded norms, nil if they were not
// recorded.
func (r *Results) Norms() []float64 {
	if r.Norm == nil {
		return nil
	}
	return append([]float64{}, r.Norm...)
}

// Run runs the simulation with the default options.
func Run(p Parameters) (*Results, error) {
	return RunWithOptions(p, Options{})
}

// RunWithOptions runs the simulation.
func RunWithOptions(p Parameters, opts Options) (*Results, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts.Solver == nil {
		opts.Solver = propagator.Thomas{}
	}
	if p.K == 0 {
		log.Info("Zero time steps, nothing to simulate")
		return newResults(0, opts.NormDrift), nil
	}

	start := time.Now()
	g := grid.New(p.L, p.M)
	dt := p.TimeStep()
	log.Debugf("%v, dt=%v, final time=%v", g, dt, p.FinalTime())

	G, H := propagator.CrankNicolson(g, g.Potential(p.F), dt)
	u, err := propagator.Build(opts.Solver, G, H)
	if err != nil {
		return nil, &NumericalError{err}
	}

	psi, err := wave.Prepare(g, p.X0, p.Sigma)
	if err != nil {
		return nil, &NumericalError{err}
	}

	n := p.K
	if opts.RecordFinal {
		n++
	}
	res := newResults(n, opts.NormDrift)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		res.Time = append(res.Time, t)
		res.Classical = append(res.Classical, ClassicalPosition(p.X0, p.F, t))
		res.Quantum = append(res.Quantum, psi.Expectation(g))
		if opts.NormDrift {
			res.Norm = append(res.Norm, psi.Norm(g))
		}
		if i < p.K {
			psi = u.Apply(nil, psi)
		}
	}
	log.Debugf("Simulated %d steps in %v", p.K, time.Since(start))
	return res, nil
}
