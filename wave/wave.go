// Package wave prepares the initial Gaussian wave packet and computes
// observables of a discretized wave function.
package wave

import (
	"errors"
	"math"

	"github.com/gonum/floats"
	"github.com/op/go-logging"

	"bitbucket.org/Davydov/ehrenfest/grid"
)

// log is a global logging variable.
var log = logging.MustGetLogger("wave")

// ErrZeroNorm is returned when a state can not be normalized.
var ErrZeroNorm = errors.New("wave: zero norm state")

// State is a wave function sampled on the interior grid points. The
// amplitudes on the walls are always zero and are not stored.
type State []complex128

// GaussianAmplitude returns the value of the normalized ground state
// Gaussian of width sigma centered at x0.
func GaussianAmplitude(x, x0, sigma float64) float64 {
	n := 1 / (math.Pow(math.Pi, 0.25) * math.Sqrt(sigma))
	d := x - x0
	return n * math.Exp(-d*d/(2*sigma*sigma))
}

// Gaussian samples the Gaussian packet on all M+1 grid points. The
// amplitudes at x=0 and x=L are set to zero.
func Gaussian(g *grid.Grid, x0, sigma float64) []complex128 {
	psi := make([]complex128, g.M+1)
	for j := range psi {
		psi[j] = complex(GaussianAmplitude(g.X(j), x0, sigma), 0)
	}
	psi[0] = 0
	psi[g.M] = 0
	return psi
}

// probability returns |psi_j|^2.
func probability(psi []complex128) []float64 {
	p := make([]float64, len(psi))
	for j, v := range psi {
		p[j] = real(v)*real(v) + imag(v)*imag(v)
	}
	return p
}

// Norm returns the discrete probability integral sum |psi_j|^2 dx.
func Norm(psi []complex128, dx float64) float64 {
	return floats.Sum(probability(psi)) * dx
}

// Normalize scales psi in place so that Norm(psi, dx) is 1.
func Normalize(psi []complex128, dx float64) error {
	nsq := Norm(psi, dx)
	if nsq == 0 || math.IsNaN(nsq) || math.IsInf(nsq, 0) {
		return ErrZeroNorm
	}
	norm := complex(math.Sqrt(nsq), 0)
	for j := range psi {
		psi[j] /= norm
	}
	log.Debugf("Normalized state, norm before normalization: %v", nsq)
	return nil
}

// Interior drops the boundary points of a full grid state.
func Interior(psi []complex128) State {
	s := make(State, len(psi)-2)
	copy(s, psi[1:len(psi)-1])
	return s
}

// Prepare returns the normalized Gaussian packet on the interior
// points.
func Prepare(g *grid.Grid, x0, sigma float64) (State, error) {
	psi := Gaussian(g, x0, sigma)
	if err := Normalize(psi, g.Dx); err != nil {
		return nil, err
	}
	return Interior(psi), nil
}

// Norm returns the probability integral of the state.
func (s State) Norm(g *grid.Grid) float64 {
	return Norm(s, g.Dx)
}

// Expectation returns the expectation position sum |psi_j|^2 x_j dx,
// where x_j are the interior positions. The state is not
// renormalized.
func (s State) Expectation(g *grid.Grid) float64 {
	return floats.Dot(probability(s), g.Positions()) * g.Dx
}
