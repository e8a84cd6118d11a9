package propagator

import (
	"errors"
	"fmt"
	"math/cmplx"
	"time"

	"github.com/gonum/matrix/mat64"
)

// ErrSingular is returned when G can not be inverted or the resulting
// propagator contains non-finite values.
var ErrSingular = errors.New("propagator: singular implicit matrix")

// Solver computes U = G^-1 H.
type Solver interface {
	// Propagator returns the dense propagator.
	Propagator(G, H *Tridiagonal) (*Operator, error)
	// Name returns solver name.
	Name() string
}

// Build computes the propagator using solver and checks that the
// result is finite.
func Build(s Solver, G, H *Tridiagonal) (*Operator, error) {
	if G.Size() != H.Size() {
		return nil, fmt.Errorf("propagator: size mismatch G=%d, H=%d", G.Size(), H.Size())
	}
	start := time.Now()
	u, err := s.Propagator(G, H)
	if err != nil {
		return nil, err
	}
	if !u.finite() {
		return nil, fmt.Errorf("%w: non-finite propagator", ErrSingular)
	}
	log.Debugf("%s propagator %dx%d built in %v", s.Name(), u.Size(), u.Size(), time.Since(start))
	return u, nil
}

// Thomas solves G u_j = h_j for every column of H with the
// tridiagonal (Thomas) algorithm.
type Thomas struct{}

// Name returns solver name.
func (Thomas) Name() string {
	return "thomas"
}

// Propagator returns the dense propagator.
func (Thomas) Propagator(G, H *Tridiagonal) (*Operator, error) {
	n := G.Size()
	// forward sweep coefficients depend on G only
	cp := make([]complex128, n)
	pivot := make([]complex128, n)
	for i := 0; i < n; i++ {
		p := G.Diag[i]
		if i > 0 {
			p -= G.Lower[i] * cp[i-1]
		}
		if p == 0 || cmplx.IsNaN(p) || cmplx.IsInf(p) {
			return nil, fmt.Errorf("%w: zero pivot at row %d", ErrSingular, i)
		}
		pivot[i] = p
		if i < n-1 {
			cp[i] = G.Upper[i] / p
		}
	}

	m := mat64.NewDense(2*n, 2*n, nil)
	col := make([]complex128, n)
	u := make([]complex128, n)
	for j := 0; j < n; j++ {
		col = H.Column(j, col)
		u[0] = col[0] / pivot[0]
		for i := 1; i < n; i++ {
			u[i] = (col[i] - G.Lower[i]*u[i-1]) / pivot[i]
		}
		for i := n - 2; i >= 0; i-- {
			u[i] -= cp[i] * u[i+1]
		}
		for i, v := range u {
			setEmbedded(m, n, i, j, v)
		}
	}
	return newOperator(m), nil
}

// Dense solves G U = H with a dense LU factorization of the real
// embedding of G.
type Dense struct{}

// Name returns solver name.
func (Dense) Name() string {
	return "dense"
}

// Propagator returns the dense propagator.
func (Dense) Propagator(G, H *Tridiagonal) (*Operator, error) {
	n := G.Size()
	m := mat64.NewDense(2*n, 2*n, nil)
	if err := m.Solve(G.Dense(), H.Dense()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return newOperator(m), nil
}
