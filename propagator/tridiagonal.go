// Package propagator builds the Crank-Nicolson one step propagator
// for the Schroedinger equation i dpsi/dt = -1/2 d2psi/dx2 + V(x) psi
// (hbar=m=1) on the interior points of a grid.
package propagator

import (
	"github.com/gonum/matrix/mat64"
	"github.com/op/go-logging"

	"bitbucket.org/Davydov/ehrenfest/grid"
)

// log is a global logging variable.
var log = logging.MustGetLogger("propagator")

// Tridiagonal is a square complex tridiagonal matrix. All three
// diagonals have the matrix size, Lower[0] and Upper[n-1] are not
// used and stay zero.
type Tridiagonal struct {
	// Lower[i] is the element (i, i-1).
	Lower []complex128
	// Diag[i] is the element (i, i).
	Diag []complex128
	// Upper[i] is the element (i, i+1).
	Upper []complex128
}

// NewTridiagonal creates a zero tridiagonal matrix of size n.
func NewTridiagonal(n int) *Tridiagonal {
	return &Tridiagonal{
		Lower: make([]complex128, n),
		Diag:  make([]complex128, n),
		Upper: make([]complex128, n),
	}
}

// Size returns the matrix size.
func (t *Tridiagonal) Size() int {
	return len(t.Diag)
}

// At returns the element (i, j).
func (t *Tridiagonal) At(i, j int) complex128 {
	switch j - i {
	case -1:
		return t.Lower[i]
	case 0:
		return t.Diag[i]
	case 1:
		return t.Upper[i]
	}
	return 0
}

// Column returns the column j as a dense vector.
func (t *Tridiagonal) Column(j int, col []complex128) []complex128 {
	n := t.Size()
	if col == nil {
		col = make([]complex128, n)
	}
	for i := range col {
		col[i] = 0
	}
	if j > 0 {
		col[j-1] = t.Upper[j-1]
	}
	col[j] = t.Diag[j]
	if j < n-1 {
		col[j+1] = t.Lower[j+1]
	}
	return col
}

// Dense returns the real 2n x 2n embedding of the matrix.
func (t *Tridiagonal) Dense() *mat64.Dense {
	n := t.Size()
	m := mat64.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := i - 1; j <= i+1; j++ {
			if j < 0 || j >= n {
				continue
			}
			setEmbedded(m, n, i, j, t.At(i, j))
		}
	}
	return m
}

// CrankNicolson returns the implicit (G) and the explicit (H) sides
// of the Crank-Nicolson scheme, G psi(t+dt) = H psi(t).
func CrankNicolson(g *grid.Grid, potential []float64, dt float64) (G, H *Tridiagonal) {
	n := g.N
	alpha := dt / (2 * g.Dx * g.Dx)
	G = NewTridiagonal(n)
	H = NewTridiagonal(n)

	offG := -1i * complex(alpha, 0)
	offH := 1i * complex(alpha, 0)
	for idx := 0; idx < n; idx++ {
		v := complex(potential[idx], 0)
		G.Diag[idx] = 1 + 2i*complex(alpha, 0) + 1i*complex(dt/2, 0)*v
		H.Diag[idx] = 1 - 2i*complex(alpha, 0) - 1i*complex(dt/2, 0)*v
		if idx > 0 {
			G.Lower[idx] = offG
			H.Lower[idx] = offH
		}
		if idx < n-1 {
			G.Upper[idx] = offG
			H.Upper[idx] = offH
		}
	}
	log.Debugf("Crank-Nicolson matrices: n=%d, alpha=%v, dt=%v", n, alpha, dt)
	return
}

// setEmbedded writes complex value v at (i, j) of a complex n x n
// matrix stored as [[Re, -Im], [Im, Re]].
func setEmbedded(m *mat64.Dense, n, i, j int, v complex128) {
	m.Set(i, j, real(v))
	m.Set(i, j+n, -imag(v))
	m.Set(i+n, j, imag(v))
	m.Set(i+n, j+n, real(v))
}
