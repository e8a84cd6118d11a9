package propagator

import (
	"math"

	"github.com/gonum/blas"
	"github.com/gonum/blas/blas64"
	"github.com/gonum/matrix/mat64"
)

// Operator is a dense complex n x n one step propagator. It is stored
// as the real embedding [[Re U, -Im U], [Im U, Re U]], which makes
// U*psi a single real matrix-vector product.
type Operator struct {
	n int
	m *mat64.Dense
}

// newOperator wraps the embedding of size 2n x 2n.
func newOperator(m *mat64.Dense) *Operator {
	r, _ := m.Dims()
	return &Operator{n: r / 2, m: m}
}

// Size returns the number of interior points the operator acts on.
func (o *Operator) Size() int {
	return o.n
}

// At returns the complex element (i, j).
func (o *Operator) At(i, j int) complex128 {
	return complex(o.m.At(i, j), o.m.At(i+o.n, j))
}

// Apply computes dst = U*src and returns dst. If dst is nil a new
// slice is allocated. dst and src must not overlap.
func (o *Operator) Apply(dst, src []complex128) []complex128 {
	if len(src) != o.n {
		panic("propagator: state size mismatch")
	}
	if dst == nil {
		dst = make([]complex128, o.n)
	}
	x := make([]float64, 2*o.n)
	y := make([]float64, 2*o.n)
	for j, v := range src {
		x[j] = real(v)
		x[j+o.n] = imag(v)
	}
	blas64.Gemv(blas.NoTrans, 1, o.m.RawMatrix(), blas64.Vector{Inc: 1, Data: x},
		0, blas64.Vector{Inc: 1, Data: y})
	for i := range dst {
		dst[i] = complex(y[i], y[i+o.n])
	}
	return dst
}

// finite checks that there are no NaN or Inf elements.
func (o *Operator) finite() bool {
	for _, v := range o.m.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
