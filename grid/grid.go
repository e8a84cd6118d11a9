// Package grid implements the uniform spatial discretization of the
// infinite well [0, L].
package grid

import (
	"fmt"
)

// Grid is a uniform grid of M intervals on [0, L]. The two boundary
// points are fixed at zero amplitude, only N=M-1 interior points
// carry the wave function.
type Grid struct {
	// L is the domain length.
	L float64
	// M is the number of spatial intervals.
	M int
	// Dx is the spatial step.
	Dx float64
	// N is the number of interior points.
	N int
}

// New creates a new grid.
func New(l float64, m int) *Grid {
	return &Grid{
		L:  l,
		M:  m,
		Dx: l / float64(m),
		N:  m - 1,
	}
}

// X returns position of the full grid point j (0..M).
func (g *Grid) X(j int) float64 {
	return float64(j) * g.Dx
}

// Interior returns position of the interior point i (0..N-1). The
// offset accounts for the boundary point at x=0.
func (g *Grid) Interior(i int) float64 {
	return float64(i+1) * g.Dx
}

// Positions returns positions of all the interior points.
func (g *Grid) Positions() []float64 {
	x := make([]float64, g.N)
	for i := range x {
		x[i] = g.Interior(i)
	}
	return x
}

// Potential returns the linear potential V(x)=f*x sampled on the
// interior points.
func (g *Grid) Potential(f float64) []float64 {
	v := make([]float64, g.N)
	for i := range v {
		v[i] = f * g.Interior(i)
	}
	return v
}

func (g *Grid) String() string {
	return fmt.Sprintf("<Grid L=%v M=%d dx=%v interior=%d>", g.L, g.M, g.Dx, g.N)
}
