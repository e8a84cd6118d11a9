package propagator

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/ehrenfest/grid"
)

const (
	smallDiff = 1e-10
	normDiff  = 1e-6
)

// setLogLevel sets the default log-level to WARNING.
func setLogLevel() {
	logging.SetLevel(logging.WARNING, "propagator")
}

// scenario returns G and H for L=10, M=50, x0=8, f=2, K=5.
func scenario() (*grid.Grid, *Tridiagonal, *Tridiagonal) {
	g := grid.New(10, 50)
	dt := math.Sqrt(8.0/2.0) / 5
	G, H := CrankNicolson(g, g.Potential(2), dt)
	return g, G, H
}

func randomState(n int, r *rand.Rand) []complex128 {
	psi := make([]complex128, n)
	for i := range psi {
		psi[i] = complex(r.NormFloat64(), r.NormFloat64())
	}
	return psi
}

func sqNorm(psi []complex128) (s float64) {
	for _, v := range psi {
		s += real(v)*real(v) + imag(v)*imag(v)
	}
	return
}

func TestCrankNicolson(tst *testing.T) {
	setLogLevel()
	g, G, H := scenario()
	n := g.N
	if G.Size() != n || H.Size() != n {
		tst.Fatal("Wrong matrix size:", G.Size(), H.Size())
	}
	dt := math.Sqrt(8.0/2.0) / 5
	alpha := dt / (2 * g.Dx * g.Dx)
	for i := 0; i < n; i++ {
		v := 2 * g.Interior(i)
		eG := complex(1, 2*alpha+dt/2*v)
		eH := complex(1, -2*alpha-dt/2*v)
		if cmplx.Abs(G.Diag[i]-eG) > smallDiff {
			tst.Errorf("Wrong G diagonal at %d. Expected: %v, got %v", i, eG, G.Diag[i])
		}
		if cmplx.Abs(H.Diag[i]-eH) > smallDiff {
			tst.Errorf("Wrong H diagonal at %d. Expected: %v, got %v", i, eH, H.Diag[i])
		}
		// G and H are conjugate
		if G.Diag[i] != cmplx.Conj(H.Diag[i]) {
			tst.Errorf("G and H diagonals are not conjugate at %d", i)
		}
	}
	if G.Lower[0] != 0 || G.Upper[n-1] != 0 || H.Lower[0] != 0 || H.Upper[n-1] != 0 {
		tst.Error("Corner off-diagonal elements should be zero")
	}
	if G.At(3, 4) != complex(0, -alpha) || H.At(4, 3) != complex(0, alpha) {
		tst.Error("Wrong off-diagonal elements:", G.At(3, 4), H.At(4, 3))
	}
	if G.At(0, 5) != 0 {
		tst.Error("Non-tridiagonal element is not zero")
	}
}

func TestUnitarity(tst *testing.T) {
	setLogLevel()
	g, G, H := scenario()
	r := rand.New(rand.NewSource(1))
	for _, s := range []Solver{Thomas{}, Dense{}} {
		u, err := Build(s, G, H)
		if err != nil {
			tst.Fatal("Error:", err)
		}
		for k := 0; k < 5; k++ {
			psi := randomState(g.N, r)
			before := sqNorm(psi) * g.Dx
			after := sqNorm(u.Apply(nil, psi)) * g.Dx
			if math.Abs(after-before)/before > normDiff {
				tst.Errorf("%s: norm is not preserved: %v -> %v", s.Name(), before, after)
			}
		}
	}
}

func TestSolversAgree(tst *testing.T) {
	setLogLevel()
	g, G, H := scenario()
	ut, err := Build(Thomas{}, G, H)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	ud, err := Build(Dense{}, G, H)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			if d := cmplx.Abs(ut.At(i, j) - ud.At(i, j)); d > smallDiff {
				tst.Fatalf("Solvers disagree at (%d, %d): %v vs %v", i, j, ut.At(i, j), ud.At(i, j))
			}
		}
	}
}

func TestDenseLargeGrid(tst *testing.T) {
	setLogLevel()
	for _, m := range []int{34, 50, 120, 200} {
		g := grid.New(10, m)
		dt := math.Sqrt(8.0/2.0) / 5
		G, H := CrankNicolson(g, g.Potential(2), dt)
		ut, err := Build(Thomas{}, G, H)
		if err != nil {
			tst.Fatal("Error:", err)
		}
		ud, err := Build(Dense{}, G, H)
		if err != nil {
			tst.Fatalf("Dense solver failed for M=%d: %v", m, err)
		}
		for i := 0; i < g.N; i++ {
			for j := 0; j < g.N; j++ {
				if d := cmplx.Abs(ut.At(i, j) - ud.At(i, j)); d > smallDiff {
					tst.Fatalf("Solvers disagree for M=%d at (%d, %d): %v vs %v", m, i, j, ut.At(i, j), ud.At(i, j))
				}
			}
		}
	}
}

func TestPropagatorSolvesSystem(tst *testing.T) {
	setLogLevel()
	g, G, H := scenario()
	u, err := Build(Thomas{}, G, H)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	psi := randomState(g.N, rand.New(rand.NewSource(2)))
	next := u.Apply(nil, psi)
	// G*next must be equal to H*psi
	for i := 0; i < g.N; i++ {
		var lhs, rhs complex128
		for j := i - 1; j <= i+1; j++ {
			if j < 0 || j >= g.N {
				continue
			}
			lhs += G.At(i, j) * next[j]
			rhs += H.At(i, j) * psi[j]
		}
		if cmplx.Abs(lhs-rhs) > 1e-9 {
			tst.Errorf("G*U*psi != H*psi at %d: %v vs %v", i, lhs, rhs)
		}
	}
}

func TestSingular(tst *testing.T) {
	setLogLevel()
	G := NewTridiagonal(3)
	H := NewTridiagonal(3)
	for _, s := range []Solver{Thomas{}, Dense{}} {
		_, err := Build(s, G, H)
		if !errors.Is(err, ErrSingular) {
			tst.Errorf("%s: expected singular matrix error, got %v", s.Name(), err)
		}
	}
}

func TestSizeMismatch(tst *testing.T) {
	_, err := Build(Thomas{}, NewTridiagonal(3), NewTridiagonal(4))
	if err == nil {
		tst.Error("Expected size mismatch error")
	}
}

func TestSinglePoint(tst *testing.T) {
	setLogLevel()
	g := grid.New(1, 2)
	G, H := CrankNicolson(g, g.Potential(1), 0.1)
	u, err := Build(Thomas{}, G, H)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	expected := H.Diag[0] / G.Diag[0]
	if cmplx.Abs(u.At(0, 0)-expected) > smallDiff {
		tst.Errorf("Expected: %v, got %v", expected, u.At(0, 0))
	}
	if math.Abs(cmplx.Abs(u.At(0, 0))-1) > smallDiff {
		tst.Error("1x1 propagator is not a phase:", u.At(0, 0))
	}
}

func BenchmarkThomas(b *testing.B) {
	setLogLevel()
	g := grid.New(10, 200)
	G, H := CrankNicolson(g, g.Potential(2), 0.01)
	for i := 0; i < b.N; i++ {
		Build(Thomas{}, G, H)
	}
}

func BenchmarkDense(b *testing.B) {
	setLogLevel()
	g := grid.New(10, 200)
	G, H := CrankNicolson(g, g.Potential(2), 0.01)
	for i := 0; i < b.N; i++ {
		Build(Dense{}, G, H)
	}
}
