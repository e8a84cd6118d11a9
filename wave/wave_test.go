package wave

import (
	"errors"
	"math"
	"testing"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/ehrenfest/grid"
)

const smallDiff = 1e-9

// setLogLevel sets the default log-level to WARNING.
func setLogLevel() {
	logging.SetLevel(logging.WARNING, "wave")
}

func TestNormalization(tst *testing.T) {
	setLogLevel()
	for _, c := range []struct {
		l         float64
		m         int
		x0, sigma float64
	}{
		{10, 50, 8, 0.5},
		{10, 500, 5, 1},
		{1, 7, 0.9, 0.3},
		{3, 2, 1, 10},
	} {
		g := grid.New(c.l, c.m)
		psi := Gaussian(g, c.x0, c.sigma)
		if psi[0] != 0 || psi[c.m] != 0 {
			tst.Error("Boundary amplitudes are not zero before normalization")
		}
		if err := Normalize(psi, g.Dx); err != nil {
			tst.Fatal("Error:", err)
		}
		if psi[0] != 0 || psi[c.m] != 0 {
			tst.Error("Boundary amplitudes are not zero after normalization")
		}
		if n := Norm(psi, g.Dx); math.Abs(n-1) > smallDiff {
			tst.Errorf("Incorrect norm for %+v. Expected: 1, got %v", c, n)
		}
	}
}

func TestGaussianIsReal(tst *testing.T) {
	g := grid.New(10, 50)
	for j, v := range Gaussian(g, 8, 0.5) {
		if imag(v) != 0 || real(v) < 0 {
			tst.Fatalf("Amplitude at %d is not real non-negative: %v", j, v)
		}
	}
}

func TestGaussianAmplitude(tst *testing.T) {
	peak := GaussianAmplitude(2, 2, 0.5)
	expected := 1 / (math.Pow(math.Pi, 0.25) * math.Sqrt(0.5))
	if math.Abs(peak-expected) > smallDiff {
		tst.Errorf("Expected: %v, got %v", expected, peak)
	}
	if GaussianAmplitude(2.5, 2, 0.5) != GaussianAmplitude(1.5, 2, 0.5) {
		tst.Error("Gaussian is not symmetric")
	}
}

func TestPrepare(tst *testing.T) {
	setLogLevel()
	g := grid.New(10, 50)
	s, err := Prepare(g, 8, 0.5)
	if err != nil {
		tst.Fatal("Error:", err)
	}
	if len(s) != g.N {
		tst.Fatal("Wrong interior state length:", len(s))
	}
	if n := s.Norm(g); math.Abs(n-1) > smallDiff {
		tst.Error("Interior state is not normalized:", n)
	}
	if x := s.Expectation(g); math.Abs(x-8) > 1e-3 {
		tst.Error("Packet is not centered at x0:", x)
	}
}

func TestInterior(tst *testing.T) {
	psi := []complex128{0, 1, 2i, 0}
	s := Interior(psi)
	if len(s) != 2 || s[0] != 1 || s[1] != 2i {
		tst.Error("Wrong interior:", s)
	}
	s[0] = 5
	if psi[1] != 1 {
		tst.Error("Interior shares memory with the full state")
	}
}

func TestZeroNorm(tst *testing.T) {
	psi := make([]complex128, 5)
	if err := Normalize(psi, 0.1); !errors.Is(err, ErrZeroNorm) {
		tst.Error("Expected zero norm error, got", err)
	}
}

func TestExpectation(tst *testing.T) {
	g := grid.New(4, 4)
	// all probability at x=2
	s := State{0, complex(0, 1), 0}
	if x := s.Expectation(g); x != 2 {
		tst.Error("Expected: 2, got", x)
	}
}
