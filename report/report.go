// Package report writes simulation results as a table or a plot.
package report

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/Davydov/ehrenfest/simulation"
)

// WriteTable writes tab separated columns t, quantum and classical
// (and norm if recorded) with a header line.
func WriteTable(w io.Writer, res *simulation.Results) error {
	bw := bufio.NewWriter(w)
	norms := res.Norm != nil
	if norms {
		fmt.Fprintln(bw, "t\tquantum\tclassical\tnorm")
	} else {
		fmt.Fprintln(bw, "t\tquantum\tclassical")
	}
	for i := 0; i < res.Len(); i++ {
		fmt.Fprintf(bw, "%g\t%g\t%g", res.Time[i], res.Quantum[i], res.Classical[i])
		if norms {
			fmt.Fprintf(bw, "\t%g", res.Norm[i])
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// points returns series as plotter points.
func points(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// Plot saves quantum and classical positions versus time to fn. The
// image format is defined by the file extension (png, svg, pdf).
func Plot(fn string, res *simulation.Results, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t"
	p.Y.Label.Text = "x"

	err := plotutil.AddLinePoints(p,
		"quantum <x>", points(res.Time, res.Quantum),
		"classical", points(res.Time, res.Classical))
	if err != nil {
		return err
	}

	return p.Save(6*vg.Inch, 4*vg.Inch, fn)
}
