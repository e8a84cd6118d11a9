/*

Ehrenfest simulates a one-dimensional quantum wave packet falling in a
uniform field inside an infinite well with the Crank-Nicolson scheme and
compares the expectation position with the classical trajectory.

The basic usage looks like this:

	ehrenfest

, this will run the default setup (L=10, M=50, K=5, x0=8, f=2,
sigma=0.5) and print a table with time, quantum and classical
positions.

You can change the physical and numerical parameters and produce a
plot:

	ehrenfest -M 500 -K 200 --plot positions.png

To see all the options run:

	ehrenfest -h

*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/op/go-logging"
	bolt "go.etcd.io/bbolt"
	"gopkg.in/alecthomas/kingpin.v2"

	"bitbucket.org/Davydov/ehrenfest/checkpoint"
	"bitbucket.org/Davydov/ehrenfest/fit"
	"bitbucket.org/Davydov/ehrenfest/propagator"
	"bitbucket.org/Davydov/ehrenfest/report"
	"bitbucket.org/Davydov/ehrenfest/simulation"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("ehrenfest")
var formatter = logging.MustStringFormatter(`%{message}`)

// modules lists all the loggers.
var modules = []string{"ehrenfest", "simulation", "propagator", "wave", "fit", "checkpoint"}

// command-line options
var (
	// application
	app = kingpin.New("ehrenfest", "wave packet in a uniform field, quantum vs classical").Version(version)

	// physical parameters
	length = app.Flag("length", "well length L").Short('L').Default("10").Float64()
	x0     = app.Flag("x0", "initial position").Default("8").Float64()
	force  = app.Flag("force", "field strength f").Short('f').Default("2").Float64()
	sigma  = app.Flag("sigma", "initial wave packet width").Short('s').Default("0.5").Float64()

	// numerical parameters
	intervals = app.Flag("intervals", "number of spatial intervals").Short('M').Default("50").Int()
	steps     = app.Flag("steps", "number of time steps").Short('K').Default("5").Int()
	solver    = app.Flag("solver", "propagator solver "+
		"(thomas: tridiagonal sweep, "+
		"dense: dense LU solve)").Default("thomas").Enum("thomas", "dense")
	final = app.Flag("final", "also record the state after the last step").Bool()
	norms = app.Flag("norms", "record the norm at every step").Bool()
	noFit = app.Flag("nofit", "don't fit the quantum trajectory").Bool()

	// technical
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	outF     = app.Flag("out", "write results table to a file").String()
	plotF    = app.Flag("plot", "plot positions to a file (png, svg or pdf)").String()
	dbF      = app.Flag("db", "reuse and store results in a bolt database").String()
	jsonF    = app.Flag("json", "write json output to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
)

// getSolverFromString returns a propagator solver from a string.
func getSolverFromString(name string) (propagator.Solver, error) {
	switch name {
	case "thomas":
		return propagator.Thomas{}, nil
	case "dense":
		return propagator.Dense{}, nil
	}
	return nil, fmt.Errorf("Unknown solver: %s", name)
}

// simulate runs the simulation or loads its results from the database.
func simulate(p simulation.Parameters, s propagator.Solver, db *bolt.DB) (*simulation.Results, bool, error) {
	opts := simulation.Options{
		Solver:      s,
		RecordFinal: *final,
		NormDrift:   *norms,
	}
	// cached results do not know about the options
	var cache *checkpoint.ResultsIO
	if db != nil && !opts.RecordFinal && !opts.NormDrift {
		cache = checkpoint.NewResultsIO(db, s.Name())
		res, err := cache.Load(p)
		if err != nil {
			log.Warning("Error reading results from the database:", err)
		}
		if res != nil {
			return res, true, nil
		}
	}

	res, err := simulation.RunWithOptions(p, opts)
	if err != nil {
		return nil, false, err
	}

	if cache != nil {
		if err := cache.Save(p, res); err != nil {
			log.Error("Error saving results:", err)
		}
	}
	return res, false, nil
}

// run performs the computations and returns the summary. Resources
// opened by run are closed before it returns.
func run() (*RunSummary, error) {
	startTime := time.Now()
	summary := &RunSummary{}

	p := simulation.Parameters{
		L:     *length,
		M:     *intervals,
		K:     *steps,
		X0:    *x0,
		F:     *force,
		Sigma: *sigma,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	summary.Parameters = p
	log.Infof("Parameters: %s", p.Key())
	log.Infof("Final time: %v, time step: %v", p.FinalTime(), p.TimeStep())

	s, err := getSolverFromString(*solver)
	if err != nil {
		return nil, err
	}
	summary.Solver = s.Name()
	log.Infof("Using %s solver", s.Name())

	var db *bolt.DB
	if *dbF != "" {
		db, err = bolt.Open(*dbF, 0666, &bolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		defer db.Close()
	}

	res, cached, err := simulate(p, s, db)
	if err != nil {
		return nil, err
	}
	summary.Cached = cached
	summary.Results = res
	log.Noticef("Recorded %d time points", res.Len())

	var w io.Writer = os.Stdout
	if *outF != "" {
		f, err := os.Create(*outF)
		if err != nil {
			return nil, fmt.Errorf("error creating results file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := report.WriteTable(w, res); err != nil {
		log.Error("Error writing results:", err)
	}

	if *plotF != "" {
		title := fmt.Sprintf("L=%v, x0=%v, f=%v, sigma=%v", p.L, p.X0, p.F, p.Sigma)
		if err := report.Plot(*plotF, res, title); err != nil {
			log.Error("Error creating plot:", err)
		}
	}

	if !*noFit && res.Len() > 1 {
		tf, err := fit.Trajectory(res.Time, res.Quantum)
		if err != nil {
			log.Warning("Error fitting quantum trajectory:", err)
		} else {
			log.Noticef("Quantum trajectory fit: x0=%v, f=%v (classical f=%v), rms=%v", tf.X0, tf.F, p.F, tf.RMS)
			summary.Fit = tf
		}
	}

	deltaT := time.Since(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return summary, nil
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// os.Exit skips deferred calls, so it is deferred first
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	simulation.Setup()

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Critical("Error creating log file:", err)
			exitCode = 1
			return
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Critical(err)
		exitCode = 1
		return
	}
	for _, module := range modules {
		logging.SetLevel(level, module)
	}

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Critical(err)
			exitCode = 1
			return
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	summary, err := run()
	if err != nil {
		log.Critical(err)
		exitCode = 1
		return
	}
	summary.Version = version
	summary.CommandLine = os.Args

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
