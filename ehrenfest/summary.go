package main

import (
	"bitbucket.org/Davydov/ehrenfest/fit"
	"bitbucket.org/Davydov/ehrenfest/simulation"
)

// RunSummary is storing ehrenfest run summary information.
type RunSummary struct {
	// Version stores ehrenfest version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Parameters are the run parameters.
	Parameters simulation.Parameters `json:"parameters"`
	// Solver is the propagator solver name.
	Solver string `json:"solver"`
	// Cached is true if the results were read from the database.
	Cached bool `json:"cached,omitempty"`
	// Fit is the trajectory fitted to the quantum positions.
	Fit *fit.Result `json:"fit,omitempty"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
	// Results are the recorded time series.
	Results *simulation.Results `json:"results"`
}
