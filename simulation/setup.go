package simulation

import (
	"os"
	"runtime/debug"
	"sync"

	"github.com/op/go-logging"
)

var setupOnce sync.Once

// Setup installs crash diagnostics (full goroutine traceback) and a
// default stderr logging backend. It should be called once by the
// host before Run; subsequent calls do nothing. A host configuring
// its own logging backend should do it after Setup.
func Setup() {
	setupOnce.Do(func() {
		debug.SetTraceback("all")
		backend := logging.NewLogBackend(os.Stderr, "", 0)
		formatter := logging.MustStringFormatter(`%{module}: %{message}`)
		logging.SetBackend(logging.NewBackendFormatter(backend, formatter))
		log.Debug("Diagnostics installed")
	})
}
