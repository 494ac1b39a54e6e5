package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger returns the logger shared by every component of a run. Warnings
// and errors are always shown; --verbose adds debug records.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "extcheck",
		Level:  level,
	})
}
