// Package logger is the process-wide diagnostic log of labelkit.
//
// Output is silent until SetVerbose(true), which the --verbose flag sets.
// The package-level helpers take printf-style arguments; adapters that
// want key/value pairs ask for a named hclog.Logger via Component.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

const rootName = "labelkit"

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	root              = newRoot(os.Stderr, false)
)

func newRoot(w io.Writer, v bool) hclog.Logger {
	level := hclog.Off
	if v {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        rootName,
		Level:       level,
		Output:      w,
		DisableTime: true,
		Color:       hclog.ColorOff,
	})
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	root = newRoot(output, v)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	root = newRoot(w, verbose)
}

// Component returns a logger named after a subsystem, e.g. "rest".
// It is bound to the output and level in effect when it is called.
func Component(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(name)
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		root.Debug(fmt.Sprintf(format, args...))
	}
}

// Info logs a formatted message at info level.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		root.Info(fmt.Sprintf(format, args...))
	}
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		root.Warn(fmt.Sprintf(format, args...))
	}
}

// Section prints a section header.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
