// Package debug provides conditional debug logging for cb.
//
// Debug logging is enabled by setting the CB_DEBUG environment variable:
//
//	CB_DEBUG=1 cb ./docs 2>cb.log
//
// The TUI owns stdout, so messages go to stderr with timestamps. When
// disabled (default), all functions return immediately.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	// enabled is true when CB_DEBUG is set
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("CB_DEBUG") != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[CB_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output, mainly for tests.
func SetOutput(l *log.Logger) {
	logger = l
}

// Log writes a printf-style debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func load() {
//	    defer debug.LogEnterExit("load")()
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}
