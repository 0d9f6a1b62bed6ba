// Package logging is a thin leveled wrapper over the standard library
// logger: gated log.Printf calls behind a runtime-adjustable Level.
package logging

import (
	"log"
	"os"
)

// Level orders verbosity; higher is noisier.
type Level int

const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
)

var current = LevelInfo

func init() {
	if os.Getenv("LCI_SEARCH_DEBUG") != "" {
		current = LevelDebug
	}
}

// SetLevel overrides the active log level, mainly for tests.
func SetLevel(l Level) { current = l }

// Warnf logs at warn level. Per §7, single-file/single-event errors
// (IO, extractor, backend probe) are logged here and absorbed, never
// propagated.
func Warnf(format string, args ...any) {
	if current >= LevelWarn {
		log.Printf("WARN "+format, args...)
	}
}

// Infof logs at info level: match counts, elapsed time, backend
// selection.
func Infof(format string, args ...any) {
	if current >= LevelInfo {
		log.Printf("INFO "+format, args...)
	}
}

// Debugf logs at debug level, enabled via LCI_SEARCH_DEBUG.
func Debugf(format string, args ...any) {
	if current >= LevelDebug {
		log.Printf("DEBUG "+format, args...)
	}
}
