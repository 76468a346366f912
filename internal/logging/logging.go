// Package logging hands out scoped, leveled loggers that write to stderr.
//
// Stdout is reserved for the MCP protocol, so nothing in this repository logs
// there. Loggers are usually created as package-level variables before the
// configuration is read; SetLevel adjusts every logger created so far as well
// as the ones created afterwards.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pion/logging"
)

var (
	mu      sync.Mutex
	level   = logging.LogLevelInfo
	output  io.Writer = os.Stderr
	loggers []*logging.DefaultLeveledLogger
)

// NewLogger returns a logger for the given scope, e.g. "grayscale/httpapi".
func NewLogger(scope string) logging.LeveledLogger {
	mu.Lock()
	defer mu.Unlock()

	l := logging.NewDefaultLeveledLoggerForScope(scope, level, output)
	loggers = append(loggers, l)
	return l
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() logging.LeveledLogger {
	return logging.NewDefaultLeveledLoggerForScope("discard", logging.LogLevelDisabled, io.Discard)
}

// SetLevel changes the level of all loggers handed out by NewLogger.
func SetLevel(lvl logging.LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	level = lvl
	for _, l := range loggers {
		l.SetLevel(lvl)
	}
}

// ParseLevel maps a level name to a pion log level. Matching is case-insensitive.
func ParseLevel(s string) (logging.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled", "off", "none":
		return logging.LogLevelDisabled, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "", "info":
		return logging.LogLevelInfo, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	default:
		return logging.LogLevelDisabled, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is the leveled logger interface used throughout the repository.
type Logger = logging.LeveledLogger
