// Package logging provides the logger used by all mapbench packages.
//
// Packages obtain a named logger via logger.GetLogger(name) from
// github.com/lni/dragonboat/v4/logger. InitLoggers replaces the logger factory
// with the mapbench format and sets the level for every known package.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

// Names of the loggers used in this module
const (
	Merge    = "merge"
	OMap     = "omap"
	Strategy = "strategy"
	Cmd      = "cmd"
)

// --------------------------------------------------------------------------
// Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// levelLabels are the fixed width labels written in front of every line.
// CRITICAL is only used by Panicf.
var levelLabels = map[logger.LogLevel]string{
	logger.DEBUG:    "DEBUG",
	logger.INFO:     "INFO",
	logger.WARNING:  "WARN",
	logger.ERROR:    "ERROR",
	logger.CRITICAL: "PANIC",
}

// mapbenchLogger writes "LEVEL | name | message" lines for one package
type mapbenchLogger struct {
	name  string
	level logger.LogLevel
	out   *log.Logger
}

func newLogger(name string, w io.Writer, flags int) *mapbenchLogger {
	return &mapbenchLogger{name: name, level: logger.INFO, out: log.New(w, "", flags)}
}

func (l *mapbenchLogger) SetLevel(level logger.LogLevel) { l.level = level }

func (l *mapbenchLogger) Debugf(format string, args ...interface{}) {
	l.logf(logger.DEBUG, format, args)
}

func (l *mapbenchLogger) Infof(format string, args ...interface{}) {
	l.logf(logger.INFO, format, args)
}

func (l *mapbenchLogger) Warningf(format string, args ...interface{}) {
	l.logf(logger.WARNING, format, args)
}

func (l *mapbenchLogger) Errorf(format string, args ...interface{}) {
	l.logf(logger.ERROR, format, args)
}

// Panicf is written regardless of the level
func (l *mapbenchLogger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.write(logger.CRITICAL, msg)
	panic(msg)
}

// logf drops messages that are more verbose than the configured level
func (l *mapbenchLogger) logf(level logger.LogLevel, format string, args []interface{}) {
	if level > l.level {
		return
	}
	l.write(level, fmt.Sprintf(format, args...))
}

func (l *mapbenchLogger) write(level logger.LogLevel, msg string) {
	l.out.Printf("%-5s | %-10s | %s", levelLabels[level], l.name, msg)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger implements the logger.Factory interface.
// Logs go to stderr, stdout is reserved for command output.
func CreateLogger(pkgName string) logger.ILogger {
	return newLogger(pkgName, os.Stderr, log.Ldate|log.Ltime)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

var factoryOnce sync.Once

// InitLoggers installs the custom logger factory and sets the level of all mapbench loggers
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	// the factory can only be installed once per process
	factoryOnce.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	for _, name := range []string{Merge, OMap, Strategy, Cmd} {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
