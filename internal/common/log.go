// Package common holds small shared infrastructure: the logging facade used
// across the engine and the scheduler.
package common

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	debugOn    bool
)

// Logger returns a singleton slog logger configured via the CALIPR_LOG
// environment variable (debug|info|warn|error, default info). Output goes to
// stderr so it never mixes with CSV written to stdout.
func Logger() *slog.Logger {
	loggerOnce.Do(initLogger)
	return logger
}

// Debug reports whether debug-level logging is enabled. The per-line trace in
// the survey loop checks this before formatting, the loop is too hot to build
// attrs that a disabled handler would discard.
func Debug() bool {
	loggerOnce.Do(initLogger)
	return debugOn
}

func initLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("CALIPR_LOG")) {
	case "debug":
		level = slog.LevelDebug
		debugOn = true
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
}
