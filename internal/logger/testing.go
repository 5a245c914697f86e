// Package logger provides test helpers for structured logging.
package logger

import (
	"log/slog"
	"os"
)

// NewTestLogger creates a logger for tests. It stays at WARN so passing runs
// print nothing; set TUNETRACE_TEST_LOG to a level name (for example "debug")
// to see what a failing test was doing.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn
	if env := os.Getenv("TUNETRACE_TEST_LOG"); env != "" {
		level = ParseLevel(env)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
