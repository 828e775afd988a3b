package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Components derive their own
// scope with logger.With("component", ...).
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
