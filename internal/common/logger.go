package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger configures the global logger. When logFile is non-empty,
// log records go to both stderr and the file (append mode), matching the
// scheduler-run use case where stdout is ephemeral but the log survives.
func SetupLogger(level slog.Level, format, logFile string) error {
	var w io.Writer = os.Stderr

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		// The file stays open for the life of the run.
		w = io.MultiWriter(os.Stderr, f)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}
