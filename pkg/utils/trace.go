package utils

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Environment variable naming an extra file the trace log is copied to
const TraceFileEnvVar = "AS7_TRACE"

// Builds the logger used for internal tracing. With debug disabled the
// logger discards everything. With debug enabled records go to stderr, and
// additionally to the file named by AS7_TRACE when the variable is set.
func NewTraceLogger(debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}

	if path := os.Getenv(TraceFileEnvVar); path != "" {
		if f, err := os.Create(path); err == nil {
			handlers = append(handlers, slog.NewTextHandler(f, opts))
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}

	return slog.New(slogmulti.Fanout(handlers...))
}
