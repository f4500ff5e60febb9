// Package blog provides structured logging for bbuzz-go. It wraps Go's
// log/slog with the context a fuzzing run actually carries: which
// component logged the line (payload, mutate, transmit, rawsocket,
// analyze), which run a transmission belongs to, and the running
// candidate index/byte length a send or assembly event reports.
package blog

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bbuzz-go's run context.
type Logger struct {
	inner *slog.Logger
}

// defaultLogger is the process-wide logger Default returns.
var defaultLogger *Logger

func init() {
	defaultLogger = New(slog.LevelInfo)
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level slog.Level) *Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{inner: slog.New(h)}
}

// NewWithHandler creates a Logger backed by the supplied slog.Handler. This
// is useful for testing or for writing to a custom destination.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Component returns a child logger tagged with the subsystem name that
// owns it: payload, mutate, transmit, rawsocket, or analyze.
func (l *Logger) Component(name string) *Logger {
	return &Logger{inner: l.inner.With("component", name)}
}

// Run returns a child logger tagged with a transmission run's correlation
// ID. Every log line transmit.Driver.Fuzz emits for one run carries this,
// so the lines for one fuzz run can be grepped out of a shared log stream.
func (l *Logger) Run(runID string) *Logger {
	return &Logger{inner: l.inner.With("run_id", runID)}
}

// With returns a child logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.inner.Info(msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.inner.Warn(msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// Candidate logs msg at LevelDebug with the candidate's running index and
// assembled byte length baked in as structured fields -- the shape every
// per-candidate send (transmit) or assembly (mutate) line needs, so call
// sites don't each have to spell out the same two key names by hand.
func (l *Logger) Candidate(msg string, index int, byteLen int, args ...any) {
	fields := make([]any, 0, len(args)+4)
	fields = append(fields, "candidate_index", index, "candidate_bytes", byteLen)
	fields = append(fields, args...)
	l.inner.Debug(msg, fields...)
}
