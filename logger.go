package rawvec

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the slog.Logger a Vec reports capacity events to. Growth and
// release are logged at debug level, allocation failures at error level.
type Logger struct {
	*slog.Logger
}

// NewLogger returns a Logger writing to handler. A nil handler selects an
// info-level text handler on stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger returns a Logger emitting JSON lines on stderr at level and above.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, levelOpts(level)))
}

// NewTextLogger returns a Logger emitting logfmt-style text on stderr at level and above.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, levelOpts(level)))
}

// NewWriterLogger returns a text Logger writing to w.
func NewWriterLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, levelOpts(level)))
}

// NoopLogger returns a Logger that discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

func levelOpts(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: level}
}

// WithElemType returns a Logger that tags every record with the element type.
func (l *Logger) WithElemType(name string) *Logger {
	return &Logger{Logger: l.With("elem", name)}
}

// LogGrow records a successful capacity change (in either direction).
func (l *Logger) LogGrow(from, to, bytes int) {
	l.Debug("capacity changed", "from", from, "to", to, "bytes", bytes)
}

// LogRelease records that the backing block was returned to the allocator.
func (l *Logger) LogRelease(capacity, dropped int) {
	l.Debug("storage released", "capacity", capacity, "dropped", dropped)
}

// LogAllocFailure records a failed capacity change and how many elements
// were destroyed when the Vec collapsed.
func (l *Logger) LogAllocFailure(capacity, bytes, dropped int, err error) {
	l.Error("allocation failed",
		slog.Int("capacity", capacity),
		slog.Int("bytes", bytes),
		slog.Int("dropped", dropped),
		slog.Any("error", err),
	)
}
