package cotask

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// LogifaceLogger adapts a github.com/joeycumines/logiface Logger[E] into
// this package's Logger interface, so an embedder can route scheduler
// diagnostics through any logiface-backed sink — stumpy, zerolog, slog, or
// logrus, all present elsewhere in this module's wider dependency family.
// Of those backends this package imports only stumpy, for NewStumpyLogger;
// zerolog, slog, and logrus are not imported here. Grounded
// on the way eventloop's own test suite bridges logiface.Logger[*testEvent]
// into its hand-rolled Logger interface (coverage_extra_test.go,
// coverage_phase2_test.go); this package wires the same bridge into
// production code via WithLogger instead of leaving it test-only.
type LogifaceLogger[E logiface.Event] struct {
	L *logiface.Logger[E]
}

// NewLogifaceLogger wraps an existing *logiface.Logger[E].
func NewLogifaceLogger[E logiface.Event](l *logiface.Logger[E]) LogifaceLogger[E] {
	return LogifaceLogger[E]{L: l}
}

// NewStumpyLogger builds a ready-to-use Logger backed by stumpy, logiface's
// own reference JSON logger implementation, writing newline-delimited JSON
// to w. This is the concrete default an embedder reaches for via WithLogger
// without needing to pull in logiface's factory API directly.
func NewStumpyLogger(w io.Writer, level LogLevel) Logger {
	l := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(toLogifaceLevel(level)),
	)
	return NewLogifaceLogger[*stumpy.Event](l)
}

func toLogifaceLevel(level LogLevel) logiface.Level {
	switch level {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

func (l LogifaceLogger[E]) IsEnabled(level LogLevel) bool {
	return l.L != nil && toLogifaceLevel(level) <= l.L.Level()
}

func (l LogifaceLogger[E]) Log(entry LogEntry) {
	if l.L == nil {
		return
	}
	b := l.L.Build(toLogifaceLevel(entry.Level))
	if b == nil {
		return
	}
	if entry.TaskID != 0 {
		b = b.Field("task_id", entry.TaskID)
	}
	if entry.SignalID != 0 {
		b = b.Field("signal_id", entry.SignalID)
	}
	if entry.Err != nil {
		b = b.Err(entry.Err)
	}
	for k, v := range entry.Fields {
		b = b.Field(k, v)
	}
	b.Log(entry.Message)
}
