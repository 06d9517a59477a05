package acure

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler drops every record. Enabled reports false so the frame
// loop never builds attributes nobody reads.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var discardLogger = slog.New(discardHandler{})

// current is shared by the command buffer, the registry and every backend.
// Backends log from their own goroutines, so it is swapped atomically.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(discardLogger)
}

// SetLogger routes the diagnostics of acure and of every backend package
// to l. Nothing is logged until SetLogger is called; nil silences it again.
// It may be called while frames are being drawn.
//
// What is logged, by level:
//   - [slog.LevelDebug]: each frame written (backend, command count, align
//     and layout modes), surface resizes, backends skipped by auto
//     selection, pipeline setup
//   - [slog.LevelInfo]: surfaces created and displays opened
//   - [slog.LevelWarn]: Begin or End refused by a surface, runes the font
//     cannot draw, colors the X server cannot allocate, dropped textures
//
// Records from a surface carry a "backend" attribute with its Name.
//
// Example:
//
//	acure.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	current.Store(l)
}

// Logger returns the logger set with SetLogger. Backend packages log
// through it.
func Logger() *slog.Logger {
	return current.Load()
}

// surfaceLogger tags records about s with its backend name.
func surfaceLogger(s Surface) *slog.Logger {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelError) {
		return l
	}
	return l.With("backend", surfaceName(s))
}
