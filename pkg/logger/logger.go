// Package logger configures the slog logger used by the linter.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// NewWithLevel creates a logger writing to stderr at the given level.
func NewWithLevel(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w. Output is colored only when w
// is a terminal.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}))
}

// Setup creates a logger with the given level and installs it as the slog default.
func Setup(level slog.Level) *slog.Logger {
	l := NewWithLevel(level)
	slog.SetDefault(l)
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Error creates a structured error field
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
