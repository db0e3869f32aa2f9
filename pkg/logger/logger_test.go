package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelInfo)

	l.Debug("hidden")
	l.Info("checked file", "path", "001_init.sql")
	l.Warn("unknown rule", "name", "typo")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "checked file")
	assert.Contains(t, out, "path=001_init.sql")
	assert.Contains(t, out, "unknown rule")
	// bytes.Buffer is not a terminal, so no escape sequences are written.
	assert.NotContains(t, out, "\033[")
}

func TestErrorAttr(t *testing.T) {
	attr := Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "boom", attr.Value.Any().(error).Error())

	var buf bytes.Buffer
	NewWithWriter(&buf, slog.LevelDebug).Error("read failed", "path", "001.sql", Error(errors.New("boom")))
	assert.Contains(t, buf.String(), "error=boom")
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	l := Setup(slog.LevelWarn)
	assert.Same(t, l, slog.Default())
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelWarn))
}
