package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// newCapturedLogger returns a logger writing through a TrimHandler into
// the buffer.
func newCapturedLogger(buf *bytes.Buffer, opts ...TrimOption) *slog.Logger {
	inner := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewTrimHandler(inner, opts...))
}

// TestTrimHandler tests attribute value trimming.
func TestTrimHandler(t *testing.T) {
	t.Parallel()

	t.Run("long string values are truncated", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newCapturedLogger(&buf, WithMaxValueLen(10))

		logger.Info("page fetched", "text", strings.Repeat("a", 100))

		out := buf.String()
		if strings.Contains(out, strings.Repeat("a", 11)) {
			t.Errorf("value not truncated: %q", out)
		}
		if !strings.Contains(out, ellipsis) {
			t.Errorf("expected ellipsis marker: %q", out)
		}
	})

	t.Run("short values pass through unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newCapturedLogger(&buf, WithMaxValueLen(64))

		logger.Info("scan", "target", "example.com")
		if !strings.Contains(buf.String(), "example.com") {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("non-string attributes are untouched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newCapturedLogger(&buf, WithMaxValueLen(2))

		logger.Info("scored", "similarity", 0.913, "candidates", 42)
		out := buf.String()
		if !strings.Contains(out, "0.913") || !strings.Contains(out, "42") {
			t.Errorf("got %q", out)
		}
	})

	t.Run("WithAttrs trims bound attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		handler := NewTrimHandler(inner, WithMaxValueLen(5)).WithAttrs([]slog.Attr{
			slog.String("body", "0123456789"),
		})

		logger := slog.New(handler)
		logger.Info("bound")
		if strings.Contains(buf.String(), "0123456789") {
			t.Errorf("bound attribute not trimmed: %q", buf.String())
		}
	})

	t.Run("nil inner handler falls back to default", func(t *testing.T) {
		t.Parallel()

		h := NewTrimHandler(nil)
		if h == nil || h.handler == nil {
			t.Fatal("expected a usable handler")
		}
		_ = h.Enabled(context.Background(), slog.LevelError)
	})
}
