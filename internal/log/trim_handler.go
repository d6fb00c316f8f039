package log

import (
	"context"
	"log/slog"
)

// DefaultMaxValueLen is the attribute value length cap applied when no
// explicit limit is configured.
const DefaultMaxValueLen = 256

// ellipsis marks a truncated attribute value.
const ellipsis = "…"

// TrimHandler wraps an slog.Handler and truncates oversized string
// attribute values before delegating.
//
// Design decision: A handler wrapper rather than call-site truncation
// because it composes with any underlying handler (text, JSON) and
// callers never have to remember to trim page text before logging it.
type TrimHandler struct {
	// handler receives the trimmed records.
	handler slog.Handler

	// maxLen is the value length cap in bytes.
	maxLen int
}

// TrimOption configures a TrimHandler.
type TrimOption func(*TrimHandler)

// WithMaxValueLen overrides the attribute value length cap.
func WithMaxValueLen(n int) TrimOption {
	return func(h *TrimHandler) {
		if n > 0 {
			h.maxLen = n
		}
	}
}

// NewTrimHandler creates a TrimHandler wrapping the given handler.
// A nil handler falls back to slog.Default().Handler().
func NewTrimHandler(handler slog.Handler, opts ...TrimOption) *TrimHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &TrimHandler{
		handler: handler,
		maxLen:  DefaultMaxValueLen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled delegates to the underlying handler.
func (h *TrimHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle trims string attributes in the record and delegates.
func (h *TrimHandler) Handle(ctx context.Context, record slog.Record) error {
	trimmed := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		trimmed.AddAttrs(h.trimAttr(attr))
		return true
	})
	return h.handler.Handle(ctx, trimmed)
}

// WithAttrs returns a TrimHandler whose underlying handler carries the
// trimmed attributes.
func (h *TrimHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		out[i] = h.trimAttr(attr)
	}
	return &TrimHandler{handler: h.handler.WithAttrs(out), maxLen: h.maxLen}
}

// WithGroup returns a TrimHandler for the named group.
func (h *TrimHandler) WithGroup(name string) slog.Handler {
	return &TrimHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// trimAttr caps string values, recursing into groups.
func (h *TrimHandler) trimAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		s := attr.Value.String()
		if len(s) > h.maxLen {
			attr.Value = slog.StringValue(s[:h.maxLen] + ellipsis)
		}
	case slog.KindGroup:
		group := attr.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, g := range group {
			out[i] = h.trimAttr(g)
		}
		attr.Value = slog.GroupValue(out...)
	default:
		// Non-string scalars are already bounded.
	}
	return attr
}
