// Package log provides slog handler utilities for clonescan.
//
// Scan logging routinely carries page-derived attributes (normalized
// page text, candidate lists) that can run to megabytes. TrimHandler
// caps attribute values before they reach the underlying handler so
// that debug logging stays readable and bounded.
package log
