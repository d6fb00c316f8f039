// Package report serializes finding lists into output formats.
//
// The core scanner only supplies ordered record lists and a title;
// writers render them as plain text tables, CSV, JSON, or Markdown
// documents. No writer ever mutates the records it receives.
package report
