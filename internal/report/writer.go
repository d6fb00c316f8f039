package report

import (
	"io"

	"github.com/clonescan/clonescan/internal/model"
)

// Writer renders an ordered list of findings under a title.
//
// Design decision: Writers receive the record list rather than the
// history store or scan result so that the same implementations serve
// current scan output, history export, and comparison summaries.
type Writer interface {
	// Write outputs the findings to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(findings []model.Finding, title string) (int, error)
}

// MultiWriter writes the same findings to several Writers, for example
// the terminal and a file at once. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer fanning out to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the findings to every configured Writer.
func (m *MultiWriter) Write(findings []model.Finding, title string) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(findings, title)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
