package report

import (
	"encoding/json"
	"io"

	"github.com/clonescan/clonescan/internal/model"
)

// JSONWriter outputs findings as a JSON document for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonReport is the document shape emitted by Write.
type jsonReport struct {
	Title    string          `json:"title"`
	Count    int             `json:"count"`
	Findings []model.Finding `json:"findings"`
}

// Write outputs the findings wrapped with the title and count.
func (w *JSONWriter) Write(findings []model.Finding, title string) (int, error) {
	doc := jsonReport{
		Title:    title,
		Count:    len(findings),
		Findings: findings,
	}
	if doc.Findings == nil {
		doc.Findings = []model.Finding{}
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')

	return w.output.Write(data)
}
