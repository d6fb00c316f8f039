package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/clonescan/clonescan/internal/model"
)

// MarkdownWriter outputs findings as a titled Markdown document with a
// findings table. This is the shareable document format; CSV remains
// the machine-readable one.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the title, a summary line, and the findings table.
func (w *MarkdownWriter) Write(findings []model.Finding, title string) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(title)
	md.PlainText("")

	if len(findings) == 0 {
		md.PlainText("No suspicious lookalike domains on record.")
		return len(md.String()), md.Build()
	}

	md.PlainTextf("%d suspicious lookalike domain(s).", len(findings))
	md.PlainText("")

	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{
			f.When().UTC().Format(time.DateTime),
			f.Target,
			"`" + f.SuspectDomain + "`",
			strconv.FormatFloat(f.Similarity, 'f', 3, 64),
			f.URL,
			strings.Join(f.IPAddrs, ", "),
			strings.Join(f.Nameservers, ", "),
			strings.Join(f.MailServers, ", "),
			f.Notes,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"When", "Target", "Suspect", "Similarity", "URL", "IP", "NS", "MX", "Notes"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
