package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/clonescan/clonescan/internal/model"
)

// SimpleWriter outputs findings as a human-readable aligned text table.
// This is the default terminal format.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the title followed by one line per finding.
func (w *SimpleWriter) Write(findings []model.Finding, title string) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	if len(findings) == 0 {
		sb.WriteString("No suspicious lookalike domains on record.\n")
		return w.output.Write([]byte(sb.String()))
	}

	fmt.Fprintf(&sb, "  %-20s  %-24s  %-28s  %-10s  %s\n",
		"When", "Target", "Suspect", "Similarity", "URL")
	fmt.Fprintf(&sb, "  %s\n", strings.Repeat("-", 100))

	for _, f := range findings {
		fmt.Fprintf(&sb, "  %-20s  %-24s  %-28s  %-10.3f  %s\n",
			f.When().UTC().Format(time.DateTime),
			f.Target,
			f.SuspectDomain,
			f.Similarity,
			f.URL,
		)
		if len(f.IPAddrs) > 0 || len(f.Nameservers) > 0 || len(f.MailServers) > 0 {
			fmt.Fprintf(&sb, "  %-20s  ip: %s  ns: %s  mx: %s\n", "",
				strings.Join(f.IPAddrs, ", "),
				strings.Join(f.Nameservers, ", "),
				strings.Join(f.MailServers, ", "),
			)
		}
	}
	fmt.Fprintf(&sb, "\n%d finding(s).\n", len(findings))

	return w.output.Write([]byte(sb.String()))
}
