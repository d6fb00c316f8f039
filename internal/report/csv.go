package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/clonescan/clonescan/internal/model"
)

// csvHeader is the canonical tabular column set shared with the history
// file.
var csvHeader = []string{"timestamp", "target", "suspect_domain", "similarity", "url", "ip", "ns", "mx", "notes"}

// CSVWriter outputs findings in CSV format with the canonical column
// set. The title is not representable in CSV and is ignored.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the header line followed by one row per finding.
func (w *CSVWriter) Write(findings []model.Finding, _ string) (int, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, f := range findings {
		row := []string{
			strconv.FormatInt(f.Timestamp, 10),
			f.Target,
			f.SuspectDomain,
			strconv.FormatFloat(f.Similarity, 'f', 3, 64),
			f.URL,
			strings.Join(f.IPAddrs, ", "),
			strings.Join(f.Nameservers, ", "),
			strings.Join(f.MailServers, ", "),
			f.Notes,
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write([]byte(sb.String()))
}
