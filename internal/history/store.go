package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/clonescan/clonescan/internal/model"
)

// Header is the fixed CSV column set. The first line of the history
// file is always this header.
var Header = []string{"timestamp", "target", "suspect_domain", "similarity", "url", "ip", "ns", "mx", "notes"}

// ErrStore wraps failures to persist an append. Losing a write silently
// is worse than failing loudly, so append surfaces this to the caller
// while prior rows remain intact on disk.
var ErrStore = errors.New("history store write failed")

// Store is the append-only finding history backed by a CSV file.
type Store struct {
	// path is the history CSV file location.
	path string

	// mu serializes the read-append-replace cycle. Concurrent scans
	// appending simultaneously must not interleave their cycles.
	mu sync.Mutex
}

// NewStore creates a Store backed by the CSV file at path.
// The file is created lazily on first append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Append persists the findings in the order given, after all previously
// appended records. An empty input is a no-op. On failure the previous
// file contents are untouched and an error wrapping ErrStore is returned.
func (s *Store) Append(findings []model.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.load()
	all := append(existing, findings...)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	// Write the full sequence to a temp file in the same directory and
	// rename it over the original so readers never observe a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(Header)
	for _, f := range all {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(encodeRecord(f))
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStore, writeErr)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

// LoadAll returns every persisted record in original append order.
// A missing or unparsable backing file yields an empty sequence, never
// an error: corrupt history is treated as no history.
func (s *Store) LoadAll() []model.Finding {
	return s.load()
}

// Clear removes all persisted records. Clearing a non-existent store is
// a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

// load reads and decodes the backing file, degrading to empty on any
// problem. Rows that fail to decode are skipped rather than aborting
// the whole load.
func (s *Store) load() []model.Finding {
	f, err := os.Open(s.path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil || len(rows) < 2 {
		return nil
	}

	// rows[0] is the header.
	findings := make([]model.Finding, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rec, ok := decodeRecord(row); ok {
			findings = append(findings, rec)
		}
	}
	return findings
}

// encodeRecord renders a finding as a CSV row. Similarity keeps three
// decimals; DNS record lists are joined with ", ".
func encodeRecord(f model.Finding) []string {
	return []string{
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
}

// decodeRecord parses a CSV row back into a finding.
func decodeRecord(row []string) (model.Finding, bool) {
	if len(row) < len(Header) {
		return model.Finding{}, false
	}

	ts, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return model.Finding{}, false
	}
	sim, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return model.Finding{}, false
	}

	return model.Finding{
		Timestamp:     ts,
		Target:        row[1],
		SuspectDomain: row[2],
		Similarity:    sim,
		URL:           row[4],
		IPAddrs:       splitList(row[5]),
		Nameservers:   splitList(row[6]),
		MailServers:   splitList(row[7]),
		Notes:         row[8],
	}, true
}

// splitList undoes the ", " join used by encodeRecord.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
