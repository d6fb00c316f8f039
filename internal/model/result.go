package model

import "time"

// ScanResult holds the outcome of scanning a single target domain.
//
// Findings are ordered by candidate-generation order regardless of the
// order in which concurrent fetches complete.
type ScanResult struct {
	// Target is the normalized target domain that was scanned.
	Target string `json:"target"`

	// CanonicalURL is the URL that served the canonical page, empty when
	// the canonical page could not be fetched over HTTPS or HTTP.
	CanonicalURL string `json:"canonical_url,omitempty"`

	// CanonicalTitle is the canonical page's title, for reporting.
	CanonicalTitle string `json:"canonical_title,omitempty"`

	// Candidates is the number of candidate domains evaluated.
	Candidates int `json:"candidates"`

	// Fetched is the number of candidates whose page was obtained.
	Fetched int `json:"fetched"`

	// Skipped is the number of candidates with no fetchable page.
	Skipped int `json:"skipped"`

	// Findings are the candidates at or above the similarity threshold,
	// in candidate-generation order.
	Findings []Finding `json:"findings"`

	// DateScanned is when the scan started.
	DateScanned time.Time `json:"date_scanned"`

	// Elapsed is the total scan duration.
	Elapsed time.Duration `json:"elapsed"`

	// ErrorMessage describes a scan-level problem (e.g. unreachable
	// canonical page). Candidate-level failures are never recorded here.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewScanResult creates an empty ScanResult for the given target.
func NewScanResult(target string) *ScanResult {
	return &ScanResult{
		Target:      target,
		Findings:    []Finding{},
		DateScanned: time.Now(),
	}
}

// HasFindings reports whether the scan produced at least one finding.
func (r *ScanResult) HasFindings() bool {
	return len(r.Findings) > 0
}
