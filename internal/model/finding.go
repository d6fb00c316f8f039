package model

import "time"

// DefaultNotes is the annotation attached to findings produced by the
// text-ratio similarity check.
const DefaultNotes = "HTML-similar (simple text ratio)"

// Finding records a candidate domain whose fetched page met or exceeded
// the similarity threshold against the canonical page.
//
// A Finding is immutable once created: the scan orchestrator owns it for
// the duration of one scan, and the history store takes ownership on
// append. No other component mutates persisted findings.
type Finding struct {
	// Timestamp is the evaluation time in seconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`

	// Target is the normalized domain being protected.
	Target string `json:"target"`

	// SuspectDomain is the lookalike domain that matched.
	SuspectDomain string `json:"suspect_domain"`

	// Similarity is the normalized text similarity ratio in [0, 1].
	Similarity float64 `json:"similarity"`

	// URL is the candidate URL that was actually fetched.
	URL string `json:"url"`

	// IPAddrs, Nameservers, and MailServers carry DNS metadata from the
	// registration oracle. Empty for locally generated candidates.
	IPAddrs     []string `json:"ip,omitempty"`
	Nameservers []string `json:"ns,omitempty"`
	MailServers []string `json:"mx,omitempty"`

	// Notes is a free-form annotation describing how the match was made.
	Notes string `json:"notes"`
}

// NewFinding creates a Finding for a matched candidate, timestamped at
// evaluation time. DNS metadata is carried through from the candidate.
func NewFinding(target string, c Candidate, similarity float64, url string) Finding {
	return Finding{
		Timestamp:     time.Now().Unix(),
		Target:        target,
		SuspectDomain: c.Domain,
		Similarity:    similarity,
		URL:           url,
		IPAddrs:       c.DNSA,
		Nameservers:   c.DNSNS,
		MailServers:   c.DNSMX,
		Notes:         DefaultNotes,
	}
}

// When returns the finding's timestamp as a time.Time.
func (f Finding) When() time.Time {
	return time.Unix(f.Timestamp, 0)
}
