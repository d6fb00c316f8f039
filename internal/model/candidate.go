package model

// Candidate is a lookalike domain derived from a scan target, either
// generated locally or confirmed as registered by the external oracle.
//
// DNS metadata is populated only by the oracle strategy; the local
// permutation strategy leaves the slices nil.
type Candidate struct {
	// Domain is the full candidate domain name (e.g. "secure-bank.com").
	// It is never equal to the target it was derived from.
	Domain string `json:"domain"`

	// DNSA holds the candidate's A records as reported by the oracle.
	DNSA []string `json:"dns_a,omitempty"`

	// DNSNS holds the candidate's NS records as reported by the oracle.
	DNSNS []string `json:"dns_ns,omitempty"`

	// DNSMX holds the candidate's MX records as reported by the oracle.
	DNSMX []string `json:"dns_mx,omitempty"`
}
