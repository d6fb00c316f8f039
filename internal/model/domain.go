package model

import "strings"

// Domain is a normalized domain name split into its name and top-level
// suffix. For "www.example.com" the Name is "www.example" and the Suffix
// is ".com". The suffix always includes the leading dot.
type Domain struct {
	// Name is everything before the last dot, lowercased.
	Name string

	// Suffix is the top-level suffix including the leading dot.
	// Empty when the input had fewer than two dot-separated labels.
	Suffix string
}

// Normalize parses a raw domain or URL string into a Domain.
// It strips an optional scheme and path, lowercases the host, and splits
// on the last dot. Malformed input degrades to best-effort splitting;
// Normalize never fails.
//
// Design decision: We return a zero-value Domain for empty input rather
// than an error because callers treat an empty name as "nothing to scan"
// and the CLI validates targets before any scan begins.
func Normalize(raw string) Domain {
	s := strings.ToLower(strings.TrimSpace(raw))

	// Strip scheme if present (https://example.com/path -> example.com/path).
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+len("://"):]
	}

	// Strip path, query, and fragment.
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}

	// Strip userinfo and port.
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[:i]
	}

	s = strings.Trim(s, ".")
	if s == "" {
		return Domain{}
	}

	// Split on the last dot: "login.bank.com" -> ("login.bank", ".com").
	if i := strings.LastIndex(s, "."); i >= 0 {
		return Domain{Name: s[:i], Suffix: s[i:]}
	}
	return Domain{Name: s}
}

// String returns the full domain ("name" + "suffix").
func (d Domain) String() string {
	return d.Name + d.Suffix
}

// IsEmpty reports whether the domain has no name component.
func (d Domain) IsEmpty() bool {
	return d.Name == ""
}
