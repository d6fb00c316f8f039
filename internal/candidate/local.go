package candidate

import (
	"context"

	"github.com/clonescan/clonescan/internal/model"
)

// Permutation vocabularies for local candidate generation. These are
// fixed: the generator is deterministic so that repeated scans of the
// same target evaluate the same candidate set.
var (
	// prefixVocab is prepended to the domain name, with and without a hyphen.
	prefixVocab = []string{"login", "secure", "my", "account", "verify", "support", "mail", "online", "portal", "update"}

	// suffixVocab is appended to the domain name, with and without a hyphen.
	suffixVocab = []string{"login", "secure", "online", "support", "app", "portal", "site", "web"}

	// subdomainVocab is prepended as a subdomain label.
	subdomainVocab = []string{"login", "secure", "account", "mail", "www"}

	// altSuffixes replace the original top-level suffix.
	altSuffixes = []string{".com", ".net", ".org", ".co", ".info", ".biz", ".online", ".site", ".top", ".xyz"}
)

// LocalSource generates candidates by rule-based permutation of the
// target. It performs no registration check, so many candidates will not
// resolve; the fetch stage silently skips those.
type LocalSource struct {
	// cap bounds the number of candidates returned per target.
	cap int
}

// NewLocalSource creates a LocalSource that returns at most cap
// candidates per target. A non-positive cap yields no candidates.
func NewLocalSource(cap int) *LocalSource {
	return &LocalSource{cap: cap}
}

// Name returns the strategy name.
func (s *LocalSource) Name() string {
	return "local"
}

// Generate produces the permutation set for the target. Candidates are
// deduplicated in first-generated order and truncated to the cap. The
// target itself is never included. An empty target name produces no
// candidates. Generate never fails; the error return satisfies Source.
func (s *LocalSource) Generate(_ context.Context, target model.Domain) ([]model.Candidate, error) {
	if target.IsEmpty() || s.cap <= 0 {
		return nil, nil
	}

	name := target.Name
	suffix := target.Suffix
	if suffix == "" {
		// Bare single-label input: assume the most common suffix.
		suffix = ".com"
	}
	self := name + suffix

	seen := make(map[string]struct{})
	candidates := make([]model.Candidate, 0, s.cap)
	add := func(domain string) {
		if len(candidates) >= s.cap || domain == self {
			return
		}
		if _, ok := seen[domain]; ok {
			return
		}
		seen[domain] = struct{}{}
		candidates = append(candidates, model.Candidate{Domain: domain})
	}

	// Rule 1: prefix vocabulary, hyphenated and fused.
	for _, p := range prefixVocab {
		add(p + "-" + name + suffix)
		add(p + name + suffix)
	}

	// Rule 2: suffix vocabulary, hyphenated and fused.
	for _, v := range suffixVocab {
		add(name + "-" + v + suffix)
		add(name + v + suffix)
	}

	// Rule 3: subdomain labels.
	for _, sub := range subdomainVocab {
		add(sub + "." + name + suffix)
	}

	// Rule 4: alternate top-level suffixes, skipping the original.
	for _, alt := range altSuffixes {
		if alt == suffix {
			continue
		}
		add(name + alt)
	}

	// Rule 5: obvious login/secure compounds.
	add(name + "-login" + ".com")
	add(name + "-secure" + ".com")
	add("secure-" + name + ".net")
	add("login-" + name + ".com")

	return candidates, nil
}
