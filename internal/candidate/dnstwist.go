package candidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/clonescan/clonescan/internal/model"
)

// DefaultDNSTwistBinary is the dnstwist executable name resolved via PATH.
const DefaultDNSTwistBinary = "dnstwist"

// ErrOracleUnavailable is returned when the dnstwist binary cannot be
// found. Callers log it and continue the scan with zero candidates.
var ErrOracleUnavailable = errors.New("dnstwist binary not found in PATH")

// oracleRecord is the per-domain JSON record emitted by dnstwist.
// Fields other than the ones listed here are ignored.
type oracleRecord struct {
	Domain     string   `json:"domain"`
	Registered bool     `json:"registered"`
	DNSA       []string `json:"dns_a"`
	DNSNS      []string `json:"dns_ns"`
	DNSMX      []string `json:"dns_mx"`
}

// DNSTwistSource generates candidates by invoking the external dnstwist
// tool, which permutes the target and reports which permutations are
// DNS-registered. Only registered domains are returned, each carrying
// the A/NS/MX metadata dnstwist resolved.
//
// Any failure mode (binary missing, non-zero exit, timeout, malformed
// output) is returned as an error; it is never fatal to a scan.
type DNSTwistSource struct {
	// binary is the dnstwist executable to run.
	binary string

	// timeout bounds a single dnstwist invocation.
	timeout time.Duration
}

// DNSTwistOption configures a DNSTwistSource.
type DNSTwistOption func(*DNSTwistSource)

// WithBinary overrides the dnstwist executable path.
// Useful for tests and non-standard installations.
func WithBinary(path string) DNSTwistOption {
	return func(s *DNSTwistSource) {
		s.binary = path
	}
}

// NewDNSTwistSource creates a DNSTwistSource with the given execution
// timeout. A non-positive timeout disables the bound.
func NewDNSTwistSource(timeout time.Duration, opts ...DNSTwistOption) *DNSTwistSource {
	s := &DNSTwistSource{
		binary:  DefaultDNSTwistBinary,
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the strategy name.
func (s *DNSTwistSource) Name() string {
	return "dnstwist"
}

// Generate runs dnstwist against the target and parses its JSON output.
// Registration status is trusted verbatim from the tool; records without
// the registered flag are dropped, as is any record matching the target.
func (s *DNSTwistSource) Generate(ctx context.Context, target model.Domain) ([]model.Candidate, error) {
	if target.IsEmpty() {
		return nil, nil
	}

	if _, err := exec.LookPath(s.binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOracleUnavailable, s.binary)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// --registered restricts output to resolvable permutations and makes
	// dnstwist include dns_a/dns_ns/dns_mx in each record.
	cmd := exec.CommandContext(ctx, s.binary, "--registered", "--json", target.String())
	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("dnstwist timed out for %s: %w", target.String(), ctxErr)
		}
		return nil, fmt.Errorf("dnstwist failed for %s: %w", target.String(), err)
	}

	return parseOracleOutput(out, target.String())
}

// parseOracleOutput decodes dnstwist JSON output into candidates,
// keeping only registered records and excluding the target itself.
func parseOracleOutput(out []byte, target string) ([]model.Candidate, error) {
	var records []oracleRecord
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf("malformed dnstwist output: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(records))
	for _, r := range records {
		if !r.Registered || r.Domain == "" || r.Domain == target {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Domain: r.Domain,
			DNSA:   r.DNSA,
			DNSNS:  r.DNSNS,
			DNSMX:  r.DNSMX,
		})
	}
	return candidates, nil
}
