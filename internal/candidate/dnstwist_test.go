package candidate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/clonescan/clonescan/internal/model"
)

// writeFakeTool writes an executable shell script that emits the given
// output and returns its path. Used to exercise the subprocess path
// without a real dnstwist installation.
func writeFakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "dnstwist")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o700); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDNSTwistSourceGenerate tests the oracle strategy end to end
// against a stubbed dnstwist executable.
func TestDNSTwistSourceGenerate(t *testing.T) {
	t.Parallel()

	t.Run("keeps registered records with DNS metadata", func(t *testing.T) {
		t.Parallel()

		tool := writeFakeTool(t, `cat <<'EOF'
[
  {"domain": "examp1e.com", "registered": true, "dns_a": ["203.0.113.7"], "dns_ns": ["ns1.host.net"], "dns_mx": ["mx.examp1e.com"]},
  {"domain": "example.org", "registered": false},
  {"domain": "exarnple.com", "registered": true}
]
EOF
`)
		src := NewDNSTwistSource(10*time.Second, WithBinary(tool))

		got, err := src.Generate(context.Background(), model.Normalize("example.com"))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 registered candidates, got %d", len(got))
		}
		if got[0].Domain != "examp1e.com" {
			t.Errorf("got %q, expected examp1e.com", got[0].Domain)
		}
		if len(got[0].DNSA) != 1 || got[0].DNSA[0] != "203.0.113.7" {
			t.Errorf("DNSA: got %v", got[0].DNSA)
		}
		if got[1].Domain != "exarnple.com" {
			t.Errorf("got %q, expected exarnple.com", got[1].Domain)
		}
	})

	t.Run("missing binary returns ErrOracleUnavailable", func(t *testing.T) {
		t.Parallel()

		src := NewDNSTwistSource(time.Second, WithBinary("clonescan-no-such-binary"))
		_, err := src.Generate(context.Background(), model.Normalize("example.com"))
		if !errors.Is(err, ErrOracleUnavailable) {
			t.Fatalf("expected ErrOracleUnavailable, got %v", err)
		}
	})

	t.Run("non-zero exit returns an error", func(t *testing.T) {
		t.Parallel()

		tool := writeFakeTool(t, "exit 3\n")
		src := NewDNSTwistSource(10*time.Second, WithBinary(tool))
		if _, err := src.Generate(context.Background(), model.Normalize("example.com")); err == nil {
			t.Fatal("expected an error for non-zero exit")
		}
	})

	t.Run("malformed output returns an error", func(t *testing.T) {
		t.Parallel()

		tool := writeFakeTool(t, "echo 'not json'\n")
		src := NewDNSTwistSource(10*time.Second, WithBinary(tool))
		if _, err := src.Generate(context.Background(), model.Normalize("example.com")); err == nil {
			t.Fatal("expected an error for malformed output")
		}
	})

	t.Run("timeout aborts the subprocess", func(t *testing.T) {
		t.Parallel()

		tool := writeFakeTool(t, "sleep 30\n")
		src := NewDNSTwistSource(100*time.Millisecond, WithBinary(tool))
		if _, err := src.Generate(context.Background(), model.Normalize("example.com")); err == nil {
			t.Fatal("expected a timeout error")
		}
	})

	t.Run("empty target yields no candidates and no error", func(t *testing.T) {
		t.Parallel()

		src := NewDNSTwistSource(time.Second)
		got, err := src.Generate(context.Background(), model.Domain{})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no candidates, got %d", len(got))
		}
	})
}

// TestParseOracleOutput tests JSON record filtering.
func TestParseOracleOutput(t *testing.T) {
	t.Parallel()

	t.Run("drops the target itself even when registered", func(t *testing.T) {
		t.Parallel()

		out := []byte(`[{"domain": "example.com", "registered": true}]`)
		got, err := parseOracleOutput(out, "example.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("expected the target to be excluded, got %v", got)
		}
	})

	t.Run("drops records without a domain", func(t *testing.T) {
		t.Parallel()

		out := []byte(`[{"registered": true}]`)
		got, err := parseOracleOutput(out, "example.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty set, got %v", got)
		}
	})

	t.Run("empty array parses to empty set", func(t *testing.T) {
		t.Parallel()

		got, err := parseOracleOutput([]byte("[]"), "example.com")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty set, got %v", got)
		}
	})
}

// TestDNSTwistSourceName tests the strategy name.
func TestDNSTwistSourceName(t *testing.T) {
	t.Parallel()

	if got := NewDNSTwistSource(time.Second).Name(); got != "dnstwist" {
		t.Errorf("got %q, expected %q", got, "dnstwist")
	}
}
