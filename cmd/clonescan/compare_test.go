package main

import (
	"testing"
	"time"

	"github.com/clonescan/clonescan/internal/database"
	"github.com/clonescan/clonescan/internal/model"
)

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "compare [domain]" {
			t.Errorf("expected use 'compare [domain]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has list flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list")
		if flag == nil {
			t.Fatal("expected list flag")
		}
		if flag.Shorthand != "l" {
			t.Errorf("expected shorthand 'l', got %q", flag.Shorthand)
		}
	})

	t.Run("has list-targets flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("list-targets")
		if flag == nil {
			t.Fatal("expected list-targets flag")
		}
		if flag.Shorthand != "L" {
			t.Errorf("expected shorthand 'L', got %q", flag.Shorthand)
		}
	})

	t.Run("has with-scan-id flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("with-scan-id")
		if flag == nil {
			t.Fatal("expected with-scan-id flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
	})

	t.Run("has since flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("since")
		if flag == nil {
			t.Fatal("expected since flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
	})
}

// TestRunCompareCmdNoArgs tests the compare command with no arguments.
func TestRunCompareCmdNoArgs(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"compare"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error when no domain is given")
	}
}

// finding builds a test finding for a suspect with the given similarity.
func finding(target, suspect string, similarity float64) model.Finding {
	return model.Finding{
		Timestamp:     time.Now().Unix(),
		Target:        target,
		SuspectDomain: suspect,
		Similarity:    similarity,
		URL:           "http://" + suspect,
		Notes:         model.DefaultNotes,
	}
}

// record builds an archived scan record from findings.
func record(id int64, target string, when time.Time, findings ...model.Finding) *database.ScanRecord {
	return &database.ScanRecord{
		ID:           id,
		Target:       target,
		Timestamp:    when,
		FindingCount: len(findings),
		Findings:     findings,
	}
}

// TestCompareScans tests the scan diffing logic.
func TestCompareScans(t *testing.T) {
	t.Parallel()

	now := time.Now()
	earlier := now.Add(-24 * time.Hour)

	t.Run("detects new suspect", func(t *testing.T) {
		t.Parallel()
		previous := record(1, "example.com", earlier,
			finding("example.com", "examp1e.com", 0.80))
		current := record(2, "example.com", now,
			finding("example.com", "examp1e.com", 0.80),
			finding("example.com", "exampl3.com", 0.90))

		result := compareScans(previous, current)

		if len(result.NewSuspects) != 1 || result.NewSuspects[0].SuspectDomain != "exampl3.com" {
			t.Errorf("expected new suspect exampl3.com, got %v", result.NewSuspects)
		}
		if len(result.ResolvedSuspects) != 0 {
			t.Errorf("expected no resolved suspects, got %v", result.ResolvedSuspects)
		}
		if result.UnchangedCount != 1 {
			t.Errorf("expected 1 unchanged suspect, got %d", result.UnchangedCount)
		}
		if result.Exposure != exposureWorsened {
			t.Errorf("expected worsened exposure, got %q", result.Exposure)
		}
	})

	t.Run("detects resolved suspect", func(t *testing.T) {
		t.Parallel()
		previous := record(1, "example.com", earlier,
			finding("example.com", "examp1e.com", 0.80),
			finding("example.com", "exampl3.com", 0.90))
		current := record(2, "example.com", now,
			finding("example.com", "examp1e.com", 0.80))

		result := compareScans(previous, current)

		if len(result.ResolvedSuspects) != 1 || result.ResolvedSuspects[0].SuspectDomain != "exampl3.com" {
			t.Errorf("expected resolved suspect exampl3.com, got %v", result.ResolvedSuspects)
		}
		if result.Exposure != exposureImproved {
			t.Errorf("expected improved exposure, got %q", result.Exposure)
		}
	})

	t.Run("tracks similarity changes", func(t *testing.T) {
		t.Parallel()
		previous := record(1, "example.com", earlier,
			finding("example.com", "examp1e.com", 0.70))
		current := record(2, "example.com", now,
			finding("example.com", "examp1e.com", 0.95))

		result := compareScans(previous, current)

		if len(result.SimilarityChanges) != 1 {
			t.Fatalf("expected 1 similarity change, got %d", len(result.SimilarityChanges))
		}
		change := result.SimilarityChanges[0]
		if change.Previous != 0.70 || change.Current != 0.95 {
			t.Errorf("expected 0.70 -> 0.95, got %v -> %v", change.Previous, change.Current)
		}
		if result.Exposure != exposureWorsened {
			t.Errorf("expected worsened exposure for rising similarity, got %q", result.Exposure)
		}
	})

	t.Run("falling similarity improves exposure", func(t *testing.T) {
		t.Parallel()
		previous := record(1, "example.com", earlier,
			finding("example.com", "examp1e.com", 0.95))
		current := record(2, "example.com", now,
			finding("example.com", "examp1e.com", 0.70))

		result := compareScans(previous, current)

		if result.Exposure != exposureImproved {
			t.Errorf("expected improved exposure, got %q", result.Exposure)
		}
	})

	t.Run("identical scans are unchanged", func(t *testing.T) {
		t.Parallel()
		previous := record(1, "example.com", earlier,
			finding("example.com", "examp1e.com", 0.80))
		current := record(2, "example.com", now,
			finding("example.com", "examp1e.com", 0.80))

		result := compareScans(previous, current)

		if result.Exposure != exposureUnchanged {
			t.Errorf("expected unchanged exposure, got %q", result.Exposure)
		}
		if result.UnchangedCount != 1 {
			t.Errorf("expected 1 unchanged suspect, got %d", result.UnchangedCount)
		}
	})

	t.Run("new suspect dominates resolutions", func(t *testing.T) {
		t.Parallel()
		previous := record(1, "example.com", earlier,
			finding("example.com", "a.com", 0.80),
			finding("example.com", "b.com", 0.80))
		current := record(2, "example.com", now,
			finding("example.com", "c.com", 0.80))

		result := compareScans(previous, current)

		if result.Exposure != exposureWorsened {
			t.Errorf("expected worsened exposure, got %q", result.Exposure)
		}
	})

	t.Run("empty scans compare cleanly", func(t *testing.T) {
		t.Parallel()
		previous := record(1, "example.com", earlier)
		current := record(2, "example.com", now)

		result := compareScans(previous, current)

		if result.Exposure != exposureUnchanged {
			t.Errorf("expected unchanged exposure, got %q", result.Exposure)
		}
		if len(result.NewSuspects) != 0 || len(result.ResolvedSuspects) != 0 {
			t.Error("expected no diffs for empty scans")
		}
	})
}

// TestFormatSimilarityDelta tests delta formatting.
func TestFormatSimilarityDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		delta float64
		want  string
	}{
		{name: "positive", delta: 0.25, want: "+0.250"},
		{name: "negative", delta: -0.1, want: "-0.100"},
		{name: "zero", delta: 0, want: "0.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatSimilarityDelta(tt.delta); got != tt.want {
				t.Errorf("formatSimilarityDelta(%v) = %q, want %q", tt.delta, got, tt.want)
			}
		})
	}
}

// TestFormatExposure tests exposure direction formatting.
func TestFormatExposure(t *testing.T) {
	t.Parallel()

	if got := formatExposure(exposureImproved); got == "" {
		t.Error("expected non-empty improved label")
	}
	if got := formatExposure(exposureWorsened); got == "" {
		t.Error("expected non-empty worsened label")
	}
	if got := formatExposure("anything else"); got != "UNCHANGED" {
		t.Errorf("expected UNCHANGED fallback, got %q", got)
	}
}
