package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clonescan/clonescan/internal/config"
	"github.com/clonescan/clonescan/internal/database"
	"github.com/clonescan/clonescan/internal/model"
)

// Exposure change directions reported by the comparison.
const (
	exposureWorsened  = "worsened"
	exposureImproved  = "improved"
	exposureUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
// This command compares archived scans of a target to show how its
// clone-site exposure changed over time.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [domain]",
		Short: "Compare scan results with archived data",
		Long: `Compare displays differences between the current and previous scan results.

This command retrieves archived scans from the local database and shows:
- New suspect domains that appeared since the last scan
- Resolved suspects that no longer match
- Similarity changes for suspects present in both scans

The comparison requires at least two archived scans for the specified
domain. Use 'clonescan scan' to perform scans and archive results.

Examples:
  # Compare latest two scans for a domain
  clonescan compare example.com

  # List all archived scans for a domain
  clonescan compare --list example.com

  # Compare with a specific archived scan by ID
  clonescan compare --with-scan-id 5 example.com

  # Compare with the oldest scan since a date
  clonescan compare --since "2026-01-01" example.com

  # Output comparison in JSON format
  clonescan compare --json example.com

  # List all scanned domains in the archive
  clonescan compare --list-targets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// Archive listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List archived scans for the specified domain")
	cmd.Flags().BoolP("list-targets", "L", false,
		"List all scanned domains in the archive")

	// Comparison target flags
	cmd.Flags().Int64P("with-scan-id", "i", 0,
		"Compare with a specific scan by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first scan after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-targets first (requires the archive but no domain)
	listTargets, err := cmd.Flags().GetBool("list-targets")
	if err != nil {
		return err
	}

	// Validate arguments before opening the archive (unless --list-targets)
	var target string
	if !listTargets {
		if len(args) == 0 {
			return errors.New("domain is required (use --list-targets to see archived domains)")
		}
		domain := model.Normalize(args[0])
		if domain.IsEmpty() {
			return fmt.Errorf("invalid domain: %q", args[0])
		}
		target = domain.String()
	}

	db, err := database.Open(config.XDGDataDir())
	if err != nil {
		return fmt.Errorf("failed to open scan archive: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listTargets {
		return listArchivedTargets(ctx, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listArchivedScans(ctx, db, target)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	withScanID, err := cmd.Flags().GetInt64("with-scan-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, target, withScanID, sinceDate, jsonOutput)
}

// listArchivedTargets lists all domains that have archived scans.
func listArchivedTargets(ctx context.Context, db *database.ScanDB) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}

	if len(targets) == 0 {
		fmt.Println("No archived scans found.")
		fmt.Println("\nUse 'clonescan scan <domain>' to scan a domain.")
		return nil
	}

	fmt.Printf("Scanned domains (%d):\n\n", len(targets))
	for _, t := range targets {
		fmt.Printf("  • %s\n", t)
	}
	fmt.Println("\nUse 'clonescan compare --list <domain>' to see archived scans for a domain.")

	return nil
}

// listArchivedScans lists all archived scans for a specific domain.
func listArchivedScans(ctx context.Context, db *database.ScanDB, target string) error {
	records, err := db.ScanHistory(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(records) == 0 {
		fmt.Printf("No archived scans found for %s\n", target)
		fmt.Println("\nUse 'clonescan scan' to scan this domain.")
		return nil
	}

	fmt.Printf("Archived scans for %s (%d scans):\n\n", target, len(records))
	fmt.Printf("  %-6s  %-20s  %s\n", "ID", "Date", "Findings")
	fmt.Println("  " + strings.Repeat("-", 40))

	for _, rec := range records {
		fmt.Printf("  %-6d  %-20s  %d\n",
			rec.ID,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.FindingCount,
		)
	}

	fmt.Println("\nUse 'clonescan compare <domain>' to compare the latest two scans.")
	fmt.Println("Use 'clonescan compare --with-scan-id <id> <domain>' to compare with a specific scan.")

	return nil
}

// runComparison performs the actual comparison between archived scans.
func runComparison(ctx context.Context, db *database.ScanDB, target string, withScanID int64, sinceDate string, jsonOutput bool) error {
	records, err := db.ScanHistory(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(records) == 0 {
		return fmt.Errorf("no archived scans found for %s", target)
	}

	if len(records) < 2 && withScanID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(records))
	}

	// The newest archived scan is always the current one.
	current := &records[0]

	var previous *database.ScanRecord
	switch {
	case withScanID > 0:
		previous, err = db.GetScan(ctx, withScanID)
		if err != nil {
			return fmt.Errorf("failed to get scan with ID %d: %w", withScanID, err)
		}
		if previous == nil {
			return fmt.Errorf("scan with ID %d not found", withScanID)
		}
		if previous.Target != target {
			return fmt.Errorf("scan ID %d belongs to %s, not %s", withScanID, previous.Target, target)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Records are sorted newest first, so iterate backwards to find
		// the oldest scan at or after the date.
		for i := len(records) - 1; i >= 0; i-- {
			if !records[i].Timestamp.Before(parsedDate) {
				previous = &records[i]
				break
			}
		}
		if previous == nil {
			return fmt.Errorf("no scans found since %s", sinceDate)
		}
		if previous.ID == current.ID {
			return fmt.Errorf("only one scan found since %s; at least 2 scans are required for comparison", sinceDate)
		}
	default:
		previous = &records[1]
	}

	comparison := compareScans(previous, current)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two archived scans.
type ComparisonResult struct {
	// Target is the scanned domain.
	Target string `json:"target"`

	// PreviousScan and CurrentScan carry metadata about the two scans.
	PreviousScan ScanMetadata `json:"previous_scan"`
	CurrentScan  ScanMetadata `json:"current_scan"`

	// NewSuspects contains findings whose suspect domain appears only in
	// the current scan.
	NewSuspects []model.Finding `json:"new_suspects,omitempty"`

	// ResolvedSuspects contains findings whose suspect domain appeared in
	// the previous scan but not the current one.
	ResolvedSuspects []model.Finding `json:"resolved_suspects,omitempty"`

	// SimilarityChanges tracks suspects present in both scans whose
	// similarity ratio moved.
	SimilarityChanges []SimilarityChange `json:"similarity_changes,omitempty"`

	// UnchangedCount is the number of suspects present in both scans with
	// an unchanged similarity ratio.
	UnchangedCount int `json:"unchanged_count"`

	// Exposure is "improved", "worsened", or "unchanged".
	Exposure string `json:"exposure"`
}

// ScanMetadata contains metadata about one archived scan.
type ScanMetadata struct {
	// ScanID is the archive row ID.
	ScanID int64 `json:"scan_id"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// TotalFindings is the number of findings in this scan.
	TotalFindings int `json:"total_findings"`
}

// SimilarityChange records a similarity shift for one suspect domain.
type SimilarityChange struct {
	// SuspectDomain is the lookalike domain.
	SuspectDomain string `json:"suspect_domain"`

	// Previous and Current are the similarity ratios in the two scans.
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
}

// compareScans diffs two archived scans by suspect domain.
func compareScans(previous, current *database.ScanRecord) *ComparisonResult {
	result := &ComparisonResult{
		Target: current.Target,
		PreviousScan: ScanMetadata{
			ScanID:        previous.ID,
			DateScanned:   previous.Timestamp,
			TotalFindings: previous.FindingCount,
		},
		CurrentScan: ScanMetadata{
			ScanID:        current.ID,
			DateScanned:   current.Timestamp,
			TotalFindings: current.FindingCount,
		},
	}

	previousBySuspect := make(map[string]model.Finding)
	for _, f := range previous.Findings {
		previousBySuspect[f.SuspectDomain] = f
	}

	seen := make(map[string]bool)
	for _, f := range current.Findings {
		seen[f.SuspectDomain] = true
		prev, ok := previousBySuspect[f.SuspectDomain]
		if !ok {
			result.NewSuspects = append(result.NewSuspects, f)
			continue
		}
		if prev.Similarity != f.Similarity {
			result.SimilarityChanges = append(result.SimilarityChanges, SimilarityChange{
				SuspectDomain: f.SuspectDomain,
				Previous:      prev.Similarity,
				Current:       f.Similarity,
			})
		} else {
			result.UnchangedCount++
		}
	}

	for _, f := range previous.Findings {
		if !seen[f.SuspectDomain] {
			result.ResolvedSuspects = append(result.ResolvedSuspects, f)
		}
	}

	result.Exposure = exposureDirection(result)
	return result
}

// exposureDirection classifies the overall change. New suspects always
// dominate: a single new clone site outweighs any number of resolutions.
func exposureDirection(result *ComparisonResult) string {
	if len(result.NewSuspects) > 0 {
		return exposureWorsened
	}
	if len(result.ResolvedSuspects) > 0 {
		return exposureImproved
	}
	for _, c := range result.SimilarityChanges {
		if c.Current > c.Previous {
			return exposureWorsened
		}
	}
	if len(result.SimilarityChanges) > 0 {
		return exposureImproved
	}
	return exposureUnchanged
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable
// text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Scan Comparison: %s\n", result.Target)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nExposure: %s\n", formatExposure(result.Exposure))

	fmt.Printf("\nPrevious scan: %s (ID %d, %d findings)\n",
		result.PreviousScan.DateScanned.Format("2006-01-02 15:04:05"),
		result.PreviousScan.ScanID,
		result.PreviousScan.TotalFindings)
	fmt.Printf("Current scan:  %s (ID %d, %d findings)\n",
		result.CurrentScan.DateScanned.Format("2006-01-02 15:04:05"),
		result.CurrentScan.ScanID,
		result.CurrentScan.TotalFindings)

	if len(result.NewSuspects) > 0 {
		fmt.Printf("\nNew suspects (%d):\n", len(result.NewSuspects))
		for _, f := range result.NewSuspects {
			fmt.Printf("  [+] %s (similarity %.3f) %s\n", f.SuspectDomain, f.Similarity, f.URL)
		}
	}

	if len(result.ResolvedSuspects) > 0 {
		fmt.Printf("\nResolved suspects (%d):\n", len(result.ResolvedSuspects))
		for _, f := range result.ResolvedSuspects {
			fmt.Printf("  [-] %s (was %.3f)\n", f.SuspectDomain, f.Similarity)
		}
	}

	if len(result.SimilarityChanges) > 0 {
		fmt.Printf("\nSimilarity changes (%d):\n", len(result.SimilarityChanges))
		for _, c := range result.SimilarityChanges {
			fmt.Printf("  [~] %s  %.3f -> %.3f (%s)\n",
				c.SuspectDomain, c.Previous, c.Current, formatSimilarityDelta(c.Current-c.Previous))
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d suspects\n", result.UnchangedCount)
	}

	if len(result.NewSuspects) == 0 && len(result.ResolvedSuspects) == 0 &&
		len(result.SimilarityChanges) == 0 && result.UnchangedCount == 0 {
		fmt.Println("\nNo findings in either scan.")
	}

	return nil
}

// formatExposure formats the exposure direction for display.
func formatExposure(direction string) string {
	switch direction {
	case exposureImproved:
		return "IMPROVED (fewer or weaker clones)"
	case exposureWorsened:
		return "WORSENED (new or stronger clones)"
	default:
		return "UNCHANGED"
	}
}

// formatSimilarityDelta formats a similarity delta with sign.
func formatSimilarityDelta(delta float64) string {
	if delta > 0 {
		return "+" + strconv.FormatFloat(delta, 'f', 3, 64)
	}
	return strconv.FormatFloat(delta, 'f', 3, 64)
}
