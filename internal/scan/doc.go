// Package scan orchestrates clone-site scans.
//
// The Orchestrator drives a single target through fetch-canonical,
// generate-candidates, fetch-and-score, and threshold filtering.
// The Batch processor runs multiple targets concurrently, never letting
// one target's failure abort its siblings.
package scan
