// Package model defines the core data structures for clonescan.
// It contains domain normalization, candidate domains, fetched pages,
// findings, and per-target scan results shared across all packages.
package model
