package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: package-level sentinel errors rather than ad hoc
// errors.New calls inside Validate, so callers can use errors.Is for
// programmatic handling while the messages stay human-readable.
var (
	// ErrNoTarget is returned when no target domain is specified.
	ErrNoTarget = errors.New("no target specified: provide one or more domains to scan")

	// ErrInvalidThreshold is returned when the similarity threshold is
	// outside [MinThreshold, MaxThreshold].
	ErrInvalidThreshold = errors.New("invalid threshold: must be between 0.40 and 0.95")

	// ErrInvalidCandidateCap is returned when the candidate cap is not positive.
	ErrInvalidCandidateCap = errors.New("invalid candidate cap: must be positive")

	// ErrUnknownStrategy is returned when the candidate strategy is
	// neither "local" nor "dnstwist".
	ErrUnknownStrategy = errors.New(`unknown candidate strategy: must be "local" or "dnstwist"`)

	// ErrInvalidTimeout is returned when any timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the per-target fetch
	// concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
