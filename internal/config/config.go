package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Thresholds and timeouts follow the
// behavior of typical clone-scanning deployments: clearnet sites answer
// quickly, and dnstwist resolution dominates oracle runtime.
const (
	// DefaultThreshold is the similarity ratio at or above which a
	// candidate page becomes a finding. 0.60 catches most straight
	// copies while tolerating minor template edits.
	DefaultThreshold = 0.60

	// MinThreshold and MaxThreshold bound the configurable threshold.
	// Below 0.40 nearly everything matches; above 0.95 only byte-level
	// clones do.
	MinThreshold = 0.40
	MaxThreshold = 0.95

	// DefaultCandidateCap bounds the number of candidates evaluated per
	// target with the local permutation strategy. The oracle strategy
	// is naturally bounded by what is actually registered.
	DefaultCandidateCap = 50

	// DefaultConnectTimeout bounds TCP establishment and TLS handshake.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultFetchTimeout bounds an entire request including body read.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultOracleTimeout bounds a single dnstwist invocation. dnstwist
	// resolves hundreds of permutations, so this is generous.
	DefaultOracleTimeout = 30 * time.Second

	// DefaultConcurrency is the number of in-flight candidate fetches
	// per target. Bounded to respect per-host politeness and avoid
	// unbounded parallel sockets.
	DefaultConcurrency = 8

	// DefaultBatchSize is the number of targets scanned concurrently.
	DefaultBatchSize = 4

	// DefaultUserAgent identifies clonescan in HTTP requests so that
	// site operators can recognize scanner traffic in their logs.
	DefaultUserAgent = "clonescan/1.0 (+https://github.com/clonescan/clonescan)"

	// DefaultMaxBodySize caps response bodies at 5MB. Enough for any
	// realistic landing page while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// StrategyLocal and StrategyDNSTwist name the candidate generation
	// strategies selectable via configuration.
	StrategyLocal    = "local"
	StrategyDNSTwist = "dnstwist"

	// HistoryFileName is the history CSV file name inside the data dir.
	HistoryFileName = "history.csv"

	// AppName is the application name used for XDG directory paths.
	AppName = "clonescan"
)

// Config holds all configuration options for clonescan.
// It is populated from CLI flags and the optional .clonescan file and
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// Threshold is the similarity ratio in [MinThreshold, MaxThreshold]
	// at or above which a candidate becomes a finding.
	Threshold float64

	// CandidateCap bounds the candidate count per scan target.
	CandidateCap int

	// Strategy selects the candidate generation variant:
	// StrategyLocal or StrategyDNSTwist.
	Strategy string

	// ConnectTimeout bounds connection establishment per request.
	ConnectTimeout time.Duration

	// FetchTimeout bounds a whole request including the body read.
	FetchTimeout time.Duration

	// OracleTimeout bounds a dnstwist invocation.
	OracleTimeout time.Duration

	// Concurrency is the maximum in-flight candidate fetches per target.
	Concurrency int

	// BatchSize is the number of targets scanned concurrently.
	BatchSize int

	// UserAgent is sent with every HTTP request.
	UserAgent string

	// MaxBodySize caps response body bytes read per fetch.
	MaxBodySize int64

	// HistoryFile is the path of the append-only history CSV.
	// Empty means the default location under the XDG data dir.
	HistoryFile string

	// DBDir is the directory for the sqlite scan archive. Scans are
	// archived there for later comparison when SaveToDB is true.
	DBDir string

	// SaveToDB enables archiving completed scans to the database.
	SaveToDB bool

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// ConfigFilePath is an explicit .clonescan path; empty means search
	// the current directory and then the home directory.
	ConfigFilePath string

	// TargetConfigs holds per-target overrides loaded from the config file.
	TargetConfigs *File

	// JSONReport and MarkdownReport select the report output format.
	// Mutually exclusive; the default is a plain text table.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// Targets is the list of domains to scan.
	Targets []string
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero
// values because most defaults are non-zero, and the constructor
// documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		Threshold:      DefaultThreshold,
		CandidateCap:   DefaultCandidateCap,
		Strategy:       StrategyLocal,
		ConnectTimeout: DefaultConnectTimeout,
		FetchTimeout:   DefaultFetchTimeout,
		OracleTimeout:  DefaultOracleTimeout,
		Concurrency:    DefaultConcurrency,
		BatchSize:      DefaultBatchSize,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for clonescan
// (~/.local/share/clonescan on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for clonescan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// HistoryPath returns the configured history file path, falling back to
// the default location under the XDG data directory.
func (c *Config) HistoryPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	return filepath.Join(XDGDataDir(), HistoryFileName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after CLI parsing, before any scan begins, so that
// a malformed target list never silently proceeds with zero targets.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.Threshold < MinThreshold || c.Threshold > MaxThreshold {
		return ErrInvalidThreshold
	}
	if c.CandidateCap <= 0 {
		return ErrInvalidCandidateCap
	}
	if c.Strategy != StrategyLocal && c.Strategy != StrategyDNSTwist {
		return ErrUnknownStrategy
	}
	if c.ConnectTimeout <= 0 || c.FetchTimeout <= 0 || c.OracleTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
