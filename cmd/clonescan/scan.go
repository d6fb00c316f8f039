package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clonescan/clonescan/internal/candidate"
	"github.com/clonescan/clonescan/internal/config"
	"github.com/clonescan/clonescan/internal/database"
	"github.com/clonescan/clonescan/internal/fetch"
	"github.com/clonescan/clonescan/internal/history"
	clog "github.com/clonescan/clonescan/internal/log"
	"github.com/clonescan/clonescan/internal/model"
	"github.com/clonescan/clonescan/internal/report"
	"github.com/clonescan/clonescan/internal/scan"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [domain...]",
		Short: "Scan domains for lookalike clone sites",
		Long: `Scan generates lookalike domain candidates for each target, fetches
the pages that respond, and scores them against the target's own page.

Candidates come from one of two strategies:
- local: built-in permutations (prefixes, suffixes, alternate TLDs)
- dnstwist: registered permutations reported by the dnstwist tool

Findings at or above the similarity threshold are printed and appended
to the history file for later review.

Examples:
  # Scan a single domain with the built-in permutation strategy
  clonescan scan example.com

  # Scan several domains concurrently
  clonescan scan example.com mybank.com shop.example.org

  # Use dnstwist to find registered lookalike domains
  clonescan scan --strategy dnstwist example.com

  # Tighten the threshold and emit a JSON report
  clonescan scan --threshold 0.85 --json example.com

  # Read targets from a file (one domain per line, # comments allowed)
  clonescan scan --list targets.txt

Configuration file (.clonescan) example:
  defaults:
    threshold: 0.70
  targets:
    mybank.com:
      strategy: dnstwist
      threshold: 0.80
      notes: "priority brand"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().Float64P("threshold", "t", config.DefaultThreshold,
		fmt.Sprintf("Similarity threshold for findings (%.2f-%.2f)", config.MinThreshold, config.MaxThreshold))
	cmd.Flags().StringP("strategy", "s", config.StrategyLocal,
		"Candidate generation strategy: local or dnstwist")
	cmd.Flags().IntP("cap", "n", config.DefaultCandidateCap,
		"Maximum candidates per target (local strategy)")
	cmd.Flags().Duration("connect-timeout", config.DefaultConnectTimeout,
		"Connection timeout per request")
	cmd.Flags().Duration("fetch-timeout", config.DefaultFetchTimeout,
		"Total timeout per request including body read")
	cmd.Flags().Duration("oracle-timeout", config.DefaultOracleTimeout,
		"Timeout for a dnstwist invocation")
	cmd.Flags().IntP("concurrency", "w", config.DefaultConcurrency,
		"Concurrent candidate fetches per target")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of targets scanned concurrently")
	cmd.Flags().StringP("list", "l", "",
		"Read targets from a file, one domain per line")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .clonescan in current or home directory)")

	// History and archive flags
	cmd.Flags().String("history-file", "",
		"History CSV path (default: "+config.HistoryFileName+" in the XDG data directory)")
	cmd.Flags().Bool("no-archive", false,
		"Skip archiving scan results to the local database")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Threshold, err = cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return nil, err
	}

	cfg.Strategy, err = cmd.Flags().GetString("strategy")
	if err != nil {
		return nil, err
	}

	cfg.CandidateCap, err = cmd.Flags().GetInt("cap")
	if err != nil {
		return nil, err
	}

	cfg.ConnectTimeout, err = cmd.Flags().GetDuration("connect-timeout")
	if err != nil {
		return nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("fetch-timeout")
	if err != nil {
		return nil, err
	}

	cfg.OracleTimeout, err = cmd.Flags().GetDuration("oracle-timeout")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-target configurations from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.TargetConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.TargetConfigs = &config.File{
			Targets: make(map[string]config.TargetConfig),
		}
	}

	cfg.HistoryFile, err = cmd.Flags().GetString("history-file")
	if err != nil {
		return nil, err
	}

	noArchive, err := cmd.Flags().GetBool("no-archive")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noArchive
	cfg.DBDir = config.XDGDataDir()

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments plus the optional target list file.
	cfg.Targets = args
	listFile, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listFile != "" {
		listed, err := readTargetList(listFile)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, listed...)
	}

	return cfg, nil
}

// readTargetList reads domains from a file, one per line. Blank lines
// and lines starting with # are skipped.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return targets, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Attribute values are trimmed so that a pathological page title or URL
// cannot flood the terminal.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := clog.NewTrimHandler(slog.NewTextHandler(os.Stderr, opts))
	return slog.New(handler)
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", cfg.Targets,
		"strategy", cfg.Strategy,
		"threshold", cfg.Threshold,
		"batchSize", cfg.BatchSize,
	)

	store := history.NewStore(cfg.HistoryPath())

	// Open the scan archive unless archiving is disabled.
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir)
		if err != nil {
			return fmt.Errorf("failed to open scan archive: %w", err)
		}
		defer db.Close()
		logger.Info("scan archive opened", "dir", cfg.DBDir)
	}

	fetcher := fetch.New(cfg.ConnectTimeout, cfg.FetchTimeout,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)

	factory := func(target string) *scan.Orchestrator {
		return createOrchestratorForTarget(fetcher, logger, cfg, target)
	}

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, factory, store, db, logger)
	}
	return runSequentialScan(ctx, cfg, factory, store, db, logger)
}

// runSequentialScan scans targets one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, factory func(string) *scan.Orchestrator, store *history.Store, db *database.ScanDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Scanning %s...\n", target)
		startTime := time.Now()

		result, err := factory(target).Scan(ctx, target)
		if err != nil {
			logger.Error("scan ended early", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", target, err)
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := handleResult(ctx, cfg, result, store, db, logger); err != nil {
			return err
		}
	}
	return nil
}

// runBatchScan scans multiple targets concurrently.
func runBatchScan(ctx context.Context, cfg *config.Config, factory func(string) *scan.Orchestrator, store *history.Store, db *database.ScanDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	batch := scan.NewBatch(factory,
		scan.WithBatchConcurrency(cfg.BatchSize),
		scan.WithBatchLogger(logger),
	)

	// The callback runs on scan goroutines; handleResult writes to the
	// history store and terminal, so it is serialized.
	var mu sync.Mutex
	var handleErr error
	err := batch.RunWithCallback(ctx, cfg.Targets, func(result *model.ScanResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Scan completed: %s\n", index+1, len(cfg.Targets), result.Target)
		if e := handleResult(ctx, cfg, result, store, db, logger); e != nil && handleErr == nil {
			handleErr = e
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	if handleErr != nil {
		return handleErr
	}
	return err
}

// handleResult reports a completed scan, appends its findings to the
// history file, and archives it. A history write failure is fatal; the
// history file is the scanner's record of truth.
func handleResult(ctx context.Context, cfg *config.Config, result *model.ScanResult, store *history.Store, db *database.ScanDB, logger *slog.Logger) error {
	if result == nil {
		return nil
	}

	if err := outputReport(cfg, result); err != nil {
		logger.Error("report failed", "target", result.Target, "error", err)
	}

	if err := store.Append(result.Findings); err != nil {
		return fmt.Errorf("failed to record findings for %s: %w", result.Target, err)
	}

	if db != nil {
		if _, err := db.InsertScan(ctx, result); err != nil {
			logger.Error("failed to archive scan", "target", result.Target, "error", err)
		}
	}
	return nil
}

// createOrchestratorForTarget creates an orchestrator with per-target
// overrides from the config file applied over the global settings.
func createOrchestratorForTarget(fetcher *fetch.Fetcher, logger *slog.Logger, cfg *config.Config, target string) *scan.Orchestrator {
	threshold := cfg.Threshold
	strategy := cfg.Strategy
	candidateCap := cfg.CandidateCap

	if cfg.TargetConfigs != nil {
		tc := cfg.TargetConfigs.GetTargetConfig(model.Normalize(target).String())
		if tc.Threshold != 0 {
			threshold = tc.Threshold
		}
		if tc.Strategy != "" {
			strategy = tc.Strategy
		}
		if tc.CandidateCap != 0 {
			candidateCap = tc.CandidateCap
		}
	}

	var source candidate.Source
	if strategy == config.StrategyDNSTwist {
		source = candidate.NewDNSTwistSource(cfg.OracleTimeout)
	} else {
		source = candidate.NewLocalSource(candidateCap)
	}

	return scan.New(fetcher, source, threshold,
		scan.WithConcurrency(cfg.Concurrency),
		scan.WithLogger(logger),
	)
}

// outputReport outputs the scan's findings in the requested format.
func outputReport(cfg *config.Config, result *model.ScanResult) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	title := fmt.Sprintf("Clone scan: %s", result.Target)

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(result.Findings, title)
	return err
}
