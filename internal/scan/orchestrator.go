package scan

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clonescan/clonescan/internal/candidate"
	"github.com/clonescan/clonescan/internal/fetch"
	"github.com/clonescan/clonescan/internal/model"
	"github.com/clonescan/clonescan/internal/similarity"
)

// Orchestrator scans a single target for lookalike clone sites.
//
// Candidate pages are fetched by a bounded worker pool; results are
// written into a slice indexed by candidate position, so the returned
// findings always follow candidate-generation order no matter how the
// concurrent fetches interleave, and a candidate can never be duplicated
// or dropped by scheduling.
type Orchestrator struct {
	// fetcher retrieves and normalizes pages.
	fetcher *fetch.Fetcher

	// source generates candidate domains.
	source candidate.Source

	// threshold is the similarity ratio a candidate must reach.
	threshold float64

	// concurrency bounds in-flight candidate fetches.
	concurrency int

	// logger receives per-step structured logs.
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency bounds the number of concurrent candidate fetches.
// Default is 8.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator using the given fetcher, candidate source,
// and similarity threshold.
func New(fetcher *fetch.Fetcher, source candidate.Source, threshold float64, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:     fetcher,
		source:      source,
		threshold:   threshold,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Scan evaluates all candidates for the target and returns the findings
// at or above the threshold.
//
// The canonical page is fetched first (https, then http); if it cannot
// be obtained, the scan ends with an empty result and no candidate is
// attempted. Candidates with no fetchable page are skipped silently.
// On cancellation, findings already computed are still returned
// alongside the context error.
func (o *Orchestrator) Scan(ctx context.Context, rawTarget string) (*model.ScanResult, error) {
	target := model.Normalize(rawTarget)
	result := model.NewScanResult(target.String())
	started := time.Now()
	defer func() { result.Elapsed = time.Since(started) }()

	if target.IsEmpty() {
		result.ErrorMessage = "empty target"
		return result, nil
	}

	// FetchCanonical.
	canonical := o.fetcher.FetchDomain(ctx, target.String())
	if canonical.IsEmpty() {
		o.logger.Warn("canonical page unreachable, skipping target",
			"target", target.String(),
		)
		result.ErrorMessage = "canonical page unreachable"
		return result, ctx.Err()
	}
	result.CanonicalURL = canonical.URL
	result.CanonicalTitle = canonical.Title

	// GenerateCandidates. Oracle failures degrade to an empty set.
	candidates, err := o.source.Generate(ctx, target)
	if err != nil {
		o.logger.Warn("candidate generation failed, scanning zero candidates",
			"target", target.String(),
			"strategy", o.source.Name(),
			"error", err,
		)
	}
	result.Candidates = len(candidates)
	if len(candidates) == 0 {
		return result, ctx.Err()
	}

	o.logger.Info("scoring candidates",
		"target", target.String(),
		"candidates", len(candidates),
		"strategy", o.source.Name(),
		"threshold", o.threshold,
	)

	// ScoreCandidates with a bounded worker pool. Each slot in found is
	// owned by exactly one goroutine, so no lock is needed.
	found := make([]*model.Finding, len(candidates))
	fetched := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			page := o.fetcher.FetchDomain(gctx, c.Domain)
			if page.IsEmpty() {
				return nil
			}
			fetched[i] = true

			score := similarity.Ratio(canonical.Text, page.Text)
			o.logger.Debug("candidate scored",
				"target", target.String(),
				"candidate", c.Domain,
				"similarity", score,
			)
			if score >= o.threshold {
				f := model.NewFinding(target.String(), c, score, page.URL)
				found[i] = &f
			}
			return nil
		})
	}
	waitErr := g.Wait()

	// Filter in candidate order; partially collected findings survive
	// cancellation.
	for i, f := range found {
		if f != nil {
			result.Findings = append(result.Findings, *f)
		}
		if fetched[i] {
			result.Fetched++
		} else {
			result.Skipped++
		}
	}

	return result, waitErr
}
