package scan

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clonescan/clonescan/internal/model"
)

// Batch runs scans for multiple targets concurrently.
//
// Design decision: A factory produces a fresh Orchestrator per target so
// that per-target configuration (threshold or strategy overrides from
// the config file) never leaks between concurrent scans.
type Batch struct {
	// factory creates the orchestrator for a given target.
	factory func(target string) *Orchestrator

	// concurrency is the maximum number of targets scanned at once.
	concurrency int

	// logger receives batch-level logs.
	logger *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchConcurrency sets the maximum number of concurrent target
// scans. Default is 4.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets the batch logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch using the orchestrator factory.
func NewBatch(factory func(target string) *Orchestrator, opts ...BatchOption) *Batch {
	b := &Batch{
		factory:     factory,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Run scans every target and returns one result per target, in input
// order. A target whose canonical page is unreachable, or whose scan
// fails, yields an empty result; it never aborts sibling targets.
func (b *Batch) Run(ctx context.Context, targets []string) []*model.ScanResult {
	results := make([]*model.ScanResult, len(targets))
	if err := b.run(ctx, targets, func(r *model.ScanResult, i int) {
		results[i] = r
	}); err != nil {
		b.logger.Warn("batch cancelled", "error", err)
	}
	// Targets cancelled before their scan started still get a result.
	for i, r := range results {
		if r == nil {
			res := model.NewScanResult(model.Normalize(targets[i]).String())
			res.ErrorMessage = "scan cancelled"
			results[i] = res
		}
	}
	return results
}

// RunWithCallback scans every target, invoking the callback as each
// target completes. The callback runs on the goroutine that finished
// the scan and must be safe for concurrent use.
func (b *Batch) RunWithCallback(ctx context.Context, targets []string, callback func(*model.ScanResult, int)) error {
	return b.run(ctx, targets, callback)
}

func (b *Batch) run(ctx context.Context, targets []string, emit func(*model.ScanResult, int)) error {
	b.logger.Info("starting batch scan",
		"targets", len(targets),
		"concurrency", b.concurrency,
	)
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			result, err := b.factory(target).Scan(gctx, target)
			if err != nil {
				// The result still carries partially collected findings;
				// sibling targets keep running unless the whole batch
				// context was cancelled.
				b.logger.Warn("scan ended early", "target", target, "error", err)
			}
			emit(result, i)
			return nil
		})
	}
	err := g.Wait()

	b.logger.Info("batch scan complete",
		"targets", len(targets),
		"elapsed", time.Since(started),
	)
	return err
}
