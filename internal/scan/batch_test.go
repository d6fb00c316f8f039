package scan

import (
	"context"
	"sync"
	"testing"

	"github.com/clonescan/clonescan/internal/model"
)

// TestBatchRun tests concurrent multi-target scanning.
func TestBatchRun(t *testing.T) {
	t.Parallel()

	t.Run("one unreachable target never aborts its siblings", func(t *testing.T) {
		t.Parallel()

		const page = "<html><body>batch page</body></html>"
		hosts := hostMap{}
		hosts.serve(t, "alive.com", page)
		hosts.serve(t, "alive-clone.com", page)

		factory := func(string) *Orchestrator {
			src := &stubSource{candidates: []model.Candidate{{Domain: "alive-clone.com"}}}
			return New(hosts.fetcher(), src, 0.9)
		}
		b := NewBatch(factory, WithBatchConcurrency(2))

		results := b.Run(context.Background(), []string{"dead.com", "alive.com"})
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if len(results[0].Findings) != 0 {
			t.Errorf("dead target: expected no findings, got %d", len(results[0].Findings))
		}
		if len(results[1].Findings) != 1 {
			t.Errorf("alive target: expected 1 finding, got %d", len(results[1].Findings))
		}
	})

	t.Run("results are ordered by input position", func(t *testing.T) {
		t.Parallel()

		const page = "<html><body>ordered batch</body></html>"
		hosts := hostMap{}
		targets := []string{"t0.com", "t1.com", "t2.com", "t3.com"}
		for _, target := range targets {
			hosts.serve(t, target, page)
		}

		factory := func(string) *Orchestrator {
			return New(hosts.fetcher(), &stubSource{}, 0.9)
		}
		b := NewBatch(factory, WithBatchConcurrency(4))

		results := b.Run(context.Background(), targets)
		for i, r := range results {
			if r.Target != targets[i] {
				t.Errorf("result %d: got %q, expected %q", i, r.Target, targets[i])
			}
		}
	})

	t.Run("callback fires once per target", func(t *testing.T) {
		t.Parallel()

		const page = "<html><body>callback page</body></html>"
		hosts := hostMap{}
		hosts.serve(t, "cb.com", page)

		factory := func(string) *Orchestrator {
			return New(hosts.fetcher(), &stubSource{}, 0.9)
		}
		b := NewBatch(factory)

		var mu sync.Mutex
		seen := make(map[int]string)
		err := b.RunWithCallback(context.Background(), []string{"cb.com", "missing.com"}, func(r *model.ScanResult, i int) {
			mu.Lock()
			defer mu.Unlock()
			seen[i] = r.Target
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(seen) != 2 {
			t.Fatalf("expected 2 callbacks, got %d", len(seen))
		}
		if seen[0] != "cb.com" || seen[1] != "missing.com" {
			t.Errorf("callback targets: %v", seen)
		}
	})

	t.Run("cancelled context fills remaining results", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		factory := func(string) *Orchestrator {
			return New(hostMap{}.fetcher(), &stubSource{}, 0.9)
		}
		b := NewBatch(factory, WithBatchConcurrency(1))

		results := b.Run(ctx, []string{"a.com", "b.com", "c.com"})
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		for i, r := range results {
			if r == nil {
				t.Errorf("result %d is nil", i)
			}
		}
	})
}
