package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gnana997/uilint/pkg/styles"
	"github.com/gnana997/uilint/pkg/util"
)

type fileJob struct {
	index int
	path  string
}

type fileResult struct {
	index    int
	snapshot *Snapshot
	err      error
}

// CaptureAll captures every file in paths on a worker pool and aggregates the
// results into one snapshot: styles are merged in path order, element counts
// summed, and the markup of the first captured file kept.
//
// Files that fail are logged and skipped; their errors are joined into the
// returned error. The snapshot is nil only when no file could be captured.
func CaptureAll(ctx context.Context, paths []string, opts Options) (*Snapshot, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to capture")
	}

	logger := opts.logger()
	numWorkers := util.GetOptimalPoolSizeWithOverride(opts.Workers)
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	jobs := make(chan fileJob, numWorkers*2)
	results := make(chan fileResult, numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				snap, err := captureFile(job.path, opts)
				select {
				case results <- fileResult{index: job.index, snapshot: snap, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case jobs <- fileJob{index: i, path: p}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]fileResult, len(paths))
	received := 0
	for r := range results {
		collected[r.index] = r
		received++
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("capture cancelled after %d of %d files: %w", received, len(paths), err)
	}

	agg := &Snapshot{Styles: styles.NewExtractedStyles(), Timestamp: opts.now()}
	var errs []error
	captured := 0
	for i, r := range collected {
		if r.err != nil {
			logger.Warn("skipping file", "path", paths[i], "error", r.err)
			errs = append(errs, r.err)
			continue
		}
		if captured == 0 {
			agg.HTML = r.snapshot.HTML
		}
		agg.Styles.Merge(r.snapshot.Styles)
		agg.ElementCount += r.snapshot.ElementCount
		captured++
	}

	logger.Info("captured files", "files", captured, "failed", len(errs), "workers", numWorkers)

	if captured == 0 {
		return nil, errors.Join(errs...)
	}
	return agg, errors.Join(errs...)
}

func captureFile(path string, opts Options) (*Snapshot, error) {
	in, err := FromFile(path)
	if err != nil {
		return nil, err
	}
	snap, err := Capture(in, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
