package stationreduce

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Executor names accepted by NewExecutor.
const (
	ExecutorParallel   = "parallel"
	ExecutorSequential = "sequential"
)

// ChunkFunc aggregates the lines of one chunk into a frozen partial.
type ChunkFunc func(ctx context.Context, index int, r ByteRange) (*Partial, error)

// MergeFunc consumes a finished partial. An Executor calls it from a single
// goroutine only, in completion order.
type MergeFunc func(index int, p *Partial) error

// Executor runs a ChunkFunc over every range and hands each partial to merge.
//
// Implementations differ only in scheduling; any error from fn or merge stops
// the run and is returned, and the caller must discard whatever was merged.
type Executor interface {
	Run(ctx context.Context, ranges []ByteRange, fn ChunkFunc, merge MergeFunc) error
	Description() string
}

// NewExecutor returns the executor registered under name.
func NewExecutor(name string, workers int) (Executor, error) {
	if workers < 1 {
		return nil, ErrInvalidWorkers
	}

	switch name {
	case ExecutorParallel, "":
		return Parallel{Workers: workers}, nil
	case ExecutorSequential:
		return Sequential{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExecutor, name)
	}
}

// Sequential runs every chunk inline on the calling goroutine.
type Sequential struct{}

// Run implements Executor.
func (Sequential) Run(ctx context.Context, ranges []ByteRange, fn ChunkFunc, merge MergeFunc) error {
	for i, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := fn(ctx, i, r)
		if err != nil {
			return err
		}
		if err := merge(i, p); err != nil {
			return err
		}
	}

	return nil
}

func (Sequential) Description() string {
	return "runs chunks one after another on a single goroutine"
}

// Parallel runs up to Workers chunks at once. Partials are merged on the
// calling goroutine as soon as each one completes.
type Parallel struct {
	Workers int
}

type chunkResult struct {
	partial *Partial
	index   int
}

// Run implements Executor.
func (e Parallel) Run(ctx context.Context, ranges []ByteRange, fn ChunkFunc, merge MergeFunc) error {
	workers := max(e.Workers, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make(chan chunkResult, workers)

	go func() {
		defer close(results)

		for i, r := range ranges {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				p, err := fn(gctx, i, r)
				if err != nil {
					return fmt.Errorf("chunk %d %s: %w", i, r, err)
				}

				select {
				case results <- chunkResult{partial: p, index: i}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}

		// Wait's error is collected again below; this call only gates close(results).
		_ = g.Wait()
	}()

	var mergeErr error
	for res := range results {
		if mergeErr != nil {
			continue
		}
		if err := merge(res.index, res.partial); err != nil {
			mergeErr = fmt.Errorf("merge chunk %d: %w", res.index, err)
			cancel()
		}
	}

	waitErr := g.Wait()
	if mergeErr != nil {
		return mergeErr
	}

	if waitErr != nil {
		return waitErr
	}

	return ctx.Err()
}

func (e Parallel) Description() string {
	return fmt.Sprintf("runs up to %d chunks concurrently and merges in completion order", e.Workers)
}
