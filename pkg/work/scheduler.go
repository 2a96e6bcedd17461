// Package work runs one audit task per dependency entry with a fixed
// concurrency ceiling.
package work

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the scheduler's admission ceiling when none is configured.
const DefaultLimit = 10

// RunAll executes task once per index in [0, n) with at most limit tasks in
// flight at any instant. Result slots are pre-allocated by submission index,
// so the returned slice preserves submission order regardless of completion
// order. A failing task does not cancel siblings already in flight; RunAll
// waits for everything to settle and returns the first error.
func RunAll[T any](ctx context.Context, n, limit int, task func(ctx context.Context, i int) (T, error)) ([]T, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]T, n)

	// Plain errgroup rather than WithContext: a task failure must not
	// propagate cancellation into sibling fetches.
	var g errgroup.Group
	g.SetLimit(limit)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			res, err := task(ctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
