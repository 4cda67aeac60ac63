package imagecache

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds parallel fetches when the caller does not choose.
const DefaultWorkers = 4

// ResolveAll resolves every request with at most workers parallel fetches.
// Results come back in request order regardless of completion order, so
// parallelism can never change the layout. Individual failures are carried
// in the result slice; the only error returned is context cancellation.
func (f *Fetcher) ResolveAll(ctx context.Context, reqs []Request, workers int) ([]Resolution, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}

	results := make([]Resolution, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, req := range reqs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			// Failures stay in the result, not the group: one bad
			// image must not cancel the remaining fetches.
			results[i] = f.Resolve(ctx, req.SKU, req.Ref)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
