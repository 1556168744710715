package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelMap applies mapFn to every element of in on at most workers goroutines,
// preserving order in the returned slice. workers <= 0 means GOMAXPROCS.
// The first error returned by mapFn cancels the context handed to the remaining
// calls, and ParallelMap returns that error. Elements not yet started when ctx is
// done are skipped and ctx.Err() is returned.
func ParallelMap[T any, R any](ctx context.Context, in []T, workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]R, len(in))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for idx, val := range in {
		if err := gctx.Err(); err != nil {
			break
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := mapFn(gctx, val)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
