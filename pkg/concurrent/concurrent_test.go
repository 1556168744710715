package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallelMap(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		in := []int{1, 2, 3, 4, 5, 6, 7, 8}
		out, err := ParallelMap(context.Background(), in, 3, func(_ context.Context, v int) (int, error) {
			return v * v, nil
		})
		require.NoError(t, err)
		require.Equal(t, []int{1, 4, 9, 16, 25, 36, 49, 64}, out)
	})

	t.Run("respects worker limit", func(t *testing.T) {
		var running, peak int32
		in := make([]int, 32)
		_, err := ParallelMap(context.Background(), in, 2, func(_ context.Context, v int) (int, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			atomic.AddInt32(&running, -1)
			return v, nil
		})
		require.NoError(t, err)
		require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	})

	t.Run("returns first error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := ParallelMap(context.Background(), []int{1, 2, 3}, 1, func(_ context.Context, v int) (int, error) {
			if v == 2 {
				return 0, boom
			}
			return v, nil
		})
		require.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls int32
		_, err := ParallelMap(ctx, []int{1, 2, 3}, 2, func(_ context.Context, v int) (int, error) {
			atomic.AddInt32(&calls, 1)
			return v, nil
		})
		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("empty input", func(t *testing.T) {
		out, err := ParallelMap(context.Background(), []string{}, 0, func(_ context.Context, v string) (string, error) {
			return v, nil
		})
		require.NoError(t, err)
		require.Empty(t, out)
	})
}
