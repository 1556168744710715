package pathfinding

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
)

func TestPathfinder(t *testing.T) {
	t.Run("rejects negative default budget", func(t *testing.T) {
		_, err := New(WithMaxExplored(-5))
		require.ErrorIs(t, err, errs.ErrInvalidParameter)
	})

	t.Run("default budget applies", func(t *testing.T) {
		p, err := New(WithMaxExplored(1))
		require.NoError(t, err)
		require.Equal(t, 1, p.MaxExplored())

		g := open(t, 4, 4)
		_, err = p.FindPath(grid.C(0, 0), grid.C(3, 3), g)
		require.ErrorIs(t, err, errs.ErrSearchBudgetExceeded)

		path, err := p.FindPathWithBudget(grid.C(0, 0), grid.C(3, 3), g, Unbounded)
		require.NoError(t, err)
		require.Len(t, path, 4)
	})

	t.Run("logs failures with their kind", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		p, err := New(WithLogger(log.NewFromZap(zap.New(core), log.LevelDebug)))
		require.NoError(t, err)

		g := walkable(t, ".#.")
		_, err = p.FindPath(grid.C(0, 0), grid.C(2, 0), g)
		require.ErrorIs(t, err, errs.ErrNoPathFound)

		entries := logs.FilterMessage("Path search failed").All()
		require.Len(t, entries, 1)
		ctx := entries[0].ContextMap()
		require.Equal(t, "pathfinder", ctx["component"])
		require.Equal(t, "no_path_found", ctx["kind"])
		require.Equal(t, "(0,0)", ctx["start"])
	})

	t.Run("concurrent callers share one instance", func(t *testing.T) {
		p, err := New()
		require.NoError(t, err)
		g := walkable(t,
			"..........",
			".########.",
			"..........",
			".########.",
			"..........",
		)
		want, err := p.FindPath(grid.C(0, 0), grid.C(9, 4), g)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([]Path, 16)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], _ = p.FindPath(grid.C(0, 0), grid.C(9, 4), g)
			}()
		}
		wg.Wait()
		for _, got := range results {
			require.Equal(t, want, got)
		}
	})
}

func TestCache(t *testing.T) {
	finder, err := New()
	require.NoError(t, err)

	t.Run("hits on identical grid content", func(t *testing.T) {
		c := NewCache(finder, 4)
		a := open(t, 5, 5)
		b := open(t, 5, 5)

		p1, err := c.FindPath(grid.C(0, 0), grid.C(4, 4), a)
		require.NoError(t, err)
		p2, err := c.FindPath(grid.C(0, 0), grid.C(4, 4), b)
		require.NoError(t, err)
		require.Equal(t, p1, p2)
		require.Equal(t, CacheStats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())

		p2[0] = grid.C(3, 3)
		p3, _ := c.FindPath(grid.C(0, 0), grid.C(4, 4), a)
		require.Equal(t, grid.C(0, 0), p3[0])
	})

	t.Run("misses after grid change", func(t *testing.T) {
		c := NewCache(finder, 4)
		g := open(t, 5, 5)
		_, err := c.FindPath(grid.C(0, 0), grid.C(4, 4), g)
		require.NoError(t, err)

		g.Set(grid.C(2, 2), false)
		p, err := c.FindPath(grid.C(0, 0), grid.C(4, 4), g)
		require.NoError(t, err)
		require.NotContains(t, p, grid.C(2, 2))
		require.Equal(t, uint64(2), c.Stats().Misses)
	})

	t.Run("memoizes failures", func(t *testing.T) {
		c := NewCache(finder, 4)
		g := walkable(t, ".#.")
		_, err := c.FindPath(grid.C(0, 0), grid.C(2, 0), g)
		require.ErrorIs(t, err, errs.ErrNoPathFound)
		_, err = c.FindPath(grid.C(0, 0), grid.C(2, 0), g)
		require.ErrorIs(t, err, errs.ErrNoPathFound)
		require.Equal(t, uint64(1), c.Stats().Hits)
	})

	t.Run("evicts oldest", func(t *testing.T) {
		c := NewCache(finder, 2)
		g := open(t, 4, 4)
		for x := 1; x <= 3; x++ {
			_, err := c.FindPath(grid.C(0, 0), grid.C(x, 0), g)
			require.NoError(t, err)
		}
		require.Equal(t, 2, c.Stats().Entries)

		_, _ = c.FindPath(grid.C(0, 0), grid.C(1, 0), g)
		require.Equal(t, uint64(0), c.Stats().Hits)

		c.Purge()
		require.Zero(t, c.Stats().Entries)
	})

	t.Run("disabled", func(t *testing.T) {
		c := NewCache(finder, 0)
		g := open(t, 3, 3)
		_, _ = c.FindPath(grid.C(0, 0), grid.C(2, 2), g)
		_, _ = c.FindPath(grid.C(0, 0), grid.C(2, 2), g)
		require.Equal(t, CacheStats{}, c.Stats())
	})
}
