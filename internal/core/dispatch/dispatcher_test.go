package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/events"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/systems/pathfinding"
	"github.com/llamasearchai/llamaquest/internal/core/systems/visibility"
)

func openGrid(t *testing.T, w, h int) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(grid.C(x, y), true)
		}
	}
	return g
}

func newDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()
	finder, err := pathfinding.New(pathfinding.WithMaxExplored(500))
	require.NoError(t, err)
	calc, err := visibility.New(visibility.WithDefaultRadius(1))
	require.NoError(t, err)
	d, err := New(finder, calc, opts...)
	require.NoError(t, err)
	return d
}

type slowFinder struct {
	delay time.Duration
}

func (s slowFinder) FindPath(start, end grid.Coord, g *grid.Grid) (pathfinding.Path, error) {
	return s.FindPathWithBudget(start, end, g, 0)
}

func (s slowFinder) FindPathWithBudget(start, _ grid.Coord, _ *grid.Grid, _ int) (pathfinding.Path, error) {
	time.Sleep(s.delay)
	return pathfinding.Path{start}, nil
}

func TestNew(t *testing.T) {
	calc, err := visibility.New()
	require.NoError(t, err)

	_, err = New(nil, calc)
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = New(slowFinder{}, calc, WithWorkers(-1))
	require.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = New(slowFinder{}, calc, WithTimeout(-time.Second))
	require.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestFindPaths(t *testing.T) {
	d := newDispatcher(t, WithWorkers(3))
	g := openGrid(t, 10, 10)
	walled, err := grid.Parse([]string{".#.", ".#.", ".#."}, '.')
	require.NoError(t, err)

	queries := []PathQuery{
		{ID: "diag", Start: grid.C(0, 0), End: grid.C(9, 9), Grid: g},
		{ID: "blocked", Start: grid.C(0, 0), End: grid.C(2, 2), Grid: walled},
		{Start: grid.C(9, 0), End: grid.C(0, 0), Grid: g},
		{ID: "budget", Start: grid.C(0, 0), End: grid.C(9, 9), Grid: g, MaxExplored: 2},
		{ID: "oob", Start: grid.C(0, 0), End: grid.C(20, 0), Grid: g},
	}
	results, err := d.FindPaths(context.Background(), queries)
	require.NoError(t, err)
	require.Len(t, results, len(queries))

	require.Equal(t, "diag", results[0].ID)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Path, 10)

	require.ErrorIs(t, results[1].Err, errs.ErrNoPathFound)

	_, err = uuid.Parse(results[2].ID)
	require.NoError(t, err, "generated id")
	require.Len(t, results[2].Path, 10)

	require.ErrorIs(t, results[3].Err, errs.ErrSearchBudgetExceeded)
	require.ErrorIs(t, results[4].Err, errs.ErrInvalidCoordinate)

	empty, err := d.FindPaths(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestComputeFOVs(t *testing.T) {
	d := newDispatcher(t)
	g, err := grid.New(5, 5)
	require.NoError(t, err)

	results, err := d.ComputeFOVs(context.Background(), []FOVQuery{
		{ID: "default", Origin: grid.C(2, 2), Radius: -1, Grid: g},
		{ID: "wide", Origin: grid.C(2, 2), Radius: 2, Grid: g},
		{ID: "bad", Origin: grid.C(7, 2), Radius: 2, Grid: g},
	})
	require.NoError(t, err)
	require.Equal(t, 5, results[0].Visible.Count())
	require.Equal(t, 13, results[1].Visible.Count())
	require.ErrorIs(t, results[2].Err, errs.ErrInvalidCoordinate)
	require.Nil(t, results[2].Visible)
}

func TestDispatcher_PublishesResults(t *testing.T) {
	bus := events.New()
	var got []string
	record := func(e events.Event) error {
		switch r := e.Data().(type) {
		case PathResult:
			got = append(got, e.Type()+":"+r.ID)
		case FOVResult:
			got = append(got, e.Type()+":"+r.ID)
		}
		return nil
	}
	for _, typ := range []string{events.PathPlanned, events.PathFailed, events.FOVComputed, events.FOVFailed} {
		_, err := bus.Subscribe(typ, record)
		require.NoError(t, err)
	}
	d := newDispatcher(t, WithEvents(bus))
	g := openGrid(t, 4, 4)

	_, err := d.FindPaths(context.Background(), []PathQuery{
		{ID: "ok", Start: grid.C(0, 0), End: grid.C(3, 3), Grid: g},
		{ID: "oob", Start: grid.C(0, 0), End: grid.C(9, 9), Grid: g},
	})
	require.NoError(t, err)
	_, err = d.ComputeFOVs(context.Background(), []FOVQuery{
		{ID: "eye", Origin: grid.C(1, 1), Radius: 2, Grid: g},
		{ID: "blind", Origin: grid.C(1, 1), Radius: 2},
	})
	require.NoError(t, err)

	require.Equal(t, []string{
		"path.planned:ok",
		"path.failed:oob",
		"fov.computed:eye",
		"fov.failed:blind",
	}, got)
}

func TestDispatcher_Cancellation(t *testing.T) {
	calc, err := visibility.New()
	require.NoError(t, err)
	queries := make([]PathQuery, 10)

	t.Run("cancelled context", func(t *testing.T) {
		d, err := New(slowFinder{}, calc)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = d.FindPaths(ctx, queries)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("batch timeout", func(t *testing.T) {
		d, err := New(slowFinder{delay: 50 * time.Millisecond}, calc,
			WithWorkers(1), WithTimeout(20*time.Millisecond))
		require.NoError(t, err)
		_, err = d.FindPaths(context.Background(), queries)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
