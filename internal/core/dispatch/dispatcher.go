// Package dispatch runs batches of path and field-of-view queries on a bounded
// worker pool, for hosts that offload the spatial systems from their game loop.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/events"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
	"github.com/llamasearchai/llamaquest/internal/core/systems/pathfinding"
	"github.com/llamasearchai/llamaquest/pkg/concurrent"
)

// PathFinder is satisfied by *pathfinding.Pathfinder and *pathfinding.Cache.
type PathFinder interface {
	FindPath(start, end grid.Coord, g *grid.Grid) (pathfinding.Path, error)
	FindPathWithBudget(start, end grid.Coord, g *grid.Grid, maxExplored int) (pathfinding.Path, error)
}

// FOVCalculator is satisfied by *visibility.Calculator.
type FOVCalculator interface {
	ComputeFOV(origin grid.Coord, radius int, obstacles *grid.Grid) (*grid.Grid, error)
	ComputeDefault(origin grid.Coord, obstacles *grid.Grid) (*grid.Grid, error)
}

// PathQuery asks for a path on Grid. MaxExplored > 0 overrides the finder's
// default node budget. An empty ID is replaced with a random UUID.
type PathQuery struct {
	ID          string
	Start, End  grid.Coord
	Grid        *grid.Grid
	MaxExplored int
}

type PathResult struct {
	ID      string
	Path    pathfinding.Path
	Err     error
	Elapsed time.Duration
}

// FOVQuery asks for the cells visible from Origin. A negative Radius uses the
// calculator's default.
type FOVQuery struct {
	ID     string
	Origin grid.Coord
	Radius int
	Grid   *grid.Grid
}

type FOVResult struct {
	ID      string
	Visible *grid.Grid
	Err     error
	Elapsed time.Duration
}

// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	finder  PathFinder
	fov     FOVCalculator
	workers int
	timeout time.Duration
	logger  log.Log
	bus     events.Bus
}

type Option func(*Dispatcher)

func WithLogger(logger log.Log) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithEvents publishes one event per query result on bus.
func WithEvents(bus events.Bus) Option {
	return func(d *Dispatcher) { d.bus = bus }
}

// WithWorkers bounds concurrent queries per batch. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) { d.workers = n }
}

// WithTimeout bounds every batch. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

func New(finder PathFinder, fov FOVCalculator, opts ...Option) (*Dispatcher, error) {
	if finder == nil || fov == nil {
		return nil, fmt.Errorf("dispatcher: missing path finder or fov calculator: %w", errs.ErrInvalidParameter)
	}
	d := &Dispatcher{finder: finder, fov: fov}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 0 || d.timeout < 0 {
		return nil, fmt.Errorf("dispatcher: workers %d, timeout %v: %w", d.workers, d.timeout, errs.ErrInvalidParameter)
	}
	d.logger = log.OrNop(d.logger).With(log.String("component", "dispatcher"))
	return d, nil
}

// FindPaths runs every query and returns results in input order. A failed query
// reports its error in PathResult.Err; only cancellation or the batch timeout
// fail the whole call.
func (d *Dispatcher) FindPaths(ctx context.Context, queries []PathQuery) ([]PathResult, error) {
	ctx, cancel := d.batchContext(ctx)
	defer cancel()

	batch := uuid.NewString()
	began := time.Now()
	results, err := concurrent.ParallelMap(ctx, queries, d.workers, func(_ context.Context, q PathQuery) (PathResult, error) {
		res := PathResult{ID: queryID(q.ID)}
		start := time.Now()
		if q.MaxExplored > 0 {
			res.Path, res.Err = d.finder.FindPathWithBudget(q.Start, q.End, q.Grid, q.MaxExplored)
		} else {
			res.Path, res.Err = d.finder.FindPath(q.Start, q.End, q.Grid)
		}
		res.Elapsed = time.Since(start)
		return res, nil
	})
	if err != nil {
		d.logger.Warn("Path batch aborted", log.String("batch", batch), log.Int("queries", len(queries)), log.Error(err))
		return nil, err
	}

	failed := 0
	for _, r := range results {
		typ := events.PathPlanned
		if r.Err != nil {
			failed++
			typ = events.PathFailed
		}
		d.publish(typ, r)
	}
	d.logger.Debug("Path batch done",
		log.String("batch", batch),
		log.Int("queries", len(queries)),
		log.Int("failed", failed),
		log.Duration("elapsed", time.Since(began)))
	return results, nil
}

// ComputeFOVs is FindPaths for visibility queries.
func (d *Dispatcher) ComputeFOVs(ctx context.Context, queries []FOVQuery) ([]FOVResult, error) {
	ctx, cancel := d.batchContext(ctx)
	defer cancel()

	batch := uuid.NewString()
	began := time.Now()
	results, err := concurrent.ParallelMap(ctx, queries, d.workers, func(_ context.Context, q FOVQuery) (FOVResult, error) {
		res := FOVResult{ID: queryID(q.ID)}
		start := time.Now()
		if q.Radius < 0 {
			res.Visible, res.Err = d.fov.ComputeDefault(q.Origin, q.Grid)
		} else {
			res.Visible, res.Err = d.fov.ComputeFOV(q.Origin, q.Radius, q.Grid)
		}
		res.Elapsed = time.Since(start)
		return res, nil
	})
	if err != nil {
		d.logger.Warn("FOV batch aborted", log.String("batch", batch), log.Int("queries", len(queries)), log.Error(err))
		return nil, err
	}
	for _, r := range results {
		if r.Err != nil {
			d.publish(events.FOVFailed, r)
		} else {
			d.publish(events.FOVComputed, r)
		}
	}
	d.logger.Debug("FOV batch done",
		log.String("batch", batch),
		log.Int("queries", len(queries)),
		log.Duration("elapsed", time.Since(began)))
	return results, nil
}

// publish never fails a batch; handler errors are only logged.
func (d *Dispatcher) publish(typ string, result any) {
	if d.bus == nil {
		return
	}
	if err := d.bus.Publish(events.NewEvent(typ, "dispatcher", result)); err != nil {
		d.logger.Warn("Result handler failed", log.String("type", typ), log.Error(err))
	}
}

func (d *Dispatcher) batchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout > 0 {
		return context.WithTimeout(ctx, d.timeout)
	}
	return context.WithCancel(ctx)
}

func queryID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
