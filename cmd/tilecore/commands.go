package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/llamasearchai/llamaquest/internal/core/events"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
	"github.com/llamasearchai/llamaquest/internal/core/systems/pathfinding"
	"github.com/llamasearchai/llamaquest/internal/core/world"
	"github.com/llamasearchai/llamaquest/pkg/encoding"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func runPath(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("path")
	mapPath := fs.String("map", "", "map file")
	from := fs.String("from", "", "start cell as x,y")
	to := fs.String("to", "", "goal cell as x,y")
	budget := fs.Int("budget", 0, "node budget, 0 uses the configured default")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := parseCoord(*from)
	if err != nil {
		return fmt.Errorf("-from: %w", err)
	}
	end, err := parseCoord(*to)
	if err != nil {
		return fmt.Errorf("-to: %w", err)
	}
	m, err := world.LoadFile(*mapPath)
	if err != nil {
		return err
	}
	return a.plan(m, start, end, *budget)
}

func (a *app) plan(m *world.TileMap, start, end grid.Coord, budget int) error {
	walk, err := m.WalkabilityGrid()
	if err != nil {
		return err
	}
	var path pathfinding.Path
	if budget > 0 {
		path, err = a.tk.Paths.FindPathWithBudget(start, end, walk, budget)
	} else {
		path, err = a.tk.Paths.FindPath(start, end, walk)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, renderPath(m, path))
	fmt.Fprintf(a.stdout, "length %d cost %.3f\n", path.Len(), path.Cost())
	return nil
}

func runFOV(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("fov")
	mapPath := fs.String("map", "", "map file")
	at := fs.String("at", "", "origin cell as x,y")
	radius := fs.Int("radius", -1, "view radius, negative uses the configured default")
	if err := fs.Parse(args); err != nil {
		return err
	}
	origin, err := parseCoord(*at)
	if err != nil {
		return fmt.Errorf("-at: %w", err)
	}
	m, err := world.LoadFile(*mapPath)
	if err != nil {
		return err
	}
	obstacles, err := m.ObstacleGrid()
	if err != nil {
		return err
	}

	var visible *grid.Grid
	if *radius < 0 {
		visible, err = a.tk.Visibility.ComputeDefault(origin, obstacles)
	} else {
		visible, err = a.tk.Visibility.ComputeFOV(origin, *radius, obstacles)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, renderFOV(m, visible, origin))
	fmt.Fprintf(a.stdout, "visible %d\n", visible.Count())
	return nil
}

func runTrajectory(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("trajectory")
	pos := fs.String("pos", "0,0", "start position as x,y")
	vel := fs.String("vel", "0,0", "start velocity as x,y")
	steps := fs.Int("steps", 10, "number of steps")
	dt := fs.Float64("dt", 0.1, "step length in seconds")
	zone := fs.String("zone", "", "physics zone, empty uses the default")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := parseVec(*pos)
	if err != nil {
		return fmt.Errorf("-pos: %w", err)
	}
	v, err := parseVec(*vel)
	if err != nil {
		return fmt.Errorf("-vel: %w", err)
	}
	points, err := a.tk.Physics.Get(*zone).PredictTrajectory(start, v, *steps, *dt)
	if err != nil {
		return err
	}
	return encoding.Encode(a.stdout, encoding.FormatJSON, points)
}

func runDungeon(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("dungeon")
	name := fs.String("name", "dungeon", "map name")
	width := fs.Int("w", 64, "map width")
	height := fs.Int("h", 40, "map height")
	seed := fs.Int64("seed", 1, "random seed")
	rooms := fs.Int("rooms", world.DefaultDungeonOptions().Rooms, "room placement attempts")
	out := fs.String("out", "", "write the map to this .json/.yaml file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts := world.DefaultDungeonOptions()
	opts.Rooms = *rooms

	m, placed, err := world.GenerateDungeon(*name, *width, *height, opts, rand.New(rand.NewSource(*seed)))
	if err != nil {
		return err
	}
	a.tk.Logger.Info("Dungeon generated",
		log.String("name", m.Name),
		log.Int("rooms", len(placed)),
		log.Int64("seed", *seed))
	if *out == "" {
		_, err = fmt.Fprintln(a.stdout, m.String())
		return err
	}
	return world.SaveFile(*out, m)
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("watch")
	mapPath := fs.String("map", "", "map file")
	from := fs.String("from", "", "start cell as x,y")
	to := fs.String("to", "", "goal cell as x,y")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := parseCoord(*from)
	if err != nil {
		return fmt.Errorf("-from: %w", err)
	}
	end, err := parseCoord(*to)
	if err != nil {
		return fmt.Errorf("-to: %w", err)
	}

	m, err := world.LoadFile(*mapPath)
	if err != nil {
		return err
	}
	w, err := world.NewWatcher(a.tk.Logger, *mapPath)
	if err != nil {
		return err
	}
	defer w.Close()

	sub, err := a.tk.Events.Subscribe(events.MapReloaded, a.replanOnReload(start, end))
	if err != nil {
		return err
	}
	defer sub.Cancel()

	a.replan(m, start, end)
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-w.Updates:
			if !ok {
				return nil
			}
			_ = a.tk.Events.Publish(events.NewEvent(events.MapReloaded, "watch", u))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.tk.Logger.Warn("Watch error", log.Error(err))
			_ = a.tk.Events.Publish(events.NewEvent(events.MapRejected, "watch", err))
		}
	}
}

func (a *app) replanOnReload(start, end grid.Coord) events.Handler {
	return func(e events.Event) error {
		u, ok := e.Data().(world.Update)
		if !ok || u.Map == nil {
			return fmt.Errorf("%s from %s: unexpected payload %T", e.Type(), e.Source(), e.Data())
		}
		a.replan(u.Map, start, end)
		return nil
	}
}

// replan keeps watching after a failed plan; the next edit may fix the map.
func (a *app) replan(m *world.TileMap, start, end grid.Coord) {
	if err := a.plan(m, start, end, 0); err != nil {
		fmt.Fprintf(a.stdout, "no plan: %v\n", err)
	}
}

func parseCoord(s string) (grid.Coord, error) {
	x, y, err := parsePair(s, strconv.Atoi)
	return grid.C(x, y), err
}

func parseVec(s string) (mgl64.Vec2, error) {
	x, y, err := parsePair(s, func(p string) (float64, error) { return strconv.ParseFloat(p, 64) })
	return mgl64.Vec2{x, y}, err
}

func parsePair[T any](s string, parse func(string) (T, error)) (T, T, error) {
	var zero T
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return zero, zero, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := parse(strings.TrimSpace(xs))
	if err != nil {
		return zero, zero, err
	}
	y, err := parse(strings.TrimSpace(ys))
	if err != nil {
		return zero, zero, err
	}
	return x, y, nil
}
