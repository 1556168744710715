package injector

import (
	"github.com/google/wire"

	"github.com/llamasearchai/llamaquest/internal/config"
	"github.com/llamasearchai/llamaquest/internal/core/dispatch"
	"github.com/llamasearchai/llamaquest/internal/core/events"
	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
	"github.com/llamasearchai/llamaquest/internal/core/systems/pathfinding"
	"github.com/llamasearchai/llamaquest/internal/core/systems/physics"
	"github.com/llamasearchai/llamaquest/internal/core/systems/visibility"
)

// Toolkit bundles every configured system for a host process.
type Toolkit struct {
	Config     *config.Config
	Logger     log.Log
	Events     events.Bus
	Pathfinder *pathfinding.Pathfinder
	Paths      *pathfinding.Cache
	Visibility *visibility.Calculator
	Physics    *physics.Zones
	Dispatcher *dispatch.Dispatcher
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEvents,
	ProvidePathfinder,
	ProvidePathCache,
	ProvideCalculator,
	ProvideZones,
	ProvideDispatcher,
	wire.Struct(new(Toolkit), "*"),
)

func ProvideLogger(cfg *config.Config) (log.Log, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideEvents(logger log.Log) events.Bus {
	bus := events.New()
	bus.AddObserver(events.NewLogObserver(logger))
	return bus
}

func ProvidePathfinder(cfg *config.Config, logger log.Log) (*pathfinding.Pathfinder, error) {
	return pathfinding.New(
		pathfinding.WithLogger(logger),
		pathfinding.WithMaxExplored(cfg.Pathfinding.MaxExploredNodes),
	)
}

func ProvidePathCache(cfg *config.Config, finder *pathfinding.Pathfinder) *pathfinding.Cache {
	return pathfinding.NewCache(finder, cfg.Pathfinding.CacheSize)
}

func ProvideCalculator(cfg *config.Config, logger log.Log) (*visibility.Calculator, error) {
	return visibility.New(
		visibility.WithLogger(logger),
		visibility.WithDefaultRadius(cfg.Visibility.DefaultRadius),
	)
}

func ProvideZones(cfg *config.Config) (*physics.Zones, error) {
	return physics.NewZones(cfg.Physics.Default, cfg.Physics.Zones)
}

func ProvideDispatcher(cfg *config.Config, paths *pathfinding.Cache, calc *visibility.Calculator, bus events.Bus, logger log.Log) (*dispatch.Dispatcher, error) {
	return dispatch.New(paths, calc,
		dispatch.WithLogger(logger),
		dispatch.WithEvents(bus),
		dispatch.WithWorkers(cfg.Dispatch.Workers),
		dispatch.WithTimeout(cfg.Dispatch.Timeout.Std()),
	)
}
