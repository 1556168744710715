package visibility

import (
	"fmt"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
)

const DefaultRadius = 8

// Calculator wraps ComputeFOV with a default radius and a logger.
// It is immutable after New and safe for concurrent use.
type Calculator struct {
	logger        log.Log
	defaultRadius int
}

type Option func(*Calculator)

func WithLogger(logger log.Log) Option {
	return func(c *Calculator) { c.logger = logger }
}

func WithDefaultRadius(radius int) Option {
	return func(c *Calculator) { c.defaultRadius = radius }
}

func New(opts ...Option) (*Calculator, error) {
	c := &Calculator{defaultRadius: DefaultRadius}
	for _, opt := range opts {
		opt(c)
	}
	if c.defaultRadius < 0 {
		return nil, fmt.Errorf("visibility: default radius %d: %w", c.defaultRadius, errs.ErrInvalidParameter)
	}
	c.logger = log.OrNop(c.logger).With(log.String("component", "visibility"))
	return c, nil
}

func (c *Calculator) DefaultRadius() int { return c.defaultRadius }

func (c *Calculator) ComputeFOV(origin grid.Coord, radius int, obstacles *grid.Grid) (*grid.Grid, error) {
	visible, err := ComputeFOV(origin, radius, obstacles)
	if err != nil {
		c.logger.Debug("FOV rejected",
			log.Stringer("origin", origin),
			log.Int("radius", radius),
			log.String("kind", errs.Kind(err)),
			log.Error(err))
		return nil, err
	}
	return visible, nil
}

// ComputeDefault is ComputeFOV with the calculator's default radius.
func (c *Calculator) ComputeDefault(origin grid.Coord, obstacles *grid.Grid) (*grid.Grid, error) {
	return c.ComputeFOV(origin, c.defaultRadius, obstacles)
}
