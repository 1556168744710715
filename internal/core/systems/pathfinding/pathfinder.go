package pathfinding

import (
	"fmt"
	"time"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
)

// Pathfinder carries a default node budget and a logger around FindPath.
// It is immutable after New and safe for concurrent use.
type Pathfinder struct {
	logger      log.Log
	maxExplored int
}

type Option func(*Pathfinder)

func WithLogger(logger log.Log) Option {
	return func(p *Pathfinder) { p.logger = logger }
}

// WithMaxExplored sets the budget used by FindPath. Unbounded by default.
func WithMaxExplored(n int) Option {
	return func(p *Pathfinder) { p.maxExplored = n }
}

func New(opts ...Option) (*Pathfinder, error) {
	p := &Pathfinder{maxExplored: Unbounded}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxExplored < 0 {
		return nil, fmt.Errorf("pathfinder: max explored %d: %w", p.maxExplored, errs.ErrInvalidParameter)
	}
	p.logger = log.OrNop(p.logger).With(log.String("component", "pathfinder"))
	return p, nil
}

// MaxExplored returns the default node budget.
func (p *Pathfinder) MaxExplored() int { return p.maxExplored }

func (p *Pathfinder) FindPath(start, end grid.Coord, g *grid.Grid) (Path, error) {
	return p.FindPathWithBudget(start, end, g, p.maxExplored)
}

func (p *Pathfinder) FindPathWithBudget(start, end grid.Coord, g *grid.Grid, maxExplored int) (Path, error) {
	began := time.Now()
	path, explored, err := findPath(start, end, g, maxExplored)
	if err != nil {
		p.logger.Debug("Path search failed",
			log.Stringer("start", start),
			log.Stringer("end", end),
			log.Int("explored", explored),
			log.String("kind", errs.Kind(err)),
			log.Error(err))
		return nil, err
	}
	p.logger.Debug("Path found",
		log.Stringer("start", start),
		log.Stringer("end", end),
		log.Int("length", len(path)),
		log.Int("explored", explored),
		log.Duration("elapsed", time.Since(began)))
	return path, nil
}
