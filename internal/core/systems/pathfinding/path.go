package pathfinding

import (
	"math"

	"github.com/llamasearchai/llamaquest/internal/core/grid"
)

// Path is an ordered walk from start to end where consecutive cells are 8-adjacent.
type Path []grid.Coord

func (p Path) Len() int { return len(p) }

// Cost sums step costs: 1 per orthogonal step, √2 per diagonal step.
func (p Path) Cost() float64 {
	cost := 0.0
	for i := 1; i < len(p); i++ {
		if p[i].X != p[i-1].X && p[i].Y != p[i-1].Y {
			cost += math.Sqrt2
		} else {
			cost++
		}
	}
	return cost
}

func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Start returns the first cell, or false for an empty path.
func (p Path) Start() (grid.Coord, bool) {
	if len(p) == 0 {
		return grid.Coord{}, false
	}
	return p[0], true
}

// End returns the last cell, or false for an empty path.
func (p Path) End() (grid.Coord, bool) {
	if len(p) == 0 {
		return grid.Coord{}, false
	}
	return p[len(p)-1], true
}
