package grid

import (
	"fmt"
	"math"
)

// Coord addresses a cell. It is only meaningful relative to a Grid's bounds.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord { return Coord{X: x, Y: y} }

func (c Coord) Add(dx, dy int) Coord { return Coord{X: c.X + dx, Y: c.Y + dy} }

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Chebyshev is the number of king moves between c and o.
func (c Coord) Chebyshev(o Coord) int {
	dx, dy := absDelta(c, o)
	return max(dx, dy)
}

// Octile is the cost of the cheapest 8-directional route between c and o on an
// open grid, with orthogonal steps costing 1 and diagonal steps √2.
func (c Coord) Octile(o Coord) float64 {
	dx, dy := absDelta(c, o)
	lo, hi := min(dx, dy), max(dx, dy)
	return float64(hi) + (math.Sqrt2-1)*float64(lo)
}

func absDelta(a, b Coord) (int, int) {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx, dy
}
