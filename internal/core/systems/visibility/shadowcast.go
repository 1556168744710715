// Package visibility computes field of view on an obstacle grid with symmetric
// shadowcasting. Slopes are kept as exact integer fractions, so results do not
// depend on floating point rounding.
package visibility

import (
	"fmt"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/pkg/generic"
)

// octant maps (depth, col) to grid offsets: dx = col*xx + depth*xy, dy = col*yx + depth*yy.
// Each scans columns 0..depth away from its primary axis.
type octant struct {
	xx, xy, yx, yy int
}

var octants = [8]octant{
	{1, 0, 0, -1},  // north, east side
	{-1, 0, 0, -1}, // north, west side
	{1, 0, 0, 1},   // south, east side
	{-1, 0, 0, 1},  // south, west side
	{0, 1, 1, 0},   // east, south side
	{0, 1, -1, 0},  // east, north side
	{0, -1, 1, 0},  // west, south side
	{0, -1, -1, 0}, // west, north side
}

// fraction is n/d with d > 0.
type fraction struct {
	n, d int
}

// row is a run of cells at one depth bounded by two slopes.
type row struct {
	depth      int
	start, end fraction
}

// tileSlope is the slope of the left edge of the cell at col.
func tileSlope(depth, col int) fraction {
	return fraction{n: 2*col - 1, d: 2 * depth}
}

// minCol rounds depth*start half up.
func (r row) minCol() int {
	return floorDiv(2*r.depth*r.start.n+r.start.d, 2*r.start.d)
}

// maxCol rounds depth*end half down.
func (r row) maxCol() int {
	return ceilDiv(2*r.depth*r.end.n-r.end.d, 2*r.end.d)
}

// symmetric reports whether the centre of the cell at col lies inside the row's sector.
func (r row) symmetric(col int) bool {
	return col*r.start.d >= r.depth*r.start.n && col*r.end.d <= r.depth*r.end.n
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

var stacks = generic.NewResetPool(
	func() *[]row {
		s := make([]row, 0, 64)
		return &s
	},
	func(s *[]row) { *s = (*s)[:0] },
)

// ComputeFOV returns a grid of obstacles' size marking every cell visible from
// origin within Euclidean distance radius. Opaque cells are visible but shadow
// the cells behind them. The origin is always visible. Cells outside the grid
// count as transparent and are never marked.
func ComputeFOV(origin grid.Coord, radius int, obstacles *grid.Grid) (*grid.Grid, error) {
	if obstacles == nil {
		return nil, fmt.Errorf("fov: nil obstacle grid: %w", errs.ErrMalformedGrid)
	}
	if !obstacles.InBounds(origin) {
		return nil, fmt.Errorf("fov: origin %v outside %dx%d grid: %w",
			origin, obstacles.Width(), obstacles.Height(), errs.ErrInvalidCoordinate)
	}
	if radius < 0 {
		return nil, fmt.Errorf("fov: radius %d: %w", radius, errs.ErrInvalidParameter)
	}

	visible, err := grid.New(obstacles.Width(), obstacles.Height())
	if err != nil {
		return nil, err
	}
	visible.Set(origin, true)

	stack := stacks.Get()
	defer stacks.Put(stack)

	for _, oct := range octants {
		c := caster{
			oct:       oct,
			origin:    origin,
			radius:    radius,
			obstacles: obstacles,
			visible:   visible,
			maxDepth:  min(radius, depthToEdge(oct, origin, obstacles)),
		}
		c.run(stack)
	}
	return visible, nil
}

// depthToEdge is the last depth along the octant's primary axis that is still inside g.
func depthToEdge(oct octant, origin grid.Coord, g *grid.Grid) int {
	switch {
	case oct.yy < 0:
		return origin.Y
	case oct.yy > 0:
		return g.Height() - 1 - origin.Y
	case oct.xy > 0:
		return g.Width() - 1 - origin.X
	default:
		return origin.X
	}
}

type caster struct {
	oct       octant
	origin    grid.Coord
	radius    int
	maxDepth  int
	obstacles *grid.Grid
	visible   *grid.Grid
}

func (c *caster) cell(depth, col int) grid.Coord {
	return grid.Coord{
		X: c.origin.X + col*c.oct.xx + depth*c.oct.xy,
		Y: c.origin.Y + col*c.oct.yx + depth*c.oct.yy,
	}
}

func (c *caster) run(stack *[]row) {
	if c.maxDepth < 1 {
		return
	}
	*stack = append((*stack)[:0], row{depth: 1, start: fraction{0, 1}, end: fraction{1, 1}})
	for len(*stack) > 0 {
		r := (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]
		c.scan(r, stack)
	}
}

// scan walks one row, marking cells and pushing the rows seen through its gaps.
func (c *caster) scan(r row, stack *[]row) {
	rr := c.radius * c.radius
	deeper := r.depth < c.maxDepth

	scanned, prevWall := false, false
	for col := r.minCol(); col <= r.maxCol(); col++ {
		pos := c.cell(r.depth, col)
		wall := c.obstacles.At(pos)

		if (wall || r.symmetric(col)) && r.depth*r.depth+col*col <= rr {
			c.visible.Set(pos, true)
		}
		if scanned {
			if prevWall && !wall {
				r.start = tileSlope(r.depth, col)
			}
			if !prevWall && wall && deeper {
				*stack = append(*stack, row{depth: r.depth + 1, start: r.start, end: tileSlope(r.depth, col)})
			}
		}
		scanned, prevWall = true, wall
	}
	if scanned && !prevWall && deeper {
		*stack = append(*stack, row{depth: r.depth + 1, start: r.start, end: r.end})
	}
}

// VisibleCells lists the marked cells of a visibility grid in row-major order.
func VisibleCells(visible *grid.Grid) []grid.Coord {
	if visible == nil {
		return nil
	}
	cells := make([]grid.Coord, 0, visible.Count())
	for y := 0; y < visible.Height(); y++ {
		for x := 0; x < visible.Width(); x++ {
			if c := grid.C(x, y); visible.At(c) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}
