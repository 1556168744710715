// Package pathfinding implements A* search over a walkability grid with
// 8-directional movement and no corner cutting.
package pathfinding

import (
	"fmt"
	"math"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/pkg/generic"
	"github.com/llamasearchai/llamaquest/pkg/sequence"
)

// Unbounded disables the explored-node budget.
const Unbounded = 0

const (
	costOrthogonal = 1.0
	costDiagonal   = math.Sqrt2
)

// Direction vectors in expansion order: N, NE, E, SE, S, SW, W, NW
var dirVectors = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

var dirCosts = [8]float64{
	costOrthogonal, costDiagonal, costOrthogonal, costDiagonal,
	costOrthogonal, costDiagonal, costOrthogonal, costDiagonal,
}

// openNode is an open-set entry. Entries are never updated in place; a better
// route pushes a new entry and the stale one is skipped when popped.
type openNode struct {
	idx int
	f   float64
	h   float64
	seq uint64
}

// lessOpen orders by f, then h, then insertion order.
func lessOpen(a, b openNode) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

// search holds per-call scratch state indexed by y*width+x.
type search struct {
	g      []float64
	came   []int32
	closed []bool
	open   *sequence.PriorityQueue[openNode]
	seq    uint64
}

func newSearch() *search {
	return &search{open: sequence.NewPriorityQueue(lessOpen)}
}

func (s *search) prepare(size int) {
	if cap(s.g) < size {
		s.g = make([]float64, size)
		s.came = make([]int32, size)
		s.closed = make([]bool, size)
	} else {
		s.g = s.g[:size]
		s.came = s.came[:size]
		s.closed = s.closed[:size]
	}
	for i := range size {
		s.g[i] = math.Inf(1)
		s.came[i] = -1
		s.closed[i] = false
	}
	s.open.Clear()
	s.seq = 0
}

func (s *search) push(idx int, g, h float64) {
	s.open.Enqueue(openNode{idx: idx, f: g + h, h: h, seq: s.seq})
	s.seq++
}

var searches = generic.NewResetPool(newSearch, func(s *search) { s.open.Clear() })

// FindPath returns a least-cost path from start to end over walkable cells.
// maxExplored caps how many nodes are popped and expanded; Unbounded (0)
// removes the cap. The grid is only read during the call.
func FindPath(start, end grid.Coord, g *grid.Grid, maxExplored int) (Path, error) {
	path, _, err := findPath(start, end, g, maxExplored)
	return path, err
}

// findPath also reports how many nodes were expanded, for logging.
func findPath(start, end grid.Coord, g *grid.Grid, maxExplored int) (Path, int, error) {
	if g == nil {
		return nil, 0, fmt.Errorf("find path: nil grid: %w", errs.ErrMalformedGrid)
	}
	if maxExplored < 0 {
		return nil, 0, fmt.Errorf("find path: max explored %d: %w", maxExplored, errs.ErrInvalidParameter)
	}
	for _, c := range [2]grid.Coord{start, end} {
		if !g.InBounds(c) {
			return nil, 0, fmt.Errorf("find path: %v outside %dx%d grid: %w", c, g.Width(), g.Height(), errs.ErrInvalidCoordinate)
		}
	}
	for _, c := range [2]grid.Coord{start, end} {
		if !g.At(c) {
			return nil, 0, fmt.Errorf("find path: %v is not walkable: %w", c, errs.ErrUnwalkableEndpoint)
		}
	}
	if start == end {
		return Path{start}, 0, nil
	}

	s := searches.Get()
	defer searches.Put(s)
	s.prepare(g.Width() * g.Height())

	w := g.Width()
	startIdx, goalIdx := g.Index(start), g.Index(end)
	s.g[startIdx] = 0
	s.push(startIdx, 0, start.Octile(end))

	explored := 0
	for {
		node, ok := s.open.Dequeue()
		if !ok {
			return nil, explored, fmt.Errorf("find path %v->%v after %d nodes: %w", start, end, explored, errs.ErrNoPathFound)
		}
		if s.closed[node.idx] {
			continue // Stale entry
		}
		explored++
		if maxExplored != Unbounded && explored > maxExplored {
			return nil, explored - 1, fmt.Errorf("find path %v->%v: budget of %d nodes: %w", start, end, maxExplored, errs.ErrSearchBudgetExceeded)
		}
		if node.idx == goalIdx {
			return s.reconstruct(g, goalIdx), explored, nil
		}
		s.closed[node.idx] = true

		cx, cy := node.idx%w, node.idx/w
		for dir := range dirVectors {
			dx, dy := dirVectors[dir][0], dirVectors[dir][1]
			next := grid.Coord{X: cx + dx, Y: cy + dy}
			if !g.At(next) {
				continue
			}
			// Diagonal corner cutting prevention
			if dx != 0 && dy != 0 {
				if !g.At(grid.Coord{X: cx + dx, Y: cy}) || !g.At(grid.Coord{X: cx, Y: cy + dy}) {
					continue
				}
			}

			nIdx := g.Index(next)
			if s.closed[nIdx] {
				continue
			}
			ng := s.g[node.idx] + dirCosts[dir]
			if ng < s.g[nIdx] {
				s.g[nIdx] = ng
				s.came[nIdx] = int32(node.idx)
				s.push(nIdx, ng, next.Octile(end))
			}
		}
	}
}

func (s *search) reconstruct(g *grid.Grid, goalIdx int) Path {
	n := 0
	for idx := int32(goalIdx); idx != -1; idx = s.came[idx] {
		n++
	}
	path := make(Path, n)
	for idx := int32(goalIdx); idx != -1; idx = s.came[idx] {
		n--
		path[n] = g.CoordOf(int(idx))
	}
	return path
}
