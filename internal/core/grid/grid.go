// Package grid provides the rectangular boolean matrices exchanged with the
// spatial systems: walkability grids (true = walkable), obstacle grids
// (true = opaque) and the visibility grids computed from them.
package grid

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
)

// Grid is a row-major width×height matrix of booleans.
// The zero value is not usable; build one with New, FromRows or Parse.
type Grid struct {
	width, height int
	cells         []bool
}

// New returns an all-false grid.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, errs.ErrMalformedGrid)
	}
	return &Grid{width: width, height: height, cells: make([]bool, width*height)}, nil
}

// FromRows copies rows into a new grid. Every row must have the same non-zero length.
func FromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid has no rows: %w", errs.ErrMalformedGrid)
	}
	width := len(rows[0])
	g, err := New(width, len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", y, len(row), width, errs.ErrMalformedGrid)
		}
		copy(g.cells[y*width:(y+1)*width], row)
	}
	return g, nil
}

// Parse builds a grid from text rows, marking cells whose rune equals set.
//
//	Parse([]string{"..#", ".#."}, '#')
func Parse(rows []string, set rune) (*Grid, error) {
	bools := make([][]bool, len(rows))
	for y, line := range rows {
		runes := []rune(line)
		bools[y] = make([]bool, len(runes))
		for x, r := range runes {
			bools[y][x] = r == set
		}
	}
	return FromRows(bools)
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether c lies within [0,width)×[0,height).
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// Index returns the flat offset y*width+x of an in-bounds coordinate.
func (g *Grid) Index(c Coord) int { return c.Y*g.width + c.X }

// CoordOf is the inverse of Index.
func (g *Grid) CoordOf(idx int) Coord { return Coord{X: idx % g.width, Y: idx / g.width} }

// At returns the cell value, or false when c is out of bounds.
func (g *Grid) At(c Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[g.Index(c)]
}

// Set writes an in-bounds cell and ignores out-of-bounds coordinates.
func (g *Grid) Set(c Coord, v bool) {
	if g.InBounds(c) {
		g.cells[g.Index(c)] = v
	}
}

// Count returns the number of true cells.
func (g *Grid) Count() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.height)
	for y := range rows {
		rows[y] = make([]bool, g.width)
		copy(rows[y], g.cells[y*g.width:(y+1)*g.width])
	}
	return rows
}

func (g *Grid) Clone() *Grid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Fingerprint hashes dimensions and contents. Equal grids share a fingerprint.
func (g *Grid) Fingerprint() uint64 {
	h := xxhash.New()
	var hdr [16]byte
	binary.LittleEndian.PutUint64(hdr[:8], uint64(g.width))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(g.height))
	_, _ = h.Write(hdr[:])

	packed := make([]byte, (len(g.cells)+7)/8)
	for i, v := range g.cells {
		if v {
			packed[i/8] |= 1 << (i % 8)
		}
	}
	_, _ = h.Write(packed)
	return h.Sum64()
}

// String renders true cells as '#' and false cells as '.'.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
