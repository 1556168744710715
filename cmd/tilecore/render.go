package main

import (
	"strings"

	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/systems/pathfinding"
	"github.com/llamasearchai/llamaquest/internal/core/world"
)

const (
	glyphStep   = 'o'
	glyphStart  = 'S'
	glyphGoal   = 'G'
	glyphOrigin = '@'
	glyphHidden = ' '
)

func renderPath(m *world.TileMap, path pathfinding.Path) string {
	overlay := make(map[grid.Coord]rune, len(path))
	for _, c := range path {
		overlay[c] = glyphStep
	}
	if start, ok := path.Start(); ok {
		overlay[start] = glyphStart
	}
	if end, ok := path.End(); ok {
		overlay[end] = glyphGoal
	}
	return render(m, func(c grid.Coord, t world.TileType) rune {
		if r, ok := overlay[c]; ok {
			return r
		}
		return t.Glyph()
	})
}

func renderFOV(m *world.TileMap, visible *grid.Grid, origin grid.Coord) string {
	return render(m, func(c grid.Coord, t world.TileType) rune {
		switch {
		case c == origin:
			return glyphOrigin
		case visible.At(c):
			return t.Glyph()
		default:
			return glyphHidden
		}
	})
}

func render(m *world.TileMap, glyph func(grid.Coord, world.TileType) rune) string {
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < m.Width; x++ {
			c := grid.C(x, y)
			b.WriteRune(glyph(c, m.At(c)))
		}
	}
	return b.String()
}
