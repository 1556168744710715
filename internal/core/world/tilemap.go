package world

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/pkg/encoding"
)

const DefaultTileSize = 8

var _ encoding.Serializable[TileMap] = (*TileMap)(nil)

// TileMap is a named rectangular level. Tiles is indexed [y][x].
type TileMap struct {
	Name          string       `json:"name" yaml:"name"`
	Width         int          `json:"width" yaml:"width"`
	Height        int          `json:"height" yaml:"height"`
	TileSize      int          `json:"tile_size,omitempty" yaml:"tile_size,omitempty"`
	Tiles         [][]TileType `json:"tiles" yaml:"tiles"`
	Interactables []grid.Coord `json:"interactables,omitempty" yaml:"interactables,omitempty"`
}

// NewTileMap returns a map filled with Empty tiles.
func NewTileMap(name string, width, height int) (*TileMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tile map %q: size %dx%d: %w", name, width, height, errs.ErrMalformedGrid)
	}
	m := &TileMap{Name: name, Width: width, Height: height, TileSize: DefaultTileSize}
	m.Tiles = make([][]TileType, height)
	for y := range m.Tiles {
		m.Tiles[y] = make([]TileType, width)
	}
	return m, nil
}

// ParseTileMap builds a map from glyph rows, see TileType.Glyph.
func ParseTileMap(name string, rows []string) (*TileMap, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("tile map %q: no rows: %w", name, errs.ErrMalformedGrid)
	}
	m, err := NewTileMap(name, len([]rune(rows[0])), len(rows))
	if err != nil {
		return nil, err
	}
	for y, line := range rows {
		runes := []rune(line)
		if len(runes) != m.Width {
			return nil, fmt.Errorf("tile map %q: row %d has %d tiles, want %d: %w",
				name, y, len(runes), m.Width, errs.ErrMalformedGrid)
		}
		for x, r := range runes {
			t, ok := TileFromGlyph(r)
			if !ok {
				return nil, fmt.Errorf("tile map %q: unknown glyph %q at (%d,%d): %w",
					name, r, x, y, errs.ErrMalformedGrid)
			}
			m.Tiles[y][x] = t
		}
	}
	return m, nil
}

// Validate checks dimensions, row lengths, tile values and interactable positions.
func (m *TileMap) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("tile map %q: size %dx%d: %w", m.Name, m.Width, m.Height, errs.ErrMalformedGrid)
	}
	if len(m.Tiles) != m.Height {
		return fmt.Errorf("tile map %q: %d rows, want %d: %w", m.Name, len(m.Tiles), m.Height, errs.ErrMalformedGrid)
	}
	for y, row := range m.Tiles {
		if len(row) != m.Width {
			return fmt.Errorf("tile map %q: row %d has %d tiles, want %d: %w",
				m.Name, y, len(row), m.Width, errs.ErrMalformedGrid)
		}
		for x, t := range row {
			if !t.Valid() {
				return fmt.Errorf("tile map %q: unknown tile %d at (%d,%d): %w",
					m.Name, int(t), x, y, errs.ErrMalformedGrid)
			}
		}
	}
	for _, c := range m.Interactables {
		if !m.InBounds(c) {
			return fmt.Errorf("tile map %q: interactable %v out of bounds: %w", m.Name, c, errs.ErrInvalidCoordinate)
		}
	}
	if m.TileSize < 0 {
		return fmt.Errorf("tile map %q: tile size %d: %w", m.Name, m.TileSize, errs.ErrInvalidParameter)
	}
	return nil
}

func (m *TileMap) InBounds(c grid.Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.Width && c.Y < m.Height
}

// At returns Empty outside the map.
func (m *TileMap) At(c grid.Coord) TileType {
	if !m.InBounds(c) {
		return Empty
	}
	return m.Tiles[c.Y][c.X]
}

// Set ignores coordinates outside the map.
func (m *TileMap) Set(c grid.Coord, t TileType) {
	if m.InBounds(c) {
		m.Tiles[c.Y][c.X] = t
	}
}

func (m *TileMap) Fill(t TileType) {
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			m.Tiles[y][x] = t
		}
	}
}

// AddInteractable records c once.
func (m *TileMap) AddInteractable(c grid.Coord) {
	if m.IsInteractable(c) {
		return
	}
	m.Interactables = append(m.Interactables, c)
}

func (m *TileMap) IsInteractable(c grid.Coord) bool {
	for _, i := range m.Interactables {
		if i == c {
			return true
		}
	}
	return false
}

// WalkabilityGrid projects the map onto a pathfinding grid.
func (m *TileMap) WalkabilityGrid() (*grid.Grid, error) {
	return m.project(TileType.Walkable)
}

// ObstacleGrid projects the map onto a line-of-sight grid.
func (m *TileMap) ObstacleGrid() (*grid.Grid, error) {
	return m.project(TileType.Opaque)
}

func (m *TileMap) project(pred func(TileType) bool) (*grid.Grid, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	g, err := grid.New(m.Width, m.Height)
	if err != nil {
		return nil, err
	}
	for y, row := range m.Tiles {
		for x, t := range row {
			g.Set(grid.C(x, y), pred(t))
		}
	}
	return g, nil
}

// Clone returns a deep copy.
func (m *TileMap) Clone() *TileMap {
	out := *m
	out.Tiles = make([][]TileType, len(m.Tiles))
	for y, row := range m.Tiles {
		out.Tiles[y] = append([]TileType(nil), row...)
	}
	out.Interactables = append([]grid.Coord(nil), m.Interactables...)
	return &out
}

// String renders the map with one glyph per tile.
func (m *TileMap) String() string {
	var b strings.Builder
	for y, row := range m.Tiles {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, t := range row {
			b.WriteRune(t.Glyph())
		}
	}
	return b.String()
}

func (m *TileMap) Serialize() ([]byte, error) {
	return json.Marshal(m)
}

// Deserialize decodes JSON into m and validates the result.
func (m *TileMap) Deserialize(data []byte) error {
	var decoded TileMap
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("tile map: %w: %w", errs.ErrMalformedGrid, err)
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*m = decoded
	return nil
}
