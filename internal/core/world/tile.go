// Package world holds tile maps, the files they are stored in and a dungeon
// generator. Maps project onto the boolean grids consumed by the spatial systems.
package world

import "fmt"

// TileType is stored as a plain integer in map files.
type TileType int

const (
	Empty TileType = iota
	Floor
	Wall
	Door
	Water
	Grass
	Path
	Tree
	Rock
	Bridge

	tileTypeCount
)

var tileNames = [tileTypeCount]string{
	"empty", "floor", "wall", "door", "water", "grass", "path", "tree", "rock", "bridge",
}

var tileGlyphs = [tileTypeCount]rune{
	' ', '.', '#', '+', '~', '"', ':', 'T', '*', '=',
}

func (t TileType) Valid() bool { return t >= 0 && t < tileTypeCount }

func (t TileType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tile(%d)", int(t))
	}
	return tileNames[t]
}

// Glyph is the single-character form used by ASCII maps.
func (t TileType) Glyph() rune {
	if !t.Valid() {
		return '?'
	}
	return tileGlyphs[t]
}

// Walkable reports whether an entity may stand on the tile.
func (t TileType) Walkable() bool {
	switch t {
	case Floor, Door, Grass, Path, Bridge:
		return true
	default:
		return false
	}
}

// Opaque reports whether the tile blocks line of sight. Water is open but not walkable.
func (t TileType) Opaque() bool {
	switch t {
	case Empty, Wall, Tree, Rock:
		return true
	default:
		return false
	}
}

// TileFromGlyph is the inverse of Glyph.
func TileFromGlyph(r rune) (TileType, bool) {
	for i, g := range tileGlyphs {
		if g == r {
			return TileType(i), true
		}
	}
	return Empty, false
}
