package world

import (
	"fmt"
	"math/rand"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/grid"
	"github.com/llamasearchai/llamaquest/internal/core/systems/collision"
)

// DungeonOptions control GenerateDungeon. Rooms is the number of placement
// attempts; overlapping candidates are dropped.
type DungeonOptions struct {
	Rooms       int     `json:"rooms" yaml:"rooms"`
	MinRoomSize int     `json:"min_room_size" yaml:"min_room_size"`
	MaxRoomSize int     `json:"max_room_size" yaml:"max_room_size"`
	DoorChance  float64 `json:"door_chance" yaml:"door_chance"`
}

func DefaultDungeonOptions() DungeonOptions {
	return DungeonOptions{Rooms: 10, MinRoomSize: 3, MaxRoomSize: 8, DoorChance: 0.3}
}

// Room is a rectangle of floor carved by GenerateDungeon.
type Room struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (r Room) Center() grid.Coord {
	return grid.C(r.X+r.Width/2, r.Y+r.Height/2)
}

func (r Room) Bounds() collision.AABB {
	return collision.AABB{X: float64(r.X), Y: float64(r.Y), Width: float64(r.Width), Height: float64(r.Height)}
}

func (o DungeonOptions) validate(width, height int) error {
	switch {
	case o.Rooms < 0:
		return fmt.Errorf("dungeon: rooms %d: %w", o.Rooms, errs.ErrInvalidParameter)
	case o.MinRoomSize < 1 || o.MaxRoomSize < o.MinRoomSize:
		return fmt.Errorf("dungeon: room size %d..%d: %w", o.MinRoomSize, o.MaxRoomSize, errs.ErrInvalidParameter)
	case o.DoorChance < 0 || o.DoorChance > 1:
		return fmt.Errorf("dungeon: door chance %v: %w", o.DoorChance, errs.ErrInvalidParameter)
	case width < o.MaxRoomSize+2 || height < o.MaxRoomSize+2:
		return fmt.Errorf("dungeon: %dx%d cannot hold rooms of %d: %w", width, height, o.MaxRoomSize, errs.ErrInvalidParameter)
	}
	return nil
}

// GenerateDungeon carves non-overlapping rooms out of solid wall and joins
// each room to the previous one with an L-shaped corridor. Room edges next to
// open floor may become doors. Output depends only on the arguments and rng.
func GenerateDungeon(name string, width, height int, opts DungeonOptions, rng *rand.Rand) (*TileMap, []Room, error) {
	if rng == nil {
		return nil, nil, fmt.Errorf("dungeon: nil rng: %w", errs.ErrInvalidParameter)
	}
	if err := opts.validate(width, height); err != nil {
		return nil, nil, err
	}
	m, err := NewTileMap(name, width, height)
	if err != nil {
		return nil, nil, err
	}
	m.Fill(Wall)

	var (
		rooms  []Room
		placed []collision.AABB
	)
	for range opts.Rooms {
		w := between(rng, opts.MinRoomSize, opts.MaxRoomSize)
		h := between(rng, opts.MinRoomSize, opts.MaxRoomSize)
		room := Room{
			X:      between(rng, 1, width-w-1),
			Y:      between(rng, 1, height-h-1),
			Width:  w,
			Height: h,
		}
		if _, hit := collision.FirstCollision(room.Bounds(), placed); hit {
			continue
		}
		carve(m, room)
		rooms = append(rooms, room)
		placed = append(placed, room.Bounds())
	}

	for i := 1; i < len(rooms); i++ {
		from, to := rooms[i-1].Center(), rooms[i].Center()
		if rng.Float64() < 0.5 {
			tunnelX(m, from.X, to.X, from.Y)
			tunnelY(m, from.Y, to.Y, to.X)
		} else {
			tunnelY(m, from.Y, to.Y, from.X)
			tunnelX(m, from.X, to.X, to.Y)
		}
	}

	for _, room := range rooms {
		placeDoors(m, room, opts.DoorChance, rng)
	}
	return m, rooms, nil
}

// between returns a uniform int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func carve(m *TileMap, r Room) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			m.Tiles[y][x] = Floor
		}
	}
}

func tunnelX(m *TileMap, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		m.Set(grid.C(x, y), Floor)
	}
}

func tunnelY(m *TileMap, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		m.Set(grid.C(x, y), Floor)
	}
}

// placeDoors turns a wall on the room's rim into a door when the cell beyond it is floor.
func placeDoors(m *TileMap, r Room, chance float64, rng *rand.Rand) {
	try := func(wall, beyond grid.Coord) {
		if m.At(wall) != Wall || m.At(beyond) != Floor {
			return
		}
		if rng.Float64() < chance {
			m.Set(wall, Door)
			m.AddInteractable(wall)
		}
	}
	for x := r.X; x < r.X+r.Width; x++ {
		if r.Y > 1 {
			try(grid.C(x, r.Y-1), grid.C(x, r.Y-2))
		}
		if r.Y+r.Height < m.Height-1 {
			try(grid.C(x, r.Y+r.Height), grid.C(x, r.Y+r.Height+1))
		}
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		if r.X > 1 {
			try(grid.C(r.X-1, y), grid.C(r.X-2, y))
		}
		if r.X+r.Width < m.Width-1 {
			try(grid.C(r.X+r.Width, y), grid.C(r.X+r.Width+1, y))
		}
	}
}
