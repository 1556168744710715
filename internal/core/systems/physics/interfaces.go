package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/llamasearchai/llamaquest/internal/core/systems/collision"
)

// Simulator is the motion API consumed by the host loop. Vectors use
// screen orientation: x grows right, y grows down.
type Simulator interface {
	Config() Config
	UpdateEntity(pos, vel mgl64.Vec2, grounded bool, dt float64) (mgl64.Vec2, mgl64.Vec2, error)
	Step(b Body, dt float64) (Body, error)
	PredictTrajectory(start, vel mgl64.Vec2, steps int, dt float64) ([]mgl64.Vec2, error)
	CanMoveTo(entity collision.AABB, proposed mgl64.Vec2, obstacles []collision.AABB) bool
}

// Body is the per-entity motion state owned by the host.
type Body struct {
	Position mgl64.Vec2 `json:"position" yaml:"position"`
	Velocity mgl64.Vec2 `json:"velocity" yaml:"velocity"`
	Grounded bool       `json:"grounded" yaml:"grounded"`
}
