// Package physics integrates point-mass motion under gravity and ground friction.
package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
	"github.com/llamasearchai/llamaquest/internal/core/systems/collision"
)

const (
	DefaultGravity  = 9.8
	DefaultFriction = 0.1

	// trajectoryDrag is the horizontal air drag per second used by PredictTrajectory.
	trajectoryDrag = 0.01
)

var _ Simulator = (*Integrator)(nil)

// Config holds the constants of one physics zone.
type Config struct {
	Gravity  float64 `json:"gravity" yaml:"gravity"`
	Friction float64 `json:"friction" yaml:"friction"`
}

func DefaultConfig() Config {
	return Config{Gravity: DefaultGravity, Friction: DefaultFriction}
}

// Validate rejects non-finite values and negative friction.
func (c Config) Validate() error {
	if !finite(c.Gravity) {
		return fmt.Errorf("physics: gravity %v: %w", c.Gravity, errs.ErrInvalidParameter)
	}
	if !finite(c.Friction) || c.Friction < 0 {
		return fmt.Errorf("physics: friction %v: %w", c.Friction, errs.ErrInvalidParameter)
	}
	return nil
}

// Integrator advances bodies with semi-implicit Euler steps.
// It is immutable and safe for concurrent use.
type Integrator struct {
	cfg Config
}

func NewIntegrator(cfg Config) (*Integrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Integrator{cfg: cfg}, nil
}

func (i *Integrator) Config() Config { return i.cfg }

// UpdateEntity updates velocity first and then moves by the new velocity.
// Airborne bodies gain gravity*dt downwards. Grounded bodies lose friction*dt
// of horizontal speed, stopping at zero rather than reversing.
func (i *Integrator) UpdateEntity(pos, vel mgl64.Vec2, grounded bool, dt float64) (mgl64.Vec2, mgl64.Vec2, error) {
	if err := checkStep(dt); err != nil {
		return pos, vel, err
	}

	vx, vy := vel.X(), vel.Y()
	if grounded {
		decay := i.cfg.Friction * dt
		switch {
		case vx > 0:
			vx = math.Max(0, vx-decay)
		case vx < 0:
			vx = math.Min(0, vx+decay)
		}
	} else {
		vy += i.cfg.Gravity * dt
	}

	newVel := mgl64.Vec2{vx, vy}
	return pos.Add(newVel.Mul(dt)), newVel, nil
}

func (i *Integrator) Step(b Body, dt float64) (Body, error) {
	pos, vel, err := i.UpdateEntity(b.Position, b.Velocity, b.Grounded, dt)
	if err != nil {
		return b, err
	}
	b.Position, b.Velocity = pos, vel
	return b, nil
}

// PredictTrajectory returns steps+1 positions of a ballistic flight from start,
// with horizontal drag and no ground contact. It does not touch any state.
func (i *Integrator) PredictTrajectory(start, vel mgl64.Vec2, steps int, dt float64) ([]mgl64.Vec2, error) {
	if steps < 0 {
		return nil, fmt.Errorf("physics: steps %d: %w", steps, errs.ErrInvalidParameter)
	}
	if err := checkStep(dt); err != nil {
		return nil, err
	}

	points := make([]mgl64.Vec2, 0, steps+1)
	points = append(points, start)

	pos, vx, vy := start, vel.X(), vel.Y()
	drag := 1 - trajectoryDrag*dt
	for range steps {
		vx *= drag
		vy += i.cfg.Gravity * dt
		pos = pos.Add(mgl64.Vec2{vx * dt, vy * dt})
		points = append(points, pos)
	}
	return points, nil
}

// CanMoveTo reports whether entity placed at proposed clears every obstacle.
func (i *Integrator) CanMoveTo(entity collision.AABB, proposed mgl64.Vec2, obstacles []collision.AABB) bool {
	return collision.CanMoveTo(entity, proposed, obstacles)
}

func checkStep(dt float64) error {
	if !finite(dt) || dt <= 0 {
		return fmt.Errorf("physics: delta time %v: %w", dt, errs.ErrInvalidParameter)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
