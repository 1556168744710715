package collision

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/llamasearchai/llamaquest/internal/core/errs"
)

// AABB is an axis-aligned box anchored at its top-left corner (x right, y down).
type AABB struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// NewAABB builds a validated box.
func NewAABB(x, y, width, height float64) (AABB, error) {
	b := AABB{X: x, Y: y, Width: width, Height: height}
	if err := b.Validate(); err != nil {
		return AABB{}, err
	}
	return b, nil
}

// Validate reports ErrInvalidParameter for non-finite fields or a non-positive size.
func (b AABB) Validate() error {
	for _, v := range [...]float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("aabb %v: non-finite value: %w", b, errs.ErrInvalidParameter)
		}
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("aabb %v: size must be positive: %w", b, errs.ErrInvalidParameter)
	}
	return nil
}

// At returns b moved so that its corner sits at pos.
func (b AABB) At(pos mgl64.Vec2) AABB {
	b.X, b.Y = pos.X(), pos.Y()
	return b
}

func (b AABB) Min() mgl64.Vec2 { return mgl64.Vec2{b.X, b.Y} }

func (b AABB) Max() mgl64.Vec2 { return mgl64.Vec2{b.X + b.Width, b.Y + b.Height} }

func (b AABB) Center() mgl64.Vec2 {
	return mgl64.Vec2{b.X + b.Width/2, b.Y + b.Height/2}
}

// Contains reports whether p lies inside b. The far edges are exclusive.
func (b AABB) Contains(p mgl64.Vec2) bool {
	return p.X() >= b.X && p.X() < b.X+b.Width &&
		p.Y() >= b.Y && p.Y() < b.Y+b.Height
}

func (b AABB) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", b.X, b.Y, b.Width, b.Height)
}
