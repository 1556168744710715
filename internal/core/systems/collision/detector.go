package collision

import "github.com/go-gl/mathgl/mgl64"

// Overlaps reports whether a and b intersect with positive area.
// Boxes that only share an edge or a corner do not overlap.
//
// The detector functions do not validate their inputs. Boxes are assumed to
// come from NewAABB or to pass AABB.Validate, which rejects zero, negative and
// non-finite sizes with errs.ErrInvalidParameter.
func Overlaps(a, b AABB) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// FirstCollision returns the index of the first obstacle overlapping box.
func FirstCollision(box AABB, obstacles []AABB) (int, bool) {
	for i := range obstacles {
		if Overlaps(box, obstacles[i]) {
			return i, true
		}
	}
	return -1, false
}

// CanMoveTo reports whether entity, moved to proposed, is clear of every obstacle.
// Like Overlaps, it expects boxes validated by NewAABB.
func CanMoveTo(entity AABB, proposed mgl64.Vec2, obstacles []AABB) bool {
	_, hit := FirstCollision(entity.At(proposed), obstacles)
	return !hit
}
