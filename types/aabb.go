package types

import "math"

// Intersections closer than this distance are ignored to suppress
// self-intersection artifacts.
const MinHitDistance = 0.001

// An axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Create a new AABB.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Get the minimal box that contains both a and b.
func Surrounding(a, b AABB) AABB {
	return AABB{
		Min: MinVec3(a.Min, b.Min),
		Max: MaxVec3(a.Max, b.Max),
	}
}

// Returns true if other lies entirely inside b.
func (b AABB) Contains(other AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if other.Min[axis] < b.Min[axis] || other.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Get the index of the axis with the largest extent.
func (b AABB) LargestAxis() int {
	extent := b.Max.Sub(b.Min)
	switch {
	case extent[0] >= extent[1] && extent[0] >= extent[2]:
		return 0
	case extent[1] >= extent[2]:
		return 1
	default:
		return 2
	}
}

// Slab test. Returns true if the ray intersects the box at a distance
// beyond MinHitDistance. No distance is reported.
func (b AABB) Hit(r Ray) bool {
	tMin := MinHitDistance
	tMax := math.MaxFloat64
	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / r.Dir[axis]
		t0 := (b.Min[axis] - r.Origin[axis]) * invD
		t1 := (b.Max[axis] - r.Origin[axis]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}
	return true
}
