package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

type ObjectKind uint8

const (
	SphereObject ObjectKind = iota
	CubeObject
)

func (k ObjectKind) String() string {
	switch k {
	case SphereObject:
		return "sphere"
	case CubeObject:
		return "cube"
	}
	return "unknown"
}

// Defines a scene object. Objects are immutable values that own a copy of
// their material.
//
// A negative Radius (or HalfExtent) flips the geometric normal; this is used
// to model the inner surface of hollow glass shells.
type Object struct {
	// The object type.
	Kind ObjectKind

	// The object center.
	Center types.Vec3

	// Sphere radius.
	Radius float64

	// Cube half-extent along each axis.
	HalfExtent types.Vec3

	// The object material.
	Material Material
}

// Create new sphere object.
func NewSphere(center types.Vec3, radius float64, material Material) Object {
	return Object{
		Kind:     SphereObject,
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Create new axis-aligned cube object.
func NewCube(center, halfExtent types.Vec3, material Material) Object {
	return Object{
		Kind:       CubeObject,
		Center:     center,
		HalfExtent: halfExtent,
		Material:   material,
	}
}

// Intersect the object with a ray and return the distance to the entry point.
func (o *Object) Intersect(r types.Ray) (float64, bool) {
	switch o.Kind {
	case SphereObject:
		return o.intersectSphere(r)
	case CubeObject:
		return o.intersectCube(r)
	}
	return 0, false
}

// Solve |O + tD - C|^2 = r^2 and return the smaller root. The root is
// negative when the origin lies inside or past the sphere; callers discard
// distances below types.MinHitDistance.
func (o *Object) intersectSphere(r types.Ray) (float64, bool) {
	oc := r.Origin.Sub(o.Center)
	a := r.Dir.Dot(r.Dir)
	b := 2.0 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - o.Radius*o.Radius

	disc := b*b - 4*a*c
	if disc < 0 || a == 0 {
		return 0, false
	}

	return (-b - math.Sqrt(disc)) / (2.0 * a), true
}

// Slab test against [center - |halfExtent|, center + |halfExtent|].
func (o *Object) intersectCube(r types.Ray) (float64, bool) {
	origin := r.Origin.Sub(o.Center)
	size := o.HalfExtent.Abs()

	tNear := -math.MaxFloat64
	tFar := math.MaxFloat64
	for axis := 0; axis < 3; axis++ {
		if r.Dir[axis] == 0 {
			if math.Abs(origin[axis]) > size[axis] {
				return 0, false
			}
			continue
		}
		m := 1.0 / r.Dir[axis]
		n := m * origin[axis]
		k := math.Abs(m) * size[axis]
		tNear = math.Max(tNear, -n-k)
		tFar = math.Min(tFar, -n+k)
	}

	// Entry must lie in front of the origin
	if tNear > tFar || tNear <= 0 {
		return 0, false
	}
	return tNear, true
}

// Get the object's bounding box.
func (o *Object) Bound() types.AABB {
	var extent types.Vec3
	switch o.Kind {
	case SphereObject:
		extent = types.Uniform(math.Abs(o.Radius))
	case CubeObject:
		extent = o.HalfExtent.Abs()
	}
	return types.NewAABB(o.Center.Sub(extent), o.Center.Add(extent))
}

// Get the outward facing surface normal at point p. The normal is not
// corrected for the side of the surface that the ray approached from.
func (o *Object) NormalAt(p types.Vec3) types.Vec3 {
	switch o.Kind {
	case SphereObject:
		return p.Sub(o.Center).Div(o.Radius)
	case CubeObject:
		rel := p.Sub(o.Center)
		abs := rel.Abs()
		sign := 1.0
		if o.HalfExtent[0] < 0 || o.HalfExtent[1] < 0 || o.HalfExtent[2] < 0 {
			sign = -1.0
		}
		switch {
		case abs[0] >= abs[1] && abs[0] >= abs[2]:
			return types.XYZ(math.Copysign(sign, rel[0]), 0, 0)
		case abs[1] >= abs[2]:
			return types.XYZ(0, math.Copysign(sign, rel[1]), 0)
		default:
			return types.XYZ(0, 0, math.Copysign(sign, rel[2]))
		}
	}
	return types.Vec3{}
}

// Get the object material.
func (o *Object) MaterialOf() Material {
	return o.Material
}
