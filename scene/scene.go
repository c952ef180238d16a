package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/lumen/types"
)

// A collection of scene objects. Object order does not affect rendering.
type Scene struct {
	Objects []Object
}

func NewScene(objects ...Object) *Scene {
	return &Scene{
		Objects: objects,
	}
}

// Add an object to the scene.
func (s *Scene) Add(obj Object) error {
	switch obj.Kind {
	case SphereObject:
		if obj.Radius == 0 || math.IsNaN(obj.Radius) || math.IsInf(obj.Radius, 0) {
			return fmt.Errorf("scene: invalid sphere radius %f", obj.Radius)
		}
	case CubeObject:
		for axis := 0; axis < 3; axis++ {
			if obj.HalfExtent[axis] == 0 || math.IsNaN(obj.HalfExtent[axis]) || math.IsInf(obj.HalfExtent[axis], 0) {
				return fmt.Errorf("scene: invalid cube half-extent %v", obj.HalfExtent)
			}
		}
	default:
		return fmt.Errorf("scene: unsupported object type %d", obj.Kind)
	}

	s.Objects = append(s.Objects, obj)
	return nil
}

// Get the number of objects in the scene.
func (s *Scene) Len() int {
	return len(s.Objects)
}

// Get the box surrounding all scene objects. Returns false if the scene is
// empty.
func (s *Scene) Bound() (types.AABB, bool) {
	if len(s.Objects) == 0 {
		return types.AABB{}, false
	}

	box := s.Objects[0].Bound()
	for idx := 1; idx < len(s.Objects); idx++ {
		box = types.Surrounding(box, s.Objects[idx].Bound())
	}
	return box, true
}

// Find the nearest object hit by the ray using a linear scan. Hits closer
// than types.MinHitDistance are ignored.
func (s *Scene) Hit(r types.Ray) (float64, *Object, bool) {
	closest := math.MaxFloat64
	var closestObj *Object
	for idx := range s.Objects {
		t, ok := s.Objects[idx].Intersect(r)
		if ok && t > types.MinHitDistance && t < closest {
			closest = t
			closestObj = &s.Objects[idx]
		}
	}

	if closestObj == nil {
		return 0, nil, false
	}
	return closest, closestObj, true
}

// Find the nearest hit and build its hit record.
func (s *Scene) Trace(r types.Ray) (RayHit, bool) {
	t, obj, ok := s.Hit(r)
	if !ok {
		return RayHit{}, false
	}
	return NewRayHit(r, t, obj), true
}

// Get the background color for a ray leaving the scene. The color is a
// vertical white to blue gradient.
func SkyColor(dir types.Vec3) types.Vec3 {
	a := 0.5 * (dir.Normalize()[1] + 1.0)
	return types.Uniform(1.0 - a).Add(types.XYZ(0.5, 0.7, 1.0).Mul(a))
}
