package scene

import "github.com/achilleasa/lumen/types"

// Describes a ray-surface intersection. Normal always opposes the incoming
// ray; FrontFace records whether the ray approached from the outside.
type RayHit struct {
	Point     types.Vec3
	Normal    types.Vec3
	Material  Material
	FrontFace bool
}

// Build the hit record for ray r hitting obj at distance t.
func NewRayHit(r types.Ray, t float64, obj *Object) RayHit {
	p := r.At(t)
	normal := obj.NormalAt(p)
	frontFace := r.Dir.Dot(normal) < 0
	if !frontFace {
		normal = normal.Neg()
	}

	return RayHit{
		Point:     p,
		Normal:    normal,
		Material:  obj.MaterialOf(),
		FrontFace: frontFace,
	}
}
