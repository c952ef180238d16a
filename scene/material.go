package scene

import (
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

type MaterialKind uint8

const (
	LambertianMaterial MaterialKind = iota
	MetallicMaterial
	DielectricMaterial
)

func (k MaterialKind) String() string {
	switch k {
	case LambertianMaterial:
		return "lambertian"
	case MetallicMaterial:
		return "metallic"
	case DielectricMaterial:
		return "dielectric"
	}
	return "unknown"
}

// Defines a scene material. Materials are small values that are copied into
// each object that uses them.
type Material struct {
	// The type of the material.
	Kind MaterialKind

	// Diffuse/specular color (lambertian and metallic materials).
	Albedo types.Vec3

	// Emission strength; the emitted color is Albedo * Emission
	// (lambertian materials only).
	Emission float64

	// Reflection roughness (metallic materials only).
	Fuzz float64

	// Index of refraction (dielectric materials only).
	IOR float64
}

// The outcome of a successful scatter event.
type Scattered struct {
	Attenuation types.Vec3
	Ray         types.Ray
}

// Create a diffuse material. A non-zero emission turns the surface into an
// area light.
func Lambertian(albedo types.Vec3, emission float64) Material {
	return Material{Kind: LambertianMaterial, Albedo: albedo, Emission: emission}
}

// Create a reflective material.
func Metallic(albedo types.Vec3, fuzz float64) Material {
	return Material{Kind: MetallicMaterial, Albedo: albedo, Fuzz: fuzz}
}

// Create a transparent refractive material.
func Dielectric(ior float64) Material {
	return Material{Kind: DielectricMaterial, IOR: ior}
}

// Scatter an incoming ray. Returns false if the ray is absorbed.
func (m Material) Scatter(in types.Ray, hit *RayHit, rng *rand.Rand) (Scattered, bool) {
	switch m.Kind {
	case LambertianMaterial:
		dir := hit.Normal.Add(types.RandomUnitVector(rng))
		if dir.NearZero() {
			dir = hit.Normal
		}
		return Scattered{Attenuation: m.Albedo, Ray: types.NewRay(hit.Point, dir)}, true
	case MetallicMaterial:
		dir := in.Dir.Normalize().Reflect(hit.Normal).Add(types.RandomUnitVector(rng).Mul(m.Fuzz))
		if dir.Dot(hit.Normal) <= 0 {
			return Scattered{}, false
		}
		return Scattered{Attenuation: m.Albedo, Ray: types.NewRay(hit.Point, dir)}, true
	case DielectricMaterial:
		ratio := m.IOR
		if hit.FrontFace {
			ratio = 1.0 / m.IOR
		}

		unitDir := in.Dir.Normalize()
		cosTheta := math.Min(unitDir.Neg().Dot(hit.Normal), 1.0)
		sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

		var dir types.Vec3
		if ratio*sinTheta > 1.0 || reflectance(cosTheta, ratio) > rng.Float64() {
			dir = unitDir.Reflect(hit.Normal)
		} else {
			dir = types.Refract(unitDir, hit.Normal, ratio)
		}
		return Scattered{Attenuation: types.Uniform(1), Ray: types.NewRay(hit.Point, dir)}, true
	}

	return Scattered{}, false
}

// Get the light emitted by the material surface.
func (m Material) EmissionColor() types.Vec3 {
	if m.Kind == LambertianMaterial {
		return m.Albedo.Mul(m.Emission)
	}
	return types.Vec3{}
}

// Schlick's approximation for reflectance.
func reflectance(cosine, refIdx float64) float64 {
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
