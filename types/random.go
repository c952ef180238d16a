package types

import (
	"math"
	"math/rand"
)

// Get a random float in [min, max).
func RandomRange(min, max float64, rng *rand.Rand) float64 {
	return min + (max-min)*rng.Float64()
}

// Get a vector with each component drawn uniformly from [min, max).
func RandomVec3(min, max float64, rng *rand.Rand) Vec3 {
	return Vec3{
		RandomRange(min, max, rng),
		RandomRange(min, max, rng),
		RandomRange(min, max, rng),
	}
}

// Get a random unit vector. Samples are drawn from the unit ball and
// rejected if they fall outside it (or too close to the origin) so the
// resulting directions are uniformly distributed on the sphere.
func RandomUnitVector(rng *rand.Rand) Vec3 {
	for {
		p := RandomVec3(-1, 1, rng)
		lenSq := p.LenSquared()
		if lenSq > 1e-160 && lenSq <= 1 {
			return p.Div(math.Sqrt(lenSq))
		}
	}
}

// Get a random point inside the unit disk on the z = 0 plane.
func RandomInUnitDisk(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{RandomRange(-1, 1, rng), RandomRange(-1, 1, rng), 0}
		if p.LenSquared() < 1 {
			return p
		}
	}
}
