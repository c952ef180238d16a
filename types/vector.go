package types

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Components whose absolute value is at or below this threshold are treated
// as zero by NearZero.
const nearZeroEpsilon = 1e-8

type Vec3 f64.Vec3

// Define a 3 component vector.
func XYZ(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Define a vector with all components set to v.
func Uniform(v float64) Vec3 {
	return Vec3{v, v, v}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Multiply two vectors component-wise.
func (v Vec3) MulVec(v2 Vec3) Vec3 {
	return Vec3{v[0] * v2[0], v[1] * v2[1], v[2] * v2[2]}
}

// Divide by a scalar.
func (v Vec3) Div(s float64) Vec3 {
	return Vec3{v[0] / s, v[1] / s, v[2] / s}
}

// Negate vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Get 3 component vector length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSquared())
}

// Get the squared vector length.
func (v Vec3) LenSquared() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Normalize 3 component vector. The result is undefined (NaN) for zero length
// vectors so callers must ensure that v is not near zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Get a vector with the absolute value of each component.
func (v Vec3) Abs() Vec3 {
	return Vec3{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}

// Calculate dot product of 2 vectors
func (v Vec3) Dot(v2 Vec3) float64 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Reflect v around normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Refract unit vector uv through a surface with normal n. The normal must
// point against uv and etaRatio is the ratio of the refractive indices
// (incident over transmitted).
func Refract(uv, n Vec3, etaRatio float64) Vec3 {
	cosTheta := math.Min(uv.Neg().Dot(n), 1.0)
	outPerp := uv.Add(n.Mul(cosTheta)).Mul(etaRatio)
	outParallel := n.Mul(-math.Sqrt(math.Abs(1.0 - outPerp.LenSquared())))
	return outPerp.Add(outParallel)
}

// Returns true if all components are within tolerance of zero.
func (v Vec3) NearZeroTolerance(tolerance float64) bool {
	return math.Abs(v[0]) <= tolerance && math.Abs(v[1]) <= tolerance && math.Abs(v[2]) <= tolerance
}

// Returns true if all components are close to zero.
func (v Vec3) NearZero() bool {
	return v.NearZeroTolerance(nearZeroEpsilon)
}

// Apply a gamma 2.0 curve to each linear channel.
func (v Vec3) LinearToGamma() Vec3 {
	return Vec3{math.Sqrt(math.Max(v[0], 0)), math.Sqrt(math.Max(v[1], 0)), math.Sqrt(math.Max(v[2], 0))}
}

// Rotate vector around the X axis.
func (v Vec3) RotateX(theta float64) Vec3 {
	sin, cos := math.Sincos(theta)
	return Vec3{v[0], v[1]*cos + v[2]*sin, -v[1]*sin + v[2]*cos}
}

// Rotate vector around the Y axis.
func (v Vec3) RotateY(theta float64) Vec3 {
	sin, cos := math.Sincos(theta)
	return Vec3{v[0]*cos + v[2]*sin, v[1], -v[0]*sin + v[2]*cos}
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc max component from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}

// Convert degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
