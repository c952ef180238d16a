package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/lumen/types"
)

const floatCmpEpsilon = 1e-9

var grey = Lambertian(types.Uniform(0.5), 0)

func TestSphereIntersect(t *testing.T) {
	type spec struct {
		sphere  Object
		ray     types.Ray
		expHit  bool
		expDist float64
	}
	specs := []spec{
		// Aimed at the center from outside
		{NewSphere(types.XYZ(0, 0, 0), 1, grey), types.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, -1)), true, 4},
		// Non-normalized direction scales the reported distance
		{NewSphere(types.XYZ(0, 0, 0), 2, grey), types.NewRay(types.XYZ(10, 0, 0), types.XYZ(-2, 0, 0)), true, 4},
		// Misses (negative discriminant)
		{NewSphere(types.XYZ(0, 0, 0), 1, grey), types.NewRay(types.XYZ(0, 2, 5), types.XYZ(0, 0, -1)), false, 0},
		// Negative radius is a valid inverted shell
		{NewSphere(types.XYZ(0, 0, 0), -1, grey), types.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, -1)), true, 4},
		// Origin inside the sphere reports the near root behind the origin
		{NewSphere(types.XYZ(0, 0, 0), 1, grey), types.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)), true, -1},
		// Sphere behind the origin
		{NewSphere(types.XYZ(0, 0, 0), 1, grey), types.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, 1)), true, -6},
	}

	for index, s := range specs {
		dist, hit := s.sphere.Intersect(s.ray)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit && math.Abs(dist-s.expDist) > floatCmpEpsilon {
			t.Fatalf("[spec %d] expected hit distance %f; got %f", index, s.expDist, dist)
		}
	}
}

func TestSphereNormal(t *testing.T) {
	sphere := NewSphere(types.XYZ(1, 0, 0), 2, grey)
	if got := sphere.NormalAt(types.XYZ(3, 0, 0)); got != types.XYZ(1, 0, 0) {
		t.Fatalf("expected outward normal (1, 0, 0); got %v", got)
	}

	inverted := NewSphere(types.XYZ(1, 0, 0), -2, grey)
	if got := inverted.NormalAt(types.XYZ(3, 0, 0)); got != types.XYZ(-1, 0, 0) {
		t.Fatalf("expected inverted normal (-1, 0, 0); got %v", got)
	}

	box := inverted.Bound()
	if box.Min != types.XYZ(-1, -2, -2) || box.Max != types.XYZ(3, 2, 2) {
		t.Fatalf("expected inverted sphere bounds to use absolute radius; got %v", box)
	}
}

func TestCubeIntersect(t *testing.T) {
	cube := NewCube(types.XYZ(0, 0, 0), types.XYZ(1, 2, 3), grey)

	type spec struct {
		ray     types.Ray
		expHit  bool
		expDist float64
	}
	specs := []spec{
		{types.NewRay(types.XYZ(5, 0, 0), types.XYZ(-1, 0, 0)), true, 4},
		{types.NewRay(types.XYZ(0, 7, 0), types.XYZ(0, -1, 0)), true, 5},
		{types.NewRay(types.XYZ(0, 0, -10), types.XYZ(0, 0, 1)), true, 7},
		{types.NewRay(types.XYZ(5, 3, 0), types.XYZ(-1, 0, 0)), false, 0},
		{types.NewRay(types.XYZ(5, 0, 0), types.XYZ(1, 0, 0)), false, 0},
		// Origin inside the cube: entry lies behind the origin
		{types.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)), false, 0},
		{types.NewRay(types.XYZ(0.5, 1, -2), types.XYZ(0, 0, 1)), false, 0},
	}

	for index, s := range specs {
		dist, hit := cube.Intersect(s.ray)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit && math.Abs(dist-s.expDist) > floatCmpEpsilon {
			t.Fatalf("[spec %d] expected hit distance %f; got %f", index, s.expDist, dist)
		}
	}
}

func TestCubeAgreesWithBoundingBox(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		cube := NewCube(types.RandomVec3(-2, 2, rng), types.RandomVec3(0.1, 1.5, rng), grey)
		box := cube.Bound()

		// Pick origins outside the box so both tests describe the same entry
		var origin types.Vec3
		for {
			origin = types.RandomVec3(-8, 8, rng)
			if !box.Contains(types.NewAABB(origin, origin)) {
				break
			}
		}
		r := types.NewRay(origin, types.RandomUnitVector(rng))

		_, cubeHit := cube.Intersect(r)
		if boxHit := box.Hit(r); cubeHit != boxHit {
			t.Fatalf("[iteration %d] cube intersection (%t) disagrees with its bounding box test (%t)", i, cubeHit, boxHit)
		}
	}
}

func TestCubeNormal(t *testing.T) {
	cube := NewCube(types.XYZ(0, 0, 0), types.Uniform(1), grey)

	type spec struct {
		point types.Vec3
		exp   types.Vec3
	}
	specs := []spec{
		{types.XYZ(1, 0.2, -0.3), types.XYZ(1, 0, 0)},
		{types.XYZ(-1, 0.2, -0.3), types.XYZ(-1, 0, 0)},
		{types.XYZ(0.5, 1, 0.1), types.XYZ(0, 1, 0)},
		{types.XYZ(0.5, -1, 0.1), types.XYZ(0, -1, 0)},
		{types.XYZ(0.5, 0.1, 1), types.XYZ(0, 0, 1)},
		{types.XYZ(0.5, 0.1, -1), types.XYZ(0, 0, -1)},
	}

	for index, s := range specs {
		if got := cube.NormalAt(s.point); got != s.exp {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, s.exp, got)
		}
	}
}
