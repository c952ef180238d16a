package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/lumen/types"
)

func frontHit(normal types.Vec3, mat Material) *RayHit {
	return &RayHit{
		Point:     types.XYZ(0, 0, 0),
		Normal:    normal,
		Material:  mat,
		FrontFace: true,
	}
}

func TestLambertianScatter(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	albedo := types.XYZ(0.2, 0.5, 0.9)
	mat := Lambertian(albedo, 0)
	hit := frontHit(types.XYZ(0, 1, 0), mat)
	in := types.NewRay(types.XYZ(0, 1, 1), types.XYZ(0, -1, -1))

	for i := 0; i < 1000; i++ {
		sc, ok := mat.Scatter(in, hit, rng)
		if !ok {
			t.Fatalf("[iteration %d] expected lambertian material to always scatter", i)
		}
		if sc.Attenuation != albedo {
			t.Fatalf("[iteration %d] expected attenuation %v; got %v", i, albedo, sc.Attenuation)
		}
		for c := 0; c < 3; c++ {
			if sc.Attenuation[c] < 0 || sc.Attenuation[c] > 1 {
				t.Fatalf("[iteration %d] expected attenuation within [0, 1]; got %v", i, sc.Attenuation)
			}
		}
		if sc.Ray.Dir.NearZero() {
			t.Fatalf("[iteration %d] expected a non-degenerate scatter direction", i)
		}
		if sc.Ray.Dir.Dot(hit.Normal) < 0 {
			t.Fatalf("[iteration %d] expected scattered ray in the normal hemisphere; got %v", i, sc.Ray.Dir)
		}
	}
}

func TestMetallicScatter(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	normal := types.XYZ(0, 1, 0)
	in := types.NewRay(types.XYZ(-1, 1, 0), types.XYZ(1, -1, 0))

	// A perfect mirror reflects deterministically
	mirror := Metallic(types.Uniform(0.8), 0)
	sc, ok := mirror.Scatter(in, frontHit(normal, mirror), rng)
	if !ok {
		t.Fatal("expected mirror to scatter")
	}
	exp := types.XYZ(1, 1, 0).Normalize()
	if sc.Ray.Dir.Sub(exp).Len() > floatCmpEpsilon {
		t.Fatalf("expected mirror reflection %v; got %v", exp, sc.Ray.Dir)
	}

	// Grazing rays on a very fuzzy surface are absorbed some of the time and
	// never scatter into the surface
	fuzzy := Metallic(types.Uniform(0.8), 1)
	grazing := types.NewRay(types.XYZ(-1, 0.01, 0), types.XYZ(1, -0.01, 0))
	absorbed := 0
	for i := 0; i < 1000; i++ {
		sc, ok := fuzzy.Scatter(grazing, frontHit(normal, fuzzy), rng)
		if !ok {
			absorbed++
			continue
		}
		if sc.Ray.Dir.Dot(normal) <= 0 {
			t.Fatalf("[iteration %d] expected scattered ray above the surface; got %v", i, sc.Ray.Dir)
		}
	}
	if absorbed == 0 {
		t.Fatal("expected some grazing rays to be absorbed")
	}
}

func TestDielectricScatter(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	glass := Dielectric(1.5)
	normal := types.XYZ(0, 1, 0)

	reflected, refracted := 0, 0
	in := types.NewRay(types.XYZ(-1, 1, 0), types.XYZ(1, -1, 0))
	for i := 0; i < 2000; i++ {
		sc, ok := glass.Scatter(in, frontHit(normal, glass), rng)
		if !ok {
			t.Fatalf("[iteration %d] expected dielectric material to always scatter", i)
		}
		if sc.Attenuation != types.Uniform(1) {
			t.Fatalf("[iteration %d] expected attenuation (1, 1, 1); got %v", i, sc.Attenuation)
		}
		if sc.Ray.Dir[1] > 0 {
			reflected++
		} else {
			refracted++
		}
	}
	if reflected == 0 || refracted == 0 {
		t.Fatalf("expected a mix of reflected and refracted rays; got %d reflected and %d refracted", reflected, refracted)
	}
	if refracted < reflected {
		t.Fatalf("expected refraction to dominate at 45 degrees; got %d reflected and %d refracted", reflected, refracted)
	}

	// Leaving glass at a steep angle triggers total internal reflection
	backHit := &RayHit{Normal: normal, Material: glass, FrontFace: false}
	steep := types.NewRay(types.XYZ(-1, 0.2, 0), types.XYZ(1, -0.2, 0))
	for i := 0; i < 100; i++ {
		sc, _ := glass.Scatter(steep, backHit, rng)
		if sc.Ray.Dir[1] <= 0 {
			t.Fatalf("[iteration %d] expected total internal reflection; got %v", i, sc.Ray.Dir)
		}
	}
}

func TestEmissionColor(t *testing.T) {
	type spec struct {
		mat Material
		exp types.Vec3
	}
	specs := []spec{
		{Lambertian(types.XYZ(1, 0.5, 0), 2), types.XYZ(2, 1, 0)},
		{Lambertian(types.XYZ(1, 0.5, 0), 0), types.Vec3{}},
		{Metallic(types.XYZ(1, 1, 1), 0.1), types.Vec3{}},
		{Dielectric(1.5), types.Vec3{}},
	}

	for index, s := range specs {
		if got := s.mat.EmissionColor(); got != s.exp {
			t.Fatalf("[spec %d] expected emission %v; got %v", index, s.exp, got)
		}
	}
}

func TestReflectance(t *testing.T) {
	// Head-on reflectance for glass is ((1-1.5)/(1+1.5))^2 = 0.04
	if got := reflectance(1, 1.5); math.Abs(got-0.04) > floatCmpEpsilon {
		t.Fatalf("expected head-on reflectance 0.04; got %f", got)
	}
	// At grazing angles everything is reflected
	if got := reflectance(0, 1.5); math.Abs(got-1) > floatCmpEpsilon {
		t.Fatalf("expected grazing reflectance 1; got %f", got)
	}
}
