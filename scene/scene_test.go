package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/lumen/types"
)

func TestSceneAdd(t *testing.T) {
	sc := NewScene()

	type spec struct {
		obj    Object
		expErr bool
	}
	specs := []spec{
		{NewSphere(types.XYZ(0, 0, 0), 1, grey), false},
		{NewSphere(types.XYZ(0, 0, 0), -0.9, grey), false},
		{NewSphere(types.XYZ(0, 0, 0), 0, grey), true},
		{NewCube(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), grey), false},
		{NewCube(types.XYZ(0, 0, 0), types.XYZ(1, 0, 1), grey), true},
		{Object{Kind: ObjectKind(42)}, true},
	}

	for index, s := range specs {
		err := sc.Add(s.obj)
		if s.expErr && err == nil {
			t.Fatalf("[spec %d] expected an error", index)
		}
		if !s.expErr && err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
	}

	if sc.Len() != 3 {
		t.Fatalf("expected scene to contain 3 objects; got %d", sc.Len())
	}
}

func TestSceneHitReturnsNearest(t *testing.T) {
	far := NewSphere(types.XYZ(0, 0, -10), 1, grey)
	near := NewSphere(types.XYZ(0, 0, -5), 1, Metallic(types.Uniform(1), 0))
	sc := NewScene(far, near)

	dist, obj, ok := sc.Hit(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1)))
	if !ok {
		t.Fatal("expected ray to hit")
	}
	if math.Abs(dist-4) > floatCmpEpsilon {
		t.Fatalf("expected nearest hit at distance 4; got %f", dist)
	}
	if obj.Center != near.Center {
		t.Fatalf("expected nearest object to be hit; got object at %v", obj.Center)
	}

	if _, _, ok = sc.Hit(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))); ok {
		t.Fatal("expected ray pointing away from the scene to miss")
	}
	if _, _, ok = NewScene().Hit(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))); ok {
		t.Fatal("expected empty scene to miss")
	}
}

func TestSceneTraceFrontFace(t *testing.T) {
	sc := NewScene(NewSphere(types.XYZ(0, 0, 0), 1, Dielectric(1.5)))

	// Outside looking in
	hit, ok := sc.Trace(types.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, -1)))
	if !ok {
		t.Fatal("expected ray to hit")
	}
	if !hit.FrontFace {
		t.Fatal("expected front face hit for a ray arriving from outside")
	}
	if hit.Normal != types.XYZ(0, 0, 1) {
		t.Fatalf("expected normal (0, 0, 1); got %v", hit.Normal)
	}

	// Rays starting inside a solid object never hit its surface
	if _, ok = sc.Trace(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1))); ok {
		t.Fatal("expected ray starting inside the sphere to miss")
	}
	cubeScene := NewScene(NewCube(types.XYZ(0, 0, 0), types.Uniform(1), Dielectric(1.5)))
	if _, ok = cubeScene.Trace(types.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0))); ok {
		t.Fatal("expected ray starting inside the cube to miss")
	}

	// Inverted shell seen from outside; normal is flipped to oppose the ray
	shell := NewScene(NewSphere(types.XYZ(0, 0, 0), -1, Dielectric(1.5)))
	hit, ok = shell.Trace(types.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, -1)))
	if !ok {
		t.Fatal("expected ray to hit")
	}
	if hit.FrontFace {
		t.Fatal("expected back face hit on an inverted shell")
	}
	if hit.Normal != types.XYZ(0, 0, 1) {
		t.Fatalf("expected flipped normal (0, 0, 1); got %v", hit.Normal)
	}
	if hit.Normal.Dot(types.XYZ(0, 0, -1)) >= 0 {
		t.Fatal("expected normal to oppose the incoming ray")
	}
}

func TestSceneBound(t *testing.T) {
	if _, ok := NewScene().Bound(); ok {
		t.Fatal("expected empty scene to have no bounds")
	}

	sc := NewScene(
		NewSphere(types.XYZ(-5, 0, 0), 1, grey),
		NewCube(types.XYZ(5, 0, 0), types.XYZ(1, 2, 3), grey),
	)
	box, _ := sc.Bound()
	if box.Min != types.XYZ(-6, -2, -3) || box.Max != types.XYZ(6, 2, 3) {
		t.Fatalf("unexpected scene bounds %v", box)
	}
}

func TestSkyColor(t *testing.T) {
	if got := SkyColor(types.XYZ(0, 1, 0)); got != types.XYZ(0.5, 0.7, 1.0) {
		t.Fatalf("expected zenith color (0.5, 0.7, 1.0); got %v", got)
	}
	if got := SkyColor(types.XYZ(0, -1, 0)); got != types.Uniform(1) {
		t.Fatalf("expected nadir color white; got %v", got)
	}
}

func TestCameraRay(t *testing.T) {
	params := CameraParams{
		Position:  types.XYZ(0, 0, 0),
		LookDir:   types.XYZ(0, 0, -1),
		FOV:       90,
		FocusDist: 1,
	}
	cam, err := NewCamera(params, 100, 100)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		r := cam.Ray(49.5, 49.5, rng)
		if r.Origin != params.Position {
			t.Fatalf("[iteration %d] expected pinhole rays to start at the camera origin; got %v", i, r.Origin)
		}
		if math.Abs(r.Dir.Len()-1) > floatCmpEpsilon {
			t.Fatalf("[iteration %d] expected normalized ray direction; got length %f", i, r.Dir.Len())
		}
		if r.Dir.Dot(params.LookDir) < 0.999 {
			t.Fatalf("[iteration %d] expected center pixel ray along the look direction; got %v", i, r.Dir)
		}
	}

	// Top-left pixel ray points up and left
	r := cam.Ray(0, 0, rng)
	if r.Dir[0] >= 0 || r.Dir[1] <= 0 {
		t.Fatalf("expected top-left ray to point up-left; got %v", r.Dir)
	}

	// Bottom-right pixel ray points down and right at ~45 degrees (fov 90)
	r = cam.Ray(99, 99, rng)
	if r.Dir[0] <= 0 || r.Dir[1] >= 0 {
		t.Fatalf("expected bottom-right ray to point down-right; got %v", r.Dir)
	}
}

func TestCameraDefocus(t *testing.T) {
	params := CameraParams{
		Position:     types.XYZ(0, 0, 0),
		LookDir:      types.XYZ(0, 0, -1),
		FOV:          40,
		FocusDist:    10,
		DefocusAngle: 2,
	}
	cam, err := NewCamera(params, 64, 64)
	if err != nil {
		t.Fatal(err)
	}

	radius := 10 * math.Tan(types.Radians(1))
	rng := rand.New(rand.NewSource(9))
	moved := false
	for i := 0; i < 100; i++ {
		r := cam.Ray(32, 32, rng)
		if r.Origin[2] != 0 || r.Origin.Len() > radius+floatCmpEpsilon {
			t.Fatalf("[iteration %d] expected ray origin inside the defocus disk; got %v", i, r.Origin)
		}
		if r.Origin.Len() > 0 {
			moved = true
		}
	}
	if !moved {
		t.Fatal("expected defocus disk sampling to jitter the ray origin")
	}
}

func TestCameraValidation(t *testing.T) {
	base := DefaultCameraParams()

	type spec struct {
		mutate func(p *CameraParams)
		w, h   uint32
	}
	specs := []spec{
		{func(p *CameraParams) {}, 0, 10},
		{func(p *CameraParams) { p.LookDir = types.Vec3{} }, 10, 10},
		{func(p *CameraParams) { p.FOV = 0 }, 10, 10},
		{func(p *CameraParams) { p.FocusDist = -1 }, 10, 10},
	}

	for index, s := range specs {
		p := base
		s.mutate(&p)
		if _, err := NewCamera(p, s.w, s.h); err == nil {
			t.Fatalf("[spec %d] expected an error", index)
		}
	}

	// Looking straight up must still produce a valid basis
	p := base
	p.LookDir = types.XYZ(0, 1, 0)
	cam, err := NewCamera(p, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	r := cam.Ray(5, 5, rand.New(rand.NewSource(1)))
	if math.IsNaN(r.Dir[0]) || r.Dir[1] < 0.9 {
		t.Fatalf("expected upward ray; got %v", r.Dir)
	}
}

func TestCameraParamsRotateAndMove(t *testing.T) {
	p := DefaultCameraParams()

	rotated := p.Rotate(math.Pi/2, 0)
	if rotated.LookDir.Sub(types.XYZ(-1, 0, 0)).Len() > 1e-9 {
		t.Fatalf("expected a quarter yaw turn to look down -X; got %v", rotated.LookDir)
	}
	if p.LookDir != types.XYZ(0, 0, -1) {
		t.Fatal("expected Rotate to leave the original params untouched")
	}

	pitched := p.Rotate(0, 0.3)
	if pitched.LookDir[1] <= 0 {
		t.Fatalf("expected positive pitch to look upwards; got %v", pitched.LookDir)
	}

	moved := p.Move(Forward, 2).Move(Right, 1)
	if moved.Position.Sub(types.XYZ(1, 0, -2)).Len() > 1e-9 {
		t.Fatalf("expected moved position (1, 0, -2); got %v", moved.Position)
	}
}
