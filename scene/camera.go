package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

var worldUp = types.XYZ(0, 1, 0)

type CameraDirection uint8

// Camera movement directions.
const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

// The parameters used to construct a Camera.
type CameraParams struct {
	Position types.Vec3
	LookDir  types.Vec3

	// Vertical field of view in degrees.
	FOV float64

	// Distance to the plane of perfect focus.
	FocusDist float64

	// Aperture cone angle in degrees; 0 renders a pinhole camera.
	DefocusAngle float64
}

// Get default camera parameters looking down the -Z axis.
func DefaultCameraParams() CameraParams {
	return CameraParams{
		Position:  types.XYZ(0, 0, 0),
		LookDir:   types.XYZ(0, 0, -1),
		FOV:       90,
		FocusDist: 1,
	}
}

// Get a copy of the params rotated by the given yaw and pitch deltas (in
// radians). Pitch is clamped so the look direction never becomes parallel
// to the world up vector.
func (p CameraParams) Rotate(yaw, pitch float64) CameraParams {
	dir := p.LookDir.Normalize()
	yawQuat := types.QuatFromAxisAngle(worldUp, yaw)
	rotated := yawQuat.Rotate(dir).Normalize()

	if pitchAxis := dir.Cross(worldUp); !pitchAxis.NearZeroTolerance(1e-9) {
		pitchQuat := types.QuatFromAxisAngle(pitchAxis.Normalize(), pitch)
		candidate := pitchQuat.Mul(yawQuat).Normalize().Rotate(dir).Normalize()
		if math.Abs(candidate.Dot(worldUp)) <= 0.999 {
			rotated = candidate
		}
	}

	p.LookDir = rotated
	return p
}

// Get a copy of the params moved by amount along dir.
func (p CameraParams) Move(dir CameraDirection, amount float64) CameraParams {
	forward := p.LookDir.Normalize()
	right := forward.Cross(worldUp).Normalize()

	var delta types.Vec3
	switch dir {
	case Forward:
		delta = forward
	case Backward:
		delta = forward.Neg()
	case Left:
		delta = right.Neg()
	case Right:
		delta = right
	case Up:
		delta = worldUp
	case Down:
		delta = worldUp.Neg()
	}

	p.Position = p.Position.Add(delta.Mul(amount))
	return p
}

// An immutable camera snapshot. A new Camera must be built whenever any of
// its parameters or the output dimensions change.
type Camera struct {
	Params CameraParams

	frameW, frameH uint32

	origin      types.Vec3
	pixel00     types.Vec3
	pixelDeltaX types.Vec3
	pixelDeltaY types.Vec3

	defocusDiskX types.Vec3
	defocusDiskY types.Vec3
}

// Create a camera for a frameW x frameH output image.
func NewCamera(params CameraParams, frameW, frameH uint32) (*Camera, error) {
	if frameW == 0 || frameH == 0 {
		return nil, fmt.Errorf("camera: invalid frame dimensions %dx%d", frameW, frameH)
	}
	if params.LookDir.NearZero() {
		return nil, fmt.Errorf("camera: look direction must not be zero")
	}
	if params.FOV <= 0 || params.FOV >= 180 {
		return nil, fmt.Errorf("camera: field of view must be in (0, 180); got %f", params.FOV)
	}
	if params.FocusDist <= 0 {
		return nil, fmt.Errorf("camera: focus distance must be positive; got %f", params.FocusDist)
	}

	h := math.Tan(types.Radians(params.FOV) / 2.0)
	viewportH := 2.0 * h * params.FocusDist
	viewportW := viewportH * float64(frameW) / float64(frameH)

	// Orthonormal basis; w points away from the look direction
	w := params.LookDir.Normalize().Neg()
	up := worldUp
	if up.Cross(w).NearZeroTolerance(1e-6) {
		up = types.XYZ(0, 0, -1)
	}
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Mul(viewportW)
	viewportV := v.Neg().Mul(viewportH)

	c := &Camera{
		Params:      params,
		frameW:      frameW,
		frameH:      frameH,
		origin:      params.Position,
		pixelDeltaX: viewportU.Div(float64(frameW)),
		pixelDeltaY: viewportV.Div(float64(frameH)),
	}

	upperLeft := c.origin.Sub(w.Mul(params.FocusDist)).Sub(viewportU.Mul(0.5)).Sub(viewportV.Mul(0.5))
	c.pixel00 = upperLeft.Add(c.pixelDeltaX.Add(c.pixelDeltaY).Mul(0.5))

	defocusRadius := params.FocusDist * math.Tan(types.Radians(params.DefocusAngle/2.0))
	c.defocusDiskX = u.Mul(defocusRadius)
	c.defocusDiskY = v.Mul(defocusRadius)

	return c, nil
}

// Get the output frame dimensions this camera was built for.
func (c *Camera) FrameDims() (uint32, uint32) {
	return c.frameW, c.frameH
}

// Generate a ray through pixel (x, y) jittered randomly within the pixel
// footprint. When the defocus angle is positive the ray origin is sampled
// from the defocus disk.
func (c *Camera) Ray(x, y float64, rng *rand.Rand) types.Ray {
	pixelCenter := c.pixel00.Add(c.pixelDeltaX.Mul(x)).Add(c.pixelDeltaY.Mul(y))
	pixelSample := pixelCenter.
		Add(c.pixelDeltaX.Mul(rng.Float64() - 0.5)).
		Add(c.pixelDeltaY.Mul(rng.Float64() - 0.5))

	origin := c.origin
	if c.Params.DefocusAngle > 0 {
		p := types.RandomInUnitDisk(rng)
		origin = origin.Add(c.defocusDiskX.Mul(p[0])).Add(c.defocusDiskY.Mul(p[1]))
	}

	return types.NewRay(origin, pixelSample.Sub(origin).Normalize())
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"Camera:\nPosition : (%3.3f, %3.3f, %3.3f)\nLookDir  : (%3.3f, %3.3f, %3.3f)\nFOV      : %3.1f\nFocus    : %3.3f\nDefocus  : %3.2f",
		c.Params.Position[0], c.Params.Position[1], c.Params.Position[2],
		c.Params.LookDir[0], c.Params.LookDir[1], c.Params.LookDir[2],
		c.Params.FOV, c.Params.FocusDist, c.Params.DefocusAngle,
	)
}
