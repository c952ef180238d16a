package renderer

import (
	"image"

	"github.com/achilleasa/lumen/scene"
)

type Renderer interface {
	// Render the next frame. Consecutive frames rendered without a camera
	// or scene change are accumulated progressively.
	Render() error

	// Replace the camera and reset accumulation.
	UpdateCamera(*scene.Camera) error

	// Replace the scene and reset accumulation. An invalid scene is
	// rejected and the previous scene stays in use.
	UpdateScene(*scene.Scene) error

	// Get a copy of the last rendered frame.
	Frame() *image.RGBA

	// Get the number of frames accumulated since the last reset.
	FrameCount() uint32

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
