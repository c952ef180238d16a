package tracer

import "time"

type UpdateType uint8

// Supported update types.
const (
	UpdateScene UpdateType = iota
	UpdateCamera
)

func (ut UpdateType) String() string {
	switch ut {
	case UpdateScene:
		return "scene"
	case UpdateCamera:
		return "camera"
	}
	return "unknown"
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// The max number of bounces before a path is considered absorbed.
	NumBounces uint32

	// A random seed value for the tracer's random number generators.
	Seed int64

	// Number of sequential rendered frames from current camera position.
	// A value of 0 overwrites the accumulation buffer instead of adding to it.
	FrameCount uint32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block
	RenderTime time.Duration

	// The time for applying pending updates before rendering this block
	UpdateTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the computation speed estimate relative to a single cpu core.
	Speed() uint32

	// Initialize tracer and attach it to the shared accumulation and frame
	// buffers. Each tracer only writes to the rows of its assigned blocks.
	Init(frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Append a change to the tracer's update buffer. Pending changes are
	// applied before the next block is rendered.
	Update(UpdateType, interface{})

	// Retrieve last frame statistics.
	Stats() *Stats
}
