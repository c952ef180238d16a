package renderer

import "runtime"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Max number of bounces before a path is considered absorbed.
	NumBounces uint32

	// Number of samples per pixel for each frame.
	SamplesPerPixel uint32

	// Number of cpu tracers. Each tracer renders its block on a separate
	// goroutine.
	NumTracers uint32

	// Number of progressive frames to render.
	Frames uint32

	// Base seed for the tracer random number generators.
	Seed int64
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:          512,
		FrameH:          512,
		NumBounces:      50,
		SamplesPerPixel: 16,
		NumTracers:      uint32(runtime.NumCPU()),
		Frames:          1,
		Seed:            1,
	}
}
