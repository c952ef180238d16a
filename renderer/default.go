package renderer

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/bvh"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/tracer/cpu"
)

// A renderer that splits each frame into row blocks and distributes them to
// a pool of cpu tracers.
type defaultRenderer struct {
	sync.Mutex

	logger log.Logger

	options Options

	// The block scheduler and last block assignment.
	scheduler        tracer.BlockScheduler
	blockAssignments []uint32

	tracers []tracer.Tracer

	// Linear RGB sum of per-frame sample averages.
	accumBuffer []float32

	// The gamma-corrected output frame. Tracers write directly to its
	// pixel buffer.
	frame *image.RGBA

	// Frames accumulated since the last reset and total rendered frames.
	frameCount     uint32
	renderedFrames uint32

	// Channels for collecting block completion status.
	doneChan chan uint32
	errChan  chan error

	stats FrameStats
}

// Create a new renderer for the given scene and camera using a pool of cpu
// tracers.
func NewDefault(sc *scene.Scene, camera *scene.Camera, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if opts.NumTracers == 0 {
		return nil, ErrNoTracers
	}

	tracers := make([]tracer.Tracer, opts.NumTracers)
	for idx := range tracers {
		tracers[idx] = cpu.NewTracer(fmt.Sprintf("cpu-%d", idx))
	}

	r, err := newRenderer(sc, camera, scheduler, tracers, opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newRenderer(sc *scene.Scene, camera *scene.Camera, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (*defaultRenderer, error) {
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameDims
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		options:     opts,
		scheduler:   scheduler,
		tracers:     tracers,
		accumBuffer: make([]float32, opts.FrameW*opts.FrameH*3),
		frame:       image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		doneChan:    make(chan uint32, len(tracers)),
		errChan:     make(chan error, len(tracers)),
	}

	for _, tr := range tracers {
		if err := tr.Init(opts.FrameW, opts.FrameH, r.accumBuffer, r.frame.Pix); err != nil {
			r.Close()
			return nil, err
		}
	}

	if err := r.UpdateScene(sc); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.UpdateCamera(camera); err != nil {
		r.Close()
		return nil, err
	}

	r.logger.Noticef("rendering %dx%d frames using %d tracers", opts.FrameW, opts.FrameH, len(tracers))
	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()

	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()
	return r.stats
}

// Get the number of frames accumulated since the last reset.
func (r *defaultRenderer) FrameCount() uint32 {
	r.Lock()
	defer r.Unlock()
	return r.frameCount
}

// Get a copy of the last rendered frame.
func (r *defaultRenderer) Frame() *image.RGBA {
	r.Lock()
	defer r.Unlock()

	out := image.NewRGBA(r.frame.Rect)
	copy(out.Pix, r.frame.Pix)
	return out
}

// Replace the camera and reset accumulation.
func (r *defaultRenderer) UpdateCamera(camera *scene.Camera) error {
	if camera == nil {
		return ErrCameraNotDefined
	}
	if w, h := camera.FrameDims(); w != r.options.FrameW || h != r.options.FrameH {
		return ErrFrameMismatch
	}

	r.Lock()
	defer r.Unlock()

	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateCamera, camera)
	}
	r.frameCount = 0
	return nil
}

// Replace the scene and reset accumulation. The scene objects are validated
// before the BVH is built so an invalid scene never reaches the tracers.
func (r *defaultRenderer) UpdateScene(sc *scene.Scene) error {
	if sc == nil {
		return ErrSceneNotDefined
	}

	validated := scene.NewScene()
	for idx, obj := range sc.Objects {
		if err := validated.Add(obj); err != nil {
			return fmt.Errorf("renderer: invalid object %d: %s", idx, err.Error())
		}
	}

	tree := bvh.Build(validated)
	stats := tree.Stats()
	r.logger.Debugf("scene BVH: %d objects, %d nodes, %d leafs, depth %d", stats.Objects, stats.Nodes, stats.Leafs, stats.MaxDepth)

	r.Lock()
	defer r.Unlock()

	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateScene, tree)
	}
	r.frameCount = 0
	return nil
}

// Render the next frame.
func (r *defaultRenderer) Render() error {
	r.Lock()
	defer r.Unlock()

	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	start := time.Now()
	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	var blockY uint32
	pending := 0
	seed := r.options.Seed + int64(r.renderedFrames)
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: r.options.SamplesPerPixel,
			NumBounces:      r.options.NumBounces,
			Seed:            seed,
			FrameCount:      r.frameCount,
			DoneChan:        r.doneChan,
			ErrChan:         r.errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for all blocks to complete
	var renderErr error
	for ; pending > 0; pending-- {
		select {
		case <-r.doneChan:
		case err := <-r.errChan:
			if renderErr == nil {
				renderErr = err
			}
		}
	}

	r.renderedFrames++
	if renderErr != nil {
		// Part of the accumulation buffer may hold a partial frame; start over
		r.frameCount = 0
		r.logger.Errorf("frame render failed: %s", renderErr.Error())
		return renderErr
	}
	r.frameCount++

	r.updateStats(time.Since(start))
	r.logger.Debugf("frame %d rendered in %s", r.frameCount, r.stats.RenderTime)
	return nil
}

// Collect tracer stats for the last frame. This method is meant to be called
// while holding r.Lock()
func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats.RenderTime = renderTime
	r.stats.FrameCount = r.frameCount
	r.stats.Tracers = make([]TracerStat, 0, len(r.tracers))

	for idx, tr := range r.tracers {
		stat := TracerStat{
			Id:           tr.Id(),
			BlockH:       r.blockAssignments[idx],
			FramePercent: 100.0 * float32(r.blockAssignments[idx]) / float32(r.options.FrameH),
		}
		if stat.BlockH != 0 {
			stat.RenderTime = tr.Stats().RenderTime
		}
		r.stats.Tracers = append(r.stats.Tracers, stat)
	}
}
