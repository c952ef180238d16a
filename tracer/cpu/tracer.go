package cpu

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/types"
)

// Each cpu tracer drives a single worker goroutine.
const speedPerTracer = 1

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// The output frame dimensions.
	frameW uint32
	frameH uint32

	// Shared buffers. The accumulation buffer stores 3 linear floats per
	// pixel and the frame buffer stores 4 gamma-corrected bytes per pixel.
	accumBuffer []float32
	frameBuffer []uint8

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered frame.
	stats *tracer.Stats

	// The applied scene and camera. Both are shared read-only with the
	// other tracers.
	target Target
	camera *scene.Camera
}

// Create a new cpu tracer.
func NewTracer(id string) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest),
		updateBuffer: make(map[tracer.UpdateType]interface{}),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return speedPerTracer
}

// Initialize tracer and start the block worker.
func (tr *cpuTracer) Init(frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan != nil {
		return ErrAlreadyInitialized
	}

	pixels := int(frameW) * int(frameH)
	if pixels == 0 || len(accumBuffer) < pixels*3 || len(frameBuffer) < pixels*4 {
		return ErrBufferTooSmall
	}

	tr.frameW = frameW
	tr.frameH = frameH
	tr.accumBuffer = accumBuffer
	tr.frameBuffer = frameBuffer

	tr.startWorker()
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	// If the worker is running shut it down. The lock must not be held
	// here as the worker grabs it while committing updates.
	if closeChan != nil {
		close(closeChan)
		tr.wg.Wait()
	}

	tr.Lock()
	defer tr.Unlock()
	tr.target = nil
	tr.camera = nil
	tr.accumBuffer = nil
	tr.frameBuffer = nil
}

// Enqueue block request. The call blocks until the worker picks up the
// request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	tr.Lock()
	closeChan := tr.closeChan
	tr.Unlock()

	if closeChan == nil {
		blockReq.ErrChan <- ErrNotInitialized
		return
	}

	select {
	case tr.blockReqChan <- blockReq:
	case <-closeChan:
		blockReq.ErrChan <- ErrNotInitialized
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()
	tr.updateBuffer[updateType] = data
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Apply queued changes. Every pending change is consumed; a change that
// fails to apply leaves the previously applied value in place and the first
// such failure is returned.
func (tr *cpuTracer) commitUpdates() error {
	tr.Lock()
	pending := tr.updateBuffer
	tr.updateBuffer = make(map[tracer.UpdateType]interface{})
	tr.Unlock()

	var firstErr error
	for updateType, data := range pending {
		var err error
		switch updateType {
		case tracer.UpdateScene:
			err = tr.setScene(data)
		case tracer.UpdateCamera:
			err = tr.setCamera(data)
		default:
			err = fmt.Errorf("cpu tracer: unsupported update type %d", updateType)
		}

		if err != nil {
			tr.logger.Errorf("could not apply %s update: %s", updateType, err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (tr *cpuTracer) setScene(data interface{}) error {
	target, ok := data.(Target)
	if !ok || target == nil {
		return fmt.Errorf("cpu tracer: unsupported scene data type %T", data)
	}
	if sc, isScene := target.(*scene.Scene); isScene && sc == nil {
		return ErrNoSceneData
	}

	tr.target = target
	return nil
}

func (tr *cpuTracer) setCamera(data interface{}) error {
	camera, ok := data.(*scene.Camera)
	if !ok || camera == nil {
		return fmt.Errorf("cpu tracer: unsupported camera data type %T", data)
	}

	if w, h := camera.FrameDims(); w != tr.frameW || h != tr.frameH {
		return ErrCameraFrameMismatch
	}

	tr.camera = camera
	return nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})
	closeChan := tr.closeChan

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime = time.Now()

				// Apply any pending changes
				err = tr.commitUpdates()
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}
				tr.stats.UpdateTime = time.Since(startTime)

				// Render block and reply with our completion status
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block rows. Each row gets its own random number generator seeded
// from the request seed so output does not depend on block assignment.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.target == nil {
		return ErrNoSceneData
	}
	if tr.camera == nil {
		return ErrNoCamera
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH || blockReq.BlockY+blockReq.BlockH < blockReq.BlockY {
		return ErrInvalidBlockRequest
	}

	spp := blockReq.SamplesPerPixel
	if spp == 0 {
		spp = 1
	}
	sampleScale := 1.0 / float64(spp)
	frameScale := 1.0 / float64(blockReq.FrameCount+1)

	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		rng := rand.New(rand.NewSource(RowSeed(blockReq.Seed, y)))

		for x := uint32(0); x < tr.frameW; x++ {
			var sum types.Vec3
			for s := uint32(0); s < spp; s++ {
				r := tr.camera.Ray(float64(x), float64(y), rng)
				sum = sum.Add(RayColor(r, tr.target, blockReq.NumBounces, rng))
			}
			sample := sum.Mul(sampleScale)

			pixel := int(y*tr.frameW + x)
			accum := tr.accumBuffer[pixel*3 : pixel*3+3]
			rgba := tr.frameBuffer[pixel*4 : pixel*4+4]
			var display types.Vec3
			for c := 0; c < 3; c++ {
				if blockReq.FrameCount == 0 {
					accum[c] = float32(sample[c])
				} else {
					accum[c] += float32(sample[c])
				}
				display[c] = float64(accum[c]) * frameScale
			}

			display = display.LinearToGamma()
			rgba[0] = Quantize(display[0])
			rgba[1] = Quantize(display[1])
			rgba[2] = Quantize(display[2])
			rgba[3] = 255
		}
	}

	return nil
}

// Derive the random seed for a frame row.
func RowSeed(seed int64, row uint32) int64 {
	return seed*1000003 + int64(row)
}

// Map a [0, 1] channel value to a byte. Values outside the range are
// clamped and NaN maps to 0.
func Quantize(c float64) uint8 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c * 255.0)
}
