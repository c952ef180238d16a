package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"time"

	assetScene "github.com/achilleasa/lumen/asset/scene"
	"github.com/achilleasa/lumen/asset/scene/reader"
	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/presets"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderOptions(ctx)
	opts.Frames = 1

	r, _, err := setupRenderer(ctx, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame at %d spp", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	if err = r.Render(); err != nil {
		return err
	}

	displayFrameStats(r.Stats())
	return writeFrame(r.Frame(), ctx.String("out"))
}

// Render a sequence of progressively refined frames. When orbiting or
// dollying, the camera is updated before each frame which discards the
// accumulated samples.
func RenderProgressive(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderOptions(ctx)
	opts.Frames = uint32(ctx.Int("frames"))
	if opts.Frames == 0 {
		return errors.New("frames must be greater than zero")
	}

	r, sc, err := setupRenderer(ctx, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	orbit := types.Radians(ctx.Float64("orbit"))
	dolly := ctx.Float64("dolly")
	camParams := sc.Camera

	var prevFrame *image.RGBA
	start := time.Now()
	for frame := uint32(0); frame < opts.Frames; frame++ {
		if (orbit != 0 || dolly != 0) && frame > 0 {
			camParams = camParams.Rotate(orbit, 0).Move(scene.Forward, dolly)
			camera, err := scene.NewCamera(camParams, opts.FrameW, opts.FrameH)
			if err != nil {
				return err
			}
			if err = r.UpdateCamera(camera); err != nil {
				return err
			}
		}

		if err = r.Render(); err != nil {
			return err
		}

		stats := r.Stats()
		curFrame := r.Frame()
		if prevFrame != nil {
			logger.Infof("frame %d: accumulated %d frames in %s; rms delta %.4f", frame, stats.FrameCount, stats.RenderTime, frameDelta(prevFrame, curFrame))
		} else {
			logger.Infof("frame %d: accumulated %d frames in %s", frame, stats.FrameCount, stats.RenderTime)
		}
		prevFrame = curFrame
	}
	logger.Noticef("rendered %d frames in %s", opts.Frames, time.Since(start))

	displayFrameStats(r.Stats())
	return writeFrame(prevFrame, ctx.String("out"))
}

func renderOptions(ctx *cli.Context) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.FrameW = uint32(ctx.Int("width"))
	opts.FrameH = uint32(ctx.Int("height"))
	opts.SamplesPerPixel = uint32(ctx.Int("spp"))
	opts.NumBounces = uint32(ctx.Int("num-bounces"))
	opts.Seed = ctx.Int64("seed")
	if numTracers := ctx.Int("num-tracers"); numTracers > 0 {
		opts.NumTracers = uint32(numTracers)
	}
	return opts
}

// Load the scene selected by the --preset flag or the command argument.
func loadScene(ctx *cli.Context) (*assetScene.Scene, error) {
	if name := ctx.String("preset"); name != "" {
		preset, err := presets.Get(name)
		if err != nil {
			return nil, err
		}
		logger.Noticef("generating preset scene %q", name)
		return preset.Build(ctx.Int64("seed")), nil
	}

	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument")
	}
	return reader.ReadScene(ctx.Args().First())
}

func setupRenderer(ctx *cli.Context, opts renderer.Options) (renderer.Renderer, *assetScene.Scene, error) {
	sc, err := loadScene(ctx)
	if err != nil {
		return nil, nil, err
	}

	world, err := sc.World()
	if err != nil {
		return nil, nil, err
	}

	camera, err := scene.NewCamera(sc.Camera, opts.FrameW, opts.FrameH)
	if err != nil {
		return nil, nil, err
	}

	var scheduler tracer.BlockScheduler
	switch ctx.String("scheduler") {
	case "naive":
		scheduler = tracer.NaiveScheduler()
	case "perfect":
		scheduler = tracer.PerfectScheduler()
	default:
		return nil, nil, fmt.Errorf("unknown scheduler %q", ctx.String("scheduler"))
	}

	r, err := renderer.NewDefault(world, camera, scheduler, opts)
	if err != nil {
		return nil, nil, err
	}
	return r, sc, nil
}

// Export frame as PNG.
func writeFrame(frame *image.RGBA, imgFile string) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = png.Encode(f, frame); err != nil {
		return fmt.Errorf("error encoding png file: %s", err.Error())
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Root mean square difference of the color channels of two frames, in [0, 1].
func frameDelta(a, b *image.RGBA) float64 {
	if len(a.Pix) != len(b.Pix) || len(a.Pix) == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(a.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			d := (float64(a.Pix[i+c]) - float64(b.Pix[i+c])) / 255
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(len(a.Pix)/4*3))
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d frames", stats.FrameCount), "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
