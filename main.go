package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/achilleasa/lumen/cmd"
	"github.com/urfave/cli"
)

// Flags for selecting the scene to load.
var sceneFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "preset, p",
		Usage: "use a built-in scene instead of a scene file (see list-scenes)",
	},
	cli.Int64Flag{
		Name:  "seed",
		Value: 1,
		Usage: "seed for preset generation and sampling",
	},
}

// Flags shared by all render commands.
var renderFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Value: 512,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 512,
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "spp",
		Value: 16,
		Usage: "samples per pixel",
	},
	cli.IntFlag{
		Name:  "num-bounces",
		Value: 50,
		Usage: "max path depth",
	},
	cli.IntFlag{
		Name:  "num-tracers",
		Value: runtime.NumCPU(),
		Usage: "number of parallel cpu tracers",
	},
	cli.StringFlag{
		Name:  "scheduler",
		Value: "perfect",
		Usage: "block scheduler to use (naive or perfect)",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "frame.png",
		Usage: "image filename for the rendered frame",
	},
}, sceneFlags...)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "render scenes using progressive path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "write logs to this file instead of stderr",
		},
		cli.StringSliceFlag{
			Name:  "log-module",
			Value: &cli.StringSlice{},
			Usage: "override the log level of a single logger (e.g. \"bvh=debug\")",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse one or more scene definitions and package the camera and scene objects
into zip archives next to each source file.

The compiled scene can be supplied as an argument to the render commands. When
the --preset flag is specified, the generated preset is written to <preset>.zip
instead.`,
			ArgsUsage: "scene_file1.scene scene_file2.scene ...",
			Flags:     sceneFlags,
			Action:    cmd.CompileScene,
		},
		{
			Name:  "scene",
			Usage: "inspect scenes",
			Subcommands: []cli.Command{
				{
					Name:      "info",
					Usage:     "display scene geometry, material and BVH statistics",
					ArgsUsage: "scene_file",
					Flags:     sceneFlags,
					Action:    cmd.ShowSceneInfo,
				},
			},
		},
		{
			Name:   "list-scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:        "frame",
					Usage:       "render single frame",
					Description: `Render a single frame and save it as a PNG image.`,
					ArgsUsage:   "scene_file",
					Flags:       renderFlags,
					Action:      cmd.RenderFrame,
				},
				{
					Name:  "progressive",
					Usage: "render a sequence of progressively refined frames",
					Description: `
Render several frames accumulating samples between them and save the last
frame as a PNG image. With --orbit or --dolly the camera is moved before each
frame and accumulation restarts.`,
					ArgsUsage: "scene_file",
					Flags: append([]cli.Flag{
						cli.IntFlag{
							Name:  "frames",
							Value: 16,
							Usage: "number of frames to render",
						},
						cli.Float64Flag{
							Name:  "orbit",
							Value: 0,
							Usage: "rotate the camera by this many degrees between frames",
						},
						cli.Float64Flag{
							Name:  "dolly",
							Value: 0,
							Usage: "move the camera forward by this distance between frames",
						},
					}, renderFlags...),
					Action: cmd.RenderProgressive,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
