package cmd

import (
	"bytes"
	"errors"
	"strings"

	"github.com/achilleasa/lumen/asset/scene/reader"
	"github.com/achilleasa/lumen/asset/scene/writer"
	"github.com/achilleasa/lumen/scene/presets"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Compile text scenes (or a preset) to the zip format.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if name := ctx.String("preset"); name != "" {
		sc, err := loadScene(ctx)
		if err != nil {
			return err
		}
		logger.Noticef("scene information:\n%s", sc.Stats())
		return writer.WriteScene(sc, name+".zip")
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene file argument")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".scene") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing and compiling scene: %s", sceneFile)
		sc, err := reader.ReadScene(sceneFile)
		if err != nil {
			return err
		}

		// Display compiled scene info
		logger.Noticef("scene information:\n%s", sc.Stats())

		zipFile := strings.TrimSuffix(sceneFile, ".scene") + ".zip"
		err = writer.WriteScene(sc, zipFile)
		if err != nil {
			return err
		}
	}

	return nil
}

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())
	return nil
}

// List the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Preset", "Description"})
	for _, preset := range presets.List() {
		table.Append([]string{preset.Name, preset.Description})
	}
	table.Render()

	logger.Noticef("built-in scenes\n%s", buf.String())
	return nil
}
