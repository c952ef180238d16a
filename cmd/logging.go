package cmd

import (
	"os"
	"strings"

	"github.com/achilleasa/lumen/log"
	"github.com/urfave/cli"
)

var logger = log.New("lumen")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	if logFile := ctx.GlobalString("log-file"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.Warningf("could not open log file %q: %s", logFile, err.Error())
		} else {
			log.SetSink(f)
		}
	}

	for module, level := range parseModuleLevels(ctx.GlobalStringSlice("log-module")) {
		log.SetModuleLevel(module, level)
	}
}

// Parse per-module level overrides in module=level format. Malformed
// entries and unknown levels are skipped.
func parseModuleLevels(overrides []string) map[string]log.Level {
	levels := make(map[string]log.Level)
	for _, override := range overrides {
		tokens := strings.SplitN(override, "=", 2)
		if len(tokens) != 2 || tokens[0] == "" {
			logger.Warningf("ignoring malformed log level override %q", override)
			continue
		}
		level, err := log.ParseLevel(tokens[1])
		if err != nil {
			logger.Warningf("ignoring log level override %q: %s", override, err.Error())
			continue
		}
		levels[tokens[0]] = level
	}
	return levels
}
