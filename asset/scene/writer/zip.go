package writer

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/lumen/asset/scene"
	"github.com/achilleasa/lumen/log"
)

// Entry names inside compiled scene archives.
const (
	MetadataFile = "metadata.bin"
	CameraFile   = "camera.bin"
	ObjectFile   = "objects.bin"
)

type zipSceneWriter struct {
	logger log.Logger
	out    io.Writer
	name   string
}

// Create a new zip scene writer
func newZipSceneWriter(out io.Writer, name string) *zipSceneWriter {
	return &zipSceneWriter{
		logger: log.New("zip writer"),
		out:    out,
		name:   name,
	}
}

// Create a writer that emits the compiled zip format to out.
func NewZipWriter(out io.Writer) Writer {
	return newZipSceneWriter(out, "stream")
}

// Write scene definition to zip file.
func (w *zipSceneWriter) Write(sc *scene.Scene) error {
	w.logger.Noticef(`writing compiled scene to "%s"`, w.name)
	start := time.Now()

	zw := zip.NewWriter(w.out)

	entries := []struct {
		name string
		data interface{}
	}{
		{MetadataFile, sc.Name},
		{CameraFile, sc.Camera},
		{ObjectFile, sc.Objects},
	}
	for _, entry := range entries {
		cw, err := zw.Create(entry.name)
		if err != nil {
			zw.Close()
			return err
		}
		if err = gob.NewEncoder(cw).Encode(entry.data); err != nil {
			zw.Close()
			return fmt.Errorf("zip writer: failed to encode %s: %s", entry.name, err.Error())
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}

	w.logger.Noticef("wrote %d objects in %d ms", len(sc.Objects), time.Since(start).Nanoseconds()/1e6)
	return nil
}
