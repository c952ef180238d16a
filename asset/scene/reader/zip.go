package reader

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/asset/scene"
	"github.com/achilleasa/lumen/asset/scene/writer"
	"github.com/achilleasa/lumen/log"
)

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene definition from zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	p.logger.Noticef(`loading compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zipSceneReader: %s: %s", sceneRes.Path(), err.Error())
	}

	sc := scene.New(sceneRes.Name())
	foundObjects := false
	for _, f := range zr.File {
		var target interface{}
		switch f.Name {
		case writer.MetadataFile:
			target = &sc.Name
		case writer.CameraFile:
			target = &sc.Camera
		case writer.ObjectFile:
			target = &sc.Objects
			foundObjects = true
		default:
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		err = gob.NewDecoder(rc).Decode(target)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zipSceneReader: failed to load %s: %s", f.Name, err.Error())
		}
	}

	if !foundObjects {
		return nil, fmt.Errorf("zipSceneReader: %s: missing %s", sceneRes.Path(), writer.ObjectFile)
	}

	p.logger.Noticef("loaded %d objects in %d ms", len(sc.Objects), time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}
