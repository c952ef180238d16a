package renderer

import "errors"

var (
	ErrNoTracers        = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrFrameMismatch    = errors.New("renderer: camera frame dimensions do not match renderer options")
	ErrInvalidFrameDims = errors.New("renderer: invalid frame dimensions")
)
