package cpu

import "errors"

var (
	ErrNotInitialized      = errors.New("cpu tracer: tracer not initialized")
	ErrAlreadyInitialized  = errors.New("cpu tracer: tracer already initialized")
	ErrNoSceneData         = errors.New("cpu tracer: no scene data")
	ErrNoCamera            = errors.New("cpu tracer: no camera defined")
	ErrInvalidBlockRequest = errors.New("cpu tracer: block request exceeds frame bounds")
	ErrBufferTooSmall      = errors.New("cpu tracer: buffer too small for frame dimensions")
	ErrCameraFrameMismatch = errors.New("cpu tracer: camera frame dimensions do not match tracer frame")
)
