package sgm

import "errors"

// Configuration errors, returned by Options.Validate, Initialize and Reset.
var (
	ErrInvalidDimensions   = errors.New("sgm: width and height must be positive")
	ErrEmptyDisparityRange = errors.New("sgm: max disparity must be greater than min disparity")
	ErrInvalidPaths        = errors.New("sgm: number of paths must be 4 or 8")
	ErrInvalidOption       = errors.New("sgm: invalid option")
)

// Invocation errors, returned by Match before any computation starts.
var (
	ErrNotInitialized = errors.New("sgm: matcher is not initialized")
	ErrNilImage       = errors.New("sgm: input image is nil")
	ErrBufferSize     = errors.New("sgm: buffer size does not match image dimensions")
)
