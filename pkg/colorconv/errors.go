package colorconv

import "errors"

var (
	// ErrUnsupportedFormat is returned for pixel formats other than 24- or 32-bit RGB.
	ErrUnsupportedFormat = errors.New("colorconv: unsupported pixel format")

	// ErrInvalidDimensions is returned when width or height is not positive and even.
	ErrInvalidDimensions = errors.New("colorconv: invalid dimensions")

	// ErrInvalidFrame is returned when a buffer is too short for its declared geometry.
	ErrInvalidFrame = errors.New("colorconv: invalid frame")
)
