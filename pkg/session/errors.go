package session

import (
	"errors"
	"fmt"

	"github.com/user/h264enc/pkg/colorconv"
	"github.com/user/h264enc/pkg/framebuf"
	"github.com/user/h264enc/pkg/ports"
)

var (
	// ErrConfiguration is returned for invalid setup parameters and for
	// input frames that cannot be converted.
	ErrConfiguration = errors.New("h264enc: invalid configuration")

	// ErrEngineInit is returned when the engine rejects its parameters.
	ErrEngineInit = errors.New("h264enc: engine initialization failed")

	// ErrSizeMismatch is returned when a frame does not match the session's
	// I420 buffer size. It is the same value as framebuf.ErrSizeMismatch.
	ErrSizeMismatch = framebuf.ErrSizeMismatch

	// ErrNotReady is returned when encoding before Setup or after Close.
	ErrNotReady = errors.New("h264enc: session not ready")
)

// Status codes for local failures. Engine failures report the engine's own
// non-zero code instead.
const (
	StatusOK                = 0
	StatusEngineInit        = -1
	StatusSizeMismatch      = -2
	StatusConfiguration     = -3
	StatusUnsupportedFormat = -4
	StatusNotReady          = -5
)

// EncodeError reports an engine failure while encoding a frame.
type EncodeError struct {
	Frame  uint64 // zero-based frame index
	Status int    // engine status, never zero
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("h264enc: encode frame %d failed with status %d: %v", e.Frame, e.Status, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Status maps an error returned by a Session to its integer status code.
func Status(err error) int {
	if err == nil {
		return StatusOK
	}
	var encErr *EncodeError
	switch {
	case errors.As(err, &encErr):
		return encErr.Status
	case errors.Is(err, ErrEngineInit):
		return StatusEngineInit
	case errors.Is(err, ErrSizeMismatch):
		return StatusSizeMismatch
	case errors.Is(err, colorconv.ErrUnsupportedFormat):
		return StatusUnsupportedFormat
	case errors.Is(err, ErrNotReady):
		return StatusNotReady
	default:
		return StatusConfiguration
	}
}

// engineStatus extracts the native code carried by an engine error.
func engineStatus(err error) int {
	var st ports.EngineStatus
	if errors.As(err, &st) && st != 0 {
		return int(st)
	}
	return int(ports.EngineStatusUnknown)
}
