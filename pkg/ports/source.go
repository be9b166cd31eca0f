package ports

import (
	"context"
	"image"
)

// FrameSource produces source pictures in presentation order.
type FrameSource interface {
	// Next returns the next frame, or io.EOF when the source is exhausted.
	Next(ctx context.Context) (image.Image, error)

	// Len returns the total number of frames, or -1 if unknown.
	Len() int

	// Close releases source resources.
	Close() error
}
