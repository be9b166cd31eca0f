package pipeline

import (
	"github.com/user/h264enc/pkg/ports"
	"github.com/user/h264enc/pkg/session"
)

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains everything needed to encode one stream.
type EncodeInput struct {
	Source ports.FrameSource // Frames to encode, in presentation order
	Sink   ports.LayerSink   // Receives every encoded layer
	Width  int               // Frame width in pixels (even)
	Height int               // Frame height in pixels (even)
	FPS    float64           // Frame rate; frame i is stamped i/FPS seconds
}

// EncodeResult contains the outcome of an encode run.
type EncodeResult struct {
	SessionID        string
	Width            int
	Height           int
	FPS              float64
	KeyframeInterval uint64
	DurationMs       int64 // Timestamp of the last frame plus one frame period
	Stats            session.Stats
}
