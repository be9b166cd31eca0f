package session

import (
	"math"

	"github.com/user/h264enc/pkg/ports"
)

const (
	// DefaultBitrate is the target bitrate handed to every engine, in bits per second.
	DefaultBitrate = 5000000

	// KeyframeSeconds is the distance between forced keyframes.
	KeyframeSeconds = 2
)

// Config is the immutable encoder configuration fixed at Setup.
type Config struct {
	Width     int
	Height    int
	FrameRate float64
	Bitrate   int
	Usage     ports.Usage
}

// KeyframeInterval returns the number of frames between forced keyframes
// for the given frame rate. It is never less than one.
func KeyframeInterval(frameRate float64) uint64 {
	n := math.Round(frameRate * KeyframeSeconds)
	if n < 1 || math.IsNaN(n) {
		return 1
	}
	return uint64(n)
}
