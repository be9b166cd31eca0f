package session

import "sync/atomic"

// Stats is a snapshot of a session's counters.
type Stats struct {
	FramesIn      uint64 // frames accepted by Encode
	FramesEncoded uint64 // frames that produced layers
	FramesSkipped uint64 // frames the engine chose not to emit
	FramesFailed  uint64 // frames rejected by the engine
	Keyframes     uint64
	Layers        uint64
	Bytes         uint64
}

type counters struct {
	framesIn      atomic.Uint64
	framesEncoded atomic.Uint64
	framesSkipped atomic.Uint64
	framesFailed  atomic.Uint64
	keyframes     atomic.Uint64
	layers        atomic.Uint64
	bytes         atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		FramesIn:      c.framesIn.Load(),
		FramesEncoded: c.framesEncoded.Load(),
		FramesSkipped: c.framesSkipped.Load(),
		FramesFailed:  c.framesFailed.Load(),
		Keyframes:     c.keyframes.Load(),
		Layers:        c.layers.Load(),
		Bytes:         c.bytes.Load(),
	}
}
