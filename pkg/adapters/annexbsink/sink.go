// Package annexbsink writes encoded layers to an io.Writer as a raw
// H.264 Annex B elementary stream.
package annexbsink

import (
	"fmt"
	"io"
	"sync"

	"github.com/user/h264enc/pkg/ports"
)

// Stats counts what a Sink has written.
type Stats struct {
	Layers    uint64
	KeyLayers uint64
	Bytes     uint64
}

// Sink implements ports.LayerSink on top of an io.Writer.
//
// Layers from the session already carry start codes, so they are written
// back to back. The first write error is latched: later layers are dropped
// and the error is reported by Err.
type Sink struct {
	mu    sync.Mutex
	w     io.Writer
	err   error
	stats Stats
}

// New creates a sink writing to w.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// OnEncodedLayer writes one layer.
func (s *Sink) OnEncodedLayer(data []byte, keyFrame bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return
	}
	n, err := s.w.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = fmt.Errorf("write layer %d: %w", s.stats.Layers, err)
		return
	}
	s.stats.Layers++
	s.stats.Bytes += uint64(n)
	if keyFrame {
		s.stats.KeyLayers++
	}
}

// Err returns the first write error, if any.
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stats returns what has been written so far.
func (s *Sink) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Ensure Sink implements ports.LayerSink
var _ ports.LayerSink = (*Sink)(nil)
